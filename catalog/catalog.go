package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed catalog.json
var catalogFiles embed.FS

// Product is one catalog entry. The catalog is loaded once at startup and
// never mutated; PriceFormatted is derived from Price during loading.
type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Condition      string `json:"condition"`
	Price          int    `json:"price"`
	PriceFormatted string `json:"priceFormatted"`
	Image          string `json:"image"`
}

// Catalog is an immutable, in-memory product list with fuzzy name lookup.
type Catalog struct {
	products []Product
}

// Load reads the embedded catalog file and derives display prices.
func Load() (*Catalog, error) {
	data, err := catalogFiles.ReadFile("catalog.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	for i := range products {
		if products[i].PriceFormatted == "" {
			products[i].PriceFormatted = FormatIDR(products[i].Price)
		}
	}

	return &Catalog{products: products}, nil
}

// Products returns all catalog entries in catalog order.
func (c *Catalog) Products() []Product {
	return c.products
}

// FindByName resolves a free-text name fragment to the first product whose
// display name contains it, case-insensitively. An empty fragment matches
// nothing. Returns a copy so callers can't mutate the catalog.
func (c *Catalog) FindByName(fragment string) *Product {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return nil
	}
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), fragment) {
			found := p
			return &found
		}
	}
	return nil
}

// FindMentioned returns the first product whose full display name appears as
// a case-insensitive substring of the given text.
func (c *Catalog) FindMentioned(text string) *Product {
	lower := strings.ToLower(text)
	for _, p := range c.products {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			found := p
			return &found
		}
	}
	return nil
}

// Snapshot renders the catalog as one line per product, in catalog order, for
// injection into the model's grounding context.
func (c *Catalog) Snapshot() string {
	var b strings.Builder
	for i, p := range c.products {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s — %s", p.Name, p.PriceFormatted)
	}
	return b.String()
}

// FormatIDR formats an amount in the smallest currency unit as a display
// price, e.g. 1250000 -> "Rp 1,250,000".
func FormatIDR(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return "Rp " + b.String()
}
