package shoptools

import (
	"github.com/vocta-football/vocta/catalog"
)

// TotalResult is the structured outcome of a price aggregation. It is fed
// back to the model verbatim so the phrasing is natural language while the
// arithmetic stays deterministic.
type TotalResult struct {
	Currency      string   `json:"currency"`
	TotalPrice    int      `json:"totalPrice"`
	Formatted     string   `json:"formatted"`
	FoundProducts []string `json:"foundProducts"`
}

// AsResponse shapes the result as a function response payload.
func (r TotalResult) AsResponse() map[string]interface{} {
	return map[string]interface{}{
		"currency":      r.Currency,
		"totalPrice":    r.TotalPrice,
		"formatted":     r.Formatted,
		"foundProducts": r.FoundProducts,
	}
}

// Calculate_Total sums the prices of the catalog entries matched by the
// model-supplied name fragments. Matching is best-effort: unmatched
// fragments are silently skipped, and a malformed argument bag (missing or
// non-list productNames) yields an empty aggregation rather than an error.
func Calculate_Total(cat *catalog.Catalog, args map[string]interface{}) TotalResult {
	names := stringList(args["productNames"])

	total := 0
	found := []string{}
	for _, name := range names {
		if p := cat.FindByName(name); p != nil {
			total += p.Price
			found = append(found, p.Name)
		}
	}

	return TotalResult{
		Currency:      "Rp",
		TotalPrice:    total,
		Formatted:     catalog.FormatIDR(total),
		FoundProducts: found,
	}
}

// stringList coerces a decoded JSON value into a list of strings, skipping
// non-string elements. Anything that isn't a list yields nil.
func stringList(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			names = append(names, s)
		}
	}
	return names
}
