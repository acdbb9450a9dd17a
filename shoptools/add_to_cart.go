package shoptools

import (
	"github.com/vocta-football/vocta/catalog"
)

// Resolve_Cart_Add resolves an addToCartByName argument bag to a catalog
// product. Returns the matched product (nil when nothing matches) and the
// raw requested name for use in not-found messages. The dispatcher, not
// this function, emits the addToCart action; the server never mutates the
// client-owned cart.
func Resolve_Cart_Add(cat *catalog.Catalog, args map[string]interface{}) (*catalog.Product, string) {
	name, _ := args["productName"].(string)
	if name == "" {
		return nil, name
	}
	return cat.FindByName(name), name
}

// CartAddResponse shapes the successful-add function response payload fed
// back to the model for the confirmation phrasing round.
func CartAddResponse(p *catalog.Product) map[string]interface{} {
	return map[string]interface{}{
		"success":     true,
		"productName": p.Name,
		"price":       p.PriceFormatted,
	}
}
