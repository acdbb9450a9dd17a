package shoptools

import (
	"testing"

	"github.com/vocta-football/vocta/catalog"
)

func mustLoadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return cat
}

func TestCalculateTotal_SumsMatchedPrices(t *testing.T) {
	cat := mustLoadCatalog(t)
	args := map[string]interface{}{
		"productNames": []interface{}{"Home Shirt", "Third Shirt"},
	}

	result := Calculate_Total(cat, args)
	if result.TotalPrice != 2050000 {
		t.Errorf("Expected total 2050000, got %d", result.TotalPrice)
	}
	if result.Formatted != "Rp 2,050,000" {
		t.Errorf("Unexpected formatted total: %q", result.Formatted)
	}
	if result.Currency != "Rp" {
		t.Errorf("Unexpected currency: %q", result.Currency)
	}
	if len(result.FoundProducts) != 2 {
		t.Errorf("Expected 2 found products, got %d", len(result.FoundProducts))
	}
}

func TestCalculateTotal_Idempotent(t *testing.T) {
	cat := mustLoadCatalog(t)
	args := map[string]interface{}{
		"productNames": []interface{}{"Home Shirt", "Away Shirt"},
	}

	first := Calculate_Total(cat, args)
	second := Calculate_Total(cat, args)

	if first.TotalPrice != second.TotalPrice {
		t.Errorf("Totals differ between calls: %d vs %d", first.TotalPrice, second.TotalPrice)
	}
	if len(first.FoundProducts) != len(second.FoundProducts) {
		t.Errorf("Found products differ between calls: %v vs %v", first.FoundProducts, second.FoundProducts)
	}
	for i := range first.FoundProducts {
		if first.FoundProducts[i] != second.FoundProducts[i] {
			t.Errorf("Found product %d differs: %q vs %q", i, first.FoundProducts[i], second.FoundProducts[i])
		}
	}
}

func TestCalculateTotal_UnmatchedNames(t *testing.T) {
	cat := mustLoadCatalog(t)
	args := map[string]interface{}{
		"productNames": []interface{}{"Nonexistent Jersey XYZ"},
	}

	result := Calculate_Total(cat, args)
	if result.TotalPrice != 0 {
		t.Errorf("Expected total 0, got %d", result.TotalPrice)
	}
	if result.FoundProducts == nil {
		t.Error("FoundProducts must be an empty list, not nil")
	}
	if len(result.FoundProducts) != 0 {
		t.Errorf("Expected no found products, got %v", result.FoundProducts)
	}
}

func TestCalculateTotal_MalformedArgs(t *testing.T) {
	cat := mustLoadCatalog(t)

	cases := []map[string]interface{}{
		{},
		{"productNames": nil},
		{"productNames": "Home Shirt"},
		{"productNames": 42},
		{"productNames": []interface{}{7, true}},
	}

	for i, args := range cases {
		result := Calculate_Total(cat, args)
		if result.TotalPrice != 0 {
			t.Errorf("Case %d: expected total 0, got %d", i, result.TotalPrice)
		}
		if len(result.FoundProducts) != 0 {
			t.Errorf("Case %d: expected no found products, got %v", i, result.FoundProducts)
		}
	}
}

func TestCalculateTotal_SkipsNonStringItems(t *testing.T) {
	cat := mustLoadCatalog(t)
	args := map[string]interface{}{
		"productNames": []interface{}{"Home Shirt", 42, nil},
	}

	result := Calculate_Total(cat, args)
	if result.TotalPrice != 1250000 {
		t.Errorf("Expected total 1250000, got %d", result.TotalPrice)
	}
	if len(result.FoundProducts) != 1 {
		t.Errorf("Expected 1 found product, got %v", result.FoundProducts)
	}
}

func TestResolveCartAdd_FuzzyMatch(t *testing.T) {
	cat := mustLoadCatalog(t)

	product, name := Resolve_Cart_Add(cat, map[string]interface{}{"productName": "milan home"})
	if product == nil {
		t.Fatal("Expected a matched product, got nil")
	}
	if product.ID != "1" {
		t.Errorf("Expected product id 1, got %s", product.ID)
	}
	if name != "milan home" {
		t.Errorf("Expected requested name to be echoed, got %q", name)
	}
}

func TestResolveCartAdd_NotFound(t *testing.T) {
	cat := mustLoadCatalog(t)

	product, name := Resolve_Cart_Add(cat, map[string]interface{}{"productName": "Inter shirt"})
	if product != nil {
		t.Errorf("Expected nil for unmatched name, got %s", product.Name)
	}
	if name != "Inter shirt" {
		t.Errorf("Expected requested name to be echoed, got %q", name)
	}
}

func TestResolveCartAdd_MalformedArgs(t *testing.T) {
	cat := mustLoadCatalog(t)

	if product, _ := Resolve_Cart_Add(cat, map[string]interface{}{}); product != nil {
		t.Errorf("Expected nil for missing productName, got %s", product.Name)
	}
	if product, _ := Resolve_Cart_Add(cat, map[string]interface{}{"productName": 42}); product != nil {
		t.Errorf("Expected nil for non-string productName, got %s", product.Name)
	}
}

func TestCartAddResponse(t *testing.T) {
	cat := mustLoadCatalog(t)
	product := cat.FindByName("milan home")

	response := CartAddResponse(product)
	if response["success"] != true {
		t.Error("Expected success true")
	}
	if response["productName"] != "2025-26 AC Milan Home Shirt" {
		t.Errorf("Unexpected productName: %v", response["productName"])
	}
	if response["price"] != "Rp 1,250,000" {
		t.Errorf("Unexpected price: %v", response["price"])
	}
}

func TestStoreTools_Declarations(t *testing.T) {
	tools := StoreTools()
	if len(tools) != 2 {
		t.Fatalf("Expected 2 tool declarations, got %d", len(tools))
	}
	if tools[0].Name != ToolCalculateTotal {
		t.Errorf("Expected first tool %s, got %s", ToolCalculateTotal, tools[0].Name)
	}
	if tools[1].Name != ToolAddToCartByName {
		t.Errorf("Expected second tool %s, got %s", ToolAddToCartByName, tools[1].Name)
	}

	if _, ok := tools[0].Parameters.Properties["productNames"]; !ok {
		t.Error("calculateTotal must declare productNames")
	}
	if _, ok := tools[1].Parameters.Properties["productName"]; !ok {
		t.Error("addToCartByName must declare productName")
	}
	if len(tools[1].Parameters.Required) != 1 || tools[1].Parameters.Required[0] != "productName" {
		t.Errorf("Unexpected required list: %v", tools[1].Parameters.Required)
	}
}
