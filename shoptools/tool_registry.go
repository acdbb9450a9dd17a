package shoptools

import (
	"github.com/vocta-football/vocta/models"
)

// Tool names the dispatcher switches on. Exactly these two are declared to
// the model; one side effect per turn.
const (
	ToolCalculateTotal  = "calculateTotal"
	ToolAddToCartByName = "addToCartByName"
)

// CalculateTotalTool returns the FunctionDeclaration for price aggregation.
func CalculateTotalTool() models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        ToolCalculateTotal,
		Description: "Calculate the total price of a list of product names.",
		Parameters: models.Parameters{
			Type: "object",
			Properties: map[string]interface{}{
				"productNames": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
			Required: []string{"productNames"},
		},
		Callable: Calculate_Total,
	}
}

// AddToCartTool returns the FunctionDeclaration for cart-add resolution.
func AddToCartTool() models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        ToolAddToCartByName,
		Description: "Adds a product to the user's shopping cart by its name.",
		Parameters: models.Parameters{
			Type: "object",
			Properties: map[string]interface{}{
				"productName": map[string]interface{}{
					"type":        "string",
					"description": "The full or partial name of the product to add.",
				},
			},
			Required: []string{"productName"},
		},
		Callable: Resolve_Cart_Add,
	}
}

// StoreTools returns every tool declared to the model on the chat channel.
func StoreTools() []models.FunctionDeclaration {
	return []models.FunctionDeclaration{
		CalculateTotalTool(),
		AddToCartTool(),
	}
}
