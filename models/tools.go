package models

// FunctionDeclaration describes one tool offered to the model. The store
// declares exactly two (calculateTotal and addToCartByName); both backends
// translate this shape into their provider's tool format. Callable holds
// the Go-side executor for reference and never goes over the wire.
type FunctionDeclaration struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  Parameters  `json:"parameters"`
	Callable    interface{} `json:"-"`
}

// Parameters is the JSON Schema describing a tool's argument bag. The model
// is not guaranteed to honor it; executors re-validate argument shapes.
type Parameters struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required"`
}
