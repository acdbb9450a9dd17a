package models

import "github.com/vocta-football/vocta/catalog"

// Action values a client cart can apply.
const ActionAddToCart = "addToCart"

// Component values a client renderer understands.
const ComponentProductCard = "product-card"

// ResponseEnvelope is the single response shape every channel renders: text
// chat, voice relay and dashboard mirror. At most one of the optional action
// or component shapes is present; Message always carries readable text, even
// alongside an action, so no client has to special-case confirmations.
type ResponseEnvelope struct {
	Message        string           `json:"message"`
	Action         string           `json:"action,omitempty"`
	ActionParams   *ActionParams    `json:"actionParams,omitempty"`
	Component      string           `json:"component,omitempty"`
	ComponentProps *catalog.Product `json:"componentProps,omitempty"`
}

type ActionParams struct {
	Product catalog.Product `json:"product"`
}
