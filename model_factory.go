package vocta

import (
	"github.com/vocta-football/vocta/models/gemini"
	"github.com/vocta-football/vocta/models/genai"
)

// NewModel builds the configured model backend with the given system prompt.
func NewModel(cfg Config, systemPrompt string) Model {
	switch cfg.ModelBackend {
	case "genai":
		return &genai.GenAI_Model{
			Model:        cfg.ModelID,
			APIKey:       cfg.APIKey,
			SystemPrompt: systemPrompt,
		}
	default:
		return &gemini.Gemini_Model{
			Model:        cfg.ModelID,
			APIKey:       cfg.APIKey,
			SystemPrompt: systemPrompt,
		}
	}
}
