package gemini

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	models "github.com/vocta-football/vocta/models"
)

const defaultModel = "gemini-2.5-flash"

// APIError is an upstream provider failure carrying the HTTP status Gemini
// reported, so callers can surface it instead of a generic 502.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: %s (status %d)", e.Message, e.Status)
}

// Gemini_Model talks to the Gemini generateContent REST API directly.
type Gemini_Model struct {
	Model        string `json:"model"`
	APIKey       string `json:"-"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

func (g *Gemini_Model) Model_Request(request models.Model_Request, tools []models.FunctionDeclaration, conversationHistory []models.Chat_Message) (models.Model_Response, error) {
	if request.User_Message == nil && request.Tool_Results == nil {
		return models.Model_Response{}, fmt.Errorf("request must contain either user message or tool results")
	}
	if g.APIKey == "" {
		return models.Model_Response{}, fmt.Errorf("gemini: missing API key")
	}

	modelToUse := g.Model
	if modelToUse == "" {
		modelToUse = defaultModel
	}

	requestBody, err := create_gemini_request(request, tools, conversationHistory, g.SystemPrompt)
	if err != nil {
		return models.Model_Response{}, fmt.Errorf("failed to create gemini request: %w", err)
	}
	jsonBytes, err := json.Marshal(requestBody)
	if err != nil {
		return models.Model_Response{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	geminiResponse, err := g.make_request(string(jsonBytes), modelToUse)
	if err != nil {
		return models.Model_Response{}, err
	}
	return gemini_response_to_model_response(geminiResponse), nil
}

func gemini_response_to_model_response(response Gemini_response) models.Model_Response {
	modelResponse := models.Model_Response{}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			var modelPart models.Model_Part
			if part.Text != nil && *part.Text != "" {
				modelPart.Text = part.Text
			}
			if part.FunctionCall != nil {
				modelPart.FunctionCall = &models.FunctionCall{
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				}
			}
			modelResponse.Parts = append(modelResponse.Parts, modelPart)
		}
	}
	return modelResponse
}

func (g *Gemini_Model) make_request(requestBody string, model string) (Gemini_response, error) {
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", model, g.APIKey)
	resp, err := http.Post(url, "application/json", strings.NewReader(requestBody))
	if err != nil {
		return Gemini_response{}, fmt.Errorf("error making POST request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Gemini_response{}, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var geminiErr Gemini_error
		message := strings.TrimSpace(string(body))
		if err := json.Unmarshal(body, &geminiErr); err == nil && geminiErr.Error.Message != "" {
			message = geminiErr.Error.Message
		}
		return Gemini_response{}, &APIError{Status: resp.StatusCode, Message: message}
	}

	var response Gemini_response
	if err := json.Unmarshal(body, &response); err != nil {
		return Gemini_response{}, fmt.Errorf("error unmarshalling response: %w", err)
	}
	return response, nil
}

// create_gemini_request assembles the full stateless turn: role-mapped
// history, the current user turn, and (on the tool round) the echoed
// function call followed by its function response.
func create_gemini_request(request models.Model_Request, tools []models.FunctionDeclaration, conversationHistory []models.Chat_Message, systemPrompt string) (Gemini_Request_Body, error) {
	allContents := []Gemini_Content{}

	for _, histMsg := range conversationHistory {
		if strings.TrimSpace(histMsg.Content) == "" {
			continue
		}
		role := histMsg.Role
		if role != "user" && role != "model" {
			role = "model"
		}
		allContents = append(allContents, Gemini_Content{
			Role:  role,
			Parts: []Request_Part{{Text: histMsg.Content}},
		})
	}

	if request.User_Message != nil && request.User_Message.Text != "" {
		allContents = append(allContents, Gemini_Content{
			Role:  "user",
			Parts: []Request_Part{{Text: request.User_Message.Text}},
		})
	}

	// The tool round replays the model's own function call before the
	// function response; Gemini rejects a response with no preceding call.
	if request.Function_Call != nil {
		allContents = append(allContents, Gemini_Content{
			Role:  "model",
			Parts: []Request_Part{{FunctionCall: request.Function_Call}},
		})
	}

	if request.Tool_Results != nil {
		for _, tr := range *request.Tool_Results {
			allContents = append(allContents, Gemini_Content{
				Role: "user",
				Parts: []Request_Part{{FunctionResponse: &models.FunctionResponse{
					Name:     tr.Tool_Name,
					Response: tr.Tool_Output,
				}}},
			})
		}
	}

	if len(allContents) == 0 {
		return Gemini_Request_Body{}, fmt.Errorf("cannot create Gemini request with no content (history, tool results, or user message)")
	}

	var geminiTools *[]Gemini_Tools
	if len(tools) > 0 {
		t := []Gemini_Tools{{FunctionDeclarations: ConvertToGeminiFunctionDeclarations(tools)}}
		geminiTools = &t
	}

	var systemInstruction *SystemInstruction
	if systemPrompt != "" {
		systemInstruction = &SystemInstruction{
			Parts: []SystemPart{{Text: systemPrompt}},
		}
	}

	return Gemini_Request_Body{
		Contents:          &allContents,
		Tools:             geminiTools,
		SystemInstruction: systemInstruction,
	}, nil
}
