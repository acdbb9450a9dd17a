// Package genai adapts the official Google GenAI SDK to the same Model
// contract as the raw REST backend. Selected with MODEL_BACKEND=genai.
package genai

import (
	"context"
	"fmt"

	models "github.com/vocta-football/vocta/models"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

type GenAI_Model struct {
	Model        string
	APIKey       string
	SystemPrompt string
}

func (g *GenAI_Model) Model_Request(request models.Model_Request, tools []models.FunctionDeclaration, conversationHistory []models.Chat_Message) (models.Model_Response, error) {
	if request.User_Message == nil && request.Tool_Results == nil {
		return models.Model_Response{}, fmt.Errorf("request must contain either user message or tool results")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return models.Model_Response{}, fmt.Errorf("failed to create genai client: %w", err)
	}

	modelToUse := g.Model
	if modelToUse == "" {
		modelToUse = defaultModel
	}

	contents := buildContents(request, conversationHistory)
	if len(contents) == 0 {
		return models.Model_Response{}, fmt.Errorf("cannot create request with no content")
	}

	config := &genai.GenerateContentConfig{}
	if g.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: g.SystemPrompt}},
		}
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: convertDeclarations(tools)}}
	}

	resp, err := client.Models.GenerateContent(ctx, modelToUse, contents, config)
	if err != nil {
		return models.Model_Response{}, fmt.Errorf("genai request failed: %w", err)
	}
	return convertResponse(resp), nil
}

func buildContents(request models.Model_Request, conversationHistory []models.Chat_Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(conversationHistory)+3)

	for _, histMsg := range conversationHistory {
		if histMsg.Content == "" {
			continue
		}
		role := genai.RoleModel
		if histMsg.Role == "user" {
			role = genai.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: histMsg.Content}},
		})
	}

	if request.User_Message != nil && request.User_Message.Text != "" {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: request.User_Message.Text}},
		})
	}

	if request.Function_Call != nil {
		contents = append(contents, &genai.Content{
			Role: genai.RoleModel,
			Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{
				Name: request.Function_Call.Name,
				Args: request.Function_Call.Args,
			}}},
		})
	}

	if request.Tool_Results != nil {
		for _, tr := range *request.Tool_Results {
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{
					Name:     tr.Tool_Name,
					Response: tr.Tool_Output,
				}}},
			})
		}
	}

	return contents
}

func convertDeclarations(fds []models.FunctionDeclaration) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, len(fds))
	for i, fd := range fds {
		result[i] = &genai.FunctionDeclaration{
			Name:        fd.Name,
			Description: fd.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: convertProperties(fd.Parameters.Properties),
				Required:   fd.Parameters.Required,
			},
		}
	}
	return result
}

func convertProperties(props map[string]interface{}) map[string]*genai.Schema {
	result := make(map[string]*genai.Schema, len(props))
	for name, raw := range props {
		prop, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		result[name] = convertSchema(prop)
	}
	return result
}

func convertSchema(prop map[string]interface{}) *genai.Schema {
	schema := &genai.Schema{}
	if t, ok := prop["type"].(string); ok {
		switch t {
		case "string":
			schema.Type = genai.TypeString
		case "integer":
			schema.Type = genai.TypeInteger
		case "number":
			schema.Type = genai.TypeNumber
		case "boolean":
			schema.Type = genai.TypeBoolean
		case "array":
			schema.Type = genai.TypeArray
		case "object":
			schema.Type = genai.TypeObject
		}
	}
	if d, ok := prop["description"].(string); ok {
		schema.Description = d
	}
	if items, ok := prop["items"].(map[string]interface{}); ok {
		schema.Items = convertSchema(items)
	}
	return schema
}

func convertResponse(resp *genai.GenerateContentResponse) models.Model_Response {
	modelResponse := models.Model_Response{}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			var modelPart models.Model_Part
			if part.Text != "" {
				text := part.Text
				modelPart.Text = &text
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
