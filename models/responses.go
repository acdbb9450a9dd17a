package models

import "strings"

type Model_Response struct {
	Parts []Model_Part `json:"parts"`
}

//may be a string or a function call and it will be parts

type FunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type FunctionResponse struct {
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

type Model_Part struct {
	Text         *string       `json:"text,omitempty"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
}

// FirstFunctionCall returns the first function call in the response, or nil.
// When the model offers several, only the first is honored.
func (r Model_Response) FirstFunctionCall() *FunctionCall {
	for _, part := range r.Parts {
		if part.FunctionCall != nil {
			return part.FunctionCall
		}
	}
	return nil
}

// Text concatenates all text parts of the response.
func (r Model_Response) Text() string {
	var b strings.Builder
	for _, part := range r.Parts {
		if part.Text != nil {
			b.WriteString(*part.Text)
		}
	}
	return b.String()
}

// TextResponse wraps plain text as a single-part response.
func TextResponse(text string) Model_Response {
	return Model_Response{Parts: []Model_Part{{Text: &text}}}
}
