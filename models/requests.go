package models

// Chat_Body is the raw POST /chat request body. The client is authoritative
// for history: the server reconstructs the full conversation context from
// whatever the client resubmits each call.
type Chat_Body struct {
	Message  string         `json:"message,omitempty"`
	Messages []Chat_Message `json:"messages,omitempty"`
}

// Chat_Message is one entry of client-supplied history. Role is the client
// vocabulary ("user", "assistant", "system") before normalization and the
// model vocabulary ("user", "model") after.
type Chat_Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Model_Request struct {
	User_Message *User_Message `json:"message,omitempty"`
	// Function_Call echoes the call the model issued in the first round so a
	// stateless second round can replay the full turn before the tool result.
	Function_Call *FunctionCall  `json:"function_call,omitempty"`
	Tool_Results  *[]Tool_Result `json:"tool_results,omitempty"`
}

type User_Message struct {
	Text string `json:"text"`
}

type Tool_Result struct {
	Tool_Name   string                 `json:"tool_name"`
	Tool_Output map[string]interface{} `json:"tool_output"`
}
