package vocta

import (
	models "github.com/vocta-football/vocta/models"
)

// Model is the opaque language model boundary. A response contains either
// plain text parts, a function call, or both; nothing else is assumed.
type Model interface {
	Model_Request(request models.Model_Request, tools []models.FunctionDeclaration, conversationHistory []models.Chat_Message) (models.Model_Response, error)
}

type Agent struct {
	Model Model
	Tools []models.FunctionDeclaration
}

func Create_Agent(model Model, tools []models.FunctionDeclaration) Agent {
	return Agent{
		Model: model,
		Tools: tools,
	}
}

func (agent *Agent) Run(request models.Model_Request, conversationHistory []models.Chat_Message) (models.Model_Response, error) {
	return agent.Model.Model_Request(request, agent.Tools, conversationHistory)
}
