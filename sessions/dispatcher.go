// Package sessions drives one conversational turn against the model:
// grounding + history + utterance in, exactly one response envelope out.
package sessions

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	vocta "github.com/vocta-football/vocta"
	"github.com/vocta-football/vocta/catalog"
	"github.com/vocta-football/vocta/models"
	"github.com/vocta-football/vocta/shoptools"
	"github.com/vocta-football/vocta/stores"
)

// Channel names for turn traces.
const (
	ChannelChat  = "chat"
	ChannelVoice = "voice"
)

// ChatSession runs dispatcher turns for one conversation. It holds no
// message state between turns: the caller resubmits history every call.
type ChatSession struct {
	Agent          *vocta.Agent
	Catalog        *catalog.Catalog
	Store          stores.TraceStore
	Logger         *log.Logger
	ConversationID string
	Channel        string
}

// NewChatSession creates a session for one conversation
func NewChatSession(conversationID, channel string, agent *vocta.Agent, cat *catalog.Catalog, store stores.TraceStore) *ChatSession {
	logger := log.New(os.Stdout, fmt.Sprintf("[CHAT %s] ", conversationID), log.LstdFlags)

	return &ChatSession{
		Agent:          agent,
		Catalog:        cat,
		Store:          store,
		Logger:         logger,
		ConversationID: conversationID,
		Channel:        channel,
	}
}

// RunTurn executes one full turn: model round one, at most one tool
// execution, and a phrasing round when a tool ran. The model may offer
// several function calls; only the first is honored.
func (s *ChatSession) RunTurn(history []models.Chat_Message, utterance string) (models.ResponseEnvelope, error) {
	turnID := uuid.New().String()
	start := time.Now()

	grounded := make([]models.Chat_Message, 0, len(history)+1)
	grounded = append(grounded, models.Chat_Message{
		Role:    "user",
		Content: vocta.GroundingContext(s.Catalog),
	})
	grounded = append(grounded, history...)

	req := models.Model_Request{
		User_Message: &models.User_Message{Text: utterance},
	}

	response, err := s.Agent.Run(req, grounded)
	if err != nil {
		s.Logger.Printf("Turn %s: model error: %v", turnID, err)
		s.trace(turnID, "", "error", err.Error(), start)
		return models.ResponseEnvelope{}, err
	}

	call := response.FirstFunctionCall()
	if call == nil {
		envelope := s.shapePlainReply(response.Text())
		s.trace(turnID, "", "ok", envelopeShape(envelope), start)
		return envelope, nil
	}

	s.Logger.Printf("Turn %s: tool call %s", turnID, call.Name)

	var envelope models.ResponseEnvelope
	switch call.Name {
	case shoptools.ToolAddToCartByName:
		envelope = s.runCartAdd(req, call, grounded)
	case shoptools.ToolCalculateTotal:
		envelope = s.runCalculateTotal(req, call, grounded)
	default:
		// Unknown tool name: treat the turn as plain text.
		s.Logger.Printf("Turn %s: ignoring unknown tool %s", turnID, call.Name)
		envelope = s.shapePlainReply(response.Text())
	}

	s.trace(turnID, call.Name, "ok", envelopeShape(envelope), start)
	return envelope, nil
}

// envelopeShape summarizes which terminal shape a turn produced. Traces
// record only this summary: conversation content never reaches the store.
func envelopeShape(envelope models.ResponseEnvelope) string {
	switch {
	case envelope.Action != "":
		return "action:" + envelope.Action
	case envelope.Component != "":
		return "component:" + envelope.Component
	default:
		return "plain"
	}
}

// runCartAdd resolves the named product and, when found, runs the phrasing
// round so the confirmation reads naturally. The envelope always carries the
// action so the client cart can apply it without parsing the message.
func (s *ChatSession) runCartAdd(firstReq models.Model_Request, call *models.FunctionCall, grounded []models.Chat_Message) models.ResponseEnvelope {
	product, requestedName := shoptools.Resolve_Cart_Add(s.Catalog, call.Args)
	if product == nil {
		return models.ResponseEnvelope{
			Message: fmt.Sprintf("Sorry, I couldn't find a product named %q in our catalog.", requestedName),
		}
	}

	message := s.phraseToolResult(firstReq, call, grounded, shoptools.CartAddResponse(product))
	if message == "" {
		message = fmt.Sprintf("The %s has been added to your cart.", product.Name)
	}

	return models.ResponseEnvelope{
		Message:      message,
		Action:       models.ActionAddToCart,
		ActionParams: &models.ActionParams{Product: *product},
	}
}

// runCalculateTotal sums matched prices deterministically, then lets the
// model phrase the result.
func (s *ChatSession) runCalculateTotal(firstReq models.Model_Request, call *models.FunctionCall, grounded []models.Chat_Message) models.ResponseEnvelope {
	result := shoptools.Calculate_Total(s.Catalog, call.Args)

	message := s.phraseToolResult(firstReq, call, grounded, result.AsResponse())
	if message == "" {
		message = fmt.Sprintf("The total is %s.", result.Formatted)
	}

	return models.ResponseEnvelope{Message: message}
}

// phraseToolResult runs the second model round: the original user turn, the
// model's own function call, and the tool output are replayed so the model
// can word the outcome. A failed or empty phrasing round returns "" and the
// caller falls back to a fixed template.
func (s *ChatSession) phraseToolResult(firstReq models.Model_Request, call *models.FunctionCall, grounded []models.Chat_Message, output map[string]interface{}) string {
	toolResults := []models.Tool_Result{
		{Tool_Name: call.Name, Tool_Output: output},
	}

	followUp := models.Model_Request{
		User_Message:  firstReq.User_Message,
		Function_Call: call,
		Tool_Results:  &toolResults,
	}

	response, err := s.Agent.Run(followUp, grounded)
	if err != nil {
		s.Logger.Printf("Phrasing round failed for %s: %v", call.Name, err)
		return ""
	}

	return response.Text()
}

// shapePlainReply passes model text through, except when the reply mentions
// a catalog product by name: then the client gets a product card instead.
// Voice turns always keep the model's own words; a card caption would be
// spoken in place of the reply.
func (s *ChatSession) shapePlainReply(text string) models.ResponseEnvelope {
	if s.Channel == ChannelVoice {
		return models.ResponseEnvelope{Message: text}
	}
	if product := s.Catalog.FindMentioned(text); product != nil {
		return models.ResponseEnvelope{
			Message:        fmt.Sprintf("Here is the %s you asked about.", product.Name),
			Component:      models.ComponentProductCard,
			ComponentProps: product,
		}
	}

	return models.ResponseEnvelope{Message: text}
}

// trace records turn diagnostics. Failures are logged, never surfaced: a
// broken trace store must not break the conversation.
func (s *ChatSession) trace(turnID, toolName, status, detail string, start time.Time) {
	if s.Store == nil {
		return
	}

	record := &stores.TurnTrace{
		ConversationID: s.ConversationID,
		TurnID:         turnID,
		Channel:        s.Channel,
		ToolName:       toolName,
		Status:         status,
		Detail:         detail,
		DurationMS:     time.Since(start).Milliseconds(),
	}

	if err := s.Store.SaveTrace(record); err != nil {
		s.Logger.Printf("Failed to save turn trace %s: %v", turnID, err)
	}
}
