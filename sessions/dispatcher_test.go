package sessions

import (
	"errors"
	"strings"
	"testing"

	vocta "github.com/vocta-football/vocta"
	"github.com/vocta-football/vocta/catalog"
	"github.com/vocta-football/vocta/models"
	"github.com/vocta-football/vocta/shoptools"
	"github.com/vocta-football/vocta/stores"
)

// stubModel replays canned responses and records everything it was asked.
type stubModel struct {
	responses []models.Model_Response
	errs      []error
	calls     int
	requests  []models.Model_Request
	histories [][]models.Chat_Message
}

func (m *stubModel) Model_Request(request models.Model_Request, tools []models.FunctionDeclaration, conversationHistory []models.Chat_Message) (models.Model_Response, error) {
	i := m.calls
	m.calls++
	m.requests = append(m.requests, request)
	m.histories = append(m.histories, conversationHistory)

	if i < len(m.errs) && m.errs[i] != nil {
		return models.Model_Response{}, m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return models.Model_Response{}, nil
}

func functionCallResponse(name string, args map[string]interface{}) models.Model_Response {
	return models.Model_Response{Parts: []models.Model_Part{
		{FunctionCall: &models.FunctionCall{Name: name, Args: args}},
	}}
}

func newTestSession(t *testing.T, model *stubModel) *ChatSession {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	agent := vocta.Create_Agent(model, shoptools.StoreTools())
	return NewChatSession("test-conv", ChannelChat, &agent, cat, stores.NewNoopStore())
}

func TestRunTurn_PlainReply(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			models.TextResponse("Yes, we accept PayPal. Fees set by PayPal may apply."),
		},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "Can I pay with PayPal?")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if model.calls != 1 {
		t.Errorf("Expected 1 model call, got %d", model.calls)
	}
	if !strings.Contains(envelope.Message, "PayPal") {
		t.Errorf("Expected PayPal answer, got %q", envelope.Message)
	}
	if envelope.Action != "" || envelope.Component != "" {
		t.Errorf("Expected plain envelope, got action=%q component=%q", envelope.Action, envelope.Component)
	}
}

func TestRunTurn_GroundingLeadsHistory(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{models.TextResponse("Hi!")},
	}
	session := newTestSession(t, model)

	history := []models.Chat_Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "Hello!"},
	}
	if _, err := session.RunTurn(history, "what kits do you have?"); err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}

	got := model.histories[0]
	if len(got) != 3 {
		t.Fatalf("Expected grounding + 2 history entries, got %d", len(got))
	}
	if got[0].Role != "user" {
		t.Errorf("Grounding turn must have user role, got %s", got[0].Role)
	}
	if !strings.Contains(got[0].Content, "Catalog:") {
		t.Errorf("Grounding turn missing catalog snapshot: %q", got[0].Content)
	}
}

func TestRunTurn_ProductMentionBecomesCard(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			models.TextResponse("The 2025-26 AC Milan Home Shirt is our classic Rossoneri kit."),
		},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "show me the home shirt")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if envelope.Component != models.ComponentProductCard {
		t.Errorf("Expected product-card component, got %q", envelope.Component)
	}
	if envelope.ComponentProps == nil || envelope.ComponentProps.ID != "1" {
		t.Errorf("Expected component props for product id 1, got %+v", envelope.ComponentProps)
	}
	if envelope.Message != "Here is the 2025-26 AC Milan Home Shirt you asked about." {
		t.Errorf("Unexpected card caption: %q", envelope.Message)
	}
}

func TestRunTurn_AddToCart(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			functionCallResponse(shoptools.ToolAddToCartByName, map[string]interface{}{"productName": "milan home"}),
			models.TextResponse("Got it, the Home Shirt is in your cart. Want the matching shorts?"),
		},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "add it to my cart")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if model.calls != 2 {
		t.Errorf("Expected 2 model calls (tool + phrasing), got %d", model.calls)
	}
	if envelope.Action != models.ActionAddToCart {
		t.Errorf("Expected addToCart action, got %q", envelope.Action)
	}
	if envelope.ActionParams == nil || envelope.ActionParams.Product.ID != "1" {
		t.Errorf("Expected action params for product id 1, got %+v", envelope.ActionParams)
	}
	if !strings.Contains(envelope.Message, "cart") {
		t.Errorf("Expected confirmation message, got %q", envelope.Message)
	}

	// The phrasing round must replay the call before the tool result.
	second := model.requests[1]
	if second.Function_Call == nil || second.Function_Call.Name != shoptools.ToolAddToCartByName {
		t.Errorf("Expected echoed function call in phrasing round, got %+v", second.Function_Call)
	}
	if second.Tool_Results == nil || len(*second.Tool_Results) != 1 {
		t.Fatalf("Expected one tool result in phrasing round, got %+v", second.Tool_Results)
	}
	output := (*second.Tool_Results)[0].Tool_Output
	if output["success"] != true {
		t.Errorf("Expected success tool output, got %v", output)
	}
}

func TestRunTurn_AddToCartNotFound(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			functionCallResponse(shoptools.ToolAddToCartByName, map[string]interface{}{"productName": "Inter shirt"}),
		},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "add the inter shirt")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if model.calls != 1 {
		t.Errorf("Expected no phrasing round when nothing matched, got %d calls", model.calls)
	}
	if envelope.Action != "" {
		t.Errorf("Expected no action for unmatched product, got %q", envelope.Action)
	}
	want := `Sorry, I couldn't find a product named "Inter shirt" in our catalog.`
	if envelope.Message != want {
		t.Errorf("Unexpected not-found message: %q", envelope.Message)
	}
}

func TestRunTurn_AddToCartPhrasingFallback(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			functionCallResponse(shoptools.ToolAddToCartByName, map[string]interface{}{"productName": "milan home"}),
		},
		errs: []error{nil, errors.New("upstream blip")},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "add it to my cart")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if envelope.Action != models.ActionAddToCart {
		t.Errorf("Expected addToCart action despite phrasing failure, got %q", envelope.Action)
	}
	if envelope.Message != "The 2025-26 AC Milan Home Shirt has been added to your cart." {
		t.Errorf("Unexpected fallback message: %q", envelope.Message)
	}
}

func TestRunTurn_CalculateTotal(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			functionCallResponse(shoptools.ToolCalculateTotal, map[string]interface{}{
				"productNames": []interface{}{"Home Shirt", "Third Shirt"},
			}),
			models.TextResponse("That comes to Rp 2,050,000 for both shirts."),
		},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "What's the total for the Home Shirt and the Third Shirt?")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if model.calls != 2 {
		t.Errorf("Expected 2 model calls, got %d", model.calls)
	}
	if !strings.Contains(envelope.Message, "2,050,000") {
		t.Errorf("Expected total in message, got %q", envelope.Message)
	}
	if envelope.Action != "" || envelope.Component != "" {
		t.Errorf("Expected message-only envelope, got %+v", envelope)
	}

	output := (*model.requests[1].Tool_Results)[0].Tool_Output
	if output["totalPrice"] != 2050000 {
		t.Errorf("Expected totalPrice 2050000 in tool output, got %v", output["totalPrice"])
	}
}

func TestRunTurn_CalculateTotalPhrasingFallback(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			functionCallResponse(shoptools.ToolCalculateTotal, map[string]interface{}{
				"productNames": []interface{}{"Home Shirt"},
			}),
			{}, // empty phrasing round
		},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "how much is the home shirt?")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if envelope.Message != "The total is Rp 1,250,000." {
		t.Errorf("Unexpected fallback message: %q", envelope.Message)
	}
}

func TestRunTurn_FirstFunctionCallWins(t *testing.T) {
	model := &stubModel{
		responses: []models.Model_Response{
			{Parts: []models.Model_Part{
				{FunctionCall: &models.FunctionCall{
					Name: shoptools.ToolAddToCartByName,
					Args: map[string]interface{}{"productName": "milan home"},
				}},
				{FunctionCall: &models.FunctionCall{
					Name: shoptools.ToolAddToCartByName,
					Args: map[string]interface{}{"productName": "third shirt"},
				}},
			}},
			models.TextResponse("Added!"),
		},
	}
	session := newTestSession(t, model)

	envelope, err := session.RunTurn(nil, "add both")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if envelope.ActionParams == nil || envelope.ActionParams.Product.ID != "1" {
		t.Errorf("Expected only the first call honored (product 1), got %+v", envelope.ActionParams)
	}
	if model.calls != 2 {
		t.Errorf("Expected exactly one tool cycle, got %d calls", model.calls)
	}
}

// recordingTraceStore captures the last saved trace.
type recordingTraceStore struct {
	stores.NoopStore
	last *stores.TurnTrace
}

func (s *recordingTraceStore) SaveTrace(trace *stores.TurnTrace) error {
	s.last = trace
	return nil
}

func newTracedSession(t *testing.T, model *stubModel, channel string) (*ChatSession, *recordingTraceStore) {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	store := &recordingTraceStore{}
	agent := vocta.Create_Agent(model, shoptools.StoreTools())
	return NewChatSession("test-conv", channel, &agent, cat, store), store
}

func TestRunTurn_TraceHoldsNoReplyText(t *testing.T) {
	reply := "Yes, we accept PayPal. Fees set by PayPal may apply."
	model := &stubModel{responses: []models.Model_Response{models.TextResponse(reply)}}
	session, store := newTracedSession(t, model, ChannelChat)

	envelope, err := session.RunTurn(nil, "Can I pay with PayPal?")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if store.last == nil {
		t.Fatal("Expected a trace to be saved")
	}
	if store.last.Detail == envelope.Message {
		t.Errorf("Trace detail must not contain the reply text: %q", store.last.Detail)
	}
	if store.last.Detail != "plain" {
		t.Errorf("Expected shape summary 'plain', got %q", store.last.Detail)
	}
	if store.last.Status != "ok" {
		t.Errorf("Expected ok status, got %q", store.last.Status)
	}
}

func TestRunTurn_TraceShapesPerPath(t *testing.T) {
	cartModel := &stubModel{
		responses: []models.Model_Response{
			functionCallResponse(shoptools.ToolAddToCartByName, map[string]interface{}{"productName": "milan home"}),
			models.TextResponse("Added!"),
		},
	}
	session, store := newTracedSession(t, cartModel, ChannelChat)
	if _, err := session.RunTurn(nil, "add it to my cart"); err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if store.last.Detail != "action:addToCart" {
		t.Errorf("Expected 'action:addToCart', got %q", store.last.Detail)
	}
	if store.last.ToolName != shoptools.ToolAddToCartByName {
		t.Errorf("Expected tool name in trace, got %q", store.last.ToolName)
	}

	cardModel := &stubModel{
		responses: []models.Model_Response{
			models.TextResponse("The 2025-26 AC Milan Home Shirt is a classic."),
		},
	}
	session, store = newTracedSession(t, cardModel, ChannelChat)
	if _, err := session.RunTurn(nil, "show me the home shirt"); err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if store.last.Detail != "component:product-card" {
		t.Errorf("Expected 'component:product-card', got %q", store.last.Detail)
	}
}

func TestRunTurn_TraceKeepsErrorDetail(t *testing.T) {
	model := &stubModel{errs: []error{errors.New("quota exceeded")}}
	session, store := newTracedSession(t, model, ChannelChat)

	if _, err := session.RunTurn(nil, "hello"); err == nil {
		t.Fatal("Expected an error when the model fails")
	}
	if store.last == nil {
		t.Fatal("Expected a trace to be saved on failure")
	}
	if store.last.Status != "error" {
		t.Errorf("Expected error status, got %q", store.last.Status)
	}
	if !strings.Contains(store.last.Detail, "quota exceeded") {
		t.Errorf("Expected error detail in trace, got %q", store.last.Detail)
	}
}

func TestRunTurn_VoiceKeepsModelReply(t *testing.T) {
	reply := "The 2025-26 AC Milan Home Shirt is our classic Rossoneri kit."
	model := &stubModel{responses: []models.Model_Response{models.TextResponse(reply)}}
	session, _ := newTracedSession(t, model, ChannelVoice)

	envelope, err := session.RunTurn(nil, "tell me about the home shirt")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if envelope.Message != reply {
		t.Errorf("Voice turn must keep the model reply, got %q", envelope.Message)
	}
	if envelope.Component != "" || envelope.ComponentProps != nil {
		t.Errorf("Voice turn must not shape a product card, got %+v", envelope)
	}
}

func TestRunTurn_ModelError(t *testing.T) {
	model := &stubModel{
		errs: []error{errors.New("quota exceeded")},
	}
	session := newTestSession(t, model)

	if _, err := session.RunTurn(nil, "hello"); err == nil {
		t.Fatal("Expected an error when the model fails")
	}
}
