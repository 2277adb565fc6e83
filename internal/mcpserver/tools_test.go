package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
)

type echoCompleter struct{}

func (echoCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	return &llm.Completion{Text: "Perhaps, send me more information.", InputTokens: 50, OutputTokens: 20}, nil
}

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	store := persona.NewFileStore(t.TempDir())
	for _, p := range persona.Defaults() {
		if err := store.Put(context.Background(), p.ID, p); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	return NewHandlers(store, echoCompleter{}, NewSessionRegistry(), slog.Default())
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestHandleListPersonas(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleListPersonas(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("HandleListPersonas: %v", err)
	}

	var payload struct {
		PersonaIDs []string `json:"persona_ids"`
		Count      int      `json:"count"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if payload.Count != 2 || len(payload.PersonaIDs) != 2 {
		t.Errorf("payload = %+v, want the two seeded personas", payload)
	}
}

func TestHandleGetPersonaNotFound(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleGetPersona(context.Background(), callReq(map[string]any{"persona_id": "ghost"}))
	if err != nil {
		t.Fatalf("HandleGetPersona: %v", err)
	}
	if !res.IsError {
		t.Error("expected an error result for an unknown persona")
	}
}

func TestHandleEvaluatePitch(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleEvaluatePitch(context.Background(), callReq(map[string]any{
		"persona_id": "jane_smith_techcrunch",
		"pitch":      "Exclusive: enterprise security data breach study, CEO available",
	}))
	if err != nil {
		t.Fatalf("HandleEvaluatePitch: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var eval struct {
		Likelihood      float64  `json:"likelihood"`
		PositiveFactors []string `json:"positive_factors"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &eval); err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if eval.Likelihood <= 0 || eval.Likelihood > 0.85 {
		t.Errorf("likelihood = %v, want in (0, 0.85]", eval.Likelihood)
	}
	if len(eval.PositiveFactors) == 0 {
		t.Error("expected detected strengths for a loaded pitch")
	}
}

func TestHandleEvaluatePitchMissingArguments(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleEvaluatePitch(context.Background(), callReq(map[string]any{"persona_id": "jane_smith_techcrunch"}))
	if err != nil {
		t.Fatalf("HandleEvaluatePitch: %v", err)
	}
	if !res.IsError {
		t.Error("expected an error result when pitch is missing")
	}
}

func TestConversationToolFlow(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	startRes, err := h.HandleStartConversation(ctx, callReq(map[string]any{"persona_id": "jane_smith_techcrunch"}))
	if err != nil {
		t.Fatalf("HandleStartConversation: %v", err)
	}
	var started struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal([]byte(resultText(t, startRes)), &started); err != nil {
		t.Fatalf("parse start result: %v", err)
	}
	if started.SessionID == "" {
		t.Fatal("no session_id returned")
	}

	sendRes, err := h.HandleSendMessage(ctx, callReq(map[string]any{
		"session_id": started.SessionID,
		"message":    "Hi Jane, got a story for you",
	}))
	if err != nil {
		t.Fatalf("HandleSendMessage: %v", err)
	}
	var sent struct {
		Reply      string  `json:"reply"`
		Engagement string  `json:"engagement"`
		Cost       float64 `json:"cost"`
	}
	if err := json.Unmarshal([]byte(resultText(t, sendRes)), &sent); err != nil {
		t.Fatalf("parse send result: %v", err)
	}
	if sent.Reply == "" {
		t.Error("empty reply")
	}
	if sent.Engagement != "Medium Interest" {
		t.Errorf("engagement = %q, want Medium Interest for the scripted reply", sent.Engagement)
	}
	if sent.Cost <= 0 {
		t.Errorf("cost = %v, want positive", sent.Cost)
	}

	getRes, err := h.HandleGetConversation(ctx, callReq(map[string]any{"session_id": started.SessionID}))
	if err != nil {
		t.Fatalf("HandleGetConversation: %v", err)
	}
	var summary struct {
		PersonaName  string `json:"persona_name"`
		MessageCount int    `json:"message_count"`
	}
	if err := json.Unmarshal([]byte(resultText(t, getRes)), &summary); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if summary.PersonaName != "Jane Smith" || summary.MessageCount != 2 {
		t.Errorf("summary = %+v, want Jane Smith with one recorded turn", summary)
	}
}

func TestHandleSendMessageUnknownSession(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleSendMessage(context.Background(), callReq(map[string]any{
		"session_id": "nope",
		"message":    "hello",
	}))
	if err != nil {
		t.Fatalf("HandleSendMessage: %v", err)
	}
	if !res.IsError {
		t.Error("expected an error result for an unknown session")
	}
}
