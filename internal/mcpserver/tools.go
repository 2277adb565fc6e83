package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pitchlab/pitchcoach/internal/config"
	"github.com/pitchlab/pitchcoach/internal/conversation"
	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
	"github.com/pitchlab/pitchcoach/internal/scoring"
)

var tracer = otel.Tracer("pitchcoach-mcp")

// ToolDefs returns the MCP tool definitions.
func ToolDefs() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_personas",
			Description: "List all available journalist persona IDs.",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
			},
		},
		{
			Name:        "get_persona",
			Description: "Get a journalist persona's profile: name, publication, beat, response patterns, and keyword triggers.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"persona_id": map[string]any{
						"type":        "string",
						"description": "The persona ID from list_personas",
					},
				},
				Required: []string{"persona_id"},
			},
		},
		{
			Name:        "evaluate_pitch",
			Description: "Score a PR pitch against a journalist persona. Returns response likelihood (0-0.85), detected strengths, matched keywords, and improvement suggestions.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"persona_id": map[string]any{
						"type":        "string",
						"description": "The persona to score against",
					},
					"pitch": map[string]any{
						"type":        "string",
						"description": "The pitch text to evaluate",
					},
				},
				Required: []string{"persona_id", "pitch"},
			},
		},
		{
			Name:        "start_conversation",
			Description: "Start a practice conversation with a journalist persona. Returns a session ID for send_message.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"persona_id": map[string]any{
						"type":        "string",
						"description": "The persona to converse with",
					},
				},
				Required: []string{"persona_id"},
			},
		},
		{
			Name:        "send_message",
			Description: "Send a message in a practice conversation. Returns the journalist's reply, the current engagement level, and the turn cost.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"session_id": map[string]any{
						"type":        "string",
						"description": "Session ID from start_conversation",
					},
					"message": map[string]any{
						"type":        "string",
						"description": "The message to send to the journalist",
					},
				},
				Required: []string{"session_id", "message"},
			},
		},
		{
			Name:        "get_conversation",
			Description: "Get a conversation summary: message count, duration, total cost, engagement level, and the transcript.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"session_id": map[string]any{
						"type":        "string",
						"description": "Session ID from start_conversation",
					},
				},
				Required: []string{"session_id"},
			},
		},
	}
}

// Handlers contains tool handler implementations.
type Handlers struct {
	store     persona.Store
	completer llm.Completer
	sessions  *SessionRegistry
	log       *slog.Logger
}

// NewHandlers creates tool handlers.
func NewHandlers(store persona.Store, completer llm.Completer, sessions *SessionRegistry, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, completer: completer, sessions: sessions, log: logger}
}

// HandleListPersonas returns all stored persona IDs.
func (h *Handlers) HandleListPersonas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.list_personas")
	defer span.End()

	ids, err := h.store.ListIDs(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list personas: %v", err)), nil
	}
	span.SetAttributes(attribute.Int("result_count", len(ids)))

	return jsonResult(map[string]any{"persona_ids": ids, "count": len(ids)})
}

// HandleGetPersona returns one persona's profile.
func (h *Handlers) HandleGetPersona(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.get_persona")
	defer span.End()

	id := mcp.ParseString(req, "persona_id", "")
	if id == "" {
		span.SetStatus(codes.Error, "missing persona_id")
		return mcp.NewToolResultError("persona_id is required"), nil
	}
	span.SetAttributes(attribute.String("persona_id", id))

	p, err := h.store.Get(ctx, id)
	if errors.Is(err, persona.ErrNotFound) {
		span.SetStatus(codes.Error, "not found")
		return mcp.NewToolResultError(fmt.Sprintf("persona %s not found", id)), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get persona: %v", err)), nil
	}

	return jsonResult(p)
}

// HandleEvaluatePitch scores a pitch against a persona.
func (h *Handlers) HandleEvaluatePitch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.evaluate_pitch")
	defer span.End()

	id := mcp.ParseString(req, "persona_id", "")
	pitch := mcp.ParseString(req, "pitch", "")
	if id == "" || pitch == "" {
		span.SetStatus(codes.Error, "missing arguments")
		return mcp.NewToolResultError("persona_id and pitch are required"), nil
	}
	span.SetAttributes(
		attribute.String("persona_id", id),
		attribute.Int("pitch_length", len(pitch)),
	)

	p, err := h.store.Get(ctx, id)
	if errors.Is(err, persona.ErrNotFound) {
		span.SetStatus(codes.Error, "not found")
		return mcp.NewToolResultError(fmt.Sprintf("persona %s not found", id)), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get persona: %v", err)), nil
	}

	eval := scoring.Evaluate(pitch, p)
	span.SetAttributes(attribute.Float64("likelihood", eval.Likelihood))
	h.log.InfoContext(ctx, "Pitch evaluated", "persona_id", id, "likelihood", eval.Likelihood)

	return jsonResult(eval)
}

// HandleStartConversation creates a session and returns its ID.
func (h *Handlers) HandleStartConversation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.start_conversation")
	defer span.End()

	id := mcp.ParseString(req, "persona_id", "")
	if id == "" {
		span.SetStatus(codes.Error, "missing persona_id")
		return mcp.NewToolResultError("persona_id is required"), nil
	}
	span.SetAttributes(attribute.String("persona_id", id))

	p, err := h.store.Get(ctx, id)
	if errors.Is(err, persona.ErrNotFound) {
		span.SetStatus(codes.Error, "not found")
		return mcp.NewToolResultError(fmt.Sprintf("persona %s not found", id)), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get persona: %v", err)), nil
	}

	sess := conversation.New(p, h.completer, config.ModelFor(config.TaskConversation))
	h.sessions.Add(sess)
	span.SetAttributes(attribute.String("session_id", sess.ID()))
	h.log.InfoContext(ctx, "Conversation started", "session_id", sess.ID(), "persona_id", id)

	return jsonResult(map[string]any{
		"session_id": sess.ID(),
		"persona":    p.Name,
		"message":    "Conversation started. Use send_message with this session_id.",
	})
}

// HandleSendMessage submits one user turn to a session.
func (h *Handlers) HandleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.send_message")
	defer span.End()

	sessionID := mcp.ParseString(req, "session_id", "")
	message := mcp.ParseString(req, "message", "")
	if sessionID == "" || message == "" {
		span.SetStatus(codes.Error, "missing arguments")
		return mcp.NewToolResultError("session_id and message are required"), nil
	}
	span.SetAttributes(attribute.String("session_id", sessionID))

	sess, ok := h.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "session not found")
		return mcp.NewToolResultError(fmt.Sprintf("session %s not found", sessionID)), nil
	}

	reply, cost := sess.Send(ctx, message)
	span.SetAttributes(attribute.Float64("cost", cost))

	return jsonResult(map[string]any{
		"reply":      reply,
		"engagement": sess.EngagementLevel(),
		"cost":       cost,
		"total_cost": sess.TotalCost(),
	})
}

// HandleGetConversation returns a session summary.
func (h *Handlers) HandleGetConversation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.get_conversation")
	defer span.End()

	sessionID := mcp.ParseString(req, "session_id", "")
	if sessionID == "" {
		span.SetStatus(codes.Error, "missing session_id")
		return mcp.NewToolResultError("session_id is required"), nil
	}
	span.SetAttributes(attribute.String("session_id", sessionID))

	sess, ok := h.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "session not found")
		return mcp.NewToolResultError(fmt.Sprintf("session %s not found", sessionID)), nil
	}

	summary := sess.Summary()
	return jsonResult(map[string]any{
		"persona_name":     summary.PersonaName,
		"publication":      summary.Publication,
		"message_count":    summary.MessageCount,
		"duration_minutes": summary.DurationMinutes,
		"total_cost":       summary.TotalCost,
		"engagement":       sess.EngagementLevel(),
		"messages":         summary.Messages,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
