// Package conversation owns the turn-by-turn simulated dialogue with a
// journalist persona: message history, cost tracking, and engagement
// inference. Text generation is delegated to the llm collaborator.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pitchlab/pitchcoach/internal/config"
	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
)

// Role tags who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the session transcript.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	// contextWindow is how many recent messages feed the generation prompt.
	contextWindow = 10
	// maxStoredMessages caps in-memory history. The bounded-context read
	// contract only ever needs the tail, so older turns are dropped.
	maxStoredMessages = 200

	replyMaxTokens   = 500
	replyTemperature = 0.8

	// One call timeout plus a single retry: the collaborator call is the
	// only blocking operation in a turn.
	callTimeout  = 60 * time.Second
	sendAttempts = 2
)

// Session is a running practice conversation against one persona. Safe for
// concurrent use; in practice one caller drives a session at a time, but the
// MCP surface can deliver turns from concurrent handlers.
type Session struct {
	mu        sync.Mutex
	id        string
	persona   *persona.Persona
	completer llm.Completer
	model     string
	messages  []Message
	startTime time.Time
	totalCost float64
}

// New creates a fresh session against p, generating replies with completer.
func New(p *persona.Persona, completer llm.Completer, model string) *Session {
	return &Session{
		id:        ulid.Make().String(),
		persona:   p,
		completer: completer,
		model:     model,
		startTime: time.Now(),
	}
}

// ID returns the session's ULID.
func (s *Session) ID() string { return s.id }

// Persona returns the read-only persona this session was created against.
func (s *Session) Persona() *persona.Persona { return s.persona }

// Reset discards all history and cost state, the "new conversation" action.
// The persona binding is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.totalCost = 0
	s.startTime = time.Now()
}

// AppendMessage records a message without generating a reply. Used to seed
// transcripts; Send is the normal write path.
func (s *Session) AppendMessage(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(role, content)
}

// append assumes s.mu is held.
func (s *Session) append(role Role, content string) {
	s.messages = append(s.messages, Message{Role: role, Content: content, Timestamp: time.Now()})
	if len(s.messages) > maxStoredMessages {
		s.messages = s.messages[len(s.messages)-maxStoredMessages:]
	}
}

// Send submits one user turn and returns the persona's reply and its cost.
//
// The user message is buffered, not appended, until a reply is confirmed:
// both messages land atomically, so a failed or retried call never leaves a
// half-recorded turn or duplicates history. On collaborator failure the
// returned reply is a synthetic error string, cost is zero, and the session
// remains fully usable.
func (s *Session) Send(ctx context.Context, text string) (string, float64) {
	prompt := s.buildPrompt(text)

	var (
		comp *llm.Completion
		err  error
	)
	for attempt := 0; attempt < sendAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		comp, err = s.completer.Complete(callCtx, llm.CompletionRequest{
			System:      "You are a professional journalist. Respond authentically based on your publication, beat, and personality.",
			Prompt:      prompt,
			MaxTokens:   replyMaxTokens,
			Temperature: replyTemperature,
		})
		cancel()
		if err == nil || ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		return fmt.Sprintf("Error generating response: %v", err), 0
	}

	cost := config.EstimateCost(s.model, comp.InputTokens, comp.OutputTokens)

	s.mu.Lock()
	s.append(RoleUser, text)
	s.append(RoleAssistant, comp.Text)
	s.totalCost += cost
	s.mu.Unlock()

	return comp.Text, cost
}

// buildPrompt renders the persona briefing, the bounded conversation context
// (last contextWindow messages including the pending user text), and the new
// message.
func (s *Session) buildPrompt(pending string) string {
	s.mu.Lock()
	history := make([]Message, len(s.messages))
	copy(history, s.messages)
	s.mu.Unlock()

	history = append(history, Message{Role: RoleUser, Content: pending})

	var ctxB strings.Builder
	ctxB.WriteString("Previous conversation:\n")
	start := 0
	if len(history) > contextWindow {
		start = len(history) - contextWindow
	}
	for _, m := range history[start:] {
		speaker := "User"
		if m.Role == RoleAssistant {
			speaker = "You"
		}
		fmt.Fprintf(&ctxB, "%s: %s\n", speaker, m.Content)
	}

	keywords := s.persona.KeywordTriggers
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}

	return fmt.Sprintf(`You are %s, a journalist at %s covering %s.

PERSONALITY AND STYLE:
%s

RESPONSE PATTERNS:
- Base response rate: %.1f%% (affects your enthusiasm)
- Keywords that interest you: %s
- You value: exclusive stories, data-driven insights, timely information

%s
Current message from PR professional: %s

Respond as this journalist would, maintaining their personality and communication style. Consider:
1. Their beat relevance
2. The quality of information provided
3. Their typical response patterns
4. Previous context in the conversation

Keep responses conversational but professional. If the pitch is off-beat or generic, be politely dismissive. If it's highly relevant with exclusive/breaking news, show appropriate interest.`,
		s.persona.Name, s.persona.Publication, s.persona.Beat,
		s.persona.SystemPrompt,
		s.persona.BaseResponseRate*100,
		strings.Join(keywords, ", "),
		ctxB.String(),
		pending)
}

// History returns a copy of the transcript.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Summary is a read-only snapshot of the session.
type Summary struct {
	PersonaName     string    `json:"persona_name"`
	Publication     string    `json:"publication"`
	MessageCount    int       `json:"message_count"`
	DurationMinutes float64   `json:"duration_minutes"`
	TotalCost       float64   `json:"total_cost"`
	Messages        []Message `json:"messages"`
}

// Summary snapshots the session state at call time.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return Summary{
		PersonaName:     s.persona.Name,
		Publication:     s.persona.Publication,
		MessageCount:    len(s.messages),
		DurationMinutes: time.Since(s.startTime).Minutes(),
		TotalCost:       s.totalCost,
		Messages:        msgs,
	}
}

// TotalCost returns the running cost of the session.
func (s *Session) TotalCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCost
}
