package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
)

// fakeCompleter returns scripted results in order. A step with err set
// simulates a failed model call.
type fakeCompleter struct {
	steps []fakeStep
	calls int
	// prompts records every prompt received, for context assertions.
	prompts []string
}

type fakeStep struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	f.prompts = append(f.prompts, req.Prompt)
	step := f.steps[min(f.calls, len(f.steps)-1)]
	f.calls++
	if step.err != nil {
		return nil, step.err
	}
	return &llm.Completion{Text: step.text, InputTokens: 100, OutputTokens: 50}, nil
}

func testPersona() *persona.Persona {
	return &persona.Persona{
		ID:               "test_reporter",
		Name:             "Test Reporter",
		Publication:      "The Test Times",
		Beat:             "enterprise software",
		BaseResponseRate: 0.1,
		KeywordTriggers:  []string{"enterprise", "security", "saas", "b2b", "cloud", "ai"},
		SystemPrompt:     "You are terse and skeptical.",
	}
}

const testModel = "claude-haiku-4-5-20251001"

func TestSendAppendsTurnAtomically(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{{text: "Interesting, tell me more."}}}
	s := New(testPersona(), fake, testModel)

	reply, cost := s.Send(context.Background(), "Got an exclusive for you")

	if reply != "Interesting, tell me more." {
		t.Errorf("reply = %q", reply)
	}
	if cost <= 0 {
		t.Errorf("cost = %v, want positive for a known model", cost)
	}

	hist := s.History()
	if len(hist) != 2 {
		t.Fatalf("history length = %d, want 2", len(hist))
	}
	if hist[0].Role != RoleUser || hist[0].Content != "Got an exclusive for you" {
		t.Errorf("first message = %+v", hist[0])
	}
	if hist[1].Role != RoleAssistant || hist[1].Content != reply {
		t.Errorf("second message = %+v", hist[1])
	}
	if s.TotalCost() != cost {
		t.Errorf("TotalCost = %v, want %v", s.TotalCost(), cost)
	}
}

func TestSendFailureLeavesHistoryUntouched(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{{err: errors.New("api down")}}}
	s := New(testPersona(), fake, testModel)

	reply, cost := s.Send(context.Background(), "hello")

	if !strings.HasPrefix(reply, "Error generating response:") {
		t.Errorf("reply = %q, want synthetic error string", reply)
	}
	if cost != 0 {
		t.Errorf("cost = %v, want 0 on failure", cost)
	}
	if len(s.History()) != 0 {
		t.Errorf("history = %v, want empty after failed turn", s.History())
	}
	if s.TotalCost() != 0 {
		t.Errorf("TotalCost = %v, want 0", s.TotalCost())
	}

	// Session stays usable.
	fake.steps = []fakeStep{{text: "Back now."}}
	if reply, _ := s.Send(context.Background(), "still there?"); reply != "Back now." {
		t.Errorf("reply after recovery = %q", reply)
	}
	if len(s.History()) != 2 {
		t.Errorf("history length = %d, want 2 after recovery", len(s.History()))
	}
}

func TestSendRetriesOnceWithoutDuplicatingHistory(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{
		{err: errors.New("transient")},
		{text: "Second try worked."},
	}}
	s := New(testPersona(), fake, testModel)

	reply, _ := s.Send(context.Background(), "pitch text")

	if reply != "Second try worked." {
		t.Errorf("reply = %q", reply)
	}
	if fake.calls != 2 {
		t.Errorf("calls = %d, want 2", fake.calls)
	}
	hist := s.History()
	if len(hist) != 2 {
		t.Fatalf("history length = %d, want exactly one user/assistant pair", len(hist))
	}
}

func TestSendPromptIncludesPersonaAndPendingMessage(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{{text: "ok"}}}
	p := testPersona()
	s := New(p, fake, testModel)

	s.Send(context.Background(), "Fresh pitch about cloud security")

	if len(fake.prompts) == 0 {
		t.Fatal("no prompt captured")
	}
	prompt := fake.prompts[0]
	for _, want := range []string{
		p.Name, p.Publication, p.Beat, p.SystemPrompt,
		"Current message from PR professional: Fresh pitch about cloud security",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Only the first five keyword triggers are surfaced.
	if !strings.Contains(prompt, "enterprise, security, saas, b2b, cloud") {
		t.Error("prompt should list the first five keywords")
	}
	if strings.Contains(prompt, "cloud, ai") {
		t.Error("prompt should not list the sixth keyword")
	}
}

func TestSendContextWindowKeepsLastTenMessages(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{{text: "reply"}}}
	s := New(testPersona(), fake, testModel)

	for i := 0; i < 12; i++ {
		s.AppendMessage(RoleUser, fmt.Sprintf("user message %d", i))
	}

	s.Send(context.Background(), "the new message")

	prompt := fake.prompts[len(fake.prompts)-1]
	// 12 stored + 1 pending: window holds messages 3..11 plus the pending.
	if strings.Contains(prompt, "user message 2\n") {
		t.Error("prompt should not include messages beyond the context window")
	}
	if !strings.Contains(prompt, "user message 3") || !strings.Contains(prompt, "user message 11") {
		t.Error("prompt should include the most recent stored messages")
	}
	if !strings.Contains(prompt, "User: the new message") {
		t.Error("prompt should include the pending message in context")
	}
}

func TestResetClearsHistoryAndCost(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{{text: "hi"}}}
	s := New(testPersona(), fake, testModel)

	s.Send(context.Background(), "hello")
	if s.TotalCost() == 0 || len(s.History()) == 0 {
		t.Fatal("setup: expected a recorded turn")
	}

	s.Reset()

	if len(s.History()) != 0 {
		t.Errorf("history = %v, want empty after reset", s.History())
	}
	if s.TotalCost() != 0 {
		t.Errorf("TotalCost = %v, want 0 after reset", s.TotalCost())
	}
	if s.Persona() == nil {
		t.Error("persona binding should survive reset")
	}
}

func TestSummarySnapshotsSession(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{{text: "noted"}}}
	p := testPersona()
	s := New(p, fake, testModel)

	s.Send(context.Background(), "one")
	s.Send(context.Background(), "two")

	sum := s.Summary()
	if sum.PersonaName != p.Name || sum.Publication != p.Publication {
		t.Errorf("summary identity = %q/%q", sum.PersonaName, sum.Publication)
	}
	if sum.MessageCount != 4 {
		t.Errorf("MessageCount = %d, want 4", sum.MessageCount)
	}
	if sum.TotalCost != s.TotalCost() {
		t.Errorf("TotalCost = %v, want %v", sum.TotalCost, s.TotalCost())
	}
	if len(sum.Messages) != 4 {
		t.Errorf("Messages length = %d, want 4", len(sum.Messages))
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	fake := &fakeCompleter{steps: []fakeStep{{text: "x"}}}
	a := New(testPersona(), fake, testModel)
	b := New(testPersona(), fake, testModel)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("session IDs should be unique and non-empty: %q vs %q", a.ID(), b.ID())
	}
}
