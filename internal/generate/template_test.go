package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
	"github.com/pitchlab/pitchcoach/internal/progress"
)

// stubCompleter returns a fixed completion or error.
type stubCompleter struct {
	text string
	err  error
	// lastReq captures the request for prompt assertions.
	lastReq llm.CompletionRequest
}

func (s *stubCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Completion{Text: s.text, InputTokens: 200, OutputTokens: 300}, nil
}

const validPersonaJSON = `{
  "name": "Jane Smith",
  "publication": "TechCrunch",
  "beat": "Enterprise software and security",
  "base_response_rate": 0.12,
  "response_factors": {
    "timing": {"exclusive": 2.8, "breaking_news": 2.5, "embargo": 1.8, "follow_up": 0.7},
    "relevance": {"exact_beat": 2.2, "adjacent_beat": 1.3, "off_beat": 0.2},
    "quality": {"data_driven": 1.9, "executive_access": 2.1, "generic_pitch": 0.3}
  },
  "keyword_triggers": ["enterprise", "security", "saas"],
  "system_prompt": "You are Jane Smith, a senior enterprise reporter."
}`

func TestParsePersona(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"raw json", validPersonaJSON, false},
		{"fenced json", "```json\n" + validPersonaJSON + "\n```", false},
		{"bare fences", "```\n" + validPersonaJSON + "\n```", false},
		{"surrounding prose", "Here is the persona:\n" + validPersonaJSON + "\nHope that helps!", false},
		{"empty response", "", true},
		{"no json at all", "I cannot produce that.", true},
		{"broken json", `{"name": "Jane`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parsePersona(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePersona: %v", err)
			}
			if p.Name != "Jane Smith" || p.Publication != "TechCrunch" {
				t.Errorf("parsed identity = %q/%q", p.Name, p.Publication)
			}
			if f, ok := persona.Factor(p.ResponseFactors.Timing.Exclusive); !ok || f != 2.8 {
				t.Errorf("exclusive factor = %v,%v, want 2.8", f, ok)
			}
		})
	}
}

func TestTemplateGeneratorAssignsIDAndCost(t *testing.T) {
	stub := &stubCompleter{text: validPersonaJSON}
	g := NewTemplateGenerator(stub, "claude-sonnet-4-5-20250929")

	p, cost, err := g.Generate(context.Background(), Request{Name: "Jane Smith", Publication: "TechCrunch"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.ID != "jane_smith_techcrunch" {
		t.Errorf("ID = %q", p.ID)
	}
	if cost <= 0 {
		t.Errorf("cost = %v, want positive for a known model", cost)
	}
	if !strings.Contains(stub.lastReq.Prompt, "Jane Smith") || !strings.Contains(stub.lastReq.Prompt, "TechCrunch") {
		t.Errorf("prompt missing request fields: %q", stub.lastReq.Prompt)
	}
}

func TestTemplateGeneratorRejectsIncompleteRecord(t *testing.T) {
	stub := &stubCompleter{text: `{"name": "Jane Smith"}`}
	g := NewTemplateGenerator(stub, "claude-sonnet-4-5-20250929")

	_, _, err := g.Generate(context.Background(), Request{Name: "Jane Smith"})
	var verr *persona.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Generate error = %v, want *persona.ValidationError", err)
	}
}

func TestTemplateGeneratorPropagatesModelError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("overloaded")}
	g := NewTemplateGenerator(stub, "claude-sonnet-4-5-20250929")

	_, cost, err := g.Generate(context.Background(), Request{Name: "Jane Smith"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if cost != 0 {
		t.Errorf("cost = %v, want 0 when the call failed", cost)
	}
}

func TestTemplateGeneratorReportsProgress(t *testing.T) {
	stub := &stubCompleter{text: validPersonaJSON}
	g := NewTemplateGenerator(stub, "claude-sonnet-4-5-20250929")

	var events []progress.Event
	_, _, err := g.Generate(context.Background(), Request{
		Name:       "Jane Smith",
		OnProgress: func(ev progress.Event) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(events) != 1 || events[0].Stage != progress.StageProfile {
		t.Errorf("events = %+v, want a single profile-stage event", events)
	}
}
