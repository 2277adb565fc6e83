package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pitchlab/pitchcoach/internal/config"
	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
	"github.com/pitchlab/pitchcoach/internal/progress"
)

const templateSystemPrompt = `You are a media-relations expert who builds realistic journalist personas for PR pitch training.

OUTPUT FORMAT:
Return ONLY valid JSON matching this exact structure (no markdown fences, no extra text):
{
  "name": "Full name",
  "publication": "Publication name",
  "beat": "Specific coverage beat",
  "base_response_rate": 0.15,
  "response_factors": {
    "timing": {"exclusive": 2.8, "breaking_news": 2.5, "embargo": 1.8, "follow_up": 0.7},
    "relevance": {"exact_beat": 2.2, "adjacent_beat": 1.3, "off_beat": 0.2},
    "quality": {"data_driven": 1.9, "executive_access": 2.1, "generic_pitch": 0.3}
  },
  "keyword_triggers": ["topic1", "topic2", "topic3", "topic4", "topic5"],
  "system_prompt": "Second-person description of the journalist's personality, coverage focus, and communication style for role-play."
}

base_response_rate must be between 0.05 and 0.25. Multipliers above 1.0 raise response likelihood, below 1.0 lower it. Keep values realistic for the beat.

IMPORTANT: Output raw JSON only. No markdown code fences. No text before or after the JSON.`

const (
	templateMaxTokens   = 1500
	templateTemperature = 0.7
)

// TemplateGenerator asks the language model for a complete persona record in
// one shot and validates the result.
type TemplateGenerator struct {
	completer llm.Completer
	model     string
}

// NewTemplateGenerator creates the single-shot strategy.
func NewTemplateGenerator(completer llm.Completer, model string) *TemplateGenerator {
	return &TemplateGenerator{completer: completer, model: model}
}

func (g *TemplateGenerator) Generate(ctx context.Context, req Request) (*persona.Persona, float64, error) {
	onProgress := req.OnProgress
	if onProgress == nil {
		onProgress = progress.NopCallback
	}
	onProgress(progress.Event{Stage: progress.StageProfile, Message: "Generating persona", StepNumber: 1, TotalSteps: 1})

	prompt := fmt.Sprintf("Create a journalist persona for %s", req.Name)
	if req.Publication != "" {
		prompt += fmt.Sprintf(" at %s", req.Publication)
	}
	prompt += ". Base the beat, response factors, and keyword triggers on what a journalist in that role would realistically cover and respond to."

	comp, err := g.completer.Complete(ctx, llm.CompletionRequest{
		System:      templateSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   templateMaxTokens,
		Temperature: templateTemperature,
	})
	if err != nil {
		return nil, 0, err
	}
	cost := config.EstimateCost(g.model, comp.InputTokens, comp.OutputTokens)

	p, err := parsePersona(comp.Text)
	if err != nil {
		return nil, cost, err
	}
	// A generated record that fails validation is discarded, not repaired.
	if err := p.Validate(); err != nil {
		return nil, cost, err
	}
	p.ID = IDFor(p.Name, p.Publication)
	return p, cost, nil
}

func parsePersona(text string) (*persona.Persona, error) {
	text = stripMarkdownFences(text)
	text = extractJSON(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no JSON content found in response")
	}

	var p persona.Persona
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("invalid persona JSON: %w\nRaw text (first 500 chars): %s", err, truncate(text, 500))
	}
	return &p, nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

func stripMarkdownFences(text string) string {
	if matches := fenceRe.FindStringSubmatch(text); len(matches) > 1 {
		return matches[1]
	}
	return text
}

func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
