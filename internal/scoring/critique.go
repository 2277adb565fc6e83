package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/pitchlab/pitchcoach/internal/config"
	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
)

const (
	critiqueMaxTokens   = 600
	critiqueTemperature = 0.4
)

// Critique augments a heuristic evaluation with qualitative language-model
// feedback written in the persona's voice. Collaborator failure is surfaced
// as the feedback text with zero cost — this path never returns an error.
func Critique(ctx context.Context, completer llm.Completer, model, pitch string, p *persona.Persona, eval Evaluation) (string, float64) {
	prompt := fmt.Sprintf(`A PR professional sent the following pitch to %s, a journalist at %s covering %s:

PITCH:
%s

A heuristic model scored this pitch at %.0f%% response likelihood. Detected strengths: %s. Matched interest keywords: %s.

As an experienced media-relations coach, critique this pitch in 3-5 short paragraphs: what works, what would make this journalist skip it, and the single highest-impact improvement. Be direct and specific to this journalist's beat.`,
		p.Name, p.Publication, p.Beat,
		pitch,
		eval.Likelihood*100,
		joinOrNone(eval.PositiveFactors),
		joinOrNone(eval.MatchedKeywords))

	comp, err := completer.Complete(ctx, llm.CompletionRequest{
		System:      "You are an experienced media-relations coach who gives direct, actionable pitch feedback.",
		Prompt:      prompt,
		MaxTokens:   critiqueMaxTokens,
		Temperature: critiqueTemperature,
	})
	if err != nil {
		return fmt.Sprintf("Feedback unavailable: %v", err), 0
	}
	return comp.Text, config.EstimateCost(model, comp.InputTokens, comp.OutputTokens)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
