package scoring

import (
	"fmt"
	"strings"

	"github.com/pitchlab/pitchcoach/internal/persona"
)

// Evaluation is the full derived read on one pitch against one persona.
type Evaluation struct {
	Likelihood      float64  `json:"likelihood"`
	PositiveFactors []string `json:"positive_factors"`
	MatchedKeywords []string `json:"matched_keywords"`
	Suggestions     []string `json:"suggestions"`
}

// factorRule maps a detector over the pitch text to a display label. The
// rules share the engine's triggers but not its multipliers — a factor can
// be worth showing even when the persona doesn't weight it.
type factorRule struct {
	label   string
	present func(lower string) bool
}

var factorRules = []factorRule{
	{"Exclusive story", func(l string) bool { return strings.Contains(l, "exclusive") }},
	{"Breaking news angle", func(l string) bool { return strings.Contains(l, "breaking") }},
	{"Embargoed information", func(l string) bool { return strings.Contains(l, "embargo") }},
	{"Data-driven content", func(l string) bool { return containsAny(l, []string{"data", "study", "research", "survey"}) }},
	{"Executive access", func(l string) bool { return containsAny(l, []string{"ceo", "founder", "executive"}) }},
	{"On-beat relevance", func(l string) bool { return beatTermRe.MatchString(l) }},
}

// PositiveFactors lists the strengths detected in the pitch, in a fixed
// display order.
func PositiveFactors(pitch string) []string {
	lower := strings.ToLower(pitch)
	var factors []string
	for _, r := range factorRules {
		if r.present(lower) {
			factors = append(factors, r.label)
		}
	}
	return factors
}

// MatchedKeywords returns the persona keyword triggers present in the pitch,
// preserving the persona's trigger order.
func MatchedKeywords(pitch string, p *persona.Persona) []string {
	lower := strings.ToLower(pitch)
	var matched []string
	for _, kw := range p.KeywordTriggers {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Suggestions derives improvement advice from independent rules. Every rule
// is evaluated; all applicable suggestions are returned.
func Suggestions(pitch string, p *persona.Persona, likelihood float64) []string {
	lower := strings.ToLower(pitch)
	var out []string

	if likelihood < 0.3 {
		out = append(out,
			fmt.Sprintf("Make the pitch more relevant to %s's beat: %s", p.Name, p.Beat),
			"Lead with a stronger news hook — why does this matter right now?")
	}
	if !strings.Contains(lower, "exclusive") && likelihood < 0.6 {
		out = append(out, "Consider offering this as an exclusive to increase interest")
	}
	if !containsAny(lower, []string{"data", "study", "research"}) {
		out = append(out, "Add data, research, or study findings to strengthen the story")
	}
	if !strings.Contains(lower, strings.ToLower(p.Name)) && !strings.Contains(lower, "name") {
		out = append(out, fmt.Sprintf("Personalize the pitch by addressing %s by name", p.Name))
	}
	if len(MatchedKeywords(pitch, p)) == 0 && len(p.KeywordTriggers) > 0 {
		n := min(3, len(p.KeywordTriggers))
		out = append(out, fmt.Sprintf("Work in topics this journalist covers, such as: %s",
			strings.Join(p.KeywordTriggers[:n], ", ")))
	}
	if len(strings.Fields(pitch)) > 150 {
		out = append(out, "Shorten the pitch — journalists skim; aim for under 150 words")
	}
	return out
}

// Evaluate scores the pitch and bundles all derived feedback.
func Evaluate(pitch string, p *persona.Persona) Evaluation {
	likelihood := Score(pitch, p)
	return Evaluation{
		Likelihood:      likelihood,
		PositiveFactors: PositiveFactors(pitch),
		MatchedKeywords: MatchedKeywords(pitch, p),
		Suggestions:     Suggestions(pitch, p, likelihood),
	}
}
