// Package generate produces journalist persona records. Two strategies
// implement the same capability: a single-shot template generation and a
// multi-step research pipeline. Consumers depend only on Generator, so the
// wired-in strategy is interchangeable.
package generate

import (
	"context"
	"strings"

	"github.com/pitchlab/pitchcoach/internal/persona"
	"github.com/pitchlab/pitchcoach/internal/progress"
)

// Depth controls how much work the research strategy does.
type Depth string

const (
	DepthQuick         Depth = "quick"
	DepthStandard      Depth = "standard"
	DepthComprehensive Depth = "comprehensive"
)

// Request describes the persona to produce.
type Request struct {
	Name        string
	Publication string
	// Depth applies to the research strategy only.
	Depth Depth
	// OnProgress receives step events; nil means silent.
	OnProgress progress.Callback
}

// Generator is the persona-production capability. It returns the persona and
// the language-model cost incurred building it.
type Generator interface {
	Generate(ctx context.Context, req Request) (*persona.Persona, float64, error)
}

// IDFor derives a store identifier from a persona's name and publication,
// e.g. "Jane Smith" at "TechCrunch" -> "jane_smith_techcrunch".
func IDFor(name, publication string) string {
	slug := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		var b strings.Builder
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				b.WriteRune(r)
			case r == ' ' || r == '-' || r == '_':
				b.WriteByte('_')
			}
		}
		return strings.Trim(b.String(), "_")
	}
	if publication == "" {
		return slug(name)
	}
	return slug(name) + "_" + slug(publication)
}
