package persona

import (
	"fmt"
	"strings"
)

// Persona is a configured simulated journalist profile. It is immutable for
// the lifetime of a practice session; mutation happens only through the store.
type Persona struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Publication     string          `json:"publication"`
	Beat            string          `json:"beat"`
	BaseResponseRate float64        `json:"base_response_rate"`
	ResponseFactors ResponseFactors `json:"response_factors"`
	KeywordTriggers []string        `json:"keyword_triggers"`
	SystemPrompt    string          `json:"system_prompt"`
}

// ResponseFactors groups the multiplicative response weights by category.
// A nil field means the factor is absent — the scoring engine applies no
// multiplier for it, never an error.
type ResponseFactors struct {
	Timing    TimingFactors    `json:"timing"`
	Relevance RelevanceFactors `json:"relevance"`
	Quality   QualityFactors   `json:"quality"`
}

// TimingFactors weight time-sensitivity signals in a pitch.
type TimingFactors struct {
	Exclusive    *float64 `json:"exclusive,omitempty"`
	BreakingNews *float64 `json:"breaking_news,omitempty"`
	Embargo      *float64 `json:"embargo,omitempty"`
	FollowUp     *float64 `json:"follow_up,omitempty"`
}

// RelevanceFactors weight how well a pitch matches the persona's beat.
type RelevanceFactors struct {
	ExactBeat    *float64 `json:"exact_beat,omitempty"`
	AdjacentBeat *float64 `json:"adjacent_beat,omitempty"`
	OffBeat      *float64 `json:"off_beat,omitempty"`
}

// QualityFactors weight content-quality signals in a pitch.
type QualityFactors struct {
	DataDriven      *float64 `json:"data_driven,omitempty"`
	ExecutiveAccess *float64 `json:"executive_access,omitempty"`
	GenericPitch    *float64 `json:"generic_pitch,omitempty"`
}

// ValidationError reports missing required fields on a persona record,
// typically one produced by a generation pipeline.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("persona record missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Validate checks the fields every conformant persona record must carry.
// The response-factor categories are optional by design.
func (p *Persona) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Publication) == "" {
		missing = append(missing, "publication")
	}
	if strings.TrimSpace(p.Beat) == "" {
		missing = append(missing, "beat")
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		missing = append(missing, "system_prompt")
	}
	if p.BaseResponseRate < 0 || p.BaseResponseRate > 1 {
		missing = append(missing, "base_response_rate (must be in [0,1])")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Factor dereferences an optional multiplier, reporting whether it is set.
func Factor(f *float64) (float64, bool) {
	if f == nil {
		return 0, false
	}
	return *f, true
}

// F is a literal helper for optional factor fields.
func F(v float64) *float64 { return &v }
