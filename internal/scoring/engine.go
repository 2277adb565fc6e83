package scoring

import (
	"regexp"
	"strings"

	"github.com/pitchlab/pitchcoach/internal/persona"
)

// MaxLikelihood is the realistic ceiling on any response likelihood. Even a
// perfect pitch to a perfectly matched journalist doesn't guarantee a reply.
const MaxLikelihood = 0.85

// Beat terms are matched on word boundaries so "tech" doesn't fire inside
// "architecture". The adjacent/quality/timing terms intentionally stay on
// plain substring matching — the looser semantics there are part of the
// scoring contract.
var (
	beatTerms = []string{
		"enterprise", "software", "saas", "b2b", "security", "data",
		"technology", "startup", "funding", "acquisition",
	}
	adjacentTerms = []string{"business", "corporate", "digital", "innovation"}

	dataIndicators    = []string{"data", "study", "research", "survey", "report", "analysis", "statistics"}
	execIndicators    = []string{"ceo", "cto", "founder", "executive", "interview", "exclusive access"}
	genericIndicators = []string{"product launch", "pleased to announce", "exciting news", "revolutionary"}

	beatTermRe = regexp.MustCompile(`\b(` + strings.Join(beatTerms, "|") + `)\b`)
)

// Score estimates the probability that the persona responds to the pitch.
// Pure and deterministic; the result is always in [0, MaxLikelihood].
// Absent factors degrade to no-op multipliers, never errors.
func Score(pitch string, p *persona.Persona) float64 {
	lower := strings.ToLower(pitch)

	likelihood := p.BaseResponseRate
	likelihood = applyTiming(lower, likelihood, p.ResponseFactors.Timing)
	likelihood = applyRelevance(lower, likelihood, p.ResponseFactors.Relevance)
	likelihood = applyQuality(lower, likelihood, p.ResponseFactors.Quality)
	likelihood = applyKeywordBoost(lower, likelihood, p.KeywordTriggers)

	return min(likelihood, MaxLikelihood)
}

// applyTiming compounds every timing multiplier whose trigger appears in the
// pitch. The checks are independent — several can fire on one pitch.
func applyTiming(lower string, likelihood float64, t persona.TimingFactors) float64 {
	if f, ok := persona.Factor(t.Exclusive); ok && strings.Contains(lower, "exclusive") {
		likelihood *= f
	}
	if f, ok := persona.Factor(t.BreakingNews); ok && strings.Contains(lower, "breaking") {
		likelihood *= f
	}
	if f, ok := persona.Factor(t.Embargo); ok && strings.Contains(lower, "embargo") {
		likelihood *= f
	}
	if f, ok := persona.Factor(t.FollowUp); ok && strings.Contains(lower, "follow") {
		likelihood *= f
	}
	return likelihood
}

// applyRelevance applies exactly one of exact_beat/off_beat, then considers
// adjacent_beat only when no beat term matched.
func applyRelevance(lower string, likelihood float64, r persona.RelevanceFactors) float64 {
	hasBeatMatch := beatTermRe.MatchString(lower)

	if hasBeatMatch {
		if f, ok := persona.Factor(r.ExactBeat); ok {
			likelihood *= f
		}
	} else if f, ok := persona.Factor(r.OffBeat); ok {
		likelihood *= f
	}

	if !hasBeatMatch && containsAny(lower, adjacentTerms) {
		if f, ok := persona.Factor(r.AdjacentBeat); ok {
			likelihood *= f
		}
	}
	return likelihood
}

func applyQuality(lower string, likelihood float64, q persona.QualityFactors) float64 {
	if f, ok := persona.Factor(q.DataDriven); ok && containsAny(lower, dataIndicators) {
		likelihood *= f
	}
	if f, ok := persona.Factor(q.ExecutiveAccess); ok && containsAny(lower, execIndicators) {
		likelihood *= f
	}
	if f, ok := persona.Factor(q.GenericPitch); ok && containsAny(lower, genericIndicators) {
		likelihood *= f
	}
	return likelihood
}

// applyKeywordBoost rewards matched persona keywords on a diminishing-returns
// curve: 1 + 0.2k/(1 + 0.1k). The first match is worth the most and the
// multiplier asymptotes at 3x as k grows.
func applyKeywordBoost(lower string, likelihood float64, triggers []string) float64 {
	matches := 0
	for _, kw := range triggers {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	if matches == 0 {
		return likelihood
	}
	k := float64(matches)
	return likelihood * (1 + (0.2*k)/(1+0.1*k))
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
