package scoring

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pitchlab/pitchcoach/internal/persona"
)

func TestPositiveFactorsOrderAndDetection(t *testing.T) {
	tests := []struct {
		name  string
		pitch string
		want  []string
	}{
		{
			name:  "nothing detected",
			pitch: "hello, quick note",
			want:  nil,
		},
		{
			name:  "single factor",
			pitch: "we can offer this as an exclusive",
			want:  []string{"Exclusive story"},
		},
		{
			name:  "multiple factors in display order",
			pitch: "breaking: exclusive study with our CEO on enterprise adoption",
			want: []string{
				"Exclusive story",
				"Breaking news angle",
				"Data-driven content",
				"Executive access",
				"On-beat relevance",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositiveFactors(tt.pitch)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PositiveFactors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchedKeywordsPreservesTriggerOrder(t *testing.T) {
	p := basePersona()
	p.KeywordTriggers = []string{"funding", "security", "saas"}

	got := MatchedKeywords("A SaaS security play seeking funding", p)
	want := []string{"funding", "security", "saas"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MatchedKeywords mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestionsLowLikelihoodLeadsWithRelevance(t *testing.T) {
	p := basePersona()
	got := Suggestions("hello", p, 0.1)

	if len(got) < 2 {
		t.Fatalf("expected at least two suggestions, got %v", got)
	}
	if !strings.Contains(got[0], p.Beat) {
		t.Errorf("first suggestion %q should name the beat %q", got[0], p.Beat)
	}
	if !strings.Contains(got[1], "news hook") {
		t.Errorf("second suggestion %q should push for a news hook", got[1])
	}
}

func TestSuggestionsIndependentRules(t *testing.T) {
	p := basePersona()
	p.KeywordTriggers = []string{"enterprise", "security", "saas", "b2b"}

	// High likelihood, no exclusive, has data, addresses by name, matches a
	// keyword, short: only the rules that still apply should fire.
	pitch := "Hi Test Reporter, new research on enterprise buying patterns"
	got := Suggestions(pitch, p, 0.7)
	for _, s := range got {
		if strings.Contains(s, "exclusive") {
			t.Errorf("exclusive suggestion should not fire at likelihood 0.7: %q", s)
		}
		if strings.Contains(s, "data, research, or study") {
			t.Errorf("data suggestion should not fire when research is present: %q", s)
		}
		if strings.Contains(s, "addressing") {
			t.Errorf("personalization suggestion should not fire when name present: %q", s)
		}
	}
}

func TestSuggestionsKeywordHintListsAtMostThree(t *testing.T) {
	p := basePersona()
	p.KeywordTriggers = []string{"one", "two", "three", "four"}

	got := Suggestions("totally unrelated text with data included and Test Reporter named", p, 0.5)
	var hint string
	for _, s := range got {
		if strings.Contains(s, "topics this journalist covers") {
			hint = s
		}
	}
	if hint == "" {
		t.Fatal("expected a keyword hint suggestion")
	}
	if !strings.Contains(hint, "one, two, three") || strings.Contains(hint, "four") {
		t.Errorf("hint should list the first three triggers only: %q", hint)
	}
}

func TestSuggestionsLongPitchFlagsLength(t *testing.T) {
	p := basePersona()
	long := strings.Repeat("word ", 151)
	got := Suggestions(long, p, 0.5)

	found := false
	for _, s := range got {
		if strings.Contains(s, "Shorten the pitch") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a length suggestion for a %d-word pitch", 151)
	}
}

func TestEvaluateBundlesAllFeedback(t *testing.T) {
	p := basePersona()
	p.BaseResponseRate = 0.12
	p.ResponseFactors.Timing = persona.TimingFactors{Exclusive: persona.F(2.0)}
	p.KeywordTriggers = []string{"security"}

	eval := Evaluate("Exclusive: new security data for Test Reporter", p)

	if eval.Likelihood <= 0.12 {
		t.Errorf("Likelihood = %v, want boosted above base rate", eval.Likelihood)
	}
	if eval.Likelihood > MaxLikelihood {
		t.Errorf("Likelihood = %v exceeds cap", eval.Likelihood)
	}
	wantFactors := []string{"Exclusive story", "Data-driven content", "On-beat relevance"}
	if diff := cmp.Diff(wantFactors, eval.PositiveFactors); diff != "" {
		t.Errorf("PositiveFactors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"security"}, eval.MatchedKeywords); diff != "" {
		t.Errorf("MatchedKeywords mismatch (-want +got):\n%s", diff)
	}
}
