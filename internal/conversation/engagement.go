package conversation

import "strings"

// EngagementLevel is a categorical read of the persona's latest reply.
type EngagementLevel string

const (
	NoEngagementYet EngagementLevel = "No engagement yet"
	NoResponsesYet  EngagementLevel = "No responses yet"
	LowInterest     EngagementLevel = "Low Interest"
	MediumInterest  EngagementLevel = "Medium Interest"
	HighInterest    EngagementLevel = "High Interest"
	Neutral         EngagementLevel = "Neutral"
)

// engagementRules are evaluated top-down, first match wins. Order carries
// meaning: the phrase sets overlap ("not interested" contains hints of
// interest words), so low interest must be checked before high.
var engagementRules = []struct {
	phrases []string
	level   EngagementLevel
}{
	{[]string{"not interested", "doesn't fit", "pass", "no thanks", "busy"}, LowInterest},
	{[]string{"tell me more", "very interested", "exclusive", "let's talk", "call me", "follow up"}, HighInterest},
	{[]string{"perhaps", "maybe", "could be", "send me", "more information"}, MediumInterest},
}

// EngagementLevel classifies the most recent assistant message.
func (s *Session) EngagementLevel() EngagementLevel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return NoEngagementYet
	}

	var last string
	found := false
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleAssistant {
			last = s.messages[i].Content
			found = true
			break
		}
	}
	if !found {
		return NoResponsesYet
	}

	lower := strings.ToLower(last)
	for _, rule := range engagementRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.level
			}
		}
	}
	return Neutral
}
