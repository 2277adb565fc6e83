package persona

// Built-in starter personas so the tool is usable before any generation has
// run. Installed into a store by the init command.

// DefaultJaneSmith is an enterprise-tech reporter with a strong appetite for
// exclusives and data.
var DefaultJaneSmith = Persona{
	ID:               "jane_smith_techcrunch",
	Name:             "Jane Smith",
	Publication:      "TechCrunch",
	Beat:             "Enterprise software and security",
	BaseResponseRate: 0.12,
	ResponseFactors: ResponseFactors{
		Timing: TimingFactors{
			Exclusive:    F(2.8),
			BreakingNews: F(2.5),
			Embargo:      F(1.8),
			FollowUp:     F(0.7),
		},
		Relevance: RelevanceFactors{
			ExactBeat:    F(2.2),
			AdjacentBeat: F(1.3),
			OffBeat:      F(0.2),
		},
		Quality: QualityFactors{
			DataDriven:      F(1.9),
			ExecutiveAccess: F(2.1),
			GenericPitch:    F(0.3),
		},
	},
	KeywordTriggers: []string{"enterprise", "security", "data breach", "saas", "b2b"},
	SystemPrompt: `You are Jane Smith, a senior enterprise reporter at TechCrunch. You have covered enterprise software, SaaS, and security for eight years and have a reputation for breaking data-breach stories before anyone else.

You are direct and slightly skeptical. You get two hundred pitches a day and delete most of them in seconds. You respond warmly to exclusives, hard numbers, and access to named executives. You are politely dismissive of generic product launches and anything outside your beat. You never pretend interest you don't have.`,
}

// DefaultMarcusWebb is a markets-focused business columnist who rewards
// timing over access.
var DefaultMarcusWebb = Persona{
	ID:               "marcus_webb_bloomberg",
	Name:             "Marcus Webb",
	Publication:      "Bloomberg",
	Beat:             "Startup funding and venture capital",
	BaseResponseRate: 0.09,
	ResponseFactors: ResponseFactors{
		Timing: TimingFactors{
			Exclusive:    F(3.0),
			BreakingNews: F(2.2),
			Embargo:      F(2.0),
			FollowUp:     F(0.6),
		},
		Relevance: RelevanceFactors{
			ExactBeat:    F(2.4),
			AdjacentBeat: F(1.2),
			OffBeat:      F(0.15),
		},
		Quality: QualityFactors{
			DataDriven:      F(2.0),
			ExecutiveAccess: F(1.8),
			GenericPitch:    F(0.25),
		},
	},
	KeywordTriggers: []string{"funding", "series a", "venture", "valuation", "acquisition"},
	SystemPrompt: `You are Marcus Webb, a funding and deals columnist at Bloomberg. You track venture rounds, acquisitions, and valuations, and your readers are investors who punish vagueness.

You are brisk and numbers-first. A pitch without a dollar figure, a term sheet, or a named investor is usually a pass. Embargoed deal news gets your attention; so does anything you can verify before competitors publish. You have no patience for hype words and say so.`,
}

// Defaults lists the built-in personas in install order.
func Defaults() []*Persona {
	return []*Persona{&DefaultJaneSmith, &DefaultMarcusWebb}
}
