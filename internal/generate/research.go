package generate

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pitchlab/pitchcoach/internal/config"
	"github.com/pitchlab/pitchcoach/internal/llm"
	"github.com/pitchlab/pitchcoach/internal/persona"
	"github.com/pitchlab/pitchcoach/internal/progress"
)

// ResearchGenerator builds a persona from public traces of a real
// journalist: verified employment, recent bylines, and LLM-analyzed coverage
// patterns. Search results come through the WebSearcher collaborator and are
// treated as untrusted input throughout.
type ResearchGenerator struct {
	searcher  WebSearcher
	completer llm.Completer
	model     string
}

// NewResearchGenerator creates the research strategy.
func NewResearchGenerator(searcher WebSearcher, completer llm.Completer, model string) *ResearchGenerator {
	return &ResearchGenerator{searcher: searcher, completer: completer, model: model}
}

type positionInfo struct {
	Publication string
	Title       string
	SourceURL   string
	Confidence  float64
}

type articleInfo struct {
	Title        string
	URL          string
	Snippet      string
	SourceDomain string
	Topics       []string
}

type analyzedData struct {
	PrimaryBeat       string
	CoverageFrequency string
	CommonTopics      []string
	WritingStyle      string
	Confidence        float64
}

func (g *ResearchGenerator) Generate(ctx context.Context, req Request) (*persona.Persona, float64, error) {
	depth := req.Depth
	if depth == "" {
		depth = DepthStandard
	}
	onProgress := req.OnProgress
	if onProgress == nil {
		onProgress = progress.NopCallback
	}

	totalSteps := 6
	if depth == DepthComprehensive {
		totalSteps = 7
	}
	start := time.Now()
	step := 0
	report := func(stage progress.Stage, msg string) {
		step++
		onProgress(progress.NewEvent(stage, msg, step, totalSteps, start))
	}

	report(progress.StageVerify, fmt.Sprintf("Verifying journalist identity: %s", req.Name))
	position, _ := g.verifyEmployment(ctx, req.Name, req.Publication)

	report(progress.StageArticles, "Finding recent articles")
	articles := g.findRecentArticles(ctx, req.Name, req.Publication, depth)

	report(progress.StageAnalysis, "Analyzing coverage patterns")
	analyzed, analysisCost := g.analyzeCoverage(ctx, articles, req.Name)

	var socialProfiles map[string]string
	if depth == DepthComprehensive {
		report(progress.StageSocial, "Finding social profiles")
		socialProfiles = g.findSocialProfiles(ctx, req.Name)
	}

	report(progress.StagePreferences, "Inferring communication preferences")
	baseRate, factors := inferPreferences(analyzed)

	report(progress.StageProfile, "Compiling research results")
	p := compileProfile(req.Name, position, analyzed, baseRate, factors, socialProfiles)

	report(progress.StageComplete, "Research complete")

	if err := p.Validate(); err != nil {
		return nil, analysisCost, err
	}
	return p, analysisCost, nil
}

// verifyEmployment looks for author/staff/bio pages and extracts a plausible
// title and publication. Failed searches degrade to a low-confidence default.
func (g *ResearchGenerator) verifyEmployment(ctx context.Context, name, publication string) (positionInfo, []string) {
	var sources []string

	queries := verificationQueries(name, publication)
	if len(queries) > 3 {
		queries = queries[:3]
	}
	for _, q := range queries {
		results, err := g.searcher.Search(ctx, q, 5)
		if err != nil {
			continue
		}
		for _, r := range results {
			urlLower := strings.ToLower(r.URL)
			if !containsAnyOf(urlLower, "author", "staff", "bio", "team") {
				continue
			}
			sources = append(sources, r.URL)
			if pos, ok := extractPosition(r, publication); ok {
				return pos, sources
			}
		}
	}

	pub := publication
	if pub == "" {
		pub = "Unknown"
	}
	src := ""
	if len(sources) > 0 {
		src = sources[0]
	}
	return positionInfo{Publication: pub, Title: "Journalist", SourceURL: src, Confidence: 0.3}, sources
}

var titleKeywords = []string{"reporter", "editor", "journalist", "correspondent", "writer", "senior", "staff"}

func extractPosition(r SearchResult, publication string) (positionInfo, bool) {
	combined := strings.ToLower(r.Title + " " + r.Snippet)

	var found []string
	for _, kw := range titleKeywords {
		if strings.Contains(combined, kw) {
			found = append(found, kw)
		}
	}
	if len(found) == 0 {
		return positionInfo{}, false
	}

	title := titleCase(strings.Join(found, " "))
	switch {
	case has(found, "senior") && has(found, "reporter"):
		title = "Senior Reporter"
	case has(found, "staff") && has(found, "writer"):
		title = "Staff Writer"
	}

	pub := publication
	if pub == "" {
		pub = publicationFromURL(r.URL)
	}
	return positionInfo{Publication: pub, Title: title, SourceURL: r.URL, Confidence: 0.8}, true
}

// findRecentArticles runs byline searches, keeps likely articles, and dedupes
// by URL. Depth bounds the query budget.
func (g *ResearchGenerator) findRecentArticles(ctx context.Context, name, publication string, depth Depth) []articleInfo {
	maxQueries := map[Depth]int{DepthQuick: 3, DepthStandard: 5, DepthComprehensive: 8}[depth]
	if maxQueries == 0 {
		maxQueries = 5
	}

	queries := articleQueries(name, publication)
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}

	var articles []articleInfo
	for _, q := range queries {
		results, err := g.searcher.Search(ctx, q, 5)
		if err != nil {
			continue
		}
		for _, r := range results {
			if !isLikelyArticle(r) {
				continue
			}
			articles = append(articles, articleInfo{
				Title:        r.Title,
				URL:          r.URL,
				Snippet:      r.Snippet,
				SourceDomain: r.SourceDomain,
				Topics:       extractTopics(r.Title + " " + r.Snippet),
			})
		}
		if len(articles) >= 20 {
			break
		}
	}

	seen := map[string]bool{}
	var unique []articleInfo
	for _, a := range articles {
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		unique = append(unique, a)
	}
	if len(unique) > 15 {
		unique = unique[:15]
	}
	return unique
}

var articleDateRe = regexp.MustCompile(`/(20\d{2})/|/(0[1-9]|1[0-2])/|/\d{4}-\d{2}-\d{2}/`)

func isLikelyArticle(r SearchResult) bool {
	urlLower := strings.ToLower(r.URL)
	titleLower := strings.ToLower(r.Title)

	// Social media and bio pages are never articles.
	if containsAnyOf(urlLower, "twitter", "linkedin", "facebook", "bio", "author", "contact") {
		return false
	}
	if containsAnyOf(urlLower, "news", "article", "story", "report", "analysis") ||
		containsAnyOf(titleLower, "news", "article", "story", "report", "analysis") {
		return true
	}
	if articleDateRe.MatchString(r.URL) {
		return true
	}
	return true
}

var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"AI", []string{"ai", "artificial intelligence", "machine learning", "neural"}},
	{"Technology", []string{"tech", "software", "digital", "app", "platform"}},
	{"Business", []string{"company", "business", "corporate", "enterprise", "startup"}},
	{"Finance", []string{"funding", "investment", "ipo", "financial", "revenue"}},
	{"Security", []string{"security", "breach", "privacy", "hack", "cyber"}},
	{"Data", []string{"data", "analytics", "database", "information"}},
}

func extractTopics(text string) []string {
	lower := strings.ToLower(text)
	var topics []string
	for _, tk := range topicKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, tk.topic)
				break
			}
		}
	}
	return topics
}

// analyzeCoverage asks the model to characterize the journalist's beat and
// style from article summaries, falling back to counting when the call fails.
func (g *ResearchGenerator) analyzeCoverage(ctx context.Context, articles []articleInfo, name string) (analyzedData, float64) {
	commonTopics := topTopics(articles, 5)

	if len(articles) == 0 {
		return analyzedData{
			PrimaryBeat:       "Unknown",
			CoverageFrequency: "Unknown",
			WritingStyle:      "Unknown",
			Confidence:        0.1,
		}, 0
	}

	sample := articles
	if len(sample) > 10 {
		sample = sample[:10]
	}
	var summaries []string
	for _, a := range sample {
		snippet := a.Snippet
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		summaries = append(summaries, fmt.Sprintf("Title: %s\nTopics: %s\nSnippet: %s",
			a.Title, strings.Join(a.Topics, ", "), snippet))
	}

	prompt := fmt.Sprintf(`Analyze the coverage patterns for journalist %s based on their recent articles:

RECENT ARTICLES:
%s

Please analyze and provide:
1. Primary beat/specialty (be specific - e.g., "Consumer AI and Privacy" not just "Technology")
2. Coverage frequency estimate (e.g., "3-4 articles per week", "Weekly deep dives")
3. Writing style characteristics (e.g., "Data-driven, skeptical of hype", "Breaking news focused")
4. Estimated average article length category (short/medium/long)

Return your analysis in this format:
PRIMARY_BEAT: [specific beat description]
COVERAGE_FREQUENCY: [frequency estimate]
WRITING_STYLE: [style description]
ARTICLE_LENGTH: [short/medium/long]
CONFIDENCE: [0.0-1.0 confidence in analysis]`, name, strings.Join(summaries, "\n\n"))

	comp, err := g.completer.Complete(ctx, llm.CompletionRequest{
		System:      "You are an expert media analyst. Analyze journalist coverage patterns objectively based on provided data.",
		Prompt:      prompt,
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		return simpleAnalysis(articles, commonTopics), 0
	}
	cost := config.EstimateCost(g.model, comp.InputTokens, comp.OutputTokens)

	fields := parseAnalysis(comp.Text)
	confidence := 0.7
	if c, err := strconv.ParseFloat(strings.TrimSpace(fields["confidence"]), 64); err == nil {
		confidence = c
	}
	return analyzedData{
		PrimaryBeat:       valueOr(fields["primary_beat"], "General"),
		CoverageFrequency: valueOr(fields["coverage_frequency"], "Regular"),
		CommonTopics:      commonTopics,
		WritingStyle:      valueOr(fields["writing_style"], "Professional"),
		Confidence:        confidence,
	}, cost
}

var analysisPatterns = map[string]*regexp.Regexp{
	"primary_beat":       regexp.MustCompile(`(?i)PRIMARY_BEAT:\s*(.+)`),
	"coverage_frequency": regexp.MustCompile(`(?i)COVERAGE_FREQUENCY:\s*(.+)`),
	"writing_style":      regexp.MustCompile(`(?i)WRITING_STYLE:\s*(.+)`),
	"article_length":     regexp.MustCompile(`(?i)ARTICLE_LENGTH:\s*(.+)`),
	"confidence":         regexp.MustCompile(`(?i)CONFIDENCE:\s*(.+)`),
}

func parseAnalysis(text string) map[string]string {
	fields := map[string]string{}
	for key, re := range analysisPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			fields[key] = strings.TrimSpace(m[1])
		}
	}
	return fields
}

func simpleAnalysis(articles []articleInfo, commonTopics []string) analyzedData {
	beat := "General"
	if len(commonTopics) > 0 {
		beat = commonTopics[0]
	}
	return analyzedData{
		PrimaryBeat:       beat,
		CoverageFrequency: fmt.Sprintf("~%d articles found recently", len(articles)),
		CommonTopics:      commonTopics,
		WritingStyle:      "Professional journalism",
		Confidence:        0.5,
	}
}

func (g *ResearchGenerator) findSocialProfiles(ctx context.Context, name string) map[string]string {
	profiles := map[string]string{}
	queries := socialQueries(name)
	if len(queries) > 3 {
		queries = queries[:3]
	}
	for _, q := range queries {
		results, err := g.searcher.Search(ctx, q, 3)
		if err != nil {
			continue
		}
		for _, r := range results {
			switch {
			case strings.Contains(r.URL, "twitter.com") && profiles["twitter"] == "":
				profiles["twitter"] = r.URL
			case strings.Contains(r.URL, "linkedin.com") && profiles["linkedin"] == "":
				profiles["linkedin"] = r.URL
			}
		}
	}
	return profiles
}

// inferPreferences maps the analyzed beat onto a base response rate and the
// standard response-factor table. The factor values are priors, not
// measurements — they encode how journalists broadly weigh pitch signals.
func inferPreferences(a analyzedData) (float64, persona.ResponseFactors) {
	baseRate := 0.15
	switch {
	case a.PrimaryBeat == "Technology" || a.PrimaryBeat == "AI" || a.PrimaryBeat == "Business":
		baseRate = 0.18
	case strings.Contains(strings.ToLower(a.PrimaryBeat), "investigative"):
		baseRate = 0.08
	}

	factors := persona.ResponseFactors{
		Timing: persona.TimingFactors{
			BreakingNews: persona.F(2.5),
			Exclusive:    persona.F(2.8),
			Embargo:      persona.F(1.8),
			FollowUp:     persona.F(0.7),
		},
		Relevance: persona.RelevanceFactors{
			ExactBeat:    persona.F(2.2),
			AdjacentBeat: persona.F(1.3),
			OffBeat:      persona.F(0.2),
		},
		Quality: persona.QualityFactors{
			DataDriven:      persona.F(1.9),
			ExecutiveAccess: persona.F(2.1),
			GenericPitch:    persona.F(0.3),
		},
	}
	return baseRate, factors
}

func compileProfile(name string, pos positionInfo, a analyzedData, baseRate float64, factors persona.ResponseFactors, social map[string]string) *persona.Persona {
	topics := a.CommonTopics
	top3 := topics
	if len(top3) > 3 {
		top3 = top3[:3]
	}
	top2 := topics
	if len(top2) > 2 {
		top2 = top2[:2]
	}

	systemPrompt := fmt.Sprintf(`You are %s, a %s at %s specializing in %s.

Your coverage focuses on %s with a %s approach. You typically write %s and prefer credible, well-sourced stories.

You respond to pitches that are relevant to your beat, especially those involving %s. You value exclusive information, data-driven stories, and timely news that impacts your coverage area.

Communication style: Professional, direct, and focused on stories that serve your readers' interests.`,
		name, pos.Title, pos.Publication, a.PrimaryBeat,
		strings.Join(top3, ", "), strings.ToLower(a.WritingStyle), strings.ToLower(a.CoverageFrequency),
		strings.Join(top2, ", "))

	if len(social) > 0 {
		var links []string
		for _, platform := range []string{"twitter", "linkedin"} {
			if url := social[platform]; url != "" {
				links = append(links, fmt.Sprintf("%s (%s)", platform, url))
			}
		}
		if len(links) > 0 {
			systemPrompt += fmt.Sprintf("\n\nYou are active on %s and occasionally reference stories you have shared there.", strings.Join(links, ", "))
		}
	}

	return &persona.Persona{
		ID:               IDFor(name, pos.Publication),
		Name:             name,
		Publication:      pos.Publication,
		Beat:             a.PrimaryBeat,
		BaseResponseRate: baseRate,
		ResponseFactors:  factors,
		KeywordTriggers:  topics,
		SystemPrompt:     systemPrompt,
	}
}

func topTopics(articles []articleInfo, n int) []string {
	counts := map[string]int{}
	for _, a := range articles {
		for _, t := range a.Topics {
			counts[t]++
		}
	}
	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

func publicationFromURL(rawURL string) string {
	domain := rawURL
	if i := strings.Index(domain, "://"); i >= 0 {
		domain = domain[i+3:]
	}
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.TrimSuffix(domain, ".com")
	domain = strings.TrimSuffix(domain, ".org")
	return titleCase(domain)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAnyOf(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func has(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
