package generate

import (
	"context"
	"fmt"
	"time"
)

// SearchResult is one untrusted web search hit. Nothing downstream assumes
// the fields are accurate — the pipeline filters and cross-checks.
type SearchResult struct {
	Title        string
	URL          string
	Snippet      string
	SourceDomain string
	DateFound    time.Time
}

// WebSearcher is the opaque external search capability the research pipeline
// consumes. Implementations may be slow and may fail; no crawling happens
// inside this module.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// verificationQueries finds evidence the journalist exists and where they
// currently work.
func verificationQueries(name, publication string) []string {
	queries := []string{
		fmt.Sprintf("%q journalist", name),
		fmt.Sprintf("%q reporter bio", name),
		fmt.Sprintf("%q author page", name),
	}
	if publication != "" {
		queries = append([]string{fmt.Sprintf("%q %s", name, publication)}, queries...)
	}
	return queries
}

// articleQueries finds recently published work.
func articleQueries(name, publication string) []string {
	queries := []string{
		fmt.Sprintf("%q latest articles", name),
		fmt.Sprintf("articles by %q", name),
		fmt.Sprintf("%q news story", name),
		fmt.Sprintf("%q analysis", name),
		fmt.Sprintf("%q report", name),
		fmt.Sprintf("%q interview", name),
		fmt.Sprintf("%q coverage", name),
		fmt.Sprintf("%q byline", name),
	}
	if publication != "" {
		queries = append([]string{fmt.Sprintf("%q site:%s", name, publication)}, queries...)
	}
	return queries
}

// socialQueries finds public social profiles (comprehensive depth only).
func socialQueries(name string) []string {
	return []string{
		fmt.Sprintf("%q twitter", name),
		fmt.Sprintf("%q linkedin", name),
		fmt.Sprintf("%q journalist profile", name),
	}
}
