package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SimulatedSearcher fabricates plausible search results from query patterns.
// It is the development/offline fallback when no real search collaborator is
// wired in, mirroring the rest of the pipeline's assumption that results are
// untrusted either way.
type SimulatedSearcher struct{}

var quotedNameRe = regexp.MustCompile(`"([^"]+)"`)

func (SimulatedSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	name := "Unknown Reporter"
	if m := quotedNameRe.FindStringSubmatch(query); len(m) > 1 {
		name = m[1]
	}
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	now := time.Now()

	var results []SearchResult
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "twitter") || strings.Contains(lower, "linkedin"):
		results = []SearchResult{
			{
				Title:        fmt.Sprintf("%s (@%s) / Twitter", name, strings.ReplaceAll(slug, "-", "")),
				URL:          fmt.Sprintf("https://twitter.com/%s", strings.ReplaceAll(slug, "-", "")),
				Snippet:      fmt.Sprintf("The latest Tweets from %s. Technology reporter.", name),
				SourceDomain: "twitter.com",
				DateFound:    now,
			},
		}
	case strings.Contains(lower, "journalist") || strings.Contains(lower, "reporter") || strings.Contains(lower, "bio") || strings.Contains(lower, "author"):
		results = []SearchResult{
			{
				Title:        fmt.Sprintf("%s - Senior Reporter", name),
				URL:          fmt.Sprintf("https://example-publication.com/author/%s", slug),
				Snippet:      fmt.Sprintf("%s is a senior reporter covering technology and business.", name),
				SourceDomain: "example-publication.com",
				DateFound:    now,
			},
		}
	default:
		results = []SearchResult{
			{
				Title:        "Enterprise software startup raises funding round",
				URL:          fmt.Sprintf("https://example-publication.com/2025/11/enterprise-funding-%s", slug),
				Snippet:      "An enterprise software company announced a new funding round led by major investors, with revenue data showing strong growth.",
				SourceDomain: "example-publication.com",
				DateFound:    now,
			},
			{
				Title:        "Security breach analysis: what the data shows",
				URL:          fmt.Sprintf("https://example-publication.com/2025/10/security-analysis-%s", slug),
				Snippet:      "A deep analysis of recent security incidents across cloud platforms, based on breach disclosure data.",
				SourceDomain: "example-publication.com",
				DateFound:    now,
			},
			{
				Title:        "AI platform news: enterprise adoption accelerates",
				URL:          fmt.Sprintf("https://example-publication.com/2025/09/ai-adoption-%s", slug),
				Snippet:      "New survey data shows artificial intelligence adoption in the enterprise is accelerating faster than analysts expected.",
				SourceDomain: "example-publication.com",
				DateFound:    now,
			},
		}
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}
