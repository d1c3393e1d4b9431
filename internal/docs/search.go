package docs

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	matchesPerDoc = 2
	fetchParallel = 4
)

// SearchResult holds the matching snippets for one topic.
type SearchResult struct {
	Topic   Topic    `json:"topic"`
	Matches []string `json:"matches"`
}

// Search fetches every topic concurrently and returns, in topic order, up to
// maxResults topics whose content contains query. Any failed fetch fails the
// whole search.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	all := Topics()
	contents := make([]string, len(all))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for i, topic := range all {
		g.Go(func() error {
			content, err := c.Fetch(gctx, topic.Path)
			if err != nil {
				return err
			}
			contents[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []SearchResult
	for i, topic := range all {
		if len(results) >= maxResults {
			break
		}
		matches := matchContexts(contents[i], query, matchesPerDoc)
		if len(matches) == 0 {
			continue
		}
		results = append(results, SearchResult{Topic: topic, Matches: matches})
	}
	return results, nil
}

// FormatSearch renders search results as markdown.
func FormatSearch(query string, results []SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s' in the documentation.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results for '%s'\n\n", query)
	for _, r := range results {
		fmt.Fprintf(&b, "## %s\n", r.Topic.Title())
		fmt.Fprintf(&b, "*File: %s*\n\n", r.Topic.Path)
		for _, m := range r.Matches {
			fmt.Fprintf(&b, "```\n%s\n```\n\n", m)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTopics renders the topic list as markdown.
func FormatTopics() string {
	var b strings.Builder
	b.WriteString("# Available Documentation Topics\n\n")
	for i, t := range topics {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- **%s** (%s): %s", t.Name, t.Category(), t.Path)
	}
	return b.String()
}

// FormatDocument renders a fetched document, narrowed to section when given.
func FormatDocument(topic Topic, content, section string) string {
	section = strings.TrimSpace(section)
	if section == "" {
		return fmt.Sprintf("# %s\n\n%s", topic.Title(), content)
	}
	if extracted, ok := ExtractSection(content, section); ok {
		return fmt.Sprintf("# %s - %s\n\n%s", topic.Title(), section, extracted)
	}
	return fmt.Sprintf("Section '%s' not found in %s documentation.\n\nHere's the full document:\n\n%s", section, topic.Name, content)
}
