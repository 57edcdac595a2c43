package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veriverse/veriverse/internal/search"
)

// searchTimeout bounds a single tool-level search call
const searchTimeout = 30 * time.Second

// WebSearchTool searches the internet through the search collaborator
type WebSearchTool struct {
	client search.Client
}

// NewWebSearchTool creates the web_search capability
func NewWebSearchTool(client search.Client) *WebSearchTool {
	return &WebSearchTool{client: client}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "Search the internet for current events, facts, or general knowledge. Returns detailed content with source URLs."
}

func (t *WebSearchTool) Schema() Schema {
	return Schema{Fields: []Field{
		{Name: "query", Type: "string", Description: "The search query string"},
	}}
}

func (t *WebSearchTool) Execute(args any) string {
	coerced, err := t.Schema().Coerce(args)
	if err != nil {
		return errorText("validating arguments", err)
	}
	query := argString(coerced, "query")

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	results, err := t.client.Search(ctx, query, search.Options{Depth: "advanced", MaxResults: 5})
	if err != nil {
		return errorText("performing search", err)
	}
	if len(results) == 0 {
		return "No relevant results found."
	}
	return FormatResults(results)
}

// NewsTool searches recent news through the search collaborator
type NewsTool struct {
	client search.Client
}

// NewNewsTool creates the get_news capability
func NewNewsTool(client search.Client) *NewsTool {
	return &NewsTool{client: client}
}

func (t *NewsTool) Name() string { return "get_news" }

func (t *NewsTool) Description() string {
	return "Get the latest news articles for a topic. Use this for current events, sports scores, or recent developments."
}

func (t *NewsTool) Schema() Schema {
	return Schema{Fields: []Field{
		{Name: "query", Type: "string", Description: "The news topic to search for"},
		{Name: "days", Type: "int", Description: "Number of past days to search (default: 3)", Optional: true, Default: 3},
	}}
}

func (t *NewsTool) Execute(args any) string {
	coerced, err := t.Schema().Coerce(args)
	if err != nil {
		return errorText("validating arguments", err)
	}
	query := argString(coerced, "query")
	days := argInt(coerced, "days", 3)

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	results, err := t.client.Search(ctx, query, search.Options{Topic: "news", Days: days, MaxResults: 5})
	if err != nil {
		return errorText("fetching news", err)
	}
	if len(results) == 0 {
		return fmt.Sprintf("No news found for '%s' in the last %d days.", query, days)
	}
	return "Latest News:\n" + FormatResults(results)
}

// FormatResults renders search results as title/body/source blocks. The
// evidence extractor's citation scanner depends on this exact shape.
func FormatResults(results []search.Result) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "No Title"
		}
		content := r.Content
		if content == "" {
			content = "No Content"
		}
		url := r.URL
		if url == "" {
			url = "No URL"
		}
		blocks = append(blocks, fmt.Sprintf("- **%s**\n  %s\n  Source: %s", title, content, url))
	}
	return strings.Join(blocks, "\n\n")
}
