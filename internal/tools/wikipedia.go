package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultWikipediaURL = "https://en.wikipedia.org/api/rest_v1"

// maxSummarySentences bounds encyclopedia summaries for prompt budget
const maxSummarySentences = 10

// WikipediaTool looks up topic summaries from the Wikipedia REST API
type WikipediaTool struct {
	baseURL    string
	httpClient *http.Client
}

// NewWikipediaTool creates the wikipedia capability
func NewWikipediaTool() *WikipediaTool {
	return &WikipediaTool{
		baseURL:    defaultWikipediaURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *WikipediaTool) Name() string { return "wikipedia" }

func (t *WikipediaTool) Description() string {
	return "Get a concise summary of a topic from Wikipedia. Use this for factual questions about people, places, history, or concepts."
}

func (t *WikipediaTool) Schema() Schema {
	return Schema{Fields: []Field{
		{Name: "query", Type: "string", Description: "The topic to search for on Wikipedia"},
	}}
}

type wikiSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	Type    string `json:"type"`
	Content struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (t *WikipediaTool) Execute(args any) string {
	coerced, err := t.Schema().Coerce(args)
	if err != nil {
		return errorText("validating arguments", err)
	}
	query := strings.TrimSpace(argString(coerced, "query"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	title := strings.ReplaceAll(query, " ", "_")
	reqURL := fmt.Sprintf("%s/page/summary/%s", t.baseURL, url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errorText("searching Wikipedia", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errorText("searching Wikipedia", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("Page not found for '%s'.", query)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error searching Wikipedia: status %d", resp.StatusCode)
	}

	var summary wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return errorText("searching Wikipedia", err)
	}

	if summary.Type == "disambiguation" {
		return fmt.Sprintf("Ambiguous query '%s'. Try a more specific topic.", query)
	}
	if summary.Extract == "" {
		return fmt.Sprintf("Page not found for '%s'.", query)
	}

	text := limitSentences(summary.Extract, maxSummarySentences)
	pageURL := summary.Content.Desktop.Page
	if pageURL == "" {
		pageURL = fmt.Sprintf("https://en.wikipedia.org/wiki/%s", title)
	}

	return fmt.Sprintf("Wikipedia Summary for '%s':\n%s\nSource: %s", query, text, pageURL)
}

// limitSentences keeps at most n period-delimited sentences
func limitSentences(text string, n int) string {
	parts := strings.SplitAfterN(text, ". ", n+1)
	if len(parts) <= n {
		return text
	}
	return strings.TrimSpace(strings.Join(parts[:n], ""))
}
