// Package search wraps the external web-search collaborator used by the
// agent's search-class tools and by the resolution engine.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/veriverse/veriverse/internal/cache"
	"github.com/veriverse/veriverse/internal/model"
)

// Result is one search result snippet
type Result struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Options narrows a search request
type Options struct {
	Topic      string   // "news" for dedicated news search, empty for general
	Days       int      // News recency window, only used with Topic "news"
	Depth      string   // "basic" or "advanced"
	MaxResults int
	Domains    []string // Restrict results to these domains
}

// Client is the search collaborator contract
type Client interface {
	Search(ctx context.Context, query string, opts Options) ([]Result, error)
}

const defaultBaseURL = "https://api.tavily.com"

// HTTPClient talks to a Tavily-compatible search API. Responses are cached
// and requests are rate limited so repeated agent loops do not hammer the
// collaborator.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	limiter    *rate.Limiter
	maxResults int
}

// NewHTTPClient creates a search client from configuration
func NewHTTPClient(cfg model.SearchConfig) (*HTTPClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 3
	}

	return &HTTPClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL),
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		maxResults: maxResults,
	}, nil
}

type searchRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	Topic          string   `json:"topic,omitempty"`
	Days           int      `json:"days,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search issues a search request, serving repeated queries from cache
func (c *HTTPClient) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = c.maxResults
	}

	req := searchRequest{
		APIKey:         c.apiKey,
		Query:          query,
		SearchDepth:    opts.Depth,
		Topic:          opts.Topic,
		Days:           opts.Days,
		MaxResults:     maxResults,
		IncludeDomains: opts.Domains,
	}

	key := cacheKey(req)
	if data, ok := c.cache.Get(key); ok {
		var results []Result
		if err := json.Unmarshal(data, &results); err == nil {
			return results, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, string(snippet))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if data, err := json.Marshal(parsed.Results); err == nil {
		_ = c.cache.Set(key, data, 0)
	}

	return parsed.Results, nil
}

// cacheKey derives a stable cache key from the full request shape, minus
// the API key
func cacheKey(req searchRequest) string {
	req.APIKey = ""
	data, _ := json.Marshal(req)
	return cache.Key(string(data))
}
