// Package validate performs advisory accessibility checks on the source
// URLs a run cites. Results annotate the run's answer quality; they never
// block the pipeline.
package validate

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/veriverse/veriverse/internal/model"
)

const maxConcurrentChecks = 10

// SourceStatus is the advisory verdict on one cited URL
type SourceStatus struct {
	URL           string `json:"url"`
	Accessible    bool   `json:"accessible"`
	StatusCode    int    `json:"status_code,omitempty"`
	RobotsAllowed bool   `json:"robots_allowed"`
	Error         string `json:"error,omitempty"`
}

// Validator checks cited source URLs concurrently, honoring robots.txt
// and per-domain rate limits
type Validator struct {
	httpClient *http.Client
	robots     *robotsChecker
	limiter    *domainLimiter
	userAgent  string
}

// NewValidator creates a validator from config
func NewValidator(cfg model.ValidationConfig) *Validator {
	return &Validator{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    newRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   newDomainLimiter(cfg.RequestsPerSecond, cfg.Burst),
		userAgent: cfg.UserAgent,
	}
}

// ValidateSources checks every URL concurrently and returns statuses in
// input order
func (v *Validator) ValidateSources(ctx context.Context, urls []string) []SourceStatus {
	if len(urls) == 0 {
		return nil
	}

	statuses := make([]SourceStatus, len(urls))
	semaphore := make(chan struct{}, maxConcurrentChecks)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				statuses[idx] = SourceStatus{URL: rawURL, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			statuses[idx] = v.check(ctx, rawURL)
		}(i, u)
	}
	wg.Wait()

	return statuses
}

// check validates a single URL: robots.txt first, then a HEAD request with
// a GET fallback for servers that reject HEAD
func (v *Validator) check(ctx context.Context, rawURL string) SourceStatus {
	status := SourceStatus{URL: rawURL}

	if !v.robots.Allowed(ctx, rawURL) {
		status.Error = "disallowed by robots.txt"
		return status
	}
	status.RobotsAllowed = true

	if err := v.limiter.Wait(ctx, rawURL); err != nil {
		status.Error = fmt.Sprintf("rate limit wait: %v", err)
		return status
	}

	code, err := v.request(ctx, http.MethodHead, rawURL)
	if err == nil && code == http.StatusMethodNotAllowed {
		code, err = v.request(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		status.Error = fmt.Sprintf("request failed: %v", err)
		return status
	}

	status.StatusCode = code
	status.Accessible = code >= 200 && code < 400
	return status
}

func (v *Validator) request(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, nil
}
