// Package resolve implements the automated ground-truth resolution engine.
// It periodically sweeps unresolved runs, re-searches the claim restricted
// to credible domains, and scores the combined results for confirmation or
// denial language.
package resolve

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veriverse/veriverse/internal/model"
	"github.com/veriverse/veriverse/internal/search"
	"github.com/veriverse/veriverse/internal/store"
)

var confirmPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(confirmed|verified|true|accurate|correct|factual)\b`),
	regexp.MustCompile(`\b(according to|sources confirm|officials say)\b`),
	regexp.MustCompile(`\b(is true|has been confirmed)\b`),
}

var denyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(false|fake|hoax|misleading|debunked|incorrect)\b`),
	regexp.MustCompile(`\b(misinformation|disinformation|not true)\b`),
	regexp.MustCompile(`\b(claim is false|has been debunked)\b`),
}

// Resolver sweeps aged, unresolved runs and settles their ground truth
// against credible sources
type Resolver struct {
	store    *store.Store
	searcher search.Client
	registry *SourceRegistry
	cfg      model.ResolutionConfig
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a resolver. A nil logger disables logging.
func New(st *store.Store, searcher search.Client, registry *SourceRegistry, cfg model.ResolutionConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = NewSourceRegistry(nil)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.MinAge <= 0 {
		cfg.MinAge = time.Hour
	}
	if cfg.MaxDomains <= 0 {
		cfg.MaxDomains = 5
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = "advanced"
	}
	if cfg.ResolvedBy == "" {
		cfg.ResolvedBy = "moderator_agent"
	}
	return &Resolver{
		store:    st,
		searcher: searcher,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps on the configured interval until ctx is cancelled
func (r *Resolver) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.logger.Warn("resolution sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep examines every unresolved run old enough to settle and returns how
// many reached a verdict this cycle
func (r *Resolver) Sweep(ctx context.Context) (int, error) {
	runs, err := r.store.ListAll()
	if err != nil {
		return 0, fmt.Errorf("list runs: %w", err)
	}

	resolved := 0
	for id, run := range runs {
		if ctx.Err() != nil {
			return resolved, ctx.Err()
		}
		if !r.eligible(run) {
			continue
		}

		verdict, err := r.resolveRun(ctx, run)
		if err != nil {
			r.logger.Warn("could not resolve run", zap.String("run_id", id), zap.Error(err))
			continue
		}
		if verdict != 0 {
			resolved++
		}
	}
	return resolved, nil
}

func (r *Resolver) eligible(run *model.Run) bool {
	if run.Resolved() {
		return false
	}
	// Unverifiable is terminal: no further resolution attempts
	if run.Status == model.StatusVerified || run.Status == model.StatusUnverifiable {
		return false
	}
	if run.CreatedAt.IsZero() {
		return false
	}
	return r.now().Sub(run.CreatedAt) >= r.cfg.MinAge
}

// resolveRun searches credible domains for the claim and persists the
// outcome. Returns the verdict, or 0 when the evidence stayed inconclusive.
func (r *Resolver) resolveRun(ctx context.Context, run *model.Run) (int, error) {
	domains := r.registry.DomainsForTopics(run.Topics)
	if len(domains) == 0 {
		domains = r.registry.GeneralDomains()
	}
	if len(domains) == 0 {
		return 0, fmt.Errorf("no credible domains for topics %v", run.Topics)
	}
	if len(domains) > r.cfg.MaxDomains {
		domains = domains[:r.cfg.MaxDomains]
	}

	query := siteQuery(run.Prompt, domains)
	results, err := r.searcher.Search(ctx, query, search.Options{
		Depth:      r.cfg.SearchDepth,
		MaxResults: 5,
	})
	if err != nil {
		// Treat a failed search like an empty one: the run stays open as
		// unverifiable rather than blocking the sweep
		r.logger.Warn("credible-source search failed",
			zap.String("run_id", run.ID), zap.Error(err))
		results = nil
	}

	verdict := Verdict(results)
	now := r.now().UTC()

	if verdict == 0 {
		_, err := r.store.Update(run.ID, func(rec *model.Run) {
			rec.Status = model.StatusUnverifiable
			rec.ResolvedAt = &now
			rec.ResolvedBy = r.cfg.ResolvedBy
		})
		if err != nil {
			return 0, err
		}
		r.logger.Info("run unverifiable", zap.String("run_id", run.ID))
		return 0, nil
	}

	_, err = r.store.Update(run.ID, func(rec *model.Run) {
		rec.Status = model.StatusVerified
		rec.GroundTruth = verdict
		rec.ResolvedAt = &now
		rec.ResolvedBy = r.cfg.ResolvedBy
	})
	if err != nil {
		return 0, err
	}
	r.logger.Info("run verified",
		zap.String("run_id", run.ID), zap.Int("verdict", verdict))
	return verdict, nil
}

// Verdict scores credible-source results for confirmation versus denial
// language. It returns +1 or -1 only when one side holds a strict majority
// AND at least two pattern hits; anything weaker is 0 (unresolved).
func Verdict(results []search.Result) int {
	if len(results) == 0 {
		return 0
	}

	var combined strings.Builder
	for _, res := range results {
		combined.WriteString(strings.ToLower(res.Title))
		combined.WriteString(" ")
		combined.WriteString(strings.ToLower(res.Content))
		combined.WriteString(" ")
	}
	content := combined.String()

	confirm := countMatches(content, confirmPatterns)
	deny := countMatches(content, denyPatterns)

	switch {
	case confirm > deny && confirm >= 2:
		return model.VerdictTrue
	case deny > confirm && deny >= 2:
		return model.VerdictFalse
	default:
		return 0
	}
}

func countMatches(content string, patterns []*regexp.Regexp) int {
	total := 0
	for _, p := range patterns {
		total += len(p.FindAllString(content, -1))
	}
	return total
}

// siteQuery builds a search query restricted to the given domains, e.g.
// `claim (site:reuters.com OR site:bbc.com)`
func siteQuery(claim string, domains []string) string {
	sites := make([]string, len(domains))
	for i, d := range domains {
		sites[i] = "site:" + d
	}
	return fmt.Sprintf("%s (%s)", claim, strings.Join(sites, " OR "))
}
