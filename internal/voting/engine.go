// Package voting simulates the community review pool. Runs awaiting votes
// collect weighted reviewer verdicts until the quota is met, at which point
// the consensus confidence is computed and the run completes.
package voting

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veriverse/veriverse/internal/consensus"
	"github.com/veriverse/veriverse/internal/model"
	"github.com/veriverse/veriverse/internal/store"
)

// agreementRate is the probability a simulated reviewer votes with the
// provisional answer's leaning rather than against it
const agreementRate = 0.85

// Engine polls for runs awaiting votes and casts simulated reviewer votes
type Engine struct {
	store     *store.Store
	reviewers []model.Reviewer
	cfg       model.VotingConfig
	logger    *zap.Logger
	rng       *rand.Rand
}

// New creates a voting engine. A nil logger disables logging.
func New(st *store.Store, reviewers []model.Reviewer, cfg model.VotingConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(reviewers) == 0 {
		reviewers = DefaultReviewers
	}
	if cfg.RequiredVotes <= 0 {
		cfg.RequiredVotes = 3
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &Engine{
		store:     st,
		reviewers: reviewers,
		cfg:       cfg,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run polls on the configured interval until ctx is cancelled
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.Poll(ctx); err != nil {
				e.logger.Warn("voting poll failed", zap.Error(err))
			}
		}
	}
}

// Poll casts votes for every run awaiting them and returns how many runs
// reached quorum this cycle
func (e *Engine) Poll(ctx context.Context) (int, error) {
	runs, err := e.store.ListAll()
	if err != nil {
		return 0, fmt.Errorf("list runs: %w", err)
	}

	completed := 0
	for id, run := range runs {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}
		if run.Status != model.StatusAwaitingVotes {
			continue
		}
		done, err := e.voteOn(run)
		if err != nil {
			e.logger.Warn("could not vote on run", zap.String("run_id", id), zap.Error(err))
			continue
		}
		if done {
			completed++
		}
	}
	return completed, nil
}

// voteOn fills the run's vote quota with fresh reviewer votes, then
// finalizes consensus once the quota is met
func (e *Engine) voteOn(run *model.Run) (bool, error) {
	needed := e.cfg.RequiredVotes - len(run.Votes)
	var fresh []model.Vote
	if needed > 0 {
		leaning := answerLeaning(run.ProvisionalAnswer)
		for _, rev := range e.selectReviewers(run, needed) {
			fresh = append(fresh, e.castVote(rev, run, leaning))
		}
	}

	updated, err := e.store.Update(run.ID, func(rec *model.Run) {
		rec.Votes = append(rec.Votes, fresh...)
		if len(rec.Votes) >= e.cfg.RequiredVotes {
			conf := consensus.Confidence(rec.Votes)
			rec.Confidence = &conf
			rec.Status = model.StatusCompleted
		}
	})
	if err != nil {
		return false, err
	}

	if updated.Status == model.StatusCompleted {
		e.logger.Info("run reached vote quorum",
			zap.String("run_id", run.ID),
			zap.Int("votes", len(updated.Votes)),
			zap.Float64p("confidence", updated.Confidence))
		return true, nil
	}
	return false, nil
}

// selectReviewers picks up to n reviewers who have not yet voted on the
// run, preferring those whose expertise matches its topics
func (e *Engine) selectReviewers(run *model.Run, n int) []model.Reviewer {
	voted := make(map[string]bool, len(run.Votes))
	for _, v := range run.Votes {
		voted[v.UserID] = true
	}

	var matched, rest []model.Reviewer
	for _, rev := range e.reviewers {
		if voted[rev.UserID] {
			continue
		}
		if expertiseMatches(rev, run.Topics) {
			matched = append(matched, rev)
		} else {
			rest = append(rest, rev)
		}
	}

	pool := append(matched, rest...)
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

func (e *Engine) castVote(rev model.Reviewer, run *model.Run, leaning int) model.Vote {
	vote := leaning
	if e.rng.Float64() > agreementRate {
		vote = -leaning
	}

	rationale := "community review"
	if expertiseMatches(rev, run.Topics) {
		rationale = "expertise-matched review"
	}
	return model.Vote{
		RunID:     run.ID,
		UserID:    rev.UserID,
		Vote:      vote,
		Weight:    VoteWeight(rev, run.Topics),
		Rationale: rationale,
	}
}

// VoteWeight derives a vote's weight from reviewer precision: boosted 1.1x
// when expertise matches the run's topics, dampened 0.7x otherwise, capped
// at 1.0 and rounded to two decimals
func VoteWeight(rev model.Reviewer, topics []string) float64 {
	factor := 0.7
	if expertiseMatches(rev, topics) {
		factor = 1.1
	}
	w := rev.Precision * factor
	if w > 1.0 {
		w = 1.0
	}
	return math.Round(w*100) / 100
}

// expertiseMatches reports whether any reviewer expertise overlaps the
// run's topics, case-insensitively and by substring in either direction
func expertiseMatches(rev model.Reviewer, topics []string) bool {
	for _, exp := range rev.Expertise {
		expLower := strings.ToLower(exp)
		for _, topic := range topics {
			topicLower := strings.ToLower(topic)
			if topicLower == "" || expLower == "" {
				continue
			}
			if strings.Contains(expLower, topicLower) || strings.Contains(topicLower, expLower) {
				return true
			}
		}
	}
	return false
}

// answerLeaning reads the provisional answer's direction: -1 when it reads
// as a debunk, +1 otherwise
func answerLeaning(answer string) int {
	lower := strings.ToLower(answer)
	for _, marker := range []string{"false", "incorrect", "debunked", "hoax", "misleading", "no evidence"} {
		if strings.Contains(lower, marker) {
			return -1
		}
	}
	return 1
}
