// Package worker consumes claim jobs from the queue and drives each one
// through the agent loop, evidence extraction, and into the voting stage.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/veriverse/veriverse/internal/agent"
	"github.com/veriverse/veriverse/internal/extract"
	"github.com/veriverse/veriverse/internal/model"
	"github.com/veriverse/veriverse/internal/oracle"
	"github.com/veriverse/veriverse/internal/store"
	"github.com/veriverse/veriverse/internal/tools"
)

// Orchestrator processes queued claims one at a time
type Orchestrator struct {
	store     *store.Store
	queue     *store.Queue
	oracle    oracle.Provider
	registry  *tools.Registry
	cfg       model.AgentConfig
	extractor *extract.Extractor
	logger    *zap.Logger
	idleDelay time.Duration
}

// New creates an orchestrator. A nil logger disables logging.
func New(st *store.Store, q *store.Queue, provider oracle.Provider, registry *tools.Registry, cfg model.AgentConfig, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     st,
		queue:     q,
		oracle:    provider,
		registry:  registry,
		cfg:       cfg,
		extractor: extract.NewExtractor(),
		logger:    logger,
		idleDelay: time.Second,
	}
}

// Run polls the queue until ctx is cancelled, sleeping briefly when it is
// empty
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := o.queue.Dequeue()
		if err != nil {
			o.logger.Warn("dequeue failed", zap.Error(err))
			job = nil
		}
		if job == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.idleDelay):
			}
			continue
		}

		if err := o.Process(ctx, *job); err != nil {
			o.logger.Error("claim processing failed",
				zap.String("run_id", job.RunID), zap.Error(err))
		}
	}
}

// RunPool runs n concurrent orchestrator workers sharing the same queue
// and blocks until all exit
func (o *Orchestrator) RunPool(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Run(ctx)
		}()
	}
	wg.Wait()
}

// Process runs a single claim job end to end: mark in progress, gather
// evidence through the agent loop, extract it, and hand the run over to
// voting. Refusals and exhausted runs still produce answers.
func (o *Orchestrator) Process(ctx context.Context, job model.Job) error {
	if _, err := o.store.Update(job.RunID, func(r *model.Run) {
		r.Status = model.StatusInProgress
	}); err != nil {
		return fmt.Errorf("mark in progress: %w", err)
	}

	o.logger.Info("processing claim", zap.String("run_id", job.RunID))

	loop := agent.New(o.oracle, o.registry, agent.Config{
		MaxSteps:     o.cfg.MaxSteps,
		MaxRetries:   o.cfg.MaxRetries,
		Persona:      o.cfg.Persona,
		RefinePrompt: o.cfg.RefinePrompt,
	}, o.logger)

	res, err := loop.Run(ctx, job.Prompt)
	if err != nil {
		return fmt.Errorf("agent loop: %w", err)
	}

	ext := o.extractor.Extract(res.Outputs)
	answer := extract.StripTrailingSources(res.Answer)

	if _, err := o.store.Update(job.RunID, func(r *model.Run) {
		r.Status = model.StatusAwaitingVotes
		r.ProvisionalAnswer = answer
		r.Evidence = ext.Evidence
		r.Sources = ext.Sources
		r.Steps = ext.Steps
	}); err != nil {
		return fmt.Errorf("persist result: %w", err)
	}

	o.logger.Info("claim awaiting votes",
		zap.String("run_id", job.RunID),
		zap.Int("steps", res.Steps),
		zap.Int("sources", len(ext.Sources)),
		zap.Bool("exhausted", res.Exhausted),
		zap.Bool("refused", res.Refused))
	return nil
}
