// Package agent drives the bounded think/act cycle that gathers evidence
// for a claim: ask the oracle for a decision, validate and execute it
// against the tool registry, accumulate observations, answer or run out of
// steps.
package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veriverse/veriverse/internal/model"
	"github.com/veriverse/veriverse/internal/oracle"
	"github.com/veriverse/veriverse/internal/tools"
)

// Anti-loop detector thresholds
const (
	searchStallCount = 5 // Search-class calls before the stall detector arms
	searchStallStep  = 8 // Step index the stall detector requires
)

// Config bounds one loop instance
type Config struct {
	MaxSteps     int
	MaxRetries   int // Decision-parse retries per step
	Persona      string
	RefinePrompt bool // Pre-loop prompt rewrite through the oracle
}

// Loop runs the think/act cycle for a single claim. Instances are cheap;
// create one per claim and do not share them between goroutines.
type Loop struct {
	oracle   oracle.Provider
	registry *tools.Registry
	cfg      Config
	logger   *zap.Logger
}

// Result is the loop's terminal output
type Result struct {
	Answer    string
	Outputs   []model.ToolOutput
	Steps     int
	Exhausted bool // Step budget ran out; Answer is the fallback text
	Refused   bool // Pre-loop refinement declined the claim
}

// New creates a loop over the given oracle and tool registry
func New(provider oracle.Provider, registry *tools.Registry, cfg Config, logger *zap.Logger) *Loop {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Persona == "" {
		cfg.Persona = "a careful fact-checking assistant"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{oracle: provider, registry: registry, cfg: cfg, logger: logger}
}

// Run executes the loop until a final answer, refusal, or step exhaustion.
// Only a context error or an unusable oracle terminates with error.
func (l *Loop) Run(ctx context.Context, claim string) (*Result, error) {
	if l.oracle == nil {
		return nil, fmt.Errorf("no oracle provider configured")
	}

	if l.cfg.RefinePrompt {
		refined, err := l.refine(ctx, claim)
		if err != nil {
			l.logger.Warn("prompt refinement failed, using original claim", zap.Error(err))
		} else if strings.HasPrefix(refined, RefusalMarker) {
			return &Result{Answer: refined, Refused: true}, nil
		} else if refined != "" {
			claim = refined
		}
	}

	var (
		scratchpad  []scratchEntry
		outputs     []model.ToolOutput
		invocations []invocation
		searchCalls int
		toolList    = l.registry.Describe()
	)

	for step := 1; step <= l.cfg.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		warnings := detectLoops(invocations, searchCalls, step)
		prompt := buildPrompt(l.cfg.Persona, claim, toolList, scratchpad, warnings)

		decision, err := withRetry(l.cfg.MaxRetries, func() (*model.Decision, error) {
			completion, err := l.oracle.Complete(ctx, prompt)
			if err != nil {
				return nil, fmt.Errorf("oracle: %w", err)
			}
			return ParseDecision(completion)
		})
		if err != nil {
			// Not terminal: record the failure and move to the next step
			l.logger.Warn("decision acquisition failed", zap.Int("step", step), zap.Error(err))
			scratchpad = append(scratchpad, scratchEntry{
				Observation: "Error: failed to produce a valid decision",
			})
			continue
		}

		if decision.Tool == tools.FinalAnswerTool {
			answer := answerFromArgs(decision.Args)
			l.logger.Info("final answer reached", zap.Int("step", step))
			return &Result{
				Answer:  answer,
				Outputs: outputs,
				Steps:   step,
			}, nil
		}

		tool, ok := l.registry.Get(decision.Tool)
		if !ok {
			scratchpad = append(scratchpad, scratchEntry{
				Thought:     decision.Thought,
				Action:      decision.Tool,
				Args:        argsKey(decision.Args),
				Observation: fmt.Sprintf("Error: unknown tool %q", decision.Tool),
			})
			continue
		}

		observation := tool.Execute(decision.Args)

		scratchpad = append(scratchpad, scratchEntry{
			Thought:     decision.Thought,
			Action:      decision.Tool,
			Args:        argsKey(decision.Args),
			Observation: observation,
		})
		outputs = append(outputs, model.ToolOutput{
			ToolName: decision.Tool,
			Content:  observation,
			Metadata: model.ToolMetadata{Args: decision.Args, Thought: decision.Thought},
		})
		invocations = append(invocations, invocation{tool: decision.Tool, args: argsKey(decision.Args)})
		if tools.IsSearchClass(decision.Tool) {
			searchCalls++
		}
	}

	l.logger.Info("step budget exhausted", zap.Int("max_steps", l.cfg.MaxSteps))
	return &Result{
		Answer:    fallbackAnswer,
		Outputs:   outputs,
		Steps:     l.cfg.MaxSteps,
		Exhausted: true,
	}, nil
}

// refine issues the single pre-loop oracle call that rewrites a vague
// claim into a checkable one
func (l *Loop) refine(ctx context.Context, claim string) (string, error) {
	completion, err := l.oracle.Complete(ctx, buildRefinePrompt(claim))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion), nil
}

// invocation is one executed (tool, args) pair, kept for repeat detection
type invocation struct {
	tool string
	args string
}

// detectLoops produces advisory warnings for the next context. It never
// blocks an action.
func detectLoops(invocations []invocation, searchCalls, step int) []string {
	var warnings []string

	if n := len(invocations); n >= 2 {
		last, prev := invocations[n-1], invocations[n-2]
		if last.tool == prev.tool && last.args == prev.args {
			warnings = append(warnings, warnImmediateRepeat)
		}
	}

	if searchCalls > searchStallCount && step > searchStallStep {
		warnings = append(warnings, warnSearchStall)
	}

	return warnings
}
