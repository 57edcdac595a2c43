package model

import "time"

// RunStatus tracks a claim through its verification lifecycle
type RunStatus string

const (
	StatusQueued        RunStatus = "queued"         // Submitted, waiting for an orchestrator
	StatusInProgress    RunStatus = "in_progress"    // Agent loop running
	StatusAwaitingVotes RunStatus = "awaiting_votes" // Answer attached, collecting reviewer votes
	StatusCompleted     RunStatus = "completed"      // Vote quota reached
	StatusVerified      RunStatus = "verified"       // Resolution engine decided ground truth
	StatusUnverifiable  RunStatus = "unverifiable"   // Resolution engine gave up
)

// Ground truth verdicts. Zero means undecided.
const (
	VerdictTrue  = 1
	VerdictFalse = -1
)

// Run is the full processing record for one submitted claim
type Run struct {
	ID        string    `json:"run_id"`
	Prompt    string    `json:"prompt"`
	Requester string    `json:"requester,omitempty"`
	Status    RunStatus `json:"status"`

	ProvisionalAnswer string   `json:"provisional_answer,omitempty"`
	Confidence        *float64 `json:"confidence,omitempty"` // [0,1] once computed

	Evidence []Evidence  `json:"evidence,omitempty"`
	Sources  []string    `json:"sources,omitempty"` // Deduplicated citation URLs, first-seen order
	Steps    []StepTrace `json:"steps,omitempty"`
	Topics   []string    `json:"topics,omitempty"`
	Votes    []Vote      `json:"votes,omitempty"`

	// GroundTruth is +1 (true) or -1 (false); 0 means not yet resolved.
	// Once set it is never cleared by later processing.
	GroundTruth int `json:"ground_truth,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
}

// Resolved reports whether a ground-truth verdict has been assigned
func (r *Run) Resolved() bool {
	return r.GroundTruth == VerdictTrue || r.GroundTruth == VerdictFalse
}

// Evidence is one tool observation kept on the run record
type Evidence struct {
	ToolName string `json:"tool_name"`
	Content  string `json:"content"`
}

// StepTrace is a human-readable record of one agent step (1-indexed)
type StepTrace struct {
	Step        int    `json:"step"`
	Thought     string `json:"thought,omitempty"`
	Tool        string `json:"tool,omitempty"`
	Args        string `json:"args,omitempty"`
	Observation string `json:"observation,omitempty"` // Truncated, see extract.MaxObservationLen
}

// Job is one queued claim waiting for an orchestrator worker
type Job struct {
	RunID  string `json:"run_id"`
	Prompt string `json:"prompt"`
}
