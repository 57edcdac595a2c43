// Package consensus turns weighted community votes into a single confidence
// score and, once a run is resolved, partitions voters by outcome.
package consensus

import (
	"fmt"
	"math"

	"github.com/veriverse/veriverse/internal/model"
)

// Confidence maps a set of weighted votes onto [0,1].
//
// The signed weighted average sum(vote*weight)/sum(|weight|) lives in [-1,1];
// it is shifted into [0,1] and rounded to 3 decimal places. An empty vote set
// yields exactly 0.5 - a documented neutral default, not "no data".
func Confidence(votes []model.Vote) float64 {
	var weighted, totalWeight float64
	for _, v := range votes {
		weighted += float64(v.Vote) * v.Weight
		totalWeight += math.Abs(v.Weight)
	}
	if totalWeight == 0 {
		totalWeight = 1
	}
	normalized := (weighted/totalWeight + 1) / 2
	return math.Round(normalized*1000) / 1000
}

// Outcome is the result of scoring votes against a resolved verdict
type Outcome struct {
	Correct   []string // User IDs whose vote matched ground truth
	Incorrect []string
}

// ScoreVotes partitions a run's voters into correct and incorrect sets.
// Fails if the run has no ground-truth verdict yet.
func ScoreVotes(run *model.Run) (*Outcome, error) {
	if !run.Resolved() {
		return nil, fmt.Errorf("run %s has no ground truth: not yet resolved", run.ID)
	}

	out := &Outcome{}
	for _, v := range run.Votes {
		if v.Vote == run.GroundTruth {
			out.Correct = append(out.Correct, v.UserID)
		} else {
			out.Incorrect = append(out.Incorrect, v.UserID)
		}
	}
	return out, nil
}
