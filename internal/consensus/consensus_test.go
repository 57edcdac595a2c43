package consensus

import (
	"testing"

	"github.com/veriverse/veriverse/internal/model"
)

func TestConfidence_Weighted(t *testing.T) {
	votes := []model.Vote{
		{Vote: 1, Weight: 0.9},
		{Vote: 1, Weight: 0.8},
		{Vote: -1, Weight: 0.4},
	}

	// weighted=1.3, total=2.1, (1.3/2.1+1)/2 = 0.8095... -> 0.81
	got := Confidence(votes)
	if got != 0.81 {
		t.Errorf("Confidence = %v, want 0.81", got)
	}
}

func TestConfidence_Empty(t *testing.T) {
	if got := Confidence(nil); got != 0.5 {
		t.Errorf("Confidence(nil) = %v, want 0.5 exactly", got)
	}
	if got := Confidence([]model.Vote{}); got != 0.5 {
		t.Errorf("Confidence(empty) = %v, want 0.5 exactly", got)
	}
}

func TestConfidence_Unanimous(t *testing.T) {
	votes := []model.Vote{
		{Vote: 1, Weight: 0.7},
		{Vote: 1, Weight: 0.3},
	}
	if got := Confidence(votes); got != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", got)
	}

	votes = []model.Vote{
		{Vote: -1, Weight: 0.5},
	}
	if got := Confidence(votes); got != 0.0 {
		t.Errorf("Confidence = %v, want 0.0", got)
	}
}

func TestConfidence_InRange(t *testing.T) {
	votes := []model.Vote{
		{Vote: 1, Weight: 0.123},
		{Vote: -1, Weight: 0.456},
		{Vote: 1, Weight: 0.789},
	}
	got := Confidence(votes)
	if got < 0 || got > 1 {
		t.Errorf("Confidence = %v, want value in [0,1]", got)
	}
}

func TestScoreVotes(t *testing.T) {
	run := &model.Run{
		ID:          "run-1",
		GroundTruth: model.VerdictTrue,
		Votes: []model.Vote{
			{UserID: "alice", Vote: 1, Weight: 0.9},
			{UserID: "bob", Vote: -1, Weight: 0.8},
		},
	}

	out, err := ScoreVotes(run)
	if err != nil {
		t.Fatalf("ScoreVotes: %v", err)
	}

	if len(out.Correct) != 1 || out.Correct[0] != "alice" {
		t.Errorf("Correct = %v, want [alice]", out.Correct)
	}
	if len(out.Incorrect) != 1 || out.Incorrect[0] != "bob" {
		t.Errorf("Incorrect = %v, want [bob]", out.Incorrect)
	}
}

func TestScoreVotes_Unresolved(t *testing.T) {
	run := &model.Run{
		ID:    "run-2",
		Votes: []model.Vote{{UserID: "alice", Vote: 1, Weight: 0.9}},
	}

	if _, err := ScoreVotes(run); err == nil {
		t.Error("expected error for unresolved run, got nil")
	}
}
