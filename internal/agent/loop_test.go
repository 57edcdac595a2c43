package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veriverse/veriverse/internal/tools"
)

// scriptedOracle replays canned completions and records every prompt
type scriptedOracle struct {
	responses []string
	calls     int
	prompts   []string
}

func (o *scriptedOracle) Name() string { return "scripted" }

func (o *scriptedOracle) IsAvailable(ctx context.Context) bool { return true }

func (o *scriptedOracle) Complete(ctx context.Context, prompt string) (string, error) {
	o.prompts = append(o.prompts, prompt)
	if o.calls >= len(o.responses) {
		return "", errors.New("script exhausted")
	}
	resp := o.responses[o.calls]
	o.calls++
	return resp, nil
}

// staticTool returns a fixed observation for any valid args
type staticTool struct {
	name   string
	output string
}

func (t *staticTool) Name() string        { return t.name }
func (t *staticTool) Description() string { return "static test tool" }

func (t *staticTool) Schema() tools.Schema {
	return tools.Schema{Fields: []tools.Field{
		{Name: "query", Type: "string", Description: "q"},
	}}
}

func (t *staticTool) Execute(args any) string {
	if _, err := t.Schema().Coerce(args); err != nil {
		return "Error validating arguments: " + err.Error()
	}
	return t.output
}

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	if err := r.Register(&staticTool{name: "web_search", output: "search observation"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&staticTool{name: "calculator", output: "Result: 4"}); err != nil {
		t.Fatal(err)
	}
	return r
}

const searchDecision = `{"thought": "look it up", "tool": "web_search", "args": {"query": "apple ceo"}}`
const finalDecision = `{"thought": "done", "tool": "final_answer", "args": {"answer": "Tim Cook is the CEO."}}`

func TestLoop_EarlyTermination(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{searchDecision, finalDecision}}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 10, MaxRetries: 3}, nil)

	res, err := loop.Run(context.Background(), "Is Tim Cook the CEO of Apple?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Answer != "Tim Cook is the CEO." {
		t.Errorf("Answer = %q", res.Answer)
	}
	if res.Exhausted {
		t.Error("Exhausted = true, want false")
	}
	if res.Steps != 2 {
		t.Errorf("Steps = %d, want 2", res.Steps)
	}
	// No oracle calls after the final answer at step 2
	if oracle.calls != 2 {
		t.Errorf("oracle calls = %d, want 2", oracle.calls)
	}
	if len(res.Outputs) != 1 || res.Outputs[0].ToolName != "web_search" {
		t.Errorf("Outputs = %+v, want one web_search output", res.Outputs)
	}
}

func TestLoop_Exhaustion(t *testing.T) {
	// final_answer never appears
	oracle := &scriptedOracle{responses: []string{
		searchDecision, searchDecision, searchDecision, searchDecision,
	}}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 3, MaxRetries: 1}, nil)

	res, err := loop.Run(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !res.Exhausted {
		t.Error("Exhausted = false, want true")
	}
	if res.Answer != fallbackAnswer {
		t.Errorf("Answer = %q, want fallback text", res.Answer)
	}
	if len(res.Outputs) > 3 {
		t.Errorf("Outputs = %d, want at most MaxSteps", len(res.Outputs))
	}
	if oracle.calls != 3 {
		t.Errorf("oracle calls = %d, want 3", oracle.calls)
	}
}

func TestLoop_ImmediateRepeatWarning(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		searchDecision, searchDecision, finalDecision,
	}}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 5, MaxRetries: 1}, nil)

	if _, err := loop.Run(context.Background(), "claim"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(oracle.prompts) != 3 {
		t.Fatalf("prompts = %d, want 3", len(oracle.prompts))
	}
	// The context for step 3 must carry the corrective message
	if !strings.Contains(oracle.prompts[2], warnImmediateRepeat) {
		t.Error("expected immediate-repeat warning in the step-3 context")
	}
	// And the earlier contexts must not
	if strings.Contains(oracle.prompts[1], warnImmediateRepeat) {
		t.Error("warning appeared before two identical invocations happened")
	}
}

func TestLoop_MalformedDecisionNotTerminal(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		"I will not produce JSON", "still prose", "more prose", // step 1, 3 retries
		finalDecision, // step 2
	}}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 5, MaxRetries: 3}, nil)

	res, err := loop.Run(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Answer != "Tim Cook is the CEO." {
		t.Errorf("Answer = %q, loop should have recovered", res.Answer)
	}
	if oracle.calls != 4 {
		t.Errorf("oracle calls = %d, want 4 (3 failed retries + 1 success)", oracle.calls)
	}
}

func TestLoop_UnknownToolNotTerminal(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`{"thought": "t", "tool": "nonexistent", "args": {}}`,
		finalDecision,
	}}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 5, MaxRetries: 1}, nil)

	res, err := loop.Run(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Answer != "Tim Cook is the CEO." {
		t.Errorf("Answer = %q, loop should have continued past unknown tool", res.Answer)
	}
	if len(res.Outputs) != 0 {
		t.Errorf("Outputs = %d, unknown tool must not produce output", len(res.Outputs))
	}
	// Step 2 context should mention the unknown tool error
	if !strings.Contains(oracle.prompts[1], "unknown tool") {
		t.Error("expected unknown-tool error in next context")
	}
}

func TestLoop_FinalAnswerStringArgs(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`{"thought": "t", "tool": "final_answer", "args": "bare answer"}`,
	}}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 5, MaxRetries: 1}, nil)

	res, err := loop.Run(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Answer != "bare answer" {
		t.Errorf("Answer = %q, want bare answer", res.Answer)
	}
}

func TestLoop_RefusalShortCircuit(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		RefusalMarker + " this is an opinion, not a checkable claim",
	}}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 5, MaxRetries: 1, RefinePrompt: true}, nil)

	res, err := loop.Run(context.Background(), "pineapple belongs on pizza")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Refused {
		t.Error("Refused = false, want true")
	}
	if oracle.calls != 1 {
		t.Errorf("oracle calls = %d, tool loop should have been skipped", oracle.calls)
	}
	if len(res.Outputs) != 0 {
		t.Error("refusal must not produce tool outputs")
	}
}

func TestLoop_SearchStallWarning(t *testing.T) {
	// 9 identical-class search calls (alternating args to dodge the repeat
	// detector), then finish
	responses := make([]string, 0, 12)
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			responses = append(responses, `{"thought": "t", "tool": "web_search", "args": {"query": "a"}}`)
		} else {
			responses = append(responses, `{"thought": "t", "tool": "web_search", "args": {"query": "b"}}`)
		}
	}
	responses = append(responses, finalDecision)

	oracle := &scriptedOracle{responses: responses}
	loop := New(oracle, testRegistry(t), Config{MaxSteps: 12, MaxRetries: 1}, nil)

	if _, err := loop.Run(context.Background(), "claim"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// After >5 search calls and step >8, the stall warning must appear
	found := false
	for i, p := range oracle.prompts {
		if strings.Contains(p, warnSearchStall) {
			if i < 8 {
				t.Errorf("stall warning appeared too early, at prompt %d", i)
			}
			found = true
		}
	}
	if !found {
		t.Error("expected search-stall warning in a late-step context")
	}
}
