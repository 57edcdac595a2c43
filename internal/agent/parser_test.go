package agent

import (
	"errors"
	"testing"
)

func TestParseDecision_PlainJSON(t *testing.T) {
	d, err := ParseDecision(`{"thought": "check the price", "tool": "get_stock_price", "args": {"ticker": "AAPL"}}`)
	if err != nil {
		t.Fatalf("ParseDecision: %v", err)
	}
	if d.Tool != "get_stock_price" {
		t.Errorf("Tool = %q, want get_stock_price", d.Tool)
	}
	if d.Thought != "check the price" {
		t.Errorf("Thought = %q", d.Thought)
	}
	args, ok := d.Args.(map[string]any)
	if !ok || args["ticker"] != "AAPL" {
		t.Errorf("Args = %v", d.Args)
	}
}

func TestParseDecision_WrappedInProse(t *testing.T) {
	text := "Sure, here is my decision:\n```json\n{\"thought\": \"t\", \"tool\": \"web_search\", \"args\": \"apple ceo\"}\n```\nLet me know."
	d, err := ParseDecision(text)
	if err != nil {
		t.Fatalf("ParseDecision: %v", err)
	}
	if d.Tool != "web_search" {
		t.Errorf("Tool = %q, want web_search", d.Tool)
	}
	if d.Args != "apple ceo" {
		t.Errorf("Args = %v, want bare string", d.Args)
	}
}

func TestParseDecision_ToolNameAlias(t *testing.T) {
	d, err := ParseDecision(`{"thought": "t", "tool_name": "wikipedia", "args": {"query": "Laksa"}}`)
	if err != nil {
		t.Fatalf("ParseDecision: %v", err)
	}
	if d.Tool != "wikipedia" {
		t.Errorf("Tool = %q, want wikipedia", d.Tool)
	}
}

func TestParseDecision_Invalid(t *testing.T) {
	cases := []string{
		"no json here at all",
		"{broken json",
		`{"thought": "missing tool"}`,
		"",
	}
	for _, text := range cases {
		if _, err := ParseDecision(text); err == nil {
			t.Errorf("ParseDecision(%q) succeeded, want error", text)
		}
	}
}

func TestWithRetry(t *testing.T) {
	attempts := 0
	v, err := withRetry(3, func() (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil || v != 42 {
		t.Errorf("withRetry = (%d, %v), want (42, nil)", v, err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}

	attempts = 0
	_, err = withRetry(2, func() (int, error) {
		attempts++
		return 0, errors.New("always")
	})
	if err == nil {
		t.Error("expected error after budget exhausted")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestAnswerFromArgs(t *testing.T) {
	if got := answerFromArgs("plain text"); got != "plain text" {
		t.Errorf("string args = %q", got)
	}
	if got := answerFromArgs(map[string]any{"answer": "the verdict"}); got != "the verdict" {
		t.Errorf("map args = %q", got)
	}
	if got := answerFromArgs(map[string]any{"text": "alt field"}); got != "alt field" {
		t.Errorf("text field = %q", got)
	}
}
