package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veriverse/veriverse/internal/model"
)

// ParseDecision extracts a structured decision from raw oracle text.
//
// Models wrap JSON in prose and code fences, so the parser locates the first
// '{' and the last '}' and decodes that substring. A decision without a tool
// name is rejected.
func ParseDecision(text string) (*model.Decision, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in oracle response")
	}

	var raw struct {
		Thought  string `json:"thought"`
		Tool     string `json:"tool"`
		ToolName string `json:"tool_name"`
		Args     any    `json:"args"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode decision: %w", err)
	}

	tool := raw.Tool
	if tool == "" {
		tool = raw.ToolName
	}
	if tool == "" {
		return nil, fmt.Errorf("decision missing tool name")
	}

	return &model.Decision{
		Thought: raw.Thought,
		Tool:    tool,
		Args:    raw.Args,
	}, nil
}

// withRetry runs fn up to attempts times, returning the first success or
// the last error
func withRetry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return zero, lastErr
}

// answerFromArgs extracts the final answer text from a final_answer decision.
// Structured args carry the text in an "answer" or "text" field; a bare
// string is the answer itself.
func answerFromArgs(args any) string {
	switch v := args.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"answer", "text", "response"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		return fmt.Sprint(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// argsKey canonicalizes decision args for repeat detection
func argsKey(args any) string {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprint(args)
	}
	return string(data)
}
