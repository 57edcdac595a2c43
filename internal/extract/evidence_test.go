package extract

import (
	"strings"
	"testing"

	"github.com/veriverse/veriverse/internal/model"
)

const searchOutput = `- **Title One**
  Some content here.
  Source: https://example.com/1

- **Title Two**
  Multi-line
  content here.
  Source: https://example.com/2`

func TestExtractCitationURLs(t *testing.T) {
	urls := ExtractCitationURLs(searchOutput)
	if len(urls) != 2 {
		t.Fatalf("got %d URLs, want 2: %v", len(urls), urls)
	}
	if urls[0] != "https://example.com/1" || urls[1] != "https://example.com/2" {
		t.Errorf("urls = %v", urls)
	}
}

func TestExtract_SourceDedup(t *testing.T) {
	outputs := []model.ToolOutput{
		{ToolName: "web_search", Content: searchOutput},
		{ToolName: "get_news", Content: "Latest News:\n- **Title Three**\n  More.\n  Source: https://example.com/1"},
	}

	ext := NewExtractor().Extract(outputs)

	// https://example.com/1 appears in both outputs but must be listed once,
	// in first-seen order
	want := []string{"https://example.com/1", "https://example.com/2"}
	if len(ext.Sources) != len(want) {
		t.Fatalf("Sources = %v, want %v", ext.Sources, want)
	}
	for i := range want {
		if ext.Sources[i] != want[i] {
			t.Errorf("Sources[%d] = %q, want %q", i, ext.Sources[i], want[i])
		}
	}
}

func TestExtract_NonSearchToolsYieldNoSources(t *testing.T) {
	outputs := []model.ToolOutput{
		{ToolName: "calculator", Content: "- **Fake**\n  x\n  Source: https://example.com/spoof"},
	}

	ext := NewExtractor().Extract(outputs)
	if len(ext.Sources) != 0 {
		t.Errorf("Sources = %v, want none from non-search tools", ext.Sources)
	}
	if len(ext.Evidence) != 1 {
		t.Errorf("Evidence = %d, want 1", len(ext.Evidence))
	}
}

func TestExtract_StepTrace(t *testing.T) {
	long := strings.Repeat("x", 600)
	outputs := []model.ToolOutput{
		{
			ToolName: "web_search",
			Content:  long,
			Metadata: model.ToolMetadata{Thought: "look it up", Args: map[string]any{"query": "q"}},
		},
		{ToolName: "calculator", Content: "Result: 4"},
	}

	ext := NewExtractor().Extract(outputs)
	if len(ext.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(ext.Steps))
	}

	// 1-indexed
	if ext.Steps[0].Step != 1 || ext.Steps[1].Step != 2 {
		t.Errorf("step numbers = %d, %d; want 1, 2", ext.Steps[0].Step, ext.Steps[1].Step)
	}
	if ext.Steps[0].Thought != "look it up" {
		t.Errorf("Thought = %q", ext.Steps[0].Thought)
	}

	obs := ext.Steps[0].Observation
	if len([]rune(obs)) != MaxObservationLen+3 {
		t.Errorf("observation length = %d, want %d plus ellipsis", len([]rune(obs)), MaxObservationLen)
	}
	if !strings.HasSuffix(obs, "...") {
		t.Error("truncated observation missing ellipsis marker")
	}
	if ext.Steps[1].Observation != "Result: 4" {
		t.Errorf("short observation modified: %q", ext.Steps[1].Observation)
	}
}

func TestStripTrailingSources(t *testing.T) {
	answer := "The CEO of Apple is Tim Cook.\n\n**Sources:**\n* [Link 1](http://example.com)\n* [Link 2](http://example.org)"
	got := StripTrailingSources(answer)
	if got != "The CEO of Apple is Tim Cook." {
		t.Errorf("StripTrailingSources = %q", got)
	}
}

func TestStripTrailingSources_Variants(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Answer.\n\n## References\n1. something", "Answer."},
		{"Answer.\n\nCitations: a, b, c", "Answer."},
		{"Answer.\n\nsources:\n- x", "Answer."},
		{"Answer with no citation block.", "Answer with no citation block."},
	}
	for _, tc := range cases {
		if got := StripTrailingSources(tc.in); got != tc.want {
			t.Errorf("StripTrailingSources(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abcdefghij", 5); got != "abcde..." {
		t.Errorf("Truncate = %q", got)
	}
}
