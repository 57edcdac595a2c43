// Package extract post-processes raw tool outputs into the persistable
// shape of a run record: normalized evidence, deduplicated source URLs and
// a readable step trace.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veriverse/veriverse/internal/model"
	"github.com/veriverse/veriverse/internal/tools"
)

// MaxObservationLen bounds observations in the persisted step trace
const MaxObservationLen = 500

// citationPattern matches the title/body/source blocks emitted by
// search-class tools: "- **Title**\n  content\n  Source: URL"
var citationPattern = regexp.MustCompile(`(?s)- \*\*(.*?)\*\*\s+.*?\s+Source: (.*?)(?:\n\n|\z)`)

// trailingSourcesPattern matches a redundant citation block at the end of
// the oracle's free-text answer: a heading-like marker followed by
// Sources/References/Citations, through end of text.
var trailingSourcesPattern = regexp.MustCompile(`(?is)\n+(\*\*|#+\s)?(Sources|References|Citations).*\z`)

// Extraction is the normalized result of one agent run
type Extraction struct {
	Evidence []model.Evidence
	Sources  []string // Unique citation URLs, first-seen order
	Steps    []model.StepTrace
}

// Extractor turns accumulated tool outputs into run-record fields
type Extractor struct{}

// NewExtractor creates an extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes the ordered tool outputs of one run
func (e *Extractor) Extract(outputs []model.ToolOutput) *Extraction {
	ext := &Extraction{}
	seen := make(map[string]bool)

	for i, out := range outputs {
		ext.Evidence = append(ext.Evidence, model.Evidence{
			ToolName: out.ToolName,
			Content:  out.Content,
		})

		if tools.IsSearchClass(out.ToolName) {
			for _, url := range ExtractCitationURLs(out.Content) {
				if !seen[url] {
					seen[url] = true
					ext.Sources = append(ext.Sources, url)
				}
			}
		}

		ext.Steps = append(ext.Steps, model.StepTrace{
			Step:        i + 1,
			Thought:     out.Metadata.Thought,
			Tool:        out.ToolName,
			Args:        formatArgs(out.Metadata.Args),
			Observation: Truncate(out.Content, MaxObservationLen),
		})
	}

	return ext
}

// ExtractCitationURLs scans tool output text for citation blocks and
// returns their source URLs in order of appearance
func ExtractCitationURLs(content string) []string {
	var urls []string
	for _, match := range citationPattern.FindAllStringSubmatch(content, -1) {
		url := strings.TrimSpace(match[2])
		if url != "" && url != "No URL" {
			urls = append(urls, url)
		}
	}
	return urls
}

// StripTrailingSources removes a redundant Sources/References/Citations
// block from the end of the final answer. The structural source list
// already carries those URLs.
func StripTrailingSources(answer string) string {
	return strings.TrimSpace(trailingSourcesPattern.ReplaceAllString(answer, ""))
}

// Truncate shortens text to max runes, appending an ellipsis marker when
// anything was cut
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func formatArgs(args any) string {
	if args == nil {
		return ""
	}
	if s, ok := args.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", args)
}
