package resolve

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeneralCategory is the fallback source category used when a run's topics
// match nothing in the registry
const GeneralCategory = "General"

// SourceRegistry is the static topic -> credible-domain mapping, loaded
// once at process start
type SourceRegistry struct {
	categories map[string][]string
}

// DefaultSources is the built-in registry used when no file is configured
var DefaultSources = map[string][]string{
	"General":    {"reuters.com", "apnews.com", "bbc.com", "snopes.com", "factcheck.org"},
	"Technology": {"reuters.com", "theverge.com", "arstechnica.com", "wired.com"},
	"Finance":    {"reuters.com", "bloomberg.com", "ft.com", "economictimes.indiatimes.com"},
	"Sports":     {"espn.com", "espncricinfo.com", "bbc.com/sport"},
	"India":      {"thehindu.com", "indianexpress.com", "pib.gov.in", "altnews.in"},
	"Science":    {"nature.com", "science.org", "newscientist.com"},
	"Health":     {"who.int", "cdc.gov", "nih.gov", "mayoclinic.org"},
}

// NewSourceRegistry creates a registry from an explicit category map
func NewSourceRegistry(categories map[string][]string) *SourceRegistry {
	if categories == nil {
		categories = DefaultSources
	}
	return &SourceRegistry{categories: categories}
}

// LoadSourceRegistry reads a YAML registry file mapping category names to
// domain lists. An empty path yields the built-in defaults.
func LoadSourceRegistry(path string) (*SourceRegistry, error) {
	if path == "" {
		return NewSourceRegistry(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	categories := make(map[string][]string)
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("decode sources file: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("sources file %s has no categories", path)
	}
	return &SourceRegistry{categories: categories}, nil
}

// DomainsForTopics maps run topics to credible domains. A topic matches a
// category when it is a case-insensitive substring of the category name.
// Duplicates are removed preserving first-seen order.
func (r *SourceRegistry) DomainsForTopics(topics []string) []string {
	var domains []string
	seen := make(map[string]bool)

	for _, topic := range topics {
		topicLower := strings.ToLower(topic)
		if topicLower == "" {
			continue
		}
		for category, categoryDomains := range r.categories {
			if !strings.Contains(strings.ToLower(category), topicLower) {
				continue
			}
			for _, d := range categoryDomains {
				if !seen[d] {
					seen[d] = true
					domains = append(domains, d)
				}
			}
		}
	}
	return domains
}

// GeneralDomains returns the fallback domain set
func (r *SourceRegistry) GeneralDomains() []string {
	return r.categories[GeneralCategory]
}

// Categories returns the number of loaded source categories
func (r *SourceRegistry) Categories() int {
	return len(r.categories)
}
