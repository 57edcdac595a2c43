package tools

import "github.com/veriverse/veriverse/internal/search"

// DefaultRegistry builds the standard capability set. The search client may
// be nil, in which case search-class tools are omitted and the agent works
// from the remaining capabilities.
func DefaultRegistry(searchClient search.Client) *Registry {
	r := NewRegistry()

	if searchClient != nil {
		_ = r.Register(NewWebSearchTool(searchClient))
		_ = r.Register(NewNewsTool(searchClient))
	}
	_ = r.Register(NewWeatherTool())
	_ = r.Register(NewWikipediaTool())
	_ = r.Register(NewCalculatorTool())
	_ = r.Register(NewClockTool())
	_ = r.Register(NewStockTool())

	return r
}

// SearchClassTools are the capabilities that hit a search engine; the agent
// loop uses this set for its search-stall detector and the evidence
// extractor scans their outputs for citations.
var SearchClassTools = map[string]bool{
	"web_search": true,
	"get_news":   true,
	"wikipedia":  true,
}

// IsSearchClass reports whether a tool name belongs to the search class
func IsSearchClass(name string) bool {
	return SearchClassTools[name]
}
