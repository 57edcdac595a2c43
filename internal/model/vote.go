package model

// Vote is a single weighted reviewer vote on a run
type Vote struct {
	RunID     string  `json:"run_id"`
	UserID    string  `json:"user_id"`
	Vote      int     `json:"vote"`   // +1 agree, -1 disagree
	Weight    float64 `json:"weight"` // [0,1], reviewer credibility
	Rationale string  `json:"rationale,omitempty"`
}

// Reviewer is a community voter persona with expertise and track record.
// Loadable from a YAML personas file.
type Reviewer struct {
	UserID    string   `json:"user_id" yaml:"user_id"`
	Name      string   `json:"name" yaml:"name"`
	Location  string   `json:"location,omitempty" yaml:"location,omitempty"`
	Expertise []string `json:"expertise,omitempty" yaml:"expertise,omitempty"`
	Precision float64  `json:"precision" yaml:"precision"` // Historical accuracy in [0,1]
	Attempts  int      `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}
