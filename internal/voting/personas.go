package voting

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veriverse/veriverse/internal/model"
)

// DefaultReviewers is the built-in demo voter pool used when no personas
// file is configured
var DefaultReviewers = []model.Reviewer{
	{
		UserID:    "aakash",
		Name:      "Aakash",
		Location:  "Mumbai",
		Expertise: []string{"Technology", "Sports"},
		Precision: 0.88,
		Attempts:  4,
	},
	{
		UserID:    "aneesha",
		Name:      "Aneesha",
		Location:  "Nagpur",
		Expertise: []string{"Business", "Product", "AI", "Finance"},
		Precision: 0.92,
		Attempts:  6,
	},
	{
		UserID:    "shaurya",
		Name:      "Shaurya",
		Location:  "Dehradun",
		Expertise: []string{"Finance", "Geography", "Tech"},
		Precision: 0.88,
		Attempts:  3,
	},
	{
		UserID:    "parth",
		Name:      "Parth",
		Location:  "Gujarat",
		Expertise: []string{"Technology", "Food", "India"},
		Precision: 0.82,
		Attempts:  5,
	},
}

// LoadReviewers reads a YAML reviewer pool. An empty path yields the
// built-in defaults.
func LoadReviewers(path string) ([]model.Reviewer, error) {
	if path == "" {
		return DefaultReviewers, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas file: %w", err)
	}

	var reviewers []model.Reviewer
	if err := yaml.Unmarshal(data, &reviewers); err != nil {
		return nil, fmt.Errorf("decode personas file: %w", err)
	}
	if len(reviewers) == 0 {
		return nil, fmt.Errorf("personas file %s has no reviewers", path)
	}
	for i, r := range reviewers {
		if r.UserID == "" {
			return nil, fmt.Errorf("personas file %s: reviewer %d has no user_id", path, i)
		}
		if r.Precision < 0 || r.Precision > 1 {
			return nil, fmt.Errorf("personas file %s: reviewer %s precision %v out of [0,1]", path, r.UserID, r.Precision)
		}
	}
	return reviewers, nil
}
