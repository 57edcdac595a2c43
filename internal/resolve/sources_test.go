package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDomainsForTopics(t *testing.T) {
	r := NewSourceRegistry(nil)

	got := r.DomainsForTopics([]string{"Technology"})
	if len(got) == 0 {
		t.Fatal("expected Technology domains")
	}

	// Matching is a case-insensitive substring check against category names
	if len(r.DomainsForTopics([]string{"tech"})) == 0 {
		t.Error("lowercase partial topic should match Technology")
	}
	if len(r.DomainsForTopics([]string{"Quantum Gardening"})) != 0 {
		t.Error("unknown topic should match nothing")
	}
	if len(r.DomainsForTopics(nil)) != 0 {
		t.Error("no topics should match nothing")
	}
}

func TestDomainsForTopics_Dedupe(t *testing.T) {
	r := NewSourceRegistry(map[string][]string{
		"Technology": {"reuters.com", "wired.com"},
		"Finance":    {"reuters.com", "ft.com"},
	})

	got := r.DomainsForTopics([]string{"Technology", "Finance"})
	seen := make(map[string]int)
	for _, d := range got {
		seen[d]++
	}
	if seen["reuters.com"] != 1 {
		t.Errorf("reuters.com appeared %d times, want once", seen["reuters.com"])
	}
	if len(got) != 3 {
		t.Errorf("domains = %v, want 3 distinct entries", got)
	}
}

func TestLoadSourceRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	content := "Science:\n  - nature.com\n  - science.org\nGeneral:\n  - reuters.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadSourceRegistry(path)
	if err != nil {
		t.Fatalf("LoadSourceRegistry: %v", err)
	}
	if r.Categories() != 2 {
		t.Errorf("categories = %d, want 2", r.Categories())
	}
	if got := r.DomainsForTopics([]string{"science"}); len(got) != 2 {
		t.Errorf("science domains = %v, want 2", got)
	}
	if got := r.GeneralDomains(); len(got) != 1 || got[0] != "reuters.com" {
		t.Errorf("general domains = %v", got)
	}

	if _, err := LoadSourceRegistry(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadSourceRegistry_EmptyPathUsesDefaults(t *testing.T) {
	r, err := LoadSourceRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	if len(r.GeneralDomains()) == 0 {
		t.Error("default registry must include General domains")
	}
}
