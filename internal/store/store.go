// Package store provides JSON-file backed persistence for run records and
// the claim job queue. Every read-merge-write runs as a single critical
// section, so concurrent workers cannot drop each other's field updates.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/veriverse/veriverse/internal/model"
)

// ErrNotFound is returned when a run id has no record
var ErrNotFound = errors.New("run not found")

// Store is the run store service object. Inject it into workers; never
// reach for it as ambient global state.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store rooted at dataDir, seeding an empty runs file
// when absent
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{path: filepath.Join(dataDir, "runs.json")}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.save(map[string]*model.Run{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Create persists a new run record. Fails if the id already exists.
func (s *Store) Create(run *model.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run has empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	runs[run.ID] = run
	return s.save(runs)
}

// Get returns the run record for id, or ErrNotFound
func (s *Store) Get(id string) (*model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return nil, err
	}
	run, ok := runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, nil
}

// Update applies mutate to the stored record inside the store's critical
// section and persists the result - partial-field merge semantics with
// atomicity per id.
//
// A ground-truth verdict, once set, survives any mutator that tries to
// clear it.
func (s *Store) Update(id string, mutate func(*model.Run)) (*model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return nil, err
	}
	run, ok := runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	prevTruth := run.GroundTruth
	mutate(run)
	if prevTruth != 0 && run.GroundTruth == 0 {
		run.GroundTruth = prevTruth
	}

	if err := s.save(runs); err != nil {
		return nil, err
	}
	return run, nil
}

// ListAll returns every run record keyed by id
func (s *Store) ListAll() (map[string]*model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (map[string]*model.Run, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read runs file: %w", err)
	}

	runs := make(map[string]*model.Run)
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("decode runs file: %w", err)
	}
	return runs, nil
}

func (s *Store) save(runs map[string]*model.Run) error {
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode runs: %w", err)
	}

	// Write-then-rename keeps the file readable if the process dies mid-save
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write runs file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace runs file: %w", err)
	}
	return nil
}
