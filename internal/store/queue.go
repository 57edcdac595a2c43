package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/veriverse/veriverse/internal/model"
)

// Queue is the strictly-FIFO claim job queue. Dequeue is an atomic pop:
// no two workers can receive the same job.
type Queue struct {
	mu   sync.Mutex
	path string
}

// NewQueue creates a queue rooted at dataDir, seeding an empty jobs file
// when absent
func NewQueue(dataDir string) (*Queue, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	q := &Queue{path: filepath.Join(dataDir, "jobs.json")}
	if _, err := os.Stat(q.path); os.IsNotExist(err) {
		if err := q.save([]model.Job{}); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Enqueue appends a job to the tail of the queue
func (q *Queue) Enqueue(job model.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs, err := q.load()
	if err != nil {
		return err
	}
	jobs = append(jobs, job)
	return q.save(jobs)
}

// Dequeue pops the head job. Returns nil when the queue is empty.
func (q *Queue) Dequeue() (*model.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs, err := q.load()
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	job := jobs[0]
	if err := q.save(jobs[1:]); err != nil {
		return nil, err
	}
	return &job, nil
}

// Len returns the number of queued jobs
func (q *Queue) Len() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs, err := q.load()
	if err != nil {
		return 0, err
	}
	return len(jobs), nil
}

func (q *Queue) load() ([]model.Job, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var jobs []model.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs file: %w", err)
	}
	return jobs, nil
}

func (q *Queue) save(jobs []model.Job) error {
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode jobs: %w", err)
	}

	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write jobs file: %w", err)
	}
	if err := os.Rename(tmp, q.path); err != nil {
		return fmt.Errorf("replace jobs file: %w", err)
	}
	return nil
}
