package server

import (
	"sort"
	"sync"
	"time"

	"github.com/user/gbench/internal/runner"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type BenchmarkJob struct {
	ID          string                     `json:"id"`
	Config      runner.Config              `json:"config"`
	Status      string                     `json:"status"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	CompletedAt *time.Time                 `json:"completed_at,omitempty"`
	Report      *runner.Report             `json:"report,omitempty"`
	Error       string                     `json:"error,omitempty"`
	Progress    chan runner.ProgressUpdate `json:"-"`
}

type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*BenchmarkJob
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*BenchmarkJob)}
}

func (js *JobStore) Add(job *BenchmarkJob) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobs[job.ID] = job
}

func (js *JobStore) Remove(jobID string) {
	js.mu.Lock()
	defer js.mu.Unlock()
	delete(js.jobs, jobID)
}

// Get returns a copy of the job so callers can read it without holding the
// lock.
func (js *JobStore) Get(jobID string) (BenchmarkJob, bool) {
	js.mu.RLock()
	defer js.mu.RUnlock()

	job, exists := js.jobs[jobID]
	if !exists {
		return BenchmarkJob{}, false
	}
	return *job, true
}

// List returns copies of all jobs, oldest first.
func (js *JobStore) List() []BenchmarkJob {
	js.mu.RLock()
	jobs := make([]BenchmarkJob, 0, len(js.jobs))
	for _, job := range js.jobs {
		jobs = append(jobs, *job)
	}
	js.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs
}

func (js *JobStore) UpdateStatus(jobID, status string) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[jobID]; exists {
		job.Status = status
		job.UpdatedAt = time.Now()
	}
}

func (js *JobStore) CompleteJob(jobID string, report *runner.Report, err error) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[jobID]; exists {
		completedAt := time.Now()
		job.CompletedAt = &completedAt
		job.UpdatedAt = completedAt

		if err != nil {
			job.Status = StatusFailed
			job.Error = err.Error()
		} else {
			job.Status = StatusCompleted
			job.Report = report
		}
	}
}
