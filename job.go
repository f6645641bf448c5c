package main

import (
	"sync"
	"time"
)

// Job statuses, in lifecycle order.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Job tracks one background puzzle generation.
type Job struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	status string
	puzzle *Puzzle
	errMsg string
}

// JobView is the JSON snapshot of a job at one point in time.
type JobView struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Puzzle    *Puzzle   `json:"puzzle,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Start marks the job as processing.
func (j *Job) Start() {
	j.mu.Lock()
	j.status = JobProcessing
	j.mu.Unlock()
}

// Complete records the generated puzzle and marks the job completed.
func (j *Job) Complete(p *Puzzle) {
	j.mu.Lock()
	j.status = JobCompleted
	j.puzzle = p
	j.mu.Unlock()
}

// Fail marks the job failed with a caller-facing message.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	j.status = JobFailed
	j.errMsg = msg
	j.mu.Unlock()
}

// Snapshot returns a consistent copy of the job state.
func (j *Job) Snapshot() JobView {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobView{
		ID:        j.ID,
		Status:    j.status,
		Puzzle:    j.puzzle,
		Error:     j.errMsg,
		CreatedAt: j.CreatedAt,
	}
}
