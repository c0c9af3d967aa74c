package conversation

import (
	"context"
	"time"
)

// MemoryQueue is a turnQueue backed by a buffered channel, for development
// and single-process deployments. Delivery doubles as acknowledgement.
type MemoryQueue struct {
	jobs chan turnJob
}

// NewMemoryQueue creates a MemoryQueue with the provided buffer capacity.
func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 128
	}
	return &MemoryQueue{jobs: make(chan turnJob, buffer)}
}

// Enqueue hands the job to a worker, blocking until there is buffer space or
// ctx is done.
func (q *MemoryQueue) Enqueue(ctx context.Context, job turnJob) error {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks for the first job, then drains whatever else is immediately
// available up to maxJobs. A nil, nil return means the wait elapsed idle.
func (q *MemoryQueue) Dequeue(ctx context.Context, maxJobs, waitSeconds int) ([]turnJob, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if maxJobs <= 0 {
		maxJobs = 1
	}

	var deadline <-chan time.Time
	if waitSeconds > 0 {
		timer := time.NewTimer(time.Duration(waitSeconds) * time.Second)
		defer timer.Stop()
		deadline = timer.C
	}

	var first turnJob
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-deadline:
		return nil, nil
	case first = <-q.jobs:
	}

	batch := append(make([]turnJob, 0, maxJobs), first)
	for len(batch) < maxJobs {
		select {
		case job := <-q.jobs:
			batch = append(batch, job)
		default:
			return batch, nil
		}
	}
	return batch, nil
}

// Ack is a no-op: a job leaves the channel exactly once.
func (q *MemoryQueue) Ack(context.Context, turnJob) error { return nil }
