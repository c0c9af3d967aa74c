package conversation

import "context"

// turnJob is one enqueued turn awaiting a worker.
type turnJob struct {
	ID      string      `json:"id"`
	Request TurnRequest `json:"turn"`

	// receipt identifies the in-flight delivery for acknowledgement; empty
	// for queues that do not track deliveries.
	receipt string
}

// turnQueue transports turn jobs between the enqueueing handler and the
// worker pool. Implementations own the wire encoding; a dequeued job must be
// acknowledged once handled or it redelivers.
type turnQueue interface {
	Enqueue(ctx context.Context, job turnJob) error
	Dequeue(ctx context.Context, maxJobs, waitSeconds int) ([]turnJob, error)
	Ack(ctx context.Context, job turnJob) error
}
