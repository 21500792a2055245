package workers

import (
	"context"
	"time"
)

// LookupJob is one final transcript waiting to be answered into a call leg.
type LookupJob struct {
	ID         string
	CallLegID  string
	Transcript string
	ReceivedAt time.Time
}

// JobProcessor defines the interface for answering lookup jobs.
type JobProcessor interface {
	// Process answers a single job. Errors are logged by the pool, jobs are
	// never retried.
	Process(ctx context.Context, job LookupJob) error

	// Name returns the processor name for logging.
	Name() string
}

// WorkerPool defines the interface for managing a pool of lookup workers.
type WorkerPool interface {
	// Start initializes the worker pool with N workers.
	Start(ctx context.Context) error

	// Submit adds a job to the worker pool.
	// Blocks while the job queue is full, until ctx is done or the pool
	// shuts down.
	Submit(ctx context.Context, job LookupJob) error

	// Drain stops accepting new jobs and waits for in-flight jobs to complete.
	Drain(ctx context.Context) error

	// Stop immediately stops all workers.
	Stop()
}
