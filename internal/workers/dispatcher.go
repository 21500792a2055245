package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexmo-community/dial-ynab/internal/observability"
)

// defaultSubmitTimeout bounds how long a recognition callback waits for room in
// a full lookup queue.
const defaultSubmitTimeout = 5 * time.Second

// Dispatcher hands final transcripts to the worker pool so the recognition
// stream is never blocked on a balance lookup.
type Dispatcher struct {
	pool          WorkerPool
	logger        *observability.Logger
	now           func() time.Time
	submitTimeout time.Duration
}

func NewDispatcher(pool WorkerPool, logger *observability.Logger) *Dispatcher {
	return &Dispatcher{
		pool:   pool,
		logger: logger,
		now:    time.Now,

		submitTimeout: defaultSubmitTimeout,
	}
}

// HandleTranscript queues a lookup for callLegID. It gives up when ctx is done or
// the queue stays full for longer than the submit timeout.
func (d *Dispatcher) HandleTranscript(ctx context.Context, callLegID, transcript string) error {
	job := LookupJob{
		ID:         uuid.NewString(),
		CallLegID:  callLegID,
		Transcript: transcript,
		ReceivedAt: d.now(),
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "job_id", Value: job.ID})
	submitCtx, cancel := context.WithTimeout(ctx, d.submitTimeout)
	defer cancel()

	if err := d.pool.Submit(submitCtx, job); err != nil {
		d.logger.Error(ctx, "Failed to queue lookup", err)
		return fmt.Errorf("failed to queue lookup: %w", err)
	}

	d.logger.Debug(ctx, "Lookup queued")
	return nil
}
