package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nexmo-community/dial-ynab/internal/observability"
)

var (
	ErrPoolNotStarted   = errors.New("worker pool not started")
	ErrPoolShuttingDown = errors.New("worker pool is shutting down")
)

// ProcessingResult represents the result of processing a job.
type ProcessingResult struct {
	Job      LookupJob
	Error    error
	Duration time.Duration
}

// ResultCallback is called after each job is processed.
type ResultCallback func(result ProcessingResult)

// WorkerPoolConfig holds configuration for the worker pool.
type WorkerPoolConfig struct {
	// NumWorkers is the number of concurrent workers to run.
	NumWorkers int

	// QueueSize is the size of the job queue buffer.
	// If the queue is full, Submit() will block.
	QueueSize int

	// JobTimeout bounds a single fetch-resolve-speak round trip.
	JobTimeout time.Duration

	// DrainTimeout is the maximum time to wait for in-flight jobs
	// to complete during graceful shutdown.
	DrainTimeout time.Duration

	// OnResult is called after each job is processed (optional).
	OnResult ResultCallback
}

// DefaultWorkerPoolConfig returns sensible defaults for a worker pool.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		NumWorkers:   4,
		QueueSize:    64,
		JobTimeout:   15 * time.Second,
		DrainTimeout: 30 * time.Second,
	}
}

// pool implements the WorkerPool interface.
type pool struct {
	config    WorkerPoolConfig
	processor JobProcessor
	logger    *observability.Logger

	jobChan chan LookupJob
	wg      sync.WaitGroup

	// quit is closed before jobChan so blocked senders give up first.
	quit     chan struct{}
	quitOnce sync.Once

	mu       sync.RWMutex
	started  bool
	draining bool
	stopped  bool
	cancelFn context.CancelFunc
}

// NewWorkerPool creates a new worker pool for answering lookup jobs.
func NewWorkerPool(
	config WorkerPoolConfig,
	processor JobProcessor,
	logger *observability.Logger,
) WorkerPool {
	defaults := DefaultWorkerPoolConfig()
	if config.NumWorkers <= 0 {
		config.NumWorkers = defaults.NumWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = defaults.DrainTimeout
	}

	return &pool{
		config:    config,
		processor: processor,
		logger:    logger,
		jobChan:   make(chan LookupJob, config.QueueSize),
		quit:      make(chan struct{}),
	}
}

// Start initializes the worker pool with N workers.
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}
	if p.stopped {
		return fmt.Errorf("worker pool already stopped")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	p.cancelFn = cancel
	p.started = true

	for i := 0; i < p.config.NumWorkers; i++ {
		p.wg.Add(1)
		go p.worker(workerCtx, i)
	}

	p.logger.Info(ctx, fmt.Sprintf("Started %d workers for %s processor",
		p.config.NumWorkers, p.processor.Name()))

	return nil
}

// Submit adds a job to the worker pool. It blocks while the queue is full
// until ctx is done or the pool starts shutting down.
func (p *pool) Submit(ctx context.Context, job LookupJob) error {
	// Senders share the read lock; jobChan is only closed under the write lock,
	// which Drain and Stop take after closing quit.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return ErrPoolNotStarted
	}
	if p.draining || p.stopped {
		return ErrPoolShuttingDown
	}

	select {
	case p.jobChan <- job:
		return nil
	case <-p.quit:
		return ErrPoolShuttingDown
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pool) stopAccepting() {
	p.quitOnce.Do(func() { close(p.quit) })
}

// Drain stops accepting new jobs and waits for in-flight jobs to complete.
func (p *pool) Drain(ctx context.Context) error {
	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()
	if !started {
		return ErrPoolNotStarted
	}

	p.stopAccepting()

	p.mu.Lock()
	if p.draining || p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("worker pool already draining")
	}
	p.draining = true
	close(p.jobChan)
	p.mu.Unlock()

	p.logger.Info(ctx, fmt.Sprintf("Draining worker pool for %s processor, waiting for %d queued jobs",
		p.processor.Name(), len(p.jobChan)))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	drainCtx, cancel := context.WithTimeout(ctx, p.config.DrainTimeout)
	defer cancel()

	select {
	case <-done:
		p.logger.Info(ctx, fmt.Sprintf("Successfully drained worker pool for %s processor",
			p.processor.Name()))
		return nil
	case <-drainCtx.Done():
		p.logger.Warn(ctx, fmt.Sprintf("Drain timeout exceeded for %s processor, forcing shutdown",
			p.processor.Name()))
		p.Stop()
		return fmt.Errorf("drain timeout exceeded")
	}
}

// Stop immediately stops all workers.
func (p *pool) Stop() {
	p.stopAccepting()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true

	if p.cancelFn != nil {
		p.cancelFn()
	}

	if !p.draining {
		close(p.jobChan)
	}
}

func (p *pool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	workerCtx := observability.WithFields(ctx,
		observability.Field{Key: "worker_id", Value: workerID},
		observability.Field{Key: "processor", Value: p.processor.Name()},
	)

	p.logger.Debug(workerCtx, fmt.Sprintf("Worker %d started", workerID))

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug(workerCtx, fmt.Sprintf("Worker %d stopping: context cancelled", workerID))
			return

		case job, ok := <-p.jobChan:
			if !ok {
				p.logger.Debug(workerCtx, fmt.Sprintf("Worker %d stopping: job channel closed", workerID))
				return
			}
			p.process(workerCtx, workerID, job)
		}
	}
}

func (p *pool) process(ctx context.Context, workerID int, job LookupJob) {
	jobCtx := observability.WithFields(ctx,
		observability.Field{Key: "job_id", Value: job.ID},
		observability.Field{Key: "call_leg_id", Value: job.CallLegID},
	)
	jobCtx, cancel := context.WithTimeout(jobCtx, p.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := p.processor.Process(jobCtx, job)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error(jobCtx, fmt.Sprintf("Worker %d failed to process lookup", workerID), err)
	} else {
		p.logger.Info(jobCtx, fmt.Sprintf("Worker %d answered lookup", workerID))
	}
	p.logger.Metrics(jobCtx,
		observability.MetricField{Key: "lookup_duration_ms", Value: elapsed.Milliseconds()},
		observability.MetricField{Key: "queue_wait_ms", Value: start.Sub(job.ReceivedAt).Milliseconds()},
	)

	if p.config.OnResult != nil {
		p.config.OnResult(ProcessingResult{
			Job:      job,
			Error:    err,
			Duration: elapsed,
		})
	}
}
