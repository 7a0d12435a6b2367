// Package worker runs background jobs on a bounded queue with a fixed set of
// workers, retrying failed jobs with exponential backoff.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	// ErrPoolNotRunning is returned when submitting to a pool that is not started
	ErrPoolNotRunning = shared.NewDomainError(shared.CodeQueueFull, "Background queue is not running")

	// ErrQueueFull is returned when the queue has no free slot
	ErrQueueFull = shared.NewDomainError(shared.CodeQueueFull, "Background queue is full, try again later")
)

// Config holds pool configuration
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	// MaxRetryDelay caps the exponential backoff. Zero means 32 x RetryDelay.
	MaxRetryDelay time.Duration
}

// DefaultConfig returns the default pool configuration
func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     100,
		JobTimeout:    10 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    30 * time.Second,
	}
}

// Func is the body of a job. A returned error makes the job eligible for retry.
type Func func(ctx context.Context) error

// Job is one unit of queued work
type Job struct {
	ID      string
	Name    string
	Attempt int
	run     Func
}

// Stats is a snapshot of pool counters
type Stats struct {
	Queued    int
	Succeeded int64
	Failed    int64
	Retried   int64
	Dropped   int64
}

// Pool is a bounded job queue drained by a fixed number of workers
type Pool struct {
	config Config
	logger *zap.Logger

	jobs   chan *Job
	quit   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	running bool
	timers  map[string]*time.Timer

	succeeded atomic.Int64
	failed    atomic.Int64
	retried   atomic.Int64
	dropped   atomic.Int64
}

// NewPool creates a pool. Non-positive sizes fall back to the defaults.
func NewPool(config Config, logger *zap.Logger) *Pool {
	defaults := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if config.RetryAttempts < 0 {
		config.RetryAttempts = 0
	}
	if config.MaxRetryDelay <= 0 {
		config.MaxRetryDelay = 32 * config.RetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		config: config,
		logger: logger,
		jobs:   make(chan *Job, config.QueueSize),
		timers: make(map[string]*time.Timer),
	}
}

// Start launches the workers. Calling Start on a running pool is a no-op.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true
	p.quit = make(chan struct{})
	// Jobs outlive the caller's request context; only Stop cancels them
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("Worker pool started",
		zap.Int("workers", p.config.Workers),
		zap.Int("queue_size", p.config.QueueSize),
		zap.Duration("job_timeout", p.config.JobTimeout),
	)
	return nil
}

// Stop rejects new jobs and cancels pending retries. Workers keep running the jobs
// already queued until the queue is empty or ctx expires. On expiry the running jobs
// are cancelled, whatever is still queued is dropped and ctx's error is returned.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	close(p.quit)
	for id, timer := range p.timers {
		timer.Stop()
		delete(p.timers, id)
		p.dropped.Add(1)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("worker pool stop: %w", ctx.Err())
	}
	p.cancel()

	if left := p.drain(); left > 0 {
		p.logger.Warn("Dropped queued jobs on shutdown", zap.Int("jobs", left))
	}
	p.logger.Info("Worker pool stopped", zap.Error(err))
	return err
}

// Submit queues a named job and returns its ID without waiting for it to run
func (p *Pool) Submit(name string, run func(ctx context.Context) error) (string, error) {
	if run == nil {
		return "", errors.New("worker: nil job")
	}
	job := &Job{ID: uuid.NewString(), Name: name, Attempt: 1, run: run}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return "", ErrPoolNotRunning
	}
	select {
	case p.jobs <- job:
		p.logger.Debug("Job queued", zap.String("job_id", job.ID), zap.String("job", name))
		return job.ID, nil
	default:
		p.dropped.Add(1)
		return "", ErrQueueFull
	}
}

// Stats returns the current counters
func (p *Pool) Stats() Stats {
	return Stats{
		Queued:    len(p.jobs),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Retried:   p.retried.Load(),
		Dropped:   p.dropped.Load(),
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			p.flush(id)
			return
		case job := <-p.jobs:
			p.take(id, job)
		}
	}
}

// flush runs what is left in the queue after Stop until it is empty or the pool
// context is cancelled
func (p *Pool) flush(id int) {
	for p.ctx.Err() == nil {
		select {
		case job := <-p.jobs:
			p.take(id, job)
		default:
			return
		}
	}
}

// take runs job unless shutdown has already cancelled the pool
func (p *Pool) take(id int, job *Job) {
	if p.ctx.Err() != nil {
		p.dropped.Add(1)
		return
	}
	p.process(id, job)
}

func (p *Pool) process(workerID int, job *Job) {
	log := p.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID),
		zap.String("job", job.Name),
		zap.Int("attempt", job.Attempt),
	)

	ctx, cancel := context.WithTimeout(p.ctx, p.config.JobTimeout)
	defer cancel()

	started := time.Now()
	err := p.execute(ctx, job)
	if err == nil {
		p.succeeded.Add(1)
		log.Info("Job completed", zap.Duration("duration", time.Since(started)))
		return
	}

	if job.Attempt > p.config.RetryAttempts {
		p.failed.Add(1)
		log.Error("Job failed permanently", zap.Error(err))
		return
	}
	delay := p.backoff(job.Attempt)
	log.Warn("Job failed, retrying", zap.Error(err), zap.Duration("retry_in", delay))
	job.Attempt++
	p.retryAfter(job, delay)
}

func (p *Pool) execute(ctx context.Context, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.run(ctx)
}

// backoff doubles RetryDelay for every failed attempt up to MaxRetryDelay
func (p *Pool) backoff(attempt int) time.Duration {
	delay := p.config.RetryDelay
	for i := 1; i < attempt && delay < p.config.MaxRetryDelay; i++ {
		delay *= 2
	}
	return min(delay, p.config.MaxRetryDelay)
}

func (p *Pool) retryAfter(job *Job, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		p.dropped.Add(1)
		return
	}
	p.retried.Add(1)
	p.timers[job.ID] = time.AfterFunc(delay, func() { p.requeue(job) })
}

func (p *Pool) requeue(job *Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.timers, job.ID)
	if !p.running {
		p.dropped.Add(1)
		return
	}
	select {
	case p.jobs <- job:
	default:
		p.dropped.Add(1)
		p.logger.Warn("Queue full, dropping retry", zap.String("job_id", job.ID), zap.String("job", job.Name))
	}
}

func (p *Pool) drain() int {
	n := 0
	for {
		select {
		case <-p.jobs:
			n++
			p.dropped.Add(1)
		default:
			return n
		}
	}
}
