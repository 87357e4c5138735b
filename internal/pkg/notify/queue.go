package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Queue errors
var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// Task is a unit of background work
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// QueueConfig sizes the worker pool
type QueueConfig struct {
	Workers    int
	Size       int
	JobTimeout time.Duration
}

// QueueStats is a snapshot of queue counters
type QueueStats struct {
	Enqueued  int64 `json:"enqueued"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
	Pending   int   `json:"pending"`
}

// Queue is an in-process worker pool fed by a bounded channel. Enqueue never
// blocks the caller.
type Queue struct {
	tasks      chan Task
	workers    int
	jobTimeout time.Duration
	logger     zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup

	enqueued  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewQueue creates a queue. Call Start to launch the workers.
func NewQueue(cfg QueueConfig, logger zerolog.Logger) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Size < 1 {
		cfg.Size = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	return &Queue{
		tasks:      make(chan Task, cfg.Size),
		workers:    cfg.Workers,
		jobTimeout: cfg.JobTimeout,
		logger:     logger.With().Str("component", "notify_queue").Logger(),
	}
}

// Start launches the workers. It is a no-op after the first call.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.logger.Info().Int("workers", q.workers).Int("capacity", cap(q.tasks)).Msg("Notification queue started")
}

// Enqueue schedules task without blocking
func (q *Queue) Enqueue(task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.enqueued.Add(1)
		return nil
	default:
		q.dropped.Add(1)
		return ErrQueueFull
	}
}

// Stop refuses new tasks and waits for queued ones to finish or ctx to expire
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.logger.Info().Msg("Notification queue drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification queue did not drain: %w", ctx.Err())
	}
}

// Stats returns current counters
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Enqueued:  q.enqueued.Load(),
		Processed: q.processed.Load(),
		Failed:    q.failed.Load(),
		Dropped:   q.dropped.Load(),
		Pending:   len(q.tasks),
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for task := range q.tasks {
		q.execute(id, task)
	}
}

func (q *Queue) execute(worker int, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.jobTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			q.failed.Add(1)
			q.logger.Error().
				Str("task", task.Name).
				Int("worker", worker).
				Interface("panic", r).
				Msg("Notification task panicked")
		}
	}()

	if err := task.Run(ctx); err != nil {
		q.failed.Add(1)
		q.logger.Error().Err(err).Str("task", task.Name).Int("worker", worker).Msg("Notification task failed")
		return
	}

	q.processed.Add(1)
	q.logger.Debug().Str("task", task.Name).Dur("took", time.Since(start)).Msg("Notification task finished")
}
