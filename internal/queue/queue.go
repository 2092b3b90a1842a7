// Package queue provides a single-worker FIFO job queue.
//
// Jobs run one at a time in submission order. Once a job has been accepted it
// always runs to completion; the submitter's context only bounds the wait for
// room in the queue.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrClosed is returned by Submit after Stop has been called.
	ErrClosed = errors.New("queue closed")
	// ErrFull is matched by *FullError.
	ErrFull = errors.New("queue full")
)

// FullError reports that the queue had no room before the enqueue timeout.
type FullError struct {
	Length   int
	Capacity int
}

func (e *FullError) Error() string {
	return fmt.Sprintf("queue full (%d/%d)", e.Length, e.Capacity)
}

// Is lets errors.Is(err, ErrFull) match.
func (e *FullError) Is(target error) bool { return target == ErrFull }

// Job is a unit of work executed by a Queue.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to a Job.
type JobFunc func(ctx context.Context) error

// Run implements Job for JobFunc.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Config controls queue sizing. Zero values get defaults.
type Config struct {
	QueueSize      int
	EnqueueTimeout time.Duration
	// ErrorHandler receives errors returned by jobs and recovered panics.
	ErrorHandler func(error)
	Logger       zerolog.Logger
}

type queuedJob struct {
	ctx context.Context
	job Job
}

// Queue runs jobs sequentially on one worker goroutine.
type Queue struct {
	cfg  Config
	ch   chan queuedJob
	done chan struct{}

	closed uint32
	wg     sync.WaitGroup
}

// New starts the worker and returns the queue.
func New(cfg Config) *Queue {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = time.Second
	}

	q := &Queue{
		cfg:  cfg,
		ch:   make(chan queuedJob, cfg.QueueSize),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Submit enqueues job.
//
//   - Returns ErrClosed if the queue is stopped.
//   - Returns *FullError if there is no room after EnqueueTimeout.
//   - Returns ctx.Err() if ctx ends while waiting for room. A job that
//     finds room immediately is accepted even if ctx is already done.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	if atomic.LoadUint32(&q.closed) == 1 {
		return ErrClosed
	}
	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	// Accepted work is not cancellable.
	qj := queuedJob{ctx: context.WithoutCancel(ctx), job: job}

	// A free slot is taken regardless of ctx; ctx only bounds the wait.
	select {
	case q.ch <- qj:
		return nil
	default:
	}

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case q.ch <- qj:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.Inc()
		return &FullError{Length: len(q.ch), Capacity: cap(q.ch)}
	}
}

// Barrier waits until every job submitted before it has run.
func (q *Queue) Barrier(ctx context.Context) error {
	done := make(chan struct{})
	if err := q.Submit(ctx, JobFunc(func(context.Context) error {
		close(done)
		return nil
	})); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Len reports how many jobs are waiting.
func (q *Queue) Len() int { return len(q.ch) }

// Stop drains queued jobs in order and waits for the worker to exit.
// It is idempotent.
func (q *Queue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return
	}
	close(q.done)
	q.wg.Wait()
	q.cfg.Logger.Debug().Msg("queue stopped")
}

// Close lets Queue satisfy io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

func (q *Queue) run() {
	defer q.wg.Done()

	for {
		select {
		case qj := <-q.ch:
			q.exec(qj)
		case <-q.done:
			drained := 0
			for {
				select {
				case qj := <-q.ch:
					q.exec(qj)
					drained++
				default:
					if drained > 0 {
						q.cfg.Logger.Debug().Int("jobs", drained).Msg("queue drained")
					}
					return
				}
			}
		}
	}
}

func (q *Queue) exec(qj queuedJob) {
	queueDepth.Set(float64(len(q.ch)))
	start := time.Now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			q.cfg.Logger.Error().Interface("panic", r).Msg("queue job panicked")
			q.handleError(fmt.Errorf("job panic: %v", r))
		}
	}()
	if err := qj.job.Run(qj.ctx); err != nil {
		q.handleError(err)
	}
}

func (q *Queue) handleError(err error) {
	if err == nil {
		return
	}
	jobFailuresTotal.Inc()
	if q.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			q.cfg.Logger.Error().Interface("panic", r).Msg("queue error handler panicked")
		}
	}()
	q.cfg.ErrorHandler(err)
}
