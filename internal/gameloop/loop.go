// Package gameloop runs the world goroutine: it owns the engine, executes
// submitted jobs and ticks the decay wheel.
package gameloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/worldobj/internal/engine"
)

// ErrStopped is returned by Submit once the loop has stopped.
var ErrStopped = errors.New("game loop stopped")

// Job runs on the world goroutine with exclusive access to the engine.
type Job func(e *engine.Engine) error

type request struct {
	job  Job
	done chan error
}

// Loop serialises every access to the engine on one goroutine.
type Loop struct {
	engine   *engine.Engine
	interval time.Duration
	requests chan request

	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}

	ticks atomic.Int64
}

// New creates a loop ticking e every interval. queueSize bounds pending jobs.
func New(e *engine.Engine, interval time.Duration, queueSize int) *Loop {
	return &Loop{
		engine:   e,
		interval: interval,
		requests: make(chan request, queueSize),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start runs the loop (blocks until ctx is canceled or Stop is called).
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer close(l.stopped)

	slog.Info("game loop started", "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("game loop stopping")
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("game loop stopped")
			return nil

		case req := <-l.requests:
			req.done <- l.run(req.job)

		case <-ticker.C:
			l.tick()
		}
	}
}

// Stop stops the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() int64 {
	return l.ticks.Load()
}

// Submit runs job on the world goroutine and waits for its result.
func (l *Loop) Submit(ctx context.Context, job Job) error {
	req := request{job: job, done: make(chan error, 1)}

	select {
	case l.requests <- req:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-l.stopped:
		// The loop may have taken the job right before stopping.
		select {
		case err := <-req.done:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) run(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("game loop job panicked", "panic", r)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(l.engine)
}

func (l *Loop) tick() {
	st := l.engine.Tick()
	n := l.ticks.Add(1)

	if st.Decay.Fired > 0 || st.Freed > 0 {
		slog.Debug("game loop tick",
			"tick", n,
			"fired", st.Decay.Fired,
			"dropped", st.Decay.Dropped,
			"freed", st.Freed,
			"scheduled", l.engine.Wheel().Len())
	}
}
