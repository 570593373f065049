package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
)

// DefaultLoopQueue is the task buffer size used when none is given.
const DefaultLoopQueue = 256

// Loop runs tasks on a single goroutine and drains its microtasks after each
// task.
type Loop struct {
	tasks      chan func()
	microtasks *Microtasks
	logger     *slog.Logger
	running    atomic.Bool
	done       chan struct{}
}

// NewLoop creates a loop with a task buffer of size queue.
func NewLoop(queue int, logger *slog.Logger) *Loop {
	if queue <= 0 {
		queue = DefaultLoopQueue
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		tasks:      make(chan func(), queue),
		microtasks: NewMicrotasks(),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Post implements Poster by queueing fn as a microtask.
func (l *Loop) Post(fn func()) {
	l.microtasks.Post(fn)
}

// Run processes tasks until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) {
	l.running.Store(true)
	defer func() {
		l.running.Store(false)
		close(l.done)
	}()
	for {
		select {
		case fn := <-l.tasks:
			l.execute(fn)
		case <-ctx.Done():
			return
		}
	}
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Dispatch queues fn without waiting. It drops fn and logs a warning when the
// queue is full or the loop has stopped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.tasks <- fn:
	case <-l.done:
	default:
		l.logger.Warn("loop queue full, discarding task")
	}
}

// Do runs fn on the loop and waits for it and the microtasks it posted. It
// returns ctx.Err() if ctx ends first or the loop is not running.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
		l.microtasks.Drain()
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// execute runs one task followed by a microtask checkpoint.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
		l.microtasks.Drain()
	}()
	fn()
}
