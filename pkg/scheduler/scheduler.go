package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/metrics"
	"github.com/relaxui/relax/pkg/tracing"
)

// Job is a unit of deferred work.
type Job func(ctx context.Context) error

// Poster runs callbacks at the next microtask checkpoint.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(fn func())

// Post implements Poster.
func (f PosterFunc) Post(fn func()) { f(fn) }

type entry struct {
	name string
	job  Job
}

// Scheduler is a FIFO job queue flushed through a Poster.
type Scheduler struct {
	poster  Poster
	logger  *slog.Logger
	metrics *metrics.Recorder
	tracer  *tracing.Tracer
	onError func(name string, err error)

	mu        sync.Mutex
	queue     []entry
	scheduled bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger for job failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithMetrics records job outcomes and queue depth.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithTracer wraps each job in a span.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Scheduler) {
		s.tracer = t
	}
}

// WithOnError sets the failure callback. It receives the job name and an
// error matching ErrJobFailed.
func WithOnError(fn func(name string, err error)) Option {
	return func(s *Scheduler) {
		s.onError = fn
	}
}

// New creates a Scheduler that posts flushes to poster.
func New(poster Poster, opts ...Option) *Scheduler {
	if poster == nil {
		panic(errors.New(errors.CodeInvalidArgument).WithDetail("scheduler: nil poster"))
	}
	s := &Scheduler{
		poster: poster,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue appends job to the queue and schedules a flush if none is pending.
func (s *Scheduler) Enqueue(name string, job Job) {
	if job == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, entry{name: name, job: job})
	depth := len(s.queue)
	post := !s.scheduled
	s.scheduled = true
	s.mu.Unlock()

	s.metrics.QueueDepth(depth)
	if post {
		s.poster.Post(s.flush)
	}
}

// NextTick schedules a flush if none is pending, even with an empty queue.
func (s *Scheduler) NextTick() {
	s.mu.Lock()
	post := !s.scheduled
	s.scheduled = true
	s.mu.Unlock()

	if post {
		s.poster.Post(s.flush)
	}
}

// Pending returns the number of queued jobs.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// flush runs queued jobs until the queue is empty.
func (s *Scheduler) flush() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.scheduled = false
			s.mu.Unlock()
			s.metrics.QueueDepth(0)
			return
		}
		e := s.queue[0]
		s.queue[0] = entry{}
		s.queue = s.queue[1:]
		depth := len(s.queue)
		s.mu.Unlock()

		s.metrics.QueueDepth(depth)
		s.run(e)
	}
}

func (s *Scheduler) run(e entry) {
	ctx, span := s.tracer.Start(context.Background(), tracing.SpanSchedulerJob, tracing.AttrJob.String(e.name))

	status := metrics.StatusOK
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				status = metrics.StatusPanic
				s.logger.Error("job panic",
					"job", e.name,
					"panic", r,
					"stack", string(debug.Stack()))
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return e.job(ctx)
	}()

	if err != nil {
		if status == metrics.StatusOK {
			status = metrics.StatusError
		}
		err = errors.New(errors.CodeJobFailed).WithDetailf("job %q", e.name).Wrap(err)
		s.logger.Error("job failed", "job", e.name, "error", err)
		if s.onError != nil {
			s.onError(e.name, err)
		}
	}
	span.End(err)
	s.metrics.Job(status)
}
