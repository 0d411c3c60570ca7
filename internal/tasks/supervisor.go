// Package tasks runs fire-and-forget background work on a bounded queue.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

// Ensure Supervisor implements the port.
var _ driven.TaskQueue = (*Supervisor)(nil)

// Default configuration values.
const (
	DefaultQueueSize   = 64
	DefaultWorkers     = 2
	DefaultTaskTimeout = 2 * time.Minute
)

type job struct {
	name string
	fn   func(ctx context.Context)
}

// Supervisor executes submitted tasks on a fixed worker pool. Submission
// never blocks the caller: when the queue is full the task is dropped
// and logged. Tasks are detached from the submitting request; each runs
// under its own timeout.
type Supervisor struct {
	queue   chan job
	timeout time.Duration
	workers int

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithQueueSize sets the submission queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Supervisor) {
		if n > 0 {
			s.queue = make(chan job, n)
		}
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(s *Supervisor) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTaskTimeout sets the per-task execution timeout.
func WithTaskTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSupervisor creates a stopped supervisor; call Start before use.
func NewSupervisor(opts ...Option) *Supervisor {
	s := &Supervisor{
		queue:   make(chan job, DefaultQueueSize),
		timeout: DefaultTaskTimeout,
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the worker pool. Idempotent.
func (s *Supervisor) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Stop shuts the pool down and waits for in-flight tasks to finish.
// Queued but unstarted tasks are discarded.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// Submit enqueues a task. A full queue drops the task rather than
// blocking resolution or search paths.
func (s *Supervisor) Submit(name string, fn func(ctx context.Context)) {
	if fn == nil {
		return
	}
	select {
	case s.queue <- job{name: name, fn: fn}:
		logger.Debug("tasks: queued %q (%d pending)", name, len(s.queue))
	default:
		logger.Warn("tasks: queue full, dropping %q", name)
	}
}

func (s *Supervisor) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			return
		case j := <-s.queue:
			s.run(j)
		}
	}
}

// run executes one task, isolating panics and bounding its runtime.
func (s *Supervisor) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("tasks: %q panicked: %v", j.name, r)
		}
	}()

	j.fn(ctx)
	logger.Debug("tasks: %q finished in %s", j.name, time.Since(started).Round(time.Millisecond))
}
