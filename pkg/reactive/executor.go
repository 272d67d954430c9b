package reactive

import (
	"io"
	"log/slog"
	"sync"
)

// Executor runs scheduled re-render work. Hosts with their own run loop
// supply one that posts onto it.
type Executor interface {
	Schedule(task func())
}

// ImmediateExecutor runs each task inline on the scheduling goroutine.
type ImmediateExecutor struct{}

func (ImmediateExecutor) Schedule(task func()) { task() }

// ManualExecutor queues tasks until Flush is called.
type ManualExecutor struct {
	mu    sync.Mutex
	queue []func()
}

func NewManualExecutor() *ManualExecutor {
	return &ManualExecutor{}
}

func (e *ManualExecutor) Schedule(task func()) {
	e.mu.Lock()
	e.queue = append(e.queue, task)
	e.mu.Unlock()
}

// Pending reports how many tasks are queued.
func (e *ManualExecutor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Flush runs queued tasks, including ones they schedule, until the queue
// is empty.
func (e *ManualExecutor) Flush() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		task := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()
		task()
	}
}

// SerialExecutor runs tasks in order on a single worker goroutine.
type SerialExecutor struct {
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	active bool
}

// NewSerialExecutor starts the worker goroutine. A nil logger discards
// reports of panicking tasks.
func NewSerialExecutor(logger *slog.Logger) *SerialExecutor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	exec := &SerialExecutor{logger: logger}
	exec.cond = sync.NewCond(&exec.mu)
	go exec.loop()
	return exec
}

func (e *SerialExecutor) Schedule(task func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.queue = append(e.queue, task)
	e.cond.Signal()
	e.mu.Unlock()
}

func (e *SerialExecutor) loop() {
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if e.closed && len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		task := e.queue[0]
		e.queue = e.queue[1:]
		e.active = true
		e.mu.Unlock()

		e.safeRun(task)

		e.mu.Lock()
		e.active = false
		e.cond.Broadcast()
		e.mu.Unlock()
	}
}

func (e *SerialExecutor) safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("scheduled task panicked", "panic", r)
		}
	}()
	task()
}

// Flush blocks until every queued task has run. It must not be called
// from inside a task.
func (e *SerialExecutor) Flush() {
	e.mu.Lock()
	for len(e.queue) > 0 || e.active {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

// Close stops the worker once the queue drains. Later tasks are dropped.
func (e *SerialExecutor) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
}
