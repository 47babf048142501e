package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Task is a deferred unit of work run by the Queue.
type Task[T any] func() (T, error)

type entry[T any] struct {
	task   Task[T]
	future *Future[T]
}

// Queue runs tasks one at a time in the order they were added.
// A task starts only after the previous one has settled, whatever its outcome.
type Queue[T any] struct {
	mu       sync.Mutex
	pending  []*entry[T]
	draining bool

	// Closed when the current drain goroutine goes idle
	idle chan struct{}

	logger log.FieldLogger
}

// NewQueue builds an idle queue. Recovered task panics are reported to logger,
// the standard logger when nil.
func NewQueue[T any](logger log.FieldLogger) *Queue[T] {
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Queue[T]{logger: logger}
}

// Add puts the task at the back of the queue and returns the future
// settled with the task's outcome. An idle queue starts draining right away.
func (q *Queue[T]) Add(task Task[T]) *Future[T] {
	f := newFuture[T]()

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, &entry[T]{task: task, future: f})
	if !q.draining {
		q.draining = true
		q.idle = make(chan struct{})
		go q.drain()
	}

	return f
}

// Len returns the number of tasks waiting for their turn.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Shutdown waits for the queue to become idle
// or returns an error if context was cancelled.
func (q *Queue[T]) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.draining {
		q.mu.Unlock()
		return nil
	}
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-idle:
		return nil
	}
}

func (q *Queue[T]) drain() {
	for {
		e, ok := q.next()
		if !ok {
			return
		}

		e.future.settle(q.run(e.task))
	}
}

// next pops the front entry. It flips the queue back to idle
// under the same lock when nothing is left.
func (q *Queue[T]) next() (*entry[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		q.draining = false
		close(q.idle)
		return nil, false
	}

	e := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]

	return e, true
}

func (q *Queue[T]) run(task Task[T]) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.WithFields(log.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("task panicked")

			var zero T
			res, err = zero, fmt.Errorf("task panicked: %v", r)
		}
	}()

	if task == nil {
		var zero T
		return zero, errors.New("nil task")
	}

	return task()
}
