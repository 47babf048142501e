package worker

import "context"

// Future is the caller's view of a queued task.
type Future[T any] struct {
	done chan struct{}
	res  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) settle(res T, err error) {
	f.res = res
	f.err = err
	close(f.done)
}

// Done is closed once the task has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task settles or ctx is done.
// Giving up on the wait does not stop the task.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.done:
		return f.res, f.err
	}
}
