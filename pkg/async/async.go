// Package async provides a small Future abstraction used by the lifecycle
// engine to dispatch side effects (notifications, emails, analytics)
// concurrently after a state change has been persisted, then await them
// without letting any individual failure surface to the caller.
package async

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrTimeout = errors.New("async: operation timed out waiting for future completion")

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await blocks until the computation completes and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for completion up to the given timeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports completion without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Run executes fn in its own goroutine and returns a Future for the result.
// A pre-cancelled context short-circuits without invoking fn.
func Run[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.once.Do(func() { f.err = ctx.Err() })
			return
		default:
		}

		res, err := fn(ctx)
		f.once.Do(func() {
			f.result = res
			f.err = err
		})
	}()

	return f
}

// AwaitAll waits for every future sequentially and returns the first error
// encountered, if any. All futures are awaited regardless of errors so no
// goroutine outlives the call.
func AwaitAll[U any](futures ...*Future[U]) error {
	var firstErr error
	for _, f := range futures {
		if _, err := f.Await(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
