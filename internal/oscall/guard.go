// Package oscall bounds individual window-system calls so a single hung or
// crashing window cannot stall the caller.
package oscall

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout applies when a Guard has no timeout configured.
const DefaultTimeout = 2 * time.Second

// ErrTimeout is returned when a call does not complete within the deadline.
var ErrTimeout = errors.New("window call timed out")

// PanicError wraps a value recovered from a panicking call.
type PanicError struct {
	Op    string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", e.Op, e.Value)
}

// Guard runs calls with a timeout and converts panics into errors. The zero
// value uses DefaultTimeout.
type Guard struct {
	Timeout time.Duration
}

// New returns a Guard with the given timeout; non-positive values select
// DefaultTimeout.
func New(timeout time.Duration) Guard {
	return Guard{Timeout: timeout}
}

func (g Guard) timeout() time.Duration {
	if g.Timeout <= 0 {
		return DefaultTimeout
	}
	return g.Timeout
}

// Do runs fn. A call that times out keeps running in the background and its
// result is discarded.
func (g Guard) Do(op string, fn func() error) error {
	_, err := Value(g, op, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Value runs fn and returns its result.
func Value[T any](g Guard, op string, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &PanicError{Op: op, Value: r}}
			}
		}()
		v, err := fn()
		done <- result{v: v, err: err}
	}()

	timer := time.NewTimer(g.timeout())
	defer timer.Stop()

	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		var zero T
		return zero, fmt.Errorf("%s: %w", op, ErrTimeout)
	}
}
