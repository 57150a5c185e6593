package spellcheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/utkarsh5026/spellq/dispatch"
	"github.com/utkarsh5026/spellq/pool"
)

var (
	// ErrClosed is returned for calls on a closed Spellchecker or a shut down
	// Runtime, including synchronous calls dropped because the Runtime's
	// context ended.
	ErrClosed = errors.New("spellchecker closed")

	// ErrNilCallback is returned by asynchronous calls without a completion callback.
	ErrNilCallback = errors.New("nil completion callback")
)

// TaskError reports an engine call that failed instead of returning a result,
// typically because the engine panicked.
type TaskError struct {
	Op  string
	Err error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("spellcheck %s: %v", e.Op, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// closedErr reports whether err means the call could not be accepted
// because something on the path is no longer running.
func closedErr(err error) bool {
	return errors.Is(err, pool.ErrSequenceClosed) ||
		errors.Is(err, pool.ErrPoolClosed) ||
		errors.Is(err, pool.ErrPoolNotStarted) ||
		errors.Is(err, dispatch.ErrLoopClosed)
}

// submitErr maps an error from handing work to the pool or the loop.
func submitErr(err error) error {
	if closedErr(err) {
		return ErrClosed
	}
	return err
}

// resultErr maps the error a task completed with. Context errors pass
// through unchanged so callers can test them with errors.Is.
func resultErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case closedErr(err):
		return ErrClosed
	default:
		return &TaskError{Op: op, Err: err}
	}
}
