package command

import (
	"errors"
	"fmt"
	"time"
)

// ErrWaitTimeout is wrapped by every error that reports a condition which did
// not hold in time.
var ErrWaitTimeout = errors.New("wait timed out")

// WaitTimeoutError is returned by PollWaiter when the deadline passes.
type WaitTimeoutError struct {
	Condition string
	Timeout   time.Duration
	// LastErr is the last error the condition reported while polling, if any
	LastErr error
}

func (e *WaitTimeoutError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("timed out after %s waiting for %s: last error: %v", e.Timeout, e.Condition, e.LastErr)
	}
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
}

// Unwrap returns ErrWaitTimeout
func (e *WaitTimeoutError) Unwrap() error {
	return ErrWaitTimeout
}

// ExhaustedError reports that every attempt of a command timed out.
type ExhaustedError struct {
	Action    string
	Condition string
	Attempts  int
	Err       error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: condition %s not met after %d attempt(s): %v", e.Action, e.Condition, e.Attempts, e.Err)
}

// Unwrap returns the error of the last wait
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// ActionError wraps an error returned by the action of a command.
type ActionError struct {
	Action  string
	Attempt int
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed on attempt %d: %v", e.Action, e.Attempt, e.Err)
}

// Unwrap returns the action's error
func (e *ActionError) Unwrap() error {
	return e.Err
}
