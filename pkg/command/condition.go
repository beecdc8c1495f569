package command

import (
	"context"
	"time"
)

// Handle is the browser a condition is evaluated against. The command
// package never inspects it.
type Handle any

// Condition is a predicate polled against a Handle.
type Condition interface {
	// Check reports whether the condition holds. An error counts as "not
	// yet" for the waiter; it is kept for the timeout report.
	Check(ctx context.Context, h Handle) (bool, error)

	// String describes the condition for log lines and errors
	String() string
}

type funcCondition struct {
	desc string
	fn   func(ctx context.Context, h Handle) (bool, error)
}

// NewCondition builds a Condition from a description and a check function.
func NewCondition(desc string, fn func(ctx context.Context, h Handle) (bool, error)) Condition {
	return &funcCondition{desc: desc, fn: fn}
}

func (c *funcCondition) Check(ctx context.Context, h Handle) (bool, error) {
	return c.fn(ctx, h)
}

func (c *funcCondition) String() string {
	return c.desc
}

// Waiter blocks until a condition holds against a handle.
type Waiter interface {
	// WaitUntil returns nil once cond holds, or an error wrapping
	// ErrWaitTimeout when timeout passes first.
	WaitUntil(ctx context.Context, h Handle, cond Condition, timeout time.Duration) error
}

// DefaultPollInterval matches the half second poll of WebDriver waits.
const DefaultPollInterval = 500 * time.Millisecond

// PollWaiter evaluates a condition on a fixed interval until it holds or
// the timeout passes.
type PollWaiter struct {
	Interval time.Duration
}

// NewPollWaiter creates a waiter polling every interval. A non-positive
// interval selects DefaultPollInterval.
func NewPollWaiter(interval time.Duration) *PollWaiter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollWaiter{Interval: interval}
}

// WaitUntil implements Waiter. The condition is checked once immediately
// and once more after the deadline is reached.
func (w *PollWaiter) WaitUntil(ctx context.Context, h Handle, cond Condition, timeout time.Duration) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	var lastErr error

	for {
		ok, err := cond.Check(ctx, h)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &WaitTimeoutError{
				Condition: cond.String(),
				Timeout:   timeout,
				LastErr:   lastErr,
			}
		}

		timer := time.NewTimer(min(interval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
