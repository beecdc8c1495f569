package command

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultWaitTimeout is how long each attempt waits for its condition.
const DefaultWaitTimeout = 3 * time.Second

// Logger receives the retrier's progress lines.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// Retrier performs an action and waits for a condition, repeating both a
// bounded number of times when the wait fails.
type Retrier struct {
	waiter  Waiter
	timeout time.Duration
	logger  Logger
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithWaiter replaces the default PollWaiter.
func WithWaiter(w Waiter) Option {
	return func(r *Retrier) {
		r.waiter = w
	}
}

// WithTimeout sets the per-attempt wait timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Retrier) {
		r.timeout = d
	}
}

// WithLogger sets where progress lines go.
func WithLogger(l Logger) Option {
	return func(r *Retrier) {
		r.logger = l
	}
}

// NewRetrier creates a Retrier with a PollWaiter and DefaultWaitTimeout.
func NewRetrier(opts ...Option) *Retrier {
	r := &Retrier{
		waiter:  NewPollWaiter(DefaultPollInterval),
		timeout: DefaultWaitTimeout,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.timeout <= 0 {
		r.timeout = DefaultWaitTimeout
	}
	if r.logger == nil {
		r.logger = nopLogger{}
	}
	return r
}

// Timeout returns the per-attempt wait timeout.
func (r *Retrier) Timeout() time.Duration {
	return r.timeout
}

// Execute runs action (if non-nil) and waits for cond against h. A failed
// wait repeats action and wait while retries remain, so the action runs at
// most retries+1 times. An action error is returned at once without a
// retry. When every wait fails the result is an *ExhaustedError wrapping
// the last wait error.
func (r *Retrier) Execute(ctx context.Context, h Handle, cond Condition, retries int, action *Action) error {
	if h == nil {
		return fmt.Errorf("browser handle is required")
	}
	if cond == nil {
		return fmt.Errorf("condition is required")
	}
	if retries < 0 {
		return fmt.Errorf("retries cannot be negative: %d", retries)
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if action != nil {
			r.logger.Infof("%s", action.Describe())
			if err := action.Invoke(ctx); err != nil {
				return &ActionError{Action: action.String(), Attempt: attempt + 1, Err: err}
			}
		}

		err := r.waiter.WaitUntil(ctx, h, cond, r.timeout)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err

		left := retries - attempt
		if action == nil {
			r.logger.Warnf("timeout: - retry left: %d / waiting %s: %v", left, cond, err)
		} else {
			r.logger.Warnf("timeout: %s - retry left: %d / waiting %s: %v", action, left, cond, err)
		}
	}

	return &ExhaustedError{
		Action:    action.String(),
		Condition: cond.String(),
		Attempts:  retries + 1,
		Err:       lastErr,
	}
}
