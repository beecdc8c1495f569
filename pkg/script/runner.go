package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/browsercmd/pkg/browser"
	"github.com/entrhq/browsercmd/pkg/command"
)

// Driver is what a script needs from the browser. Conditions are checked
// against the same value, so it should also offer the capabilities of the
// conditions the script uses. *browser.Driver offers all of them.
type Driver interface {
	browser.Navigator
	browser.WindowCloser
	browser.WindowSwitcher
	browser.Clicker
	browser.ScriptRunner
}

// Step statuses
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// StepError reports which step of a script failed.
type StepError struct {
	Index int
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Name, e.Err)
	}
	return fmt.Sprintf("step %d: %v", e.Index+1, e.Err)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	return e.Err
}

// Options configures a Runner.
type Options struct {
	// Retries is the budget of steps that do not set their own
	Retries int
	// WaitTimeout is the per-attempt wait, command.DefaultWaitTimeout when zero
	WaitTimeout time.Duration
	// PollInterval is used when Waiter is nil
	PollInterval time.Duration
	Waiter       command.Waiter
	Logger       command.Logger
}

// Runner executes scripts against a driver.
type Runner struct {
	driver  Driver
	waiter  command.Waiter
	timeout time.Duration
	retries int
	logger  command.Logger
}

// NewRunner creates a runner for d.
func NewRunner(d Driver, opts Options) *Runner {
	r := &Runner{
		driver:  d,
		waiter:  opts.Waiter,
		timeout: opts.WaitTimeout,
		retries: opts.Retries,
		logger:  opts.Logger,
	}
	if r.waiter == nil {
		r.waiter = command.NewPollWaiter(opts.PollInterval)
	}
	if r.timeout <= 0 {
		r.timeout = command.DefaultWaitTimeout
	}
	if r.retries < 0 {
		r.retries = 0
	}
	return r
}

// Run executes the steps of s in order and stops at the first failure. The
// summary is returned even when a step fails; later steps are marked
// skipped.
func (r *Runner) Run(ctx context.Context, s *Script) (*Summary, error) {
	summary := &Summary{
		Script:    s.Name,
		StartTime: time.Now(),
		Steps:     make([]StepResult, 0, len(s.Steps)),
	}

	var runErr error
	for i, step := range s.Steps {
		if runErr != nil {
			summary.Steps = append(summary.Steps, StepResult{
				Index:     i + 1,
				Name:      step.Label(),
				Action:    step.Action,
				Condition: step.Wait.Condition,
				Status:    StatusSkipped,
			})
			continue
		}

		result, err := r.runStep(ctx, i, len(s.Steps), step)
		summary.Steps = append(summary.Steps, result)
		if err != nil {
			runErr = &StepError{Index: i, Name: step.Name, Err: err}
		}
	}

	summary.finish(runErr)
	return summary, runErr
}

func (r *Runner) runStep(ctx context.Context, index, total int, step Step) (StepResult, error) {
	result := StepResult{
		Index:     index + 1,
		Name:      step.Label(),
		Action:    step.Action,
		Condition: step.Wait.Condition,
	}
	start := time.Now()

	cond, action, err := step.compile(r.driver)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result, err
	}

	retries := r.retries
	if step.Retries != nil {
		retries = *step.Retries
	}

	r.info("step %d/%d: %s", index+1, total, result.Name)

	waits := &countingWaiter{Waiter: r.waiter}
	retrier := command.NewRetrier(
		command.WithWaiter(waits),
		command.WithTimeout(r.timeout),
		command.WithLogger(r.logger),
	)
	err = retrier.Execute(ctx, r.driver, cond, retries, action)

	result.Duration = time.Since(start)
	result.Attempts = waits.count
	var actionErr *command.ActionError
	if errors.As(err, &actionErr) {
		result.Attempts = actionErr.Attempt
	}

	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result, err
	}
	result.Status = StatusPassed
	return result, nil
}

func (r *Runner) info(format string, v ...interface{}) {
	if r.logger != nil {
		r.logger.Infof(format, v...)
	}
}

// countingWaiter counts waits, one per attempt.
type countingWaiter struct {
	command.Waiter
	count int
}

func (w *countingWaiter) WaitUntil(ctx context.Context, h command.Handle, cond command.Condition, timeout time.Duration) error {
	w.count++
	return w.Waiter.WaitUntil(ctx, h, cond, timeout)
}
