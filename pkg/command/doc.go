// Package command runs browser commands that must be confirmed by a wait
// condition.
//
// A command is an optional Action followed by a wait for a Condition against
// a browser Handle. When the wait times out the whole pair is attempted again
// until the retry budget is spent:
//
//	r := command.NewRetrier(command.WithLogger(logger))
//	err := r.Execute(ctx, driver,
//	    browser.TitleIs("Done"),
//	    2,
//	    browser.NavigateAction(driver, "https://example.com/start"))
//
// The action runs again on every retry, so it should be safe to repeat.
// An error returned by the action itself ends Execute immediately; only a
// failed wait is retried. Worst case Execute blocks for
// timeout * (retries + 1) plus the time spent in the actions.
package command
