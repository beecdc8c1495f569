package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// ErrNoAlert is returned by Alert methods when no dialog is open.
var ErrNoAlert = errors.New("no alert open")

// Alert is an open JavaScript dialog (alert, confirm, prompt).
type Alert struct {
	dialog playwright.Dialog
}

// Text returns the dialog message.
func (a *Alert) Text() string {
	return a.dialog.Message()
}

// Accept confirms the dialog.
func (a *Alert) Accept() error {
	if err := a.dialog.Accept(); err != nil {
		return wrapEngineErr("accept dialog", err)
	}
	return nil
}

// Dismiss cancels the dialog.
func (a *Alert) Dismiss() error {
	if err := a.dialog.Dismiss(); err != nil {
		return wrapEngineErr("dismiss dialog", err)
	}
	return nil
}

// ElementState reports what l currently matches in the current frame.
func (d *Driver) ElementState(ctx context.Context, l Locator) (ElementState, error) {
	if err := d.checkOpen(); err != nil {
		return ElementState{}, err
	}

	loc, err := locate(d.frameLocator, l)
	if err != nil {
		return ElementState{}, err
	}

	all, err := loc.All()
	if err != nil {
		return ElementState{}, &LocatorError{Locator: l, Err: wrapEngineErr("list", err)}
	}

	state := ElementState{Count: len(all), AllVisible: len(all) > 0}
	for i, item := range all {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		visible, err := item.IsVisible()
		if err != nil {
			return state, &LocatorError{Locator: l, Err: wrapEngineErr("visibility", err)}
		}
		if i == 0 {
			state.Visible = visible
			if visible {
				enabled, err := item.IsEnabled()
				if err != nil {
					return state, &LocatorError{Locator: l, Err: wrapEngineErr("enabled", err)}
				}
				state.Enabled = enabled
			}
		}
		if !visible {
			state.AllVisible = false
		}
	}
	return state, nil
}

// AlertPresent reports whether a dialog is waiting to be handled.
func (d *Driver) AlertPresent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.alerts) > 0
}

// SwitchToAlert returns the oldest open dialog.
func (d *Driver) SwitchToAlert() (*Alert, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.alerts) == 0 {
		return nil, ErrNoAlert
	}
	dialog := d.alerts[0]
	d.alerts = d.alerts[1:]
	return &Alert{dialog: dialog}, nil
}

func (d *Driver) wait(ctx context.Context, cond Condition) error {
	return d.waiter.WaitUntil(ctx, d, cond, d.waitTimeout)
}

// WaitVisible waits until the first match of l is visible and returns it.
func (d *Driver) WaitVisible(ctx context.Context, l Locator) (*Element, error) {
	if err := d.wait(ctx, ElementVisible(l)); err != nil {
		return nil, err
	}
	return d.FindElement(l)
}

// WaitAllVisible waits until l matches at least one element and every match
// is visible.
func (d *Driver) WaitAllVisible(ctx context.Context, l Locator) ([]*Element, error) {
	if err := d.wait(ctx, AllElementsVisible(l)); err != nil {
		return nil, err
	}
	return d.FindElements(l)
}

// WaitClickable waits until the first match of l is visible and enabled.
func (d *Driver) WaitClickable(ctx context.Context, l Locator) (*Element, error) {
	if err := d.wait(ctx, ElementClickable(l)); err != nil {
		return nil, err
	}
	return d.FindElement(l)
}

// WaitInvisible waits until l matches nothing or its first match is hidden.
func (d *Driver) WaitInvisible(ctx context.Context, l Locator) error {
	return d.wait(ctx, ElementInvisible(l))
}

// WaitAlert waits for a dialog and returns it.
func (d *Driver) WaitAlert(ctx context.Context) (*Alert, error) {
	if err := d.wait(ctx, AlertPresent()); err != nil {
		return nil, err
	}
	return d.SwitchToAlert()
}

// WaitWindowCount waits until exactly n windows are open.
func (d *Driver) WaitWindowCount(ctx context.Context, n int) error {
	return d.wait(ctx, WindowCount(n))
}

// Confirm waits for a dialog and accepts it (ok) or dismisses it.
func (d *Driver) Confirm(ctx context.Context, ok bool) error {
	alert, err := d.WaitAlert(ctx)
	if err != nil {
		return err
	}

	verb, do := "accept", alert.Accept
	if !ok {
		verb, do = "dismiss", alert.Dismiss
	}
	d.logger.Infof("confirm popup: %s -> %s", alert.Text(), verb)
	if err := do(); err != nil {
		return fmt.Errorf("confirm popup: %w", err)
	}
	return nil
}
