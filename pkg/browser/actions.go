package browser

import (
	"context"

	"github.com/entrhq/browsercmd/pkg/command"
)

// The action helpers accept the narrowest capability they use. *Driver
// implements all of them.
type (
	// Navigator loads a URL in the current window.
	Navigator interface {
		Get(url string) error
	}
	// WindowCloser closes the current window.
	WindowCloser interface {
		Close() error
	}
	// WindowSwitcher focuses a window by index.
	WindowSwitcher interface {
		SwitchToWindow(index int) error
	}
	// Clicker clicks located elements.
	Clicker interface {
		ClickLocator(l Locator, opts ClickOptions) error
	}
	// ScriptRunner evaluates script bodies.
	ScriptRunner interface {
		Script(body string) (interface{}, error)
	}
)

// NavigateAction loads url in the current window of d.
func NavigateAction(d Navigator, url string) *command.Action {
	return command.Navigate(func(_ context.Context, url string) error {
		return d.Get(url)
	}, url)
}

// CloseAction closes the current window of d.
func CloseAction(d WindowCloser) *command.Action {
	return command.Close(func(context.Context) error {
		return d.Close()
	})
}

// SwitchWindowAction focuses the window at index.
func SwitchWindowAction(d WindowSwitcher, index int) *command.Action {
	return command.SwitchWindow(func(_ context.Context, index int) error {
		return d.SwitchToWindow(index)
	}, index)
}

// ClickAction clicks the first element matching l.
func ClickAction(d Clicker, l Locator) *command.Action {
	return command.Call("click", func(context.Context, ...any) error {
		return d.ClickLocator(l, ClickOptions{})
	}, l.String())
}

// ScriptAction runs a function body in the current frame.
func ScriptAction(d ScriptRunner, body string) *command.Action {
	return command.Call("script", func(_ context.Context, args ...any) error {
		_, err := d.Script(args[0].(string))
		return err
	}, body)
}
