package command

import (
	"context"
	"fmt"
)

// ActionKind identifies what an action does. It selects the progress line
// logged before the action runs.
type ActionKind int

const (
	// KindGeneric is any other callable
	KindGeneric ActionKind = iota
	// KindNavigate loads a URL
	KindNavigate
	// KindClose closes the current window
	KindClose
	// KindSwitchWindow focuses another window
	KindSwitchWindow
)

// String returns the kind name
func (k ActionKind) String() string {
	switch k {
	case KindNavigate:
		return "navigate"
	case KindClose:
		return "close"
	case KindSwitchWindow:
		return "switch_window"
	default:
		return "generic"
	}
}

// Func is the callable behind an Action. It receives the action's
// positional arguments.
type Func func(ctx context.Context, args ...any) error

// Action is a side effect performed before waiting for a condition.
// A nil *Action means "just wait".
type Action struct {
	Kind ActionKind
	Name string
	Args []any
	fn   Func
}

// NewAction builds an action of the given kind.
func NewAction(kind ActionKind, name string, fn Func, args ...any) *Action {
	return &Action{
		Kind: kind,
		Name: name,
		Args: args,
		fn:   fn,
	}
}

// Call wraps a generic callable with its positional arguments.
func Call(name string, fn Func, args ...any) *Action {
	return NewAction(KindGeneric, name, fn, args...)
}

// Navigate builds an action that loads url.
func Navigate(fn func(ctx context.Context, url string) error, url string) *Action {
	return NewAction(KindNavigate, "get", func(ctx context.Context, args ...any) error {
		return fn(ctx, args[0].(string))
	}, url)
}

// Close builds an action that closes the current window.
func Close(fn func(ctx context.Context) error) *Action {
	return NewAction(KindClose, "close", func(ctx context.Context, _ ...any) error {
		return fn(ctx)
	})
}

// SwitchWindow builds an action that focuses the window at index.
func SwitchWindow(fn func(ctx context.Context, index int) error, index int) *Action {
	return NewAction(KindSwitchWindow, "switch_to_window", func(ctx context.Context, args ...any) error {
		return fn(ctx, args[0].(int))
	}, index)
}

// Invoke runs the action with its arguments.
func (a *Action) Invoke(ctx context.Context) error {
	if a.fn == nil {
		return fmt.Errorf("action %q has no function", a.Name)
	}
	return a.fn(ctx, a.Args...)
}

// Describe returns the progress line logged before the action runs.
func (a *Action) Describe() string {
	switch a.Kind {
	case KindNavigate:
		return fmt.Sprintf("url loading: %v", firstArg(a.Args))
	case KindClose:
		return "window closing"
	case KindSwitchWindow:
		return fmt.Sprintf("window switching: %v", firstArg(a.Args))
	default:
		return fmt.Sprintf("action: %s, param: %v", a.Name, a.Args)
	}
}

// String returns the action as a call expression, e.g. get([https://x]).
func (a *Action) String() string {
	if a == nil {
		return "wait"
	}
	return fmt.Sprintf("%s(%v)", a.Name, a.Args)
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
