package browser

import (
	"errors"
	"fmt"
	"time"
)

// Logger receives driver progress lines. *logging.Logger satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}

var (
	// ErrNoSuchElement is returned when a locator matches nothing
	ErrNoSuchElement = errors.New("no such element")

	// ErrNoSuchWindow is returned for an out of range window index
	ErrNoSuchWindow = errors.New("no such window")

	// ErrNoSuchFrame is returned for an out of range frame index
	ErrNoSuchFrame = errors.New("no such frame")

	// ErrClosed is returned by a driver after Quit
	ErrClosed = errors.New("browser is closed")
)

// LocatorError reports a lookup failure together with the locator.
type LocatorError struct {
	Locator Locator
	Err     error
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("locate %s: %v", e.Locator, e.Err)
}

// Unwrap returns the underlying error
func (e *LocatorError) Unwrap() error {
	return e.Err
}

// ClickOptions configures element clicking behavior.
type ClickOptions struct {
	// NewTab holds the platform modifier key so the link opens in a new tab
	NewTab bool
}

// SelectBy chooses an <option> of a <select>. Build it with SelectIndex,
// SelectText or SelectValue.
type SelectBy struct {
	kind  selectKind
	index int
	text  string
}

type selectKind int

const (
	selectNone selectKind = iota
	selectIndex
	selectText
	selectValue
)

// SelectIndex picks the option at index.
func SelectIndex(index int) SelectBy { return SelectBy{kind: selectIndex, index: index} }

// SelectText picks the option whose visible text is text.
func SelectText(text string) SelectBy { return SelectBy{kind: selectText, text: text} }

// SelectValue picks the option whose value attribute is value.
func SelectValue(value string) SelectBy { return SelectBy{kind: selectValue, text: value} }

func (s SelectBy) String() string {
	switch s.kind {
	case selectIndex:
		return fmt.Sprintf("index=%d", s.index)
	case selectText:
		return fmt.Sprintf("text=%s", s.text)
	case selectValue:
		return fmt.Sprintf("value=%s", s.text)
	default:
		return "none"
	}
}

// FrameRef names the frame SwitchToFrame should enter. Build it with
// FrameIndex, FrameElement or DefaultContent.
type FrameRef struct {
	index   int
	element *Element
	kind    frameKind
}

type frameKind int

const (
	frameDefault frameKind = iota
	frameIndex
	frameElement
)

// FrameIndex selects the child frame at index of the current frame.
func FrameIndex(index int) FrameRef { return FrameRef{kind: frameIndex, index: index} }

// FrameElement selects the frame rendered by an <iframe> element.
func FrameElement(el *Element) FrameRef { return FrameRef{kind: frameElement, element: el} }

// DefaultContent returns to the page's main frame.
func DefaultContent() FrameRef { return FrameRef{kind: frameDefault} }

// ElementState is a snapshot of what a locator currently matches.
type ElementState struct {
	// Count is the number of matching elements
	Count int
	// Visible reports whether the first match is visible
	Visible bool
	// AllVisible reports whether every match is visible
	AllVisible bool
	// Enabled reports whether the first match is enabled
	Enabled bool
}

// Default values for driver options
const (
	DefaultWindowWidth   = 1920
	DefaultWindowHeight  = 1080
	DefaultLang          = "ko-KR"
	DefaultWaitTimeout   = 10 * time.Second
	DefaultImplicitWait  = 30 * time.Second
	DefaultPollInterval  = 500 * time.Millisecond
	DefaultAlertCapacity = 8
)
