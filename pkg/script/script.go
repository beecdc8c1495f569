// Package script runs YAML browser scripts. Each step performs an optional
// action and waits for a condition, retrying both through command.Retrier.
package script

import (
	"fmt"
	"os"

	"github.com/entrhq/browsercmd/pkg/browser"
	"github.com/entrhq/browsercmd/pkg/command"
	"gopkg.in/yaml.v3"
)

// Action names accepted in a step
const (
	ActionNone         = "none"
	ActionNavigate     = "navigate"
	ActionClose        = "close"
	ActionSwitchWindow = "switch_window"
	ActionClick        = "click"
	ActionScript       = "script"
)

// Condition names accepted in a step's wait block
const (
	WaitVisible    = "visible"
	WaitAllVisible = "all_visible"
	WaitClickable  = "clickable"
	WaitInvisible  = "invisible"
	WaitAlert      = "alert"
	WaitWindows    = "windows"
	WaitURL        = "url"
	WaitTitle      = "title"
	WaitText       = "text"
	WaitDownload   = "download"
	WaitPDF        = "pdf"
)

// Script is an ordered list of steps.
type Script struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step performs Action and then waits for Wait. Retries overrides the
// runner's default budget when set.
type Step struct {
	Name    string       `yaml:"name" json:"name"`
	Action  string       `yaml:"action" json:"action"`
	URL     string       `yaml:"url" json:"url,omitempty"`
	Window  int          `yaml:"window" json:"window,omitempty"`
	Locator *LocatorSpec `yaml:"locator" json:"locator,omitempty"`
	Script  string       `yaml:"script" json:"script,omitempty"`
	Wait    WaitSpec     `yaml:"wait" json:"wait"`
	Retries *int         `yaml:"retries" json:"retries,omitempty"`
}

// LocatorSpec is the YAML form of a browser.Locator, e.g.
// {by: xpath, value: "//button"}.
type LocatorSpec struct {
	By    string `yaml:"by" json:"by"`
	Value string `yaml:"value" json:"value"`
}

// WaitSpec describes the condition a step waits for. Value carries the
// pattern, title or text of the conditions that need one.
type WaitSpec struct {
	Condition string       `yaml:"condition" json:"condition"`
	Locator   *LocatorSpec `yaml:"locator" json:"locator,omitempty"`
	Value     string       `yaml:"value" json:"value,omitempty"`
	Count     int          `yaml:"count" json:"count,omitempty"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate compiles every step without running it.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for i, step := range s.Steps {
		if _, _, err := step.compile(nil); err != nil {
			return &StepError{Index: i, Name: step.Name, Err: err}
		}
		if step.Retries != nil && *step.Retries < 0 {
			return &StepError{Index: i, Name: step.Name, Err: fmt.Errorf("retries cannot be negative")}
		}
	}
	return nil
}

// Label returns the step name, or a name derived from its action and wait.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	action := s.Action
	if action == "" {
		action = ActionNone
	}
	return fmt.Sprintf("%s until %s", action, s.Wait.Condition)
}

func (l *LocatorSpec) locator() (browser.Locator, error) {
	if l == nil {
		return browser.Locator{}, fmt.Errorf("%w: locator is required", browser.ErrInvalidLocator)
	}
	by, err := browser.ParseBy(l.By)
	if err != nil {
		return browser.Locator{}, err
	}
	return browser.NewLocator(by, l.Value)
}

// compile turns the step into a condition and an action bound to d. d is
// only used when the action runs, so a nil Driver compiles for validation.
func (s Step) compile(d Driver) (command.Condition, *command.Action, error) {
	cond, err := s.Wait.condition()
	if err != nil {
		return nil, nil, fmt.Errorf("wait: %w", err)
	}
	action, err := s.action(d)
	if err != nil {
		return nil, nil, fmt.Errorf("action: %w", err)
	}
	return cond, action, nil
}

func (s Step) action(d Driver) (*command.Action, error) {
	switch s.Action {
	case "", ActionNone:
		return nil, nil
	case ActionNavigate:
		if s.URL == "" {
			return nil, fmt.Errorf("navigate requires a url")
		}
		return browser.NavigateAction(d, s.URL), nil
	case ActionClose:
		return browser.CloseAction(d), nil
	case ActionSwitchWindow:
		if s.Window < 0 {
			return nil, fmt.Errorf("invalid window index: %d", s.Window)
		}
		return browser.SwitchWindowAction(d, s.Window), nil
	case ActionClick:
		l, err := s.Locator.locator()
		if err != nil {
			return nil, err
		}
		return browser.ClickAction(d, l), nil
	case ActionScript:
		if s.Script == "" {
			return nil, fmt.Errorf("script requires a body")
		}
		return browser.ScriptAction(d, s.Script), nil
	default:
		return nil, fmt.Errorf("unknown action %q", s.Action)
	}
}

func (w WaitSpec) condition() (command.Condition, error) {
	switch w.Condition {
	case WaitVisible, WaitAllVisible, WaitClickable, WaitInvisible:
		l, err := w.Locator.locator()
		if err != nil {
			return nil, err
		}
		switch w.Condition {
		case WaitVisible:
			return browser.ElementVisible(l), nil
		case WaitAllVisible:
			return browser.AllElementsVisible(l), nil
		case WaitClickable:
			return browser.ElementClickable(l), nil
		default:
			return browser.ElementInvisible(l), nil
		}
	case WaitAlert:
		return browser.AlertPresent(), nil
	case WaitWindows:
		if w.Count < 1 {
			return nil, fmt.Errorf("windows requires a count of at least 1")
		}
		return browser.WindowCount(w.Count), nil
	case WaitURL:
		if w.Value == "" {
			return nil, fmt.Errorf("url requires a pattern value")
		}
		return browser.URLMatches(w.Value)
	case WaitTitle:
		return browser.TitleIs(w.Value), nil
	case WaitText:
		if w.Value == "" {
			return nil, fmt.Errorf("text requires a value")
		}
		return browser.TextPresent(w.Value), nil
	case WaitDownload:
		if w.Value == "" {
			return nil, fmt.Errorf("download requires a file pattern value")
		}
		return browser.DownloadExists(w.Value)
	case WaitPDF:
		if w.Value == "" {
			return nil, fmt.Errorf("pdf requires a file pattern value")
		}
		return browser.PDFDownloaded(w.Value)
	case "":
		return nil, fmt.Errorf("condition is required")
	default:
		return nil, fmt.Errorf("unknown condition %q", w.Condition)
	}
}
