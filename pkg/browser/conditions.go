package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/entrhq/browsercmd/pkg/command"
	"github.com/gobwas/glob"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Condition is the command package's wait predicate. Every condition here
// works on any handle that offers the capability it needs, so *Driver and
// test doubles are interchangeable.
type Condition = command.Condition

// Capabilities the conditions look for on the handle.
type (
	elementStater interface {
		ElementState(ctx context.Context, l Locator) (ElementState, error)
	}
	alertSource interface {
		AlertPresent() bool
	}
	windowCounter interface {
		WindowCount() int
	}
	urlSource interface {
		CurrentURL() string
	}
	titleSource interface {
		Title() (string, error)
	}
	textSource interface {
		PageText() (string, error)
	}
	downloadSource interface {
		DownloadDir() string
	}
)

// partialSuffix marks downloads that are still being written.
const partialSuffix = ".part"

func capability[T any](h command.Handle) (T, error) {
	c, ok := h.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("handle %T does not support %T", h, &zero)
	}
	return c, nil
}

func elementCondition(desc string, l Locator, holds func(ElementState) bool) Condition {
	return command.NewCondition(desc, func(ctx context.Context, h command.Handle) (bool, error) {
		src, err := capability[elementStater](h)
		if err != nil {
			return false, err
		}
		state, err := src.ElementState(ctx, l)
		if err != nil {
			return false, err
		}
		return holds(state), nil
	})
}

// ElementVisible holds when the first match of l is visible.
func ElementVisible(l Locator) Condition {
	return elementCondition(fmt.Sprintf("visibility of %s", l), l, func(s ElementState) bool {
		return s.Count > 0 && s.Visible
	})
}

// AllElementsVisible holds when l matches something and every match is
// visible.
func AllElementsVisible(l Locator) Condition {
	return elementCondition(fmt.Sprintf("visibility of all %s", l), l, func(s ElementState) bool {
		return s.Count > 0 && s.AllVisible
	})
}

// ElementClickable holds when the first match of l is visible and enabled.
func ElementClickable(l Locator) Condition {
	return elementCondition(fmt.Sprintf("%s to be clickable", l), l, func(s ElementState) bool {
		return s.Count > 0 && s.Visible && s.Enabled
	})
}

// ElementInvisible holds when l matches nothing or its first match is hidden.
func ElementInvisible(l Locator) Condition {
	return elementCondition(fmt.Sprintf("invisibility of %s", l), l, func(s ElementState) bool {
		return s.Count == 0 || !s.Visible
	})
}

// AlertPresent holds while a dialog is open.
func AlertPresent() Condition {
	return command.NewCondition("alert to be present", func(ctx context.Context, h command.Handle) (bool, error) {
		src, err := capability[alertSource](h)
		if err != nil {
			return false, err
		}
		return src.AlertPresent(), nil
	})
}

// WindowCount holds when exactly n windows are open.
func WindowCount(n int) Condition {
	return command.NewCondition(fmt.Sprintf("number of windows to be %d", n), func(ctx context.Context, h command.Handle) (bool, error) {
		src, err := capability[windowCounter](h)
		if err != nil {
			return false, err
		}
		return src.WindowCount() == n, nil
	})
}

// URLMatches holds when the current URL matches the glob pattern, e.g.
// "https://example.com/orders/*".
func URLMatches(pattern string) (Condition, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid url pattern '%s': %w", pattern, err)
	}
	return command.NewCondition(fmt.Sprintf("url to match %s", pattern), func(ctx context.Context, h command.Handle) (bool, error) {
		src, err := capability[urlSource](h)
		if err != nil {
			return false, err
		}
		return g.Match(src.CurrentURL()), nil
	}), nil
}

// TitleIs holds when the page title equals title.
func TitleIs(title string) Condition {
	return command.NewCondition(fmt.Sprintf("title to be %q", title), func(ctx context.Context, h command.Handle) (bool, error) {
		src, err := capability[titleSource](h)
		if err != nil {
			return false, err
		}
		got, err := src.Title()
		if err != nil {
			return false, err
		}
		return got == title, nil
	})
}

// TextPresent holds when the visible page text contains text.
func TextPresent(text string) Condition {
	return command.NewCondition(fmt.Sprintf("text %q to be present", text), func(ctx context.Context, h command.Handle) (bool, error) {
		src, err := capability[textSource](h)
		if err != nil {
			return false, err
		}
		got, err := src.PageText()
		if err != nil {
			return false, err
		}
		return strings.Contains(got, text), nil
	})
}

// DownloadExists holds when a finished file whose base name matches the glob
// pattern is in the download directory.
func DownloadExists(pattern string) (Condition, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid download pattern '%s': %w", pattern, err)
	}
	return command.NewCondition(fmt.Sprintf("download %s", pattern), func(ctx context.Context, h command.Handle) (bool, error) {
		matches, err := matchingDownloads(h, g)
		if err != nil {
			return false, err
		}
		return len(matches) > 0, nil
	}), nil
}

// PDFDownloaded holds when a download matching the glob pattern exists and
// validates as a PDF document.
func PDFDownloaded(pattern string) (Condition, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid download pattern '%s': %w", pattern, err)
	}
	return command.NewCondition(fmt.Sprintf("pdf download %s", pattern), func(ctx context.Context, h command.Handle) (bool, error) {
		matches, err := matchingDownloads(h, g)
		if err != nil {
			return false, err
		}

		pdfConfigOnce.Do(api.DisableConfigDir)

		var lastErr error
		for _, path := range matches {
			if err := api.ValidateFile(path, nil); err != nil {
				lastErr = fmt.Errorf("invalid pdf %s: %w", filepath.Base(path), err)
				continue
			}
			return true, nil
		}
		return false, lastErr
	}), nil
}

// pdfConfigOnce keeps pdfcpu from creating a config directory in the user's
// home on first use.
var pdfConfigOnce sync.Once

func matchingDownloads(h command.Handle, g glob.Glob) ([]string, error) {
	src, err := capability[downloadSource](h)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(src.DownloadDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read download directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, partialSuffix) {
			continue
		}
		if g.Match(name) {
			matches = append(matches, filepath.Join(src.DownloadDir(), name))
		}
	}
	return matches, nil
}
