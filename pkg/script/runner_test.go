package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/browsercmd/pkg/browser"
	"github.com/entrhq/browsercmd/pkg/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver stands in for *browser.Driver. Titles maps a URL to the title
// the page shows once loaded.
type fakeDriver struct {
	url     string
	title   string
	titles  map[string]string
	windows int
	visible map[string]bool
	getErr  error

	gets    int
	clicks  []string
	scripts []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		windows: 1,
		titles:  map[string]string{},
		visible: map[string]bool{},
	}
}

func (f *fakeDriver) Get(url string) error {
	f.gets++
	if f.getErr != nil {
		return f.getErr
	}
	f.url = url
	f.title = f.titles[url]
	return nil
}

func (f *fakeDriver) Close() error {
	f.windows--
	return nil
}

func (f *fakeDriver) SwitchToWindow(index int) error {
	if index >= f.windows {
		return fmt.Errorf("%w: %d", browser.ErrNoSuchWindow, index)
	}
	return nil
}

func (f *fakeDriver) ClickLocator(l browser.Locator, opts browser.ClickOptions) error {
	f.clicks = append(f.clicks, l.String())
	return nil
}

func (f *fakeDriver) Script(body string) (interface{}, error) {
	f.scripts = append(f.scripts, body)
	return nil, nil
}

func (f *fakeDriver) Title() (string, error) { return f.title, nil }
func (f *fakeDriver) CurrentURL() string     { return f.url }
func (f *fakeDriver) WindowCount() int       { return f.windows }

func (f *fakeDriver) ElementState(ctx context.Context, l browser.Locator) (browser.ElementState, error) {
	if f.visible[l.String()] {
		return browser.ElementState{Count: 1, Visible: true, AllVisible: true, Enabled: true}, nil
	}
	return browser.ElementState{}, nil
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Infof(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Warnf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, v...))
}

func fastOptions(retries int) Options {
	return Options{
		Retries:      retries,
		WaitTimeout:  10 * time.Millisecond,
		PollInterval: time.Millisecond,
	}
}

func intPtr(v int) *int { return &v }

func TestRunner_Success(t *testing.T) {
	d := newFakeDriver()
	d.titles["https://shop.example.com/"] = "Shop"
	d.visible["id=search"] = true

	s := &Script{Name: "browse", Steps: []Step{
		{Name: "open", Action: ActionNavigate, URL: "https://shop.example.com/", Wait: WaitSpec{Condition: WaitTitle, Value: "Shop"}},
		{Action: ActionClick, Locator: &LocatorSpec{By: "id", Value: "search"}, Wait: WaitSpec{Condition: WaitVisible, Locator: &LocatorSpec{By: "id", Value: "search"}}},
		{Action: ActionScript, Script: "window.scrollTo(0, 0)", Wait: WaitSpec{Condition: WaitWindows, Count: 1}},
	}}

	logger := &recordingLogger{}
	opts := fastOptions(2)
	opts.Logger = logger

	summary, err := NewRunner(d, opts).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, RunSucceeded, summary.Status)
	assert.Equal(t, "browse", summary.Script)
	require.Len(t, summary.Steps, 3)
	for _, step := range summary.Steps {
		assert.Equal(t, StatusPassed, step.Status, step.Name)
		assert.Equal(t, 1, step.Attempts, step.Name)
	}
	assert.Equal(t, "open", summary.Steps[0].Name)
	assert.Equal(t, "click until visible", summary.Steps[1].Name)

	assert.Equal(t, 1, d.gets)
	assert.Equal(t, []string{"id=search"}, d.clicks)
	assert.Equal(t, []string{"window.scrollTo(0, 0)"}, d.scripts)

	assert.Equal(t, RunMetrics{StepsTotal: 3, StepsPassed: 3, Attempts: 3}, summary.Metrics)
	assert.Contains(t, logger.lines, "step 1/3: open")
	assert.Contains(t, logger.lines, "url loading: https://shop.example.com/")
}

func TestRunner_ExhaustedStepStopsScript(t *testing.T) {
	d := newFakeDriver()

	s := &Script{Steps: []Step{
		{Action: ActionNavigate, URL: "https://a.example/", Wait: WaitSpec{Condition: WaitWindows, Count: 1}},
		{Name: "never", Action: ActionNavigate, URL: "https://b.example/", Wait: WaitSpec{Condition: WaitTitle, Value: "missing"}},
		{Action: ActionClose, Wait: WaitSpec{Condition: WaitWindows, Count: 0}},
	}}

	summary, err := NewRunner(d, fastOptions(2)).Run(context.Background(), s)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)

	var exhausted *command.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, command.ErrWaitTimeout)

	// navigated once for step 1 and three times for step 2
	assert.Equal(t, 4, d.gets)
	assert.Equal(t, 1, d.windows, "close must not run after a failed step")

	assert.Equal(t, RunFailed, summary.Status)
	assert.NotEmpty(t, summary.Error)
	require.Len(t, summary.Steps, 3)
	assert.Equal(t, StatusPassed, summary.Steps[0].Status)
	assert.Equal(t, StatusFailed, summary.Steps[1].Status)
	assert.Equal(t, 3, summary.Steps[1].Attempts)
	assert.NotEmpty(t, summary.Steps[1].Error)
	assert.Equal(t, StatusSkipped, summary.Steps[2].Status)
	assert.Equal(t, 0, summary.Steps[2].Attempts)

	assert.Equal(t, RunMetrics{
		StepsTotal:   3,
		StepsPassed:  1,
		StepsFailed:  1,
		StepsSkipped: 1,
		Attempts:     4,
		Retries:      2,
	}, summary.Metrics)
}

func TestRunner_StepRetriesOverrideDefault(t *testing.T) {
	d := newFakeDriver()

	s := &Script{Steps: []Step{
		{Action: ActionNavigate, URL: "https://a.example/", Retries: intPtr(0), Wait: WaitSpec{Condition: WaitTitle, Value: "missing"}},
	}}

	summary, err := NewRunner(d, fastOptions(5)).Run(context.Background(), s)
	require.Error(t, err)
	assert.Equal(t, 1, d.gets)
	assert.Equal(t, 1, summary.Steps[0].Attempts)
}

func TestRunner_ActionErrorIsNotRetried(t *testing.T) {
	d := newFakeDriver()
	d.getErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	s := &Script{Steps: []Step{
		{Action: ActionNavigate, URL: "https://nowhere.invalid/", Wait: WaitSpec{Condition: WaitWindows, Count: 1}},
	}}

	summary, err := NewRunner(d, fastOptions(3)).Run(context.Background(), s)

	var actionErr *command.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.ErrorIs(t, err, d.getErr)
	assert.Equal(t, 1, d.gets)
	assert.Equal(t, 1, summary.Steps[0].Attempts)
	assert.Equal(t, StatusFailed, summary.Steps[0].Status)
}

func TestRunner_WaitOnlyStep(t *testing.T) {
	d := newFakeDriver()
	d.url = "https://shop.example.com/orders/7"

	s := &Script{Steps: []Step{
		{Wait: WaitSpec{Condition: WaitURL, Value: "https://shop.example.com/orders/*"}},
	}}

	summary, err := NewRunner(d, fastOptions(0)).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Steps[0].Attempts)
	assert.Zero(t, d.gets)
}

func TestRunner_InvalidStepFailsWithoutRunning(t *testing.T) {
	d := newFakeDriver()

	s := &Script{Steps: []Step{
		{Action: ActionNavigate, Wait: WaitSpec{Condition: WaitAlert}},
	}}

	summary, err := NewRunner(d, fastOptions(0)).Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a url")
	assert.Equal(t, StatusFailed, summary.Steps[0].Status)
	assert.Zero(t, summary.Steps[0].Attempts)
}

func TestRunner_CancelledContext(t *testing.T) {
	d := newFakeDriver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Script{Steps: []Step{
		{Action: ActionNavigate, URL: "https://a.example/", Wait: WaitSpec{Condition: WaitWindows, Count: 1}},
	}}

	summary, err := NewRunner(d, fastOptions(3)).Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, d.gets)
	assert.Equal(t, RunFailed, summary.Status)
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(newFakeDriver(), Options{Retries: -3})

	assert.Equal(t, command.DefaultWaitTimeout, r.timeout)
	assert.Equal(t, 0, r.retries)
	assert.NotNil(t, r.waiter)
}
