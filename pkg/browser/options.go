package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures a new Driver.
type Options struct {
	// DownloadDir receives downloaded files. Defaults to the working directory.
	DownloadDir string

	// Visible shows the browser window instead of running headless
	Visible bool

	// WindowWidth and WindowHeight set the window and viewport size
	WindowWidth  int
	WindowHeight int

	// Lang is the browser UI language and page locale
	Lang string

	// DebugPort enables the remote debugging port when non-zero (usually 9222)
	DebugPort int

	// UserAgent overrides the engine's user agent when set
	UserAgent string

	// IgnoreCertErrors accepts invalid TLS certificates
	IgnoreCertErrors bool

	// ExtraArgs are appended to the browser command line
	ExtraArgs []string

	// ExecutablePath runs a specific chromium binary
	ExecutablePath string

	// WaitTimeout bounds the Wait* helpers
	WaitTimeout time.Duration

	// ImplicitWait is the engine's default timeout for element operations
	ImplicitWait time.Duration

	// PollInterval is how often the Wait* helpers re-check
	PollInterval time.Duration

	// SkipInstall assumes the engine driver and browsers are already installed
	SkipInstall bool

	Logger Logger
}

func (o Options) withDefaults() Options {
	if o.WindowWidth <= 0 {
		o.WindowWidth = DefaultWindowWidth
	}
	if o.WindowHeight <= 0 {
		o.WindowHeight = DefaultWindowHeight
	}
	if o.Lang == "" {
		o.Lang = DefaultLang
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = DefaultWaitTimeout
	}
	if o.ImplicitWait <= 0 {
		o.ImplicitWait = DefaultImplicitWait
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
	return o
}

// launchArgs builds the chromium command line switches.
func (o Options) launchArgs() []string {
	args := []string{
		fmt.Sprintf("--window-size=%d,%d", o.WindowWidth, o.WindowHeight),
		"--disable-extensions",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-blink-features=AutomationControlled",
		"--lang=" + o.Lang,
	}
	if o.IgnoreCertErrors {
		args = append(args, "--ignore-certificate-errors")
	}
	if o.DebugPort > 0 {
		args = append(args, fmt.Sprintf("--remote-debugging-port=%d", o.DebugPort))
	}
	return append(args, o.ExtraArgs...)
}

func (o Options) launchOptions() playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(!o.Visible),
		Args:     o.launchArgs(),
	}
	if o.DownloadDir != "" {
		opts.DownloadsPath = playwright.String(o.DownloadDir)
	}
	if o.ExecutablePath != "" {
		opts.ExecutablePath = playwright.String(o.ExecutablePath)
	}
	return opts
}

func (o Options) contextOptions() playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  o.WindowWidth,
			Height: o.WindowHeight,
		},
		Locale:            playwright.String(o.Lang),
		AcceptDownloads:   playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(o.IgnoreCertErrors),
	}
	if o.UserAgent != "" {
		opts.UserAgent = playwright.String(o.UserAgent)
	}
	return opts
}

func millis(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
