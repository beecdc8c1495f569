package browser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/entrhq/browsercmd/pkg/command"
	"github.com/playwright-community/playwright-go"
)

// Driver is one configured chromium session. It tracks the current window
// and frame the way a WebDriver client does. A Driver is meant to be used
// from one goroutine; the mutex only guards state touched by engine event
// callbacks.
type Driver struct {
	mu sync.Mutex

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	frame   playwright.Frame

	opts        Options
	logger      Logger
	waiter      *command.PollWaiter
	waitTimeout time.Duration
	downloadDir string

	alerts    []playwright.Dialog
	downloads sync.WaitGroup
	closed    bool
}

// New installs (unless opts.SkipInstall) and starts the engine, launches
// chromium and opens the first window.
func New(opts Options) (*Driver, error) {
	opts = opts.withDefaults()

	downloadDir := opts.DownloadDir
	if downloadDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve download directory: %w", err)
		}
		downloadDir = wd
	}
	downloadDir, err := filepath.Abs(downloadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve download directory: %w", err)
	}
	if err := os.MkdirAll(downloadDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	opts.DownloadDir = downloadDir

	// Keep engine output off the terminal
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if !opts.SkipInstall {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(opts.launchOptions())
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(opts.contextOptions())
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	bctx.SetDefaultTimeout(millis(opts.ImplicitWait))

	d := &Driver{
		pw:          pw,
		browser:     browser,
		context:     bctx,
		opts:        opts,
		logger:      opts.Logger,
		waiter:      command.NewPollWaiter(opts.PollInterval),
		waitTimeout: opts.WaitTimeout,
		downloadDir: downloadDir,
	}

	// Every window, including ones opened by the page, reports dialogs
	// and downloads to the driver
	bctx.OnPage(d.watchPage)

	page, err := bctx.NewPage()
	if err != nil {
		_ = d.Quit()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	d.page = page

	if ua, err := d.Script("return navigator.userAgent"); err == nil {
		d.logger.Infof("userAgent: %v", ua)
	}
	if opts.DebugPort > 0 {
		d.logger.Infof("dbg port: %d", opts.DebugPort)
	}

	return d, nil
}

func (d *Driver) watchPage(page playwright.Page) {
	page.OnDialog(func(dialog playwright.Dialog) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if len(d.alerts) >= DefaultAlertCapacity {
			// nobody is consuming dialogs; keep the page responsive
			go func() { _ = dialog.Dismiss() }()
			return
		}
		d.alerts = append(d.alerts, dialog)
	})
	page.OnDownload(func(download playwright.Download) {
		d.downloads.Add(1)
		go d.saveDownload(download)
	})
}

// saveDownload writes a finished download into the download directory.
// The file is written under a .part name first so conditions never observe
// a partial file.
func (d *Driver) saveDownload(download playwright.Download) {
	defer d.downloads.Done()

	target := filepath.Join(d.downloadDir, filepath.Base(download.SuggestedFilename()))
	part := target + partialSuffix
	if err := download.SaveAs(part); err != nil {
		d.logger.Warnf("download %s failed: %v", download.SuggestedFilename(), err)
		return
	}
	if err := os.Rename(part, target); err != nil {
		d.logger.Warnf("download %s failed: %v", download.SuggestedFilename(), err)
		return
	}
	d.logger.Infof("downloaded %s", target)
}

func (d *Driver) checkOpen() error {
	if d.closed {
		return ErrClosed
	}
	if d.page == nil {
		return fmt.Errorf("%w: no current window", ErrNoSuchWindow)
	}
	return nil
}

// Close closes the current window. The most recently opened remaining
// window becomes current.
func (d *Driver) Close() error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	if err := d.page.Close(); err != nil {
		return wrapEngineErr("close window", err)
	}
	d.page = nil
	d.frame = nil

	pages := d.openPages()
	if len(pages) > 0 {
		d.page = pages[len(pages)-1]
	}
	return nil
}

func (d *Driver) openPages() []playwright.Page {
	var pages []playwright.Page
	for _, p := range d.context.Pages() {
		if !p.IsClosed() {
			pages = append(pages, p)
		}
	}
	return pages
}

// Quit closes every window and stops the engine. Safe to call multiple
// times.
func (d *Driver) Quit() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if err := d.context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := d.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	d.downloads.Wait()
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	d.page = nil
	d.frame = nil

	if len(errs) > 0 {
		return fmt.Errorf("errors closing browser: %w", errors.Join(errs...))
	}
	return nil
}

// Get loads url in the current window.
func (d *Driver) Get(url string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if _, err := d.page.Goto(url); err != nil {
		return wrapEngineErr("navigation", err)
	}
	d.frame = nil
	return nil
}

// CurrentURL returns the URL of the current window.
func (d *Driver) CurrentURL() string {
	if d.checkOpen() != nil {
		return ""
	}
	return d.page.URL()
}

// Title returns the title of the current window.
func (d *Driver) Title() (string, error) {
	if err := d.checkOpen(); err != nil {
		return "", err
	}
	title, err := d.page.Title()
	if err != nil {
		return "", wrapEngineErr("title", err)
	}
	return title, nil
}

// Script runs a function body in the current frame and returns its result,
// e.g. Script("return document.title").
func (d *Driver) Script(body string) (interface{}, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	result, err := d.currentFrame().Evaluate("() => {" + body + "\n}")
	if err != nil {
		return nil, wrapEngineErr("script", err)
	}
	return result, nil
}

// PageDown scrolls the current frame one page down.
func (d *Driver) PageDown() error {
	return d.pressOnBody("PageDown")
}

// PageUp scrolls the current frame one page up.
func (d *Driver) PageUp() error {
	return d.pressOnBody("PageUp")
}

func (d *Driver) pressOnBody(key string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.currentFrame().Locator("body").Press(key); err != nil {
		return wrapEngineErr(key, err)
	}
	return nil
}

// SetWindowSize resizes the viewport of the current window.
func (d *Driver) SetWindowSize(width, height int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := d.page.SetViewportSize(width, height); err != nil {
		return wrapEngineErr("resize", err)
	}
	return nil
}

// SetImplicitWait sets how long element operations wait for their target.
func (d *Driver) SetImplicitWait(timeout time.Duration) {
	d.context.SetDefaultTimeout(millis(timeout))
}

// SetWaitTimeout sets the timeout of the Wait* helpers.
func (d *Driver) SetWaitTimeout(timeout time.Duration) {
	d.waitTimeout = timeout
}

// WaitTimeout returns the timeout of the Wait* helpers.
func (d *Driver) WaitTimeout() time.Duration {
	return d.waitTimeout
}

// DownloadDir returns the directory downloads are saved to.
func (d *Driver) DownloadDir() string {
	return d.downloadDir
}

// PageText returns the visible text of the current frame.
func (d *Driver) PageText() (string, error) {
	if err := d.checkOpen(); err != nil {
		return "", err
	}
	content, err := d.currentFrame().Content()
	if err != nil {
		return "", wrapEngineErr("content", err)
	}
	return extractText(content)
}

func (d *Driver) currentFrame() playwright.Frame {
	if d.frame != nil {
		return d.frame
	}
	return d.page.MainFrame()
}

// wrapEngineErr marks engine timeouts with command.ErrWaitTimeout so callers
// see one timeout error regardless of where it came from.
func wrapEngineErr(op string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", op, command.ErrWaitTimeout, err)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
