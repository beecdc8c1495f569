package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()

	assert.Equal(t, DefaultWindowWidth, opts.WindowWidth)
	assert.Equal(t, DefaultWindowHeight, opts.WindowHeight)
	assert.Equal(t, DefaultLang, opts.Lang)
	assert.Equal(t, DefaultWaitTimeout, opts.WaitTimeout)
	assert.Equal(t, DefaultImplicitWait, opts.ImplicitWait)
	assert.Equal(t, DefaultPollInterval, opts.PollInterval)
	assert.NotNil(t, opts.Logger)
	assert.False(t, opts.Visible)
}

func TestOptions_LaunchArgs(t *testing.T) {
	opts := Options{
		WindowWidth:      1280,
		WindowHeight:     720,
		Lang:             "en-US",
		DebugPort:        9222,
		IgnoreCertErrors: true,
		ExtraArgs:        []string{"--mute-audio"},
	}.withDefaults()

	args := opts.launchArgs()

	assert.Contains(t, args, "--window-size=1280,720")
	assert.Contains(t, args, "--lang=en-US")
	assert.Contains(t, args, "--remote-debugging-port=9222")
	assert.Contains(t, args, "--ignore-certificate-errors")
	assert.Contains(t, args, "--no-sandbox")
	assert.Contains(t, args, "--disable-extensions")
	assert.Contains(t, args, "--disable-dev-shm-usage")
	assert.Contains(t, args, "--disable-blink-features=AutomationControlled")
	assert.Equal(t, "--mute-audio", args[len(args)-1])
}

func TestOptions_LaunchArgsWithoutOptionalSwitches(t *testing.T) {
	args := Options{}.withDefaults().launchArgs()

	for _, arg := range args {
		assert.NotContains(t, arg, "remote-debugging-port")
		assert.NotContains(t, arg, "ignore-certificate-errors")
	}
}

func TestOptions_LaunchOptions(t *testing.T) {
	opts := Options{DownloadDir: "/tmp/dl", ExecutablePath: "/opt/chrome"}.withDefaults()
	launch := opts.launchOptions()

	require.NotNil(t, launch.Headless)
	assert.True(t, *launch.Headless)
	require.NotNil(t, launch.DownloadsPath)
	assert.Equal(t, "/tmp/dl", *launch.DownloadsPath)
	require.NotNil(t, launch.ExecutablePath)
	assert.Equal(t, "/opt/chrome", *launch.ExecutablePath)

	visible := Options{Visible: true}.withDefaults().launchOptions()
	assert.False(t, *visible.Headless)
	assert.Nil(t, visible.DownloadsPath)
}

func TestOptions_ContextOptions(t *testing.T) {
	opts := Options{UserAgent: "browsercmd-test", Lang: "en-GB", IgnoreCertErrors: true}.withDefaults()
	ctxOpts := opts.contextOptions()

	require.NotNil(t, ctxOpts.Viewport)
	assert.Equal(t, DefaultWindowWidth, ctxOpts.Viewport.Width)
	assert.Equal(t, DefaultWindowHeight, ctxOpts.Viewport.Height)
	assert.Equal(t, "en-GB", *ctxOpts.Locale)
	assert.Equal(t, "browsercmd-test", *ctxOpts.UserAgent)
	assert.True(t, *ctxOpts.AcceptDownloads)
	assert.True(t, *ctxOpts.IgnoreHttpsErrors)

	assert.Nil(t, Options{}.withDefaults().contextOptions().UserAgent)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 1500.0, millis(1500*time.Millisecond))
	assert.Equal(t, 10000.0, millis(10*time.Second))
}
