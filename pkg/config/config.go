// Package config holds the browsercmd run configuration. It is loaded from a
// YAML file on top of DefaultConfig and then overridden by CLI flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/entrhq/browsercmd/pkg/browser"
	"github.com/entrhq/browsercmd/pkg/command"
	"github.com/entrhq/browsercmd/pkg/logging"
	"github.com/entrhq/browsercmd/pkg/script"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration for a browsercmd run
type Config struct {
	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Default retry behavior for script steps
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`

	// ConfigFilePath is the file the config was loaded from, if any
	ConfigFilePath string `yaml:"-" json:"-"`
}

// BrowserConfig defines how chromium is launched
type BrowserConfig struct {
	Visible          bool     `yaml:"visible" json:"visible"`
	WindowWidth      int      `yaml:"window_width" json:"window_width"`
	WindowHeight     int      `yaml:"window_height" json:"window_height"`
	Lang             string   `yaml:"lang" json:"lang"`
	DownloadDir      string   `yaml:"download_dir" json:"download_dir"`
	DebugPort        int      `yaml:"debug_port" json:"debug_port"`
	UserAgent        string   `yaml:"user_agent" json:"user_agent"`
	IgnoreCertErrors bool     `yaml:"ignore_cert_errors" json:"ignore_cert_errors"`
	ExtraArgs        []string `yaml:"extra_args" json:"extra_args"`
	ExecutablePath   string   `yaml:"executable_path" json:"executable_path"`
	SkipInstall      bool     `yaml:"skip_install" json:"skip_install"`

	// WaitTimeout bounds the element and alert waits
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
	// ImplicitWait bounds every engine operation
	ImplicitWait time.Duration `yaml:"implicit_wait" json:"implicit_wait"`
}

// RetryConfig defines the retry budget of script steps
type RetryConfig struct {
	Retries      int           `yaml:"retries" json:"retries"`
	WaitTimeout  time.Duration `yaml:"wait_timeout" json:"wait_timeout"` // per attempt
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Individual format flags
	JSON     bool `yaml:"json" json:"json"`
	Markdown bool `yaml:"markdown" json:"markdown"`
}

// DefaultConfig returns a default configuration suitable for most use cases
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			WindowWidth:  browser.DefaultWindowWidth,
			WindowHeight: browser.DefaultWindowHeight,
			Lang:         browser.DefaultLang,
			WaitTimeout:  browser.DefaultWaitTimeout,
			ImplicitWait: browser.DefaultImplicitWait,
		},
		Retry: RetryConfig{
			Retries:      3,
			WaitTimeout:  command.DefaultWaitTimeout,
			PollInterval: command.DefaultPollInterval,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".browsercmd/artifacts",
			JSON:      true,
			Markdown:  true,
		},
	}
}

// Load reads a YAML file over DefaultConfig. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = path
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size: %dx%d", c.Browser.WindowWidth, c.Browser.WindowHeight)
	}

	if c.Browser.DebugPort < 0 || c.Browser.DebugPort > 65535 {
		return fmt.Errorf("invalid debug_port: %d", c.Browser.DebugPort)
	}

	if c.Browser.WaitTimeout < 0 {
		return fmt.Errorf("browser wait_timeout cannot be negative")
	}

	if c.Browser.ImplicitWait < 0 {
		return fmt.Errorf("implicit_wait cannot be negative")
	}

	if c.Retry.Retries < 0 {
		return fmt.Errorf("retries cannot be negative")
	}

	if c.Retry.WaitTimeout < 0 {
		return fmt.Errorf("retry wait_timeout cannot be negative")
	}

	if c.Retry.PollInterval < 0 {
		return fmt.Errorf("poll_interval cannot be negative")
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts require an output_dir")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	if _, err := logging.ParseLevel(c.Logging.Verbosity); err != nil {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// BrowserOptions converts the browser section into driver options.
func (c *Config) BrowserOptions(logger browser.Logger) browser.Options {
	b := c.Browser
	return browser.Options{
		DownloadDir:      b.DownloadDir,
		Visible:          b.Visible,
		WindowWidth:      b.WindowWidth,
		WindowHeight:     b.WindowHeight,
		Lang:             b.Lang,
		DebugPort:        b.DebugPort,
		UserAgent:        b.UserAgent,
		IgnoreCertErrors: b.IgnoreCertErrors,
		ExtraArgs:        b.ExtraArgs,
		ExecutablePath:   b.ExecutablePath,
		WaitTimeout:      b.WaitTimeout,
		ImplicitWait:     b.ImplicitWait,
		PollInterval:     c.Retry.PollInterval,
		SkipInstall:      b.SkipInstall,
		Logger:           logger,
	}
}

// RunnerOptions converts the retry section into script runner options.
func (c *Config) RunnerOptions(logger command.Logger) script.Options {
	return script.Options{
		Retries:      c.Retry.Retries,
		WaitTimeout:  c.Retry.WaitTimeout,
		PollInterval: c.Retry.PollInterval,
		Logger:       logger,
	}
}
