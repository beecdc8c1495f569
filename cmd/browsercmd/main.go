// Package main provides browsercmd, a runner for YAML browser scripts.
// Every step performs an action and waits for a condition, retrying both a
// bounded number of times.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/browsercmd/pkg/browser"
	"github.com/entrhq/browsercmd/pkg/config"
	"github.com/entrhq/browsercmd/pkg/logging"
	"github.com/entrhq/browsercmd/pkg/script"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	ScriptFile  string
	Visible     bool
	Retries     int
	OutputDir   string
	Verbosity   string
	Timeout     time.Duration
	ShowVersion bool
}

func main() {
	// Parse command line flags
	cliConfig := parseFlags()

	// Show version if requested
	if cliConfig.ShowVersion {
		fmt.Printf("browsercmd v%s\n", version)
		return
	}

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		log.Printf("Run failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cliConfig.ScriptFile, "script", "", "Path to the script to run (YAML)")
	flag.BoolVar(&cliConfig.Visible, "visible", false, "Show the browser window")
	flag.IntVar(&cliConfig.Retries, "retries", -1, "Default retries per step (overrides config)")
	flag.StringVar(&cliConfig.OutputDir, "output", "", "Artifact output directory (overrides config)")
	flag.StringVar(&cliConfig.Verbosity, "verbosity", "", "Logging verbosity: quiet, normal, verbose or debug")
	flag.DurationVar(&cliConfig.Timeout, "timeout", 0, "Overall run timeout (0 for none)")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "browsercmd - Retrying browser script runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: browsercmd [options] [script.yaml]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Run a script headless\n")
		fmt.Fprintf(os.Stderr, "  browsercmd -script login.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # Watch the browser and retry harder\n")
		fmt.Fprintf(os.Stderr, "  browsercmd -visible -retries 5 login.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # Use a config file\n")
		fmt.Fprintf(os.Stderr, "  browsercmd -config browsercmd.yaml -script login.yaml\n\n")
	}

	flag.Parse()

	if cliConfig.ScriptFile == "" && flag.NArg() > 0 {
		cliConfig.ScriptFile = flag.Arg(0)
	}
	return cliConfig
}

// run loads the configuration and script, starts the browser and runs the
// script. Artifacts are written even when the script fails.
func run(ctx context.Context, cliConfig *CLIConfig) error {
	cfg, err := loadConfig(cliConfig)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return fmt.Errorf("invalid configuration: %w", validationErr)
	}

	if cliConfig.ScriptFile == "" {
		return fmt.Errorf("a script is required (-script or first argument)")
	}
	s, err := script.Load(cliConfig.ScriptFile)
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	driver, err := browser.New(cfg.BrowserOptions(logger))
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if quitErr := driver.Quit(); quitErr != nil {
			logger.Warnf("failed to close browser: %v", quitErr)
		}
	}()

	// Apply timeout if specified
	if cliConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliConfig.Timeout)
		defer cancel()
	}

	logger.Infof("Starting script %s (%d steps)", cliConfig.ScriptFile, len(s.Steps))
	logger.Infof("Downloads: %s", driver.DownloadDir())

	runner := script.NewRunner(driver, cfg.RunnerOptions(logger))
	summary, runErr := runner.Run(ctx, s)

	if cfg.Artifacts.Enabled {
		writer := script.NewArtifactWriter(cfg.Artifacts.OutputDir).
			WithFormats(cfg.Artifacts.JSON, cfg.Artifacts.Markdown)
		if writeErr := writer.WriteAll(summary); writeErr != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to write artifacts: %w", writeErr))
		} else {
			logger.Infof("Artifacts written to %s", cfg.Artifacts.OutputDir)
		}
	}

	if runErr != nil {
		return fmt.Errorf("script failed: %w", runErr)
	}

	logger.Infof("Script completed successfully in %s", summary.Duration.Round(time.Millisecond))
	return nil
}

// loadConfig loads the configuration file, if any, and applies CLI
// overrides.
func loadConfig(cliConfig *CLIConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cliConfig.ConfigFile != "" {
		loaded, err := config.Load(cliConfig.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cliConfig.Visible {
		cfg.Browser.Visible = true
	}
	if cliConfig.Retries >= 0 {
		cfg.Retry.Retries = cliConfig.Retries
	}
	if cliConfig.OutputDir != "" {
		cfg.Artifacts.Enabled = true
		cfg.Artifacts.OutputDir = cliConfig.OutputDir
	}
	if cliConfig.Verbosity != "" {
		cfg.Logging.Verbosity = cliConfig.Verbosity
	}

	return cfg, nil
}

// newLogger creates the run logger. Entries go to the session log file and
// are echoed to stderr.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Verbosity)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger("browsercmd")
	if err == nil {
		// the stderr fallback already writes to the terminal
		logger.SetEcho(os.Stderr)
	}
	logger.SetLevel(level)

	if path := logger.LogPath(); path != "" {
		logger.Debugf("Log file: %s", path)
	}
	return logger, nil
}
