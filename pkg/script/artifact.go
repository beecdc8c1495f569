package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing run artifacts
type ArtifactWriter struct {
	outputDir string
	json      bool
	markdown  bool
}

// NewArtifactWriter creates a writer producing run.json and summary.md in
// outputDir.
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
		json:      true,
		markdown:  true,
	}
}

// WithFormats selects which files WriteAll produces.
func (w *ArtifactWriter) WithFormats(writeJSON, writeMarkdown bool) *ArtifactWriter {
	w.json = writeJSON
	w.markdown = writeMarkdown
	return w
}

// WriteAll writes all configured artifact formats
func (w *ArtifactWriter) WriteAll(summary *Summary) error {
	// Ensure output directory exists
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.json {
		if err := w.WriteRunJSON(summary); err != nil {
			return fmt.Errorf("failed to write run JSON: %w", err)
		}
	}

	if w.markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return fmt.Errorf("failed to write summary markdown: %w", err)
		}
	}

	return nil
}

// WriteRunJSON writes the full run summary as JSON
func (w *ArtifactWriter) WriteRunJSON(summary *Summary) error {
	path := filepath.Join(w.outputDir, "run.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write run JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *Summary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	// Header
	md.WriteString("# browsercmd Run Summary\n\n")
	if summary.Script != "" {
		md.WriteString(fmt.Sprintf("**Script:** %s\n\n", summary.Script))
	}
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))

	// Result
	md.WriteString("## Result\n\n")
	if summary.Error != "" {
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
	} else {
		md.WriteString("✅ **Success**\n\n")
	}

	// Steps
	if len(summary.Steps) > 0 {
		md.WriteString("## Steps\n\n")
		md.WriteString("| # | Step | Status | Attempts | Duration |\n")
		md.WriteString("|---|---|---|---|---|\n")
		for _, step := range summary.Steps {
			md.WriteString(fmt.Sprintf("| %d | %s | %s %s | %d | %s |\n",
				step.Index, escapeCell(step.Name), statusIcon(step.Status), step.Status,
				step.Attempts, step.Duration.Round(time.Millisecond)))
		}
		md.WriteString("\n")

		for _, step := range summary.Steps {
			if step.Error != "" {
				md.WriteString(fmt.Sprintf("- Step %d error: %s\n", step.Index, step.Error))
			}
		}
		md.WriteString("\n")
	}

	// Metrics
	md.WriteString("## Metrics\n\n")
	md.WriteString(fmt.Sprintf("- **Steps:** %d\n", summary.Metrics.StepsTotal))
	md.WriteString(fmt.Sprintf("- **Passed:** %d\n", summary.Metrics.StepsPassed))
	md.WriteString(fmt.Sprintf("- **Failed:** %d\n", summary.Metrics.StepsFailed))
	md.WriteString(fmt.Sprintf("- **Skipped:** %d\n", summary.Metrics.StepsSkipped))
	md.WriteString(fmt.Sprintf("- **Attempts:** %d\n", summary.Metrics.Attempts))
	md.WriteString(fmt.Sprintf("- **Retries:** %d\n", summary.Metrics.Retries))

	// Write file
	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

func statusIcon(status string) string {
	switch status {
	case StatusPassed:
		return "✅"
	case StatusFailed:
		return "❌"
	default:
		return "⏭️"
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
