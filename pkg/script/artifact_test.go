package script

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *Summary {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := &Summary{
		Script:    "checkout",
		StartTime: start,
		Steps: []StepResult{
			{Index: 1, Name: "open cart", Action: ActionNavigate, Condition: WaitTitle, Status: StatusPassed, Attempts: 1, Duration: 1200 * time.Millisecond},
			{Index: 2, Name: "pay | confirm", Action: ActionClick, Condition: WaitAlert, Status: StatusFailed, Attempts: 4, Error: "timed out"},
			{Index: 3, Name: "receipt", Action: ActionNone, Condition: WaitPDF, Status: StatusSkipped},
		},
	}
	s.finish(errors.New("step 2 (pay | confirm): timed out"))
	s.EndTime = start.Add(15 * time.Second)
	s.Duration = 15 * time.Second
	return s
}

func TestArtifactWriter_WriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	summary := sampleSummary()

	require.NoError(t, NewArtifactWriter(dir).WriteAll(summary))

	data, err := os.ReadFile(filepath.Join(dir, "run.json"))
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "checkout", decoded.Script)
	assert.Equal(t, RunFailed, decoded.Status)
	assert.Len(t, decoded.Steps, 3)
	assert.Equal(t, summary.Metrics, decoded.Metrics)

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	text := string(md)

	assert.Contains(t, text, "# browsercmd Run Summary")
	assert.Contains(t, text, "**Script:** checkout")
	assert.Contains(t, text, "❌ **Error:** step 2")
	assert.Contains(t, text, "| 1 | open cart | ✅ passed | 1 | 1.2s |")
	assert.Contains(t, text, `pay \| confirm`)
	assert.Contains(t, text, "- Step 2 error: timed out")
	assert.Contains(t, text, "- **Retries:** 3")
	assert.Contains(t, text, "- **Skipped:** 1")
}

func TestArtifactWriter_Formats(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewArtifactWriter(dir).WithFormats(false, true).WriteAll(sampleSummary()))

	_, err := os.Stat(filepath.Join(dir, "run.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "summary.md"))
	assert.NoError(t, err)
}

func TestArtifactWriter_Success(t *testing.T) {
	dir := t.TempDir()
	summary := &Summary{StartTime: time.Now()}
	summary.finish(nil)

	require.NoError(t, NewArtifactWriter(dir).WriteSummaryMarkdown(summary))

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "✅ **Success**")
	assert.NotContains(t, string(md), "## Steps")
}
