package script

import "time"

// Run statuses
const (
	RunSucceeded = "success"
	RunFailed    = "failed"
)

// Summary contains a complete summary of a script run
type Summary struct {
	Script    string        `json:"script"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Steps     []StepResult  `json:"steps"`
	Metrics   RunMetrics    `json:"metrics"`
}

// StepResult is the outcome of one step
type StepResult struct {
	Index     int           `json:"index"`
	Name      string        `json:"name"`
	Action    string        `json:"action,omitempty"`
	Condition string        `json:"condition"`
	Status    string        `json:"status"`
	Attempts  int           `json:"attempts"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// RunMetrics contains run metrics
type RunMetrics struct {
	StepsTotal   int `json:"steps_total"`
	StepsPassed  int `json:"steps_passed"`
	StepsFailed  int `json:"steps_failed"`
	StepsSkipped int `json:"steps_skipped"`
	Attempts     int `json:"attempts"`
	Retries      int `json:"retries"`
}

func (s *Summary) finish(err error) {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)

	s.Status = RunSucceeded
	if err != nil {
		s.Status = RunFailed
		s.Error = err.Error()
	}

	s.Metrics = RunMetrics{StepsTotal: len(s.Steps)}
	for _, step := range s.Steps {
		switch step.Status {
		case StatusPassed:
			s.Metrics.StepsPassed++
		case StatusFailed:
			s.Metrics.StepsFailed++
		case StatusSkipped:
			s.Metrics.StepsSkipped++
		}
		s.Metrics.Attempts += step.Attempts
		if step.Attempts > 1 {
			s.Metrics.Retries += step.Attempts - 1
		}
	}
}
