package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Summary is the JSON-serializable record of a completed (or aborted) run,
// written next to the collected artifacts when the operator asks for it.
type Summary struct {
	Session    string        `json:"session"`
	Tenant     string        `json:"tenant"`
	TestPlan   string        `json:"testPlan"`
	StartTime  time.Time     `json:"startTime"`
	FinishTime time.Time     `json:"finishTime"`
	Succeeded  bool          `json:"succeeded"`
	Failure    string        `json:"failure,omitempty"`
	Steps      []SummaryStep `json:"steps"`
}

// SummaryStep is one recorded step transition.
type SummaryStep struct {
	Kind        string    `json:"kind"`
	Time        time.Time `json:"time"`
	Description string    `json:"description,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// NewSummary builds a Summary from the events recorded for a session.
func NewSummary(sessionName, tenant, testPlan string, start, finish time.Time, runErr error, events []Event) *Summary {
	s := &Summary{
		Session:    sessionName,
		Tenant:     tenant,
		TestPlan:   testPlan,
		StartTime:  start,
		FinishTime: finish,
		Succeeded:  runErr == nil,
	}
	if runErr != nil {
		s.Failure = runErr.Error()
	}

	for _, e := range events {
		step := SummaryStep{
			Kind:        e.Kind.String(),
			Time:        e.Time,
			Description: e.Description,
		}
		if e.Error != nil {
			step.Error = e.Error.Error()
		}
		s.Steps = append(s.Steps, step)
	}

	return s
}

// Write persists the summary as indented JSON at path.
func (s *Summary) Write(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal run summary: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write run summary to %v: %v", path, err)
	}

	return nil
}
