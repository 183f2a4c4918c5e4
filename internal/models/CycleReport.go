package models

import "time"

// CycleReport summarizes one reconciliation pass.
type CycleReport struct {
	Source    string        `json:"source"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Checked   int           `json:"checked"`
	Changed   int           `json:"changed"`
	Notified  int           `json:"notified"`
	Failed    int           `json:"failed"`
	Skipped   bool          `json:"skipped"`
}
