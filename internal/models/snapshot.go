// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// Snapshot is the full derived view for one point in time. The UI renders
// this directly; all numbers are computed by the cycle engine.
type Snapshot struct {
	Record UsageRecord
	Stats  CycleStats
	Status Status

	UsagePercent     float64
	Predicted        float64
	PredictedPercent float64
	DailyAverage     float64 // zero when the cycle has not started

	// RecommendedDaily is the per-day allowance for the rest of the cycle.
	// Only meaningful when DaysRemaining > 0; negative means over budget.
	RecommendedDaily float64
	// OverBudgetBy is the usage in excess of the straight-line allowance
	// for the remaining window, zero when RecommendedDaily >= 0.
	OverBudgetBy float64

	TakenAt time.Time
}

// OverBudget reports whether the remaining-window allowance is exhausted.
func (s Snapshot) OverBudget() bool {
	return s.Stats.DaysRemaining > 0 && s.RecommendedDaily < 0
}

// Title is the compact "indicator percent" line, mirroring a menu-bar title.
func (s Snapshot) Title() string {
	return fmt.Sprintf("%s %.0f%%", s.Status.Indicator(), s.UsagePercent)
}
