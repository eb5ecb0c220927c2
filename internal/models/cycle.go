// Package models defines data structures and domain types.
package models

import "time"

// FixedCycleDays is the length of a billing cycle anchored at a reset date.
// Billing providers use a flat 30 days here regardless of calendar month
// length, so the tracker does too.
const FixedCycleDays = 30

// CycleMode identifies how the current cycle window was resolved.
type CycleMode int

const (
	// CycleCalendarMonth means the cycle is the natural month containing now.
	CycleCalendarMonth CycleMode = iota
	// CycleFixedReset means a 30-day window anchored at the stored reset date.
	CycleFixedReset
)

// String returns the display name for a cycle mode.
func (m CycleMode) String() string {
	switch m {
	case CycleFixedReset:
		return "30-day cycle"
	case CycleCalendarMonth:
		return "calendar month"
	default:
		return "unknown"
	}
}

// CycleStats describes the position of "now" inside the active cycle.
type CycleStats struct {
	Mode          CycleMode
	CurrentDay    int // 1-based day of cycle; 0 when the cycle has not started
	DaysInCycle   int
	DaysRemaining int
	ResetDate     time.Time // zero in calendar-month mode
	NextReset     time.Time // zero in calendar-month mode
}

// Status classifies usage against the straight-line budget for this
// point in the cycle.
type Status string

const (
	StatusOnTrack Status = "on_track"
	StatusWarning Status = "warning"
	StatusOver    Status = "over"
)

// Indicator returns the three-valued semaphore shown next to the title.
func (s Status) Indicator() string {
	switch s {
	case StatusWarning:
		return "🟡"
	case StatusOver:
		return "🔴"
	default:
		return "🟢"
	}
}

// Severity orders statuses for degradation checks; higher is worse.
func (s Status) Severity() int {
	switch s {
	case StatusOver:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}
