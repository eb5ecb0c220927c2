// Package models defines data structures and domain types.
package models

import "time"

// PointSource says what caused a history row to be written.
type PointSource string

const (
	SourceEdit     PointSource = "edit"     // user updated usage or settings
	SourceRefresh  PointSource = "refresh"  // periodic tick recompute
	SourceRollover PointSource = "rollover" // automatic cycle advancement
	SourceReset    PointSource = "reset"    // explicit user reset
)

// UsagePoint is one persisted history row (DB model).
type UsagePoint struct {
	ID            int64
	Timestamp     time.Time
	Usage         float64
	Limit         float64
	Predicted     float64
	Status        Status
	CycleDay      int
	DaysRemaining int
	Source        PointSource
}
