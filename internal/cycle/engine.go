// Package cycle implements the usage-cycle accounting and projection engine.
//
// Everything here is a pure function of (record, now): no I/O, no hidden
// state. The tracker service owns applying rollovers and persisting the
// mutated record.
package cycle

import (
	"math"
	"time"

	"github.com/lvanderveken/cycletrack/internal/models"
)

// Stats resolves the cycle window containing now and returns the position
// inside it.
//
// A parseable reset date selects the fixed 30-day cycle; otherwise the
// natural calendar month of now is used. A malformed reset date falls back
// to calendar mode for this call only and is never mutated here.
func Stats(rec models.UsageRecord, now time.Time) models.CycleStats {
	if reset, ok := rec.ParseResetDate(); ok {
		return fixedCycleStats(reset, now)
	}
	return calendarMonthStats(now)
}

func fixedCycleStats(reset, now time.Time) models.CycleStats {
	days := daysSince(reset, now)

	currentDay := days + 1
	if days < 0 {
		// Reset date in the future: the cycle has not started yet.
		currentDay = 0
	}

	remaining := models.FixedCycleDays - days
	if remaining < 0 {
		remaining = 0
	}
	if remaining > models.FixedCycleDays {
		remaining = models.FixedCycleDays
	}

	return models.CycleStats{
		Mode:          models.CycleFixedReset,
		CurrentDay:    currentDay,
		DaysInCycle:   models.FixedCycleDays,
		DaysRemaining: remaining,
		ResetDate:     reset,
		NextReset:     reset.AddDate(0, 0, models.FixedCycleDays),
	}
}

func calendarMonthStats(now time.Time) models.CycleStats {
	days := daysInMonth(now)
	return models.CycleStats{
		Mode:          models.CycleCalendarMonth,
		CurrentDay:    now.Day(),
		DaysInCycle:   days,
		DaysRemaining: days - now.Day(),
	}
}

// NeedsRollover reports whether the stored reset date no longer anchors the
// cycle containing now. Only fixed-cycle mode rolls over here; calendar
// mode rollover is the month-stamp check done by the store on load.
func NeedsRollover(rec models.UsageRecord, now time.Time) bool {
	reset, ok := rec.ParseResetDate()
	if !ok {
		return false
	}
	return daysSince(reset, now) >= models.FixedCycleDays
}

// Rollover advances the reset date by whole 30-day increments until it
// anchors the open cycle, and zeroes usage. The boundary day stays stable
// even when the tracker was not opened for several cycles.
func Rollover(rec models.UsageRecord, now time.Time) models.UsageRecord {
	reset, ok := rec.ParseResetDate()
	if !ok {
		return rec
	}
	days := daysSince(reset, now)
	if days < models.FixedCycleDays {
		return rec
	}

	cycles := days / models.FixedCycleDays
	newReset := reset.AddDate(0, 0, cycles*models.FixedCycleDays)

	rec.ResetDate = newReset.Format(models.ResetDateFormat)
	rec.CurrentUsage = 0
	rec.LastUpdated = now
	return rec
}

// Prediction linearly extrapolates end-of-cycle usage from usage so far.
// With zero elapsed days there is nothing to extrapolate and the current
// usage is returned unchanged.
func Prediction(rec models.UsageRecord, stats models.CycleStats) float64 {
	if stats.CurrentDay <= 0 {
		return rec.CurrentUsage
	}
	dailyAverage := rec.CurrentUsage / float64(stats.CurrentDay)
	return dailyAverage * float64(stats.DaysInCycle)
}

// StatusOf classifies usage against the straight-line budget: the usage the
// limit would allow at this point in the cycle if spread evenly.
//
// ratio < 0.8 is on_track, 0.8 <= ratio < 1.0 is warning, ratio >= 1.0 is
// over. Day zero has no expected usage and always reads on_track.
func StatusOf(rec models.UsageRecord, stats models.CycleStats) models.Status {
	if stats.CurrentDay == 0 {
		return models.StatusOnTrack
	}

	expected := (rec.MonthlyLimit / float64(stats.DaysInCycle)) * float64(stats.CurrentDay)

	ratio := 0.0
	if expected > 0 {
		ratio = rec.CurrentUsage / expected
	}

	switch {
	case ratio < 0.8:
		return models.StatusOnTrack
	case ratio < 1.0:
		return models.StatusWarning
	default:
		return models.StatusOver
	}
}

// RecommendedDailyRate returns the per-day allowance that would land exactly
// on the limit at cycle end. The bool is false when no days remain and the
// recommendation is meaningless. A negative rate means the user is already
// over budget for the remaining window.
func RecommendedDailyRate(rec models.UsageRecord, stats models.CycleStats) (float64, bool) {
	if stats.DaysRemaining <= 0 {
		return 0, false
	}
	return (rec.MonthlyLimit - rec.CurrentUsage) / float64(stats.DaysRemaining), true
}

// Snapshot assembles the full derived view the UI renders.
func Snapshot(rec models.UsageRecord, now time.Time) models.Snapshot {
	stats := Stats(rec, now)
	predicted := Prediction(rec, stats)

	snap := models.Snapshot{
		Record:       rec,
		Stats:        stats,
		Status:       StatusOf(rec, stats),
		UsagePercent: rec.UsagePercent(),
		Predicted:    predicted,
		TakenAt:      now,
	}

	if rec.MonthlyLimit > 0 {
		snap.PredictedPercent = predicted / rec.MonthlyLimit * 100
	}
	if stats.CurrentDay > 0 {
		snap.DailyAverage = rec.CurrentUsage / float64(stats.CurrentDay)
	}
	if rate, ok := RecommendedDailyRate(rec, stats); ok {
		snap.RecommendedDaily = rate
		if rate < 0 {
			// Excess over the straight-line allowance for the remaining
			// window, not the raw excess over the limit.
			snap.OverBudgetBy = math.Abs(rate) * float64(stats.DaysRemaining)
		}
	}

	return snap
}

// daysSince counts whole days from the start of the reset day to now,
// flooring toward minus infinity so a reset date later today still reads
// as a cycle that has not started.
func daysSince(reset, now time.Time) int {
	return int(math.Floor(now.Sub(reset).Hours() / 24))
}

// daysInMonth returns the exact number of days in now's month, leap years
// included. Day zero of the next month is the last day of this one.
func daysInMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}
