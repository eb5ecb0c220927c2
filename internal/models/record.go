// Package models defines data structures and domain types.
package models

import "time"

// DefaultMonthlyLimit is the limit assigned to a freshly created record.
// The unit is whatever the user tracks: requests, dollars, credits.
const DefaultMonthlyLimit = 500

// MonthFormat is the layout for the last_update_month bookkeeping field.
const MonthFormat = "2006-01"

// ResetDateFormat is the layout for the billing-cycle reset date.
const ResetDateFormat = "2006-01-02"

// UsageRecord is the single persisted record driving the tracker.
//
// An empty ResetDate means calendar-month mode: the cycle is the natural
// month of "now". A set ResetDate anchors a fixed 30-day billing cycle.
type UsageRecord struct {
	MonthlyLimit    float64
	CurrentUsage    float64
	LastUpdateMonth string
	LastUpdated     time.Time
	ResetDate       string
}

// NewRecord returns a fresh default record for first run.
func NewRecord(now time.Time) UsageRecord {
	return UsageRecord{
		MonthlyLimit:    DefaultMonthlyLimit,
		CurrentUsage:    0,
		LastUpdateMonth: now.Format(MonthFormat),
	}
}

// HasResetDate reports whether the record is in fixed 30-day cycle mode.
func (r UsageRecord) HasResetDate() bool {
	return r.ResetDate != ""
}

// ParseResetDate parses the stored reset date. The bool is false when the
// date is absent or malformed; callers fall back to calendar-month mode.
func (r UsageRecord) ParseResetDate() (time.Time, bool) {
	if r.ResetDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ResetDateFormat, r.ResetDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// UsagePercent returns current usage as a percentage of the limit.
func (r UsageRecord) UsagePercent() float64 {
	if r.MonthlyLimit <= 0 {
		return 0
	}
	return r.CurrentUsage / r.MonthlyLimit * 100
}
