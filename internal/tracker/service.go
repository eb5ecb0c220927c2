// Package tracker owns the in-memory usage record and exposes the mutating
// entry points the UI calls. All reads and writes go through one mutex:
// read-modify-write, save before the next read.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/lvanderveken/cycletrack/internal/cycle"
	"github.com/lvanderveken/cycletrack/internal/db"
	"github.com/lvanderveken/cycletrack/internal/logger"
	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/store"
)

// Validation errors. The record is untouched and nothing is written when
// one of these is returned.
var (
	ErrNegativeUsage    = errors.New("usage cannot be negative")
	ErrNonPositiveLimit = errors.New("limit must be greater than zero")
	ErrInvalidResetDate = errors.New("reset date must use YYYY-MM-DD format")
)

type (
	// RecordChangedEvent is emitted after any successful mutation or reload.
	RecordChangedEvent struct {
		Snapshot models.Snapshot
		Source   models.PointSource
	}

	// StatusChangedEvent is emitted when the tri-state status moves.
	StatusChangedEvent struct {
		From models.Status
		To   models.Status
	}

	// RolloverEvent is emitted when a fixed cycle rolls into a new window.
	RolloverEvent struct {
		NewResetDate string
	}
)

// Event is the interface implemented by all tracker events.
type Event interface{ isTrackerEvent() }

func (RecordChangedEvent) isTrackerEvent() {}
func (StatusChangedEvent) isTrackerEvent() {}
func (RolloverEvent) isTrackerEvent()      {}

// Option configures a Service.
type Option func(*Service)

// WithClock substitutes the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithDesktopNotifications toggles beeep notifications.
func WithDesktopNotifications(enabled bool) Option {
	return func(s *Service) { s.desktopNotify = enabled }
}

// Service is the single-writer owner of the usage record.
type Service struct {
	mu            sync.Mutex
	store         *store.Store
	history       *db.DB // optional; nil disables history rows
	record        models.UsageRecord
	status        models.Status
	clock         func() time.Time
	eventChan     chan Event
	desktopNotify bool
}

// New loads the record through the store and returns a ready service.
func New(st *store.Store, history *db.DB, opts ...Option) (*Service, error) {
	s := &Service{
		store:     st,
		history:   history,
		clock:     time.Now,
		eventChan: make(chan Event, 100),
	}
	for _, opt := range opts {
		opt(s)
	}

	now := s.clock()
	rec, err := s.store.Load(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage record: %w", err)
	}
	s.record = rec
	s.applyRolloverLocked(now)
	s.status = cycle.StatusOf(s.record, cycle.Stats(s.record, now))

	return s, nil
}

// Events returns the event channel for subscribing to record changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Snapshot returns the full derived view, applying any pending rollover
// first so the window always contains now.
func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.applyRolloverLocked(now)
	return cycle.Snapshot(s.record, now)
}

// Refresh recomputes the snapshot on the periodic tick, records a history
// row and reports status transitions.
func (s *Service) Refresh() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.applyRolloverLocked(now)
	snap := cycle.Snapshot(s.record, now)
	s.recordHistoryLocked(snap, models.SourceRefresh)
	s.updateStatusLocked(snap)
	return snap
}

// UpdateUsage sets the cumulative usage reading for this cycle.
func (s *Service) UpdateUsage(value float64) (models.Snapshot, error) {
	if value < 0 {
		return models.Snapshot{}, ErrNegativeUsage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.applyRolloverLocked(now)

	prev := s.record
	s.record.CurrentUsage = value
	s.record.LastUpdated = now
	s.record.LastUpdateMonth = now.Format(models.MonthFormat)

	if err := s.saveLocked(prev); err != nil {
		return models.Snapshot{}, err
	}

	snap := s.commitLocked(now, models.SourceEdit)
	s.notify("Usage updated", fmt.Sprintf("Current usage: %.1f", value))
	return snap, nil
}

// SetLimit changes the quota ceiling for the cycle.
func (s *Service) SetLimit(limit float64) (models.Snapshot, error) {
	if limit <= 0 {
		return models.Snapshot{}, ErrNonPositiveLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.applyRolloverLocked(now)

	prev := s.record
	s.record.MonthlyLimit = limit

	if err := s.saveLocked(prev); err != nil {
		return models.Snapshot{}, err
	}

	snap := s.commitLocked(now, models.SourceEdit)
	s.notify("Limit updated", fmt.Sprintf("Monthly limit: %.1f", limit))
	return snap, nil
}

// SetResetDate switches the record to fixed 30-day cycle mode anchored at
// the given date.
func (s *Service) SetResetDate(date string) (models.Snapshot, error) {
	if _, err := time.Parse(models.ResetDateFormat, date); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidResetDate, date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	prev := s.record
	s.record.ResetDate = date
	s.applyRolloverLocked(now)

	if err := s.saveLocked(prev); err != nil {
		return models.Snapshot{}, err
	}

	snap := s.commitLocked(now, models.SourceEdit)
	s.notify("Reset date set", "Billing cycle resets: "+s.record.ResetDate)
	return snap, nil
}

// ResetCycle zeroes usage for a manually started cycle.
func (s *Service) ResetCycle() (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	prev := s.record
	s.record.CurrentUsage = 0
	s.record.LastUpdateMonth = now.Format(models.MonthFormat)
	s.record.LastUpdated = now

	if err := s.saveLocked(prev); err != nil {
		return models.Snapshot{}, err
	}

	snap := s.commitLocked(now, models.SourceReset)
	s.notify("Cycle reset", "Usage reset to 0")
	return snap, nil
}

// Reload re-reads the record from disk after an external edit.
func (s *Service) Reload() (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	rec, err := s.store.Load(now)
	if err != nil {
		return models.Snapshot{}, err
	}
	s.record = rec
	s.applyRolloverLocked(now)

	snap := cycle.Snapshot(s.record, now)
	s.updateStatusLocked(snap)
	s.sendEvent(RecordChangedEvent{Snapshot: snap, Source: models.SourceRefresh})
	return snap, nil
}

// Close releases the event channel.
func (s *Service) Close() {
	close(s.eventChan)
}

// applyRolloverLocked advances an expired fixed cycle and persists the
// result. Below 30 days this is a no-op.
func (s *Service) applyRolloverLocked(now time.Time) {
	if !cycle.NeedsRollover(s.record, now) {
		return
	}

	s.record = cycle.Rollover(s.record, now)
	if err := s.store.Save(s.record); err != nil {
		// Keep the rolled-over record in memory; the next successful save
		// will persist it.
		logger.Error("failed to persist rollover", "error", err)
	}

	snap := cycle.Snapshot(s.record, now)
	s.recordHistoryLocked(snap, models.SourceRollover)
	s.sendEvent(RolloverEvent{NewResetDate: s.record.ResetDate})
	s.notify("New billing cycle", "Usage reset, cycle now starts "+s.record.ResetDate)
}

// saveLocked persists the current record, restoring prev on write failure
// so a failed edit is indistinguishable from no edit.
func (s *Service) saveLocked(prev models.UsageRecord) error {
	if err := s.store.Save(s.record); err != nil {
		s.record = prev
		return fmt.Errorf("failed to save usage record: %w", err)
	}
	return nil
}

// commitLocked finishes a successful mutation: history row, status update,
// change event.
func (s *Service) commitLocked(now time.Time, source models.PointSource) models.Snapshot {
	snap := cycle.Snapshot(s.record, now)
	s.recordHistoryLocked(snap, source)
	s.updateStatusLocked(snap)
	s.sendEvent(RecordChangedEvent{Snapshot: snap, Source: source})
	return snap
}

func (s *Service) recordHistoryLocked(snap models.Snapshot, source models.PointSource) {
	if s.history == nil {
		return
	}
	err := s.history.InsertUsagePoint(models.UsagePoint{
		Timestamp:     snap.TakenAt,
		Usage:         snap.Record.CurrentUsage,
		Limit:         snap.Record.MonthlyLimit,
		Predicted:     snap.Predicted,
		Status:        snap.Status,
		CycleDay:      snap.Stats.CurrentDay,
		DaysRemaining: snap.Stats.DaysRemaining,
		Source:        source,
	})
	if err != nil {
		logger.Error("failed to record history point", "error", err)
	}
}

func (s *Service) updateStatusLocked(snap models.Snapshot) {
	if snap.Status == s.status {
		return
	}
	from := s.status
	s.status = snap.Status
	s.sendEvent(StatusChangedEvent{From: from, To: snap.Status})

	if snap.Status.Severity() > from.Severity() {
		s.notify(
			fmt.Sprintf("Usage %s", snap.Status),
			fmt.Sprintf("%.1f of %.1f used, projected %.1f",
				snap.Record.CurrentUsage, snap.Record.MonthlyLimit, snap.Predicted),
		)
	}
}

func (s *Service) notify(title, body string) {
	if !s.desktopNotify {
		return
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
	}
}
