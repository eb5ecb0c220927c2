// Package app implements the main Bubble Tea application with tab-based
// navigation over the tracker.
package app

import (
	"sync"
	"time"

	"github.com/lvanderveken/cycletrack/internal/models"
)

// State is the shared application state tabs read from. The Bubble Tea
// loop is the only writer; the mutex covers reads from render helpers.
type State struct {
	mu sync.RWMutex

	snapshot    models.Snapshot
	history     []models.UsagePoint
	lastRefresh time.Time
}

// NewState returns an empty shared state.
func NewState() *State {
	return &State{}
}

// SetSnapshot stores the latest derived view.
func (s *State) SetSnapshot(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.lastRefresh = time.Now()
}

// Snapshot returns the latest derived view.
func (s *State) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetHistory stores the loaded history points, oldest first.
func (s *State) SetHistory(points []models.UsagePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = points
}

// History returns the loaded history points.
func (s *State) History() []models.UsagePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}

// LastRefresh returns when the snapshot was last replaced.
func (s *State) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}
