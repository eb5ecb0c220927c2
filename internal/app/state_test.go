package app

import (
	"testing"
	"time"

	"github.com/lvanderveken/cycletrack/internal/models"
)

func TestState_SnapshotRoundTrip(t *testing.T) {
	s := NewState()

	snap := models.Snapshot{
		Record:       models.UsageRecord{MonthlyLimit: 500, CurrentUsage: 42},
		UsagePercent: 8.4,
	}
	s.SetSnapshot(snap)

	got := s.Snapshot()
	if got.Record.CurrentUsage != 42 {
		t.Errorf("usage = %v, want 42", got.Record.CurrentUsage)
	}
	if s.LastRefresh().IsZero() {
		t.Error("LastRefresh should be stamped by SetSnapshot")
	}
}

func TestState_History(t *testing.T) {
	s := NewState()
	if s.History() != nil {
		t.Error("history should start empty")
	}

	points := []models.UsagePoint{
		{Timestamp: time.Now(), Usage: 10},
		{Timestamp: time.Now(), Usage: 20},
	}
	s.SetHistory(points)

	if len(s.History()) != 2 {
		t.Errorf("history len = %d, want 2", len(s.History()))
	}
}
