package app

import (
	"testing"

	"github.com/lvanderveken/cycletrack/internal/tracker"
)

func TestLoadHistoryCmd_NilDatabase(t *testing.T) {
	msg := loadHistoryCmd(nil)()
	loaded, ok := msg.(HistoryLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want HistoryLoadedMsg", msg)
	}
	if loaded.Error != nil || loaded.Points != nil {
		t.Error("nil database should yield an empty message")
	}
}

func TestWaitForTrackerEvent(t *testing.T) {
	ch := make(chan tracker.Event, 1)
	ch <- tracker.RolloverEvent{NewResetDate: "2025-07-01"}

	msg := waitForTrackerEvent(ch)()
	wrapped, ok := msg.(TrackerEventMsg)
	if !ok {
		t.Fatalf("got %T, want TrackerEventMsg", msg)
	}
	if _, ok := wrapped.Event.(tracker.RolloverEvent); !ok {
		t.Errorf("wrapped event = %T, want RolloverEvent", wrapped.Event)
	}
}

func TestWaitForTrackerEvent_ClosedChannel(t *testing.T) {
	ch := make(chan tracker.Event)
	close(ch)

	if msg := waitForTrackerEvent(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %T", msg)
	}
}

func TestWaitForStoreChange(t *testing.T) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}

	msg := waitForStoreChange(ch)()
	if _, ok := msg.(StoreChangedMsg); !ok {
		t.Fatalf("got %T, want StoreChangedMsg", msg)
	}
}
