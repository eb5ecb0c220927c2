package app

import (
	"time"

	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/tracker"
)

// TickMsg is sent on the periodic refresh interval.
type TickMsg struct {
	Time time.Time
}

// SnapshotMsg carries a freshly computed derived view.
type SnapshotMsg struct {
	Snapshot models.Snapshot
}

// HistoryLoadedMsg carries loaded history points, oldest first.
type HistoryLoadedMsg struct {
	Points []models.UsagePoint
	Error  error
}

// EditAction identifies which mutating entry point an edit targets.
type EditAction int

const (
	EditUsage EditAction = iota
	EditLimit
	EditResetDate
	EditReset
)

// String returns the display name for an edit action.
func (a EditAction) String() string {
	switch a {
	case EditUsage:
		return "usage"
	case EditLimit:
		return "limit"
	case EditResetDate:
		return "reset date"
	case EditReset:
		return "cycle reset"
	default:
		return "unknown"
	}
}

// EditResultMsg carries the outcome of a mutating entry point.
type EditResultMsg struct {
	Action   EditAction
	Snapshot models.Snapshot
	Error    error
}

// TrackerEventMsg wraps an event from the tracker service.
type TrackerEventMsg struct {
	Event tracker.Event
}

// StoreChangedMsg signals an external edit to the record file.
type StoreChangedMsg struct{}

// ReloadedMsg carries the snapshot after re-reading an externally
// edited record.
type ReloadedMsg struct {
	Snapshot models.Snapshot
	Error    error
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ClearNoticeMsg removes the transient footer notice.
type ClearNoticeMsg struct{}
