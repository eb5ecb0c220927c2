package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvanderveken/cycletrack/internal/db"
	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/tracker"
)

const (
	// historyWindowDays bounds how much history the chart loads.
	historyWindowDays = 90

	// noticeDuration is how long transient footer notices stay visible.
	noticeDuration = 5 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// snapshotCmd computes the current derived view without a history row.
func snapshotCmd(svc *tracker.Service) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: svc.Snapshot()}
	}
}

// refreshCmd recomputes on the periodic tick, recording a history row.
func refreshCmd(svc *tracker.Service) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: svc.Refresh()}
	}
}

// loadHistoryCmd loads chart data. A nil database yields an empty message.
func loadHistoryCmd(database *db.DB) tea.Cmd {
	return func() tea.Msg {
		if database == nil {
			return HistoryLoadedMsg{}
		}
		points, err := database.PointsSince(time.Now().AddDate(0, 0, -historyWindowDays))
		return HistoryLoadedMsg{Points: points, Error: err}
	}
}

// updateUsageCmd runs the usage edit against the tracker.
func updateUsageCmd(svc *tracker.Service, value float64) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.UpdateUsage(value)
		return EditResultMsg{Action: EditUsage, Snapshot: snap, Error: err}
	}
}

// setLimitCmd runs the limit edit against the tracker.
func setLimitCmd(svc *tracker.Service, limit float64) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.SetLimit(limit)
		return EditResultMsg{Action: EditLimit, Snapshot: snap, Error: err}
	}
}

// setResetDateCmd runs the reset-date edit against the tracker.
func setResetDateCmd(svc *tracker.Service, date string) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.SetResetDate(date)
		return EditResultMsg{Action: EditResetDate, Snapshot: snap, Error: err}
	}
}

// resetCycleCmd zeroes usage for a manually started cycle.
func resetCycleCmd(svc *tracker.Service) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.ResetCycle()
		return EditResultMsg{Action: EditReset, Snapshot: snap, Error: err}
	}
}

// reloadCmd re-reads the record after an external file edit.
func reloadCmd(svc *tracker.Service) tea.Cmd {
	return func() tea.Msg {
		snap, err := svc.Reload()
		return ReloadedMsg{Snapshot: snap, Error: err}
	}
}

// waitForTrackerEvent blocks on the tracker event channel.
func waitForTrackerEvent(ch <-chan tracker.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return TrackerEventMsg{Event: event}
	}
}

// waitForStoreChange blocks on the store watcher channel.
func waitForStoreChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-ch
		if !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

// clearNoticeCmd removes the footer notice after noticeDuration.
func clearNoticeCmd() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}

// initialSnapshot seeds the state before the first frame renders.
func initialSnapshot(svc *tracker.Service) models.Snapshot {
	return svc.Snapshot()
}
