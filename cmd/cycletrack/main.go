// Package main is the entry point for the cycletrack TUI. It wires
// configuration, the record store, the history database, and the tracker
// service into the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvanderveken/cycletrack/internal/app"
	"github.com/lvanderveken/cycletrack/internal/config"
	"github.com/lvanderveken/cycletrack/internal/db"
	"github.com/lvanderveken/cycletrack/internal/logger"
	"github.com/lvanderveken/cycletrack/internal/store"
	"github.com/lvanderveken/cycletrack/internal/tracker"
	"github.com/lvanderveken/cycletrack/internal/ui/tabs/dashboard"
	"github.com/lvanderveken/cycletrack/internal/ui/tabs/history"
	"github.com/lvanderveken/cycletrack/internal/ui/tabs/info"
	"github.com/lvanderveken/cycletrack/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	if err := logger.InitFile(cfg.LogPath); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	st, err := store.New(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer st.Close()

	// History is optional; the tracker runs without it.
	var database *db.DB
	if database, err = db.New(cfg.DatabasePath); err != nil {
		logger.Warn("history database unavailable", "error", err)
		database = nil
	} else {
		defer database.Close()
		if n, err := database.PruneBefore(time.Now().AddDate(-1, 0, 0)); err != nil {
			logger.Warn("history prune failed", "error", err)
		} else if n > 0 {
			logger.Info("pruned old history", "rows", n)
		}
	}

	svc, err := tracker.New(st, database,
		tracker.WithDesktopNotifications(cfg.Notifications),
	)
	if err != nil {
		return fmt.Errorf("failed to start tracker: %w", err)
	}
	defer svc.Close()

	if err := st.Watch(); err != nil {
		logger.Warn("record file watching disabled", "error", err)
	}

	model := app.NewModel(svc, database, st, cfg.RefreshInterval)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		history.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`cycletrack - recurring usage quota tracker

Usage:
  cycletrack [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Dashboard, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  u               Update current usage
  l               Set the cycle limit
  d               Set the billing reset date (YYYY-MM-DD)
  R               Reset the cycle (usage back to 0)
  r               Refresh now
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  CYCLETRACK_STORE_PATH        Usage record JSON path
  CYCLETRACK_DATABASE_PATH     SQLite history database path
  CYCLETRACK_LOG_PATH          Log file path
  CYCLETRACK_REFRESH_INTERVAL  Recompute interval (default: 1h)
  CYCLETRACK_NOTIFICATIONS     Desktop notifications on/off (default: true)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/cycletrack/.env
  - ~/.cycletrack/.env`)
}
