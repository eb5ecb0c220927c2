// Package store persists the usage record to a JSON file with legacy-schema
// migration and file watching for external edits.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lvanderveken/cycletrack/internal/logger"
	"github.com/lvanderveken/cycletrack/internal/models"
)

// recordFile is the on-disk shape. Pointer fields distinguish an absent key
// from a zero value, which is what legacy-shape detection hangs on.
type recordFile struct {
	MonthlyLimit    *float64 `json:"monthly_limit"`
	CurrentUsage    *float64 `json:"current_usage"`
	LastUpdateMonth *string  `json:"last_update_month"`
	LastUpdated     *string  `json:"last_updated"`
	ResetDate       *string  `json:"reset_date"`

	// Legacy percentage-only schema stored a 0-100 reading here instead of
	// current_usage. Carried over as the usage value during migration.
	CurrentPercentage *float64 `json:"current_percentage,omitempty"`
}

// Store reads and writes the single usage record file.
type Store struct {
	mu            sync.Mutex
	path          string
	watcher       *fsnotify.Watcher
	changes       chan struct{}
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a store for the given file path, creating the parent
// directory if needed. The file itself is created lazily on first save.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &Store{
		path:     path,
		changes:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}, nil
}

// Path returns the record file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record, recovering to defaults on any malformed input and
// migrating legacy shapes in place.
//
// Two on-read repairs happen here and are persisted immediately:
//   - legacy shape (current_usage key absent): backfill defaults, carrying
//     a legacy percentage reading into usage and keeping reset_date
//   - calendar-month rollover: a record last touched in an earlier month
//     starts the new month at zero usage
func (s *Store) Load(now time.Time) (models.UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("unreadable record file, starting fresh", "path", s.path, "error", err)
		}
		rec := models.NewRecord(now)
		if err := s.saveLocked(rec); err != nil {
			return rec, err
		}
		return rec, nil
	}

	var file recordFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Warn("corrupt record file, starting fresh", "path", s.path, "error", err)
		rec := models.NewRecord(now)
		if err := s.saveLocked(rec); err != nil {
			return rec, err
		}
		return rec, nil
	}

	rec, migrated := decode(file, now)

	dirty := migrated
	if month := now.Format(models.MonthFormat); rec.LastUpdateMonth != month {
		// New calendar month: reset usage, keep the limit. Only applies in
		// calendar-month mode; a fixed reset date owns its own rollover.
		if !rec.HasResetDate() {
			rec.CurrentUsage = 0
		}
		rec.LastUpdateMonth = month
		dirty = true
	}

	if dirty {
		if err := s.saveLocked(rec); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// decode maps the on-disk shape to a record, backfilling anything the file
// is missing. The second return reports whether a rewrite is needed.
func decode(file recordFile, now time.Time) (models.UsageRecord, bool) {
	rec := models.UsageRecord{}
	migrated := false

	if file.MonthlyLimit != nil {
		rec.MonthlyLimit = *file.MonthlyLimit
	} else {
		rec.MonthlyLimit = models.DefaultMonthlyLimit
		migrated = true
	}

	switch {
	case file.CurrentUsage != nil:
		rec.CurrentUsage = *file.CurrentUsage
	case file.CurrentPercentage != nil:
		rec.CurrentUsage = *file.CurrentPercentage
		migrated = true
	default:
		rec.CurrentUsage = 0
		migrated = true
	}
	if rec.CurrentUsage < 0 {
		rec.CurrentUsage = 0
		migrated = true
	}

	if file.LastUpdateMonth != nil {
		rec.LastUpdateMonth = *file.LastUpdateMonth
	} else {
		rec.LastUpdateMonth = now.Format(models.MonthFormat)
		migrated = true
	}

	if file.LastUpdated != nil && *file.LastUpdated != "" {
		if t, err := time.Parse(time.RFC3339, *file.LastUpdated); err == nil {
			rec.LastUpdated = t
		}
	}

	if file.ResetDate != nil {
		rec.ResetDate = *file.ResetDate
	}

	return rec, migrated
}

// Save atomically writes the record: marshal, write a temp file, rename.
// A crash mid-write never leaves a partially written record observable.
func (s *Store) Save(rec models.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(rec)
}

func (s *Store) saveLocked(rec models.UsageRecord) error {
	file := encode(rec)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.path); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func encode(rec models.UsageRecord) recordFile {
	file := recordFile{
		MonthlyLimit:    &rec.MonthlyLimit,
		CurrentUsage:    &rec.CurrentUsage,
		LastUpdateMonth: &rec.LastUpdateMonth,
	}
	if !rec.LastUpdated.IsZero() {
		ts := rec.LastUpdated.Format(time.RFC3339)
		file.LastUpdated = &ts
	}
	if rec.ResetDate != "" {
		rd := rec.ResetDate
		file.ResetDate = &rd
	}
	return file
}

// Watch starts a filesystem watcher on the record's directory so that
// external edits to the file surface on the Changes channel.
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		s.watcher = nil
		return err
	}

	go s.watchLoop()
	return nil
}

// Changes delivers a signal after the record file is modified externally.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// watchLoop handles file system events with debouncing.
func (s *Store) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					select {
					case s.changes <- struct{}{}:
					default:
					}
				})
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("store watcher error", "error", err)

		case <-s.stopChan:
			return
		}
	}
}

// Close stops the watcher if one is running.
func (s *Store) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
