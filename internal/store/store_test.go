package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lvanderveken/cycletrack/internal/logger"
	"github.com/lvanderveken/cycletrack/internal/models"
)

func init() {
	logger.Discard()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "usage.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func writeFile(t *testing.T, s *Store, content string) {
	t.Helper()
	if err := os.WriteFile(s.Path(), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write record file: %v", err)
	}
}

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestLoad_MissingFileCreatesDefaults(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Load(testNow)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if rec.MonthlyLimit != models.DefaultMonthlyLimit {
		t.Errorf("MonthlyLimit = %v, want %v", rec.MonthlyLimit, models.DefaultMonthlyLimit)
	}
	if rec.CurrentUsage != 0 {
		t.Errorf("CurrentUsage = %v, want 0", rec.CurrentUsage)
	}
	if rec.LastUpdateMonth != "2025-06" {
		t.Errorf("LastUpdateMonth = %q, want 2025-06", rec.LastUpdateMonth)
	}
	if rec.HasResetDate() {
		t.Error("fresh record must not have a reset date")
	}
}

func TestLoad_CorruptFileRecoversToDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"NotJSON", "{{{ definitely not json"},
		{"WrongType", `[1, 2, 3]`},
		{"Empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			writeFile(t, s, tt.content)

			rec, err := s.Load(testNow)
			if err != nil {
				t.Fatalf("Load() failed on corrupt input: %v", err)
			}
			if rec.MonthlyLimit != models.DefaultMonthlyLimit {
				t.Errorf("MonthlyLimit = %v, want default", rec.MonthlyLimit)
			}
		})
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := models.UsageRecord{
		MonthlyLimit:    750,
		CurrentUsage:    123.5,
		LastUpdateMonth: "2025-06",
		LastUpdated:     time.Date(2025, time.June, 14, 9, 30, 0, 0, time.UTC),
		ResetDate:       "2025-06-01",
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := s.Load(testNow)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoad_MigratesLegacyPercentageSchema(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s, `{
  "current_percentage": 42.5,
  "reset_date": "2025-06-01"
}`)

	rec, err := s.Load(testNow)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if rec.CurrentUsage != 42.5 {
		t.Errorf("CurrentUsage = %v, want legacy percentage carried over", rec.CurrentUsage)
	}
	if rec.MonthlyLimit != models.DefaultMonthlyLimit {
		t.Errorf("MonthlyLimit = %v, want backfilled default", rec.MonthlyLimit)
	}
	if rec.ResetDate != "2025-06-01" {
		t.Errorf("ResetDate = %q, migration must not lose it", rec.ResetDate)
	}

	// The migrated form must be rewritten immediately.
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("Failed to read migrated file: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Migrated file is not valid JSON: %v", err)
	}
	if _, ok := raw["current_usage"]; !ok {
		t.Error("migrated file missing current_usage")
	}
	if _, ok := raw["current_percentage"]; ok {
		t.Error("migrated file still carries legacy current_percentage")
	}
}

func TestLoad_MissingUsageDefaultsToZero(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s, `{"monthly_limit": 300, "reset_date": "2025-06-10"}`)

	rec, err := s.Load(testNow)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if rec.CurrentUsage != 0 {
		t.Errorf("CurrentUsage = %v, want 0", rec.CurrentUsage)
	}
	if rec.MonthlyLimit != 300 {
		t.Errorf("MonthlyLimit = %v, want 300 preserved", rec.MonthlyLimit)
	}
	if rec.ResetDate != "2025-06-10" {
		t.Errorf("ResetDate = %q, want preserved", rec.ResetDate)
	}
}

func TestLoad_CalendarMonthRollover(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s, `{
  "monthly_limit": 500,
  "current_usage": 321,
  "last_update_month": "2025-05",
  "last_updated": null,
  "reset_date": null
}`)

	rec, err := s.Load(testNow)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if rec.CurrentUsage != 0 {
		t.Errorf("CurrentUsage = %v, want 0 after month rollover", rec.CurrentUsage)
	}
	if rec.LastUpdateMonth != "2025-06" {
		t.Errorf("LastUpdateMonth = %q, want 2025-06", rec.LastUpdateMonth)
	}
	if rec.MonthlyLimit != 500 {
		t.Errorf("MonthlyLimit = %v, month rollover must keep the limit", rec.MonthlyLimit)
	}
}

func TestLoad_FixedCycleSkipsMonthRollover(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s, `{
  "monthly_limit": 500,
  "current_usage": 321,
  "last_update_month": "2025-05",
  "reset_date": "2025-06-01"
}`)

	rec, err := s.Load(testNow)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if rec.CurrentUsage != 321 {
		t.Errorf("CurrentUsage = %v, fixed-cycle records must not month-reset", rec.CurrentUsage)
	}
}

func TestSave_NullFieldsEncoding(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(models.NewRecord(testNow)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, `"last_updated": null`) {
		t.Errorf("expected last_updated null, got:\n%s", content)
	}
	if !strings.Contains(content, `"reset_date": null`) {
		t.Errorf("expected reset_date null, got:\n%s", content)
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(models.NewRecord(testNow)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestWatch_SignalsExternalEdit(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(models.NewRecord(testNow)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := s.Watch(); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer s.Close()

	writeFile(t, s, `{"monthly_limit": 100, "current_usage": 5}`)

	select {
	case <-s.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after external edit")
	}
}
