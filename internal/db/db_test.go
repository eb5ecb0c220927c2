package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lvanderveken/cycletrack/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testPoint(ts time.Time, usage float64, source models.PointSource) models.UsagePoint {
	return models.UsagePoint{
		Timestamp:     ts,
		Usage:         usage,
		Limit:         500,
		Predicted:     usage * 2,
		Status:        models.StatusOnTrack,
		CycleDay:      5,
		DaysRemaining: 25,
		Source:        source,
	}
}

func TestInsertAndRecentPoints(t *testing.T) {
	database := newTestDB(t)
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		p := testPoint(now.Add(time.Duration(i)*time.Hour), float64(10*i), models.SourceEdit)
		if err := database.InsertUsagePoint(p); err != nil {
			t.Fatalf("InsertUsagePoint() failed: %v", err)
		}
	}

	points, err := database.RecentPoints(3)
	if err != nil {
		t.Fatalf("RecentPoints() failed: %v", err)
	}

	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(points))
	}
	if points[0].Usage != 40 {
		t.Errorf("newest point usage = %v, want 40", points[0].Usage)
	}
	if points[0].Source != models.SourceEdit {
		t.Errorf("Source = %q, want edit", points[0].Source)
	}
	if !points[0].Timestamp.Equal(now.Add(4 * time.Hour)) {
		t.Errorf("Timestamp = %v, want %v", points[0].Timestamp, now.Add(4*time.Hour))
	}
}

func TestPointsSince(t *testing.T) {
	database := newTestDB(t)
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	old := testPoint(now.AddDate(0, 0, -10), 1, models.SourceRefresh)
	recent := testPoint(now.Add(-time.Hour), 2, models.SourceRefresh)
	for _, p := range []models.UsagePoint{old, recent} {
		if err := database.InsertUsagePoint(p); err != nil {
			t.Fatalf("InsertUsagePoint() failed: %v", err)
		}
	}

	points, err := database.PointsSince(now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("PointsSince() failed: %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if points[0].Usage != 2 {
		t.Errorf("Usage = %v, want the recent point", points[0].Usage)
	}
}

func TestPruneBefore(t *testing.T) {
	database := newTestDB(t)
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		p := testPoint(now.AddDate(0, 0, -i*30), float64(i), models.SourceRollover)
		if err := database.InsertUsagePoint(p); err != nil {
			t.Fatalf("InsertUsagePoint() failed: %v", err)
		}
	}

	pruned, err := database.PruneBefore(now.AddDate(0, 0, -45))
	if err != nil {
		t.Fatalf("PruneBefore() failed: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}

	points, err := database.RecentPoints(10)
	if err != nil {
		t.Fatalf("RecentPoints() failed: %v", err)
	}
	if len(points) != 2 {
		t.Errorf("len(points) = %d, want 2 after prune", len(points))
	}
}

func TestRecentPoints_EmptyDatabase(t *testing.T) {
	database := newTestDB(t)

	points, err := database.RecentPoints(10)
	if err != nil {
		t.Fatalf("RecentPoints() failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("len(points) = %d, want 0", len(points))
	}
}
