package db

import (
	"context"
	"fmt"
	"time"

	"github.com/lvanderveken/cycletrack/internal/models"
)

// InsertUsagePoint records one history row.
func (db *DB) InsertUsagePoint(p models.UsagePoint) error {
	query := `
	INSERT INTO usage_history
		(timestamp, usage, monthly_limit, predicted, status, cycle_day, days_remaining, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(context.Background(), query,
		p.Timestamp.UTC().Format(time.RFC3339),
		p.Usage,
		p.Limit,
		p.Predicted,
		string(p.Status),
		p.CycleDay,
		p.DaysRemaining,
		string(p.Source),
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage point: %w", err)
	}
	return nil
}

// RecentPoints returns up to limit rows, newest first.
func (db *DB) RecentPoints(limit int) ([]models.UsagePoint, error) {
	query := `
	SELECT id, timestamp, usage, monthly_limit, predicted, status, cycle_day, days_remaining, source
	FROM usage_history
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`
	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent points: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// PointsSince returns rows at or after the given time, oldest first,
// the order the chart consumes.
func (db *DB) PointsSince(since time.Time) ([]models.UsagePoint, error) {
	query := `
	SELECT id, timestamp, usage, monthly_limit, predicted, status, cycle_day, days_remaining, source
	FROM usage_history
	WHERE timestamp >= ?
	ORDER BY timestamp ASC, id ASC
	`
	rows, err := db.QueryContext(context.Background(), query, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query points since %v: %w", since, err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// PruneBefore deletes rows older than the cutoff, returning how many went.
func (db *DB) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(context.Background(),
		`DELETE FROM usage_history WHERE timestamp < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPoints(rows rowScanner) ([]models.UsagePoint, error) {
	var points []models.UsagePoint
	for rows.Next() {
		var (
			p      models.UsagePoint
			ts     string
			status string
			source string
		)
		if err := rows.Scan(&p.ID, &ts, &p.Usage, &p.Limit, &p.Predicted,
			&status, &p.CycleDay, &p.DaysRemaining, &source); err != nil {
			return nil, fmt.Errorf("failed to scan usage point: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			p.Timestamp = t
		}
		p.Status = models.Status(status)
		p.Source = models.PointSource(source)
		points = append(points, p)
	}
	return points, rows.Err()
}
