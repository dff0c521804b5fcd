package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Schedule is the single row tracking the automatic daily report.
type Schedule struct {
	ID        int64     `db:"id"`
	LastRun   time.Time `db:"last_run"`
	Enabled   bool      `db:"enabled"`
	CreatedAt time.Time `db:"created_at"`
}

type ScheduleRepository interface {
	Get(ctx context.Context) (*Schedule, error)
	UpdateLastRun(ctx context.Context, t time.Time) error
}

type sqliteScheduleRepository struct {
	db sqlx.ExtContext
}

func NewScheduleRepository(db sqlx.ExtContext) ScheduleRepository {
	return &sqliteScheduleRepository{db: db}
}

// Get returns the schedule row, or nil when none was seeded yet.
func (r *sqliteScheduleRepository) Get(ctx context.Context) (*Schedule, error) {
	var s Schedule
	query := `SELECT id, last_run, enabled, created_at FROM report_schedule ORDER BY id LIMIT 1`
	err := sqlx.GetContext(ctx, r.db, &s, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select report schedule: %w", err)
	}
	return &s, nil
}

func (r *sqliteScheduleRepository) UpdateLastRun(ctx context.Context, t time.Time) error {
	query := `UPDATE report_schedule SET last_run = ? WHERE id = (SELECT MIN(id) FROM report_schedule)`
	_, err := r.db.ExecContext(ctx, query, t.UTC().Truncate(time.Second))
	if err != nil {
		return fmt.Errorf("repository: failed to update report schedule: %w", err)
	}
	return nil
}
