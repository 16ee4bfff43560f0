package store

import (
	"context"
	"fmt"

	"github.com/amityadav/stratreport/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    session_id  TEXT NOT NULL,
    query       TEXT NOT NULL,
    country     TEXT NOT NULL,
    time_window TEXT NOT NULL DEFAULT '',
    sources     TEXT[] NOT NULL DEFAULT '{}',
    summary     TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reports_created_at_idx ON reports (created_at DESC);
`

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// EnsureSchema creates the reports table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) ArchiveReport(ctx context.Context, r *ArchivedReport) (string, error) {
	logger.Log.Debugf("[Store.ArchiveReport] Inserting report - Session: %s, Query: %q, Sources: %d", r.SessionID, r.Query, len(r.Sources))
	query := `
        INSERT INTO reports (session_id, query, country, time_window, sources, summary)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at;
    `
	sources := r.Sources
	if sources == nil {
		sources = []string{}
	}
	err := s.db.QueryRow(ctx, query, r.SessionID, r.Query, r.Country, r.TimeWindow, sources, r.Summary).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}
	return r.ID, nil
}

// RecentReports returns up to limit archived reports, newest first.
func (s *PostgresStore) RecentReports(ctx context.Context, limit int) ([]*ArchivedReport, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
        SELECT id, session_id, query, country, time_window, sources, summary, created_at
        FROM reports
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*ArchivedReport
	for rows.Next() {
		var r ArchivedReport
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Query, &r.Country, &r.TimeWindow, &r.Sources, &r.Summary, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}
