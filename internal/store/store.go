package store

import (
	"context"
	"time"
)

// ArchivedReport is a generated report as written to the archive.
type ArchivedReport struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Query      string    `json:"query"`
	Country    string    `json:"country"`
	TimeWindow string    `json:"time_window"`
	Sources    []string  `json:"sources"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists generated reports beyond the lifetime of a session.
type Store interface {
	ArchiveReport(ctx context.Context, r *ArchivedReport) (string, error)
	RecentReports(ctx context.Context, limit int) ([]*ArchivedReport, error)

	// General
	Close()
}
