package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func TestArchiveAndListReports(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sessionID := uuid.NewString()

	r := &ArchivedReport{
		SessionID:  sessionID,
		Query:      "Acme Corp",
		Country:    "US",
		TimeWindow: "w",
		Sources:    []string{"https://a.com/1", "https://b.com/2"},
		Summary:    "Acme had a quiet week.",
	}
	id, err := s.ArchiveReport(ctx, r)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.False(t, r.CreatedAt.IsZero())

	reports, err := s.RecentReports(ctx, 50)
	require.NoError(t, err)

	var found *ArchivedReport
	for _, got := range reports {
		if got.ID == id {
			found = got
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, sessionID, found.SessionID)
	assert.Equal(t, r.Sources, found.Sources)
	assert.Equal(t, "w", found.TimeWindow)
}

func TestArchiveNilSources(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ArchiveReport(context.Background(), &ArchivedReport{
		SessionID: uuid.NewString(),
		Query:     "Acme",
		Country:   "US",
		Summary:   "x",
	})
	require.NoError(t, err)
}
