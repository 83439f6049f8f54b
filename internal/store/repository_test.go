package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daily-movers/backend/pkg/logger"
)

// newTestRepository connects to the database named by TEST_DATABASE_URL.
// The daily_movers table (migrations/001) must exist.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `DELETE FROM daily_movers`)
	require.NoError(t, err, "failed to clean test table")

	return NewRepository(pool, logger.NewNop())
}

func TestPutMoverAndBatchGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec := MoverRecord{
		Date:          "2026-08-28",
		Ticker:        "MSFT",
		PercentChange: -5.1234,
		ClosingPrice:  410.5,
		IngestedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.PutMover(ctx, rec))

	got, err := repo.BatchGet(ctx, []string{"2026-08-28", "2026-08-27"})
	require.NoError(t, err)

	require.Len(t, got, 1, "only the written date should come back")
	assert.Equal(t, "2026-08-28", got[0].Date)
	assert.Equal(t, "MSFT", got[0].Ticker)
	assert.InDelta(t, -5.1234, got[0].PercentChange, 1e-9)
	assert.InDelta(t, 410.5, got[0].ClosingPrice, 1e-9)
}

func TestPutMoverOverwritesSameDate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := MoverRecord{
		Date:          "2026-08-28",
		Ticker:        "AAPL",
		PercentChange: 1.0,
		ClosingPrice:  230.0,
		IngestedAt:    time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, repo.PutMover(ctx, first))

	second := MoverRecord{
		Date:          "2026-08-28",
		Ticker:        "TSLA",
		PercentChange: -8.25,
		ClosingPrice:  199.99,
		IngestedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.PutMover(ctx, second))

	got, err := repo.BatchGet(ctx, []string{"2026-08-28"})
	require.NoError(t, err)

	// Full overwrite, no merge
	require.Len(t, got, 1)
	assert.Equal(t, "TSLA", got[0].Ticker)
	assert.InDelta(t, -8.25, got[0].PercentChange, 1e-9)
	assert.InDelta(t, 199.99, got[0].ClosingPrice, 1e-9)
}

func TestBatchGetEmptyInput(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.BatchGet(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
