package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daily-movers/backend/pkg/logger"
)

// MoverRecord is the persisted top-mover row, one per trading date.
// PercentChange is rounded to 4 fractional digits and ClosingPrice to 2
// at write time by the ingestion pipeline.
type MoverRecord struct {
	Date          string    `json:"date"`
	Ticker        string    `json:"ticker"`
	PercentChange float64   `json:"percent_change"`
	ClosingPrice  float64   `json:"closing_price"`
	IngestedAt    time.Time `json:"ingested_at"`
}

// Repository is the date-keyed mover store backed by PostgreSQL.
type Repository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewRepository creates a new mover repository.
func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: log.WithField("module", "store"),
	}
}

// PutMover upserts the record for its trade date. Repeated writes for the
// same date overwrite every field, including ingested_at — there is no
// merge. Failures propagate to the caller.
func (r *Repository) PutMover(ctx context.Context, rec MoverRecord) error {
	query := `
		INSERT INTO daily_movers (trade_date, ticker, percent_change, closing_price, ingested_at)
		VALUES ($1::date, $2, $3, $4, $5)
		ON CONFLICT (trade_date) DO UPDATE SET
			ticker = EXCLUDED.ticker,
			percent_change = EXCLUDED.percent_change,
			closing_price = EXCLUDED.closing_price,
			ingested_at = EXCLUDED.ingested_at
	`

	_, err := r.pool.Exec(ctx, query,
		rec.Date, rec.Ticker, rec.PercentChange, rec.ClosingPrice, rec.IngestedAt,
	)
	if err != nil {
		return fmt.Errorf("put mover for %s: %w", rec.Date, err)
	}
	return nil
}

// BatchGet fetches the projected mover fields for the given dates.
// Dates with no record are simply missing from the result; the discrepancy
// is logged, never treated as an error. An empty input yields an empty
// result without touching the database.
func (r *Repository) BatchGet(ctx context.Context, dates []string) ([]MoverRecord, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	query := `
		SELECT to_char(trade_date, 'YYYY-MM-DD'), ticker, percent_change::float8, closing_price::float8
		FROM daily_movers
		WHERE trade_date = ANY($1::date[])
	`

	rows, err := r.pool.Query(ctx, query, dates)
	if err != nil {
		return nil, fmt.Errorf("batch get movers: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(dates))
	var records []MoverRecord
	for rows.Next() {
		var rec MoverRecord
		if err := rows.Scan(&rec.Date, &rec.Ticker, &rec.PercentChange, &rec.ClosingPrice); err != nil {
			return nil, fmt.Errorf("scan mover row: %w", err)
		}
		found[rec.Date] = true
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("batch get movers: %w", err)
	}

	var missing []string
	for _, d := range dates {
		if !found[d] {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"requested": len(dates),
			"returned":  len(records),
			"missing":   missing,
		}).Debug("Some requested dates have no mover record")
	}

	return records, nil
}
