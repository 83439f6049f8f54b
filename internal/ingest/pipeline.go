// Package ingest runs the daily ingestion pipeline: acquire the API
// credential, fetch every watchlist ticker in order with a static pacing
// delay, select the largest absolute mover and write one record for the
// trade date.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/daily-movers/backend/internal/market"
	"github.com/daily-movers/backend/internal/mover"
	"github.com/daily-movers/backend/internal/secrets"
	"github.com/daily-movers/backend/internal/store"
	"github.com/daily-movers/backend/pkg/config"
	"github.com/daily-movers/backend/pkg/logger"
	"github.com/daily-movers/backend/pkg/redis"
)

// MarketClient fetches one daily bar per call.
type MarketClient interface {
	FetchDailyBar(ctx context.Context, ticker, tradeDate, apiKey string) (*market.Quote, error)
}

// MoverStore persists the selected mover record.
type MoverStore interface {
	PutMover(ctx context.Context, rec store.MoverRecord) error
}

// Report is the outcome of one ingestion run.
type Report struct {
	Date             string   `json:"date"`
	Winner           string   `json:"winner,omitempty"`
	PercentChange    float64  `json:"percent_change"`
	ClosingPrice     float64  `json:"closing_price"`
	TickersProcessed int      `json:"tickers_processed"`
	TickersFailed    []string `json:"tickers_failed"`
	Message          string   `json:"message,omitempty"`
}

// NoData reports whether the run ended without any usable quote. This is a
// successful terminal state, not an error: it covers market holidays and
// total upstream unavailability alike.
func (r *Report) NoData() bool {
	return r.Winner == ""
}

// Pipeline orchestrates a single ingestion run. Each run is an
// independent, idempotent-by-date unit of work: re-running for the same
// date overwrites the prior record.
type Pipeline struct {
	secrets   secrets.Provider
	market    MarketClient
	store     MoverStore
	cache     *redis.Cache
	limiter   *rate.Limiter
	watchlist []string
	logger    *logger.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// New creates an ingestion pipeline. cache may be nil when read-path
// caching is not in use.
func New(
	cfg *config.Config,
	sec secrets.Provider,
	mc MarketClient,
	st MoverStore,
	cache *redis.Cache,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		secrets:   sec,
		market:    mc,
		store:     st,
		cache:     cache,
		limiter:   rate.NewLimiter(rate.Every(cfg.Market.PaceDelay), 1),
		watchlist: cfg.Watchlist,
		logger:    log.WithField("module", "ingest"),
		now:       time.Now,
	}
}

// Run executes one ingestion run for today's trade date.
//
// Per-ticker failures degrade to "absent" and never abort the run. The
// only fatal conditions are credential acquisition and the storage write;
// both surface as a returned error with no record written (the write is a
// single upsert, so there is no partially-written state to clean up).
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	tradeDate := p.now().Format("2006-01-02")
	log := p.logger.WithField("trade_date", tradeDate)
	log.Info("Starting ingestion run")

	// AcquireCredential: resolved once per run, fatal on failure.
	apiKey, err := p.secrets.APIKey(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to acquire API credential")
		return nil, fmt.Errorf("acquire credential: %w", err)
	}

	// FetchAll: fixed watchlist order, static pacing delay between calls.
	changes := make([]mover.Change, 0, len(p.watchlist))
	failed := make([]string, 0)

	for _, ticker := range p.watchlist {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("pacing wait: %w", err)
		}

		quote, err := p.market.FetchDailyBar(ctx, ticker, tradeDate, apiKey)
		if err != nil || quote == nil {
			if err != nil && !errors.Is(err, market.ErrNoData) {
				log.WithError(err).WithField("ticker", ticker).Warn("Ticker fetch failed")
			}
			failed = append(failed, ticker)
			continue
		}

		pct := mover.PercentChange(quote.Open, quote.Close)
		changes = append(changes, mover.Change{
			Ticker:        ticker,
			PercentChange: pct,
			ClosingPrice:  quote.Close,
		})

		log.WithFields(map[string]interface{}{
			"ticker": ticker,
			"open":   quote.Open,
			"close":  quote.Close,
			"change": pct,
		}).Info("Ticker processed")
	}

	if len(failed) > 0 {
		log.WithField("tickers", failed).Warn("Failed to fetch data for some tickers")
	}

	report := &Report{
		Date:             tradeDate,
		TickersProcessed: len(changes),
		TickersFailed:    failed,
	}

	// Decide: nothing usable means a clean no-op, not an error.
	if len(changes) == 0 {
		report.Message = "No data — market closed or API unavailable"
		log.Warn("No results collected, skipping write")
		return report, nil
	}

	// SelectAndWrite
	winner, err := mover.SelectWinner(changes)
	if err != nil {
		return nil, fmt.Errorf("select winner: %w", err)
	}

	report.Winner = winner.Ticker
	report.PercentChange = mover.Round(winner.PercentChange, 4)
	report.ClosingPrice = mover.Round(winner.ClosingPrice, 2)

	rec := store.MoverRecord{
		Date:          tradeDate,
		Ticker:        report.Winner,
		PercentChange: report.PercentChange,
		ClosingPrice:  report.ClosingPrice,
		IngestedAt:    p.now().UTC(),
	}

	if err := p.store.PutMover(ctx, rec); err != nil {
		log.WithError(err).Error("Mover write failed")
		return nil, fmt.Errorf("write mover: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Delete(ctx, redis.RecentMoversKey); err != nil {
			log.WithError(err).Warn("Failed to invalidate movers cache")
		}
	}

	log.WithFields(map[string]interface{}{
		"winner":  report.Winner,
		"change":  report.PercentChange,
		"close":   report.ClosingPrice,
		"failed":  len(failed),
		"fetched": len(changes),
	}).Info("Ingestion run complete")

	return report, nil
}
