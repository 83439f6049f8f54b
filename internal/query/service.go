// Package query serves the read path: the movers recorded over the
// trailing seven calendar days, most recent first.
package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/daily-movers/backend/internal/mover"
	"github.com/daily-movers/backend/internal/store"
	"github.com/daily-movers/backend/pkg/config"
	"github.com/daily-movers/backend/pkg/logger"
	"github.com/daily-movers/backend/pkg/redis"
)

// MoverReader is the batch read side of the mover store.
type MoverReader interface {
	BatchGet(ctx context.Context, dates []string) ([]store.MoverRecord, error)
}

// Mover is one record as exposed by the API. Numeric fields are re-rounded
// to 2 fractional digits for display, independent of the 4-digit precision
// stored at write time.
type Mover struct {
	Date          string  `json:"date"`
	Ticker        string  `json:"ticker"`
	PercentChange float64 `json:"percent_change"`
	ClosingPrice  float64 `json:"closing_price"`
}

// RecentMovers is the GET /movers response body.
type RecentMovers struct {
	Movers []Mover `json:"movers"`
	Count  int     `json:"count"`
}

// Service computes the trailing date window, reads whatever subset of
// records exists, normalizes and sorts it.
type Service struct {
	store  MoverReader
	cache  *redis.Cache
	ttl    time.Duration
	days   int
	logger *logger.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewService creates a query service. cache may be nil to disable
// response caching.
func NewService(cfg *config.Config, st MoverReader, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{
		store:  st,
		cache:  cache,
		ttl:    cfg.Query.CacheTTL,
		days:   cfg.Query.Days,
		logger: log.WithField("module", "query"),
		now:    time.Now,
	}
}

// GetRecentMovers returns the movers for the last N calendar dates
// including today. Dates without a record are simply omitted; an empty
// store yields an empty list, not an error.
func (s *Service) GetRecentMovers(ctx context.Context) (*RecentMovers, error) {
	if s.cache == nil {
		return s.fetchRecentMovers(ctx)
	}

	var result RecentMovers
	err := s.cache.GetOrSet(ctx, redis.RecentMoversKey, &result, s.ttl, func() (interface{}, error) {
		return s.fetchRecentMovers(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) fetchRecentMovers(ctx context.Context) (*RecentMovers, error) {
	dates := s.dateWindow()

	records, err := s.store.BatchGet(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("batch get movers: %w", err)
	}

	movers := make([]Mover, 0, len(records))
	for _, rec := range records {
		movers = append(movers, Mover{
			Date:          rec.Date,
			Ticker:        rec.Ticker,
			PercentChange: mover.Round(rec.PercentChange, 2),
			ClosingPrice:  mover.Round(rec.ClosingPrice, 2),
		})
	}

	// Most recent first. The store holds at most one record per date, so
	// no secondary key is needed.
	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].Date > movers[j].Date
	})

	s.logger.WithFields(map[string]interface{}{
		"window": len(dates),
		"found":  len(movers),
	}).Debug("Recent movers fetched")

	return &RecentMovers{Movers: movers, Count: len(movers)}, nil
}

// dateWindow returns the last `days` ISO dates including today, in the
// local processing convention.
func (s *Service) dateWindow() []string {
	today := s.now()
	dates := make([]string, 0, s.days)
	for i := 0; i < s.days; i++ {
		dates = append(dates, today.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return dates
}
