package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daily-movers/backend/internal/ingest"
	"github.com/daily-movers/backend/internal/market"
	"github.com/daily-movers/backend/internal/store"
	"github.com/daily-movers/backend/pkg/config"
	"github.com/daily-movers/backend/pkg/database"
	"github.com/daily-movers/backend/pkg/httputil"
	"github.com/daily-movers/backend/pkg/logger"
	"github.com/daily-movers/backend/pkg/redis"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass",
	Long: `Run the ingestion pipeline once for today's trade date and print
the run report as JSON. Intended for external cron triggers and manual
re-runs; re-running for the same date overwrites the existing record.

Example:
  go run ./cmd/movers ingest`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	httpClient := httputil.NewWithTimeout(log, cfg.Market.RequestTimeout)
	marketClient := market.NewClient(cfg, httpClient, log)
	repo := store.NewRepository(db.Pool, log)
	cache := redis.NewCache(redisClient, "movers")

	pipeline := ingest.New(cfg, newSecretProvider(cfg), marketClient, repo, cache, log)

	report, err := pipeline.Run(context.Background())
	if err != nil {
		return fmt.Errorf("ingestion run: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}
