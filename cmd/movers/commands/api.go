package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daily-movers/backend/internal/api"
	"github.com/daily-movers/backend/internal/api/handlers"
	"github.com/daily-movers/backend/internal/ingest"
	"github.com/daily-movers/backend/internal/market"
	"github.com/daily-movers/backend/internal/query"
	"github.com/daily-movers/backend/internal/scheduler"
	"github.com/daily-movers/backend/internal/scheduler/jobs"
	"github.com/daily-movers/backend/internal/secrets"
	"github.com/daily-movers/backend/internal/store"
	"github.com/daily-movers/backend/pkg/config"
	"github.com/daily-movers/backend/pkg/database"
	"github.com/daily-movers/backend/pkg/httputil"
	"github.com/daily-movers/backend/pkg/logger"
	"github.com/daily-movers/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health   - Health check
  GET  /movers   - Movers for the last 7 days
  POST /ingest   - Trigger an ingestion run

With --with-scheduler the daily ingestion cron job runs inside the
server process instead of relying on an external trigger.

Example:
  go run ./cmd/movers api
  go run ./cmd/movers api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort       string
	withScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "run the daily ingestion cron in-process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if apiPort != "" {
		cfg.Port = apiPort
	}
	if withScheduler {
		cfg.Scheduler.Enabled = true
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "movers")

	// 5. Create clients and repositories
	httpClient := httputil.NewWithTimeout(log, cfg.Market.RequestTimeout)
	marketClient := market.NewClient(cfg, httpClient, log)
	repo := store.NewRepository(db.Pool, log)

	// 6. Create pipeline and query service
	pipeline := ingest.New(cfg, newSecretProvider(cfg), marketClient, repo, cache, log)
	querySvc := query.NewService(cfg, repo, cache, log)

	// 7. Create handlers and router
	moversHandler := handlers.NewMoversHandler(querySvc, log)
	ingestHandler := handlers.NewIngestHandler(pipeline, log)
	router := api.NewRouter(moversHandler, ingestHandler, log)

	// 8. Create server
	server := api.New(cfg, log, router)

	// 9. Optionally start the embedded scheduler
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewIngestionJob(pipeline, cfg, log)); err != nil {
			return fmt.Errorf("add ingestion job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newSecretProvider picks the credential source from config: a secret
// file when configured, the environment otherwise.
func newSecretProvider(cfg *config.Config) secrets.Provider {
	if cfg.Market.APIKeyFile != "" {
		return secrets.NewFileProvider(cfg.Market.APIKeyFile)
	}
	return secrets.NewEnvProvider(cfg.Market.APIKeyEnv)
}
