package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/movers?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.Market.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Market.MaxAttempts)
	}
	if cfg.Query.Days != 7 {
		t.Errorf("Query.Days = %d, want 7", cfg.Query.Days)
	}

	wantWatchlist := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA"}
	if !reflect.DeepEqual(cfg.Watchlist, wantWatchlist) {
		t.Errorf("Watchlist = %v, want %v", cfg.Watchlist, wantWatchlist)
	}
}

func TestLoadWatchlistParsing(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/movers")
	t.Setenv("WATCHLIST", " nvda, aapl ,MSFT,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Order is preserved: it is the pipeline's scan order
	want := []string{"NVDA", "AAPL", "MSFT"}
	if !reflect.DeepEqual(cfg.Watchlist, want) {
		t.Errorf("Watchlist = %v, want %v", cfg.Watchlist, want)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"DATABASE_URL": ""},
		},
		{
			name: "invalid environment",
			env: map[string]string{
				"DATABASE_URL": "postgres://localhost/movers",
				"ENV":          "sandbox",
			},
		},
		{
			name: "zero attempts",
			env: map[string]string{
				"DATABASE_URL":         "postgres://localhost/movers",
				"MASSIVE_MAX_ATTEMPTS": "0",
			},
		},
		{
			name: "empty watchlist",
			env: map[string]string{
				"DATABASE_URL": "postgres://localhost/movers",
				"WATCHLIST":    " , ,",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() expected validation error")
			}
		})
	}
}
