package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "movers",
	Short: "Daily stock movers backend",
	Long: `Daily stock movers backend.

Ingests daily open/close prices for a fixed watchlist, records the
largest absolute percentage mover per trading day, and serves the last
seven days over HTTP.

Examples:
  go run ./cmd/movers api
  go run ./cmd/movers api --with-scheduler
  go run ./cmd/movers ingest`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
