package main

import (
	"os"

	"github.com/daily-movers/backend/cmd/movers/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
