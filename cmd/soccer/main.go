package main

import (
	"os"

	"github.com/wonny/soccer-analytics/cmd/soccer/commands"
)

// main is the entry point for the soccer analytics CLI
// ⭐ single CLI entry point: go run ./cmd/soccer [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
