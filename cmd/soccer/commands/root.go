package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "soccer",
	Short: "European football statistics and analytics",
	Long: `Soccer Analytics CLI

Ingests competitions, teams, matches and standings from football-data.org
into PostgreSQL and computes league, team and player analytics on top.

Usage:
  go run ./cmd/soccer [command]

Examples:
  go run ./cmd/soccer db migrate
  go run ./cmd/soccer data fetch-all --season 2024
  go run ./cmd/soccer analytics league-table 1
  go run ./cmd/soccer analytics power-rankings 1 --json
  go run ./cmd/soccer scheduler start
  go run ./cmd/soccer api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}
