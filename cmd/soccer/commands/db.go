package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management",
	Long: `Manage the PostgreSQL schema.

Subcommands:
  migrate  - create the schema (idempotent)
  check    - ping the database and print pool stats and record counts

Example:
  go run ./cmd/soccer db migrate
  go run ./cmd/soccer db check`,
}

var (
	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes",
		RunE:  runMigrate,
	}

	dbCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Check the database connection",
		RunE:  runDBCheck,
	}
)

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbCheckCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	PrintSuccess("Schema is up to date")
	return nil
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	status, err := a.db.HealthCheck(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Database unreachable: %v", err))
		return err
	}

	counts, err := a.store.CountRecords(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}

	if jsonOutput {
		return printJSON(map[string]interface{}{
			"connection":    status,
			"record_counts": counts,
		})
	}

	PrintHeader("Database")
	PrintKeyValue("Latency", status.ResponseTime.Round(time.Microsecond).String(), 12)
	PrintKeyValue("Connections", fmt.Sprintf("%d/%d (idle %d)", status.Stats.TotalConns, status.Stats.MaxConns, status.Stats.IdleConns), 12)
	PrintSeparator()

	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		PrintKeyValue(t, fmt.Sprintf("%d", counts[t]), 12)
	}
	fmt.Println()
	PrintSuccess("Database is healthy")
	return nil
}
