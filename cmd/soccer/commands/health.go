package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/soccer-analytics/internal/health"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database, API and data freshness",
	Long: `Run every health check and print the report.

Exits non-zero when the overall status is unhealthy.

Example:
  go run ./cmd/soccer health
  go run ./cmd/soccer health --json`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

var statusIcon = map[health.Status]string{
	health.StatusHealthy:   "✅",
	health.StatusDegraded:  "⚠️ ",
	health.StatusUnhealthy: "❌",
	health.StatusUnknown:   "❔",
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report := a.checker().Report(ctx)

	if jsonOutput {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if report.OverallStatus == health.StatusUnhealthy {
		return fmt.Errorf("system is unhealthy")
	}
	return nil
}

func printReport(r *health.Report) {
	PrintHeader("Health report")

	statuses := r.Statuses()
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := statuses[name]
		PrintKeyValue(name, statusIcon[s]+" "+string(s), 16)
	}
	PrintSeparator()
	PrintKeyValue("overall", statusIcon[r.OverallStatus]+" "+string(r.OverallStatus), 16)

	var problems []string
	problems = append(problems, r.Database.Errors...)
	problems = append(problems, r.API.Errors...)
	problems = append(problems, r.DataFreshness.Errors...)
	if len(problems) > 0 {
		fmt.Println()
		for _, p := range problems {
			PrintWarning(p)
		}
	}
}
