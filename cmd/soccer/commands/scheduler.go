package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/soccer-analytics/internal/scheduler"
	"github.com/wonny/soccer-analytics/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduled jobs",
	Long: `Start the scheduler or manage its jobs.

Jobs (cron specs with seconds, overridable through SCHEDULER_*_SPEC):
  daily_fetch       - matches of the last SCHEDULER_RECENT_DAYS days and touched standings
  weekly_teams      - teams and squads of every stored league
  health_check      - health report, alert after SCHEDULER_ALERT_AFTER unhealthy checks
  analytics_digest  - league metrics and power rankings, cached in Redis

Subcommands:
  start   - run the scheduler until Ctrl+C
  list    - registered jobs and their next run
  run     - run a job now (with retries) and wait for it
  status  - job statistics of this process

Example:
  go run ./cmd/soccer scheduler start
  go run ./cmd/soccer scheduler run daily_fetch`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, sched, err := initScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.close()

	sched.Start()

	PrintSuccess("Scheduler started")
	printJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.close()

	printJobs(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, sched, err := initScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.close()

	fmt.Printf("Running job: %s\n", jobName)
	result, err := sched.RunNow(ctx, jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if jsonOutput {
		return printJSON(result)
	}
	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %d attempt(s): %s", jobName, result.Attempts, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}
	PrintSuccess(fmt.Sprintf("%s completed in %s", jobName, result.Duration.Round(time.Millisecond)))
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.close()

	stats := sched.GetJobStats()
	if jsonOutput {
		return printJSON(stats)
	}

	fmt.Println("Job Statistics:")
	fmt.Println()

	for _, jobName := range sched.GetAllJobs() {
		stat := stats[jobName]
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if next, err := scheduler.NextRun(stat.Schedule, time.Now()); err == nil {
			fmt.Printf("   Next Run: %s\n", next.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	widths := []int{18, 16, 20}
	PrintTableHeader([]string{"Job", "Schedule", "Next run"}, widths)
	for _, name := range sched.GetAllJobs() {
		next := "-"
		if t, err := scheduler.NextRun(stats[name].Schedule, time.Now()); err == nil {
			next = t.Format("2006-01-02 15:04:05")
		}
		PrintTableRow([]string{name, stats[name].Schedule, next}, widths)
	}
}

// initScheduler wires the app and registers every job
func initScheduler(ctx context.Context) (*app, *scheduler.Scheduler, error) {
	a, err := newApp(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg := a.cfg.Scheduler
	sched := scheduler.New(cfg, a.log)

	all := []scheduler.Job{
		jobs.NewHealthMonitorJob(a.checker(), cfg, a.log),
		jobs.NewAnalyticsDigestJob(a.scorer, a.cache, cfg, a.log),
	}
	if f, err := a.fetcher(); err == nil {
		all = append(all,
			jobs.NewDailyFetchJob(f, cfg, a.log),
			jobs.NewWeeklyTeamsJob(f, cfg, a.log),
		)
	} else {
		a.log.WithError(err).Warn("Data collection jobs disabled")
	}

	for _, job := range all {
		if err := sched.AddJob(job); err != nil {
			a.close()
			return nil, nil, err
		}
	}

	return a, sched, nil
}
