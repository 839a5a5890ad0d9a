package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/ingest"
	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// Fetcher is the part of *ingest.Fetcher the collection jobs drive
type Fetcher interface {
	FetchRecent(ctx context.Context, daysBack int) (*ingest.Summary, error)
	RefreshTeams(ctx context.Context) (*ingest.Summary, error)
}

var _ Fetcher = (*ingest.Fetcher)(nil)

// DailyFetchJob pulls recent results and refreshes the standings they touch
// ⭐ SSOT: the daily match refresh is scheduled by this job only
type DailyFetchJob struct {
	fetcher  Fetcher
	schedule string
	daysBack int
	logger   *logger.Logger
}

// NewDailyFetchJob creates a new daily fetch job
func NewDailyFetchJob(f Fetcher, cfg config.SchedulerConfig, log *logger.Logger) *DailyFetchJob {
	return &DailyFetchJob{
		fetcher:  f,
		schedule: cfg.DailyFetchSpec,
		daysBack: cfg.RecentDays,
		logger:   log.Module("job.daily_fetch"),
	}
}

// Name returns the job name
func (j *DailyFetchJob) Name() string {
	return "daily_fetch"
}

// Schedule returns the cron schedule (with seconds)
func (j *DailyFetchJob) Schedule() string {
	return j.schedule
}

// Run fetches the last daysBack days. Partial failures fail the run so the
// scheduler retries; upserts make the repeat harmless.
func (j *DailyFetchJob) Run(ctx context.Context) error {
	j.logger.WithField("days_back", j.daysBack).Info("Starting scheduled match refresh")

	sum, err := j.fetcher.FetchRecent(ctx, j.daysBack)
	if err != nil {
		return fmt.Errorf("fetch recent matches: %w", err)
	}
	if err := partial(sum); err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"matches":   sum.Matches.String(),
		"standings": sum.Standings.String(),
	}).Info("Scheduled match refresh completed")
	return nil
}

// WeeklyTeamsJob refreshes clubs and squads of every stored league
type WeeklyTeamsJob struct {
	fetcher  Fetcher
	schedule string
	logger   *logger.Logger
}

// NewWeeklyTeamsJob creates a new team refresh job
func NewWeeklyTeamsJob(f Fetcher, cfg config.SchedulerConfig, log *logger.Logger) *WeeklyTeamsJob {
	return &WeeklyTeamsJob{
		fetcher:  f,
		schedule: cfg.WeeklyTeamsSpec,
		logger:   log.Module("job.weekly_teams"),
	}
}

// Name returns the job name
func (j *WeeklyTeamsJob) Name() string {
	return "weekly_teams"
}

// Schedule returns the cron schedule (with seconds)
func (j *WeeklyTeamsJob) Schedule() string {
	return j.schedule
}

// Run refreshes teams and squads
func (j *WeeklyTeamsJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled team refresh")

	sum, err := j.fetcher.RefreshTeams(ctx)
	if err != nil {
		return fmt.Errorf("refresh teams: %w", err)
	}
	if err := partial(sum); err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"teams":   sum.Teams.String(),
		"players": sum.Players.String(),
	}).Info("Scheduled team refresh completed")
	return nil
}

// partial turns per-competition failures of a summary into an error
func partial(sum *ingest.Summary) error {
	if len(sum.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d upstream call(s) failed, first: %s", len(sum.Failures), sum.Failures[0])
}
