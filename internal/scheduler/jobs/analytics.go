package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
	"github.com/wonny/soccer-analytics/pkg/redis"
)

// DigestBuilder builds the cross-league digest; *scoring.Scorer satisfies it
type DigestBuilder interface {
	Digest(ctx context.Context, season *int, now time.Time) (*contracts.Digest, error)
}

// DigestStore keeps the latest digest; *redis.Cache satisfies it
type DigestStore interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AnalyticsDigestJob recomputes league metrics and power rankings and
// caches the resulting digest for the API
type AnalyticsDigestJob struct {
	builder  DigestBuilder
	store    DigestStore
	schedule string
	logger   *logger.Logger
	now      func() time.Time
}

// NewAnalyticsDigestJob creates a new digest job. store may be nil, in
// which case the digest is only logged.
func NewAnalyticsDigestJob(builder DigestBuilder, store DigestStore, cfg config.SchedulerConfig, log *logger.Logger) *AnalyticsDigestJob {
	return &AnalyticsDigestJob{
		builder:  builder,
		store:    store,
		schedule: cfg.AnalyticsSpec,
		logger:   log.Module("job.analytics"),
		now:      time.Now,
	}
}

// Name returns the job name
func (j *AnalyticsDigestJob) Name() string {
	return "analytics_digest"
}

// Schedule returns the cron schedule (with seconds)
func (j *AnalyticsDigestJob) Schedule() string {
	return j.schedule
}

// Run builds the digest over all seasons and stores it under redis.DigestKey
func (j *AnalyticsDigestJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled analytics digest")

	digest, err := j.builder.Digest(ctx, nil, j.now().UTC())
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	for _, f := range digest.Failures {
		j.logger.WithFields(map[string]interface{}{
			"league_id": f.ID,
			"league":    f.Name,
			"error":     f.Error,
		}).Warn("League skipped in digest")
	}

	if j.store != nil {
		if err := j.store.Set(ctx, redis.DigestKey(), digest, redis.TTLDaily); err != nil {
			return fmt.Errorf("store digest: %w", err)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"leagues": len(digest.Leagues),
		"failed":  len(digest.Failures),
	}).Info("Scheduled analytics digest completed")
	return nil
}
