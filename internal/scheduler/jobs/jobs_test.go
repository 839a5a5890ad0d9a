package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/health"
	"github.com/wonny/soccer-analytics/internal/ingest"
	"github.com/wonny/soccer-analytics/internal/scheduler"
	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
	"github.com/wonny/soccer-analytics/pkg/redis"
)

var cfg = config.SchedulerConfig{
	DailyFetchSpec:   "0 0 6 * * *",
	WeeklyTeamsSpec:  "0 0 3 * * 1",
	HealthCheckSpec:  "0 0 * * * *",
	AnalyticsSpec:    "0 30 7 * * *",
	AlertAfterFailed: 3,
	RecentDays:       7,
}

var (
	_ scheduler.Job = (*DailyFetchJob)(nil)
	_ scheduler.Job = (*WeeklyTeamsJob)(nil)
	_ scheduler.Job = (*HealthMonitorJob)(nil)
	_ scheduler.Job = (*AnalyticsDigestJob)(nil)
)

type fakeFetcher struct {
	daysBack int
	summary  *ingest.Summary
	err      error
}

func (f *fakeFetcher) FetchRecent(ctx context.Context, daysBack int) (*ingest.Summary, error) {
	f.daysBack = daysBack
	return f.summary, f.err
}

func (f *fakeFetcher) RefreshTeams(ctx context.Context) (*ingest.Summary, error) {
	return f.summary, f.err
}

func TestDailyFetchJob(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := &fakeFetcher{summary: &ingest.Summary{Matches: ingest.LoadResult{Entity: "matches", Created: 4}}}
		job := NewDailyFetchJob(f, cfg, logger.Nop())

		assert.Equal(t, "daily_fetch", job.Name())
		assert.Equal(t, "0 0 6 * * *", job.Schedule())
		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, 7, f.daysBack)
	})

	t.Run("fetch error", func(t *testing.T) {
		f := &fakeFetcher{err: errors.New("rate limited")}
		err := NewDailyFetchJob(f, cfg, logger.Nop()).Run(context.Background())
		assert.ErrorContains(t, err, "fetch recent matches")
	})

	t.Run("partial failure fails the run", func(t *testing.T) {
		f := &fakeFetcher{summary: &ingest.Summary{Failures: []contracts.ItemFailure{
			{ID: 2014, Name: "competition", Error: "rate limited"},
		}}}
		err := NewDailyFetchJob(f, cfg, logger.Nop()).Run(context.Background())
		assert.ErrorContains(t, err, "1 upstream call(s) failed")
	})
}

func TestWeeklyTeamsJob(t *testing.T) {
	f := &fakeFetcher{summary: &ingest.Summary{}}
	job := NewWeeklyTeamsJob(f, cfg, logger.Nop())

	assert.Equal(t, "weekly_teams", job.Name())
	assert.Equal(t, "0 0 3 * * 1", job.Schedule())
	require.NoError(t, job.Run(context.Background()))

	f.err = errors.New("boom")
	assert.Error(t, job.Run(context.Background()))
}

type fakeReporter struct {
	statuses []health.Status
	calls    int
}

func (r *fakeReporter) Report(ctx context.Context) *health.Report {
	s := r.statuses[r.calls]
	r.calls++
	return &health.Report{OverallStatus: s}
}

func TestHealthMonitorJob(t *testing.T) {
	r := &fakeReporter{statuses: []health.Status{
		health.StatusUnhealthy,
		health.StatusUnhealthy,
		health.StatusUnhealthy,
		health.StatusUnhealthy,
		health.StatusDegraded,
		health.StatusUnhealthy,
	}}
	job := NewHealthMonitorJob(r, cfg, logger.Nop())
	assert.Equal(t, "health_check", job.Name())
	assert.Nil(t, job.LastReport())

	want := []int{1, 2, 3, 4, 0, 1}
	for i, streak := range want {
		require.NoError(t, job.Run(context.Background()), "run %d", i)
		assert.Equal(t, streak, job.ConsecutiveFailures(), "run %d", i)
	}
	require.NotNil(t, job.LastReport())
	assert.Equal(t, health.StatusUnhealthy, job.LastReport().OverallStatus)
}

type fakeBuilder struct {
	digest *contracts.Digest
	err    error
}

func (b *fakeBuilder) Digest(ctx context.Context, season *int, now time.Time) (*contracts.Digest, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.digest.GeneratedAt = now
	return b.digest, nil
}

type memStore struct {
	key   string
	value interface{}
	ttl   time.Duration
	err   error
}

func (s *memStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.key, s.value, s.ttl = key, value, ttl
	return s.err
}

func TestAnalyticsDigestJob(t *testing.T) {
	digest := &contracts.Digest{
		Leagues:  []contracts.LeagueDigest{{LeagueID: 1, LeagueName: "Premier League"}},
		Failures: []contracts.ItemFailure{{ID: 2, Name: "Serie A", Error: "timeout"}},
	}

	t.Run("stores digest", func(t *testing.T) {
		store := &memStore{}
		job := NewAnalyticsDigestJob(&fakeBuilder{digest: digest}, store, cfg, logger.Nop())
		job.now = func() time.Time { return time.Date(2024, 10, 15, 7, 30, 0, 0, time.UTC) }

		assert.Equal(t, "0 30 7 * * *", job.Schedule())
		require.NoError(t, job.Run(context.Background()))

		assert.Equal(t, redis.DigestKey(), store.key)
		assert.Equal(t, redis.TTLDaily, store.ttl)
		stored, ok := store.value.(*contracts.Digest)
		require.True(t, ok)
		assert.Equal(t, 2024, stored.GeneratedAt.Year())
	})

	t.Run("no store", func(t *testing.T) {
		job := NewAnalyticsDigestJob(&fakeBuilder{digest: digest}, nil, cfg, logger.Nop())
		assert.NoError(t, job.Run(context.Background()))
	})

	t.Run("build error", func(t *testing.T) {
		job := NewAnalyticsDigestJob(&fakeBuilder{err: errors.New("db down")}, &memStore{}, cfg, logger.Nop())
		assert.ErrorContains(t, job.Run(context.Background()), "build digest")
	})

	t.Run("store error", func(t *testing.T) {
		job := NewAnalyticsDigestJob(&fakeBuilder{digest: digest}, &memStore{err: errors.New("redis down")}, cfg, logger.Nop())
		assert.ErrorContains(t, job.Run(context.Background()), "store digest")
	})
}
