// Package health checks the store, the upstream API and data freshness.
package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/external/footballdata"
	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// Status is the outcome of a check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

const (
	// DefaultSlowAPIThreshold marks the upstream as degraded when exceeded
	DefaultSlowAPIThreshold = 10 * time.Second
	// DefaultFreshnessWindow is how old match and standings data may get
	DefaultFreshnessWindow = 24 * time.Hour
)

// ExpectedTables are the entity tables a healthy store reports counts for
var ExpectedTables = []string{"leagues", "teams", "players", "matches", "player_stats", "team_stats"}

// DatabaseCheck reports store connectivity and record counts
type DatabaseCheck struct {
	Status       Status           `json:"status"`
	Connection   bool             `json:"connection"`
	TablesExist  bool             `json:"tables_exist"`
	RecordCounts map[string]int64 `json:"record_counts"`
	Errors       []string         `json:"errors"`
}

// APICheck reports upstream reachability and latency
type APICheck struct {
	Status            Status   `json:"status"`
	Connection        bool     `json:"connection"`
	RateLimitOK       bool     `json:"rate_limit_ok"`
	CompetitionsCount int      `json:"competitions_count"`
	ResponseTime      *float64 `json:"response_time,omitempty"`
	Errors            []string `json:"errors"`
}

// FreshnessCheck reports how recently matches and standings were updated
type FreshnessCheck struct {
	Status                    Status     `json:"status"`
	LastMatchUpdate           *time.Time `json:"last_match_update,omitempty"`
	LastStandingsUpdate       *time.Time `json:"last_standings_update,omitempty"`
	HoursSinceMatchUpdate     *float64   `json:"hours_since_match_update,omitempty"`
	HoursSinceStandingsUpdate *float64   `json:"hours_since_standings_update,omitempty"`
	IsFresh                   bool       `json:"is_fresh"`
	Errors                    []string   `json:"errors"`
}

// Report aggregates all checks
type Report struct {
	Timestamp     time.Time      `json:"timestamp"`
	Database      DatabaseCheck  `json:"database"`
	API           APICheck       `json:"api"`
	DataFreshness FreshnessCheck `json:"data_freshness"`
	OverallStatus Status         `json:"overall_status"`
}

// Statuses returns the component statuses keyed by component name
func (r *Report) Statuses() map[string]Status {
	return map[string]Status{
		"database":       r.Database.Status,
		"api":            r.API.Status,
		"data_freshness": r.DataFreshness.Status,
	}
}

// Upstream lists competitions upstream; *footballdata.Client satisfies it
type Upstream interface {
	Competitions(ctx context.Context, plan string) ([]footballdata.Competition, error)
}

// Checker runs health checks
type Checker struct {
	store  contracts.StoreStatus
	api    Upstream
	logger *logger.Logger
	now    func() time.Time

	slowAPI   time.Duration
	freshness time.Duration
}

// Option customizes a Checker
type Option func(*Checker)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// WithSlowAPIThreshold overrides DefaultSlowAPIThreshold
func WithSlowAPIThreshold(d time.Duration) Option {
	return func(c *Checker) { c.slowAPI = d }
}

// WithFreshnessWindow overrides DefaultFreshnessWindow
func WithFreshnessWindow(d time.Duration) Option {
	return func(c *Checker) { c.freshness = d }
}

// NewChecker creates a checker. api may be nil when no API key is configured.
func NewChecker(store contracts.StoreStatus, api Upstream, log *logger.Logger, opts ...Option) *Checker {
	c := &Checker{
		store:     store,
		api:       api,
		logger:    log.Module("health"),
		now:       time.Now,
		slowAPI:   DefaultSlowAPIThreshold,
		freshness: DefaultFreshnessWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckDatabase pings the store and counts records per table
func (c *Checker) CheckDatabase(ctx context.Context) DatabaseCheck {
	res := DatabaseCheck{Status: StatusUnknown, RecordCounts: map[string]int64{}, Errors: []string{}}

	if err := c.store.Ping(ctx); err != nil {
		res.Status = StatusUnhealthy
		res.Errors = append(res.Errors, fmt.Sprintf("Database connection failed: %v", err))
		return res
	}
	res.Connection = true

	counts, err := c.store.CountRecords(ctx)
	if err != nil {
		res.Status = StatusDegraded
		res.Errors = append(res.Errors, fmt.Sprintf("Record count failed: %v", err))
		return res
	}

	res.TablesExist = true
	for _, table := range ExpectedTables {
		n, ok := counts[table]
		if !ok {
			res.TablesExist = false
			res.Errors = append(res.Errors, fmt.Sprintf("Table %s missing", table))
			continue
		}
		res.RecordCounts[table] = n
	}

	res.Status = StatusHealthy
	if !res.TablesExist {
		res.Status = StatusDegraded
	}
	return res
}

// CheckAPI calls the competitions endpoint and times it
func (c *Checker) CheckAPI(ctx context.Context) APICheck {
	res := APICheck{Status: StatusUnknown, RateLimitOK: true, Errors: []string{}}
	if c.api == nil {
		res.Errors = append(res.Errors, "API key not configured")
		return res
	}

	start := c.now()
	comps, err := c.api.Competitions(ctx, footballdata.DefaultPlan)
	elapsed := c.now().Sub(start)

	if err != nil {
		res.Status = StatusUnhealthy
		switch {
		case errors.Is(err, footballdata.ErrRateLimited):
			res.RateLimitOK = false
			res.Errors = append(res.Errors, "API rate limit exceeded")
		case errors.Is(err, footballdata.ErrForbidden):
			res.Errors = append(res.Errors, "Invalid API key")
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("API error: %v", err))
		}
		return res
	}

	secs := metrics.Round(elapsed.Seconds(), 2)
	res.ResponseTime = &secs
	res.Connection = true
	res.CompetitionsCount = len(comps)

	res.Status = StatusHealthy
	if elapsed > c.slowAPI {
		res.Status = StatusDegraded
		res.Errors = append(res.Errors, fmt.Sprintf("Slow API response: %.2fs", secs))
	}
	return res
}

// CheckFreshness compares the latest match and standings updates to the window.
// Both fresh is healthy, one fresh is degraded, neither is unhealthy.
func (c *Checker) CheckFreshness(ctx context.Context) FreshnessCheck {
	res := FreshnessCheck{Status: StatusUnknown, Errors: []string{}}

	f, err := c.store.Freshness(ctx)
	if err != nil {
		res.Status = StatusUnhealthy
		res.Errors = append(res.Errors, fmt.Sprintf("Data freshness check error: %v", err))
		return res
	}

	now := c.now()
	res.LastMatchUpdate = f.MatchesUpdatedAt
	res.LastStandingsUpdate = f.StandingsUpdatedAt
	res.HoursSinceMatchUpdate = hoursSince(now, f.MatchesUpdatedAt)
	res.HoursSinceStandingsUpdate = hoursSince(now, f.StandingsUpdatedAt)

	window := c.freshness.Hours()
	matchFresh := res.HoursSinceMatchUpdate != nil && *res.HoursSinceMatchUpdate < window
	standingsFresh := res.HoursSinceStandingsUpdate != nil && *res.HoursSinceStandingsUpdate < window
	res.IsFresh = matchFresh && standingsFresh

	switch {
	case res.IsFresh:
		res.Status = StatusHealthy
	case matchFresh || standingsFresh:
		res.Status = StatusDegraded
		res.Errors = append(res.Errors, "Some data is stale")
	default:
		res.Status = StatusUnhealthy
		res.Errors = append(res.Errors, "All data is stale")
	}
	return res
}

// Report runs every check and derives the overall status
func (c *Checker) Report(ctx context.Context) *Report {
	r := &Report{
		Timestamp:     c.now(),
		Database:      c.CheckDatabase(ctx),
		API:           c.CheckAPI(ctx),
		DataFreshness: c.CheckFreshness(ctx),
	}
	r.OverallStatus = Overall(r.Database.Status, r.API.Status, r.DataFreshness.Status)

	c.logger.WithFields(map[string]interface{}{
		"overall":        r.OverallStatus,
		"database":       r.Database.Status,
		"api":            r.API.Status,
		"data_freshness": r.DataFreshness.Status,
	}).Info("Health check completed")

	return r
}

// Overall is healthy when every status is, unhealthy when any is, and
// degraded otherwise
func Overall(statuses ...Status) Status {
	allHealthy := true
	for _, s := range statuses {
		if s == StatusUnhealthy {
			return StatusUnhealthy
		}
		if s != StatusHealthy {
			allHealthy = false
		}
	}
	if allHealthy {
		return StatusHealthy
	}
	return StatusDegraded
}

func hoursSince(now time.Time, t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	h := metrics.Round(now.Sub(*t).Hours(), 1)
	return &h
}
