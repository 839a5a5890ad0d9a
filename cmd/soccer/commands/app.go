package commands

import (
	"context"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/analyticsconfig"
	"github.com/wonny/soccer-analytics/internal/external/footballdata"
	"github.com/wonny/soccer-analytics/internal/health"
	"github.com/wonny/soccer-analytics/internal/ingest"
	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/internal/scoring"
	"github.com/wonny/soccer-analytics/internal/store"
	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/database"
	"github.com/wonny/soccer-analytics/pkg/httputil"
	"github.com/wonny/soccer-analytics/pkg/logger"
	"github.com/wonny/soccer-analytics/pkg/redis"
)

// cachePrefix namespaces every Redis key of this system
const cachePrefix = "soccer"

// app holds the wired dependencies shared by the commands
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	store  *store.Store
	redis  *redis.Client
	cache  *redis.Cache
	engine *metrics.Engine
	scorer *scoring.Scorer

	// api is nil without an API key
	api *footballdata.Client
}

// loadConfig reads the configuration and applies global flags
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// newApp connects to the database and Redis and builds the engines
func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	weights, err := analyticsconfig.LoadOrDefault(cfg.Analytics.WeightsFile)
	if err != nil {
		return nil, fmt.Errorf("load analytics weights: %w", err)
	}
	// the env window applies unless a weights file sets its own
	if cfg.Analytics.WeightsFile == "" {
		weights.Windows.Momentum = cfg.Analytics.MomentumWindow
	}
	if hash, err := analyticsconfig.Hash(weights); err == nil {
		log.WithField("weights_hash", hash).Debug("Analytics weights loaded")
	}

	db, err := database.NewWithContext(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rc, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache and shared rate limit")
		rc = redis.Disabled()
	}

	st := store.New(db.Pool, log)
	engine := metrics.NewEngine(st, log, metrics.WithFormWindow(cfg.Analytics.FormWindow))

	a := &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  st,
		redis:  rc,
		cache:  redis.NewCache(rc, cachePrefix),
		engine: engine,
		scorer: scoring.NewScorer(st, engine, weights, log),
	}

	if cfg.HasAPIKey() {
		httpClient := httputil.New(cfg, log).
			WithRequestsPerMinute(cfg.FootballData.RateLimitPerMinute).
			WithRateLimiter(redis.NewRateLimiter(rc, cachePrefix), redis.FootballDataRateLimit(cfg.FootballData.RateLimitPerMinute))
		a.api = footballdata.NewClient(httpClient, cfg.FootballData.APIKey, cfg.FootballData.BaseURL, log)
	}

	return a, nil
}

// close releases connections
func (a *app) close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close Redis")
	}
	a.db.Close()
}

// requireAPI fails when no API key is configured
func (a *app) requireAPI() (*footballdata.Client, error) {
	if a.api == nil {
		return nil, fmt.Errorf("FOOTBALL_DATA_API_KEY is not set")
	}
	return a.api, nil
}

// fetcher builds the ingestion pipeline
func (a *app) fetcher() (*ingest.Fetcher, error) {
	api, err := a.requireAPI()
	if err != nil {
		return nil, err
	}
	return ingest.NewFetcher(api, ingest.NewLoader(a.store, a.log), a.store, a.log), nil
}

// checker builds the health checker; the API check is skipped without a key
func (a *app) checker() *health.Checker {
	if a.api == nil {
		return health.NewChecker(a.store, nil, a.log)
	}
	return health.NewChecker(a.store, a.api, a.log)
}
