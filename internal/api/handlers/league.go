package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/internal/scoring"
	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
	"github.com/wonny/soccer-analytics/pkg/redis"
)

// Cache is the read-through cache used for expensive results;
// *redis.Cache satisfies it
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// LeagueHandler handles league-wide analytics endpoints
// ⭐ SSOT: league API handlers live in this struct only
type LeagueHandler struct {
	leagues contracts.LeagueReader
	engine  *metrics.Engine
	scorer  *scoring.Scorer
	cache   Cache
	limits  config.AnalyticsConfig
	logger  *logger.Logger
}

// NewLeagueHandler creates a new league handler. cache may be nil.
func NewLeagueHandler(
	leagues contracts.LeagueReader,
	engine *metrics.Engine,
	scorer *scoring.Scorer,
	cache Cache,
	limits config.AnalyticsConfig,
	log *logger.Logger,
) *LeagueHandler {
	return &LeagueHandler{
		leagues: leagues,
		engine:  engine,
		scorer:  scorer,
		cache:   cache,
		limits:  limits,
		logger:  log,
	}
}

// ListLeagues returns every stored league
// GET /api/leagues
func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.leagues.ListLeagues(r.Context())
	if err != nil {
		respondFailure(w, h.logger, err, "list leagues")
		return
	}
	if leagues == nil {
		leagues = []*contracts.League{}
	}
	respondJSON(w, http.StatusOK, leagues)
}

// AllMetrics returns metrics for every league; failed leagues are listed
// under "failures"
// GET /api/leagues/metrics?season=2024
func (h *LeagueHandler) AllMetrics(w http.ResponseWriter, r *http.Request) {
	season, err := querySeason(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.engine.AllLeagueMetrics(r.Context(), season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate league metrics")
		return
	}
	logFailures(h.logger, "League metrics", batch.Failures)
	respondJSON(w, http.StatusOK, batch)
}

// Metrics returns one league's metrics
// GET /api/leagues/{id}/metrics?season=2024
func (h *LeagueHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.leagueParams(w, r)
	if !ok {
		return
	}

	m, err := h.engine.LeagueMetrics(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate league metrics")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// Table returns the stored standings
// GET /api/leagues/{id}/table?season=2024&limit=20
func (h *LeagueHandler) Table(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.leagueParams(w, r)
	if !ok {
		return
	}
	limit, err := queryPositive(r, "limit", h.limits.LeagueTableLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := h.engine.LeagueTable(r.Context(), id, season, limit)
	if err != nil {
		respondFailure(w, h.logger, err, "load league table")
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// Averages returns the league's mean per-team rates
// GET /api/leagues/{id}/averages?season=2024
func (h *LeagueHandler) Averages(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.leagueParams(w, r)
	if !ok {
		return
	}

	avg, err := h.engine.LeagueAverages(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate league averages")
		return
	}
	logFailures(h.logger, "League averages", avg.Failures)
	respondJSON(w, http.StatusOK, avg)
}

// PowerRankings ranks the league's teams, cached for redis.TTLMedium
// GET /api/leagues/{id}/power-rankings?season=2024
func (h *LeagueHandler) PowerRankings(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.leagueParams(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	key := redis.PowerRankingsKey(id, season)

	if h.cache != nil {
		var cached contracts.Batch[contracts.PowerRanking]
		hit, err := h.cache.Get(ctx, key, &cached)
		if err != nil {
			h.logger.WithError(err).Warn("Power rankings cache read failed")
		}
		if hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	batch, err := h.scorer.PowerRankings(ctx, id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate power rankings")
		return
	}
	logFailures(h.logger, "Power ranking", batch.Failures)

	// partial results are not cached
	if h.cache != nil && !batch.HasFailures() {
		if err := h.cache.Set(ctx, key, batch, redis.TTLMedium); err != nil {
			h.logger.WithError(err).Warn("Power rankings cache write failed")
		}
	}
	respondJSON(w, http.StatusOK, batch)
}

// TopScorers returns the scorers chart, optionally for one league
// GET /api/scorers?league=1&season=2024&limit=10
func (h *LeagueHandler) TopScorers(w http.ResponseWriter, r *http.Request) {
	season, err := querySeason(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryPositive(r, "limit", h.limits.DefaultLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var leagueID *int64
	if raw := r.URL.Query().Get("league"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid league: "+strconv.Quote(raw))
			return
		}
		if _, err := h.leagues.GetLeague(r.Context(), id); err != nil {
			respondFailure(w, h.logger, err, "load league")
			return
		}
		leagueID = &id
	}

	scorers, err := h.engine.TopScorers(r.Context(), leagueID, season, limit)
	if err != nil {
		respondFailure(w, h.logger, err, "load top scorers")
		return
	}
	respondJSON(w, http.StatusOK, scorers)
}

func (h *LeagueHandler) leagueParams(w http.ResponseWriter, r *http.Request) (int64, *int, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return 0, nil, false
	}
	season, err := querySeason(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return 0, nil, false
	}
	return id, season, true
}
