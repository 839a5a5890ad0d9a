package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/soccer-analytics/internal/api/handlers"
	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/health"
	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/internal/scoring"
	"github.com/wonny/soccer-analytics/internal/testutil"
	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

type memCache struct {
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

type fakeReporter struct {
	status health.Status
}

func (f *fakeReporter) Report(ctx context.Context) *health.Report {
	return &health.Report{OverallStatus: f.status}
}

type env struct {
	store    *testutil.Store
	cache    *memCache
	reporter *fakeReporter
	router   http.Handler

	league   *contracts.League
	ars, bre *contracts.Team
	saka     *contracts.Player
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.Nop()
	store := testutil.NewStore()

	league := store.AddLeague("Premier League")
	ars := store.AddTeam(league.ID, "Arsenal")
	bre := store.AddTeam(league.ID, "Brentford")
	saka := store.AddPlayer(ars.ID, "Saka", contracts.PositionOffence)

	kickoff := time.Date(2024, time.September, 1, 15, 0, 0, 0, time.UTC)
	m1 := store.AddMatch(league.ID, ars.ID, bre.ID, 2, 0, kickoff, 2024)
	m2 := store.AddMatch(league.ID, bre.ID, ars.ID, 1, 1, kickoff.AddDate(0, 0, 7), 2024)
	store.AddStats(contracts.PlayerStats{PlayerID: saka.ID, MatchID: m1.ID, Goals: 1, Assists: 1, MinutesPlayed: 90, ShotsTotal: 3, ShotsOnTarget: 2})
	store.AddStats(contracts.PlayerStats{PlayerID: saka.ID, MatchID: m2.ID, Goals: 1, MinutesPlayed: 90, ShotsTotal: 2, ShotsOnTarget: 1})
	store.AddStanding(contracts.TeamStats{TeamID: ars.ID, TeamName: "Arsenal", LeagueID: league.ID, Position: 1, Points: 4}, 2024)
	store.AddStanding(contracts.TeamStats{TeamID: bre.ID, TeamName: "Brentford", LeagueID: league.ID, Position: 2, Points: 1}, 2024)

	engine := metrics.NewEngine(store, log)
	scorer := scoring.NewScorer(store, engine, nil, log)
	cache := newMemCache()
	reporter := &fakeReporter{status: health.StatusHealthy}
	limits := config.AnalyticsConfig{DefaultLimit: 10, LeagueTableLimit: 20}

	router := NewRouter(Handlers{
		Leagues: handlers.NewLeagueHandler(store, engine, scorer, cache, limits, log),
		Teams:   handlers.NewTeamHandler(engine, scorer, log),
		Players: handlers.NewPlayerHandler(engine, scorer, log),
		System:  handlers.NewSystemHandler(reporter, scorer, cache, log),
	}, []string{"http://localhost:3000"}, log)

	return &env{
		store: store, cache: cache, reporter: reporter, router: router,
		league: league, ars: ars, bre: bre, saka: saka,
	}
}

func (e *env) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_StatusCodes(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"liveness", "/health", http.StatusOK},
		{"leagues", "/api/leagues", http.StatusOK},
		{"all league metrics", "/api/leagues/metrics?season=2024", http.StatusOK},
		{"league metrics", "/api/leagues/1/metrics", http.StatusOK},
		{"unknown league", "/api/leagues/999/metrics", http.StatusNotFound},
		{"zero id", "/api/leagues/0/metrics", http.StatusBadRequest},
		{"non numeric id", "/api/leagues/pl/metrics", http.StatusNotFound},
		{"bad season", "/api/leagues/1/table?season=soon", http.StatusBadRequest},
		{"bad limit", "/api/scorers?limit=0", http.StatusBadRequest},
		{"unknown scorer league", "/api/scorers?league=42", http.StatusNotFound},
		{"averages", "/api/leagues/1/averages", http.StatusOK},
		{"team metrics", "/api/teams/2/metrics", http.StatusOK},
		{"unknown team", "/api/teams/999/performance", http.StatusNotFound},
		{"possession", "/api/teams/2/possession", http.StatusOK},
		{"defense", "/api/teams/2/defense", http.StatusOK},
		{"xg", "/api/teams/2/xg", http.StatusOK},
		{"bad last", "/api/teams/2/momentum?last=-1", http.StatusBadRequest},
		{"player efficiency", "/api/players/4/efficiency", http.StatusOK},
		{"bad detailed", "/api/players/4/stats?detailed=maybe", http.StatusBadRequest},
		{"unknown player", "/api/players/999/form", http.StatusNotFound},
		{"wrong method", "/api/leagues", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodGet
			if tt.want == http.StatusMethodNotAllowed {
				method = http.MethodPost
			}
			req := httptest.NewRequest(method, tt.path, nil)
			rec := httptest.NewRecorder()
			e.router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_WrongMethod(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"post to api list", http.MethodPost, "/api/leagues", http.StatusMethodNotAllowed},
		{"delete on nested route", http.MethodDelete, "/api/teams/2/metrics", http.StatusMethodNotAllowed},
		{"put with two vars", http.MethodPut, "/api/teams/2/head-to-head/3", http.StatusMethodNotAllowed},
		{"post to liveness", http.MethodPost, "/health", http.StatusMethodNotAllowed},
		{"post to unknown path", http.MethodPost, "/api/nowhere", http.StatusNotFound},
		{"post with bad id", http.MethodPost, "/api/leagues/pl/metrics", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			e.router.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusMethodNotAllowed {
				assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Allow"))
				body := decode[map[string]string](t, rec)
				assert.Equal(t, "Method not allowed", body["error"])
			}
		})
	}
}

func TestRouter_LeagueTable(t *testing.T) {
	e := newEnv(t)

	rec := e.get(t, "/api/leagues/1/table?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decode[[]contracts.StandingRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "Arsenal", rows[0].TeamName)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRouter_TopScorers(t *testing.T) {
	e := newEnv(t)

	rec := e.get(t, "/api/scorers?league=1")
	require.Equal(t, http.StatusOK, rec.Code)

	scorers := decode[[]contracts.TopScorer](t, rec)
	require.Len(t, scorers, 1)
	assert.Equal(t, e.saka.ID, scorers[0].PlayerID)
	assert.Equal(t, 2, scorers[0].Goals)
}

func TestRouter_HeadToHead(t *testing.T) {
	e := newEnv(t)

	rec := e.get(t, "/api/teams/2/head-to-head/3")
	require.Equal(t, http.StatusOK, rec.Code)

	h2h := decode[map[string]interface{}](t, rec)
	assert.EqualValues(t, 2, h2h["total_matches"])

	rec = e.get(t, "/api/teams/2/head-to-head/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PlayerStatsDetailed(t *testing.T) {
	e := newEnv(t)

	rec := e.get(t, "/api/players/4/stats?detailed=true")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]interface{}](t, rec)
	assert.EqualValues(t, 2, body["matches_played"])
	assert.Contains(t, body, "detailed_stats")
}

func TestRouter_PowerRankingsCached(t *testing.T) {
	e := newEnv(t)

	first := e.get(t, "/api/leagues/1/power-rankings")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, e.cache.sets)

	batch := decode[contracts.Batch[contracts.PowerRanking]](t, first)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, e.ars.ID, batch.Items[0].TeamID)
	assert.Equal(t, 1, batch.Items[0].Rank)

	second := e.get(t, "/api/leagues/1/power-rankings")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, e.cache.sets)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// a different season is a different key
	e.get(t, "/api/leagues/1/power-rankings?season=2024")
	assert.Equal(t, 2, e.cache.sets)
}

func TestRouter_HealthReport(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusOK, e.get(t, "/api/health/report").Code)

	e.reporter.status = health.StatusDegraded
	assert.Equal(t, http.StatusOK, e.get(t, "/api/health/report").Code)

	e.reporter.status = health.StatusUnhealthy
	rec := e.get(t, "/api/health/report")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decode[map[string]interface{}](t, rec)["overall_status"])
}

func TestRouter_Digest(t *testing.T) {
	e := newEnv(t)

	rec := e.get(t, "/api/digest")
	require.Equal(t, http.StatusOK, rec.Code)
	live := decode[contracts.Digest](t, rec)
	require.Len(t, live.Leagues, 1)
	assert.Equal(t, "Premier League", live.Leagues[0].LeagueName)

	stored := contracts.Digest{Leagues: []contracts.LeagueDigest{{LeagueID: 7, LeagueName: "Cached"}}}
	require.NoError(t, e.cache.Set(context.Background(), "analytics:digest", stored, time.Hour))

	cached := decode[contracts.Digest](t, e.get(t, "/api/digest"))
	require.Len(t, cached.Leagues, 1)
	assert.Equal(t, "Cached", cached.Leagues[0].LeagueName)
}

func TestRouter_CORS(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/leagues", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/leagues", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
