package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/httputil"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.Nop()
	hc := httputil.New(&config.Config{}, log).DisableRetry()
	return NewClient(hc, "secret", srv.URL, log)
}

func TestClient_Competitions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions", r.URL.Path)
		assert.Equal(t, "TIER_ONE", r.URL.Query().Get("plan"))
		assert.Equal(t, "secret", r.Header.Get("X-Auth-Token"))
		_, _ = w.Write([]byte(`{"count":1,"competitions":[{"id":2021,"name":"Premier League","code":"PL",
			"area":{"name":"England","code":"ENG"},
			"currentSeason":{"startDate":"2024-08-16","endDate":"2025-05-25"}}]}`))
	})

	comps, err := c.Competitions(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, int64(2021), comps[0].ID)
	assert.Equal(t, "England", comps[0].Area.Name)
	require.NotNil(t, comps[0].CurrentSeason)
	assert.Equal(t, "2024-08-16", comps[0].CurrentSeason.StartDate)
}

func TestClient_CompetitionMatchesParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions/2021/matches", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2024", q.Get("season"))
		assert.Equal(t, "2024-09-01", q.Get("dateFrom"))
		assert.Equal(t, "2024-09-08", q.Get("dateTo"))
		_, _ = w.Write([]byte(`{"matches":[{"id":1,"utcDate":"2024-09-01T15:00:00Z","status":"FINISHED",
			"homeTeam":{"id":57},"awayTeam":{"id":61},"competition":{"id":2021},
			"score":{"winner":"HOME_TEAM","fullTime":{"home":2,"away":1}}}]}`))
	})

	season := 2024
	from := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	matches, err := c.CompetitionMatches(context.Background(), 2021, &season, &from, &to)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].Score.FullTime.Home)
	assert.Equal(t, 2, *matches[0].Score.FullTime.Home)
	assert.Nil(t, matches[0].Score.HalfTime.Home)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrRateLimited)
		}},
		{"forbidden", http.StatusForbidden, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrForbidden)
		}},
		{"other", http.StatusNotFound, func(t *testing.T, err error) {
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
			assert.Contains(t, apiErr.Body, "missing")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"missing"}`))
			})
			_, err := c.Team(context.Background(), 57)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	_, err := c.Standings(context.Background(), 2021, nil)
	assert.Error(t, err)
}

func TestClient_RecentMatchesWindow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches", r.URL.Path)
		assert.Equal(t, "2024-10-08", r.URL.Query().Get("dateFrom"))
		assert.Equal(t, "2024-10-15", r.URL.Query().Get("dateTo"))
		_, _ = w.Write([]byte(`{"matches":[]}`))
	})

	now := time.Date(2024, time.October, 15, 12, 0, 0, 0, time.UTC)
	matches, err := c.RecentMatches(context.Background(), now, 7)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCompetitionID(t *testing.T) {
	tests := []struct {
		name string
		want int64
		ok   bool
	}{
		{"PREMIER_LEAGUE", 2021, true},
		{"premier_league", 2021, true},
		{"la-liga", 2014, true},
		{"champions_league", 2001, true},
		{"MLS", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := CompetitionID(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}

	assert.Len(t, CompetitionNames(), len(MajorCompetitions))
}
