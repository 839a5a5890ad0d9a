package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

func TestQuerySeason(t *testing.T) {
	tests := []struct {
		query   string
		want    *int
		wantErr bool
	}{
		{"", nil, false},
		{"season=2023", intPtr(2023), false},
		{"season=23", nil, true},
		{"season=next", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := querySeason(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryPositive(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&last=0", nil)

	n, err := queryPositive(r, "limit", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = queryPositive(r, "missing", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = queryPositive(r, "last", 10)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := pathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = pathID(r, "opponentId")
	assert.Error(t, err)
}

func TestRespondFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	respondFailure(rec, logger.Nop(), fmt.Errorf("get team: %w", contracts.NewNotFound("team", 9)), "load team")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"get team: team 9 not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	respondFailure(rec, logger.Nop(), errors.New("connection reset"), "load team")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load team"}`, rec.Body.String())
}

func intPtr(v int) *int { return &v }
