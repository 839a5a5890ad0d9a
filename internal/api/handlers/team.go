package handlers

import (
	"net/http"

	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/internal/scoring"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// TeamHandler handles team analytics endpoints
type TeamHandler struct {
	engine *metrics.Engine
	scorer *scoring.Scorer
	logger *logger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(engine *metrics.Engine, scorer *scoring.Scorer, log *logger.Logger) *TeamHandler {
	return &TeamHandler{
		engine: engine,
		scorer: scorer,
		logger: log,
	}
}

// teamParams reads {id} and ?season
func (h *TeamHandler) teamParams(w http.ResponseWriter, r *http.Request) (int64, *int, bool) {
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

// Metrics returns the team's record
// GET /api/teams/{id}/metrics?season=2024
func (h *TeamHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.teamParams(w, r)
	if !ok {
		return
	}
	m, err := h.engine.TeamMetrics(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate team metrics")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// Performance returns the record with form and home/away splits
// GET /api/teams/{id}/performance?season=2024
func (h *TeamHandler) Performance(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.teamParams(w, r)
	if !ok {
		return
	}
	p, err := h.engine.TeamPerformance(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate team performance")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Momentum scores the latest results
// GET /api/teams/{id}/momentum?last=5
func (h *TeamHandler) Momentum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	last, err := queryPositive(r, "last", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.scorer.Momentum(r.Context(), id, last)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate momentum")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// HeadToHead compares the team with an opponent over their meetings
// GET /api/teams/{id}/head-to-head/{opponentId}?last=10
func (h *TeamHandler) HeadToHead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	opponent, err := pathID(r, "opponentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	last, err := queryPositive(r, "last", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h2h, err := h.scorer.HeadToHead(r.Context(), id, opponent, last)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate head-to-head")
		return
	}
	respondJSON(w, http.StatusOK, h2h)
}

// Possession returns passing volume per match
// GET /api/teams/{id}/possession?season=2024
func (h *TeamHandler) Possession(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.teamParams(w, r)
	if !ok {
		return
	}
	p, err := h.scorer.Possession(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate possession")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Defense returns defensive actions per match
// GET /api/teams/{id}/defense?season=2024
func (h *TeamHandler) Defense(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.teamParams(w, r)
	if !ok {
		return
	}
	d, err := h.scorer.Defensive(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate defensive metrics")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// ExpectedGoals returns the simplified xG model
// GET /api/teams/{id}/xg?season=2024
func (h *TeamHandler) ExpectedGoals(w http.ResponseWriter, r *http.Request) {
	id, season, ok := h.teamParams(w, r)
	if !ok {
		return
	}
	xg, err := h.scorer.ExpectedGoals(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate expected goals")
		return
	}
	respondJSON(w, http.StatusOK, xg)
}
