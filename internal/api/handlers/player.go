package handlers

import (
	"net/http"

	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/internal/scoring"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// PlayerHandler handles player analytics endpoints
type PlayerHandler struct {
	engine *metrics.Engine
	scorer *scoring.Scorer
	logger *logger.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(engine *metrics.Engine, scorer *scoring.Scorer, log *logger.Logger) *PlayerHandler {
	return &PlayerHandler{
		engine: engine,
		scorer: scorer,
		logger: log,
	}
}

// Stats returns season totals, with accuracies when detailed
// GET /api/players/{id}/stats?season=2024&detailed=true
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	season, err := querySeason(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	detailed, err := queryBool(r, "detailed")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.engine.PlayerStats(r.Context(), id, season, detailed)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate player stats")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Form rates the latest appearances
// GET /api/players/{id}/form?last=5
func (h *PlayerHandler) Form(w http.ResponseWriter, r *http.Request) {
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

	f, err := h.scorer.PlayerForm(r.Context(), id, last)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate player form")
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// Efficiency returns per-90 rates
// GET /api/players/{id}/efficiency?season=2024
func (h *PlayerHandler) Efficiency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	season, err := querySeason(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.scorer.PlayerEfficiency(r.Context(), id, season)
	if err != nil {
		respondFailure(w, h.logger, err, "calculate player efficiency")
		return
	}
	respondJSON(w, http.StatusOK, e)
}
