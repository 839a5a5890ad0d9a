package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// maxSeason bounds the season query parameter
const maxSeason = 2100

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondFailure maps an engine error to a status: missing entities are
// 404, anything else is logged and reported as 500
func respondFailure(w http.ResponseWriter, log *logger.Logger, err error, what string) {
	if contracts.IsNotFound(err) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	log.WithError(err).Error("Failed to " + what)
	respondError(w, http.StatusInternalServerError, "Failed to "+what)
}

// logFailures logs the failed entities of a batch
func logFailures(log *logger.Logger, what string, failures []contracts.ItemFailure) {
	for _, f := range failures {
		log.WithFields(map[string]interface{}{
			"id":    f.ID,
			"name":  f.Name,
			"error": f.Error,
		}).Warn(what + " failed for entity")
	}
}

// pathID reads a positive integer path variable
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// querySeason reads ?season=YYYY; absent means all seasons
func querySeason(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		return nil, nil
	}
	season, err := strconv.Atoi(raw)
	if err != nil || season < 1900 || season > maxSeason {
		return nil, fmt.Errorf("invalid season: %q", raw)
	}
	return &season, nil
}

// queryPositive reads a positive integer parameter, falling back to def
func queryPositive(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}

// queryBool reads a boolean flag such as ?detailed=true
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}
