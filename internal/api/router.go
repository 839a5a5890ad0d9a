package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/wonny/soccer-analytics/internal/api/handlers"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Leagues *handlers.LeagueHandler
	Teams   *handlers.TeamHandler
	Players *handlers.PlayerHandler
	System  *handlers.SystemHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are configured in this function only
func NewRouter(h Handlers, corsOrigins []string, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	api.HandleFunc("/health/report", h.System.HealthReport).Methods("GET")
	api.HandleFunc("/digest", h.System.Digest).Methods("GET")

	// Leagues
	api.HandleFunc("/leagues", h.Leagues.ListLeagues).Methods("GET")
	api.HandleFunc("/leagues/metrics", h.Leagues.AllMetrics).Methods("GET")
	api.HandleFunc("/leagues/{id:[0-9]+}/metrics", h.Leagues.Metrics).Methods("GET")
	api.HandleFunc("/leagues/{id:[0-9]+}/table", h.Leagues.Table).Methods("GET")
	api.HandleFunc("/leagues/{id:[0-9]+}/averages", h.Leagues.Averages).Methods("GET")
	api.HandleFunc("/leagues/{id:[0-9]+}/power-rankings", h.Leagues.PowerRankings).Methods("GET")
	api.HandleFunc("/scorers", h.Leagues.TopScorers).Methods("GET")

	// Teams
	api.HandleFunc("/teams/{id:[0-9]+}/metrics", h.Teams.Metrics).Methods("GET")
	api.HandleFunc("/teams/{id:[0-9]+}/performance", h.Teams.Performance).Methods("GET")
	api.HandleFunc("/teams/{id:[0-9]+}/momentum", h.Teams.Momentum).Methods("GET")
	api.HandleFunc("/teams/{id:[0-9]+}/possession", h.Teams.Possession).Methods("GET")
	api.HandleFunc("/teams/{id:[0-9]+}/defense", h.Teams.Defense).Methods("GET")
	api.HandleFunc("/teams/{id:[0-9]+}/xg", h.Teams.ExpectedGoals).Methods("GET")
	api.HandleFunc("/teams/{id:[0-9]+}/head-to-head/{opponentId:[0-9]+}", h.Teams.HeadToHead).Methods("GET")

	// Players
	api.HandleFunc("/players/{id:[0-9]+}/stats", h.Players.Stats).Methods("GET")
	api.HandleFunc("/players/{id:[0-9]+}/form", h.Players.Form).Methods("GET")
	api.HandleFunc("/players/{id:[0-9]+}/efficiency", h.Players.Efficiency).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(rejectWrongMethod(r))
}

// rejectWrongMethod answers 405 when the path has a route but the method
// is not GET. mux alone falls back to 404 for paths under a subrouter.
func rejectWrongMethod(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodOptions {
			asGet := req.Clone(req.Context())
			asGet.Method = http.MethodGet
			var match mux.RouteMatch
			if router.Match(asGet, &match) && match.MatchErr == nil {
				methodNotAllowedHandler(w, req)
				return
			}
		}
		router.ServeHTTP(w, req)
	})
}

// methodNotAllowedHandler answers a known path requested with the wrong method
func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Allow", "GET, OPTIONS")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Method not allowed",
	})
}

// healthCheckHandler returns server liveness
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "soccer-analytics-api",
	})
}

// statusRecorder captures the status written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
