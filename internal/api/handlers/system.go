package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/health"
	"github.com/wonny/soccer-analytics/pkg/logger"
	"github.com/wonny/soccer-analytics/pkg/redis"
)

// Reporter produces a health report; *health.Checker satisfies it
type Reporter interface {
	Report(ctx context.Context) *health.Report
}

// DigestBuilder builds the cross-league digest; *scoring.Scorer satisfies it
type DigestBuilder interface {
	Digest(ctx context.Context, season *int, now time.Time) (*contracts.Digest, error)
}

// SystemHandler serves the health report and the analytics digest
type SystemHandler struct {
	checker Reporter
	digests DigestBuilder
	cache   Cache
	logger  *logger.Logger
}

// NewSystemHandler creates a new system handler. cache may be nil.
func NewSystemHandler(checker Reporter, digests DigestBuilder, cache Cache, log *logger.Logger) *SystemHandler {
	return &SystemHandler{
		checker: checker,
		digests: digests,
		cache:   cache,
		logger:  log,
	}
}

// HealthReport runs every check. An unhealthy system answers 503.
// GET /api/health/report
func (h *SystemHandler) HealthReport(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Report(r.Context())

	status := http.StatusOK
	if report.OverallStatus == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, report)
}

// Digest returns the digest stored by the scheduler, building one on a miss
// GET /api/digest
func (h *SystemHandler) Digest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached contracts.Digest
		hit, err := h.cache.Get(ctx, redis.DigestKey(), &cached)
		if err != nil {
			h.logger.WithError(err).Warn("Digest cache read failed")
		}
		if hit {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	digest, err := h.digests.Digest(ctx, nil, time.Now().UTC())
	if err != nil {
		respondFailure(w, h.logger, err, "build digest")
		return
	}
	logFailures(h.logger, "Digest", digest.Failures)
	respondJSON(w, http.StatusOK, digest)
}
