// Package metrics derives descriptive league, team and player statistics
// from stored matches and player stat lines.
package metrics

import (
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

const (
	// DefaultFormWindow is the number of results in a form string
	DefaultFormWindow = 5
	// DefaultTableLimit caps league table rows
	DefaultTableLimit = 20
	// HighScoringThreshold is the total goals at which a match counts as high-scoring
	HighScoringThreshold = 3
)

// Engine computes descriptive aggregates. It only reads from the store.
// ⭐ SSOT: descriptive football metrics are computed here only
type Engine struct {
	repo       contracts.StatsReader
	logger     *logger.Logger
	now        func() time.Time
	formWindow int
}

// Option customizes an Engine
type Option func(*Engine)

// WithClock overrides the clock used for player ages
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithFormWindow overrides the number of results in a form string
func WithFormWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.formWindow = n
		}
	}
}

// NewEngine creates a metrics engine over a read scope
func NewEngine(repo contracts.StatsReader, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		repo:       repo,
		logger:     log.Module("metrics"),
		now:        time.Now,
		formWindow: DefaultFormWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
