// Package scoring derives composite and predictive scores (momentum,
// head-to-head, player form, per-90 efficiency, possession, defensive
// volume, expected goals and power rankings) on top of the metrics engine.
package scoring

import (
	"context"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/analyticsconfig"
	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// DefaultHeadToHeadWindow is the number of meetings analyzed by default
const DefaultHeadToHeadWindow = 10

// Scorer computes advanced scores. It only reads from the store.
// ⭐ SSOT: composite football scores are computed here only
type Scorer struct {
	repo    contracts.StatsReader
	metrics *metrics.Engine
	cfg     *analyticsconfig.Config
	logger  *logger.Logger
}

// NewScorer creates a scorer. A nil cfg uses analyticsconfig.Default().
func NewScorer(repo contracts.StatsReader, engine *metrics.Engine, cfg *analyticsconfig.Config, log *logger.Logger) *Scorer {
	if cfg == nil {
		cfg = analyticsconfig.Default()
	}
	return &Scorer{
		repo:    repo,
		metrics: engine,
		cfg:     cfg,
		logger:  log.Module("scoring"),
	}
}

// Config returns the weights in use
func (s *Scorer) Config() *analyticsconfig.Config {
	return s.cfg
}

func (s *Scorer) requireTeam(ctx context.Context, teamID int64) (*contracts.Team, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// teamLines returns the stat lines of players currently on the team.
// Lines of unfinished matches are excluded.
func (s *Scorer) teamLines(ctx context.Context, teamID int64, season *int) ([]*contracts.PlayerStatLine, error) {
	if _, err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}
	lines, err := s.repo.ListPlayerStats(ctx, contracts.PlayerStatsFilter{
		TeamID:       &teamID,
		Season:       season,
		FinishedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list team player stats: %w", err)
	}
	return lines, nil
}

func distinctMatches(lines []*contracts.PlayerStatLine) int {
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		seen[l.MatchID] = struct{}{}
	}
	return len(seen)
}
