package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/wonny/soccer-analytics/internal/analyticsconfig"
	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/metrics"
)

// PowerScore combines a team's record and momentum into a score clamped
// to [0, w.ScoreMax]
func PowerScore(w analyticsconfig.PowerWeights, pointsPerGame float64, goalDifference int, momentum, winRate float64) float64 {
	pointsFactor := pointsPerGame * w.PointsPerGame
	goalDiffFactor := metrics.Clamp(float64(goalDifference)/w.GoalDiffDivisor, -w.GoalDiffCap, w.GoalDiffCap)
	momentumFactor := momentum * w.Momentum
	winRateFactor := math.Min(winRate*w.WinRate, w.WinRateCap)

	return metrics.Clamp(pointsFactor+goalDiffFactor+momentumFactor+winRateFactor, 0, w.ScoreMax)
}

// PowerRankings ranks the league's teams by power score. Teams without
// finished matches in scope are left out. A team whose inputs cannot be
// read lands in Failures and the rest are still ranked.
func (s *Scorer) PowerRankings(ctx context.Context, leagueID int64, season *int) (*contracts.Batch[contracts.PowerRanking], error) {
	if _, err := s.repo.GetLeague(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}

	teams, err := s.repo.ListTeams(ctx, &leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league teams: %w", err)
	}

	batch := &contracts.Batch[contracts.PowerRanking]{Items: []contracts.PowerRanking{}}
	for _, team := range teams {
		ranking, ok, err := s.powerRanking(ctx, team, season)
		if err != nil {
			batch.Fail(team.ID, team.Name, err)
			continue
		}
		if ok {
			batch.Add(ranking)
		}
	}

	sort.SliceStable(batch.Items, func(i, j int) bool {
		return batch.Items[i].PowerScore > batch.Items[j].PowerScore
	})
	for i := range batch.Items {
		batch.Items[i].Rank = i + 1
	}

	s.logger.WithFields(map[string]interface{}{
		"league_id": leagueID,
		"ranked":    len(batch.Items),
		"failed":    len(batch.Failures),
	}).Debug("Calculated power rankings")

	return batch, nil
}

func (s *Scorer) powerRanking(ctx context.Context, team *contracts.Team, season *int) (contracts.PowerRanking, bool, error) {
	tm, err := s.metrics.TeamMetrics(ctx, team.ID, season)
	if err != nil {
		return contracts.PowerRanking{}, false, err
	}
	if tm.MatchesPlayed == 0 || tm.TeamRecord == nil {
		return contracts.PowerRanking{}, false, nil
	}

	momentum, err := s.Momentum(ctx, team.ID, s.cfg.Windows.Momentum)
	if err != nil {
		return contracts.PowerRanking{}, false, err
	}

	return contracts.PowerRanking{
		TeamID:         team.ID,
		TeamName:       team.Name,
		PowerScore:     PowerScore(s.cfg.Power, tm.PointsPerGame, tm.GoalDifference, momentum.MomentumScore, tm.WinRate),
		PointsPerGame:  tm.PointsPerGame,
		GoalDifference: tm.GoalDifference,
		MomentumScore:  momentum.MomentumScore,
		WinRate:        tm.WinRate,
		MatchesPlayed:  tm.MatchesPlayed,
	}, true, nil
}
