package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// Digest summarizes every stored league: its headline metrics, the team on
// top of the power rankings and the leading scorer. A league whose rankings
// or scorers cannot be read is reported in Failures and keeps its metrics.
// Teams left out of a league's rankings are reported there as well.
func (s *Scorer) Digest(ctx context.Context, season *int, now time.Time) (*contracts.Digest, error) {
	all, err := s.metrics.AllLeagueMetrics(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("league metrics: %w", err)
	}

	digest := &contracts.Digest{
		GeneratedAt: now,
		SeasonYear:  season,
		Leagues:     make([]contracts.LeagueDigest, 0, len(all.Items)),
		Failures:    all.Failures,
	}

	for _, lm := range all.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := contracts.LeagueDigest{
			LeagueID:         lm.LeagueID,
			LeagueName:       lm.LeagueName,
			FinishedMatches:  lm.FinishedMatches,
			AvgGoalsPerMatch: lm.AvgGoalsPerMatch,
			HomeWinRate:      lm.HomeWinPercentage,
		}

		rankings, err := s.PowerRankings(ctx, lm.LeagueID, season)
		if err != nil {
			digest.Failures = append(digest.Failures, failure(lm, fmt.Errorf("power rankings: %w", err)))
		} else {
			for _, f := range rankings.Failures {
				digest.Failures = append(digest.Failures, teamFailure(lm, f))
			}
			if len(rankings.Items) > 0 {
				leader := rankings.Items[0]
				line.Leader = &leader
			}
		}

		leagueID := lm.LeagueID
		scorers, err := s.metrics.TopScorers(ctx, &leagueID, season, 1)
		if err != nil {
			digest.Failures = append(digest.Failures, failure(lm, fmt.Errorf("top scorers: %w", err)))
		} else if len(scorers) > 0 && scorers[0].Goals > 0 {
			top := scorers[0]
			line.TopScorer = &top
		}

		digest.Leagues = append(digest.Leagues, line)
	}

	s.logger.WithFields(map[string]interface{}{
		"leagues": len(digest.Leagues),
		"failed":  len(digest.Failures),
	}).Info("Built analytics digest")

	return digest, nil
}

func failure(lm *contracts.LeagueMetrics, err error) contracts.ItemFailure {
	return contracts.ItemFailure{ID: lm.LeagueID, Name: lm.LeagueName, Error: err.Error(), Err: err}
}

// teamFailure keeps the team's identity and names its league in the message
func teamFailure(lm *contracts.LeagueMetrics, f contracts.ItemFailure) contracts.ItemFailure {
	err := fmt.Errorf("power rankings of league %s (%d): %w", lm.LeagueName, lm.LeagueID, f.Err)
	return contracts.ItemFailure{ID: f.ID, Name: f.Name, Error: err.Error(), Err: err}
}
