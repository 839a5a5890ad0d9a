package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/metrics"
)

// MaxFormRating caps the player form rating
const MaxFormRating = 10.0

// PlayerForm rates the player's latest n appearances in finished matches.
// n <= 0 uses the configured window.
func (s *Scorer) PlayerForm(ctx context.Context, playerID int64, n int) (*contracts.PlayerForm, error) {
	if _, err := s.repo.GetPlayer(ctx, playerID); err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	if n <= 0 {
		n = s.cfg.Windows.PlayerForm
	}

	lines, err := s.repo.ListPlayerStats(ctx, contracts.PlayerStatsFilter{
		PlayerID:     &playerID,
		FinishedOnly: true,
		NewestFirst:  true,
		Limit:        n,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent player stats: %w", err)
	}

	result := &contracts.PlayerForm{PlayerID: playerID, MatchesAnalyzed: len(lines)}
	if len(lines) == 0 {
		return result, nil
	}

	rec := &contracts.PlayerFormRecord{}
	for _, l := range lines {
		rec.Goals += l.Goals
		rec.Assists += l.Assists
		rec.MinutesPlayed += l.MinutesPlayed
	}
	rec.GoalContributions = rec.Goals + rec.Assists
	rec.GoalsPerGame = metrics.Ratio(rec.Goals, len(lines))
	rec.AssistsPerGame = metrics.Ratio(rec.Assists, len(lines))

	result.FormRating = math.Min(metrics.Ratio(rec.GoalContributions, len(lines))*10, MaxFormRating)
	result.PlayerFormRecord = rec
	return result, nil
}

// PlayerEfficiency normalizes the player's output per 90 minutes.
// Ratios of shots and passes are percentages. Without minutes the record
// is omitted.
func (s *Scorer) PlayerEfficiency(ctx context.Context, playerID int64, season *int) (*contracts.PlayerEfficiency, error) {
	if _, err := s.repo.GetPlayer(ctx, playerID); err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}

	lines, err := s.repo.ListPlayerStats(ctx, contracts.PlayerStatsFilter{
		PlayerID:     &playerID,
		Season:       season,
		FinishedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	result := &contracts.PlayerEfficiency{PlayerID: playerID, SeasonYear: season}

	var minutes, goals, assists, shots, onTarget, passes, completed int
	for _, l := range lines {
		minutes += l.MinutesPlayed
		goals += l.Goals
		assists += l.Assists
		shots += l.ShotsTotal
		onTarget += l.ShotsOnTarget
		passes += l.PassesTotal
		completed += l.PassesCompleted
	}
	if minutes <= 0 {
		return result, nil
	}

	nineties := float64(minutes) / 90
	result.EfficiencyRecord = &contracts.EfficiencyRecord{
		GoalsPer90:             metrics.SafeDiv(float64(goals), nineties),
		AssistsPer90:           metrics.SafeDiv(float64(assists), nineties),
		GoalContributionsPer90: metrics.SafeDiv(float64(goals+assists), nineties),
		ShotsPer90:             metrics.SafeDiv(float64(shots), nineties),
		ShotConversionRate:     metrics.Percent(goals, shots),
		ShotAccuracy:           metrics.Percent(onTarget, shots),
		PassAccuracy:           metrics.Percent(completed, passes),
		PassesPer90:            metrics.SafeDiv(float64(passes), nineties),
		TotalMinutes:           minutes,
		MatchesPlayed:          len(lines),
	}
	return result, nil
}
