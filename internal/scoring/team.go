package scoring

import (
	"context"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/metrics"
)

// MomentumWeight is the weight of the i-th most recent match (i = 0 newest).
// Older matches weigh more.
func MomentumWeight(i int) float64 {
	return 1 + 0.1*float64(i)
}

// Momentum scores the team's last n finished matches in any competition
// on a 0-100 scale. n <= 0 uses the configured window.
func (s *Scorer) Momentum(ctx context.Context, teamID int64, n int) (*contracts.Momentum, error) {
	if _, err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.cfg.Windows.Momentum
	}

	matches, err := s.repo.ListMatches(ctx, contracts.MatchFilter{
		TeamID:      &teamID,
		Status:      contracts.StatusFinished,
		NewestFirst: true,
		Limit:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}

	return momentumOf(teamID, matches), nil
}

// momentumOf expects matches newest first
func momentumOf(teamID int64, matches []*contracts.Match) *contracts.Momentum {
	result := &contracts.Momentum{TeamID: teamID, MatchesAnalyzed: len(matches)}
	if len(matches) == 0 {
		return result
	}

	rec := &contracts.MomentumRecord{}
	var maxPoints float64
	for i, m := range matches {
		w := MomentumWeight(i)
		maxPoints += 3 * w

		scored, conceded := m.GoalsFor(teamID)
		rec.GoalsFor += scored
		rec.GoalsAgainst += conceded

		r := m.ResultFor(teamID)
		rec.WeightedPoints += float64(r.Points()) * w
		switch r {
		case contracts.ResultWin:
			rec.Wins++
		case contracts.ResultDraw:
			rec.Draws++
		default:
			rec.Losses++
		}
	}

	n := len(matches)
	rec.GoalDifference = rec.GoalsFor - rec.GoalsAgainst
	rec.PointsPerGame = metrics.Ratio(3*rec.Wins+rec.Draws, n)
	rec.GoalsPerGame = metrics.Ratio(rec.GoalsFor, n)
	result.MomentumScore = metrics.Clamp(metrics.SafeDiv(rec.WeightedPoints, maxPoints)*100, 0, 100)
	result.MomentumRecord = rec
	return result
}

// HeadToHead summarizes the last n finished meetings from team1's side.
// n <= 0 uses DefaultHeadToHeadWindow.
func (s *Scorer) HeadToHead(ctx context.Context, team1, team2 int64, n int) (*contracts.HeadToHead, error) {
	if _, err := s.requireTeam(ctx, team1); err != nil {
		return nil, err
	}
	if _, err := s.requireTeam(ctx, team2); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultHeadToHeadWindow
	}

	result := &contracts.HeadToHead{Team1ID: team1, Team2ID: team2}
	if team1 == team2 {
		return result, nil
	}

	matches, err := s.repo.ListMatches(ctx, contracts.MatchFilter{
		TeamID:      &team1,
		OpponentID:  &team2,
		Status:      contracts.StatusFinished,
		NewestFirst: true,
		Limit:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	result.TotalMatches = len(matches)
	if len(matches) == 0 {
		return result, nil
	}

	rec := &contracts.HeadToHeadRecord{}
	for _, m := range matches {
		scored, conceded := m.GoalsFor(team1)
		rec.Team1GoalsFor += scored
		rec.Team1GoalsAgainst += conceded
		switch m.ResultFor(team1) {
		case contracts.ResultWin:
			rec.Team1Wins++
		case contracts.ResultDraw:
			rec.Team1Draws++
		default:
			rec.Team1Losses++
		}
	}

	rec.Team2Wins = rec.Team1Losses
	rec.Team2Losses = rec.Team1Wins
	rec.Team2GoalsFor = rec.Team1GoalsAgainst
	rec.Team2GoalsAgainst = rec.Team1GoalsFor

	total := result.TotalMatches
	rec.Team1WinPercentage = metrics.Percent(rec.Team1Wins, total)
	rec.Team2WinPercentage = metrics.Percent(rec.Team2Wins, total)
	rec.DrawPercentage = metrics.Percent(rec.Team1Draws, total)
	result.HeadToHeadRecord = rec
	return result, nil
}

// Possession sums the passing of the team's players. Without lines all
// figures are zero.
func (s *Scorer) Possession(ctx context.Context, teamID int64, season *int) (*contracts.Possession, error) {
	lines, err := s.teamLines(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	result := &contracts.Possession{TeamID: teamID, SeasonYear: season}
	for _, l := range lines {
		result.TotalPasses += l.PassesTotal
		result.CompletedPasses += l.PassesCompleted
	}
	result.MatchesPlayed = distinctMatches(lines)
	result.PassAccuracy = metrics.Ratio(result.CompletedPasses, result.TotalPasses)
	result.PassesPerGame = metrics.Ratio(result.TotalPasses, result.MatchesPlayed)
	return result, nil
}

// Defensive sums tackles, interceptions and fouls of the team's players
func (s *Scorer) Defensive(ctx context.Context, teamID int64, season *int) (*contracts.Defensive, error) {
	lines, err := s.teamLines(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	result := &contracts.Defensive{TeamID: teamID, SeasonYear: season}
	if len(lines) == 0 {
		return result, nil
	}

	rec := &contracts.DefensiveRecord{MatchesPlayed: distinctMatches(lines)}
	for _, l := range lines {
		rec.TotalTackles += l.Tackles
		rec.TotalInterceptions += l.Interceptions
		rec.TotalFoulsCommitted += l.FoulsCommitted
	}
	n := rec.MatchesPlayed
	rec.TacklesPerGame = metrics.Ratio(rec.TotalTackles, n)
	rec.InterceptionsPerGame = metrics.Ratio(rec.TotalInterceptions, n)
	rec.FoulsPerGame = metrics.Ratio(rec.TotalFoulsCommitted, n)
	rec.DefensiveActionsPerGame = metrics.Ratio(rec.TotalTackles+rec.TotalInterceptions, n)
	result.DefensiveRecord = rec
	return result, nil
}

// ExpectedGoals estimates xG from shots on target. xG against is derived
// from the team's own goals since opponent shot data is not stored.
func (s *Scorer) ExpectedGoals(ctx context.Context, teamID int64, season *int) (*contracts.ExpectedGoals, error) {
	lines, err := s.teamLines(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	result := &contracts.ExpectedGoals{TeamID: teamID, SeasonYear: season}
	for _, l := range lines {
		result.ShotsTotal += l.ShotsTotal
		result.ShotsOnTarget += l.ShotsOnTarget
		result.Goals += l.Goals
	}

	xg := s.cfg.XG
	result.XGFor = float64(result.ShotsOnTarget) * xg.PerShotOnTarget
	result.XGAgainst = float64(result.Goals) * xg.ConcededFactor
	result.XGDifference = result.XGFor - result.XGAgainst
	result.ConversionRate = metrics.Ratio(result.Goals, result.ShotsOnTarget)
	return result, nil
}
