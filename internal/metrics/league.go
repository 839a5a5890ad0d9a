package metrics

import (
	"context"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// LeagueMetrics summarizes a league over its finished matches.
// Counts of matches, teams and players include everything in scope.
func (e *Engine) LeagueMetrics(ctx context.Context, leagueID int64, season *int) (*contracts.LeagueMetrics, error) {
	league, err := e.repo.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}

	matches, err := e.repo.ListMatches(ctx, contracts.MatchFilter{
		LeagueID: &leagueID,
		Season:   season,
	})
	if err != nil {
		return nil, fmt.Errorf("list league matches: %w", err)
	}

	teams, err := e.repo.ListTeams(ctx, &leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league teams: %w", err)
	}

	players, err := e.repo.CountPlayers(ctx, contracts.PlayerFilter{LeagueID: &leagueID})
	if err != nil {
		return nil, fmt.Errorf("count league players: %w", err)
	}

	result := &contracts.LeagueMetrics{
		LeagueName:   league.Name,
		LeagueID:     leagueID,
		SeasonYear:   season,
		TotalMatches: len(matches),
		TeamsCount:   len(teams),
		PlayersCount: players,
	}

	for _, m := range matches {
		if !m.IsFinished() {
			continue
		}
		result.FinishedMatches++

		home, away := m.Goals()
		result.TotalGoals += home + away

		switch m.Winner {
		case contracts.WinnerHome:
			result.HomeWins++
		case contracts.WinnerAway:
			result.AwayWins++
		case contracts.WinnerDraw:
			result.Draws++
		}

		if home+away >= HighScoringThreshold {
			result.HighScoringMatches++
		}
		if home == 0 || away == 0 {
			result.CleanSheets++
		}
	}

	finished := result.FinishedMatches
	result.AvgGoalsPerMatch = Ratio(result.TotalGoals, finished)
	result.HomeWinPercentage = Percent(result.HomeWins, finished)
	result.AwayWinPercentage = Percent(result.AwayWins, finished)
	result.DrawPercentage = Percent(result.Draws, finished)
	result.HighScoringPercentage = Percent(result.HighScoringMatches, finished)
	result.CleanSheetPercentage = Percent(result.CleanSheets, finished)

	e.logger.WithFields(map[string]interface{}{
		"league_id":        leagueID,
		"finished_matches": finished,
		"total_goals":      result.TotalGoals,
	}).Debug("Calculated league metrics")

	return result, nil
}

// AllLeagueMetrics computes LeagueMetrics for every stored league.
// A league that fails is reported in Failures; the rest still complete.
func (e *Engine) AllLeagueMetrics(ctx context.Context, season *int) (*contracts.Batch[*contracts.LeagueMetrics], error) {
	leagues, err := e.repo.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	batch := &contracts.Batch[*contracts.LeagueMetrics]{}
	for _, league := range leagues {
		m, err := e.LeagueMetrics(ctx, league.ID, season)
		if err != nil {
			batch.Fail(league.ID, league.Name, err)
			continue
		}
		batch.Add(m)
	}

	return batch, nil
}

// LeagueAverages averages per-team rates over the league's teams that
// have at least one finished match in scope
func (e *Engine) LeagueAverages(ctx context.Context, leagueID int64, season *int) (*contracts.LeagueAverages, error) {
	league, err := e.repo.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}

	teams, err := e.repo.ListTeams(ctx, &leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league teams: %w", err)
	}

	result := &contracts.LeagueAverages{
		LeagueID:   leagueID,
		LeagueName: league.Name,
		SeasonYear: season,
	}

	for _, team := range teams {
		tm, err := e.TeamMetrics(ctx, team.ID, season)
		if err != nil {
			result.Failures = append(result.Failures, contracts.ItemFailure{
				ID: team.ID, Name: team.Name, Error: err.Error(), Err: err,
			})
			continue
		}
		if tm.TeamRecord == nil {
			continue
		}

		result.TeamsCount++
		result.PointsPerGame += tm.PointsPerGame
		result.GoalsPerGame += tm.GoalsPerGame
		result.GoalsConcededPerGame += tm.GoalsConcededPerGame
		result.WinRate += tm.WinRate
		result.CleanSheetRate += tm.CleanSheetRate
	}

	n := float64(result.TeamsCount)
	result.PointsPerGame = SafeDiv(result.PointsPerGame, n)
	result.GoalsPerGame = SafeDiv(result.GoalsPerGame, n)
	result.GoalsConcededPerGame = SafeDiv(result.GoalsConcededPerGame, n)
	result.WinRate = SafeDiv(result.WinRate, n)
	result.CleanSheetRate = SafeDiv(result.CleanSheetRate, n)

	return result, nil
}

// LeagueTable returns stored standings for the given season, or for the
// most recent season window when season is nil, ordered by position
func (e *Engine) LeagueTable(ctx context.Context, leagueID int64, season *int, limit int) ([]contracts.StandingRow, error) {
	if _, err := e.repo.GetLeague(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if limit <= 0 {
		limit = DefaultTableLimit
	}

	rows, err := e.repo.ListStandings(ctx, leagueID, season, limit)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	table := make([]contracts.StandingRow, 0, len(rows))
	for _, r := range rows {
		table = append(table, contracts.StandingRow{
			Position:       r.Position,
			TeamName:       r.TeamName,
			TeamID:         r.TeamID,
			PlayedGames:    r.PlayedGames,
			Won:            r.Won,
			Draw:           r.Draw,
			Lost:           r.Lost,
			GoalsFor:       r.GoalsFor,
			GoalsAgainst:   r.GoalsAgainst,
			GoalDifference: r.GoalDifference,
			Points:         r.Points,
			Form:           r.Form,
		})
	}

	return table, nil
}
