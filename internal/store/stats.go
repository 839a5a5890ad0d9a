package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// ListPlayerStats implements contracts.PlayerStatsReader
func (s *Store) ListPlayerStats(ctx context.Context, f contracts.PlayerStatsFilter) ([]*contracts.PlayerStatLine, error) {
	var w whereBuilder
	if f.PlayerID != nil {
		w.add("ps.player_id = %s", *f.PlayerID)
	}
	if f.TeamID != nil {
		w.add("p.team_id = %s", *f.TeamID)
	}
	if f.LeagueID != nil {
		w.add("t.league_id = %s", *f.LeagueID)
	}
	if f.Season != nil {
		w.add("EXTRACT(YEAR FROM m.season_start_date) = %s", *f.Season)
	}
	if f.FinishedOnly {
		w.add("m.status = %s", string(contracts.StatusFinished))
	}

	dir := order(f.NewestFirst)
	query := `
		SELECT ps.id, ps.player_id, ps.match_id, ps.minutes_played, ps.goals, ps.assists,
			ps.yellow_cards, ps.red_cards, ps.shots_total, ps.shots_on_target,
			ps.passes_total, ps.passes_completed, ps.tackles, ps.interceptions,
			ps.fouls_committed, ps.fouls_drawn, ps.offsides,
			p.name, p.team_id, COALESCE(t.name, ''), m.utc_date, m.status
		FROM football.player_stats ps
		JOIN football.players p ON p.id = ps.player_id
		JOIN football.matches m ON m.id = ps.match_id
		LEFT JOIN football.teams t ON t.id = p.team_id
	` + w.String() + ` ORDER BY m.utc_date ` + dir + `, ps.id ` + dir + ` ` + w.limit(f.Limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*contracts.PlayerStatLine
	for rows.Next() {
		var l contracts.PlayerStatLine
		var status string
		err := rows.Scan(
			&l.ID, &l.PlayerID, &l.MatchID, &l.MinutesPlayed, &l.Goals, &l.Assists,
			&l.YellowCards, &l.RedCards, &l.ShotsTotal, &l.ShotsOnTarget,
			&l.PassesTotal, &l.PassesCompleted, &l.Tackles, &l.Interceptions,
			&l.FoulsCommitted, &l.FoulsDrawn, &l.Offsides,
			&l.PlayerName, &l.TeamID, &l.TeamName, &l.MatchDate, &status,
		)
		if err != nil {
			return nil, err
		}
		l.MatchStatus = contracts.MatchStatus(status)
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListStandings implements contracts.StandingsReader
func (s *Store) ListStandings(ctx context.Context, leagueID int64, season *int, limit int) ([]*contracts.TeamStats, error) {
	var w whereBuilder
	w.add("ts.league_id = %s", leagueID)
	if season != nil {
		w.add("EXTRACT(YEAR FROM ts.season_start_date) = %s", *season)
	} else {
		w.add(`ts.season_start_date = (
			SELECT MAX(season_start_date) FROM football.team_stats WHERE league_id = %s)`, leagueID)
	}

	query := `
		SELECT ts.id, ts.team_id, t.name, ts.league_id, ts.season_start_date, ts.season_end_date,
			ts.position, ts.played_games, ts.form, ts.won, ts.draw, ts.lost, ts.points,
			ts.goals_for, ts.goals_against, ts.goal_difference, ts.updated_at
		FROM football.team_stats ts
		JOIN football.teams t ON t.id = ts.team_id
	` + w.String() + ` ORDER BY ts.position ASC, ts.id ASC ` + w.limit(limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var table []*contracts.TeamStats
	for rows.Next() {
		var ts contracts.TeamStats
		err := rows.Scan(
			&ts.ID, &ts.TeamID, &ts.TeamName, &ts.LeagueID, &ts.SeasonStart, &ts.SeasonEnd,
			&ts.Position, &ts.PlayedGames, &ts.Form, &ts.Won, &ts.Draw, &ts.Lost, &ts.Points,
			&ts.GoalsFor, &ts.GoalsAgainst, &ts.GoalDifference, &ts.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		table = append(table, &ts)
	}
	return table, rows.Err()
}

// ErrMissingSeason rejects standings rows without a season start date
var ErrMissingSeason = errors.New("standings row has no season start date")

// UpsertTeamStats implements contracts.EntityWriter
func (s *Store) UpsertTeamStats(ctx context.Context, ts *contracts.TeamStats) (bool, error) {
	if ts.SeasonStart == nil {
		return false, ErrMissingSeason
	}

	query := `
		INSERT INTO football.team_stats (team_id, league_id, season_start_date, season_end_date,
			position, played_games, form, won, draw, lost, points,
			goals_for, goals_against, goal_difference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (team_id, league_id, season_start_date) DO UPDATE SET
			season_end_date = EXCLUDED.season_end_date,
			position = EXCLUDED.position,
			played_games = EXCLUDED.played_games,
			form = EXCLUDED.form,
			won = EXCLUDED.won,
			draw = EXCLUDED.draw,
			lost = EXCLUDED.lost,
			points = EXCLUDED.points,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			goal_difference = EXCLUDED.goal_difference,
			updated_at = NOW()
		RETURNING id, updated_at, (xmax = 0)
	`

	var created bool
	err := s.pool.QueryRow(ctx, query,
		ts.TeamID, ts.LeagueID, ts.SeasonStart, ts.SeasonEnd,
		ts.Position, ts.PlayedGames, ts.Form, ts.Won, ts.Draw, ts.Lost, ts.Points,
		ts.GoalsFor, ts.GoalsAgainst, ts.GoalDifference,
	).Scan(&ts.ID, &ts.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert standings for team %d: %w", ts.TeamID, err)
	}
	return created, nil
}

// UpsertPlayerStats implements contracts.EntityWriter
func (s *Store) UpsertPlayerStats(ctx context.Context, ps *contracts.PlayerStats) (bool, error) {
	query := `
		INSERT INTO football.player_stats (player_id, match_id, minutes_played, goals, assists,
			yellow_cards, red_cards, shots_total, shots_on_target, passes_total, passes_completed,
			tackles, interceptions, fouls_committed, fouls_drawn, offsides)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (player_id, match_id) DO UPDATE SET
			minutes_played = EXCLUDED.minutes_played,
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			yellow_cards = EXCLUDED.yellow_cards,
			red_cards = EXCLUDED.red_cards,
			shots_total = EXCLUDED.shots_total,
			shots_on_target = EXCLUDED.shots_on_target,
			passes_total = EXCLUDED.passes_total,
			passes_completed = EXCLUDED.passes_completed,
			tackles = EXCLUDED.tackles,
			interceptions = EXCLUDED.interceptions,
			fouls_committed = EXCLUDED.fouls_committed,
			fouls_drawn = EXCLUDED.fouls_drawn,
			offsides = EXCLUDED.offsides
		RETURNING id, (xmax = 0)
	`

	var created bool
	err := s.pool.QueryRow(ctx, query,
		ps.PlayerID, ps.MatchID, ps.MinutesPlayed, ps.Goals, ps.Assists,
		ps.YellowCards, ps.RedCards, ps.ShotsTotal, ps.ShotsOnTarget, ps.PassesTotal, ps.PassesCompleted,
		ps.Tackles, ps.Interceptions, ps.FoulsCommitted, ps.FoulsDrawn, ps.Offsides,
	).Scan(&ps.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert player stats (player %d, match %d): %w", ps.PlayerID, ps.MatchID, err)
	}
	return created, nil
}
