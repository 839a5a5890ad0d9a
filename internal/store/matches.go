package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

const matchColumns = `
	id, external_id, utc_date, status, matchday, stage, group_name,
	home_team_id, away_team_id, competition_id, season_start_date, season_end_date,
	score_winner, score_duration, score_full_time_home, score_full_time_away,
	score_half_time_home, score_half_time_away, last_updated, updated_at
`

func scanMatch(row pgx.Row) (*contracts.Match, error) {
	var m contracts.Match
	var status, winner string
	err := row.Scan(
		&m.ID, &m.ExternalID, &m.UTCDate, &status, &m.Matchday, &m.Stage, &m.Group,
		&m.HomeTeamID, &m.AwayTeamID, &m.CompetitionID, &m.SeasonStart, &m.SeasonEnd,
		&winner, &m.Duration, &m.HomeScore, &m.AwayScore,
		&m.HomeHalfTime, &m.AwayHalfTime, &m.LastUpdated, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Status = contracts.MatchStatus(status)
	m.Winner = contracts.Winner(winner)
	return &m, nil
}

// ListMatches implements contracts.MatchReader
func (s *Store) ListMatches(ctx context.Context, f contracts.MatchFilter) ([]*contracts.Match, error) {
	var w whereBuilder
	if f.LeagueID != nil {
		w.add("competition_id = %s", *f.LeagueID)
	}
	if f.TeamID != nil {
		w.add("(home_team_id = %s OR away_team_id = %s)", *f.TeamID, *f.TeamID)
	}
	if f.OpponentID != nil {
		w.add("(home_team_id = %s OR away_team_id = %s)", *f.OpponentID, *f.OpponentID)
	}
	if f.Season != nil {
		w.add("EXTRACT(YEAR FROM season_start_date) = %s", *f.Season)
	}
	if f.Status != "" {
		w.add("status = %s", string(f.Status))
	}
	if f.From != nil {
		w.add("utc_date >= %s", *f.From)
	}
	if f.To != nil {
		w.add("utc_date <= %s", *f.To)
	}

	dir := order(f.NewestFirst)
	query := `SELECT ` + matchColumns + ` FROM football.matches ` + w.String() +
		` ORDER BY utc_date ` + dir + `, id ` + dir + ` ` + w.limit(f.Limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*contracts.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpsertMatch implements contracts.EntityWriter
func (s *Store) UpsertMatch(ctx context.Context, m *contracts.Match) (bool, error) {
	query := `
		INSERT INTO football.matches (external_id, utc_date, status, matchday, stage, group_name,
			home_team_id, away_team_id, competition_id, season_start_date, season_end_date,
			score_winner, score_duration, score_full_time_home, score_full_time_away,
			score_half_time_home, score_half_time_away, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (external_id) DO UPDATE SET
			utc_date = EXCLUDED.utc_date,
			status = EXCLUDED.status,
			matchday = EXCLUDED.matchday,
			stage = EXCLUDED.stage,
			group_name = EXCLUDED.group_name,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			competition_id = EXCLUDED.competition_id,
			season_start_date = EXCLUDED.season_start_date,
			season_end_date = EXCLUDED.season_end_date,
			score_winner = EXCLUDED.score_winner,
			score_duration = EXCLUDED.score_duration,
			score_full_time_home = EXCLUDED.score_full_time_home,
			score_full_time_away = EXCLUDED.score_full_time_away,
			score_half_time_home = EXCLUDED.score_half_time_home,
			score_half_time_away = EXCLUDED.score_half_time_away,
			last_updated = EXCLUDED.last_updated,
			updated_at = NOW()
		RETURNING id, updated_at, (xmax = 0)
	`

	var created bool
	err := s.pool.QueryRow(ctx, query,
		m.ExternalID, m.UTCDate, string(m.Status), m.Matchday, m.Stage, m.Group,
		m.HomeTeamID, m.AwayTeamID, m.CompetitionID, m.SeasonStart, m.SeasonEnd,
		string(m.Winner), m.Duration, m.HomeScore, m.AwayScore,
		m.HomeHalfTime, m.AwayHalfTime, m.LastUpdated,
	).Scan(&m.ID, &m.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert match %d: %w", m.ExternalID, err)
	}
	return created, nil
}

// ResolveMatch implements contracts.EntityWriter
func (s *Store) ResolveMatch(ctx context.Context, externalID int64) (int64, error) {
	return s.resolve(ctx, "football.matches", "match", externalID)
}
