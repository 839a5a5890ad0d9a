package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

const leagueColumns = `
	id, external_id, name, code, area_name, area_code,
	current_season_start, current_season_end, updated_at
`

func scanLeague(row pgx.Row) (*contracts.League, error) {
	var l contracts.League
	err := row.Scan(
		&l.ID, &l.ExternalID, &l.Name, &l.Code, &l.AreaName, &l.AreaCode,
		&l.CurrentSeasonStart, &l.CurrentSeasonEnd, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLeague implements contracts.LeagueReader
func (s *Store) GetLeague(ctx context.Context, id int64) (*contracts.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM football.leagues WHERE id = $1`

	l, err := scanLeague(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "league", id)
	}
	return l, nil
}

// ListLeagues implements contracts.LeagueReader
func (s *Store) ListLeagues(ctx context.Context) ([]*contracts.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM football.leagues ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leagues []*contracts.League
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, err
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

// UpsertLeague implements contracts.EntityWriter
func (s *Store) UpsertLeague(ctx context.Context, l *contracts.League) (bool, error) {
	query := `
		INSERT INTO football.leagues (external_id, name, code, area_name, area_code,
			current_season_start, current_season_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			code = EXCLUDED.code,
			area_name = EXCLUDED.area_name,
			area_code = EXCLUDED.area_code,
			current_season_start = EXCLUDED.current_season_start,
			current_season_end = EXCLUDED.current_season_end,
			updated_at = NOW()
		RETURNING id, updated_at, (xmax = 0)
	`

	var created bool
	err := s.pool.QueryRow(ctx, query,
		l.ExternalID, l.Name, l.Code, l.AreaName, l.AreaCode,
		l.CurrentSeasonStart, l.CurrentSeasonEnd,
	).Scan(&l.ID, &l.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert league %d: %w", l.ExternalID, err)
	}
	return created, nil
}

// ResolveLeague implements contracts.EntityWriter
func (s *Store) ResolveLeague(ctx context.Context, externalID int64) (int64, error) {
	return s.resolve(ctx, "football.leagues", "league", externalID)
}

func (s *Store) resolve(ctx context.Context, table, entity string, externalID int64) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, "SELECT id FROM "+table+" WHERE external_id = $1", externalID).Scan(&id)
	if err != nil {
		return 0, notFound(err, entity, externalID)
	}
	return id, nil
}
