package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

const teamColumns = `
	id, external_id, name, short_name, tla, crest, area_name, address,
	website, founded, club_colors, venue, league_id, updated_at
`

func scanTeam(row pgx.Row) (*contracts.Team, error) {
	var t contracts.Team
	err := row.Scan(
		&t.ID, &t.ExternalID, &t.Name, &t.ShortName, &t.TLA, &t.Crest, &t.AreaName, &t.Address,
		&t.Website, &t.Founded, &t.ClubColors, &t.Venue, &t.LeagueID, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTeam implements contracts.TeamReader
func (s *Store) GetTeam(ctx context.Context, id int64) (*contracts.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM football.teams WHERE id = $1`

	t, err := scanTeam(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "team", id)
	}
	return t, nil
}

// ListTeams implements contracts.TeamReader
func (s *Store) ListTeams(ctx context.Context, leagueID *int64) ([]*contracts.Team, error) {
	var w whereBuilder
	if leagueID != nil {
		w.add("league_id = %s", *leagueID)
	}
	query := `SELECT ` + teamColumns + ` FROM football.teams ` + w.String() + ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*contracts.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// UpsertTeam implements contracts.EntityWriter
func (s *Store) UpsertTeam(ctx context.Context, t *contracts.Team) (bool, error) {
	query := `
		INSERT INTO football.teams (external_id, name, short_name, tla, crest, area_name,
			address, website, founded, club_colors, venue, league_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			short_name = EXCLUDED.short_name,
			tla = EXCLUDED.tla,
			crest = EXCLUDED.crest,
			area_name = EXCLUDED.area_name,
			address = EXCLUDED.address,
			website = EXCLUDED.website,
			founded = EXCLUDED.founded,
			club_colors = EXCLUDED.club_colors,
			venue = EXCLUDED.venue,
			league_id = EXCLUDED.league_id,
			updated_at = NOW()
		RETURNING id, updated_at, (xmax = 0)
	`

	var created bool
	err := s.pool.QueryRow(ctx, query,
		t.ExternalID, t.Name, t.ShortName, t.TLA, t.Crest, t.AreaName,
		t.Address, t.Website, t.Founded, t.ClubColors, t.Venue, t.LeagueID,
	).Scan(&t.ID, &t.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert team %d: %w", t.ExternalID, err)
	}
	return created, nil
}

// ResolveTeam implements contracts.EntityWriter
func (s *Store) ResolveTeam(ctx context.Context, externalID int64) (int64, error) {
	return s.resolve(ctx, "football.teams", "team", externalID)
}
