package store

import (
	"context"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// GetPlayer implements contracts.PlayerReader
func (s *Store) GetPlayer(ctx context.Context, id int64) (*contracts.Player, error) {
	query := `
		SELECT id, external_id, name, first_name, last_name, date_of_birth,
			nationality, position, shirt_number, team_id, updated_at
		FROM football.players
		WHERE id = $1
	`

	var p contracts.Player
	var position string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ExternalID, &p.Name, &p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.Nationality, &position, &p.ShirtNumber, &p.TeamID, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "player", id)
	}
	p.Position = contracts.Position(position)
	return &p, nil
}

// CountPlayers implements contracts.PlayerReader
func (s *Store) CountPlayers(ctx context.Context, filter contracts.PlayerFilter) (int, error) {
	var w whereBuilder
	if filter.TeamID != nil {
		w.add("p.team_id = %s", *filter.TeamID)
	}
	if filter.LeagueID != nil {
		w.add("t.league_id = %s", *filter.LeagueID)
	}
	query := `
		SELECT COUNT(*)
		FROM football.players p
		LEFT JOIN football.teams t ON t.id = p.team_id
	` + w.String()

	var n int
	if err := s.pool.QueryRow(ctx, query, w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

// UpsertPlayer implements contracts.EntityWriter. A missing date of birth
// never clears a stored one.
func (s *Store) UpsertPlayer(ctx context.Context, p *contracts.Player) (bool, error) {
	query := `
		INSERT INTO football.players (external_id, name, first_name, last_name,
			date_of_birth, nationality, position, shirt_number, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			date_of_birth = COALESCE(EXCLUDED.date_of_birth, football.players.date_of_birth),
			nationality = EXCLUDED.nationality,
			position = EXCLUDED.position,
			shirt_number = EXCLUDED.shirt_number,
			team_id = EXCLUDED.team_id,
			updated_at = NOW()
		RETURNING id, updated_at, (xmax = 0)
	`

	var created bool
	err := s.pool.QueryRow(ctx, query,
		p.ExternalID, p.Name, p.FirstName, p.LastName,
		p.DateOfBirth, p.Nationality, string(p.Position), p.ShirtNumber, p.TeamID,
	).Scan(&p.ID, &p.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert player %d: %w", p.ExternalID, err)
	}
	return created, nil
}

// ResolvePlayer implements contracts.EntityWriter
func (s *Store) ResolvePlayer(ctx context.Context, externalID int64) (int64, error) {
	return s.resolve(ctx, "football.players", "player", externalID)
}
