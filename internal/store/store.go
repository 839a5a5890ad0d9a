// Package store is the PostgreSQL implementation of the repository
// interfaces in contracts.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

//go:embed schema.sql
var schema string

// Store implements contracts.StatsReader, contracts.EntityWriter and
// contracts.StoreStatus over a pgx pool
// ⭐ SSOT: football entity storage is here only
type Store struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

var (
	_ contracts.StatsReader  = (*Store)(nil)
	_ contracts.EntityWriter = (*Store)(nil)
	_ contracts.StoreStatus  = (*Store)(nil)
)

// New creates a store over an existing pool
func New(pool *pgxpool.Pool, log *logger.Logger) *Store {
	return &Store{pool: pool, logger: log.Module("store")}
}

// Migrate creates the schema if it does not exist. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	s.logger.Info("Schema is up to date")
	return nil
}

// Ping implements contracts.StoreStatus
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// countedTables are reported by CountRecords, keyed by short name
var countedTables = []struct {
	key   string
	table string
}{
	{"leagues", "football.leagues"},
	{"teams", "football.teams"},
	{"players", "football.players"},
	{"matches", "football.matches"},
	{"player_stats", "football.player_stats"},
	{"team_stats", "football.team_stats"},
}

// CountRecords implements contracts.StoreStatus
func (s *Store) CountRecords(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(countedTables))
	for _, t := range countedTables {
		var n int64
		if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+t.table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t.key, err)
		}
		counts[t.key] = n
	}
	return counts, nil
}

// Freshness implements contracts.StoreStatus
func (s *Store) Freshness(ctx context.Context) (*contracts.Freshness, error) {
	query := `
		SELECT
			(SELECT MAX(updated_at) FROM football.matches),
			(SELECT MAX(updated_at) FROM football.team_stats)
	`
	var f contracts.Freshness
	if err := s.pool.QueryRow(ctx, query).Scan(&f.MatchesUpdatedAt, &f.StandingsUpdatedAt); err != nil {
		return nil, fmt.Errorf("query freshness: %w", err)
	}
	return &f, nil
}

// notFound maps pgx.ErrNoRows to a contracts.NotFoundError
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.NewNotFound(entity, id)
	}
	return err
}
