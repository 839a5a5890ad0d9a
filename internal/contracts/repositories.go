package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: repository interfaces are defined here only.
// The analytics layer depends on the *Reader interfaces and never writes.

// MatchFilter narrows a match listing. Zero values mean "no constraint".
type MatchFilter struct {
	LeagueID *int64
	// TeamID matches either side
	TeamID *int64
	// OpponentID, together with TeamID, keeps only meetings of the two teams
	OpponentID *int64
	// Season is the calendar year of the season start date
	Season      *int
	Status      MatchStatus
	From        *time.Time
	To          *time.Time
	NewestFirst bool
	Limit       int
}

// PlayerFilter narrows a player listing
type PlayerFilter struct {
	TeamID   *int64
	LeagueID *int64
}

// PlayerStatsFilter narrows stat lines. Team and league refer to the
// player's current team.
type PlayerStatsFilter struct {
	PlayerID     *int64
	TeamID       *int64
	LeagueID     *int64
	Season       *int
	FinishedOnly bool
	NewestFirst  bool
	Limit        int
}

// LeagueReader reads competitions
type LeagueReader interface {
	GetLeague(ctx context.Context, id int64) (*League, error)
	ListLeagues(ctx context.Context) ([]*League, error)
}

// TeamReader reads clubs
type TeamReader interface {
	GetTeam(ctx context.Context, id int64) (*Team, error)
	// ListTeams returns all teams, or a league's teams when leagueID is set
	ListTeams(ctx context.Context, leagueID *int64) ([]*Team, error)
}

// PlayerReader reads players
type PlayerReader interface {
	GetPlayer(ctx context.Context, id int64) (*Player, error)
	CountPlayers(ctx context.Context, filter PlayerFilter) (int, error)
}

// MatchReader reads fixtures, ordered by kickoff (oldest first unless NewestFirst)
type MatchReader interface {
	ListMatches(ctx context.Context, filter MatchFilter) ([]*Match, error)
}

// PlayerStatsReader reads per-match player lines, ordered by match date
type PlayerStatsReader interface {
	ListPlayerStats(ctx context.Context, filter PlayerStatsFilter) ([]*PlayerStatLine, error)
}

// StandingsReader reads league tables
type StandingsReader interface {
	// ListStandings returns rows of the season whose start year is season,
	// or of the most recent season window when season is nil, by position.
	ListStandings(ctx context.Context, leagueID int64, season *int, limit int) ([]*TeamStats, error)
}

// StatsReader is the read scope handed to the analytics engines
type StatsReader interface {
	LeagueReader
	TeamReader
	PlayerReader
	MatchReader
	PlayerStatsReader
	StandingsReader
}

// EntityWriter upserts entities by their upstream identity. Each method
// sets the entity ID and reports whether a new row was created.
type EntityWriter interface {
	UpsertLeague(ctx context.Context, league *League) (bool, error)
	UpsertTeam(ctx context.Context, team *Team) (bool, error)
	UpsertPlayer(ctx context.Context, player *Player) (bool, error)
	UpsertMatch(ctx context.Context, match *Match) (bool, error)
	UpsertTeamStats(ctx context.Context, stats *TeamStats) (bool, error)
	UpsertPlayerStats(ctx context.Context, stats *PlayerStats) (bool, error)

	// Resolve* map an upstream id to the local id, or ErrNotFound
	ResolveLeague(ctx context.Context, externalID int64) (int64, error)
	ResolveTeam(ctx context.Context, externalID int64) (int64, error)
	ResolvePlayer(ctx context.Context, externalID int64) (int64, error)
	ResolveMatch(ctx context.Context, externalID int64) (int64, error)
}

// Freshness reports the latest update times of fast-moving data
type Freshness struct {
	MatchesUpdatedAt   *time.Time `json:"matches_updated_at,omitempty"`
	StandingsUpdatedAt *time.Time `json:"standings_updated_at,omitempty"`
}

// StoreStatus exposes record counts and data freshness for health checks
type StoreStatus interface {
	Ping(ctx context.Context) error
	CountRecords(ctx context.Context) (map[string]int64, error)
	Freshness(ctx context.Context) (*Freshness, error)
}
