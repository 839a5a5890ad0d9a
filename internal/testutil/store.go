// Package testutil provides an in-memory entity store for tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// Store is an in-memory implementation of every repository interface.
// Fail* maps inject errors for reads scoped to a given entity.
type Store struct {
	mu sync.RWMutex

	leagues     map[int64]*contracts.League
	teams       map[int64]*contracts.Team
	players     map[int64]*contracts.Player
	matches     map[int64]*contracts.Match
	playerStats map[int64]*contracts.PlayerStats
	standings   map[int64]*contracts.TeamStats
	nextID      int64

	// FailTeams makes any read filtered by one of these team ids fail
	FailTeams map[int64]error
	// FailLeagues makes any read filtered by one of these league ids fail
	FailLeagues map[int64]error
	// FailPing makes Ping fail
	FailPing error

	// Now stamps UpdatedAt on writes
	Now func() time.Time
}

var (
	_ contracts.StatsReader  = (*Store)(nil)
	_ contracts.EntityWriter = (*Store)(nil)
	_ contracts.StoreStatus  = (*Store)(nil)
)

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		leagues:     make(map[int64]*contracts.League),
		teams:       make(map[int64]*contracts.Team),
		players:     make(map[int64]*contracts.Player),
		matches:     make(map[int64]*contracts.Match),
		playerStats: make(map[int64]*contracts.PlayerStats),
		standings:   make(map[int64]*contracts.TeamStats),
		FailTeams:   make(map[int64]error),
		FailLeagues: make(map[int64]error),
		Now:         time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// ---------------------------------------------------------------------------
// Fixture helpers
// ---------------------------------------------------------------------------

// AddLeague stores a league and returns it with its ID set
func (s *Store) AddLeague(name string) *contracts.League {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &contracts.League{ID: s.id(), Name: name, UpdatedAt: s.Now()}
	l.ExternalID = 1000 + l.ID
	s.leagues[l.ID] = l
	return l
}

// AddTeam stores a team in a league
func (s *Store) AddTeam(leagueID int64, name string) *contracts.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &contracts.Team{ID: s.id(), Name: name, LeagueID: leagueID, UpdatedAt: s.Now()}
	t.ExternalID = 1000 + t.ID
	s.teams[t.ID] = t
	return t
}

// AddPlayer stores a player; teamID 0 means unaffiliated
func (s *Store) AddPlayer(teamID int64, name string, position contracts.Position) *contracts.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &contracts.Player{ID: s.id(), Name: name, Position: position, UpdatedAt: s.Now()}
	p.ExternalID = 1000 + p.ID
	if teamID != 0 {
		tid := teamID
		p.TeamID = &tid
	}
	s.players[p.ID] = p
	return p
}

// AddMatch stores a finished match with a consistent winner
func (s *Store) AddMatch(leagueID, homeID, awayID int64, home, away int, kickoff time.Time, season int) *contracts.Match {
	m := s.AddFixture(leagueID, homeID, awayID, kickoff, season, contracts.StatusFinished)
	s.mu.Lock()
	defer s.mu.Unlock()
	m.HomeScore, m.AwayScore = &home, &away
	m.Winner = contracts.WinnerFromScore(home, away)
	return m
}

// AddFixture stores a match without a score in the given status
func (s *Store) AddFixture(leagueID, homeID, awayID int64, kickoff time.Time, season int, status contracts.MatchStatus) *contracts.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Date(season, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(season+1, time.May, 31, 0, 0, 0, 0, time.UTC)
	m := &contracts.Match{
		ID:            s.id(),
		UTCDate:       kickoff,
		Status:        status,
		HomeTeamID:    homeID,
		AwayTeamID:    awayID,
		CompetitionID: leagueID,
		SeasonStart:   &start,
		SeasonEnd:     &end,
		UpdatedAt:     s.Now(),
	}
	m.ExternalID = 1000 + m.ID
	s.matches[m.ID] = m
	return m
}

// AddStats stores a player line for a match
func (s *Store) AddStats(line contracts.PlayerStats) *contracts.PlayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	line.ID = s.id()
	ps := line
	s.playerStats[ps.ID] = &ps
	return &ps
}

// AddStanding stores a standings row for the season starting in August of season
func (s *Store) AddStanding(row contracts.TeamStats, season int) *contracts.TeamStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Date(season, time.August, 1, 0, 0, 0, 0, time.UTC)
	row.ID = s.id()
	row.SeasonStart = &start
	row.UpdatedAt = s.Now()
	ts := row
	s.standings[ts.ID] = &ts
	return &ts
}

// ---------------------------------------------------------------------------
// Readers
// ---------------------------------------------------------------------------

func (s *Store) teamFault(id *int64) error {
	if id == nil {
		return nil
	}
	return s.FailTeams[*id]
}

func (s *Store) leagueFault(id *int64) error {
	if id == nil {
		return nil
	}
	return s.FailLeagues[*id]
}

// GetLeague implements contracts.LeagueReader
func (s *Store) GetLeague(ctx context.Context, id int64) (*contracts.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.FailLeagues[id]; err != nil {
		return nil, err
	}
	l, ok := s.leagues[id]
	if !ok {
		return nil, contracts.NewNotFound("league", id)
	}
	cp := *l
	return &cp, nil
}

// ListLeagues implements contracts.LeagueReader
func (s *Store) ListLeagues(ctx context.Context) ([]*contracts.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*contracts.League, 0, len(s.leagues))
	for _, l := range s.leagues {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetTeam implements contracts.TeamReader
func (s *Store) GetTeam(ctx context.Context, id int64) (*contracts.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, contracts.NewNotFound("team", id)
	}
	cp := *t
	return &cp, nil
}

// ListTeams implements contracts.TeamReader
func (s *Store) ListTeams(ctx context.Context, leagueID *int64) ([]*contracts.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.leagueFault(leagueID); err != nil {
		return nil, err
	}
	var out []*contracts.Team
	for _, t := range s.teams {
		if leagueID != nil && t.LeagueID != *leagueID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetPlayer implements contracts.PlayerReader
func (s *Store) GetPlayer(ctx context.Context, id int64) (*contracts.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, contracts.NewNotFound("player", id)
	}
	cp := *p
	return &cp, nil
}

// CountPlayers implements contracts.PlayerReader
func (s *Store) CountPlayers(ctx context.Context, filter contracts.PlayerFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.leagueFault(filter.LeagueID); err != nil {
		return 0, err
	}
	n := 0
	for _, p := range s.players {
		if !s.playerMatches(p, filter.TeamID, filter.LeagueID) {
			continue
		}
		n++
	}
	return n, nil
}

// playerMatches checks a player's current team against optional filters.
// Any team or league filter excludes unaffiliated players.
func (s *Store) playerMatches(p *contracts.Player, teamID, leagueID *int64) bool {
	if teamID == nil && leagueID == nil {
		return true
	}
	if p.TeamID == nil {
		return false
	}
	if teamID != nil && *p.TeamID != *teamID {
		return false
	}
	if leagueID != nil {
		t, ok := s.teams[*p.TeamID]
		if !ok || t.LeagueID != *leagueID {
			return false
		}
	}
	return true
}

func seasonOf(start *time.Time) (int, bool) {
	if start == nil {
		return 0, false
	}
	return start.Year(), true
}

// ListMatches implements contracts.MatchReader
func (s *Store) ListMatches(ctx context.Context, f contracts.MatchFilter) ([]*contracts.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.teamFault(f.TeamID); err != nil {
		return nil, err
	}
	if err := s.leagueFault(f.LeagueID); err != nil {
		return nil, err
	}

	var out []*contracts.Match
	for _, m := range s.matches {
		if f.LeagueID != nil && m.CompetitionID != *f.LeagueID {
			continue
		}
		if f.TeamID != nil && !m.HasTeam(*f.TeamID) {
			continue
		}
		if f.OpponentID != nil && !m.HasTeam(*f.OpponentID) {
			continue
		}
		if f.Season != nil {
			if y, ok := seasonOf(m.SeasonStart); !ok || y != *f.Season {
				continue
			}
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.From != nil && m.UTCDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.UTCDate.After(*f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UTCDate.Equal(out[j].UTCDate) {
			return out[i].UTCDate.Before(out[j].UTCDate) != f.NewestFirst
		}
		return (out[i].ID < out[j].ID) != f.NewestFirst
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ListPlayerStats implements contracts.PlayerStatsReader
func (s *Store) ListPlayerStats(ctx context.Context, f contracts.PlayerStatsFilter) ([]*contracts.PlayerStatLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.teamFault(f.TeamID); err != nil {
		return nil, err
	}
	if err := s.leagueFault(f.LeagueID); err != nil {
		return nil, err
	}

	var out []*contracts.PlayerStatLine
	for _, ps := range s.playerStats {
		if f.PlayerID != nil && ps.PlayerID != *f.PlayerID {
			continue
		}
		p, ok := s.players[ps.PlayerID]
		if !ok || !s.playerMatches(p, f.TeamID, f.LeagueID) {
			continue
		}
		m, ok := s.matches[ps.MatchID]
		if !ok {
			continue
		}
		if f.FinishedOnly && !m.IsFinished() {
			continue
		}
		if f.Season != nil {
			if y, ok := seasonOf(m.SeasonStart); !ok || y != *f.Season {
				continue
			}
		}

		line := &contracts.PlayerStatLine{
			PlayerStats: *ps,
			PlayerName:  p.Name,
			MatchDate:   m.UTCDate,
			MatchStatus: m.Status,
		}
		if p.TeamID != nil {
			tid := *p.TeamID
			line.TeamID = &tid
			if t, ok := s.teams[tid]; ok {
				line.TeamName = t.Name
			}
		}
		out = append(out, line)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate) != f.NewestFirst
		}
		return (out[i].ID < out[j].ID) != f.NewestFirst
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ListStandings implements contracts.StandingsReader
func (s *Store) ListStandings(ctx context.Context, leagueID int64, season *int, limit int) ([]*contracts.TeamStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.FailLeagues[leagueID]; err != nil {
		return nil, err
	}

	var latest *time.Time
	if season == nil {
		for _, ts := range s.standings {
			if ts.LeagueID != leagueID || ts.SeasonStart == nil {
				continue
			}
			if latest == nil || ts.SeasonStart.After(*latest) {
				latest = ts.SeasonStart
			}
		}
	}

	var out []*contracts.TeamStats
	for _, ts := range s.standings {
		if ts.LeagueID != leagueID {
			continue
		}
		if season != nil {
			if y, ok := seasonOf(ts.SeasonStart); !ok || y != *season {
				continue
			}
		} else if latest != nil && (ts.SeasonStart == nil || !ts.SeasonStart.Equal(*latest)) {
			continue
		}
		cp := *ts
		if t, ok := s.teams[ts.TeamID]; ok {
			cp.TeamName = t.Name
		}
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Writers
// ---------------------------------------------------------------------------

// UpsertLeague implements contracts.EntityWriter
func (s *Store) UpsertLeague(ctx context.Context, l *contracts.League) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.UpdatedAt = s.Now()
	for id, existing := range s.leagues {
		if existing.ExternalID == l.ExternalID {
			l.ID = id
			cp := *l
			s.leagues[id] = &cp
			return false, nil
		}
	}
	l.ID = s.id()
	cp := *l
	s.leagues[l.ID] = &cp
	return true, nil
}

// UpsertTeam implements contracts.EntityWriter
func (s *Store) UpsertTeam(ctx context.Context, t *contracts.Team) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.UpdatedAt = s.Now()
	for id, existing := range s.teams {
		if existing.ExternalID == t.ExternalID {
			t.ID = id
			cp := *t
			s.teams[id] = &cp
			return false, nil
		}
	}
	t.ID = s.id()
	cp := *t
	s.teams[t.ID] = &cp
	return true, nil
}

// UpsertPlayer implements contracts.EntityWriter
func (s *Store) UpsertPlayer(ctx context.Context, p *contracts.Player) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = s.Now()
	for id, existing := range s.players {
		if existing.ExternalID == p.ExternalID {
			p.ID = id
			if p.DateOfBirth == nil {
				p.DateOfBirth = existing.DateOfBirth
			}
			cp := *p
			s.players[id] = &cp
			return false, nil
		}
	}
	p.ID = s.id()
	cp := *p
	s.players[p.ID] = &cp
	return true, nil
}

// UpsertMatch implements contracts.EntityWriter
func (s *Store) UpsertMatch(ctx context.Context, m *contracts.Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.UpdatedAt = s.Now()
	for id, existing := range s.matches {
		if existing.ExternalID == m.ExternalID {
			m.ID = id
			cp := *m
			s.matches[id] = &cp
			return false, nil
		}
	}
	m.ID = s.id()
	cp := *m
	s.matches[m.ID] = &cp
	return true, nil
}

// UpsertTeamStats implements contracts.EntityWriter
func (s *Store) UpsertTeamStats(ctx context.Context, ts *contracts.TeamStats) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts.UpdatedAt = s.Now()
	for id, existing := range s.standings {
		if existing.TeamID == ts.TeamID && existing.LeagueID == ts.LeagueID && sameDate(existing.SeasonStart, ts.SeasonStart) {
			ts.ID = id
			cp := *ts
			s.standings[id] = &cp
			return false, nil
		}
	}
	ts.ID = s.id()
	cp := *ts
	s.standings[ts.ID] = &cp
	return true, nil
}

// UpsertPlayerStats implements contracts.EntityWriter
func (s *Store) UpsertPlayerStats(ctx context.Context, ps *contracts.PlayerStats) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.playerStats {
		if existing.PlayerID == ps.PlayerID && existing.MatchID == ps.MatchID {
			ps.ID = id
			cp := *ps
			s.playerStats[id] = &cp
			return false, nil
		}
	}
	ps.ID = s.id()
	cp := *ps
	s.playerStats[ps.ID] = &cp
	return true, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// ResolveLeague implements contracts.EntityWriter
func (s *Store) ResolveLeague(ctx context.Context, externalID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, l := range s.leagues {
		if l.ExternalID == externalID {
			return id, nil
		}
	}
	return 0, contracts.NewNotFound("league", externalID)
}

// ResolveTeam implements contracts.EntityWriter
func (s *Store) ResolveTeam(ctx context.Context, externalID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, t := range s.teams {
		if t.ExternalID == externalID {
			return id, nil
		}
	}
	return 0, contracts.NewNotFound("team", externalID)
}

// ResolvePlayer implements contracts.EntityWriter
func (s *Store) ResolvePlayer(ctx context.Context, externalID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, p := range s.players {
		if p.ExternalID == externalID {
			return id, nil
		}
	}
	return 0, contracts.NewNotFound("player", externalID)
}

// ResolveMatch implements contracts.EntityWriter
func (s *Store) ResolveMatch(ctx context.Context, externalID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, m := range s.matches {
		if m.ExternalID == externalID {
			return id, nil
		}
	}
	return 0, contracts.NewNotFound("match", externalID)
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// Ping implements contracts.StoreStatus
func (s *Store) Ping(ctx context.Context) error {
	return s.FailPing
}

// CountRecords implements contracts.StoreStatus
func (s *Store) CountRecords(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int64{
		"leagues":      int64(len(s.leagues)),
		"teams":        int64(len(s.teams)),
		"players":      int64(len(s.players)),
		"matches":      int64(len(s.matches)),
		"player_stats": int64(len(s.playerStats)),
		"team_stats":   int64(len(s.standings)),
	}, nil
}

// Freshness implements contracts.StoreStatus
func (s *Store) Freshness(ctx context.Context) (*contracts.Freshness, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := &contracts.Freshness{}
	for _, m := range s.matches {
		if f.MatchesUpdatedAt == nil || m.UpdatedAt.After(*f.MatchesUpdatedAt) {
			t := m.UpdatedAt
			f.MatchesUpdatedAt = &t
		}
	}
	for _, ts := range s.standings {
		if f.StandingsUpdatedAt == nil || ts.UpdatedAt.After(*f.StandingsUpdatedAt) {
			t := ts.UpdatedAt
			f.StandingsUpdatedAt = &t
		}
	}
	return f, nil
}

// Player returns the stored player (test inspection)
func (s *Store) Player(id int64) *contracts.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players[id]
}

// Team returns the stored team (test inspection)
func (s *Store) Team(id int64) *contracts.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teams[id]
}

// Match returns the stored match (test inspection)
func (s *Store) Match(id int64) *contracts.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matches[id]
}
