package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/external/footballdata"
)

const dateLayout = "2006-01-02"

// parseDate parses an upstream calendar date; empty means unknown
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}

// parseTimestamp parses an upstream RFC3339 instant and normalizes it to UTC
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t = t.UTC()
	return &t, nil
}

func seasonWindow(s *footballdata.Season) (*time.Time, *time.Time, error) {
	if s == nil {
		return nil, nil, nil
	}
	start, err := parseDate(s.StartDate)
	if err != nil {
		return nil, nil, fmt.Errorf("season start: %w", err)
	}
	end, err := parseDate(s.EndDate)
	if err != nil {
		return nil, nil, fmt.Errorf("season end: %w", err)
	}
	return start, end, nil
}

// MapLeague converts a competition
func MapLeague(c footballdata.Competition) (*contracts.League, error) {
	if c.ID == 0 {
		return nil, fmt.Errorf("competition %q has no id", c.Name)
	}
	start, end, err := seasonWindow(c.CurrentSeason)
	if err != nil {
		return nil, err
	}
	return &contracts.League{
		ExternalID:         c.ID,
		Name:               c.Name,
		Code:               c.Code,
		AreaName:           c.Area.Name,
		AreaCode:           c.Area.Code,
		CurrentSeasonStart: start,
		CurrentSeasonEnd:   end,
	}, nil
}

// MapTeam converts a club into the given league
func MapTeam(t footballdata.Team, leagueID int64) (*contracts.Team, error) {
	if t.ID == 0 {
		return nil, fmt.Errorf("team %q has no id", t.Name)
	}
	return &contracts.Team{
		ExternalID: t.ID,
		Name:       t.Name,
		ShortName:  t.ShortName,
		TLA:        t.TLA,
		Crest:      t.Crest,
		AreaName:   t.Area.Name,
		Address:    t.Address,
		Website:    t.Website,
		Founded:    t.Founded,
		ClubColors: t.ClubColors,
		Venue:      t.Venue,
		LeagueID:   leagueID,
	}, nil
}

// MapPlayer converts a squad member of the given team.
// An unparseable birth date is dropped rather than failing the player.
func MapPlayer(p footballdata.Person, teamID int64) (*contracts.Player, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("player %q has no id", p.Name)
	}
	dob, err := parseDate(p.DateOfBirth)
	if err != nil {
		dob = nil
	}
	tid := teamID
	return &contracts.Player{
		ExternalID:  p.ID,
		Name:        p.Name,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: dob,
		Nationality: p.Nationality,
		Position:    MapPosition(p.Position),
		ShirtNumber: p.ShirtNumber,
		TeamID:      &tid,
	}, nil
}

// MapPosition folds the upstream's detailed roles into the four lines
func MapPosition(s string) contracts.Position {
	switch v := strings.ToLower(s); {
	case v == "":
		return ""
	case strings.Contains(v, "goalkeeper"):
		return contracts.PositionGoalkeeper
	case strings.Contains(v, "midfield"):
		return contracts.PositionMidfield
	case strings.Contains(v, "back"), strings.Contains(v, "defen"):
		return contracts.PositionDefence
	case strings.Contains(v, "offence"), strings.Contains(v, "forward"),
		strings.Contains(v, "winger"), strings.Contains(v, "striker"):
		return contracts.PositionOffence
	default:
		return contracts.Position(s)
	}
}

// MatchRefs are the local ids a match points at
type MatchRefs struct {
	HomeTeamID    int64
	AwayTeamID    int64
	CompetitionID int64
}

// MapMatch converts a fixture with already-resolved references
func MapMatch(m footballdata.Match, refs MatchRefs) (*contracts.Match, error) {
	if m.ID == 0 {
		return nil, fmt.Errorf("match has no id")
	}
	kickoff, err := parseTimestamp(m.UTCDate)
	if err != nil {
		return nil, fmt.Errorf("match %d kickoff: %w", m.ID, err)
	}
	if kickoff == nil {
		return nil, fmt.Errorf("match %d has no kickoff", m.ID)
	}
	lastUpdated, err := parseTimestamp(m.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("match %d last updated: %w", m.ID, err)
	}
	start, end, err := seasonWindow(m.Season)
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", m.ID, err)
	}

	status := contracts.MatchStatus(m.Status)
	if status == "" {
		status = contracts.StatusScheduled
	}

	match := &contracts.Match{
		ExternalID:    m.ID,
		UTCDate:       *kickoff,
		Status:        status,
		Matchday:      m.Matchday,
		Stage:         m.Stage,
		Group:         m.Group,
		HomeTeamID:    refs.HomeTeamID,
		AwayTeamID:    refs.AwayTeamID,
		CompetitionID: refs.CompetitionID,
		SeasonStart:   start,
		SeasonEnd:     end,
		Winner:        contracts.Winner(m.Score.Winner),
		Duration:      m.Score.Duration,
		HomeScore:     m.Score.FullTime.Home,
		AwayScore:     m.Score.FullTime.Away,
		HomeHalfTime:  m.Score.HalfTime.Home,
		AwayHalfTime:  m.Score.HalfTime.Away,
		LastUpdated:   lastUpdated,
	}
	if match.Winner == "" && match.IsFinished() && match.HomeScore != nil && match.AwayScore != nil {
		match.Winner = contracts.WinnerFromScore(*match.HomeScore, *match.AwayScore)
	}
	return match, nil
}

// MapStanding converts a table row for a team and league in a season
func MapStanding(r footballdata.TableRow, teamID, leagueID int64, start, end *time.Time) *contracts.TeamStats {
	return &contracts.TeamStats{
		TeamID:         teamID,
		TeamName:       r.Team.Name,
		LeagueID:       leagueID,
		SeasonStart:    start,
		SeasonEnd:      end,
		Position:       r.Position,
		PlayedGames:    r.PlayedGames,
		Form:           r.Form,
		Won:            r.Won,
		Draw:           r.Draw,
		Lost:           r.Lost,
		Points:         r.Points,
		GoalsFor:       r.GoalsFor,
		GoalsAgainst:   r.GoalsAgainst,
		GoalDifference: r.GoalDifference,
	}
}
