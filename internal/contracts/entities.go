package contracts

import "time"

// ⭐ SSOT: football entities as stored by the entity store

// MatchStatus is the upstream lifecycle state of a match
type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusTimed     MatchStatus = "TIMED"
	StatusLive      MatchStatus = "LIVE"
	StatusInPlay    MatchStatus = "IN_PLAY"
	StatusPaused    MatchStatus = "PAUSED"
	StatusFinished  MatchStatus = "FINISHED"
	StatusPostponed MatchStatus = "POSTPONED"
	StatusSuspended MatchStatus = "SUSPENDED"
	StatusCancelled MatchStatus = "CANCELLED"
	StatusAwarded   MatchStatus = "AWARDED"
)

// Winner is the recorded outcome of a finished match
type Winner string

const (
	WinnerHome Winner = "HOME_TEAM"
	WinnerAway Winner = "AWAY_TEAM"
	WinnerDraw Winner = "DRAW"
)

// Position is a player's playing role
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefence    Position = "Defence"
	PositionMidfield   Position = "Midfield"
	PositionOffence    Position = "Offence"
)

// Result is a single-match outcome from one team's perspective
type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// Points returns league points awarded for the result
func (r Result) Points() int {
	switch r {
	case ResultWin:
		return 3
	case ResultDraw:
		return 1
	default:
		return 0
	}
}

// League is a competition (e.g. Premier League)
type League struct {
	ID                 int64      `json:"id"`
	ExternalID         int64      `json:"external_id"`
	Name               string     `json:"name"`
	Code               string     `json:"code,omitempty"`
	AreaName           string     `json:"area_name,omitempty"`
	AreaCode           string     `json:"area_code,omitempty"`
	CurrentSeasonStart *time.Time `json:"current_season_start,omitempty"`
	CurrentSeasonEnd   *time.Time `json:"current_season_end,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Team belongs to exactly one league
type Team struct {
	ID         int64     `json:"id"`
	ExternalID int64     `json:"external_id"`
	Name       string    `json:"name"`
	ShortName  string    `json:"short_name,omitempty"`
	TLA        string    `json:"tla,omitempty"`
	Crest      string    `json:"crest,omitempty"`
	AreaName   string    `json:"area_name,omitempty"`
	Address    string    `json:"address,omitempty"`
	Website    string    `json:"website,omitempty"`
	Founded    *int      `json:"founded,omitempty"`
	ClubColors string    `json:"club_colors,omitempty"`
	Venue      string    `json:"venue,omitempty"`
	LeagueID   int64     `json:"league_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Player may be unaffiliated (TeamID nil)
type Player struct {
	ID          int64      `json:"id"`
	ExternalID  int64      `json:"external_id"`
	Name        string     `json:"name"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
	Position    Position   `json:"position,omitempty"`
	ShirtNumber *int       `json:"shirt_number,omitempty"`
	TeamID      *int64     `json:"team_id,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AgeAt returns the player's age in whole years at t, or nil without a birth date
func (p *Player) AgeAt(t time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	dob := p.DateOfBirth.UTC()
	t = t.UTC()
	age := t.Year() - dob.Year()
	if t.Month() < dob.Month() || (t.Month() == dob.Month() && t.Day() < dob.Day()) {
		age--
	}
	return &age
}

// Match is a single fixture between two teams
type Match struct {
	ID            int64       `json:"id"`
	ExternalID    int64       `json:"external_id"`
	UTCDate       time.Time   `json:"utc_date"`
	Status        MatchStatus `json:"status"`
	Matchday      *int        `json:"matchday,omitempty"`
	Stage         string      `json:"stage,omitempty"`
	Group         string      `json:"group,omitempty"`
	HomeTeamID    int64       `json:"home_team_id"`
	AwayTeamID    int64       `json:"away_team_id"`
	CompetitionID int64       `json:"competition_id"`
	SeasonStart   *time.Time  `json:"season_start_date,omitempty"`
	SeasonEnd     *time.Time  `json:"season_end_date,omitempty"`
	Winner        Winner      `json:"score_winner,omitempty"`
	Duration      string      `json:"score_duration,omitempty"`
	HomeScore     *int        `json:"score_full_time_home,omitempty"`
	AwayScore     *int        `json:"score_full_time_away,omitempty"`
	HomeHalfTime  *int        `json:"score_half_time_home,omitempty"`
	AwayHalfTime  *int        `json:"score_half_time_away,omitempty"`
	LastUpdated   *time.Time  `json:"last_updated,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// IsFinished reports whether the match contributes to aggregates
func (m *Match) IsFinished() bool {
	return m.Status == StatusFinished
}

// HasTeam reports whether the team played in the match
func (m *Match) HasTeam(teamID int64) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// IsHome reports whether the team was the home side
func (m *Match) IsHome(teamID int64) bool {
	return m.HomeTeamID == teamID
}

// Goals returns (home, away) full-time goals; missing scores count as 0
func (m *Match) Goals() (int, int) {
	return intOrZero(m.HomeScore), intOrZero(m.AwayScore)
}

// TotalGoals returns home plus away full-time goals
func (m *Match) TotalGoals() int {
	home, away := m.Goals()
	return home + away
}

// GoalsFor returns (scored, conceded) from the team's perspective
func (m *Match) GoalsFor(teamID int64) (int, int) {
	home, away := m.Goals()
	if m.IsHome(teamID) {
		return home, away
	}
	return away, home
}

// ResultFor derives the outcome for the team from the full-time score
func (m *Match) ResultFor(teamID int64) Result {
	scored, conceded := m.GoalsFor(teamID)
	switch {
	case scored > conceded:
		return ResultWin
	case scored < conceded:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// WinnerFromScore derives the winner implied by full-time goals
func WinnerFromScore(home, away int) Winner {
	switch {
	case home > away:
		return WinnerHome
	case away > home:
		return WinnerAway
	default:
		return WinnerDraw
	}
}

// PlayerStats is one player's line for one match
type PlayerStats struct {
	ID              int64 `json:"id"`
	PlayerID        int64 `json:"player_id"`
	MatchID         int64 `json:"match_id"`
	MinutesPlayed   int   `json:"minutes_played"`
	Goals           int   `json:"goals"`
	Assists         int   `json:"assists"`
	YellowCards     int   `json:"yellow_cards"`
	RedCards        int   `json:"red_cards"`
	ShotsTotal      int   `json:"shots_total"`
	ShotsOnTarget   int   `json:"shots_on_target"`
	PassesTotal     int   `json:"passes_total"`
	PassesCompleted int   `json:"passes_completed"`
	Tackles         int   `json:"tackles"`
	Interceptions   int   `json:"interceptions"`
	FoulsCommitted  int   `json:"fouls_committed"`
	FoulsDrawn      int   `json:"fouls_drawn"`
	Offsides        int   `json:"offsides"`
}

// PlayerStatLine is a PlayerStats row joined with its match, player and team
type PlayerStatLine struct {
	PlayerStats
	PlayerName  string      `json:"player_name"`
	TeamID      *int64      `json:"team_id,omitempty"`
	TeamName    string      `json:"team_name,omitempty"`
	MatchDate   time.Time   `json:"match_date"`
	MatchStatus MatchStatus `json:"match_status"`
}

// TeamStats is a standings row keyed by (team, league, season start)
type TeamStats struct {
	ID             int64      `json:"id"`
	TeamID         int64      `json:"team_id"`
	TeamName       string     `json:"team_name,omitempty"`
	LeagueID       int64      `json:"league_id"`
	SeasonStart    *time.Time `json:"season_start_date,omitempty"`
	SeasonEnd      *time.Time `json:"season_end_date,omitempty"`
	Position       int        `json:"position"`
	PlayedGames    int        `json:"played_games"`
	Form           string     `json:"form,omitempty"`
	Won            int        `json:"won"`
	Draw           int        `json:"draw"`
	Lost           int        `json:"lost"`
	Points         int        `json:"points"`
	GoalsFor       int        `json:"goals_for"`
	GoalsAgainst   int        `json:"goals_against"`
	GoalDifference int        `json:"goal_difference"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
