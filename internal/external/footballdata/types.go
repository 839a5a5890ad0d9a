package footballdata

// Area is the country or region of a competition or club
type Area struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Season is a competition season window; dates are YYYY-MM-DD
type Season struct {
	ID              int64  `json:"id"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday *int   `json:"currentMatchday"`
}

// Competition is a league or cup
type Competition struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Type          string  `json:"type"`
	Plan          string  `json:"plan"`
	Area          Area    `json:"area"`
	CurrentSeason *Season `json:"currentSeason"`
}

// Team is a club with an optional squad (only on /teams/{id})
type Team struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	ShortName  string   `json:"shortName"`
	TLA        string   `json:"tla"`
	Crest      string   `json:"crest"`
	Area       Area     `json:"area"`
	Address    string   `json:"address"`
	Website    string   `json:"website"`
	Founded    *int     `json:"founded"`
	ClubColors string   `json:"clubColors"`
	Venue      string   `json:"venue"`
	Squad      []Person `json:"squad"`
}

// Person is a squad member
type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	Position    string `json:"position"`
	ShirtNumber *int   `json:"shirtNumber"`
}

// TeamRef is the short team form embedded in matches and tables
type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ScorePair is a home/away goal count; nil before kickoff
type ScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Score is the result block of a match
type Score struct {
	Winner   string    `json:"winner"`
	Duration string    `json:"duration"`
	FullTime ScorePair `json:"fullTime"`
	HalfTime ScorePair `json:"halfTime"`
}

// Match is a fixture
type Match struct {
	ID          int64       `json:"id"`
	UTCDate     string      `json:"utcDate"`
	Status      string      `json:"status"`
	Matchday    *int        `json:"matchday"`
	Stage       string      `json:"stage"`
	Group       string      `json:"group"`
	LastUpdated string      `json:"lastUpdated"`
	HomeTeam    TeamRef     `json:"homeTeam"`
	AwayTeam    TeamRef     `json:"awayTeam"`
	Competition Competition `json:"competition"`
	Season      *Season     `json:"season"`
	Score       Score       `json:"score"`
}

// TableRow is one row of a standings table
type TableRow struct {
	Position       int     `json:"position"`
	Team           TeamRef `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Form           string  `json:"form"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
}

// Standing is one table (TOTAL, HOME or AWAY)
type Standing struct {
	Stage string     `json:"stage"`
	Type  string     `json:"type"`
	Group string     `json:"group"`
	Table []TableRow `json:"table"`
}

// StandingsResponse is the payload of /competitions/{id}/standings
type StandingsResponse struct {
	Competition Competition `json:"competition"`
	Season      *Season     `json:"season"`
	Standings   []Standing  `json:"standings"`
}

type competitionsResponse struct {
	Count        int           `json:"count"`
	Competitions []Competition `json:"competitions"`
}

type teamsResponse struct {
	Count int    `json:"count"`
	Teams []Team `json:"teams"`
}

type matchesResponse struct {
	Matches []Match `json:"matches"`
}
