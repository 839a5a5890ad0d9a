package contracts

import "time"

// ⭐ SSOT: analytics result records. JSON tags are the serialization
// contract shared by the API, the CLI and the scheduler digest.
//
// Optional groups are embedded pointers: a nil group contributes no keys,
// which is how "minimal payload" results are expressed.

// LeagueMetrics summarizes one competition over finished matches
type LeagueMetrics struct {
	LeagueName            string  `json:"league_name"`
	LeagueID              int64   `json:"league_id"`
	SeasonYear            *int    `json:"season_year"`
	TotalMatches          int     `json:"total_matches"`
	FinishedMatches       int     `json:"finished_matches"`
	TeamsCount            int     `json:"teams_count"`
	PlayersCount          int     `json:"players_count"`
	TotalGoals            int     `json:"total_goals"`
	AvgGoalsPerMatch      float64 `json:"avg_goals_per_match"`
	HomeWins              int     `json:"home_wins"`
	AwayWins              int     `json:"away_wins"`
	Draws                 int     `json:"draws"`
	HomeWinPercentage     float64 `json:"home_win_percentage"`
	AwayWinPercentage     float64 `json:"away_win_percentage"`
	DrawPercentage        float64 `json:"draw_percentage"`
	HighScoringMatches    int     `json:"high_scoring_matches"`
	HighScoringPercentage float64 `json:"high_scoring_percentage"`
	CleanSheets           int     `json:"clean_sheets"`
	CleanSheetPercentage  float64 `json:"clean_sheet_percentage"`
}

// LeagueAverages is the mean of per-team rates across a league
type LeagueAverages struct {
	LeagueID             int64         `json:"league_id"`
	LeagueName           string        `json:"league_name"`
	SeasonYear           *int          `json:"season_year"`
	TeamsCount           int           `json:"teams_count"`
	PointsPerGame        float64       `json:"points_per_game"`
	GoalsPerGame         float64       `json:"goals_per_game"`
	GoalsConcededPerGame float64       `json:"goals_conceded_per_game"`
	WinRate              float64       `json:"win_rate"`
	CleanSheetRate       float64       `json:"clean_sheet_rate"`
	Failures             []ItemFailure `json:"failures,omitempty"`
}

// TeamMetrics is a team's record over finished matches.
// Record is nil when the team has no finished matches in scope.
type TeamMetrics struct {
	TeamName      string `json:"team_name"`
	TeamID        int64  `json:"team_id"`
	SeasonYear    *int   `json:"season_year"`
	MatchesPlayed int    `json:"matches_played"`
	*TeamRecord
}

// TeamRecord holds the aggregates of a team with at least one finished match
type TeamRecord struct {
	LeagueID             int64   `json:"league_id"`
	Wins                 int     `json:"wins"`
	Draws                int     `json:"draws"`
	Losses               int     `json:"losses"`
	Points               int     `json:"points"`
	GoalsFor             int     `json:"goals_for"`
	GoalsAgainst         int     `json:"goals_against"`
	GoalDifference       int     `json:"goal_difference"`
	WinRate              float64 `json:"win_rate"`
	PointsPerGame        float64 `json:"points_per_game"`
	GoalsPerGame         float64 `json:"goals_per_game"`
	GoalsConcededPerGame float64 `json:"goals_conceded_per_game"`
	CleanSheets          int     `json:"clean_sheets"`
	CleanSheetRate       float64 `json:"clean_sheet_rate"`
}

// VenueRecord is a home-only or away-only breakdown
type VenueRecord struct {
	Matches       int     `json:"matches"`
	Wins          int     `json:"wins"`
	Draws         int     `json:"draws"`
	Losses        int     `json:"losses"`
	GoalsFor      int     `json:"goals_for"`
	GoalsAgainst  int     `json:"goals_against"`
	WinRate       float64 `json:"win_rate"`
	Points        int     `json:"points"`
	PointsPerGame float64 `json:"points_per_game"`
}

// TeamPerformance extends TeamMetrics with form and venue splits
type TeamPerformance struct {
	TeamMetrics
	// Form reads oldest to newest, one of W/D/L per match
	Form               string      `json:"form"`
	RecentMatchesCount int         `json:"recent_matches_count"`
	HomePerformance    VenueRecord `json:"home_performance"`
	AwayPerformance    VenueRecord `json:"away_performance"`
}

// TopScorer is one row of a scorers chart
type TopScorer struct {
	PlayerID      int64   `json:"player_id"`
	Name          string  `json:"name"`
	TeamName      string  `json:"team_name"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	MatchesPlayed int     `json:"matches_played"`
	MinutesPlayed int     `json:"minutes_played"`
	GoalsPerGame  float64 `json:"goals_per_game"`
}

// StandingRow is one row of a stored league table
type StandingRow struct {
	Position       int    `json:"position"`
	TeamName       string `json:"team_name"`
	TeamID         int64  `json:"team_id"`
	PlayedGames    int    `json:"played_games"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	Form           string `json:"form"`
}

// PlayerSummary aggregates a player's stat lines.
// Totals is nil when the player has no lines in scope.
type PlayerSummary struct {
	PlayerID      int64    `json:"player_id"`
	Name          string   `json:"name"`
	Position      Position `json:"position"`
	TeamName      string   `json:"team_name"`
	Nationality   string   `json:"nationality"`
	Age           *int     `json:"age"`
	SeasonYear    *int     `json:"season_year"`
	MatchesPlayed int      `json:"matches_played"`
	*PlayerTotals
	DetailedStats *PlayerDetail `json:"detailed_stats,omitempty"`
}

// PlayerTotals are summed counting stats and per-game rates
type PlayerTotals struct {
	MinutesPlayed  int     `json:"minutes_played"`
	Goals          int     `json:"goals"`
	Assists        int     `json:"assists"`
	YellowCards    int     `json:"yellow_cards"`
	RedCards       int     `json:"red_cards"`
	GoalsPerGame   float64 `json:"goals_per_game"`
	AssistsPerGame float64 `json:"assists_per_game"`
	MinutesPerGame float64 `json:"minutes_per_game"`
}

// PlayerDetail adds shooting, passing and defensive aggregates
type PlayerDetail struct {
	ShotsTotal      int     `json:"shots_total"`
	ShotsOnTarget   int     `json:"shots_on_target"`
	PassesTotal     int     `json:"passes_total"`
	PassesCompleted int     `json:"passes_completed"`
	Tackles         int     `json:"tackles"`
	Interceptions   int     `json:"interceptions"`
	FoulsCommitted  int     `json:"fouls_committed"`
	FoulsDrawn      int     `json:"fouls_drawn"`
	ShotAccuracy    float64 `json:"shot_accuracy"`
	PassAccuracy    float64 `json:"pass_accuracy"`
}

// Momentum is a recency-weighted score over a team's latest results
type Momentum struct {
	TeamID          int64   `json:"team_id"`
	MatchesAnalyzed int     `json:"matches_analyzed"`
	MomentumScore   float64 `json:"momentum_score"`
	*MomentumRecord
}

// MomentumRecord holds raw counts behind a momentum score
type MomentumRecord struct {
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDifference int     `json:"goal_difference"`
	WeightedPoints float64 `json:"points"`
	PointsPerGame  float64 `json:"points_per_game"`
	GoalsPerGame   float64 `json:"goals_per_game"`
}

// HeadToHead summarizes meetings of two teams from team1's side
type HeadToHead struct {
	Team1ID      int64 `json:"team1_id"`
	Team2ID      int64 `json:"team2_id"`
	TotalMatches int   `json:"total_matches"`
	*HeadToHeadRecord
}

// HeadToHeadRecord holds the counts; team2 figures mirror team1's
type HeadToHeadRecord struct {
	Team1Wins          int     `json:"team1_wins"`
	Team1Draws         int     `json:"team1_draws"`
	Team1Losses        int     `json:"team1_losses"`
	Team2Wins          int     `json:"team2_wins"`
	Team2Losses        int     `json:"team2_losses"`
	Team1GoalsFor      int     `json:"team1_goals_for"`
	Team1GoalsAgainst  int     `json:"team1_goals_against"`
	Team2GoalsFor      int     `json:"team2_goals_for"`
	Team2GoalsAgainst  int     `json:"team2_goals_against"`
	Team1WinPercentage float64 `json:"team1_win_percentage"`
	Team2WinPercentage float64 `json:"team2_win_percentage"`
	DrawPercentage     float64 `json:"draw_percentage"`
}

// PlayerForm rates a player's latest appearances on a 0-10 scale
type PlayerForm struct {
	PlayerID        int64   `json:"player_id"`
	MatchesAnalyzed int     `json:"matches_analyzed"`
	FormRating      float64 `json:"form_rating"`
	*PlayerFormRecord
}

// PlayerFormRecord holds the sums behind a form rating
type PlayerFormRecord struct {
	Goals             int     `json:"goals"`
	Assists           int     `json:"assists"`
	GoalContributions int     `json:"goal_contributions"`
	MinutesPlayed     int     `json:"minutes_played"`
	GoalsPerGame      float64 `json:"goals_per_game"`
	AssistsPerGame    float64 `json:"assists_per_game"`
}

// PlayerEfficiency normalizes output per 90 minutes.
// Record is nil when the player has no minutes in scope.
type PlayerEfficiency struct {
	PlayerID   int64 `json:"player_id"`
	SeasonYear *int  `json:"season_year"`
	*EfficiencyRecord
}

// EfficiencyRecord holds per-90 rates and percentages
type EfficiencyRecord struct {
	GoalsPer90             float64 `json:"goals_per_90"`
	AssistsPer90           float64 `json:"assists_per_90"`
	GoalContributionsPer90 float64 `json:"goal_contributions_per_90"`
	ShotsPer90             float64 `json:"shots_per_90"`
	ShotConversionRate     float64 `json:"shot_conversion_rate"`
	ShotAccuracy           float64 `json:"shot_accuracy"`
	PassAccuracy           float64 `json:"pass_accuracy"`
	PassesPer90            float64 `json:"passes_per_90"`
	TotalMinutes           int     `json:"total_minutes"`
	MatchesPlayed          int     `json:"matches_played"`
}

// Possession is a team's passing volume from its players' lines
type Possession struct {
	TeamID          int64   `json:"team_id"`
	SeasonYear      *int    `json:"season_year"`
	TotalPasses     int     `json:"total_passes"`
	CompletedPasses int     `json:"completed_passes"`
	PassAccuracy    float64 `json:"pass_accuracy"`
	PassesPerGame   float64 `json:"passes_per_game"`
	MatchesPlayed   int     `json:"matches_played"`
}

// Defensive is a team's defensive volume. Record is nil without lines.
type Defensive struct {
	TeamID     int64 `json:"team_id"`
	SeasonYear *int  `json:"season_year"`
	*DefensiveRecord
}

// DefensiveRecord holds defensive totals and per-game rates
type DefensiveRecord struct {
	TotalTackles            int     `json:"total_tackles"`
	TotalInterceptions      int     `json:"total_interceptions"`
	TotalFoulsCommitted     int     `json:"total_fouls_committed"`
	TacklesPerGame          float64 `json:"tackles_per_game"`
	InterceptionsPerGame    float64 `json:"interceptions_per_game"`
	FoulsPerGame            float64 `json:"fouls_per_game"`
	DefensiveActionsPerGame float64 `json:"defensive_actions_per_game"`
	MatchesPlayed           int     `json:"matches_played"`
}

// ExpectedGoals is a shots-on-target based xG estimate
type ExpectedGoals struct {
	TeamID         int64   `json:"team_id"`
	SeasonYear     *int    `json:"season_year"`
	XGFor          float64 `json:"xg_for"`
	XGAgainst      float64 `json:"xg_against"`
	XGDifference   float64 `json:"xg_difference"`
	ShotsTotal     int     `json:"shots_total"`
	ShotsOnTarget  int     `json:"shots_on_target"`
	Goals          int     `json:"goals"`
	ConversionRate float64 `json:"conversion_rate"`
}

// PowerRanking is one team's composite score and rank
type PowerRanking struct {
	TeamID         int64   `json:"team_id"`
	TeamName       string  `json:"team_name"`
	PowerScore     float64 `json:"power_score"`
	PointsPerGame  float64 `json:"points_per_game"`
	GoalDifference int     `json:"goal_difference"`
	MomentumScore  float64 `json:"momentum_score"`
	WinRate        float64 `json:"win_rate"`
	MatchesPlayed  int     `json:"matches_played"`
	Rank           int     `json:"power_ranking"`
}

// Digest is the periodic cross-league snapshot kept by the scheduler
type Digest struct {
	GeneratedAt time.Time      `json:"generated_at"`
	SeasonYear  *int           `json:"season_year"`
	Leagues     []LeagueDigest `json:"leagues"`
	Failures    []ItemFailure  `json:"failures,omitempty"`
}

// LeagueDigest is one league's line of a Digest. Leader and TopScorer are
// nil when the league has no finished matches or no recorded goals.
type LeagueDigest struct {
	LeagueID         int64         `json:"league_id"`
	LeagueName       string        `json:"league_name"`
	FinishedMatches  int           `json:"finished_matches"`
	AvgGoalsPerMatch float64       `json:"avg_goals_per_match"`
	HomeWinRate      float64       `json:"home_win_percentage"`
	Leader           *PowerRanking `json:"leader,omitempty"`
	TopScorer        *TopScorer    `json:"top_scorer,omitempty"`
}
