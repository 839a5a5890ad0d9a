package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// analyticsCmd represents the analytics command
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "League, team and player analytics",
	Long: `Compute analytics over stored data. Only finished matches count.

Ids are local ids (see "data status" / the API), not upstream ids.
Every subcommand accepts --json.

Example:
  go run ./cmd/soccer analytics calculate-metrics --season 2024
  go run ./cmd/soccer analytics top-scorers --league 1 --limit 20
  go run ./cmd/soccer analytics head-to-head 12 15 --last 10`,
}

var (
	anSeason   int
	anScorers  int
	anRows     int
	anLast     int
	anLeague   int64
	anDetailed bool
)

func init() {
	rootCmd.AddCommand(analyticsCmd)

	calculateMetricsCmd := &cobra.Command{
		Use:   "calculate-metrics",
		Short: "Metrics of every league",
		Args:  cobra.NoArgs,
		RunE:  runCalculateMetrics,
	}
	topScorersCmd := &cobra.Command{
		Use:   "top-scorers",
		Short: "Scorers chart (goals, then assists)",
		Args:  cobra.NoArgs,
		RunE:  runTopScorers,
	}
	teamPerformanceCmd := &cobra.Command{
		Use:   "team-performance [team_id]",
		Short: "Team record, form and home/away splits",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamPerformance,
	}
	leagueTableCmd := &cobra.Command{
		Use:   "league-table [league_id]",
		Short: "Stored standings",
		Args:  cobra.ExactArgs(1),
		RunE:  runLeagueTable,
	}
	playerStatsCmd := &cobra.Command{
		Use:   "player-stats [player_id]",
		Short: "Player totals and per-game rates",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlayerStats,
	}
	momentumCmd := &cobra.Command{
		Use:   "momentum [team_id]",
		Short: "Recency-weighted momentum score (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE:  runMomentum,
	}
	headToHeadCmd := &cobra.Command{
		Use:   "head-to-head [team_id] [opponent_id]",
		Short: "Record of two teams' meetings",
		Args:  cobra.ExactArgs(2),
		RunE:  runHeadToHead,
	}
	powerRankingsCmd := &cobra.Command{
		Use:   "power-rankings [league_id]",
		Short: "Composite power ranking of a league",
		Args:  cobra.ExactArgs(1),
		RunE:  runPowerRankings,
	}
	playerFormCmd := &cobra.Command{
		Use:   "player-form [player_id]",
		Short: "Form rating over the latest appearances (0-10)",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlayerForm,
	}
	efficiencyCmd := &cobra.Command{
		Use:   "efficiency [player_id]",
		Short: "Per-90 output and accuracies",
		Args:  cobra.ExactArgs(1),
		RunE:  runEfficiency,
	}
	teamStyleCmd := &cobra.Command{
		Use:   "team-style [team_id]",
		Short: "Possession, defensive volume and expected goals",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamStyle,
	}
	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Cross-league digest (leader and top scorer per league)",
		Args:  cobra.NoArgs,
		RunE:  runDigest,
	}

	seasonScoped := []*cobra.Command{
		calculateMetricsCmd, topScorersCmd, teamPerformanceCmd, leagueTableCmd,
		playerStatsCmd, powerRankingsCmd, efficiencyCmd, teamStyleCmd, digestCmd,
	}
	for _, c := range seasonScoped {
		c.Flags().IntVar(&anSeason, "season", 0, "season start year (default: all)")
	}
	topScorersCmd.Flags().IntVar(&anScorers, "limit", 10, "number of players")
	topScorersCmd.Flags().Int64Var(&anLeague, "league", 0, "restrict to a league id")
	leagueTableCmd.Flags().IntVar(&anRows, "limit", 20, "number of rows")
	playerStatsCmd.Flags().BoolVar(&anDetailed, "detailed", false, "include shooting, passing and defensive detail")
	for _, c := range []*cobra.Command{momentumCmd, headToHeadCmd, playerFormCmd} {
		c.Flags().IntVar(&anLast, "last", 0, "number of matches (default: configured window)")
	}

	analyticsCmd.AddCommand(calculateMetricsCmd, topScorersCmd, teamPerformanceCmd, leagueTableCmd,
		playerStatsCmd, momentumCmd, headToHeadCmd, powerRankingsCmd, playerFormCmd, efficiencyCmd,
		teamStyleCmd, digestCmd)
}

// analyze wires the app, computes a result and prints it as JSON or text
func analyze[T any](cmd *cobra.Command, compute func(context.Context, *app) (T, error), render func(T)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := compute(ctx, a)
	if err != nil {
		if contracts.IsNotFound(err) {
			PrintError(err.Error())
		}
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}
	render(result)
	return nil
}

func argID(args []string, i int, what string) (int64, error) {
	return parseID(args[i], what)
}

func runCalculateMetrics(cmd *cobra.Command, args []string) error {
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.Batch[*contracts.LeagueMetrics], error) {
		return a.engine.AllLeagueMetrics(ctx, season)
	}, func(b *contracts.Batch[*contracts.LeagueMetrics]) {
		PrintHeader("League metrics, " + seasonLabel(season))
		widths := []int{24, 8, 7, 7, 7, 7, 7, 8}
		PrintTableHeader([]string{"League", "Played", "Goals", "G/M", "Home%", "Away%", "Draw%", "CS%"}, widths)
		for _, m := range b.Items {
			PrintTableRow([]string{
				m.LeagueName, itoa(m.FinishedMatches), itoa(m.TotalGoals), f2(m.AvgGoalsPerMatch),
				f2(m.HomeWinPercentage), f2(m.AwayWinPercentage), f2(m.DrawPercentage), f2(m.CleanSheetPercentage),
			}, widths)
		}
		PrintFailures(b.Failures)
	})
}

func runTopScorers(cmd *cobra.Command, args []string) error {
	season := optionalInt(anSeason)
	var league *int64
	if anLeague > 0 {
		league = &anLeague
	}
	return analyze(cmd, func(ctx context.Context, a *app) ([]contracts.TopScorer, error) {
		if league != nil {
			if _, err := a.store.GetLeague(ctx, *league); err != nil {
				return nil, err
			}
		}
		return a.engine.TopScorers(ctx, league, season, anScorers)
	}, func(scorers []contracts.TopScorer) {
		PrintHeader("Top scorers, " + seasonLabel(season))
		widths := []int{4, 26, 24, 6, 8, 8, 6}
		PrintTableHeader([]string{"#", "Player", "Team", "Goals", "Assists", "Matches", "G/M"}, widths)
		for i, s := range scorers {
			PrintTableRow([]string{
				itoa(i + 1), s.Name, s.TeamName, itoa(s.Goals), itoa(s.Assists), itoa(s.MatchesPlayed), f2(s.GoalsPerGame),
			}, widths)
		}
	})
}

func runTeamPerformance(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "team id")
	if err != nil {
		return err
	}
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.TeamPerformance, error) {
		return a.engine.TeamPerformance(ctx, id, season)
	}, func(p *contracts.TeamPerformance) {
		PrintHeader(fmt.Sprintf("%s, %s", p.TeamName, seasonLabel(season)))
		if p.TeamRecord == nil {
			PrintInfo("No finished matches")
			return
		}
		PrintKeyValue("Played", itoa(p.MatchesPlayed), 14)
		PrintKeyValue("W-D-L", fmt.Sprintf("%d-%d-%d", p.Wins, p.Draws, p.Losses), 14)
		PrintKeyValue("Points", fmt.Sprintf("%d (%s per game)", p.Points, f2(p.PointsPerGame)), 14)
		PrintKeyValue("Goals", fmt.Sprintf("%d:%d (%+d)", p.GoalsFor, p.GoalsAgainst, p.GoalDifference), 14)
		PrintKeyValue("Win rate", f2(p.WinRate), 14)
		PrintKeyValue("Clean sheets", fmt.Sprintf("%d (%s)", p.CleanSheets, f2(p.CleanSheetRate)), 14)
		PrintKeyValue("Form", p.Form, 14)
		PrintSeparator()
		widths := []int{6, 8, 8, 8, 8}
		PrintTableHeader([]string{"", "Played", "W-D-L", "Goals", "PPG"}, widths)
		for _, v := range []struct {
			label string
			rec   contracts.VenueRecord
		}{{"Home", p.HomePerformance}, {"Away", p.AwayPerformance}} {
			PrintTableRow([]string{
				v.label, itoa(v.rec.Matches), fmt.Sprintf("%d-%d-%d", v.rec.Wins, v.rec.Draws, v.rec.Losses),
				fmt.Sprintf("%d:%d", v.rec.GoalsFor, v.rec.GoalsAgainst), f2(v.rec.PointsPerGame),
			}, widths)
		}
	})
}

func runLeagueTable(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "league id")
	if err != nil {
		return err
	}
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) ([]contracts.StandingRow, error) {
		return a.engine.LeagueTable(ctx, id, season, anRows)
	}, func(rows []contracts.StandingRow) {
		PrintHeader(fmt.Sprintf("League %d table, %s", id, seasonLabel(season)))
		widths := []int{4, 26, 4, 4, 4, 4, 7, 5, 5, 7}
		PrintTableHeader([]string{"#", "Team", "P", "W", "D", "L", "Goals", "GD", "Pts", "Form"}, widths)
		for _, r := range rows {
			PrintTableRow([]string{
				itoa(r.Position), r.TeamName, itoa(r.PlayedGames), itoa(r.Won), itoa(r.Draw), itoa(r.Lost),
				fmt.Sprintf("%d:%d", r.GoalsFor, r.GoalsAgainst), fmt.Sprintf("%+d", r.GoalDifference), itoa(r.Points), r.Form,
			}, widths)
		}
	})
}

func runPlayerStats(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "player id")
	if err != nil {
		return err
	}
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.PlayerSummary, error) {
		return a.engine.PlayerStats(ctx, id, season, anDetailed)
	}, func(s *contracts.PlayerSummary) {
		PrintHeader(fmt.Sprintf("%s (%s, %s)", s.Name, s.Position, s.TeamName))
		if s.Age != nil {
			PrintKeyValue("Age", itoa(*s.Age), 14)
		}
		PrintKeyValue("Matches", itoa(s.MatchesPlayed), 14)
		if s.PlayerTotals == nil {
			PrintInfo("No appearances in scope")
			return
		}
		PrintKeyValue("Minutes", fmt.Sprintf("%d (%s per game)", s.MinutesPlayed, f2(s.MinutesPerGame)), 14)
		PrintKeyValue("Goals", fmt.Sprintf("%d (%s per game)", s.Goals, f2(s.GoalsPerGame)), 14)
		PrintKeyValue("Assists", fmt.Sprintf("%d (%s per game)", s.Assists, f2(s.AssistsPerGame)), 14)
		PrintKeyValue("Cards", fmt.Sprintf("%d yellow, %d red", s.YellowCards, s.RedCards), 14)
		if d := s.DetailedStats; d != nil {
			PrintSeparator()
			PrintKeyValue("Shots", fmt.Sprintf("%d (%d on target, accuracy %s)", d.ShotsTotal, d.ShotsOnTarget, f2(d.ShotAccuracy)), 14)
			PrintKeyValue("Passes", fmt.Sprintf("%d (%d completed, accuracy %s)", d.PassesTotal, d.PassesCompleted, f2(d.PassAccuracy)), 14)
			PrintKeyValue("Tackles", itoa(d.Tackles), 14)
			PrintKeyValue("Interceptions", itoa(d.Interceptions), 14)
			PrintKeyValue("Fouls", fmt.Sprintf("%d committed, %d drawn", d.FoulsCommitted, d.FoulsDrawn), 14)
		}
	})
}

func runMomentum(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "team id")
	if err != nil {
		return err
	}
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.Momentum, error) {
		return a.scorer.Momentum(ctx, id, anLast)
	}, func(m *contracts.Momentum) {
		PrintHeader(fmt.Sprintf("Momentum of team %d", id))
		PrintKeyValue("Matches", itoa(m.MatchesAnalyzed), 10)
		PrintKeyValue("Score", f2(m.MomentumScore)+" / 100", 10)
		if m.MomentumRecord != nil {
			PrintKeyValue("W-D-L", fmt.Sprintf("%d-%d-%d", m.Wins, m.Draws, m.Losses), 10)
			PrintKeyValue("Goals", fmt.Sprintf("%d:%d (%+d)", m.GoalsFor, m.GoalsAgainst, m.GoalDifference), 10)
			PrintKeyValue("PPG", f2(m.PointsPerGame), 10)
		}
	})
}

func runHeadToHead(cmd *cobra.Command, args []string) error {
	team, err := argID(args, 0, "team id")
	if err != nil {
		return err
	}
	opponent, err := argID(args, 1, "opponent id")
	if err != nil {
		return err
	}
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.HeadToHead, error) {
		return a.scorer.HeadToHead(ctx, team, opponent, anLast)
	}, func(h *contracts.HeadToHead) {
		PrintHeader(fmt.Sprintf("Team %d vs team %d", team, opponent))
		PrintKeyValue("Meetings", itoa(h.TotalMatches), 10)
		if h.HeadToHeadRecord == nil {
			return
		}
		PrintKeyValue("W-D-L", fmt.Sprintf("%d-%d-%d", h.Team1Wins, h.Team1Draws, h.Team1Losses), 10)
		PrintKeyValue("Goals", fmt.Sprintf("%d:%d", h.Team1GoalsFor, h.Team1GoalsAgainst), 10)
		PrintKeyValue("Win %", fmt.Sprintf("%s vs %s (draws %s)", pct(h.Team1WinPercentage), pct(h.Team2WinPercentage), pct(h.DrawPercentage)), 10)
	})
}

func runPowerRankings(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "league id")
	if err != nil {
		return err
	}
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.Batch[contracts.PowerRanking], error) {
		return a.scorer.PowerRankings(ctx, id, season)
	}, func(b *contracts.Batch[contracts.PowerRanking]) {
		PrintHeader(fmt.Sprintf("League %d power rankings, %s", id, seasonLabel(season)))
		widths := []int{4, 26, 7, 6, 5, 9, 6}
		PrintTableHeader([]string{"#", "Team", "Power", "PPG", "GD", "Momentum", "Win"}, widths)
		for _, r := range b.Items {
			PrintTableRow([]string{
				itoa(r.Rank), r.TeamName, f2(r.PowerScore), f2(r.PointsPerGame),
				fmt.Sprintf("%+d", r.GoalDifference), f2(r.MomentumScore), f2(r.WinRate),
			}, widths)
		}
		PrintFailures(b.Failures)
	})
}

func runPlayerForm(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "player id")
	if err != nil {
		return err
	}
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.PlayerForm, error) {
		return a.scorer.PlayerForm(ctx, id, anLast)
	}, func(f *contracts.PlayerForm) {
		PrintHeader(fmt.Sprintf("Form of player %d", id))
		PrintKeyValue("Matches", itoa(f.MatchesAnalyzed), 12)
		PrintKeyValue("Rating", f2(f.FormRating)+" / 10", 12)
		if f.PlayerFormRecord != nil {
			PrintKeyValue("Goals", fmt.Sprintf("%d (%s per game)", f.Goals, f2(f.GoalsPerGame)), 12)
			PrintKeyValue("Assists", fmt.Sprintf("%d (%s per game)", f.Assists, f2(f.AssistsPerGame)), 12)
			PrintKeyValue("Minutes", itoa(f.MinutesPlayed), 12)
		}
	})
}

func runEfficiency(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "player id")
	if err != nil {
		return err
	}
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.PlayerEfficiency, error) {
		return a.scorer.PlayerEfficiency(ctx, id, season)
	}, func(e *contracts.PlayerEfficiency) {
		PrintHeader(fmt.Sprintf("Efficiency of player %d, %s", id, seasonLabel(season)))
		if e.EfficiencyRecord == nil {
			PrintInfo("No minutes in scope")
			return
		}
		PrintKeyValue("Minutes", fmt.Sprintf("%d in %d matches", e.TotalMinutes, e.MatchesPlayed), 16)
		PrintKeyValue("Goals/90", f2(e.GoalsPer90), 16)
		PrintKeyValue("Assists/90", f2(e.AssistsPer90), 16)
		PrintKeyValue("Contributions/90", f2(e.GoalContributionsPer90), 16)
		PrintKeyValue("Shots/90", f2(e.ShotsPer90), 16)
		PrintKeyValue("Conversion", pct(e.ShotConversionRate), 16)
		PrintKeyValue("Shot accuracy", pct(e.ShotAccuracy), 16)
		PrintKeyValue("Pass accuracy", pct(e.PassAccuracy), 16)
		PrintKeyValue("Passes/90", f2(e.PassesPer90), 16)
	})
}

// teamStyle groups the per-team style scores printed by team-style
type teamStyle struct {
	Possession    *contracts.Possession    `json:"possession"`
	Defensive     *contracts.Defensive     `json:"defensive"`
	ExpectedGoals *contracts.ExpectedGoals `json:"expected_goals"`
}

func runTeamStyle(cmd *cobra.Command, args []string) error {
	id, err := argID(args, 0, "team id")
	if err != nil {
		return err
	}
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) (*teamStyle, error) {
		var s teamStyle
		var err error
		if s.Possession, err = a.scorer.Possession(ctx, id, season); err != nil {
			return nil, err
		}
		if s.Defensive, err = a.scorer.Defensive(ctx, id, season); err != nil {
			return nil, err
		}
		if s.ExpectedGoals, err = a.scorer.ExpectedGoals(ctx, id, season); err != nil {
			return nil, err
		}
		return &s, nil
	}, func(s *teamStyle) {
		PrintHeader(fmt.Sprintf("Style of team %d, %s", id, seasonLabel(season)))
		p := s.Possession
		PrintKeyValue("Passes/game", f2(p.PassesPerGame), 16)
		PrintKeyValue("Pass accuracy", f2(p.PassAccuracy), 16)
		if d := s.Defensive.DefensiveRecord; d != nil {
			PrintKeyValue("Tackles/game", f2(d.TacklesPerGame), 16)
			PrintKeyValue("Interceptions/g", f2(d.InterceptionsPerGame), 16)
			PrintKeyValue("Fouls/game", f2(d.FoulsPerGame), 16)
		}
		xg := s.ExpectedGoals
		PrintKeyValue("xG for", f2(xg.XGFor), 16)
		PrintKeyValue("xG against", f2(xg.XGAgainst), 16)
		PrintKeyValue("xG difference", f2(xg.XGDifference), 16)
		PrintKeyValue("Conversion", f2(xg.ConversionRate), 16)
	})
}

func runDigest(cmd *cobra.Command, args []string) error {
	season := optionalInt(anSeason)
	return analyze(cmd, func(ctx context.Context, a *app) (*contracts.Digest, error) {
		return a.scorer.Digest(ctx, season, time.Now().UTC())
	}, func(d *contracts.Digest) {
		PrintHeader("Digest, " + seasonLabel(season))
		widths := []int{24, 7, 6, 24, 24}
		PrintTableHeader([]string{"League", "Played", "G/M", "Leader", "Top scorer"}, widths)
		for _, l := range d.Leagues {
			leader, scorer := "-", "-"
			if l.Leader != nil {
				leader = fmt.Sprintf("%s (%s)", l.Leader.TeamName, f2(l.Leader.PowerScore))
			}
			if l.TopScorer != nil {
				scorer = l.TopScorer.Name + " (" + strconv.Itoa(l.TopScorer.Goals) + ")"
			}
			PrintTableRow([]string{l.LeagueName, itoa(l.FinishedMatches), f2(l.AvgGoalsPerMatch), leader, scorer}, widths)
		}
		PrintFailures(d.Failures)
	})
}
