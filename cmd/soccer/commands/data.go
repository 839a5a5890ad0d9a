package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/soccer-analytics/internal/external/footballdata"
	"github.com/wonny/soccer-analytics/internal/health"
	"github.com/wonny/soccer-analytics/internal/ingest"
)

// dataCmd represents the data command
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Data ingestion from football-data.org",
	Long: `Fetch competitions, teams, squads, matches and standings into the store.

Every load is an upsert keyed by the upstream id, so repeated runs are safe.
Requests are throttled to FOOTBALL_DATA_RATE_LIMIT per minute (shared through
Redis when it is enabled).

Subcommands:
  fetch-all            - all major competitions
  fetch-competition    - a single competition
  fetch-team           - one team's matches
  fetch-recent         - matches of the last days and their standings
  refresh-teams        - teams and squads of every stored league
  test-api             - check the API key and latency
  list-competitions    - competitions available to the plan
  status               - record counts and data freshness
  import-player-stats  - load per-match player lines from a JSON file

Example:
  go run ./cmd/soccer data fetch-all --season 2024
  go run ./cmd/soccer data fetch-competition 2021 --squads
  go run ./cmd/soccer data fetch-competition la-liga --season 2023
  go run ./cmd/soccer data import-player-stats ./stats.json`,
}

var (
	fetchSeason        int
	fetchCompetitions  []int64
	fetchSkipTeams     bool
	fetchSkipMatches   bool
	fetchSkipStandings bool
	fetchSquads        bool
	fetchDays          int
)

var (
	dataFetchAllCmd = &cobra.Command{
		Use:   "fetch-all",
		Short: "Fetch every major competition",
		RunE:  runFetchAll,
	}

	dataFetchCompetitionCmd = &cobra.Command{
		Use:   "fetch-competition [competition_id|name]",
		Short: "Fetch one competition by upstream id or name (e.g. 2021, premier-league)",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetchCompetition,
	}

	dataFetchTeamCmd = &cobra.Command{
		Use:   "fetch-team [team_id]",
		Short: "Fetch one team's matches by upstream id",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetchTeam,
	}

	dataFetchRecentCmd = &cobra.Command{
		Use:   "fetch-recent",
		Short: "Fetch matches of the last days and refresh touched standings",
		RunE:  runFetchRecent,
	}

	dataRefreshTeamsCmd = &cobra.Command{
		Use:   "refresh-teams",
		Short: "Refresh teams and squads of every stored league",
		RunE:  runRefreshTeams,
	}

	dataTestAPICmd = &cobra.Command{
		Use:   "test-api",
		Short: "Check API connectivity",
		RunE:  runTestAPI,
	}

	dataListCompetitionsCmd = &cobra.Command{
		Use:   "list-competitions",
		Short: "List competitions available upstream",
		RunE:  runListCompetitions,
	}

	dataStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show record counts and data freshness",
		RunE:  runDataStatus,
	}

	dataImportPlayerStatsCmd = &cobra.Command{
		Use:   "import-player-stats [file]",
		Short: "Import player match statistics from a JSON array",
		Long: `Import player match statistics from a JSON array of records:

  [{"player_id": 7784, "match_id": 435943, "minutes_played": 90, "goals": 1, ...}]

player_id and match_id are upstream ids. Records whose player or match is
not stored are skipped; existing lines are updated.`,
		Args: cobra.ExactArgs(1),
		RunE: runImportPlayerStats,
	}
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataFetchAllCmd)
	dataCmd.AddCommand(dataFetchCompetitionCmd)
	dataCmd.AddCommand(dataFetchTeamCmd)
	dataCmd.AddCommand(dataFetchRecentCmd)
	dataCmd.AddCommand(dataRefreshTeamsCmd)
	dataCmd.AddCommand(dataTestAPICmd)
	dataCmd.AddCommand(dataListCompetitionsCmd)
	dataCmd.AddCommand(dataStatusCmd)
	dataCmd.AddCommand(dataImportPlayerStatsCmd)

	for _, c := range []*cobra.Command{dataFetchAllCmd, dataFetchCompetitionCmd} {
		c.Flags().IntVar(&fetchSeason, "season", 0, "season start year (default: current)")
		c.Flags().BoolVar(&fetchSkipTeams, "skip-teams", false, "do not load teams")
		c.Flags().BoolVar(&fetchSkipMatches, "skip-matches", false, "do not load matches")
		c.Flags().BoolVar(&fetchSkipStandings, "skip-standings", false, "do not load standings")
		c.Flags().BoolVar(&fetchSquads, "squads", false, "also load each team's squad (one request per team)")
	}
	dataFetchAllCmd.Flags().Int64SliceVar(&fetchCompetitions, "competitions", nil, "upstream competition ids (default: major competitions)")
	dataFetchTeamCmd.Flags().IntVar(&fetchSeason, "season", 0, "season start year (default: all)")
	dataFetchRecentCmd.Flags().IntVar(&fetchDays, "days", 7, "days back from today")
}

// signalContext is cancelled on Ctrl+C so long fetches stop between requests
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func fetchOptions() ingest.Options {
	return ingest.Options{
		Competitions:  fetchCompetitions,
		Season:        optionalInt(fetchSeason),
		SkipTeams:     fetchSkipTeams,
		SkipMatches:   fetchSkipMatches,
		SkipStandings: fetchSkipStandings,
		IncludeSquads: fetchSquads,
	}
}

// withFetcher wires the app and the fetcher, runs fn and prints its summary
func withFetcher(cmd *cobra.Command, title string, fn func(context.Context, *ingest.Fetcher) (*ingest.Summary, error)) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	f, err := a.fetcher()
	if err != nil {
		return err
	}

	if !jsonOutput {
		PrintHeader(title)
	}
	sum, err := fn(ctx, f)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	if jsonOutput {
		return printJSON(sum)
	}
	PrintLoadSummary(sum)
	if len(sum.Failures) == 0 {
		PrintSuccess("Fetch completed")
	}
	return nil
}

func runFetchAll(cmd *cobra.Command, args []string) error {
	return withFetcher(cmd, "Fetch all competitions", func(ctx context.Context, f *ingest.Fetcher) (*ingest.Summary, error) {
		return f.FetchAll(ctx, fetchOptions())
	})
}

func runFetchCompetition(cmd *cobra.Command, args []string) error {
	id, err := parseCompetition(args[0])
	if err != nil {
		return err
	}
	return withFetcher(cmd, fmt.Sprintf("Fetch competition %d", id), func(ctx context.Context, f *ingest.Fetcher) (*ingest.Summary, error) {
		return f.FetchCompetition(ctx, id, fetchOptions())
	})
}

func runFetchTeam(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "team id")
	if err != nil {
		return err
	}
	return withFetcher(cmd, fmt.Sprintf("Fetch matches of team %d", id), func(ctx context.Context, f *ingest.Fetcher) (*ingest.Summary, error) {
		return f.FetchTeamMatches(ctx, id, optionalInt(fetchSeason))
	})
}

func runFetchRecent(cmd *cobra.Command, args []string) error {
	if fetchDays <= 0 {
		return fmt.Errorf("--days must be positive")
	}
	return withFetcher(cmd, fmt.Sprintf("Fetch matches of the last %d days", fetchDays), func(ctx context.Context, f *ingest.Fetcher) (*ingest.Summary, error) {
		return f.FetchRecent(ctx, fetchDays)
	})
}

func runRefreshTeams(cmd *cobra.Command, args []string) error {
	return withFetcher(cmd, "Refresh teams and squads", func(ctx context.Context, f *ingest.Fetcher) (*ingest.Summary, error) {
		return f.RefreshTeams(ctx)
	})
}

func runTestAPI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	res := a.checker().CheckAPI(ctx)
	if jsonOutput {
		return printJSON(res)
	}

	PrintHeader("football-data.org API")
	PrintKeyValue("Status", string(res.Status), 13)
	PrintKeyValue("Competitions", itoa(res.CompetitionsCount), 13)
	if res.ResponseTime != nil {
		PrintKeyValue("Response", f2(*res.ResponseTime)+"s", 13)
	}
	for _, e := range res.Errors {
		PrintError(e)
	}
	if !res.Connection {
		return fmt.Errorf("API check failed")
	}
	PrintSuccess("API reachable")
	return nil
}

func runListCompetitions(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	api, err := a.requireAPI()
	if err != nil {
		return err
	}
	comps, err := api.Competitions(ctx, footballdata.DefaultPlan)
	if err != nil {
		return fmt.Errorf("list competitions: %w", err)
	}

	if jsonOutput {
		return printJSON(comps)
	}

	PrintHeader(fmt.Sprintf("Competitions (%d)", len(comps)))
	widths := []int{6, 6, 34, 18, 12}
	PrintTableHeader([]string{"ID", "Code", "Name", "Area", "Season"}, widths)
	for _, c := range comps {
		season := "-"
		if c.CurrentSeason != nil {
			season = c.CurrentSeason.StartDate
		}
		PrintTableRow([]string{strconv.FormatInt(c.ID, 10), c.Code, c.Name, c.Area.Name, season}, widths)
	}
	return nil
}

func runDataStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	checker := a.checker()
	db := checker.CheckDatabase(ctx)
	fresh := checker.CheckFreshness(ctx)

	if jsonOutput {
		return printJSON(map[string]interface{}{
			"database":       db,
			"data_freshness": fresh,
		})
	}

	PrintHeader("Data status")
	for _, table := range health.ExpectedTables {
		PrintKeyValue(table, fmt.Sprintf("%d", db.RecordCounts[table]), 14)
	}
	PrintSeparator()
	PrintKeyValue("Matches", hoursAgo(fresh.HoursSinceMatchUpdate), 14)
	PrintKeyValue("Standings", hoursAgo(fresh.HoursSinceStandingsUpdate), 14)
	PrintKeyValue("Freshness", string(fresh.Status), 14)
	for _, e := range append(db.Errors, fresh.Errors...) {
		PrintWarning(e)
	}
	return nil
}

func runImportPlayerStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := ingest.NewLoader(a.store, a.log).ImportPlayerStats(ctx, f)
	if err != nil {
		return fmt.Errorf("import player stats: %w", err)
	}

	if jsonOutput {
		return printJSON(res)
	}
	PrintHeader("Import player statistics")
	PrintKeyValue("Created", itoa(res.Created), 8)
	PrintKeyValue("Updated", itoa(res.Updated), 8)
	PrintKeyValue("Skipped", itoa(res.Skipped), 8)
	PrintKeyValue("Failed", itoa(res.Failed), 8)
	if res.Failed > 0 {
		PrintWarning("Some records failed, see the log for details")
		return nil
	}
	PrintSuccess("Import completed")
	return nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", what, raw)
	}
	return id, nil
}

// parseCompetition accepts an upstream id or a major competition name
func parseCompetition(raw string) (int64, error) {
	if id, ok := footballdata.CompetitionID(raw); ok {
		return id, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("unknown competition %q (known: %s)", raw, strings.Join(footballdata.CompetitionNames(), ", "))
	}
	return id, nil
}

func hoursAgo(h *float64) string {
	if h == nil {
		return "never"
	}
	return f2(*h) + "h ago"
}
