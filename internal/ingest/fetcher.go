// Package ingest pulls football-data.org payloads into the entity store.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/external/footballdata"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// Source is the subset of the football-data client used by the fetcher
type Source interface {
	Competitions(ctx context.Context, plan string) ([]footballdata.Competition, error)
	Competition(ctx context.Context, id int64) (*footballdata.Competition, error)
	CompetitionTeams(ctx context.Context, competitionID int64, season *int) ([]footballdata.Team, error)
	Team(ctx context.Context, teamID int64) (*footballdata.Team, error)
	CompetitionMatches(ctx context.Context, competitionID int64, season *int, from, to *time.Time) ([]footballdata.Match, error)
	Standings(ctx context.Context, competitionID int64, season *int) (*footballdata.StandingsResponse, error)
	RecentMatches(ctx context.Context, now time.Time, daysBack int) ([]footballdata.Match, error)
	TeamMatches(ctx context.Context, teamID int64, opts footballdata.TeamMatchesOptions) ([]footballdata.Match, error)
}

var _ Source = (*footballdata.Client)(nil)

// Options selects what a competition fetch loads
type Options struct {
	// Competitions are upstream ids; empty means every major competition
	Competitions  []int64
	Season        *int
	SkipTeams     bool
	SkipMatches   bool
	SkipStandings bool
	IncludeSquads bool
}

// Summary is the outcome of a fetch run
type Summary struct {
	Leagues   LoadResult `json:"leagues"`
	Teams     LoadResult `json:"teams"`
	Players   LoadResult `json:"players"`
	Matches   LoadResult `json:"matches"`
	Standings LoadResult `json:"standings"`
	// Failures are competitions (or squads) whose API calls failed
	Failures []contracts.ItemFailure `json:"failures,omitempty"`
	Duration time.Duration           `json:"duration"`
}

func newSummary() *Summary {
	return &Summary{
		Leagues:   LoadResult{Entity: "leagues"},
		Teams:     LoadResult{Entity: "teams"},
		Players:   LoadResult{Entity: "players"},
		Matches:   LoadResult{Entity: "matches"},
		Standings: LoadResult{Entity: "standings"},
	}
}

// Results lists the per-entity counts in load order
func (s *Summary) Results() []LoadResult {
	return []LoadResult{s.Leagues, s.Teams, s.Players, s.Matches, s.Standings}
}

func (s *Summary) fail(id int64, name string, err error) {
	f := contracts.ItemFailure{ID: id, Name: name, Err: err}
	if err != nil {
		f.Error = err.Error()
	}
	s.Failures = append(s.Failures, f)
}

// Fetcher orchestrates fetch, map and load per competition.
// Competitions are processed sequentially; the HTTP client's limiter paces calls.
type Fetcher struct {
	source  Source
	loader  *Loader
	leagues contracts.LeagueReader
	logger  *logger.Logger
	now     func() time.Time
}

// NewFetcher creates a fetcher
func NewFetcher(source Source, loader *Loader, leagues contracts.LeagueReader, log *logger.Logger) *Fetcher {
	return &Fetcher{
		source:  source,
		loader:  loader,
		leagues: leagues,
		logger:  log.Module("fetcher"),
		now:     time.Now,
	}
}

// MajorCompetitionIDs returns the upstream ids of all major competitions
func MajorCompetitionIDs() []int64 {
	ids := make([]int64, 0, len(footballdata.MajorCompetitions))
	for _, id := range footballdata.MajorCompetitions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FetchAll loads the competition list, then each selected competition.
// A competition whose API calls fail is recorded in Failures and the run
// moves on; only a failing competition list or a cancelled context aborts.
func (f *Fetcher) FetchAll(ctx context.Context, opts Options) (*Summary, error) {
	start := f.now()
	sum := newSummary()

	comps, err := f.source.Competitions(ctx, footballdata.DefaultPlan)
	if err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}
	res, err := f.loader.LoadCompetitions(ctx, comps)
	sum.Leagues.Merge(res)
	if err != nil {
		return sum, err
	}

	names := make(map[int64]string, len(comps))
	for _, c := range comps {
		names[c.ID] = c.Name
	}

	targets := opts.Competitions
	if len(targets) == 0 {
		targets = MajorCompetitionIDs()
	}

	f.logger.WithFields(map[string]interface{}{
		"competitions": len(targets),
		"season":       opts.Season,
	}).Info("Starting data fetch")

	for _, id := range targets {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := f.fetchCompetition(ctx, id, opts, sum); err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			f.logger.WithFields(map[string]interface{}{
				"competition_id": id,
				"name":           names[id],
			}).WithError(err).Warn("Competition fetch failed")
			sum.fail(id, names[id], err)
		}
	}

	sum.Duration = f.now().Sub(start)
	f.logSummary("Data fetch completed", sum)
	return sum, nil
}

// FetchCompetition loads a single competition and its data
func (f *Fetcher) FetchCompetition(ctx context.Context, competitionID int64, opts Options) (*Summary, error) {
	start := f.now()
	sum := newSummary()

	comp, err := f.source.Competition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("fetch competition %d: %w", competitionID, err)
	}
	res, err := f.loader.LoadCompetitions(ctx, []footballdata.Competition{*comp})
	sum.Leagues.Merge(res)
	if err != nil {
		return sum, err
	}

	if err := f.fetchCompetition(ctx, competitionID, opts, sum); err != nil {
		return sum, fmt.Errorf("competition %s: %w", comp.Name, err)
	}

	sum.Duration = f.now().Sub(start)
	f.logSummary("Competition fetch completed", sum)
	return sum, nil
}

func (f *Fetcher) fetchCompetition(ctx context.Context, id int64, opts Options, sum *Summary) error {
	leagueID, err := f.loader.writer.ResolveLeague(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve league: %w", err)
	}

	if !opts.SkipTeams {
		teams, err := f.source.CompetitionTeams(ctx, id, opts.Season)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		res, err := f.loader.LoadTeams(ctx, teams, leagueID)
		sum.Teams.Merge(res)
		if err != nil {
			return err
		}

		if opts.IncludeSquads {
			if err := f.fetchSquads(ctx, teams, sum); err != nil {
				return err
			}
		}
	}

	if !opts.SkipMatches {
		matches, err := f.source.CompetitionMatches(ctx, id, opts.Season, nil, nil)
		if err != nil {
			return fmt.Errorf("fetch matches: %w", err)
		}
		res, err := f.loader.LoadMatches(ctx, matches)
		sum.Matches.Merge(res)
		if err != nil {
			return err
		}
	}

	if !opts.SkipStandings {
		standings, err := f.source.Standings(ctx, id, opts.Season)
		if err != nil {
			return fmt.Errorf("fetch standings: %w", err)
		}
		res, err := f.loader.LoadStandings(ctx, standings)
		sum.Standings.Merge(res)
		if err != nil {
			return err
		}
	}

	return nil
}

// fetchSquads loads each team's squad; a failing team is recorded and skipped
func (f *Fetcher) fetchSquads(ctx context.Context, teams []footballdata.Team, sum *Summary) error {
	for _, t := range teams {
		if err := ctx.Err(); err != nil {
			return err
		}

		detail, err := f.source.Team(ctx, t.ID)
		if err != nil {
			f.logger.WithFields(map[string]interface{}{
				"team_id": t.ID,
				"name":    t.Name,
			}).WithError(err).Warn("Squad fetch failed")
			sum.fail(t.ID, t.Name, fmt.Errorf("fetch squad: %w", err))
			continue
		}

		teamID, err := f.loader.writer.ResolveTeam(ctx, t.ID)
		if err != nil {
			sum.fail(t.ID, t.Name, fmt.Errorf("resolve team: %w", err))
			continue
		}

		res, err := f.loader.LoadSquad(ctx, detail.Squad, teamID)
		sum.Players.Merge(res)
		if err != nil {
			return err
		}
	}
	return nil
}

// FetchRecent loads matches of the last daysBack days across competitions,
// then refreshes the standings of every stored competition they touched
func (f *Fetcher) FetchRecent(ctx context.Context, daysBack int) (*Summary, error) {
	start := f.now()
	sum := newSummary()

	matches, err := f.source.RecentMatches(ctx, start, daysBack)
	if err != nil {
		return nil, fmt.Errorf("fetch recent matches: %w", err)
	}
	res, err := f.loader.LoadMatches(ctx, matches)
	sum.Matches.Merge(res)
	if err != nil {
		return sum, err
	}

	touched := make(map[int64]string)
	for _, m := range matches {
		touched[m.Competition.ID] = m.Competition.Name
	}
	ids := make([]int64, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if _, err := f.loader.writer.ResolveLeague(ctx, id); err != nil {
			continue
		}

		standings, err := f.source.Standings(ctx, id, nil)
		if err != nil {
			f.logger.WithFields(map[string]interface{}{
				"competition_id": id,
				"name":           touched[id],
			}).WithError(err).Warn("Standings refresh failed")
			sum.fail(id, touched[id], fmt.Errorf("fetch standings: %w", err))
			continue
		}
		res, err := f.loader.LoadStandings(ctx, standings)
		sum.Standings.Merge(res)
		if err != nil {
			return sum, err
		}
	}

	sum.Duration = f.now().Sub(start)
	f.logSummary("Recent fetch completed", sum)
	return sum, nil
}

// FetchTeamMatches loads one club's matches by its upstream id
func (f *Fetcher) FetchTeamMatches(ctx context.Context, externalTeamID int64, season *int) (*Summary, error) {
	start := f.now()
	sum := newSummary()

	matches, err := f.source.TeamMatches(ctx, externalTeamID, footballdata.TeamMatchesOptions{Season: season})
	if err != nil {
		return nil, fmt.Errorf("fetch team %d matches: %w", externalTeamID, err)
	}
	res, err := f.loader.LoadMatches(ctx, matches)
	sum.Matches.Merge(res)
	if err != nil {
		return sum, err
	}

	sum.Duration = f.now().Sub(start)
	f.logSummary("Team matches fetch completed", sum)
	return sum, nil
}

// RefreshTeams reloads the clubs and squads of every stored league
func (f *Fetcher) RefreshTeams(ctx context.Context) (*Summary, error) {
	start := f.now()
	sum := newSummary()

	leagues, err := f.leagues.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	for _, league := range leagues {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		teams, err := f.source.CompetitionTeams(ctx, league.ExternalID, nil)
		if err != nil {
			f.logger.WithFields(map[string]interface{}{
				"league_id": league.ID,
				"name":      league.Name,
			}).WithError(err).Warn("Team refresh failed")
			sum.fail(league.ID, league.Name, fmt.Errorf("fetch teams: %w", err))
			continue
		}

		res, err := f.loader.LoadTeams(ctx, teams, league.ID)
		sum.Teams.Merge(res)
		if err != nil {
			return sum, err
		}
		if err := f.fetchSquads(ctx, teams, sum); err != nil {
			return sum, err
		}
	}

	sum.Duration = f.now().Sub(start)
	f.logSummary("Team refresh completed", sum)
	return sum, nil
}

func (f *Fetcher) logSummary(msg string, sum *Summary) {
	fields := map[string]interface{}{
		"failures": len(sum.Failures),
		"duration": sum.Duration.String(),
	}
	for _, r := range sum.Results() {
		fields[r.Entity] = r.Total()
	}
	f.logger.WithFields(fields).Info(msg)
}
