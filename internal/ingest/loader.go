package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/external/footballdata"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// StandingTypeTotal is the only standings table that is stored
const StandingTypeTotal = "TOTAL"

var errNoSeason = errors.New("standings have no season start date")

// LoadResult counts the outcome of loading one kind of entity.
// Skipped records could not be mapped or resolved; Failed records were
// rejected by the store.
type LoadResult struct {
	Entity  string `json:"entity"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Merge adds other's counts into r
func (r *LoadResult) Merge(other LoadResult) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// Total is the number of records that reached the store
func (r LoadResult) Total() int {
	return r.Created + r.Updated
}

func (r LoadResult) String() string {
	return fmt.Sprintf("%s: %d created, %d updated, %d skipped, %d failed",
		r.Entity, r.Created, r.Updated, r.Skipped, r.Failed)
}

func (r *LoadResult) record(created bool) {
	if created {
		r.Created++
	} else {
		r.Updated++
	}
}

// Loader maps upstream payloads to entities and upserts them by external id
// ⭐ SSOT: the only writer of football entities
type Loader struct {
	writer contracts.EntityWriter
	logger *logger.Logger
}

// NewLoader creates a loader over the entity store
func NewLoader(writer contracts.EntityWriter, log *logger.Logger) *Loader {
	return &Loader{
		writer: writer,
		logger: log.Module("loader"),
	}
}

// LoadCompetitions upserts leagues
func (l *Loader) LoadCompetitions(ctx context.Context, comps []footballdata.Competition) (LoadResult, error) {
	res := LoadResult{Entity: "leagues"}
	for _, c := range comps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		league, err := MapLeague(c)
		if err != nil {
			l.skip(&res, c.ID, c.Name, err)
			continue
		}
		created, err := l.writer.UpsertLeague(ctx, league)
		if err != nil {
			l.fail(&res, c.ID, c.Name, err)
			continue
		}
		res.record(created)
	}

	l.logResult(res)
	return res, nil
}

// LoadTeams upserts the clubs of a league
func (l *Loader) LoadTeams(ctx context.Context, teams []footballdata.Team, leagueID int64) (LoadResult, error) {
	res := LoadResult{Entity: "teams"}
	for _, t := range teams {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		team, err := MapTeam(t, leagueID)
		if err != nil {
			l.skip(&res, t.ID, t.Name, err)
			continue
		}
		created, err := l.writer.UpsertTeam(ctx, team)
		if err != nil {
			l.fail(&res, t.ID, t.Name, err)
			continue
		}
		res.record(created)
	}

	l.logResult(res)
	return res, nil
}

// LoadSquad upserts the players of a team
func (l *Loader) LoadSquad(ctx context.Context, squad []footballdata.Person, teamID int64) (LoadResult, error) {
	res := LoadResult{Entity: "players"}
	for _, p := range squad {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		player, err := MapPlayer(p, teamID)
		if err != nil {
			l.skip(&res, p.ID, p.Name, err)
			continue
		}
		created, err := l.writer.UpsertPlayer(ctx, player)
		if err != nil {
			l.fail(&res, p.ID, p.Name, err)
			continue
		}
		res.record(created)
	}

	l.logResult(res)
	return res, nil
}

// LoadMatches upserts fixtures. A fixture whose teams or competition are
// not stored yet is skipped.
func (l *Loader) LoadMatches(ctx context.Context, matches []footballdata.Match) (LoadResult, error) {
	res := LoadResult{Entity: "matches"}
	r := newResolver(l.writer)

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := fmt.Sprintf("%s vs %s", m.HomeTeam.Name, m.AwayTeam.Name)

		refs, err := r.matchRefs(ctx, m)
		if err != nil {
			if contracts.IsNotFound(err) {
				l.skip(&res, m.ID, name, err)
			} else {
				l.fail(&res, m.ID, name, err)
			}
			continue
		}

		match, err := MapMatch(m, refs)
		if err != nil {
			l.skip(&res, m.ID, name, err)
			continue
		}
		created, err := l.writer.UpsertMatch(ctx, match)
		if err != nil {
			l.fail(&res, m.ID, name, err)
			continue
		}
		res.record(created)
	}

	l.logResult(res)
	return res, nil
}

// LoadStandings upserts the TOTAL table of a competition season.
// HOME and AWAY tables are ignored.
func (l *Loader) LoadStandings(ctx context.Context, resp *footballdata.StandingsResponse) (LoadResult, error) {
	res := LoadResult{Entity: "standings"}
	if resp == nil || len(resp.Standings) == 0 {
		l.logger.Warn("No standings data found")
		return res, nil
	}

	rows := totalRows(resp.Standings)

	leagueID, err := l.writer.ResolveLeague(ctx, resp.Competition.ID)
	if err != nil {
		if !contracts.IsNotFound(err) {
			return res, fmt.Errorf("resolve competition %d: %w", resp.Competition.ID, err)
		}
		l.logger.WithField("competition_id", resp.Competition.ID).Warn("Competition not stored, skipping standings")
		res.Skipped = len(rows)
		return res, nil
	}

	season := resp.Season
	if season == nil {
		season = resp.Competition.CurrentSeason
	}
	start, end, err := seasonWindow(season)
	if err == nil && start == nil {
		err = errNoSeason
	}
	if err != nil {
		l.logger.WithFields(map[string]interface{}{
			"competition_id": resp.Competition.ID,
			"error":          err.Error(),
		}).Warn("Standings without a usable season, skipping")
		res.Skipped = len(rows)
		return res, nil
	}

	r := newResolver(l.writer)
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		teamID, err := r.team(ctx, row.Team.ID)
		if err != nil {
			if contracts.IsNotFound(err) {
				l.skip(&res, row.Team.ID, row.Team.Name, err)
			} else {
				l.fail(&res, row.Team.ID, row.Team.Name, err)
			}
			continue
		}

		created, err := l.writer.UpsertTeamStats(ctx, MapStanding(row, teamID, leagueID, start, end))
		if err != nil {
			l.fail(&res, row.Team.ID, row.Team.Name, err)
			continue
		}
		res.record(created)
	}

	l.logResult(res)
	return res, nil
}

func totalRows(standings []footballdata.Standing) []footballdata.TableRow {
	var rows []footballdata.TableRow
	for _, s := range standings {
		if s.Type != "" && s.Type != StandingTypeTotal {
			continue
		}
		rows = append(rows, s.Table...)
	}
	return rows
}

func (l *Loader) skip(res *LoadResult, externalID int64, name string, err error) {
	res.Skipped++
	l.logger.WithFields(map[string]interface{}{
		"entity":      res.Entity,
		"external_id": externalID,
		"name":        name,
		"reason":      err.Error(),
	}).Warn("Skipped record")
}

func (l *Loader) fail(res *LoadResult, externalID int64, name string, err error) {
	res.Failed++
	l.logger.WithFields(map[string]interface{}{
		"entity":      res.Entity,
		"external_id": externalID,
		"name":        name,
	}).WithError(err).Error("Failed to store record")
}

func (l *Loader) logResult(res LoadResult) {
	l.logger.WithFields(map[string]interface{}{
		"entity":  res.Entity,
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	}).Info("Loaded records")
}

// resolver caches external to local id lookups within one load
type resolver struct {
	writer  contracts.EntityWriter
	teams   map[int64]int64
	leagues map[int64]int64
}

func newResolver(w contracts.EntityWriter) *resolver {
	return &resolver{
		writer:  w,
		teams:   make(map[int64]int64),
		leagues: make(map[int64]int64),
	}
}

func (r *resolver) team(ctx context.Context, externalID int64) (int64, error) {
	if id, ok := r.teams[externalID]; ok {
		return id, nil
	}
	id, err := r.writer.ResolveTeam(ctx, externalID)
	if err != nil {
		return 0, err
	}
	r.teams[externalID] = id
	return id, nil
}

func (r *resolver) league(ctx context.Context, externalID int64) (int64, error) {
	if id, ok := r.leagues[externalID]; ok {
		return id, nil
	}
	id, err := r.writer.ResolveLeague(ctx, externalID)
	if err != nil {
		return 0, err
	}
	r.leagues[externalID] = id
	return id, nil
}

func (r *resolver) matchRefs(ctx context.Context, m footballdata.Match) (MatchRefs, error) {
	var refs MatchRefs
	var err error
	if refs.HomeTeamID, err = r.team(ctx, m.HomeTeam.ID); err != nil {
		return refs, fmt.Errorf("home team: %w", err)
	}
	if refs.AwayTeamID, err = r.team(ctx, m.AwayTeam.ID); err != nil {
		return refs, fmt.Errorf("away team: %w", err)
	}
	if refs.CompetitionID, err = r.league(ctx, m.Competition.ID); err != nil {
		return refs, fmt.Errorf("competition: %w", err)
	}
	return refs, nil
}

