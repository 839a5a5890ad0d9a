package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// TeamMetrics aggregates a team's finished matches. Without any, the
// result carries matches_played = 0 and no record.
func (e *Engine) TeamMetrics(ctx context.Context, teamID int64, season *int) (*contracts.TeamMetrics, error) {
	tm, _, err := e.teamMetrics(ctx, teamID, season)
	return tm, err
}

// teamMetrics also returns the finished matches (oldest first) it used
func (e *Engine) teamMetrics(ctx context.Context, teamID int64, season *int) (*contracts.TeamMetrics, []*contracts.Match, error) {
	team, err := e.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, nil, fmt.Errorf("get team: %w", err)
	}

	matches, err := e.repo.ListMatches(ctx, contracts.MatchFilter{
		TeamID: &teamID,
		Season: season,
		Status: contracts.StatusFinished,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list team matches: %w", err)
	}

	result := &contracts.TeamMetrics{
		TeamName:      team.Name,
		TeamID:        teamID,
		SeasonYear:    season,
		MatchesPlayed: len(matches),
	}
	if len(matches) == 0 {
		return result, matches, nil
	}

	record := &contracts.TeamRecord{LeagueID: team.LeagueID}
	for _, m := range matches {
		scored, conceded := m.GoalsFor(teamID)
		record.GoalsFor += scored
		record.GoalsAgainst += conceded

		switch m.ResultFor(teamID) {
		case contracts.ResultWin:
			record.Wins++
		case contracts.ResultDraw:
			record.Draws++
		default:
			record.Losses++
		}
		if conceded == 0 {
			record.CleanSheets++
		}
	}

	n := len(matches)
	record.Points = 3*record.Wins + record.Draws
	record.GoalDifference = record.GoalsFor - record.GoalsAgainst
	record.WinRate = Ratio(record.Wins, n)
	record.PointsPerGame = Ratio(record.Points, n)
	record.GoalsPerGame = Ratio(record.GoalsFor, n)
	record.GoalsConcededPerGame = Ratio(record.GoalsAgainst, n)
	record.CleanSheetRate = Ratio(record.CleanSheets, n)
	result.TeamRecord = record

	return result, matches, nil
}

// TeamPerformance extends TeamMetrics with the recent form string and
// home-only and away-only breakdowns
func (e *Engine) TeamPerformance(ctx context.Context, teamID int64, season *int) (*contracts.TeamPerformance, error) {
	tm, matches, err := e.teamMetrics(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	form, recent := FormString(matches, teamID, e.formWindow)

	var home, away []*contracts.Match
	for _, m := range matches {
		if m.IsHome(teamID) {
			home = append(home, m)
		} else {
			away = append(away, m)
		}
	}

	return &contracts.TeamPerformance{
		TeamMetrics:        *tm,
		Form:               form,
		RecentMatchesCount: recent,
		HomePerformance:    venueRecord(home, teamID),
		AwayPerformance:    venueRecord(away, teamID),
	}, nil
}

// FormString builds the W/D/L string of the latest window matches.
// matches must be ordered oldest first; the string reads oldest to newest.
func FormString(matches []*contracts.Match, teamID int64, window int) (string, int) {
	start := len(matches) - window
	if start < 0 {
		start = 0
	}
	recent := matches[start:]

	var b strings.Builder
	for _, m := range recent {
		b.WriteString(string(m.ResultFor(teamID)))
	}
	return b.String(), len(recent)
}

func venueRecord(matches []*contracts.Match, teamID int64) contracts.VenueRecord {
	rec := contracts.VenueRecord{Matches: len(matches)}
	for _, m := range matches {
		scored, conceded := m.GoalsFor(teamID)
		rec.GoalsFor += scored
		rec.GoalsAgainst += conceded
		switch m.ResultFor(teamID) {
		case contracts.ResultWin:
			rec.Wins++
		case contracts.ResultDraw:
			rec.Draws++
		default:
			rec.Losses++
		}
	}
	rec.Points = 3*rec.Wins + rec.Draws
	rec.WinRate = Ratio(rec.Wins, rec.Matches)
	rec.PointsPerGame = Ratio(rec.Points, rec.Matches)
	return rec
}
