package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// NoTeam is the team name reported for unaffiliated players
const NoTeam = "No Team"

// TopScorers ranks players by goals over finished matches. Ties are broken
// by assists (descending), then player id (ascending). Players without a
// current team or without goals are excluded.
func (e *Engine) TopScorers(ctx context.Context, leagueID *int64, season *int, limit int) ([]contracts.TopScorer, error) {
	lines, err := e.repo.ListPlayerStats(ctx, contracts.PlayerStatsFilter{
		LeagueID:     leagueID,
		Season:       season,
		FinishedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	byPlayer := make(map[int64]*contracts.TopScorer)
	for _, line := range lines {
		if line.TeamID == nil {
			continue
		}
		s, ok := byPlayer[line.PlayerID]
		if !ok {
			s = &contracts.TopScorer{
				PlayerID: line.PlayerID,
				Name:     line.PlayerName,
				TeamName: line.TeamName,
			}
			byPlayer[line.PlayerID] = s
		}
		s.Goals += line.Goals
		s.Assists += line.Assists
		s.MinutesPlayed += line.MinutesPlayed
		s.MatchesPlayed++
	}

	scorers := make([]contracts.TopScorer, 0, len(byPlayer))
	for _, s := range byPlayer {
		if s.Goals <= 0 {
			continue
		}
		s.GoalsPerGame = Ratio(s.Goals, s.MatchesPlayed)
		scorers = append(scorers, *s)
	}

	sort.Slice(scorers, func(i, j int) bool {
		a, b := scorers[i], scorers[j]
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		if a.Assists != b.Assists {
			return a.Assists > b.Assists
		}
		return a.PlayerID < b.PlayerID
	})

	if limit > 0 && len(scorers) > limit {
		scorers = scorers[:limit]
	}
	return scorers, nil
}

// PlayerStats aggregates a player's lines over finished matches. Without
// any lines the result carries matches_played = 0 and no totals.
func (e *Engine) PlayerStats(ctx context.Context, playerID int64, season *int, detailed bool) (*contracts.PlayerSummary, error) {
	player, err := e.repo.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}

	teamName := NoTeam
	if player.TeamID != nil {
		team, err := e.repo.GetTeam(ctx, *player.TeamID)
		switch {
		case err == nil:
			teamName = team.Name
		case !errors.Is(err, contracts.ErrNotFound):
			return nil, fmt.Errorf("get player team: %w", err)
		}
	}

	lines, err := e.repo.ListPlayerStats(ctx, contracts.PlayerStatsFilter{
		PlayerID:     &playerID,
		Season:       season,
		FinishedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	result := &contracts.PlayerSummary{
		PlayerID:      playerID,
		Name:          player.Name,
		Position:      player.Position,
		TeamName:      teamName,
		Nationality:   player.Nationality,
		Age:           player.AgeAt(e.now()),
		SeasonYear:    season,
		MatchesPlayed: len(lines),
	}
	if len(lines) == 0 {
		return result, nil
	}

	totals := &contracts.PlayerTotals{}
	var detail contracts.PlayerDetail
	for _, l := range lines {
		totals.MinutesPlayed += l.MinutesPlayed
		totals.Goals += l.Goals
		totals.Assists += l.Assists
		totals.YellowCards += l.YellowCards
		totals.RedCards += l.RedCards

		detail.ShotsTotal += l.ShotsTotal
		detail.ShotsOnTarget += l.ShotsOnTarget
		detail.PassesTotal += l.PassesTotal
		detail.PassesCompleted += l.PassesCompleted
		detail.Tackles += l.Tackles
		detail.Interceptions += l.Interceptions
		detail.FoulsCommitted += l.FoulsCommitted
		detail.FoulsDrawn += l.FoulsDrawn
	}

	n := len(lines)
	totals.GoalsPerGame = Ratio(totals.Goals, n)
	totals.AssistsPerGame = Ratio(totals.Assists, n)
	totals.MinutesPerGame = Ratio(totals.MinutesPlayed, n)
	result.PlayerTotals = totals

	if detailed {
		detail.ShotAccuracy = Ratio(detail.ShotsOnTarget, detail.ShotsTotal)
		detail.PassAccuracy = Ratio(detail.PassesCompleted, detail.PassesTotal)
		result.DetailedStats = &detail
	}

	return result, nil
}
