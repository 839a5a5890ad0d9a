package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/wonny/soccer-analytics/internal/contracts"
)

// PlayerStatsRecord is one line of a player-stats import file. Player and
// match are referenced by their upstream ids.
type PlayerStatsRecord struct {
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

// Validate rejects negative counters and inconsistent subtotals
func (r PlayerStatsRecord) Validate() error {
	counters := []int{
		r.MinutesPlayed, r.Goals, r.Assists, r.YellowCards, r.RedCards,
		r.ShotsTotal, r.ShotsOnTarget, r.PassesTotal, r.PassesCompleted,
		r.Tackles, r.Interceptions, r.FoulsCommitted, r.FoulsDrawn, r.Offsides,
	}
	for _, v := range counters {
		if v < 0 {
			return errors.New("negative counter")
		}
	}
	if r.ShotsOnTarget > r.ShotsTotal {
		return errors.New("shots on target exceed total shots")
	}
	if r.PassesCompleted > r.PassesTotal {
		return errors.New("completed passes exceed total passes")
	}
	return nil
}

// ImportPlayerStats reads a JSON array of PlayerStatsRecord and upserts one
// line per (player, match). Records referencing unknown players or matches
// are skipped.
func (l *Loader) ImportPlayerStats(ctx context.Context, r io.Reader) (LoadResult, error) {
	res := LoadResult{Entity: "player_stats"}

	var records []PlayerStatsRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return res, fmt.Errorf("decode player stats: %w", err)
	}

	players := make(map[int64]int64)
	matches := make(map[int64]int64)
	lookup := func(cache map[int64]int64, id int64, resolve func(context.Context, int64) (int64, error)) (int64, error) {
		if local, ok := cache[id]; ok {
			return local, nil
		}
		local, err := resolve(ctx, id)
		if err != nil {
			return 0, err
		}
		cache[id] = local
		return local, nil
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := fmt.Sprintf("player %d in match %d", rec.PlayerID, rec.MatchID)

		if err := rec.Validate(); err != nil {
			l.skip(&res, rec.PlayerID, name, err)
			continue
		}

		var playerID, matchID int64
		playerID, err := lookup(players, rec.PlayerID, l.writer.ResolvePlayer)
		if err == nil {
			matchID, err = lookup(matches, rec.MatchID, l.writer.ResolveMatch)
		}
		if err != nil {
			if contracts.IsNotFound(err) {
				l.skip(&res, rec.PlayerID, name, err)
			} else {
				l.fail(&res, rec.PlayerID, name, err)
			}
			continue
		}

		created, err := l.writer.UpsertPlayerStats(ctx, rec.toStats(playerID, matchID))
		if err != nil {
			l.fail(&res, rec.PlayerID, name, err)
			continue
		}
		res.record(created)
	}

	l.logResult(res)
	return res, nil
}

func (r PlayerStatsRecord) toStats(playerID, matchID int64) *contracts.PlayerStats {
	return &contracts.PlayerStats{
		PlayerID:        playerID,
		MatchID:         matchID,
		MinutesPlayed:   r.MinutesPlayed,
		Goals:           r.Goals,
		Assists:         r.Assists,
		YellowCards:     r.YellowCards,
		RedCards:        r.RedCards,
		ShotsTotal:      r.ShotsTotal,
		ShotsOnTarget:   r.ShotsOnTarget,
		PassesTotal:     r.PassesTotal,
		PassesCompleted: r.PassesCompleted,
		Tackles:         r.Tackles,
		Interceptions:   r.Interceptions,
		FoulsCommitted:  r.FoulsCommitted,
		FoulsDrawn:      r.FoulsDrawn,
		Offsides:        r.Offsides,
	}
}
