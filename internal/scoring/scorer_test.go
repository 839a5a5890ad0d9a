package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/soccer-analytics/internal/analyticsconfig"
	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/metrics"
	"github.com/wonny/soccer-analytics/internal/testutil"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

var kickoff = time.Date(2024, time.September, 1, 15, 0, 0, 0, time.UTC)

func day(n int) time.Time { return kickoff.AddDate(0, 0, n) }

func intPtr(v int) *int { return &v }

type fixture struct {
	store  *testutil.Store
	league *contracts.League
	a, b   *contracts.Team
	scorer *Scorer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	league := store.AddLeague("Premier League")
	log := logger.Nop()
	return &fixture{
		store:  store,
		league: league,
		a:      store.AddTeam(league.ID, "Arsenal"),
		b:      store.AddTeam(league.ID, "Brentford"),
		scorer: NewScorer(store, metrics.NewEngine(store, log), nil, log),
	}
}

func TestMomentum(t *testing.T) {
	f := newFixture(t)
	// oldest to newest: D, L, W
	f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 1, 1, day(0), 2024)
	f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 0, 2, day(7), 2024)
	f.store.AddMatch(f.league.ID, f.b.ID, f.a.ID, 0, 3, day(14), 2024)

	m, err := f.scorer.Momentum(context.Background(), f.a.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, m.MomentumRecord)

	assert.Equal(t, 3, m.MatchesAnalyzed)
	assert.Equal(t, 1, m.Wins)
	assert.Equal(t, 1, m.Draws)
	assert.Equal(t, 1, m.Losses)
	assert.Equal(t, 4, m.GoalsFor)
	assert.Equal(t, 3, m.GoalsAgainst)
	// newest W at 1.0, L at 1.1, oldest D at 1.2
	assert.InDelta(t, 4.2, m.WeightedPoints, 1e-9)
	assert.InDelta(t, 4.2/9.9*100, m.MomentumScore, 1e-9)
	assert.InDelta(t, 4.0/3.0, m.PointsPerGame, 1e-9)
}

func TestMomentum_WindowLimitsMatches(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 8; i++ {
		f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 0, 1, day(i), 2024)
	}
	f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 2, 0, day(30), 2024)

	m, err := f.scorer.Momentum(context.Background(), f.a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, m.MatchesAnalyzed)
	assert.InDelta(t, 100, m.MomentumScore, 1e-9)

	m, err = f.scorer.Momentum(context.Background(), f.a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, m.MatchesAnalyzed)
}

func TestMomentum_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		scores [][2]int
		want   float64
	}{
		{"all wins", [][2]int{{1, 0}, {2, 0}, {3, 1}}, 100},
		{"all losses", [][2]int{{0, 1}, {0, 2}}, 0},
		{"all draws", [][2]int{{1, 1}, {0, 0}}, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for i, s := range tt.scores {
				f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, s[0], s[1], day(i), 2024)
			}
			m, err := f.scorer.Momentum(context.Background(), f.a.ID, 10)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, m.MomentumScore, 1e-9)
			assert.GreaterOrEqual(t, m.MomentumScore, 0.0)
			assert.LessOrEqual(t, m.MomentumScore, 100.0)
		})
	}
}

func TestMomentum_NoMatches(t *testing.T) {
	f := newFixture(t)
	f.store.AddFixture(f.league.ID, f.a.ID, f.b.ID, day(0), 2024, contracts.StatusScheduled)

	m, err := f.scorer.Momentum(context.Background(), f.a.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, m.MatchesAnalyzed)
	assert.Zero(t, m.MomentumScore)
	assert.Nil(t, m.MomentumRecord)
}

func TestMomentum_UnknownTeam(t *testing.T) {
	f := newFixture(t)
	_, err := f.scorer.Momentum(context.Background(), 999, 5)
	assert.True(t, contracts.IsNotFound(err))
}

func TestHeadToHead(t *testing.T) {
	f := newFixture(t)
	c := f.store.AddTeam(f.league.ID, "Chelsea")
	f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 2, 0, day(0), 2024)
	f.store.AddMatch(f.league.ID, f.b.ID, f.a.ID, 1, 1, day(7), 2024)
	f.store.AddMatch(f.league.ID, f.b.ID, f.a.ID, 3, 1, day(14), 2024)
	f.store.AddMatch(f.league.ID, f.a.ID, c.ID, 5, 0, day(21), 2024)

	h, err := f.scorer.HeadToHead(context.Background(), f.a.ID, f.b.ID, 10)
	require.NoError(t, err)
	require.NotNil(t, h.HeadToHeadRecord)

	assert.Equal(t, 3, h.TotalMatches)
	assert.Equal(t, 1, h.Team1Wins)
	assert.Equal(t, 1, h.Team1Draws)
	assert.Equal(t, 1, h.Team1Losses)
	assert.Equal(t, 4, h.Team1GoalsFor)
	assert.Equal(t, 4, h.Team1GoalsAgainst)

	t.Run("symmetry", func(t *testing.T) {
		rev, err := f.scorer.HeadToHead(context.Background(), f.b.ID, f.a.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, h.Team1Wins, rev.Team2Wins)
		assert.Equal(t, h.Team1Losses, rev.Team1Wins)
		assert.Equal(t, h.Team1GoalsFor, rev.Team2GoalsFor)
		assert.InDelta(t, h.DrawPercentage, rev.DrawPercentage, 1e-9)
		assert.InDelta(t, 100, h.Team1WinPercentage+h.Team2WinPercentage+h.DrawPercentage, 1e-9)
	})

	t.Run("window keeps newest", func(t *testing.T) {
		last, err := f.scorer.HeadToHead(context.Background(), f.a.ID, f.b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, last.TotalMatches)
		assert.Equal(t, 1, last.Team1Losses)
	})
}

func TestHeadToHead_NoMeetings(t *testing.T) {
	f := newFixture(t)

	h, err := f.scorer.HeadToHead(context.Background(), f.a.ID, f.b.ID, 10)
	require.NoError(t, err)
	assert.Zero(t, h.TotalMatches)
	assert.Nil(t, h.HeadToHeadRecord)

	raw, err := json.Marshal(h)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "team1_wins")
}

func TestPossessionAndDefensive(t *testing.T) {
	f := newFixture(t)
	p1 := f.store.AddPlayer(f.a.ID, "Rice", contracts.PositionMidfield)
	p2 := f.store.AddPlayer(f.a.ID, "Saliba", contracts.PositionDefence)
	m1 := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 1, 0, day(0), 2024)
	m2 := f.store.AddMatch(f.league.ID, f.b.ID, f.a.ID, 0, 0, day(7), 2024)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p1.ID, MatchID: m1.ID, PassesTotal: 60, PassesCompleted: 54, Tackles: 3, Interceptions: 1, FoulsCommitted: 2})
	f.store.AddStats(contracts.PlayerStats{PlayerID: p2.ID, MatchID: m1.ID, PassesTotal: 40, PassesCompleted: 36, Tackles: 1, Interceptions: 3})
	f.store.AddStats(contracts.PlayerStats{PlayerID: p1.ID, MatchID: m2.ID, PassesTotal: 100, PassesCompleted: 70, Tackles: 2})

	ctx := context.Background()

	poss, err := f.scorer.Possession(ctx, f.a.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, poss.TotalPasses)
	assert.Equal(t, 160, poss.CompletedPasses)
	assert.InDelta(t, 0.8, poss.PassAccuracy, 1e-9)
	assert.Equal(t, 2, poss.MatchesPlayed)
	assert.InDelta(t, 100, poss.PassesPerGame, 1e-9)

	def, err := f.scorer.Defensive(ctx, f.a.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, def.DefensiveRecord)
	assert.Equal(t, 6, def.TotalTackles)
	assert.Equal(t, 4, def.TotalInterceptions)
	assert.InDelta(t, 3, def.TacklesPerGame, 1e-9)
	assert.InDelta(t, 5, def.DefensiveActionsPerGame, 1e-9)
	assert.InDelta(t, 1, def.FoulsPerGame, 1e-9)

	t.Run("no lines", func(t *testing.T) {
		poss, err := f.scorer.Possession(ctx, f.b.ID, nil)
		require.NoError(t, err)
		assert.Zero(t, poss.TotalPasses)
		assert.Zero(t, poss.PassAccuracy)

		def, err := f.scorer.Defensive(ctx, f.b.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, def.DefensiveRecord)
	})
}

func TestExpectedGoals(t *testing.T) {
	f := newFixture(t)
	p := f.store.AddPlayer(f.a.ID, "Havertz", contracts.PositionOffence)
	m := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 2, 0, day(0), 2024)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m.ID, ShotsTotal: 8, ShotsOnTarget: 4, Goals: 2})

	xg, err := f.scorer.ExpectedGoals(context.Background(), f.a.ID, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, xg.XGFor, 1e-9)
	assert.InDelta(t, 1.8, xg.XGAgainst, 1e-9)
	assert.InDelta(t, -0.4, xg.XGDifference, 1e-9)
	assert.InDelta(t, 0.5, xg.ConversionRate, 1e-9)

	empty, err := f.scorer.ExpectedGoals(context.Background(), f.b.ID, intPtr(2024))
	require.NoError(t, err)
	assert.Zero(t, empty.XGFor)
	assert.Zero(t, empty.ConversionRate)
}

func TestPlayerForm(t *testing.T) {
	f := newFixture(t)
	p := f.store.AddPlayer(f.a.ID, "Saka", contracts.PositionOffence)
	for i, g := range []int{0, 0, 1, 2, 1} {
		m := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, g, 0, day(i*7), 2024)
		f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m.ID, Goals: g, Assists: 1, MinutesPlayed: 90})
	}

	form, err := f.scorer.PlayerForm(context.Background(), p.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, form.PlayerFormRecord)
	assert.Equal(t, 3, form.MatchesAnalyzed)
	assert.Equal(t, 4, form.Goals)
	assert.Equal(t, 3, form.Assists)
	assert.Equal(t, 7, form.GoalContributions)
	assert.Equal(t, 270, form.MinutesPlayed)
	assert.Equal(t, MaxFormRating, form.FormRating)

	form, err = f.scorer.PlayerForm(context.Background(), p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, form.MatchesAnalyzed)
	assert.Equal(t, 9, form.GoalContributions)
	assert.Equal(t, MaxFormRating, form.FormRating)
}

func TestPlayerForm_Rating(t *testing.T) {
	f := newFixture(t)
	p := f.store.AddPlayer(f.a.ID, "Trossard", contracts.PositionOffence)
	m1 := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 0, 0, day(0), 2024)
	m2 := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 1, 0, day(7), 2024)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m1.ID, MinutesPlayed: 20})
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m2.ID, Goals: 1, MinutesPlayed: 30})

	form, err := f.scorer.PlayerForm(context.Background(), p.ID, 5)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, form.FormRating, 1e-9)
	assert.InDelta(t, 0.5, form.GoalsPerGame, 1e-9)
}

func TestPlayerForm_NoLines(t *testing.T) {
	f := newFixture(t)
	p := f.store.AddPlayer(f.a.ID, "Bench", contracts.PositionGoalkeeper)

	form, err := f.scorer.PlayerForm(context.Background(), p.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, form.MatchesAnalyzed)
	assert.Zero(t, form.FormRating)
	assert.Nil(t, form.PlayerFormRecord)
}

func TestPlayerEfficiency(t *testing.T) {
	f := newFixture(t)
	p := f.store.AddPlayer(f.a.ID, "Odegaard", contracts.PositionMidfield)
	m1 := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 1, 0, day(0), 2024)
	m2 := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 2, 0, day(7), 2024)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m1.ID, MinutesPlayed: 90, Goals: 1, Assists: 1, ShotsTotal: 4, ShotsOnTarget: 2, PassesTotal: 70, PassesCompleted: 63})
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m2.ID, MinutesPlayed: 90, Goals: 1, ShotsTotal: 4, ShotsOnTarget: 2, PassesTotal: 30, PassesCompleted: 27})

	eff, err := f.scorer.PlayerEfficiency(context.Background(), p.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, eff.EfficiencyRecord)

	assert.InDelta(t, 1.0, eff.GoalsPer90, 1e-9)
	assert.InDelta(t, 0.5, eff.AssistsPer90, 1e-9)
	assert.InDelta(t, 1.5, eff.GoalContributionsPer90, 1e-9)
	assert.InDelta(t, 4.0, eff.ShotsPer90, 1e-9)
	assert.InDelta(t, 25.0, eff.ShotConversionRate, 1e-9)
	assert.InDelta(t, 50.0, eff.ShotAccuracy, 1e-9)
	assert.InDelta(t, 90.0, eff.PassAccuracy, 1e-9)
	assert.InDelta(t, 50.0, eff.PassesPer90, 1e-9)
	assert.Equal(t, 180, eff.TotalMinutes)
	assert.Equal(t, 2, eff.MatchesPlayed)
}

func TestPlayerEfficiency_NoMinutes(t *testing.T) {
	f := newFixture(t)
	p := f.store.AddPlayer(f.a.ID, "Unused", contracts.PositionDefence)
	m := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 1, 0, day(0), 2024)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m.ID})

	eff, err := f.scorer.PlayerEfficiency(context.Background(), p.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, eff.EfficiencyRecord)
}

func TestPowerScore(t *testing.T) {
	w := analyticsconfig.DefaultPowerWeights()

	tests := []struct {
		name     string
		ppg      float64
		gd       int
		momentum float64
		winRate  float64
		want     float64
	}{
		{"perfect record clamps to 100", 3, 20, 100, 1.0, 100},
		{"goal difference capped", 1, 100, 0, 0, 30},
		{"negative goal difference capped", 1, -100, 0, 0, 0},
		{"floor at zero", 0, -10, 0, 0, 0},
		{"typical", 2, 10, 60, 0.6, 30 + 5 + 18 + 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PowerScore(w, tt.ppg, tt.gd, tt.momentum, tt.winRate)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPowerRankings(t *testing.T) {
	f := newFixture(t)
	c := f.store.AddTeam(f.league.ID, "Chelsea")
	f.store.AddTeam(f.league.ID, "Promoted")

	f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 3, 0, day(0), 2024)
	f.store.AddMatch(f.league.ID, f.a.ID, c.ID, 2, 0, day(7), 2024)
	f.store.AddMatch(f.league.ID, c.ID, f.b.ID, 1, 1, day(14), 2024)

	batch, err := f.scorer.PowerRankings(context.Background(), f.league.ID, nil)
	require.NoError(t, err)
	require.Empty(t, batch.Failures)
	require.Len(t, batch.Items, 3)

	assert.Equal(t, f.a.ID, batch.Items[0].TeamID)
	for i, r := range batch.Items {
		assert.Equal(t, i+1, r.Rank)
		assert.GreaterOrEqual(t, r.PowerScore, 0.0)
		assert.LessOrEqual(t, r.PowerScore, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, batch.Items[i-1].PowerScore, r.PowerScore)
		}
	}
}

func TestPowerRankings_IsolatesTeamFailures(t *testing.T) {
	f := newFixture(t)
	f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 1, 0, day(0), 2024)
	f.store.FailTeams[f.b.ID] = errors.New("deadlock detected")

	batch, err := f.scorer.PowerRankings(context.Background(), f.league.ID, nil)
	require.NoError(t, err)

	require.Len(t, batch.Items, 1)
	assert.Equal(t, f.a.ID, batch.Items[0].TeamID)
	assert.Equal(t, 1, batch.Items[0].Rank)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, f.b.ID, batch.Failures[0].ID)
	assert.Equal(t, "Brentford", batch.Failures[0].Name)
}

func TestPowerRankings_ConfiguredWeights(t *testing.T) {
	store := testutil.NewStore()
	league := store.AddLeague("L")
	a := store.AddTeam(league.ID, "A")
	b := store.AddTeam(league.ID, "B")
	store.AddMatch(league.ID, a.ID, b.ID, 1, 0, day(0), 2024)

	cfg := analyticsconfig.Default()
	cfg.Power = analyticsconfig.PowerWeights{
		PointsPerGame: 1, GoalDiffDivisor: 1, GoalDiffCap: 0, Momentum: 0, WinRate: 0, WinRateCap: 0, ScoreMax: 100,
	}
	log := logger.Nop()
	scorer := NewScorer(store, metrics.NewEngine(store, log), cfg, log)

	batch, err := scorer.PowerRankings(context.Background(), league.ID, nil)
	require.NoError(t, err)
	require.Len(t, batch.Items, 2)
	assert.InDelta(t, 3.0, batch.Items[0].PowerScore, 1e-9)
	assert.InDelta(t, 0.0, batch.Items[1].PowerScore, 1e-9)
}

func TestPowerRankings_UnknownLeague(t *testing.T) {
	f := newFixture(t)
	_, err := f.scorer.PowerRankings(context.Background(), 404, nil)
	assert.True(t, contracts.IsNotFound(err))
}

func TestDigest(t *testing.T) {
	f := newFixture(t)
	p := f.store.AddPlayer(f.a.ID, "Saka", contracts.PositionOffence)
	m1 := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 2, 0, day(0), 2024)
	m2 := f.store.AddMatch(f.league.ID, f.b.ID, f.a.ID, 1, 3, day(7), 2024)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m1.ID, Goals: 1, MinutesPlayed: 90})
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m2.ID, Goals: 2, MinutesPlayed: 90})

	broken := f.store.AddLeague("Serie A")
	f.store.FailLeagues[broken.ID] = errors.New("timeout")

	empty := f.store.AddLeague("Ligue 1")

	d, err := f.scorer.Digest(context.Background(), nil, kickoff)
	require.NoError(t, err)

	assert.Equal(t, kickoff, d.GeneratedAt)
	require.Len(t, d.Leagues, 2)

	pl := d.Leagues[0]
	assert.Equal(t, f.league.ID, pl.LeagueID)
	assert.Equal(t, 2, pl.FinishedMatches)
	assert.InDelta(t, 3.0, pl.AvgGoalsPerMatch, 1e-9)
	require.NotNil(t, pl.Leader)
	assert.Equal(t, f.a.ID, pl.Leader.TeamID)
	assert.Equal(t, 1, pl.Leader.Rank)
	require.NotNil(t, pl.TopScorer)
	assert.Equal(t, p.ID, pl.TopScorer.PlayerID)
	assert.Equal(t, 3, pl.TopScorer.Goals)

	assert.Equal(t, empty.ID, d.Leagues[1].LeagueID)
	assert.Nil(t, d.Leagues[1].Leader)
	assert.Nil(t, d.Leagues[1].TopScorer)

	require.Len(t, d.Failures, 1)
	assert.Equal(t, broken.ID, d.Failures[0].ID)
}

func TestPowerRankings_TiesKeepTeamOrder(t *testing.T) {
	store := testutil.NewStore()
	league := store.AddLeague("Eredivisie")

	var drawers []*contracts.Team
	for _, name := range []string{
		"Ajax", "AZ", "Feyenoord", "Go Ahead", "Heerenveen", "Heracles", "NEC",
		"PSV", "RKC", "Sparta", "Twente", "Utrecht", "Vitesse", "Volendam",
	} {
		drawers = append(drawers, store.AddTeam(league.ID, name))
	}
	for i := 0; i < len(drawers); i += 2 {
		store.AddMatch(league.ID, drawers[i].ID, drawers[i+1].ID, 1, 1, day(i), 2024)
	}
	winner := store.AddTeam(league.ID, "Willem II")
	loser := store.AddTeam(league.ID, "Zwolle")
	store.AddMatch(league.ID, winner.ID, loser.ID, 2, 0, day(20), 2024)

	log := logger.Nop()
	scorer := NewScorer(store, metrics.NewEngine(store, log), nil, log)

	batch, err := scorer.PowerRankings(context.Background(), league.ID, nil)
	require.NoError(t, err)
	require.Len(t, batch.Items, len(drawers)+2)

	assert.Equal(t, winner.ID, batch.Items[0].TeamID)
	assert.Equal(t, loser.ID, batch.Items[len(batch.Items)-1].TeamID)
	for i, team := range drawers {
		r := batch.Items[i+1]
		assert.Equal(t, team.ID, r.TeamID, "rank %d", r.Rank)
		assert.Equal(t, i+2, r.Rank)
		assert.Equal(t, batch.Items[1].PowerScore, r.PowerScore)
	}
}

func TestScoring_RepeatableOnUnchangedStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.store.AddTeam(f.league.ID, "Chelsea")
	p := f.store.AddPlayer(f.a.ID, "Saka", contracts.PositionOffence)
	m1 := f.store.AddMatch(f.league.ID, f.a.ID, f.b.ID, 2, 1, day(0), 2024)
	f.store.AddMatch(f.league.ID, c.ID, f.a.ID, 0, 0, day(7), 2024)
	f.store.AddMatch(f.league.ID, f.b.ID, c.ID, 1, 1, day(14), 2024)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m1.ID, Goals: 1, ShotsTotal: 3, ShotsOnTarget: 2, MinutesPlayed: 90})

	twice := func(name string, run func() (interface{}, error)) {
		t.Run(name, func(t *testing.T) {
			first, err := run()
			require.NoError(t, err)
			second, err := run()
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}

	twice("momentum", func() (interface{}, error) { return f.scorer.Momentum(ctx, f.a.ID, 5) })
	twice("head to head", func() (interface{}, error) { return f.scorer.HeadToHead(ctx, f.a.ID, f.b.ID, 10) })
	twice("power rankings", func() (interface{}, error) { return f.scorer.PowerRankings(ctx, f.league.ID, nil) })
	twice("expected goals", func() (interface{}, error) { return f.scorer.ExpectedGoals(ctx, f.a.ID, nil) })
	twice("player form", func() (interface{}, error) { return f.scorer.PlayerForm(ctx, p.ID, 5) })
	twice("digest", func() (interface{}, error) { return f.scorer.Digest(ctx, nil, kickoff) })
}

func TestDigest_ReportsUnrankedTeams(t *testing.T) {
	f := newFixture(t)
	f.store.AddMatch(f.league.ID, f.b.ID, f.a.ID, 4, 0, day(0), 2024)
	f.store.FailTeams[f.b.ID] = errors.New("connection reset")

	d, err := f.scorer.Digest(context.Background(), nil, kickoff)
	require.NoError(t, err)

	require.Len(t, d.Leagues, 1)
	require.NotNil(t, d.Leagues[0].Leader)
	assert.Equal(t, f.a.ID, d.Leagues[0].Leader.TeamID)

	require.Len(t, d.Failures, 1)
	failed := d.Failures[0]
	assert.Equal(t, f.b.ID, failed.ID)
	assert.Equal(t, "Brentford", failed.Name)
	assert.Contains(t, failed.Error, "Premier League")
	assert.Contains(t, failed.Error, "connection reset")
	assert.ErrorIs(t, failed.Err, f.store.FailTeams[f.b.ID])
}
