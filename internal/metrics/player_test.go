package metrics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/testutil"
)

type scorerFixture struct {
	store  *testutil.Store
	league *contracts.League
	home   *contracts.Team
	away   *contracts.Team
}

func newScorerFixture() *scorerFixture {
	store := testutil.NewStore()
	league := store.AddLeague("PL")
	return &scorerFixture{
		store:  store,
		league: league,
		home:   store.AddTeam(league.ID, "Home FC"),
		away:   store.AddTeam(league.ID, "Away FC"),
	}
}

func (f *scorerFixture) match(n int) *contracts.Match {
	return f.store.AddMatch(f.league.ID, f.home.ID, f.away.ID, 1, 1, day(n), 2024)
}

func TestTopScorers(t *testing.T) {
	f := newScorerFixture()
	haaland := f.store.AddPlayer(f.home.ID, "Haaland", contracts.PositionOffence)
	salah := f.store.AddPlayer(f.away.ID, "Salah", contracts.PositionOffence)
	palmer := f.store.AddPlayer(f.away.ID, "Palmer", contracts.PositionMidfield)
	keeper := f.store.AddPlayer(f.home.ID, "Ederson", contracts.PositionGoalkeeper)
	free := f.store.AddPlayer(0, "Free Agent", contracts.PositionOffence)

	m1, m2 := f.match(0), f.match(7)
	f.store.AddStats(contracts.PlayerStats{PlayerID: haaland.ID, MatchID: m1.ID, Goals: 2, MinutesPlayed: 90})
	f.store.AddStats(contracts.PlayerStats{PlayerID: haaland.ID, MatchID: m2.ID, Goals: 1, MinutesPlayed: 80})
	f.store.AddStats(contracts.PlayerStats{PlayerID: salah.ID, MatchID: m1.ID, Goals: 3, Assists: 1, MinutesPlayed: 90})
	f.store.AddStats(contracts.PlayerStats{PlayerID: palmer.ID, MatchID: m1.ID, Goals: 3, Assists: 2, MinutesPlayed: 90})
	f.store.AddStats(contracts.PlayerStats{PlayerID: keeper.ID, MatchID: m1.ID, MinutesPlayed: 90})
	f.store.AddStats(contracts.PlayerStats{PlayerID: free.ID, MatchID: m1.ID, Goals: 9, MinutesPlayed: 90})

	scorers, err := newEngine(f.store).TopScorers(context.Background(), &f.league.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, scorers, 3)

	assert.Equal(t, "Palmer", scorers[0].Name)
	assert.Equal(t, "Salah", scorers[1].Name)
	assert.Equal(t, "Haaland", scorers[2].Name)
	assert.Equal(t, 2, scorers[2].MatchesPlayed)
	assert.Equal(t, 170, scorers[2].MinutesPlayed)
	assert.InDelta(t, 1.5, scorers[2].GoalsPerGame, 1e-9)
	assert.Equal(t, "Home FC", scorers[2].TeamName)

	for i := 1; i < len(scorers); i++ {
		assert.GreaterOrEqual(t, scorers[i-1].Goals, scorers[i].Goals)
	}
}

func TestTopScorers_TieBreakAndLimit(t *testing.T) {
	f := newScorerFixture()
	first := f.store.AddPlayer(f.home.ID, "First", contracts.PositionOffence)
	second := f.store.AddPlayer(f.home.ID, "Second", contracts.PositionOffence)
	m := f.match(0)
	f.store.AddStats(contracts.PlayerStats{PlayerID: second.ID, MatchID: m.ID, Goals: 1})
	f.store.AddStats(contracts.PlayerStats{PlayerID: first.ID, MatchID: m.ID, Goals: 1})

	scorers, err := newEngine(f.store).TopScorers(context.Background(), nil, nil, 1)
	require.NoError(t, err)
	require.Len(t, scorers, 1)
	assert.Equal(t, first.ID, scorers[0].PlayerID)
}

func TestTopScorers_IgnoresUnfinishedMatches(t *testing.T) {
	f := newScorerFixture()
	p := f.store.AddPlayer(f.home.ID, "Striker", contracts.PositionOffence)
	live := f.store.AddFixture(f.league.ID, f.home.ID, f.away.ID, day(0), 2024, contracts.StatusInPlay)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: live.ID, Goals: 2})

	scorers, err := newEngine(f.store).TopScorers(context.Background(), nil, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, scorers)
}

func TestPlayerStats(t *testing.T) {
	f := newScorerFixture()
	dob := time.Date(2000, time.October, 20, 0, 0, 0, 0, time.UTC)
	p := f.store.AddPlayer(f.home.ID, "Foden", contracts.PositionMidfield)
	p.DateOfBirth = &dob
	p.Nationality = "England"

	m1, m2 := f.match(0), f.match(7)
	f.store.AddStats(contracts.PlayerStats{
		PlayerID: p.ID, MatchID: m1.ID, MinutesPlayed: 90, Goals: 1, Assists: 1, YellowCards: 1,
		ShotsTotal: 4, ShotsOnTarget: 2, PassesTotal: 50, PassesCompleted: 45, Tackles: 2,
	})
	f.store.AddStats(contracts.PlayerStats{
		PlayerID: p.ID, MatchID: m2.ID, MinutesPlayed: 60, Goals: 1,
		ShotsTotal: 0, ShotsOnTarget: 0, PassesTotal: 30, PassesCompleted: 25, Interceptions: 1,
	})

	now := time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC)
	engine := newEngine(f.store, WithClock(func() time.Time { return now }))

	t.Run("summary", func(t *testing.T) {
		s, err := engine.PlayerStats(context.Background(), p.ID, nil, false)
		require.NoError(t, err)
		require.NotNil(t, s.PlayerTotals)

		assert.Equal(t, "Home FC", s.TeamName)
		assert.Equal(t, "England", s.Nationality)
		assert.Equal(t, 2, s.MatchesPlayed)
		assert.Equal(t, 150, s.MinutesPlayed)
		assert.Equal(t, 2, s.Goals)
		assert.InDelta(t, 1.0, s.GoalsPerGame, 1e-9)
		assert.InDelta(t, 75.0, s.MinutesPerGame, 1e-9)
		require.NotNil(t, s.Age)
		assert.Equal(t, 23, *s.Age)
		assert.Nil(t, s.DetailedStats)
	})

	t.Run("detailed", func(t *testing.T) {
		s, err := engine.PlayerStats(context.Background(), p.ID, nil, true)
		require.NoError(t, err)
		require.NotNil(t, s.DetailedStats)

		assert.Equal(t, 4, s.DetailedStats.ShotsTotal)
		assert.InDelta(t, 0.5, s.DetailedStats.ShotAccuracy, 1e-9)
		assert.InDelta(t, 0.875, s.DetailedStats.PassAccuracy, 1e-9)
		assert.Equal(t, 2, s.DetailedStats.Tackles)
		assert.Equal(t, 1, s.DetailedStats.Interceptions)
	})
}

func TestPlayerStats_NoLinesIsMinimal(t *testing.T) {
	f := newScorerFixture()
	p := f.store.AddPlayer(0, "Unattached", contracts.PositionDefence)
	m := f.store.AddMatch(f.league.ID, f.home.ID, f.away.ID, 0, 0, day(-400), 2023)
	f.store.AddStats(contracts.PlayerStats{PlayerID: p.ID, MatchID: m.ID, Goals: 1, MinutesPlayed: 90})

	s, err := newEngine(f.store).PlayerStats(context.Background(), p.ID, intPtr(2024), true)
	require.NoError(t, err)

	assert.Equal(t, NoTeam, s.TeamName)
	assert.Zero(t, s.MatchesPlayed)
	assert.Nil(t, s.PlayerTotals)
	assert.Nil(t, s.DetailedStats)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "goals_per_game")
	assert.NotContains(t, string(raw), "detailed_stats")
}

func TestPlayerStats_AgeWithoutLines(t *testing.T) {
	f := newScorerFixture()
	dob := time.Date(2004, time.November, 1, 0, 0, 0, 0, time.UTC)
	p := f.store.AddPlayer(f.home.ID, "Academy", contracts.PositionOffence)
	p.DateOfBirth = &dob

	now := time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC)
	s, err := newEngine(f.store, WithClock(func() time.Time { return now })).PlayerStats(context.Background(), p.ID, nil, false)
	require.NoError(t, err)

	assert.Zero(t, s.MatchesPlayed)
	assert.Nil(t, s.PlayerTotals)
	require.NotNil(t, s.Age)
	assert.Equal(t, 19, *s.Age)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"age":19`)
}

func TestPlayerStats_NotFound(t *testing.T) {
	_, err := newEngine(testutil.NewStore()).PlayerStats(context.Background(), 7, nil, false)
	assert.True(t, contracts.IsNotFound(err))
}
