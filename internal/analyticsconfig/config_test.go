package analyticsconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 15.0, cfg.Power.PointsPerGame)
	assert.Equal(t, 2.0, cfg.Power.GoalDiffDivisor)
	assert.Equal(t, 15.0, cfg.Power.GoalDiffCap)
	assert.Equal(t, 0.3, cfg.Power.Momentum)
	assert.Equal(t, 25.0, cfg.Power.WinRateCap)
	assert.Equal(t, 100.0, cfg.Power.ScoreMax)
	assert.Equal(t, 5, cfg.Windows.Momentum)
	assert.Equal(t, 0.35, cfg.XG.PerShotOnTarget)
}

func TestParse_OverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte("power:\n  momentum: 0.5\nwindows:\n  momentum: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Power.Momentum)
	assert.Equal(t, 8, cfg.Windows.Momentum)
	assert.Equal(t, 15.0, cfg.Power.PointsPerGame)
	assert.Equal(t, 5, cfg.Windows.PlayerForm)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("power:\n  momentun: 0.5\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero divisor", func(c *Config) { c.Power.GoalDiffDivisor = 0 }, "power.goal_diff_divisor"},
		{"negative weight", func(c *Config) { c.Power.WinRate = -1 }, "power.win_rate"},
		{"zero score max", func(c *Config) { c.Power.ScoreMax = 0 }, "power.score_max"},
		{"zero momentum window", func(c *Config) { c.Windows.Momentum = 0 }, "windows.momentum"},
		{"zero form window", func(c *Config) { c.Windows.PlayerForm = 0 }, "windows.player_form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("power:\n  points_per_game: 12\n"), 0o600))

	cfg, data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.Power.PointsPerGame)
	assert.NotEmpty(t, data)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	def, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), def)
}

func TestHash(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, _ := Hash(Default())
	assert.Equal(t, h1, h2)

	changed := Default()
	changed.Power.Momentum = 0.4
	h3, _ := Hash(changed)
	assert.NotEqual(t, h1, h3)
}
