package analyticsconfig

import (
	"fmt"
	"math"
)

// ValidationError names the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	p := cfg.Power
	nonNegative := []struct {
		field string
		value float64
	}{
		{"power.points_per_game", p.PointsPerGame},
		{"power.goal_diff_cap", p.GoalDiffCap},
		{"power.momentum", p.Momentum},
		{"power.win_rate", p.WinRate},
		{"power.win_rate_cap", p.WinRateCap},
		{"xg.per_shot_on_target", cfg.XG.PerShotOnTarget},
		{"xg.conceded_factor", cfg.XG.ConcededFactor},
	}
	for _, f := range nonNegative {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return ValidationError{f.field, "must be a finite value >= 0"}
		}
	}

	if !(p.GoalDiffDivisor > 0) {
		return ValidationError{"power.goal_diff_divisor", "must be > 0"}
	}
	if !(p.ScoreMax > 0) || math.IsInf(p.ScoreMax, 0) {
		return ValidationError{"power.score_max", "must be > 0"}
	}

	if cfg.Windows.Momentum <= 0 {
		return ValidationError{"windows.momentum", "must be > 0"}
	}
	if cfg.Windows.PlayerForm <= 0 {
		return ValidationError{"windows.player_form", "must be > 0"}
	}

	return nil
}
