// Package analyticsconfig holds the tunable weights and windows of the
// scoring module. Values come from an optional YAML file; anything the
// file leaves out keeps its default.
package analyticsconfig

// Config is the root of the scoring weights file
// ⭐ SSOT: power ranking weights and analysis windows live here only
type Config struct {
	Power   PowerWeights `yaml:"power" json:"power"`
	Windows Windows      `yaml:"windows" json:"windows"`
	XG      XGWeights    `yaml:"xg" json:"xg"`
}

// PowerWeights are the terms of the composite power score:
//
//	clamp(0, 100, ppg·PointsPerGame + clamp(±GoalDiffCap, gd/GoalDiffDivisor)
//	    + momentum·Momentum + min(WinRateCap, win_rate·WinRate))
type PowerWeights struct {
	PointsPerGame   float64 `yaml:"points_per_game" json:"points_per_game"`
	GoalDiffDivisor float64 `yaml:"goal_diff_divisor" json:"goal_diff_divisor"`
	GoalDiffCap     float64 `yaml:"goal_diff_cap" json:"goal_diff_cap"`
	Momentum        float64 `yaml:"momentum" json:"momentum"`
	WinRate         float64 `yaml:"win_rate" json:"win_rate"`
	WinRateCap      float64 `yaml:"win_rate_cap" json:"win_rate_cap"`
	ScoreMax        float64 `yaml:"score_max" json:"score_max"`
}

// Windows are match counts used by recency-based scores
type Windows struct {
	Momentum   int `yaml:"momentum" json:"momentum"`
	PlayerForm int `yaml:"player_form" json:"player_form"`
}

// XGWeights drive the shots-on-target expected goals estimate
type XGWeights struct {
	PerShotOnTarget float64 `yaml:"per_shot_on_target" json:"per_shot_on_target"`
	ConcededFactor  float64 `yaml:"conceded_factor" json:"conceded_factor"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Power:   DefaultPowerWeights(),
		Windows: Windows{Momentum: 5, PlayerForm: 5},
		XG:      XGWeights{PerShotOnTarget: 0.35, ConcededFactor: 0.9},
	}
}

// DefaultPowerWeights returns 15 / ±15 (gd/2) / 0.3 / 25 capped at 100
func DefaultPowerWeights() PowerWeights {
	return PowerWeights{
		PointsPerGame:   15,
		GoalDiffDivisor: 2,
		GoalDiffCap:     15,
		Momentum:        0.3,
		WinRate:         25,
		WinRateCap:      25,
		ScoreMax:        100,
	}
}
