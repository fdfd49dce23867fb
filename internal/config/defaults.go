package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/lander.yaml
var defaultLanderYAML []byte

// DefaultLanderConfig returns the hard-coded lander configuration.
// It mirrors defaults/lander.yaml and is used when the embedded file cannot be parsed.
func DefaultLanderConfig() LanderConfig {
	return LanderConfig{
		Physics: PhysicsConfig{
			Gravity:      35,
			Thrust:       80,
			SlewRate:     120,
			BurnRate:     10,
			InitialDrift: 30,
		},
		Lander: BodyConfig{
			Width:  20,
			Height: 24,
			Fuel:   60,
		},
		Terrain: TerrainConfig{
			Width:     400,
			Height:    300,
			Segments:  40,
			Roughness: 18,
			BaseLevel: 30,
			PadWidth:  32,
		},
		Landing: LandingConfig{
			MaxVerticalSpeed:   28,
			MaxHorizontalSpeed: 20,
			MaxAngle:           18,
		},
		Loop: LoopConfig{
			MaxStep:      100 * time.Millisecond,
			IdleInterval: 50 * time.Millisecond,
		},
		Difficulty: DifficultyConfig{
			Easy: ScalingConfig{
				Gravity:   0.85,
				Fuel:      1.5,
				PadWidth:  1.3333,
				Roughness: 0.5,
				Drift:     1.0,
				Tolerance: 1.0,
			},
			Medium: ScalingConfig{
				Gravity:   1.0,
				Fuel:      1.0,
				PadWidth:  1.0,
				Roughness: 1.0,
				Drift:     1.0,
				Tolerance: 1.0,
			},
			Hard: ScalingConfig{
				Gravity:   1.15,
				Fuel:      0.875,
				PadWidth:  0.75,
				Roughness: 1.6,
				Drift:     1.3333,
				Tolerance: 0.85,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultLanderYAML
}
