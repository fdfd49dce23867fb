package config

import (
	"fmt"
	"strings"
)

// Difficulty is a named difficulty preset.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties returns all presets from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is a known preset.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Title returns the display name of the preset.
func (d Difficulty) Title() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// ParseDifficulty converts a user-supplied name into a preset.
// An empty string selects medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DifficultyMedium, nil
	case "easy", "e":
		return DifficultyEasy, nil
	case "medium", "normal", "m":
		return DifficultyMedium, nil
	case "hard", "h":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, medium or hard)", s)
}

// Profile is the fully resolved set of physics constants for one difficulty.
// The physics model consumes nothing else.
type Profile struct {
	Difficulty Difficulty

	Gravity      float64
	Thrust       float64
	SlewRate     float64
	BurnRate     float64
	Fuel         float64
	InitialDrift float64

	LanderWidth  float64
	LanderHeight float64

	WorldWidth  float64
	WorldHeight float64
	Segments    int
	Roughness   float64
	BaseLevel   float64
	PadWidth    float64

	MaxLandingVY    float64
	MaxLandingVX    float64
	MaxLandingAngle float64
}

// Scaling returns the multipliers configured for d.
// Unknown presets use medium.
func (c DifficultyConfig) Scaling(d Difficulty) ScalingConfig {
	switch d {
	case DifficultyEasy:
		return c.Easy
	case DifficultyHard:
		return c.Hard
	default:
		return c.Medium
	}
}

// ProfileFor resolves the profile for a difficulty from the base configuration.
func ProfileFor(cfg LanderConfig, d Difficulty) Profile {
	if !d.Valid() {
		d = DifficultyMedium
	}
	s := cfg.Difficulty.Scaling(d)

	padWidth := cfg.Terrain.PadWidth * orOne(s.PadWidth)
	// The pad must at least fit the lander
	if padWidth < cfg.Lander.Width {
		padWidth = cfg.Lander.Width
	}
	tol := orOne(s.Tolerance)

	return Profile{
		Difficulty:      d,
		Gravity:         cfg.Physics.Gravity * orOne(s.Gravity),
		Thrust:          cfg.Physics.Thrust,
		SlewRate:        cfg.Physics.SlewRate,
		BurnRate:        cfg.Physics.BurnRate,
		Fuel:            cfg.Lander.Fuel * orOne(s.Fuel),
		InitialDrift:    cfg.Physics.InitialDrift * orOne(s.Drift),
		LanderWidth:     cfg.Lander.Width,
		LanderHeight:    cfg.Lander.Height,
		WorldWidth:      cfg.Terrain.Width,
		WorldHeight:     cfg.Terrain.Height,
		Segments:        cfg.Terrain.Segments,
		Roughness:       cfg.Terrain.Roughness * orOne(s.Roughness),
		BaseLevel:       cfg.Terrain.BaseLevel,
		PadWidth:        padWidth,
		MaxLandingVY:    cfg.Landing.MaxVerticalSpeed * tol,
		MaxLandingVX:    cfg.Landing.MaxHorizontalSpeed * tol,
		MaxLandingAngle: cfg.Landing.MaxAngle * tol,
	}
}

// orOne treats an unset multiplier as neutral.
func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
