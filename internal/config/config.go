// Package config provides YAML-based lander configuration loading and the
// difficulty profiles consumed by the physics model.
package config

import "time"

// LanderConfig contains the complete simulation configuration.
type LanderConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Lander     BodyConfig       `yaml:"lander"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Landing    LandingConfig    `yaml:"landing"`
	Loop       LoopConfig       `yaml:"loop"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines the base physics constants, in world units per second.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`       // Downward acceleration
	Thrust       float64 `yaml:"thrust"`        // Engine acceleration along heading
	SlewRate     float64 `yaml:"slew_rate"`     // Max rotation rate, degrees per second
	BurnRate     float64 `yaml:"burn_rate"`     // Fuel units burned per second of thrust
	InitialDrift float64 `yaml:"initial_drift"` // Max random speed at spawn
}

// BodyConfig defines the lander's dimensions and tank.
type BodyConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Fuel   float64 `yaml:"fuel"`
}

// TerrainConfig defines the world size and surface generation parameters.
type TerrainConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Segments  int     `yaml:"segments"`
	Roughness float64 `yaml:"roughness"` // Max height variation between neighboring points
	BaseLevel float64 `yaml:"base_level"`
	PadWidth  float64 `yaml:"pad_width"`
}

// LandingConfig defines the touchdown tolerances.
type LandingConfig struct {
	MaxVerticalSpeed   float64 `yaml:"max_vertical_speed"`
	MaxHorizontalSpeed float64 `yaml:"max_horizontal_speed"`
	MaxAngle           float64 `yaml:"max_angle"` // Degrees from upright
}

// LoopConfig defines simulation loop timing.
type LoopConfig struct {
	MaxStep      time.Duration `yaml:"max_step"`      // Clamp for a single physics step
	IdleInterval time.Duration `yaml:"idle_interval"` // Wake-up bound while not running
}

// DifficultyConfig holds the scaling applied by each difficulty preset.
type DifficultyConfig struct {
	Easy   ScalingConfig `yaml:"easy"`
	Medium ScalingConfig `yaml:"medium"`
	Hard   ScalingConfig `yaml:"hard"`
}

// ScalingConfig multiplies base values for one difficulty preset.
type ScalingConfig struct {
	Gravity   float64 `yaml:"gravity"`
	Fuel      float64 `yaml:"fuel"`
	PadWidth  float64 `yaml:"pad_width"`
	Roughness float64 `yaml:"roughness"`
	Drift     float64 `yaml:"drift"`
	Tolerance float64 `yaml:"tolerance"` // Applied to all landing tolerances
}
