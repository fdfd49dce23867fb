// Package lander implements the lander physics model.
// Everything here is a pure function of its inputs: the same state, controls,
// time step, profile and site always produce the same result.
package lander

import (
	"fmt"
	"math"
)

// Rotation is the rotation intent: -1 left, 0 none, +1 right.
type Rotation int

const (
	RotateLeft  Rotation = -1
	RotateNone  Rotation = 0
	RotateRight Rotation = 1
)

// String returns a human-readable name for the rotation.
func (r Rotation) String() string {
	switch {
	case r < 0:
		return "left"
	case r > 0:
		return "right"
	default:
		return "none"
	}
}

// Controls is the control intent supplied by the host.
// It is the only input callers set directly.
type Controls struct {
	Firing   bool
	Rotating Rotation
}

// Normalize clamps Rotating into -1..+1.
func (c Controls) Normalize() Controls {
	switch {
	case c.Rotating < 0:
		c.Rotating = RotateLeft
	case c.Rotating > 0:
		c.Rotating = RotateRight
	}
	return c
}

// State is the lander's kinematic state.
// Y grows upward; Heading is in degrees, 0 is upright, positive tilts right,
// normalized to (-180, 180].
type State struct {
	X, Y     float64
	VX, VY   float64
	Heading  float64
	Fuel     float64
	Firing   bool     // Engine burned during the last step
	Rotating Rotation // Rotation applied during the last step
}

// Speed returns the magnitude of the velocity.
func (s State) Speed() float64 {
	return math.Hypot(s.VX, s.VY)
}

// Finite reports whether every numeric field is a finite number.
func (s State) Finite() bool {
	for _, v := range [...]float64{s.X, s.Y, s.VX, s.VY, s.Heading, s.Fuel} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String formats the state for logs.
func (s State) String() string {
	return fmt.Sprintf("pos=(%.1f,%.1f) vel=(%.1f,%.1f) heading=%.1f fuel=%.1f",
		s.X, s.Y, s.VX, s.VY, s.Heading, s.Fuel)
}

// Outcome classifies the result of a physics step.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeWin
	OutcomeLose
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return "unknown"
	}
}

// Loss causes reported with OutcomeLose.
const (
	ReasonOffPad       = "Off the landing pad."
	ReasonUpsideDown   = "Wrong way up."
	ReasonBadAngle     = "Bad angle."
	ReasonTooFast      = "Too fast."
	ReasonDrifting     = "Drifting sideways too fast."
	ReasonNumericFault = "Numeric fault in trajectory."
)

// Result is the outcome of one physics step.
type Result struct {
	Outcome Outcome
	Reason  string // Empty unless OutcomeLose
}

// normalizeHeading maps an angle in degrees into (-180, 180].
func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h > 180 {
		h -= 360
	} else if h <= -180 {
		h += 360
	}
	return h
}
