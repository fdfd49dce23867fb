package lander

import (
	"math"

	"github.com/vovakirdan/tui-lander/internal/config"
)

// Step advances the lander by dt seconds.
// Gravity always applies; thrust applies along the heading while c.Firing
// is set and fuel remains. Running dry mid-step burns only the fuel that is
// left. Ground contact ends the flight with OutcomeWin or OutcomeLose.
func Step(s State, c Controls, dt float64, p config.Profile, site *Site) (State, Result) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return s, Result{Outcome: OutcomeLose, Reason: ReasonNumericFault}
	}
	if dt <= 0 {
		return s, Result{Outcome: OutcomeContinue}
	}

	c = c.Normalize()
	s.Rotating = c.Rotating
	if c.Rotating != RotateNone {
		s.Heading = normalizeHeading(s.Heading + float64(c.Rotating)*p.SlewRate*dt)
	}

	dvx := 0.0
	dvy := -p.Gravity * dt

	s.Firing = false
	if c.Firing && s.Fuel > 0 {
		burn := dt
		used := dt * p.BurnRate
		if used > s.Fuel {
			burn = s.Fuel / used * dt
			used = s.Fuel
		}
		s.Fuel -= used
		accel := p.Thrust * burn
		rad := s.Heading * math.Pi / 180
		dvx += math.Sin(rad) * accel
		dvy += math.Cos(rad) * accel
		s.Firing = true
	}

	vx0, vy0 := s.VX, s.VY
	s.VX += dvx
	s.VY += dvy
	s.X += dt * (s.VX + vx0) / 2
	s.Y += dt * (s.VY + vy0) / 2

	if !s.Finite() {
		return s, Result{Outcome: OutcomeLose, Reason: ReasonNumericFault}
	}
	if site == nil {
		return s, Result{Outcome: OutcomeContinue}
	}
	return touchdown(s, p, site)
}

// touchdown checks for ground contact and classifies the landing.
func touchdown(s State, p config.Profile, site *Site) (State, Result) {
	halfW, halfH := p.LanderWidth/2, p.LanderHeight/2
	ground := site.GroundUnder(s.X-halfW, s.X+halfW)
	if s.Y-halfH > ground {
		return s, Result{Outcome: OutcomeContinue}
	}
	s.Y = ground + halfH

	heading := math.Abs(s.Heading)
	switch {
	case !site.OnPad(s.X-halfW, s.X+halfW):
		return s, Result{Outcome: OutcomeLose, Reason: ReasonOffPad}
	case heading >= 180-p.MaxLandingAngle:
		return s, Result{Outcome: OutcomeLose, Reason: ReasonUpsideDown}
	case heading > p.MaxLandingAngle:
		return s, Result{Outcome: OutcomeLose, Reason: ReasonBadAngle}
	case math.Abs(s.VY) > p.MaxLandingVY:
		return s, Result{Outcome: OutcomeLose, Reason: ReasonTooFast}
	case math.Abs(s.VX) > p.MaxLandingVX:
		return s, Result{Outcome: OutcomeLose, Reason: ReasonDrifting}
	}
	return s, Result{Outcome: OutcomeWin}
}

// Altitude returns the height of the lander's base above the highest
// surface under its footprint.
func Altitude(s State, p config.Profile, site *Site) float64 {
	if site == nil {
		return s.Y - p.LanderHeight/2
	}
	halfW := p.LanderWidth / 2
	return s.Y - p.LanderHeight/2 - site.GroundUnder(s.X-halfW, s.X+halfW)
}

// LandingScore rates a successful landing: remaining fuel and a soft touchdown
// score higher, and harder profiles multiply the result.
func LandingScore(s State, p config.Profile) int {
	softness := 0.0
	if p.MaxLandingVY > 0 {
		softness = math.Max(0, 1-math.Abs(s.VY)/p.MaxLandingVY)
	}
	base := s.Fuel*10 + softness*100
	mult := 1.0
	switch p.Difficulty {
	case config.DifficultyMedium:
		mult = 2
	case config.DifficultyHard:
		mult = 3
	}
	return int(math.Round(base * mult))
}
