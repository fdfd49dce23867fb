package lander

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-lander/internal/config"
)

// Site is the terrain a flight takes place over, including its landing pad.
// A site is immutable once generated and may be shared between goroutines.
type Site struct {
	Seed     int64
	Width    float64
	Step     float64   // Horizontal distance between height samples
	Heights  []float64 // Surface height at x = i*Step
	PadX     float64   // Left edge of the pad
	PadWidth float64
	PadY     float64
}

// padPlacementTries bounds the search for a pad away from the spawn column.
const padPlacementTries = 64

// NewFlight builds the site and the initial lander state for a seed.
// Both are fully determined by the seed and the profile.
func NewFlight(seed int64, p config.Profile) (State, *Site) {
	rng := rand.New(rand.NewSource(seed))
	site := generateSite(rng, seed, p)
	return spawn(rng, p), site
}

// generateSite builds a random-walk surface and flattens a landing pad into it.
func generateSite(rng *rand.Rand, seed int64, p config.Profile) *Site {
	segments := p.Segments
	if segments < 2 {
		segments = 2
	}
	site := &Site{
		Seed:     seed,
		Width:    p.WorldWidth,
		Step:     p.WorldWidth / float64(segments),
		Heights:  make([]float64, segments+1),
		PadWidth: p.PadWidth,
	}

	// Keep the surface well below the spawn altitude
	ceiling := p.WorldHeight / 3
	h := p.BaseLevel
	for i := range site.Heights {
		h += (rng.Float64()*2 - 1) * p.Roughness
		h = math.Max(0, math.Min(ceiling, h))
		site.Heights[i] = h
	}

	// Pad must not sit right under the spawn point
	spawnLeft := p.WorldWidth/2 - p.LanderWidth/2
	minGap := p.WorldHeight / 6
	maxX := math.Max(0, p.WorldWidth-p.PadWidth)
	site.PadX = 0
	for i := 0; i < padPlacementTries; i++ {
		x := rng.Float64() * maxX
		if math.Abs(x-spawnLeft) > minGap {
			site.PadX = x
			break
		}
	}

	site.PadY = site.heightAtSurface(site.PadX + site.PadWidth/2)
	for i := range site.Heights {
		x := float64(i) * site.Step
		if x >= site.PadX && x <= site.PadX+site.PadWidth {
			site.Heights[i] = site.PadY
		}
	}
	return site
}

// spawn places the lander at the top center with a little random drift.
func spawn(rng *rand.Rand, p config.Profile) State {
	return State{
		X:    p.WorldWidth / 2,
		Y:    p.WorldHeight - p.LanderHeight/2,
		VX:   rng.Float64()*2*p.InitialDrift - p.InitialDrift,
		VY:   -rng.Float64() * p.InitialDrift,
		Fuel: p.Fuel,
	}
}

// HeightAt returns the surface height under x.
// Positions beyond the world edges use the nearest edge height.
func (s *Site) HeightAt(x float64) float64 {
	if x >= s.PadX && x <= s.PadX+s.PadWidth {
		return s.PadY
	}
	return s.heightAtSurface(x)
}

// GroundUnder returns the highest surface point across [left, right]:
// both ends and every height sample in between.
func (s *Site) GroundUnder(left, right float64) float64 {
	if right < left {
		left, right = right, left
	}
	h := math.Max(s.HeightAt(left), s.HeightAt(right))
	if s.Step <= 0 {
		return h
	}
	first := int(math.Ceil(left / s.Step))
	for i := max(0, first); i < len(s.Heights); i++ {
		x := float64(i) * s.Step
		if x > right {
			break
		}
		h = math.Max(h, s.HeightAt(x))
	}
	return h
}

// heightAtSurface interpolates between samples, ignoring the pad.
func (s *Site) heightAtSurface(x float64) float64 {
	if len(s.Heights) == 0 {
		return 0
	}
	last := len(s.Heights) - 1
	if x <= 0 || s.Step <= 0 {
		return s.Heights[0]
	}
	pos := x / s.Step
	i := int(pos)
	if i >= last {
		return s.Heights[last]
	}
	frac := pos - float64(i)
	return s.Heights[i] + (s.Heights[i+1]-s.Heights[i])*frac
}

// OnPad reports whether the span [left, right] lies entirely on the pad.
func (s *Site) OnPad(left, right float64) bool {
	return s.PadX <= left && right <= s.PadX+s.PadWidth
}
