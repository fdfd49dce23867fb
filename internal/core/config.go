package core

import (
	"math/rand"
	"time"
)

// RuntimeConfig holds the host settings chosen on the command line.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation steps per second (default 60)
	Seed     int64 // First site seed; 0 picks one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// SeedSource returns the generator of site seeds for successive flights.
// A fixed Seed makes the whole sequence reproducible.
func (c RuntimeConfig) SeedSource() func() int64 {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	first := true
	return func() int64 {
		if first && c.Seed != 0 {
			first = false
			return c.Seed
		}
		first = false
		return rng.Int63()
	}
}
