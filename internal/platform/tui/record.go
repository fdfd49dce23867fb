package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/lander"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

// RecordLandings returns a landing handler that saves every finished flight
// to store. A nil store disables saving.
func RecordLandings(store *storage.Store, logger *log.Logger) func(engine.Landing) {
	return func(l engine.Landing) {
		if store == nil {
			return
		}
		reason := l.Reason
		if l.Outcome == lander.OutcomeWin {
			reason = ""
		}
		_, err := store.SaveLanding(storage.LandingRecord{
			Difficulty: string(l.Difficulty),
			Outcome:    l.Outcome.String(),
			Reason:     reason,
			FuelLeft:   l.FuelLeft,
			Duration:   l.Elapsed,
			Score:      l.Score,
		})
		if err != nil && logger != nil {
			logger.Warn("cannot record landing", "err", err)
		}
	}
}

// LogWakeGuard reports wake transitions to a logger. Terminals have no
// screen lock to hold, so this only makes the transitions visible.
type LogWakeGuard struct {
	Logger *log.Logger
	Who    string
}

// Acquire logs that a flight is running.
func (g LogWakeGuard) Acquire() error {
	if g.Logger != nil {
		g.Logger.Debug("wake acquired", "session", g.Who)
	}
	return nil
}

// Release logs that the flight stopped running.
func (g LogWakeGuard) Release() {
	if g.Logger != nil {
		g.Logger.Debug("wake released", "session", g.Who)
	}
}

// EngineOptions returns the engine options shared by every host: tick rate
// and seeds from cfg, landing records saved to store and wake transitions
// logged under who.
func EngineOptions(cfg core.RuntimeConfig, store *storage.Store, logger *log.Logger, who string) []engine.Option {
	return []engine.Option{
		engine.WithTickRate(cfg.TickRate),
		engine.WithSeedSource(cfg.SeedSource()),
		engine.WithLogger(logger),
		engine.WithLandingHandler(RecordLandings(store, logger)),
		engine.WithWakeGuard(LogWakeGuard{Logger: logger, Who: who}),
	}
}
