package engine

import (
	"sync"

	"github.com/charmbracelet/log"
)

// WakeGuard keeps the host awake while a flight is running.
// Acquire and Release are called outside the engine lock, at most once per
// transition into and out of the running mode.
type WakeGuard interface {
	Acquire() error
	Release()
}

// NopWakeGuard is a WakeGuard that does nothing.
type NopWakeGuard struct{}

func (NopWakeGuard) Acquire() error { return nil }
func (NopWakeGuard) Release()       {}

// wakeLatch makes guard calls idempotent.
// Lock order: latch.mu before Engine.mu.
type wakeLatch struct {
	mu     sync.Mutex
	guard  WakeGuard
	held   bool
	logger *log.Logger
}

// sync brings the guard in line with the current running state.
// running is read while the latch is held, so the last caller always
// observes the final mode.
func (l *wakeLatch) sync(running func() bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	want := running()
	switch {
	case want && !l.held:
		if err := l.guard.Acquire(); err != nil {
			l.logger.Warn("wake guard acquire failed", "err", err)
			return
		}
		l.held = true
	case !want && l.held:
		l.guard.Release()
		l.held = false
	}
}

// release drops the guard regardless of mode.
func (l *wakeLatch) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		l.guard.Release()
		l.held = false
	}
}
