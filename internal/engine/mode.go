package engine

import (
	"fmt"
	"strings"
)

// Mode is the engine's game state.
type Mode int

const (
	ModeReady Mode = iota
	ModeRunning
	ModePaused
	ModeWin
	ModeLose
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeReady:
		return "ready"
	case ModeRunning:
		return "running"
	case ModePaused:
		return "paused"
	case ModeWin:
		return "win"
	case ModeLose:
		return "lose"
	default:
		return "unknown"
	}
}

// Finished reports whether the flight has ended.
func (m Mode) Finished() bool {
	return m == ModeWin || m == ModeLose
}

// ParseMode converts a mode name produced by String back into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "ready":
		return ModeReady, nil
	case "running":
		return ModeRunning, nil
	case "paused":
		return ModePaused, nil
	case "win":
		return ModeWin, nil
	case "lose":
		return ModeLose, nil
	}
	return ModeReady, fmt.Errorf("engine: unknown mode %q", s)
}

// Status messages published with each mode.
const (
	MessageReady   = "Press Start to launch."
	MessagePaused  = "Paused. Press Start to resume."
	MessageStopped = "Stopped."
	MessageLanded  = "Landed!"
)

// winMessage reports a landing along with the current streak.
func winMessage(streak int) string {
	if streak > 1 {
		return fmt.Sprintf("%s %d in a row.", MessageLanded, streak)
	}
	return MessageLanded
}
