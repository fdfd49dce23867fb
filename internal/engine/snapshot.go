package engine

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/lander"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

var (
	// ErrIncompatibleSnapshot is returned when a snapshot cannot be restored.
	ErrIncompatibleSnapshot = errors.New("engine: incompatible snapshot")
	// ErrRestoreWhileRunning is returned by Restore during a running flight.
	ErrRestoreWhileRunning = errors.New("engine: cannot restore while running")
)

// SessionSnapshot is everything needed to resume a flight later.
type SessionSnapshot struct {
	Version    int
	Mode       Mode
	Message    string
	State      lander.State
	Controls   lander.Controls
	Difficulty config.Difficulty
	Selected   config.Difficulty
	Seed       int64
	Elapsed    time.Duration
	WinStreak  int
}

// Snapshot captures the current flight without changing it.
func (e *Engine) Snapshot() SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SessionSnapshot{
		Version:    SnapshotVersion,
		Mode:       e.mode,
		Message:    e.message,
		State:      e.state,
		Controls:   e.controls,
		Difficulty: e.difficulty,
		Selected:   e.selected,
		Seed:       e.seed,
		Elapsed:    e.elapsed,
		WinStreak:  e.winStreak,
	}
}

// Restore replaces the flight with snap. A running snapshot comes back
// paused. An unusable snapshot leaves a fresh flight in ModeReady and
// returns an error wrapping ErrIncompatibleSnapshot.
func (e *Engine) Restore(snap SessionSnapshot) error {
	e.mu.Lock()
	if e.mode == ModeRunning {
		e.mu.Unlock()
		return ErrRestoreWhileRunning
	}

	if err := snap.validate(); err != nil {
		e.resetFlightLocked()
		e.mu.Unlock()
		e.afterCommand()
		return fmt.Errorf("%w: %w", ErrIncompatibleSnapshot, err)
	}

	e.difficulty = snap.Difficulty
	e.selected = snap.Selected
	if !e.selected.Valid() {
		e.selected = snap.Difficulty
	}
	e.profile = config.ProfileFor(e.cfg, e.difficulty)
	e.seed = snap.Seed
	_, e.site = lander.NewFlight(snap.Seed, e.profile)
	e.state = snap.State
	e.controls = snap.Controls.Normalize()
	e.elapsed = snap.Elapsed
	e.winStreak = snap.WinStreak
	e.lastScore = 0
	e.lastTick = time.Time{}

	mode, msg := snap.Mode, snap.Message
	switch mode {
	case ModeRunning, ModePaused:
		mode, msg = ModePaused, MessagePaused
	case ModeReady:
		msg = MessageReady
	case ModeWin:
		e.lastScore = lander.LandingScore(e.state, e.profile)
	}
	e.setModeLocked(mode, msg)
	e.mu.Unlock()

	e.logger.Debug("snapshot restored", "mode", mode, "difficulty", snap.Difficulty)
	e.afterCommand()
	return nil
}

func (s SessionSnapshot) validate() error {
	switch {
	case s.Version != SnapshotVersion:
		return fmt.Errorf("version %d, want %d", s.Version, SnapshotVersion)
	case s.Mode < ModeReady || s.Mode > ModeLose:
		return fmt.Errorf("invalid mode %d", s.Mode)
	case !s.Difficulty.Valid():
		return fmt.Errorf("invalid difficulty %q", s.Difficulty)
	case !s.State.Finite():
		return errors.New("non-finite lander state")
	case s.State.Fuel < 0:
		return errors.New("negative fuel")
	case s.Elapsed < 0:
		return errors.New("negative elapsed time")
	}
	return nil
}

// snapshotDoc is the persisted form of a SessionSnapshot.
type snapshotDoc struct {
	Version      int         `yaml:"version"`
	Mode         string      `yaml:"mode"`
	Message      string      `yaml:"message,omitempty"`
	Difficulty   string      `yaml:"difficulty"`
	Selected     string      `yaml:"selected_difficulty,omitempty"`
	Seed         int64       `yaml:"seed"`
	ElapsedNanos int64       `yaml:"elapsed_ns"`
	WinStreak    int         `yaml:"win_streak"`
	Lander       landerDoc   `yaml:"lander"`
	Controls     controlsDoc `yaml:"controls"`
}

type landerDoc struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
	Heading  float64 `yaml:"heading"`
	Fuel     float64 `yaml:"fuel"`
	Firing   bool    `yaml:"firing"`
	Rotating int     `yaml:"rotating"`
}

type controlsDoc struct {
	Firing   bool `yaml:"firing"`
	Rotating int  `yaml:"rotating"`
}

// EncodeSnapshot serializes a snapshot as a versioned YAML document.
func EncodeSnapshot(s SessionSnapshot) ([]byte, error) {
	doc := snapshotDoc{
		Version:      s.Version,
		Mode:         s.Mode.String(),
		Message:      s.Message,
		Difficulty:   string(s.Difficulty),
		Selected:     string(s.Selected),
		Seed:         s.Seed,
		ElapsedNanos: int64(s.Elapsed),
		WinStreak:    s.WinStreak,
		Lander: landerDoc{
			X:        s.State.X,
			Y:        s.State.Y,
			VX:       s.State.VX,
			VY:       s.State.VY,
			Heading:  s.State.Heading,
			Fuel:     s.State.Fuel,
			Firing:   s.State.Firing,
			Rotating: int(s.State.Rotating),
		},
		Controls: controlsDoc{
			Firing:   s.Controls.Firing,
			Rotating: int(s.Controls.Rotating),
		},
	}
	if doc.Version == 0 {
		doc.Version = SnapshotVersion
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("engine: cannot encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a document written by EncodeSnapshot.
// Documents from other format versions are rejected with
// ErrIncompatibleSnapshot.
func DecodeSnapshot(data []byte) (SessionSnapshot, error) {
	var doc snapshotDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return SessionSnapshot{}, fmt.Errorf("%w: %w", ErrIncompatibleSnapshot, err)
	}
	if doc.Version != SnapshotVersion {
		return SessionSnapshot{}, fmt.Errorf("%w: version %d", ErrIncompatibleSnapshot, doc.Version)
	}
	mode, err := ParseMode(doc.Mode)
	if err != nil {
		return SessionSnapshot{}, fmt.Errorf("%w: %w", ErrIncompatibleSnapshot, err)
	}

	return SessionSnapshot{
		Version:    doc.Version,
		Mode:       mode,
		Message:    doc.Message,
		Difficulty: config.Difficulty(doc.Difficulty),
		Selected:   config.Difficulty(doc.Selected),
		Seed:       doc.Seed,
		Elapsed:    time.Duration(doc.ElapsedNanos),
		WinStreak:  doc.WinStreak,
		State: lander.State{
			X:        doc.Lander.X,
			Y:        doc.Lander.Y,
			VX:       doc.Lander.VX,
			VY:       doc.Lander.VY,
			Heading:  doc.Lander.Heading,
			Fuel:     doc.Lander.Fuel,
			Firing:   doc.Lander.Firing,
			Rotating: lander.Rotation(doc.Lander.Rotating),
		},
		Controls: lander.Controls{
			Firing:   doc.Controls.Firing,
			Rotating: lander.Rotation(doc.Controls.Rotating),
		},
	}, nil
}
