// Package engine runs the lander simulation.
//
// An Engine owns one flight: its mode, lander state, site and control intent.
// All access goes through the Engine's methods, which serialize on a single
// lock shared with the simulation loop started by Run.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/lander"
)

// ErrUnknownDifficulty is returned by SetDifficulty for unknown presets.
var ErrUnknownDifficulty = errors.New("engine: unknown difficulty")

// Frame is an immutable view of the engine published to the host.
type Frame struct {
	Mode     Mode
	Message  string
	State    lander.State
	Controls lander.Controls

	Difficulty config.Difficulty // Profile of the current flight
	Selected   config.Difficulty // Profile for the next flight
	Profile    config.Profile
	Site       *lander.Site // Shared, never mutated

	Altitude  float64
	Elapsed   time.Duration
	WinStreak int
	Score     int    // Score of the last landing, 0 otherwise
	Version   uint64 // Increases on every visible change
}

// Status is the short form of the engine state.
type Status struct {
	Mode       Mode
	Message    string
	Difficulty config.Difficulty
	Fuel       float64
	Elapsed    time.Duration
	WinStreak  int
}

// Landing describes a finished flight.
type Landing struct {
	Difficulty config.Difficulty
	Outcome    lander.Outcome
	Reason     string
	FuelLeft   float64
	Elapsed    time.Duration
	Score      int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRedraw sets the callback receiving frames from the loop.
// It runs on the loop goroutine without the engine lock held.
func WithRedraw(fn func(Frame)) Option {
	return func(e *Engine) { e.redraw = fn }
}

// WithLandingHandler sets the callback invoked once per finished flight.
// It runs without the engine lock held.
func WithLandingHandler(fn func(Landing)) Option {
	return func(e *Engine) { e.onLanding = fn }
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithWakeGuard sets the guard held while a flight is running.
func WithWakeGuard(g WakeGuard) Option {
	return func(e *Engine) { e.latch.guard = g }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSeedSource sets the function choosing a site seed for each new flight.
func WithSeedSource(fn func() int64) Option {
	return func(e *Engine) { e.seeds = fn }
}

// WithTickRate sets how many simulation steps run per second.
func WithTickRate(fps int) Option {
	return func(e *Engine) {
		if fps > 0 {
			e.frameInterval = time.Second / time.Duration(fps)
		}
	}
}

// WithDifficulty sets the initial difficulty.
func WithDifficulty(d config.Difficulty) Option {
	return func(e *Engine) {
		if d.Valid() {
			e.difficulty = d
		}
	}
}

// Engine is the guarded handle to one simulated flight.
type Engine struct {
	mu sync.Mutex

	cfg        config.LanderConfig
	mode       Mode
	message    string
	difficulty config.Difficulty
	selected   config.Difficulty
	profile    config.Profile
	site       *lander.Site
	seed       int64
	state      lander.State
	controls   lander.Controls
	elapsed    time.Duration
	lastTick   time.Time
	winStreak  int
	lastScore  int
	version    uint64
	drawn      uint64
	landings   []Landing

	clock         Clock
	redraw        func(Frame)
	onLanding     func(Landing)
	seeds         func() int64
	logger        *log.Logger
	latch         wakeLatch
	frameInterval time.Duration
	maxStep       time.Duration
	idleInterval  time.Duration

	wake     chan struct{}
	done     chan struct{}
	doneOnce sync.Once
}

// New creates an engine in ModeReady with a fresh flight.
func New(cfg config.LanderConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:           cfg,
		difficulty:    config.DifficultyMedium,
		clock:         SystemClock(),
		frameInterval: time.Second / 60,
		maxStep:       cfg.Loop.MaxStep,
		idleInterval:  cfg.Loop.IdleInterval,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	e.latch.guard = NopWakeGuard{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	e.latch.logger = e.logger
	if e.seeds == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		e.seeds = rng.Int63
	}
	if e.maxStep <= 0 {
		e.maxStep = 100 * time.Millisecond
	}
	if e.idleInterval <= 0 {
		e.idleInterval = 50 * time.Millisecond
	}

	e.selected = e.difficulty
	e.resetFlightLocked()
	return e
}

// Start launches the flight. From Win or Lose it first starts a new game.
// It returns false if the engine is already running or paused.
func (e *Engine) Start() bool {
	e.mu.Lock()
	switch e.mode {
	case ModeReady:
		if e.selected != e.difficulty {
			e.resetFlightLocked()
		}
	case ModeWin, ModeLose:
		e.resetFlightLocked()
	default:
		mode := e.mode
		e.mu.Unlock()
		e.logger.Debug("start ignored", "mode", mode)
		return false
	}
	e.controls = lander.Controls{}
	e.setModeLocked(ModeRunning, "")
	e.lastTick = e.clock.Now()
	e.logger.Debug("flight started", "difficulty", e.difficulty, "seed", e.seed)
	e.mu.Unlock()

	e.afterCommand()
	return true
}

// Stop ends a running or paused flight as a loss with msg.
// An empty msg uses MessageStopped.
func (e *Engine) Stop(msg string) bool {
	if msg == "" {
		msg = MessageStopped
	}
	e.mu.Lock()
	if e.mode != ModeRunning && e.mode != ModePaused {
		mode := e.mode
		e.mu.Unlock()
		e.logger.Debug("stop ignored", "mode", mode)
		return false
	}
	e.finishLocked(lander.Result{Outcome: lander.OutcomeLose, Reason: msg})
	e.mu.Unlock()

	e.afterCommand()
	return true
}

// Pause freezes a running flight.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	if e.mode != ModeRunning {
		mode := e.mode
		e.mu.Unlock()
		e.logger.Debug("pause ignored", "mode", mode)
		return false
	}
	e.setModeLocked(ModePaused, MessagePaused)
	e.mu.Unlock()

	e.afterCommand()
	return true
}

// Resume continues a paused flight.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	if e.mode != ModePaused {
		mode := e.mode
		e.mu.Unlock()
		e.logger.Debug("resume ignored", "mode", mode)
		return false
	}
	e.setModeLocked(ModeRunning, "")
	e.lastTick = e.clock.Now()
	e.mu.Unlock()

	e.afterCommand()
	return true
}

// Toggle is the single start button: it pauses a running flight, resumes a
// paused one and starts otherwise.
func (e *Engine) Toggle() bool {
	switch e.Mode() {
	case ModeRunning:
		return e.Pause()
	case ModePaused:
		return e.Resume()
	default:
		return e.Start()
	}
}

// NewGame abandons the current flight and prepares a new one in ModeReady.
// It is rejected while running.
func (e *Engine) NewGame() bool {
	e.mu.Lock()
	if e.mode == ModeRunning {
		e.mu.Unlock()
		e.logger.Debug("new game ignored while running")
		return false
	}
	e.resetFlightLocked()
	e.mu.Unlock()

	e.afterCommand()
	return true
}

// SetDifficulty selects the difficulty for the next flight.
// In ModeReady the prepared flight is rebuilt at once; otherwise the change
// waits until a new flight is prepared.
func (e *Engine) SetDifficulty(d config.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	e.mu.Lock()
	e.selected = d
	if e.mode == ModeReady && d != e.difficulty {
		e.resetFlightLocked()
	} else {
		e.version++
	}
	e.mu.Unlock()

	e.afterCommand()
	return nil
}

// SetControlIntent stores the control intent. It is applied only while
// running; rotating is clamped into -1..+1.
func (e *Engine) SetControlIntent(firing bool, rotating lander.Rotation) {
	c := lander.Controls{Firing: firing, Rotating: rotating}.Normalize()
	e.mu.Lock()
	if e.controls != c {
		e.controls = c
		e.version++
	}
	e.mu.Unlock()
	e.signal()
}

// Controls returns the stored control intent.
func (e *Engine) Controls() lander.Controls {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controls
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Status returns the current mode and a few headline numbers.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Mode:       e.mode,
		Message:    e.message,
		Difficulty: e.difficulty,
		Fuel:       e.state.Fuel,
		Elapsed:    e.elapsed,
		WinStreak:  e.winStreak,
	}
}

// Frame returns the current frame.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameLocked()
}

// Destroy stops the loop. It is safe to call more than once.
func (e *Engine) Destroy() {
	e.doneOnce.Do(func() {
		close(e.done)
	})
	e.latch.release()
}

// Done is closed once Destroy has been called.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) frameLocked() Frame {
	return Frame{
		Mode:       e.mode,
		Message:    e.message,
		State:      e.state,
		Controls:   e.controls,
		Difficulty: e.difficulty,
		Selected:   e.selected,
		Profile:    e.profile,
		Site:       e.site,
		Altitude:   lander.Altitude(e.state, e.profile, e.site),
		Elapsed:    e.elapsed,
		WinStreak:  e.winStreak,
		Score:      e.lastScore,
		Version:    e.version,
	}
}

func (e *Engine) setModeLocked(m Mode, msg string) {
	e.mode = m
	e.message = msg
	e.version++
}

// resetFlightLocked prepares a new flight with the selected difficulty.
func (e *Engine) resetFlightLocked() {
	e.difficulty = e.selected
	e.profile = config.ProfileFor(e.cfg, e.difficulty)
	e.seed = e.seeds()
	e.state, e.site = lander.NewFlight(e.seed, e.profile)
	e.controls = lander.Controls{}
	e.elapsed = 0
	e.lastScore = 0
	e.lastTick = time.Time{}
	e.setModeLocked(ModeReady, MessageReady)
}

// finishLocked ends the flight and queues a Landing for the handler.
func (e *Engine) finishLocked(res lander.Result) {
	landing := Landing{
		Difficulty: e.difficulty,
		Outcome:    res.Outcome,
		Reason:     res.Reason,
		FuelLeft:   e.state.Fuel,
		Elapsed:    e.elapsed,
	}
	if res.Outcome == lander.OutcomeWin {
		e.winStreak++
		e.lastScore = lander.LandingScore(e.state, e.profile)
		landing.Score = e.lastScore
		e.setModeLocked(ModeWin, winMessage(e.winStreak))
	} else {
		e.winStreak = 0
		e.lastScore = 0
		e.setModeLocked(ModeLose, res.Reason)
	}
	e.lastTick = time.Time{}
	e.logger.Info("flight finished",
		"outcome", res.Outcome, "reason", res.Reason,
		"difficulty", e.difficulty, "fuel", e.state.Fuel, "elapsed", e.elapsed)
	e.landings = append(e.landings, landing)
}

// signal wakes an idle loop.
func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// afterCommand runs the work that must happen outside the lock after a
// state change.
func (e *Engine) afterCommand() {
	e.signal()
	e.latch.sync(func() bool { return e.Mode() == ModeRunning })
	e.dispatchLandings()
}

func (e *Engine) dispatchLandings() {
	e.mu.Lock()
	pending := e.landings
	e.landings = nil
	e.mu.Unlock()

	if e.onLanding == nil {
		return
	}
	for _, l := range pending {
		e.onLanding(l)
	}
}
