package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/lander"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingGuard struct {
	mu       sync.Mutex
	acquired int
	released int
	err      error
}

func (g *recordingGuard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.acquired++
	return nil
}

func (g *recordingGuard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released++
}

func (g *recordingGuard) counts() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.acquired, g.released
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	base := []Option{
		WithClock(clock),
		WithSeedSource(func() int64 { return 7 }),
	}
	e := New(config.DefaultLanderConfig(), append(base, opts...)...)
	t.Cleanup(e.Destroy)
	return e, clock
}

// advance moves the clock by d and runs one loop iteration.
func advance(e *Engine, clock *fakeClock, d time.Duration) Frame {
	clock.Advance(d)
	e.tick()
	return e.Frame()
}

// placeAbovePad restores a paused flight hovering just above the pad.
func placeAbovePad(t *testing.T, e *Engine, vx, vy, heading float64) {
	t.Helper()
	f := e.Frame()
	snap := e.Snapshot()
	snap.Mode = ModePaused
	snap.State = lander.State{
		X:       f.Site.PadX + f.Site.PadWidth/2,
		Y:       f.Site.PadY + f.Profile.LanderHeight/2 + 0.01,
		VX:      vx,
		VY:      vy,
		Heading: heading,
		Fuel:    10,
	}
	if err := e.Restore(snap); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if !e.Resume() {
		t.Fatal("Resume() = false, expected true")
	}
}

func TestNewEngineIsReady(t *testing.T) {
	e, _ := newTestEngine(t)

	f := e.Frame()
	if f.Mode != ModeReady {
		t.Errorf("Mode = %v, expected %v", f.Mode, ModeReady)
	}
	if f.Message != MessageReady {
		t.Errorf("Message = %q, expected %q", f.Message, MessageReady)
	}
	if f.Difficulty != config.DifficultyMedium {
		t.Errorf("Difficulty = %v, expected medium", f.Difficulty)
	}
	if f.Site == nil {
		t.Fatal("Site should be generated for a ready flight")
	}
	if f.State.Fuel != f.Profile.Fuel {
		t.Errorf("Fuel = %v, expected %v", f.State.Fuel, f.Profile.Fuel)
	}
}

func TestStartAndGravityTick(t *testing.T) {
	e, clock := newTestEngine(t, WithDifficulty(config.DifficultyEasy))

	if !e.Start() {
		t.Fatal("Start() = false, expected true")
	}
	if e.Mode() != ModeRunning {
		t.Fatalf("Mode() = %v, expected %v", e.Mode(), ModeRunning)
	}

	before := e.Frame()
	after := advance(e, clock, 100*time.Millisecond)

	g := config.ProfileFor(config.DefaultLanderConfig(), config.DifficultyEasy).Gravity
	if got := before.State.VY - after.State.VY; math.Abs(got-g*0.1) > 1e-9 {
		t.Errorf("VY dropped by %v, expected %v", got, g*0.1)
	}
	if after.Elapsed != 100*time.Millisecond {
		t.Errorf("Elapsed = %v, expected 100ms", after.Elapsed)
	}
}

func TestTickClampsElapsedTime(t *testing.T) {
	e, clock := newTestEngine(t)
	e.Start()

	f := advance(e, clock, 5*time.Second)
	if f.Elapsed != e.maxStep {
		t.Errorf("Elapsed = %v, expected clamp to %v", f.Elapsed, e.maxStep)
	}
}

func TestPauseTwiceKeepsState(t *testing.T) {
	e, clock := newTestEngine(t)
	e.Start()
	advance(e, clock, 50*time.Millisecond)

	if !e.Pause() {
		t.Fatal("first Pause() = false, expected true")
	}
	paused := e.Frame().State

	if e.Pause() {
		t.Error("second Pause() = true, expected false")
	}
	if e.Mode() != ModePaused {
		t.Errorf("Mode() = %v, expected %v", e.Mode(), ModePaused)
	}

	f := advance(e, clock, 80*time.Millisecond)
	if f.State != paused {
		t.Errorf("State changed while paused:\n got  %v\n want %v", f.State, paused)
	}
}

func TestResumeResetsTickReference(t *testing.T) {
	e, clock := newTestEngine(t)
	e.Start()
	advance(e, clock, 20*time.Millisecond)
	e.Pause()

	clock.Advance(10 * time.Second)
	if !e.Resume() {
		t.Fatal("Resume() = false, expected true")
	}
	f := advance(e, clock, 30*time.Millisecond)
	if f.Elapsed != 50*time.Millisecond {
		t.Errorf("Elapsed = %v, expected 50ms", f.Elapsed)
	}
}

func TestInvalidCommandsAreIgnored(t *testing.T) {
	e, _ := newTestEngine(t)

	if e.Resume() {
		t.Error("Resume() from ready = true, expected false")
	}
	if e.Pause() {
		t.Error("Pause() from ready = true, expected false")
	}
	if e.Stop("") {
		t.Error("Stop() from ready = true, expected false")
	}
	if e.Mode() != ModeReady {
		t.Errorf("Mode() = %v, expected %v", e.Mode(), ModeReady)
	}

	e.Start()
	if e.Start() {
		t.Error("Start() while running = true, expected false")
	}
	if e.NewGame() {
		t.Error("NewGame() while running = true, expected false")
	}
	if e.Mode() != ModeRunning {
		t.Errorf("Mode() = %v, expected %v", e.Mode(), ModeRunning)
	}
}

func TestStopEndsFlight(t *testing.T) {
	var landings []Landing
	e, _ := newTestEngine(t, WithLandingHandler(func(l Landing) {
		landings = append(landings, l)
	}))

	e.Start()
	e.Pause()
	if !e.Stop("") {
		t.Fatal("Stop() = false, expected true")
	}

	st := e.Status()
	if st.Mode != ModeLose || st.Message != MessageStopped {
		t.Errorf("Status() = %v %q, expected lose %q", st.Mode, st.Message, MessageStopped)
	}
	if len(landings) != 1 || landings[0].Outcome != lander.OutcomeLose {
		t.Errorf("landings = %+v, expected one loss", landings)
	}
}

func TestToggle(t *testing.T) {
	e, _ := newTestEngine(t)

	steps := []Mode{ModeRunning, ModePaused, ModeRunning}
	for i, want := range steps {
		if !e.Toggle() {
			t.Fatalf("Toggle() #%d = false", i)
		}
		if got := e.Mode(); got != want {
			t.Errorf("after Toggle() #%d Mode() = %v, expected %v", i, got, want)
		}
	}

	e.Stop("")
	if !e.Toggle() || e.Mode() != ModeRunning {
		t.Errorf("Toggle() after loss should start a new flight, Mode() = %v", e.Mode())
	}
}

func TestSoftLandingWins(t *testing.T) {
	var landings []Landing
	e, clock := newTestEngine(t, WithLandingHandler(func(l Landing) {
		landings = append(landings, l)
	}))

	placeAbovePad(t, e, 0, -5, 0)
	f := advance(e, clock, 100*time.Millisecond)
	e.dispatchLandings()

	if f.Mode != ModeWin {
		t.Fatalf("Mode = %v (%q), expected win", f.Mode, f.Message)
	}
	if f.Message != MessageLanded {
		t.Errorf("Message = %q, expected %q", f.Message, MessageLanded)
	}
	if f.Score <= 0 {
		t.Errorf("Score = %d, expected positive", f.Score)
	}
	if len(landings) != 1 || landings[0].Score != f.Score {
		t.Errorf("landings = %+v, expected one win with score %d", landings, f.Score)
	}
}

func TestHardLandingLoses(t *testing.T) {
	e, clock := newTestEngine(t)

	placeAbovePad(t, e, 0, -60, 0)
	f := advance(e, clock, 100*time.Millisecond)

	if f.Mode != ModeLose {
		t.Fatalf("Mode = %v, expected lose", f.Mode)
	}
	if f.Message != lander.ReasonTooFast {
		t.Errorf("Message = %q, expected %q", f.Message, lander.ReasonTooFast)
	}
}

func TestWinStreak(t *testing.T) {
	e, clock := newTestEngine(t)

	placeAbovePad(t, e, 0, -5, 0)
	advance(e, clock, 100*time.Millisecond)
	e.NewGame()
	placeAbovePad(t, e, 0, -5, 0)
	f := advance(e, clock, 100*time.Millisecond)

	if f.WinStreak != 2 {
		t.Errorf("WinStreak = %d, expected 2", f.WinStreak)
	}
	if f.Message != "Landed! 2 in a row." {
		t.Errorf("Message = %q", f.Message)
	}

	e.NewGame()
	placeAbovePad(t, e, 0, -60, 0)
	f = advance(e, clock, 100*time.Millisecond)
	if f.WinStreak != 0 {
		t.Errorf("WinStreak after loss = %d, expected 0", f.WinStreak)
	}
}

func TestFiringWithoutFuel(t *testing.T) {
	e, clock := newTestEngine(t)

	snap := e.Snapshot()
	snap.Mode = ModePaused
	snap.State.Fuel = 0
	snap.State.VY = 0
	if err := e.Restore(snap); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	e.Resume()
	e.SetControlIntent(true, lander.RotateNone)

	f := advance(e, clock, 100*time.Millisecond)
	if f.Mode != ModeRunning {
		t.Errorf("Mode = %v, expected running", f.Mode)
	}
	want := -f.Profile.Gravity * 0.1
	if math.Abs(f.State.VY-want) > 1e-9 {
		t.Errorf("VY = %v, expected %v", f.State.VY, want)
	}
	if f.State.Firing {
		t.Error("engine should not report firing without fuel")
	}
}

func TestControlIntentIsClampedAndDeferred(t *testing.T) {
	e, clock := newTestEngine(t)

	e.SetControlIntent(true, lander.Rotation(5))
	c := e.Controls()
	if !c.Firing || c.Rotating != lander.RotateRight {
		t.Errorf("Controls() = %+v, expected firing and right", c)
	}

	before := e.Frame().State
	f := advance(e, clock, 100*time.Millisecond)
	if f.State != before {
		t.Error("controls must not move the lander before the flight starts")
	}
}

func TestDifficultyChangeIsDeferredWhileFlying(t *testing.T) {
	e, clock := newTestEngine(t)
	e.Start()

	if err := e.SetDifficulty(config.DifficultyHard); err != nil {
		t.Fatalf("SetDifficulty() failed: %v", err)
	}
	f := e.Frame()
	if f.Difficulty != config.DifficultyMedium || f.Selected != config.DifficultyHard {
		t.Fatalf("Difficulty = %v, Selected = %v, expected medium/hard", f.Difficulty, f.Selected)
	}

	before := f.State.VY
	f = advance(e, clock, 100*time.Millisecond)
	medium := config.ProfileFor(config.DefaultLanderConfig(), config.DifficultyMedium)
	if got := before - f.State.VY; math.Abs(got-medium.Gravity*0.1) > 1e-9 {
		t.Errorf("running flight changed gravity: dVY = %v, expected %v", got, medium.Gravity*0.1)
	}

	e.Stop("")
	e.Start()
	f = e.Frame()
	if f.Difficulty != config.DifficultyHard {
		t.Errorf("next flight Difficulty = %v, expected hard", f.Difficulty)
	}
	if f.Profile.Gravity <= medium.Gravity {
		t.Errorf("next flight gravity = %v, expected harder than %v", f.Profile.Gravity, medium.Gravity)
	}
}

func TestDifficultyChangeInReadyAppliesNow(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.SetDifficulty(config.DifficultyEasy); err != nil {
		t.Fatalf("SetDifficulty() failed: %v", err)
	}
	f := e.Frame()
	if f.Difficulty != config.DifficultyEasy {
		t.Errorf("Difficulty = %v, expected easy", f.Difficulty)
	}
	if f.State.Fuel != f.Profile.Fuel {
		t.Errorf("Fuel = %v, expected easy budget %v", f.State.Fuel, f.Profile.Fuel)
	}

	err := e.SetDifficulty("insane")
	if !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("SetDifficulty(insane) error = %v, expected ErrUnknownDifficulty", err)
	}
}

func TestNumericFaultLoses(t *testing.T) {
	cfg := config.DefaultLanderConfig()
	cfg.Physics.Thrust = math.Inf(1)
	clock := newFakeClock()
	e := New(cfg, WithClock(clock), WithSeedSource(func() int64 { return 1 }))
	defer e.Destroy()

	e.Start()
	e.SetControlIntent(true, lander.RotateNone)
	before := e.Frame().State
	f := advance(e, clock, 50*time.Millisecond)

	if f.Mode != ModeLose || f.Message != lander.ReasonNumericFault {
		t.Fatalf("Mode = %v %q, expected numeric fault loss", f.Mode, f.Message)
	}
	if !f.State.Finite() {
		t.Error("state should keep the last finite values")
	}
	if f.State.Y != before.Y {
		t.Errorf("Y = %v, expected unchanged %v", f.State.Y, before.Y)
	}
}

func TestWakeGuardFollowsRunningMode(t *testing.T) {
	guard := &recordingGuard{}
	e, _ := newTestEngine(t, WithWakeGuard(guard))

	check := func(step string, acquired, released int) {
		t.Helper()
		a, r := guard.counts()
		if a != acquired || r != released {
			t.Errorf("%s: acquired=%d released=%d, expected %d/%d", step, a, r, acquired, released)
		}
	}

	e.Start()
	check("start", 1, 0)
	e.SetControlIntent(true, lander.RotateLeft)
	check("control", 1, 0)
	e.Pause()
	check("pause", 1, 1)
	e.Pause()
	check("pause again", 1, 1)
	e.Resume()
	check("resume", 2, 1)
	e.Stop("")
	check("stop", 2, 2)
}

func TestWakeGuardFailureDoesNotStopFlight(t *testing.T) {
	guard := &recordingGuard{err: errors.New("no wake lock")}
	e, _ := newTestEngine(t, WithWakeGuard(guard))

	if !e.Start() {
		t.Fatal("Start() = false, expected true")
	}
	if e.Mode() != ModeRunning {
		t.Errorf("Mode() = %v, expected running", e.Mode())
	}
}

func TestRunExitsOnCancel(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- e.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestRunExitsOnDestroy(t *testing.T) {
	e, _ := newTestEngine(t)

	errc := make(chan error, 1)
	go func() { errc <- e.Run(context.Background()) }()
	e.Destroy()
	e.Destroy()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() = %v, expected nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Destroy")
	}
}

func TestRunPublishesFrames(t *testing.T) {
	frames := make(chan Frame, 16)
	e := New(config.DefaultLanderConfig(), WithRedraw(func(f Frame) {
		select {
		case frames <- f:
		default:
		}
	}))
	defer e.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx) //nolint:errcheck // Exits on cancel

	e.Start()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-frames:
			if f.Mode == ModeRunning && f.Elapsed > 0 {
				return
			}
		case <-deadline:
			t.Fatal("no running frame published")
		}
	}
}
