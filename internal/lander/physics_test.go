package lander

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-lander/internal/config"
)

const eps = 1e-9

func testProfile(d config.Difficulty) config.Profile {
	return config.ProfileFor(config.DefaultLanderConfig(), d)
}

// flatSite returns a level surface at height 0 with a pad at [padX, padX+padW].
func flatSite(p config.Profile, padX, padW float64) *Site {
	return &Site{
		Width:    p.WorldWidth,
		Step:     p.WorldWidth / float64(p.Segments),
		Heights:  make([]float64, p.Segments+1),
		PadX:     padX,
		PadWidth: padW,
	}
}

func TestGravityIsMonotonic(t *testing.T) {
	p := testProfile(config.DifficultyEasy)
	site := flatSite(p, 0, 40)

	for _, dt := range []float64{0.001, 0.016, 0.05, 0.1, 0.25} {
		s := State{X: 200, Y: 250, Fuel: p.Fuel}
		next, res := Step(s, Controls{}, dt, p, site)

		if res.Outcome != OutcomeContinue {
			t.Fatalf("dt=%v: unexpected outcome %v", dt, res.Outcome)
		}
		if math.Abs(next.VY-(-p.Gravity*dt)) > eps {
			t.Errorf("dt=%v: VY = %v, expected %v", dt, next.VY, -p.Gravity*dt)
		}
		if next.Y >= s.Y {
			t.Errorf("dt=%v: lander should fall, Y %v -> %v", dt, s.Y, next.Y)
		}

		// Downward speed keeps growing over consecutive steps
		prev := next
		for i := 0; i < 5; i++ {
			cur, _ := Step(prev, Controls{}, dt, p, nil)
			if cur.VY >= prev.VY {
				t.Errorf("dt=%v step %d: VY not decreasing (%v -> %v)", dt, i, prev.VY, cur.VY)
			}
			prev = cur
		}
	}
}

func TestGravityScalesWithDifficulty(t *testing.T) {
	s := State{X: 200, Y: 250}
	easy, _ := Step(s, Controls{}, 0.1, testProfile(config.DifficultyEasy), nil)
	hard, _ := Step(s, Controls{}, 0.1, testProfile(config.DifficultyHard), nil)
	if hard.VY >= easy.VY {
		t.Errorf("hard gravity should pull harder: easy VY=%v, hard VY=%v", easy.VY, hard.VY)
	}
}

func TestFiringWithoutFuelHasNoEffect(t *testing.T) {
	p := testProfile(config.DifficultyMedium)
	s := State{X: 200, Y: 250, VX: 3, VY: -5, Fuel: 0}

	idle, _ := Step(s, Controls{}, 0.1, p, nil)
	fired, res := Step(s, Controls{Firing: true}, 0.1, p, nil)

	if fired.VX != idle.VX || fired.VY != idle.VY {
		t.Errorf("firing dry changed velocity: idle=(%v,%v) fired=(%v,%v)", idle.VX, idle.VY, fired.VX, fired.VY)
	}
	if fired.Firing {
		t.Error("Firing flag should stay false without fuel")
	}
	if res.Outcome != OutcomeContinue {
		t.Errorf("outcome = %v, expected continue", res.Outcome)
	}
}

func TestThrustBurnsFuel(t *testing.T) {
	p := testProfile(config.DifficultyMedium)
	s := State{X: 200, Y: 250, Fuel: 60}

	next, _ := Step(s, Controls{Firing: true}, 0.1, p, nil)

	if math.Abs(next.Fuel-(60-p.BurnRate*0.1)) > eps {
		t.Errorf("Fuel = %v, expected %v", next.Fuel, 60-p.BurnRate*0.1)
	}
	wantVY := -p.Gravity*0.1 + p.Thrust*0.1
	if math.Abs(next.VY-wantVY) > eps {
		t.Errorf("VY = %v, expected %v", next.VY, wantVY)
	}
	if math.Abs(next.VX) > eps {
		t.Errorf("upright thrust should not move sideways, VX = %v", next.VX)
	}
	if !next.Firing {
		t.Error("Firing flag should be set while burning")
	}
}

func TestPartialBurnWhenFuelRunsOut(t *testing.T) {
	p := testProfile(config.DifficultyMedium)
	fuel := p.BurnRate * 0.05 // Enough for half of a 0.1s step
	s := State{X: 200, Y: 250, Fuel: fuel}

	next, _ := Step(s, Controls{Firing: true}, 0.1, p, nil)

	if next.Fuel != 0 {
		t.Errorf("Fuel = %v, expected 0", next.Fuel)
	}
	wantVY := -p.Gravity*0.1 + p.Thrust*0.05
	if math.Abs(next.VY-wantVY) > eps {
		t.Errorf("VY = %v, expected %v", next.VY, wantVY)
	}
}

func TestTiltedThrustPushesSideways(t *testing.T) {
	p := testProfile(config.DifficultyMedium)
	s := State{X: 200, Y: 250, Heading: 90, Fuel: 60}

	next, _ := Step(s, Controls{Firing: true}, 0.1, p, nil)
	if next.VX <= 0 {
		t.Errorf("thrust tilted right should push right, VX = %v", next.VX)
	}
}

func TestRotation(t *testing.T) {
	p := testProfile(config.DifficultyMedium)

	tests := []struct {
		name     string
		heading  float64
		rotating Rotation
		dt       float64
		expected float64
	}{
		{"right", 0, RotateRight, 0.1, p.SlewRate * 0.1},
		{"left", 0, RotateLeft, 0.1, -p.SlewRate * 0.1},
		{"none", 10, RotateNone, 0.1, 10},
		{"wraps past -180", -179, RotateLeft, 0.1, 181 - p.SlewRate*0.1},
		{"rate is capped", 0, Rotation(7), 0.1, p.SlewRate * 0.1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := State{X: 200, Y: 250, Heading: tc.heading}
			next, _ := Step(s, Controls{Rotating: tc.rotating}, tc.dt, p, nil)
			if math.Abs(next.Heading-tc.expected) > 1e-6 {
				t.Errorf("Heading = %v, expected %v", next.Heading, tc.expected)
			}
			if next.Heading <= -180 || next.Heading > 180 {
				t.Errorf("Heading %v out of (-180, 180]", next.Heading)
			}
		})
	}
}

func TestTouchdown(t *testing.T) {
	p := testProfile(config.DifficultyEasy)
	padX, padW := 100.0, 60.0
	site := flatSite(p, padX, padW)
	onPad := padX + padW/2
	groundY := p.LanderHeight / 2

	tests := []struct {
		name     string
		state    State
		expected Outcome
		reason   string
	}{
		{"soft landing", State{X: onPad, Y: groundY, VY: -10}, OutcomeWin, ""},
		{"too fast", State{X: onPad, Y: groundY, VY: -(p.MaxLandingVY + 10)}, OutcomeLose, ReasonTooFast},
		{"drifting", State{X: onPad, Y: groundY, VY: -5, VX: p.MaxLandingVX + 5}, OutcomeLose, ReasonDrifting},
		{"bad angle", State{X: onPad, Y: groundY, VY: -5, Heading: p.MaxLandingAngle + 10}, OutcomeLose, ReasonBadAngle},
		{"upside down", State{X: onPad, Y: groundY, VY: -5, Heading: 179}, OutcomeLose, ReasonUpsideDown},
		{"off pad", State{X: 300, Y: groundY, VY: -5}, OutcomeLose, ReasonOffPad},
		{"overhanging pad edge", State{X: padX + 2, Y: groundY, VY: -5}, OutcomeLose, ReasonOffPad},
		{"still airborne", State{X: onPad, Y: 100, VY: -50}, OutcomeContinue, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, res := Step(tc.state, Controls{}, 0.001, p, site)
			if res.Outcome != tc.expected {
				t.Fatalf("Outcome = %v, expected %v (reason %q)", res.Outcome, tc.expected, res.Reason)
			}
			if res.Reason != tc.reason {
				t.Errorf("Reason = %q, expected %q", res.Reason, tc.reason)
			}
			if tc.expected != OutcomeContinue && next.Y != groundY {
				t.Errorf("lander should rest on the ground: Y = %v, expected %v", next.Y, groundY)
			}
		})
	}
}

func TestTouchdownOnRidgeUnderEdge(t *testing.T) {
	p := testProfile(config.DifficultyHard)
	site := flatSite(p, 100, 40)
	halfW, halfH := p.LanderWidth/2, p.LanderHeight/2

	// Valley under the center, ridge sample under the right edge
	x := 30 * site.Step
	ridge := 40.0
	site.Heights[int(math.Round((x+halfW)/site.Step))] = ridge
	if site.HeightAt(x) != 0 {
		t.Fatalf("HeightAt(center) = %v, expected 0", site.HeightAt(x))
	}

	next, res := Step(State{X: x, Y: halfH + 5, VY: -1}, Controls{}, 0.001, p, site)
	if res.Outcome != OutcomeLose || res.Reason != ReasonOffPad {
		t.Errorf("Step() into a ridge = %+v, expected off-pad loss", res)
	}
	if math.Abs(next.Y-(ridge+halfH)) > eps {
		t.Errorf("lander should rest on the ridge: Y = %v, expected %v", next.Y, ridge+halfH)
	}

	_, res = Step(State{X: x, Y: ridge + halfH + 5, VY: -1}, Controls{}, 0.001, p, site)
	if res.Outcome != OutcomeContinue {
		t.Errorf("Step() above the ridge = %+v, expected continue", res)
	}
	if got := Altitude(State{X: x, Y: ridge + halfH + 5}, p, site); math.Abs(got-5) > eps {
		t.Errorf("Altitude() = %v, expected 5 above the ridge", got)
	}
}

func TestNumericFault(t *testing.T) {
	p := testProfile(config.DifficultyMedium)

	_, res := Step(State{X: math.NaN(), Y: 100}, Controls{}, 0.1, p, nil)
	if res.Outcome != OutcomeLose || res.Reason != ReasonNumericFault {
		t.Errorf("NaN position: got %+v, expected numeric fault", res)
	}

	_, res = Step(State{X: 100, Y: 100}, Controls{}, math.Inf(1), p, nil)
	if res.Outcome != OutcomeLose || res.Reason != ReasonNumericFault {
		t.Errorf("infinite dt: got %+v, expected numeric fault", res)
	}
}

func TestNonPositiveStepIsNoop(t *testing.T) {
	p := testProfile(config.DifficultyMedium)
	s := State{X: 100, Y: 100, VY: -3, Fuel: 10}
	for _, dt := range []float64{0, -0.5} {
		next, res := Step(s, Controls{Firing: true, Rotating: RotateRight}, dt, p, nil)
		if next != s || res.Outcome != OutcomeContinue {
			t.Errorf("dt=%v should not change state: got %+v %+v", dt, next, res)
		}
	}
}

func TestStepDeterminism(t *testing.T) {
	p := testProfile(config.DifficultyHard)
	seed := int64(12345)

	run := func() (State, Result, int) {
		s, site := NewFlight(seed, p)
		var res Result
		i := 0
		for ; i < 2000 && res.Outcome == OutcomeContinue; i++ {
			c := Controls{Firing: i%7 < 3}
			if i%40 < 5 {
				c.Rotating = RotateLeft
			} else if i%40 < 10 {
				c.Rotating = RotateRight
			}
			s, res = Step(s, c, 1.0/60, p, site)
		}
		return s, res, i
	}

	s1, r1, n1 := run()
	s2, r2, n2 := run()
	if s1 != s2 || r1 != r2 || n1 != n2 {
		t.Errorf("Determinism failed:\n run1=%v %+v ticks=%d\n run2=%v %+v ticks=%d", s1, r1, n1, s2, r2, n2)
	}
}

func TestLandingScore(t *testing.T) {
	s := State{VY: -5, Fuel: 20}
	easy := LandingScore(s, testProfile(config.DifficultyEasy))
	hard := LandingScore(s, testProfile(config.DifficultyHard))
	if easy <= 0 {
		t.Errorf("easy score = %d, expected positive", easy)
	}
	if hard <= easy {
		t.Errorf("hard landing should score higher: easy=%d hard=%d", easy, hard)
	}
}

func TestControlsFromTilt(t *testing.T) {
	tests := []struct {
		ax, ay   float64
		expected Controls
	}{
		{0, 0, Controls{}},
		{-3, 0, Controls{Rotating: RotateLeft}},
		{3, 1, Controls{Firing: true, Rotating: RotateRight}},
		{1.5, -1, Controls{}}, // inside deadzone
	}

	for _, tc := range tests {
		got := ControlsFromTilt(tc.ax, tc.ay, 2)
		if got != tc.expected {
			t.Errorf("ControlsFromTilt(%v, %v) = %+v, expected %+v", tc.ax, tc.ay, got, tc.expected)
		}
	}
}
