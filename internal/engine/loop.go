package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-lander/internal/lander"
)

// Run drives the simulation until ctx is cancelled or Destroy is called.
// While running it advances physics once per frame interval; otherwise it
// sleeps until a command wakes it or the idle interval passes.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug("simulation loop started")
	defer e.logger.Debug("simulation loop stopped")

	timer := time.NewTimer(e.idleInterval)
	defer timer.Stop()

	for {
		frame, changed, running := e.tick()
		if changed && e.redraw != nil {
			e.redraw(frame)
		}
		if changed && !running {
			// The flight may have just ended
			e.latch.sync(func() bool { return e.Mode() == ModeRunning })
			e.dispatchLandings()
		}

		wait := e.idleInterval
		wake := e.wake
		if running {
			wait = e.frameInterval
			wake = nil
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			e.latch.release()
			return ctx.Err()
		case <-e.done:
			return nil
		case <-wake:
		case <-timer.C:
		}
	}
}

// tick advances a running flight by the clamped time since the previous
// tick. It reports the frame to draw, whether anything visible changed and
// whether the engine is still running.
func (e *Engine) tick() (Frame, bool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeRunning {
		now := e.clock.Now()
		dt := now.Sub(e.lastTick)
		e.lastTick = now
		if dt > e.maxStep {
			dt = e.maxStep
		}
		if dt > 0 {
			e.stepLocked(dt)
		}
	}

	if e.version == e.drawn {
		return Frame{}, false, e.mode == ModeRunning
	}
	e.drawn = e.version
	return e.frameLocked(), true, e.mode == ModeRunning
}

// stepLocked runs one physics step. A panic inside the step ends the
// flight instead of the loop.
func (e *Engine) stepLocked(dt time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("simulation step panicked", "panic", r, "state", e.state)
			e.finishLocked(lander.Result{
				Outcome: lander.OutcomeLose,
				Reason:  fmt.Sprintf("Simulation fault: %v", r),
			})
		}
	}()

	next, res := lander.Step(e.state, e.controls, dt.Seconds(), e.profile, e.site)
	if res.Reason == lander.ReasonNumericFault {
		e.logger.Warn("numeric fault", "state", next, "dt", dt)
	} else {
		e.state = next
	}
	e.elapsed += dt
	e.version++

	if res.Outcome != lander.OutcomeContinue {
		e.finishLocked(res)
	}
}
