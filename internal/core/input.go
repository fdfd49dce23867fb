package core

import "github.com/vovakirdan/tui-lander/internal/lander"

// Action is a semantic control, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionToggle             // Space, Enter - start, pause or resume
	ActionThrust             // Up, W - toggle the engine
	ActionRotateLeft         // Left, A - toggle left rotation
	ActionRotateRight        // Right, D - toggle right rotation
	ActionStop               // X - abandon the flight
	ActionNewGame            // N - prepare a new flight
	ActionEasy               // 1
	ActionMedium             // 2
	ActionHard               // 3
	ActionBack               // Esc - back to menu
	ActionQuit               // Q, Ctrl+C - suspend and exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionToggle:
		return "Toggle"
	case ActionThrust:
		return "Thrust"
	case ActionRotateLeft:
		return "RotateLeft"
	case ActionRotateRight:
		return "RotateRight"
	case ActionStop:
		return "Stop"
	case ActionNewGame:
		return "NewGame"
	case ActionEasy:
		return "Easy"
	case ActionMedium:
		return "Medium"
	case ActionHard:
		return "Hard"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ToggleControls applies a control action the way the lander's buttons
// latch: pressing thrust flips the engine; a rotation key starts that
// rotation, or stops whatever rotation is active. It reports whether a is
// a control action.
func ToggleControls(c lander.Controls, a Action) (lander.Controls, bool) {
	switch a {
	case ActionThrust:
		c.Firing = !c.Firing
	case ActionRotateLeft:
		c.Rotating = toggleRotation(c.Rotating, lander.RotateLeft)
	case ActionRotateRight:
		c.Rotating = toggleRotation(c.Rotating, lander.RotateRight)
	default:
		return c, false
	}
	return c, true
}

func toggleRotation(cur, dir lander.Rotation) lander.Rotation {
	if cur != lander.RotateNone {
		return lander.RotateNone
	}
	return dir
}
