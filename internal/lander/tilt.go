package lander

// ControlsFromTilt maps a display-normalized tilt reading to controls.
// ax tilts sideways (negative is left), ay tilts forward; readings within
// deadzone of level do not rotate. Hosts must correct for device orientation
// before calling.
func ControlsFromTilt(ax, ay, deadzone float64) Controls {
	c := Controls{Firing: ay > 0}
	switch {
	case ax < -deadzone:
		c.Rotating = RotateLeft
	case ax > deadzone:
		c.Rotating = RotateRight
	}
	return c
}
