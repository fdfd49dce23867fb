// Package tui provides the Bubble Tea host for the lander engine.
// It maps keys to engine commands, draws published frames and runs the
// menu, score board and SSH server around a flight.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/session"
)

// FrameMsg carries a frame published by the engine loop.
type FrameMsg engine.Frame

// sessionClosedMsg is sent once the session's engine has been destroyed.
type sessionClosedMsg struct{}

// waitForFrame returns a command that blocks until the session publishes
// its next frame.
func waitForFrame(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-s.Frames():
			return FrameMsg(f)
		case <-s.Done():
			return sessionClosedMsg{}
		}
	}
}
