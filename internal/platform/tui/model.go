package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/session"
)

// Model is the Bubble Tea model for one flight session.
// It forwards keys to the engine and draws the frames the engine publishes;
// it never advances the simulation itself.
type Model struct {
	sess      *session.Session
	screen    *core.Screen
	config    core.RuntimeConfig
	keys      FlightKeyMap
	help      help.Model
	frame     engine.Frame
	telemetry *Telemetry
	logger    *log.Logger
	quitting  bool
	back      bool
	embedded  bool // Hosted inside AppModel; back returns to the menu
}

// NewModel creates a model for the session.
func NewModel(sess *session.Session, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		sess:      sess,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keys:      DefaultFlightKeyMap(),
		help:      h,
		frame:     sess.Engine().Frame(),
		telemetry: NewTelemetry(100 * time.Millisecond),
		logger:    logger,
	}
	m.telemetry.Observe(m.frame)
	return m
}

// Init starts listening for engine frames.
func (m Model) Init() tea.Cmd {
	return waitForFrame(m.sess)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		m.frame = engine.Frame(msg)
		m.telemetry.Observe(m.frame)
		return m, waitForFrame(m.sess)

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey maps a key to an engine command.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	eng := m.sess.Engine()

	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		// Leaving the flight screen must not leave the lander falling
		eng.Pause()
		m.back = true
		if !m.embedded {
			return m, tea.Quit
		}
		return m, nil
	case core.ActionToggle:
		eng.Toggle()
	case core.ActionStop:
		eng.Stop("")
	case core.ActionNewGame:
		if eng.Mode() == engine.ModeRunning {
			eng.Stop("")
		}
		eng.NewGame()
	case core.ActionEasy, core.ActionMedium, core.ActionHard:
		if err := eng.SetDifficulty(actionDifficulty(action)); err != nil {
			m.logger.Warn("cannot change difficulty", "err", err)
		}
	default:
		// Control buttons only work in flight
		if eng.Mode() != engine.ModeRunning {
			break
		}
		if c, ok := core.ToggleControls(eng.Controls(), action); ok {
			eng.SetControlIntent(c.Firing, c.Rotating)
		}
	}

	// Commands take effect immediately; show them without waiting a frame
	m.frame = eng.Frame()
	return m, nil
}

func actionDifficulty(a core.Action) config.Difficulty {
	switch a {
	case core.ActionEasy:
		return config.DifficultyEasy
	case core.ActionHard:
		return config.DifficultyHard
	default:
		return config.DifficultyMedium
	}
}

// saveScreenshot saves the current scene as plain text.
func (m *Model) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".lander", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	m.draw()
	filename := fmt.Sprintf("%s_%s.txt", m.frame.Difficulty, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, flight continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// sceneSize returns the size of the scene box for the current terminal.
func (m Model) sceneSize() (int, int, bool) {
	w, h := m.config.ScreenW, m.config.ScreenH-1 // Help line
	withHUD := w >= minWidthForHUD
	if withHUD {
		w -= hudWidth
	} else {
		h-- // Status line
	}
	return max(0, w), max(0, h), withHUD
}

func (m *Model) draw() {
	w, h, _ := m.sceneSize()
	m.screen.Resize(w, h)
	m.screen.Clear()
	DrawScene(m.screen, m.screen.Bounds(), m.frame)
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw()
	scene := RenderScreen(m.screen)

	_, h, withHUD := m.sceneSize()
	if withHUD {
		scene = lipgloss.JoinHorizontal(lipgloss.Top, scene, RenderHUD(m.frame, m.telemetry, h))
	} else {
		scene += "\n" + RenderStatusLine(m.frame)
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return scene + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Frame returns the last frame the model has seen.
func (m Model) Frame() engine.Frame {
	return m.frame
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run starts a Bubble Tea program for the session and blocks until the
// user quits. Suspending the flight is left to the caller.
func Run(sess *session.Session, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(sess, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
