package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/session"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

type appScreen int

const (
	screenMenu appScreen = iota
	screenFlight
	screenScores
)

// AppModel manages the full session flow: menu -> flight -> menu, with the
// score board reachable from the menu. It is used by both the local menu
// command and SSH sessions.
type AppModel struct {
	store    *storage.Store
	lcfg     config.LanderConfig
	config   core.RuntimeConfig
	sess     *session.Session
	logger   *log.Logger
	screen   appScreen
	menu     MenuModel
	flight   Model
	board    ScoreboardModel
	quitting bool
}

// NewAppModel creates the app model for a started session.
// store may be nil.
func NewAppModel(sess *session.Session, store *storage.Store, lcfg config.LanderConfig, cfg core.RuntimeConfig, logger *log.Logger) AppModel {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	return AppModel{
		store:  store,
		lcfg:   lcfg,
		config: cfg,
		sess:   sess,
		logger: logger,
		menu:   NewMenuModel(store, lcfg, cfg, sess.Engine().Frame().Difficulty),
	}
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenFlight:
		return m.updateFlight(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Frames published while the menu is shown are dropped by the session
	if _, ok := msg.(FrameMsg); ok {
		return m, nil
	}

	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.screen = screenScores
		m.board = NewScoreboardModel(m.store, m.sess.Engine().Frame().Selected, m.config.ScreenW, m.config.ScreenH)
		return m, m.board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.prepareFlight(selected.Difficulty)
		m.flight = NewModel(m.sess, m.config, m.logger)
		m.flight.embedded = true
		m.screen = screenFlight
		return m, m.flight.Init()
	}

	return m, cmd
}

// prepareFlight gets the engine ready to fly with d.
// A paused flight with the same difficulty is kept so it can be resumed.
func (m *AppModel) prepareFlight(d config.Difficulty) {
	eng := m.sess.Engine()
	f := eng.Frame()
	if f.Mode == engine.ModePaused && f.Difficulty == d {
		return
	}
	if err := eng.SetDifficulty(d); err != nil {
		m.logger.Warn("cannot select difficulty", "difficulty", d, "err", err)
		return
	}
	if eng.Mode() != engine.ModeReady {
		eng.NewGame()
	}
}

func (m AppModel) updateFlight(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.flight.Update(msg)
	if flight, ok := newModel.(Model); ok {
		m.flight = flight
	}

	if m.flight.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.flight.BackToMenu() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.store, m.lcfg, m.config, m.flight.Frame().Selected)
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); ok {
		return m, nil
	}

	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.board.IsGoingBack() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.store, m.lcfg, m.config, m.sess.Engine().Frame().Selected)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenFlight:
		return m.flight.View()
	case screenScores:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// IsQuitting returns true if the user asked to quit.
func (m AppModel) IsQuitting() bool {
	return m.quitting
}

// RunApp runs the menu-driven flow for the session in the local terminal.
func RunApp(sess *session.Session, store *storage.Store, lcfg config.LanderConfig, cfg core.RuntimeConfig, logger *log.Logger) error {
	p := tea.NewProgram(
		NewAppModel(sess, store, lcfg, cfg, logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
