// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/idle"
	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/projects"
	"github.com/jeranaias/ergo-tui/internal/session"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// VIEWS
// =============================================================================

// View identifies the screen being shown.
type View int

const (
	ViewRegister View = iota
	ViewLogin
	ViewWorker
	ViewAdmin
)

// String returns the view title.
func (v View) String() string {
	switch v {
	case ViewRegister:
		return "Register"
	case ViewLogin:
		return "Login"
	case ViewWorker:
		return "Worker Dashboard"
	case ViewAdmin:
		return "Admin Dashboard"
	default:
		return "Unknown"
	}
}

// IsDashboard reports whether v requires a signed-in user.
func (v View) IsDashboard() bool {
	return v == ViewWorker || v == ViewAdmin
}

// mode is what the dashboard is doing on top of the list.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeCreate
	modeLocation
	modeDetail
	modeChart
)

// =============================================================================
// MODEL
// =============================================================================

// Options are the collaborators the Model is built from.
type Options struct {
	Config  *config.Config
	Client  *api.Client
	Session *session.Store
	// Journal may be nil; session events are then only logged.
	Journal *journal.Journal
	Theme   *styles.Theme
	// Clock drives the idle monitor. Nil uses a TeaClock whose sender is
	// bound by Run.
	Clock idle.Clock
	// ConfigPath is watched for changes by Run. Empty disables reloading.
	ConfigPath string
}

// Model is the root bubbletea model.
type Model struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Store
	journal *journal.Journal
	theme   *styles.Theme

	// Idle session monitoring. The monitor exists only while a dashboard
	// is shown.
	clock   idle.Clock
	hub     *idle.Hub
	monitor *idle.Monitor
	tickGen int

	// pending collects commands produced by monitor callbacks, which run
	// outside the normal return path of Update.
	pending []tea.Cmd

	ctx    context.Context
	cancel context.CancelFunc

	view   View
	mode   mode
	width  int
	height int

	keys     KeyMap
	help     help.Model
	showHelp bool
	spinner  spinner.Model

	header    *components.Header
	statusBar *components.StatusBar
	toasts    *components.ToastManager
	overlay   components.SessionTimeoutOverlay

	// Auth forms
	register *form
	login    *form

	// Dashboard
	board       *projects.Board
	selected    int
	search      textinput.Model
	searchSeq   int
	pager       paginator.Model
	table       *components.ProjectTable
	chart       *components.StatusChart
	detail      *components.ProjectDetail
	create      *createForm
	picker      components.LocationPicker
	toastTicker bool
}

// New builds the model. The first view is Login when a username is
// remembered in the config and Register otherwise.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewThemeForMode(cfg.UI.Theme)
	}
	store := opts.Session
	if store == nil {
		store = session.NewStore()
	}
	clock := opts.Clock
	if clock == nil {
		clock = idle.NewTeaClock(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = theme.Pager.Render("*")
	pager.InactiveDot = theme.Subtle.Render(".")

	search := textinput.New()
	search.Placeholder = "Search projects by name"
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 40

	m := &Model{
		cfg:       cfg,
		client:    opts.Client,
		session:   store,
		journal:   opts.Journal,
		theme:     theme,
		clock:     clock,
		hub:       idle.NewHub(),
		ctx:       ctx,
		cancel:    cancel,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
		toasts:    components.NewToastManager(),
		overlay:   components.NewSessionTimeoutOverlay(),
		board:     projects.NewBoard(cfg.UI.PageSize),
		search:    search,
		pager:     pager,
		table:     components.NewProjectTable(theme),
		chart:     components.NewStatusChart(theme),
		detail:    components.NewProjectDetail(theme, components.NewMarkdownRenderer(theme, cfg.UI.RenderMarkdown)),
	}

	m.register = newRegisterForm(theme)
	m.login = newLoginForm(theme, cfg.API.Username)
	if cfg.API.Username != "" {
		m.view = ViewLogin
	} else {
		m.view = ViewRegister
	}
	m.refreshChrome()
	return m
}

// Init starts the cursor blink and, when a session is already signed in,
// the matching dashboard.
func (m *Model) Init() tea.Cmd {
	if m.session.LoggedIn() {
		return m.enterDashboard()
	}
	return textinput.Blink
}

// CurrentView returns the screen being shown.
func (m *Model) CurrentView() View {
	return m.view
}

// Hub returns the activity source the monitor listens on.
func (m *Model) Hub() *idle.Hub {
	return m.hub
}

// Monitor returns the live idle monitor, or nil when no dashboard is shown.
func (m *Model) Monitor() *idle.Monitor {
	return m.monitor
}

// Overlay returns the session timeout overlay.
func (m *Model) Overlay() components.SessionTimeoutOverlay {
	return m.overlay
}

// Board returns the dashboard's project list.
func (m *Model) Board() *projects.Board {
	return m.board
}

// Close stops the monitor and cancels in-flight requests.
func (m *Model) Close() {
	m.unmountMonitor()
	m.cancel()
}

// drain returns and clears the commands queued by monitor callbacks.
func (m *Model) drain() []tea.Cmd {
	cmds := m.pending
	m.pending = nil
	return cmds
}

// queue adds cmd to be returned from the current or next Update.
func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}
