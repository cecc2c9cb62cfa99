// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/api/apitest"
	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/idle"
	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/session"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
)

// =============================================================================
// HELPERS
// =============================================================================

type harness struct {
	m       *Model
	clock   *idle.VirtualClock
	backend *apitest.Backend
	client  *api.Client
	journal *journal.Journal
	cfg     *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend, server := apitest.NewServer()
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL + "/api")
	require.NoError(t, err)
	client.WithRetries(0, 0)

	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	cfg := config.Default()
	cfg.Session.IdleTimeoutSecs = 60
	cfg.Session.WarningLeadSecs = 10
	cfg.Export.Dir = t.TempDir()

	clock := idle.NewVirtualClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	m := New(Options{
		Config:  cfg,
		Client:  client,
		Session: session.NewStore(),
		Journal: j,
		Clock:   clock,
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &harness{m: m, clock: clock, backend: backend, client: client, journal: j, cfg: cfg}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func componentsPicked(lat, lon float64) tea.Msg {
	return components.LocationPickedMsg{Location: model.Location{Lat: lat, Lon: lon}}
}

// login signs in through the login command and loads the project list.
func (h *harness) login(t *testing.T, username, password string) {
	t.Helper()
	h.m.Update(h.m.loginCmd(model.Credentials{Username: username, Password: password})())
	require.True(t, h.m.CurrentView().IsDashboard(), "login should open a dashboard")

	ps, err := h.client.Projects(context.Background())
	h.m.Update(projectsLoadedMsg{session: h.m.sessionID(), projects: ps, err: err})
}

// journalTypes returns the recorded entry types, oldest first.
func (h *harness) journalTypes(t *testing.T) []journal.Type {
	t.Helper()
	entries, err := h.journal.Recent(context.Background(), 100)
	require.NoError(t, err)
	types := make([]journal.Type, len(entries))
	for i, e := range entries {
		types[len(entries)-1-i] = e.Type
	}
	return types
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestNew_InitialView(t *testing.T) {
	m := New(Options{Clock: idle.NewVirtualClock(time.Now())})
	assert.Equal(t, ViewRegister, m.CurrentView())

	cfg := config.Default()
	cfg.API.Username = "wendy"
	m = New(Options{Config: cfg, Clock: idle.NewVirtualClock(time.Now())})
	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.Equal(t, "wendy", m.login.value("username"))
	assert.Nil(t, m.Monitor(), "no monitor outside the dashboards")
}

func TestSwitchBetweenRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ViewRegister, h.m.CurrentView())

	h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, ViewLogin, h.m.CurrentView())
	h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, ViewRegister, h.m.CurrentView())
}

// =============================================================================
// REGISTER AND LOGIN
// =============================================================================

func TestRegister_ClientValidation(t *testing.T) {
	h := newHarness(t)
	f := h.m.register
	f.set("username", "ab")
	f.set("email", "not-an-email")
	f.set("password", "123")
	f.focusOn(2)

	_, cmd := h.m.Update(keyPress("enter"))
	assert.Nil(t, cmd, "invalid input must not reach the backend")
	assert.Equal(t, "Username must be at least 3 characters", f.fieldErr("username"))
	assert.Equal(t, "Invalid email", f.fieldErr("email"))
	assert.Equal(t, "Password must be at least 6 characters", f.fieldErr("password"))
	assert.Equal(t, 0, h.backend.Requests())
}

func TestRegister_BackendErrorsThenSuccess(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)

	reg := model.Registration{Username: "wendy", Email: "w@example.com", Password: "s3cretpass"}
	h.m.Update(h.m.registerCmd(reg)())
	assert.Equal(t, ViewRegister, h.m.CurrentView())
	assert.Contains(t, h.m.register.fieldErr("username"), "already exists")

	reg.Username = "walter"
	h.m.Update(h.m.registerCmd(reg)())
	assert.Equal(t, ViewLogin, h.m.CurrentView(), "registration navigates to the login view")
	assert.Equal(t, "walter", h.m.login.value("username"))
	assert.False(t, h.m.session.LoggedIn(), "registering does not log in")
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)

	h.m.Update(h.m.loginCmd(model.Credentials{Username: "wendy", Password: "wrong"})())
	assert.Equal(t, ViewLogin, h.m.CurrentView())
	assert.Equal(t, "No active account found with the given credentials", h.m.login.err)
	assert.Nil(t, h.m.Monitor())
}

func TestLogin_WorkerDashboard(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.backend.AddProject("wendy", model.Project{Name: "Bridge survey", Description: "north bank"})

	h.login(t, "wendy", "s3cretpass")
	assert.Equal(t, ViewWorker, h.m.CurrentView())
	require.NotNil(t, h.m.Monitor())
	assert.Equal(t, idle.StateWatching, h.m.Monitor().State())
	assert.Equal(t, 60*time.Second, h.m.Monitor().Timeout())
	assert.Len(t, h.m.Board().Projects(), 1)
	assert.NotEmpty(t, h.client.Token())
	assert.Equal(t, []journal.Type{journal.TypeLogin}, h.journalTypes(t))
	assert.Contains(t, h.m.View(), "Bridge survey")
}

func TestLogin_AdminDashboard(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("ada", "s3cretpass", model.RoleAdmin)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.backend.AddProject("wendy", model.Project{Name: "Bridge survey", Description: "north bank"})

	h.login(t, "ada", "s3cretpass")
	assert.Equal(t, ViewAdmin, h.m.CurrentView())
	assert.True(t, h.m.table.ShowWorker)
	assert.Len(t, h.m.Board().Projects(), 1)

	h.m.Update(keyPress("n"))
	assert.Equal(t, modeList, h.m.mode, "admins do not create projects")
}

// =============================================================================
// IDLE SESSION
// =============================================================================

func TestIdle_WarningThenActivityExtends(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.login(t, "wendy", "s3cretpass")

	h.clock.Advance(49 * time.Second)
	assert.False(t, h.m.Overlay().IsVisible())

	h.clock.Advance(time.Second)
	require.True(t, h.m.Overlay().IsWarning())
	assert.Equal(t, idle.StateWarned, h.m.Monitor().State())
	assert.Equal(t, 10*time.Second, h.m.Overlay().TimeRemaining())
	assert.Contains(t, h.m.View(), "Are you still there?")

	// The key that dismisses the warning is not passed on.
	h.m.Update(keyPress("n"))
	assert.False(t, h.m.Overlay().IsVisible())
	assert.Equal(t, modeList, h.m.mode)
	assert.Equal(t, idle.StateWatching, h.m.Monitor().State())
	assert.Equal(t, 60*time.Second, h.m.Monitor().Remaining())

	// A fresh period: nothing fires at the old deadline.
	h.clock.Advance(10 * time.Second)
	assert.Equal(t, ViewWorker, h.m.CurrentView())

	assert.Equal(t, []journal.Type{
		journal.TypeLogin, journal.TypeIdleWarning, journal.TypeSessionExtended,
	}, h.journalTypes(t))
}

func TestIdle_LogoutReturnsToLogin(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.login(t, "wendy", "s3cretpass")

	h.clock.Advance(60 * time.Second)
	assert.Equal(t, ViewLogin, h.m.CurrentView())
	assert.Nil(t, h.m.Monitor())
	assert.False(t, h.m.session.LoggedIn())
	assert.Empty(t, h.client.Token())
	assert.Equal(t, 0, h.clock.Pending(), "no timers survive the logout")
	assert.Equal(t, 0, h.m.Hub().Subscribers(idle.EventKeyDown))
	assert.True(t, h.m.Overlay().IsExpired())
	assert.Contains(t, h.m.View(), "Session Expired")
	assert.Equal(t, "wendy", h.m.login.value("username"))

	assert.Equal(t, []journal.Type{
		journal.TypeLogin, journal.TypeIdleWarning, journal.TypeIdleLogout,
	}, h.journalTypes(t))

	h.m.Update(keyPress("x"))
	assert.False(t, h.m.Overlay().IsVisible())
	assert.Equal(t, ViewLogin, h.m.CurrentView())
	assert.Empty(t, h.m.login.value("password"), "the dismissing key is not typed into the form")
}

func TestIdle_MouseActivityResets(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.login(t, "wendy", "s3cretpass")

	h.clock.Advance(45 * time.Second)
	h.m.Update(tea.MouseMsg{Type: tea.MouseWheelDown})
	h.clock.Advance(45 * time.Second)
	assert.Equal(t, ViewWorker, h.m.CurrentView())
	assert.False(t, h.m.Overlay().IsVisible())
}

func TestLogout_TearsDownMonitor(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.login(t, "wendy", "s3cretpass")
	mon := h.m.Monitor()

	h.m.Update(keyPress("L"))
	assert.Equal(t, ViewLogin, h.m.CurrentView())
	assert.Nil(t, h.m.Monitor())
	assert.Equal(t, idle.StateDestroyed, mon.State())
	assert.Equal(t, 0, h.clock.Pending())

	h.clock.Advance(time.Hour)
	assert.False(t, h.m.Overlay().IsVisible(), "no idle callback after logout")
	assert.Equal(t, []journal.Type{journal.TypeLogin, journal.TypeLogout}, h.journalTypes(t))
}

func TestIdle_TeaClockDeliversThroughUpdate(t *testing.T) {
	backend, server := apitest.NewServer()
	defer server.Close()
	backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	client, err := api.NewClient(server.URL + "/api")
	require.NoError(t, err)

	msgs := make(chan tea.Msg, 8)
	clock := idle.NewTeaClock(func(msg tea.Msg) { msgs <- msg })

	cfg := config.Default()
	cfg.Session.IdleTimeoutSecs = 0 // expire at once
	cfg.Session.WarningLeadSecs = 0
	m := New(Options{Config: cfg, Client: client, Clock: clock})
	defer m.Close()

	m.Update(m.loginCmd(model.Credentials{Username: "wendy", Password: "s3cretpass"})())
	require.Equal(t, ViewWorker, m.CurrentView())

	var timer idle.TimerMsg
	select {
	case msg := <-msgs:
		var ok bool
		timer, ok = msg.(idle.TimerMsg)
		require.True(t, ok, "expected a TimerMsg, got %T", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("timer message not sent")
	}

	// Nothing happens until the message passes through Update.
	assert.Equal(t, ViewWorker, m.CurrentView())
	m.Update(timer)
	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.True(t, m.Overlay().IsExpired())
}

func TestIdle_LateWarningStillExtends(t *testing.T) {
	backend, server := apitest.NewServer()
	defer server.Close()
	backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	client, err := api.NewClient(server.URL + "/api")
	require.NoError(t, err)

	msgs := make(chan tea.Msg, 8)
	clock := idle.NewTeaClock(func(msg tea.Msg) { msgs <- msg })

	cfg := config.Default()
	cfg.Session.IdleTimeoutSecs = 1
	cfg.Session.WarningLeadSecs = 1 // warn at once, log out after a second
	m := New(Options{Config: cfg, Client: client, Clock: clock})
	defer m.Close()

	m.Update(m.loginCmd(model.Credentials{Username: "wendy", Password: "s3cretpass"})())
	require.Equal(t, ViewWorker, m.CurrentView())

	var warning idle.TimerMsg
	select {
	case msg := <-msgs:
		var ok bool
		warning, ok = msg.(idle.TimerMsg)
		require.True(t, ok, "expected a TimerMsg, got %T", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("warning timer not sent")
	}

	// The warning is handled only after the idle deadline has passed.
	time.Sleep(1100 * time.Millisecond)
	m.Update(warning)
	require.Equal(t, idle.StateWarned, m.Monitor().State())
	assert.True(t, m.Overlay().IsWarning(), "a late warning is still a warning")
	assert.False(t, m.Overlay().IsExpired())
	assert.Equal(t, time.Duration(0), m.Overlay().TimeRemaining())

	m.Update(keyPress("x"))
	assert.Equal(t, idle.StateWatching, m.Monitor().State())
	assert.False(t, m.Overlay().IsVisible())

	// The idle timer of the abandoned period no longer logs out.
	select {
	case msg := <-msgs:
		m.Update(msg)
	case <-time.After(time.Second):
	}
	assert.Equal(t, ViewWorker, m.CurrentView())
}

func TestConfigChanged_RecreatesMonitor(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.login(t, "wendy", "s3cretpass")
	old := h.m.Monitor()

	cfg := h.cfg.Clone()
	cfg.Session.IdleTimeoutSecs = 120
	cfg.UI.PageSize = 2
	h.m.Update(ConfigChangedMsg{Config: cfg})

	require.NotNil(t, h.m.Monitor())
	assert.NotSame(t, old, h.m.Monitor())
	assert.Equal(t, idle.StateDestroyed, old.State())
	assert.Equal(t, 120*time.Second, h.m.Monitor().Timeout())
	assert.Equal(t, 2, h.m.Board().PageSize())

	h.clock.Advance(100 * time.Second)
	assert.Equal(t, ViewWorker, h.m.CurrentView())
	h.clock.Advance(20 * time.Second)
	assert.Equal(t, ViewLogin, h.m.CurrentView())
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard_ToggleStatus(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	p := h.backend.AddProject("wendy", model.Project{Name: "Bridge survey", Description: "north bank"})
	h.login(t, "wendy", "s3cretpass")

	_, cmd := h.m.Update(keyPress("t"))
	require.NotNil(t, cmd)
	h.m.Update(cmd())

	got, ok := h.m.Board().Find(p.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, got.Status)

	_, cmd = h.m.Update(keyPress("t"))
	h.m.Update(cmd())
	got, _ = h.m.Board().Find(p.ID)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestDashboard_ResultsFromEarlierSessionDropped(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.backend.AddUser("bob", "hunter22", model.RoleWorker)
	p := h.backend.AddProject("wendy", model.Project{Name: "Bridge survey", Description: "north bank"})
	h.backend.AddProject("bob", model.Project{Name: "Road repair", Description: "south"})

	h.login(t, "wendy", "s3cretpass")
	first := h.m.sessionID()
	require.NotEmpty(t, first)

	toggled, ok := h.m.updateStatusCmd(p.ID, model.StatusCompleted)().(statusUpdatedMsg)
	require.True(t, ok)
	assert.Equal(t, first, toggled.session)
	wendys := h.m.Board().Projects()

	h.m.Update(keyPress("L"))
	require.Equal(t, ViewLogin, h.m.CurrentView())
	h.login(t, "bob", "hunter22")
	require.NotEqual(t, first, h.m.sessionID())
	require.Len(t, h.m.Board().Projects(), 1)

	h.m.Update(projectsLoadedMsg{session: first, projects: wendys})
	h.m.Update(searchResultsMsg{session: first, term: "", projects: wendys})
	h.m.Update(toggled)
	require.Len(t, h.m.Board().Projects(), 1)
	assert.Equal(t, "Road repair", h.m.Board().Projects()[0].Name)
	_, found := h.m.Board().Find(p.ID)
	assert.False(t, found)

	// A rejected request from the old session does not end the new one.
	h.m.Update(statusUpdatedMsg{session: first, err: fmt.Errorf("update status: %w", api.ErrUnauthorized)})
	h.m.Update(projectsLoadedMsg{session: first, err: api.ErrUnauthorized})
	assert.Equal(t, ViewWorker, h.m.CurrentView())
	assert.True(t, h.m.session.LoggedIn())
	assert.NotContains(t, h.journalTypes(t)[2:], journal.TypeLogout)

	// The same rejection for the current session does.
	h.m.Update(projectsLoadedMsg{session: h.m.sessionID(), err: api.ErrUnauthorized})
	assert.Equal(t, ViewLogin, h.m.CurrentView())
	assert.False(t, h.m.session.LoggedIn())
}

func TestDashboard_Paging(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		h.backend.AddProject("wendy", model.Project{Name: name, Description: name})
	}
	h.login(t, "wendy", "s3cretpass")

	assert.Equal(t, 2, h.m.Board().TotalPages())
	h.m.Update(keyPress("l"))
	assert.Equal(t, 2, h.m.Board().PageNum())
	assert.Len(t, h.m.table.Projects, 2)
	h.m.Update(keyPress("l"))
	assert.Equal(t, 2, h.m.Board().PageNum())
	h.m.Update(keyPress("h"))
	assert.Equal(t, 1, h.m.Board().PageNum())
}

func TestDashboard_DebouncedSearch(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.backend.AddProject("wendy", model.Project{Name: "Bridge survey", Description: "x"})
	h.backend.AddProject("wendy", model.Project{Name: "Road repair", Description: "y"})
	h.login(t, "wendy", "s3cretpass")

	h.m.Update(keyPress("/"))
	require.Equal(t, modeSearch, h.m.mode)
	h.m.Update(keyPress("b"))
	stale := h.m.searchSeq
	h.m.Update(keyPress("r"))
	assert.Equal(t, "br", h.m.search.Value())

	_, cmd := h.m.Update(searchDebounceMsg{seq: stale, term: "b"})
	assert.Nil(t, cmd, "superseded keystrokes do not search")
	assert.Empty(t, h.m.Board().Term())

	h.m.Update(searchDebounceMsg{seq: h.m.searchSeq, term: "br"})
	assert.Equal(t, "br", h.m.Board().Term())
	assert.True(t, h.m.Board().Searching)

	results, err := h.client.SearchProjects(context.Background(), "br")
	require.NoError(t, err)
	h.m.Update(searchResultsMsg{session: h.m.sessionID(), term: "br", projects: results})
	require.Len(t, h.m.Board().Displayed(), 1)
	assert.Equal(t, "Bridge survey", h.m.Board().Displayed()[0].Name)

	// Late results for an older term are ignored.
	h.m.Update(searchResultsMsg{session: h.m.sessionID(), term: "b", projects: nil})
	assert.Len(t, h.m.Board().Displayed(), 1)

	h.m.Update(keyPress("esc"))
	h.m.Update(keyPress("esc"))
	assert.Empty(t, h.m.Board().Term())
	assert.Len(t, h.m.Board().Displayed(), 2)
}

func TestDashboard_CreateProject(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.login(t, "wendy", "s3cretpass")

	h.m.Update(keyPress("n"))
	require.Equal(t, modeCreate, h.m.mode)

	_, cmd := h.m.Update(keyPress("ctrl+s"))
	assert.Nil(t, cmd)
	assert.Equal(t, "is required", h.m.create.fieldErr("name"))
	assert.Equal(t, "is required", h.m.create.fieldErr("start_date"))

	c := h.m.create
	c.set("name", "Bridge survey")
	c.set("description", "north bank")
	c.set("start_date", "2025-03-01")
	c.set("finish_date", "2025-02-01")
	_, cmd = h.m.Update(keyPress("ctrl+s"))
	assert.Nil(t, cmd)
	assert.Equal(t, "finish date must be after start date", c.fieldErr("finish_date"))

	c.set("finish_date", "2025-04-01")
	h.m.handlePicked(componentsPicked(37.98381, 23.72754))
	in, err := c.input()
	require.NoError(t, err)
	h.m.Update(h.m.createCmd(in)())

	assert.Equal(t, modeList, h.m.mode)
	require.Len(t, h.m.Board().Projects(), 1)
	created := h.m.Board().Projects()[0]
	assert.Equal(t, "Bridge survey", created.Name)
	loc, ok := created.Location()
	require.True(t, ok)
	assert.InDelta(t, 37.98381, loc.Lat, 1e-9)
	assert.Equal(t, 1, h.backend.ProjectCount())
}

func TestDashboard_Export(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("wendy", "s3cretpass", model.RoleWorker)
	h.backend.AddProject("wendy", model.Project{Name: "Bridge survey", Description: "north bank"})
	h.login(t, "wendy", "s3cretpass")

	_, cmd := h.m.Update(keyPress("e"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, filepath.Join(h.cfg.Export.Dir, "projects.csv"), msg.path)

	data, err := os.ReadFile(msg.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Bridge survey"`)
}
