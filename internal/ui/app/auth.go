// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/session"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// FORMS
// =============================================================================

func newRegisterForm(theme *styles.Theme) *form {
	return newForm(theme, "Create an account",
		&field{key: "username", label: "Username", input: newLine("at least 3 characters", 150, false)},
		&field{key: "email", label: "Email", input: newLine("you@example.com", 254, false)},
		&field{key: "password", label: "Password", input: newLine("at least 6 characters", 128, true)},
	)
}

func newLoginForm(theme *styles.Theme, username string) *form {
	f := newForm(theme, "Sign in",
		&field{key: "username", label: "Username", input: newLine("username", 150, false)},
		&field{key: "password", label: "Password", input: newLine("password", 128, true)},
	)
	if username != "" {
		f.set("username", username)
		f.focusOn(1)
	}
	return f
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) updateAuth(msg tea.KeyMsg) tea.Cmd {
	f := m.login
	if m.view == ViewRegister {
		f = m.register
	}

	switch {
	case key.Matches(msg, m.keys.SwitchTo):
		if m.view == ViewRegister {
			return m.showLogin("")
		}
		return m.showRegister()

	case msg.Type == tea.KeyEnter:
		if !f.onLast() {
			return f.next()
		}
		if f.submitting {
			return nil
		}
		if m.view == ViewRegister {
			return m.submitRegister()
		}
		return m.submitLogin()

	case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
		return f.next()

	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
		return f.prev()
	}

	return f.update(msg)
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m *Model) submitRegister() tea.Cmd {
	f := m.register
	reg := model.Registration{
		Username: strings.TrimSpace(f.value("username")),
		Email:    strings.TrimSpace(f.value("email")),
		Password: f.value("password"),
	}
	if err := reg.Validate(); err != nil {
		f.setError(err)
		return nil
	}

	f.clearErrors()
	f.submitting = true
	m.session.Begin()
	m.statusBar.Status = components.StatusSaving
	return tea.Batch(m.registerCmd(reg), m.spinner.Tick)
}

func (m *Model) submitLogin() tea.Cmd {
	f := m.login
	creds := model.Credentials{
		Username: strings.TrimSpace(f.value("username")),
		Password: f.value("password"),
	}
	if creds.Username == "" || creds.Password == "" {
		f.clearErrors()
		if creds.Username == "" {
			f.setFieldError("username", "Username is required")
		}
		if creds.Password == "" {
			f.setFieldError("password", "Password is required")
		}
		return nil
	}

	f.clearErrors()
	f.submitting = true
	m.session.Begin()
	m.statusBar.Status = components.StatusLoading
	return tea.Batch(m.loginCmd(creds), m.spinner.Tick)
}

// =============================================================================
// RESULTS
// =============================================================================

func (m *Model) handleRegistered(msg registeredMsg) tea.Cmd {
	f := m.register
	if msg.err != nil {
		m.session.Fail(msgText(msg.err))
		m.statusBar.Status = components.StatusError
		f.setError(msg.err)
		return nil
	}

	m.session.Registered(*msg.user)
	f.submitting = false
	m.statusBar.Status = components.StatusReady
	m.toasts.AddSuccess("Account created. Please log in.")
	return tea.Batch(m.showLogin(msg.user.Username), m.startToasts())
}

func (m *Model) handleLoggedIn(msg loggedInMsg) tea.Cmd {
	f := m.login
	if msg.err != nil {
		m.session.Fail(msgText(msg.err))
		m.statusBar.Status = components.StatusError
		f.setError(msg.err)
		f.set("password", "")
		return nil
	}

	resp := msg.resp
	m.session.Login(resp.Access, resp.Refresh, resp.User)
	if m.client != nil {
		m.client.SetTokens(resp.Access, resp.Refresh)
	}
	f.submitting = false
	f.set("password", "")
	m.overlay.Hide()
	m.record(journal.TypeLogin, "role="+string(resp.User.Role))
	return m.enterDashboard()
}

// =============================================================================
// NAVIGATION
// =============================================================================

// enterDashboard shows the dashboard for the signed-in user's role and
// mounts the idle monitor. Without a user it falls back to the login view.
func (m *Model) enterDashboard() tea.Cmd {
	user, err := m.session.RequireUser()
	if err != nil {
		return m.showLogin("")
	}

	if user.Role.IsAdmin() {
		m.view = ViewAdmin
	} else {
		m.view = ViewWorker
	}
	m.mode = modeList
	m.selected = 0
	m.board = newBoardLike(m.board)
	m.search.SetValue("")
	m.statusBar.Status = components.StatusReady
	m.refreshChrome()

	return tea.Batch(m.mountMonitor(), m.fetchProjects())
}

func (m *Model) showLogin(username string) tea.Cmd {
	m.view = ViewLogin
	m.login.clearErrors()
	m.login.submitting = false
	if username != "" {
		m.login.set("username", username)
		m.login.set("password", "")
		m.login.focusOn(1)
	}
	m.refreshChrome()
	return textinput.Blink
}

func (m *Model) showRegister() tea.Cmd {
	m.view = ViewRegister
	m.register.clearErrors()
	m.refreshChrome()
	return textinput.Blink
}

// logout ends the session at the user's request.
func (m *Model) logout() tea.Cmd {
	m.record(journal.TypeLogout, "")
	status := m.endSession()
	m.toasts.AddStatus("Logged out after " + session.FormatDuration(status.Duration))
	return m.startToasts()
}

// endSession tears down the monitor, clears credentials and returns to the
// login view. It is shared by logout and the idle logout.
func (m *Model) endSession() session.Status {
	m.unmountMonitor()
	status, _ := m.session.Logout()
	if m.client != nil {
		m.client.ClearTokens()
	}

	m.overlay.Hide()
	m.mode = modeList
	m.create = nil
	m.board = newBoardLike(m.board)
	m.statusBar.Status = components.StatusReady
	m.statusBar.Session = 0
	m.statusBar.Message = ""
	m.showLogin(status.Username)
	return status
}
