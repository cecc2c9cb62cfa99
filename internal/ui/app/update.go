// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/idle"
	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
)

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if len(m.pending) == 0 {
		return m, cmd
	}
	return m, tea.Batch(append(m.drain(), cmd)...)
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	// Terminal input counts as activity before anything else sees it.
	if m.handleActivity(msg) {
		return nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case idle.TimerMsg:
		m.handleTimer(msg)
		return nil

	case tickMsg:
		return m.handleTick(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return components.ToastTickCmd()
		}
		m.toastTicker = false
		return nil

	case registeredMsg:
		return m.handleRegistered(msg)

	case loggedInMsg:
		return m.handleLoggedIn(msg)

	case TokenRefreshedMsg:
		m.session.SetAccessToken(msg.Access)
		return nil

	case projectsLoadedMsg:
		if !m.fromCurrentSession(msg.session) {
			return nil
		}
		return m.handleProjectsLoaded(msg)

	case searchDebounceMsg:
		return m.handleDebounce(msg)

	case searchResultsMsg:
		if !m.fromCurrentSession(msg.session) {
			return nil
		}
		return m.handleSearchResults(msg)

	case projectCreatedMsg:
		if !m.fromCurrentSession(msg.session) {
			return nil
		}
		return m.handleCreated(msg)

	case statusUpdatedMsg:
		if !m.fromCurrentSession(msg.session) {
			return nil
		}
		return m.handleStatusUpdated(msg)

	case exportedMsg:
		return m.handleExported(msg)

	case components.LocationPickedMsg, components.LocationClearedMsg, components.LocationCancelledMsg:
		m.handlePicked(msg)
		return nil

	case ConfigChangedMsg:
		return m.handleConfigChanged(msg)
	}

	if m.view.IsDashboard() && m.mode == modeCreate && m.create != nil {
		return m.create.update(msg)
	}
	return nil
}

// handleKeyPress routes keyboard input to the current view.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.view {
	case ViewRegister, ViewLogin:
		if msg.Type == tea.KeyEsc {
			return m.quit()
		}
		return m.updateAuth(msg)
	case ViewWorker, ViewAdmin:
		return m.updateDashboard(msg)
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	if m.session.LoggedIn() {
		m.record(journal.TypeLogout, "reason=quit")
	}
	m.Close()
	return tea.Quit
}

// busy reports whether a request is in flight, which keeps the spinner
// turning.
func (m *Model) busy() bool {
	switch m.statusBar.Status {
	case components.StatusLoading, components.StatusSearching, components.StatusSaving:
		return true
	}
	return false
}

func (m *Model) startToasts() tea.Cmd {
	if m.toastTicker {
		return nil
	}
	m.toastTicker = true
	return components.ToastTickCmd()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.overlay.SetSize(width, height)
	m.table.Width = width
	m.chart.Width = width
	m.detail.Width = width
	m.help.Width = width
}

// handleConfigChanged applies a reloaded config. New idle timings take
// effect by re-creating the monitor, which also starts a fresh idle period.
func (m *Model) handleConfigChanged(msg ConfigChangedMsg) tea.Cmd {
	if msg.Err != nil {
		log.Printf("config reload: %v", msg.Err)
		m.toasts.AddWarning("Config not reloaded: " + msg.Err.Error())
		return m.startToasts()
	}
	if msg.Config == nil {
		return nil
	}

	old := m.cfg
	m.cfg = msg.Config
	m.board.SetPageSize(m.cfg.UI.PageSize)
	m.moveSelection(0)

	var cmd tea.Cmd
	timingsChanged := old.Session.IdleTimeoutSecs != m.cfg.Session.IdleTimeoutSecs ||
		old.Session.WarningLeadSecs != m.cfg.Session.WarningLeadSecs
	if timingsChanged && m.monitor != nil {
		m.overlay.Hide()
		cmd = m.mountMonitor()
	}
	m.refreshChrome()
	m.toasts.AddStatus("Config reloaded")
	return tea.Batch(cmd, m.startToasts())
}
