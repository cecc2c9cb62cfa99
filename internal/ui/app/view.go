// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/ui/components"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
	"github.com/jeranaias/ergo-tui/internal/util"
)

// =============================================================================
// CHROME
// =============================================================================

// refreshChrome syncs the header, status bar and list widgets with the
// model state.
func (m *Model) refreshChrome() {
	m.header.Subtitle = m.view.String()
	if st := m.session.Snapshot(); st.LoggedIn && st.User != nil {
		m.header.SetUser(st.User.Username, st.Role)
	} else {
		m.header.SetUser("", "")
	}
	m.statusBar.Shortcuts = m.shortcuts()

	if !m.view.IsDashboard() {
		return
	}
	m.table.Projects = m.board.Page()
	m.table.Term = m.board.Term()
	m.table.Selected = m.selected
	m.table.ShowWorker = m.view == ViewAdmin

	m.pager.PerPage = m.board.PageSize()
	m.pager.SetTotalPages(len(m.board.Displayed()))
	m.pager.Page = m.board.PageNum() - 1

	m.chart.Counts = m.board.StatusCounts()
	if m.view == ViewAdmin {
		m.chart.Title = "All projects by status"
	} else {
		m.chart.Title = "My projects by status"
	}
	if p, ok := m.selectedProject(); ok {
		m.detail.Project = p
	}
}

func (m *Model) shortcuts() []components.Shortcut {
	switch {
	case m.view == ViewRegister:
		return []components.Shortcut{{Key: "enter", Desc: "next/submit"}, {Key: "C-n", Desc: "login"}, {Key: "esc", Desc: "quit"}}
	case m.view == ViewLogin:
		return []components.Shortcut{{Key: "enter", Desc: "next/submit"}, {Key: "C-n", Desc: "register"}, {Key: "esc", Desc: "quit"}}
	case m.mode == modeSearch:
		return []components.Shortcut{{Key: "enter", Desc: "search"}, {Key: "esc", Desc: "done"}}
	case m.mode == modeCreate:
		return []components.Shortcut{{Key: "tab", Desc: "next"}, {Key: "C-p", Desc: "location"}, {Key: "C-s", Desc: "create"}, {Key: "esc", Desc: "cancel"}}
	case m.mode == modeLocation:
		return []components.Shortcut{{Key: "enter", Desc: "pick"}, {Key: "esc", Desc: "cancel"}}
	case m.view == ViewAdmin:
		return []components.Shortcut{{Key: "/", Desc: "search"}, {Key: "c", Desc: "chart"}, {Key: "e", Desc: "export"}, {Key: "L", Desc: "logout"}}
	}
	return []components.Shortcut{{Key: "n", Desc: "new"}, {Key: "/", Desc: "search"}, {Key: "t", Desc: "toggle"}, {Key: "e", Desc: "export"}, {Key: "L", Desc: "logout"}}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen. The session overlay replaces the body
// while it is visible.
func (m *Model) View() string {
	if m.overlay.IsVisible() {
		return m.overlay.View()
	}

	var body string
	switch m.view {
	case ViewRegister:
		body = m.viewRegister()
	case ViewLogin:
		body = m.viewLogin()
	default:
		body = m.viewDashboard()
	}

	parts := []string{m.header.View(), body}
	if toasts := m.toasts.View(m.width); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.statusBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewRegister() string {
	hint := "Register (enter)"
	if m.register.submitting {
		hint = m.spinner.View() + " Registering..."
	}
	return m.center(m.register.view(hint, "", m.theme.Subtle.Render("Already have an account? ctrl+n to log in")))
}

func (m *Model) viewLogin() string {
	hint := "Login (enter)"
	if m.login.submitting {
		hint = m.spinner.View() + " Logging in..."
	}
	return m.center(m.login.view(hint, "", m.theme.Subtle.Render("No account yet? ctrl+n to register")))
}

func (m *Model) center(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

func (m *Model) viewDashboard() string {
	switch m.mode {
	case modeCreate:
		if m.create != nil {
			return m.create.view()
		}
	case modeLocation:
		return m.picker.View()
	case modeDetail:
		return m.detail.View()
	case modeChart:
		return m.chart.View()
	}

	var lines []string
	if m.mode == modeSearch || m.board.Term() != "" {
		lines = append(lines, m.search.View())
	}

	switch {
	case m.board.Loading:
		lines = append(lines, m.spinner.View()+" Loading projects...")
	case m.board.Err != "":
		lines = append(lines, m.theme.ErrorStyle.Render(styles.StatusIndicators.Error+" "+m.board.Err))
	default:
		if m.board.Searching {
			lines = append(lines, m.spinner.View()+" Searching...")
		}
		if m.board.SearchErr != "" {
			lines = append(lines, m.theme.ErrorStyle.Render(styles.StatusIndicators.Error+" "+m.board.SearchErr))
		}
		lines = append(lines, m.table.View())
	}

	if total := m.board.TotalPages(); total > 1 {
		lines = append(lines, "", m.pager.View()+m.theme.Subtle.Render(
			"  page "+util.IntToString(m.board.PageNum())+" of "+util.IntToString(total)))
	}

	if m.showHelp {
		m.help.ShowAll = true
		lines = append(lines, "", m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}
