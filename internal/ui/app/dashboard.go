// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/export"
	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/projects"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
	"github.com/jeranaias/ergo-tui/internal/util"
)

// newBoardLike returns an empty board with the same page size.
func newBoardLike(b *projects.Board) *projects.Board {
	if b == nil {
		return projects.NewBoard(0)
	}
	return projects.NewBoard(b.PageSize())
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) updateDashboard(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeCreate:
		return m.updateCreate(msg)
	case modeLocation:
		return m.updatePicker(msg)
	case modeDetail, modeChart:
		if key.Matches(msg, m.keys.Cancel, m.keys.Detail, m.keys.Chart) {
			m.mode = modeList
			m.refreshChrome()
		}
		return nil
	}

	admin := m.view == ViewAdmin
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.NextPage):
		if m.board.NextPage() {
			m.selected = 0
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.board.PrevPage() {
			m.selected = 0
		}
	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.selectedProject(); ok {
			m.mode = modeDetail
		}
	case key.Matches(msg, m.keys.Chart):
		m.mode = modeChart
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.refreshChrome()
		return m.search.Focus()
	case key.Matches(msg, m.keys.Cancel):
		if m.board.Term() != "" {
			m.search.SetValue("")
			m.board.SetTerm("")
			m.board.ClearSearch()
			m.selected = 0
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.fetchProjects()
	case key.Matches(msg, m.keys.Export):
		return m.exportCmd(m.board.Displayed())
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case !admin && key.Matches(msg, m.keys.New):
		return m.openCreate()
	case !admin && key.Matches(msg, m.keys.Toggle):
		return m.toggleStatus()
	}
	m.refreshChrome()
	return nil
}

func (m *Model) moveSelection(delta int) {
	n := len(m.board.Page())
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = util.ClampInt(m.selected+delta, 0, n-1)
}

func (m *Model) selectedProject() (model.Project, bool) {
	page := m.board.Page()
	if m.selected < 0 || m.selected >= len(page) {
		return model.Project{}, false
	}
	return page[m.selected], true
}

// toggleStatus flips the selected project between completed and in
// progress.
func (m *Model) toggleStatus() tea.Cmd {
	p, ok := m.selectedProject()
	if !ok {
		return nil
	}
	m.statusBar.Status = components.StatusSaving
	return m.updateStatusCmd(p.ID, p.Status.Next())
}

// =============================================================================
// SEARCH
// =============================================================================

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		m.mode = modeList
		m.refreshChrome()
		if msg.Type == tea.KeyEnter {
			// Search now instead of waiting out the debounce.
			return m.runSearch(m.search.Value())
		}
		return nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		return tea.Batch(cmd, m.debounceSearch(after))
	}
	return cmd
}

func (m *Model) handleDebounce(msg searchDebounceMsg) tea.Cmd {
	if msg.seq != m.searchSeq || !m.view.IsDashboard() {
		return nil
	}
	return m.runSearch(msg.term)
}

// runSearch sets term and queries the backend, or clears the search when
// the term is blank.
func (m *Model) runSearch(term string) tea.Cmd {
	m.searchSeq++
	m.board.SetTerm(term)
	m.selected = 0
	if !m.board.ShouldSearch() {
		m.statusBar.Status = components.StatusReady
		m.refreshChrome()
		return nil
	}
	m.statusBar.Status = components.StatusSearching
	m.refreshChrome()
	return tea.Batch(m.searchCmd(m.board.Term()), m.spinner.Tick)
}

func (m *Model) handleSearchResults(msg searchResultsMsg) tea.Cmd {
	if msg.err != nil {
		m.board.SearchFailed(msg.term, msgText(msg.err))
		if msg.term == m.board.Term() {
			m.statusBar.Status = components.StatusError
		}
		return m.checkAuth(msg.err)
	}
	if m.board.SetResults(msg.term, msg.projects) {
		m.statusBar.Status = components.StatusReady
		m.selected = 0
		if len(msg.projects) == 0 {
			m.statusBar.Message = "No projects match \"" + msg.term + "\""
		} else {
			m.statusBar.Message = util.IntToString(len(msg.projects)) + " matching"
		}
	}
	m.refreshChrome()
	return nil
}

// =============================================================================
// RESULTS
// =============================================================================

func (m *Model) handleProjectsLoaded(msg projectsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.board.FetchFailed(msgText(msg.err))
		m.statusBar.Status = components.StatusError
		m.refreshChrome()
		return m.checkAuth(msg.err)
	}
	m.board.SetProjects(msg.projects)
	m.statusBar.Status = components.StatusReady
	m.statusBar.Message = util.IntToString(len(msg.projects)) + " projects"
	m.moveSelection(0)
	m.refreshChrome()
	return nil
}

func (m *Model) handleStatusUpdated(msg statusUpdatedMsg) tea.Cmd {
	if msg.err != nil {
		m.statusBar.Status = components.StatusError
		m.toasts.AddError("Could not update status: " + msgText(msg.err))
		return tea.Batch(m.startToasts(), m.checkAuth(msg.err))
	}
	m.board.Upsert(*msg.project)
	m.statusBar.Status = components.StatusReady
	m.statusBar.Message = msg.project.Name + " is " + strings.ToLower(msg.project.Status.Label())
	m.refreshChrome()
	return nil
}

func (m *Model) handleExported(msg exportedMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, export.ErrNoProjects) {
			m.toasts.AddStatus(msg.err.Error())
		} else {
			m.toasts.AddError("Export failed: " + msg.err.Error())
		}
		return m.startToasts()
	}
	m.toasts.AddSuccess("Exported " + util.IntToString(msg.count) + " projects to " + msg.path)
	return m.startToasts()
}

func (m *Model) sessionID() string {
	return m.session.Status().SessionID
}

// fromCurrentSession reports whether a backend result was requested by the
// session still on the dashboard. A result that outlives its session must
// not touch the next user's board or log them out.
func (m *Model) fromCurrentSession(id string) bool {
	return m.view.IsDashboard() && id != "" && id == m.sessionID()
}

// checkAuth ends the session when the backend rejected the credentials and
// the refresh token could not renew them.
func (m *Model) checkAuth(err error) tea.Cmd {
	if !errors.Is(err, api.ErrUnauthorized) || !m.view.IsDashboard() {
		return nil
	}
	m.record(journal.TypeLogout, "reason=unauthorized")
	m.endSession()
	m.toasts.AddError("Session expired. Please log in again.")
	return m.startToasts()
}
