// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/export"
	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/projects"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
)

// errNoClient is returned by commands when the model has no API client.
var errNoClient = errors.New("no API client configured")

// =============================================================================
// API COMMANDS
// =============================================================================

func (m *Model) registerCmd(reg model.Registration) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return registeredMsg{err: errNoClient}
		}
		user, err := client.RegisterWorker(ctx, reg)
		return registeredMsg{user: user, err: err}
	}
}

func (m *Model) loginCmd(creds model.Credentials) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return loggedInMsg{err: errNoClient}
		}
		resp, err := client.Login(ctx, creds)
		return loggedInMsg{resp: resp, err: err}
	}
}

// fetchProjects loads the project list. The backend scopes it by role:
// workers get their own projects, admins get everyone's.
func (m *Model) fetchProjects() tea.Cmd {
	m.board.BeginFetch()
	m.statusBar.Status = components.StatusLoading
	client, ctx, sess := m.client, m.ctx, m.sessionID()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if client == nil {
			return projectsLoadedMsg{session: sess, err: errNoClient}
		}
		ps, err := client.Projects(ctx)
		return projectsLoadedMsg{session: sess, projects: ps, err: err}
	})
}

func (m *Model) searchCmd(term string) tea.Cmd {
	client, ctx, sess := m.client, m.ctx, m.sessionID()
	return func() tea.Msg {
		if client == nil {
			return searchResultsMsg{session: sess, term: term, err: errNoClient}
		}
		ps, err := client.SearchProjects(ctx, term)
		return searchResultsMsg{session: sess, term: term, projects: ps, err: err}
	}
}

// debounceSearch schedules a search for term. Each keystroke bumps the
// sequence so only the last one in a burst reaches the backend.
func (m *Model) debounceSearch(term string) tea.Cmd {
	m.searchSeq++
	seq := m.searchSeq
	delay := m.cfg.UI.SearchDebounce()
	if delay <= 0 {
		delay = projects.DefaultSearchDebounce
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, term: term}
	})
}

func (m *Model) createCmd(in model.ProjectInput) tea.Cmd {
	client, ctx, sess := m.client, m.ctx, m.sessionID()
	return func() tea.Msg {
		if client == nil {
			return projectCreatedMsg{session: sess, err: errNoClient}
		}
		p, err := client.CreateProject(ctx, in)
		return projectCreatedMsg{session: sess, project: p, err: err}
	}
}

func (m *Model) updateStatusCmd(id int, status model.ProjectStatus) tea.Cmd {
	client, ctx, sess := m.client, m.ctx, m.sessionID()
	return func() tea.Msg {
		if client == nil {
			return statusUpdatedMsg{session: sess, err: errNoClient}
		}
		p, err := client.UpdateStatus(ctx, id, status)
		return statusUpdatedMsg{session: sess, project: p, err: err}
	}
}

// exportCmd writes the displayed projects in the configured format.
func (m *Model) exportCmd(list []model.Project) tea.Cmd {
	list = append([]model.Project(nil), list...)
	format := m.cfg.Export.Format
	opts := export.DefaultOptions()
	if m.cfg.Export.Dir != "" {
		opts.OutputDir = m.cfg.Export.Dir
	}
	return func() tea.Msg {
		exp, err := export.ForFormat(format, opts)
		if err != nil {
			return exportedMsg{err: err}
		}
		path, err := export.ExportToFile(list, exp, opts)
		return exportedMsg{path: path, count: len(list), err: err}
	}
}

// msgText returns the user-facing text of err.
func msgText(err error) string {
	return api.Message(err)
}
