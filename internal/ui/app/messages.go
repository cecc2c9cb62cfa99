// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/model"
)

// =============================================================================
// AUTH MESSAGES
// =============================================================================

// registeredMsg is the result of a registration request.
type registeredMsg struct {
	user *model.User
	err  error
}

// loggedInMsg is the result of a login request.
type loggedInMsg struct {
	resp *api.LoginResponse
	err  error
}

// TokenRefreshedMsg reports an access token renewed by the client.
type TokenRefreshedMsg struct {
	Access string
}

// =============================================================================
// PROJECT MESSAGES
// =============================================================================

// projectsLoadedMsg carries the fetched project list. Backend results carry
// the ID of the session that requested them; results from an earlier
// session are dropped.
type projectsLoadedMsg struct {
	session  string
	projects []model.Project
	err      error
}

// searchDebounceMsg fires once the search input has been quiet long enough.
// Only the message matching the latest seq triggers a query.
type searchDebounceMsg struct {
	seq  int
	term string
}

// searchResultsMsg carries results for term.
type searchResultsMsg struct {
	session  string
	term     string
	projects []model.Project
	err      error
}

// projectCreatedMsg is the result of the create form.
type projectCreatedMsg struct {
	session string
	project *model.Project
	err     error
}

// statusUpdatedMsg is the result of a status toggle.
type statusUpdatedMsg struct {
	session string
	project *model.Project
	err     error
}

// exportedMsg reports where the export was written.
type exportedMsg struct {
	path  string
	count int
	err   error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// tickMsg refreshes the session clock and idle countdown once a second.
// Ticks from an earlier dashboard mount carry a stale gen and stop.
type tickMsg struct {
	gen int
}

// ConfigChangedMsg is sent when the config file changes on disk.
type ConfigChangedMsg struct {
	Config *config.Config
	Err    error
}
