// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable UI pieces of the ergo TUI.

# Display Components

Header (header.go) - Title bar with the current view and signed-in user.
StatusBar (statusbar.go) - Bottom bar with status, session length, idle countdown and key hints.
ProjectTable (project_table.go) - One page of projects with search matches highlighted.
ProjectDetail (project_detail.go) - Selected project with its markdown description rendered by glamour.
StatusChart (status_chart.go) - Projects per status as horizontal bars.

# Interaction

LocationPicker (location_picker.go) - Grid cursor for attaching a map location to a new project.
SessionTimeoutOverlay (session_timeout_overlay.go) - Idle warning countdown and the expired notice.
ToastManager (toast.go) - Auto-dismissing notifications for saves, exports and errors.

# Usage

	table := components.NewProjectTable(theme)
	table.Projects = board.Page()
	table.Term = board.Term()
	view := table.View()
*/
package components
