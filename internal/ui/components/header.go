// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand, current view and signed-in user.
type Header struct {
	Title    string // Brand (default: "ergo")
	Subtitle string // Current view, e.g. "Worker Dashboard"
	Username string
	Role     model.Role
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "ergo",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetUser shows the signed-in user. An empty username hides the badge.
func (h *Header) SetUser(username string, role model.Role) {
	h.Username = username
	h.Role = role
}

// View renders the header on one line.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}

	accent := lipgloss.NewStyle().Foreground(styles.Purple)
	left := accent.Render("< ") + h.theme.HeaderBrand.Render(h.Title) + accent.Render(" >")
	if h.Subtitle != "" {
		left += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	right := ""
	if h.Username != "" {
		right = h.theme.Subtle.Render(h.Username) + " " + h.roleBadge()
	}

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminal: drop the user badge first.
		right = ""
		gap = width - 2 - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}

	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (h *Header) roleBadge() string {
	if h.Role.IsAdmin() {
		return h.theme.RoleAdmin.Render("[" + string(h.Role) + "]")
	}
	return h.theme.RoleWorker.Render("[" + string(h.Role) + "]")
}
