// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// SESSION TIMEOUT OVERLAY
// =============================================================================

// SessionTimeoutOverlay displays the idle warning countdown and, after the
// idle logout, the expired notice shown over the login view.
type SessionTimeoutOverlay struct {
	visible       bool
	timeRemaining time.Duration
	expired       bool

	width  int
	height int
}

// NewSessionTimeoutOverlay creates a hidden overlay.
func NewSessionTimeoutOverlay() SessionTimeoutOverlay {
	return SessionTimeoutOverlay{}
}

// SetSize sets the overlay dimensions.
func (o *SessionTimeoutOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// ShowWarning displays the countdown warning. A late warning with no time
// left still shows the warning; only ShowExpired shows the expired notice.
func (o *SessionTimeoutOverlay) ShowWarning(remaining time.Duration) {
	o.visible = true
	o.expired = false
	o.UpdateTime(remaining)
}

// ShowExpired displays the expired notice.
func (o *SessionTimeoutOverlay) ShowExpired() {
	o.visible = true
	o.expired = true
	o.timeRemaining = 0
}

// Hide hides the overlay.
func (o *SessionTimeoutOverlay) Hide() {
	o.visible = false
	o.expired = false
}

// UpdateTime updates the countdown. The overlay never flips to expired on
// its own; the idle logout decides that.
func (o *SessionTimeoutOverlay) UpdateTime(remaining time.Duration) {
	if remaining < 0 {
		remaining = 0
	}
	o.timeRemaining = remaining
}

// IsVisible returns whether the overlay is currently visible.
func (o SessionTimeoutOverlay) IsVisible() bool {
	return o.visible
}

// IsWarning returns whether the countdown warning is showing.
func (o SessionTimeoutOverlay) IsWarning() bool {
	return o.visible && !o.expired
}

// IsExpired returns whether the expired notice is showing.
func (o SessionTimeoutOverlay) IsExpired() bool {
	return o.visible && o.expired
}

// TimeRemaining returns the current time remaining.
func (o SessionTimeoutOverlay) TimeRemaining() time.Duration {
	return o.timeRemaining
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the overlay, or "" when hidden.
func (o SessionTimeoutOverlay) View() string {
	if !o.visible {
		return ""
	}
	if o.expired {
		return o.viewExpired()
	}
	return o.viewWarning()
}

// =============================================================================
// RENDER METHODS
// =============================================================================

func (o SessionTimeoutOverlay) viewWarning() string {
	width, height, maxWidth := o.dimensions()

	timeStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)

	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true).
			Render(styles.StatusIndicators.Warning+" Are you still there?"),
		"",
		lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(maxWidth-8).
			Align(lipgloss.Center).
			Render("You will be logged out in "+timeStyle.Render(formatTimeRemaining(o.timeRemaining))),
		"",
		lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Italic(true).
			Render("Press any key to stay signed in"),
	)

	return o.place(width, height, maxWidth, styles.Amber, content)
}

func (o SessionTimeoutOverlay) viewExpired() string {
	width, height, maxWidth := o.dimensions()

	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true).
			Render(styles.StatusIndicators.Error+" Session Expired"),
		"",
		lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(maxWidth-8).
			Align(lipgloss.Center).
			Render("You were logged out due to inactivity."),
		"",
		lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Render("Press any key to log in again"),
	)

	return o.place(width, height, maxWidth, styles.Rose, content)
}

func (o SessionTimeoutOverlay) dimensions() (width, height, maxWidth int) {
	width, height = o.width, o.height
	if width == 0 {
		width = 60
	}
	if height == 0 {
		height = 24
	}

	maxWidth = width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}
	return width, height, maxWidth
}

func (o SessionTimeoutOverlay) place(width, height, maxWidth int, border lipgloss.AdaptiveColor, content string) string {
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}

// formatTimeRemaining formats a duration as M:SS, rounding up so the
// countdown reads 0:01 until the very end.
func formatTimeRemaining(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}

	totalSecs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", totalSecs/60, totalSecs%60)
}
