// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusSearching
	StatusSaving
	StatusError
	StatusIdle
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusSearching:
		return "Searching..."
	case StatusSaving:
		return "Saving..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns a shape for the status so it reads without color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusLoading, StatusSearching, StatusSaving:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return styles.StatusIndicators.Warning
	default:
		return "?"
	}
}

// Shortcut is one key hint shown on the right of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom bar: status, session length, idle countdown and
// key hints.
type StatusBar struct {
	Status    Status
	Message   string        // Short feedback, e.g. "Exported 12 projects"
	Session   time.Duration // Time since login, 0 hides it
	IdleLeft  time.Duration // Time until idle logout, 0 hides it
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the bar, choosing a layout by width.
func (s *StatusBar) View() string {
	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	left := []string{s.getStatusStyle().Render(s.Status.Icon() + " " + s.Status.String())}
	if s.Width >= 60 && s.Message != "" {
		left = append(left, s.theme.Subtle.Render(s.Message))
	}
	if s.Session > 0 {
		left = append(left, s.theme.Subtle.Render("session "+formatClock(s.Session)))
	}
	if s.IdleLeft > 0 && s.Width >= 60 {
		left = append(left, s.idleStyle().Render("idle in "+formatTimeRemaining(s.IdleLeft)))
	}

	line := strings.Join(left, separator)
	if s.Width >= 100 && len(s.Shortcuts) > 0 {
		right := s.renderShortcuts()
		gap := s.Width - 2 - lipgloss.Width(line) - lipgloss.Width(right)
		if gap > 0 {
			line += strings.Repeat(" ", gap) + right
		}
	}

	return s.theme.StatusBar.Width(s.Width).Render(line)
}

func (s *StatusBar) renderShortcuts() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusError:
		return s.theme.ErrorStyle
	case StatusIdle:
		return s.theme.WarningStyle
	case StatusReady:
		return s.theme.SuccessStyle
	default:
		return s.theme.InfoStyle
	}
}

// idleStyle turns amber in the last minute.
func (s *StatusBar) idleStyle() lipgloss.Style {
	if s.IdleLeft <= time.Minute {
		return s.theme.WarningStyle
	}
	return s.theme.Subtle
}

// formatClock formats a duration as M:SS or H:MM:SS.
func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	h, m, sec := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return toStr(h) + ":" + pad2(m) + ":" + pad2(sec)
	}
	return toStr(m) + ":" + pad2(sec)
}
