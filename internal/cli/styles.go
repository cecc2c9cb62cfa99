// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Command output styling.
//
// The commands use the TUI palette so a project looks the same in
// `ergo projects list` as on the dashboard. Color detection lives in
// terminal.go.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// labelWidth fits the longest journal entry type, SESSION_EXTENDED.
const labelWidth = 18

var (
	// TitleStyle heads each command's output.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan).MarginBottom(1)

	ValueStyle   = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.SuccessHighContrast)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.ErrorHighContrast)
	WarningStyle = lipgloss.NewStyle().Foreground(styles.WarningHighContrast)

	// DimStyle is for hints, counts and timestamps.
	DimStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	// HeaderStyle is the project table header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Underline(true)

	labelStyle     = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(labelWidth)
	separatorStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// RenderSeparator renders a rule of the given width (default 70).
func RenderSeparator(width ...int) string {
	w := 70
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return separatorStyle.Render(strings.Repeat("-", w))
}

// RenderLabel renders a fixed-width field label for key/value output.
func RenderLabel(label string) string {
	return labelStyle.Render(label)
}

// RenderProjectStatus renders a status with the dashboard's indicator and
// color.
func RenderProjectStatus(s model.ProjectStatus) string {
	text := styles.StatusIndicator(s) + " " + s.Label()
	if !ColorsEnabled() {
		return text
	}
	return lipgloss.NewStyle().Foreground(styles.StatusColor(s)).Render(text)
}
