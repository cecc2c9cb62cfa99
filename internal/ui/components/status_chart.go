// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
	"github.com/jeranaias/ergo-tui/internal/util"
)

// =============================================================================
// STATUS CHART
// =============================================================================

// StatusChart is a horizontal bar chart of projects per status.
type StatusChart struct {
	Title  string
	Counts model.StatusCounts
	Width  int
	theme  *styles.Theme
}

// NewStatusChart creates a chart.
func NewStatusChart(theme *styles.Theme) *StatusChart {
	return &StatusChart{Title: "Projects by status", Width: 60, theme: theme}
}

const chartLabelWidth = 13

// BarLength scales count against max into at most width cells. Any non-zero
// count gets at least one cell.
func BarLength(count, max, width int) int {
	if count <= 0 || max <= 0 || width <= 0 {
		return 0
	}
	n := count * width / max
	if n == 0 {
		n = 1
	}
	return n
}

// View renders one bar per status.
func (c *StatusChart) View() string {
	barWidth := clampInt(c.Width-chartLabelWidth-8, 5, 50)

	max := 0
	for _, s := range model.Statuses {
		if n := c.Counts.Get(s); n > max {
			max = n
		}
	}

	lines := []string{c.theme.Title.Render(c.Title)}
	if c.Counts.Total() == 0 {
		lines = append(lines, c.theme.Subtle.Render("No projects to chart."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, s := range model.Statuses {
		n := c.Counts.Get(s)
		bar := strings.Repeat("#", BarLength(n, max, barWidth))
		lines = append(lines,
			c.theme.Subtle.Render(util.PadWidth(s.Label(), chartLabelWidth))+
				lipgloss.NewStyle().Foreground(styles.StatusColor(s)).Render(bar)+
				" "+toStr(n))
	}
	lines = append(lines, c.theme.Subtle.Render("Total "+toStr(c.Counts.Total())))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
