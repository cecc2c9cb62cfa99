// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/projects"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
	"github.com/jeranaias/ergo-tui/internal/util"
)

// =============================================================================
// PROJECT TABLE
// =============================================================================

// ProjectTable renders one page of projects. Names matching the search term
// are highlighted. Narrow terminals get one card per project instead.
type ProjectTable struct {
	Projects   []model.Project
	Term       string
	Selected   int  // index into Projects, -1 for none
	ShowWorker bool // admin view
	Width      int
	theme      *styles.Theme
}

// NewProjectTable creates an empty table.
func NewProjectTable(theme *styles.Theme) *ProjectTable {
	return &ProjectTable{Selected: -1, Width: 80, theme: theme}
}

type column struct {
	title string
	width int
	cell  func(p model.Project) string
}

// View renders the table, or a placeholder when there are no projects.
func (t *ProjectTable) View() string {
	if len(t.Projects) == 0 {
		return t.theme.Subtle.Render("No projects yet.")
	}

	narrow := t.Width > 0 && t.Width < 60
	if narrow {
		return t.viewCards()
	}

	cols := t.columns()
	var b strings.Builder

	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, util.PadWidth(c.title, c.width))
	}
	b.WriteString(t.theme.TableHeader.Render(strings.Join(header, " ")))

	for i, p := range t.Projects {
		b.WriteByte('\n')
		b.WriteString(t.renderRow(cols, p, i == t.Selected))
	}
	return b.String()
}

func (t *ProjectTable) columns() []column {
	width := t.Width
	if width <= 0 {
		width = 80
	}

	cols := []column{
		{title: "ID", width: 5, cell: func(p model.Project) string { return toStr(p.ID) }},
	}
	if t.ShowWorker {
		cols = append(cols, column{title: "Worker", width: 7, cell: func(p model.Project) string { return toStr(p.Worker) }})
	}
	cols = append(cols,
		column{title: "Status", width: 16, cell: func(p model.Project) string {
			return styles.StatusIndicator(p.Status) + " " + p.Status.Label()
		}},
		column{title: "Start", width: 10, cell: func(p model.Project) string { return p.StartDate.String() }},
		column{title: "Finish", width: 10, cell: func(p model.Project) string { return p.FinishDate.String() }},
	)

	used := 0
	for _, c := range cols {
		used += c.width + 1
	}
	// Name takes what is left; description only on wide terminals.
	rest := width - used - 3
	nameWidth := clampInt(rest, 8, 32)
	name := column{title: "Name", width: nameWidth}
	cols = append(cols[:1], append([]column{name}, cols[1:]...)...)

	if descWidth := rest - nameWidth - 1; width >= 100 && descWidth >= 12 {
		cols = append(cols, column{title: "Description", width: descWidth, cell: func(p model.Project) string {
			return util.SingleLine(p.Description)
		}})
	}
	return cols
}

func (t *ProjectTable) renderRow(cols []column, p model.Project, selected bool) string {
	rowStyle := t.theme.Row
	marker := "  "
	if selected {
		rowStyle = t.theme.RowSelected
		marker = "> "
	}

	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.cell == nil {
			cells = append(cells, t.highlightCell(p.Name, c.width, rowStyle))
			continue
		}
		text := util.PadWidth(c.cell(p), c.width)
		if c.title == "Status" {
			cells = append(cells, rowStyle.Foreground(styles.StatusColor(p.Status)).Render(text))
			continue
		}
		cells = append(cells, rowStyle.Render(text))
	}
	return marker + strings.Join(cells, rowStyle.Render(" "))
}

// highlightCell truncates text to width, then styles the matching segments.
func (t *ProjectTable) highlightCell(text string, width int, base lipgloss.Style) string {
	text = util.TruncateWidth(util.SingleLine(text), width)

	var b strings.Builder
	for _, seg := range projects.Highlight(text, t.Term) {
		if seg.Match {
			b.WriteString(t.theme.Match.Inherit(base).Render(seg.Text))
		} else {
			b.WriteString(base.Render(seg.Text))
		}
	}
	if gap := width - util.StringWidth(text); gap > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", gap)))
	}
	return b.String()
}

func (t *ProjectTable) viewCards() string {
	inner := clampInt(t.Width-6, 16, 60)
	cards := make([]string, 0, len(t.Projects))

	for i, p := range t.Projects {
		style := t.theme.Card
		if i != t.Selected {
			style = style.BorderForeground(styles.Overlay)
		}

		prefix := "#" + toStr(p.ID) + " "
		// Card padding takes two columns of the width.
		title := prefix + t.highlightCell(p.Name, inner-2-len(prefix), t.theme.Row)
		status := lipgloss.NewStyle().
			Foreground(styles.StatusColor(p.Status)).
			Render(styles.StatusIndicator(p.Status) + " " + p.Status.Label())
		dates := t.theme.Subtle.Render(p.StartDate.String() + " -> " + p.FinishDate.String())

		cards = append(cards, style.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, title, status, dates)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
