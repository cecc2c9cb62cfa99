// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN DESCRIPTIONS
// =============================================================================

// MarkdownRenderer renders project descriptions with glamour. Renderers are
// built per wrap width and reused.
type MarkdownRenderer struct {
	style     string
	enabled   bool
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer matching the theme. When enabled is
// false descriptions are shown as plain text.
func NewMarkdownRenderer(theme *styles.Theme, enabled bool) *MarkdownRenderer {
	style := "light"
	if theme == nil || theme.IsDark {
		style = "dark"
	}
	return &MarkdownRenderer{style: style, enabled: enabled, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render renders text wrapped to width. It falls back to the raw text when
// rendering is disabled or fails.
func (r *MarkdownRenderer) Render(text string, width int) string {
	if r == nil || !r.enabled || strings.TrimSpace(text) == "" {
		return text
	}
	if width < 20 {
		width = 20
	}

	tr, ok := r.renderers[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			r.enabled = false
			return text
		}
		r.renderers[width] = tr
	}

	out, err := tr.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// PROJECT DETAIL
// =============================================================================

// ProjectDetail shows every field of the selected project.
type ProjectDetail struct {
	Project  model.Project
	Width    int
	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewProjectDetail creates a detail panel.
func NewProjectDetail(theme *styles.Theme, markdown *MarkdownRenderer) *ProjectDetail {
	return &ProjectDetail{Width: 80, theme: theme, markdown: markdown}
}

// View renders the panel.
func (d *ProjectDetail) View() string {
	p := d.Project
	width := clampInt(d.Width-4, 30, 100)

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return d.theme.FormLabel.Render(label) + value
	}

	status := lipgloss.NewStyle().
		Foreground(styles.StatusColor(p.Status)).
		Bold(true).
		Render(styles.StatusIndicator(p.Status) + " " + p.Status.Label())

	location := ""
	if loc, ok := p.Location(); ok {
		location = loc.String()
	}
	created := ""
	if !p.CreatedAt.IsZero() {
		created = p.CreatedAt.Local().Format("2006-01-02 15:04")
	}

	lines := []string{
		d.theme.Title.Render("#" + toStr(p.ID) + " " + p.Name),
		field("Status", status),
		field("Start", p.StartDate.String()),
		field("Finish", p.FinishDate.String()),
		field("Created", created),
		field("Location", location),
	}
	if p.Worker != 0 {
		lines = append(lines, field("Worker", toStr(p.Worker)))
	}
	lines = append(lines, "", d.markdown.Render(p.Description, width-4))

	return d.theme.FormBox.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
