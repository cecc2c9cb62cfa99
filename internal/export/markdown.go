// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/ergo-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports projects as a Markdown report.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts projects to a Markdown table with a status summary.
func (e *MarkdownExporter) Export(projects []model.Project) ([]byte, error) {
	if len(projects) == 0 {
		return nil, ErrNoProjects
	}

	loc := e.options.location()
	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString("title: Projects\n")
		sb.WriteString(fmt.Sprintf("projects: %d\n", len(projects)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().In(loc).Format(time.RFC3339)))
		sb.WriteString("generator: ergo\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# Projects\n\n")

	counts := model.CountStatuses(projects)
	sb.WriteString("## Status Overview\n\n")
	for _, st := range model.Statuses {
		sb.WriteString(fmt.Sprintf("- **%s**: %d\n", st.Label(), counts.Get(st)))
	}
	sb.WriteString("\n")

	sb.WriteString("| " + strings.Join(CSVColumns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(CSVColumns)) + "\n")
	for _, p := range projects {
		cells := []string{
			fmt.Sprintf("%d", p.ID),
			escapeCell(p.Name),
			escapeCell(p.Description),
			p.Status.Label(),
			formatDate(p.StartDate),
			formatDate(p.FinishDate),
			formatTimestamp(p.CreatedAt, loc),
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeCell keeps text from breaking a table row.
func escapeCell(s string) string {
	s = escapeMarkdown(s)
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return s
}

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}
