// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strconv"
	"strings"

	"github.com/jeranaias/ergo-tui/internal/model"
)

// =============================================================================
// CSV EXPORTER
// =============================================================================

// CSVColumns is the CSV header row.
var CSVColumns = []string{"ID", "Name", "Description", "Status", "Start Date", "Finish Date", "Created At"}

// CSVExporter exports projects as CSV. The header is bare; every data
// field is double-quoted with embedded quotes doubled. Rows are separated
// by "\n" with no trailing newline.
type CSVExporter struct {
	options *Options
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(opts *Options) *CSVExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &CSVExporter{options: opts}
}

// Export converts projects to CSV.
func (e *CSVExporter) Export(projects []model.Project) ([]byte, error) {
	if len(projects) == 0 {
		return nil, ErrNoProjects
	}

	loc := e.options.location()
	var sb strings.Builder
	sb.WriteString(strings.Join(CSVColumns, ","))
	sb.WriteString("\n")

	for i, p := range projects {
		if i > 0 {
			sb.WriteString("\n")
		}
		fields := []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.Description,
			string(p.Status),
			formatDate(p.StartDate),
			formatDate(p.FinishDate),
			formatTimestamp(p.CreatedAt, loc),
		}
		for j, f := range fields {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(f))
		}
	}
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for CSV.
func (e *CSVExporter) FileExtension() string {
	return ".csv"
}

// MimeType returns the MIME type for CSV.
func (e *CSVExporter) MimeType() string {
	return "text/csv;charset=utf-8"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
