// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes project lists to files.
//
// # Formats
//
//   - CSV: spreadsheet export matching the dashboard's "Export Projects" button
//   - JSON: the projects as returned by the API
//   - Markdown: a table for pasting into reports
//
// # Usage
//
//	path, err := export.ExportToFile(board.Displayed(), export.NewCSVExporter(nil), opts)
//	if errors.Is(err, export.ErrNoProjects) {
//	    // "No projects to export."
//	}
//
// Files are written atomically with 0600 permissions.
package export
