// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ergo-tui/internal/model"
)

func utcOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Location = time.UTC
	return opts
}

func sampleProjects(t *testing.T) []model.Project {
	t.Helper()
	start, err := model.ParseDate("2025-03-01")
	require.NoError(t, err)
	finish, err := model.ParseDate("2025-06-30")
	require.NoError(t, err)

	return []model.Project{
		{
			ID:          1,
			Name:        `Bridge "North"`,
			Description: "Steel, footbridge",
			Status:      model.StatusInProgress,
			StartDate:   start,
			FinishDate:  finish,
			CreatedAt:   time.Date(2025, 2, 20, 14, 5, 9, 0, time.UTC),
		},
		{
			ID:        2,
			Name:      "Tunnel",
			Status:    model.StatusPending,
			CreatedAt: time.Date(2025, 2, 21, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestCSVExporter_Format(t *testing.T) {
	out, err := NewCSVExporter(utcOptions(t.TempDir())).Export(sampleProjects(t))
	require.NoError(t, err)

	want := "ID,Name,Description,Status,Start Date,Finish Date,Created At\n" +
		`"1","Bridge ""North""","Steel, footbridge","IN_PROGRESS","2025-03-01","2025-06-30","2025-02-20 14:05:09"` + "\n" +
		`"2","Tunnel","","PENDING","","","2025-02-21 08:00:00"`
	assert.Equal(t, want, string(out))
}

func TestExporters_RejectEmpty(t *testing.T) {
	for _, e := range []Exporter{NewCSVExporter(nil), NewJSONExporter(nil), NewMarkdownExporter(nil)} {
		_, err := e.Export(nil)
		assert.ErrorIs(t, err, ErrNoProjects)
	}
	assert.Equal(t, "No projects to export.", ErrNoProjects.Error())
}

func TestJSONExporter_RoundTrips(t *testing.T) {
	projects := sampleProjects(t)
	out, err := NewJSONExporter(nil).Export(projects)
	require.NoError(t, err)

	var decoded []model.Project
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, projects[0].Name, decoded[0].Name)
	assert.Equal(t, "2025-03-01", decoded[0].StartDate.String())
	assert.True(t, decoded[1].StartDate.IsZero())
}

func TestMarkdownExporter(t *testing.T) {
	opts := utcOptions(t.TempDir())
	out, err := NewMarkdownExporter(opts).Export(sampleProjects(t))
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: Projects\nprojects: 2\n"))
	assert.Contains(t, md, "- **In Progress**: 1\n")
	assert.Contains(t, md, "- **Pending**: 1\n")
	assert.Contains(t, md, "| ID | Name | Description | Status | Start Date | Finish Date | Created At |")
	assert.Contains(t, md, `| 2 | Tunnel |  | Pending |  |  | 2025-02-21 08:00:00 |`)

	opts.IncludeMetadata = false
	out, err = NewMarkdownExporter(opts).Export(sampleProjects(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# Projects"))
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a \| b<br>c`, escapeCell("a | b\nc"))
	assert.Equal(t, `\*bold\*`, escapeCell("*bold*"))
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportToFile(sampleProjects(t), NewCSVExporter(nil), utcOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "projects.csv"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID,Name,"))
}

func TestExportToFile_NoProjectsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportToFile(nil, NewCSVExporter(nil), utcOptions(dir))
	require.True(t, errors.Is(err, ErrNoProjects))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"", ".csv"},
		{"CSV", ".csv"},
		{"json", ".json"},
		{"markdown", ".md"},
		{" md ", ".md"},
	}
	for _, tt := range tests {
		e, err := ForFormat(tt.format, nil)
		require.NoError(t, err, tt.format)
		assert.Equal(t, tt.ext, e.FileExtension())
	}

	_, err := ForFormat("xlsx", nil)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "projects", sanitizeFilename("  "))
	assert.Equal(t, "q1-report_final", sanitizeFilename("q1/report final"))
	assert.Equal(t, 50, len([]rune(sanitizeFilename(strings.Repeat("x", 80)))))
}
