// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting against ergo.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/model"
)

// JSONResponse is the envelope every command prints with --json.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is when the response was generated (RFC 3339, UTC)
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := errorText(err)
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
func (r *JSONResponse) Print() error {
	return r.Write(os.Stdout)
}

// Write outputs the indented JSON response to w.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// RESPONSE DATA
// =============================================================================

// VersionData is the "version" payload.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// UserData is the "register" and "login" payload.
type UserData struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

func newUserData(u model.User) UserData {
	return UserData{ID: u.ID, Username: u.Username, Email: u.Email, Role: string(u.Role)}
}

// ProjectsData is the payload of the listing commands.
type ProjectsData struct {
	Term     string          `json:"term,omitempty"`
	Count    int             `json:"count"`
	Counts   map[string]int  `json:"counts"`
	Projects []model.Project `json:"projects"`
}

func newProjectsData(term string, projects []model.Project) ProjectsData {
	if projects == nil {
		projects = []model.Project{}
	}
	counts := model.CountStatuses(projects)
	byStatus := make(map[string]int, len(model.Statuses))
	for _, st := range model.Statuses {
		byStatus[string(st)] = counts.Get(st)
	}
	return ProjectsData{Term: term, Count: len(projects), Counts: byStatus, Projects: projects}
}

// ExportData is the "projects export" payload.
type ExportData struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Count  int    `json:"count"`
}

// JournalEntryData is one journal entry.
type JournalEntryData struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Username  string    `json:"username,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

func newJournalEntries(entries []journal.Entry) []JournalEntryData {
	out := make([]JournalEntryData, 0, len(entries))
	for _, e := range entries {
		out = append(out, JournalEntryData{
			ID:        e.ID,
			At:        e.At.UTC(),
			Type:      string(e.Type),
			SessionID: e.SessionID,
			Username:  e.Username,
			Detail:    e.Detail,
		})
	}
	return out
}

// ConfigPathData is the "config path" payload.
type ConfigPathData struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}
