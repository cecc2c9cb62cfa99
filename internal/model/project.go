// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// PROJECT STATUS
// =============================================================================

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "PENDING"
	StatusInProgress ProjectStatus = "IN_PROGRESS"
	StatusCompleted  ProjectStatus = "COMPLETED"
)

// Statuses lists every known status in display order.
var Statuses = []ProjectStatus{StatusPending, StatusInProgress, StatusCompleted}

// ErrUnknownStatus is returned by ParseStatus for unrecognised values.
var ErrUnknownStatus = errors.New("unknown project status")

var statusTitle = cases.Title(language.English)

// ParseStatus parses a status name. Case, spaces and dashes are tolerated
// ("in progress", "in-progress", "IN_PROGRESS").
func ParseStatus(s string) (ProjectStatus, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, st := range Statuses {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Next returns the status a toggle moves to: completed projects go back to
// in progress, everything else is marked completed.
func (s ProjectStatus) Next() ProjectStatus {
	if s == StatusCompleted {
		return StatusInProgress
	}
	return StatusCompleted
}

// Label returns a human-readable label ("In Progress").
func (s ProjectStatus) Label() string {
	if s == "" {
		return "Unknown"
	}
	return statusTitle.String(strings.ReplaceAll(strings.ToLower(string(s)), "_", " "))
}

// =============================================================================
// PROJECT
// =============================================================================

// Project is a tracked project as returned by the backend.
type Project struct {
	ID          int           `json:"id"`
	Worker      int           `json:"worker,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	StartDate   Date          `json:"start_date"`
	FinishDate  Date          `json:"finish_date"`
	Status      ProjectStatus `json:"status"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
}

// Location returns the project's map location, if one was picked.
func (p Project) Location() (Location, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Location{}, false
	}
	return Location{Lat: *p.Latitude, Lon: *p.Longitude}, true
}

// Location is a point picked on the map.
type Location struct {
	Lat float64
	Lon float64
}

// Valid reports whether the coordinates are within range.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// String formats the location with five decimals (about a metre).
func (l Location) String() string {
	return fmt.Sprintf("%.5f, %.5f", l.Lat, l.Lon)
}

// =============================================================================
// PROJECT INPUT
// =============================================================================

// ProjectInput is the create-project payload.
type ProjectInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StartDate   Date     `json:"start_date"`
	FinishDate  Date     `json:"finish_date"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// SetLocation attaches a picked location.
func (in *ProjectInput) SetLocation(l Location) {
	lat, lon := l.Lat, l.Lon
	in.Latitude = &lat
	in.Longitude = &lon
}

// InputError describes one invalid form field.
type InputError struct {
	Field   string
	Message string
}

func (e InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InputErrors collects every invalid field of a form.
type InputErrors []InputError

func (e InputErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for field, or "" when it is valid.
func (e InputErrors) Field(field string) string {
	for _, err := range e {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

// Validate checks the form the same way the create button does: name,
// description and both dates are required and the finish date must fall
// after the start date.
func (in ProjectInput) Validate() error {
	var errs InputErrors

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, InputError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, InputError{Field: "description", Message: "is required"})
	}
	if in.StartDate.IsZero() {
		errs = append(errs, InputError{Field: "start_date", Message: "is required"})
	}
	if in.FinishDate.IsZero() {
		errs = append(errs, InputError{Field: "finish_date", Message: "is required"})
	}
	if !in.StartDate.IsZero() && !in.FinishDate.IsZero() && !in.FinishDate.After(in.StartDate) {
		errs = append(errs, InputError{Field: "finish_date", Message: "finish date must be after start date"})
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		errs = append(errs, InputError{Field: "location", Message: "latitude and longitude must be set together"})
	} else if in.Latitude != nil && !(Location{Lat: *in.Latitude, Lon: *in.Longitude}).Valid() {
		errs = append(errs, InputError{Field: "location", Message: "coordinates out of range"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// STATUS COUNTS
// =============================================================================

// StatusCounts holds per-status totals.
type StatusCounts struct {
	Pending    int
	InProgress int
	Completed  int
}

// CountStatuses tallies projects by status. Unknown statuses are ignored.
func CountStatuses(projects []Project) StatusCounts {
	var c StatusCounts
	for _, p := range projects {
		switch p.Status {
		case StatusPending:
			c.Pending++
		case StatusInProgress:
			c.InProgress++
		case StatusCompleted:
			c.Completed++
		}
	}
	return c
}

// Get returns the count for status.
func (c StatusCounts) Get(status ProjectStatus) int {
	switch status {
	case StatusPending:
		return c.Pending
	case StatusInProgress:
		return c.InProgress
	case StatusCompleted:
		return c.Completed
	}
	return 0
}

// Total returns the number of counted projects.
func (c StatusCounts) Total() int {
	return c.Pending + c.InProgress + c.Completed
}
