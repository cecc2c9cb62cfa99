// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package projects

import (
	"strings"
	"time"

	"github.com/jeranaias/ergo-tui/internal/model"
)

const (
	// DefaultPageSize is the number of projects per page.
	DefaultPageSize = 4

	// DefaultSearchDebounce is how long live search waits after a keystroke.
	DefaultSearchDebounce = 400 * time.Millisecond
)

// Board is the dashboard's project list.
type Board struct {
	projects []model.Project
	results  []model.Project
	term     string
	page     int
	pageSize int

	// Loading and Err track the list fetch; Searching and SearchErr the
	// live search.
	Loading   bool
	Err       string
	Searching bool
	SearchErr string
}

// NewBoard returns an empty board. pageSize <= 0 uses DefaultPageSize.
func NewBoard(pageSize int) *Board {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Board{page: 1, pageSize: pageSize}
}

// =============================================================================
// FETCH
// =============================================================================

// BeginFetch marks a list fetch as in flight.
func (b *Board) BeginFetch() {
	b.Loading = true
	b.Err = ""
}

// FetchFailed ends the fetch with an error message.
func (b *Board) FetchFailed(msg string) {
	b.Loading = false
	b.Err = msg
}

// SetProjects replaces the fetched list.
func (b *Board) SetProjects(ps []model.Project) {
	b.Loading = false
	b.projects = append([]model.Project(nil), ps...)
	b.clampPage()
}

// Projects returns every fetched project.
func (b *Board) Projects() []model.Project {
	return b.projects
}

// Upsert replaces a project with the same ID or appends it, in both the
// fetched list and the search results.
func (b *Board) Upsert(p model.Project) {
	if !replace(b.projects, p) {
		b.projects = append(b.projects, p)
	}
	replace(b.results, p)
}

// Remove drops a project by ID. It reports whether it was present.
func (b *Board) Remove(id int) bool {
	var found bool
	b.projects, found = without(b.projects, id)
	b.results, _ = without(b.results, id)
	b.clampPage()
	return found
}

// Find returns the project with the given ID.
func (b *Board) Find(id int) (model.Project, bool) {
	for _, p := range b.projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func replace(list []model.Project, p model.Project) bool {
	for i := range list {
		if list[i].ID == p.ID {
			list[i] = p
			return true
		}
	}
	return false
}

func without(list []model.Project, id int) ([]model.Project, bool) {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

// =============================================================================
// SEARCH
// =============================================================================

// SetTerm updates the search term and returns to the first page. The
// caller debounces and then calls ShouldSearch before querying.
func (b *Board) SetTerm(term string) {
	if term == b.term {
		return
	}
	b.term = term
	b.page = 1
}

// Term returns the current search term.
func (b *Board) Term() string {
	return b.term
}

// ShouldSearch reports whether the debounced term needs a backend query.
// A blank term clears the search instead.
func (b *Board) ShouldSearch() bool {
	if strings.TrimSpace(b.term) == "" {
		b.ClearSearch()
		return false
	}
	b.Searching = true
	b.SearchErr = ""
	return true
}

// SetResults stores results for term. Results for a term that is no longer
// current are dropped and SetResults returns false.
func (b *Board) SetResults(term string, ps []model.Project) bool {
	if term != b.term {
		return false
	}
	b.Searching = false
	b.results = append([]model.Project(nil), ps...)
	b.clampPage()
	return true
}

// SearchFailed ends the search for term with an error message.
func (b *Board) SearchFailed(term, msg string) {
	if term != b.term {
		return
	}
	b.Searching = false
	b.SearchErr = msg
}

// ClearSearch drops the search results and any search error.
func (b *Board) ClearSearch() {
	b.results = nil
	b.Searching = false
	b.SearchErr = ""
	b.clampPage()
}

// Results returns the current search results.
func (b *Board) Results() []model.Project {
	return b.results
}

// =============================================================================
// PAGINATION
// =============================================================================

// Displayed returns the search results if there are any, else all projects.
func (b *Board) Displayed() []model.Project {
	if len(b.results) > 0 {
		return b.results
	}
	return b.projects
}

// PageSize returns the number of projects per page.
func (b *Board) PageSize() int {
	return b.pageSize
}

// SetPageSize changes the page size and keeps the page in range.
// n <= 0 uses DefaultPageSize.
func (b *Board) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	b.pageSize = n
	b.clampPage()
}

// PageNum returns the 1-based current page.
func (b *Board) PageNum() int {
	return b.page
}

// TotalPages returns the page count for the displayed list (0 when empty).
func (b *Board) TotalPages() int {
	n := len(b.Displayed())
	return (n + b.pageSize - 1) / b.pageSize
}

// Page returns the displayed projects on the current page.
func (b *Board) Page() []model.Project {
	list := b.Displayed()
	start := (b.page - 1) * b.pageSize
	if start >= len(list) {
		return nil
	}
	end := start + b.pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// NextPage advances one page. It reports whether the page changed.
func (b *Board) NextPage() bool {
	if b.page >= b.TotalPages() {
		return false
	}
	b.page++
	return true
}

// PrevPage goes back one page. It reports whether the page changed.
func (b *Board) PrevPage() bool {
	if b.page <= 1 {
		return false
	}
	b.page--
	return true
}

func (b *Board) clampPage() {
	if total := b.TotalPages(); b.page > total {
		b.page = total
	}
	if b.page < 1 {
		b.page = 1
	}
}

// StatusCounts tallies the fetched projects by status.
func (b *Board) StatusCounts() model.StatusCounts {
	return model.CountStatuses(b.projects)
}
