// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// CREATE PROJECT FORM
// =============================================================================

// createForm is the new-project form with an optional picked location.
type createForm struct {
	*form
	location    model.Location
	hasLocation bool
}

func newCreateForm(theme *styles.Theme) *createForm {
	return &createForm{form: newForm(theme, "New project",
		&field{key: "name", label: "Name", input: newLine("Project name", 255, false)},
		&field{key: "description", label: "Description", input: newArea("What is the project about? Markdown is fine.")},
		&field{key: "start_date", label: "Start date", input: newLine("YYYY-MM-DD", 10, false)},
		&field{key: "finish_date", label: "Finish date", input: newLine("YYYY-MM-DD", 10, false)},
	)}
}

// input builds the payload. Date parse failures are reported as field
// errors alongside the usual validation.
func (c *createForm) input() (model.ProjectInput, error) {
	in := model.ProjectInput{
		Name:        strings.TrimSpace(c.value("name")),
		Description: strings.TrimSpace(c.value("description")),
	}
	if c.hasLocation {
		in.SetLocation(c.location)
	}

	var errs model.InputErrors
	var err error
	if in.StartDate, err = model.ParseDate(c.value("start_date")); err != nil {
		errs = append(errs, model.InputError{Field: "start_date", Message: err.Error()})
	}
	if in.FinishDate, err = model.ParseDate(c.value("finish_date")); err != nil {
		errs = append(errs, model.InputError{Field: "finish_date", Message: err.Error()})
	}

	if verr := in.Validate(); verr != nil {
		if ve, ok := verr.(model.InputErrors); ok {
			for _, e := range ve {
				if errs.Field(e.Field) == "" {
					errs = append(errs, e)
				}
			}
		}
	}
	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

func (c *createForm) locationLine() string {
	label := c.theme.FormLabel.Render("Location")
	if !c.hasLocation {
		return label + c.theme.Subtle.Render("none (ctrl+p to pick)")
	}
	return label + c.location.String()
}

func (c *createForm) view() string {
	hint := "Create (ctrl+s)"
	if c.submitting {
		hint = "Creating..."
	}
	return c.form.view(hint, c.locationLine())
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) openCreate() tea.Cmd {
	m.create = newCreateForm(m.theme)
	m.mode = modeCreate
	m.refreshChrome()
	return m.create.focusOn(0)
}

func (m *Model) updateCreate(msg tea.KeyMsg) tea.Cmd {
	c := m.create
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.create = nil
		m.mode = modeList
		m.refreshChrome()
		return nil

	case key.Matches(msg, m.keys.Location):
		start := model.Location{}
		if c.hasLocation {
			start = c.location
		}
		m.picker = components.NewLocationPicker(m.theme, start)
		m.mode = modeLocation
		m.refreshChrome()
		return nil

	case msg.String() == "ctrl+s":
		return m.submitCreate()

	case msg.Type == tea.KeyTab:
		return c.next()

	case msg.Type == tea.KeyShiftTab:
		return c.prev()

	case msg.Type == tea.KeyEnter:
		// Enter adds a newline in the description; elsewhere it moves on
		// and submits from the last date.
		if c.focused().key == "description" {
			return c.update(msg)
		}
		if c.focused().key == "finish_date" {
			return m.submitCreate()
		}
		return c.next()
	}
	return c.update(msg)
}

func (m *Model) submitCreate() tea.Cmd {
	c := m.create
	if c == nil || c.submitting {
		return nil
	}
	in, err := c.input()
	if err != nil {
		c.setError(err)
		return nil
	}
	c.clearErrors()
	c.submitting = true
	m.statusBar.Status = components.StatusSaving
	return tea.Batch(m.createCmd(in), m.spinner.Tick)
}

func (m *Model) handleCreated(msg projectCreatedMsg) tea.Cmd {
	if msg.err != nil {
		m.statusBar.Status = components.StatusError
		if m.create != nil {
			m.create.setError(msg.err)
		}
		return nil
	}

	m.board.Upsert(*msg.project)
	m.statusBar.Status = components.StatusReady
	m.create = nil
	if m.mode == modeCreate || m.mode == modeLocation {
		m.mode = modeList
	}
	m.refreshChrome()
	m.toasts.AddSuccess("Created project " + msg.project.Name)
	return m.startToasts()
}

// =============================================================================
// LOCATION PICKER
// =============================================================================

func (m *Model) updatePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return cmd
}

func (m *Model) handlePicked(msg tea.Msg) {
	if m.create == nil {
		m.mode = modeList
		return
	}
	switch msg := msg.(type) {
	case components.LocationPickedMsg:
		m.create.location = msg.Location
		m.create.hasLocation = true
	case components.LocationClearedMsg:
		m.create.hasLocation = false
	}
	m.mode = modeCreate
	m.refreshChrome()
}
