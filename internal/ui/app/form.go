// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
)

// =============================================================================
// FIELD INPUTS
// =============================================================================

// fieldInput is the part of textinput and textarea a form needs.
type fieldInput interface {
	Value() string
	SetValue(string)
	Focus() tea.Cmd
	Blur()
	View() string
	update(tea.Msg) (fieldInput, tea.Cmd)
}

type lineInput struct{ textinput.Model }

func (l *lineInput) update(msg tea.Msg) (fieldInput, tea.Cmd) {
	var cmd tea.Cmd
	l.Model, cmd = l.Model.Update(msg)
	return l, cmd
}

type areaInput struct{ textarea.Model }

func (a *areaInput) update(msg tea.Msg) (fieldInput, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

func newLine(placeholder string, limit int, secret bool) *lineInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return &lineInput{ti}
}

func newArea(placeholder string) *areaInput {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(40)
	ta.SetHeight(4)
	ta.Prompt = ""
	return &areaInput{ta}
}

// =============================================================================
// FORM
// =============================================================================

type field struct {
	key   string
	label string
	input fieldInput
	err   string
}

// form is a vertical list of labelled inputs with per-field errors and one
// form-level error line.
type form struct {
	title      string
	fields     []*field
	focus      int
	err        string
	submitting bool
	theme      *styles.Theme
}

func newForm(theme *styles.Theme, title string, fields ...*field) *form {
	f := &form{title: title, fields: fields, theme: theme}
	if len(fields) > 0 {
		fields[0].input.Focus()
	}
	return f
}

func (f *form) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.input.Value()
		}
	}
	return ""
}

func (f *form) set(key, value string) {
	for _, fl := range f.fields {
		if fl.key == key {
			fl.input.SetValue(value)
		}
	}
}

func (f *form) focused() *field {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return nil
	}
	return f.fields[f.focus]
}

// focusOn moves the cursor to field i, wrapping at either end.
func (f *form) focusOn(i int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	i = ((i % n) + n) % n
	f.fields[f.focus].input.Blur()
	f.focus = i
	return f.fields[i].input.Focus()
}

func (f *form) next() tea.Cmd { return f.focusOn(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.focusOn(f.focus - 1) }

// onLast reports whether the cursor is on the last field.
func (f *form) onLast() bool { return f.focus == len(f.fields)-1 }

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	fl := f.focused()
	if fl == nil {
		return nil
	}
	var cmd tea.Cmd
	fl.input, cmd = fl.input.update(msg)
	return cmd
}

func (f *form) clearErrors() {
	f.err = ""
	for _, fl := range f.fields {
		fl.err = ""
	}
}

// setError shows err on the form. Client validation errors and backend field
// errors land under the matching field; anything else becomes the form error.
func (f *form) setError(err error) {
	f.clearErrors()
	f.submitting = false
	if err == nil {
		return
	}

	var inputErrs model.InputErrors
	if errors.As(err, &inputErrs) {
		for _, ie := range inputErrs {
			if !f.setFieldError(ie.Field, ie.Message) {
				f.appendFormError(ie.Error())
			}
		}
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		matched := false
		for name := range apiErr.Fields {
			if f.setFieldError(name, apiErr.Field(name)) {
				matched = true
			}
		}
		if !matched || apiErr.Detail != "" {
			f.err = apiErr.Message()
		}
		return
	}

	f.err = api.Message(err)
}

func (f *form) setFieldError(key, msg string) bool {
	for _, fl := range f.fields {
		if fl.key == key {
			fl.err = msg
			return true
		}
	}
	return false
}

func (f *form) appendFormError(msg string) {
	if f.err != "" {
		f.err += "; "
	}
	f.err += msg
}

func (f *form) fieldErr(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.err
		}
	}
	return ""
}

// view renders the form; extra lines are placed under the fields.
func (f *form) view(hint string, extra ...string) string {
	lines := []string{f.theme.Title.Render(f.title)}
	for i, fl := range f.fields {
		label := f.theme.FormLabel
		if i == f.focus {
			label = f.theme.FormLabelOn
		}
		input := fl.input.View()
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(fl.label), input))
		if fl.err != "" {
			lines = append(lines, f.theme.FieldError.Render(strings.Repeat(" ", 14)+fl.err))
		}
	}
	lines = append(lines, extra...)
	lines = append(lines, "")

	if f.err != "" {
		lines = append(lines, f.theme.ErrorStyle.Render(styles.StatusIndicators.Error+" "+f.err))
	}
	button := f.theme.Button
	if f.submitting {
		button = f.theme.ButtonActive
	}
	lines = append(lines, button.Render(hint))
	return f.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
