// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
	"github.com/jeranaias/ergo-tui/internal/util"
)

// =============================================================================
// LOCATION PICKER
// =============================================================================

// LocationPickedMsg is sent when the user confirms a location.
type LocationPickedMsg struct {
	Location model.Location
}

// LocationClearedMsg is sent when the user removes the location.
type LocationClearedMsg struct{}

// LocationCancelledMsg is sent when the picker is closed without a choice.
type LocationCancelledMsg struct{}

// pickerSteps are the zoom levels in degrees per grid cell.
var pickerSteps = []float64{10, 1, 0.1, 0.01}

const (
	pickerCols = 21
	pickerRows = 9
)

// LocationPicker lets the user move a cursor over a lat/lon grid and pick a
// point for a project. Arrow keys (or hjkl) move, +/- zoom, enter picks,
// x clears and esc cancels.
type LocationPicker struct {
	cursor model.Location
	zoom   int
	theme  *styles.Theme
}

// NewLocationPicker starts centred on start, or on 0,0 when start is invalid.
func NewLocationPicker(theme *styles.Theme, start model.Location) LocationPicker {
	if !start.Valid() {
		start = model.Location{}
	}
	return LocationPicker{cursor: start, zoom: 1, theme: theme}
}

// Location returns the cursor position.
func (p LocationPicker) Location() model.Location {
	return p.cursor
}

// Step returns the current degrees per grid cell.
func (p LocationPicker) Step() float64 {
	return pickerSteps[p.zoom]
}

// Move shifts the cursor by rows and cols grid cells. Latitude is clamped to
// ±90 and longitude wraps around the antimeridian.
func (p *LocationPicker) Move(rows, cols int) {
	step := p.Step()
	lat := p.cursor.Lat + float64(rows)*step
	lon := p.cursor.Lon + float64(cols)*step

	lat = math.Max(-90, math.Min(90, lat))
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	p.cursor = model.Location{Lat: round(lat, 5), Lon: round(lon, 5)}
}

// ZoomIn makes each grid cell smaller.
func (p *LocationPicker) ZoomIn() {
	if p.zoom < len(pickerSteps)-1 {
		p.zoom++
	}
}

// ZoomOut makes each grid cell larger.
func (p *LocationPicker) ZoomOut() {
	if p.zoom > 0 {
		p.zoom--
	}
}

// Update handles key presses.
func (p LocationPicker) Update(msg tea.Msg) (LocationPicker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "up", "k":
		p.Move(1, 0)
	case "down", "j":
		p.Move(-1, 0)
	case "left", "h":
		p.Move(0, -1)
	case "right", "l":
		p.Move(0, 1)
	case "+", "=":
		p.ZoomIn()
	case "-", "_":
		p.ZoomOut()
	case "enter":
		loc := p.cursor
		return p, func() tea.Msg { return LocationPickedMsg{Location: loc} }
	case "x", "delete", "backspace":
		return p, func() tea.Msg { return LocationClearedMsg{} }
	case "esc":
		return p, func() tea.Msg { return LocationCancelledMsg{} }
	}
	return p, nil
}

// View renders the grid around the cursor with the equator and prime
// meridian drawn when they are in view.
func (p LocationPicker) View() string {
	step := p.Step()
	var grid strings.Builder

	for r := pickerRows / 2; r >= -pickerRows/2; r-- {
		lat := p.cursor.Lat + float64(r)*step
		for c := -pickerCols / 2; c <= pickerCols/2; c++ {
			lon := p.cursor.Lon + float64(c)*step
			grid.WriteString(p.cell(r, c, lat, lon, step))
		}
		if r > -pickerRows/2 {
			grid.WriteByte('\n')
		}
	}

	title := p.theme.Title.Render("Pick a location")
	coords := p.theme.InfoStyle.Render(p.cursor.String())
	scale := p.theme.Subtle.Render(util.FloatToStringPrec(step, 2) + " deg per cell")
	hint := p.theme.Subtle.Render("arrows move  +/- zoom  enter pick  x clear  esc cancel")

	return p.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		title, grid.String(), "", coords+"  "+scale, hint))
}

func (p LocationPicker) cell(r, c int, lat, lon, step float64) string {
	if r == 0 && c == 0 {
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true).Render("+")
	}
	if lat > 90 || lat < -90 {
		return " "
	}
	half := step / 2
	onEquator := math.Abs(lat) < half
	onMeridian := math.Abs(lon) < half || math.Abs(math.Abs(lon)-360) < half
	switch {
	case onEquator && onMeridian:
		return p.theme.Subtle.Render("o")
	case onEquator:
		return p.theme.Subtle.Render("-")
	case onMeridian:
		return p.theme.Subtle.Render("|")
	}
	return p.theme.Subtle.Render(".")
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
