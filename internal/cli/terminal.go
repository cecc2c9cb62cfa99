// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - What the ergo commands can assume about the terminal.
//
// Prompts need a terminal on stdin. Colors need one on stdout, unless
// FORCE_COLOR is set; NO_COLOR and TERM=dumb turn them off.

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// fallbackWidth is used when stdout is not a terminal.
	fallbackWidth = 80

	// minTableWidth keeps project tables readable on narrow terminals.
	minTableWidth = 40
)

// IsTTY reports whether stdin is a terminal, i.e. whether ergo may prompt.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// GetTerminalWidth returns the stdout width used to size project tables.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil || width <= 0:
		return fallbackWidth
	case width < minTableWidth:
		return minTableWidth
	}
	return width
}

var colorsOnce = sync.OnceValue(detectColors)

// ColorsEnabled reports whether command output is colored. The answer is
// fixed for the life of the process.
func ColorsEnabled() bool {
	return colorsOnce()
}

func detectColors() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetColorProfile returns the lipgloss profile for command output.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// RequiresTTY returns a TTYRequiredError when stdin is not a terminal.
func RequiresTTY(operation string) error {
	if IsTTY() {
		return nil
	}
	return &TTYRequiredError{Operation: operation}
}

// TTYRequiredError means an operation needs to prompt but cannot, for
// example a password read in a pipeline. Pass --password instead.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation == "" {
		return "stdin is not a terminal"
	}
	return "cannot " + e.Operation + ": stdin is not a terminal (use flags instead)"
}
