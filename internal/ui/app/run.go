// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/idle"
)

// programOptions sets up the terminal for the dashboards. All-motion mouse
// reporting is required for pointer movement to count as activity; cell
// motion only reports drags.
func programOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	clock := idle.NewTeaClock(nil)
	opts.Clock = clock

	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, programOptions()...)

	// Timers and background callbacks reach the model only as messages.
	clock.SetSender(p.Send)
	if opts.Client != nil {
		opts.Client.OnRefresh(func(access string) {
			p.Send(TokenRefreshedMsg{Access: access})
		})
	}

	if opts.ConfigPath != "" {
		w, err := config.Watch(m.ctx, opts.ConfigPath, func(cfg *config.Config, err error) {
			p.Send(ConfigChangedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			log.Printf("config watch disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running ergo: %w", err)
	}
	return nil
}
