// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ergo-tui/internal/idle"
	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/session"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
)

// =============================================================================
// IDLE MONITOR LIFECYCLE
// =============================================================================

// mountMonitor starts watching for inactivity with the configured timings.
// Any previous monitor is torn down first.
func (m *Model) mountMonitor() tea.Cmd {
	m.unmountMonitor()

	m.monitor = idle.New(idle.Config{
		IdleTimeout: m.cfg.Session.IdleTimeout(),
		WarningLead: m.cfg.Session.WarningLead(),
		OnIdle:      m.onIdle,
		OnWarning:   m.onWarning,
	}, m.clock, m.hub)

	m.tickGen++
	m.refreshSessionClock()
	return tickCmd(m.tickGen)
}

// unmountMonitor stops the monitor. No idle callback runs afterwards.
func (m *Model) unmountMonitor() {
	if m.monitor == nil {
		return
	}
	m.monitor.Stop()
	m.monitor = nil
	m.statusBar.IdleLeft = 0
}

// onWarning runs WarningLead before the idle logout.
func (m *Model) onWarning() {
	remaining := time.Duration(0)
	if m.monitor != nil {
		remaining = m.monitor.Remaining()
	}
	m.overlay.SetSize(m.width, m.height)
	m.overlay.ShowWarning(remaining)
	m.statusBar.Status = components.StatusIdle
	m.record(journal.TypeIdleWarning, "remaining="+session.FormatDuration(remaining))
}

// onIdle logs the user out after the idle timeout and returns to the login
// view with the expired notice shown.
func (m *Model) onIdle() {
	var idleFor time.Duration
	if m.monitor != nil {
		idleFor = m.monitor.Timeout()
	}
	m.record(journal.TypeIdleLogout, "idle="+session.FormatDuration(idleFor))
	m.endSession()

	m.overlay.SetSize(m.width, m.height)
	m.overlay.ShowExpired()
	m.toasts.AddStatus("Logged out due to inactivity")
	m.queue(m.startToasts())
}

// extendSession hides the warning once activity has re-armed the monitor.
func (m *Model) extendSession() {
	m.overlay.Hide()
	m.statusBar.Status = components.StatusReady
	remaining := time.Duration(0)
	if m.monitor != nil {
		remaining = m.monitor.Remaining()
	}
	m.record(journal.TypeSessionExtended, "remaining="+session.FormatDuration(remaining))
	m.refreshSessionClock()
}

// handleActivity feeds terminal input to the hub. It reports whether msg
// was consumed by the session overlay.
func (m *Model) handleActivity(msg tea.Msg) bool {
	event, ok := idle.EventForMsg(msg)
	if !ok {
		return false
	}

	if m.overlay.IsExpired() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			m.overlay.Hide()
			return true
		}
		return false
	}

	m.hub.Emit(event)

	if m.overlay.IsWarning() && m.monitor != nil && m.monitor.State() == idle.StateWatching {
		m.extendSession()
		_, isKey := msg.(tea.KeyMsg)
		return isKey
	}
	return false
}

// handleTimer runs a monitor timer delivered by the TeaClock.
func (m *Model) handleTimer(msg idle.TimerMsg) {
	if tc, ok := m.clock.(*idle.TeaClock); ok {
		tc.Deliver(msg)
	}
}

// =============================================================================
// SESSION CLOCK
// =============================================================================

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen != m.tickGen || m.monitor == nil {
		return nil
	}
	m.refreshSessionClock()
	return tickCmd(msg.gen)
}

// refreshSessionClock updates the status bar and the warning countdown.
func (m *Model) refreshSessionClock() {
	m.statusBar.Session = m.session.Status().Duration
	if m.monitor == nil {
		m.statusBar.IdleLeft = 0
		return
	}
	remaining := m.monitor.Remaining()
	m.statusBar.IdleLeft = remaining
	if m.overlay.IsWarning() {
		m.overlay.UpdateTime(remaining)
	}
}

// =============================================================================
// JOURNAL
// =============================================================================

// record writes a session event to the journal, or to the log when no
// journal is open.
func (m *Model) record(typ journal.Type, detail string) {
	st := m.session.Status()
	entry := journal.Entry{
		Type:      typ,
		SessionID: st.SessionID,
		Username:  st.Username,
		Detail:    detail,
	}
	if m.journal == nil {
		entry.At = time.Now()
		log.Print(entry.String())
		return
	}

	ctx, cancel := context.WithTimeout(m.ctx, 2*time.Second)
	defer cancel()
	if _, err := m.journal.Record(ctx, entry); err != nil {
		log.Printf("journal: %v", err)
	}
}
