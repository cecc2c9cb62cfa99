// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package idle

import (
	"time"
)

// =============================================================================
// CAPABILITIES
// =============================================================================

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped a
	// callback that had not yet run.
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Event names an activity signal.
type Event string

// Activity signals observed by a Monitor.
const (
	EventPointerMove Event = "pointermove"
	EventKeyDown     Event = "keydown"
	EventScroll      Event = "scroll"
	EventTouchStart  Event = "touchstart"
)

// ActivityEvents is the fixed set of signals a Monitor subscribes to.
var ActivityEvents = []Event{EventPointerMove, EventKeyDown, EventScroll, EventTouchStart}

// ActivitySource delivers activity signals to subscribers.
type ActivitySource interface {
	Subscribe(event Event, handler func()) (unsubscribe func())
}

// =============================================================================
// STATE
// =============================================================================

// State is the observable state of a Monitor.
type State int

const (
	// StateWatching means the idle timer (and the warning timer, if any) is pending.
	StateWatching State = iota
	// StateWarned means the warning fired and the idle timer is still pending.
	StateWarned
	// StateExpired means the idle callback fired for the current period.
	StateExpired
	// StateDestroyed means the monitor was torn down.
	StateDestroyed
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateWatching:
		return "WATCHING"
	case StateWarned:
		return "WARNED"
	case StateExpired:
		return "EXPIRED"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// =============================================================================
// MONITOR
// =============================================================================

// Config configures a Monitor. It is fixed for the monitor's lifetime; to
// change timings, Stop the monitor and create a new one.
type Config struct {
	// IdleTimeout is the inactivity period before OnIdle fires.
	IdleTimeout time.Duration

	// WarningLead is how long before OnIdle the OnWarning callback fires.
	// Zero or negative disables the warning.
	WarningLead time.Duration

	// OnIdle is invoked once per idle period.
	OnIdle func()

	// OnWarning is invoked once per idle period, WarningLead before OnIdle.
	OnWarning func()
}

// HasWarning reports whether a warning timer is armed on each reset.
func (c Config) HasWarning() bool {
	return c.OnWarning != nil && c.WarningLead > 0
}

// warningDelay returns the delay from reset to the warning. A lead at or
// beyond the timeout fires the warning immediately.
func (c Config) warningDelay() time.Duration {
	d := c.IdleTimeout - c.WarningLead
	if d < 0 {
		return 0
	}
	return d
}

func (c Config) idleDelay() time.Duration {
	if c.IdleTimeout < 0 {
		return 0
	}
	return c.IdleTimeout
}

// Monitor detects a continuous absence of activity and signals its owner.
type Monitor struct {
	cfg   Config
	clock Clock

	state   State
	armedAt time.Time

	// gen identifies the current idle period. Timer callbacks carry the
	// generation they were armed in and are ignored once it has moved on.
	gen uint64

	warningTimer Timer
	idleTimer    Timer

	unsubscribe []func()
}

// New creates a Monitor, subscribes it to every ActivityEvents signal on
// source and arms its timers. Construction counts as the first activity.
func New(cfg Config, clock Clock, source ActivitySource) *Monitor {
	m := &Monitor{
		cfg:   cfg,
		clock: clock,
	}

	if source != nil {
		for _, ev := range ActivityEvents {
			m.unsubscribe = append(m.unsubscribe, source.Subscribe(ev, m.Reset))
		}
	}

	m.arm()
	return m
}

// Reset cancels any pending timers and re-arms them from now.
// It has no effect once the monitor has been stopped.
func (m *Monitor) Reset() {
	if m.state == StateDestroyed {
		return
	}
	m.arm()
}

// Stop tears the monitor down: pending timers are cancelled and every
// activity subscription is removed. No callback runs after Stop returns.
// Calling Stop more than once has no further effect.
func (m *Monitor) Stop() {
	if m.state == StateDestroyed {
		return
	}
	m.cancelTimers()
	m.gen++
	m.state = StateDestroyed

	unsubs := m.unsubscribe
	m.unsubscribe = nil
	for _, unsub := range unsubs {
		if unsub != nil {
			unsub()
		}
	}
}

// State returns the current state.
func (m *Monitor) State() State {
	return m.state
}

// ArmedAt returns when the current idle period started.
func (m *Monitor) ArmedAt() time.Time {
	return m.armedAt
}

// Timeout returns the configured idle timeout.
func (m *Monitor) Timeout() time.Duration {
	return m.cfg.IdleTimeout
}

// Remaining returns the time left before OnIdle fires.
// Returns 0 once the period has expired or the monitor is stopped.
func (m *Monitor) Remaining() time.Duration {
	if m.state == StateExpired || m.state == StateDestroyed {
		return 0
	}
	remaining := m.cfg.idleDelay() - m.clock.Now().Sub(m.armedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// arm starts a new idle period.
func (m *Monitor) arm() {
	m.cancelTimers()
	m.gen++
	gen := m.gen

	m.state = StateWatching
	m.armedAt = m.clock.Now()

	if m.cfg.HasWarning() {
		m.warningTimer = m.clock.AfterFunc(m.cfg.warningDelay(), func() {
			m.fireWarning(gen)
		})
	}
	m.idleTimer = m.clock.AfterFunc(m.cfg.idleDelay(), func() {
		m.fireIdle(gen)
	})
}

func (m *Monitor) cancelTimers() {
	if m.warningTimer != nil {
		m.warningTimer.Stop()
		m.warningTimer = nil
	}
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
}

func (m *Monitor) fireWarning(gen uint64) {
	if gen != m.gen || m.state != StateWatching {
		return
	}
	m.warningTimer = nil
	m.state = StateWarned
	if m.cfg.OnWarning != nil {
		m.cfg.OnWarning()
	}
}

func (m *Monitor) fireIdle(gen uint64) {
	if gen != m.gen || (m.state != StateWatching && m.state != StateWarned) {
		return
	}
	// A warning due at the same instant is dropped; the period is over.
	m.cancelTimers()
	m.state = StateExpired
	if m.cfg.OnIdle != nil {
		m.cfg.OnIdle()
	}
}
