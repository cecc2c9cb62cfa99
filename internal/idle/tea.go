// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package idle

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA CLOCK
// =============================================================================

// TimerMsg is delivered to the Bubble Tea program when a TeaClock timer
// elapses. Pass it to TeaClock.Deliver from Update.
type TimerMsg struct {
	clock *TeaClock
	id    uint64
}

// TeaClock is a Clock whose callbacks run inside a Bubble Tea Update loop.
// Expiry is posted to the program as a TimerMsg; the callback itself runs
// when Update hands the message back through Deliver, so it is serialized
// with every other message the program handles.
type TeaClock struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	nextID  uint64
	pending map[uint64]*teaTimer
	now     func() time.Time
}

type teaTimer struct {
	clock *TeaClock
	id    uint64
	fn    func()
	timer *time.Timer
}

// NewTeaClock creates a TeaClock. send is usually (*tea.Program).Send and may
// be bound later with SetSender.
func NewTeaClock(send func(tea.Msg)) *TeaClock {
	return &TeaClock{
		send:    send,
		pending: make(map[uint64]*teaTimer),
		now:     time.Now,
	}
}

// SetSender binds the function used to post timer messages.
func (c *TeaClock) SetSender(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

// Now returns the wall-clock time.
func (c *TeaClock) Now() time.Time {
	return c.now()
}

// AfterFunc schedules fn to run from Update after d.
func (c *TeaClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := &teaTimer{clock: c, id: c.nextID, fn: fn}
	c.pending[t.id] = t

	msg := TimerMsg{clock: c, id: t.id}
	t.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		send := c.send
		_, live := c.pending[msg.id]
		c.mu.Unlock()
		if live && send != nil {
			send(msg)
		}
	})
	return t
}

// Stop cancels the timer. A TimerMsg already in flight is discarded by
// Deliver.
func (t *teaTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if _, ok := t.clock.pending[t.id]; !ok {
		return false
	}
	delete(t.clock.pending, t.id)
	t.timer.Stop()
	return true
}

// Deliver runs the callback for msg if it belongs to this clock and has not
// been cancelled. It reports whether a callback ran.
func (c *TeaClock) Deliver(msg TimerMsg) bool {
	if msg.clock != c {
		return false
	}

	c.mu.Lock()
	t, ok := c.pending[msg.id]
	if ok {
		delete(c.pending, msg.id)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}
	t.timer.Stop()
	t.fn()
	return true
}

// Pending returns the number of timers that have not been delivered or stopped.
func (c *TeaClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// =============================================================================
// ACTIVITY MAPPING
// =============================================================================

// EventForMsg maps terminal input to an activity signal.
// Keys are key presses, wheel events scroll, button presses count as
// touch-start and motion as pointer movement.
func EventForMsg(msg tea.Msg) (Event, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return EventKeyDown, true
	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp, tea.MouseWheelDown, tea.MouseWheelLeft, tea.MouseWheelRight:
			return EventScroll, true
		case tea.MouseMotion:
			return EventPointerMove, true
		case tea.MouseLeft, tea.MouseMiddle, tea.MouseRight:
			return EventTouchStart, true
		}
	}
	return "", false
}
