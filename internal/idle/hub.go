// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package idle

// =============================================================================
// ACTIVITY HUB
// =============================================================================

// Hub is an in-loop ActivitySource. The owner of the event loop calls Emit
// when it observes input; subscribers are invoked synchronously in
// subscription order. Like the Monitor, a Hub belongs to one goroutine.
type Hub struct {
	nextID   int
	handlers map[Event][]subscription
}

type subscription struct {
	id int
	fn func()
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[Event][]subscription)}
}

// Subscribe registers handler for event. The returned function removes the
// registration and is safe to call more than once.
func (h *Hub) Subscribe(event Event, handler func()) func() {
	h.nextID++
	id := h.nextID
	h.handlers[event] = append(h.handlers[event], subscription{id: id, fn: handler})

	return func() {
		subs := h.handlers[event]
		for i, s := range subs {
			if s.id == id {
				h.handlers[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers event to its current subscribers. Handlers registered or
// removed during delivery take effect from the next Emit.
func (h *Hub) Emit(event Event) {
	subs := append([]subscription(nil), h.handlers[event]...)
	for _, s := range subs {
		s.fn()
	}
}

// Subscribers returns the number of handlers registered for event.
func (h *Hub) Subscribers(event Event) int {
	return len(h.handlers[event])
}
