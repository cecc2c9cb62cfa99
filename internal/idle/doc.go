// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package idle provides the idle session monitor used by the ergo dashboards.
//
// A Monitor watches a stream of activity events (pointer movement, key presses,
// scrolling, touch) and, after a configured period without any of them,
// invokes an idle callback exactly once. An optional warning callback fires a
// configured lead time before the idle callback so the owner can show a
// "you will be logged out" prompt.
//
// # Key Types
//
//   - Monitor: the warning/idle timer state machine
//   - Config: timeout, warning lead and callbacks
//   - Clock: schedule-after-delay capability (VirtualClock, TeaClock)
//   - ActivitySource: activity subscription capability (Hub)
//
// # Event Loop
//
// A Monitor is not safe for concurrent use. It must be driven from a single
// event loop: the Clock delivers timer callbacks and the ActivitySource
// delivers activity handlers on the same goroutine that calls Reset and Stop.
// TeaClock satisfies this by turning timer expiry into Bubble Tea messages that
// are dispatched from the program's Update loop.
//
// # Usage
//
//	hub := idle.NewHub()
//	mon := idle.New(idle.Config{
//	    IdleTimeout: 5 * time.Minute,
//	    WarningLead: 5 * time.Second,
//	    OnWarning:   showPrompt,
//	    OnIdle:      logout,
//	}, clock, hub)
//	defer mon.Stop()
package idle
