// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package journal records session lifecycle events in a local SQLite file.
//
// Every login, logout, idle warning, idle logout and session extension is
// written to ~/.ergo/journal.db and echoed to the log as
//
//	2025-05-01 09:00:00 UTC | IDLE_LOGOUT | session=sess_1a2b3c4d user=wendy
//
// `ergo session log` prints the most recent entries.
package journal
