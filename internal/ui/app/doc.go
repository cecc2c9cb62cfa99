// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the ergo terminal client.
//
// The Model routes between the register and login forms and the worker and
// admin dashboards. While a dashboard is shown an idle.Monitor watches the
// terminal input fed through an idle.Hub; its timers run on an idle.TeaClock
// so the warning and the idle logout are handled inside Update like any
// other message.
package app
