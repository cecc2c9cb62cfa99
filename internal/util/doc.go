// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across ergo.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth, PadWidth, StringWidth: display-column aware table cells
//   - SingleLine: flatten multi-line descriptions for one-row display
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync, used for config
//     saves and exports
//
// # Usage
//
//	cell := util.PadWidth(project.Name, 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
