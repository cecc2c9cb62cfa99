// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "github.com/jeranaias/ergo-tui/internal/util"

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

func toStr(n int) string {
	return util.IntToString(n)
}

// pad2 formats n with at least two digits.
func pad2(n int) string {
	if n < 10 && n >= 0 {
		return "0" + toStr(n)
	}
	return toStr(n)
}

func clampInt(v, lo, hi int) int {
	return util.ClampInt(v, lo, hi)
}
