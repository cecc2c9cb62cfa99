// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ergo TUI.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals.

# Color System (colors.go)

  - Purple - Primary accent, selections, focused fields
  - Cyan - Brand color and key hints
  - Emerald, Amber - Completed and in-progress projects
  - Rose - Errors and the expired session notice

StatusColor and StatusIndicator map a project status to its color and an
ASCII shape, so status is readable without color.

# Theme System (theme.go)

	theme := styles.NewThemeForMode(cfg.UI.Theme) // "dark", "light" or "auto"
	theme.SetSize(width, height)
	switch theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		// render project cards instead of the table
	}
*/
package styles
