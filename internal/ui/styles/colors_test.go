// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/jeranaias/ergo-tui/internal/model"
)

func TestStatusColor(t *testing.T) {
	if StatusColor(model.StatusCompleted) != Emerald {
		t.Error("completed projects should be emerald")
	}
	if StatusColor(model.StatusInProgress) != Amber {
		t.Error("in-progress projects should be amber")
	}
	if StatusColor(model.StatusPending) != StatusPending {
		t.Error("pending projects should use the pending color")
	}
	if StatusColor("ARCHIVED") != StatusPending {
		t.Error("unknown statuses should fall back to the pending color")
	}
}

func TestStatusIndicators_Distinct(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}

	seen := make(map[string]bool)
	for _, ind := range indicators {
		if ind == "" {
			t.Error("status indicator should not be empty")
		}
		if seen[ind] {
			t.Errorf("Duplicate status indicator: %q", ind)
		}
		seen[ind] = true
	}
}

func TestStatusIndicator(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range model.Statuses {
		seen[StatusIndicator(s)] = true
	}
	if len(seen) != len(model.Statuses) {
		t.Errorf("each status should have its own indicator, got %d for %d statuses", len(seen), len(model.Statuses))
	}
}

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}

	for _, tt := range tests {
		got := tt.render("Project created")
		if !strings.Contains(got, "Project created") {
			t.Errorf("%s: %q should contain the message", tt.name, got)
		}
		if !strings.Contains(got, tt.indicator) {
			t.Errorf("%s: %q should contain %q", tt.name, got, tt.indicator)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	if !strings.Contains(RenderStatus(true, "ok"), StatusIndicators.Success) {
		t.Error("RenderStatus(true) should use the success indicator")
	}
	if !strings.Contains(RenderStatus(false, "no"), StatusIndicators.Error) {
		t.Error("RenderStatus(false) should use the error indicator")
	}
}
