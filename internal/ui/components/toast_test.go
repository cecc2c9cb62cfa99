// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestToastManager_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToastManager()
	m.now = func() time.Time { return now }

	m.AddSuccess("Project created")
	m.AddError("Something went wrong")

	if got := len(m.Toasts()); got != 2 {
		t.Fatalf("len(Toasts()) = %d, want 2", got)
	}
	if m.Toasts()[0].Message != "Something went wrong" {
		t.Error("newest toast should come first")
	}

	now = now.Add(DefaultToastDuration)
	if !m.Tick() {
		t.Fatal("error toast should outlive the success toast")
	}
	if got := m.Toasts(); len(got) != 1 || got[0].Kind != ToastKindError {
		t.Errorf("remaining toasts = %+v", got)
	}

	now = now.Add(ErrorToastDuration)
	if m.Tick() {
		t.Error("all toasts should have expired")
	}
}

func TestToastManager_Cap(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < maxToasts+2; i++ {
		m.AddStatus("status " + toStr(i))
	}
	if got := len(m.Toasts()); got != maxToasts {
		t.Errorf("len(Toasts()) = %d, want %d", got, maxToasts)
	}
}

func TestToastManager_View(t *testing.T) {
	m := NewToastManager()
	if m.View(80) != "" {
		t.Error("no toasts should render nothing")
	}
	m.AddSuccess("Exported 3 projects")
	if !strings.Contains(m.View(80), "Exported 3 projects") {
		t.Error("view should contain the toast text")
	}
	m.Clear()
	if len(m.Toasts()) != 0 {
		t.Error("Clear should remove toasts")
	}
}
