// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reload struct {
	cfg *Config
	err error
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan reload, 8)
	w, err := WatchWithDebounce(context.Background(), path, 100*time.Millisecond, func(cfg *Config, err error) {
		got <- reload{cfg, err}
	})
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, path, w.Path())

	cfg := Default()
	cfg.Session.IdleTimeoutSecs = 42
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case r := <-got:
		require.NoError(t, r.err)
		assert.Equal(t, 42, r.cfg.Session.IdleTimeoutSecs)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan reload, 8)
	w, err := WatchWithDebounce(context.Background(), path, 10*time.Millisecond, func(cfg *Config, err error) {
		got <- reload{cfg, err}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal.db"), []byte("x"), 0600))

	select {
	case r := <-got:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_InvalidEditReportsError(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan reload, 8)
	w, err := WatchWithDebounce(context.Background(), path, 100*time.Millisecond, func(cfg *Config, err error) {
		got <- reload{cfg, err}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[session]\nidle_timeout_secs = -1\n"), 0600))

	select {
	case r := <-got:
		assert.Error(t, r.err)
		assert.Nil(t, r.cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatch_RequiresCallback(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "config.toml"), nil)
	assert.Error(t, err)
}

func TestWatch_CloseIsPrompt(t *testing.T) {
	dir := isolate(t)
	w, err := Watch(context.Background(), filepath.Join(dir, "config.toml"), func(*Config, error) {})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_ = w.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}
