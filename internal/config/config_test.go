// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points ERGO_HOME at a fresh directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ERGO_HOME", dir)
	for _, key := range []string{
		"ERGO_API_URL", "ERGO_API_TIMEOUT_SECS", "ERGO_USERNAME",
		"ERGO_IDLE_TIMEOUT_SECS", "ERGO_WARNING_LEAD_SECS", "ERGO_JOURNAL",
		"ERGO_THEME", "ERGO_EXPORT_DIR",
	} {
		t.Setenv(key, "")
	}
	// Keep a stray ./.env in the package directory from leaking in.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://127.0.0.1:8000/api/", cfg.API.BaseURL)
	assert.Equal(t, 300, cfg.Session.IdleTimeoutSecs)
	assert.Equal(t, 5, cfg.Session.WarningLeadSecs)
	assert.Equal(t, 4, cfg.UI.PageSize)
	assert.Equal(t, 400*time.Millisecond, cfg.UI.SearchDebounce())
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout())
	assert.Equal(t, 5*time.Second, cfg.Session.WarningLead())
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		wantErr bool
	}{
		{name: "valid default config", mutate: func(c *Config) {}},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.API.BaseURL = "/api/" },
			field:   "api.base_url",
			wantErr: true,
		},
		{
			name:    "ftp base url",
			mutate:  func(c *Config) { c.API.BaseURL = "ftp://example.com/api/" },
			field:   "api.base_url",
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.API.TimeoutSecs = 0 },
			field:   "api.timeout_secs",
			wantErr: true,
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.API.RatePerSec = -1 },
			field:   "api.rate_per_sec",
			wantErr: true,
		},
		{
			name:    "zero idle timeout",
			mutate:  func(c *Config) { c.Session.IdleTimeoutSecs = 0 },
			field:   "session.idle_timeout_secs",
			wantErr: true,
		},
		{
			name:    "warning lead equal to timeout",
			mutate:  func(c *Config) { c.Session.WarningLeadSecs = c.Session.IdleTimeoutSecs },
			field:   "session.warning_lead_secs",
			wantErr: true,
		},
		{
			name:    "negative warning lead",
			mutate:  func(c *Config) { c.Session.WarningLeadSecs = -2 },
			field:   "session.warning_lead_secs",
			wantErr: true,
		},
		{
			name:   "warning disabled",
			mutate: func(c *Config) { c.Session.WarningLeadSecs = 0 },
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.UI.Theme = "neon" },
			field:   "ui.theme",
			wantErr: true,
		},
		{
			name:    "page size too large",
			mutate:  func(c *Config) { c.UI.PageSize = 1000 },
			field:   "ui.page_size",
			wantErr: true,
		},
		{
			name:    "unknown export format",
			mutate:  func(c *Config) { c.Export.Format = "xlsx" },
			field:   "export.format",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
	errs := ValidateErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestLoad_TOMLThenEnvOverride(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
base_url = "https://tracker.example.com/api/"

[session]
idle_timeout_secs = 60
warning_lead_secs = 10
`), 0644))
	t.Setenv("ERGO_WARNING_LEAD_SECS", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tracker.example.com/api/", cfg.API.BaseURL)
	assert.Equal(t, 60, cfg.Session.IdleTimeoutSecs)
	assert.Equal(t, 15, cfg.Session.WarningLeadSecs)
	// Unset keys keep their defaults.
	assert.Equal(t, 4, cfg.UI.PageSize)

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"ui": {"theme": "light", "page_size": 8}}`), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 8, cfg.UI.PageSize)
}

func TestLoad_BrokenFileReturnsDefaultsAndError(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\n"), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[session]
idle_timeout_secs = 5
warning_lead_secs = 9
`), 0600))

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "session.warning_lead_secs")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ERGO_THEME=light\n"), 0600))
	// godotenv does not override variables that are already set.
	require.NoError(t, os.Unsetenv("ERGO_THEME"))
	t.Cleanup(func() { _ = os.Unsetenv("ERGO_THEME") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestApplyEnvOverrides_IgnoresGarbage(t *testing.T) {
	isolate(t)
	t.Setenv("ERGO_IDLE_TIMEOUT_SECS", "soon")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 300, cfg.Session.IdleTimeoutSecs)
}

func TestSaveAndLoadFromPath(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.API.Username = "alice"
	cfg.Session.IdleTimeoutSecs = 120

	require.NoError(t, Save(cfg))

	path, err := ConfigPathTOML()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.API.Username)
	assert.Equal(t, 120, loaded.Session.IdleTimeoutSecs)

	jsonPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveJSON(cfg, jsonPath))
	loaded, err = LoadFromPath(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.API.Username)
}

func TestConfig_JournalPath(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	path, err := cfg.JournalPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "journal.db"), path)

	cfg.Session.JournalPath = "/tmp/elsewhere.db"
	path, err = cfg.JournalPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.db", path)
}

func TestConfig_CloneIsIndependent(t *testing.T) {
	original := Default()
	clone := original.Clone()
	clone.UI.Theme = "light"
	clone.Session.IdleTimeoutSecs = 1

	assert.Equal(t, "dark", original.UI.Theme)
	assert.Equal(t, 300, original.Session.IdleTimeoutSecs)
}

func TestConfig_StringIsTOML(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "[session]")
	assert.Contains(t, s, "idle_timeout_secs = 300")
}

// TestConfig_ConcurrentAccess checks Global and SetGlobal under -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := Default()
			c.UI.Theme = "light"
			SetGlobal(c)
		}()
		go func() {
			defer wg.Done()
			cfg := Global()
			assert.NotNil(t, cfg)
		}()
	}
	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	cfg := Global()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, Global())

	replacement := Default()
	SetGlobal(replacement)
	assert.Same(t, replacement, Global())
}
