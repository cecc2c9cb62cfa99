// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ergo.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env and environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Backend URL, request timeout and client rate limit
//   - SessionConfig: Idle timeout, warning lead and journal location
//   - UIConfig: Theme, page size and search debounce
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ERGO_*), including those set by ./.env
//   - ~/.ergo/config.toml
//   - ~/.ergo/config.json
//   - Built-in defaults
//
// ERGO_HOME relocates the ~/.ergo directory.
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Follow edits while running:
//
//	w, err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
//	    program.Send(configChangedMsg{cfg, err})
//	})
//	defer w.Close()
package config
