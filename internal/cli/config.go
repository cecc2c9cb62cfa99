// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for ergo.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show configuration file path
//   init [--force]      Write the default configuration file
//   set <key> <value>   Set a configuration value
//   validate            Check the configuration file
//
// Examples:
//   ergo config                               Show current config (default)
//   ergo config show --json                   Config in JSON format
//   ergo config set session.idle_timeout_secs 600
//   ergo config set api.base_url https://tracker.example.com/api/
//   ergo config init --force                  Overwrite with defaults
//
// Configuration Keys:
//   api.base_url              Backend API root
//   api.timeout_secs          Per-request timeout
//   api.rate_per_sec          Client-side request rate (0 = unlimited)
//   api.username              Username prefilled at login
//   session.idle_timeout_secs Inactivity before automatic logout
//   session.warning_lead_secs Warning shown this long before logout
//   session.journal_path      Session journal database
//   ui.theme                  dark, light or auto
//   ui.page_size              Projects per page
//   ui.search_debounce_ms     Delay before live search runs
//   ui.render_markdown        Render descriptions as markdown (true/false)
//   export.dir                Export directory
//   export.format             csv, json or md
package cli

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/ergo-tui/internal/config"
)

// ConfigKeys lists the keys "config set" accepts.
var ConfigKeys = []string{
	"api.base_url", "api.timeout_secs", "api.rate_per_sec", "api.username",
	"session.idle_timeout_secs", "session.warning_lead_secs", "session.journal_path",
	"ui.theme", "ui.page_size", "ui.search_debounce_ms", "ui.render_markdown",
	"export.dir", "export.format",
}

// HandleConfig handles "ergo config".
func HandleConfig(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return NewCommandError("config", "path", "cannot locate config directory", err)
	}
	return runConfig(e, path)
}

func runConfig(e *env, path string) error {
	p := NewArgParser(e.args.Raw, "force")

	switch sub := p.Subcommand(); sub {
	case "", "show":
		if e.args.JSON {
			return e.respond("config show", e.cfg)
		}
		e.println(TitleStyle.Render("ergo configuration"))
		e.println(strings.TrimRight(e.cfg.String(), "\n"))
		e.println(RenderSeparator(41))
		e.printf("Config file: %s\n", path)
		return nil

	case "path":
		_, statErr := os.Stat(path)
		if e.args.JSON {
			return e.respond("config path", ConfigPathData{Path: path, Exists: statErr == nil})
		}
		e.println(path)
		return nil

	case "init":
		return configInit(e, path, p.BoolFlag("force"))

	case "set":
		key, value := strings.ToLower(p.Positional(1)), JoinPositionalArgs(p, 2)
		if key == "" {
			return ErrMissingArgument("key", "ergo config set ui.page_size 8")
		}
		return configSet(e, path, key, value)

	case "validate", "check":
		return configValidate(e, path)

	default:
		return ErrUnknownSubcommand("config", sub)
	}
}

func configInit(e *env, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return NewValidationErrorWithExample("config", path, "file already exists", "ergo config init --force")
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", "cannot write config", err)
	}
	if e.args.JSON {
		return e.respond("config init", ConfigPathData{Path: path, Exists: true})
	}
	e.printf("%s Wrote %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}

// loadFile reads the config file at path, or the defaults when there is
// none. Environment overrides are not applied so they are never saved.
func loadFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := config.LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configSet(e *env, path, key, value string) error {
	cfg, err := loadFile(path)
	if err != nil {
		return NewCommandError("config", "set", "cannot read config", err)
	}
	if err := setConfigKey(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "set", "cannot write config", err)
	}

	if e.args.JSON {
		return e.respond("config set", map[string]string{"key": key, "value": value})
	}
	e.printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	return nil
}

// setConfigKey assigns value to the dotted key.
func setConfigKey(cfg *config.Config, key, value string) error {
	value = strings.TrimSpace(value)

	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, ErrInvalidFormat(key, value, "a whole number")
		}
		return n, nil
	}

	var err error
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		cfg.API.TimeoutSecs, err = atoi()
	case "api.rate_per_sec":
		f, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return ErrInvalidFormat(key, value, "a number, e.g. 10 or 2.5")
		}
		cfg.API.RatePerSec = f
	case "api.username":
		cfg.API.Username = value
	case "session.idle_timeout_secs":
		cfg.Session.IdleTimeoutSecs, err = atoi()
	case "session.warning_lead_secs":
		cfg.Session.WarningLeadSecs, err = atoi()
	case "session.journal_path":
		cfg.Session.JournalPath = value
	case "ui.theme":
		cfg.UI.Theme = strings.ToLower(value)
	case "ui.page_size":
		cfg.UI.PageSize, err = atoi()
	case "ui.search_debounce_ms":
		cfg.UI.SearchDebounceMs, err = atoi()
	case "ui.render_markdown":
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			return ErrInvalidFormat(key, value, "true or false")
		}
		cfg.UI.RenderMarkdown = b
	case "export.dir":
		cfg.Export.Dir = value
	case "export.format":
		cfg.Export.Format = strings.ToLower(value)
	default:
		return NewValidationErrorWithExample("key", key, "unknown config key",
			"one of: "+strings.Join(ConfigKeys, ", "))
	}
	return err
}

func configValidate(e *env, path string) error {
	cfg, err := loadFile(path)
	if err != nil {
		return NewCommandError("config", "validate", "cannot read config", err)
	}
	if err := cfg.Validate(); err != nil {
		var verrs config.ValidateErrors
		if errors.As(err, &verrs) && !e.args.JSON {
			for _, v := range verrs {
				e.printf("%s %s\n", ErrorStyle.Render("[FAIL]"), v.Error())
			}
		}
		return err
	}
	if e.args.JSON {
		return e.respond("config validate", map[string]bool{"valid": true})
	}
	e.printf("%s %s is valid\n", SuccessStyle.Render("[OK]"), path)
	return nil
}
