// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface functionality.
// This file contains shared helpers used across the ergo commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/model"
)

// =============================================================================
// COMMAND ENVIRONMENT
// =============================================================================

// env is what a one-shot command runs against: the effective config, an
// API client and the streams it talks to.
type env struct {
	args   Args
	cfg    *config.Config // effective config for this run
	base   *config.Config // config as loaded, without per-run overrides
	client *api.Client
	out    io.Writer
	in     *bufio.Reader

	// readPassword reads a secret without echo. Tests replace it.
	readPassword func() (string, error)
}

// newEnv builds an env from the global config and args.
func newEnv(args Args) (*env, error) {
	return newEnvWithConfig(args, config.Global())
}

func newEnvWithConfig(args Args, base *config.Config) (*env, error) {
	cfg := base.Clone()
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
	}

	client, err := api.NewClient(cfg.API.BaseURL)
	if err != nil {
		return nil, NewValidationErrorWithExample("api-url", cfg.API.BaseURL, err.Error(), "http://127.0.0.1:8000/api/")
	}
	client.WithTimeout(cfg.API.Timeout()).WithRateLimit(cfg.API.RatePerSec)

	return &env{
		args:         args,
		cfg:          cfg,
		base:         base,
		client:       client,
		out:          os.Stdout,
		in:           bufio.NewReader(os.Stdin),
		readPassword: readPasswordTTY,
	}, nil
}

// printf writes human-readable output. It is silent in JSON mode, where
// stdout carries only the JSON document.
func (e *env) printf(format string, a ...interface{}) {
	if e.args.JSON {
		return
	}
	fmt.Fprintf(e.out, format, a...)
}

func (e *env) println(a ...interface{}) {
	if e.args.JSON {
		return
	}
	fmt.Fprintln(e.out, a...)
}

// respond prints data as a JSON response in JSON mode.
func (e *env) respond(command string, data interface{}) error {
	if !e.args.JSON {
		return nil
	}
	return NewJSONResponse(command, data).Write(e.out)
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// credentials returns the username and password from flags, config and
// prompts, in that order.
func (e *env) credentials() (model.Credentials, error) {
	creds := model.Credentials{
		Username: strings.TrimSpace(e.args.Username),
		Password: e.args.Password,
	}
	if creds.Username == "" {
		creds.Username = e.cfg.API.Username
	}

	if creds.Username == "" {
		name, err := e.prompt("Username: ")
		if err != nil {
			return creds, err
		}
		creds.Username = name
	}
	if creds.Password == "" {
		pw, err := e.promptSecret("Password: ")
		if err != nil {
			return creds, err
		}
		creds.Password = pw
	}

	if creds.Username == "" {
		return creds, ErrMissingArgument("username", "ergo -u alice projects list")
	}
	if creds.Password == "" {
		return creds, ErrMissingArgument("password", "ergo -u alice --password secret projects list")
	}
	return creds, nil
}

// login authenticates and leaves the tokens on the client.
func (e *env) login(ctx context.Context) (*api.LoginResponse, error) {
	creds, err := e.credentials()
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	e.client.SetTokens(resp.Access, resp.Refresh)
	return resp, nil
}

// prompt reads one line. Prompts go to stderr so stdout stays clean for
// piped output.
func (e *env) prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := e.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a password without echo.
func (e *env) promptSecret(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	pw, err := e.readPassword()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return pw, nil
}

func readPasswordTTY() (string, error) {
	if err := RequiresTTY("read a password"); err != nil {
		return "", err
	}
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// =============================================================================
// MISC
// =============================================================================

// commandContext returns a context cancelled on Ctrl+C.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// formatDuration formats a time.Duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// formatAge formats how long ago t was, relative to now.
func formatAge(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	return formatDuration(d) + " ago"
}
