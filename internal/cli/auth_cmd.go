// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Account registration and login commands.
//
// Command: register [--admin] [--email ADDR]
//   - Creates a worker account, or an admin account with --admin
//
// Command: login [--no-save]
//   - Checks credentials against the backend
//   - Remembers the username so the TUI login form is prefilled
package cli

import (
	"context"

	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/model"
)

// HandleRegister handles "ergo register".
func HandleRegister(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	return runRegister(ctx, e)
}

func runRegister(ctx context.Context, e *env) error {
	p := NewArgParser(e.args.Raw, "admin")
	role := model.RoleWorker
	if p.BoolFlag("admin") {
		role = model.RoleAdmin
	}

	reg := model.Registration{
		Username: e.args.Username,
		Email:    p.Flag("email"),
		Password: e.args.Password,
	}

	var err error
	if reg.Username == "" {
		if reg.Username, err = e.prompt("Username: "); err != nil {
			return err
		}
	}
	if reg.Email == "" {
		if reg.Email, err = e.prompt("Email: "); err != nil {
			return err
		}
	}
	if reg.Password == "" {
		if reg.Password, err = e.promptSecret("Password: "); err != nil {
			return err
		}
		confirm, err := e.promptSecret("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != reg.Password {
			return NewValidationError("password", "", "passwords do not match")
		}
	}

	// Same rules as the TUI form, checked before any request is made.
	if err := reg.Validate(); err != nil {
		return NewValidationError("registration", "", err.Error())
	}

	user, err := e.client.Register(ctx, reg, role)
	if err != nil {
		return err
	}

	if e.args.JSON {
		return e.respond("register", newUserData(*user))
	}
	e.printf("%s Registered %s as %s\n",
		SuccessStyle.Render("[OK]"), user.Username, roleLabel(user.Role))
	e.println(DimStyle.Render("Log in with: ergo -u " + user.Username + " login"))
	return nil
}

// HandleLogin handles "ergo login".
func HandleLogin(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	return runLogin(ctx, e, config.Save)
}

// runLogin verifies the credentials and stores the username with save.
// A failed save is reported but does not fail the login.
func runLogin(ctx context.Context, e *env, save func(*config.Config) error) error {
	p := NewArgParser(e.args.Raw, "no-save")
	resp, err := e.login(ctx)
	if err != nil {
		return err
	}

	// Only the username is written back; per-run overrides such as
	// --api-url stay out of the file.
	remembered := false
	if e.base.API.Username != resp.User.Username && !p.BoolFlag("no-save") {
		saved := e.base.Clone()
		saved.API.Username = resp.User.Username
		if err := save(saved); err != nil {
			e.printf("%s could not remember username: %v\n", WarningStyle.Render("[WARN]"), err)
		} else {
			remembered = true
			config.SetGlobal(saved)
		}
	}

	if e.args.JSON {
		return e.respond("login", newUserData(resp.User))
	}
	e.printf("%s Logged in as %s (%s)\n",
		SuccessStyle.Render("[OK]"), resp.User.Username, roleLabel(resp.User.Role))
	if remembered {
		e.println(DimStyle.Render("Username saved; `ergo` will prefill it."))
	}
	return nil
}

func roleLabel(r model.Role) string {
	if r.IsAdmin() {
		return "admin"
	}
	return "worker"
}

// requireAdmin returns a PermissionError unless user is an admin.
func requireAdmin(action string, user model.User) error {
	if user.Role.IsAdmin() {
		return nil
	}
	return &PermissionError{Action: action, Username: user.Username, Role: string(model.RoleAdmin)}
}
