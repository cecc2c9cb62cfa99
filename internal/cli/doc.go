// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the one-shot commands of
// ergo.
//
// Running ergo without a command starts the TUI. Every other command logs
// in for the one invocation, does its work and exits.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed global flags plus the raw command arguments
//   - ArgParser: Subcommand, flag and positional parsing per command
//   - JSONResponse: The --json output envelope
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdProjects:
//	    err = cli.HandleProjects(args)
//	// ... other commands
//	}
//	cli.HandleErrorAndExit(err, args.JSON)
//
// # Commands Overview
//
//   - register, login: Accounts
//   - projects: list, search, show, create, status, toggle, delete, export
//   - admin: Every worker's projects (admin accounts)
//   - session: Read the local session journal
//   - config: Show, initialise and edit ~/.ergo/config.toml
//   - devserver: In-memory tracker backend for local use
//
// All commands support --json.
package cli
