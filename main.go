// ergo - A terminal client for the worker project tracker.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/cli"
	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdRegister:
		err = cli.HandleRegister(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdProjects:
		err = cli.HandleProjects(args)
	case cli.CmdAdmin:
		err = cli.HandleAdmin(args)
	case cli.CmdSession:
		err = cli.HandleSession(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdDevServer:
		err = cli.HandleDevServer(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		err = cli.HandleHelp(args)
	default:
		err = cli.HandleHelp(args)
	}

	cli.HandleErrorAndExit(err, args.JSON)
}

// runTUI starts the interactive client.
func runTUI(args cli.Args) error {
	if err := cli.RequiresTTY("start the TUI"); err != nil {
		return err
	}

	// The alt screen owns stdout; log lines go to ~/.ergo/ergo.log.
	closeLog := redirectLog(args.Verbose)
	defer closeLog()

	cfg := config.Global().Clone()
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
	}
	if args.Username != "" {
		cfg.API.Username = args.Username
	}

	client, err := api.NewClient(cfg.API.BaseURL)
	if err != nil {
		return cli.NewValidationErrorWithExample("api-url", cfg.API.BaseURL, err.Error(), "http://127.0.0.1:8000/api/")
	}
	client.WithTimeout(cfg.API.Timeout()).WithRateLimit(cfg.API.RatePerSec)

	// A missing journal only costs the history; the session still runs.
	var j *journal.Journal
	if path, err := cfg.JournalPath(); err == nil {
		if j, err = journal.Open(path); err != nil {
			log.Printf("session journal disabled: %v", err)
			j = nil
		} else {
			defer j.Close()
		}
	}

	configPath, err := config.ConfigPathTOML()
	if err != nil {
		configPath = ""
	}

	return app.Run(app.Options{
		Config:     cfg,
		Client:     client,
		Journal:    j,
		ConfigPath: configPath,
	})
}

// redirectLog points the standard logger at the log file. With verbose set
// and no file available, logging goes to stderr instead of being dropped.
func redirectLog(verbose bool) func() {
	path, err := config.LogPath()
	if err == nil {
		if err = config.EnsureConfigDir(); err == nil {
			var f *os.File
			f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
			if err == nil {
				log.SetOutput(f)
				return func() { f.Close() }
			}
		}
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "logging to stderr: %v\n", err)
		return func() {}
	}
	log.SetOutput(io.Discard)
	return func() {}
}
