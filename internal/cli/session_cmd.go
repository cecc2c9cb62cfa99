// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - Inspect the local session journal.
//
// The TUI journals LOGIN, LOGOUT, IDLE_WARNING, IDLE_LOGOUT and
// SESSION_EXTENDED events. These commands only read it.
//
// Command: session [subcommand]
//
// Subcommands:
//   - log (default):       Show recent entries, newest first
//   - show <session-id>:   Show every entry of one session, oldest first
//   - stats:               Entry totals by type
//
// Flags:
//   - --limit N            Entries for log (default: 20)
package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/util"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 1000

	// statsWindow bounds how many recent entries stats breaks down by type.
	statsWindow = 1000
)

// HandleSession handles "ergo session".
func HandleSession(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}
	path, err := e.cfg.JournalPath()
	if err != nil {
		return NewCommandError("session", "open", "cannot locate journal", err)
	}
	j, err := journal.Open(path)
	if err != nil {
		return NewCommandError("session", "open", path, err)
	}
	defer j.Close()

	ctx, cancel := commandContext()
	defer cancel()
	return runSession(ctx, e, j)
}

func runSession(ctx context.Context, e *env, j *journal.Journal) error {
	p := NewArgParser(e.args.Raw)

	switch sub := p.Subcommand(); sub {
	case "", "log", "list":
		return sessionLog(ctx, e, j, p)
	case "show":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("session-id", "ergo session show sess_1a2b3c4d")
		}
		return sessionShow(ctx, e, j, id)
	case "stats":
		return sessionStats(ctx, e, j)
	default:
		return ErrUnknownSubcommand("session", sub)
	}
}

func sessionLog(ctx context.Context, e *env, j *journal.Journal, p *ArgParser) error {
	limit := defaultLogLimit
	if p.HasFlag("limit") {
		n, err := ParseIntWithValidation(p.Flag("limit"), "limit")
		if err != nil {
			return NewValidationErrorWithExample("limit", p.Flag("limit"), err.Error(), "ergo session log --limit 50")
		}
		limit = util.ClampInt(n, 1, maxLogLimit)
	}

	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if e.args.JSON {
		return e.respond("session log", newJournalEntries(entries))
	}
	if len(entries) == 0 {
		e.println("No journal entries yet. Sessions are recorded by the TUI.")
		return nil
	}

	e.println(TitleStyle.Render(fmt.Sprintf("Last %d journal entries", len(entries))))
	writeEntries(e, entries)
	return nil
}

func sessionShow(ctx context.Context, e *env, j *journal.Journal, id string) error {
	entries, err := j.Session(ctx, id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return &NotFoundError{Resource: "session", ID: id}
	}
	if e.args.JSON {
		return e.respond("session show", newJournalEntries(entries))
	}

	first, last := entries[0], entries[len(entries)-1]
	e.println(TitleStyle.Render("Session " + id))
	if first.Username != "" {
		e.println(RenderLabel("User") + ValueStyle.Render(first.Username))
	}
	e.println(RenderLabel("Started") + ValueStyle.Render(first.At.Local().Format("2006-01-02 15:04:05")))
	e.println(RenderLabel("Span") + ValueStyle.Render(formatDuration(last.At.Sub(first.At))))
	e.println(RenderLabel("Ended by") + ValueStyle.Render(endedBy(entries)))
	e.println()
	writeEntries(e, entries)
	return nil
}

// endedBy names the event that closed the session, if any.
func endedBy(entries []journal.Entry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		switch entries[i].Type {
		case journal.TypeIdleLogout:
			return "idle timeout"
		case journal.TypeLogout:
			if entries[i].Detail != "" {
				return "logout (" + entries[i].Detail + ")"
			}
			return "logout"
		}
	}
	return "still open"
}

func writeEntries(e *env, entries []journal.Entry) {
	for _, en := range entries {
		typ := util.PadWidth(string(en.Type), 16)
		switch en.Type {
		case journal.TypeIdleLogout:
			typ = ErrorStyle.Render(typ)
		case journal.TypeIdleWarning:
			typ = WarningStyle.Render(typ)
		case journal.TypeLogin, journal.TypeSessionExtended:
			typ = SuccessStyle.Render(typ)
		default:
			typ = ValueStyle.Render(typ)
		}

		line := DimStyle.Render(en.At.Local().Format("2006-01-02 15:04:05")) + "  " + typ + " " + en.SessionID
		if en.Username != "" {
			line += " " + en.Username
		}
		if en.Detail != "" {
			line += " " + DimStyle.Render(en.Detail)
		}
		e.println(line)
	}
}

// SessionStatsData is the "session stats" payload.
type SessionStatsData struct {
	Total    int            `json:"total"`
	Sessions int            `json:"sessions"`
	ByType   map[string]int `json:"by_type"`
	Latest   *time.Time     `json:"latest,omitempty"`
}

func sessionStats(ctx context.Context, e *env, j *journal.Journal) error {
	total, err := j.Count(ctx)
	if err != nil {
		return err
	}
	recent, err := j.Recent(ctx, statsWindow)
	if err != nil {
		return err
	}

	data := SessionStatsData{Total: total, ByType: make(map[string]int)}
	sessions := make(map[string]bool)
	for _, en := range recent {
		data.ByType[string(en.Type)]++
		sessions[en.SessionID] = true
	}
	data.Sessions = len(sessions)
	if len(recent) > 0 {
		at := recent[0].At
		data.Latest = &at
	}

	if e.args.JSON {
		return e.respond("session stats", data)
	}

	e.println(TitleStyle.Render("Session journal"))
	e.println(RenderLabel("Entries") + ValueStyle.Render(util.IntToString(total)))
	e.println(RenderLabel("Sessions") + ValueStyle.Render(util.IntToString(data.Sessions)))
	if data.Latest != nil {
		e.println(RenderLabel("Latest") + ValueStyle.Render(formatAge(*data.Latest, time.Now())))
	}
	types := make([]string, 0, len(data.ByType))
	for t := range data.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		e.println(RenderLabel(t) + ValueStyle.Render(util.IntToString(data.ByType[t])))
	}
	if total > statsWindow {
		e.println(DimStyle.Render(fmt.Sprintf("Breakdown covers the latest %d entries.", statsWindow)))
	}
	return nil
}
