// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ergo-tui/internal/api"
	"github.com/jeranaias/ergo-tui/internal/api/apitest"
	"github.com/jeranaias/ergo-tui/internal/config"
	"github.com/jeranaias/ergo-tui/internal/export"
	"github.com/jeranaias/ergo-tui/internal/journal"
	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/session"
)

// =============================================================================
// HELPERS
// =============================================================================

type testEnv struct {
	*env
	out     *bytes.Buffer
	backend *apitest.Backend
}

// newTestEnv returns an env talking to a seeded in-memory backend. Password
// prompts return the given secrets in order.
func newTestEnv(t *testing.T, args Args, secrets ...string) *testEnv {
	t.Helper()
	t.Setenv("ERGO_HOME", t.TempDir())

	backend, srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	SeedBackend(backend, time.Now())

	base := config.Default()
	base.API.BaseURL = srv.URL + "/api/"
	base.API.RatePerSec = 0

	e, err := newEnvWithConfig(args, base)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	e.out = out
	e.in = bufio.NewReader(strings.NewReader(""))
	e.readPassword = func() (string, error) {
		if len(secrets) == 0 {
			return "", errors.New("no password available")
		}
		s := secrets[0]
		secrets = secrets[1:]
		return s, nil
	}
	return &testEnv{env: e, out: out, backend: backend}
}

func workerArgs(raw ...string) Args {
	return Args{Username: SeedWorker, Password: SeedWorkerPass, Raw: raw}
}

func adminArgs(raw ...string) Args {
	return Args{Username: SeedAdmin, Password: SeedAdminPassword, Raw: raw}
}

// decodeData decodes the data field of a JSON response into v.
func decodeData(t *testing.T, out *bytes.Buffer, v interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Command string          `json:"command"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), out.String())
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantCmd Command
		check   func(*testing.T, Args)
	}{
		{name: "no args starts tui", args: nil, wantCmd: CmdTUI},
		{name: "global flags only", args: []string{"--json", "-q"}, wantCmd: CmdTUI,
			check: func(t *testing.T, a Args) {
				assert.True(t, a.JSON)
				assert.True(t, a.Quiet)
			}},
		{name: "projects with subcommand", args: []string{"projects", "Search", "garden"}, wantCmd: CmdProjects,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "search", a.Subcommand)
				assert.Equal(t, []string{"Search", "garden"}, a.Raw)
			}},
		{name: "alias p", args: []string{"p"}, wantCmd: CmdProjects},
		{name: "signup alias", args: []string{"signup", "--admin"}, wantCmd: CmdRegister,
			check: func(t *testing.T, a Args) {
				assert.Empty(t, a.Subcommand)
				assert.Equal(t, []string{"--admin"}, a.Raw)
			}},
		{name: "credentials before command", args: []string{"-u", "wendy", "--password=pw", "login"}, wantCmd: CmdLogin,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "wendy", a.Username)
				assert.Equal(t, "pw", a.Password)
			}},
		{name: "api url after command", args: []string{"projects", "list", "--api-url", "http://x/api/"}, wantCmd: CmdProjects,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "http://x/api/", a.APIURL)
				assert.Equal(t, []string{"list"}, a.Raw)
			}},
		{name: "session alias", args: []string{"sessions", "stats"}, wantCmd: CmdSession},
		{name: "serve alias", args: []string{"serve", "--seed"}, wantCmd: CmdDevServer},
		{name: "version flag", args: []string{"--version"}, wantCmd: CmdVersion},
		{name: "help flag", args: []string{"-h"}, wantCmd: CmdHelp,
			check: func(t *testing.T, a Args) { assert.Empty(t, a.Unknown) }},
		{name: "unknown command", args: []string{"frobnicate", "x"}, wantCmd: CmdHelp,
			check: func(t *testing.T, a Args) {
				assert.Equal(t, "frobnicate", a.Unknown)
				assert.Equal(t, []string{"frobnicate", "x"}, a.Raw)
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "projects", CmdProjects.String())
	assert.Equal(t, "devserver", CmdDevServer.String())
}

func TestArgParser(t *testing.T) {
	t.Run("known bool flags never take a value", func(t *testing.T) {
		p := NewArgParser([]string{"delete", "--confirm", "3"}, "confirm")
		assert.True(t, p.BoolFlag("confirm"))
		assert.Equal(t, "3", p.Positional(1))
	})

	t.Run("unknown flag takes the next value", func(t *testing.T) {
		p := NewArgParser([]string{"create", "--name", "Shed", "--start=2025-03-01"})
		assert.Equal(t, "Shed", p.Flag("name"))
		assert.Equal(t, "2025-03-01", p.Flag("start"))
		assert.Equal(t, 1, p.PositionalCount())
	})

	t.Run("negative numbers are values", func(t *testing.T) {
		p := NewArgParser([]string{"create", "--lat", "-33.9", "--lon", "18.4"})
		lat, ok, err := p.FlagFloat("lat")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.InDelta(t, -33.9, lat, 1e-9)
	})

	t.Run("flag float rejects text", func(t *testing.T) {
		p := NewArgParser([]string{"--lat", "north"})
		_, ok, err := p.FlagFloat("lat")
		assert.True(t, ok)
		assert.Error(t, err)
	})

	t.Run("subcommand is lower-cased", func(t *testing.T) {
		p := NewArgParser([]string{"SHOW", "4"})
		assert.Equal(t, "show", p.Subcommand())
	})

	t.Run("join positional", func(t *testing.T) {
		p := NewArgParser([]string{"search", "garden", "shed"})
		assert.Equal(t, "garden shed", JoinPositionalArgs(p, 1))
	})
}

func TestParseIntWithValidation(t *testing.T) {
	n, err := ParseIntWithValidation("25", "limit")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	_, err = ParseIntWithValidation("abc", "limit")
	assert.Error(t, err)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("id", "x", "bad"), ExitUsageError},
		{"tty", &TTYRequiredError{Operation: "read a password"}, ExitUsageError},
		{"config", config.ValidateErrors{{Field: "ui.page_size", Message: "bad"}}, ExitConfigError},
		{"permission", &PermissionError{Action: "admin list"}, ExitAuthError},
		{"unauthorized", fmt.Errorf("login: %w", api.ErrUnauthorized), ExitAuthError},
		{"not logged in", session.ErrNotLoggedIn, ExitAuthError},
		{"not found", &NotFoundError{Resource: "session", ID: "s"}, ExitNotFoundError},
		{"no projects", export.ErrNoProjects, ExitNotFoundError},
		{"unreachable", fmt.Errorf("get: %w", api.ErrUnreachable), ExitNetworkError},
		{"api 404", &api.APIError{Status: 404}, ExitNotFoundError},
		{"api 403", &api.APIError{Status: 403}, ExitAuthError},
		{"api 400", &api.APIError{Status: 400}, ExitUsageError},
		{"api 500", &api.APIError{Status: 500}, ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestHandleHelp_UnknownCommand(t *testing.T) {
	err := HandleHelp(Args{Unknown: "frobnicate"})
	assert.True(t, IsValidationError(err))

	assert.NoError(t, HandleHelp(Args{Subcommand: "projects"}))
}

// =============================================================================
// PROJECTS
// =============================================================================

func TestRunProjects_ListJSON(t *testing.T) {
	args := workerArgs("list")
	args.JSON = true
	te := newTestEnv(t, args)

	require.NoError(t, runProjects(context.Background(), te.env))

	var data ProjectsData
	decodeData(t, te.out, &data)
	assert.Equal(t, 5, data.Count)
	assert.Equal(t, 2, data.Counts[string(model.StatusPending)])
	assert.Equal(t, 2, data.Counts[string(model.StatusInProgress)])
	assert.Equal(t, 1, data.Counts[string(model.StatusCompleted)])
}

func TestRunProjects_ListTable(t *testing.T) {
	te := newTestEnv(t, workerArgs())

	require.NoError(t, runProjects(context.Background(), te.env))

	out := te.out.String()
	assert.Contains(t, out, "Garden shed")
	assert.Contains(t, out, "Roof gutters")
	assert.Contains(t, out, "5 projects: 2 pending, 2 in progress, 1 completed")
}

func TestRunProjects_Search(t *testing.T) {
	args := workerArgs("search", "GARDEN")
	args.JSON = true
	te := newTestEnv(t, args)

	require.NoError(t, runProjects(context.Background(), te.env))

	var data ProjectsData
	decodeData(t, te.out, &data)
	assert.Equal(t, "GARDEN", data.Term)
	require.Equal(t, 2, data.Count)
	for _, p := range data.Projects {
		assert.True(t, strings.HasPrefix(p.Name, "Garden"))
	}
}

func TestRunProjects_SearchNoMatch(t *testing.T) {
	te := newTestEnv(t, workerArgs("search", "zzz"))
	require.NoError(t, runProjects(context.Background(), te.env))
	assert.Contains(t, te.out.String(), `No projects match "zzz"`)
}

func TestRunProjects_UnknownSubcommandSkipsLogin(t *testing.T) {
	te := newTestEnv(t, workerArgs("frob"))
	before := te.backend.Requests()

	err := runProjects(context.Background(), te.env)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, before, te.backend.Requests())
}

func TestRunProjects_BadCredentials(t *testing.T) {
	te := newTestEnv(t, Args{Username: SeedWorker, Password: "wrong", Raw: []string{"list"}})

	err := runProjects(context.Background(), te.env)
	require.Error(t, err)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
}

func TestRunProjects_PasswordPrompt(t *testing.T) {
	te := newTestEnv(t, Args{Username: SeedWorker, Raw: []string{"list"}}, SeedWorkerPass)
	require.NoError(t, runProjects(context.Background(), te.env))
	assert.Contains(t, te.out.String(), "Garden shed")
}

func TestRunProjects_Show(t *testing.T) {
	te := newTestEnv(t, workerArgs("show", "1"))
	require.NoError(t, runProjects(context.Background(), te.env))
	assert.Contains(t, te.out.String(), "Garden shed")

	te = newTestEnv(t, workerArgs("show", "abc"))
	assert.True(t, IsValidationError(runProjects(context.Background(), te.env)))

	te = newTestEnv(t, workerArgs("show", "99"))
	assert.Equal(t, ExitNotFoundError, GetExitCode(runProjects(context.Background(), te.env)))
}

func TestRunProjects_Create(t *testing.T) {
	args := workerArgs("create", "--name", "Deck", "--description", "Oil the boards",
		"--start", "2025-05-01", "--finish", "2025-05-03", "--lat", "-33.92", "--lon", "18.42")
	args.JSON = true
	te := newTestEnv(t, args)

	require.NoError(t, runProjects(context.Background(), te.env))

	var created model.Project
	decodeData(t, te.out, &created)
	assert.Equal(t, "Deck", created.Name)
	assert.Equal(t, "2025-05-01", created.StartDate.String())
	assert.Equal(t, 6, te.backend.ProjectCount())
}

func TestRunProjects_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
	}{
		{"missing fields", []string{"create", "--name", "Deck"}},
		{"bad date", []string{"create", "--name", "Deck", "--description", "d", "--start", "May 1", "--finish", "2025-05-03"}},
		{"finish before start", []string{"create", "--name", "Deck", "--description", "d", "--start", "2025-05-03", "--finish", "2025-05-01"}},
		{"half a location", []string{"create", "--name", "Deck", "--description", "d", "--start", "2025-05-01", "--finish", "2025-05-03", "--lat", "10"}},
		{"location out of range", []string{"create", "--name", "Deck", "--description", "d", "--start", "2025-05-01", "--finish", "2025-05-03", "--lat", "91", "--lon", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t, workerArgs(tt.raw...))
			err := runProjects(context.Background(), te.env)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, GetExitCode(err))
			assert.Equal(t, 5, te.backend.ProjectCount())
		})
	}
}

func TestRunProjects_StatusAndToggle(t *testing.T) {
	args := workerArgs("status", "2", "in_progress")
	args.JSON = true
	te := newTestEnv(t, args)
	require.NoError(t, runProjects(context.Background(), te.env))
	var updated model.Project
	decodeData(t, te.out, &updated)
	assert.Equal(t, model.StatusInProgress, updated.Status)

	// Project 3 starts completed.
	args = workerArgs("toggle", "3")
	args.JSON = true
	te = newTestEnv(t, args)
	require.NoError(t, runProjects(context.Background(), te.env))
	decodeData(t, te.out, &updated)
	assert.Equal(t, model.StatusInProgress, updated.Status)

	te = newTestEnv(t, workerArgs("status", "2", "DONE"))
	assert.True(t, IsValidationError(runProjects(context.Background(), te.env)))
}

func TestRunProjects_DeleteNeedsConfirm(t *testing.T) {
	te := newTestEnv(t, workerArgs("delete", "4"))
	assert.True(t, IsValidationError(runProjects(context.Background(), te.env)))
	assert.Equal(t, 5, te.backend.ProjectCount())

	te = newTestEnv(t, workerArgs("delete", "4", "--confirm"))
	require.NoError(t, runProjects(context.Background(), te.env))
	assert.Equal(t, 4, te.backend.ProjectCount())
}

func TestRunProjects_Export(t *testing.T) {
	dir := t.TempDir()
	args := workerArgs("export", "--format", "json", "--output", dir, "--search", "garden")
	args.JSON = true
	te := newTestEnv(t, args)

	require.NoError(t, runProjects(context.Background(), te.env))

	var data ExportData
	decodeData(t, te.out, &data)
	assert.Equal(t, "json", data.Format)
	assert.Equal(t, 2, data.Count)
	assert.Equal(t, dir, filepath.Dir(data.Path))
	_, err := os.Stat(data.Path)
	assert.NoError(t, err)

	te = newTestEnv(t, workerArgs("export", "--format", "xml"))
	assert.True(t, IsValidationError(runProjects(context.Background(), te.env)))
}

func TestRunAdmin(t *testing.T) {
	args := adminArgs("list")
	args.JSON = true
	te := newTestEnv(t, args)
	require.NoError(t, runAdmin(context.Background(), te.env))
	var data ProjectsData
	decodeData(t, te.out, &data)
	assert.Equal(t, 5, data.Count)

	te = newTestEnv(t, adminArgs("list"))
	require.NoError(t, runAdmin(context.Background(), te.env))
	assert.Contains(t, te.out.String(), "Worker")

	te = newTestEnv(t, workerArgs("list"))
	err := runAdmin(context.Background(), te.env)
	var permErr *PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, ExitAuthError, GetExitCode(err))
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func TestRunRegister(t *testing.T) {
	args := Args{Username: "nina", Password: "longenough1", Raw: []string{"--email", "nina@example.com"}, JSON: true}
	te := newTestEnv(t, args)

	require.NoError(t, runRegister(context.Background(), te.env))

	var user UserData
	decodeData(t, te.out, &user)
	assert.Equal(t, "nina", user.Username)
	assert.Equal(t, string(model.RoleWorker), user.Role)
}

func TestRunRegister_Admin(t *testing.T) {
	args := Args{Username: "otto", Password: "longenough1", Raw: []string{"--admin", "--email", "otto@example.com"}, JSON: true}
	te := newTestEnv(t, args)

	require.NoError(t, runRegister(context.Background(), te.env))

	var user UserData
	decodeData(t, te.out, &user)
	assert.Equal(t, string(model.RoleAdmin), user.Role)
}

func TestRunRegister_PasswordMismatch(t *testing.T) {
	args := Args{Username: "nina", Raw: []string{"--email", "nina@example.com"}}
	te := newTestEnv(t, args, "longenough1", "different1")
	before := te.backend.Requests()

	err := runRegister(context.Background(), te.env)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, before, te.backend.Requests())
}

func TestRunRegister_InvalidEmail(t *testing.T) {
	args := Args{Username: "nina", Password: "longenough1", Raw: []string{"--email", "not-an-email"}}
	te := newTestEnv(t, args)
	assert.True(t, IsValidationError(runRegister(context.Background(), te.env)))
}

func TestRunLogin_SavesUsernameOnly(t *testing.T) {
	t.Cleanup(config.ResetGlobalForTesting)

	te := newTestEnv(t, workerArgs())
	// Simulate an --api-url override on top of the file config.
	te.base.API.BaseURL = "https://tracker.example.com/api/"

	var saved *config.Config
	err := runLogin(context.Background(), te.env, func(c *config.Config) error {
		saved = c
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, SeedWorker, saved.API.Username)
	assert.Equal(t, "https://tracker.example.com/api/", saved.API.BaseURL)
	assert.Contains(t, te.out.String(), "Logged in as worker (worker)")
	assert.Contains(t, te.out.String(), "Username saved")
}

func TestRunLogin_NoSave(t *testing.T) {
	te := newTestEnv(t, workerArgs("--no-save"))

	called := false
	err := runLogin(context.Background(), te.env, func(*config.Config) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestRunLogin_SaveFailureIsAWarning(t *testing.T) {
	t.Cleanup(config.ResetGlobalForTesting)
	te := newTestEnv(t, workerArgs())

	err := runLogin(context.Background(), te.env, func(*config.Config) error {
		return errors.New("read-only")
	})
	require.NoError(t, err)
	assert.Contains(t, te.out.String(), "could not remember username")
}

// =============================================================================
// SESSION JOURNAL
// =============================================================================

func newTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []journal.Entry{
		{Type: journal.TypeLogin, SessionID: "sess_a", Username: "wendy", At: start},
		{Type: journal.TypeIdleWarning, SessionID: "sess_a", Username: "wendy", At: start.Add(10 * time.Minute)},
		{Type: journal.TypeIdleLogout, SessionID: "sess_a", Username: "wendy", At: start.Add(11 * time.Minute)},
		{Type: journal.TypeLogin, SessionID: "sess_b", Username: "otto", At: start.Add(time.Hour)},
		{Type: journal.TypeLogout, SessionID: "sess_b", Username: "otto", Detail: "reason=quit", At: start.Add(2 * time.Hour)},
	}
	for _, r := range records {
		_, err := j.Record(ctx, r)
		require.NoError(t, err)
	}
	return j
}

func TestRunSession_Log(t *testing.T) {
	j := newTestJournal(t)
	te := newTestEnv(t, Args{Raw: []string{"log", "--limit", "2"}, JSON: true})

	require.NoError(t, runSession(context.Background(), te.env, j))

	var entries []JournalEntryData
	decodeData(t, te.out, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, string(journal.TypeLogout), entries[0].Type)
	assert.Equal(t, "sess_b", entries[0].SessionID)
}

func TestRunSession_LogBadLimit(t *testing.T) {
	j := newTestJournal(t)
	te := newTestEnv(t, Args{Raw: []string{"log", "--limit", "lots"}})
	assert.True(t, IsValidationError(runSession(context.Background(), te.env, j)))
}

func TestRunSession_Show(t *testing.T) {
	j := newTestJournal(t)
	te := newTestEnv(t, Args{Raw: []string{"show", "sess_a"}})

	require.NoError(t, runSession(context.Background(), te.env, j))

	out := te.out.String()
	assert.Contains(t, out, "Session sess_a")
	assert.Contains(t, out, "idle timeout")
	assert.Contains(t, out, "11m")

	te = newTestEnv(t, Args{Raw: []string{"show", "sess_missing"}})
	err := runSession(context.Background(), te.env, j)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestRunSession_Stats(t *testing.T) {
	j := newTestJournal(t)
	te := newTestEnv(t, Args{Raw: []string{"stats"}, JSON: true})

	require.NoError(t, runSession(context.Background(), te.env, j))

	var data SessionStatsData
	decodeData(t, te.out, &data)
	assert.Equal(t, 5, data.Total)
	assert.Equal(t, 2, data.Sessions)
	assert.Equal(t, 2, data.ByType[string(journal.TypeLogin)])
	assert.Equal(t, 1, data.ByType[string(journal.TypeIdleLogout)])
	require.NotNil(t, data.Latest)
}

func TestEndedBy(t *testing.T) {
	assert.Equal(t, "still open", endedBy([]journal.Entry{{Type: journal.TypeLogin}}))
	assert.Equal(t, "logout (reason=quit)", endedBy([]journal.Entry{{Type: journal.TypeLogin}, {Type: journal.TypeLogout, Detail: "reason=quit"}}))
	assert.Equal(t, "idle timeout", endedBy([]journal.Entry{{Type: journal.TypeIdleLogout}}))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestRunConfig_InitSetValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	run := func(raw ...string) error {
		te := newTestEnv(t, Args{Raw: raw})
		return runConfig(te.env, path)
	}

	require.NoError(t, run("init"))
	assert.True(t, IsValidationError(run("init")), "second init needs --force")
	require.NoError(t, run("init", "--force"))

	require.NoError(t, run("set", "ui.page_size", "8"))
	require.NoError(t, run("set", "session.idle_timeout_secs", "600"))
	require.NoError(t, run("set", "ui.render_markdown", "false"))

	cfg, err := loadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.UI.PageSize)
	assert.Equal(t, 600, cfg.Session.IdleTimeoutSecs)
	assert.False(t, cfg.UI.RenderMarkdown)

	require.NoError(t, run("validate"))
}

func TestRunConfig_SetRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	run := func(raw ...string) error {
		te := newTestEnv(t, Args{Raw: raw})
		return runConfig(te.env, path)
	}

	assert.True(t, IsValidationError(run("set", "ui.colour", "red")))
	assert.True(t, IsValidationError(run("set", "ui.page_size", "many")))
	assert.True(t, IsValidationError(run("set")))

	err := run("set", "export.format", "xml")
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected values are not written")
}

func TestRunConfig_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	te := newTestEnv(t, Args{Raw: []string{"path"}, JSON: true})

	require.NoError(t, runConfig(te.env, path))

	var data ConfigPathData
	decodeData(t, te.out, &data)
	assert.Equal(t, path, data.Path)
	assert.False(t, data.Exists)
}

// =============================================================================
// DEV SERVER
// =============================================================================

func TestSeedBackend(t *testing.T) {
	b := apitest.New()
	SeedBackend(b, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 5, b.ProjectCount())
}

// =============================================================================
// FORMATTING
// =============================================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{50 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
	now := time.Now()
	assert.Equal(t, "0s ago", formatAge(now.Add(time.Minute), now))
}
