// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for ergo.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdRegister
	CmdLogin
	CmdProjects
	CmdAdmin
	CmdSession
	CmdConfig
	CmdDevServer
	CmdVersion
	CmdHelp
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdRegister:
		return "register"
	case CmdLogin:
		return "login"
	case CmdProjects:
		return "projects"
	case CmdAdmin:
		return "admin"
	case CmdSession:
		return "session"
	case CmdConfig:
		return "config"
	case CmdDevServer:
		return "devserver"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	APIURL  string // Overrides api.base_url for this run

	// Credentials for one-shot commands. Prompted for when empty.
	Username string
	Password string

	// Command-specific
	Subcommand string

	// Raw args (remaining after the command name)
	Raw []string

	// Unknown is set when the command name was not recognised.
	Unknown string
}

const usageText = `ergo - terminal client for the worker/project tracker

Usage:
  ergo                          Start the TUI (default)
  ergo tui                      Start the TUI
  ergo register [--admin]       Create an account
  ergo login [--no-save]        Check credentials and remember the username
  ergo projects [subcommand]    Work with your projects
  ergo admin [list|search|stats] Every worker's projects (admin accounts)
  ergo session [subcommand]     Inspect the local session journal
  ergo config [subcommand]      Configuration
  ergo devserver [--seed]       Run an in-memory tracker backend
  ergo version                  Show version
  ergo help                     Show this help

Project Commands:
  ergo projects list                      List your projects
  ergo projects search <name>             Search projects by name
  ergo projects show <id>                 Show one project
  ergo projects create                    Create a project
    --name NAME --description TEXT
    --start YYYY-MM-DD --finish YYYY-MM-DD
    --lat N --lon N                       Optional location
  ergo projects status <id> <STATUS>      Set PENDING, IN_PROGRESS or COMPLETED
  ergo projects toggle <id>               Flip between completed and in progress
  ergo projects delete <id> --confirm     Delete a project
  ergo projects export                    Export projects to a file
    --format csv|json|md                  Export format (default: config)
    --output DIR                          Output directory (default: config)

Session Commands:
  ergo session log [--limit N]            Show recent journal entries (default: 20)
  ergo session show <session-id>          Show every entry of one session
  ergo session stats                      Count journal entries

Config Commands:
  ergo config show                        Print the effective configuration
  ergo config path                        Print the config file path
  ergo config init [--force]              Write a default config file
  ergo config set <key> <value>           Set a value (e.g. ui.page_size 8)
  ergo config validate                    Validate the configuration

Dev Server:
  ergo devserver --addr 127.0.0.1:8000    Listen address (default shown)
    --seed                                Add demo accounts and projects
    --quiet-requests                      Do not log each request

Global Flags:
  --api-url URL                 Backend base URL (overrides config)
  -u, --username NAME           Username for one-shot commands
  --password PASS               Password (prompted without echo when omitted)
  --json                        Output in JSON format
  -q, --quiet                   Minimal output
  -v, --verbose                 Verbose output

Environment:
  ERGO_HOME                     Config directory (default: ~/.ergo)
  ERGO_API_URL                  Backend base URL
  ERGO_USERNAME                 Default username
  ERGO_IDLE_TIMEOUT_SECS        Idle logout timeout
  ERGO_WARNING_LEAD_SECS        Warning shown this long before logout

Examples:
  ergo devserver --seed &
  ergo --api-url http://127.0.0.1:8000/api/ -u worker projects list
  ergo projects status 3 COMPLETED
  ergo projects export --format json
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("ergo %s\n", Version)
	fmt.Printf("  Commit: %s\n", GitCommit)
	fmt.Printf("  Built:  %s\n", BuildDate)
	fmt.Printf("  Go:     %s\n", runtime.Version())
}

// Parse parses os.Args and returns the command and arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses a raw argument list (without the program name).
func ParseArgs(args []string) (Command, Args) {
	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		parsedArgs.Subcommand = strings.ToLower(remaining[0])
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "register", "signup":
		return CmdRegister, parsedArgs
	case "login":
		return CmdLogin, parsedArgs
	case "projects", "project", "p":
		return CmdProjects, parsedArgs
	case "admin":
		return CmdAdmin, parsedArgs
	case "session", "sessions":
		return CmdSession, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "devserver", "serve":
		return CmdDevServer, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		// Unknown command: show help rather than starting the TUI.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		parsedArgs.Unknown = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags pulls the flags every command understands out of args.
// Everything else is returned in order.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	takeValue := func(i *int) string {
		if *i+1 < len(args) {
			*i++
			return args[*i]
		}
		return ""
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--api-url":
			parsedArgs.APIURL = takeValue(&i)
		case "-u", "--username":
			parsedArgs.Username = takeValue(&i)
		case "--password":
			parsedArgs.Password = takeValue(&i)
		default:
			switch {
			case strings.HasPrefix(arg, "--api-url="):
				parsedArgs.APIURL = strings.TrimPrefix(arg, "--api-url=")
			case strings.HasPrefix(arg, "--username="):
				parsedArgs.Username = strings.TrimPrefix(arg, "--username=")
			case strings.HasPrefix(arg, "--password="):
				parsedArgs.Password = strings.TrimPrefix(arg, "--password=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		NewJSONResponse("version", data).Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command. An unknown command name is
// reported before the usage text.
func HandleHelp(args Args) error {
	PrintUsage()
	if args.Unknown != "" {
		return NewValidationErrorWithExample("command", args.Unknown, "unknown command", "ergo help")
	}
	return nil
}
