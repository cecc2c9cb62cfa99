// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// projects_cmd.go - One-shot project commands.
//
// Command: projects [subcommand]
//
// Subcommands:
//   - list (default):           List your projects
//   - search <name>:            Search projects by name
//   - show <id>:                Show one project
//   - create:                   Create a project (flags or prompts)
//   - status <id> <STATUS>:     Set a project's status
//   - toggle <id>:              Flip between completed and in progress
//   - delete <id> --confirm:    Delete a project
//   - export:                   Export projects to a file
//
// Command: admin [list|search <name>|stats]
//   - Same listings across every worker; admin accounts only
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ergo-tui/internal/export"
	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/projects"
	"github.com/jeranaias/ergo-tui/internal/ui/components"
	"github.com/jeranaias/ergo-tui/internal/ui/styles"
	"github.com/jeranaias/ergo-tui/internal/util"
)

// projectBoolFlags never take a value.
var projectBoolFlags = []string{"confirm", "open", "no-metadata"}

// HandleProjects handles "ergo projects".
func HandleProjects(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	return runProjects(ctx, e)
}

func runProjects(ctx context.Context, e *env) error {
	p := NewArgParser(e.args.Raw, projectBoolFlags...)
	sub := p.Subcommand()
	if sub == "" {
		sub = "list"
	}

	switch sub {
	case "list", "ls", "search", "find", "show", "get", "create", "new",
		"status", "toggle", "delete", "rm", "export":
	default:
		return ErrUnknownSubcommand("projects", sub)
	}

	if _, err := e.login(ctx); err != nil {
		return err
	}

	switch sub {
	case "list", "ls":
		return listProjects(ctx, e, "", false)
	case "search", "find":
		term := JoinPositionalArgs(p, 1)
		if strings.TrimSpace(term) == "" {
			return ErrMissingArgument("name", "ergo projects search garden")
		}
		return listProjects(ctx, e, term, false)
	case "show", "get":
		return showProject(ctx, e, p)
	case "create", "new":
		return createProject(ctx, e, p)
	case "status":
		return setProjectStatus(ctx, e, p)
	case "toggle":
		return toggleProject(ctx, e, p)
	case "delete", "rm":
		return deleteProject(ctx, e, p)
	default:
		return exportProjects(ctx, e, p)
	}
}

// HandleAdmin handles "ergo admin".
func HandleAdmin(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()
	return runAdmin(ctx, e)
}

func runAdmin(ctx context.Context, e *env) error {
	p := NewArgParser(e.args.Raw)
	sub := p.Subcommand()
	if sub == "" {
		sub = "list"
	}
	if sub != "list" && sub != "search" && sub != "stats" {
		return ErrUnknownSubcommand("admin", sub)
	}

	resp, err := e.login(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin("admin "+sub, resp.User); err != nil {
		return err
	}

	switch sub {
	case "search":
		term := JoinPositionalArgs(p, 1)
		if strings.TrimSpace(term) == "" {
			return ErrMissingArgument("name", "ergo admin search garden")
		}
		return listProjects(ctx, e, term, true)
	case "stats":
		return projectStats(ctx, e)
	default:
		return listProjects(ctx, e, "", true)
	}
}

// =============================================================================
// LISTING
// =============================================================================

// fetch returns all projects, or the search results for term.
func fetch(ctx context.Context, e *env, term string) ([]model.Project, error) {
	if strings.TrimSpace(term) == "" {
		return e.client.Projects(ctx)
	}
	return e.client.SearchProjects(ctx, term)
}

func listProjects(ctx context.Context, e *env, term string, showWorker bool) error {
	list, err := fetch(ctx, e, term)
	if err != nil {
		return err
	}

	if e.args.JSON {
		return e.respond("projects", newProjectsData(term, list))
	}

	if len(list) == 0 {
		if term != "" {
			e.printf("No projects match %q.\n", term)
		} else {
			e.println("No projects yet.")
		}
		return nil
	}

	writeProjectTable(e.out, list, term, showWorker, GetTerminalWidth())
	if !e.args.Quiet {
		counts := model.CountStatuses(list)
		e.printf("\n%s\n", DimStyle.Render(fmt.Sprintf("%d projects: %d pending, %d in progress, %d completed",
			counts.Total(), counts.Get(model.StatusPending), counts.Get(model.StatusInProgress), counts.Get(model.StatusCompleted))))
	}
	return nil
}

// writeProjectTable prints projects as an aligned table. Name matches of
// term are highlighted.
func writeProjectTable(w io.Writer, list []model.Project, term string, showWorker bool, width int) {
	type col struct {
		title string
		width int
	}
	cols := []col{{"ID", 5}}
	if showWorker {
		cols = append(cols, col{"Worker", 7})
	}
	cols = append(cols, col{"Status", 16}, col{"Start", 10}, col{"Finish", 10})

	used := 0
	for _, c := range cols {
		used += c.width + 1
	}
	nameWidth := util.ClampInt(width-used-2, 8, 40)

	header := []string{util.PadWidth("ID", 5), util.PadWidth("Name", nameWidth)}
	for _, c := range cols[1:] {
		header = append(header, util.PadWidth(c.title, c.width))
	}
	fmt.Fprintln(w, HeaderStyle.Render(strings.Join(header, " ")))

	for _, p := range list {
		cells := []string{
			util.PadWidth(util.IntToString(p.ID), 5),
			highlightName(p.Name, term, nameWidth),
		}
		if showWorker {
			cells = append(cells, util.PadWidth(util.IntToString(p.Worker), 7))
		}
		status := RenderProjectStatus(p.Status)
		if gap := 16 - lipgloss.Width(status); gap > 0 {
			status += strings.Repeat(" ", gap)
		}
		cells = append(cells, status,
			util.PadWidth(p.StartDate.String(), 10),
			util.PadWidth(p.FinishDate.String(), 10))
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

var matchStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("214"))

func highlightName(name, term string, width int) string {
	name = util.TruncateWidth(util.SingleLine(name), width)

	var b strings.Builder
	for _, seg := range projects.Highlight(name, term) {
		if seg.Match && ColorsEnabled() {
			b.WriteString(matchStyle.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	if gap := width - util.StringWidth(name); gap > 0 {
		b.WriteString(strings.Repeat(" ", gap))
	}
	return b.String()
}

func projectStats(ctx context.Context, e *env) error {
	list, err := e.client.Projects(ctx)
	if err != nil {
		return err
	}
	if e.args.JSON {
		data := newProjectsData("", list)
		data.Projects = nil
		return e.respond("admin stats", data)
	}

	chart := components.NewStatusChart(styles.NewThemeForMode("dark"))
	chart.Counts = model.CountStatuses(list)
	chart.Width = GetTerminalWidth()
	e.println(chart.View())
	return nil
}

// =============================================================================
// SINGLE PROJECT
// =============================================================================

func projectID(p *ArgParser, usage string) (int, error) {
	raw := p.Positional(1)
	if raw == "" {
		return 0, ErrMissingArgument("id", usage)
	}
	id, err := ParseIntWithValidation(raw, "id")
	if err != nil {
		return 0, NewValidationErrorWithExample("id", raw, "must be a positive number", usage)
	}
	return id, nil
}

func showProject(ctx context.Context, e *env, p *ArgParser) error {
	id, err := projectID(p, "ergo projects show 3")
	if err != nil {
		return err
	}
	proj, err := e.client.Project(ctx, id)
	if err != nil {
		return err
	}
	if e.args.JSON {
		return e.respond("projects show", proj)
	}
	writeProject(e, *proj)
	return nil
}

func writeProject(e *env, p model.Project) {
	e.println(TitleStyle.Render(fmt.Sprintf("#%d %s", p.ID, p.Name)))
	e.println(RenderLabel("Status") + RenderProjectStatus(p.Status))
	e.println(RenderLabel("Start") + ValueStyle.Render(p.StartDate.String()))
	e.println(RenderLabel("Finish") + ValueStyle.Render(p.FinishDate.String()))
	if !p.CreatedAt.IsZero() {
		e.println(RenderLabel("Created") + ValueStyle.Render(
			p.CreatedAt.Local().Format("2006-01-02 15:04")+" ("+formatAge(p.CreatedAt, time.Now())+")"))
	}
	if loc, ok := p.Location(); ok {
		e.println(RenderLabel("Location") + ValueStyle.Render(loc.String()))
	}
	if p.Worker != 0 {
		e.println(RenderLabel("Worker") + ValueStyle.Render(util.IntToString(p.Worker)))
	}
	if strings.TrimSpace(p.Description) != "" {
		md := components.NewMarkdownRenderer(styles.NewThemeForMode("dark"), e.cfg.UI.RenderMarkdown && ColorsEnabled())
		e.println()
		e.println(md.Render(p.Description, util.ClampInt(GetTerminalWidth()-4, 20, 100)))
	}
}

func createProject(ctx context.Context, e *env, p *ArgParser) error {
	name := p.Flag("name")
	desc := p.Flag("description")
	start := p.Flag("start")
	finish := p.Flag("finish")

	// Prompt for what was not given on the command line.
	var err error
	if name == "" && IsTTY() {
		if name, err = e.prompt("Name: "); err != nil {
			return err
		}
		if desc == "" {
			if desc, err = e.prompt("Description: "); err != nil {
				return err
			}
		}
		if start == "" {
			if start, err = e.prompt("Start date (YYYY-MM-DD): "); err != nil {
				return err
			}
		}
		if finish == "" {
			if finish, err = e.prompt("Finish date (YYYY-MM-DD): "); err != nil {
				return err
			}
		}
	}

	in, err := projectInput(p, name, desc, start, finish)
	if err != nil {
		return err
	}

	created, err := e.client.CreateProject(ctx, *in)
	if err != nil {
		return err
	}
	if e.args.JSON {
		return e.respond("projects create", created)
	}
	e.printf("%s Created project #%d %s\n", SuccessStyle.Render("[OK]"), created.ID, created.Name)
	return nil
}

// projectInput builds and validates the create payload.
func projectInput(p *ArgParser, name, desc, start, finish string) (*model.ProjectInput, error) {
	in := &model.ProjectInput{Name: strings.TrimSpace(name), Description: desc}

	var errs model.InputErrors
	var err error
	if in.StartDate, err = model.ParseDate(start); err != nil {
		errs = append(errs, model.InputError{Field: "start_date", Message: err.Error()})
	}
	if in.FinishDate, err = model.ParseDate(finish); err != nil {
		errs = append(errs, model.InputError{Field: "finish_date", Message: err.Error()})
	}
	if len(errs) == 0 {
		if verr := in.Validate(); verr != nil {
			if ie, ok := verr.(model.InputErrors); ok {
				errs = append(errs, ie...)
			} else {
				return nil, verr
			}
		}
	}
	if len(errs) > 0 {
		return nil, NewValidationErrorWithExample("project", "", errs.Error(),
			`ergo projects create --name "Garden" --start 2025-03-01 --finish 2025-04-01`)
	}

	lat, hasLat, err := p.FlagFloat("lat")
	if err != nil {
		return nil, err
	}
	lon, hasLon, err := p.FlagFloat("lon")
	if err != nil {
		return nil, err
	}
	if hasLat != hasLon {
		return nil, NewValidationError("location", "", "give both --lat and --lon")
	}
	if hasLat {
		loc := model.Location{Lat: lat, Lon: lon}
		if !loc.Valid() {
			return nil, NewValidationError("location", loc.String(), "latitude must be within ±90 and longitude within ±180")
		}
		in.SetLocation(loc)
	}
	return in, nil
}

func setProjectStatus(ctx context.Context, e *env, p *ArgParser) error {
	const usage = "ergo projects status 3 COMPLETED"
	id, err := projectID(p, usage)
	if err != nil {
		return err
	}
	raw := JoinPositionalArgs(p, 2)
	if raw == "" {
		return ErrMissingArgument("status", usage)
	}
	status, err := model.ParseStatus(raw)
	if err != nil {
		return NewValidationErrorWithExample("status", raw, "must be PENDING, IN_PROGRESS or COMPLETED", usage)
	}
	return updateStatus(ctx, e, id, status)
}

func toggleProject(ctx context.Context, e *env, p *ArgParser) error {
	id, err := projectID(p, "ergo projects toggle 3")
	if err != nil {
		return err
	}
	proj, err := e.client.Project(ctx, id)
	if err != nil {
		return err
	}
	return updateStatus(ctx, e, id, proj.Status.Next())
}

func updateStatus(ctx context.Context, e *env, id int, status model.ProjectStatus) error {
	updated, err := e.client.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if e.args.JSON {
		return e.respond("projects status", updated)
	}
	e.printf("%s #%d %s is now %s\n", SuccessStyle.Render("[OK]"), updated.ID, updated.Name, RenderProjectStatus(updated.Status))
	return nil
}

func deleteProject(ctx context.Context, e *env, p *ArgParser) error {
	id, err := projectID(p, "ergo projects delete 3 --confirm")
	if err != nil {
		return err
	}
	if !p.BoolFlag("confirm") {
		return NewValidationErrorWithExample("confirm", "", "deleting a project requires --confirm", "ergo projects delete 3 --confirm")
	}
	if err := e.client.DeleteProject(ctx, id); err != nil {
		return err
	}
	if e.args.JSON {
		return e.respond("projects delete", map[string]int{"id": id})
	}
	e.printf("%s Deleted project #%d\n", SuccessStyle.Render("[OK]"), id)
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

func exportProjects(ctx context.Context, e *env, p *ArgParser) error {
	format := p.FlagOrDefault("format", e.cfg.Export.Format)

	opts := export.DefaultOptions()
	opts.OutputDir = p.FlagOrDefault("output", e.cfg.Export.Dir)
	opts.Filename = p.FlagOrDefault("name", opts.Filename)
	opts.OpenAfterExport = p.BoolFlag("open")
	opts.IncludeMetadata = !p.BoolFlag("no-metadata")

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return ErrInvalidFormat("format", format, "csv, json or md")
	}

	term := p.Flag("search")
	list, err := fetch(ctx, e, term)
	if err != nil {
		return err
	}

	path, err := export.ExportToFile(list, exporter, opts)
	if err != nil {
		return err
	}

	if e.args.JSON {
		return e.respond("projects export", ExportData{Path: path, Format: strings.TrimPrefix(exporter.FileExtension(), "."), Count: len(list)})
	}
	e.printf("%s Exported %d projects to %s\n", SuccessStyle.Render("[OK]"), len(list), path)
	return nil
}
