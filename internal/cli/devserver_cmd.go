// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// devserver_cmd.go - Run the in-memory tracker backend locally.
//
// Command: devserver [--addr ADDR] [--seed] [--quiet-requests]
//   - Serves the tracker API under /api/ until interrupted
//   - --seed adds an admin, a worker and a few projects
//   - State lives in memory and is lost on exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jeranaias/ergo-tui/internal/api/apitest"
	"github.com/jeranaias/ergo-tui/internal/model"
)

const (
	defaultDevAddr  = "127.0.0.1:8000"
	shutdownTimeout = 5 * time.Second
)

// Seed accounts created by --seed.
const (
	SeedAdmin         = "admin"
	SeedAdminPassword = "adminpass"
	SeedWorker        = "worker"
	SeedWorkerPass    = "workerpass"
)

// HandleDevServer handles "ergo devserver".
func HandleDevServer(args Args) error {
	p := NewArgParser(args.Raw, "seed", "quiet-requests")
	addr := p.FlagOrDefault("addr", defaultDevAddr)

	backend := apitest.New()
	if p.BoolFlag("seed") {
		SeedBackend(backend, time.Now())
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return NewCommandError("devserver", "listen", addr, err)
	}

	srv := &http.Server{
		Handler:           backend.Router(!p.BoolFlag("quiet-requests")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := commandContext()
	defer cancel()

	fmt.Printf("%s tracker API on http://%s/api/\n", SuccessStyle.Render("[OK]"), ln.Addr())
	if p.BoolFlag("seed") {
		fmt.Println(DimStyle.Render(fmt.Sprintf("  admin:  %s / %s", SeedAdmin, SeedAdminPassword)))
		fmt.Println(DimStyle.Render(fmt.Sprintf("  worker: %s / %s", SeedWorker, SeedWorkerPass)))
	}
	fmt.Println(DimStyle.Render("  Ctrl+C to stop"))

	return serve(ctx, srv, ln)
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("%s | DEVSERVER_STOPPED | addr=%s", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"), ln.Addr())
	return nil
}

// SeedBackend adds the demo accounts and projects around now.
func SeedBackend(b *apitest.Backend, now time.Time) {
	b.AddUser(SeedAdmin, SeedAdminPassword, model.RoleAdmin)
	b.AddUser(SeedWorker, SeedWorkerPass, model.RoleWorker)

	day := func(offset int) model.Date {
		t := now.AddDate(0, 0, offset)
		return model.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
	}

	seed := []model.Project{
		{Name: "Garden shed", Description: "Replace the **roof** and paint the door.", StartDate: day(-20), FinishDate: day(10), Status: model.StatusInProgress},
		{Name: "Garden path", Description: "Lay gravel along the west fence.", StartDate: day(-5), FinishDate: day(25), Status: model.StatusPending},
		{Name: "Kitchen tiles", Description: "Grout and seal.", StartDate: day(-40), FinishDate: day(-30), Status: model.StatusCompleted},
		{Name: "Fence repair", Description: "Two posts are loose.", StartDate: day(1), FinishDate: day(3), Status: model.StatusPending},
		{Name: "Roof gutters", Description: "Clear leaves, check the downpipe.", StartDate: day(-2), FinishDate: day(2), Status: model.StatusInProgress},
	}
	for _, p := range seed {
		b.AddProject(SeedWorker, p)
	}
}
