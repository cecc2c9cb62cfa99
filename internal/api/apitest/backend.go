// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-memory tracker backend.
//
// It serves the same routes and error shapes as the real API and backs
// both the api package tests and the `ergo devserver` command.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jeranaias/ergo-tui/internal/model"
)

// MinPasswordLength mirrors the backend's password validator.
const MinPasswordLength = 8

type account struct {
	user     model.User
	password string
}

// Backend is an in-memory tracker API. The zero value is not usable; call New.
type Backend struct {
	// Now supplies creation timestamps.
	Now func() time.Time

	mu            sync.Mutex
	accounts      map[string]*account // by username
	accessTokens  map[string]int      // token -> user id
	refreshTokens map[string]int
	projects      map[int]*model.Project
	nextUserID    int
	nextProjectID int
	requests      int
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		Now:           time.Now,
		accounts:      make(map[string]*account),
		accessTokens:  make(map[string]int),
		refreshTokens: make(map[string]int),
		projects:      make(map[int]*model.Project),
		nextUserID:    1,
		nextProjectID: 1,
	}
}

// NewServer starts an httptest server for a new backend. The API root is
// server.URL + "/api/".
func NewServer() (*Backend, *httptest.Server) {
	b := New()
	return b, httptest.NewServer(b.Router(false))
}

// Router returns the HTTP handler with routes mounted under /api.
func (b *Backend) Router(logRequests bool) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if logRequests {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(b.count)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", b.root)
		r.Post("/register/worker/", b.registerHandler(model.RoleWorker))
		r.Post("/register/admin/", b.registerHandler(model.RoleAdmin))
		r.Post("/login/", b.login)
		r.Post("/token/refresh/", b.refresh)

		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)
			r.Get("/projects/", b.listProjects)
			r.Post("/projects/", b.createProject)
			r.Get("/projects/search/", b.searchProjects)
			r.Get("/projects/{id}/", b.getProject)
			r.Patch("/projects/{id}/", b.patchProject)
			r.Delete("/projects/{id}/", b.deleteProject)
		})
	})
	return r
}

// =============================================================================
// SEEDING AND INSPECTION
// =============================================================================

// AddUser creates an account directly.
func (b *Backend) AddUser(username, password string, role model.Role) model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, "", password, role)
}

func (b *Backend) addUserLocked(username, email, password string, role model.Role) model.User {
	u := model.User{ID: b.nextUserID, Username: username, Email: email, Role: role}
	b.nextUserID++
	b.accounts[username] = &account{user: u, password: password}
	return u
}

// AddProject stores a project owned by owner and returns it with its ID.
func (b *Backend) AddProject(owner string, p model.Project) model.Project {
	b.mu.Lock()
	defer b.mu.Unlock()

	if acct, ok := b.accounts[owner]; ok {
		p.Worker = acct.user.ID
	}
	p.ID = b.nextProjectID
	b.nextProjectID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = b.Now().UTC()
	}
	if p.Status == "" {
		p.Status = model.StatusPending
	}
	stored := p
	b.projects[p.ID] = &stored
	return p
}

// ExpireAccessTokens invalidates every issued access token. Refresh tokens
// stay valid.
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessTokens = make(map[string]int)
}

// Requests returns how many requests the backend has served.
func (b *Backend) Requests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

// ProjectCount returns the number of stored projects.
func (b *Backend) ProjectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.projects)
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

type ctxKey struct{}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			detail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		b.mu.Lock()
		userID, valid := b.accessTokens[token]
		user, found := b.userByIDLocked(userID)
		b.mu.Unlock()

		if !valid || !found {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, user)))
	})
}

func (b *Backend) userByIDLocked(id int) (model.User, bool) {
	for _, acct := range b.accounts {
		if acct.user.ID == id {
			return acct.user, true
		}
	}
	return model.User{}, false
}

// =============================================================================
// HANDLERS
// =============================================================================

func (b *Backend) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"register_worker": "/api/register/worker/",
		"register_admin":  "/api/register/admin/",
		"login":           "/api/login/",
		"refresh_token":   "/api/token/refresh/",
		"projects":        "/api/projects/",
	})
}

func (b *Backend) registerHandler(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg model.Registration
		if !decode(w, r, &reg) {
			return
		}

		fields := map[string][]string{}
		if strings.TrimSpace(reg.Username) == "" {
			fields["username"] = []string{"This field may not be blank."}
		}
		if len(reg.Password) < MinPasswordLength {
			fields["password"] = []string{"This password is too short. It must contain at least 8 characters."}
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		if _, taken := b.accounts[reg.Username]; taken && reg.Username != "" {
			fields["username"] = []string{"A user with that username already exists."}
		}
		if len(fields) > 0 {
			writeJSON(w, http.StatusBadRequest, fields)
			return
		}

		user := b.addUserLocked(reg.Username, reg.Email, reg.Password, role)
		writeJSON(w, http.StatusCreated, user)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decode(w, r, &creds) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[creds.Username]
	if !ok || acct.password != creds.Password {
		detail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	access, refresh := uuid.New().String(), uuid.New().String()
	b.accessTokens[access] = acct.user.ID
	b.refreshTokens[refresh] = acct.user.ID

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    acct.user,
	})
}

func (b *Backend) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	userID, ok := b.refreshTokens[req.Refresh]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}
	access := uuid.New().String()
	b.accessTokens[access] = userID
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (b *Backend) listProjects(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.visibleLocked(user, ""))
}

func (b *Backend) searchProjects(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.visibleLocked(user, name))
}

// visibleLocked returns the projects user may see, ordered by ID, filtered
// by a case-insensitive name substring when name is set.
func (b *Backend) visibleLocked(user model.User, name string) []model.Project {
	needle := strings.ToLower(name)
	out := make([]model.Project, 0, len(b.projects))
	for _, p := range b.projects {
		if !user.Role.IsAdmin() && p.Worker != user.ID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) createProject(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	var in model.ProjectInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"name": {"This field may not be blank."}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p := &model.Project{
		ID:          b.nextProjectID,
		Worker:      user.ID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   b.Now().UTC(),
		StartDate:   in.StartDate,
		FinishDate:  in.FinishDate,
		Status:      model.StatusPending,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
	b.nextProjectID++
	b.projects[p.ID] = p
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) getProject(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.lookupLocked(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) patchProject(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}
	if !decode(w, r, &patch) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.lookupLocked(w, r)
	if !ok {
		return
	}

	if patch.Status != nil {
		status := model.ProjectStatus(*patch.Status)
		if !knownStatus(status) {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"status": {strconv.Quote(*patch.Status) + " is not a valid choice."},
			})
			return
		}
		p.Status = status
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deleteProject(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.lookupLocked(w, r)
	if !ok {
		return
	}
	delete(b.projects, p.ID)
	w.WriteHeader(http.StatusNoContent)
}

// lookupLocked resolves {id} with the same visibility rules as the list.
func (b *Backend) lookupLocked(w http.ResponseWriter, r *http.Request) (*model.Project, bool) {
	user := userFrom(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	p, found := b.projects[id]
	if err != nil || !found || (!user.Role.IsAdmin() && p.Worker != user.ID) {
		detail(w, http.StatusNotFound, "Not found.")
		return nil, false
	}
	return p, true
}

// =============================================================================
// HELPERS
// =============================================================================

// knownStatus accepts only the exact wire values.
func knownStatus(s model.ProjectStatus) bool {
	for _, st := range model.Statuses {
		if st == s {
			return true
		}
	}
	return false
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		detail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
