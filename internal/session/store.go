// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/ergo-tui/internal/model"
	"github.com/jeranaias/ergo-tui/internal/util"
)

// ErrNotLoggedIn is returned by RequireUser when no user is signed in.
var ErrNotLoggedIn = errors.New("not logged in")

// =============================================================================
// STATE
// =============================================================================

// State is a copy of the session state.
type State struct {
	Loading  bool
	Error    string
	Access   string
	Refresh  string
	User     *model.User
	Role     model.Role
	LoggedIn bool

	SessionID string
	StartTime time.Time
}

// Status summarises one login session.
type Status struct {
	SessionID string
	Username  string
	Role      model.Role
	StartTime time.Time
	Duration  time.Duration
}

// =============================================================================
// STORE
// =============================================================================

// Store tracks the current login session.
type Store struct {
	mu    sync.Mutex
	state State

	// now is swapped in tests.
	now func() time.Time
}

// NewStore returns a logged-out store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Begin marks a request as in flight and clears the previous error.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = ""
}

// Fail ends the in-flight request with an error message.
func (s *Store) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if msg == "" {
		msg = "Something went wrong"
	}
	s.state.Error = msg
}

// ClearError drops the last error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Registered records a freshly created account. It does not log in.
func (s *Store) Registered(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.User = &user
}

// Login stores the tokens and user and starts a new session.
func (s *Store) Login(access, refresh string, user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		Access:    access,
		Refresh:   refresh,
		User:      &user,
		Role:      user.Role,
		LoggedIn:  true,
		SessionID: generateSessionID(),
		StartTime: s.now(),
	}
}

// Logout clears the session and returns a summary of the one that ended.
// ok is false when nobody was logged in.
func (s *Store) Logout() (status Status, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LoggedIn {
		status = s.statusLocked()
		ok = true
	}
	s.state = State{}
	return status, ok
}

// SetAccessToken replaces the access token after a refresh.
func (s *Store) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.LoggedIn {
		s.state.Access = access
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// AccessToken returns the bearer token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Access
}

// LoggedIn reports whether a user is signed in.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LoggedIn
}

// IsAdmin reports whether the signed-in user is an administrator.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LoggedIn && s.state.Role.IsAdmin()
}

// RequireUser returns the signed-in user. Dashboards are only shown when
// this succeeds.
func (s *Store) RequireUser() (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.LoggedIn || s.state.User == nil {
		return model.User{}, ErrNotLoggedIn
	}
	return *s.state.User, nil
}

// Status returns a summary of the current session.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Store) statusLocked() Status {
	st := Status{
		SessionID: s.state.SessionID,
		Role:      s.state.Role,
		StartTime: s.state.StartTime,
	}
	if s.state.User != nil {
		st.Username = s.state.User.Username
	}
	if !st.StartTime.IsZero() {
		st.Duration = s.now().Sub(st.StartTime)
	}
	return st
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + uuid.New().String()[:8]
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToString(secs) + "s"
	}
	if d >= time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return util.IntToString(hours) + "h " + util.IntToString(mins) + "m"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
