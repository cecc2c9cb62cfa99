// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"net/mail"
	"strings"
)

// Role is the account role assigned by the backend.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleWorker Role = "WORKER"
)

// IsAdmin returns true for administrator accounts.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is the account returned by registration and login.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// DisplayName returns the username, or fallback when it is empty.
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.Username == "" {
		return fallback
	}
	return u.Username
}

// Registration is the payload for creating an account.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate applies the registration form rules: username of at least three
// characters, a valid email and a password of at least six characters.
func (r Registration) Validate() error {
	var errs InputErrors

	switch name := strings.TrimSpace(r.Username); {
	case name == "":
		errs = append(errs, InputError{Field: "username", Message: "Username is required"})
	case len([]rune(name)) < 3:
		errs = append(errs, InputError{Field: "username", Message: "Username must be at least 3 characters"})
	}

	switch email := strings.TrimSpace(r.Email); {
	case email == "":
		errs = append(errs, InputError{Field: "email", Message: "Email is required"})
	case !validEmail(email):
		errs = append(errs, InputError{Field: "email", Message: "Invalid email"})
	}

	switch {
	case r.Password == "":
		errs = append(errs, InputError{Field: "password", Message: "Password is required"})
	case len([]rune(r.Password)) < 6:
		errs = append(errs, InputError{Field: "password", Message: "Password must be at least 6 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
