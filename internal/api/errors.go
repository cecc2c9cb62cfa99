// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnreachable indicates the backend could not be contacted.
	ErrUnreachable = errors.New("something went wrong, please try again")

	// ErrUnauthorized indicates missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	// Detail is the top-level "detail" message, if any.
	Detail string
	// Fields maps field names to validation messages.
	Fields map[string][]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message())
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message returns the text a form shows for this error.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			msg := strings.Join(e.Fields[k], " ")
			if k == "non_field_errors" {
				parts = append(parts, msg)
			} else {
				parts = append(parts, k+": "+msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	if text := http.StatusText(e.Status); text != "" {
		return text
	}
	return "request failed"
}

// Field returns the joined messages for one field.
func (e *APIError) Field(name string) string {
	return strings.Join(e.Fields[name], " ")
}

// Message extracts user-facing text from any error returned by the client.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	if errors.Is(err, ErrUnreachable) {
		return ErrUnreachable.Error()
	}
	return err.Error()
}

// parseAPIError decodes a DRF-style error body. Unknown shapes fall back
// to the HTTP status text.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
			apiErr.Detail = text
		}
		return apiErr
	}

	for key, value := range raw {
		var single string
		var many []string
		switch {
		case json.Unmarshal(value, &single) == nil:
			if key == "detail" {
				apiErr.Detail = single
				continue
			}
			many = []string{single}
		case json.Unmarshal(value, &many) == nil:
		default:
			continue
		}
		if apiErr.Fields == nil {
			apiErr.Fields = make(map[string][]string)
		}
		apiErr.Fields[key] = many
	}
	return apiErr
}
