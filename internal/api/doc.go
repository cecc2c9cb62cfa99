// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the worker/project tracker backend.
//
// The backend speaks JSON over a REST API rooted at a configurable base URL
// (default http://127.0.0.1:8000/api/). Authentication uses JWT bearer
// tokens obtained from login/ and renewed through token/refresh/.
//
// # Errors
//
// Non-2xx responses are returned as *APIError carrying the backend's body.
// 401 responses also match ErrUnauthorized with errors.Is; transport
// failures wrap ErrUnreachable.
//
// # Usage
//
//	client, err := api.NewClient(cfg.API.BaseURL)
//	resp, err := client.Login(ctx, model.Credentials{Username: u, Password: p})
//	client.SetTokens(resp.Access, resp.Refresh)
//	projects, err := client.Projects(ctx)
//
// The client is safe for concurrent use; bubbletea commands call it from
// their own goroutines.
package api
