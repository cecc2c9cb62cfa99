// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the client's login session.
//
// A Store tracks the authentication state the UI renders from: the
// loading flag and last error of the pending request, the JWT pair, the
// logged-in user and their role. Logout clears all of it in one step,
// which is what the idle monitor triggers when the session expires.
//
// # Key Types
//
//   - Store: Mutex-guarded session state
//   - State: Point-in-time copy returned by Snapshot
//   - Status: Summary of a session, returned by Logout for journaling
//
// # Usage
//
//	store := session.NewStore()
//	store.Begin()
//	resp, err := client.Login(ctx, creds)
//	if err != nil {
//	    store.Fail(api.Message(err))
//	    return
//	}
//	store.Login(resp.Access, resp.Refresh, resp.User)
//
//	if store.IsAdmin() {
//	    // show the admin dashboard
//	}
package session
