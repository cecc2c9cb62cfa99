// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain types exchanged with the project tracker.
//
// # Key Types
//
//   - User, Role: authenticated account and its role (ADMIN or WORKER)
//   - Project, ProjectStatus: a tracked project and its lifecycle status
//   - ProjectInput: the create form payload with client-side validation
//   - Date: calendar date encoded as YYYY-MM-DD (null when unset)
//   - StatusCounts: per-status totals for the status chart
//
// # Usage
//
//	in := model.ProjectInput{Name: "Bridge", Description: "Survey"}
//	if err := in.Validate(); err != nil {
//	    // show err to the user
//	}
package model
