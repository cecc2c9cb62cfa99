// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projects holds the project list state shown by the dashboards.
//
// A Board keeps the fetched projects, the live search term and its
// results, and the current page. The displayed list is the search results
// when there are any, otherwise every fetched project. Boards are owned by
// the UI event loop and are not safe for concurrent use.
package projects
