// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the portal client runtime.
//
// [Browser] stands in for the browser tab: it holds the current route and
// URL fragment, the visibility of the tab and the pre-unload listeners, and
// owns the tab scoped and installation wide storages. [App] wires storages,
// the auth adapter, services, background jobs and the terminal front end
// into a single process lifecycle.
package client
