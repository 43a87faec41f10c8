// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides helpers shared by the picker test suites:
// bounded channel operations so that a deadlocked engine fails a test
// instead of hanging it, and polling helpers for asynchronous matcher
// state.
package testutil
