// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package view tracks the selection state of the match list: the
// selected rank, the scroll window, and the multi-select marks. Its
// reconcile step re-anchors the selection against each new matcher
// snapshot so the highlighted item stays visually stable while results
// stream in.
package view
