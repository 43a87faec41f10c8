// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package screen owns the terminal for the duration of a pick: raw
// mode and the alternate screen as one scoped resource released on
// every exit path, a double-buffered frame writer that emits each
// frame inside a synchronized-output block, and the color theme used
// to style rows.
package screen
