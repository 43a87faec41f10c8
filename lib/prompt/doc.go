// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt implements the editable query line of the picker: a
// grapheme-indexed string with a cursor, Unicode word motions, and
// input normalization. Every content mutation bumps a generation
// counter; the engine compares generations to decide when to resubmit
// the query to the matcher.
package prompt
