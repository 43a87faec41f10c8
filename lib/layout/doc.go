// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout turns rendered item strings into visual rows: it
// expands tabs, computes Unicode display widths per grapheme cluster,
// splits multi-line items at line feeds, maps matcher highlight
// offsets onto column spans, and computes the scroll-through offset
// that keeps the selected item's highlights visible on narrow screens.
package layout
