// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import "strings"

// Span is a half-open highlighted column range [Start, End) within a
// row's visible text.
type Span struct {
	Start int
	End   int
}

// Row is one visual row of a laid-out item: the visible text (already
// cut to the available width at grapheme boundaries), the highlight
// spans within it, and whether the left edge was cut by a horizontal
// offset (rendered as an ellipsis marker).
type Row struct {
	Text         string
	Spans        []Span
	LeftEllipsis bool
}

// Options tunes the layout computation.
type Options struct {
	// TabStop is the tab expansion interval; zero selects
	// DefaultTabStop.
	TabStop int
	// HighlightPadding is the number of columns kept free after the
	// rightmost highlight when computing the scroll-through offset.
	HighlightPadding int
}

// Item lays out one rendered string for the given width and horizontal
// offset. Each hard line (split at line feeds) produces one row; text
// never splits mid-grapheme, and a double-width cluster that would
// straddle the right edge is excluded.
//
// Multi-line items apply the same offset to every row, so the columns
// of a wrapped item stay vertically aligned.
func Item(rendered string, highlights []int, width int, offset int, options Options) []Row {
	lines := buildLines(rendered, highlights, options.TabStop)
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, layoutLine(line, width, offset))
	}
	return rows
}

// layoutLine cuts one cell line to the visible window [offset,
// offset+width) and computes the highlight spans in window columns.
// A non-zero offset reserves the first window column for the ellipsis
// marker.
func layoutLine(line []cell, width, offset int) Row {
	if width <= 0 {
		return Row{}
	}

	var row Row
	available := width
	windowColumn := 0
	if offset > 0 {
		row.LeftEllipsis = true
		available--
		windowColumn = 1
	}

	var text strings.Builder
	column := 0
	used := 0
	spanStart := -1
	for _, c := range line {
		if column < offset {
			// Cells left of the window. A wide cluster straddling the
			// cut is skipped entirely.
			column += c.width
			continue
		}
		if used+c.width > available {
			break
		}
		text.WriteString(c.cluster)
		if c.highlighted {
			if spanStart < 0 {
				spanStart = windowColumn
			}
		} else if spanStart >= 0 {
			row.Spans = append(row.Spans, Span{Start: spanStart, End: windowColumn})
			spanStart = -1
		}
		column += c.width
		used += c.width
		windowColumn += c.width
	}
	if spanStart >= 0 {
		row.Spans = append(row.Spans, Span{Start: spanStart, End: windowColumn})
	}
	row.Text = text.String()
	return row
}

// RequiredOffset computes the scroll-through offset for the selected
// item: the smallest horizontal shift that brings every highlighted
// column within the visible width, without ever hiding the earliest
// highlight of any line. Returns 0 when the highlights already fit.
//
// A non-zero offset accounts for the ellipsis marker column. The
// offset depends only on the item's highlights and the width, so it
// resets naturally when the selection changes.
func RequiredOffset(rendered string, highlights []int, width int, options Options) int {
	if width <= 0 || len(highlights) == 0 {
		return 0
	}
	lines := buildLines(rendered, highlights, options.TabStop)

	// The rightmost column (over all lines) that must be visible.
	requiredWidth := 0
	for _, line := range lines {
		column := 0
		lastEnd := -1
		for _, c := range line {
			column += c.width
			if c.highlighted {
				lastEnd = column
			}
		}
		if lastEnd > requiredWidth {
			requiredWidth = lastEnd
		}
	}

	offset := requiredWidth + options.HighlightPadding - width
	if offset <= 0 {
		return 0
	}

	// Prefer showing the earliest highlights: never shift past the
	// first highlighted column of any line.
	sharp := false
	for _, line := range lines {
		column := 0
		for _, c := range line {
			if c.highlighted {
				if column <= offset {
					offset = column
					sharp = true
				}
				break
			}
			column += c.width
		}
	}

	if !sharp {
		// Reserve a column for the ellipsis marker.
		offset++
	}
	if offset == 1 {
		// A shift of one gains nothing over printing the first cell.
		return 0
	}
	return offset
}

// Height returns the number of visual rows the rendered string
// occupies: one per hard line.
func Height(rendered string) int {
	return strings.Count(rendered, "\n") + 1
}
