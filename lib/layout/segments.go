// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Segment is a run of row text that is either entirely highlighted or
// entirely plain. Splitting a row into segments lets the screen writer
// apply one style per run.
type Segment struct {
	Text        string
	Highlighted bool
}

// Segments splits the row text at its span boundaries. Columns are
// recomputed from the text, so the split never lands inside a grapheme
// cluster.
func (row Row) Segments() []Segment {
	if len(row.Spans) == 0 {
		if row.Text == "" {
			return nil
		}
		return []Segment{{Text: row.Text}}
	}

	var segments []Segment
	var current []byte
	currentHighlighted := false
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, Segment{Text: string(current), Highlighted: currentHighlighted})
			current = current[:0]
		}
	}

	column := 0
	if row.LeftEllipsis {
		column = 1
	}
	spanIndex := 0
	graphemes := uniseg.NewGraphemes(row.Text)
	for graphemes.Next() {
		cluster := graphemes.Str()
		for spanIndex < len(row.Spans) && column >= row.Spans[spanIndex].End {
			spanIndex++
		}
		highlighted := spanIndex < len(row.Spans) &&
			column >= row.Spans[spanIndex].Start && column < row.Spans[spanIndex].End
		if highlighted != currentHighlighted {
			flush()
			currentHighlighted = highlighted
		}
		current = append(current, cluster...)
		column += runewidth.StringWidth(cluster)
	}
	flush()
	return segments
}
