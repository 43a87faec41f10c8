// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sift-tui/sift/lib/layout"
	"github.com/sift-tui/sift/lib/screen"
)

// block is one visible item: its ranked position and laid-out rows.
type block struct {
	rank     int
	rows     []layout.Row
	selected bool
	marked   bool
}

// compose builds the frame for the current reconciled snapshot. The
// default orientation puts the prompt at the bottom with the best
// match directly above it; Reversed flips the stack.
func (session *session[T]) compose() *screen.Frame {
	frame := &screen.Frame{Rows: make([]string, session.rows)}
	if session.rows == 0 || session.cols == 0 {
		return frame
	}

	promptRow := session.rows - 1
	counterRow := session.rows - 2
	if session.picker.config.Reversed {
		promptRow = 0
		counterRow = 1
	}

	frame.Rows[promptRow] = session.composePrompt(frame, promptRow)
	if session.rows >= 2 {
		frame.Rows[counterRow] = session.composeCounter()
	}
	if listArea := session.listRows(); listArea > 0 {
		session.composeList(frame, listArea)
	}
	return frame
}

// composePrompt renders the query line and records the cursor
// placement.
func (session *session[T]) composePrompt(frame *screen.Frame, promptRow int) string {
	const marker = "> "
	visible, cursorColumn := session.prompt.View(session.cols-len(marker), session.picker.config.PromptPadding)
	frame.CursorRow = promptRow
	frame.CursorCol = len(marker) + cursorColumn
	return session.theme.Prompt.Render(marker) + visible
}

// composeCounter renders the matched/total line, plus the mark count
// in multi-select mode.
func (session *session[T]) composeCounter() string {
	text := fmt.Sprintf("  %d/%d", session.current.MatchedCount(), session.current.TotalCount())
	if marked := session.list.MarkedCount(); marked > 0 {
		text += fmt.Sprintf(" (%d)", marked)
	}
	return session.theme.Counter.Render(text)
}

// composeList fills the list area. The selection is laid out first and
// always shown (truncated to the area if necessary); remaining rows
// extend toward the window top, then past the selection.
func (session *session[T]) composeList(frame *screen.Frame, area int) {
	matched := session.current.MatchedCount()
	selection := session.list.Selection()
	if matched == 0 || selection < 0 {
		return
	}

	contentWidth := session.cols - 2
	if contentWidth <= 0 {
		return
	}

	budget := area
	selectedBlock := session.buildBlock(selection, contentWidth, true)
	if len(selectedBlock.rows) > budget {
		selectedBlock.rows = selectedBlock.rows[:budget]
	}
	budget -= len(selectedBlock.rows)

	var lower []block // ranks below the selection, best first when done
	for rank := selection - 1; rank >= session.list.Top() && budget > 0; rank-- {
		candidate := session.buildBlock(rank, contentWidth, false)
		if len(candidate.rows) > budget {
			break
		}
		budget -= len(candidate.rows)
		lower = append(lower, candidate)
	}

	var higher []block
	for rank := selection + 1; rank < matched && budget > 0; rank++ {
		candidate := session.buildBlock(rank, contentWidth, false)
		if len(candidate.rows) > budget {
			break
		}
		budget -= len(candidate.rows)
		higher = append(higher, candidate)
	}

	// Assemble in ascending rank order.
	ordered := make([]block, 0, len(lower)+1+len(higher))
	for i := len(lower) - 1; i >= 0; i-- {
		ordered = append(ordered, lower[i])
	}
	ordered = append(ordered, selectedBlock)
	ordered = append(ordered, higher...)

	if session.picker.config.Reversed {
		// Rank 0 at the top, directly under the counter line.
		screenRow := 2
		for _, item := range ordered {
			for _, row := range item.rows {
				if screenRow >= session.rows {
					return
				}
				frame.Rows[screenRow] = session.styleRow(item, row)
				screenRow++
			}
		}
		return
	}

	// Default: rank 0 at the bottom, directly above the counter line.
	screenRow := area - 1
	for _, item := range ordered {
		top := screenRow - len(item.rows) + 1
		for offset, row := range item.rows {
			target := top + offset
			if target >= 0 && target < area {
				frame.Rows[target] = session.styleRow(item, row)
			}
		}
		screenRow = top - 1
		if screenRow < 0 {
			return
		}
	}
}

// buildBlock lays out one ranked entry. Only the selected entry gets
// the scroll-through offset; other entries truncate at the right edge.
func (session *session[T]) buildBlock(rank, contentWidth int, selected bool) block {
	itemIndex := session.current.Entry(rank).Index
	rendered := session.current.Rendered(itemIndex)
	highlights := session.current.Highlights(rank)
	options := layout.Options{
		TabStop:          session.picker.config.TabStop,
		HighlightPadding: session.picker.config.HighlightPadding,
	}

	offset := 0
	if selected {
		offset = layout.RequiredOffset(rendered, highlights, contentWidth, options)
	}
	return block{
		rank:     rank,
		rows:     layout.Item(rendered, highlights, contentWidth, offset, options),
		selected: selected,
		marked:   session.list.IsMarked(itemIndex),
	}
}

// styleRow renders one visual row: a two-column prefix (selection bar,
// mark dot) followed by the styled content. Selected rows carry the
// selection background across their full width.
func (session *session[T]) styleRow(item block, row layout.Row) string {
	theme := &session.theme

	var builder strings.Builder
	switch {
	case item.selected && item.marked:
		builder.WriteString(theme.SelectionMarker.Render("▌"))
		builder.WriteString(theme.Marked.Render("•"))
	case item.selected:
		builder.WriteString(theme.SelectionMarker.Render("▌ "))
	case item.marked:
		builder.WriteString(" ")
		builder.WriteString(theme.Marked.Render("•"))
	default:
		builder.WriteString("  ")
	}

	used := 0
	if row.LeftEllipsis {
		builder.WriteString(theme.Ellipsis.Render("…"))
		used++
	}

	for _, segment := range row.Segments() {
		switch {
		case segment.Highlighted && item.selected:
			builder.WriteString(theme.SelectedHighlight.Render(segment.Text))
		case segment.Highlighted:
			builder.WriteString(theme.Highlight.Render(segment.Text))
		case item.selected:
			builder.WriteString(theme.Selected.Render(segment.Text))
		default:
			builder.WriteString(segment.Text)
		}
		used += runewidth.StringWidth(segment.Text)
	}

	if item.selected {
		// Extend the selection background to the full content width.
		if pad := session.cols - 2 - used; pad > 0 {
			builder.WriteString(theme.Selected.Render(strings.Repeat(" ", pad)))
		}
	}
	return builder.String()
}
