// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// viewState carries the sticky horizontal scroll of the prompt line
// between frames. The visible window moves only when the cursor would
// leave the padded region, so typing in the middle of a long query does
// not make the line jump.
type viewState struct {
	// leftOffset is the byte offset of the first visible grapheme.
	leftOffset int
}

func (state *viewState) reset() { state.leftOffset = 0 }

// View returns the slice of the query to display in a window of the
// given width (in terminal cells) and the cursor column within that
// window. padding is the number of cells kept between the cursor and
// the window edges while scrolling, clamped to less than half the
// width.
//
// The returned string always fits in width cells; a wide grapheme that
// would straddle the right edge is excluded.
func (buffer *Buffer) View(width, padding int) (visible string, cursorColumn int) {
	if width <= 0 {
		return "", 0
	}
	if padding > (width-1)/2 {
		padding = (width - 1) / 2
	}
	if padding < 0 {
		padding = 0
	}

	// Keep the stored offset on a grapheme boundary left of the cursor.
	if buffer.view.leftOffset > buffer.cursor {
		buffer.view.leftOffset = buffer.cursor
	}

	// Widen or slide the window until the cursor sits inside the padded
	// region [padding, width-1-padding].
	cursorColumn = displayWidth(buffer.contents[buffer.view.leftOffset:buffer.cursor])
	for cursorColumn > width-1-padding {
		step := firstGraphemeLen(buffer.contents[buffer.view.leftOffset:])
		if step == 0 {
			break
		}
		cursorColumn -= displayWidth(buffer.contents[buffer.view.leftOffset : buffer.view.leftOffset+step])
		buffer.view.leftOffset += step
	}
	for cursorColumn < padding && buffer.view.leftOffset > 0 {
		step := lastGraphemeLen(buffer.contents[:buffer.view.leftOffset])
		if step == 0 {
			break
		}
		buffer.view.leftOffset -= step
		cursorColumn += displayWidth(buffer.contents[buffer.view.leftOffset : buffer.view.leftOffset+step])
	}

	// Collect graphemes from leftOffset until the window is full.
	end := buffer.view.leftOffset
	used := 0
	graphemes := uniseg.NewGraphemes(buffer.contents[buffer.view.leftOffset:])
	for graphemes.Next() {
		cluster := graphemes.Str()
		clusterWidth := displayWidth(cluster)
		if used+clusterWidth > width {
			break
		}
		used += clusterWidth
		_, to := graphemes.Positions()
		end = buffer.view.leftOffset + to
	}

	return buffer.contents[buffer.view.leftOffset:end], cursorColumn
}

// displayWidth returns the number of terminal cells s occupies.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// firstGraphemeLen returns the byte length of the first grapheme
// cluster of s, or 0 for an empty string.
func firstGraphemeLen(s string) int {
	if s == "" {
		return 0
	}
	graphemes := uniseg.NewGraphemes(s)
	if !graphemes.Next() {
		return 0
	}
	_, to := graphemes.Positions()
	return to
}

// lastGraphemeLen returns the byte length of the final grapheme cluster
// of s, or 0 for an empty string.
func lastGraphemeLen(s string) int {
	if s == "" {
		return 0
	}
	length := 0
	graphemes := uniseg.NewGraphemes(s)
	for graphemes.Next() {
		from, to := graphemes.Positions()
		length = to - from
	}
	return length
}
