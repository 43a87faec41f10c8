// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Buffer is the editable query string. The cursor is stored as a byte
// offset into the contents and is always located at a grapheme cluster
// boundary. Contents never contain ASCII control characters: Normalize
// runs on every insertion.
//
// Buffer is not safe for concurrent use; the engine serializes all
// edits on the event-loop goroutine.
type Buffer struct {
	contents   string
	cursor     int
	generation uint64

	// view keeps the sticky horizontal scroll state for rendering.
	view viewState
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Normalize classifies each incoming code point the way the picker
// accepts query input: line feed, carriage return, and horizontal tab
// become a single ASCII space; every other ASCII control character
// (including DEL) is dropped; everything else passes through unchanged.
func Normalize(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			builder.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			// dropped
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Contents returns the current query string.
func (buffer *Buffer) Contents() string { return buffer.contents }

// IsEmpty reports whether the query is empty.
func (buffer *Buffer) IsEmpty() bool { return buffer.contents == "" }

// Generation returns the content generation. It increases by one for
// every mutation that changes the contents; cursor-only movements leave
// it unchanged.
func (buffer *Buffer) Generation() uint64 { return buffer.generation }

// CursorOffset returns the cursor position as a byte offset.
func (buffer *Buffer) CursorOffset() int { return buffer.cursor }

// CursorGrapheme returns the cursor position as a grapheme index in
// [0, GraphemeCount()].
func (buffer *Buffer) CursorGrapheme() int {
	return uniseg.GraphemeClusterCount(buffer.contents[:buffer.cursor])
}

// GraphemeCount returns the number of grapheme clusters in the query.
func (buffer *Buffer) GraphemeCount() int {
	return uniseg.GraphemeClusterCount(buffer.contents)
}

// Set replaces the contents with the normalized text and moves the
// cursor to the end.
func (buffer *Buffer) Set(text string) bool {
	normalized := Normalize(text)
	if normalized == buffer.contents && buffer.cursor == len(buffer.contents) {
		return false
	}
	if normalized != buffer.contents {
		buffer.generation++
	}
	buffer.contents = normalized
	buffer.cursor = len(normalized)
	buffer.view.reset()
	return true
}

// Insert normalizes text and inserts it at the cursor. Returns true if
// the contents changed.
func (buffer *Buffer) Insert(text string) bool {
	normalized := Normalize(text)
	if normalized == "" {
		return false
	}
	buffer.contents = buffer.contents[:buffer.cursor] + normalized + buffer.contents[buffer.cursor:]
	buffer.cursor += len(normalized)
	buffer.generation++
	return true
}

// InsertRune inserts a single code point at the cursor, applying the
// same normalization as Insert.
func (buffer *Buffer) InsertRune(r rune) bool {
	return buffer.Insert(string(r))
}

// Backspace deletes up to n grapheme clusters immediately before the
// cursor. Returns true if the contents changed.
func (buffer *Buffer) Backspace(n int) bool {
	target := leftGraphemes(buffer.contents, buffer.cursor, n)
	if target == buffer.cursor {
		return false
	}
	buffer.contents = buffer.contents[:target] + buffer.contents[buffer.cursor:]
	buffer.cursor = target
	buffer.generation++
	return true
}

// Delete removes up to n grapheme clusters immediately after the
// cursor. Returns true if the contents changed.
func (buffer *Buffer) Delete(n int) bool {
	target := rightGraphemes(buffer.contents, buffer.cursor, n)
	if target == buffer.cursor {
		return false
	}
	buffer.contents = buffer.contents[:buffer.cursor] + buffer.contents[target:]
	buffer.generation++
	return true
}

// BackspaceWord deletes from the start of the nth word before the
// cursor up to the cursor.
func (buffer *Buffer) BackspaceWord(n int) bool {
	target := leftWords(buffer.contents, buffer.cursor, n)
	if target == buffer.cursor {
		return false
	}
	buffer.contents = buffer.contents[:target] + buffer.contents[buffer.cursor:]
	buffer.cursor = target
	buffer.generation++
	return true
}

// ClearBefore removes everything before the cursor.
func (buffer *Buffer) ClearBefore() bool {
	if buffer.cursor == 0 {
		return false
	}
	buffer.contents = buffer.contents[buffer.cursor:]
	buffer.cursor = 0
	buffer.generation++
	buffer.view.reset()
	return true
}

// ClearAfter removes everything after the cursor.
func (buffer *Buffer) ClearAfter() bool {
	if buffer.cursor == len(buffer.contents) {
		return false
	}
	buffer.contents = buffer.contents[:buffer.cursor]
	buffer.generation++
	return true
}

// Left moves the cursor up to n grapheme clusters to the left. Returns
// true if the cursor moved.
func (buffer *Buffer) Left(n int) bool {
	target := leftGraphemes(buffer.contents, buffer.cursor, n)
	if target == buffer.cursor {
		return false
	}
	buffer.cursor = target
	return true
}

// Right moves the cursor up to n grapheme clusters to the right.
func (buffer *Buffer) Right(n int) bool {
	target := rightGraphemes(buffer.contents, buffer.cursor, n)
	if target == buffer.cursor {
		return false
	}
	buffer.cursor = target
	return true
}

// WordLeft moves the cursor to the start of the nth word to the left.
func (buffer *Buffer) WordLeft(n int) bool {
	target := leftWords(buffer.contents, buffer.cursor, n)
	if target == buffer.cursor {
		return false
	}
	buffer.cursor = target
	return true
}

// WordRight moves the cursor to the start of the nth word to the right,
// or to the end of the contents if there are fewer words.
func (buffer *Buffer) WordRight(n int) bool {
	target := rightWords(buffer.contents, buffer.cursor, n)
	if target == buffer.cursor {
		return false
	}
	buffer.cursor = target
	return true
}

// ToStart moves the cursor to the beginning.
func (buffer *Buffer) ToStart() bool {
	if buffer.cursor == 0 {
		return false
	}
	buffer.cursor = 0
	buffer.view.reset()
	return true
}

// ToEnd moves the cursor to the end.
func (buffer *Buffer) ToEnd() bool {
	if buffer.cursor == len(buffer.contents) {
		return false
	}
	buffer.cursor = len(buffer.contents)
	return true
}

// leftGraphemes returns the byte offset n grapheme clusters to the left
// of offset, clamped at 0.
func leftGraphemes(s string, offset, n int) int {
	if n <= 0 || offset == 0 {
		return offset
	}
	boundaries := graphemeBoundaries(s[:offset])
	idx := len(boundaries) - n
	if idx < 0 {
		idx = 0
	}
	return boundaries[idx]
}

// rightGraphemes returns the byte offset n grapheme clusters to the
// right of offset, clamped at len(s).
func rightGraphemes(s string, offset, n int) int {
	if n <= 0 || offset >= len(s) {
		return offset
	}
	remaining := s[offset:]
	graphemes := uniseg.NewGraphemes(remaining)
	advanced := 0
	for graphemes.Next() {
		_, to := graphemes.Positions()
		advanced = to
		n--
		if n == 0 {
			break
		}
	}
	return offset + advanced
}

// graphemeBoundaries returns the starting byte offset of every grapheme
// cluster in s. The result is never empty for non-empty s; for empty s
// it contains the single offset 0.
func graphemeBoundaries(s string) []int {
	boundaries := []int{0}
	if s == "" {
		return boundaries
	}
	graphemes := uniseg.NewGraphemes(s)
	for graphemes.Next() {
		_, to := graphemes.Positions()
		if to < len(s) {
			boundaries = append(boundaries, to)
		}
	}
	return boundaries
}
