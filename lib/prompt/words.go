// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Word motions follow Unicode word-break rules (UAX #29). The uax29
// segmenter tiles the whole string with tokens, including whitespace
// and punctuation runs; a "word" for cursor purposes is a token that
// contains at least one letter or digit, matching the behaviour users
// know from shell line editing.

// wordStarts returns the byte offset of every word token in s.
func wordStarts(s string) []int {
	var starts []int
	offset := 0
	tokens := words.FromString(s)
	for tokens.Next() {
		token := tokens.Value()
		if isWordToken(token) {
			starts = append(starts, offset)
		}
		offset += len(token)
	}
	return starts
}

// isWordToken reports whether a segment counts as a word: it contains
// at least one letter or numeric rune.
func isWordToken(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// leftWords returns the byte offset of the start of the nth word to the
// left of offset, clamped at 0.
func leftWords(s string, offset, n int) int {
	if n <= 0 || offset == 0 {
		return offset
	}
	starts := wordStarts(s[:offset])
	if len(starts) == 0 {
		return 0
	}
	idx := len(starts) - n
	if idx < 0 {
		return 0
	}
	return starts[idx]
}

// rightWords returns the byte offset of the start of the nth word to
// the right of offset, clamped at len(s). A word starting exactly at
// offset does not count as movement.
func rightWords(s string, offset, n int) int {
	if n <= 0 || offset >= len(s) {
		return offset
	}
	starts := wordStarts(s[offset:])
	// Skip a word that begins at the cursor itself.
	idx := 0
	if len(starts) > 0 && starts[0] == 0 {
		idx = n
	} else {
		idx = n - 1
	}
	if idx >= len(starts) {
		return len(s)
	}
	return offset + starts[idx]
}
