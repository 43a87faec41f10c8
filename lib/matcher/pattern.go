// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
)

// CaseMode controls how a query atom treats letter case.
type CaseMode uint8

const (
	// CaseSmart matches case-insensitively unless the atom contains an
	// uppercase letter.
	CaseSmart CaseMode = iota
	// CaseIgnore always matches case-insensitively.
	CaseIgnore
	// CaseRespect always matches case-sensitively.
	CaseRespect
)

// NormalizationMode controls whether latin diacritics in item text are
// folded to their base characters before matching.
type NormalizationMode uint8

const (
	// NormalizeSmart folds diacritics unless the atom itself contains
	// a non-ASCII character.
	NormalizeSmart NormalizationMode = iota
	// NormalizeNever performs no folding.
	NormalizeNever
)

// TermKind is the match primitive selected by an atom's markers.
type TermKind uint8

const (
	// TermFuzzy is the default subsequence match.
	TermFuzzy TermKind = iota
	// TermExact is a substring match ('foo).
	TermExact
	// TermPrefix anchors at the start (^foo).
	TermPrefix
	// TermSuffix anchors at the end (foo$).
	TermSuffix
	// TermEqual requires the whole string (^foo$).
	TermEqual
)

// Term is one parsed atom of the query.
type Term struct {
	// Text is the unescaped literal text of the atom.
	Text string
	// Kind selects the match primitive.
	Kind TermKind
	// Inverse excludes items that match instead of requiring them.
	// Inverse atoms never contribute to the score or the highlights.
	Inverse bool

	// caseSensitive and normalize are resolved per atom from the
	// pattern's CaseMode and NormalizationMode.
	caseSensitive bool
	normalize     bool
	// runes is the prepared pattern: lowercased when insensitive,
	// diacritic-folded when normalizing.
	runes []rune
}

// Pattern is a parsed query: a conjunction of terms. The zero value is
// the empty pattern, which matches everything with score zero.
type Pattern struct {
	terms []Term
}

// IsEmpty reports whether the pattern has no terms.
func (pattern *Pattern) IsEmpty() bool { return len(pattern.terms) == 0 }

// Terms returns the parsed terms.
func (pattern *Pattern) Terms() []Term { return pattern.terms }

// HasInverse reports whether any term is negated. Negated terms defeat
// the matched-set rescan optimization: extending a negated atom can
// grow the match set.
func (pattern *Pattern) HasInverse() bool {
	for _, term := range pattern.terms {
		if term.Inverse {
			return true
		}
	}
	return false
}

// escapable is the set of characters a backslash makes literal. A
// backslash before any other character is itself literal.
const escapable = " \t'^$!\\"

// Parse splits a query into whitespace-separated atoms and classifies
// each one:
//
//	'foo   substring          !foo    negated substring
//	^foo   prefix             !^foo   negated prefix
//	foo$   suffix             !foo$   negated suffix
//	^foo$  exact whole line   !^foo$  negated whole line
//	foo    fuzzy
//
// A backslash escapes space, tab, ', ^, $, ! and backslash itself.
func Parse(query string, caseMode CaseMode, normMode NormalizationMode) *Pattern {
	pattern := &Pattern{}
	for _, raw := range splitAtoms(query) {
		if term, ok := parseTerm(raw, caseMode, normMode); ok {
			pattern.terms = append(pattern.terms, term)
		}
	}
	return pattern
}

// splitAtoms splits on unescaped whitespace, keeping escape sequences
// intact inside the returned raw atoms.
func splitAtoms(query string) []string {
	var atoms []string
	var current strings.Builder
	escaped := false
	for _, r := range query {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			current.WriteRune(r)
			escaped = true
		case r == ' ' || r == '\t':
			if current.Len() > 0 {
				atoms = append(atoms, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		atoms = append(atoms, current.String())
	}
	return atoms
}

// parseTerm classifies one raw atom. Markers are recognized only when
// unescaped; the remaining text is unescaped afterwards.
func parseTerm(raw string, caseMode CaseMode, normMode NormalizationMode) (Term, bool) {
	term := Term{Kind: TermFuzzy}

	if strings.HasPrefix(raw, "!") {
		term.Inverse = true
		// Negation defaults to substring matching.
		term.Kind = TermExact
		raw = raw[1:]
	}

	switch {
	case strings.HasPrefix(raw, "'"):
		term.Kind = TermExact
		raw = raw[1:]
	case strings.HasPrefix(raw, "^"):
		term.Kind = TermPrefix
		raw = raw[1:]
	}

	if hasUnescapedDollarSuffix(raw) {
		raw = raw[:len(raw)-1]
		if term.Kind == TermPrefix {
			term.Kind = TermEqual
		} else {
			term.Kind = TermSuffix
		}
	}

	term.Text = unescape(raw)
	if term.Text == "" {
		return Term{}, false
	}

	term.caseSensitive = resolveCase(term.Text, caseMode)
	term.normalize = resolveNormalize(term.Text, normMode)
	term.runes = prepareRunes(term.Text, term.caseSensitive, term.normalize)
	return term, true
}

// hasUnescapedDollarSuffix reports whether raw ends in a '$' that is
// not escaped. An even number of preceding backslashes leaves the
// dollar as a marker.
func hasUnescapedDollarSuffix(raw string) bool {
	if !strings.HasSuffix(raw, "$") {
		return false
	}
	backslashes := 0
	for i := len(raw) - 2; i >= 0 && raw[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

// unescape resolves backslash escapes. A backslash before a character
// outside the escapable set stays literal.
func unescape(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	escaped := false
	for _, r := range raw {
		switch {
		case escaped:
			if !strings.ContainsRune(escapable, r) {
				builder.WriteByte('\\')
			}
			builder.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		default:
			builder.WriteRune(r)
		}
	}
	if escaped {
		builder.WriteByte('\\')
	}
	return builder.String()
}

// escapeText re-escapes literal text so that Render is a right inverse
// of Parse for the literal-producing subset of the grammar.
func escapeText(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(escapable, r) {
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// String reconstructs the atom with its markers and escapes applied.
func (term Term) String() string {
	var builder strings.Builder
	if term.Inverse {
		builder.WriteByte('!')
	}
	switch term.Kind {
	case TermExact:
		if !term.Inverse {
			builder.WriteByte('\'')
		}
	case TermPrefix, TermEqual:
		builder.WriteByte('^')
	}
	builder.WriteString(escapeText(term.Text))
	if term.Kind == TermSuffix || term.Kind == TermEqual {
		builder.WriteByte('$')
	}
	return builder.String()
}

// Render reassembles a query string from parsed terms, separated by
// single spaces.
func (pattern *Pattern) Render() string {
	parts := make([]string, len(pattern.terms))
	for i, term := range pattern.terms {
		parts[i] = term.String()
	}
	return strings.Join(parts, " ")
}

// resolveCase applies smart-case: an atom containing an uppercase
// letter opts into case sensitivity.
func resolveCase(text string, mode CaseMode) bool {
	switch mode {
	case CaseRespect:
		return true
	case CaseIgnore:
		return false
	default:
		for _, r := range text {
			if unicode.IsUpper(r) {
				return true
			}
		}
		return false
	}
}

// resolveNormalize applies smart normalization: diacritic folding is
// enabled only while the atom itself is plain ASCII, so that typing an
// accented character searches for it exactly.
func resolveNormalize(text string, mode NormalizationMode) bool {
	if mode == NormalizeNever {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			return false
		}
	}
	return true
}

// prepareRunes produces the pattern runes the fzf algorithms expect:
// lowercased for insensitive terms, diacritic-folded for normalizing
// terms.
func prepareRunes(text string, caseSensitive, normalize bool) []rune {
	runes := []rune(text)
	if !caseSensitive {
		for i, r := range runes {
			runes[i] = unicode.ToLower(r)
		}
	}
	if normalize {
		runes = algo.NormalizeRunes(runes)
	}
	return runes
}
