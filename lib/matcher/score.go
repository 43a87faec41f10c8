// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"sort"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes match the ones fzf allocates per matcher goroutine.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// slabPool recycles scoring scratch space across scans and workers.
var slabPool = sync.Pool{
	New: func() any { return util.MakeSlab(slab16Size, slab32Size) },
}

// matchTerm runs one term against the item text, returning the fzf
// result and, when withPos is set on a fuzzy term, the matched rune
// positions.
func matchTerm(term *Term, text *util.Chars, withPos bool, slab *util.Slab) (algo.Result, *[]int) {
	switch term.Kind {
	case TermExact:
		return algo.ExactMatchNaive(term.caseSensitive, term.normalize, true, text, term.runes, withPos, slab)
	case TermPrefix:
		return algo.PrefixMatch(term.caseSensitive, term.normalize, true, text, term.runes, withPos, slab)
	case TermSuffix:
		return algo.SuffixMatch(term.caseSensitive, term.normalize, true, text, term.runes, withPos, slab)
	case TermEqual:
		return algo.EqualMatch(term.caseSensitive, term.normalize, true, text, term.runes, withPos, slab)
	default:
		return algo.FuzzyMatchV2(term.caseSensitive, term.normalize, true, text, term.runes, withPos, slab)
	}
}

// score evaluates the full pattern against one item. ok reports whether
// the item matches: every positive term must match and no inverse term
// may. Inverse terms contribute nothing to the score.
func (pattern *Pattern) score(text *util.Chars, preferPrefix bool, slab *util.Slab) (total int, ok bool) {
	for i := range pattern.terms {
		term := &pattern.terms[i]
		result, _ := matchTerm(term, text, false, slab)
		if term.Inverse {
			if result.Start >= 0 {
				return 0, false
			}
			continue
		}
		if result.Start < 0 {
			return 0, false
		}
		total += result.Score
		if preferPrefix {
			total += prefixBonus(result.Start)
		}
	}
	return total, true
}

// prefixBonus rewards matches that begin near the start of the item,
// approximating the prefer-prefix tuning of matcher engines that score
// by match position.
func prefixBonus(start int) int {
	const window = 8
	if start >= window {
		return 0
	}
	return window - start
}

// highlights computes the sorted, duplicate-free rune offsets matched
// by the positive terms. Negated terms produce no highlights, so a
// negation-only pattern yields nil.
func (pattern *Pattern) highlights(text *util.Chars, slab *util.Slab) []int {
	var positions []int
	for i := range pattern.terms {
		term := &pattern.terms[i]
		if term.Inverse {
			continue
		}
		result, fuzzyPositions := matchTerm(term, text, true, slab)
		if result.Start < 0 {
			continue
		}
		if fuzzyPositions != nil {
			positions = append(positions, *fuzzyPositions...)
		} else {
			for p := result.Start; p < result.End; p++ {
				positions = append(positions, p)
			}
		}
	}
	if len(positions) == 0 {
		return nil
	}
	sort.Ints(positions)
	deduped := positions[:1]
	for _, p := range positions[1:] {
		if p != deduped[len(deduped)-1] {
			deduped = append(deduped, p)
		}
	}
	return deduped
}
