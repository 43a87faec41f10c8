// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"sync"

	"github.com/junegunn/fzf/src/util"
)

// Match is one ranked entry of a snapshot: the index the item was
// assigned at injection time and its score against the snapshot's
// query.
type Match struct {
	// Index is the stable item index.
	Index int
	// Score is the aggregate match score; zero for an empty query.
	Score int
}

// Snapshot is an immutable ranked view of the matcher state. Snapshots
// are totally ordered by Seq; the engine reads at most one per frame.
// All methods are safe to call concurrently with engine publication,
// but the highlight accessor serializes internally and is intended for
// the single render goroutine.
type Snapshot[T any] struct {
	seq        uint64
	generation uint64
	query      string
	pattern    *Pattern
	entries    []entry[T]
	matched    []Match

	rankOnce   sync.Once
	rankByItem map[int]int

	highlightMu sync.Mutex
}

// Seq returns the publication sequence number; later snapshots have
// strictly larger values.
func (snapshot *Snapshot[T]) Seq() uint64 { return snapshot.seq }

// Generation returns the restart generation the snapshot belongs to.
func (snapshot *Snapshot[T]) Generation() uint64 { return snapshot.generation }

// Query returns the query string the snapshot was ranked against.
func (snapshot *Snapshot[T]) Query() string { return snapshot.query }

// MatchedCount returns the number of items matching the query.
func (snapshot *Snapshot[T]) MatchedCount() int { return len(snapshot.matched) }

// TotalCount returns the number of items known to the snapshot.
func (snapshot *Snapshot[T]) TotalCount() int { return len(snapshot.entries) }

// Entry returns the ranked match at position i, 0 <= i < MatchedCount.
func (snapshot *Snapshot[T]) Entry(i int) Match { return snapshot.matched[i] }

// Item returns the item stored at the given stable item index.
func (snapshot *Snapshot[T]) Item(itemIndex int) T {
	return snapshot.entries[itemIndex].data
}

// Rendered returns the display string recorded for the item at
// injection time.
func (snapshot *Snapshot[T]) Rendered(itemIndex int) string {
	return snapshot.entries[itemIndex].rendered
}

// Highlights returns the sorted, duplicate-free rune offsets of the
// matched characters for the ranked entry at position i. The result is
// nil for an empty query and for negation-only patterns. Positions are
// computed on demand: only visible rows ever need them.
func (snapshot *Snapshot[T]) Highlights(i int) []int {
	if snapshot.pattern == nil || snapshot.pattern.IsEmpty() {
		return nil
	}
	snapshot.highlightMu.Lock()
	defer snapshot.highlightMu.Unlock()

	slab := slabPool.Get().(*util.Slab)
	defer slabPool.Put(slab)
	chars := &snapshot.entries[snapshot.matched[i].Index].chars
	return snapshot.pattern.highlights(chars, slab)
}

// RankOf returns the rank of the given item index in the matched list,
// or false if the item does not match. The reverse index is built
// lazily, once per snapshot.
func (snapshot *Snapshot[T]) RankOf(itemIndex int) (int, bool) {
	snapshot.rankOnce.Do(func() {
		snapshot.rankByItem = make(map[int]int, len(snapshot.matched))
		for rank, match := range snapshot.matched {
			snapshot.rankByItem[match.Index] = rank
		}
	})
	rank, ok := snapshot.rankByItem[itemIndex]
	return rank, ok
}
