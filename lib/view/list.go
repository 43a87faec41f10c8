// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"sort"

	"github.com/sift-tui/sift/lib/matcher"
)

// Snapshot is the slice of the matcher snapshot API the view needs.
// *matcher.Snapshot[T] satisfies it for any item type.
type Snapshot interface {
	MatchedCount() int
	Entry(i int) matcher.Match
	RankOf(itemIndex int) (int, bool)
}

// Config tunes the list behaviour.
type Config struct {
	// ScrollPadding keeps this many rows between the selection and the
	// window edges while scrolling, clamped to less than half the
	// window.
	ScrollPadding int
	// Reversed renders rank 0 at the top of the screen instead of
	// adjacent to the bottom prompt. It flips the visual direction of
	// MoveUp and MoveDown.
	Reversed bool
	// MarkLimit caps the multi-select set; zero means unlimited.
	MarkLimit int
}

// List is the selection state over the current snapshot's ranked
// matches. The selection is a rank; the marks are item indices so they
// survive re-ranking. A selection of -1 means no valid selection
// (empty match set).
type List struct {
	config Config

	rows int

	selection    int
	selectedItem int
	top          int

	marks map[int]struct{}
}

// NewList returns an empty list with no valid selection.
func NewList(config Config) *List {
	return &List{
		config:       config,
		selection:    -1,
		selectedItem: -1,
		marks:        make(map[int]struct{}),
	}
}

// SetRows updates the number of visible list rows (the terminal height
// minus the prompt and counter chrome).
func (list *List) SetRows(rows int) {
	if rows < 0 {
		rows = 0
	}
	list.rows = rows
	list.clampWindow(-1)
}

// Rows returns the visible row budget.
func (list *List) Rows() int { return list.rows }

// Selection returns the selected rank, or -1 when the match set is
// empty.
func (list *List) Selection() int { return list.selection }

// SelectedItem returns the item index of the selection, or -1.
func (list *List) SelectedItem() int { return list.selectedItem }

// Top returns the rank of the first visible entry.
func (list *List) Top() int { return list.top }

// padding returns the effective scroll padding for the current window.
func (list *List) padding() int {
	padding := list.config.ScrollPadding
	if limit := (list.rows - 1) / 2; padding > limit {
		padding = limit
	}
	if padding < 0 {
		padding = 0
	}
	return padding
}

// Reconcile re-anchors the selection against a new snapshot:
//
//  1. An empty match set clears the selection and resets the window.
//  2. If the previously selected item still matches, the selection
//     follows it to its new rank.
//  3. Otherwise the selection clamps to min(old rank, matched-1).
//  4. The window keeps its previous top when the selection still fits,
//     and shifts minimally otherwise.
func (list *List) Reconcile(snapshot Snapshot) {
	matched := snapshot.MatchedCount()
	if matched == 0 {
		list.selection = -1
		list.selectedItem = -1
		list.top = 0
		return
	}

	previousTop := list.top
	switch {
	case list.selection < 0:
		list.selection = 0
	case list.selectedItem >= 0:
		if rank, ok := snapshot.RankOf(list.selectedItem); ok {
			list.selection = rank
		} else if list.selection >= matched {
			list.selection = matched - 1
		}
	default:
		if list.selection >= matched {
			list.selection = matched - 1
		}
	}

	list.selectedItem = snapshot.Entry(list.selection).Index
	list.top = previousTop
	list.clampWindow(matched)
}

// clampWindow moves top as little as possible so the selection sits
// inside the padded window. matched < 0 skips the match-count clamp.
func (list *List) clampWindow(matched int) {
	if list.selection < 0 || list.rows <= 0 {
		list.top = 0
		return
	}
	padding := list.padding()

	if matched >= 0 && list.top > matched-1 {
		list.top = matched - 1
		if list.top < 0 {
			list.top = 0
		}
	}
	if list.top < 0 {
		list.top = 0
	}

	low := list.selection - (list.rows - 1) + padding
	high := list.selection - padding
	if low > high {
		low = list.selection
		high = list.selection
	}
	if list.top < low {
		list.top = low
	}
	if list.top > high {
		list.top = high
	}
	if list.top < 0 {
		list.top = 0
	}
	if matched >= 0 && list.top+list.rows > matched {
		list.top = matched - list.rows
		if list.top < 0 {
			list.top = 0
		}
	}
	// The padding clamp above may have pushed the selection out of the
	// window when it sits near the end; pull it back in.
	if list.selection < list.top {
		list.top = list.selection
	}
	if list.rows > 0 && list.selection > list.top+list.rows-1 {
		list.top = list.selection - (list.rows - 1)
	}
}

// move shifts the selection by delta ranks (positive = toward worse
// matches) and keeps it visible. The caller has already reconciled the
// list against snapshot.
func (list *List) move(snapshot Snapshot, delta int) bool {
	matched := snapshot.MatchedCount()
	if matched == 0 || list.selection < 0 {
		return false
	}
	target := list.selection + delta
	if target < 0 {
		target = 0
	}
	if target > matched-1 {
		target = matched - 1
	}
	if target == list.selection {
		return false
	}
	list.selection = target
	list.selectedItem = snapshot.Entry(target).Index
	list.clampWindow(matched)
	return true
}

// MoveUp moves the selection one entry visually upward.
func (list *List) MoveUp(snapshot Snapshot) bool {
	if list.config.Reversed {
		return list.move(snapshot, -1)
	}
	return list.move(snapshot, 1)
}

// MoveDown moves the selection one entry visually downward.
func (list *List) MoveDown(snapshot Snapshot) bool {
	if list.config.Reversed {
		return list.move(snapshot, 1)
	}
	return list.move(snapshot, -1)
}

// PageUp moves the selection a full window visually upward.
func (list *List) PageUp(snapshot Snapshot) bool {
	step := list.rows
	if step < 1 {
		step = 1
	}
	if list.config.Reversed {
		step = -step
	}
	return list.move(snapshot, step)
}

// PageDown moves the selection a full window visually downward.
func (list *List) PageDown(snapshot Snapshot) bool {
	step := list.rows
	if step < 1 {
		step = 1
	}
	if !list.config.Reversed {
		step = -step
	}
	return list.move(snapshot, step)
}

// Home resets the selection to the best match.
func (list *List) Home(snapshot Snapshot) bool {
	if snapshot.MatchedCount() == 0 || list.selection <= 0 {
		return false
	}
	list.selection = 0
	list.selectedItem = snapshot.Entry(0).Index
	list.top = 0
	list.clampWindow(snapshot.MatchedCount())
	return true
}

// End moves the selection to the worst match.
func (list *List) End(snapshot Snapshot) bool {
	matched := snapshot.MatchedCount()
	if matched == 0 || list.selection == matched-1 {
		return false
	}
	return list.move(snapshot, matched-1-list.selection)
}

// ToggleMark flips the mark on the selected item. Returns false with
// no selection, or when adding would exceed the mark limit.
func (list *List) ToggleMark() bool {
	if list.selectedItem < 0 {
		return false
	}
	if _, marked := list.marks[list.selectedItem]; marked {
		delete(list.marks, list.selectedItem)
		return true
	}
	if list.config.MarkLimit > 0 && len(list.marks) >= list.config.MarkLimit {
		return false
	}
	list.marks[list.selectedItem] = struct{}{}
	return true
}

// MarkAllMatched marks every item in the snapshot's match set, up to
// the mark limit.
func (list *List) MarkAllMatched(snapshot Snapshot) {
	for rank := 0; rank < snapshot.MatchedCount(); rank++ {
		if list.config.MarkLimit > 0 && len(list.marks) >= list.config.MarkLimit {
			return
		}
		list.marks[snapshot.Entry(rank).Index] = struct{}{}
	}
}

// UnmarkAll clears the multi-select set.
func (list *List) UnmarkAll() {
	clear(list.marks)
}

// IsMarked reports whether the item index is in the multi-select set.
func (list *List) IsMarked(itemIndex int) bool {
	_, marked := list.marks[itemIndex]
	return marked
}

// MarkedCount returns the size of the multi-select set.
func (list *List) MarkedCount() int { return len(list.marks) }

// Marked returns the marked item indices in injection order (ascending
// item index).
func (list *List) Marked() []int {
	indices := make([]int, 0, len(list.marks))
	for index := range list.marks {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}
