// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sift-tui/sift/lib/testutil"
)

func newStringEngine(t *testing.T, config Config) *Engine[string] {
	t.Helper()
	engine := NewEngine[string](config)
	t.Cleanup(engine.Close)
	return engine
}

func identity(s string) string { return s }

// waitForSnapshot polls until the published snapshot satisfies the
// condition; the engine ranks asynchronously.
func waitForSnapshot[T any](t *testing.T, engine *Engine[T], condition func(*Snapshot[T]) bool, description string) *Snapshot[T] {
	t.Helper()
	var snapshot *Snapshot[T]
	testutil.Eventually(t, func() bool {
		snapshot = engine.Snapshot()
		return condition(snapshot)
	}, 5*time.Second, time.Millisecond, "%s", description)
	return snapshot
}

func TestEmptyQueryMatchesEverythingInOrder(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	injector.Extend([]string{"apple", "apricot", "banana"})

	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.MatchedCount() == 3
	}, "waiting for all items to match the empty query")

	for rank := 0; rank < 3; rank++ {
		if snapshot.Entry(rank).Index != rank {
			t.Errorf("rank %d has index %d, want insertion order", rank, snapshot.Entry(rank).Index)
		}
	}
	if snapshot.TotalCount() != 3 {
		t.Errorf("TotalCount = %d, want 3", snapshot.TotalCount())
	}
}

func TestFuzzyQueryRanksAndHighlights(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	injector.Extend([]string{"apple", "apricot", "banana"})

	engine.SetQuery("ap")
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "ap" && s.MatchedCount() == 2
	}, "waiting for the ap query")

	// Both apple and apricot match; banana does not.
	seen := map[string]bool{}
	for i := 0; i < snapshot.MatchedCount(); i++ {
		seen[snapshot.Item(snapshot.Entry(i).Index)] = true
	}
	if !seen["apple"] || !seen["apricot"] || seen["banana"] {
		t.Errorf("matched set = %v", seen)
	}

	highlights := snapshot.Highlights(0)
	if len(highlights) != 2 || highlights[0] != 0 || highlights[1] != 1 {
		t.Errorf("Highlights = %v, want [0 1]", highlights)
	}
}

func TestSuffixAndPrefixAtoms(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	injector.Extend([]string{"foo.rs", "bar.rs", "README.md"})

	engine.SetQuery("rs$")
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "rs$" && s.MatchedCount() == 2
	}, "waiting for the suffix query")
	for i := 0; i < snapshot.MatchedCount(); i++ {
		item := snapshot.Item(snapshot.Entry(i).Index)
		if item == "README.md" {
			t.Error("README.md should not match rs$")
		}
	}

	engine.SetQuery("^bar")
	snapshot = waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "^bar" && s.MatchedCount() == 1
	}, "waiting for the prefix query")
	if got := snapshot.Item(snapshot.Entry(0).Index); got != "bar.rs" {
		t.Errorf("prefix match = %q, want bar.rs", got)
	}
}

func TestNegatedPrefix(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	injector.Extend([]string{"alpha", "beta"})

	engine.SetQuery("!^a")
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "!^a" && s.MatchedCount() == 1
	}, "waiting for the negated prefix query")
	if got := snapshot.Item(snapshot.Entry(0).Index); got != "beta" {
		t.Errorf("match = %q, want beta", got)
	}
	if highlights := snapshot.Highlights(0); highlights != nil {
		t.Errorf("negation-only match should have no highlights, got %v", highlights)
	}

	engine.SetQuery("^a")
	snapshot = waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "^a" && s.MatchedCount() == 1
	}, "waiting for the positive prefix query")
	if got := snapshot.Item(snapshot.Entry(0).Index); got != "alpha" {
		t.Errorf("match = %q, want alpha", got)
	}
}

func TestRankStabilityOnTies(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	// Identical strings score identically; ties break by item index.
	injector.Extend([]string{"same", "same", "same"})

	engine.SetQuery("same")
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "same" && s.MatchedCount() == 3
	}, "waiting for tied matches")

	for rank := 0; rank < 3; rank++ {
		if snapshot.Entry(rank).Index != rank {
			t.Errorf("rank %d has index %d, want ascending tie break", rank, snapshot.Entry(rank).Index)
		}
	}
}

func TestReverseItemsFlipsTieBreak(t *testing.T) {
	config := DefaultConfig()
	config.ReverseItems = true
	engine := newStringEngine(t, config)
	injector := engine.Injector(identity)
	injector.Extend([]string{"same", "same", "same"})

	engine.SetQuery("same")
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "same" && s.MatchedCount() == 3
	}, "waiting for tied matches")

	for rank := 0; rank < 3; rank++ {
		want := 2 - rank
		if snapshot.Entry(rank).Index != want {
			t.Errorf("rank %d has index %d, want %d", rank, snapshot.Entry(rank).Index, want)
		}
	}
}

func TestNoSortKeepsInsertionOrder(t *testing.T) {
	config := DefaultConfig()
	config.SortResults = false
	engine := newStringEngine(t, config)
	injector := engine.Injector(identity)
	injector.Extend([]string{"zebra apple", "apple", "mid apple end"})

	engine.SetQuery("apple")
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "apple" && s.MatchedCount() == 3
	}, "waiting for unsorted matches")

	for rank := 0; rank < 3; rank++ {
		if snapshot.Entry(rank).Index != rank {
			t.Errorf("rank %d has index %d, want insertion order", rank, snapshot.Entry(rank).Index)
		}
	}
}

func TestSnapshotSequenceMonotonic(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)

	var lastSeq uint64
	for round := 0; round < 5; round++ {
		injector.Push(fmt.Sprintf("item-%d", round))
		engine.SetQuery(fmt.Sprintf("item %d", round))
		snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
			return s.Seq() > lastSeq
		}, "waiting for a newer snapshot")
		if snapshot.Seq() <= lastSeq {
			t.Fatalf("sequence went backwards: %d after %d", snapshot.Seq(), lastSeq)
		}
		lastSeq = snapshot.Seq()
	}
}

func TestConcurrentPushesAllArrive(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())

	const producers = 8
	const perProducer = 500
	var group sync.WaitGroup
	for p := 0; p < producers; p++ {
		group.Add(1)
		go func(p int) {
			defer group.Done()
			injector := engine.Injector(identity)
			for i := 0; i < perProducer; i++ {
				injector.Push(fmt.Sprintf("p%d-item%d", p, i))
			}
		}(p)
	}
	group.Wait()

	waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.TotalCount() == producers*perProducer && s.MatchedCount() == producers*perProducer
	}, "waiting for all concurrent pushes to be ranked")
}

func TestRestartDisconnectsInjectors(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	stale := engine.Injector(identity)
	stale.Push("before")

	waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.TotalCount() == 1
	}, "waiting for the initial item")

	generation := engine.Restart()
	if generation == 0 {
		t.Error("Restart should advance the generation")
	}
	if snapshot := engine.Snapshot(); snapshot.TotalCount() != 0 {
		t.Errorf("snapshot after restart has %d items, want 0", snapshot.TotalCount())
	}

	if index := stale.Push("ignored"); index != -1 {
		t.Errorf("stale injector push returned %d, want -1", index)
	}

	fresh := engine.Injector(identity)
	if index := fresh.Push("after"); index != 0 {
		t.Errorf("fresh injector push returned %d, want 0", index)
	}
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.TotalCount() == 1 && s.Generation() == generation
	}, "waiting for the post-restart item")
	if got := snapshot.Item(0); got != "after" {
		t.Errorf("post-restart item = %q", got)
	}
}

func TestAppendOnlyQueryExtension(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	injector.Extend([]string{"application", "appendix", "banana"})

	engine.SetQuery("app")
	waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "app" && s.MatchedCount() == 2
	}, "waiting for the base query")

	// Extending the query narrows through the incremental path.
	engine.SetQuery("appl")
	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "appl" && s.MatchedCount() == 1
	}, "waiting for the extended query")
	if got := snapshot.Item(snapshot.Entry(0).Index); got != "application" {
		t.Errorf("match = %q, want application", got)
	}

	// Items pushed after the narrowing are still scanned.
	injector.Push("applesauce")
	waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.MatchedCount() == 2
	}, "waiting for the late item to match")
}

func TestNegatedExtensionGrowsMatchSet(t *testing.T) {
	// `!a` excludes items containing "a"; `!ab` only items containing
	// "ab". The match set grows, which must bypass the matched-only
	// rescan.
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	injector.Extend([]string{"xa", "xb", "ab"})

	engine.SetQuery("!a")
	waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "!a" && s.MatchedCount() == 1
	}, "waiting for the negated query")

	engine.SetQuery("!ab")
	waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.Query() == "!ab" && s.MatchedCount() == 2
	}, "waiting for the extended negation to widen the match set")
}

func TestRankOf(t *testing.T) {
	engine := newStringEngine(t, DefaultConfig())
	injector := engine.Injector(identity)
	injector.Extend([]string{"one", "two", "three"})

	snapshot := waitForSnapshot(t, engine, func(s *Snapshot[string]) bool {
		return s.MatchedCount() == 3
	}, "waiting for all items")

	for rank := 0; rank < 3; rank++ {
		itemIndex := snapshot.Entry(rank).Index
		got, ok := snapshot.RankOf(itemIndex)
		if !ok || got != rank {
			t.Errorf("RankOf(%d) = %d,%v; want %d,true", itemIndex, got, ok, rank)
		}
	}
	if _, ok := snapshot.RankOf(99); ok {
		t.Error("RankOf of an unknown index should report false")
	}
}
