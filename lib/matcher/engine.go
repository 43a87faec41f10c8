// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Config tunes the match engine.
type Config struct {
	// CaseMatching selects smart, ignore, or respect case handling.
	CaseMatching CaseMode
	// Normalization selects smart or disabled diacritic folding.
	Normalization NormalizationMode
	// MatchPaths tunes the scoring bonus table for path-like strings.
	MatchPaths bool
	// PreferPrefix rewards matches near the start of an item.
	PreferPrefix bool
	// SortResults ranks by descending score; when false, matches keep
	// insertion order.
	SortResults bool
	// ReverseItems reverses the insertion-order tie break, so newer
	// items rank ahead of older ones.
	ReverseItems bool
	// Workers is the scan pool size. Zero selects NumCPU-2 with a
	// floor of one, leaving headroom for the producer and the render
	// loop.
	Workers int
}

// DefaultConfig returns the engine configuration used by the picker
// unless the caller overrides it.
func DefaultConfig() Config {
	return Config{SortResults: true}
}

// entry is one injected item with its matcher-visible text.
type entry[T any] struct {
	data     T
	rendered string
	chars    util.Chars
}

// Engine owns the item log and the scan worker pool, and publishes
// ranked snapshots. All exported methods are safe for concurrent use.
type Engine[T any] struct {
	config Config

	mu         sync.Mutex
	items      []entry[T]
	query      string
	generation uint64

	current atomic.Pointer[Snapshot[T]]
	seq     atomic.Uint64

	notify    chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// NewEngine creates an engine and starts its scan goroutine. The
// scoring scheme is applied process-wide by the fzf algorithm package,
// so all engines in a process share the MatchPaths setting of the most
// recently constructed one.
func NewEngine[T any](config Config) *Engine[T] {
	if config.Workers <= 0 {
		config.Workers = defaultWorkers()
	}
	scheme := "default"
	if config.MatchPaths {
		scheme = "path"
	}
	algo.Init(scheme)

	engine := &Engine[T]{
		config: config,
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
	engine.current.Store(&Snapshot[T]{seq: engine.seq.Add(1)})
	go engine.run()
	return engine
}

func defaultWorkers() int {
	workers := runtime.NumCPU() - 2
	if workers < 1 {
		workers = 1
	}
	return workers
}

// Snapshot returns the most recently published snapshot. The returned
// value is immutable; callers may hold it for as long as they need a
// consistent view.
func (engine *Engine[T]) Snapshot() *Snapshot[T] {
	return engine.current.Load()
}

// SetQuery replaces the query. The engine re-ranks asynchronously; a
// snapshot reflecting the new query is published eventually.
func (engine *Engine[T]) SetQuery(query string) {
	engine.mu.Lock()
	changed := engine.query != query
	engine.query = query
	engine.mu.Unlock()
	if changed {
		engine.wake()
	}
}

// Query returns the engine's current query string.
func (engine *Engine[T]) Query() string {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.query
}

// push appends an item under the given restart generation, returning
// the assigned item index. A stale generation is a silent no-op.
func (engine *Engine[T]) push(item T, rendered string, generation uint64) (int, bool) {
	engine.mu.Lock()
	if generation != engine.generation {
		engine.mu.Unlock()
		return 0, false
	}
	index := len(engine.items)
	engine.items = append(engine.items, entry[T]{
		data:     item,
		rendered: rendered,
		chars:    util.ToChars([]byte(rendered)),
	})
	engine.mu.Unlock()
	engine.wake()
	return index, true
}

// Restart clears the item log, bumps the restart generation, and
// publishes an empty snapshot. Injectors created before the restart
// become no-ops. Returns the new generation.
func (engine *Engine[T]) Restart() uint64 {
	engine.mu.Lock()
	engine.generation++
	generation := engine.generation
	engine.items = nil
	query := engine.query
	engine.mu.Unlock()

	pattern := Parse(query, engine.config.CaseMatching, engine.config.Normalization)
	engine.current.Store(&Snapshot[T]{
		seq:        engine.seq.Add(1),
		generation: generation,
		query:      query,
		pattern:    pattern,
	})
	return generation
}

// Close stops the scan goroutine. Subsequent pushes and query updates
// are still accepted but are never scanned; only Restart still
// publishes a snapshot, the empty one it creates.
func (engine *Engine[T]) Close() {
	engine.closeOnce.Do(func() { close(engine.closed) })
}

// wake nudges the scan goroutine; the buffered channel coalesces
// bursts of notifications.
func (engine *Engine[T]) wake() {
	select {
	case engine.notify <- struct{}{}:
	default:
	}
}

func (engine *Engine[T]) run() {
	for {
		select {
		case <-engine.closed:
			return
		case <-engine.notify:
			engine.rescan()
		}
	}
}

// rescan computes and publishes a snapshot for the current query and
// item log. Three strategies, cheapest applicable first:
//
//  1. Same query as the previous snapshot: score only items appended
//     since, keep previous matches.
//  2. The query extends the previous one and neither pattern contains
//     a negation: rescore only the previous matches plus the unseen
//     tail (extending a positive-only query can never grow the set).
//  3. Otherwise: full scan.
func (engine *Engine[T]) rescan() {
	engine.mu.Lock()
	query := engine.query
	generation := engine.generation
	items := engine.items
	engine.mu.Unlock()

	previous := engine.current.Load()
	pattern := Parse(query, engine.config.CaseMatching, engine.config.Normalization)

	var matched []Match
	switch {
	case pattern.IsEmpty():
		matched = make([]Match, len(items))
		for i := range matched {
			matched[i] = Match{Index: i}
		}
	case previous != nil && previous.generation == generation && previous.query == query:
		matched = append(matched, previous.matched...)
		matched = append(matched, engine.scanRange(pattern, items, len(previous.entries), len(items))...)
	case previous != nil && previous.generation == generation && previous.query != "" &&
		strings.HasPrefix(query, previous.query) &&
		!pattern.HasInverse() && previous.pattern != nil && !previous.pattern.HasInverse():
		candidates := make([]int, 0, len(previous.matched))
		for _, match := range previous.matched {
			candidates = append(candidates, match.Index)
		}
		matched = engine.scanList(pattern, items, candidates)
		matched = append(matched, engine.scanRange(pattern, items, len(previous.entries), len(items))...)
	default:
		matched = engine.scanRange(pattern, items, 0, len(items))
	}

	engine.order(pattern, matched)

	// A restart that raced this scan wins: its empty snapshot must not
	// be replaced by results from the old generation.
	engine.mu.Lock()
	stale := engine.generation != generation
	engine.mu.Unlock()
	if stale {
		return
	}

	engine.current.Store(&Snapshot[T]{
		seq:        engine.seq.Add(1),
		generation: generation,
		query:      query,
		pattern:    pattern,
		entries:    items,
		matched:    matched,
	})
}

// order sorts matches into the published ranking: by descending score
// with an item-index tie break when sorting is enabled, by bare item
// index otherwise. ReverseItems flips the index comparison.
func (engine *Engine[T]) order(pattern *Pattern, matched []Match) {
	byIndex := func(a, b Match) bool {
		if engine.config.ReverseItems {
			return a.Index > b.Index
		}
		return a.Index < b.Index
	}
	if engine.config.SortResults && !pattern.IsEmpty() {
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Score != matched[j].Score {
				return matched[i].Score > matched[j].Score
			}
			return byIndex(matched[i], matched[j])
		})
		return
	}
	sort.Slice(matched, func(i, j int) bool {
		return byIndex(matched[i], matched[j])
	})
}

// scanRange scores items[from:to] against the pattern, splitting the
// range across the worker pool.
func (engine *Engine[T]) scanRange(pattern *Pattern, items []entry[T], from, to int) []Match {
	count := to - from
	if count <= 0 {
		return nil
	}
	indices := make([]int, count)
	for i := range indices {
		indices[i] = from + i
	}
	return engine.scanList(pattern, items, indices)
}

// scanList scores the given item indices, preserving candidate order
// within each worker chunk.
func (engine *Engine[T]) scanList(pattern *Pattern, items []entry[T], candidates []int) []Match {
	if len(candidates) == 0 {
		return nil
	}

	workers := engine.config.Workers
	const minChunk = 512
	if len(candidates) < 2*minChunk || workers == 1 {
		return scanChunk(pattern, items, candidates, engine.config.PreferPrefix)
	}

	chunkSize := (len(candidates) + workers - 1) / workers
	if chunkSize < minChunk {
		chunkSize = minChunk
	}
	var chunks [][]int
	for start := 0; start < len(candidates); start += chunkSize {
		end := start + chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		chunks = append(chunks, candidates[start:end])
	}

	results := make([][]Match, len(chunks))
	var group sync.WaitGroup
	for i, chunk := range chunks {
		group.Add(1)
		go func(i int, chunk []int) {
			defer group.Done()
			results[i] = scanChunk(pattern, items, chunk, engine.config.PreferPrefix)
		}(i, chunk)
	}
	group.Wait()

	var matched []Match
	for _, part := range results {
		matched = append(matched, part...)
	}
	return matched
}

// scanChunk is the per-worker scoring loop.
func scanChunk[T any](pattern *Pattern, items []entry[T], candidates []int, preferPrefix bool) []Match {
	slab := slabPool.Get().(*util.Slab)
	defer slabPool.Put(slab)

	var matched []Match
	for _, index := range candidates {
		score, ok := pattern.score(&items[index].chars, preferPrefix, slab)
		if ok {
			matched = append(matched, Match{Index: index, Score: score})
		}
	}
	return matched
}
