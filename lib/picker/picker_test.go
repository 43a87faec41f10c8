// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/sift-tui/sift/lib/event"
	"github.com/sift-tui/sift/lib/layout"
	"github.com/sift-tui/sift/lib/matcher"
	"github.com/sift-tui/sift/lib/testutil"
)

// harness runs a pick headless: events go in through the source, the
// frame bytes land in a buffer, and the outcome arrives on a channel.
type harness struct {
	picker  *Picker[string]
	source  *event.ChannelSource
	output  *syncBuffer
	results chan pickResult
}

type pickResult struct {
	items []string
	err   error
}

// syncBuffer guards the frame buffer against concurrent writes from
// the session goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newHarness(t *testing.T, config Config) *harness {
	t.Helper()
	if config.FrameInterval == 0 {
		config.FrameInterval = time.Millisecond
	}
	h := &harness{
		picker:  New[string](layout.StringRenderer{}, config),
		source:  event.NewChannelSource(256, nil),
		output:  &syncBuffer{},
		results: make(chan pickResult, 1),
	}
	t.Cleanup(h.picker.Close)
	go func() {
		items, err := h.picker.PickWith(h.output, h.source)
		h.results <- pickResult{items: items, err: err}
	}()
	return h
}

func (h *harness) typeQuery(text string) {
	for _, r := range text {
		h.source.Send(event.Insert{Rune: r})
	}
}

func (h *harness) act(action event.Action) {
	h.source.Send(event.KeyAction{Action: action})
}

// waitMatched blocks until the engine has ranked the expected number
// of matches for the given query, so that a following Select resolves
// against the right snapshot.
func (h *harness) waitMatched(t *testing.T, query string, count int) {
	t.Helper()
	testutil.Eventually(t, func() bool {
		snapshot := h.picker.Snapshot()
		return snapshot.Query() == query && snapshot.MatchedCount() == count
	}, 5*time.Second, time.Millisecond, "waiting for %d matches on %q", count, query)
}

// waitRendered blocks until a frame containing the text has been
// written, meaning the session has reconciled against a snapshot that
// includes it. Selection actions sent after this resolve against what
// the user would actually see.
func (h *harness) waitRendered(t *testing.T, text string) {
	t.Helper()
	testutil.Eventually(t, func() bool {
		return strings.Contains(ansi.Strip(h.output.String()), text)
	}, 5*time.Second, time.Millisecond, "waiting for %q to be rendered", text)
}

func (h *harness) outcome(t *testing.T) pickResult {
	t.Helper()
	return testutil.RequireReceive(t, h.results, 5*time.Second, "waiting for the pick outcome")
}

func TestPickSelectsBestMatch(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.picker.Injector().Extend([]string{"apple", "apricot", "banana"})

	h.typeQuery("ap")
	h.waitMatched(t, "ap", 2)
	h.waitRendered(t, "apricot")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.items) != 1 || result.items[0] != "apple" {
		t.Errorf("selected %v, want [apple]", result.items)
	}
}

func TestPickNavigateThenSelect(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.picker.Injector().Extend([]string{"foo.rs", "bar.rs", "README.md"})

	h.typeQuery("rs$")
	h.waitMatched(t, "rs$", 2)
	h.waitRendered(t, "bar.rs")
	h.act(event.ActionSelectionUp)
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.items) != 1 || result.items[0] != "bar.rs" {
		t.Errorf("selected %v, want [bar.rs]", result.items)
	}
}

func TestPickNegatedQuery(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.picker.Injector().Extend([]string{"alpha", "beta"})

	h.typeQuery("!^a")
	h.waitMatched(t, "!^a", 1)
	h.waitRendered(t, "beta")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.items) != 1 || result.items[0] != "beta" {
		t.Errorf("selected %v, want [beta]", result.items)
	}
}

func TestPickSelectOnEmptyMatchesIsNoOp(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.typeQuery("x")
	h.waitMatched(t, "x", 0)
	h.act(event.ActionSelect)

	// The loop must still be running: a quit resolves it cleanly.
	h.act(event.ActionQuit)
	result := h.outcome(t)
	if result.err != nil || result.items != nil {
		t.Errorf("outcome = %v, %v; want clean quit", result.items, result.err)
	}
}

func TestPickAbort(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.act(event.ActionAbort)

	result := h.outcome(t)
	if !errors.Is(result.err, ErrAborted) {
		t.Errorf("err = %v, want ErrAborted", result.err)
	}
}

func TestPickQuitPromptEmpty(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.picker.Injector().Push("item")

	// With text in the prompt, ctrl-d is ignored.
	h.typeQuery("it")
	h.waitMatched(t, "it", 1)
	h.act(event.ActionQuitPromptEmpty)
	h.act(event.ActionClearBefore)
	h.source.Send(event.KeyAction{Action: event.ActionCursorEnd})

	// Drain the prompt, then ctrl-d quits.
	testutil.Eventually(t, func() bool {
		return h.picker.Snapshot().Query() == ""
	}, 5*time.Second, time.Millisecond, "waiting for the cleared prompt to reach the matcher")
	h.act(event.ActionQuitPromptEmpty)

	result := h.outcome(t)
	if result.err != nil || result.items != nil {
		t.Errorf("outcome = %v, %v; want clean quit", result.items, result.err)
	}
}

func TestPickApplicationAbortPropagatesVerbatim(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	cause := errors.New("upstream exploded")
	h.source.Send(event.User{Err: cause})

	result := h.outcome(t)
	if !errors.Is(result.err, cause) {
		t.Errorf("err = %v, want the application error verbatim", result.err)
	}
}

func TestPickEventSourceDisconnect(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.source.Close()

	result := h.outcome(t)
	var sourceErr *EventSourceError
	if !errors.As(result.err, &sourceErr) {
		t.Fatalf("err = %v, want EventSourceError", result.err)
	}
	if !errors.Is(sourceErr.Err, event.ErrDisconnected) {
		t.Errorf("cause = %v, want ErrDisconnected", sourceErr.Err)
	}
}

func TestPickMultiSelect(t *testing.T) {
	config := DefaultConfig()
	config.MultiSelect = true
	h := newHarness(t, config)
	h.picker.Injector().Extend([]string{"one", "two", "three"})

	h.waitMatched(t, "", 3)
	h.waitRendered(t, "three")
	h.act(event.ActionToggleDown) // mark rank 0, move
	// Toggle moved visually down, which clamps at the best match; move
	// up and mark another entry.
	h.act(event.ActionSelectionUp)
	h.act(event.ActionToggleDown)
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.items) != 2 {
		t.Fatalf("selected %v, want two marked items", result.items)
	}
	// Marked items return in injection order.
	if result.items[0] != "one" || result.items[1] != "two" {
		t.Errorf("selected %v, want [one two]", result.items)
	}
}

func TestPickMultiSelectEmptyMarksSelectsHighlighted(t *testing.T) {
	config := DefaultConfig()
	config.MultiSelect = true
	h := newHarness(t, config)
	h.picker.Injector().Extend([]string{"only"})

	h.waitMatched(t, "", 1)
	h.waitRendered(t, "only")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if len(result.items) != 1 || result.items[0] != "only" {
		t.Errorf("selected %v, want the highlighted item", result.items)
	}
}

func TestPickInitialQuery(t *testing.T) {
	config := DefaultConfig()
	config.Query = "ban"
	h := newHarness(t, config)
	h.picker.Injector().Extend([]string{"apple", "banana"})

	h.waitMatched(t, "ban", 1)
	h.waitRendered(t, "banana")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if len(result.items) != 1 || result.items[0] != "banana" {
		t.Errorf("selected %v, want [banana]", result.items)
	}
}

func TestPickPasteInsertedAtomically(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.picker.Injector().Extend([]string{"hello world", "goodbye"})

	h.source.Send(event.Paste{Text: "hello\tworld"})
	// Tabs normalize to spaces; the query is "hello world".
	h.waitMatched(t, "hello world", 1)
	h.waitRendered(t, "hello world")
	// The prompt line alone already shows "hello world"; the counter
	// proves a frame reconciled against the one-match snapshot.
	h.waitRendered(t, "1/2")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if len(result.items) != 1 || result.items[0] != "hello world" {
		t.Errorf("selected %v", result.items)
	}
}

func TestPickConcurrentInjectionWhileTyping(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		injector := h.picker.Injector()
		for i := 0; i < 10000; i++ {
			injector.Push(fmt.Sprintf("item-%06d", i))
		}
		close(stop)
	}()

	h.typeQuery("item")
	<-stop
	wg.Wait()

	h.waitMatched(t, "item", 10000)
	h.waitRendered(t, "item-")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.items) != 1 || !strings.HasPrefix(result.items[0], "item-") {
		t.Errorf("selected %v", result.items)
	}
}

func TestPickRestartEvent(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	old := h.picker.Injector()
	old.Extend([]string{"stale-a", "stale-b"})
	h.waitMatched(t, "", 2)

	h.source.Send(event.Restart{})
	testutil.Eventually(t, func() bool {
		return h.picker.Snapshot().TotalCount() == 0
	}, 5*time.Second, time.Millisecond, "waiting for the restart to clear the snapshot")

	// The old injector is disconnected; a fresh one works.
	if index := old.Push("ignored"); index != -1 {
		t.Errorf("stale push returned %d, want -1", index)
	}
	h.picker.Injector().Push("fresh")
	h.waitMatched(t, "", 1)
	h.waitRendered(t, "fresh")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if len(result.items) != 1 || result.items[0] != "fresh" {
		t.Errorf("selected %v, want [fresh]", result.items)
	}
}

func TestPickResizeToZeroRowsEmitsNoFrame(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.picker.Injector().Push("item")
	h.source.Send(event.Resize{Cols: 80, Rows: 0})

	// Give the loop time to drain the resize and settle into the
	// zero-row state before sampling the output.
	h.waitMatched(t, "", 1)
	time.Sleep(50 * time.Millisecond)
	before := len(h.output.String())
	time.Sleep(20 * time.Millisecond)
	after := len(h.output.String())
	if after != before {
		t.Error("frames were written while the terminal had zero rows")
	}

	h.act(event.ActionQuit)
	h.outcome(t)
}

func TestPickFramesContainItems(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.picker.Injector().Extend([]string{"visible-item"})
	h.waitMatched(t, "", 1)

	testutil.Eventually(t, func() bool {
		return strings.Contains(h.output.String(), "visible-item")
	}, 5*time.Second, time.Millisecond, "waiting for the item to be rendered")

	h.act(event.ActionQuit)
	h.outcome(t)
}

func TestPickSelectionConsistencyUnderStreaming(t *testing.T) {
	// While a producer floods the matcher, the selection must always
	// reference an entry of the snapshot it was reconciled against.
	h := newHarness(t, DefaultConfig())

	done := make(chan struct{})
	go func() {
		defer close(done)
		injector := h.picker.Injector()
		for i := 0; i < 5000; i++ {
			injector.Push(fmt.Sprintf("streamed-%05d", i))
		}
	}()

	h.typeQuery("streamed")
	for i := 0; i < 25; i++ {
		h.act(event.ActionSelectionUp)
	}
	<-done
	h.waitMatched(t, "streamed", 5000)
	h.waitRendered(t, "streamed-")
	h.act(event.ActionSelect)

	result := h.outcome(t)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.items) != 1 || !strings.HasPrefix(result.items[0], "streamed-") {
		t.Errorf("selected %v", result.items)
	}
}

func TestMatcherTornDownByClose(t *testing.T) {
	p := New[string](layout.StringRenderer{}, DefaultConfig())
	injector := p.Injector()
	injector.Push("x")
	p.Close()
	// Pushes after Close still do not panic; the engine simply stops
	// publishing.
	injector.Push("y")

	var _ *matcher.Snapshot[string] = p.Snapshot()
}
