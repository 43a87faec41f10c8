// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/sift-tui/sift/lib/event"
	"github.com/sift-tui/sift/lib/layout"
	"github.com/sift-tui/sift/lib/matcher"
	"github.com/sift-tui/sift/lib/screen"
)

// Picker is a reusable fuzzy picker over items of type T. It owns the
// match engine; injectors stream items in from any goroutine while
// Pick runs the interactive loop on the calling goroutine.
type Picker[T any] struct {
	renderer layout.Renderer[T]
	config   Config
	engine   *matcher.Engine[T]
}

// New constructs a picker with the given renderer and options.
func New[T any](renderer layout.Renderer[T], config Config) *Picker[T] {
	config.normalize()
	return &Picker[T]{
		renderer: renderer,
		config:   config,
		engine:   matcher.NewEngine[T](config.matcherConfig()),
	}
}

// Injector returns a producer handle bound to the current matcher
// generation. Handles may be shared across goroutines; after Restart,
// old handles become silent no-ops.
func (picker *Picker[T]) Injector() *matcher.Injector[T] {
	return picker.engine.Injector(picker.renderer.Render)
}

// Restart clears all items and disconnects every existing injector.
// Multi-select marks are cleared on the next pick frame.
func (picker *Picker[T]) Restart() {
	picker.engine.Restart()
}

// Close tears down the match engine. The picker must not be used
// afterwards.
func (picker *Picker[T]) Close() {
	picker.engine.Close()
}

// Snapshot exposes the engine's current ranked snapshot, for callers
// embedding the picker state into their own UI.
func (picker *Picker[T]) Snapshot() *matcher.Snapshot[T] {
	return picker.engine.Snapshot()
}

// Pick runs the interactive prompt on the process terminal and blocks
// until the user resolves it. The selection is returned for a Select;
// a clean quit returns an empty selection and a nil error; ctrl-c
// returns ErrAborted; an application abort is propagated verbatim.
//
// The prompt renders to stderr inside the alternate screen, with raw
// mode and the screen restored on every exit path, including panics.
// Keyboard input is read from stdin, or from /dev/tty when stdin is a
// pipe (the common "stream items from stdin" arrangement). Returns
// ErrNotInteractive without touching the screen when no terminal is
// available.
func (picker *Picker[T]) Pick() ([]T, error) {
	out := os.Stderr

	input := os.Stdin
	var openedTTY *os.File
	if !term.IsTerminal(int(input.Fd())) {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return nil, ErrNotInteractive
		}
		openedTTY = tty
		input = tty
	}
	if openedTTY != nil {
		defer openedTTY.Close()
	}

	terminal, err := screen.Acquire(out)
	if err != nil {
		return nil, err
	}
	// The guard must run on every exit path: normal returns, error
	// returns, and panics unwinding out of the event loop.
	defer terminal.Release()

	reader, err := event.NewReader(input, terminal.Fd(), event.ReaderOptions{
		Keymap: picker.config.Keymap,
		Clock:  picker.config.Clock,
	})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	cols, rows, err := terminal.Size()
	if err != nil {
		return nil, err
	}

	session := newSession(picker, screen.NewWriter(out), reader, cols, rows)
	return session.run()
}

// PickWithSource runs the full interactive prompt (raw mode, alternate
// screen, stderr writer) but takes events from the caller's source.
// Use this to keep a handle on a Reader's Sender for injecting
// application events — progress updates, abort-with-error — while the
// user interacts with the picker.
func (picker *Picker[T]) PickWithSource(source event.Source) ([]T, error) {
	out := os.Stderr
	terminal, err := screen.Acquire(out)
	if err != nil {
		return nil, err
	}
	defer terminal.Release()

	cols, rows, err := terminal.Size()
	if err != nil {
		return nil, err
	}
	session := newSession(picker, screen.NewWriter(out), source, cols, rows)
	return session.run()
}

// PickWith runs the event loop against a caller-supplied writer and
// event source, for applications that manage the terminal themselves
// or drive the picker headless. No raw-mode or alternate-screen
// handling is performed; geometry starts at 80x24 until the source
// delivers a Resize event.
func (picker *Picker[T]) PickWith(writer io.Writer, source event.Source) ([]T, error) {
	session := newSession(picker, screen.NewWriter(writer), source, 80, 24)
	return session.run()
}
