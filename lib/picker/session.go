// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"github.com/sift-tui/sift/lib/event"
	"github.com/sift-tui/sift/lib/matcher"
	"github.com/sift-tui/sift/lib/prompt"
	"github.com/sift-tui/sift/lib/screen"
	"github.com/sift-tui/sift/lib/view"
)

// session is the state of one interactive pick: the event loop, the
// prompt, the list view, and frame pacing. It lives on the calling
// goroutine; only the matcher and the event source run elsewhere.
type session[T any] struct {
	picker *Picker[T]
	source event.Source
	writer *screen.Writer
	theme  screen.Theme

	prompt *prompt.Buffer
	list   *view.List

	cols int
	rows int

	// current is the snapshot the list was last reconciled against;
	// every selection operation and the final Select resolve against
	// it, never against a newer unreconciled snapshot.
	current *matcher.Snapshot[T]

	lastSubmitted uint64
}

// result carries the loop outcome: the selection (nil for quit) or an
// error per the taxonomy in errors.go.
type result[T any] struct {
	items []T
	err   error
}

func newSession[T any](picker *Picker[T], writer *screen.Writer, source event.Source, cols, rows int) *session[T] {
	theme := picker.config.Theme
	if theme == nil {
		defaultTheme := screen.DefaultTheme()
		theme = &defaultTheme
	}
	session := &session[T]{
		picker: picker,
		source: source,
		writer: writer,
		theme:  *theme,
		prompt: prompt.New(),
		list: view.NewList(view.Config{
			ScrollPadding: picker.config.ScrollPadding,
			Reversed:      picker.config.Reversed,
			MarkLimit:     picker.config.SelectionLimit,
		}),
		cols: cols,
		rows: rows,
	}
	session.list.SetRows(session.listRows())
	return session
}

// listRows is the row budget for match entries: the total height minus
// the prompt and counter lines.
func (session *session[T]) listRows() int {
	rows := session.rows - 2
	if rows < 0 {
		rows = 0
	}
	return rows
}

// run is the engine loop from the picker's design: receive one event
// with a deadline equal to the next scheduled frame, apply it, forward
// prompt changes to the matcher, and render at most one snapshot per
// frame interval.
func (session *session[T]) run() ([]T, error) {
	clk := session.picker.config.Clock
	interval := session.picker.config.FrameInterval
	engine := session.picker.engine

	if session.picker.config.Query != "" {
		session.prompt.Set(session.picker.config.Query)
	}
	engine.SetQuery(session.prompt.Contents())
	session.lastSubmitted = session.prompt.Generation()

	session.current = engine.Snapshot()
	session.list.Reconcile(session.current)

	// Render the first frame immediately.
	lastFrame := clk.Now().Add(-interval)

	for {
		timeout := interval - clk.Now().Sub(lastFrame)
		if timeout < 0 {
			timeout = 0
		}

		received, err := session.source.RecvTimeout(timeout)
		if err != nil {
			return nil, &EventSourceError{Err: err}
		}

		forceFrame := false
		if received != nil {
			outcome, done := session.handle(received, &forceFrame)
			if done {
				return outcome.items, outcome.err
			}
		}

		if generation := session.prompt.Generation(); generation != session.lastSubmitted {
			engine.SetQuery(session.prompt.Contents())
			session.lastSubmitted = generation
		}

		if forceFrame || clk.Now().Sub(lastFrame) >= interval {
			snapshot := engine.Snapshot()
			if snapshot.Generation() != session.current.Generation() {
				// A restart replaced the items the marks referred to.
				session.list.UnmarkAll()
			}
			session.current = snapshot
			session.list.Reconcile(session.current)
			if session.rows > 0 && session.cols > 0 {
				if err := session.writer.Write(session.compose()); err != nil {
					return nil, err
				}
			}
			lastFrame = clk.Now()
		}
	}
}

// handle applies one event. done reports loop termination, with the
// outcome in the first return.
func (session *session[T]) handle(received event.Event, forceFrame *bool) (result[T], bool) {
	switch ev := received.(type) {
	case event.KeyAction:
		return session.handleAction(ev.Action)

	case event.Insert:
		session.prompt.InsertRune(ev.Rune)

	case event.Paste:
		session.prompt.Insert(ev.Text)

	case event.Resize:
		session.cols = ev.Cols
		session.rows = ev.Rows
		session.list.SetRows(session.listRows())
		// Never render an intermediate frame with stale geometry.
		session.writer.Invalidate()
		*forceFrame = true

	case event.Redraw:
		session.writer.Invalidate()
		*forceFrame = true

	case event.Restart:
		session.picker.engine.Restart()
		session.list.UnmarkAll()
		*forceFrame = true

	case event.User:
		if ev.Err != nil {
			// Application aborts propagate their payload verbatim.
			return result[T]{err: ev.Err}, true
		}
		*forceFrame = true
	}
	return result[T]{}, false
}

// handleAction applies a keybinding action.
func (session *session[T]) handleAction(action event.Action) (result[T], bool) {
	multi := session.picker.config.MultiSelect
	switch action {
	case event.ActionAbort:
		return result[T]{err: ErrAborted}, true

	case event.ActionQuit:
		return result[T]{}, true

	case event.ActionQuitPromptEmpty:
		if session.prompt.IsEmpty() {
			return result[T]{}, true
		}

	case event.ActionSelect:
		if items, ok := session.resolveSelection(); ok {
			return result[T]{items: items}, true
		}
		// Select with no matches is a no-op; the loop continues.

	case event.ActionSelectionUp:
		session.list.MoveUp(session.current)
	case event.ActionSelectionDown:
		session.list.MoveDown(session.current)
	case event.ActionSelectionPageUp:
		session.list.PageUp(session.current)
	case event.ActionSelectionPageDown:
		session.list.PageDown(session.current)
	case event.ActionSelectionTop:
		session.list.Home(session.current)
	case event.ActionSelectionBottom:
		session.list.End(session.current)

	case event.ActionToggleDown:
		if multi {
			session.list.ToggleMark()
			session.list.MoveDown(session.current)
		}
	case event.ActionToggleUp:
		if multi {
			session.list.ToggleMark()
			session.list.MoveUp(session.current)
		}
	case event.ActionMarkAllMatched:
		if multi {
			session.list.MarkAllMatched(session.current)
		}
	case event.ActionUnmarkAll:
		if multi {
			session.list.UnmarkAll()
		}

	case event.ActionCursorLeft:
		session.prompt.Left(1)
	case event.ActionCursorRight:
		session.prompt.Right(1)
	case event.ActionCursorStart:
		session.prompt.ToStart()
	case event.ActionCursorEnd:
		session.prompt.ToEnd()
	case event.ActionWordLeft:
		session.prompt.WordLeft(1)
	case event.ActionWordRight:
		session.prompt.WordRight(1)

	case event.ActionBackspace:
		session.prompt.Backspace(1)
	case event.ActionDelete:
		session.prompt.Delete(1)
	case event.ActionBackspaceWord:
		session.prompt.BackspaceWord(1)
	case event.ActionClearBefore:
		session.prompt.ClearBefore()
	case event.ActionClearAfter:
		session.prompt.ClearAfter()
	}
	return result[T]{}, false
}

// resolveSelection materializes the Select outcome against the
// reconciled snapshot. With marks present, the marked items win in
// injection order; otherwise the highlighted entry is chosen. Returns
// false when nothing can be selected.
func (session *session[T]) resolveSelection() ([]T, bool) {
	if session.list.MarkedCount() > 0 {
		indices := session.list.Marked()
		items := make([]T, 0, len(indices))
		for _, index := range indices {
			// Marks from before a restart may reference items the
			// current generation no longer has.
			if index < session.current.TotalCount() {
				items = append(items, session.current.Item(index))
			}
		}
		if len(items) > 0 {
			return items, true
		}
	}
	selection := session.list.Selection()
	if selection < 0 || session.current.MatchedCount() == 0 {
		return nil, false
	}
	itemIndex := session.current.Entry(selection).Index
	return []T{session.current.Item(itemIndex)}, true
}
