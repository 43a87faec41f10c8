// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"errors"
	"os"
	"sync"

	"golang.org/x/term"
)

// Control sequences written directly, the way terminal tools in this
// codebase's lineage do. Synchronized output (mode 2026) makes the
// whole frame appear atomically on terminals that support it and is
// ignored elsewhere.
const (
	enterAltScreen  = "\x1b[?1049h"
	leaveAltScreen  = "\x1b[?1049l"
	enablePaste     = "\x1b[?2004h"
	disablePaste    = "\x1b[?2004l"
	hideCursor      = "\x1b[?25l"
	showCursor      = "\x1b[?25h"
	beginSync       = "\x1b[?2026h"
	endSync         = "\x1b[?2026l"
	cursorHome      = "\x1b[H"
	clearBelow      = "\x1b[J"
	clearLineRight  = "\x1b[K"
	resetAttributes = "\x1b[0m"
)

// ErrNotInteractive reports that the chosen output is not attached to
// a terminal. The picker returns it without touching the screen.
var ErrNotInteractive = errors.New("output is not a terminal")

// Terminal is the scoped raw-mode + alternate-screen acquisition. It
// must be released on every exit path; Release is idempotent so both
// the normal return and a deferred panic path may call it.
type Terminal struct {
	out   *os.File
	fd    int
	saved *term.State

	releaseOnce sync.Once
}

// Acquire switches the terminal attached to out into raw mode, enters
// the alternate screen, and enables bracketed paste. It fails with
// ErrNotInteractive if out is not a terminal.
func Acquire(out *os.File) (*Terminal, error) {
	fd := int(out.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotInteractive
	}
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	if _, err := out.WriteString(enterAltScreen + enablePaste + hideCursor); err != nil {
		_ = term.Restore(fd, saved)
		return nil, err
	}
	return &Terminal{out: out, fd: fd, saved: saved}, nil
}

// Release restores cooked mode and the primary screen. Safe to call
// multiple times; only the first call acts.
func (terminal *Terminal) Release() {
	terminal.releaseOnce.Do(func() {
		_, _ = terminal.out.WriteString(resetAttributes + disablePaste + showCursor + leaveAltScreen)
		_ = term.Restore(terminal.fd, terminal.saved)
	})
}

// Size returns the terminal geometry in (cols, rows).
func (terminal *Terminal) Size() (cols, rows int, err error) {
	return term.GetSize(terminal.fd)
}

// Fd returns the file descriptor of the controlled terminal.
func (terminal *Terminal) Fd() int { return terminal.fd }

// Out returns the underlying output file.
func (terminal *Terminal) Out() *os.File { return terminal.out }
