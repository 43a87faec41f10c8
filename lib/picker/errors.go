// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"errors"

	"github.com/sift-tui/sift/lib/screen"
)

// ErrAborted reports that the user interrupted the pick (ctrl-c by
// default). A clean quit is not an error: Pick returns an empty
// selection with a nil error.
var ErrAborted = errors.New("picker aborted")

// ErrNotInteractive reports that Pick was invoked without a usable
// terminal on either the input or the output side. It is returned
// before the screen is touched.
var ErrNotInteractive = screen.ErrNotInteractive

// EventSourceError wraps a fatal failure of a custom event source.
type EventSourceError struct {
	Err error
}

func (e *EventSourceError) Error() string {
	return "event source failed: " + e.Err.Error()
}

func (e *EventSourceError) Unwrap() error { return e.Err }
