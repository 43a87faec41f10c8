// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/sift-tui/sift/lib/clock"
)

// escTimeout is how long the reader waits for the continuation of an
// escape sequence before treating a lone ESC byte as the escape key.
const escTimeout = 50 * time.Millisecond

// ReaderOptions configures a terminal Reader.
type ReaderOptions struct {
	// Keymap resolves key presses to actions. Nil selects
	// DefaultKeymap.
	Keymap Keymap
	// Clock paces the escape-disambiguation timeout. Nil selects the
	// real clock.
	Clock clock.Clock
}

// Reader decodes raw terminal input into picker events. It owns a
// reading goroutine for the input stream and a signal handler for
// SIGWINCH; both shut down on Close.
type Reader struct {
	keymap Keymap
	clock  clock.Clock

	events chan Event
	errs   chan error

	input   cancelreader.CancelReader
	sizeFd  int
	signals chan os.Signal

	done      chan struct{}
	closeOnce sync.Once
}

// NewReader starts decoding key events from input. sizeFd is the file
// descriptor queried for the terminal geometry when a resize signal
// arrives (normally the output terminal).
func NewReader(input *os.File, sizeFd int, options ReaderOptions) (*Reader, error) {
	if options.Keymap == nil {
		options.Keymap = DefaultKeymap()
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}

	cancelable, err := cancelreader.NewReader(input)
	if err != nil {
		return nil, err
	}

	reader := &Reader{
		keymap:  options.Keymap,
		clock:   options.Clock,
		events:  make(chan Event, 1024),
		errs:    make(chan error, 1),
		input:   cancelable,
		sizeFd:  sizeFd,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	chunks := make(chan []byte, 16)
	go reader.readLoop(chunks)
	go reader.decodeLoop(chunks)

	signal.Notify(reader.signals, unix.SIGWINCH)
	go reader.resizeLoop()

	return reader, nil
}

// RecvTimeout returns the next event, (nil, nil) on timeout, or a
// fatal error.
func (reader *Reader) RecvTimeout(timeout time.Duration) (Event, error) {
	select {
	case event := <-reader.events:
		return event, nil
	case err := <-reader.errs:
		return nil, err
	case <-reader.clock.After(timeout):
		return nil, nil
	}
}

// Sender returns a handle for injecting application events into this
// reader's stream from any goroutine.
func (reader *Reader) Sender() *Sender {
	return &Sender{events: reader.events, done: reader.done}
}

// Close stops the reading and signal goroutines. Safe to call more
// than once.
func (reader *Reader) Close() {
	reader.closeOnce.Do(func() {
		close(reader.done)
		reader.input.Cancel()
		signal.Stop(reader.signals)
	})
}

// readLoop performs blocking reads on the input stream and forwards
// chunks to the decoder goroutine.
func (reader *Reader) readLoop(chunks chan<- []byte) {
	for {
		buf := make([]byte, 4096)
		n, err := reader.input.Read(buf)
		if n > 0 {
			select {
			case chunks <- buf[:n]:
			case <-reader.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, cancelreader.ErrCanceled) {
				select {
				case reader.errs <- err:
				default:
				}
			}
			close(chunks)
			return
		}
	}
}

// decodeLoop feeds chunks through the decoder. While an escape
// sequence is incomplete it waits briefly for continuation bytes; a
// quiet period resolves a lone ESC to the escape key.
func (reader *Reader) decodeLoop(chunks <-chan []byte) {
	var d decoder
	for {
		var (
			chunk []byte
			open  bool
		)
		if d.pending() {
			select {
			case chunk, open = <-chunks:
			case <-reader.clock.After(escTimeout):
				reader.emit(d.flush())
				continue
			case <-reader.done:
				return
			}
		} else {
			select {
			case chunk, open = <-chunks:
			case <-reader.done:
				return
			}
		}
		if !open {
			reader.emit(d.flush())
			return
		}
		reader.emit(d.feed(chunk))
	}
}

// emit converts decoded tokens to events through the keymap and queues
// them for the engine.
func (reader *Reader) emit(tokens []token) {
	for _, tok := range tokens {
		var event Event
		if tok.isPaste {
			event = Paste{Text: tok.paste}
		} else {
			action, insert := reader.keymap.Lookup(tok.key)
			switch {
			case action != ActionNone:
				event = KeyAction{Action: action}
			case insert:
				event = Insert{Rune: tok.key.Rune}
			default:
				continue
			}
		}
		select {
		case reader.events <- event:
		case <-reader.done:
			return
		}
	}
}

// resizeLoop translates SIGWINCH into Resize events carrying the new
// geometry.
func (reader *Reader) resizeLoop() {
	for {
		select {
		case <-reader.signals:
			cols, rows, err := term.GetSize(reader.sizeFd)
			if err != nil {
				continue
			}
			select {
			case reader.events <- Resize{Cols: cols, Rows: rows}:
			case <-reader.done:
				return
			}
		case <-reader.done:
			return
		}
	}
}

// Sender injects application events into a Reader's stream. All
// methods are safe for concurrent use and may block briefly when the
// event queue is full.
type Sender struct {
	events chan<- Event
	done   <-chan struct{}
}

func (sender *Sender) send(event Event) {
	select {
	case sender.events <- event:
	case <-sender.done:
	}
}

// User delivers an application data event; the engine redraws on the
// next frame.
func (sender *Sender) User(data any) { sender.send(User{Data: data}) }

// Abort interrupts the pick, surfacing err verbatim to the caller.
func (sender *Sender) Abort(err error) { sender.send(User{Err: err}) }

// Restart asks the picker to clear the matcher and disconnect all
// current injectors.
func (sender *Sender) Restart() { sender.send(Restart{}) }

// Redraw requests a repaint.
func (sender *Sender) Redraw() { sender.send(Redraw{}) }
