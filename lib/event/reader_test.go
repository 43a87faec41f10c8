// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sift-tui/sift/lib/testutil"
)

// newPipeReader wires a Reader to the read end of an OS pipe; tests
// feed terminal bytes through the write end.
func newPipeReader(t *testing.T) (*Reader, *os.File) {
	t.Helper()
	readEnd, writeEnd, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	reader, err := NewReader(readEnd, int(readEnd.Fd()), ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		reader.Close()
		readEnd.Close()
		writeEnd.Close()
	})
	return reader, writeEnd
}

// recvEvent polls RecvTimeout until a non-tick event arrives.
func recvEvent(t *testing.T, reader *Reader) Event {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		received, err := reader.RecvTimeout(50 * time.Millisecond)
		if err != nil {
			t.Fatalf("RecvTimeout: %v", err)
		}
		if received != nil {
			return received
		}
	}
	t.Fatal("no event before deadline")
	panic("unreachable")
}

func TestReaderDecodesBoundKey(t *testing.T) {
	reader, writeEnd := newPipeReader(t)

	writeEnd.WriteString("\x15") // ctrl-u
	received := recvEvent(t, reader)
	action, ok := received.(KeyAction)
	if !ok || action.Action != ActionClearBefore {
		t.Errorf("event = %#v, want ClearBefore", received)
	}
}

func TestReaderEmitsInsertForPlainRunes(t *testing.T) {
	reader, writeEnd := newPipeReader(t)

	writeEnd.WriteString("q")
	received := recvEvent(t, reader)
	insert, ok := received.(Insert)
	if !ok || insert.Rune != 'q' {
		t.Errorf("event = %#v, want Insert q", received)
	}
}

func TestReaderResolvesLoneEscapeAfterQuietPeriod(t *testing.T) {
	reader, writeEnd := newPipeReader(t)

	writeEnd.WriteString("\x1b")
	received := recvEvent(t, reader)
	action, ok := received.(KeyAction)
	if !ok || action.Action != ActionQuit {
		t.Errorf("event = %#v, want the esc quit binding", received)
	}
}

func TestReaderDeliversPasteAtomically(t *testing.T) {
	reader, writeEnd := newPipeReader(t)

	writeEnd.WriteString("\x1b[200~bulk text\x1b[201~")
	received := recvEvent(t, reader)
	paste, ok := received.(Paste)
	if !ok || paste.Text != "bulk text" {
		t.Errorf("event = %#v, want the paste payload", received)
	}
}

func TestReaderTimeoutReturnsNil(t *testing.T) {
	reader, _ := newPipeReader(t)

	received, err := reader.RecvTimeout(10 * time.Millisecond)
	if received != nil || err != nil {
		t.Errorf("RecvTimeout = %#v, %v; want nil tick", received, err)
	}
}

func TestSenderInjectsApplicationEvents(t *testing.T) {
	reader, _ := newPipeReader(t)
	sender := reader.Sender()

	cause := errors.New("backend failed")
	go sender.Abort(cause)

	received := recvEvent(t, reader)
	user, ok := received.(User)
	if !ok || !errors.Is(user.Err, cause) {
		t.Errorf("event = %#v, want the abort payload", received)
	}

	go sender.Restart()
	received = recvEvent(t, reader)
	if _, ok := received.(Restart); !ok {
		t.Errorf("event = %#v, want Restart", received)
	}
}

func TestChannelSourceDeliversAndDisconnects(t *testing.T) {
	source := NewChannelSource(4, nil)

	if !source.Send(Redraw{}) {
		t.Fatal("Send on an open source should succeed")
	}
	received, err := source.RecvTimeout(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := received.(Redraw); !ok {
		t.Errorf("event = %#v, want Redraw", received)
	}

	// Timeout path.
	received, err = source.RecvTimeout(10 * time.Millisecond)
	if received != nil || err != nil {
		t.Errorf("RecvTimeout = %#v, %v; want nil tick", received, err)
	}

	source.Close()
	if source.Send(Redraw{}) {
		t.Error("Send after Close should report failure")
	}
	_, err = source.RecvTimeout(time.Second)
	if !errors.Is(err, ErrDisconnected) {
		t.Errorf("err = %v, want ErrDisconnected", err)
	}

	done := make(chan struct{})
	go func() {
		source.RecvTimeout(time.Second)
		close(done)
	}()
	testutil.RequireClosed(t, done, 5*time.Second, "closed source must not block")
}
