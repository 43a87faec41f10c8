// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Frame is one composed screen: styled row contents top to bottom and
// the final cursor position (0-based) for the prompt. Frames are
// ephemeral; the engine rebuilds one per render cycle.
type Frame struct {
	Rows      []string
	CursorRow int
	CursorCol int
}

// Writer emits frames to the terminal. Each frame is a single
// synchronized-output block: hide cursor, home, rewrite every row with
// clear-to-end, clear below, park the cursor at the prompt, show
// cursor. The previous frame's bytes are kept so an identical frame is
// skipped entirely.
type Writer struct {
	out      *bufio.Writer
	previous []byte
	scratch  bytes.Buffer
}

// NewWriter wraps the output stream. The caller keeps exclusive use of
// out for the lifetime of the writer.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: bufio.NewWriterSize(out, 32*1024)}
}

// Write composes and flushes one frame. A frame byte-identical to the
// previous one is not rewritten.
func (writer *Writer) Write(frame *Frame) error {
	writer.scratch.Reset()
	writer.scratch.WriteString(beginSync)
	writer.scratch.WriteString(hideCursor)
	writer.scratch.WriteString(cursorHome)
	for i, row := range frame.Rows {
		writer.scratch.WriteString(row)
		writer.scratch.WriteString(clearLineRight)
		if i < len(frame.Rows)-1 {
			writer.scratch.WriteString("\r\n")
		}
	}
	writer.scratch.WriteString(clearBelow)
	fmt.Fprintf(&writer.scratch, "\x1b[%d;%dH", frame.CursorRow+1, frame.CursorCol+1)
	writer.scratch.WriteString(showCursor)
	writer.scratch.WriteString(endSync)

	if bytes.Equal(writer.scratch.Bytes(), writer.previous) {
		return nil
	}
	writer.previous = append(writer.previous[:0], writer.scratch.Bytes()...)

	if _, err := writer.out.Write(writer.scratch.Bytes()); err != nil {
		return err
	}
	return writer.out.Flush()
}

// Invalidate forgets the previous frame so the next Write repaints
// unconditionally. The engine calls this after a resize.
func (writer *Writer) Invalidate() {
	writer.previous = writer.previous[:0]
}
