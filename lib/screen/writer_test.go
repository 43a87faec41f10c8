// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteFrameStructure(t *testing.T) {
	var out bytes.Buffer
	writer := NewWriter(&out)

	frame := &Frame{
		Rows:      []string{"first", "second"},
		CursorRow: 1,
		CursorCol: 3,
	}
	if err := writer.Write(frame); err != nil {
		t.Fatal(err)
	}

	emitted := out.String()
	if !strings.HasPrefix(emitted, beginSync) {
		t.Error("frame does not open with the synchronized-output fence")
	}
	if !strings.HasSuffix(emitted, endSync) {
		t.Error("frame does not close with the synchronized-output fence")
	}
	for _, fragment := range []string{hideCursor, cursorHome, "first", "second", clearBelow, "\x1b[2;4H", showCursor} {
		if !strings.Contains(emitted, fragment) {
			t.Errorf("frame missing %q", fragment)
		}
	}
	if strings.Index(emitted, "first") > strings.Index(emitted, "second") {
		t.Error("rows written out of order")
	}
}

func TestIdenticalFrameSkipped(t *testing.T) {
	var out bytes.Buffer
	writer := NewWriter(&out)

	frame := &Frame{Rows: []string{"same"}}
	if err := writer.Write(frame); err != nil {
		t.Fatal(err)
	}
	firstLen := out.Len()
	if err := writer.Write(frame); err != nil {
		t.Fatal(err)
	}
	if out.Len() != firstLen {
		t.Error("identical frame was rewritten")
	}
}

func TestChangedFrameRewritten(t *testing.T) {
	var out bytes.Buffer
	writer := NewWriter(&out)

	if err := writer.Write(&Frame{Rows: []string{"one"}}); err != nil {
		t.Fatal(err)
	}
	firstLen := out.Len()
	if err := writer.Write(&Frame{Rows: []string{"two"}}); err != nil {
		t.Fatal(err)
	}
	if out.Len() == firstLen {
		t.Error("changed frame was not written")
	}
}

func TestInvalidateForcesRepaint(t *testing.T) {
	var out bytes.Buffer
	writer := NewWriter(&out)

	frame := &Frame{Rows: []string{"same"}}
	if err := writer.Write(frame); err != nil {
		t.Fatal(err)
	}
	firstLen := out.Len()
	writer.Invalidate()
	if err := writer.Write(frame); err != nil {
		t.Fatal(err)
	}
	if out.Len() == firstLen {
		t.Error("Invalidate did not force a repaint")
	}
}
