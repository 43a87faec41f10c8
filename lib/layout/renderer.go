// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"path/filepath"
)

// Renderer maps an item to its display string. Implementations must be
// pure and deterministic: the picker renders an item once at injection
// time and reuses the result for matching and display. Control
// characters other than line feed are normalized away by the layout.
type Renderer[T any] interface {
	Render(item T) string
}

// StringRenderer renders string items as themselves.
type StringRenderer struct{}

// Render returns the item unchanged.
func (StringRenderer) Render(item string) string { return item }

// PathRenderer renders filesystem paths, cleaning redundant separators
// and dot segments.
type PathRenderer struct{}

// Render returns the cleaned path.
func (PathRenderer) Render(path string) string { return filepath.Clean(path) }

// StringerRenderer renders any fmt.Stringer via its String method.
type StringerRenderer[T fmt.Stringer] struct{}

// Render returns item.String().
func (StringerRenderer[T]) Render(item T) string { return item.String() }

// RenderFunc adapts a plain function to the Renderer interface.
type RenderFunc[T any] func(T) string

// Render calls the wrapped function.
func (render RenderFunc[T]) Render(item T) string { return render(item) }
