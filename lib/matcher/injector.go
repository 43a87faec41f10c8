// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

// Injector is the producer-side handle for adding items to the engine.
// A single Injector may be shared freely across goroutines; every Push
// from the same goroutine is observed by the matcher in call order.
//
// An Injector is bound to the restart generation that was current when
// it was created. After Engine.Restart, pushes through old handles
// become silent no-ops: they never fail and never panic.
type Injector[T any] struct {
	engine     *Engine[T]
	render     func(T) string
	generation uint64
}

// Injector returns a handle bound to the engine's current restart
// generation. render maps an item to its matcher-visible display
// string; it must be pure and deterministic.
func (engine *Engine[T]) Injector(render func(T) string) *Injector[T] {
	engine.mu.Lock()
	generation := engine.generation
	engine.mu.Unlock()
	return &Injector[T]{engine: engine, render: render, generation: generation}
}

// Push renders the item, hands it to the matcher, and returns the
// assigned item index. Returns -1 if the injector has been disconnected
// by a restart. Push never blocks on match computation.
//
// A render implementation that panics aborts only the calling
// goroutine; the engine and other producers are unaffected.
func (injector *Injector[T]) Push(item T) int {
	rendered := injector.render(item)
	index, ok := injector.engine.push(item, rendered, injector.generation)
	if !ok {
		return -1
	}
	return index
}

// Extend pushes every item in order. Equivalent to calling Push in a
// loop.
func (injector *Injector[T]) Extend(items []T) {
	for _, item := range items {
		injector.Push(item)
	}
}
