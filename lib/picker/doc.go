// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package picker is the embeddable fuzzy picker: an interactive
// terminal prompt over a concurrently growing set of items, in the
// spirit of fzf. Construct a Picker with a Renderer, stream items in
// through Injector handles from any goroutine, and call Pick to run
// the interactive loop until the user selects, quits, or aborts.
//
//	p := picker.New[string](layout.StringRenderer{}, picker.DefaultConfig())
//	injector := p.Injector()
//	go func() {
//		for _, line := range lines {
//			injector.Push(line)
//		}
//	}()
//	selected, err := p.Pick()
//
// The interactive prompt renders to stderr in the alternate screen, so
// stdout stays free for the selection.
package picker
