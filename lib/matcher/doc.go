// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package matcher is the fuzzy-match engine behind the picker. It
// stores the item log, parses the fzf-style query grammar, scores items
// on a worker pool using the matching algorithms from
// github.com/junegunn/fzf/src/algo, and publishes immutable ranked
// snapshots that the render loop reads once per frame.
//
// Producer threads push items through an Injector; the engine never
// blocks producers on match computation. Snapshots are published by
// atomically swapping a pointer, so a reader holds a consistent view
// for as long as it keeps the reference.
package matcher
