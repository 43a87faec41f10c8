// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

// Package event defines the unified event stream that drives the
// picker engine: decoded key actions, rune insertions, bracketed
// pastes, terminal resizes, and application-injected events.
//
// The default Source is Reader, which decodes raw terminal input using
// a configurable keybinding table. Applications with their own event
// plumbing can implement Source directly or use ChannelSource.
package event
