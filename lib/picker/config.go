// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"time"

	"github.com/sift-tui/sift/lib/clock"
	"github.com/sift-tui/sift/lib/event"
	"github.com/sift-tui/sift/lib/matcher"
	"github.com/sift-tui/sift/lib/screen"
)

// Config collects the picker options. Use DefaultConfig and override
// fields; the zero value is usable but renders without sorting and
// with a zero frame interval clamped to the default.
type Config struct {
	// Query is the initial prompt contents.
	Query string

	// CaseMatching selects smart, ignore, or respect case handling.
	CaseMatching matcher.CaseMode
	// Normalization selects smart or disabled diacritic folding.
	Normalization matcher.NormalizationMode
	// MatchPaths tunes scoring for path-like strings.
	MatchPaths bool
	// PreferPrefix rewards matches near the start of items.
	PreferPrefix bool
	// SortResults ranks matches by score; disabled, matches appear in
	// insertion order.
	SortResults bool
	// ReverseItems flips the insertion-order tie break so newer items
	// rank first.
	ReverseItems bool

	// Reversed renders the prompt at the top with the best match
	// directly below it, instead of the prompt at the bottom.
	Reversed bool

	// FrameInterval bounds the render rate; zero selects the 15 ms
	// default.
	FrameInterval time.Duration
	// HighlightPadding is the number of columns kept visible after the
	// rightmost highlight before scroll-through engages.
	HighlightPadding int
	// ScrollPadding keeps this many rows between the selection and the
	// window edges.
	ScrollPadding int
	// PromptPadding keeps this many columns between the prompt cursor
	// and the edges of the prompt line.
	PromptPadding int
	// TabStop is the tab expansion interval in the item area.
	TabStop int

	// MultiSelect enables the mark set and its keybindings.
	MultiSelect bool
	// SelectionLimit caps the number of marked items; zero means
	// unlimited.
	SelectionLimit int

	// Keymap overrides the default keybindings. Nil selects
	// event.DefaultKeymap.
	Keymap event.Keymap

	// Theme overrides the default styling. Nil selects
	// screen.DefaultTheme at pick time.
	Theme *screen.Theme

	// Clock is the engine's time source; nil selects the real clock.
	// Tests inject a fake to drive frame deadlines.
	Clock clock.Clock
}

// DefaultConfig returns the standard picker options: smart case, smart
// normalization, score-sorted results, 15 ms frames, and the default
// paddings.
func DefaultConfig() Config {
	return Config{
		CaseMatching:     matcher.CaseSmart,
		Normalization:    matcher.NormalizeSmart,
		SortResults:      true,
		FrameInterval:    15 * time.Millisecond,
		HighlightPadding: 3,
		ScrollPadding:    3,
		PromptPadding:    2,
		TabStop:          4,
	}
}

// defaultFrameInterval is applied when Config.FrameInterval is zero.
const defaultFrameInterval = 15 * time.Millisecond

func (config *Config) normalize() {
	if config.FrameInterval <= 0 {
		config.FrameInterval = defaultFrameInterval
	}
	if config.TabStop <= 0 {
		config.TabStop = 4
	}
	if config.Keymap == nil {
		config.Keymap = event.DefaultKeymap()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
}

// matcherConfig projects the picker options onto the match engine.
func (config *Config) matcherConfig() matcher.Config {
	return matcher.Config{
		CaseMatching:  config.CaseMatching,
		Normalization: config.Normalization,
		MatchPaths:    config.MatchPaths,
		PreferPrefix:  config.PreferPrefix,
		SortResults:   config.SortResults,
		ReverseItems:  config.ReverseItems,
	}
}
