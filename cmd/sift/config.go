// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/sift-tui/sift/lib/event"
	"github.com/sift-tui/sift/lib/matcher"
	"github.com/sift-tui/sift/lib/picker"
)

// fileConfig is the on-disk configuration: JSON extended with //
// comments and trailing commas (JSONC). All fields are optional;
// absent fields keep the built-in defaults, and command-line flags
// override both.
type fileConfig struct {
	Query         *string `json:"query"`
	CaseMatching  *string `json:"case_matching"`
	Normalization *string `json:"normalization"`
	MatchPaths    *bool   `json:"match_paths"`
	PreferPrefix  *bool   `json:"prefer_prefix"`
	SortResults   *bool   `json:"sort_results"`
	ReverseItems  *bool   `json:"reverse_items"`
	Reversed      *bool   `json:"reversed"`

	FrameIntervalMillis *int `json:"frame_interval_ms"`
	HighlightPadding    *int `json:"highlight_padding"`
	ScrollPadding       *int `json:"scroll_padding"`
	PromptPadding       *int `json:"prompt_padding"`
	TabStop             *int `json:"tab_stop"`

	MultiSelect    *bool `json:"multi_select"`
	SelectionLimit *int  `json:"selection_limit"`

	// Keybindings maps key spellings ("ctrl-y", "alt-enter") to action
	// names ("select", "backspace-word"). The special action "none"
	// unbinds a default.
	Keybindings map[string]string `json:"keybindings"`
}

// loadConfigFile reads and parses a JSONC config file.
func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parseConfig(data)
}

// parseConfig strips JSONC comments and trailing commas, then
// unmarshals the result. Unknown fields are ignored.
func parseConfig(data []byte) (*fileConfig, error) {
	var config fileConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &config, nil
}

// apply overlays the file options onto a picker config.
func (file *fileConfig) apply(config *picker.Config) error {
	if file.Query != nil {
		config.Query = *file.Query
	}
	if file.CaseMatching != nil {
		mode, err := parseCaseMode(*file.CaseMatching)
		if err != nil {
			return err
		}
		config.CaseMatching = mode
	}
	if file.Normalization != nil {
		mode, err := parseNormalization(*file.Normalization)
		if err != nil {
			return err
		}
		config.Normalization = mode
	}
	if file.MatchPaths != nil {
		config.MatchPaths = *file.MatchPaths
	}
	if file.PreferPrefix != nil {
		config.PreferPrefix = *file.PreferPrefix
	}
	if file.SortResults != nil {
		config.SortResults = *file.SortResults
	}
	if file.ReverseItems != nil {
		config.ReverseItems = *file.ReverseItems
	}
	if file.Reversed != nil {
		config.Reversed = *file.Reversed
	}
	if file.FrameIntervalMillis != nil {
		config.FrameInterval = time.Duration(*file.FrameIntervalMillis) * time.Millisecond
	}
	if file.HighlightPadding != nil {
		config.HighlightPadding = *file.HighlightPadding
	}
	if file.ScrollPadding != nil {
		config.ScrollPadding = *file.ScrollPadding
	}
	if file.PromptPadding != nil {
		config.PromptPadding = *file.PromptPadding
	}
	if file.TabStop != nil {
		config.TabStop = *file.TabStop
	}
	if file.MultiSelect != nil {
		config.MultiSelect = *file.MultiSelect
	}
	if file.SelectionLimit != nil {
		config.SelectionLimit = *file.SelectionLimit
	}

	if len(file.Keybindings) > 0 {
		keymap := event.DefaultKeymap()
		for spec, name := range file.Keybindings {
			key, err := event.ParseKey(spec)
			if err != nil {
				return err
			}
			if name == "none" {
				delete(keymap, key)
				continue
			}
			action, err := event.ParseAction(name)
			if err != nil {
				return err
			}
			keymap[key] = action
		}
		config.Keymap = keymap
	}
	return nil
}

func parseCaseMode(name string) (matcher.CaseMode, error) {
	switch name {
	case "smart":
		return matcher.CaseSmart, nil
	case "ignore":
		return matcher.CaseIgnore, nil
	case "respect":
		return matcher.CaseRespect, nil
	default:
		return matcher.CaseSmart, fmt.Errorf("unrecognized case mode %q (want smart, ignore, or respect)", name)
	}
}

func parseNormalization(name string) (matcher.NormalizationMode, error) {
	switch name {
	case "smart":
		return matcher.NormalizeSmart, nil
	case "never":
		return matcher.NormalizeNever, nil
	default:
		return matcher.NormalizeSmart, fmt.Errorf("unrecognized normalization mode %q (want smart or never)", name)
	}
}
