// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"
	"time"

	"github.com/sift-tui/sift/lib/event"
	"github.com/sift-tui/sift/lib/matcher"
	"github.com/sift-tui/sift/lib/picker"
)

func TestParseConfigJSONC(t *testing.T) {
	data := []byte(`{
		// comments are allowed
		"query": "init",
		"case_matching": "respect",
		"normalization": "never",
		"sort_results": false,
		"frame_interval_ms": 30,
		"multi_select": true,
		"keybindings": {
			"ctrl-y": "select",
			"esc": "none", // unbind
		},
	}`)

	file, err := parseConfig(data)
	if err != nil {
		t.Fatal(err)
	}

	config := picker.DefaultConfig()
	if err := file.apply(&config); err != nil {
		t.Fatal(err)
	}

	if config.Query != "init" {
		t.Errorf("Query = %q", config.Query)
	}
	if config.CaseMatching != matcher.CaseRespect {
		t.Error("case_matching not applied")
	}
	if config.Normalization != matcher.NormalizeNever {
		t.Error("normalization not applied")
	}
	if config.SortResults {
		t.Error("sort_results not applied")
	}
	if config.FrameInterval != 30*time.Millisecond {
		t.Errorf("FrameInterval = %v", config.FrameInterval)
	}
	if !config.MultiSelect {
		t.Error("multi_select not applied")
	}

	key, err := event.ParseKey("ctrl-y")
	if err != nil {
		t.Fatal(err)
	}
	if config.Keymap[key] != event.ActionSelect {
		t.Error("ctrl-y binding not applied")
	}
	if _, bound := config.Keymap[event.Key{Code: event.CodeEsc}]; bound {
		t.Error("esc should have been unbound")
	}
}

func TestParseConfigDefaultsUntouched(t *testing.T) {
	file, err := parseConfig([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	config := picker.DefaultConfig()
	if err := file.apply(&config); err != nil {
		t.Fatal(err)
	}
	reference := picker.DefaultConfig()
	if config.FrameInterval != reference.FrameInterval || config.SortResults != reference.SortResults {
		t.Error("empty config changed defaults")
	}
}

func TestParseConfigRejectsBadAction(t *testing.T) {
	file, err := parseConfig([]byte(`{"keybindings": {"ctrl-y": "explode"}}`))
	if err != nil {
		t.Fatal(err)
	}
	config := picker.DefaultConfig()
	if err := file.apply(&config); err == nil {
		t.Error("unknown action should fail to apply")
	}
}

func TestParseConfigRejectsBadKey(t *testing.T) {
	file, err := parseConfig([]byte(`{"keybindings": {"hyper-q": "select"}}`))
	if err != nil {
		t.Fatal(err)
	}
	config := picker.DefaultConfig()
	if err := file.apply(&config); err == nil {
		t.Error("unknown key should fail to apply")
	}
}

func TestSplitNul(t *testing.T) {
	advance, token, err := splitNul([]byte("abc\x00def"), false)
	if err != nil || advance != 4 || string(token) != "abc" {
		t.Errorf("splitNul = %d, %q, %v", advance, token, err)
	}
	advance, token, err = splitNul([]byte("tail"), true)
	if err != nil || advance != 4 || string(token) != "tail" {
		t.Errorf("splitNul at EOF = %d, %q, %v", advance, token, err)
	}
}
