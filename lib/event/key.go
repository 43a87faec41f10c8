// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mod is a bitmask of key modifiers.
type Mod uint8

const (
	// ModCtrl is the control modifier.
	ModCtrl Mod = 1 << iota
	// ModAlt is the alt (meta) modifier.
	ModAlt
	// ModShift is the shift modifier. Legacy terminal encodings report
	// it only for non-rune keys and deliver shifted characters as the
	// shifted rune; CSI-u sequences may report it on rune keys too.
	ModShift
)

// Code identifies a key that is not a plain character.
type Code uint8

const (
	// CodeRune is a character key; the rune is in Key.Rune.
	CodeRune Code = iota
	// CodeEnter is the return key.
	CodeEnter
	// CodeTab is the tab key.
	CodeTab
	// CodeBackTab is shift-tab as reported by the terminal.
	CodeBackTab
	// CodeBackspace deletes backwards.
	CodeBackspace
	// CodeDelete deletes forwards.
	CodeDelete
	// CodeEsc is the escape key.
	CodeEsc
	// CodeUp is the up arrow.
	CodeUp
	// CodeDown is the down arrow.
	CodeDown
	// CodeLeft is the left arrow.
	CodeLeft
	// CodeRight is the right arrow.
	CodeRight
	// CodeHome is the home key.
	CodeHome
	// CodeEnd is the end key.
	CodeEnd
	// CodePageUp is the page-up key.
	CodePageUp
	// CodePageDown is the page-down key.
	CodePageDown
)

// Key is one logical key press. Keys are comparable and therefore
// usable directly as map keys in a Keymap.
type Key struct {
	Code Code
	// Rune is set when Code is CodeRune.
	Rune rune
	Mod  Mod
}

// Ctrl returns the key for control plus a letter or character.
func Ctrl(r rune) Key { return Key{Code: CodeRune, Rune: r, Mod: ModCtrl} }

// Alt returns the key for alt plus a character.
func Alt(r rune) Key { return Key{Code: CodeRune, Rune: r, Mod: ModAlt} }

// Char returns the key for a plain character.
func Char(r rune) Key { return Key{Code: CodeRune, Rune: r} }

var codeNames = map[Code]string{
	CodeEnter:     "enter",
	CodeTab:       "tab",
	CodeBackTab:   "btab",
	CodeBackspace: "backspace",
	CodeDelete:    "delete",
	CodeEsc:       "esc",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeHome:      "home",
	CodeEnd:       "end",
	CodePageUp:    "pgup",
	CodePageDown:  "pgdn",
}

var namesToCode = func() map[string]Code {
	m := make(map[string]Code, len(codeNames))
	for code, name := range codeNames {
		m[name] = code
	}
	// Accepted aliases.
	m["return"] = CodeEnter
	m["escape"] = CodeEsc
	m["bs"] = CodeBackspace
	m["del"] = CodeDelete
	m["shift-tab"] = CodeBackTab
	m["pageup"] = CodePageUp
	m["pagedown"] = CodePageDown
	return m
}()

// String formats the key in the spelling ParseKey accepts, for example
// "ctrl-w", "alt-f", "shift-enter", "pgup", or "x".
func (key Key) String() string {
	var parts []string
	if key.Mod&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if key.Mod&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if key.Mod&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if key.Code == CodeRune {
		if key.Rune == ' ' {
			parts = append(parts, "space")
		} else {
			parts = append(parts, string(key.Rune))
		}
	} else {
		parts = append(parts, codeNames[key.Code])
	}
	return strings.Join(parts, "-")
}

// ParseKey parses a key spelling such as "ctrl-u", "alt-b",
// "shift-enter", "up", "space", or a single character.
func ParseKey(spec string) (Key, error) {
	var key Key
	rest := strings.ToLower(strings.TrimSpace(spec))
	for {
		switch {
		case strings.HasPrefix(rest, "ctrl-"):
			key.Mod |= ModCtrl
			rest = rest[len("ctrl-"):]
			continue
		case strings.HasPrefix(rest, "alt-"):
			key.Mod |= ModAlt
			rest = rest[len("alt-"):]
			continue
		case strings.HasPrefix(rest, "shift-") && rest != "shift-tab":
			key.Mod |= ModShift
			rest = rest[len("shift-"):]
			continue
		}
		break
	}

	if code, ok := namesToCode[rest]; ok {
		key.Code = code
		return key, nil
	}
	if rest == "space" {
		key.Code = CodeRune
		key.Rune = ' '
		return key, nil
	}
	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsPrint(r) {
			key.Code = CodeRune
			key.Rune = r
			return key, nil
		}
	}
	return Key{}, fmt.Errorf("unrecognized key %q", spec)
}
