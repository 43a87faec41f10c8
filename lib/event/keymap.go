// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package event

import "fmt"

// Action is the picker operation a key press maps to.
type Action uint8

const (
	// ActionNone leaves a key unbound.
	ActionNone Action = iota

	// ActionAbort interrupts the pick (distinct from a clean quit).
	ActionAbort
	// ActionQuit exits cleanly with no selection.
	ActionQuit
	// ActionQuitPromptEmpty quits only while the prompt is empty;
	// otherwise the key is ignored.
	ActionQuitPromptEmpty
	// ActionSelect confirms the current selection and quits.
	ActionSelect

	// ActionSelectionUp moves the selection one entry up.
	ActionSelectionUp
	// ActionSelectionDown moves the selection one entry down.
	ActionSelectionDown
	// ActionSelectionPageUp moves the selection a screen up.
	ActionSelectionPageUp
	// ActionSelectionPageDown moves the selection a screen down.
	ActionSelectionPageDown
	// ActionSelectionTop resets the selection to the best match.
	ActionSelectionTop
	// ActionSelectionBottom moves the selection to the worst match.
	ActionSelectionBottom

	// ActionToggleDown toggles the mark on the selection, then moves
	// down. Ignored outside multi-select mode.
	ActionToggleDown
	// ActionToggleUp toggles the mark on the selection, then moves up.
	ActionToggleUp
	// ActionMarkAllMatched marks every currently matched item.
	ActionMarkAllMatched
	// ActionUnmarkAll clears the multi-select set.
	ActionUnmarkAll

	// ActionCursorLeft moves the prompt cursor one grapheme left.
	ActionCursorLeft
	// ActionCursorRight moves the prompt cursor one grapheme right.
	ActionCursorRight
	// ActionCursorStart moves the prompt cursor to the beginning.
	ActionCursorStart
	// ActionCursorEnd moves the prompt cursor to the end.
	ActionCursorEnd
	// ActionWordLeft moves the prompt cursor one word left.
	ActionWordLeft
	// ActionWordRight moves the prompt cursor one word right.
	ActionWordRight

	// ActionBackspace deletes the grapheme before the cursor.
	ActionBackspace
	// ActionDelete deletes the grapheme after the cursor.
	ActionDelete
	// ActionBackspaceWord deletes the word before the cursor.
	ActionBackspaceWord
	// ActionClearBefore deletes everything before the cursor.
	ActionClearBefore
	// ActionClearAfter deletes everything after the cursor.
	ActionClearAfter
)

var actionNames = map[Action]string{
	ActionAbort:             "abort",
	ActionQuit:              "quit",
	ActionQuitPromptEmpty:   "quit-if-empty",
	ActionSelect:            "select",
	ActionSelectionUp:       "up",
	ActionSelectionDown:     "down",
	ActionSelectionPageUp:   "page-up",
	ActionSelectionPageDown: "page-down",
	ActionSelectionTop:      "top",
	ActionSelectionBottom:   "bottom",
	ActionToggleDown:        "toggle-down",
	ActionToggleUp:          "toggle-up",
	ActionMarkAllMatched:    "mark-all",
	ActionUnmarkAll:         "unmark-all",
	ActionCursorLeft:        "cursor-left",
	ActionCursorRight:       "cursor-right",
	ActionCursorStart:       "cursor-start",
	ActionCursorEnd:         "cursor-end",
	ActionWordLeft:          "word-left",
	ActionWordRight:         "word-right",
	ActionBackspace:         "backspace",
	ActionDelete:            "delete",
	ActionBackspaceWord:     "backspace-word",
	ActionClearBefore:       "clear-before",
	ActionClearAfter:        "clear-after",
}

var namesToAction = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for action, name := range actionNames {
		m[name] = action
	}
	return m
}()

// String returns the action name used in configuration files.
func (action Action) String() string {
	if name, ok := actionNames[action]; ok {
		return name
	}
	return "none"
}

// ParseAction parses an action name as accepted in keybinding
// configuration.
func ParseAction(name string) (Action, error) {
	if action, ok := namesToAction[name]; ok {
		return action, nil
	}
	return ActionNone, fmt.Errorf("unrecognized action %q", name)
}

// Keymap maps keys to picker actions. Bindings are looked up exactly;
// an unbound character key falls through to prompt insertion.
type Keymap map[Key]Action

// DefaultKeymap returns the built-in bindings, mirroring common shell
// line-editing conventions.
func DefaultKeymap() Keymap {
	return Keymap{
		Ctrl('c'): ActionAbort,

		{Code: CodeEsc}: ActionQuit,
		Ctrl('g'):       ActionQuit,
		Ctrl('q'):       ActionQuit,
		Ctrl('d'):       ActionQuitPromptEmpty,

		{Code: CodeEnter}:                ActionSelect,
		{Code: CodeEnter, Mod: ModShift}: ActionSelect,

		{Code: CodeUp}:   ActionSelectionUp,
		Ctrl('k'):        ActionSelectionUp,
		Ctrl('p'):        ActionSelectionUp,
		{Code: CodeDown}: ActionSelectionDown,
		Ctrl('j'):        ActionSelectionDown,
		Ctrl('n'):        ActionSelectionDown,

		{Code: CodePageUp}:   ActionSelectionPageUp,
		{Code: CodePageDown}: ActionSelectionPageDown,
		Ctrl('0'):            ActionSelectionTop,

		{Code: CodeTab}:     ActionToggleDown,
		{Code: CodeBackTab}: ActionToggleUp,

		{Code: CodeLeft}:  ActionCursorLeft,
		Ctrl('b'):         ActionCursorLeft,
		{Code: CodeRight}: ActionCursorRight,
		Ctrl('f'):         ActionCursorRight,
		{Code: CodeHome}:  ActionCursorStart,
		Ctrl('a'):         ActionCursorStart,
		{Code: CodeEnd}:   ActionCursorEnd,
		Ctrl('e'):         ActionCursorEnd,
		Alt('b'):          ActionWordLeft,
		Alt('f'):          ActionWordRight,

		{Code: CodeBackspace}:                ActionBackspace,
		{Code: CodeBackspace, Mod: ModShift}: ActionBackspace,
		Ctrl('h'):                            ActionBackspace,
		{Code: CodeDelete}:                   ActionDelete,
		Ctrl('w'):                            ActionBackspaceWord,
		Ctrl('u'):                            ActionClearBefore,
		Ctrl('o'):                            ActionClearAfter,
	}
}

// Lookup resolves a key press. Bound keys return their action. Unbound
// plain or shifted character keys return ActionNone with insert=true;
// anything else is ignored.
func (keymap Keymap) Lookup(key Key) (action Action, insert bool) {
	if action, ok := keymap[key]; ok {
		return action, false
	}
	if key.Code == CodeRune && key.Mod&(ModCtrl|ModAlt) == 0 {
		return ActionNone, true
	}
	return ActionNone, false
}
