// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"bytes"
	"unicode/utf8"
)

// decoder turns raw terminal bytes into key presses and bracketed
// pastes. It keeps partial escape sequences (and partial UTF-8 runes)
// buffered until more input arrives; the reader flushes a pending lone
// ESC as the escape key after a short quiet period.
type decoder struct {
	buf     []byte
	inPaste bool
	paste   bytes.Buffer
}

// token is one decoded unit: either a key press or a completed paste.
type token struct {
	key     Key
	isPaste bool
	paste   string
}

func keyToken(key Key) token { return token{key: key} }

// feed appends raw bytes and returns all tokens that can be decoded
// completely.
func (d *decoder) feed(data []byte) []token {
	d.buf = append(d.buf, data...)
	return d.drain(false)
}

// flush decodes what remains in the buffer, treating a pending ESC as
// the escape key. The reader calls this when no continuation bytes
// arrived in time.
func (d *decoder) flush() []token {
	return d.drain(true)
}

// pending reports whether bytes are buffered waiting for a
// continuation.
func (d *decoder) pending() bool { return len(d.buf) > 0 }

func (d *decoder) drain(force bool) []token {
	var tokens []token
	for {
		tok, consumed, ok := d.next(force)
		if !ok {
			break
		}
		d.buf = d.buf[consumed:]
		if tok != (token{}) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// next decodes one token from the front of the buffer. consumed is the
// number of bytes to drop; ok is false when the buffer holds only an
// incomplete sequence (unless force is set).
func (d *decoder) next(force bool) (tok token, consumed int, ok bool) {
	if len(d.buf) == 0 {
		return token{}, 0, false
	}

	if d.inPaste {
		return d.nextPaste(force)
	}

	b := d.buf[0]
	switch {
	case b == 0x1b:
		return d.nextEscape(force)
	case b == '\r':
		return keyToken(Key{Code: CodeEnter}), 1, true
	case b == '\n':
		return keyToken(Ctrl('j')), 1, true
	case b == '\t':
		return keyToken(Key{Code: CodeTab}), 1, true
	case b == 0x7f:
		return keyToken(Key{Code: CodeBackspace}), 1, true
	case b == 0x08:
		return keyToken(Ctrl('h')), 1, true
	case b == 0x00:
		// NUL (ctrl-space) is dropped.
		return token{}, 1, true
	case b < 0x20:
		if b <= 0x1a {
			return keyToken(Ctrl(rune('a' + b - 1))), 1, true
		}
		// 0x1c..0x1f: ctrl-\ ctrl-] ctrl-^ ctrl-_
		return keyToken(Ctrl(rune('\\' + b - 0x1c))), 1, true
	default:
		r, size := utf8.DecodeRune(d.buf)
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(d.buf) && !force {
				// Partial multi-byte rune; wait for the rest.
				return token{}, 0, false
			}
			// Genuinely invalid byte: drop it.
			return token{}, 1, true
		}
		return keyToken(Char(r)), size, true
	}
}

// nextEscape decodes a sequence starting with ESC.
func (d *decoder) nextEscape(force bool) (token, int, bool) {
	if len(d.buf) == 1 {
		if force {
			return keyToken(Key{Code: CodeEsc}), 1, true
		}
		return token{}, 0, false
	}

	switch d.buf[1] {
	case '[':
		return d.nextCSI(force)
	case 'O':
		// SS3 sequences from application cursor mode.
		if len(d.buf) < 3 {
			if force {
				return keyToken(Key{Code: CodeEsc}), 1, true
			}
			return token{}, 0, false
		}
		if key, ok := arrowKey(d.buf[2], 0); ok {
			return keyToken(key), 3, true
		}
		// Unrecognized SS3 final byte (F1-F4 and friends): drop.
		return token{}, 3, true
	case 0x7f:
		// Alt-backspace.
		return keyToken(Key{Code: CodeBackspace, Mod: ModAlt}), 2, true
	default:
		r, size := utf8.DecodeRune(d.buf[1:])
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(d.buf[1:]) && !force {
				return token{}, 0, false
			}
			return token{}, 2, true
		}
		return keyToken(Alt(r)), 1 + size, true
	}
}

// nextCSI decodes an ESC [ sequence: parameter bytes 0x30-0x3f, then
// intermediate bytes 0x20-0x2f, then one final byte 0x40-0x7e.
func (d *decoder) nextCSI(force bool) (token, int, bool) {
	end := 2
	for ; end < len(d.buf); end++ {
		if d.buf[end] >= 0x40 && d.buf[end] <= 0x7e {
			break
		}
	}
	if end == len(d.buf) {
		if force {
			// Malformed, unterminated CSI: surface the ESC so the user
			// at least sees a reaction, and drop the rest.
			return keyToken(Key{Code: CodeEsc}), len(d.buf), true
		}
		return token{}, 0, false
	}

	final := d.buf[end]
	params := parseCSIParams(d.buf[2:end])
	consumed := end + 1

	mod := Mod(0)
	if len(params) >= 2 && params[1] > 0 {
		mod = decodeModifier(params[1])
	}

	switch final {
	case 'A', 'B', 'C', 'D', 'H', 'F':
		if key, ok := arrowKey(final, mod); ok {
			return keyToken(key), consumed, true
		}
	case 'Z':
		return keyToken(Key{Code: CodeBackTab}), consumed, true
	case '~':
		if len(params) == 0 {
			return token{}, consumed, true
		}
		switch params[0] {
		case 1, 7:
			return keyToken(Key{Code: CodeHome, Mod: mod}), consumed, true
		case 4, 8:
			return keyToken(Key{Code: CodeEnd, Mod: mod}), consumed, true
		case 3:
			return keyToken(Key{Code: CodeDelete, Mod: mod}), consumed, true
		case 5:
			return keyToken(Key{Code: CodePageUp, Mod: mod}), consumed, true
		case 6:
			return keyToken(Key{Code: CodePageDown, Mod: mod}), consumed, true
		case 200:
			d.inPaste = true
			d.paste.Reset()
			return token{}, consumed, true
		case 201:
			// Stray paste terminator outside a paste: ignore.
			return token{}, consumed, true
		}
		return token{}, consumed, true
	case 'u':
		// Kitty/CSI-u encoding: codepoint;modifiers u. This is how
		// modern terminals deliver combinations like ctrl-0 and
		// shift-enter that legacy encodings cannot express.
		if len(params) >= 1 && params[0] > 0 {
			return keyToken(csiUKey(params[0], mod)), consumed, true
		}
		return token{}, consumed, true
	}
	// Unhandled CSI (mouse, focus events, ...): drop silently.
	return token{}, consumed, true
}

// nextPaste accumulates paste bytes until the ESC [ 201 ~ terminator.
func (d *decoder) nextPaste(force bool) (token, int, bool) {
	terminator := []byte("\x1b[201~")
	if idx := bytes.Index(d.buf, terminator); idx >= 0 {
		d.paste.Write(d.buf[:idx])
		d.inPaste = false
		text := d.paste.String()
		d.paste.Reset()
		return token{isPaste: true, paste: text}, idx + len(terminator), true
	}

	// Keep a possible terminator prefix at the end of the buffer;
	// everything before it is paste payload.
	keep := 0
	for probe := len(terminator) - 1; probe > 0; probe-- {
		if probe <= len(d.buf) && bytes.HasPrefix(terminator, d.buf[len(d.buf)-probe:]) {
			keep = probe
			break
		}
	}
	payload := len(d.buf) - keep
	if payload > 0 {
		d.paste.Write(d.buf[:payload])
		return token{}, payload, true
	}
	if force && keep > 0 {
		// Quiet period inside a paste with a dangling ESC prefix:
		// treat it as payload rather than stalling forever.
		d.paste.Write(d.buf)
		return token{}, len(d.buf), true
	}
	return token{}, 0, false
}

// arrowKey maps cursor-key final bytes shared by CSI and SS3.
func arrowKey(final byte, mod Mod) (Key, bool) {
	switch final {
	case 'A':
		return Key{Code: CodeUp, Mod: mod}, true
	case 'B':
		return Key{Code: CodeDown, Mod: mod}, true
	case 'C':
		return Key{Code: CodeRight, Mod: mod}, true
	case 'D':
		return Key{Code: CodeLeft, Mod: mod}, true
	case 'H':
		return Key{Code: CodeHome, Mod: mod}, true
	case 'F':
		return Key{Code: CodeEnd, Mod: mod}, true
	}
	return Key{}, false
}

// csiUKey maps a CSI-u codepoint to a Key.
func csiUKey(codepoint int, mod Mod) Key {
	switch codepoint {
	case 13:
		return Key{Code: CodeEnter, Mod: mod}
	case 9:
		if mod&ModShift != 0 {
			return Key{Code: CodeBackTab}
		}
		return Key{Code: CodeTab, Mod: mod}
	case 27:
		return Key{Code: CodeEsc, Mod: mod}
	case 127:
		return Key{Code: CodeBackspace, Mod: mod}
	default:
		return Key{Code: CodeRune, Rune: rune(codepoint), Mod: mod}
	}
}

// decodeModifier converts the xterm modifier parameter (value minus
// one is a bitmask: 1 shift, 2 alt, 4 ctrl).
func decodeModifier(param int) Mod {
	bits := param - 1
	var mod Mod
	if bits&1 != 0 {
		mod |= ModShift
	}
	if bits&2 != 0 {
		mod |= ModAlt
	}
	if bits&4 != 0 {
		mod |= ModCtrl
	}
	return mod
}

// parseCSIParams splits the parameter bytes on ';' into integers.
// Empty parameters parse as zero.
func parseCSIParams(data []byte) []int {
	if len(data) == 0 {
		return nil
	}
	var params []int
	value := 0
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9':
			value = value*10 + int(b-'0')
		case b == ';':
			params = append(params, value)
			value = 0
		default:
			// Private parameter bytes ('<', '=', '>', '?') and
			// sub-parameter separators are ignored.
		}
	}
	params = append(params, value)
	return params
}
