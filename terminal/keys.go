// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"fmt"
	"strings"
)

// xterm encodes held modifiers as parameter value 1 + shift(1) + alt(2) +
// ctrl(4).
func modifierParam(k Keypress) int {
	m := 1
	if k.Shift {
		m += 1
	}
	if k.Alt {
		m += 2
	}
	if k.Ctrl {
		m += 4
	}
	return m
}

// cursorKeySeq renders an arrow or HOME/END key under the current arrow
// key mode.
func (emu *Emulator) cursorKeySeq(final rune) string {
	switch emu.arrowKeyMode {
	case ArrowKeyMode_VT52:
		return "\033" + string(final)
	case ArrowKeyMode_VT100:
		return "\033O" + string(final)
	default:
		return "\033[" + string(final)
	}
}

// pfKeySeq renders F1-F4, which follow VT52 mode rather than the arrow
// key mode.
func (emu *Emulator) pfKeySeq(final rune, k Keypress) string {
	if emu.vt52Mode {
		return "\033" + string(final)
	}
	if m := modifierParam(k); m > 1 {
		return fmt.Sprintf("\033[1;%d%c", m, final)
	}
	return "\033O" + string(final)
}

func fnKeySeq(code int, k Keypress) string {
	if m := modifierParam(k); m > 1 {
		return fmt.Sprintf("\033[%d;%d~", code, m)
	}
	return fmt.Sprintf("\033[%d~", code)
}

// Keypress translates a structured key event into the byte string to send
// to the child process.
func (emu *Emulator) Keypress(k Keypress) string {
	switch k.Key {
	case KeyUp:
		return emu.cursorKeySeq('A')
	case KeyDown:
		return emu.cursorKeySeq('B')
	case KeyRight:
		return emu.cursorKeySeq('C')
	case KeyLeft:
		return emu.cursorKeySeq('D')
	case KeyHome:
		return emu.cursorKeySeq('H')
	case KeyEnd:
		switch emu.arrowKeyMode {
		case ArrowKeyMode_VT52:
			return "\033K"
		case ArrowKeyMode_VT100:
			return "\033OF"
		default:
			return "\033[F"
		}

	case KeyF1:
		return emu.pfKeySeq('P', k)
	case KeyF2:
		return emu.pfKeySeq('Q', k)
	case KeyF3:
		return emu.pfKeySeq('R', k)
	case KeyF4:
		return emu.pfKeySeq('S', k)
	case KeyF5:
		return fnKeySeq(15, k)
	case KeyF6:
		return fnKeySeq(17, k)
	case KeyF7:
		return fnKeySeq(18, k)
	case KeyF8:
		return fnKeySeq(19, k)
	case KeyF9:
		return fnKeySeq(20, k)
	case KeyF10:
		return fnKeySeq(21, k)
	case KeyF11:
		return fnKeySeq(23, k)
	case KeyF12:
		return fnKeySeq(24, k)

	case KeyIns:
		return fnKeySeq(2, k)
	case KeyDel:
		return fnKeySeq(3, k)
	case KeyPgUp:
		return fnKeySeq(5, k)
	case KeyPgDn:
		return fnKeySeq(6, k)

	case KeyTab:
		return "\t"
	case KeyBTab:
		return "\033[Z"
	case KeyEnter:
		if emu.newLineMode {
			return "\r\n"
		}
		return "\r"
	case KeyEsc:
		return "\033"
	case KeyBackspace:
		return "\x7f"
	}

	// bare code point with modifiers
	var sb strings.Builder
	ch := k.Ch
	if k.Ctrl && ch >= 0x40 && ch < 0x80 {
		ch = (ch & 0x1f)
	}
	if k.Alt {
		sb.WriteRune('\033')
	}
	sb.WriteRune(ch)
	return sb.String()
}
