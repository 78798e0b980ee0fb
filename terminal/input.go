// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"time"
)

// Key names the non-printing keys. KeyNone means the keypress carries a
// bare code point in Ch.
type Key int

const (
	KeyNone Key = iota
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPgUp
	KeyPgDn
	KeyHome
	KeyEnd
	KeyIns
	KeyDel
	KeyTab
	KeyBTab
	KeyEnter
	KeyEsc
	KeyBackspace
)

// Keypress is one decoded keyboard event: a named key or a bare code point,
// plus the modifier flags.
type Keypress struct {
	Key   Key
	Ch    rune
	Shift bool
	Alt   bool
	Ctrl  bool
}

type EventType int

const (
	EventType_Keypress EventType = iota
	EventType_MouseDown
	EventType_MouseUp
	EventType_MouseMotion
)

// InputEvent is one event off the controlling terminal. Mouse coordinates
// are zero-based; X/Y are filled in window-relative by the dispatcher,
// AbsoluteX/AbsoluteY stay screen-absolute.
type InputEvent struct {
	Type EventType

	Keypress Keypress

	X         int
	Y         int
	AbsoluteX int
	AbsoluteY int

	Mouse1         bool
	Mouse2         bool
	Mouse3         bool
	MouseWheelUp   bool
	MouseWheelDown bool
}

func keyEvent(k Keypress) InputEvent {
	return InputEvent{Type: EventType_Keypress, Keypress: k}
}

// decoder states
const (
	USER_INPUT_GROUND = iota
	USER_INPUT_ESCAPE
	USER_INPUT_ESCAPE_INTERMEDIATE
	USER_INPUT_CSI_ENTRY
	USER_INPUT_CSI_PARAM
	USER_INPUT_MOUSE
)

// escTimeout is how long a bare ESC may sit before it is delivered as a
// keypress of its own.
const escTimeout = 250 * time.Millisecond

// Decoder turns the keyboard/mouse byte stream from the controlling
// terminal into InputEvents. Feed it one code point at a time.
type Decoder struct {
	state   int
	escTime time.Time

	params   []int
	inParam  bool
	mouseSeq []rune

	// sticky button state distinguishes drags from motion and names the
	// button on release
	mouse1 bool
	mouse2 bool
	mouse3 bool
}

func NewDecoder() *Decoder {
	return &Decoder{state: USER_INPUT_GROUND}
}

func (d *Decoder) reset() {
	d.state = USER_INPUT_GROUND
	d.params = d.params[:0]
	d.inParam = false
	d.mouseSeq = d.mouseSeq[:0]
}

// PendingTimeout reports whether a bare ESC is waiting on the 250 ms timer.
// The main loop uses it to schedule a real tick instead of stalling.
func (d *Decoder) PendingTimeout() bool {
	return d.state == USER_INPUT_ESCAPE
}

// Tick flushes a stalled bare ESC once the timeout has elapsed with no
// further input.
func (d *Decoder) Tick(now time.Time) []InputEvent {
	if d.state == USER_INPUT_ESCAPE && now.Sub(d.escTime) > escTimeout {
		d.reset()
		return []InputEvent{keyEvent(Keypress{Key: KeyEsc})}
	}
	return nil
}

func (d *Decoder) accumulateParam(ch rune) bool {
	switch {
	case ch >= '0' && ch <= '9':
		if !d.inParam {
			d.params = append(d.params, 0)
			d.inParam = true
		}
		last := len(d.params) - 1
		if d.params[last] < 65535 {
			d.params[last] = d.params[last]*10 + int(ch-'0')
		}
		return true
	case ch == ';':
		if !d.inParam {
			d.params = append(d.params, 0)
		}
		d.inParam = false
		return true
	}
	return false
}

func (d *Decoder) getParam(n, defaultVal int) int {
	if n < len(d.params) {
		return d.params[n]
	}
	return defaultVal
}

// xterm encodes modifiers as a second parameter: value-1 is a bitmask of
// shift(1), alt(2), ctrl(4).
func applyModifier(k *Keypress, mod int) {
	if mod < 2 {
		return
	}
	mask := mod - 1
	k.Shift = mask&1 != 0
	k.Alt = mask&2 != 0
	k.Ctrl = mask&4 != 0
}

var tildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyIns,
	3:  KeyDel,
	4:  KeyEnd,
	5:  KeyPgUp,
	6:  KeyPgDn,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

var csiFinalKeys = map[rune]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'Z': KeyBTab,
}

// Consume feeds one code point through the decoder and returns any events
// it completes. now drives the bare-ESC timeout.
func (d *Decoder) Consume(ch rune, now time.Time) []InputEvent {
	var events []InputEvent

	// a stalled ESC flushes before the new input is interpreted
	if evs := d.Tick(now); evs != nil {
		events = append(events, evs...)
	}

	switch d.state {
	case USER_INPUT_GROUND:
		events = append(events, d.consumeGround(ch, now)...)

	case USER_INPUT_ESCAPE:
		switch {
		case ch == '[':
			d.state = USER_INPUT_CSI_ENTRY
			d.params = d.params[:0]
			d.inParam = false
		case ch == 'O':
			d.state = USER_INPUT_ESCAPE_INTERMEDIATE
		case ch < 0x20:
			k := controlKeypress(ch)
			k.Alt = true
			events = append(events, keyEvent(k))
			d.reset()
		default:
			events = append(events, keyEvent(Keypress{Ch: ch, Alt: true}))
			d.reset()
		}

	case USER_INPUT_ESCAPE_INTERMEDIATE:
		switch ch {
		case 'P':
			events = append(events, keyEvent(Keypress{Key: KeyF1}))
		case 'Q':
			events = append(events, keyEvent(Keypress{Key: KeyF2}))
		case 'R':
			events = append(events, keyEvent(Keypress{Key: KeyF3}))
		case 'S':
			events = append(events, keyEvent(Keypress{Key: KeyF4}))
		default:
			// application cursor keys arrive as SS3 A-D
			if key, ok := csiFinalKeys[ch]; ok {
				events = append(events, keyEvent(Keypress{Key: key}))
			}
		}
		d.reset()

	case USER_INPUT_CSI_ENTRY:
		if d.accumulateParam(ch) {
			d.state = USER_INPUT_CSI_PARAM
			break
		}
		switch ch {
		case 'M':
			d.state = USER_INPUT_MOUSE
			d.mouseSeq = d.mouseSeq[:0]
		default:
			if key, ok := csiFinalKeys[ch]; ok {
				events = append(events, keyEvent(Keypress{Key: key}))
			}
			d.reset()
		}

	case USER_INPUT_CSI_PARAM:
		if d.accumulateParam(ch) {
			break
		}
		switch ch {
		case '~':
			if key, ok := tildeKeys[d.getParam(0, 0)]; ok {
				k := Keypress{Key: key}
				applyModifier(&k, d.getParam(1, 1))
				events = append(events, keyEvent(k))
			}
		default:
			if key, ok := csiFinalKeys[ch]; ok {
				k := Keypress{Key: key}
				applyModifier(&k, d.getParam(1, 1))
				events = append(events, keyEvent(k))
			}
		}
		d.reset()

	case USER_INPUT_MOUSE:
		d.mouseSeq = append(d.mouseSeq, ch)
		if len(d.mouseSeq) == 3 {
			events = append(events, d.decodeMouse())
			d.reset()
		}
	}

	return events
}

func (d *Decoder) consumeGround(ch rune, now time.Time) []InputEvent {
	switch {
	case ch == '\x1b':
		d.state = USER_INPUT_ESCAPE
		d.escTime = now
		return nil
	case ch == '\x7f':
		return []InputEvent{keyEvent(Keypress{Key: KeyBackspace})}
	case ch < 0x20:
		return []InputEvent{keyEvent(controlKeypress(ch))}
	default:
		return []InputEvent{keyEvent(Keypress{Ch: ch})}
	}
}

// controlKeypress maps a C0 byte to a named key where one exists, otherwise
// to a ctrl-marked letter.
func controlKeypress(ch rune) Keypress {
	switch ch {
	case '\x0d':
		return Keypress{Key: KeyEnter}
	case '\x09':
		return Keypress{Key: KeyTab}
	case '\x08':
		return Keypress{Key: KeyBackspace, Ctrl: true}
	default:
		return Keypress{Ch: ch + 0x40, Ctrl: true}
	}
}

// decodeMouse unpacks an X10-style packet with UTF-8 (1005) coordinates:
// button+32, col+33, row+33.
func (d *Decoder) decodeMouse() InputEvent {
	button := int(d.mouseSeq[0]) - 32
	x := int(d.mouseSeq[1]) - 33
	y := int(d.mouseSeq[2]) - 33

	ev := InputEvent{AbsoluteX: x, AbsoluteY: y, X: x, Y: y}

	switch button {
	case 0:
		ev.Type = EventType_MouseDown
		ev.Mouse1 = true
		d.mouse1 = true
	case 1:
		ev.Type = EventType_MouseDown
		ev.Mouse2 = true
		d.mouse2 = true
	case 2:
		ev.Type = EventType_MouseDown
		ev.Mouse3 = true
		d.mouse3 = true
	case 3:
		// release does not name its button: recover it from the
		// tracked state
		if d.mouse1 || d.mouse2 || d.mouse3 {
			ev.Type = EventType_MouseUp
			ev.Mouse1 = d.mouse1
			ev.Mouse2 = d.mouse2
			ev.Mouse3 = d.mouse3
			d.mouse1, d.mouse2, d.mouse3 = false, false, false
		} else {
			ev.Type = EventType_MouseMotion
		}
	case 32:
		ev.Type = EventType_MouseMotion
		ev.Mouse1 = true
	case 33:
		ev.Type = EventType_MouseMotion
		ev.Mouse2 = true
	case 34:
		ev.Type = EventType_MouseMotion
		ev.Mouse3 = true
	case 64:
		ev.Type = EventType_MouseDown
		ev.MouseWheelUp = true
	case 65:
		ev.Type = EventType_MouseDown
		ev.MouseWheelDown = true
	default:
		ev.Type = EventType_MouseMotion
	}

	return ev
}
