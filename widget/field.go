// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

// Field is a single-line text input with insert and overwrite modes and
// horizontal scrolling.
type Field struct {
	base

	text      []rune
	cursor    int // index into text
	scrollOff int // first visible rune
	overwrite bool

	theme    Theme
	onChange func(string)
	onEnter  func(string)
}

func NewField(theme Theme, x, y, width int) *Field {
	return &Field{
		base:  newBase(x, y, Max(width, 2), 1),
		theme: theme,
	}
}

func (f *Field) Text() string { return string(f.text) }

func (f *Field) SetText(text string) {
	f.text = []rune(text)
	f.cursor = len(f.text)
	f.scroll()
	f.changed()
}

func (f *Field) SetOnChange(fn func(string)) { f.onChange = fn }
func (f *Field) SetOnEnter(fn func(string))  { f.onEnter = fn }

func (f *Field) changed() {
	if f.onChange != nil {
		f.onChange(string(f.text))
	}
}

// runesWidth is the display width of a rune span, wide glyphs counted
// double.
func runesWidth(rs []rune) int {
	width := 0
	for _, ch := range rs {
		width += Max(1, runewidth.RuneWidth(ch))
	}
	return width
}

// scroll keeps the cursor column inside the visible span.
func (f *Field) scroll() {
	if f.cursor < f.scrollOff {
		f.scrollOff = f.cursor
	}
	for f.scrollOff < f.cursor && runesWidth(f.text[f.scrollOff:f.cursor]) >= f.width {
		f.scrollOff++
	}
}

func (f *Field) HandleKey(k terminal.Keypress) bool {
	switch k.Key {
	case terminal.KeyLeft:
		f.cursor = Max(0, f.cursor-1)
	case terminal.KeyRight:
		f.cursor = Min(len(f.text), f.cursor+1)
	case terminal.KeyHome:
		f.cursor = 0
	case terminal.KeyEnd:
		f.cursor = len(f.text)
	case terminal.KeyIns:
		f.overwrite = !f.overwrite
	case terminal.KeyBackspace:
		if f.cursor > 0 {
			f.text = append(f.text[:f.cursor-1], f.text[f.cursor:]...)
			f.cursor--
			f.changed()
		}
	case terminal.KeyDel:
		if f.cursor < len(f.text) {
			f.text = append(f.text[:f.cursor], f.text[f.cursor+1:]...)
			f.changed()
		}
	case terminal.KeyEnter:
		if f.onEnter != nil {
			f.onEnter(string(f.text))
		}
	case terminal.KeyNone:
		if k.Ch < ' ' || k.Alt || k.Ctrl {
			return false
		}
		if f.overwrite && f.cursor < len(f.text) {
			f.text[f.cursor] = k.Ch
		} else {
			f.text = append(f.text[:f.cursor], append([]rune{k.Ch}, f.text[f.cursor:]...)...)
		}
		f.cursor++
		f.changed()
	default:
		return false
	}
	f.scroll()
	return true
}

func (f *Field) HandleMouse(ev terminal.InputEvent) bool {
	if ev.Type == terminal.EventType_MouseDown && ev.Mouse1 {
		f.cursor = Min(len(f.text), f.scrollOff+(ev.X-f.x))
		return true
	}
	return false
}

func (f *Field) Draw(s *terminal.Screen) {
	rend := f.theme.Get("field")
	if f.focused {
		rend = f.theme.Get("field.focus")
	}

	col := 0
	for i := Min(f.scrollOff, len(f.text)); col < f.width; i++ {
		ch := ' '
		chWidth := 1
		if i < len(f.text) {
			ch = f.text[i]
			chWidth = Max(1, runewidth.RuneWidth(ch))
		}
		cell := rend
		if f.focused && i == f.cursor {
			cell = cell.Resolved(true) // block cursor by inversion
		}
		s.PutChar(f.x+col, f.y, ch, cell)
		col += chWidth
	}
}
