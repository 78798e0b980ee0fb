// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

// Button fires its action on SPACE, ENTER, or a press-and-release inside
// its bounds.
type Button struct {
	base

	text   string
	theme  Theme
	armed  bool
	action func()
}

func NewButton(theme Theme, x, y int, text string, action func()) *Button {
	return &Button{
		base:   newBase(x, y, runewidth.StringWidth(text)+4, 1),
		text:   text,
		theme:  theme,
		action: action,
	}
}

func (b *Button) fire() {
	if b.action != nil {
		b.action()
	}
}

func (b *Button) HandleKey(k terminal.Keypress) bool {
	if k.Key == terminal.KeyEnter || (k.Key == terminal.KeyNone && k.Ch == ' ') {
		b.fire()
		return true
	}
	return false
}

func (b *Button) HandleMouse(ev terminal.InputEvent) bool {
	switch ev.Type {
	case terminal.EventType_MouseDown:
		if ev.Mouse1 {
			b.armed = true
			return true
		}
	case terminal.EventType_MouseUp:
		if b.armed {
			b.armed = false
			if b.contains(ev.X, ev.Y) {
				b.fire()
			}
			return true
		}
	}
	return false
}

func (b *Button) Draw(s *terminal.Screen) {
	rend := b.theme.Get("button")
	if b.focused {
		rend = b.theme.Get("button.focus")
	}
	label := "< " + b.text + " >"
	if b.armed {
		label = "> " + b.text + " <"
	}
	s.PutStr(b.x, b.y, label, rend)
}
