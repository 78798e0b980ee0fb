// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

// RadioGroup is a boxed list of mutually exclusive options.
type RadioGroup struct {
	base

	title    string
	options  []string
	selected int
	theme    Theme
	onSelect func(int)
}

func NewRadioGroup(theme Theme, x, y int, title string, options []string) *RadioGroup {
	width := runewidth.StringWidth(title) + 4
	for _, opt := range options {
		width = Max(width, runewidth.StringWidth(opt)+8)
	}
	return &RadioGroup{
		base:    newBase(x, y, width, len(options)+2),
		title:   title,
		options: options,
		theme:   theme,
	}
}

func (r *RadioGroup) Selected() int            { return r.selected }
func (r *RadioGroup) SetOnSelect(fn func(int)) { r.onSelect = fn }

func (r *RadioGroup) selectIdx(idx int) {
	idx = clamp(idx, 0, len(r.options)-1)
	if idx == r.selected {
		return
	}
	r.selected = idx
	if r.onSelect != nil {
		r.onSelect(idx)
	}
}

func (r *RadioGroup) HandleKey(k terminal.Keypress) bool {
	switch k.Key {
	case terminal.KeyUp:
		r.selectIdx(r.selected - 1)
		return true
	case terminal.KeyDown:
		r.selectIdx(r.selected + 1)
		return true
	}
	return false
}

func (r *RadioGroup) HandleMouse(ev terminal.InputEvent) bool {
	if ev.Type != terminal.EventType_MouseDown || !ev.Mouse1 {
		return false
	}
	row := ev.Y - r.y - 1
	if row >= 0 && row < len(r.options) {
		r.selectIdx(row)
		return true
	}
	return false
}

func (r *RadioGroup) Draw(s *terminal.Screen) {
	rend := r.theme.Get("checkbox")
	focusRend := r.theme.Get("checkbox.focus")
	border := rend
	if r.focused {
		border = focusRend
	}

	s.DrawBox(r.x, r.y, r.x+r.width, r.y+r.height, border, rend,
		terminal.BorderStyle_Single, true, false)
	s.PutStr(r.x+2, r.y, " "+r.title+" ", border)

	for i, opt := range r.options {
		mark := "( ) "
		if i == r.selected {
			mark = "(•) "
		}
		lineRend := rend
		if r.focused && i == r.selected {
			lineRend = focusRend
		}
		s.PutStr(r.x+2, r.y+1+i, mark+opt, lineRend)
	}
}
