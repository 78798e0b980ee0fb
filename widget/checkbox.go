// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

// Checkbox toggles on SPACE or a click.
type Checkbox struct {
	base

	label    string
	checked  bool
	theme    Theme
	onToggle func(bool)
}

func NewCheckbox(theme Theme, x, y int, label string, checked bool) *Checkbox {
	return &Checkbox{
		base:    newBase(x, y, runewidth.StringWidth(label)+4, 1),
		label:   label,
		checked: checked,
		theme:   theme,
	}
}

func (c *Checkbox) Checked() bool             { return c.checked }
func (c *Checkbox) SetOnToggle(fn func(bool)) { c.onToggle = fn }

func (c *Checkbox) toggle() {
	c.checked = !c.checked
	if c.onToggle != nil {
		c.onToggle(c.checked)
	}
}

func (c *Checkbox) HandleKey(k terminal.Keypress) bool {
	if k.Key == terminal.KeyNone && k.Ch == ' ' {
		c.toggle()
		return true
	}
	return false
}

func (c *Checkbox) HandleMouse(ev terminal.InputEvent) bool {
	if ev.Type == terminal.EventType_MouseDown && ev.Mouse1 {
		c.toggle()
		return true
	}
	return false
}

func (c *Checkbox) Draw(s *terminal.Screen) {
	rend := c.theme.Get("checkbox")
	if c.focused {
		rend = c.theme.Get("checkbox.focus")
	}
	mark := "[ ] "
	if c.checked {
		mark = "[X] "
	}
	s.PutStr(c.x, c.y, mark+c.label, rend)
}
