// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

// Label is a line of static text.
type Label struct {
	base

	text  string
	theme Theme
	color string // theme entry name
}

func NewLabel(theme Theme, x, y int, text string) *Label {
	l := &Label{
		base:  newBase(x, y, runewidth.StringWidth(text), 1),
		text:  text,
		theme: theme,
		color: "label",
	}
	l.enabled = false // labels never take focus
	return l
}

func (l *Label) SetText(text string) {
	l.text = text
	l.width = runewidth.StringWidth(text)
}

func (l *Label) SetColorName(name string) { l.color = name }

func (l *Label) Draw(s *terminal.Screen) {
	s.PutStr(l.x, l.y, l.text, l.theme.Get(l.color))
}
