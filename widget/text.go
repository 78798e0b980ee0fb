// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

// Text is a read-only, word-wrapped, scrollable view.
type Text struct {
	base

	raw     string
	lines   []string
	scrollY int

	theme Theme
}

func NewText(theme Theme, x, y, width, height int, content string) *Text {
	t := &Text{
		base:  newBase(x, y, width, height),
		theme: theme,
	}
	t.SetText(content)
	return t
}

func (t *Text) SetText(content string) {
	t.raw = content
	t.reflow()
}

func (t *Text) Lines() []string { return t.lines }

func (t *Text) OnResize(width, height int) {
	t.base.OnResize(width, height)
	t.reflow()
}

// reflow wraps the raw text on word boundaries; a word longer than the
// width breaks mid-word.
func (t *Text) reflow() {
	t.lines = t.lines[:0]
	for _, para := range strings.Split(t.raw, "\n") {
		t.lines = append(t.lines, wrapLine(para, t.width)...)
	}
	t.scrollY = clamp(t.scrollY, 0, Max(0, len(t.lines)-t.height))
}

func wrapLine(para string, width int) []string {
	if width < 1 {
		return []string{""}
	}
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var out []string
	line := ""
	for _, word := range words {
		for runewidth.StringWidth(word) > width {
			if line != "" {
				out = append(out, line)
				line = ""
			}
			head, rest := splitAtWidth(word, width)
			out = append(out, head)
			word = rest
		}
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			out = append(out, line)
			line = word
		}
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

// splitAtWidth breaks s at the last rune that still fits in width display
// columns.
func splitAtWidth(s string, width int) (head, rest string) {
	w := 0
	for i, ch := range s {
		cw := Max(1, runewidth.RuneWidth(ch))
		if w+cw > width {
			return s[:i], s[i:]
		}
		w += cw
	}
	return s, ""
}

func (t *Text) ScrollBy(delta int) {
	t.scrollY = clamp(t.scrollY+delta, 0, Max(0, len(t.lines)-t.height))
}

func (t *Text) HandleKey(k terminal.Keypress) bool {
	switch k.Key {
	case terminal.KeyUp:
		t.ScrollBy(-1)
	case terminal.KeyDown:
		t.ScrollBy(1)
	case terminal.KeyPgUp:
		t.ScrollBy(-t.height)
	case terminal.KeyPgDn:
		t.ScrollBy(t.height)
	case terminal.KeyHome:
		t.scrollY = 0
	case terminal.KeyEnd:
		t.scrollY = Max(0, len(t.lines)-t.height)
	default:
		return false
	}
	return true
}

func (t *Text) HandleMouse(ev terminal.InputEvent) bool {
	if ev.Type == terminal.EventType_MouseDown {
		if ev.MouseWheelUp {
			t.ScrollBy(-3)
			return true
		}
		if ev.MouseWheelDown {
			t.ScrollBy(3)
			return true
		}
	}
	return false
}

func (t *Text) Draw(s *terminal.Screen) {
	rend := t.theme.Get("text")

	for row := 0; row < t.height; row++ {
		idx := t.scrollY + row
		for x := 0; x < t.width; x++ {
			s.PutChar(t.x+x, t.y+row, ' ', rend)
		}
		if idx < len(t.lines) {
			// PutStr walks grapheme clusters, so wide glyphs land on
			// the columns the wrap accounted for
			s.PutStr(t.x, t.y+row, t.lines[idx], rend)
		}
	}

	// a minimal scrollbar on the right edge
	if len(t.lines) > t.height {
		thumb := t.scrollY * (t.height - 1) / Max(1, len(t.lines)-t.height)
		for row := 0; row < t.height; row++ {
			ch := '░'
			if row == thumb {
				ch = '█'
			}
			s.PutChar(t.x+t.width-1, t.y+row, ch, rend)
		}
	}
}
