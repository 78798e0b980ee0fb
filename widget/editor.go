// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"strings"

	"github.com/ericwq/twin/terminal"
)

// Editor is a line-based editable text area. It keeps its own line buffer
// with vertical and horizontal scrolling, a cursor and mutation keys; it
// does not build on Text.
type Editor struct {
	base

	lines   [][]rune
	cursorX int
	cursorY int
	scrollY int
	scrollX int

	theme Theme
}

func NewEditor(theme Theme, x, y, width, height int, content string) *Editor {
	e := &Editor{
		base:  newBase(x, y, width, height),
		theme: theme,
	}
	e.SetText(content)
	return e
}

func (e *Editor) SetText(content string) {
	e.lines = e.lines[:0]
	for _, line := range strings.Split(content, "\n") {
		e.lines = append(e.lines, []rune(line))
	}
	e.cursorX, e.cursorY = 0, 0
	e.scrollX, e.scrollY = 0, 0
}

func (e *Editor) Text() string {
	parts := make([]string, len(e.lines))
	for i, line := range e.lines {
		parts[i] = string(line)
	}
	return strings.Join(parts, "\n")
}

func (e *Editor) currentLine() []rune { return e.lines[e.cursorY] }

func (e *Editor) clampCursor() {
	e.cursorY = clamp(e.cursorY, 0, len(e.lines)-1)
	e.cursorX = clamp(e.cursorX, 0, len(e.currentLine()))
	if e.cursorY < e.scrollY {
		e.scrollY = e.cursorY
	}
	if e.cursorY >= e.scrollY+e.height {
		e.scrollY = e.cursorY - e.height + 1
	}
	if e.cursorX < e.scrollX {
		e.scrollX = e.cursorX
	}
	if e.cursorX >= e.scrollX+e.width {
		e.scrollX = e.cursorX - e.width + 1
	}
}

func (e *Editor) insertRune(ch rune) {
	line := e.currentLine()
	line = append(line[:e.cursorX], append([]rune{ch}, line[e.cursorX:]...)...)
	e.lines[e.cursorY] = line
	e.cursorX++
}

func (e *Editor) insertNewline() {
	line := e.currentLine()
	rest := append([]rune{}, line[e.cursorX:]...)
	e.lines[e.cursorY] = line[:e.cursorX]

	e.lines = append(e.lines, nil)
	copy(e.lines[e.cursorY+2:], e.lines[e.cursorY+1:])
	e.lines[e.cursorY+1] = rest

	e.cursorY++
	e.cursorX = 0
}

func (e *Editor) backspace() {
	if e.cursorX > 0 {
		line := e.currentLine()
		e.lines[e.cursorY] = append(line[:e.cursorX-1], line[e.cursorX:]...)
		e.cursorX--
		return
	}
	if e.cursorY > 0 {
		prev := e.lines[e.cursorY-1]
		e.cursorX = len(prev)
		e.lines[e.cursorY-1] = append(prev, e.currentLine()...)
		e.lines = append(e.lines[:e.cursorY], e.lines[e.cursorY+1:]...)
		e.cursorY--
	}
}

func (e *Editor) deleteForward() {
	line := e.currentLine()
	if e.cursorX < len(line) {
		e.lines[e.cursorY] = append(line[:e.cursorX], line[e.cursorX+1:]...)
		return
	}
	if e.cursorY < len(e.lines)-1 {
		e.lines[e.cursorY] = append(line, e.lines[e.cursorY+1]...)
		e.lines = append(e.lines[:e.cursorY+1], e.lines[e.cursorY+2:]...)
	}
}

func (e *Editor) HandleKey(k terminal.Keypress) bool {
	switch k.Key {
	case terminal.KeyUp:
		e.cursorY--
	case terminal.KeyDown:
		e.cursorY++
	case terminal.KeyLeft:
		if e.cursorX > 0 {
			e.cursorX--
		} else if e.cursorY > 0 {
			e.cursorY--
			e.cursorX = len(e.lines[e.cursorY])
		}
	case terminal.KeyRight:
		if e.cursorX < len(e.currentLine()) {
			e.cursorX++
		} else if e.cursorY < len(e.lines)-1 {
			e.cursorY++
			e.cursorX = 0
		}
	case terminal.KeyHome:
		e.cursorX = 0
	case terminal.KeyEnd:
		e.cursorX = len(e.currentLine())
	case terminal.KeyPgUp:
		e.cursorY -= e.height
	case terminal.KeyPgDn:
		e.cursorY += e.height
	case terminal.KeyEnter:
		e.insertNewline()
	case terminal.KeyBackspace:
		e.backspace()
	case terminal.KeyDel:
		e.deleteForward()
	case terminal.KeyTab:
		e.insertRune('\t')
	case terminal.KeyNone:
		if k.Ch < ' ' || k.Alt || k.Ctrl {
			return false
		}
		e.insertRune(k.Ch)
	default:
		return false
	}
	e.clampCursor()
	return true
}

func (e *Editor) HandleMouse(ev terminal.InputEvent) bool {
	switch {
	case ev.Type == terminal.EventType_MouseDown && ev.MouseWheelUp:
		e.scrollY = Max(0, e.scrollY-3)
		return true
	case ev.Type == terminal.EventType_MouseDown && ev.MouseWheelDown:
		e.scrollY = Min(Max(0, len(e.lines)-1), e.scrollY+3)
		return true
	case ev.Type == terminal.EventType_MouseDown && ev.Mouse1:
		e.cursorY = e.scrollY + ev.Y - e.y
		e.cursorX = e.scrollX + ev.X - e.x
		e.clampCursor()
		return true
	}
	return false
}

func (e *Editor) Draw(s *terminal.Screen) {
	rend := e.theme.Get("editor")

	for row := 0; row < e.height; row++ {
		idx := e.scrollY + row
		var line []rune
		if idx < len(e.lines) {
			line = e.lines[idx]
		}
		for x := 0; x < e.width; x++ {
			ch := ' '
			if e.scrollX+x < len(line) {
				ch = line[e.scrollX+x]
			}
			cell := rend
			if e.focused && idx == e.cursorY && e.scrollX+x == e.cursorX {
				cell = cell.Resolved(true)
			}
			s.PutChar(e.x+x, e.y+row, ch, cell)
		}
	}
}
