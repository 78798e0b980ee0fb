// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

const (
	minWindowWidth  = 8
	minWindowHeight = 3
)

// Window is a movable, resizable, optionally modal container of widgets.
// The application owns the window list and the z-order; the focused window
// draws last.
type Window struct {
	base

	app   *App
	title string

	widgets  []Widget
	focusIdx int

	Modal     bool
	Movable   bool
	Resizable bool
	Closable  bool

	style terminal.BorderStyle

	dragging bool
	resizing bool
	dragDX   int
	dragDY   int

	// onKey, when set, sees every keypress before focus traversal; the
	// terminal widget uses it to own the whole keyboard
	onKey   func(k terminal.Keypress) bool
	onClose func()
	onIdle  func()
}

func NewWindow(app *App, title string, x, y, width, height int) *Window {
	w := &Window{
		base:      newBase(x, y, Max(width, minWindowWidth), Max(height, minWindowHeight)),
		app:       app,
		title:     title,
		Movable:   true,
		Resizable: true,
		Closable:  true,
		style:     terminal.BorderStyle_Double,
		focusIdx:  -1,
	}
	return w
}

func (w *Window) Title() string         { return w.title }
func (w *Window) SetTitle(title string) { w.title = title }

func (w *Window) SetBorderStyle(style terminal.BorderStyle) { w.style = style }

// Add appends a widget and gives it the focus if none is focused yet.
func (w *Window) Add(child Widget) {
	w.widgets = append(w.widgets, child)
	if w.focusIdx < 0 && child.Focusable() {
		w.focusIdx = len(w.widgets) - 1
		child.SetFocus(true)
	}
}

func (w *Window) FocusedWidget() Widget {
	if w.focusIdx < 0 || w.focusIdx >= len(w.widgets) {
		return nil
	}
	return w.widgets[w.focusIdx]
}

// BodySize is the interior area inside the border.
func (w *Window) BodySize() (int, int) {
	return w.width - 2, w.height - 2
}

// nextFocus moves focus forward or backward over the focusable widgets.
func (w *Window) nextFocus(backward bool) {
	if len(w.widgets) == 0 {
		return
	}
	step := 1
	if backward {
		step = len(w.widgets) - 1
	}
	idx := w.focusIdx
	for i := 0; i < len(w.widgets); i++ {
		idx = (idx + step) % len(w.widgets)
		if w.widgets[idx].Focusable() {
			break
		}
	}
	w.setFocusIdx(idx)
}

func (w *Window) setFocusIdx(idx int) {
	if idx == w.focusIdx {
		return
	}
	if old := w.FocusedWidget(); old != nil {
		old.SetFocus(false)
	}
	w.focusIdx = idx
	if nw := w.FocusedWidget(); nw != nil {
		nw.SetFocus(true)
	}
}

// HandleKey routes a keypress: window hook first, then focus traversal,
// then the focused widget.
func (w *Window) HandleKey(k terminal.Keypress) bool {
	if w.onKey != nil && w.onKey(k) {
		return true
	}

	switch k.Key {
	case terminal.KeyTab:
		w.nextFocus(false)
		return true
	case terminal.KeyBTab:
		w.nextFocus(true)
		return true
	}

	if fw := w.FocusedWidget(); fw != nil {
		return fw.HandleKey(k)
	}
	return false
}

// HandleMouse receives events with window-relative coordinates. The border
// row handles move/close, the bottom-right corner resize; everything else
// forwards to the widget under the pointer.
func (w *Window) HandleMouse(ev terminal.InputEvent) bool {
	switch ev.Type {
	case terminal.EventType_MouseDown:
		if ev.Y == 0 {
			if w.Closable && ev.X == 2 {
				w.Close()
				return true
			}
			if w.Movable {
				w.dragging = true
				w.dragDX = ev.X
				w.dragDY = ev.Y
				return true
			}
			return true
		}
		if w.Resizable && ev.X == w.width-1 && ev.Y == w.height-1 {
			w.resizing = true
			return true
		}

	case terminal.EventType_MouseMotion:
		if w.dragging && ev.Mouse1 {
			w.x = ev.AbsoluteX - w.dragDX
			w.y = ev.AbsoluteY - w.dragDY
			w.damage()
			return true
		}
		if w.resizing && ev.Mouse1 {
			w.OnResize(ev.X+1, ev.Y+1)
			w.damage()
			return true
		}

	case terminal.EventType_MouseUp:
		w.dragging = false
		w.resizing = false
	}

	// body coordinates are relative to the interior
	bodyEv := ev
	bodyEv.X = ev.X - 1
	bodyEv.Y = ev.Y - 1
	for i := len(w.widgets) - 1; i >= 0; i-- {
		child := w.widgets[i]
		cx, cy, cw, ch := child.Bounds()
		if bodyEv.X < cx || bodyEv.X >= cx+cw || bodyEv.Y < cy || bodyEv.Y >= cy+ch {
			continue
		}
		if ev.Type == terminal.EventType_MouseDown && child.Focusable() {
			w.setFocusIdx(i)
		}
		if child.HandleMouse(bodyEv) {
			return true
		}
	}
	return false
}

func (w *Window) OnResize(width, height int) {
	w.width = Max(width, minWindowWidth)
	w.height = Max(height, minWindowHeight)
	bw, bh := w.BodySize()
	for _, child := range w.widgets {
		child.OnResize(Min(widthOf(child), bw), Min(heightOf(child), bh))
	}
}

func widthOf(child Widget) int  { _, _, cw, _ := child.Bounds(); return cw }
func heightOf(child Widget) int { _, _, _, ch := child.Bounds(); return ch }

func (w *Window) OnIdle() {
	if w.onIdle != nil {
		w.onIdle()
	}
	for _, child := range w.widgets {
		child.OnIdle()
	}
}

func (w *Window) damage() {
	if w.app != nil {
		w.app.damage()
	}
}

// Close removes the window from the application.
func (w *Window) Close() {
	if w.onClose != nil {
		w.onClose()
	}
	for _, child := range w.widgets {
		child.OnClose()
	}
	if w.app != nil {
		w.app.removeWindow(w)
	}
}

// Draw renders the frame and the children. The screen offset points at the
// window origin; children draw with the offset moved to the body.
func (w *Window) Draw(s *terminal.Screen) {
	theme := w.app.Theme()

	border := theme.Get("window.border.idle")
	if w.focused {
		border = theme.Get("window.border")
	}
	background := theme.Get("window.background")

	s.SetOffset(w.x, w.y)
	s.SetClip(w.width, w.height)
	s.DrawBox(0, 0, w.width, w.height, border, background, w.style, true, true)

	// title bar
	title := " " + w.title + " "
	if runewidth.StringWidth(title) > w.width-6 {
		title = runewidth.Truncate(title, Max(0, w.width-6), "")
	}
	s.PutStr((w.width-runewidth.StringWidth(title))/2, 0, title, theme.Get("window.title"))
	if w.Closable {
		s.PutStr(1, 0, "[■]", border)
	}
	if w.Resizable {
		s.PutChar(w.width-1, w.height-1, '┘', border)
	}

	// children draw inside the body
	s.SetOffset(w.x+1, w.y+1)
	bw, bh := w.BodySize()
	s.SetClip(bw, bh)
	for _, child := range w.widgets {
		child.Draw(s)
	}
}
