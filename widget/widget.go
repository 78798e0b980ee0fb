// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/ericwq/twin/terminal"
)

// Widget is the uniform interface every control implements. Coordinates in
// the mouse events arrive relative to the owning window's body; Draw
// happens with the screen offset already set to that body.
type Widget interface {
	Draw(s *terminal.Screen)

	// HandleKey reports whether the widget consumed the keypress.
	HandleKey(k terminal.Keypress) bool

	// HandleMouse receives DOWN/UP/MOTION with body-relative x, y.
	HandleMouse(ev terminal.InputEvent) bool

	OnResize(width, height int)
	OnIdle()
	OnClose()

	Bounds() (x, y, width, height int)
	SetPosition(x, y int)

	Focusable() bool
	SetFocus(focus bool)
	HasFocus() bool
}

// base carries the geometry and focus state common to all widgets.
type base struct {
	x      int
	y      int
	width  int
	height int

	focused bool
	enabled bool
}

func newBase(x, y, width, height int) base {
	return base{x: x, y: y, width: width, height: height, enabled: true}
}

func (b *base) Bounds() (int, int, int, int) { return b.x, b.y, b.width, b.height }
func (b *base) SetPosition(x, y int)         { b.x, b.y = x, y }

func (b *base) OnResize(width, height int) {
	b.width = Max(1, width)
	b.height = Max(1, height)
}

func (b *base) OnIdle()  {}
func (b *base) OnClose() {}

func (b *base) Focusable() bool     { return b.enabled }
func (b *base) SetFocus(focus bool) { b.focused = focus }
func (b *base) HasFocus() bool      { return b.focused }

func (b *base) HandleKey(k terminal.Keypress) bool      { return false }
func (b *base) HandleMouse(ev terminal.InputEvent) bool { return false }

// contains tests a body-relative point against the widget bounds.
func (b *base) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.width && y >= b.y && y < b.y+b.height
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
