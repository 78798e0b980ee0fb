// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/ericwq/twin/terminal"
)

// Theme names the renditions the widgets draw with.
type Theme map[string]terminal.Renditions

func rend(fg, bg terminal.Color, bold bool) terminal.Renditions {
	r := terminal.NewRenditions()
	r.SetForeground(fg)
	r.SetBackground(bg)
	r.SetBold(bold)
	return r
}

// DefaultTheme is the classic blue desktop look.
func DefaultTheme() Theme {
	return Theme{
		"desktop":            rend(terminal.ColorBlue, terminal.ColorBlack, true),
		"window.border":      rend(terminal.ColorWhite, terminal.ColorBlue, true),
		"window.border.idle": rend(terminal.ColorBlack, terminal.ColorBlue, true),
		"window.background":  rend(terminal.ColorWhite, terminal.ColorBlue, false),
		"window.title":       rend(terminal.ColorYellow, terminal.ColorBlue, true),
		"menubar":            rend(terminal.ColorBlack, terminal.ColorWhite, false),
		"menubar.highlight":  rend(terminal.ColorWhite, terminal.ColorGreen, true),
		"menu":               rend(terminal.ColorBlack, terminal.ColorWhite, false),
		"menu.highlight":     rend(terminal.ColorWhite, terminal.ColorGreen, true),
		"menu.disabled":      rend(terminal.ColorBlack, terminal.ColorWhite, true),
		"label":              rend(terminal.ColorWhite, terminal.ColorBlue, false),
		"button":             rend(terminal.ColorBlack, terminal.ColorGreen, false),
		"button.focus":       rend(terminal.ColorYellow, terminal.ColorGreen, true),
		"field":              rend(terminal.ColorWhite, terminal.ColorBlack, false),
		"field.focus":        rend(terminal.ColorYellow, terminal.ColorBlack, true),
		"checkbox":           rend(terminal.ColorWhite, terminal.ColorBlue, false),
		"checkbox.focus":     rend(terminal.ColorYellow, terminal.ColorBlue, true),
		"progress":           rend(terminal.ColorCyan, terminal.ColorBlue, true),
		"tree":               rend(terminal.ColorWhite, terminal.ColorBlue, false),
		"tree.selected":      rend(terminal.ColorWhite, terminal.ColorGreen, true),
		"text":               rend(terminal.ColorWhite, terminal.ColorBlue, false),
		"editor":             rend(terminal.ColorWhite, terminal.ColorBlack, false),
		"terminal":           rend(terminal.ColorWhite, terminal.ColorBlack, false),
	}
}

// Get falls back to the window background so a missing entry stays
// readable instead of black-on-black.
func (t Theme) Get(name string) terminal.Renditions {
	if r, ok := t[name]; ok {
		return r
	}
	return rend(terminal.ColorWhite, terminal.ColorBlue, false)
}
