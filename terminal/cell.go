// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

// Renditions carries the drawing attributes of one cell: the two indexed
// colors plus the bold and blink flags. The reverse flag never reaches the
// physical screen; it is resolved into swapped colors when a cell is
// rendered (SGR 7 and DECSCNM).
type Renditions struct {
	fgColor Color
	bgColor Color
	bold    bool
	blink   bool
	reverse bool
}

// NewRenditions returns the power-on renditions: white on black, plain.
func NewRenditions() Renditions {
	return Renditions{fgColor: ColorWhite, bgColor: ColorBlack}
}

func (r *Renditions) SetForeground(color Color) {
	if color.Valid() {
		r.fgColor = color
	}
}

func (r *Renditions) SetBackground(color Color) {
	if color.Valid() {
		r.bgColor = color
	}
}

func (r Renditions) GetForeground() Color { return r.fgColor }
func (r Renditions) GetBackground() Color { return r.bgColor }

func (r *Renditions) SetBold(v bool)    { r.bold = v }
func (r *Renditions) SetBlink(v bool)   { r.blink = v }
func (r *Renditions) SetReverse(v bool) { r.reverse = v }

func (r Renditions) GetBold() bool    { return r.bold }
func (r Renditions) GetBlink() bool   { return r.blink }
func (r Renditions) GetReverse() bool { return r.reverse }

// ClearAttributes drops bold, blink and reverse but keeps the colors.
func (r *Renditions) ClearAttributes() {
	r.bold = false
	r.blink = false
	r.reverse = false
}

// Resolved returns a copy with the reverse flag folded into swapped colors.
// extraReverse accounts for screen-wide reverse video: the two cancel out.
func (r Renditions) Resolved(extraReverse bool) Renditions {
	out := r
	out.reverse = false
	if r.reverse != extraReverse {
		out.fgColor, out.bgColor = r.bgColor, r.fgColor
	}
	return out
}

// Cell is one character position on the grid: a glyph plus renditions.
// Equality is structural across all fields.
type Cell struct {
	contents   rune
	renditions Renditions
}

// NewCell returns a fresh cell: space, white on black, plain.
func NewCell() Cell {
	return Cell{contents: ' ', renditions: NewRenditions()}
}

func makeCell(ch rune, rend Renditions) Cell {
	return Cell{contents: ch, renditions: rend}
}

// Reset returns the cell to its power-on value.
func (c *Cell) Reset() {
	c.contents = ' '
	c.renditions = NewRenditions()
}

func (c Cell) GetContents() rune          { return c.contents }
func (c *Cell) SetContents(ch rune)       { c.contents = ch }
func (c Cell) GetRenditions() Renditions  { return c.renditions }
func (c *Cell) SetRenditions(r Renditions) { c.renditions = r }

// IsBlank reports whether the cell still equals a freshly reset cell.
func (c Cell) IsBlank() bool {
	return c == NewCell()
}
