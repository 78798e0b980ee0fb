// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

// MaxLine is the fixed width of a display line. Lines narrower than this on
// screen simply leave the tail blank, so a later resize never loses cells.
const MaxLine = 256

type DoubleHeight int

const (
	DoubleHeight_None DoubleHeight = iota
	DoubleHeight_Top
	DoubleHeight_Bottom
)

// Row is one display line: MaxLine cells plus the DEC line-level flags.
// reverseColor is captured at construction from the current reverse-video
// mode so scrollback lines keep their inverted color.
type Row struct {
	cells        [MaxLine]Cell
	doubleWidth  bool
	doubleHeight DoubleHeight
	reverseColor bool
}

func NewRow(reverseColor bool) *Row {
	r := &Row{reverseColor: reverseColor}
	for i := range r.cells {
		r.cells[i].Reset()
	}
	return r
}

func (r *Row) GetCell(i int) Cell {
	if i < 0 || i >= MaxLine {
		return NewCell()
	}
	return r.cells[i]
}

func (r *Row) SetCell(i int, c Cell) {
	if i < 0 || i >= MaxLine {
		return
	}
	r.cells[i] = c
}

func (r *Row) GetDoubleWidth() bool          { return r.doubleWidth }
func (r *Row) SetDoubleWidth(v bool)         { r.doubleWidth = v }
func (r *Row) GetDoubleHeight() DoubleHeight { return r.doubleHeight }
func (r *Row) SetDoubleHeight(v DoubleHeight) { r.doubleHeight = v }
func (r *Row) GetReverseColor() bool         { return r.reverseColor }
func (r *Row) SetReverseColor(v bool)        { r.reverseColor = v }

// Blank resets cells [start, end) to the given renditions with a space
// glyph. Used by the erase handlers, which honor back-color-erase.
func (r *Row) Blank(start, end int, rend Renditions) {
	start = Clamp(start, 0, MaxLine)
	end = Clamp(end, 0, MaxLine)
	for i := start; i < end; i++ {
		r.cells[i] = makeCell(' ', rend)
	}
}

// InsertCell shifts cells [i, width) one position right and places c at i.
// The cell at width-1 falls off.
func (r *Row) InsertCell(i, width int, c Cell) {
	if i < 0 || i >= width || width > MaxLine {
		return
	}
	copy(r.cells[i+1:width], r.cells[i:width-1])
	r.cells[i] = c
}

// DeleteCell removes the cell at i, shifts [i+1, width) left and blanks the
// last column with the given renditions.
func (r *Row) DeleteCell(i, width int, rend Renditions) {
	if i < 0 || i >= width || width > MaxLine {
		return
	}
	copy(r.cells[i:width-1], r.cells[i+1:width])
	r.cells[width-1] = makeCell(' ', rend)
}

// String renders the first width glyphs, for tests and debugging.
func (r *Row) String(width int) string {
	width = Clamp(width, 0, MaxLine)
	out := make([]rune, width)
	for i := 0; i < width; i++ {
		out[i] = r.cells[i].contents
	}
	return string(out)
}
