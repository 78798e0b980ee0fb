// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

type BorderStyle int

const (
	BorderStyle_Single BorderStyle = iota
	BorderStyle_Double
	BorderStyle_Mixed // double horizontal, single vertical
)

type borderGlyphs struct {
	topLeft, topRight, bottomLeft, bottomRight, horizontal, vertical rune
}

var borders = map[BorderStyle]borderGlyphs{
	BorderStyle_Single: {'┌', '┐', '└', '┘', '─', '│'},
	BorderStyle_Double: {'╔', '╗', '╚', '╝', '═', '║'},
	BorderStyle_Mixed:  {'╒', '╕', '╘', '╛', '═', '│'},
}

// Screen is the double-buffered compositor: a logical grid the widgets draw
// into and a physical grid mirroring what the real terminal shows. Flush
// emits the minimal escape-sequence delta between the two.
type Screen struct {
	width  int
	height int

	logical  [][]Cell // indexed [x][y]
	physical [][]Cell

	dirty         bool
	reallyCleared bool // forces a full redraw on next flush

	offsetX int
	offsetY int
	clipX   int // exclusive upper bound, pre-offset coordinates
	clipY   int
}

func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

func allocGrid(width, height int) [][]Cell {
	g := make([][]Cell, width)
	for x := 0; x < width; x++ {
		g[x] = make([]Cell, height)
		for y := 0; y < height; y++ {
			g[x][y].Reset()
		}
	}
	return g
}

// Resize reallocates both grids to blank cells and schedules a full redraw.
func (s *Screen) Resize(width, height int) {
	width = Max(width, 1)
	height = Max(height, 1)

	s.width = width
	s.height = height
	s.logical = allocGrid(width, height)
	s.physical = allocGrid(width, height)
	s.offsetX = 0
	s.offsetY = 0
	s.clipX = width
	s.clipY = height
	s.dirty = true
	s.reallyCleared = true
}

// Reset blanks the logical grid and clears the offset and clip.
func (s *Screen) Reset() {
	for x := 0; x < s.width; x++ {
		for y := 0; y < s.height; y++ {
			s.logical[x][y].Reset()
		}
	}
	s.offsetX = 0
	s.offsetY = 0
	s.clipX = s.width
	s.clipY = s.height
	s.dirty = true
}

func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }
func (s *Screen) Dirty() bool { return s.dirty }

func (s *Screen) SetOffset(x, y int) {
	s.offsetX = x
	s.offsetY = y
}

func (s *Screen) SetClip(x, y int) {
	s.clipX = Clamp(x, 0, s.width)
	s.clipY = Clamp(y, 0, s.height)
}

func (s *Screen) GetOffset() (int, int) { return s.offsetX, s.offsetY }
func (s *Screen) GetClip() (int, int)   { return s.clipX, s.clipY }

// PutChar draws ch at (x+offsetX, y+offsetY) when the pre-offset coordinate
// lies inside the clip rectangle and the post-offset coordinate inside the
// grid.
func (s *Screen) PutChar(x, y int, ch rune, rend Renditions) {
	if x < 0 || y < 0 || x >= s.clipX || y >= s.clipY {
		return
	}
	s.putCharOffset(x+s.offsetX, y+s.offsetY, ch, rend)
}

// putCharOffset draws at post-offset coordinates, clip already applied.
func (s *Screen) putCharOffset(px, py int, ch rune, rend Renditions) {
	if px < 0 || py < 0 || px >= s.width || py >= s.height {
		return
	}
	c := makeCell(ch, rend)
	if s.logical[px][py] != c {
		s.logical[px][py] = c
		s.dirty = true
	}
}

// PutStr draws str column by column, truncating at the grid width. It
// walks grapheme clusters and stores only the first code point of each, so
// a combining mark never takes a column of its own; a wide cluster advances
// two columns and the second column is not written.
func (s *Screen) PutStr(x, y int, str string, rend Renditions) {
	col := x
	graphemes := uniseg.NewGraphemes(str)
	for graphemes.Next() {
		rs := graphemes.Runes()
		s.PutChar(col, y, rs[0], rend)
		col += Max(1, runewidth.StringWidth(string(rs)))
		if col+s.offsetX >= s.width {
			break
		}
	}
}

// PutAttr replaces the renditions at (x, y) and keeps the glyph.
func (s *Screen) PutAttr(x, y int, rend Renditions) {
	if x < 0 || y < 0 || x >= s.clipX || y >= s.clipY {
		return
	}
	px, py := x+s.offsetX, y+s.offsetY
	if px < 0 || py < 0 || px >= s.width || py >= s.height {
		return
	}
	if s.logical[px][py].renditions != rend {
		s.logical[px][py].renditions = rend
		s.dirty = true
	}
}

func (s *Screen) HLine(x, y, n int, ch rune, rend Renditions) {
	for i := 0; i < n; i++ {
		s.PutChar(x+i, y, ch, rend)
	}
}

func (s *Screen) VLine(x, y, n int, ch rune, rend Renditions) {
	for i := 0; i < n; i++ {
		s.PutChar(x, y+i, ch, rend)
	}
}

// DrawBox draws a border around [left, top] .. [right, bottom] (exclusive
// bottom-right), optionally filling the interior with blanks.
func (s *Screen) DrawBox(left, top, right, bottom int, border Renditions,
	background Renditions, style BorderStyle, fill bool, shadow bool,
) {
	g, ok := borders[style]
	if !ok {
		g = borders[BorderStyle_Single]
	}
	boxWidth := right - left
	boxHeight := bottom - top
	if boxWidth < 2 || boxHeight < 2 {
		return
	}

	s.PutChar(left, top, g.topLeft, border)
	s.PutChar(right-1, top, g.topRight, border)
	s.PutChar(left, bottom-1, g.bottomLeft, border)
	s.PutChar(right-1, bottom-1, g.bottomRight, border)
	s.HLine(left+1, top, boxWidth-2, g.horizontal, border)
	s.HLine(left+1, bottom-1, boxWidth-2, g.horizontal, border)
	s.VLine(left, top+1, boxHeight-2, g.vertical, border)
	s.VLine(right-1, top+1, boxHeight-2, g.vertical, border)

	if fill {
		for y := top + 1; y < bottom-1; y++ {
			for x := left + 1; x < right-1; x++ {
				s.PutChar(x, y, ' ', background)
			}
		}
	}

	if shadow {
		s.drawShadow(left, top, right, bottom)
	}
}

// drawShadow darkens the cells one to the right and below the box. It
// honors the drawing offset but ignores the clip rectangle.
func (s *Screen) drawShadow(left, top, right, bottom int) {
	shade := Renditions{fgColor: ColorBlack, bgColor: ColorBlack, bold: true}

	for y := top + 1; y <= bottom; y++ {
		for _, x := range []int{right, right + 1} {
			px, py := x+s.offsetX, y+s.offsetY
			if px < 0 || py < 0 || px >= s.width || py >= s.height {
				continue
			}
			ch := s.logical[px][py].contents
			s.putCharOffset(px, py, ch, shade)
		}
	}
	for x := left + 2; x <= right+1; x++ {
		px, py := x+s.offsetX, bottom+s.offsetY
		if px < 0 || py < 0 || px >= s.width || py >= s.height {
			continue
		}
		ch := s.logical[px][py].contents
		s.putCharOffset(px, py, ch, shade)
	}
}

// Contents returns the logical glyphs of row y, for tests.
func (s *Screen) Contents(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < s.width; x++ {
		sb.WriteRune(s.logical[x][y].contents)
	}
	return sb.String()
}

// PhysicalContents returns the physical glyphs of row y: what the real
// terminal shows after the last flush.
func (s *Screen) PhysicalContents(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < s.width; x++ {
		sb.WriteRune(s.physical[x][y].contents)
	}
	return sb.String()
}

func positionSeq(x, y int) string {
	return fmt.Sprintf("\033[%d;%dH", y+1, x+1)
}

const (
	attrNormal = "\033[0m"
	clearEOL   = "\033[K"
	clearBOL   = "\033[1K"
	clearAll   = "\033[2J"

	CursorShow = "\033[?25h"
	CursorHide = "\033[?25l"
)

// MoveCursor returns the absolute positioning sequence for (x, y), for the
// application loop to park the cursor after a flush.
func MoveCursor(x, y int) string {
	return positionSeq(x, y)
}

// sgrDelta emits the minimal SGR between two consecutive emitted cells. A
// bold or blink downgrade cannot be expressed incrementally, so any change
// to those goes through a full reset sequence.
func sgrDelta(prev, next Renditions) string {
	fgChanged := prev.fgColor != next.fgColor
	bgChanged := prev.bgColor != next.bgColor
	boldChanged := prev.bold != next.bold
	blinkChanged := prev.blink != next.blink

	switch {
	case !fgChanged && !bgChanged && !boldChanged && !blinkChanged:
		return ""
	case boldChanged || blinkChanged:
		var sb strings.Builder
		fmt.Fprintf(&sb, "\033[0;%d;%d", 30+int(next.fgColor), 40+int(next.bgColor))
		if next.bold {
			sb.WriteString(";1")
		}
		if next.blink {
			sb.WriteString(";5")
		}
		sb.WriteString("m")
		return sb.String()
	case fgChanged && bgChanged:
		return fmt.Sprintf("\033[%d;%dm", 30+int(next.fgColor), 40+int(next.bgColor))
	case fgChanged:
		return fmt.Sprintf("\033[%dm", 30+int(next.fgColor))
	default:
		return fmt.Sprintf("\033[%dm", 40+int(next.bgColor))
	}
}

// Flush computes the escape-sequence delta that brings the physical grid in
// line with the logical grid, updates the physical grid, and clears the
// dirty flags.
func (s *Screen) Flush() string {
	if !s.dirty && !s.reallyCleared {
		return ""
	}

	var sb strings.Builder
	var lastRend *Renditions

	// clear helpers restore default colors first: back-color-erase fills
	// with the current background otherwise
	emitNormal := func() {
		sb.WriteString(attrNormal)
		rend := NewRenditions()
		lastRend = &rend
	}

	if s.reallyCleared {
		emitNormal()
		sb.WriteString(clearAll)
		// the full clear brings the physical grid to a known blank
		// state; rows then diff against that
		for x := 0; x < s.width; x++ {
			for y := 0; y < s.height; y++ {
				s.physical[x][y].Reset()
			}
		}
		s.reallyCleared = false
	}

	for y := 0; y < s.height; y++ {
		s.flushRow(y, &sb, &lastRend, emitNormal)
	}

	s.dirty = false
	s.reallyCleared = false
	return sb.String()
}

func (s *Screen) flushRow(y int, sb *strings.Builder, lastRend **Renditions, emitNormal func()) {
	// find the extent of the logical text on this row
	textBegin, textEnd := -1, 0
	for x := 0; x < s.width; x++ {
		if !s.logical[x][y].IsBlank() {
			if textBegin < 0 {
				textBegin = x
			}
			textEnd = x + 1
		}
	}

	candidate := func(x int) bool {
		return s.reallyCleared || s.logical[x][y] != s.physical[x][y]
	}

	firstCand := -1
	for x := 0; x < s.width; x++ {
		if candidate(x) {
			firstCand = x
			break
		}
	}
	if firstCand < 0 {
		return
	}

	if textBegin < 0 {
		// entirely blank row: clear it in one shot
		sb.WriteString(positionSeq(0, y))
		emitNormal()
		sb.WriteString(clearEOL)
		for x := 0; x < s.width; x++ {
			s.physical[x][y] = s.logical[x][y]
		}
		return
	}

	// leading blanks are restored with one clear-to-BOL instead of
	// cell-by-cell writes; only safe while everything left of the first
	// candidate is blank
	start := firstCand
	sb.WriteString(positionSeq(start, y))
	if start > 0 && start <= textBegin {
		emitNormal()
		sb.WriteString(clearBOL)
		for x := 0; x < start; x++ {
			s.physical[x][y] = s.logical[x][y]
		}
	}

	lastEmitted := start - 1
	for x := start; x < s.width; x++ {
		if x >= textEnd && textEnd < s.width {
			// the blank tail collapses to one clear-to-EOL
			remaining := false
			for x2 := x; x2 < s.width; x2++ {
				if candidate(x2) {
					remaining = true
					break
				}
			}
			if remaining {
				if x != lastEmitted+1 {
					sb.WriteString(positionSeq(x, y))
				}
				emitNormal()
				sb.WriteString(clearEOL)
				for x2 := x; x2 < s.width; x2++ {
					s.physical[x2][y] = s.logical[x2][y]
				}
			}
			return
		}

		if !candidate(x) {
			continue
		}
		if x != lastEmitted+1 {
			sb.WriteString(positionSeq(x, y))
		}
		if *lastRend == nil {
			emitNormal()
		}
		cell := s.logical[x][y]
		sb.WriteString(sgrDelta(**lastRend, cell.renditions))
		rend := cell.renditions
		*lastRend = &rend
		sb.WriteRune(cell.contents)
		s.physical[x][y] = cell
		lastEmitted = x
	}
}
