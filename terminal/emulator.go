// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type DeviceType int

const (
	DeviceType_VT100 DeviceType = iota
	DeviceType_VT102
	DeviceType_VT220
	DeviceType_XTERM
)

type ArrowKeyMode int

const (
	ArrowKeyMode_ANSI ArrowKeyMode = iota
	ArrowKeyMode_VT52
	ArrowKeyMode_VT100
)

type KeypadMode int

const (
	KeypadMode_Normal KeypadMode = iota
	KeypadMode_Application
)

// DefaultSaveLines is the scrollback cap when the caller does not choose
// one. A negative cap means unbounded.
const DefaultSaveLines = 500

// SaveableState is the slice of emulator state covered by DECSC/DECRC.
type SaveableState struct {
	originMode  bool
	cursorX     int
	cursorY     int
	g           [4]CharacterSet
	gr          CharacterSet
	attrs       Renditions
	glLockshift LockshiftMode
	grLockshift LockshiftMode
}

func newSaveableState() SaveableState {
	return SaveableState{
		g:  [4]CharacterSet{Charset_US, Charset_US, Charset_DecSupplemental, Charset_US},
		gr: Charset_DecSupplemental,
		attrs: NewRenditions(),
	}
}

// Emulator parses a VT100/VT102/VT220/XTerm control stream into display
// mutations and reply bytes. Replies go through the writeRemote sink the
// hosting widget supplies.
type Emulator struct {
	deviceType DeviceType

	width     int
	height    int
	baseWidth int // restored by RIS after DECCOLM

	posX int
	posY int

	scrollRegionTop    int // inclusive
	scrollRegionBottom int // inclusive

	display    []*Row
	scrollback []*Row
	saveLines  int

	parser *Parser

	// charset machinery
	g           [4]CharacterSet
	glCharset   CharacterSet
	grCharset   CharacterSet
	glSlotIdx   int
	grSlotIdx   int
	glLockshift LockshiftMode
	grLockshift LockshiftMode
	singleshift Singleshift

	attrs    Renditions
	saved    SaveableState
	savedSet bool

	originMode     bool
	s8c1t          bool
	insertMode     bool
	vt52Mode       bool
	wrapLineFlag   bool
	reverseVideo   bool
	columns132     bool
	newLineMode    bool
	autoWrapMode   bool
	showCursorMode bool
	arrowKeyMode   ArrowKeyMode
	keypadMode     KeypadMode
	tabStops       []int

	windowTitle string
	iconName    string
	answerback  string
	bellCount   int
	onBell      func()

	writeRemote    func(string)
	terminalToHost strings.Builder
}

// NewEmulator builds an emulator of the given size and device type.
// saveLines caps the scrollback buffer; negative is unbounded, zero keeps
// no history.
func NewEmulator(width, height int, deviceType DeviceType, saveLines int) *Emulator {
	width = Clamp(width, 1, MaxLine)
	height = Max(height, 1)

	emu := &Emulator{
		deviceType: deviceType,
		width:      width,
		height:     height,
		baseWidth:  width,
		saveLines:  saveLines,
		parser:     NewParser(),
	}
	emu.fullReset()
	return emu
}

func (emu *Emulator) fullReset() {
	emu.parser.reset()

	emu.width = emu.baseWidth
	emu.columns132 = false

	emu.display = make([]*Row, emu.height)
	for i := range emu.display {
		emu.display[i] = NewRow(false)
	}
	emu.scrollback = nil

	emu.posX = 0
	emu.posY = 0
	emu.scrollRegionTop = 0
	emu.scrollRegionBottom = emu.height - 1

	emu.attrs = NewRenditions()
	emu.saved = newSaveableState()
	emu.savedSet = false

	emu.resetCharsetState()

	emu.originMode = false
	emu.insertMode = false
	emu.vt52Mode = false
	emu.wrapLineFlag = false
	emu.reverseVideo = false
	emu.newLineMode = false
	emu.autoWrapMode = true
	emu.showCursorMode = true
	emu.arrowKeyMode = ArrowKeyMode_ANSI
	emu.keypadMode = KeypadMode_Normal
	emu.singleshift = Singleshift_None

	emu.resetTabStops()
}

func (emu *Emulator) resetCharsetState() {
	emu.g = [4]CharacterSet{Charset_US, Charset_US, Charset_DecSupplemental, Charset_US}
	emu.glCharset = Charset_US
	emu.grCharset = Charset_DecSupplemental
	emu.glSlotIdx = 0
	emu.grSlotIdx = 2
	emu.glLockshift = Lockshift_None
	emu.grLockshift = Lockshift_None
	emu.singleshift = Singleshift_None
}

// hard default stops every 8 columns
func (emu *Emulator) resetTabStops() {
	emu.tabStops = emu.tabStops[:0]
	for x := 8; x < emu.width; x += 8 {
		emu.tabStops = append(emu.tabStops, x)
	}
}

func (emu *Emulator) glSlot() int { return emu.glSlotIdx }
func (emu *Emulator) grSlot() int { return emu.grSlotIdx }

/*
accessors for the hosting widget
*/

func (emu *Emulator) Width() int       { return emu.width }
func (emu *Emulator) Height() int      { return emu.height }
func (emu *Emulator) GetCursorCol() int { return emu.posX }
func (emu *Emulator) GetCursorRow() int { return emu.posY }
func (emu *Emulator) CursorVisible() bool { return emu.showCursorMode }
func (emu *Emulator) ReverseVideo() bool  { return emu.reverseVideo }
func (emu *Emulator) GetWindowTitle() string { return emu.windowTitle }
func (emu *Emulator) GetIconName() string    { return emu.iconName }
func (emu *Emulator) BellCount() int         { return emu.bellCount }

func (emu *Emulator) SetAnswerback(s string)   { emu.answerback = s }
func (emu *Emulator) SetBellHandler(fn func()) { emu.onBell = fn }

// SetWriteRemote installs the reply sink. Without one, replies accumulate
// and drain through ReadOctetsToHost.
func (emu *Emulator) SetWriteRemote(fn func(string)) { emu.writeRemote = fn }

// Display returns a borrowed view of the display lines, top to bottom.
func (emu *Emulator) Display() []*Row { return emu.display }

// Scrollback returns a borrowed view of the history lines, oldest first.
func (emu *Emulator) Scrollback() []*Row { return emu.scrollback }

func (emu *Emulator) GetRenditions() Renditions { return emu.attrs }

func (emu *Emulator) writeHost(resp string) {
	if emu.writeRemote != nil {
		emu.writeRemote(resp)
		return
	}
	emu.terminalToHost.WriteString(resp)
}

// ReadOctetsToHost drains the buffered replies.
func (emu *Emulator) ReadOctetsToHost() string {
	ret := emu.terminalToHost.String()
	emu.terminalToHost.Reset()
	return ret
}

/*
geometry
*/

func (emu *Emulator) currentRow() *Row {
	return emu.display[emu.posY]
}

// rightMarginCol is the last writable column: width-1, or halved less one
// on a double-width line.
func (emu *Emulator) rightMarginCol() int {
	if emu.currentRow().GetDoubleWidth() {
		return emu.width/2 - 1
	}
	return emu.width - 1
}

// Resize adjusts the display grid. When it shrinks, rows above the cursor
// retire into the scrollback and any remaining surplus is dropped from the
// bottom; when it grows, new rows appear blank at the bottom.
func (emu *Emulator) Resize(width, height int) {
	width = Clamp(width, 1, MaxLine)
	height = Max(height, 1)
	if width == emu.width && height == emu.height {
		return
	}

	for len(emu.display) > height {
		if emu.posY > 0 {
			emu.appendScrollback(emu.display[0])
			emu.display = emu.display[1:]
			emu.posY--
		} else {
			emu.display = emu.display[:len(emu.display)-1]
		}
	}
	for len(emu.display) < height {
		emu.display = append(emu.display, NewRow(emu.reverseVideo))
	}

	emu.width = width
	emu.baseWidth = width
	emu.height = height
	emu.scrollRegionTop = 0
	emu.scrollRegionBottom = height - 1
	emu.posX = Clamp(emu.posX, 0, width-1)
	emu.posY = Clamp(emu.posY, 0, height-1)
	emu.wrapLineFlag = false
	emu.resetTabStops()
}

// switchColumns flips between 80 and 132 column mode: clears the screen,
// homes the cursor, resets the margins.
func (emu *Emulator) switchColumns(cols int) {
	emu.width = Min(cols, MaxLine)
	emu.columns132 = cols == 132
	emu.scrollRegionTop = 0
	emu.scrollRegionBottom = emu.height - 1
	for i := range emu.display {
		emu.display[i] = NewRow(emu.reverseVideo)
	}
	emu.posX = 0
	emu.posY = 0
	emu.wrapLineFlag = false
	emu.resetTabStops()
}

/*
scrolling
*/

func (emu *Emulator) appendScrollback(row *Row) {
	if emu.saveLines == 0 {
		return
	}
	emu.scrollback = append(emu.scrollback, row)
	if emu.saveLines > 0 && len(emu.scrollback) > emu.saveLines {
		drop := len(emu.scrollback) - emu.saveLines
		emu.scrollback = emu.scrollback[drop:]
	}
}

// scrollRegionUp scrolls [top, bottom] up by count, feeding retired lines
// to the scrollback when history is set.
func (emu *Emulator) scrollRegionUp(top, bottom, count int, history bool) {
	count = Clamp(count, 0, bottom-top+1)
	for i := 0; i < count; i++ {
		if history {
			emu.appendScrollback(emu.display[top])
		}
		copy(emu.display[top:bottom], emu.display[top+1:bottom+1])
		emu.display[bottom] = NewRow(emu.reverseVideo)
	}
}

func (emu *Emulator) scrollRegionUpNoHistory(top, bottom, count int) {
	emu.scrollRegionUp(top, bottom, count, false)
}

// scrollRegionDown scrolls [top, bottom] down by count.
func (emu *Emulator) scrollRegionDown(top, bottom, count int) {
	count = Clamp(count, 0, bottom-top+1)
	for i := 0; i < count; i++ {
		copy(emu.display[top+1:bottom+1], emu.display[top:bottom])
		emu.display[top] = NewRow(emu.reverseVideo)
	}
}

// linefeed moves down one line. At the scroll-region bottom the region
// scrolls; a full-screen region retires the top line into the scrollback.
func (emu *Emulator) linefeed() {
	if emu.posY < emu.scrollRegionBottom {
		emu.posY++
	} else if emu.posY == emu.scrollRegionBottom {
		fullScreen := emu.scrollRegionTop == 0 && emu.scrollRegionBottom == emu.height-1
		emu.scrollRegionUp(emu.scrollRegionTop, emu.scrollRegionBottom, 1, fullScreen)
	}
	if emu.newLineMode {
		emu.posX = 0
	}
	emu.wrapLineFlag = false
}

/*
cursor motion primitives
*/

func (emu *Emulator) cursorUp(count int, honorScrollRegion bool) {
	if count <= 0 {
		return
	}
	top := 0
	if honorScrollRegion && emu.posY >= emu.scrollRegionTop {
		top = emu.scrollRegionTop
	}
	emu.posY = Max(top, emu.posY-count)
	emu.wrapLineFlag = false
}

func (emu *Emulator) cursorDown(count int, honorScrollRegion bool) {
	if count <= 0 {
		return
	}
	bottom := emu.height - 1
	if honorScrollRegion && emu.posY <= emu.scrollRegionBottom {
		bottom = emu.scrollRegionBottom
	}
	emu.posY = Min(bottom, emu.posY+count)
	emu.wrapLineFlag = false
}

func (emu *Emulator) cursorLeft(count int, honorScrollRegion bool) {
	if count <= 0 {
		return
	}
	emu.posX = Max(0, emu.posX-count)
	emu.wrapLineFlag = false
}

func (emu *Emulator) cursorRight(count int, honorScrollRegion bool) {
	if count <= 0 {
		return
	}
	emu.posX = Min(emu.rightMarginCol(), emu.posX+count)
	emu.wrapLineFlag = false
}

// cursorPosition takes zero-based coordinates; origin mode shifts and
// confines the row to the scroll region.
func (emu *Emulator) cursorPosition(row, col int) {
	if emu.originMode {
		row += emu.scrollRegionTop
		row = Clamp(row, emu.scrollRegionTop, emu.scrollRegionBottom)
	}
	emu.posY = Clamp(row, 0, emu.height-1)
	emu.posX = Clamp(col, 0, emu.width-1)
	emu.wrapLineFlag = false
}

func (emu *Emulator) jumpToNextTabStop() {
	rm := emu.rightMarginCol()
	if len(emu.tabStops) == 0 {
		emu.posX = rm
	} else {
		idx := LowerBound(emu.tabStops, emu.posX+1)
		if idx >= len(emu.tabStops) {
			emu.posX = rm
		} else {
			emu.posX = Min(emu.tabStops[idx], rm)
		}
	}
	emu.wrapLineFlag = false
}

/*
printing
*/

// translate maps a code point through the active GL/GR/single-shift
// charset selection.
func (emu *Emulator) translate(ch rune) rune {
	var cs CharacterSet
	switch emu.singleshift {
	case Singleshift_SS2:
		cs = emu.g[2]
		emu.singleshift = Singleshift_None
	case Singleshift_SS3:
		cs = emu.g[3]
		emu.singleshift = Singleshift_None
	default:
		if ch < 0x80 {
			cs = emu.glCharset
		} else if ch <= 0xff {
			cs = emu.grCharset
		} else {
			// beyond the 8-bit range the stream is plain UTF-8
			return ch
		}
	}
	return charsetLookup(cs, ch)
}

// eraseInRow blanks [start, end) of row y with the current colors; erased
// cells drop bold and blink.
func (emu *Emulator) eraseInRow(y, start, end int) {
	if y < 0 || y >= emu.height {
		return
	}
	blank := Renditions{fgColor: emu.attrs.fgColor, bgColor: emu.attrs.bgColor}
	emu.display[y].Blank(start, end, blank)
}

// printCharacter places one translated printable, handling the VT100
// wrap-pending quirk, insert mode and the right margin.
func (emu *Emulator) printCharacter(ch rune) {
	rm := emu.rightMarginCol()

	// the margin can move left under the cursor (DECDWL, DECCOLM)
	if emu.posX > rm {
		emu.posX = rm
	}

	if emu.posX >= rm {
		if !emu.autoWrapMode {
			emu.posX = rm
			emu.placeCharacter(ch)
			return
		}
		if !emu.wrapLineFlag {
			// the cursor rests on the margin until the next
			// printable forces the wrap
			emu.wrapLineFlag = true
			emu.placeCharacter(ch)
			return
		}
		if emu.posY == emu.scrollRegionBottom {
			fullScreen := emu.scrollRegionTop == 0 && emu.scrollRegionBottom == emu.height-1
			emu.scrollRegionUp(emu.scrollRegionTop, emu.scrollRegionBottom, 1, fullScreen)
		} else {
			emu.posY++
		}
		emu.posX = 0
		emu.wrapLineFlag = false
		emu.placeCharacter(ch)
		emu.advanceColumn()
		return
	}

	emu.placeCharacter(ch)
	emu.wrapLineFlag = false
	emu.advanceColumn()

	// a wide glyph spans two cells; the shadow cell stays blank
	if runewidth.RuneWidth(ch) == 2 && emu.posX < rm {
		emu.currentRow().SetCell(emu.posX, makeCell(' ', emu.attrs))
		emu.advanceColumn()
	}
}

func (emu *Emulator) placeCharacter(ch rune) {
	row := emu.currentRow()
	if emu.insertMode {
		row.InsertCell(emu.posX, emu.width, makeCell(ch, emu.attrs))
	} else {
		row.SetCell(emu.posX, makeCell(ch, emu.attrs))
	}
}

func (emu *Emulator) advanceColumn() {
	emu.posX = Min(emu.posX+1, emu.rightMarginCol())
}
