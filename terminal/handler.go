// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"strconv"
	"strings"

	"github.com/ericwq/twin/util"
)

/*
C0 controls
*/

// ENQ answerback
func hdl_c0_enq(emu *Emulator) {
	if emu.answerback != "" {
		emu.writeHost(emu.answerback)
	}
}

func hdl_c0_bel(emu *Emulator) {
	emu.bellCount++
	if emu.onBell != nil {
		emu.onBell()
	}
}

func hdl_c0_bs(emu *Emulator) {
	emu.cursorLeft(1, false)
}

func hdl_c0_ht(emu *Emulator) {
	emu.jumpToNextTabStop()
}

func hdl_c0_lf(emu *Emulator) {
	emu.linefeed()
}

func hdl_c0_cr(emu *Emulator) {
	emu.posX = 0
	emu.wrapLineFlag = false
}

// SO - lockshift G1 into GL
func hdl_c0_so(emu *Emulator) {
	emu.glCharset = emu.g[1]
	emu.glSlotIdx = 1
	emu.glLockshift = Lockshift_None
}

// SI - lockshift G0 into GL
func hdl_c0_si(emu *Emulator) {
	emu.glCharset = emu.g[0]
	emu.glSlotIdx = 0
	emu.glLockshift = Lockshift_None
}

/*
ESC finals
*/

// DECSC - save cursor and the rest of the saveable state
func hdl_esc_decsc(emu *Emulator) {
	emu.saved = SaveableState{
		originMode:  emu.originMode,
		cursorX:     emu.posX,
		cursorY:     emu.posY,
		g:           emu.g,
		gr:          emu.grCharset,
		attrs:       emu.attrs,
		glLockshift: emu.glLockshift,
		grLockshift: emu.grLockshift,
	}
	emu.savedSet = true
}

// DECRC - restore the saved state; without a prior DECSC the fields return
// to their power-on values
func hdl_esc_decrc(emu *Emulator) {
	if !emu.savedSet {
		emu.saved = newSaveableState()
	}
	s := emu.saved
	emu.originMode = s.originMode
	emu.posX = Clamp(s.cursorX, 0, emu.width-1)
	emu.posY = Clamp(s.cursorY, 0, emu.height-1)
	emu.g = s.g
	emu.grCharset = s.gr
	emu.attrs = s.attrs
	emu.glLockshift = s.glLockshift
	emu.grLockshift = s.grLockshift

	switch s.glLockshift {
	case Lockshift_G2_GL:
		emu.glCharset = emu.g[2]
		emu.glSlotIdx = 2
	case Lockshift_G3_GL:
		emu.glCharset = emu.g[3]
		emu.glSlotIdx = 3
	default:
		emu.glCharset = emu.g[0]
		emu.glSlotIdx = 0
	}
	switch s.grLockshift {
	case Lockshift_G1_GR:
		emu.grSlotIdx = 1
	case Lockshift_G3_GR:
		emu.grSlotIdx = 3
	default:
		emu.grSlotIdx = 2
	}
	emu.wrapLineFlag = false
}

// IND - index
func hdl_esc_ind(emu *Emulator) {
	emu.linefeed()
}

// NEL - next line
func hdl_esc_nel(emu *Emulator) {
	emu.linefeed()
	emu.posX = 0
}

// HTS - set tab stop at the cursor column
func hdl_esc_hts(emu *Emulator) {
	idx := LowerBound(emu.tabStops, emu.posX)
	if idx < len(emu.tabStops) && emu.tabStops[idx] == emu.posX {
		return
	}
	emu.tabStops = append(emu.tabStops, 0)
	copy(emu.tabStops[idx+1:], emu.tabStops[idx:])
	emu.tabStops[idx] = emu.posX
}

// RI - reverse index
func hdl_esc_ri(emu *Emulator) {
	if emu.posY > emu.scrollRegionTop {
		emu.posY--
		emu.wrapLineFlag = false
	} else {
		emu.scrollRegionDown(emu.scrollRegionTop, emu.scrollRegionBottom, 1)
	}
}

// DECID - identify, same response as DA
func hdl_esc_decid(emu *Emulator) {
	hdl_csi_da(emu)
}

// RIS - reset to initial state
func hdl_esc_ris(emu *Emulator) {
	emu.fullReset()
}

// DECALN - fill the screen with E, reset margins, home the cursor
func hdl_esc_decaln(emu *Emulator) {
	emu.scrollRegionTop = 0
	emu.scrollRegionBottom = emu.height - 1
	emu.posX = 0
	emu.posY = 0
	emu.wrapLineFlag = false
	rend := NewRenditions()
	for _, row := range emu.display {
		for x := 0; x < MaxLine; x++ {
			row.SetCell(x, makeCell('E', rend))
		}
	}
}

// charset designation finals for ESC ( ) * +
var designateFinals = map[rune]CharacterSet{
	'A': Charset_UK,
	'B': Charset_US,
	'0': Charset_Drawing,
	'1': Charset_Rom,
	'2': Charset_RomSpecial,
	'<': Charset_DecSupplemental,
	'4': Charset_NRC_Dutch,
	'5': Charset_NRC_Finnish,
	'C': Charset_NRC_Finnish,
	'R': Charset_NRC_French,
	'K': Charset_NRC_German,
	'Y': Charset_NRC_Italian,
	'E': Charset_NRC_Norwegian,
	'6': Charset_NRC_Norwegian,
	'Z': Charset_NRC_Spanish,
}

func hdl_esc_designate(emu *Emulator, slot int, final rune) {
	cs, ok := designateFinals[final]
	if !ok {
		util.Logger.Trace("unknown charset designator", "final", string(final))
		return
	}
	emu.g[slot] = cs

	// a designation into the slot currently mapped refreshes GL/GR
	if emu.glSlot() == slot {
		emu.glCharset = cs
	}
	if emu.grSlot() == slot {
		emu.grCharset = cs
	}
}

/*
CSI finals
*/

func hdl_csi_ich(emu *Emulator, count int) {
	row := emu.currentRow()
	for i := 0; i < count; i++ {
		row.InsertCell(emu.posX, emu.width, makeCell(' ', emu.attrs))
	}
}

func hdl_csi_cuu(emu *Emulator, num int) {
	emu.cursorUp(num, true)
}

func hdl_csi_cud(emu *Emulator, num int) {
	emu.cursorDown(num, true)
}

func hdl_csi_cuf(emu *Emulator, num int) {
	emu.cursorRight(num, true)
}

func hdl_csi_cub(emu *Emulator, num int) {
	emu.cursorLeft(num, true)
}

func hdl_csi_cha(emu *Emulator, col int) {
	emu.posX = Clamp(col-1, 0, emu.width-1)
	emu.wrapLineFlag = false
}

func hdl_csi_cup(emu *Emulator, row, col int) {
	emu.cursorPosition(row-1, col-1)
}

func hdl_csi_vpa(emu *Emulator, row int) {
	y := row - 1
	if emu.originMode {
		y += emu.scrollRegionTop
	}
	emu.posY = Clamp(y, 0, emu.height-1)
	emu.wrapLineFlag = false
}

// CBT - cursor backward tabulation
func hdl_csi_cbt(emu *Emulator) {
	if len(emu.tabStops) == 0 {
		emu.posX = Max(0, ((emu.posX-1)/8)*8)
	} else {
		idx := LowerBound(emu.tabStops, emu.posX) - 1
		if idx >= 0 {
			emu.posX = emu.tabStops[idx]
		} else {
			emu.posX = 0
		}
	}
	emu.wrapLineFlag = false
}

// ED - erase in display
func hdl_csi_ed(emu *Emulator, mode int) {
	switch mode {
	case 0: // active position to end of screen
		emu.eraseInRow(emu.posY, emu.posX, emu.width)
		for y := emu.posY + 1; y < emu.height; y++ {
			emu.eraseInRow(y, 0, emu.width)
		}
	case 1: // start of screen to active position
		for y := 0; y < emu.posY; y++ {
			emu.eraseInRow(y, 0, emu.width)
		}
		emu.eraseInRow(emu.posY, 0, emu.posX+1)
	case 2:
		for y := 0; y < emu.height; y++ {
			emu.eraseInRow(y, 0, emu.width)
		}
	}
}

// EL - erase in line
func hdl_csi_el(emu *Emulator, mode int) {
	switch mode {
	case 0:
		emu.eraseInRow(emu.posY, emu.posX, emu.width)
	case 1:
		emu.eraseInRow(emu.posY, 0, emu.posX+1)
	case 2:
		emu.eraseInRow(emu.posY, 0, emu.width)
	}
}

// ECH - erase characters at the cursor without moving it
func hdl_csi_ech(emu *Emulator, count int) {
	emu.eraseInRow(emu.posY, emu.posX, Min(emu.posX+count, emu.width))
}

// IL - insert lines at the cursor, inside the scroll region
func hdl_csi_il(emu *Emulator, count int) {
	if emu.posY < emu.scrollRegionTop || emu.posY > emu.scrollRegionBottom {
		return
	}
	emu.scrollRegionDown(emu.posY, emu.scrollRegionBottom, count)
	emu.posX = 0
	emu.wrapLineFlag = false
}

// DL - delete lines at the cursor, inside the scroll region
func hdl_csi_dl(emu *Emulator, count int) {
	if emu.posY < emu.scrollRegionTop || emu.posY > emu.scrollRegionBottom {
		return
	}
	emu.scrollRegionUpNoHistory(emu.posY, emu.scrollRegionBottom, count)
	emu.posX = 0
	emu.wrapLineFlag = false
}

// DCH - delete characters at the cursor
func hdl_csi_dch(emu *Emulator, count int) {
	row := emu.currentRow()
	for i := 0; i < count; i++ {
		row.DeleteCell(emu.posX, emu.width, emu.attrs)
	}
}

// SU - scroll up
func hdl_csi_su(emu *Emulator, count int) {
	emu.scrollRegionUpNoHistory(emu.scrollRegionTop, emu.scrollRegionBottom, count)
}

// SD - scroll down
func hdl_csi_sd(emu *Emulator, count int) {
	emu.scrollRegionDown(emu.scrollRegionTop, emu.scrollRegionBottom, count)
}

// DA - device attributes
func hdl_csi_da(emu *Emulator) {
	switch emu.deviceType {
	case DeviceType_VT100, DeviceType_XTERM:
		emu.writeHost("\033[?1;2c")
	case DeviceType_VT102:
		emu.writeHost("\033[?6c")
	case DeviceType_VT220:
		if emu.s8c1t {
			emu.writeHost("\x9b?62;1;6c")
		} else {
			emu.writeHost("\033[?62;1;6c")
		}
	}
}

// TBC - tabulation clear
func hdl_csi_tbc(emu *Emulator, mode int) {
	switch mode {
	case 0:
		idx := LowerBound(emu.tabStops, emu.posX)
		if idx < len(emu.tabStops) && emu.tabStops[idx] == emu.posX {
			emu.tabStops = append(emu.tabStops[:idx], emu.tabStops[idx+1:]...)
		}
	case 3:
		emu.tabStops = emu.tabStops[:0]
	}
}

// SM - set mode
func hdl_csi_sm(emu *Emulator) {
	for i := 0; i < emu.parser.paramCount(); i++ {
		switch emu.parser.getPsZero(i, 0) {
		case 4:
			emu.insertMode = true
		case 20:
			emu.newLineMode = true
		default:
			util.Logger.Trace("SM: unhandled mode", "mode", emu.parser.getPsZero(i, 0))
		}
	}
}

// RM - reset mode
func hdl_csi_rm(emu *Emulator) {
	for i := 0; i < emu.parser.paramCount(); i++ {
		switch emu.parser.getPsZero(i, 0) {
		case 4:
			emu.insertMode = false
		case 20:
			emu.newLineMode = false
		default:
			util.Logger.Trace("RM: unhandled mode", "mode", emu.parser.getPsZero(i, 0))
		}
	}
}

// DECSET - DEC private mode set
func hdl_csi_decset(emu *Emulator) {
	for i := 0; i < emu.parser.paramCount(); i++ {
		switch emu.parser.getPsZero(i, 0) {
		case 1:
			emu.arrowKeyMode = ArrowKeyMode_VT100
		case 2: // DECANM: leave VT52, return to ANSI
			emu.vt52Mode = false
			emu.arrowKeyMode = ArrowKeyMode_ANSI
		case 3:
			emu.switchColumns(132)
		case 5:
			emu.reverseVideo = true
		case 6:
			emu.originMode = true
			emu.cursorPosition(0, 0)
		case 7:
			emu.autoWrapMode = true
		case 25:
			emu.showCursorMode = true
		default:
			util.Logger.Trace("DECSET: unhandled mode", "mode", emu.parser.getPsZero(i, 0))
		}
	}
}

// DECRST - DEC private mode reset
func hdl_csi_decrst(emu *Emulator) {
	for i := 0; i < emu.parser.paramCount(); i++ {
		switch emu.parser.getPsZero(i, 0) {
		case 1:
			emu.arrowKeyMode = ArrowKeyMode_ANSI
		case 2: // DECANM: enter VT52 mode
			emu.vt52Mode = true
			emu.arrowKeyMode = ArrowKeyMode_VT52
			emu.glCharset = Charset_US
			emu.keypadMode = KeypadMode_Normal
		case 3:
			emu.switchColumns(80)
		case 5:
			emu.reverseVideo = false
		case 6:
			emu.originMode = false
			emu.cursorPosition(0, 0)
		case 7:
			emu.autoWrapMode = false
		case 25:
			emu.showCursorMode = false
		default:
			util.Logger.Trace("DECRST: unhandled mode", "mode", emu.parser.getPsZero(i, 0))
		}
	}
}

// SGR - select graphic rendition
func hdl_csi_sgr(emu *Emulator) {
	for i := 0; i < emu.parser.paramCount(); i++ {
		v := emu.parser.getPsZero(i, 0)
		switch {
		case v == 0:
			emu.attrs = NewRenditions()
		case v == 1:
			emu.attrs.SetBold(true)
		case v == 5:
			emu.attrs.SetBlink(true)
		case v == 7:
			emu.attrs.SetReverse(true)
		case v == 22:
			emu.attrs.SetBold(false)
		case v == 25:
			emu.attrs.SetBlink(false)
		case v == 27:
			emu.attrs.SetReverse(false)
		case v >= 30 && v <= 37:
			emu.attrs.SetForeground(Color(v - 30))
		case v == 39:
			emu.attrs.SetForeground(ColorWhite)
		case v >= 40 && v <= 47:
			emu.attrs.SetBackground(Color(v - 40))
		case v == 49:
			emu.attrs.SetBackground(ColorBlack)
		default:
			util.Logger.Trace("SGR: unhandled rendition", "value", v)
		}
	}
}

// DSR - device status reports
func hdl_csi_dsr(emu *Emulator, mode int) {
	switch mode {
	case 5: // operating status: always fine
		emu.writeHost("\033[0n")
	case 6: // cursor position report, origin-mode relative
		row := emu.posY + 1
		if emu.originMode {
			row -= emu.scrollRegionTop
		}
		emu.writeHost("\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(emu.posX+1) + "R")
	}
}

// DECSTBM - set top and bottom margins
func hdl_csi_decstbm(emu *Emulator, top, bottom int) {
	top = Clamp(top-1, 0, emu.height-1)
	bottom = Clamp(bottom-1, 0, emu.height-1)
	if bottom <= top {
		return
	}
	emu.scrollRegionTop = top
	emu.scrollRegionBottom = bottom
	emu.cursorPosition(0, 0)
}

/*
OSC
*/

// hdl_osc_dispatch routes a finished OSC string: 0/1/2 set the icon name
// and window title.
func hdl_osc_dispatch(emu *Emulator, arg string) {
	cmd, rest, found := strings.Cut(arg, ";")
	if !found {
		return
	}
	switch cmd {
	case "0":
		emu.windowTitle = rest
		emu.iconName = rest
	case "1":
		emu.iconName = rest
	case "2":
		emu.windowTitle = rest
	default:
		util.Logger.Trace("unhandled OSC", "cmd", cmd)
	}
}
