// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"strings"

	"github.com/ericwq/twin/util"
)

// Parser scan states, following the canonical "Parsing ANSI escape codes"
// table.
const (
	InputState_Ground = iota
	InputState_Escape
	InputState_Escape_Intermediate
	InputState_CSI_Entry
	InputState_CSI_Param
	InputState_CSI_Intermediate
	InputState_CSI_Ignore
	InputState_DCS_Entry
	InputState_DCS_Intermediate
	InputState_DCS_Param
	InputState_DCS_Passthrough
	InputState_DCS_Ignore
	InputState_OSC_String
	InputState_SosPmApc_String
	InputState_VT52_Direct_Cursor_Address
)

const (
	maxCsiParams = 16
	maxOscLen    = 4096
)

// Parser holds the scan state of the control-stream state machine: the CSI
// parameter list (digit strings), the CSI flag bytes, the intermediate
// collect buffer, and the OSC argument.
type Parser struct {
	state int

	csiParams []string
	csiFlags  []rune
	collect   []rune

	oscBuf  strings.Builder
	vt52Buf []rune
}

func NewParser() *Parser {
	return &Parser{state: InputState_Ground}
}

func (p *Parser) reset() {
	p.state = InputState_Ground
	p.clearSequence()
}

func (p *Parser) clearSequence() {
	p.csiParams = p.csiParams[:0]
	p.csiFlags = p.csiFlags[:0]
	p.collect = p.collect[:0]
	p.oscBuf.Reset()
	p.vt52Buf = p.vt52Buf[:0]
}

func (p *Parser) setState(newState int) {
	if newState == p.state {
		return
	}
	if newState == InputState_Ground {
		p.clearSequence()
	}
	p.state = newState
}

func (p *Parser) getState() int { return p.state }

// collectParam accumulates one digit or parameter separator.
func (p *Parser) collectParam(ch rune) {
	if ch == ';' {
		if len(p.csiParams) == 0 {
			p.csiParams = append(p.csiParams, "")
		}
		if len(p.csiParams) < maxCsiParams {
			p.csiParams = append(p.csiParams, "")
		}
		return
	}
	if len(p.csiParams) == 0 {
		p.csiParams = append(p.csiParams, "")
	}
	last := len(p.csiParams) - 1
	if len(p.csiParams[last]) < 5 {
		p.csiParams[last] += string(ch)
	}
}

func (p *Parser) collectFlag(ch rune) {
	p.csiFlags = append(p.csiFlags, ch)
}

func (p *Parser) collectIntermediate(ch rune) {
	p.collect = append(p.collect, ch)
}

func (p *Parser) hasFlag(flag rune) bool {
	for _, f := range p.csiFlags {
		if f == flag {
			return true
		}
	}
	return false
}

func (p *Parser) hasIntermediate(ch rune) bool {
	for _, c := range p.collect {
		if c == ch {
			return true
		}
	}
	return false
}

// getPs returns parameter n as an integer; zero, negative or missing
// parameters yield defaultVal.
func (p *Parser) getPs(n, defaultVal int) int {
	ret := defaultVal
	if n < len(p.csiParams) && p.csiParams[n] != "" {
		v := 0
		for _, ch := range p.csiParams[n] {
			v = v*10 + int(ch-'0')
		}
		ret = v
	}
	if ret < 1 {
		ret = defaultVal
	}
	return ret
}

// getPsZero is getPs with a zero floor, for controls where 0 selects a
// distinct variant (ED, EL, TBC, DSR).
func (p *Parser) getPsZero(n, defaultVal int) int {
	if n < len(p.csiParams) && p.csiParams[n] != "" {
		v := 0
		for _, ch := range p.csiParams[n] {
			v = v*10 + int(ch-'0')
		}
		return v
	}
	return defaultVal
}

// paramCount returns how many parameters arrived, at least 1 so the
// degenerate "CSI m" case still dispatches parameter 0.
func (p *Parser) paramCount() int {
	return Max(1, len(p.csiParams))
}

// Consume feeds one code point into the emulator. For VT100/VT102 the
// input is masked to 7 bits first; C1 controls unfold to their two-byte
// ESC equivalents.
func (emu *Emulator) Consume(ch rune) {
	// a VT100/VT102 is a 7-bit device: single-byte input loses the high
	// bit. Code points above U+00FF only ever arrive via UTF-8 and pass
	// through untouched.
	if (emu.deviceType == DeviceType_VT100 || emu.deviceType == DeviceType_VT102) && ch <= 0xff {
		ch &= 0x7f
	}

	if ch >= 0x80 && ch <= 0x9f {
		if emu.deviceType == DeviceType_VT220 && !emu.s8c1t {
			return
		}
		emu.consumeRune('\x1b')
		emu.consumeRune(ch - 0x40)
		return
	}

	emu.consumeRune(ch)
}

// ConsumeString feeds a whole sequence, for tests and the terminal widget.
func (emu *Emulator) ConsumeString(seq string) {
	for _, ch := range seq {
		emu.Consume(ch)
	}
}

func (emu *Emulator) consumeRune(ch rune) {
	p := emu.parser

	// transitions recognized from almost any state
	switch ch {
	case '\x18', '\x1a': // CAN, SUB abort the sequence in flight
		p.setState(InputState_Ground)
		return
	case '\x7f': // DEL is discarded anywhere
		return
	case '\x1b':
		if p.state == InputState_OSC_String {
			// OSC terminates on ST; the ESC half dispatches it
			hdl_osc_dispatch(emu, p.oscBuf.String())
		}
		p.setState(InputState_Escape)
		return
	}

	// C0 controls execute immediately without disturbing the sequence,
	// except inside OSC where BEL terminates the string
	if ch < 0x20 {
		if p.state == InputState_OSC_String {
			if ch == '\x07' {
				hdl_osc_dispatch(emu, p.oscBuf.String())
				p.setState(InputState_Ground)
			}
			return
		}
		if p.state == InputState_DCS_Passthrough || p.state == InputState_SosPmApc_String {
			return
		}
		emu.executeControl(ch)
		return
	}

	switch p.state {
	case InputState_Ground:
		emu.printCharacter(emu.translate(ch))

	case InputState_Escape:
		emu.scanEscape(ch)

	case InputState_Escape_Intermediate:
		if ch <= 0x2f {
			p.collectIntermediate(ch)
			return
		}
		emu.dispatchEscapeIntermediate(ch)
		p.setState(InputState_Ground)

	case InputState_CSI_Entry:
		switch {
		case ch >= '0' && ch <= '9' || ch == ';':
			p.collectParam(ch)
			p.setState(InputState_CSI_Param)
		case ch == ':':
			p.setState(InputState_CSI_Ignore)
		case ch >= 0x3c && ch <= 0x3f:
			p.collectFlag(ch)
			p.setState(InputState_CSI_Param)
		case ch <= 0x2f:
			p.collectIntermediate(ch)
			p.setState(InputState_CSI_Intermediate)
		default:
			emu.dispatchCsi(ch)
			p.setState(InputState_Ground)
		}

	case InputState_CSI_Param:
		switch {
		case ch >= '0' && ch <= '9' || ch == ';':
			p.collectParam(ch)
		case ch == ':' || (ch >= 0x3c && ch <= 0x3f):
			p.setState(InputState_CSI_Ignore)
		case ch <= 0x2f:
			p.collectIntermediate(ch)
			p.setState(InputState_CSI_Intermediate)
		default:
			emu.dispatchCsi(ch)
			p.setState(InputState_Ground)
		}

	case InputState_CSI_Intermediate:
		switch {
		case ch <= 0x2f:
			p.collectIntermediate(ch)
		case ch <= 0x3f:
			p.setState(InputState_CSI_Ignore)
		default:
			emu.dispatchCsi(ch)
			p.setState(InputState_Ground)
		}

	case InputState_CSI_Ignore:
		if ch >= 0x40 && ch <= 0x7e {
			p.setState(InputState_Ground)
		}

	case InputState_DCS_Entry:
		switch {
		case ch >= '0' && ch <= '9' || ch == ';':
			p.collectParam(ch)
			p.setState(InputState_DCS_Param)
		case ch == ':':
			p.setState(InputState_DCS_Ignore)
		case ch >= 0x3c && ch <= 0x3f:
			p.collectFlag(ch)
			p.setState(InputState_DCS_Param)
		case ch <= 0x2f:
			p.collectIntermediate(ch)
			p.setState(InputState_DCS_Intermediate)
		default:
			p.setState(InputState_DCS_Passthrough)
		}

	case InputState_DCS_Param:
		switch {
		case ch >= '0' && ch <= '9' || ch == ';':
			p.collectParam(ch)
		case ch == ':' || (ch >= 0x3c && ch <= 0x3f):
			p.setState(InputState_DCS_Ignore)
		case ch <= 0x2f:
			p.collectIntermediate(ch)
			p.setState(InputState_DCS_Intermediate)
		default:
			p.setState(InputState_DCS_Passthrough)
		}

	case InputState_DCS_Intermediate:
		switch {
		case ch <= 0x2f:
			p.collectIntermediate(ch)
		case ch <= 0x3f:
			p.setState(InputState_DCS_Ignore)
		default:
			p.setState(InputState_DCS_Passthrough)
		}

	case InputState_DCS_Passthrough, InputState_DCS_Ignore:
		// device control strings are consumed with no visible effect;
		// ST or CAN/SUB return to ground via the rules above

	case InputState_OSC_String:
		if p.oscBuf.Len() < maxOscLen {
			p.oscBuf.WriteRune(ch)
		} else {
			util.Logger.Warn("OSC argument string overflow")
			p.setState(InputState_Ground)
		}

	case InputState_SosPmApc_String:
		// consumed until ST

	case InputState_VT52_Direct_Cursor_Address:
		p.vt52Buf = append(p.vt52Buf, ch)
		if len(p.vt52Buf) == 2 {
			row := int(p.vt52Buf[0]) - 32
			col := int(p.vt52Buf[1]) - 32
			emu.cursorPosition(row, col)
			p.setState(InputState_Ground)
		}
	}
}

// executeControl runs a C0 control immediately, from any state.
func (emu *Emulator) executeControl(ch rune) {
	switch ch {
	case '\x05':
		hdl_c0_enq(emu)
	case '\x07':
		hdl_c0_bel(emu)
	case '\x08':
		hdl_c0_bs(emu)
	case '\x09':
		hdl_c0_ht(emu)
	case '\x0a', '\x0b', '\x0c':
		hdl_c0_lf(emu)
	case '\x0d':
		hdl_c0_cr(emu)
	case '\x0e':
		hdl_c0_so(emu)
	case '\x0f':
		hdl_c0_si(emu)
	}
}

// scanEscape dispatches the byte after ESC. VT52 mode has its own escape
// vocabulary.
func (emu *Emulator) scanEscape(ch rune) {
	p := emu.parser

	if emu.vt52Mode {
		emu.dispatchVt52Escape(ch)
		return
	}

	switch {
	case ch <= 0x2f: // intermediate byte
		p.collectIntermediate(ch)
		p.setState(InputState_Escape_Intermediate)
	case ch == '[':
		p.clearSequence()
		p.setState(InputState_CSI_Entry)
	case ch == ']':
		p.clearSequence()
		p.setState(InputState_OSC_String)
	case ch == 'P':
		p.clearSequence()
		p.setState(InputState_DCS_Entry)
	case ch == 'X', ch == '^', ch == '_':
		p.setState(InputState_SosPmApc_String)
	default:
		emu.dispatchEscape(ch)
		p.setState(InputState_Ground)
	}
}

func (emu *Emulator) dispatchEscape(ch rune) {
	switch ch {
	case '7':
		hdl_esc_decsc(emu)
	case '8':
		hdl_esc_decrc(emu)
	case 'D':
		hdl_esc_ind(emu)
	case 'E':
		hdl_esc_nel(emu)
	case 'H':
		hdl_esc_hts(emu)
	case 'M':
		hdl_esc_ri(emu)
	case 'N':
		emu.singleshift = Singleshift_SS2
	case 'O':
		emu.singleshift = Singleshift_SS3
	case 'Z':
		hdl_esc_decid(emu)
	case 'c':
		hdl_esc_ris(emu)
	case '=':
		emu.keypadMode = KeypadMode_Application
	case '>':
		emu.keypadMode = KeypadMode_Normal
	case 'n': // LS2
		emu.glCharset = emu.g[2]
		emu.glSlotIdx = 2
		emu.glLockshift = Lockshift_G2_GL
	case 'o': // LS3
		emu.glCharset = emu.g[3]
		emu.glSlotIdx = 3
		emu.glLockshift = Lockshift_G3_GL
	case '|': // LS3R
		emu.grCharset = emu.g[3]
		emu.grSlotIdx = 3
		emu.grLockshift = Lockshift_G3_GR
	case '}': // LS2R
		emu.grCharset = emu.g[2]
		emu.grSlotIdx = 2
		emu.grLockshift = Lockshift_G2_GR
	case '~': // LS1R
		emu.grCharset = emu.g[1]
		emu.grSlotIdx = 1
		emu.grLockshift = Lockshift_G1_GR
	case '\\': // ST terminates a string already dispatched
	default:
		util.Logger.Trace("unhandled escape final", "ch", string(ch))
	}
}

func (emu *Emulator) dispatchEscapeIntermediate(ch rune) {
	p := emu.parser

	switch {
	case p.hasIntermediate(' '):
		switch ch {
		case 'F': // S7C1T
			emu.s8c1t = false
		case 'G': // S8C1T
			emu.s8c1t = true
		}
	case p.hasIntermediate('#'):
		switch ch {
		case '3':
			emu.currentRow().SetDoubleHeight(DoubleHeight_Top)
			emu.currentRow().SetDoubleWidth(true)
		case '4':
			emu.currentRow().SetDoubleHeight(DoubleHeight_Bottom)
			emu.currentRow().SetDoubleWidth(true)
		case '5':
			emu.currentRow().SetDoubleWidth(false)
			emu.currentRow().SetDoubleHeight(DoubleHeight_None)
		case '6':
			emu.currentRow().SetDoubleWidth(true)
			emu.currentRow().SetDoubleHeight(DoubleHeight_None)
		case '8':
			hdl_esc_decaln(emu)
		}
	case p.hasIntermediate('('):
		hdl_esc_designate(emu, 0, ch)
	case p.hasIntermediate(')'):
		hdl_esc_designate(emu, 1, ch)
	case p.hasIntermediate('*'):
		hdl_esc_designate(emu, 2, ch)
	case p.hasIntermediate('+'):
		hdl_esc_designate(emu, 3, ch)
	case p.hasIntermediate('%'):
		// character set selection between default and UTF-8: the
		// emulator is natively UTF-8
	default:
		util.Logger.Trace("unhandled escape intermediate",
			"collect", string(p.collect), "ch", string(ch))
	}
}

func (emu *Emulator) dispatchCsi(ch rune) {
	p := emu.parser

	if p.hasFlag('?') {
		switch ch {
		case 'h':
			hdl_csi_decset(emu)
		case 'l':
			hdl_csi_decrst(emu)
		case 'c':
			hdl_csi_da(emu) // DA with private flag answers the same
		}
		return
	}
	if len(p.csiFlags) > 0 || len(p.collect) > 0 {
		// flagged or intermediate-qualified sequences this device
		// family does not implement (DECSCL and friends)
		util.Logger.Trace("unhandled CSI", "flags", string(p.csiFlags),
			"collect", string(p.collect), "ch", string(ch))
		return
	}

	switch ch {
	case '@':
		hdl_csi_ich(emu, p.getPs(0, 1))
	case 'A':
		hdl_csi_cuu(emu, p.getPs(0, 1))
	case 'B':
		hdl_csi_cud(emu, p.getPs(0, 1))
	case 'C':
		hdl_csi_cuf(emu, p.getPs(0, 1))
	case 'D':
		hdl_csi_cub(emu, p.getPs(0, 1))
	case 'E':
		hdl_csi_cud(emu, p.getPs(0, 1))
		hdl_c0_cr(emu)
	case 'F':
		hdl_csi_cuu(emu, p.getPs(0, 1))
		hdl_c0_cr(emu)
	case 'G', '`':
		hdl_csi_cha(emu, p.getPs(0, 1))
	case 'H', 'f':
		hdl_csi_cup(emu, p.getPs(0, 1), p.getPs(1, 1))
	case 'I':
		for i := 0; i < p.getPs(0, 1); i++ {
			hdl_c0_ht(emu)
		}
	case 'J':
		hdl_csi_ed(emu, p.getPsZero(0, 0))
	case 'K':
		hdl_csi_el(emu, p.getPsZero(0, 0))
	case 'L':
		hdl_csi_il(emu, p.getPs(0, 1))
	case 'M':
		hdl_csi_dl(emu, p.getPs(0, 1))
	case 'P':
		hdl_csi_dch(emu, p.getPs(0, 1))
	case 'S':
		hdl_csi_su(emu, p.getPs(0, 1))
	case 'T':
		hdl_csi_sd(emu, p.getPs(0, 1))
	case 'X':
		hdl_csi_ech(emu, p.getPs(0, 1))
	case 'Z':
		for i := 0; i < p.getPs(0, 1); i++ {
			hdl_csi_cbt(emu)
		}
	case 'c':
		hdl_csi_da(emu)
	case 'd':
		hdl_csi_vpa(emu, p.getPs(0, 1))
	case 'g':
		hdl_csi_tbc(emu, p.getPsZero(0, 0))
	case 'h':
		hdl_csi_sm(emu)
	case 'l':
		hdl_csi_rm(emu)
	case 'm':
		hdl_csi_sgr(emu)
	case 'n':
		hdl_csi_dsr(emu, p.getPsZero(0, 0))
	case 'r':
		hdl_csi_decstbm(emu, p.getPs(0, 1), p.getPs(1, emu.height))
	case 's':
		hdl_esc_decsc(emu)
	case 'u':
		hdl_esc_decrc(emu)
	default:
		util.Logger.Trace("unhandled CSI final", "ch", string(ch))
	}
}

func (emu *Emulator) dispatchVt52Escape(ch rune) {
	p := emu.parser

	switch ch {
	case 'A':
		emu.cursorUp(1, false)
	case 'B':
		emu.cursorDown(1, false)
	case 'C':
		emu.cursorRight(1, false)
	case 'D':
		emu.cursorLeft(1, false)
	case 'F':
		emu.glCharset = Charset_VT52Graphics
		emu.glSlotIdx = -1
	case 'G':
		emu.glCharset = Charset_US
		emu.glSlotIdx = -1
	case 'H':
		emu.cursorPosition(0, 0)
	case 'I': // reverse line feed
		hdl_esc_ri(emu)
	case 'J':
		hdl_csi_ed(emu, 0)
	case 'K':
		hdl_csi_el(emu, 0)
	case 'Y':
		p.vt52Buf = p.vt52Buf[:0]
		p.setState(InputState_VT52_Direct_Cursor_Address)
		return
	case 'Z':
		emu.writeHost("\033/Z")
	case '=':
		emu.keypadMode = KeypadMode_Application
	case '>':
		emu.keypadMode = KeypadMode_Normal
	case '<':
		emu.vt52Mode = false
		emu.arrowKeyMode = ArrowKeyMode_ANSI
	}
	p.setState(InputState_Ground)
}
