// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"strings"
	"testing"
)

func TestEmulatorPlainText(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("hello")

	want := "hello" + strings.Repeat(" ", 75)
	if got := emu.Display()[0].String(80); got != want {
		t.Errorf("row 0 expect %q, got %q", want, got)
	}
	if emu.GetCursorCol() != 5 || emu.GetCursorRow() != 0 {
		t.Errorf("cursor expect (5,0), got (%d,%d)", emu.GetCursorCol(), emu.GetCursorRow())
	}
}

func TestEmulatorWrap(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString(strings.Repeat("A", 80))

	// the 80th character parks on the margin with the wrap pending
	if got := emu.Display()[0].String(80); got != strings.Repeat("A", 80) {
		t.Errorf("row 0 expect 80 As, got %q", got)
	}
	if !emu.wrapLineFlag {
		t.Errorf("expect wrapLineFlag set at the right margin")
	}
	if emu.GetCursorCol() != 79 || emu.GetCursorRow() != 0 {
		t.Errorf("cursor expect (79,0), got (%d,%d)", emu.GetCursorCol(), emu.GetCursorRow())
	}

	emu.ConsumeString("B")
	if got := emu.Display()[1].GetCell(0).GetContents(); got != 'B' {
		t.Errorf("row 1 col 0 expect B, got %q", got)
	}
	if emu.GetCursorCol() != 1 || emu.GetCursorRow() != 1 {
		t.Errorf("cursor expect (1,1), got (%d,%d)", emu.GetCursorCol(), emu.GetCursorRow())
	}
}

func TestEmulatorSGR(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033[31;1mX\033[0mY")

	x := emu.Display()[0].GetCell(0)
	if x.GetContents() != 'X' {
		t.Errorf("cell 0 expect X, got %q", x.GetContents())
	}
	if x.GetRenditions().GetForeground() != ColorRed || !x.GetRenditions().GetBold() {
		t.Errorf("cell 0 expect red bold, got %v", x.GetRenditions())
	}

	y := emu.Display()[0].GetCell(1)
	if y.GetContents() != 'Y' || y.GetRenditions() != NewRenditions() {
		t.Errorf("cell 1 expect plain Y, got %q %v", y.GetContents(), y.GetRenditions())
	}
}

func TestEmulatorClearHome(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("some old content\r\nmore")
	emu.ConsumeString("\033[2J\033[HZ")

	if got := emu.Display()[0].GetCell(0).GetContents(); got != 'Z' {
		t.Errorf("cell (0,0) expect Z, got %q", got)
	}
	want := "Z" + strings.Repeat(" ", 79)
	if got := emu.Display()[0].String(80); got != want {
		t.Errorf("row 0 expect %q, got %q", want, got)
	}
	if got := emu.Display()[1].String(80); got != strings.Repeat(" ", 80) {
		t.Errorf("row 1 expect blank, got %q", got)
	}
}

func TestEmulatorDA(t *testing.T) {
	tc := []struct {
		name   string
		device DeviceType
		want   string
	}{
		{"vt100", DeviceType_VT100, "\033[?1;2c"},
		{"vt102", DeviceType_VT102, "\033[?6c"},
		{"vt220", DeviceType_VT220, "\033[?62;1;6c"},
		{"xterm", DeviceType_XTERM, "\033[?1;2c"},
	}

	for _, v := range tc {
		emu := NewEmulator(80, 24, v.device, DefaultSaveLines)
		var got string
		emu.SetWriteRemote(func(s string) { got += s })
		emu.ConsumeString("\033[c")
		if got != v.want {
			t.Errorf("%s: DA expect %q, got %q", v.name, v.want, got)
		}
	}
}

func TestEmulatorDA8Bit(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT220, DefaultSaveLines)
	var got string
	emu.SetWriteRemote(func(s string) { got += s })

	// S8C1T switches replies to single-byte C1
	emu.ConsumeString("\033 G\033[c")
	if got != "\x9b?62;1;6c" {
		t.Errorf("8-bit DA expect %q, got %q", "\x9b?62;1;6c", got)
	}
}

func TestEmulatorDECID(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033Z")
	if got := emu.ReadOctetsToHost(); got != "\033[?6c" {
		t.Errorf("DECID expect %q, got %q", "\033[?6c", got)
	}
}

func TestOriginModeCursorPosition(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033[5;20r") // region rows 4..19
	emu.ConsumeString("\033[?6h")
	emu.ConsumeString("\033[H")

	if emu.GetCursorRow() != 4 || emu.GetCursorCol() != 0 {
		t.Errorf("origin-mode home expect (0,4), got (%d,%d)",
			emu.GetCursorCol(), emu.GetCursorRow())
	}

	// rows clamp to the region
	emu.ConsumeString("\033[99;1H")
	if emu.GetCursorRow() != 19 {
		t.Errorf("origin-mode row expect clamp to 19, got %d", emu.GetCursorRow())
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT220, DefaultSaveLines)

	emu.ConsumeString("\033[6;12H\033[32;5m\033(A")
	before := SaveableState{
		originMode:  emu.originMode,
		cursorX:     emu.posX,
		cursorY:     emu.posY,
		g:           emu.g,
		gr:          emu.grCharset,
		attrs:       emu.attrs,
		glLockshift: emu.glLockshift,
		grLockshift: emu.grLockshift,
	}

	emu.ConsumeString("\0337")
	emu.ConsumeString("\033[?6h\033[1;1H\033[0;31mchanged\033(0\033n")
	emu.ConsumeString("\0338")

	after := SaveableState{
		originMode:  emu.originMode,
		cursorX:     emu.posX,
		cursorY:     emu.posY,
		g:           emu.g,
		gr:          emu.grCharset,
		attrs:       emu.attrs,
		glLockshift: emu.glLockshift,
		grLockshift: emu.grLockshift,
	}

	if before != after {
		t.Errorf("DECSC/DECRC round trip expect %+v, got %+v", before, after)
	}
}

func TestParserTotality(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_XTERM, DefaultSaveLines)

	// a cheap deterministic byte soup covering every value
	seed := uint32(0x2545)
	for i := 0; i < 50000; i++ {
		seed = seed*1664525 + 1013904223
		emu.Consume(rune(seed % 256))

		state := emu.parser.getState()
		if state < InputState_Ground || state > InputState_VT52_Direct_Cursor_Address {
			t.Fatalf("parser left valid state space: %d", state)
		}
	}
}

func TestScrollbackLineFeed(t *testing.T) {
	emu := NewEmulator(80, 4, DeviceType_VT102, 10)
	emu.ConsumeString("one\r\ntwo\r\nthree\r\nfour\r\nfive")

	if len(emu.Scrollback()) != 1 {
		t.Fatalf("scrollback expect 1 line, got %d", len(emu.Scrollback()))
	}
	if got := emu.Scrollback()[0].String(3); got != "one" {
		t.Errorf("scrollback line expect %q, got %q", "one", got)
	}
	if got := emu.Display()[3].String(4); got != "five" {
		t.Errorf("bottom row expect %q, got %q", "five", got)
	}
}

func TestScrollbackCap(t *testing.T) {
	emu := NewEmulator(80, 2, DeviceType_VT102, 3)
	for i := 0; i < 10; i++ {
		emu.ConsumeString("x\r\n")
	}
	if len(emu.Scrollback()) != 3 {
		t.Errorf("scrollback cap expect 3 lines, got %d", len(emu.Scrollback()))
	}
}

func TestScrollRegion(t *testing.T) {
	emu := NewEmulator(80, 5, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("aa\r\nbb\r\ncc\r\ndd\r\nee")

	// region rows 1..3; a linefeed at the region bottom scrolls only
	// the region
	emu.ConsumeString("\033[2;4r")
	emu.ConsumeString("\033[4;1H\n")

	want := []string{"aa", "cc", "dd", "  ", "ee"}
	for y, w := range want {
		if got := emu.Display()[y].String(2); got != w {
			t.Errorf("row %d expect %q, got %q", y, w, got)
		}
	}
	if len(emu.Scrollback()) != 0 {
		t.Errorf("region scroll must not feed the scrollback, got %d lines",
			len(emu.Scrollback()))
	}
}

func TestInsertDeleteLines(t *testing.T) {
	emu := NewEmulator(80, 4, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("aa\r\nbb\r\ncc\r\ndd")

	emu.ConsumeString("\033[2;1H\033[1L")
	want := []string{"aa", "  ", "bb", "cc"}
	for y, w := range want {
		if got := emu.Display()[y].String(2); got != w {
			t.Errorf("IL row %d expect %q, got %q", y, w, got)
		}
	}

	emu.ConsumeString("\033[2;1H\033[1M")
	want = []string{"aa", "bb", "cc", "  "}
	for y, w := range want {
		if got := emu.Display()[y].String(2); got != w {
			t.Errorf("DL row %d expect %q, got %q", y, w, got)
		}
	}
}

func TestInsertDeleteChars(t *testing.T) {
	emu := NewEmulator(10, 2, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("ABC")

	emu.ConsumeString("\033[1;1H\033[2@")
	if got := emu.Display()[0].String(5); got != "  ABC" {
		t.Errorf("ICH expect %q, got %q", "  ABC", got)
	}

	emu.ConsumeString("\033[2P")
	if got := emu.Display()[0].String(5); got != "ABC  " {
		t.Errorf("DCH expect %q, got %q", "ABC  ", got)
	}

	emu.ConsumeString("\033[2X")
	if got := emu.Display()[0].String(5); got != "  C  " {
		t.Errorf("ECH expect %q, got %q", "  C  ", got)
	}
}

func TestInsertMode(t *testing.T) {
	emu := NewEmulator(10, 2, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("AC\033[1;2H\033[4hB\033[4l")

	if got := emu.Display()[0].String(3); got != "ABC" {
		t.Errorf("IRM expect %q, got %q", "ABC", got)
	}
}

func TestEraseLine(t *testing.T) {
	tc := []struct {
		name string
		seq  string
		want string
	}{
		{"EL 0", "\033[1;3H\033[K", "AB        "},
		{"EL 1", "\033[1;3H\033[1K", "   DEFGHIJ"},
		{"EL 2", "\033[1;3H\033[2K", "          "},
	}

	for _, v := range tc {
		emu := NewEmulator(10, 2, DeviceType_VT102, DefaultSaveLines)
		emu.ConsumeString("ABCDEFGHIJ" + v.seq)
		if got := emu.Display()[0].String(10); got != v.want {
			t.Errorf("%s expect %q, got %q", v.name, v.want, got)
		}
	}
}

func TestEraseDisplay(t *testing.T) {
	emu := NewEmulator(4, 3, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("aaaa\r\nbbbb\r\ncccc")
	emu.ConsumeString("\033[2;2H\033[J")

	want := []string{"aaaa", "b   ", "    "}
	for y, w := range want {
		if got := emu.Display()[y].String(4); got != w {
			t.Errorf("ED 0 row %d expect %q, got %q", y, w, got)
		}
	}

	emu.ConsumeString("aaaa\033[2;2H\033[1J")
	if got := emu.Display()[0].String(4); got != "    " {
		t.Errorf("ED 1 row 0 expect blank, got %q", got)
	}
}

func TestTabStops(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)

	emu.ConsumeString("\tX")
	if got := emu.Display()[0].GetCell(8).GetContents(); got != 'X' {
		t.Errorf("default tab expect X at column 8, got %q at %d", got, emu.GetCursorCol())
	}

	// clear all stops, set one at the cursor
	emu.ConsumeString("\033[3g")
	emu.ConsumeString("\033[1;21H\033H\033[1;1H\tY")
	if got := emu.Display()[0].GetCell(20).GetContents(); got != 'Y' {
		t.Errorf("HTS tab expect Y at column 20, got %q", got)
	}
}

func TestDECALN(t *testing.T) {
	emu := NewEmulator(10, 3, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033#8")
	for y := 0; y < 3; y++ {
		if got := emu.Display()[y].String(10); got != strings.Repeat("E", 10) {
			t.Errorf("DECALN row %d expect all E, got %q", y, got)
		}
	}
}

func TestDSR(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	var got string
	emu.SetWriteRemote(func(s string) { got += s })

	emu.ConsumeString("\033[5n")
	if got != "\033[0n" {
		t.Errorf("DSR 5 expect %q, got %q", "\033[0n", got)
	}

	got = ""
	emu.ConsumeString("\033[3;7H\033[6n")
	if got != "\033[3;7R" {
		t.Errorf("DSR 6 expect %q, got %q", "\033[3;7R", got)
	}
}

func TestVT52Mode(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033[?2l")
	if !emu.vt52Mode {
		t.Fatal("expect VT52 mode after DECANM reset")
	}

	var got string
	emu.SetWriteRemote(func(s string) { got += s })
	emu.ConsumeString("\033Z")
	if got != "\033/Z" {
		t.Errorf("VT52 identify expect %q, got %q", "\033/Z", got)
	}

	// direct cursor address: row 5, col 10 (zero based after the offset)
	emu.ConsumeString("\033Y" + string(rune(32+5)) + string(rune(32+10)))
	if emu.GetCursorRow() != 5 || emu.GetCursorCol() != 10 {
		t.Errorf("VT52 DCA expect (10,5), got (%d,%d)", emu.GetCursorCol(), emu.GetCursorRow())
	}

	emu.ConsumeString("\033<")
	if emu.vt52Mode {
		t.Error("expect ANSI mode after ESC <")
	}
}

func TestReverseVideoStampsNewLines(t *testing.T) {
	emu := NewEmulator(80, 2, DeviceType_VT102, 5)
	emu.ConsumeString("\033[?5h")
	emu.ConsumeString("a\r\nb\r\nc\r\nd")

	for _, row := range emu.Display() {
		if !row.GetReverseColor() {
			t.Error("rows created under reverse video must carry the flag")
		}
	}
}

func TestRIS(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033[5;10r\033[?6h\033[31mjunk\033[4h")
	emu.ConsumeString("\033c")

	if emu.originMode || emu.insertMode {
		t.Error("RIS must clear origin and insert modes")
	}
	if emu.scrollRegionTop != 0 || emu.scrollRegionBottom != 23 {
		t.Errorf("RIS must reset margins, got [%d,%d]",
			emu.scrollRegionTop, emu.scrollRegionBottom)
	}
	if got := emu.Display()[0].String(80); got != strings.Repeat(" ", 80) {
		t.Errorf("RIS must clear the display, got %q", got)
	}
	if emu.attrs != NewRenditions() {
		t.Errorf("RIS must reset attributes, got %v", emu.attrs)
	}
}

func TestWindowTitle(t *testing.T) {
	tc := []struct {
		name  string
		seq   string
		title string
		icon  string
	}{
		{"osc 0 bel", "\033]0;both\a", "both", "both"},
		{"osc 1 st", "\033]1;icon\033\\", "", "icon"},
		{"osc 2 bel", "\033]2;title\a", "title", ""},
	}

	for _, v := range tc {
		emu := NewEmulator(80, 24, DeviceType_XTERM, DefaultSaveLines)
		emu.ConsumeString(v.seq)
		if emu.GetWindowTitle() != v.title {
			t.Errorf("%s: title expect %q, got %q", v.name, v.title, emu.GetWindowTitle())
		}
		if emu.GetIconName() != v.icon {
			t.Errorf("%s: icon expect %q, got %q", v.name, v.icon, emu.GetIconName())
		}
	}
}

func TestReverseIndexScrollsDown(t *testing.T) {
	emu := NewEmulator(80, 3, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("aa\r\nbb\r\ncc")
	emu.ConsumeString("\033[1;1H\033M")

	want := []string{"  ", "aa", "bb"}
	for y, w := range want {
		if got := emu.Display()[y].String(2); got != w {
			t.Errorf("RI row %d expect %q, got %q", y, w, got)
		}
	}
}

func TestAnswerback(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.SetAnswerback("twin here")
	var got string
	emu.SetWriteRemote(func(s string) { got += s })

	emu.Consume('\x05')
	if got != "twin here" {
		t.Errorf("ENQ expect answerback %q, got %q", "twin here", got)
	}
}

func TestBellCounter(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	rang := 0
	emu.SetBellHandler(func() { rang++ })
	emu.ConsumeString("\a\a")
	if emu.BellCount() != 2 || rang != 2 {
		t.Errorf("expect 2 bells, got count=%d handler=%d", emu.BellCount(), rang)
	}
}

func TestNewLineMode(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033[20h")
	emu.ConsumeString("ab\ncd")

	if got := emu.Display()[1].String(2); got != "cd" {
		t.Errorf("LNM expect %q on row 1, got %q", "cd", got)
	}
	if emu.Keypress(Keypress{Key: KeyEnter}) != "\r\n" {
		t.Error("LNM expect ENTER to send CR LF")
	}
}

func TestDoubleWidthRightMargin(t *testing.T) {
	emu := NewEmulator(80, 24, DeviceType_VT102, DefaultSaveLines)
	emu.ConsumeString("\033#6")
	if !emu.Display()[0].GetDoubleWidth() {
		t.Fatal("expect double-width flag after DECDWL")
	}
	if got := emu.rightMarginCol(); got != 39 {
		t.Errorf("double-width right margin expect 39, got %d", got)
	}
}

func TestC1Controls(t *testing.T) {
	// 8-bit CSI from an xterm-type device
	emu := NewEmulator(80, 24, DeviceType_XTERM, DefaultSaveLines)
	emu.Consume(0x9b)
	emu.ConsumeString("5;9H")
	if emu.GetCursorRow() != 4 || emu.GetCursorCol() != 8 {
		t.Errorf("8-bit CSI expect (8,4), got (%d,%d)", emu.GetCursorCol(), emu.GetCursorRow())
	}

	// VT220 without s8c1t discards C1
	emu = NewEmulator(80, 24, DeviceType_VT220, DefaultSaveLines)
	emu.Consume(0x9b)
	emu.ConsumeString("5;9H")
	if emu.GetCursorRow() == 4 && emu.GetCursorCol() == 8 {
		t.Error("VT220 with 7-bit controls must ignore 8-bit CSI")
	}
}
