// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"strings"
	"testing"
)

func red() Renditions {
	r := NewRenditions()
	r.SetForeground(ColorRed)
	return r
}

func TestFlushIdempotence(t *testing.T) {
	s := NewScreen(20, 5)
	s.Flush() // drain the initial full clear

	s.PutStr(2, 1, "hello", NewRenditions())
	first := s.Flush()
	if first == "" {
		t.Fatal("expect output after a draw")
	}
	if got := s.Flush(); got != "" {
		t.Errorf("second flush expect empty, got %q", got)
	}
}

func TestFlushDiffCorrectness(t *testing.T) {
	s := NewScreen(20, 5)
	s.Flush()

	s.PutStr(0, 0, "same", NewRenditions())
	s.Flush()

	// drawing identical content produces an identical logical grid and
	// therefore an empty delta
	s.PutStr(0, 0, "same", NewRenditions())
	if got := s.Flush(); got != "" {
		t.Errorf("identical grid expect empty flush, got %q", got)
	}
}

func TestFlushPostInvariant(t *testing.T) {
	s := NewScreen(10, 3)
	s.Flush()
	s.PutStr(0, 0, "abc", red())
	s.PutStr(3, 2, "xyz", NewRenditions())
	s.Flush()

	for x := 0; x < 10; x++ {
		for y := 0; y < 3; y++ {
			if s.logical[x][y] != s.physical[x][y] {
				t.Fatalf("cell (%d,%d) differs after flush", x, y)
			}
		}
	}
	for y := 0; y < 3; y++ {
		if s.Contents(y) != s.PhysicalContents(y) {
			t.Errorf("row %d: logical %q vs physical %q after flush",
				y, s.Contents(y), s.PhysicalContents(y))
		}
	}
	if s.dirty {
		t.Error("dirty must clear after flush")
	}
}

func TestPhysicalContentsLagsUntilFlush(t *testing.T) {
	s := NewScreen(10, 2)
	s.Flush()

	s.PutStr(0, 0, "new", NewRenditions())
	if got := s.PhysicalContents(0); strings.Contains(got, "new") {
		t.Errorf("physical grid must not change before flush, got %q", got)
	}

	s.Flush()
	if got := s.PhysicalContents(0); !strings.HasPrefix(got, "new") {
		t.Errorf("physical grid expect %q after flush, got %q", "new", got)
	}
}

func TestFlushAttributeMinimality(t *testing.T) {
	s := NewScreen(20, 5)
	s.Flush()

	s.PutStr(0, 0, "AB", red())
	out := s.Flush()

	// identical attributes on consecutive cells emit no SGR between the
	// glyphs
	if !strings.Contains(out, "AB") {
		t.Errorf("expect adjacent glyphs with no SGR between, got %q", out)
	}
	if !strings.Contains(out, "\033[31m") {
		t.Errorf("expect one foreground change, got %q", out)
	}
}

func TestFlushPartialRow(t *testing.T) {
	s := NewScreen(20, 3)
	s.Flush()
	s.PutStr(0, 0, "hello world", NewRenditions())
	s.Flush()

	s.PutStr(6, 0, "WORLD", NewRenditions())
	out := s.Flush()

	if strings.Contains(out, "hello") {
		t.Errorf("unchanged prefix must not be rewritten, got %q", out)
	}
	if !strings.Contains(out, "WORLD") {
		t.Errorf("expect changed suffix, got %q", out)
	}
	if strings.Contains(out, clearBOL) {
		t.Errorf("clear-to-BOL would erase live text, got %q", out)
	}
}

func TestFlushBlankRowCollapse(t *testing.T) {
	s := NewScreen(20, 3)
	s.Flush()
	s.PutStr(4, 1, "text", NewRenditions())
	s.Flush()

	s.Reset()
	out := s.Flush()
	if !strings.Contains(out, attrNormal+clearEOL) {
		t.Errorf("blank row expect normal+clear-to-EOL, got %q", out)
	}
	if strings.Contains(out, "    ") {
		t.Errorf("blank run must not be spelled out, got %q", out)
	}
}

func TestFlushFullClear(t *testing.T) {
	s := NewScreen(10, 3)
	out := s.Flush()
	if !strings.HasPrefix(out, attrNormal+clearAll) {
		t.Errorf("first flush expect full clear prefix, got %q", out)
	}

	s.Resize(10, 3)
	out = s.Flush()
	if !strings.HasPrefix(out, attrNormal+clearAll) {
		t.Errorf("resize expect full clear prefix, got %q", out)
	}
}

func TestSgrDelta(t *testing.T) {
	plain := NewRenditions()

	tc := []struct {
		name string
		prev Renditions
		next Renditions
		want string
	}{
		{"no change", plain, plain, ""},
		{
			"fg only", plain,
			func() Renditions { r := plain; r.SetForeground(ColorRed); return r }(),
			"\033[31m",
		},
		{
			"bg only", plain,
			func() Renditions { r := plain; r.SetBackground(ColorBlue); return r }(),
			"\033[44m",
		},
		{
			"both colors", plain,
			func() Renditions {
				r := plain
				r.SetForeground(ColorGreen)
				r.SetBackground(ColorYellow)
				return r
			}(),
			"\033[32;43m",
		},
		{
			"bold change", plain,
			func() Renditions { r := plain; r.SetBold(true); return r }(),
			"\033[0;37;40;1m",
		},
		{
			"blink change", plain,
			func() Renditions { r := plain; r.SetBlink(true); return r }(),
			"\033[0;37;40;5m",
		},
	}

	for _, v := range tc {
		if got := sgrDelta(v.prev, v.next); got != v.want {
			t.Errorf("%s expect %q, got %q", v.name, v.want, got)
		}
	}
}

func TestPutCharClipAndOffset(t *testing.T) {
	s := NewScreen(10, 5)
	s.Flush()

	s.SetOffset(2, 1)
	s.SetClip(3, 3)

	s.PutChar(0, 0, 'A', NewRenditions())
	if got := s.logical[2][1].GetContents(); got != 'A' {
		t.Errorf("offset draw expect A at (2,1), got %q", got)
	}

	// outside the clip rectangle: dropped even though it fits the grid
	s.PutChar(5, 0, 'B', NewRenditions())
	if got := s.Contents(1); strings.Contains(got, "B") {
		t.Errorf("clipped draw must be dropped, got %q", got)
	}
}

func TestPutStrTruncates(t *testing.T) {
	s := NewScreen(5, 2)
	s.PutStr(3, 0, "long", NewRenditions())
	if got := s.Contents(0); got != "   lo" {
		t.Errorf("expect %q, got %q", "   lo", got)
	}
}

func TestPutAttrKeepsGlyph(t *testing.T) {
	s := NewScreen(5, 2)
	s.PutChar(1, 0, 'Q', NewRenditions())
	s.PutAttr(1, 0, red())

	cell := s.logical[1][0]
	if cell.GetContents() != 'Q' || cell.GetRenditions() != red() {
		t.Errorf("expect red Q, got %q %v", cell.GetContents(), cell.GetRenditions())
	}
}

func TestDrawBox(t *testing.T) {
	s := NewScreen(10, 6)
	s.DrawBox(1, 1, 6, 5, NewRenditions(), NewRenditions(), BorderStyle_Double, true, false)

	if got := s.logical[1][1].GetContents(); got != '╔' {
		t.Errorf("top-left expect ╔, got %q", got)
	}
	if got := s.logical[5][4].GetContents(); got != '╝' {
		t.Errorf("bottom-right expect ╝, got %q", got)
	}
	if got := s.logical[3][1].GetContents(); got != '═' {
		t.Errorf("top edge expect ═, got %q", got)
	}
	if got := s.logical[1][3].GetContents(); got != '║' {
		t.Errorf("left edge expect ║, got %q", got)
	}
}

func TestDrawBoxShadowIgnoresClip(t *testing.T) {
	s := NewScreen(12, 8)
	s.SetClip(6, 6)

	s.DrawBox(0, 0, 5, 5, NewRenditions(), NewRenditions(), BorderStyle_Single, false, true)

	// the shadow column lands outside the clip rectangle yet must be
	// drawn
	shade := s.logical[6][2].GetRenditions()
	if shade.GetBackground() != ColorBlack || !shade.GetBold() {
		t.Errorf("shadow outside clip expect shaded cell, got %v", shade)
	}
}

func TestResizeResetsState(t *testing.T) {
	s := NewScreen(10, 5)
	s.Flush()
	s.PutStr(0, 0, "data", NewRenditions())
	s.Resize(8, 4)

	if !s.reallyCleared {
		t.Error("resize must set reallyCleared")
	}
	if got := s.Contents(0); got != strings.Repeat(" ", 8) {
		t.Errorf("resize expect blank grid, got %q", got)
	}
	cx, cy := s.GetClip()
	if cx != 8 || cy != 4 {
		t.Errorf("resize expect clip (8,4), got (%d,%d)", cx, cy)
	}
}
