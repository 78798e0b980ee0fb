// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"strings"
	"testing"

	"github.com/ericwq/twin/terminal"
)

func TestFieldEditing(t *testing.T) {
	f := NewField(DefaultTheme(), 0, 0, 10)

	for _, ch := range "hello" {
		f.HandleKey(terminal.Keypress{Ch: ch})
	}
	if f.Text() != "hello" {
		t.Errorf("expect %q, got %q", "hello", f.Text())
	}

	f.HandleKey(terminal.Keypress{Key: terminal.KeyBackspace})
	f.HandleKey(terminal.Keypress{Key: terminal.KeyHome})
	f.HandleKey(terminal.Keypress{Ch: 'X'})
	if f.Text() != "Xhell" {
		t.Errorf("expect %q, got %q", "Xhell", f.Text())
	}

	f.HandleKey(terminal.Keypress{Key: terminal.KeyDel})
	if f.Text() != "Xell" {
		t.Errorf("expect %q, got %q", "Xell", f.Text())
	}

	// overwrite mode replaces instead of inserting
	f.HandleKey(terminal.Keypress{Key: terminal.KeyIns})
	f.HandleKey(terminal.Keypress{Ch: 'o'})
	if f.Text() != "Xoll" {
		t.Errorf("overwrite expect %q, got %q", "Xoll", f.Text())
	}
}

func TestFieldScrollKeepsCursorVisible(t *testing.T) {
	f := NewField(DefaultTheme(), 0, 0, 5)
	f.SetText("abcdefghij")

	if f.cursor != 10 {
		t.Fatalf("cursor expect 10, got %d", f.cursor)
	}
	if f.scrollOff != 6 {
		t.Errorf("scroll expect 6, got %d", f.scrollOff)
	}

	f.HandleKey(terminal.Keypress{Key: terminal.KeyHome})
	if f.scrollOff != 0 {
		t.Errorf("scroll after HOME expect 0, got %d", f.scrollOff)
	}
}

func TestTextWordWrap(t *testing.T) {
	tc := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"simple", "one two three", 8, []string{"one two", "three"}},
		{"exact fit", "abcd", 4, []string{"abcd"}},
		{"long word", "abcdefgh", 4, []string{"abcd", "efgh"}},
		{"empty", "", 10, []string{""}},
		{"paragraphs", "a\nb", 10, []string{"a", "b"}},
	}

	for _, v := range tc {
		got := []string{}
		for _, para := range strings.Split(v.text, "\n") {
			got = append(got, wrapLine(para, v.width)...)
		}
		if len(got) != len(v.want) {
			t.Errorf("%s: expect %v, got %v", v.name, v.want, got)
			continue
		}
		for i := range got {
			if got[i] != v.want[i] {
				t.Errorf("%s: line %d expect %q, got %q", v.name, i, v.want[i], got[i])
			}
		}
	}
}

func TestTreeFlattenAndToggle(t *testing.T) {
	root := &TreeNode{}
	a := root.Add("a")
	a.Add("a1")
	a.Add("a2")
	root.Add("b")

	tree := NewTreeView(DefaultTheme(), 0, 0, 20, 10, root)

	if got := len(tree.flatten()); got != 2 {
		t.Fatalf("collapsed tree expect 2 visible, got %d", got)
	}

	tree.HandleKey(terminal.Keypress{Key: terminal.KeyRight}) // expand a
	if got := len(tree.flatten()); got != 4 {
		t.Fatalf("expanded tree expect 4 visible, got %d", got)
	}

	tree.HandleKey(terminal.Keypress{Key: terminal.KeyDown})
	if node := tree.SelectedNode(); node == nil || node.Label != "a1" {
		t.Errorf("selection expect a1, got %+v", node)
	}

	tree.HandleKey(terminal.Keypress{Key: terminal.KeyUp})
	tree.HandleKey(terminal.Keypress{Key: terminal.KeyLeft}) // collapse a
	if got := len(tree.flatten()); got != 2 {
		t.Errorf("collapsed again expect 2 visible, got %d", got)
	}
}

func TestEditorEditing(t *testing.T) {
	e := NewEditor(DefaultTheme(), 0, 0, 20, 5, "hello\nworld")

	e.HandleKey(terminal.Keypress{Key: terminal.KeyEnd})
	e.HandleKey(terminal.Keypress{Ch: '!'})
	if e.Text() != "hello!\nworld" {
		t.Errorf("expect %q, got %q", "hello!\nworld", e.Text())
	}

	e.HandleKey(terminal.Keypress{Key: terminal.KeyEnter})
	if e.Text() != "hello!\n\nworld" {
		t.Errorf("newline expect %q, got %q", "hello!\n\nworld", e.Text())
	}

	// backspace at column 0 joins with the previous line
	e.HandleKey(terminal.Keypress{Key: terminal.KeyBackspace})
	if e.Text() != "hello!\nworld" {
		t.Errorf("join expect %q, got %q", "hello!\nworld", e.Text())
	}
}

func TestMenuBarActivation(t *testing.T) {
	fired := ""
	mb := NewMenuBar(DefaultTheme())
	mb.AddMenu(Menu{Title: "File", Items: []MenuItem{
		{Label: "Open", Hotkey: 'o', Action: func() { fired = "open" }},
		Separator(),
		{Label: "Exit", Hotkey: 'x', Action: func() { fired = "exit" }},
	}})
	mb.AddMenu(Menu{Title: "Help", Items: []MenuItem{
		{Label: "About", Action: func() { fired = "about" }},
	}})

	if mb.HandleKey(terminal.Keypress{Ch: 'q'}) {
		t.Error("inactive bar must not consume plain keys")
	}

	mb.HandleKey(terminal.Keypress{Key: terminal.KeyF10})
	if !mb.Active() {
		t.Fatal("F10 must open the menu")
	}

	// down skips the separator
	mb.HandleKey(terminal.Keypress{Key: terminal.KeyDown})
	mb.HandleKey(terminal.Keypress{Key: terminal.KeyEnter})
	if fired != "exit" {
		t.Errorf("expect exit fired, got %q", fired)
	}
	if mb.Active() {
		t.Error("firing must close the menu")
	}

	// alt-h opens Help
	mb.HandleKey(terminal.Keypress{Ch: 'h', Alt: true})
	if !mb.Active() || mb.menuIdx != 1 {
		t.Fatalf("alt-h expect Help menu, active=%v idx=%d", mb.Active(), mb.menuIdx)
	}
	mb.HandleKey(terminal.Keypress{Key: terminal.KeyEsc})
	if mb.Active() {
		t.Error("ESC must close the menu")
	}
}

func TestWindowFocusTraversal(t *testing.T) {
	w := NewWindow(nil, "test", 1, 1, 30, 10)
	theme := DefaultTheme()

	f1 := NewField(theme, 0, 0, 8)
	f2 := NewField(theme, 0, 1, 8)
	label := NewLabel(theme, 0, 2, "static")
	f3 := NewField(theme, 0, 3, 8)
	w.Add(f1)
	w.Add(f2)
	w.Add(label)
	w.Add(f3)

	if !f1.HasFocus() {
		t.Fatal("first focusable widget takes the focus")
	}

	w.HandleKey(terminal.Keypress{Key: terminal.KeyTab})
	if !f2.HasFocus() || f1.HasFocus() {
		t.Error("TAB expect focus on second field")
	}

	// the label never takes focus
	w.HandleKey(terminal.Keypress{Key: terminal.KeyTab})
	if !f3.HasFocus() {
		t.Error("TAB expect focus to skip the label")
	}

	w.HandleKey(terminal.Keypress{Key: terminal.KeyBTab})
	if !f2.HasFocus() {
		t.Error("BTAB expect focus back on second field")
	}
}

func TestCheckboxAndRadio(t *testing.T) {
	c := NewCheckbox(DefaultTheme(), 0, 0, "flag", false)
	c.HandleKey(terminal.Keypress{Ch: ' '})
	if !c.Checked() {
		t.Error("space must toggle the checkbox on")
	}

	r := NewRadioGroup(DefaultTheme(), 0, 0, "pick", []string{"a", "b", "c"})
	r.HandleKey(terminal.Keypress{Key: terminal.KeyDown})
	r.HandleKey(terminal.Keypress{Key: terminal.KeyDown})
	r.HandleKey(terminal.Keypress{Key: terminal.KeyDown})
	if r.Selected() != 2 {
		t.Errorf("selection clamps at the last option, got %d", r.Selected())
	}
}

func TestWideGlyphWidths(t *testing.T) {
	theme := DefaultTheme()

	// CJK glyphs occupy two columns each; widths follow display width,
	// not rune count
	label := NewLabel(theme, 0, 0, "中文")
	if _, _, w, _ := label.Bounds(); w != 4 {
		t.Errorf("label width expect 4, got %d", w)
	}

	button := NewButton(theme, 0, 0, "中文", nil)
	if _, _, w, _ := button.Bounds(); w != 8 {
		t.Errorf("button width expect 8, got %d", w)
	}

	check := NewCheckbox(theme, 0, 0, "中文", false)
	if _, _, w, _ := check.Bounds(); w != 8 {
		t.Errorf("checkbox width expect 8, got %d", w)
	}

	got := wrapLine("中文 word", 5)
	if len(got) != 2 || got[0] != "中文" || got[1] != "word" {
		t.Errorf("wide-aware wrap expect [中文 word], got %v", got)
	}

	// a run of wide glyphs wider than the line breaks on a column
	// boundary
	got = wrapLine("中中中", 4)
	if len(got) != 2 || got[0] != "中中" || got[1] != "中" {
		t.Errorf("wide-aware split expect [中中 中], got %v", got)
	}
}

func TestFieldScrollWideGlyphs(t *testing.T) {
	f := NewField(DefaultTheme(), 0, 0, 4)
	f.SetText("中中中") // six columns of text in a four-column field

	// the cursor sits past the text; enough leading glyphs scroll off
	// that the remainder fits the visible span
	if runesWidth(f.text[f.scrollOff:f.cursor]) >= f.width {
		t.Errorf("visible span %d must stay under the field width %d",
			runesWidth(f.text[f.scrollOff:f.cursor]), f.width)
	}
	if f.scrollOff != 2 {
		t.Errorf("scroll expect 2 wide glyphs off, got %d", f.scrollOff)
	}
}

func TestProgressBarClamps(t *testing.T) {
	p := NewProgressBar(DefaultTheme(), 0, 0, 20)
	p.SetPercent(150)
	if p.Percent() != 100 {
		t.Errorf("expect clamp to 100, got %d", p.Percent())
	}
	p.SetPercent(-5)
	if p.Percent() != 0 {
		t.Errorf("expect clamp to 0, got %d", p.Percent())
	}
}
