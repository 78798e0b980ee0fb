// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/ericwq/twin/terminal"
)

// MenuItem is one entry of a drop-down menu. A nil action with an empty
// label renders as a separator.
type MenuItem struct {
	Label  string
	Hotkey rune // alt-<hotkey> fires the item while the menu is open
	Action func()
}

func Separator() MenuItem { return MenuItem{} }

func (mi MenuItem) isSeparator() bool { return mi.Label == "" && mi.Action == nil }

// Menu is a titled drop-down on the menu bar.
type Menu struct {
	Title string
	Items []MenuItem
}

// MenuBar occupies the top screen row. F10 or alt-<initial> opens a menu;
// arrows navigate, ENTER fires, ESC closes.
type MenuBar struct {
	menus []Menu
	theme Theme

	active   bool
	menuIdx  int
	itemIdx  int
	screenWd int
}

func NewMenuBar(theme Theme) *MenuBar {
	return &MenuBar{theme: theme}
}

func (mb *MenuBar) AddMenu(m Menu) { mb.menus = append(mb.menus, m) }

func (mb *MenuBar) Active() bool { return mb.active }

func (mb *MenuBar) open(idx int) {
	mb.active = true
	mb.menuIdx = clamp(idx, 0, len(mb.menus)-1)
	mb.itemIdx = 0
	mb.skipSeparators(1)
}

func (mb *MenuBar) close() { mb.active = false }

func (mb *MenuBar) currentMenu() *Menu {
	if len(mb.menus) == 0 {
		return nil
	}
	return &mb.menus[mb.menuIdx]
}

func (mb *MenuBar) skipSeparators(dir int) {
	menu := mb.currentMenu()
	if menu == nil || len(menu.Items) == 0 {
		return
	}
	for i := 0; i < len(menu.Items) && menu.Items[mb.itemIdx].isSeparator(); i++ {
		mb.itemIdx = (mb.itemIdx + dir + len(menu.Items)) % len(menu.Items)
	}
}

func (mb *MenuBar) fire() {
	menu := mb.currentMenu()
	if menu == nil || mb.itemIdx >= len(menu.Items) {
		return
	}
	item := menu.Items[mb.itemIdx]
	mb.close()
	if item.Action != nil {
		item.Action()
	}
}

// titleStart returns the column where menu i's title begins.
func (mb *MenuBar) titleStart(i int) int {
	col := 1
	for j := 0; j < i; j++ {
		col += runewidth.StringWidth(mb.menus[j].Title) + 3
	}
	return col
}

// HandleKey consumes the keypress when the bar is active, or when the key
// activates it (F10, alt-initial).
func (mb *MenuBar) HandleKey(k terminal.Keypress) bool {
	if !mb.active {
		if k.Key == terminal.KeyF10 && len(mb.menus) > 0 {
			mb.open(0)
			return true
		}
		if k.Alt && k.Key == terminal.KeyNone {
			for i, m := range mb.menus {
				initial := []rune(m.Title)
				if len(initial) > 0 && unicode.ToLower(initial[0]) == unicode.ToLower(k.Ch) {
					mb.open(i)
					return true
				}
			}
		}
		return false
	}

	menu := mb.currentMenu()
	switch k.Key {
	case terminal.KeyEsc, terminal.KeyF10:
		mb.close()
	case terminal.KeyLeft:
		mb.menuIdx = (mb.menuIdx - 1 + len(mb.menus)) % len(mb.menus)
		mb.itemIdx = 0
		mb.skipSeparators(1)
	case terminal.KeyRight:
		mb.menuIdx = (mb.menuIdx + 1) % len(mb.menus)
		mb.itemIdx = 0
		mb.skipSeparators(1)
	case terminal.KeyUp:
		mb.itemIdx = (mb.itemIdx - 1 + len(menu.Items)) % len(menu.Items)
		mb.skipSeparators(-1)
	case terminal.KeyDown:
		mb.itemIdx = (mb.itemIdx + 1) % len(menu.Items)
		mb.skipSeparators(1)
	case terminal.KeyEnter:
		mb.fire()
	case terminal.KeyNone:
		for i, item := range menu.Items {
			if item.Hotkey != 0 && unicode.ToLower(item.Hotkey) == unicode.ToLower(k.Ch) {
				mb.itemIdx = i
				mb.fire()
				return true
			}
		}
	}
	return true
}

// HandleMouse reacts to clicks on the bar row and inside an open menu.
// Coordinates are absolute.
func (mb *MenuBar) HandleMouse(ev terminal.InputEvent) bool {
	if ev.Type != terminal.EventType_MouseDown || !ev.Mouse1 {
		return mb.active
	}

	if ev.AbsoluteY == 0 {
		for i := range mb.menus {
			start := mb.titleStart(i)
			end := start + runewidth.StringWidth(mb.menus[i].Title) + 2
			if ev.AbsoluteX >= start && ev.AbsoluteX < end {
				if mb.active && mb.menuIdx == i {
					mb.close()
				} else {
					mb.open(i)
				}
				return true
			}
		}
		mb.close()
		return true
	}

	if mb.active {
		menu := mb.currentMenu()
		left := mb.titleStart(mb.menuIdx)
		row := ev.AbsoluteY - 2
		if row >= 0 && row < len(menu.Items) &&
			ev.AbsoluteX >= left && ev.AbsoluteX < left+mb.menuWidth(menu)+2 {
			if !menu.Items[row].isSeparator() {
				mb.itemIdx = row
				mb.fire()
			}
			return true
		}
		mb.close()
		return true
	}
	return false
}

func (mb *MenuBar) menuWidth(menu *Menu) int {
	width := 8
	for _, item := range menu.Items {
		width = Max(width, runewidth.StringWidth(item.Label)+2)
	}
	return width
}

// Draw renders the bar row and, when active, the open drop-down. The
// screen offset is zero during menu drawing.
func (mb *MenuBar) Draw(s *terminal.Screen, screenWidth int) {
	bar := mb.theme.Get("menubar")
	hi := mb.theme.Get("menubar.highlight")

	for x := 0; x < screenWidth; x++ {
		s.PutChar(x, 0, ' ', bar)
	}
	for i, m := range mb.menus {
		rendition := bar
		if mb.active && i == mb.menuIdx {
			rendition = hi
		}
		s.PutStr(mb.titleStart(i), 0, " "+m.Title+" ", rendition)
	}

	if !mb.active {
		return
	}

	menu := mb.currentMenu()
	left := mb.titleStart(mb.menuIdx)
	width := mb.menuWidth(menu)
	menuRend := mb.theme.Get("menu")

	s.DrawBox(left, 1, left+width+2, len(menu.Items)+3, menuRend, menuRend,
		terminal.BorderStyle_Single, true, true)

	for i, item := range menu.Items {
		if item.isSeparator() {
			s.HLine(left+1, 2+i, width, '─', menuRend)
			continue
		}
		rendition := menuRend
		if i == mb.itemIdx {
			rendition = mb.theme.Get("menu.highlight")
		}
		label := " " + item.Label
		for runewidth.StringWidth(label) < width {
			label += " "
		}
		s.PutStr(left+1, 2+i, label, rendition)
	}
}
