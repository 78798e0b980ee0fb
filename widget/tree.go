// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"github.com/ericwq/twin/terminal"
)

// TreeNode is one entry in a TreeView.
type TreeNode struct {
	Label    string
	Children []*TreeNode
	Expanded bool
}

func (n *TreeNode) Add(label string) *TreeNode {
	child := &TreeNode{Label: label}
	n.Children = append(n.Children, child)
	return child
}

type flatNode struct {
	node  *TreeNode
	depth int
}

// TreeView shows a collapsible tree with keyboard and mouse selection.
type TreeView struct {
	base

	root     *TreeNode
	selected int // index into the flattened visible list
	scrollY  int

	theme    Theme
	onSelect func(*TreeNode)
}

func NewTreeView(theme Theme, x, y, width, height int, root *TreeNode) *TreeView {
	return &TreeView{
		base:  newBase(x, y, width, height),
		root:  root,
		theme: theme,
	}
}

func (t *TreeView) SetOnSelect(fn func(*TreeNode)) { t.onSelect = fn }

// flatten walks the expanded part of the tree in display order. The root's
// children are the top level; the root itself stays hidden.
func (t *TreeView) flatten() []flatNode {
	var out []flatNode
	var walk func(n *TreeNode, depth int)
	walk = func(n *TreeNode, depth int) {
		for _, child := range n.Children {
			out = append(out, flatNode{child, depth})
			if child.Expanded {
				walk(child, depth+1)
			}
		}
	}
	if t.root != nil {
		walk(t.root, 0)
	}
	return out
}

func (t *TreeView) SelectedNode() *TreeNode {
	flat := t.flatten()
	if t.selected < 0 || t.selected >= len(flat) {
		return nil
	}
	return flat[t.selected].node
}

func (t *TreeView) moveSelection(delta int) {
	flat := t.flatten()
	if len(flat) == 0 {
		return
	}
	t.selected = clamp(t.selected+delta, 0, len(flat)-1)
	t.scrollToSelection(len(flat))
	if t.onSelect != nil {
		t.onSelect(flat[t.selected].node)
	}
}

func (t *TreeView) scrollToSelection(total int) {
	if t.selected < t.scrollY {
		t.scrollY = t.selected
	}
	if t.selected >= t.scrollY+t.height {
		t.scrollY = t.selected - t.height + 1
	}
	t.scrollY = clamp(t.scrollY, 0, Max(0, total-t.height))
}

func (t *TreeView) toggle() {
	node := t.SelectedNode()
	if node != nil && len(node.Children) > 0 {
		node.Expanded = !node.Expanded
	}
}

func (t *TreeView) HandleKey(k terminal.Keypress) bool {
	switch k.Key {
	case terminal.KeyUp:
		t.moveSelection(-1)
	case terminal.KeyDown:
		t.moveSelection(1)
	case terminal.KeyPgUp:
		t.moveSelection(-t.height)
	case terminal.KeyPgDn:
		t.moveSelection(t.height)
	case terminal.KeyHome:
		t.moveSelection(-1 << 20)
	case terminal.KeyEnd:
		t.moveSelection(1 << 20)
	case terminal.KeyRight:
		if node := t.SelectedNode(); node != nil && !node.Expanded {
			node.Expanded = true
		}
	case terminal.KeyLeft:
		if node := t.SelectedNode(); node != nil && node.Expanded {
			node.Expanded = false
		}
	case terminal.KeyEnter:
		t.toggle()
	case terminal.KeyNone:
		if k.Ch == ' ' {
			t.toggle()
			return true
		}
		return false
	default:
		return false
	}
	return true
}

func (t *TreeView) HandleMouse(ev terminal.InputEvent) bool {
	switch {
	case ev.Type == terminal.EventType_MouseDown && ev.MouseWheelUp:
		t.scrollY = Max(0, t.scrollY-1)
		return true
	case ev.Type == terminal.EventType_MouseDown && ev.MouseWheelDown:
		t.scrollY++
		return true
	case ev.Type == terminal.EventType_MouseDown && ev.Mouse1:
		row := t.scrollY + ev.Y - t.y
		flat := t.flatten()
		if row >= 0 && row < len(flat) {
			already := row == t.selected
			t.selected = row
			if already {
				t.toggle()
			}
			if t.onSelect != nil {
				t.onSelect(flat[row].node)
			}
		}
		return true
	}
	return false
}

func (t *TreeView) Draw(s *terminal.Screen) {
	rend := t.theme.Get("tree")
	selectedRend := t.theme.Get("tree.selected")

	flat := t.flatten()
	t.scrollY = clamp(t.scrollY, 0, Max(0, len(flat)-t.height))

	for row := 0; row < t.height; row++ {
		idx := t.scrollY + row
		lineRend := rend
		if idx == t.selected && t.focused {
			lineRend = selectedRend
		}

		// blank the line first so stale glyphs never linger
		for x := 0; x < t.width; x++ {
			s.PutChar(t.x+x, t.y+row, ' ', lineRend)
		}
		if idx >= len(flat) {
			continue
		}

		fn := flat[idx]
		glyph := "  "
		if len(fn.node.Children) > 0 {
			if fn.node.Expanded {
				glyph = "- "
			} else {
				glyph = "+ "
			}
		}
		s.PutStr(t.x+fn.depth*2, t.y+row, glyph+fn.node.Label, lineRend)
	}
}
