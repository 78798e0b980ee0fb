// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"fmt"

	"github.com/ericwq/twin/terminal"
)

// ProgressBar shows a percentage as a filled bar. It never takes focus.
type ProgressBar struct {
	base

	percent int
	theme   Theme
}

func NewProgressBar(theme Theme, x, y, width int) *ProgressBar {
	p := &ProgressBar{
		base:  newBase(x, y, Max(width, 6), 1),
		theme: theme,
	}
	p.enabled = false
	return p
}

func (p *ProgressBar) Percent() int { return p.percent }

func (p *ProgressBar) SetPercent(percent int) {
	p.percent = clamp(percent, 0, 100)
}

func (p *ProgressBar) Draw(s *terminal.Screen) {
	rend := p.theme.Get("progress")

	label := fmt.Sprintf(" %3d%%", p.percent)
	barWidth := p.width - len(label)
	filled := barWidth * p.percent / 100

	for i := 0; i < barWidth; i++ {
		ch := '░'
		if i < filled {
			ch = '█'
		}
		s.PutChar(p.x+i, p.y, ch, rend)
	}
	s.PutStr(p.x+barWidth, p.y, label, rend)
}
