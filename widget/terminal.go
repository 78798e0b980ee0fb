// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"os"
	"os/exec"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/creack/pty"
	"github.com/ericwq/twin/terminal"
	"github.com/ericwq/twin/util"
	"golang.org/x/sys/unix"
)

const (
	termCols = 80
	termRows = 24

	// per-tick read cap keeps a chatty child from starving the UI
	termReadChunk = 1024
)

// TerminalWidget hosts a child shell behind an ECMA-48 emulator and renders
// its display grid. It composes a generic window rather than extending one:
// the window frame, move/close behavior and z-order stay generic, the
// widget owns the body.
type TerminalWidget struct {
	base

	win *Window
	emu *terminal.Emulator

	cmd    *exec.Cmd
	ptmx   *os.File // pty mode
	stdin  *os.File // pipe mode
	stdout *os.File // pipe mode, stderr merged

	usePty  bool
	offline bool

	decodeBuf []byte // carries partial UTF-8 sequences between ticks
	lastByte  byte   // CR tracking for the lone-LF fixup in pipe mode
}

// NewTerminalShell spawns an interactive shell in a new session and wires
// it to a fresh 80x24 VT102 emulator. With usePty the child gets a real
// controlling terminal; without, plain pipes with stderr merged, which
// limits fidelity to programs that do not require a TTY.
func NewTerminalShell(app *App, x, y int, usePty bool) (*TerminalWidget, error) {
	shell, err := util.GetShell()
	if err != nil || shell == "" {
		shell = "/bin/bash"
	}

	t := &TerminalWidget{
		base:   newBase(0, 0, termCols, termRows),
		emu:    terminal.NewEmulator(termCols, termRows, terminal.DeviceType_VT102, terminal.DefaultSaveLines),
		usePty: usePty,
	}

	cmd := exec.Command(shell, "-i")
	cmd.Env = append(os.Environ(), "TERM=vt102")

	if usePty {
		winsize := util.ConvertWinsize(&unix.Winsize{Row: termRows, Col: termCols})
		ptmx, err := pty.StartWithSize(cmd, winsize)
		if err != nil {
			return nil, err
		}
		t.ptmx = ptmx
	} else {
		stdinR, stdinW, err := os.Pipe()
		if err != nil {
			return nil, err
		}
		stdoutR, stdoutW, err := os.Pipe()
		if err != nil {
			stdinR.Close()
			stdinW.Close()
			return nil, err
		}

		cmd.Stdin = stdinR
		cmd.Stdout = stdoutW
		cmd.Stderr = stdoutW
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

		if err := cmd.Start(); err != nil {
			stdinR.Close()
			stdinW.Close()
			stdoutR.Close()
			stdoutW.Close()
			return nil, err
		}
		// the parent keeps only its ends of the pipes
		stdinR.Close()
		stdoutW.Close()
		t.stdin = stdinW
		t.stdout = stdoutR
	}
	t.cmd = cmd

	t.emu.SetWriteRemote(func(resp string) {
		t.writeChild([]byte(resp))
	})

	win := NewWindow(app, shell, x, y, termCols+2, termRows+2)
	win.onKey = t.handleKey
	win.onClose = t.shutdown
	win.Add(t)
	t.win = win

	util.Logger.Info("terminal widget started", "shell", shell, "pty", usePty, "pid", cmd.Process.Pid)
	return t, nil
}

func (t *TerminalWidget) Window() *Window               { return t.win }
func (t *TerminalWidget) Emulator() *terminal.Emulator  { return t.emu }
func (t *TerminalWidget) Offline() bool                 { return t.offline }

func (t *TerminalWidget) childOut() *os.File {
	if t.usePty {
		return t.ptmx
	}
	return t.stdout
}

func (t *TerminalWidget) writeChild(data []byte) {
	if t.offline {
		return
	}
	var err error
	if t.usePty {
		_, err = t.ptmx.Write(data)
	} else {
		_, err = t.stdin.Write(data)
	}
	if err != nil {
		util.Logger.Warn("write to child failed", "error", err)
	}
}

// handleKey owns the whole keyboard while the terminal window is focused.
func (t *TerminalWidget) handleKey(k terminal.Keypress) bool {
	if t.offline {
		return false
	}
	seq := t.emu.Keypress(k)
	if seq == "" {
		return false
	}
	t.writeChild([]byte(seq))
	return true
}

func (t *TerminalWidget) HandleKey(k terminal.Keypress) bool {
	return t.handleKey(k)
}

// OnResize follows the window body: the emulator grid changes size and, in
// PTY mode, the kernel's idea of the terminal follows via TIOCSWINSZ so the
// child sees a SIGWINCH.
func (t *TerminalWidget) OnResize(width, height int) {
	t.base.OnResize(width, height)
	t.emu.Resize(t.width, t.height)

	if t.usePty && t.ptmx != nil {
		ws := &unix.Winsize{Row: uint16(t.height), Col: uint16(t.width)}
		if err := pty.Setsize(t.ptmx, util.ConvertWinsize(ws)); err != nil {
			util.Logger.Warn("pty resize failed", "error", err)
		}
	}
}

// OnIdle polls the child with a zero timeout and pumps available output
// through the emulator, at most termReadChunk bytes per tick.
func (t *TerminalWidget) OnIdle() {
	if t.offline {
		return
	}
	out := t.childOut()
	if out == nil {
		return
	}

	fds := []unix.PollFd{{Fd: int32(out.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 || fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
		return
	}

	buf := make([]byte, termReadChunk)
	count, err := out.Read(buf)
	if count > 0 {
		t.pump(buf[:count])
	}
	if err != nil || (count == 0 && fds[0].Revents&unix.POLLHUP != 0) {
		t.goOffline()
	}
}

// pump feeds child output through the emulator one code point at a time.
// In pipe mode a lone LF gains a CR first, since no line discipline does
// that translation for us.
func (t *TerminalWidget) pump(data []byte) {
	t.decodeBuf = append(t.decodeBuf, data...)

	for len(t.decodeBuf) > 0 {
		if !t.usePty && t.decodeBuf[0] == '\n' && t.lastByte != '\r' {
			t.emu.Consume('\r')
		}
		r, size := utf8.DecodeRune(t.decodeBuf)
		if r == utf8.RuneError && size == 1 && !utf8.FullRune(t.decodeBuf) {
			break // wait for the continuation bytes
		}
		t.lastByte = t.decodeBuf[size-1]
		t.decodeBuf = t.decodeBuf[size:]
		t.emu.Consume(r)
	}
}

// goOffline marks the widget dead: the title is annotated, the child is
// reaped, polling stops, writes are ignored.
func (t *TerminalWidget) goOffline() {
	if t.offline {
		return
	}
	t.offline = true
	t.reap()
	if t.win != nil {
		t.win.SetTitle(t.win.Title() + " (offline)")
	}
	util.Logger.Info("terminal widget offline")
}

func (t *TerminalWidget) reap() {
	if t.cmd != nil && t.cmd.Process != nil {
		t.cmd.Process.Signal(syscall.SIGTERM)

		done := make(chan struct{})
		go func() {
			t.cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.cmd.Process.Kill()
			<-done
		}
		t.cmd = nil
	}

	if t.ptmx != nil {
		t.ptmx.Close()
		t.ptmx = nil
	}
	if t.stdin != nil {
		t.stdin.Close()
		t.stdin = nil
	}
	if t.stdout != nil {
		t.stdout.Close()
		t.stdout = nil
	}
}

// shutdown runs on window close: terminate and reap the child.
func (t *TerminalWidget) shutdown() {
	t.offline = true
	t.reap()
}

func (t *TerminalWidget) OnClose() {
	t.shutdown()
}

// Draw renders the emulator display into the window body, resolving
// reverse video into swapped colors.
func (t *TerminalWidget) Draw(s *terminal.Screen) {
	reverse := t.emu.ReverseVideo()

	for y, row := range t.emu.Display() {
		rowReverse := reverse != row.GetReverseColor()
		for x := 0; x < t.emu.Width(); x++ {
			cell := row.GetCell(x)
			rend := cell.GetRenditions().Resolved(rowReverse)
			s.PutChar(t.x+x, t.y+y, cell.GetContents(), rend)
		}
	}

	if t.emu.CursorVisible() && t.focused && !t.offline {
		cy, cx := t.emu.GetCursorRow(), t.emu.GetCursorCol()
		row := t.emu.Display()[cy]
		cell := row.GetCell(cx)
		rend := cell.GetRenditions().Resolved(reverse == row.GetReverseColor())
		s.PutChar(t.x+cx, t.y+cy, cell.GetContents(), rend)
	}
}
