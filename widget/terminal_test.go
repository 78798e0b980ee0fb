// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"os"
	"testing"

	"github.com/ericwq/twin/terminal"
)

// pipeWidget builds a terminal widget around a bare pipe instead of a
// child process, so the pump and offline paths run deterministically.
func pipeWidget(t *testing.T) (*TerminalWidget, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	tw := &TerminalWidget{
		base:   newBase(0, 0, termCols, termRows),
		emu:    terminal.NewEmulator(termCols, termRows, terminal.DeviceType_VT102, terminal.DefaultSaveLines),
		stdout: r,
	}
	t.Cleanup(func() { tw.reap() })
	return tw, w
}

func TestTerminalWidgetPump(t *testing.T) {
	tw, w := pipeWidget(t)

	w.WriteString("hello\nworld")
	tw.OnIdle()

	if got := tw.emu.Display()[0].String(5); got != "hello" {
		t.Errorf("row 0 expect %q, got %q", "hello", got)
	}
	// the lone LF gains a CR in pipe mode, so world starts at column 0
	if got := tw.emu.Display()[1].String(5); got != "world" {
		t.Errorf("row 1 expect %q, got %q", "world", got)
	}
	w.Close()
}

func TestTerminalWidgetCRLFUntouched(t *testing.T) {
	tw, w := pipeWidget(t)

	w.WriteString("a\r\nb")
	tw.OnIdle()

	if got := tw.emu.Display()[1].String(1); got != "b" {
		t.Errorf("row 1 expect %q, got %q", "b", got)
	}
	w.Close()
}

func TestTerminalWidgetPartialUTF8(t *testing.T) {
	tw, w := pipeWidget(t)

	// a two-byte sequence split across ticks
	w.Write([]byte{0xcf})
	tw.OnIdle()
	w.Write([]byte{0x80}) // π
	tw.OnIdle()

	if got := tw.emu.Display()[0].GetCell(0).GetContents(); got != 'π' {
		t.Errorf("expect π, got %q", got)
	}
	w.Close()
}

func TestTerminalWidgetOffline(t *testing.T) {
	tw, w := pipeWidget(t)

	w.WriteString("bye")
	w.Close()

	// drain the data, then hit EOF
	for i := 0; i < 10 && !tw.Offline(); i++ {
		tw.OnIdle()
	}

	if !tw.Offline() {
		t.Fatal("expect offline after EOF")
	}
	if got := tw.emu.Display()[0].String(3); got != "bye" {
		t.Errorf("expect %q before EOF, got %q", "bye", got)
	}

	// writes to a dead child are ignored, reads stop
	tw.writeChild([]byte("ignored"))
	tw.OnIdle()
}

func TestTerminalWidgetResize(t *testing.T) {
	tw, w := pipeWidget(t)
	defer w.Close()

	tw.OnResize(40, 10)
	if tw.emu.Width() != 40 || tw.emu.Height() != 10 {
		t.Errorf("emulator expect 40x10 after resize, got %dx%d",
			tw.emu.Width(), tw.emu.Height())
	}
}

func TestTerminalWidgetKeypress(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	tw := &TerminalWidget{
		base:  newBase(0, 0, termCols, termRows),
		emu:   terminal.NewEmulator(termCols, termRows, terminal.DeviceType_VT102, terminal.DefaultSaveLines),
		stdin: w,
	}

	tw.HandleKey(terminal.Keypress{Key: terminal.KeyUp})
	buf := make([]byte, 16)
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != "\033[A" {
		t.Errorf("expect %q written to the child, got %q", "\033[A", got)
	}
	w.Close()
}

func TestTerminalWidgetDAReplyReachesChild(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	tw := &TerminalWidget{
		base:  newBase(0, 0, termCols, termRows),
		emu:   terminal.NewEmulator(termCols, termRows, terminal.DeviceType_VT102, terminal.DefaultSaveLines),
		stdin: w,
	}
	tw.emu.SetWriteRemote(func(resp string) { tw.writeChild([]byte(resp)) })

	// the child asks who we are; the reply flows back through stdin
	tw.emu.ConsumeString("\033[c")

	buf := make([]byte, 16)
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != "\033[?6c" {
		t.Errorf("expect DA reply %q, got %q", "\033[?6c", got)
	}
	w.Close()
}
