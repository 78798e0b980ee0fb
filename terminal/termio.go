// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"errors"
	"os"
	"time"
	"unicode/utf8"

	"github.com/ericwq/twin/util"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Initialization and teardown strings for the controlling terminal: xterm
// any-event mouse tracking with UTF-8 coordinates, the alternate screen, and
// meta-sends-escape.
const (
	MouseEnable      = "\033[?1003;1005h\033[>2p\033[?1049h"
	MouseDisable     = "\033[?1003;1005l\033[?1049l"
	MetaSendsEscape  = "\033[?1036h\033[?1034l"
	MetaSendsRestore = "\033[?1036l"
)

var errNotTerminal = errors.New("fd is not a terminal")

// RawTerminal is the scoped raw-mode acquisition: it snapshots the termios
// settings on Open and restores them on Close, on every exit path.
type RawTerminal struct {
	fd    int
	saved *unix.Termios
}

// OpenRawTerminal puts fd into raw mode: no canonical input, no echo, no
// signal generation, no output processing, 8-bit characters, one-byte reads.
func OpenRawTerminal(fd int) (*RawTerminal, error) {
	if !term.IsTerminal(fd) {
		return nil, errNotTerminal
	}

	saved, err := unix.IoctlGetTermios(fd, util.GetTermios)
	if err != nil {
		return nil, err
	}

	raw := *saved
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, util.SetTermios, &raw); err != nil {
		return nil, err
	}

	// the input decoder reads UTF-8; make sure the line discipline
	// agrees so erase processing stays consistent
	if ok, err := util.CheckIUTF8(fd); err == nil && !ok {
		util.SetIUTF8(fd)
	}

	return &RawTerminal{fd: fd, saved: saved}, nil
}

// Close restores the snapshotted settings.
func (rt *RawTerminal) Close() error {
	if rt.saved == nil {
		return nil
	}
	err := unix.IoctlSetTermios(rt.fd, util.SetTermios, rt.saved)
	rt.saved = nil
	return err
}

// GetWinSize queries the physical columns and rows of the terminal on fd.
func GetWinSize(fd int) (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// RuneReader reads one UTF-8 code point at a time from a file descriptor,
// detecting the continuation length from the lead byte. A Poll gate keeps
// reads from blocking the cooperative loop.
type RuneReader struct {
	file *os.File
	buf  [utf8.UTFMax]byte
}

func NewRuneReader(file *os.File) *RuneReader {
	return &RuneReader{file: file}
}

// Ready polls the descriptor with the given timeout and reports whether a
// read would not block.
func (rr *RuneReader) Ready(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(rr.file.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil && err != unix.EINTR {
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

// ReadRune reads exactly one code point. A byte that cannot start a UTF-8
// sequence decodes as the replacement character on its own; after a valid
// lead byte the full sequence length is consumed, and malformed
// continuation bytes make the whole sequence decode as the replacement
// character.
func (rr *RuneReader) ReadRune() (rune, error) {
	if _, err := rr.file.Read(rr.buf[:1]); err != nil {
		return 0, err
	}

	lead := rr.buf[0]
	n := 1
	switch {
	case lead < 0x80:
		return rune(lead), nil
	case lead&0xe0 == 0xc0:
		n = 2
	case lead&0xf0 == 0xe0:
		n = 3
	case lead&0xf8 == 0xf0:
		n = 4
	default:
		return utf8.RuneError, nil
	}

	for i := 1; i < n; i++ {
		if _, err := rr.file.Read(rr.buf[i : i+1]); err != nil {
			return 0, err
		}
	}
	r, _ := utf8.DecodeRune(rr.buf[:n])
	return r, nil
}
