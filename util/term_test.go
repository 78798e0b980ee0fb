// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package util

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestConvertWinsize(t *testing.T) {
	if got := ConvertWinsize(nil); got != nil {
		t.Errorf("nil winsize expect nil, got %v", got)
	}

	ws := &unix.Winsize{Row: 24, Col: 80, Xpixel: 640, Ypixel: 480}
	sz := ConvertWinsize(ws)
	if sz.Rows != 24 || sz.Cols != 80 || sz.X != 640 || sz.Y != 480 {
		t.Errorf("expect 24x80 640x480, got %+v", sz)
	}
}

func TestCheckIUTF8BadFd(t *testing.T) {
	// not a terminal: the ioctl must fail, not lie
	if _, err := CheckIUTF8(-1); err == nil {
		t.Error("expect error for invalid fd")
	}
	if err := SetIUTF8(-1); err == nil {
		t.Error("expect error for invalid fd")
	}
}
