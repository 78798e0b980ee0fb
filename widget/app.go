// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package widget

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericwq/twin/terminal"
	"github.com/ericwq/twin/util"
)

// pollTimeout gates the blocking input read so timers and child-process
// polling keep running.
const pollTimeout = 20 * time.Millisecond

// App owns the controlling terminal, the screen, the menu bar and the
// window stack. One single-threaded loop reads input, dispatches events,
// idles the widgets and flushes the screen.
type App struct {
	tty     *os.File
	raw     *terminal.RawTerminal
	reader  *terminal.RuneReader
	decoder *terminal.Decoder
	screen  *terminal.Screen
	theme   Theme

	menubar *MenuBar
	windows []*Window // back to front; the focused window is last

	winch   chan os.Signal
	running bool
	dirty   bool
}

// NewApp acquires the controlling terminal: raw mode, mouse tracking,
// meta-sends-escape, alternate screen.
func NewApp() (*App, error) {
	tty := os.Stdin

	raw, err := terminal.OpenRawTerminal(int(tty.Fd()))
	if err != nil {
		return nil, err
	}

	cols, rows, err := terminal.GetWinSize(int(tty.Fd()))
	if err != nil {
		raw.Close()
		return nil, err
	}

	app := &App{
		tty:     tty,
		raw:     raw,
		reader:  terminal.NewRuneReader(tty),
		decoder: terminal.NewDecoder(),
		screen:  terminal.NewScreen(cols, rows),
		theme:   DefaultTheme(),
		winch:   make(chan os.Signal, 1),
	}
	app.menubar = NewMenuBar(app.theme)
	signal.Notify(app.winch, syscall.SIGWINCH)

	os.Stdout.WriteString(terminal.MouseEnable + terminal.MetaSendsEscape + terminal.CursorHide)

	util.Logger.Info("application started", "cols", cols, "rows", rows)
	return app, nil
}

func (app *App) Theme() Theme      { return app.theme }
func (app *App) MenuBar() *MenuBar { return app.menubar }
func (app *App) Screen() *terminal.Screen { return app.screen }

// damage forces a repaint on the next tick.
func (app *App) damage() { app.dirty = true }

// AddWindow pushes a window on top of the stack and focuses it.
func (app *App) AddWindow(w *Window) {
	if cur := app.focusedWindow(); cur != nil {
		cur.SetFocus(false)
	}
	app.windows = append(app.windows, w)
	w.SetFocus(true)
	app.damage()
}

func (app *App) removeWindow(w *Window) {
	for i, win := range app.windows {
		if win == w {
			app.windows = append(app.windows[:i], app.windows[i+1:]...)
			break
		}
	}
	if cur := app.focusedWindow(); cur != nil {
		cur.SetFocus(true)
	}
	app.damage()
}

func (app *App) focusedWindow() *Window {
	if len(app.windows) == 0 {
		return nil
	}
	return app.windows[len(app.windows)-1]
}

// raiseWindow moves w to the top of the stack and focuses it.
func (app *App) raiseWindow(w *Window) {
	if app.focusedWindow() == w {
		return
	}
	for i, win := range app.windows {
		if win == w {
			app.windows = append(app.windows[:i], app.windows[i+1:]...)
			break
		}
	}
	if cur := app.focusedWindow(); cur != nil {
		cur.SetFocus(false)
	}
	app.windows = append(app.windows, w)
	w.SetFocus(true)
	app.damage()
}

// Quit stops the loop after the current tick.
func (app *App) Quit() { app.running = false }

// Run is the cooperative main loop. The terminal state is restored on
// every exit path, panics included.
func (app *App) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			app.Shutdown()
			panic(r)
		}
		app.Shutdown()
	}()

	app.running = true
	app.damage()

	for app.running {
		ready, perr := app.reader.Ready(pollTimeout)
		if perr != nil {
			return perr
		}

		// drain whatever arrived, one code point at a time
		for ready {
			ch, rerr := app.reader.ReadRune()
			if rerr != nil {
				return rerr
			}
			for _, ev := range app.decoder.Consume(ch, time.Now()) {
				app.dispatch(ev)
			}
			ready, perr = app.reader.Ready(0)
			if perr != nil {
				return perr
			}
		}

		// a stalled bare ESC flushes on the tick
		if app.decoder.PendingTimeout() {
			for _, ev := range app.decoder.Tick(time.Now()) {
				app.dispatch(ev)
			}
		}

		select {
		case <-app.winch:
			app.resize()
		default:
		}

		for _, w := range app.windows {
			w.OnIdle()
		}

		app.draw()
	}
	return nil
}

// Shutdown restores the terminal. Safe to call more than once.
func (app *App) Shutdown() {
	for len(app.windows) > 0 {
		app.windows[len(app.windows)-1].Close()
	}
	if app.raw != nil {
		os.Stdout.WriteString(terminal.MouseDisable + terminal.MetaSendsRestore + terminal.CursorShow)
		app.raw.Close()
		app.raw = nil
		util.Logger.Info("application shut down")
	}
}

func (app *App) resize() {
	cols, rows, err := terminal.GetWinSize(int(app.tty.Fd()))
	if err != nil {
		return
	}
	app.screen.Resize(cols, rows)
	for _, w := range app.windows {
		x, y, width, height := w.Bounds()
		w.SetPosition(clamp(x, 0, Max(0, cols-2)), clamp(y, 1, Max(1, rows-2)))
		w.OnResize(Min(width, cols), Min(height, rows))
	}
	app.damage()
}

// dispatch routes one input event: menu bar first, then the window stack.
func (app *App) dispatch(ev terminal.InputEvent) {
	app.damage()

	switch ev.Type {
	case terminal.EventType_Keypress:
		if app.menubar.HandleKey(ev.Keypress) {
			return
		}
		if w := app.focusedWindow(); w != nil {
			w.HandleKey(ev.Keypress)
		}

	case terminal.EventType_MouseDown, terminal.EventType_MouseUp,
		terminal.EventType_MouseMotion:
		if app.menubar.Active() || ev.AbsoluteY == 0 {
			if app.menubar.HandleMouse(ev) {
				return
			}
		}
		app.dispatchMouse(ev)
	}
}

// dispatchMouse hit-tests the window stack front to back. A modal focused
// window swallows everything.
func (app *App) dispatchMouse(ev terminal.InputEvent) {
	if w := app.focusedWindow(); w != nil && w.Modal {
		app.forwardMouse(w, ev)
		return
	}

	// drags continue to go to the focused window even outside its bounds
	if w := app.focusedWindow(); w != nil && (w.dragging || w.resizing) {
		app.forwardMouse(w, ev)
		return
	}

	for i := len(app.windows) - 1; i >= 0; i-- {
		w := app.windows[i]
		x, y, width, height := w.Bounds()
		if ev.AbsoluteX < x || ev.AbsoluteX >= x+width ||
			ev.AbsoluteY < y || ev.AbsoluteY >= y+height {
			continue
		}
		if ev.Type == terminal.EventType_MouseDown {
			app.raiseWindow(w)
		}
		app.forwardMouse(w, ev)
		return
	}
}

func (app *App) forwardMouse(w *Window, ev terminal.InputEvent) {
	x, y, _, _ := w.Bounds()
	ev.X = ev.AbsoluteX - x
	ev.Y = ev.AbsoluteY - y
	w.HandleMouse(ev)
}

// draw repaints desktop, windows and menu bar back to front, then flushes
// the minimal delta.
func (app *App) draw() {
	if !app.dirty && !app.screen.Dirty() {
		return
	}
	app.dirty = false

	theme := app.theme
	app.screen.SetOffset(0, 0)
	app.screen.SetClip(app.screen.Width(), app.screen.Height())

	desktop := theme.Get("desktop")
	for y := 1; y < app.screen.Height(); y++ {
		for x := 0; x < app.screen.Width(); x++ {
			app.screen.PutChar(x, y, '░', desktop)
		}
	}

	for _, w := range app.windows {
		w.Draw(app.screen)
	}

	app.screen.SetOffset(0, 0)
	app.screen.SetClip(app.screen.Width(), app.screen.Height())
	app.menubar.Draw(app.screen, app.screen.Width())

	if out := app.screen.Flush(); out != "" {
		if _, err := os.Stdout.WriteString(out); err != nil {
			// I/O loss on the controlling terminal is unrecoverable
			app.running = false
			util.Logger.Error("controlling terminal write failed", "error", err)
		}
	}
}
