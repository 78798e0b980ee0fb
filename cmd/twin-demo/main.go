// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command twin-demo shows off the toolkit: overlapping windows, the usual
// widgets, and an embedded shell.
package main

import (
	"flag"
	"fmt"
	"os"

	"log/slog"

	"github.com/ericwq/twin/util"
	"github.com/ericwq/twin/widget"
)

func main() {
	usePty := flag.Bool("pty", false, "give the embedded shell a real pseudoterminal")
	verbose := flag.Bool("verbose", false, "debug logging to the log file")
	logPath := flag.String("log", "", "log file path (default: discard)")
	flag.Parse()

	// the tty belongs to the UI; logs go to a file or nowhere
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %s\n", err)
			os.Exit(1)
		}
		defer f.Close()
		util.Logger.SetOutput(f)
	} else {
		devnull, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		util.Logger.SetOutput(devnull)
	}
	if *verbose {
		util.Logger.SetLevel(slog.LevelDebug)
	}

	app, err := widget.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "twin-demo: %s\n", err)
		os.Exit(1)
	}

	buildMenus(app, *usePty)
	buildWidgetWindow(app)

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "twin-demo: %s\n", err)
		os.Exit(1)
	}
}

func buildMenus(app *widget.App, usePty bool) {
	app.MenuBar().AddMenu(widget.Menu{Title: "File", Items: []widget.MenuItem{
		{Label: "New terminal", Hotkey: 't', Action: func() { openTerminal(app, usePty) }},
		{Label: "Text viewer", Hotkey: 'v', Action: func() { openViewer(app) }},
		{Label: "Editor", Hotkey: 'e', Action: func() { openEditor(app) }},
		widget.Separator(),
		{Label: "Exit", Hotkey: 'x', Action: app.Quit},
	}})
	app.MenuBar().AddMenu(widget.Menu{Title: "Help", Items: []widget.MenuItem{
		{Label: "About", Hotkey: 'a', Action: func() { openAbout(app) }},
	}})
}

func buildWidgetWindow(app *widget.App) {
	theme := app.Theme()
	win := widget.NewWindow(app, "Widgets", 4, 3, 44, 16)

	win.Add(widget.NewLabel(theme, 1, 0, "A sampler of the available controls:"))

	field := widget.NewField(theme, 1, 2, 24)
	field.SetText("edit me")
	win.Add(field)

	win.Add(widget.NewCheckbox(theme, 1, 4, "Blinking cursor", true))
	win.Add(widget.NewRadioGroup(theme, 1, 6, "Speed", []string{"9600", "38400", "115200"}))

	progress := widget.NewProgressBar(theme, 1, 11, 28)
	progress.SetPercent(42)
	win.Add(progress)

	win.Add(widget.NewButton(theme, 1, 13, "More", func() { progress.SetPercent(progress.Percent() + 7) }))
	win.Add(widget.NewButton(theme, 12, 13, "Close", win.Close))

	app.AddWindow(win)
}

func openTerminal(app *widget.App, usePty bool) {
	tw, err := widget.NewTerminalShell(app, 8, 2, usePty)
	if err != nil {
		util.Logger.Warn("terminal spawn failed", "error", err)
		return
	}
	app.AddWindow(tw.Window())
}

func openViewer(app *widget.App) {
	win := widget.NewWindow(app, "Viewer", 12, 5, 48, 14)
	win.Add(widget.NewText(app.Theme(), 0, 0, 44, 10,
		"The screen compositor keeps a logical and a physical grid and "+
			"emits the minimal escape-sequence delta between the two on "+
			"every flush, so redraws stay cheap even on slow links.\n\n"+
			"Scroll with the arrow keys, PgUp and PgDn, or the wheel."))
	app.AddWindow(win)
}

func openEditor(app *widget.App) {
	win := widget.NewWindow(app, "Editor", 16, 4, 50, 15)
	win.Add(widget.NewEditor(app.Theme(), 0, 0, 46, 11, "Scratch buffer.\n"))
	app.AddWindow(win)
}

func openAbout(app *widget.App) {
	win := widget.NewWindow(app, "About", 20, 7, 36, 8)
	win.Modal = true
	win.Resizable = false
	win.Add(widget.NewLabel(app.Theme(), 2, 1, "twin - a text windowing toolkit"))
	win.Add(widget.NewLabel(app.Theme(), 2, 2, "VT102 emulation, no curses."))
	win.Add(widget.NewButton(app.Theme(), 13, 4, "OK", win.Close))
	app.AddWindow(win)
}
