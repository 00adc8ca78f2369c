package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/philipparndt/stlview/internal/config"
	"github.com/philipparndt/stlview/internal/gui"
	"github.com/philipparndt/stlview/internal/viewer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: stlview-gui <file-or-url>")
		os.Exit(1)
	}
	source := os.Args[1]

	if err := config.Load("."); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(config.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	a := fyneapp.New()
	w := a.NewWindow("stlview - " + source)

	width := config.GetInt("window.width")
	height := config.GetInt("window.height")
	fov := config.GetFloat("camera.fovDegrees")

	view := gui.NewModelView(config.GetColor("viewer.modelColor"), fov)
	backend := gui.NewBackend(w, view, log)

	sched := viewer.NewScheduler(backend, backend, log)
	coord := viewer.NewCoordinator(backend, sched, backend, viewer.Config{
		Source:      source,
		FOVDegrees:  fov,
		InitialSize: viewer.Size{Width: width, Height: height},
	}, log)
	coord.SetErrorHandler(func(err error) {
		dialog.ShowError(err, w)
	})

	fullscreen := false
	fullscreenButton := widget.NewButton(config.GetString("viewer.fullscreenLabel"), nil)
	fullscreenButton.OnTapped = func() {
		fullscreen = !fullscreen
		backend.SetFullscreen(fullscreen)

		size := w.Canvas().Size()
		coord.HandleFullscreenChange(fullscreen, int(size.Width), int(size.Height))
	}

	w.SetContent(container.NewBorder(
		container.NewHBox(fullscreenButton),
		nil, nil, nil,
		view,
	))

	// Foreground/background transitions are the visibility signal; the
	// first entered-foreground triggers the model load.
	a.Lifecycle().SetOnEnteredForeground(func() {
		coord.HandleVisibility(true)
	})
	a.Lifecycle().SetOnExitedForeground(func() {
		coord.HandleVisibility(false)
	})

	w.SetOnClosed(coord.Teardown)

	w.Resize(fyne.NewSize(float32(width), float32(height)))
	w.ShowAndRun()
}
