// Package app is the GPU frontend: a raylib window that embeds one model
// viewport and adapts the window system to the viewer's collaborator
// interfaces (renderer, tick source, event queue, visibility and
// fullscreen signals).
package app

import (
	"image/color"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"github.com/philipparndt/stlview/internal/config"
	"github.com/philipparndt/stlview/internal/viewer"
	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/stl"
	"github.com/philipparndt/stlview/pkg/watcher"
)

// Options carries everything the frontend needs to open a viewport.
type Options struct {
	Source          string
	FOVDegrees      float64
	Width           int
	Height          int
	Background      color.RGBA
	Floor           color.RGBA
	Model           color.RGBA
	FullscreenLabel string
	WatchEnabled    bool
	WatchDebounce   time.Duration
}

// OptionsFromConfig builds Options for a model reference from the loaded
// configuration.
func OptionsFromConfig(source string) Options {
	return Options{
		Source:          source,
		FOVDegrees:      config.GetFloat("camera.fovDegrees"),
		Width:           config.GetInt("window.width"),
		Height:          config.GetInt("window.height"),
		Background:      config.GetColor("viewer.backgroundColor"),
		Floor:           config.GetColor("viewer.floorColor"),
		Model:           config.GetColor("viewer.modelColor"),
		FullscreenLabel: config.GetString("viewer.fullscreenLabel"),
		WatchEnabled:    config.GetBool("watch.enabled"),
		WatchDebounce:   time.Duration(config.GetInt("watch.debounceMs")) * time.Millisecond,
	}
}

// App owns the window, the scene handles and the viewer session. Scene
// objects are held as typed fields; nothing is rediscovered by traversing
// the scene.
type App struct {
	opts Options
	log  zerolog.Logger

	// queue is the single event queue; the main loop drains it once per
	// frame. pendingTick holds at most one scheduled render tick.
	queue       chan func()
	pendingTick func()

	coord *viewer.Coordinator
	sched *viewer.Scheduler

	// Committed scene content.
	model      *stl.Mesh
	mesh       rl.Mesh
	material   rl.Material
	transform  rl.Matrix
	placement  framing.Placement
	meshLoaded bool

	// Reflective floor: resampled from a mirrored viewpoint every tick.
	floor      rl.Model
	reflection rl.RenderTexture2D
	hasFloor   bool

	camera      rl.Camera3D
	camDistance float32
	camAngleX   float32
	camAngleY   float32

	aspect     float64
	wasVisible bool
	fullscreen bool

	fileWatcher   *watcher.FileWatcher
	reloadPending bool
	loadErr       error
}

// Run opens the window and drives the frontend until it is closed.
func Run(opts Options, log zerolog.Logger) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "stlview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	a := &App{
		opts:  opts,
		log:   log,
		queue: make(chan func(), 64),
	}
	a.startSession()

	if opts.WatchEnabled && isLocalFile(opts.Source) {
		if err := a.setupWatcher(); err != nil {
			a.log.Warn().Err(err).Msg("file watching unavailable, auto-reload disabled")
		} else {
			defer a.fileWatcher.Close()
		}
	}

	for !rl.WindowShouldClose() {
		a.pump()
		a.pollSignals()
		a.handleInput()

		if a.reloadPending {
			a.restartSession()
		}

		if tick := a.pendingTick; tick != nil {
			a.pendingTick = nil
			tick()
		} else {
			a.drawIdleFrame()
		}
	}

	a.coord.Teardown()
	a.unloadScene()
	return nil
}

// Post implements viewer.Dispatcher. Work lands on the main loop's queue
// and runs on the render thread.
func (a *App) Post(fn func()) {
	a.queue <- fn
}

// RequestTick implements viewer.TickSource. The main loop executes at most
// one tick per frame, so ticks are never re-entrant.
func (a *App) RequestTick(fn func()) {
	a.pendingTick = fn
}

// pump drains the event queue on the main thread.
func (a *App) pump() {
	for {
		select {
		case fn := <-a.queue:
			fn()
		default:
			return
		}
	}
}

// pollSignals translates window state into the coordinator's signals:
// minimize/hide is the visibility signal, F toggles fullscreen, and
// resizes outside fullscreen recompute the projection.
func (a *App) pollSignals() {
	visible := !rl.IsWindowMinimized() && !rl.IsWindowHidden()
	if visible != a.wasVisible {
		a.wasVisible = visible
		a.coord.HandleVisibility(visible)
	}

	if rl.IsKeyPressed(rl.KeyF) {
		rl.ToggleFullscreen()
		a.fullscreen = rl.IsWindowFullscreen()
		monitor := rl.GetCurrentMonitor()
		a.coord.HandleFullscreenChange(a.fullscreen, rl.GetMonitorWidth(monitor), rl.GetMonitorHeight(monitor))
	}

	if rl.IsWindowResized() && !a.fullscreen {
		a.coord.HandleResize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}
}

// startSession creates a fresh viewer instance. The current element size
// is captured once here; fullscreen exit restores it.
func (a *App) startSession() {
	a.loadErr = nil
	a.sched = viewer.NewScheduler(a, a, a.log)
	a.coord = viewer.NewCoordinator(a, a.sched, a, viewer.Config{
		Source:     a.opts.Source,
		FOVDegrees: a.opts.FOVDegrees,
		InitialSize: viewer.Size{
			Width:  a.opts.Width,
			Height: a.opts.Height,
		},
	}, a.log)
	a.coord.SetErrorHandler(func(err error) {
		a.loadErr = err
	})

	// Force a fresh visibility edge so the new instance loads.
	a.wasVisible = false
}

// restartSession replaces the viewer instance after the source file
// changed. Each instance fetches its model exactly once, so a reload is a
// teardown plus a new session.
func (a *App) restartSession() {
	a.reloadPending = false
	a.log.Info().Str("source", a.opts.Source).Msg("source changed, reloading")

	a.coord.Teardown()
	a.pendingTick = nil
	a.unloadScene()
	a.startSession()
}

func (a *App) setupWatcher() error {
	fw, err := watcher.New(a.opts.WatchDebounce, a.log)
	if err != nil {
		return err
	}
	if err := fw.Watch(a.opts.Source, func(string) {
		a.Post(func() {
			a.reloadPending = true
		})
	}); err != nil {
		fw.Close()
		return err
	}
	a.fileWatcher = fw
	return nil
}

func isLocalFile(ref string) bool {
	return !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://")
}

func toRaylibColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
