package gui

import (
	"time"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"github.com/philipparndt/stlview/internal/viewer"
	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/stl"
)

const (
	tickInterval   = 33 * time.Millisecond
	turntableSpeed = 0.003 // radians per tick
)

// Backend adapts the fyne toolkit to the viewer's collaborator
// interfaces. All methods run on the fyne main goroutine; the dispatcher
// funnels background completions there via fyne.Do.
type Backend struct {
	window fyne.Window
	view   *ModelView
	log    zerolog.Logger

	aspect     float64
	fullscreen bool
}

func NewBackend(window fyne.Window, view *ModelView, log zerolog.Logger) *Backend {
	return &Backend{
		window: window,
		view:   view,
		log:    log.With().Str("component", "gui").Logger(),
	}
}

// SetFullscreen mirrors the window's fullscreen state so viewport
// restores are suppressed while the window system owns the size.
func (b *Backend) SetFullscreen(fullscreen bool) {
	b.fullscreen = fullscreen
	b.window.SetFullScreen(fullscreen)
}

// Post implements viewer.Dispatcher.
func (b *Backend) Post(fn func()) {
	fyne.Do(fn)
}

// RequestTick implements viewer.TickSource. Ticks fire on a timer and
// run on the fyne main goroutine.
func (b *Backend) RequestTick(fn func()) {
	time.AfterFunc(tickInterval, func() {
		fyne.Do(fn)
	})
}

// CommitMesh implements viewer.Renderer.
func (b *Backend) CommitMesh(mesh *stl.Mesh, placement framing.Placement) error {
	b.view.SetModel(mesh, placement)
	b.log.Debug().Int("triangles", mesh.TriangleCount()).Msg("mesh committed")
	return nil
}

// UpdateScene implements viewer.Renderer: a slow turntable drift while
// the user is idle.
func (b *Backend) UpdateScene() {
	b.view.Turntable(turntableSpeed)
}

// SubmitFrame implements viewer.Renderer. The widget repaints itself on
// camera changes, so a frame submit is a refresh of whatever is current.
func (b *Backend) SubmitFrame() {
	b.view.Refresh()
}

// SetViewportSize implements viewer.Renderer.
func (b *Backend) SetViewportSize(width, height int) {
	if b.fullscreen {
		return
	}
	b.window.Resize(fyne.NewSize(float32(width), float32(height)))
}

// SetProjection implements viewer.Renderer. The software camera derives
// its projection from the widget size each render, so only the last
// valid aspect is recorded.
func (b *Backend) SetProjection(aspect float64) {
	b.aspect = aspect
}

var (
	_ viewer.Renderer   = (*Backend)(nil)
	_ viewer.TickSource = (*Backend)(nil)
	_ viewer.Dispatcher = (*Backend)(nil)
)
