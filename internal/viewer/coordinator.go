package viewer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/stl"
)

// Fetcher resolves a model reference to its raw bytes. stl.Fetch is the
// production implementation.
type Fetcher func(ctx context.Context, ref string) ([]byte, error)

// Config carries the immutable inputs of one viewer instance.
type Config struct {
	// Source is the URI or path of the STL byte stream, fetched at most
	// once per viewer instance.
	Source string
	// FOVDegrees is the camera's vertical field of view.
	FOVDegrees float64
	// InitialSize is the element size at attach time, restored when
	// fullscreen exits.
	InitialSize Size
}

// Coordinator glues model ingestion to the visibility signal. The first
// transition to visible triggers fetch, decode, framing and commit exactly
// once; every later transition toggles the scheduler. Resize and
// fullscreen changes only update the projection, never re-decode.
//
// All Handle methods must be called on the dispatcher queue. The fetch and
// decode run on a background goroutine and post their result back onto the
// queue, so a pause that arrives while the commit is in flight applies
// after the commit.
type Coordinator struct {
	renderer Renderer
	sched    *Scheduler
	disp     Dispatcher
	fetch    Fetcher
	cfg      Config
	log      zerolog.Logger

	session    Session
	visible    bool
	loading    bool
	loadFailed bool
	tornDown   bool

	onError func(error)
}

// NewCoordinator wires a coordinator to its collaborators. The element
// size in cfg is captured into the session as the pre-fullscreen size.
func NewCoordinator(renderer Renderer, sched *Scheduler, disp Dispatcher, cfg Config, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		renderer: renderer,
		sched:    sched,
		disp:     disp,
		fetch:    stl.Fetch,
		cfg:      cfg,
		log:      log.With().Str("component", "coordinator").Str("source", cfg.Source).Logger(),
		session: Session{
			LastKnownElementSize: cfg.InitialSize,
		},
	}
}

// SetErrorHandler registers the callback that surfaces terminal load
// failures to the embedding context.
func (c *Coordinator) SetErrorHandler(fn func(error)) {
	c.onError = fn
}

// SetFetcher replaces the resource fetcher. Intended for tests.
func (c *Coordinator) SetFetcher(fetch Fetcher) {
	c.fetch = fetch
}

// Session returns a copy of the current session state.
func (c *Coordinator) Session() Session {
	return c.session
}

// HandleVisibility processes an intersection signal transition.
func (c *Coordinator) HandleVisibility(visible bool) {
	if c.tornDown {
		return
	}
	c.visible = visible

	if visible {
		if !c.session.ModelLoaded && !c.loading && !c.loadFailed {
			c.beginLoad()
		}
		c.resumeRendering()
		return
	}

	// A fullscreen surface is never off-screen by the intersection
	// criterion; keep rendering until fullscreen exits.
	if !c.session.IsFullScreen {
		c.pauseRendering()
	}
}

// HandleResize recomputes the projection for a new element size. Invalid
// dimensions are skipped and the last valid projection kept.
func (c *Coordinator) HandleResize(width, height int) {
	if c.tornDown {
		return
	}
	c.applyViewport(width, height)
}

// HandleFullscreenChange reacts to the platform's fullscreen notification.
// Entering uses the platform-reported viewport size; exiting restores the
// element size captured at session creation.
func (c *Coordinator) HandleFullscreenChange(active bool, viewportWidth, viewportHeight int) {
	if c.tornDown {
		return
	}
	c.session.IsFullScreen = active

	if active {
		c.applyViewport(viewportWidth, viewportHeight)
		c.resumeRendering()
		return
	}

	cached := c.session.LastKnownElementSize
	c.applyViewport(cached.Width, cached.Height)
	if !c.visible {
		c.pauseRendering()
	}
}

// Teardown detaches the viewer. A decode still in flight will complete
// and find the session gone; its result is dropped without touching the
// scene.
func (c *Coordinator) Teardown() {
	if c.tornDown {
		return
	}
	c.tornDown = true
	c.sched.Pause()
	c.log.Debug().Msg("viewer torn down")
}

func (c *Coordinator) beginLoad() {
	c.loading = true
	c.log.Info().Msg("loading model")

	go func() {
		data, err := c.fetch(context.Background(), c.cfg.Source)
		var mesh *stl.Mesh
		if err == nil {
			mesh, err = stl.Decode(data)
		}
		c.disp.Post(func() {
			c.finishLoad(mesh, err)
		})
	}()
}

func (c *Coordinator) finishLoad(mesh *stl.Mesh, err error) {
	c.loading = false
	if c.tornDown {
		return
	}
	if err != nil {
		c.fail(err)
		return
	}

	placement := framing.Frame(mesh, c.cfg.FOVDegrees)
	if err := placement.Validate(); err != nil {
		c.fail(err)
		return
	}
	if err := c.renderer.CommitMesh(mesh, placement); err != nil {
		c.fail(err)
		return
	}

	c.session.ModelLoaded = true
	c.log.Info().Int("triangles", mesh.TriangleCount()).Msg("model committed")

	c.sched.Start()
	// Visibility may have been lost while decoding: commit first, then
	// honor the pause.
	if !c.visible && !c.session.IsFullScreen {
		c.pauseRendering()
	}
}

// fail marks the load attempt as terminal: no automatic retry, no render
// loop, and the failure goes to the embedding context instead of escaping
// into the visibility callback.
func (c *Coordinator) fail(err error) {
	c.loadFailed = true
	c.log.Error().Err(err).Msg("model load failed")
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Coordinator) resumeRendering() {
	c.session.RenderPaused = false
	c.sched.Resume()
}

func (c *Coordinator) pauseRendering() {
	c.session.RenderPaused = true
	c.sched.Pause()
}

func (c *Coordinator) applyViewport(width, height int) {
	if width <= 0 || height <= 0 {
		c.log.Warn().Int("width", width).Int("height", height).Msg("skipping viewport update with invalid dimensions")
		return
	}
	c.renderer.SetViewportSize(width, height)
	c.renderer.SetProjection(float64(width) / float64(height))
}
