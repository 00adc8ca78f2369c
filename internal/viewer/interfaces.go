// Package viewer orchestrates the lifecycle of a single embedded model
// viewport: when to load the model, when to render, and how visibility and
// fullscreen transitions drive the render loop. The rendering engine, the
// tick source and the event queue are collaborators injected by the
// embedding frontend.
package viewer

import (
	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/stl"
)

// Renderer is the rendering engine collaborator. The coordinator commits
// exactly one mesh per viewer instance; the scheduler drives UpdateScene
// and SubmitFrame once per tick while running.
type Renderer interface {
	// CommitMesh hands the decoded mesh and its placement to the scene.
	// Called at most once per viewer instance.
	CommitMesh(mesh *stl.Mesh, placement framing.Placement) error

	// UpdateScene advances time-varying scene elements (a reflective
	// surface resampling the scene, a turntable) by one tick.
	UpdateScene()

	// SubmitFrame renders one frame.
	SubmitFrame()

	// SetViewportSize resizes the render target.
	SetViewportSize(width, height int)

	// SetProjection updates the camera projection for a new aspect ratio.
	SetProjection(aspect float64)
}

// TickSource schedules render ticks. RequestTick must invoke fn later on
// the event queue, never synchronously from within the requesting call;
// the scheduler relies on this to keep the render loop iterative.
type TickSource interface {
	RequestTick(fn func())
}

// Dispatcher serializes work onto the embedding context's event queue.
// Everything that mutates viewer state runs through Post; there is exactly
// one logical actor and no locking.
type Dispatcher interface {
	Post(fn func())
}

// Size is a render surface extent in pixels.
type Size struct {
	Width  int
	Height int
}
