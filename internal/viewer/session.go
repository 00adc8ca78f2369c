package viewer

// Session is the per-viewport lifecycle state. It is created when the
// viewport attaches, mutated only on the dispatcher queue, and discarded
// at teardown.
type Session struct {
	ModelLoaded  bool
	RenderPaused bool
	IsFullScreen bool

	// LastKnownElementSize is captured once when the session is created
	// and restored on fullscreen exit. The element cannot be re-measured
	// reliably right after leaving fullscreen, so this stays read-only
	// for the life of the session.
	LastKnownElementSize Size
}
