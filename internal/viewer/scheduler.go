package viewer

import "github.com/rs/zerolog"

// SchedulerState is the render loop state.
type SchedulerState int

const (
	// Idle means no mesh has been committed yet; the loop has never run.
	Idle SchedulerState = iota
	// Running means a tick is requested after every submitted frame.
	Running
	// Paused means no further ticks are requested; a pending tick no-ops.
	Paused
)

func (s SchedulerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Scheduler drives the render loop. Each tick, while running, it advances
// time-varying scene elements, submits one frame and requests the next
// tick. Pausing simply stops requesting ticks; resuming restarts the chain
// from cold. All methods must be called on the dispatcher queue.
type Scheduler struct {
	renderer Renderer
	ticks    TickSource
	state    SchedulerState
	pending  bool
	log      zerolog.Logger
}

// NewScheduler creates a scheduler in the Idle state.
func NewScheduler(renderer Renderer, ticks TickSource, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		renderer: renderer,
		ticks:    ticks,
		state:    Idle,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// State returns the current loop state.
func (s *Scheduler) State() SchedulerState {
	return s.state
}

// Start moves Idle to Running once a mesh has been committed and requests
// the first tick. Calls in any other state are no-ops.
func (s *Scheduler) Start() {
	if s.state != Idle {
		return
	}
	s.state = Running
	s.log.Debug().Msg("render loop started")
	s.requestTick()
}

// Pause stops scheduling further ticks. An already-requested tick will
// fire, see the paused state and do nothing.
func (s *Scheduler) Pause() {
	if s.state != Running {
		return
	}
	s.state = Paused
	s.log.Debug().Msg("render loop paused")
}

// Resume restarts the tick chain after a pause. Resuming an Idle scheduler
// is a no-op: nothing renders before the first commit.
func (s *Scheduler) Resume() {
	if s.state != Paused {
		return
	}
	s.state = Running
	s.log.Debug().Msg("render loop resumed")
	s.requestTick()
}

// requestTick asks for at most one outstanding tick. The guard keeps a
// pause/resume pair from spawning a second tick chain next to the one
// still pending.
func (s *Scheduler) requestTick() {
	if s.pending {
		return
	}
	s.pending = true
	s.ticks.RequestTick(s.tick)
}

func (s *Scheduler) tick() {
	s.pending = false
	if s.state != Running {
		return
	}
	s.renderer.UpdateScene()
	s.renderer.SubmitFrame()
	s.requestTick()
}
