package solver

// RunState is the scheduler state driven by external control signals.
type RunState int

const (
	Running RunState = iota
	Paused
	// PausedStepPending advances exactly one frame, then pauses.
	PausedStepPending
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case PausedStepPending:
		return "step-pending"
	}
	return "unknown"
}

type scheduler struct {
	state      RunState
	slowMotion bool
}

// shouldStep consumes a pending single-step request.
func (s *scheduler) shouldStep() bool {
	switch s.state {
	case Running:
		return true
	case PausedStepPending:
		s.state = Paused
		return true
	}
	return false
}

// State returns the current scheduler state.
func (s *Solver) State() RunState { return s.sched.state }

func (s *Solver) Pause()  { s.sched.state = Paused }
func (s *Solver) Resume() { s.sched.state = Running }

func (s *Solver) TogglePause() {
	if s.sched.state == Running {
		s.sched.state = Paused
	} else {
		s.sched.state = Running
	}
}

// RequestSingleStep arms a single frame advance from pause. A no-op
// while running.
func (s *Solver) RequestSingleStep() {
	if s.sched.state != Running {
		s.sched.state = PausedStepPending
	}
}

// SetSlowMotion switches between the normal and slow time-scale
// multipliers.
func (s *Solver) SetSlowMotion(on bool) { s.sched.slowMotion = on }

func (s *Solver) SlowMotion() bool { return s.sched.slowMotion }

// Reset re-seeds all particle buffers from the initial spawn data and
// zeroes simulation time. Affector lists are left untouched. Must be
// called between frames, never while a step is in flight.
func (s *Solver) Reset() {
	s.store.Reset()
	s.time = 0
	s.frame = 0
}
