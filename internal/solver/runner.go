package solver

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// Frame is a read-only view of particle state between steps, in
// original particle order. Slices alias solver buffers; consumers must
// not hold them across frames.
type Frame struct {
	Time       float64
	Index      uint64
	Positions  []mgl32.Vec3
	Velocities []mgl32.Vec3
	Densities  []mgl32.Vec2
}

// Metric observes frames and reduces them to a value.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Observer is called after every completed frame.
type Observer interface {
	OnFrame(f Frame)
}

// Result collects per-frame metric series and final values for a
// headless run.
type Result struct {
	Times     []float64
	Series    map[string][]float64
	Metrics   map[string]float64
	FramesRun int
}

// Runner drives a solver through a fixed number of frames, feeding
// metrics and observers. It is the headless counterpart of the
// interactive hosts.
type Runner struct {
	solver    *Solver
	metrics   []Metric
	observers []Observer
}

func NewRunner(s *Solver) *Runner {
	return &Runner{solver: s}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Solver() *Solver { return r.solver }

// Frame builds the between-steps view of the current state.
func (r *Runner) Frame() Frame {
	return Frame{
		Time:       r.solver.Time(),
		Index:      r.solver.FrameCount(),
		Positions:  r.solver.Positions(),
		Velocities: r.solver.Velocities(),
		Densities:  r.solver.Densities(),
	}
}

// Run advances the simulation for the given duration at a fixed frame
// delta, observing metrics after every frame. Cancellation applies
// between frames, never mid-step.
func (r *Runner) Run(ctx context.Context, duration, frameDt float32) (*Result, error) {
	if frameDt <= 0 || duration <= 0 {
		return nil, fluid.ErrInvalidConfig
	}

	frames := int(duration / frameDt)
	result := &Result{
		Times:   make([]float64, 0, frames),
		Series:  make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if !r.solver.Advance(frameDt) {
			break
		}

		f := r.Frame()
		result.Times = append(result.Times, f.Time)
		for _, m := range r.metrics {
			m.Observe(f)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		for _, o := range r.observers {
			o.OnFrame(f)
		}
		result.FramesRun++
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
