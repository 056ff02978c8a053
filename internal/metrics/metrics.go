// Package metrics provides frame-level observables for headless runs
// and the interactive hosts.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidlab/internal/solver"
)

// DensityDeviation tracks the mean relative deviation of particle
// density from the rest density, per frame. A settled fluid holds this
// near zero.
type DensityDeviation struct {
	name    string
	target  float64
	current float64
	scratch []float64
}

func NewDensityDeviation(target float64) *DensityDeviation {
	return &DensityDeviation{name: "density_deviation", target: target}
}

func (d *DensityDeviation) Name() string { return d.name }

func (d *DensityDeviation) Observe(f solver.Frame) {
	if len(f.Densities) == 0 || d.target == 0 {
		return
	}
	if cap(d.scratch) < len(f.Densities) {
		d.scratch = make([]float64, len(f.Densities))
	}
	d.scratch = d.scratch[:len(f.Densities)]
	for i, den := range f.Densities {
		d.scratch[i] = math.Abs(float64(den.X())-d.target) / d.target
	}
	d.current = stat.Mean(d.scratch, nil)
}

func (d *DensityDeviation) Value() float64 { return d.current }
func (d *DensityDeviation) Reset()         { d.current = 0 }

// KineticEnergy is the summed 0.5*v^2 over all particles (unit mass).
type KineticEnergy struct {
	name    string
	current float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(f solver.Frame) {
	total := 0.0
	for _, v := range f.Velocities {
		total += 0.5 * float64(v.Dot(v))
	}
	k.current = total
}

func (k *KineticEnergy) Value() float64 { return k.current }
func (k *KineticEnergy) Reset()         { k.current = 0 }

// MaxSpeed tracks the fastest particle seen across the run; a runaway
// value is the usual first symptom of an unstable configuration.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f solver.Frame) {
	for _, v := range f.Velocities {
		if s := float64(v.Len()); s > m.max {
			m.max = s
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }
