package solver

import (
	"fmt"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// GetParams exposes the tunable numeric knobs for interactive hosts.
func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity_y":      float64(s.cfg.Gravity.Y()),
		"radius":         float64(s.cfg.SmoothingRadius),
		"target_density": float64(s.cfg.TargetDensity),
		"pressure":       float64(s.cfg.PressureMultiplier),
		"near_pressure":  float64(s.cfg.NearPressureMultiplier),
		"viscosity":      float64(s.cfg.ViscosityStrength),
		"damping":        float64(s.cfg.CollisionDamping),
	}
}

// SetParam adjusts a knob at runtime. Degenerate values are rejected
// here so kernel normalization stays defined.
func (s *Solver) SetParam(name string, v float64) error {
	switch name {
	case "gravity_y":
		s.cfg.Gravity[1] = float32(v)
	case "radius":
		if v <= 0 {
			return fmt.Errorf("%w: radius must be positive", fluid.ErrInvalidConfig)
		}
		s.SetSmoothingRadius(float32(v))
	case "target_density":
		if v <= 0 {
			return fmt.Errorf("%w: target_density must be positive", fluid.ErrInvalidConfig)
		}
		s.cfg.TargetDensity = float32(v)
	case "pressure":
		s.cfg.PressureMultiplier = float32(v)
	case "near_pressure":
		s.cfg.NearPressureMultiplier = float32(v)
	case "viscosity":
		s.cfg.ViscosityStrength = float32(v)
	case "damping":
		s.cfg.CollisionDamping = float32(v)
	default:
		return fmt.Errorf("%w: unknown parameter %q", fluid.ErrInvalidConfig, name)
	}
	return nil
}

// SetSmoothingRadius updates the interaction radius, the hash cell
// size, and the kernel normalization constants together. This is the
// only place the constants are recomputed.
func (s *Solver) SetSmoothingRadius(h float32) {
	s.cfg.SmoothingRadius = h
	s.kern = newKernelConsts(h)
	s.hash.SetCellSize(h)
}
