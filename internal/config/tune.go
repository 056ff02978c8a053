package config

import (
	"fmt"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// SetParam sets a named scalar parameter. Sweeps and scripted
// scenarios address parameters by string, so the mapping lives here
// next to the fields it mutates.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "smoothing_radius":
		c.SmoothingRadius = float32(value)
	case "target_density":
		c.TargetDensity = float32(value)
	case "pressure_multiplier":
		c.PressureMultiplier = float32(value)
	case "near_pressure_multiplier":
		c.NearPressureMultiplier = float32(value)
	case "viscosity_strength":
		c.ViscosityStrength = float32(value)
	case "collision_damping":
		c.CollisionDamping = float32(value)
	case "gravity_y":
		c.Gravity[1] = float32(value)
	case "sub_steps":
		c.SubSteps = int(value)
	case "max_timestep":
		c.MaxTimestep = float32(value)
	default:
		return fmt.Errorf("%w: unknown parameter %q", fluid.ErrInvalidConfig, name)
	}
	return nil
}

// ParamNames lists the parameters SetParam accepts, for help output.
func ParamNames() []string {
	return []string{
		"smoothing_radius",
		"target_density",
		"pressure_multiplier",
		"near_pressure_multiplier",
		"viscosity_strength",
		"collision_damping",
		"gravity_y",
		"sub_steps",
		"max_timestep",
	}
}
