// Package config holds the solver's numeric configuration surface and
// its yaml load/save support.
package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidlab/internal/fluid"
	"github.com/san-kum/fluidlab/internal/particle"
)

const (
	DefaultSmoothingRadius    = 0.35
	DefaultTargetDensity      = 55.0
	DefaultPressureMultiplier = 500.0
	DefaultNearPressure       = 18.0
	DefaultCollisionDamping   = 0.95
	DefaultSubSteps           = 3
	DefaultMaxTimestep        = 1.0 / 30.0
	DefaultAffectorCapacity   = 32
)

// Bounds is the axis-aligned simulation domain. Particles leaving it
// are reflected with the configured collision damping.
type Bounds struct {
	Center mgl32.Vec3 `yaml:"center"`
	Size   mgl32.Vec3 `yaml:"size"`
}

type Config struct {
	Gravity mgl32.Vec3 `yaml:"gravity"`

	SmoothingRadius        float32 `yaml:"smoothing_radius"`
	TargetDensity          float32 `yaml:"target_density"`
	PressureMultiplier     float32 `yaml:"pressure_multiplier"`
	NearPressureMultiplier float32 `yaml:"near_pressure_multiplier"`
	ViscosityStrength      float32 `yaml:"viscosity_strength"`
	CollisionDamping       float32 `yaml:"collision_damping"`

	SubSteps    int     `yaml:"sub_steps"`
	MaxTimestep float32 `yaml:"max_timestep"`

	TimeScaleNormal float32 `yaml:"time_scale_normal"`
	TimeScaleSlow   float32 `yaml:"time_scale_slow"`

	MaxCollisionObjects int `yaml:"max_collision_objects"`
	MaxForceZones       int `yaml:"max_force_zones"`

	Bounds Bounds            `yaml:"bounds"`
	Spawn  particle.SpawnSet `yaml:"spawn"`
}

func DefaultConfig() *Config {
	return &Config{
		Gravity:                mgl32.Vec3{0, -9.81, 0},
		SmoothingRadius:        DefaultSmoothingRadius,
		TargetDensity:          DefaultTargetDensity,
		PressureMultiplier:     DefaultPressureMultiplier,
		NearPressureMultiplier: DefaultNearPressure,
		ViscosityStrength:      0.05,
		CollisionDamping:       DefaultCollisionDamping,
		SubSteps:               DefaultSubSteps,
		MaxTimestep:            DefaultMaxTimestep,
		TimeScaleNormal:        1.0,
		TimeScaleSlow:          0.2,
		MaxCollisionObjects:    DefaultAffectorCapacity,
		MaxForceZones:          DefaultAffectorCapacity,
		Bounds: Bounds{
			Size: mgl32.Vec3{10, 8, 10},
		},
		Spawn: particle.SpawnSet{
			Regions: []particle.SpawnRegion{
				{
					Center:  mgl32.Vec3{-2.5, 0, 0},
					Size:    mgl32.Vec3{4, 6, 9},
					Spacing: 0.3,
					Jitter:  0.02,
				},
			},
			Seed: 42,
		},
	}
}

// Validate rejects degenerate values up front; kernel normalization is
// undefined for them, so they never reach dispatch.
func (c *Config) Validate() error {
	if c.SmoothingRadius <= 0 {
		return fmt.Errorf("%w: smoothing_radius must be positive, got %g", fluid.ErrInvalidConfig, c.SmoothingRadius)
	}
	if c.TargetDensity <= 0 {
		return fmt.Errorf("%w: target_density must be positive, got %g", fluid.ErrInvalidConfig, c.TargetDensity)
	}
	if c.SubSteps < 1 {
		return fmt.Errorf("%w: sub_steps must be at least 1, got %d", fluid.ErrInvalidConfig, c.SubSteps)
	}
	if c.MaxTimestep <= 0 {
		return fmt.Errorf("%w: max_timestep must be positive, got %g", fluid.ErrInvalidConfig, c.MaxTimestep)
	}
	if c.TimeScaleNormal <= 0 || c.TimeScaleSlow <= 0 {
		return fmt.Errorf("%w: time scales must be positive", fluid.ErrInvalidConfig)
	}
	if c.MaxCollisionObjects < 1 || c.MaxForceZones < 1 {
		return fmt.Errorf("%w: affector capacities must be at least 1", fluid.ErrInvalidConfig)
	}
	if c.Bounds.Size.X() <= 0 || c.Bounds.Size.Y() <= 0 || c.Bounds.Size.Z() <= 0 {
		return fmt.Errorf("%w: bounds size must be positive on every axis", fluid.ErrInvalidConfig)
	}
	for i, r := range c.Spawn.Regions {
		if r.Spacing <= 0 {
			return fmt.Errorf("%w: spawn region %d spacing must be positive", fluid.ErrInvalidConfig, i)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
