package config

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/particle"
)

// Presets are named starting scenarios. Each is a full config; fields
// not set here keep DefaultConfig values via GetPreset.
var presets = map[string]func(*Config){
	"dam_break": func(c *Config) {
		c.Spawn.Regions = []particle.SpawnRegion{
			{
				Center:  mgl32.Vec3{-3, -0.5, 0},
				Size:    mgl32.Vec3{3.5, 6, 9},
				Spacing: 0.28,
				Jitter:  0.02,
			},
		}
	},
	"resting_tank": func(c *Config) {
		c.Spawn.Regions = []particle.SpawnRegion{
			{
				Center:  mgl32.Vec3{0, -2, 0},
				Size:    mgl32.Vec3{9, 3.5, 9},
				Spacing: 0.3,
				Jitter:  0.01,
			},
		}
	},
	"vortex_pool": func(c *Config) {
		c.ViscosityStrength = 0.12
		c.Spawn.Regions = []particle.SpawnRegion{
			{
				Center:  mgl32.Vec3{0, -2.5, 0},
				Size:    mgl32.Vec3{8, 2.5, 8},
				Spacing: 0.3,
				Jitter:  0.02,
			},
		}
	},
	"waterfall": func(c *Config) {
		c.Spawn.InitialVelocity = mgl32.Vec3{2.5, 0, 0}
		c.Spawn.Regions = []particle.SpawnRegion{
			{
				Center:  mgl32.Vec3{-4, 2.5, 0},
				Size:    mgl32.Vec3{1.5, 2.5, 6},
				Spacing: 0.26,
				Jitter:  0.02,
			},
		}
	},
}

// GetPreset returns a preset config by name, or nil when unknown.
func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the known preset names.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
