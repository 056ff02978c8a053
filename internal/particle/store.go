// Package particle holds the flat per-particle buffers the solver
// kernels operate on.
package particle

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// Store is the structure-of-arrays particle state. N is fixed for the
// simulation's lifetime; buffers are allocated once and only rewritten
// in place.
//
// IDs carries each particle's stable original index. The reorder stage
// permutes all buffers into spatial-hash order for the physics kernels
// and restores original order before a step completes, so between
// steps IDs[i] == i holds and external readers may address particles
// by index.
type Store struct {
	N int

	Positions  []mgl32.Vec3
	Predicted  []mgl32.Vec3
	Velocities []mgl32.Vec3
	Densities  []mgl32.Vec2 // x: density, y: near-density
	IDs        []uint32

	spawn SpawnSet
}

// NewStore allocates buffers for the spawn set and seeds them.
func NewStore(spawn SpawnSet) (*Store, error) {
	n := spawn.Count()
	if n == 0 {
		return nil, fluid.ErrNoParticles
	}

	s := &Store{
		N:          n,
		Positions:  make([]mgl32.Vec3, n),
		Predicted:  make([]mgl32.Vec3, n),
		Velocities: make([]mgl32.Vec3, n),
		Densities:  make([]mgl32.Vec2, n),
		IDs:        make([]uint32, n),
		spawn:      spawn,
	}
	s.Reset()
	return s, nil
}

// Reset re-seeds positions and velocities from the spawn set and
// clears everything derived. Two back-to-back resets produce
// bit-identical buffers.
func (s *Store) Reset() {
	s.spawn.seed(s.Positions, s.Velocities)
	for i := range s.Predicted {
		s.Predicted[i] = s.Positions[i]
		s.Densities[i] = mgl32.Vec2{}
		s.IDs[i] = uint32(i)
	}
}

// Spawn returns the spawn description the store was built from.
func (s *Store) Spawn() SpawnSet { return s.spawn }

// Valid reports whether every position and velocity is finite.
func (s *Store) Valid() bool {
	for i := 0; i < s.N; i++ {
		if !fluid.IsFinite(s.Positions[i]) || !fluid.IsFinite(s.Velocities[i]) {
			return false
		}
	}
	return true
}
