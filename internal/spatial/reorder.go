package spatial

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/compute"
	"github.com/san-kum/fluidlab/internal/particle"
)

// Reorderer physically permutes particle buffers into spatial-hash
// order so neighbor iteration touches contiguous memory, and restores
// original order after the physics kernels run. Scratch buffers are
// allocated once; both passes are plain parallel gathers/scatters over
// a permutation, so they are race-free.
type Reorderer struct {
	pos  []mgl32.Vec3
	pred []mgl32.Vec3
	vel  []mgl32.Vec3
	den  []mgl32.Vec2
	ids  []uint32
}

func NewReorderer(n int) *Reorderer {
	return &Reorderer{
		pos:  make([]mgl32.Vec3, n),
		pred: make([]mgl32.Vec3, n),
		vel:  make([]mgl32.Vec3, n),
		den:  make([]mgl32.Vec2, n),
		ids:  make([]uint32, n),
	}
}

// Gather rewrites the store into sorted order: slot k receives the
// particle at perm[k]. Stable ids travel with their particles.
func (r *Reorderer) Gather(backend compute.Backend, s *particle.Store, perm []uint32) {
	backend.Dispatch(s.N, func(start, end int) {
		for k := start; k < end; k++ {
			i := perm[k]
			r.pos[k] = s.Positions[i]
			r.pred[k] = s.Predicted[i]
			r.vel[k] = s.Velocities[i]
			r.den[k] = s.Densities[i]
			r.ids[k] = s.IDs[i]
		}
	})
	r.commit(backend, s)
}

// Restore applies the inverse permutation, putting every particle back
// in the slot its stable id names. After Restore, s.IDs[i] == i.
// Skipping this is a correctness bug: external readers and next frame's
// affector velocity coupling address particles by stable id.
func (r *Reorderer) Restore(backend compute.Backend, s *particle.Store) {
	backend.Dispatch(s.N, func(start, end int) {
		for k := start; k < end; k++ {
			i := s.IDs[k]
			r.pos[i] = s.Positions[k]
			r.pred[i] = s.Predicted[k]
			r.vel[i] = s.Velocities[k]
			r.den[i] = s.Densities[k]
			r.ids[i] = s.IDs[k]
		}
	})
	r.commit(backend, s)
}

func (r *Reorderer) commit(backend compute.Backend, s *particle.Store) {
	backend.Dispatch(s.N, func(start, end int) {
		copy(s.Positions[start:end], r.pos[start:end])
		copy(s.Predicted[start:end], r.pred[start:end])
		copy(s.Velocities[start:end], r.vel[start:end])
		copy(s.Densities[start:end], r.den[start:end])
		copy(s.IDs[start:end], r.ids[start:end])
	})
}
