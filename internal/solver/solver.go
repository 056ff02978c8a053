// Package solver implements the SPH kernel pipeline, the affector
// coupling, and the time-stepping scheduler that drives them.
package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/affector"
	"github.com/san-kum/fluidlab/internal/compute"
	"github.com/san-kum/fluidlab/internal/config"
	"github.com/san-kum/fluidlab/internal/fluid"
	"github.com/san-kum/fluidlab/internal/particle"
	"github.com/san-kum/fluidlab/internal/spatial"
)

// Solver owns the particle buffers, the spatial index, both affector
// lists, and the dispatch backend. It is not safe for concurrent use;
// control operations apply between frames only.
type Solver struct {
	cfg     *config.Config
	backend compute.Backend

	store   *particle.Store
	hash    *spatial.Hash
	reorder *spatial.Reorderer

	collisions *affector.CollisionObjects
	zones      *affector.ForceZones
	noise      *fluid.Turbulence

	kern       kernelConsts
	velScratch []mgl32.Vec3

	sched scheduler
	time  float32
	frame uint64

	initialized   bool
	initCallbacks []func()
}

// New builds a solver from a validated configuration. The "simulation
// initialized" notification fires synchronously at the end of setup;
// callbacks registered later via OnInit fire immediately.
func New(cfg *config.Config, backend compute.Backend) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		backend = compute.GetBackend()
	}

	store, err := particle.NewStore(cfg.Spawn)
	if err != nil {
		return nil, err
	}

	s := &Solver{
		cfg:        cfg,
		backend:    backend,
		store:      store,
		hash:       spatial.NewHash(store.N, cfg.SmoothingRadius),
		reorder:    spatial.NewReorderer(store.N),
		collisions: affector.NewCollisionObjects(cfg.MaxCollisionObjects),
		zones:      affector.NewForceZones(cfg.MaxForceZones),
		noise:      fluid.NewTurbulence(cfg.Spawn.Seed),
		kern:       newKernelConsts(cfg.SmoothingRadius),
		velScratch: make([]mgl32.Vec3, store.N),
		sched:      scheduler{state: Running},
	}

	s.initialized = true
	for _, fn := range s.initCallbacks {
		fn()
	}
	s.initCallbacks = nil
	return s, nil
}

// OnInit registers a callback for the one-shot initialization
// notification. Registration after setup fires synchronously.
func (s *Solver) OnInit(fn func()) {
	if s.initialized {
		fn()
		return
	}
	s.initCallbacks = append(s.initCallbacks, fn)
}

// N returns the fixed particle count.
func (s *Solver) N() int { return s.store.N }

// Time returns accumulated simulation time.
func (s *Solver) Time() float64 { return float64(s.time) }

// FrameCount returns the number of completed frames.
func (s *Solver) FrameCount() uint64 { return s.frame }

// Read-only buffer views, in original particle order. Valid only
// between simulation steps.
func (s *Solver) Positions() []mgl32.Vec3  { return s.store.Positions }
func (s *Solver) Velocities() []mgl32.Vec3 { return s.store.Velocities }
func (s *Solver) Densities() []mgl32.Vec2  { return s.store.Densities }
func (s *Solver) IDs() []uint32            { return s.store.IDs }

// CollisionObjects and ForceZones expose the solver-owned affector
// lists; all mutation goes through them.
func (s *Solver) CollisionObjects() *affector.CollisionObjects { return s.collisions }
func (s *Solver) ForceZones() *affector.ForceZones             { return s.zones }

func (s *Solver) Config() *config.Config { return s.cfg }

// Valid reports whether every particle position and velocity is
// finite. A false return means the parameters blew the simulation up.
func (s *Solver) Valid() bool { return s.store.Valid() }

// Advance runs zero or one frame depending on scheduler state, given
// the host's raw frame delta. Returns true when a frame ran.
func (s *Solver) Advance(rawDt float32) bool {
	if !s.sched.shouldStep() {
		return false
	}

	// The max-timestep floor slows simulation time rather than letting
	// physical time race ahead when the host frame rate drops.
	dt := rawDt
	if dt > s.cfg.MaxTimestep {
		dt = s.cfg.MaxTimestep
	}
	scale := s.cfg.TimeScaleNormal
	if s.sched.slowMotion {
		scale = s.cfg.TimeScaleSlow
	}
	s.step(dt * scale)
	return true
}

// step runs one full frame: affector resampling once, then the fixed
// kernel sequence for every sub-step.
func (s *Solver) step(frameDt float32) {
	s.collisions.Resample(frameDt)
	s.zones.Resample(frameDt)

	subDt := frameDt / float32(s.cfg.SubSteps)
	for i := 0; i < s.cfg.SubSteps; i++ {
		s.subStep(subDt)
	}

	s.time += frameDt
	s.frame++
}

// subStep executes the strict kernel sequence. Each dispatch joins all
// workers before the next starts, so every kernel sees its
// predecessors' writes.
func (s *Solver) subStep(dt float32) {
	s.externalForces(dt)

	s.hash.Build(s.store.Predicted)
	s.reorder.Gather(s.backend, s.store, s.hash.Permutation())

	s.density()
	s.pressure(dt)
	if s.cfg.ViscosityStrength != 0 {
		s.viscosity(dt)
	}
	s.integrate(dt)

	s.reorder.Restore(s.backend, s.store)
}

// externalForces applies gravity and force-zone contributions to
// velocity, then computes the predicted position the density and
// pressure kernels read. No later kernel in the sub-step writes
// Predicted.
func (s *Solver) externalForces(dt float32) {
	gravity := s.cfg.Gravity
	zoneRecords := s.zones.Records()
	t := s.time

	s.backend.Dispatch(s.store.N, func(start, end int) {
		for i := start; i < end; i++ {
			vel := s.store.Velocities[i].Add(gravity.Mul(dt))

			for z := range zoneRecords {
				if force, ok := affector.ZoneForce(&zoneRecords[z], s.noise, s.store.Positions[i], t); ok {
					vel = vel.Add(force.Mul(dt))
				}
			}

			s.store.Velocities[i] = vel
			s.store.Predicted[i] = s.store.Positions[i].Add(vel.Mul(dt))
		}
	})
}

// density sums kernel-weighted neighbor contributions into density and
// the steeper near-density.
func (s *Solver) density() {
	k := s.kern

	s.backend.Dispatch(s.store.N, func(start, end int) {
		for i := start; i < end; i++ {
			p := s.store.Predicted[i]
			var density, nearDensity float32

			s.hash.ForEachRange(p, func(lo, hi int) {
				for j := lo; j < hi; j++ {
					d := s.store.Predicted[j].Sub(p)
					sq := d.Dot(d)
					if sq >= k.h2 {
						continue
					}
					dst := sqrtf(sq)
					density += k.densityKernel(dst)
					nearDensity += k.nearDensityKernel(dst)
				}
			})

			s.store.Densities[i] = mgl32.Vec2{density, nearDensity}
		}
	})
}

// pressure converts density deviation into pressure and applies the
// symmetric gradient force between each particle and its neighbors.
func (s *Solver) pressure(dt float32) {
	k := s.kern
	target := s.cfg.TargetDensity
	pressureMult := s.cfg.PressureMultiplier
	nearMult := s.cfg.NearPressureMultiplier

	s.backend.Dispatch(s.store.N, func(start, end int) {
		for i := start; i < end; i++ {
			p := s.store.Predicted[i]
			density := s.store.Densities[i].X()
			nearDensity := s.store.Densities[i].Y()
			pressure := (density - target) * pressureMult
			nearPressure := nearDensity * nearMult

			var force mgl32.Vec3

			s.hash.ForEachRange(p, func(lo, hi int) {
				for j := lo; j < hi; j++ {
					if j == i {
						continue
					}
					delta := s.store.Predicted[j].Sub(p)
					sq := delta.Dot(delta)
					if sq >= k.h2 {
						continue
					}

					neighborDensity := s.store.Densities[j].X()
					neighborNear := s.store.Densities[j].Y()
					if neighborDensity <= 0 {
						continue
					}
					neighborPressure := (neighborDensity - target) * pressureMult
					sharedPressure := (pressure + neighborPressure) / 2
					sharedNear := (nearPressure + neighborNear*nearMult) / 2

					dst := sqrtf(sq)
					dir := mgl32.Vec3{0, 1, 0}
					if dst > 0 {
						dir = delta.Mul(1 / dst)
					}

					force = force.Add(dir.Mul(k.densityDerivative(dst) * sharedPressure / neighborDensity))
					if neighborNear > 0 {
						force = force.Add(dir.Mul(k.nearDensityDerivative(dst) * sharedNear / neighborNear))
					}
				}
			})

			if density > 0 {
				s.store.Velocities[i] = s.store.Velocities[i].Add(force.Mul(dt / density))
			}
		}
	})
}

// viscosity smooths the velocity field toward the neighborhood
// average. New velocities go to scratch first so workers never read a
// half-written buffer.
func (s *Solver) viscosity(dt float32) {
	k := s.kern
	strength := s.cfg.ViscosityStrength

	s.backend.Dispatch(s.store.N, func(start, end int) {
		for i := start; i < end; i++ {
			p := s.store.Predicted[i]
			vel := s.store.Velocities[i]
			var force mgl32.Vec3

			s.hash.ForEachRange(p, func(lo, hi int) {
				for j := lo; j < hi; j++ {
					if j == i {
						continue
					}
					delta := s.store.Predicted[j].Sub(p)
					sq := delta.Dot(delta)
					if sq >= k.h2 {
						continue
					}
					force = force.Add(s.store.Velocities[j].Sub(vel).Mul(k.viscosityKernel(sq)))
				}
			})

			s.velScratch[i] = vel.Add(force.Mul(strength * dt))
		}
	})

	s.backend.Dispatch(s.store.N, func(start, end int) {
		copy(s.store.Velocities[start:end], s.velScratch[start:end])
	})
}

// integrate advances positions and resolves collisions against the
// domain bounds, all active collision objects, and rigid-mode force
// zones.
func (s *Solver) integrate(dt float32) {
	half := s.cfg.Bounds.Size.Mul(0.5)
	center := s.cfg.Bounds.Center
	damping := s.cfg.CollisionDamping
	colRecords := s.collisions.Records()
	zoneRecords := s.zones.Records()

	s.backend.Dispatch(s.store.N, func(start, end int) {
		for i := start; i < end; i++ {
			pos := s.store.Positions[i].Add(s.store.Velocities[i].Mul(dt))
			vel := s.store.Velocities[i]

			// Domain bounds, reflected with damping.
			local := pos.Sub(center)
			for a := 0; a < 3; a++ {
				if local[a] > half[a] {
					local[a] = half[a]
					vel[a] = -vel[a] * damping
				} else if local[a] < -half[a] {
					local[a] = -half[a]
					vel[a] = -vel[a] * damping
				}
			}
			pos = center.Add(local)

			for c := range colRecords {
				if newPos, newVel, hit := affector.Respond(&colRecords[c], pos, vel); hit {
					pos, vel = newPos, newVel
				}
			}
			for z := range zoneRecords {
				if !zoneRecords[z].Mode.Rigid() {
					continue
				}
				if newPos, newVel, hit := affector.Respond(&zoneRecords[z].CollisionRecord, pos, vel); hit {
					pos, vel = newPos, newVel
				}
			}

			s.store.Positions[i] = pos
			s.store.Velocities[i] = vel
		}
	})
}

func sqrtf(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
