package solver

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/onsi/gomega"

	"github.com/san-kum/fluidlab/internal/affector"
	"github.com/san-kum/fluidlab/internal/compute"
	"github.com/san-kum/fluidlab/internal/config"
	"github.com/san-kum/fluidlab/internal/fluid"
	"github.com/san-kum/fluidlab/internal/particle"
)

const testFrameDt = float32(1.0 / 60.0)

// quietConfig spawns a small block of particles with all fluid forces
// disabled, so only gravity, zones, and collisions move anything.
func quietConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Gravity = mgl32.Vec3{}
	cfg.PressureMultiplier = 0
	cfg.NearPressureMultiplier = 0
	cfg.ViscosityStrength = 0
	cfg.Spawn = particle.SpawnSet{
		Regions: []particle.SpawnRegion{
			{Size: mgl32.Vec3{1, 1, 1}, Spacing: 0.5},
		},
		Seed: 7,
	}
	return cfg
}

func newTestSolver(t *testing.T, cfg *config.Config) *Solver {
	t.Helper()
	s, err := New(cfg, compute.NewSerialBackend())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := quietConfig()
	cfg.SmoothingRadius = -1
	if _, err := New(cfg, compute.NewSerialBackend()); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestNew_NoParticles(t *testing.T) {
	cfg := quietConfig()
	cfg.Spawn.Regions = nil
	if _, err := New(cfg, compute.NewSerialBackend()); err == nil {
		t.Error("expected error for empty spawn")
	}
}

func TestOnInit(t *testing.T) {
	s := newTestSolver(t, quietConfig())
	fired := false
	s.OnInit(func() { fired = true })
	if !fired {
		t.Error("callback registered after setup should fire immediately")
	}
}

func TestAdvance_GravityFall(t *testing.T) {
	g := gomega.NewWithT(t)

	cfg := quietConfig()
	cfg.Gravity = mgl32.Vec3{0, -10, 0}
	s := newTestSolver(t, cfg)

	before := s.Positions()[0]
	if !s.Advance(testFrameDt) {
		t.Fatal("running solver did not advance")
	}

	// Each sub-step applies gravity then integrates, so one frame of
	// free fall adds exactly g*frameDt to velocity.
	g.Expect(float64(s.Velocities()[0].Y())).To(gomega.BeNumerically("~", -10*float64(testFrameDt), 1e-4))
	g.Expect(s.Positions()[0].Y() < before.Y()).To(gomega.BeTrue(), "particle did not fall")
	g.Expect(float64(s.Time())).To(gomega.BeNumerically("~", float64(testFrameDt), 1e-6))
	g.Expect(s.FrameCount()).To(gomega.Equal(uint64(1)))
}

func TestAdvance_MaxTimestepClamp(t *testing.T) {
	g := gomega.NewWithT(t)

	cfg := quietConfig()
	cfg.MaxTimestep = 1.0 / 30
	s := newTestSolver(t, cfg)

	// A stalled host frame must not advance physics past the floor.
	s.Advance(10)
	g.Expect(float64(s.Time())).To(gomega.BeNumerically("~", 1.0/30, 1e-6))
}

func TestAdvance_SlowMotion(t *testing.T) {
	g := gomega.NewWithT(t)

	cfg := quietConfig()
	cfg.TimeScaleSlow = 0.25
	s := newTestSolver(t, cfg)
	s.SetSlowMotion(true)

	s.Advance(testFrameDt)
	g.Expect(float64(s.Time())).To(gomega.BeNumerically("~", float64(testFrameDt)*0.25, 1e-6))
}

func TestDirectionalCurrent(t *testing.T) {
	g := gomega.NewWithT(t)

	s := newTestSolver(t, quietConfig())
	zone := &affector.ForceZone{
		Name:           "current",
		Shape:          affector.ShapeBox,
		BaseSize:       mgl32.Vec3{20, 20, 20},
		Mode:           affector.ForceDirectional,
		Strength:       6,
		LocalDirection: mgl32.Vec3{0, 0, 1},
		Source:         fluid.StaticPose(fluid.IdentityPose()),
	}
	g.Expect(s.ForceZones().Add(zone)).To(gomega.BeTrue())

	s.Advance(testFrameDt)

	// The zone covers the whole domain, so every particle picks up
	// strength*frameDt along +z over the frame's sub-steps.
	for i, v := range s.Velocities() {
		g.Expect(float64(v.Z())).To(gomega.BeNumerically("~", 6*float64(testFrameDt), 1e-3),
			"particle %d", i)
		g.Expect(float64(v.X())).To(gomega.BeNumerically("~", 0, 1e-4))
	}
}

func TestIdentityRestoredEveryFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Spawn.Regions[0].Size = mgl32.Vec3{2, 2, 2}
	s := newTestSolver(t, cfg)

	for frame := 0; frame < 5; frame++ {
		s.Advance(testFrameDt)
		for i, id := range s.IDs() {
			if id != uint32(i) {
				t.Fatalf("frame %d: id[%d] = %d, order not restored", frame, i, id)
			}
		}
	}
}

func TestBoundsContainment(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Spawn.Regions[0].Size = mgl32.Vec3{2, 2, 2}
	s := newTestSolver(t, cfg)

	half := cfg.Bounds.Size.Mul(0.5)
	for frame := 0; frame < 30; frame++ {
		s.Advance(testFrameDt)
	}
	for i, p := range s.Positions() {
		local := p.Sub(cfg.Bounds.Center)
		for a := 0; a < 3; a++ {
			if local[a] > half[a]+1e-3 || local[a] < -half[a]-1e-3 {
				t.Fatalf("particle %d escaped bounds: %v", i, p)
			}
		}
	}
	if !s.Valid() {
		t.Error("simulation produced non-finite state")
	}
}

func TestRestStateEquilibrium(t *testing.T) {
	g := gomega.NewWithT(t)

	// A block spaced so every particle sits at its rest density: with
	// gravity off and pressure at full strength, the configuration is
	// an equilibrium. Nothing may drift, densities must hold near the
	// target, and no energy may appear.
	cfg := config.DefaultConfig()
	cfg.Gravity = mgl32.Vec3{}
	cfg.Spawn = particle.SpawnSet{
		Regions: []particle.SpawnRegion{
			{Size: mgl32.Vec3{2, 2, 2}, Spacing: 0.4},
		},
		Seed: 7,
	}
	s := newTestSolver(t, cfg)

	initial := make([]mgl32.Vec3, s.N())
	copy(initial, s.Positions())

	for frame := 0; frame < 60; frame++ {
		s.Advance(testFrameDt)
	}

	target := float64(cfg.TargetDensity)
	for i, d := range s.Densities() {
		g.Expect(float64(d.X())).To(gomega.BeNumerically("~", target, target*0.03),
			"particle %d density", i)
	}

	for i, p := range s.Positions() {
		g.Expect(float64(p.Sub(initial[i]).Len())).To(gomega.BeNumerically("<", 1e-3),
			"particle %d drifted", i)
	}

	kinetic := 0.0
	for _, v := range s.Velocities() {
		kinetic += 0.5 * float64(v.LenSqr())
	}
	g.Expect(kinetic).To(gomega.BeNumerically("<", 1e-6), "energy injected at rest")
}

func TestReset_Deterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Spawn.Regions[0].Size = mgl32.Vec3{2, 2, 2}
	s := newTestSolver(t, cfg)

	run := func(frames int) []mgl32.Vec3 {
		for i := 0; i < frames; i++ {
			s.Advance(testFrameDt)
		}
		out := make([]mgl32.Vec3, s.N())
		copy(out, s.Positions())
		return out
	}

	first := run(10)
	s.Reset()
	if s.Time() != 0 || s.FrameCount() != 0 {
		t.Fatal("reset did not zero the clock")
	}
	second := run(10)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("replay diverged at particle %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestScheduler_PauseAndSingleStep(t *testing.T) {
	g := gomega.NewWithT(t)
	s := newTestSolver(t, quietConfig())

	g.Expect(s.State()).To(gomega.Equal(Running))

	s.Pause()
	g.Expect(s.Advance(testFrameDt)).To(gomega.BeFalse())
	g.Expect(s.FrameCount()).To(gomega.Equal(uint64(0)))

	s.RequestSingleStep()
	g.Expect(s.State()).To(gomega.Equal(PausedStepPending))
	g.Expect(s.Advance(testFrameDt)).To(gomega.BeTrue())
	g.Expect(s.State()).To(gomega.Equal(Paused))
	g.Expect(s.Advance(testFrameDt)).To(gomega.BeFalse())
	g.Expect(s.FrameCount()).To(gomega.Equal(uint64(1)))

	// Single-step is a no-op while running.
	s.Resume()
	s.RequestSingleStep()
	g.Expect(s.State()).To(gomega.Equal(Running))

	s.TogglePause()
	g.Expect(s.State()).To(gomega.Equal(Paused))
	s.TogglePause()
	g.Expect(s.State()).To(gomega.Equal(Running))
}

func TestRigidZoneBehavesAsCollider(t *testing.T) {
	cfg := quietConfig()
	cfg.Gravity = mgl32.Vec3{0, -10, 0}
	s := newTestSolver(t, cfg)

	// A rigid-mode zone under the spawn block catches falling
	// particles like a collision object would.
	zone := &affector.ForceZone{
		Name:       "floor",
		Shape:      affector.ShapeBox,
		BaseSize:   mgl32.Vec3{8, 2, 8},
		Mode:       affector.ForceRigidStatic,
		Source:     fluid.StaticPose(fluid.Pose{Position: mgl32.Vec3{0, -2.5, 0}, Scale: mgl32.Vec3{1, 1, 1}}),
		Bounciness: 0,
	}
	if !s.ForceZones().Add(zone) {
		t.Fatal("zone not added")
	}

	for frame := 0; frame < 120; frame++ {
		s.Advance(testFrameDt)
	}
	for i, p := range s.Positions() {
		if p.Y() < -1.55 {
			t.Fatalf("particle %d fell through rigid zone: %v", i, p)
		}
	}
}

func TestCollisionObjectBlocks(t *testing.T) {
	cfg := quietConfig()
	cfg.Gravity = mgl32.Vec3{0, -10, 0}
	s := newTestSolver(t, cfg)

	obj := &affector.CollisionObject{
		Name:       "floor",
		Shape:      affector.ShapeBox,
		BaseSize:   mgl32.Vec3{8, 2, 8},
		Source:     fluid.StaticPose(fluid.Pose{Position: mgl32.Vec3{0, -2.5, 0}, Scale: mgl32.Vec3{1, 1, 1}}),
		Bounciness: 0,
	}
	if !s.CollisionObjects().Add(obj) {
		t.Fatal("object not added")
	}

	for frame := 0; frame < 120; frame++ {
		s.Advance(testFrameDt)
	}
	for i, p := range s.Positions() {
		if p.Y() < -1.55 {
			t.Fatalf("particle %d fell through collider: %v", i, p)
		}
	}
}

func TestSetParam(t *testing.T) {
	g := gomega.NewWithT(t)
	s := newTestSolver(t, quietConfig())

	params := s.GetParams()
	for _, key := range []string{"gravity_y", "radius", "target_density", "pressure", "near_pressure", "viscosity", "damping"} {
		if _, ok := params[key]; !ok {
			t.Errorf("missing parameter %s", key)
		}
	}

	g.Expect(s.SetParam("viscosity", 0.3)).To(gomega.Succeed())
	g.Expect(s.GetParams()["viscosity"]).To(gomega.BeNumerically("~", 0.3, 1e-6))

	g.Expect(s.SetParam("radius", 0)).To(gomega.HaveOccurred())
	g.Expect(s.SetParam("target_density", -5)).To(gomega.HaveOccurred())
	g.Expect(s.SetParam("warp_drive", 1)).To(gomega.HaveOccurred())
}

func TestSetSmoothingRadius_RescalesKernels(t *testing.T) {
	s := newTestSolver(t, quietConfig())

	before := s.kern
	s.SetSmoothingRadius(0.7)
	if s.kern.h != 0.7 {
		t.Fatalf("kernel radius %g", s.kern.h)
	}
	if s.kern.spikyPow2Scale == before.spikyPow2Scale {
		t.Error("normalization constants not recomputed")
	}
	if s.Config().SmoothingRadius != 0.7 {
		t.Error("config radius not updated")
	}
}

func TestDensity_UniformBlockAboveZero(t *testing.T) {
	cfg := quietConfig()
	s := newTestSolver(t, cfg)

	s.Advance(testFrameDt)
	for i, d := range s.Densities() {
		if d.X() <= 0 {
			t.Fatalf("particle %d density %g after a step", i, d.X())
		}
		if d.Y() < 0 {
			t.Fatalf("particle %d near-density %g", i, d.Y())
		}
	}
}

func TestKernels_CompactSupport(t *testing.T) {
	k := newKernelConsts(0.5)
	if k.densityKernel(0.5) != 0 || k.densityKernel(0.6) != 0 {
		t.Error("density kernel nonzero at or past radius")
	}
	if k.nearDensityKernel(0.5) != 0 {
		t.Error("near-density kernel nonzero at radius")
	}
	if k.viscosityKernel(0.25) != 0 {
		t.Error("viscosity kernel nonzero at squared radius")
	}
	if k.densityKernel(0.1) <= 0 || k.nearDensityKernel(0.1) <= 0 {
		t.Error("kernels non-positive inside support")
	}
	if k.densityDerivative(0.1) >= 0 || k.nearDensityDerivative(0.1) >= 0 {
		t.Error("derivatives should be negative inside support")
	}
}

func TestKernels_Normalization(t *testing.T) {
	// Scale constants follow the analytic forms; spot-check one.
	h := 0.35
	k := newKernelConsts(float32(h))
	want := 15 / (2 * math.Pi * math.Pow(h, 5))
	if math.Abs(float64(k.spikyPow2Scale)-want) > want*1e-5 {
		t.Errorf("spikyPow2Scale %g, expected %g", k.spikyPow2Scale, want)
	}
}
