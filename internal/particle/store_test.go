package particle

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/fluid"
)

func testSpawn() SpawnSet {
	return SpawnSet{
		Regions: []SpawnRegion{
			{Center: mgl32.Vec3{0, 0, 0}, Size: mgl32.Vec3{1, 1, 1}, Spacing: 0.5, Jitter: 0.05},
		},
		InitialVelocity: mgl32.Vec3{0, -1, 0},
		Seed:            42,
	}
}

func TestSpawnSetCount(t *testing.T) {
	s := testSpawn()
	// 1.0/0.5 + 1 = 3 per axis.
	if got := s.Count(); got != 27 {
		t.Errorf("expected 27 particles, got %d", got)
	}

	s.Regions = append(s.Regions, SpawnRegion{Size: mgl32.Vec3{1, 0, 0}, Spacing: 0.5})
	if got := s.Count(); got != 27+3 {
		t.Errorf("expected 30 particles with second region, got %d", got)
	}
}

func TestSpawnSetCount_ZeroSpacing(t *testing.T) {
	s := SpawnSet{Regions: []SpawnRegion{{Size: mgl32.Vec3{1, 1, 1}}}}
	if got := s.Count(); got != 0 {
		t.Errorf("zero spacing should spawn nothing, got %d", got)
	}
}

func TestNewStore_Empty(t *testing.T) {
	_, err := NewStore(SpawnSet{})
	if !errors.Is(err, fluid.ErrNoParticles) {
		t.Errorf("expected ErrNoParticles, got %v", err)
	}
}

func TestNewStore_Seeded(t *testing.T) {
	st, err := NewStore(testSpawn())
	if err != nil {
		t.Fatal(err)
	}
	if st.N != 27 {
		t.Fatalf("expected 27 particles, got %d", st.N)
	}

	for i := 0; i < st.N; i++ {
		if st.Velocities[i] != (mgl32.Vec3{0, -1, 0}) {
			t.Fatalf("particle %d velocity %v, expected initial velocity", i, st.Velocities[i])
		}
		if st.Predicted[i] != st.Positions[i] {
			t.Fatalf("particle %d predicted %v != position %v", i, st.Predicted[i], st.Positions[i])
		}
		if st.IDs[i] != uint32(i) {
			t.Fatalf("particle %d id %d, expected identity", i, st.IDs[i])
		}
	}
	if !st.Valid() {
		t.Error("freshly seeded store should be valid")
	}
}

func TestReset_Deterministic(t *testing.T) {
	st, err := NewStore(testSpawn())
	if err != nil {
		t.Fatal(err)
	}

	first := make([]mgl32.Vec3, st.N)
	copy(first, st.Positions)

	// Scramble, then reset.
	for i := range st.Positions {
		st.Positions[i] = st.Positions[i].Add(mgl32.Vec3{1, 2, 3})
		st.Velocities[i] = mgl32.Vec3{9, 9, 9}
		st.IDs[i] = 0
	}
	st.Reset()

	for i := range first {
		if st.Positions[i] != first[i] {
			t.Fatalf("reset position %d = %v, expected %v", i, st.Positions[i], first[i])
		}
		if st.IDs[i] != uint32(i) {
			t.Fatalf("reset id %d = %d", i, st.IDs[i])
		}
	}
}

func TestSpawn_JitterWithinBound(t *testing.T) {
	spawn := testSpawn()
	st, err := NewStore(spawn)
	if err != nil {
		t.Fatal(err)
	}

	r := spawn.Regions[0]
	half := r.Size.Mul(0.5)
	for i := 0; i < st.N; i++ {
		d := st.Positions[i].Sub(r.Center)
		for axis := 0; axis < 3; axis++ {
			limit := half[axis] + r.Jitter + 1e-5
			if d[axis] > limit || d[axis] < -limit {
				t.Fatalf("particle %d axis %d at %g outside region+jitter %g", i, axis, d[axis], limit)
			}
		}
	}
}
