package affector

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// tracker holds per-slot pose history and the kinematics derived from
// it. Any list mutation re-seeds the whole tracker, so the first frame
// after a mutation reports zero velocity for every entry (no history
// yet); from the second observation onward velocities are
// (current - previous) / dt with angle-wrap correction.
type tracker struct {
	lastPos []mgl32.Vec3
	lastRot []mgl32.Vec3 // Euler degrees
	seen    []bool
}

func newTracker(capacity int) tracker {
	return tracker{
		lastPos: make([]mgl32.Vec3, capacity),
		lastRot: make([]mgl32.Vec3, capacity),
		seen:    make([]bool, capacity),
	}
}

func (t *tracker) reset() {
	for i := range t.seen {
		t.seen[i] = false
	}
}

// observe records the pose for a slot and returns the derived linear
// and angular velocity (radians per second).
func (t *tracker) observe(slot int, pose fluid.Pose, dt float32) (vel, angVel mgl32.Vec3) {
	if t.seen[slot] && dt > 0 {
		vel = pose.Position.Sub(t.lastPos[slot]).Mul(1 / dt)
		for a := 0; a < 3; a++ {
			d := fluid.WrapDegrees(pose.Rotation[a] - t.lastRot[slot][a])
			angVel[a] = mgl32.DegToRad(d) / dt
		}
	}
	t.lastPos[slot] = pose.Position
	t.lastRot[slot] = pose.Rotation
	t.seen[slot] = true
	return
}
