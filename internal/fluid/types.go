package fluid

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a world-transform snapshot of an external entity. Rotation is
// Euler angles in degrees (XYZ order), matching what scene hosts hand
// out; the affector tracker converts to radians when differencing.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// PoseSource supplies a pose per frame. The second return is false when
// the backing entity is destroyed or not yet initialized; the caller
// skips resampling for that frame and keeps the last known values.
type PoseSource interface {
	Pose() (Pose, bool)
}

// StaticPose is a PoseSource with a fixed transform, useful for
// world-anchored affectors and in tests.
type StaticPose Pose

func (s StaticPose) Pose() (Pose, bool) { return Pose(s), true }

// IdentityPose returns a pose at the origin with unit scale.
func IdentityPose() Pose {
	return Pose{Scale: mgl32.Vec3{1, 1, 1}}
}

// WrapDegrees folds an angle delta into [-180, 180]. Finite-differenced
// Euler rotations jump by full turns when the host wraps its angles;
// folding first keeps derived angular velocity continuous.
func WrapDegrees(d float32) float32 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

// RotationMatrix builds the pure rotation transform for a pose, scale
// and translation stripped. Euler order XYZ, degrees in, column-major
// mat4 out to match the GPU record contract.
func RotationMatrix(rotation mgl32.Vec3) mgl32.Mat4 {
	q := mgl32.AnglesToQuat(
		mgl32.DegToRad(rotation.X()),
		mgl32.DegToRad(rotation.Y()),
		mgl32.DegToRad(rotation.Z()),
		mgl32.XYZ,
	)
	return q.Mat4()
}

// IsFinite reports whether v has no NaN or Inf component.
func IsFinite(v mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
