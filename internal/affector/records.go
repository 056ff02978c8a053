package affector

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

// GPU transfer records. Field order and 16-byte block alignment are a
// fixed binary contract between the solver and its compute kernels;
// the Pad fields are part of the layout, not decoration. Sizes are
// asserted in tests against CollisionRecordSize / ZoneRecordSize.
const (
	CollisionRecordSize = 160
	ZoneRecordSize      = 240
)

// CollisionRecord is the flattened per-step form of a collision
// object. Active is 0 for empty arena slots; kernels branch on it.
type CollisionRecord struct {
	Position mgl32.Vec3
	Radius   float32

	Velocity mgl32.Vec3
	Shape    Shape

	Size mgl32.Vec3
	Mass float32

	Bounciness float32
	Friction   float32
	Momentum   float32 // 1 when momentum transfer is enabled
	Active     float32

	Rotation mgl32.Mat4 // pure rotation, scale and translation stripped

	AngularVelocity mgl32.Vec3 // radians per second
	Pad0            float32

	Pivot mgl32.Vec3
	Pad1  float32
}

// ZoneRecord extends the collision layout with the force-law fields.
// Rigid-mode zones reuse the embedded collision fields for response.
type ZoneRecord struct {
	CollisionRecord

	Mode      ForceMode
	Strength  float32
	Twist     float32
	Frequency float32

	Direction mgl32.Vec3 // world space, re-derived from local each step
	Octaves   uint32

	Axis mgl32.Vec3 // world-space vortex axis
	Pad2 float32

	Falloff0 mgl32.Vec4
	Falloff1 mgl32.Vec4
}

// localPoint transforms a world position into the record's rotation
// frame, centered on the shape. The rotation is pure, so its inverse
// is the transpose.
func (r *CollisionRecord) localPoint(p mgl32.Vec3) mgl32.Vec3 {
	d := p.Sub(r.Position)
	return mgl32.TransformNormal(d, r.Rotation.Transpose())
}

func (r *CollisionRecord) worldDir(local mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformNormal(local, r.Rotation)
}

// EncodeRecords serializes records into the little-endian byte layout
// a device backend uploads. Works for both record types. The CPU
// backends consume the record structs directly; this is the upload
// path for backends that cross a device boundary, and the tests pin
// the layout through it.
func EncodeRecords[T CollisionRecord | ZoneRecord](records []T) ([]byte, error) {
	var buf bytes.Buffer
	for i := range records {
		if err := binary.Write(&buf, binary.LittleEndian, &records[i]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
