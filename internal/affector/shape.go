package affector

import "github.com/go-gl/mathgl/mgl32"

// Shape is the rigid shape kind of an affector. The numeric values are
// part of the GPU record contract.
type Shape uint32

const (
	ShapeSphere Shape = iota
	ShapeBox
	ShapeCylinder
	ShapeCapsule
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeCapsule:
		return "capsule"
	}
	return "unknown"
}

// scaledDimensions derives world size and radius from cached unscaled
// base values and the entity's current world scale. Sphere radius
// scales by the largest axis factor; box size scales per axis;
// cylinder and capsule height scale by the up axis, radius by the max
// of the other two.
func scaledDimensions(shape Shape, baseRadius float32, baseSize, scale mgl32.Vec3) (radius float32, size mgl32.Vec3) {
	switch shape {
	case ShapeSphere:
		radius = baseRadius * max3(scale.X(), scale.Y(), scale.Z())
		size = baseSize
	case ShapeBox:
		radius = baseRadius
		size = mgl32.Vec3{baseSize.X() * scale.X(), baseSize.Y() * scale.Y(), baseSize.Z() * scale.Z()}
	case ShapeCylinder, ShapeCapsule:
		radius = baseRadius * maxf(scale.X(), scale.Z())
		size = mgl32.Vec3{baseSize.X(), baseSize.Y() * scale.Y(), baseSize.Z()}
	}
	return
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func max3(a, b, c float32) float32 {
	return maxf(a, maxf(b, c))
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
