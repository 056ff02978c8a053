package affector

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// ForceMode selects the force law a zone applies. The numeric values
// are part of the GPU record contract. The two rigid modes reuse the
// collision-response path instead of injecting a force.
type ForceMode uint32

const (
	ForceDirectional ForceMode = iota
	ForceRadial
	ForceVortex
	ForceTurbulence
	ForceDirectionalFalloff
	ForceRigidStatic
	ForceRigidDynamic
)

func (m ForceMode) String() string {
	switch m {
	case ForceDirectional:
		return "directional"
	case ForceRadial:
		return "radial"
	case ForceVortex:
		return "vortex"
	case ForceTurbulence:
		return "turbulence"
	case ForceDirectionalFalloff:
		return "directional_falloff"
	case ForceRigidStatic:
		return "rigid_static"
	case ForceRigidDynamic:
		return "rigid_dynamic"
	}
	return "unknown"
}

// Rigid reports whether the mode routes through collision response.
func (m ForceMode) Rigid() bool {
	return m == ForceRigidStatic || m == ForceRigidDynamic
}

// normalizedDistance maps a world position to [0, 1] from shape center
// to edge, or > 1 outside the shape.
func normalizedDistance(rec *CollisionRecord, p mgl32.Vec3) float32 {
	q := rec.localPoint(p)
	switch rec.Shape {
	case ShapeSphere:
		if rec.Radius <= 0 {
			return 2
		}
		return q.Len() / rec.Radius
	case ShapeBox:
		half := rec.Size.Mul(0.5)
		t := float32(0)
		for i := 0; i < 3; i++ {
			if half[i] <= 0 {
				return 2
			}
			t = maxf(t, absf(q[i])/half[i])
		}
		return t
	case ShapeCylinder:
		halfH := rec.Size.Y() / 2
		if rec.Radius <= 0 || halfH <= 0 {
			return 2
		}
		radial := mgl32.Vec3{q.X(), 0, q.Z()}.Len() / rec.Radius
		return maxf(radial, absf(q.Y())/halfH)
	case ShapeCapsule:
		halfH := rec.Size.Y() / 2
		if rec.Radius <= 0 {
			return 2
		}
		cy := clampf(q.Y(), -halfH, halfH)
		return q.Sub(mgl32.Vec3{0, cy, 0}).Len() / rec.Radius
	}
	return 2
}

// ZoneForce evaluates a zone's force law at a particle position.
// Returns false when the zone is inactive, rigid-mode, or the particle
// is outside the shape. Directional mode ignores the shape's extent
// for attenuation (falloff is sampled at the center) but still only
// applies inside the zone volume.
func ZoneForce(rec *ZoneRecord, noise *fluid.Turbulence, p mgl32.Vec3, t float32) (mgl32.Vec3, bool) {
	if rec.Active == 0 || rec.Mode.Rigid() {
		return mgl32.Vec3{}, false
	}

	dist := normalizedDistance(&rec.CollisionRecord, p)
	if dist > 1 {
		return mgl32.Vec3{}, false
	}
	samples := falloffFromVecs(rec.Falloff0, rec.Falloff1)

	switch rec.Mode {
	case ForceDirectional:
		return rec.Direction.Mul(rec.Strength * samples[0]), true

	case ForceDirectionalFalloff:
		return rec.Direction.Mul(rec.Strength * samples.Eval(dist)), true

	case ForceRadial:
		// Positive strength pushes outward, negative pulls in.
		offset := p.Sub(rec.Position)
		d := offset.Len()
		if d < 1e-6 {
			return mgl32.Vec3{}, false
		}
		return offset.Mul(rec.Strength * samples.Eval(dist) / d), true

	case ForceVortex:
		offset := p.Sub(rec.Position)
		axial := rec.Axis.Mul(offset.Dot(rec.Axis))
		radial := offset.Sub(axial)
		rd := radial.Len()
		if rd < 1e-6 {
			return mgl32.Vec3{}, false
		}
		radialDir := radial.Mul(1 / rd)
		tangent := rec.Axis.Cross(radialDir)
		// Twist biases the spin inward (negative) or outward
		// (positive), blended against the tangential component.
		blend := tangent.Mul(1 - absf(rec.Twist)).Add(radialDir.Mul(rec.Twist))
		return blend.Mul(rec.Strength * samples.Eval(dist)), true

	case ForceTurbulence:
		if noise == nil {
			return mgl32.Vec3{}, false
		}
		v := noise.Sample(p, t, rec.Frequency, int(rec.Octaves))
		return v.Mul(rec.Strength * samples.Eval(dist)), true
	}

	return mgl32.Vec3{}, false
}
