package affector

import "github.com/go-gl/mathgl/mgl32"

// Collide runs the record shape's penetration test against a world
// position. It returns the world-space contact normal (pointing out of
// the shape) and penetration depth; ok is false when the point is not
// inside the shape.
func Collide(rec *CollisionRecord, p mgl32.Vec3) (normal mgl32.Vec3, depth float32, ok bool) {
	q := rec.localPoint(p)

	var ln mgl32.Vec3
	switch rec.Shape {
	case ShapeSphere:
		ln, depth, ok = sphereTest(q, rec.Radius)
	case ShapeBox:
		ln, depth, ok = boxTest(q, rec.Size.Mul(0.5))
	case ShapeCylinder:
		ln, depth, ok = cylinderTest(q, rec.Radius, rec.Size.Y()/2)
	case ShapeCapsule:
		ln, depth, ok = capsuleTest(q, rec.Radius, rec.Size.Y()/2)
	}
	if !ok {
		return mgl32.Vec3{}, 0, false
	}
	return rec.worldDir(ln), depth, true
}

func sphereTest(q mgl32.Vec3, radius float32) (mgl32.Vec3, float32, bool) {
	d := q.Len()
	if d >= radius {
		return mgl32.Vec3{}, 0, false
	}
	if d < 1e-6 {
		return mgl32.Vec3{0, 1, 0}, radius, true
	}
	return q.Mul(1 / d), radius - d, true
}

func boxTest(q, half mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	// Penetration along each axis; negative means outside.
	px := half.X() - absf(q.X())
	py := half.Y() - absf(q.Y())
	pz := half.Z() - absf(q.Z())
	if px <= 0 || py <= 0 || pz <= 0 {
		return mgl32.Vec3{}, 0, false
	}

	// Push out along the shallowest axis.
	switch {
	case px <= py && px <= pz:
		return mgl32.Vec3{signf(q.X()), 0, 0}, px, true
	case py <= pz:
		return mgl32.Vec3{0, signf(q.Y()), 0}, py, true
	default:
		return mgl32.Vec3{0, 0, signf(q.Z())}, pz, true
	}
}

func cylinderTest(q mgl32.Vec3, radius, halfHeight float32) (mgl32.Vec3, float32, bool) {
	capPen := halfHeight - absf(q.Y())
	if capPen <= 0 {
		return mgl32.Vec3{}, 0, false
	}
	rr := mgl32.Vec3{q.X(), 0, q.Z()}
	rd := rr.Len()
	radialPen := radius - rd
	if radialPen <= 0 {
		return mgl32.Vec3{}, 0, false
	}

	if capPen < radialPen {
		return mgl32.Vec3{0, signf(q.Y()), 0}, capPen, true
	}
	if rd < 1e-6 {
		return mgl32.Vec3{1, 0, 0}, radius, true
	}
	return rr.Mul(1 / rd), radialPen, true
}

func capsuleTest(q mgl32.Vec3, radius, halfHeight float32) (mgl32.Vec3, float32, bool) {
	// Closest point on the core segment along local Y.
	cy := clampf(q.Y(), -halfHeight, halfHeight)
	return sphereTest(q.Sub(mgl32.Vec3{0, cy, 0}), radius)
}

// Respond resolves a particle against a rigid affector: push out along
// the contact normal, reflect the relative velocity with restitution,
// damp the tangential component by friction. With momentum transfer
// enabled, relative velocity is measured against the affector's
// surface velocity (linear plus angular about the pivot) and that
// velocity is folded back into the result; otherwise the surface is
// treated as static.
func Respond(rec *CollisionRecord, pos, vel mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3, bool) {
	if rec.Active == 0 {
		return pos, vel, false
	}
	normal, depth, ok := Collide(rec, pos)
	if !ok {
		return pos, vel, false
	}

	newPos := pos.Add(normal.Mul(depth))

	var surface mgl32.Vec3
	if rec.Momentum != 0 {
		surface = rec.Velocity.Add(rec.AngularVelocity.Cross(newPos.Sub(rec.Pivot)))
	}

	rel := vel.Sub(surface)
	vn := rel.Dot(normal)
	if vn < 0 {
		rel = rel.Sub(normal.Mul((1 + rec.Bounciness) * vn))
		tangent := rel.Sub(normal.Mul(rel.Dot(normal)))
		rel = rel.Sub(tangent.Mul(rec.Friction))
	}

	return newPos, rel.Add(surface), true
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func signf(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
