package affector

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// ZoneSettings is an optional live parameter source for a force zone.
// When set, the zone pulls fresh force-law parameters every frame, so
// host-side edits show up without removing and re-adding the zone.
type ZoneSettings interface {
	Refresh(z *ForceZone)
}

// ForceZone is a shaped region that perturbs particles. Direction and
// vortex axis are stored in local space and transformed by the source
// entity's rotation every step, so rotating the entity reorients the
// force. In a rigid mode the zone behaves as a collision object and
// the force-law fields are ignored.
type ForceZone struct {
	Name  string
	Shape Shape

	BaseRadius float32
	BaseSize   mgl32.Vec3

	Mode           ForceMode
	Strength       float32
	LocalDirection mgl32.Vec3
	LocalAxis      mgl32.Vec3
	Twist          float32 // signed radial bias for vortex, -1..1
	Frequency      float32
	Octaves        int
	Falloff        FalloffCurve

	// Rigid-mode attributes, mirroring CollisionObject.
	Mass             float32
	Bounciness       float32
	Friction         float32
	MomentumTransfer bool

	Source   fluid.PoseSource
	Pivot    fluid.PoseSource
	Settings ZoneSettings
}

// ForceZones is the bounded, solver-owned force zone list plus its
// tracking state and GPU upload buffer. Lifetime rules mirror
// CollisionObjects.
type ForceZones struct {
	arena   arena[ForceZone]
	track   tracker
	records []ZoneRecord
}

func NewForceZones(capacity int) *ForceZones {
	a := newArena[ForceZone](capacity)
	return &ForceZones{
		arena:   a,
		track:   newTracker(a.capacity()),
		records: make([]ZoneRecord, a.capacity()),
	}
}

func (f *ForceZones) Add(z *ForceZone) bool {
	slot, ok := f.arena.add(z)
	if !ok {
		return false
	}
	f.records[slot] = ZoneRecord{}
	f.track.reset()
	return true
}

func (f *ForceZones) Remove(z *ForceZone) bool {
	if !f.arena.remove(z) {
		return false
	}
	f.deactivate()
	return true
}

func (f *ForceZones) RemoveAt(slot int) bool {
	if !f.arena.removeAt(slot) {
		return false
	}
	f.deactivate()
	return true
}

func (f *ForceZones) Clear() {
	f.arena.clear()
	f.deactivate()
}

func (f *ForceZones) Count() int    { return f.arena.count }
func (f *ForceZones) Capacity() int { return f.arena.capacity() }

func (f *ForceZones) Get(slot int) *ForceZone { return f.arena.get(slot) }

func (f *ForceZones) deactivate() {
	f.track.reset()
	for i := range f.records {
		if f.arena.slots[i] == nil {
			f.records[i].Active = 0
		}
	}
}

func (f *ForceZones) Records() []ZoneRecord { return f.records }

// Resample refreshes every zone record from its entity's transform:
// scale-derived dimensions, world-space direction and axis, refreshed
// settings, sampled falloff, and finite-differenced kinematics for the
// rigid modes. Unavailable sources keep their last sampled values.
func (f *ForceZones) Resample(dt float32) {
	for slot, z := range f.arena.slots {
		if z == nil {
			f.records[slot].Active = 0
			continue
		}
		pose, ok := z.Source.Pose()
		if !ok {
			continue
		}
		if z.Settings != nil {
			z.Settings.Refresh(z)
		}

		rec := &f.records[slot]
		rec.Active = 1
		fillRigid(&rec.CollisionRecord, z.Shape, z.BaseRadius, z.BaseSize,
			z.Mass, z.Bounciness, z.Friction, z.MomentumTransfer, pose)
		rec.Velocity, rec.AngularVelocity = f.track.observe(slot, pose, dt)
		rec.Pivot = resolvePivot(z.Pivot, rec.Position)

		rec.Mode = z.Mode
		rec.Strength = z.Strength
		rec.Twist = z.Twist
		rec.Frequency = z.Frequency
		rec.Octaves = uint32(z.Octaves)
		rec.Direction = safeNormalize(rec.worldDir(z.LocalDirection))
		rec.Axis = safeNormalize(rec.worldDir(z.LocalAxis))
		rec.Falloff0, rec.Falloff1 = SampleFalloff(z.Falloff).Vecs()
	}
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
