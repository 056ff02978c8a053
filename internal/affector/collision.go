package affector

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/fluidlab/internal/fluid"
)

// CollisionObject is a rigid shape sourced from an external scene
// entity. Base dimensions are the unscaled authoring values; world
// size and radius are re-derived from the entity's scale every step.
type CollisionObject struct {
	Name  string
	Shape Shape

	BaseRadius float32
	BaseSize   mgl32.Vec3

	Mass             float32
	Bounciness       float32 // normal restitution, 0-1
	Friction         float32 // tangential damping, 0-1
	MomentumTransfer bool

	Source fluid.PoseSource
	// Pivot overrides the rotation pivot; nil pivots about the object
	// center.
	Pivot fluid.PoseSource
}

// CollisionObjects is the bounded, solver-owned list of collision
// objects plus its pose-tracking state and GPU upload buffer.
type CollisionObjects struct {
	arena   arena[CollisionObject]
	track   tracker
	records []CollisionRecord
}

func NewCollisionObjects(capacity int) *CollisionObjects {
	a := newArena[CollisionObject](capacity)
	return &CollisionObjects{
		arena:   a,
		track:   newTracker(a.capacity()),
		records: make([]CollisionRecord, a.capacity()),
	}
}

// Add returns false when capacity is exhausted; the list is unchanged.
func (c *CollisionObjects) Add(o *CollisionObject) bool {
	slot, ok := c.arena.add(o)
	if !ok {
		return false
	}
	c.records[slot] = CollisionRecord{}
	c.track.reset()
	return true
}

func (c *CollisionObjects) Remove(o *CollisionObject) bool {
	if !c.arena.remove(o) {
		return false
	}
	c.deactivate()
	return true
}

func (c *CollisionObjects) RemoveAt(slot int) bool {
	if !c.arena.removeAt(slot) {
		return false
	}
	c.deactivate()
	return true
}

func (c *CollisionObjects) Clear() {
	c.arena.clear()
	c.deactivate()
}

func (c *CollisionObjects) Count() int    { return c.arena.count }
func (c *CollisionObjects) Capacity() int { return c.arena.capacity() }

func (c *CollisionObjects) Get(slot int) *CollisionObject { return c.arena.get(slot) }

func (c *CollisionObjects) deactivate() {
	c.track.reset()
	for i := range c.records {
		if c.arena.slots[i] == nil {
			c.records[i].Active = 0
		}
	}
}

// Records returns the upload buffer. Valid between Resample calls;
// kernels treat it as read-only within a frame.
func (c *CollisionObjects) Records() []CollisionRecord { return c.records }

// Resample refreshes every record from its entity's live transform and
// finite-differences kinematics against the previous frame. Entries
// whose source is unavailable this frame keep their last sampled
// values.
func (c *CollisionObjects) Resample(dt float32) {
	for slot, o := range c.arena.slots {
		if o == nil {
			c.records[slot].Active = 0
			continue
		}
		pose, ok := o.Source.Pose()
		if !ok {
			continue
		}

		rec := &c.records[slot]
		rec.Active = 1
		fillRigid(rec, o.Shape, o.BaseRadius, o.BaseSize, o.Mass, o.Bounciness, o.Friction, o.MomentumTransfer, pose)
		rec.Velocity, rec.AngularVelocity = c.track.observe(slot, pose, dt)
		rec.Pivot = resolvePivot(o.Pivot, rec.Position)
	}
}

func fillRigid(rec *CollisionRecord, shape Shape, baseRadius float32, baseSize mgl32.Vec3,
	mass, bounciness, friction float32, momentum bool, pose fluid.Pose) {

	rec.Shape = shape
	rec.Position = pose.Position
	rec.Rotation = fluid.RotationMatrix(pose.Rotation)
	rec.Radius, rec.Size = scaledDimensions(shape, baseRadius, baseSize, pose.Scale)
	rec.Mass = mass
	rec.Bounciness = bounciness
	rec.Friction = friction
	rec.Momentum = 0
	if momentum {
		rec.Momentum = 1
	}
}

func resolvePivot(pivot fluid.PoseSource, center mgl32.Vec3) mgl32.Vec3 {
	if pivot == nil {
		return center
	}
	pose, ok := pivot.Pose()
	if !ok {
		return center
	}
	return pose.Position
}
