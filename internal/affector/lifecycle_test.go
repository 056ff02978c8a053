package affector_test

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluidlab/internal/affector"
	"github.com/san-kum/fluidlab/internal/fluid"
)

// movingPose is a pose source the specs can mutate between frames.
type movingPose struct {
	pose      fluid.Pose
	available bool
}

func (m *movingPose) Pose() (fluid.Pose, bool) { return m.pose, m.available }

func newMovingPose(pos mgl32.Vec3) *movingPose {
	return &movingPose{
		pose: fluid.Pose{
			Position: pos,
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		available: true,
	}
}

var _ = Describe("CollisionObjects", func() {
	var (
		list *affector.CollisionObjects
		src  *movingPose
		obj  *affector.CollisionObject
	)

	BeforeEach(func() {
		list = affector.NewCollisionObjects(4)
		src = newMovingPose(mgl32.Vec3{1, 2, 3})
		obj = &affector.CollisionObject{
			Name:       "ball",
			Shape:      affector.ShapeSphere,
			BaseRadius: 0.5,
			Source:     src,
		}
	})

	It("activates a record on the first resample", func() {
		Expect(list.Add(obj)).To(BeTrue())
		list.Resample(1.0 / 60)

		rec := list.Records()[0]
		Expect(rec.Active).To(Equal(float32(1)))
		Expect(rec.Position).To(Equal(mgl32.Vec3{1, 2, 3}))
		Expect(rec.Radius).To(Equal(float32(0.5)))
	})

	It("reports zero velocity on the first sample after a mutation", func() {
		Expect(list.Add(obj)).To(BeTrue())
		list.Resample(1.0 / 60)
		Expect(list.Records()[0].Velocity).To(Equal(mgl32.Vec3{}))
	})

	It("derives velocity from consecutive poses", func() {
		Expect(list.Add(obj)).To(BeTrue())
		dt := float32(0.1)
		list.Resample(dt)

		src.pose.Position = src.pose.Position.Add(mgl32.Vec3{1, 0, 0})
		list.Resample(dt)

		vel := list.Records()[0].Velocity
		Expect(vel.X()).To(BeNumerically("~", 10.0, 1e-4))
		Expect(vel.Y()).To(BeZero())
	})

	It("re-seeds velocity tracking when the list is mutated", func() {
		Expect(list.Add(obj)).To(BeTrue())
		list.Resample(0.1)
		src.pose.Position = src.pose.Position.Add(mgl32.Vec3{1, 0, 0})
		list.Resample(0.1)
		Expect(list.Records()[0].Velocity).NotTo(Equal(mgl32.Vec3{}))

		other := &affector.CollisionObject{Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
		Expect(list.Add(other)).To(BeTrue())

		// First frame after the mutation: velocities are zero again.
		src.pose.Position = src.pose.Position.Add(mgl32.Vec3{1, 0, 0})
		list.Resample(0.1)
		Expect(list.Records()[0].Velocity).To(Equal(mgl32.Vec3{}))
	})

	It("derives angular velocity with wrap correction", func() {
		Expect(list.Add(obj)).To(BeTrue())
		src.pose.Rotation = mgl32.Vec3{0, 179, 0}
		list.Resample(0.1)

		// 179 -> -179 is a +2 degree step once wrapped.
		src.pose.Rotation = mgl32.Vec3{0, -179, 0}
		list.Resample(0.1)

		angY := list.Records()[0].AngularVelocity.Y()
		Expect(angY).To(BeNumerically("~", float64(mgl32.DegToRad(2)/0.1), 1e-4))
	})

	It("retains the last sample while the source is unavailable", func() {
		Expect(list.Add(obj)).To(BeTrue())
		list.Resample(0.1)
		Expect(list.Records()[0].Active).To(Equal(float32(1)))

		src.available = false
		src.pose.Position = mgl32.Vec3{99, 99, 99}
		list.Resample(0.1)

		rec := list.Records()[0]
		Expect(rec.Active).To(Equal(float32(1)))
		Expect(rec.Position).To(Equal(mgl32.Vec3{1, 2, 3}))
	})

	It("derives dimensions from the pose scale", func() {
		src.pose.Scale = mgl32.Vec3{2, 3, 1}
		Expect(list.Add(obj)).To(BeTrue())
		list.Resample(0.1)
		// Sphere radius scales by the largest axis.
		Expect(list.Records()[0].Radius).To(Equal(float32(1.5)))
	})

	It("rejects additions beyond capacity without changing the list", func() {
		for i := 0; i < list.Capacity(); i++ {
			o := &affector.CollisionObject{Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
			Expect(list.Add(o)).To(BeTrue())
		}
		extra := &affector.CollisionObject{Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
		Expect(list.Add(extra)).To(BeFalse())
		Expect(list.Count()).To(Equal(list.Capacity()))
	})

	It("deactivates the freed slot on removal", func() {
		Expect(list.Add(obj)).To(BeTrue())
		list.Resample(0.1)
		Expect(list.Remove(obj)).To(BeTrue())
		Expect(list.Records()[0].Active).To(BeZero())
		Expect(list.Count()).To(BeZero())
	})

	It("reuses the lowest free slot", func() {
		a := &affector.CollisionObject{Name: "a", Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
		b := &affector.CollisionObject{Name: "b", Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
		Expect(list.Add(a)).To(BeTrue())
		Expect(list.Add(b)).To(BeTrue())
		Expect(list.Remove(a)).To(BeTrue())

		c := &affector.CollisionObject{Name: "c", Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
		Expect(list.Add(c)).To(BeTrue())
		Expect(list.Get(0)).To(Equal(c))
		Expect(list.Get(1)).To(Equal(b))
	})
})

type strengthSettings struct{ strength float32 }

func (s *strengthSettings) Refresh(z *affector.ForceZone) { z.Strength = s.strength }

var _ = Describe("ForceZones", func() {
	var (
		list *affector.ForceZones
		src  *movingPose
		zone *affector.ForceZone
	)

	BeforeEach(func() {
		list = affector.NewForceZones(4)
		src = newMovingPose(mgl32.Vec3{0, 0, 0})
		zone = &affector.ForceZone{
			Name:           "current",
			Shape:          affector.ShapeBox,
			BaseSize:       mgl32.Vec3{4, 4, 4},
			Mode:           affector.ForceDirectional,
			Strength:       5,
			LocalDirection: mgl32.Vec3{1, 0, 0},
			Source:         src,
		}
	})

	It("transforms the local direction by the entity rotation", func() {
		Expect(list.Add(zone)).To(BeTrue())
		src.pose.Rotation = mgl32.Vec3{0, 90, 0}
		list.Resample(0.1)

		dir := list.Records()[0].Direction
		Expect(dir.X()).To(BeNumerically("~", 0, 1e-5))
		Expect(dir.Z()).To(BeNumerically("~", -1, 1e-5))
	})

	It("pulls live settings every resample", func() {
		settings := &strengthSettings{strength: 5}
		zone.Settings = settings
		Expect(list.Add(zone)).To(BeTrue())

		list.Resample(0.1)
		Expect(list.Records()[0].Strength).To(Equal(float32(5)))

		settings.strength = 12
		list.Resample(0.1)
		Expect(list.Records()[0].Strength).To(Equal(float32(12)))
	})

	It("samples a nil falloff as constant one", func() {
		Expect(list.Add(zone)).To(BeTrue())
		list.Resample(0.1)

		rec := list.Records()[0]
		Expect(rec.Falloff0).To(Equal(mgl32.Vec4{1, 1, 1, 1}))
		Expect(rec.Falloff1).To(Equal(mgl32.Vec4{1, 1, 1, 1}))
	})

	It("normalizes direction and axis", func() {
		zone.LocalDirection = mgl32.Vec3{3, 0, 0}
		zone.LocalAxis = mgl32.Vec3{0, 10, 0}
		Expect(list.Add(zone)).To(BeTrue())
		list.Resample(0.1)

		rec := list.Records()[0]
		Expect(rec.Direction.Len()).To(BeNumerically("~", 1, 1e-5))
		Expect(rec.Direction.X()).To(BeNumerically("~", 1, 1e-5))
		Expect(rec.Axis.Len()).To(BeNumerically("~", 1, 1e-5))
		Expect(rec.Axis.Y()).To(BeNumerically("~", 1, 1e-5))
	})

	It("enforces its own capacity", func() {
		for i := 0; i < list.Capacity(); i++ {
			z := &affector.ForceZone{Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
			Expect(list.Add(z)).To(BeTrue())
		}
		z := &affector.ForceZone{Shape: affector.ShapeSphere, BaseRadius: 1, Source: newMovingPose(mgl32.Vec3{})}
		Expect(list.Add(z)).To(BeFalse())
	})
})
