package affector

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestScaledDimensions(t *testing.T) {
	base := mgl32.Vec3{1, 2, 3}
	tests := []struct {
		name       string
		shape      Shape
		scale      mgl32.Vec3
		wantRadius float32
		wantSize   mgl32.Vec3
	}{
		{"sphere max axis", ShapeSphere, mgl32.Vec3{1, 3, 2}, 1.5, mgl32.Vec3{1, 2, 3}},
		{"box per axis", ShapeBox, mgl32.Vec3{2, 1, 0.5}, 0.5, mgl32.Vec3{2, 2, 1.5}},
		{"cylinder height and radial", ShapeCylinder, mgl32.Vec3{2, 3, 1}, 1, mgl32.Vec3{1, 6, 3}},
		{"capsule height and radial", ShapeCapsule, mgl32.Vec3{1, 2, 4}, 2, mgl32.Vec3{1, 4, 3}},
	}
	for _, tt := range tests {
		radius, size := scaledDimensions(tt.shape, 0.5, base, tt.scale)
		if radius != tt.wantRadius {
			t.Errorf("%s: radius %g, expected %g", tt.name, radius, tt.wantRadius)
		}
		if size != tt.wantSize {
			t.Errorf("%s: size %v, expected %v", tt.name, size, tt.wantSize)
		}
	}
}

func TestShapeString(t *testing.T) {
	for _, s := range []Shape{ShapeSphere, ShapeBox, ShapeCylinder, ShapeCapsule} {
		if s.String() == "unknown" {
			t.Errorf("shape %d has no name", s)
		}
	}
	if Shape(42).String() != "unknown" {
		t.Error("out-of-range shape should be unknown")
	}
}
