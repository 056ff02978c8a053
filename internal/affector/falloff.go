package affector

import "github.com/go-gl/mathgl/mgl32"

// FalloffSampleCount is the number of fixed parametric sample points
// a falloff curve is flattened to for the GPU record (center = 0 to
// edge = 1).
const FalloffSampleCount = 8

// FalloffCurve maps normalized distance (0 = center, 1 = edge) to a
// force-scale multiplier.
type FalloffCurve func(t float32) float32

// ConstantFalloff applies v everywhere inside the shape.
func ConstantFalloff(v float32) FalloffCurve {
	return func(float32) float32 { return v }
}

// LinearFalloff fades from 1 at the center to 0 at the edge.
func LinearFalloff() FalloffCurve {
	return func(t float32) float32 { return 1 - clampf(t, 0, 1) }
}

// SmoothFalloff is a smoothstep fade from 1 at the center to 0 at the
// edge.
func SmoothFalloff() FalloffCurve {
	return func(t float32) float32 {
		t = clampf(t, 0, 1)
		return 1 - t*t*(3-2*t)
	}
}

// FalloffSamples is a falloff curve flattened to its GPU form.
type FalloffSamples [FalloffSampleCount]float32

// SampleFalloff evaluates the curve at the 8 fixed parametric points.
// A nil curve samples as constant 1.
func SampleFalloff(c FalloffCurve) FalloffSamples {
	var s FalloffSamples
	for i := range s {
		t := float32(i) / float32(FalloffSampleCount-1)
		if c == nil {
			s[i] = 1
		} else {
			s[i] = c(t)
		}
	}
	return s
}

// Eval linearly interpolates the sampled curve at t, clamped to [0,1].
func (s FalloffSamples) Eval(t float32) float32 {
	t = clampf(t, 0, 1) * float32(FalloffSampleCount-1)
	i := int(t)
	if i >= FalloffSampleCount-1 {
		return s[FalloffSampleCount-1]
	}
	frac := t - float32(i)
	return s[i]*(1-frac) + s[i+1]*frac
}

// Vecs packs the samples into the two 4-component vectors the zone
// record carries.
func (s FalloffSamples) Vecs() (mgl32.Vec4, mgl32.Vec4) {
	return mgl32.Vec4{s[0], s[1], s[2], s[3]}, mgl32.Vec4{s[4], s[5], s[6], s[7]}
}

func falloffFromVecs(a, b mgl32.Vec4) FalloffSamples {
	return FalloffSamples{a[0], a[1], a[2], a[3], b[0], b[1], b[2], b[3]}
}
