package fluid

import (
	"github.com/go-gl/mathgl/mgl32"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Turbulence is multi-octave simplex noise evaluated as a 3D vector
// field over (position, time). Each octave doubles frequency and
// halves amplitude; the three components are decorrelated by sampling
// the same field at large fixed offsets.
type Turbulence struct {
	noise opensimplex.Noise
}

// Component offsets, far enough apart that the octave sums never
// overlap for any plausible simulation domain.
const (
	turbOffsetY = 137.41
	turbOffsetZ = 271.83
)

func NewTurbulence(seed int64) *Turbulence {
	return &Turbulence{noise: opensimplex.New(seed)}
}

// Sample evaluates the turbulence vector at p, advected by t.
// frequency scales the base octave; octaves must be >= 1.
func (n *Turbulence) Sample(p mgl32.Vec3, t, frequency float32, octaves int) mgl32.Vec3 {
	if octaves < 1 {
		octaves = 1
	}

	var out mgl32.Vec3
	amp := 1.0
	freq := float64(frequency)
	norm := 0.0
	x, y, z := float64(p.X()), float64(p.Y()), float64(p.Z())
	w := float64(t)

	for o := 0; o < octaves; o++ {
		out[0] += float32(amp * n.noise.Eval4(x*freq, y*freq, z*freq, w))
		out[1] += float32(amp * n.noise.Eval4(x*freq+turbOffsetY, y*freq, z*freq, w))
		out[2] += float32(amp * n.noise.Eval4(x*freq, y*freq+turbOffsetZ, z*freq, w))
		norm += amp
		amp *= 0.5
		freq *= 2
	}

	return out.Mul(float32(1.0 / norm))
}
