package solver

import "math"

// kernelConsts holds the smoothing-kernel normalization factors. They
// depend only on the smoothing radius and are recomputed when it
// changes, not every frame.
//
// Density uses the spiky pow-2 kernel, near-density the steeper pow-3
// (which is what prevents particle clustering), viscosity the poly6.
type kernelConsts struct {
	h  float32
	h2 float32

	spikyPow2Scale float32 // 15 / (2 pi h^5)
	spikyPow3Scale float32 // 15 / (pi h^6)
	spikyPow2Deriv float32 // 15 / (pi h^5)
	spikyPow3Deriv float32 // 45 / (pi h^6)
	poly6Scale     float32 // 315 / (64 pi h^9)
}

func newKernelConsts(h float32) kernelConsts {
	h64 := float64(h)
	return kernelConsts{
		h:              h,
		h2:             h * h,
		spikyPow2Scale: float32(15 / (2 * math.Pi * math.Pow(h64, 5))),
		spikyPow3Scale: float32(15 / (math.Pi * math.Pow(h64, 6))),
		spikyPow2Deriv: float32(15 / (math.Pi * math.Pow(h64, 5))),
		spikyPow3Deriv: float32(45 / (math.Pi * math.Pow(h64, 6))),
		poly6Scale:     float32(315 / (64 * math.Pi * math.Pow(h64, 9))),
	}
}

func (k *kernelConsts) densityKernel(dst float32) float32 {
	if dst >= k.h {
		return 0
	}
	v := k.h - dst
	return v * v * k.spikyPow2Scale
}

func (k *kernelConsts) nearDensityKernel(dst float32) float32 {
	if dst >= k.h {
		return 0
	}
	v := k.h - dst
	return v * v * v * k.spikyPow3Scale
}

func (k *kernelConsts) densityDerivative(dst float32) float32 {
	if dst >= k.h {
		return 0
	}
	return -(k.h - dst) * k.spikyPow2Deriv
}

func (k *kernelConsts) nearDensityDerivative(dst float32) float32 {
	if dst >= k.h {
		return 0
	}
	v := k.h - dst
	return -v * v * k.spikyPow3Deriv
}

func (k *kernelConsts) viscosityKernel(dstSq float32) float32 {
	if dstSq >= k.h2 {
		return 0
	}
	v := k.h2 - dstSq
	return v * v * v * k.poly6Scale
}
