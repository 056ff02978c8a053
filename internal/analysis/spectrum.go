// Package analysis post-processes recorded metric series: frequency
// content of energy oscillations, settling detection.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude spectrum of a series, one bin
// per frequency up to Nyquist. The input is zero-padded to the next
// power of two and mean-centered so the DC bin does not swamp the
// sloshing modes.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := stat.Mean(data, nil)
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in hertz
// for a series sampled at the given frame delta, plus its power.
// Returns 0, 0 for series too short to analyze.
func DominantFrequency(data []float64, frameDt float64) (freq, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || frameDt <= 0 {
		return 0, 0
	}

	n := 1
	for n < len(data) {
		n *= 2
	}

	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	return float64(maxIdx) / (float64(n) * frameDt), ps[maxIdx]
}

// SettlingFrame returns the first frame index after which the series
// stays within tolerance of its final value, or -1 if it never
// settles. Used to judge how quickly a scene reaches rest.
func SettlingFrame(data []float64, tolerance float64) int {
	if len(data) == 0 {
		return -1
	}
	final := data[len(data)-1]
	lo, hi := final-tolerance, final+tolerance

	settled := -1
	for i, v := range data {
		if v < lo || v > hi {
			settled = -1
			continue
		}
		if settled == -1 {
			settled = i
		}
	}
	return settled
}
