// Package testutil holds deterministic test signals and level helpers shared
// by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of amplitude*sin(2*pi*f*n/sr),
// starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	w := 2 * math.Pi * freqHz / sampleRate
	for n := range out {
		out[n] = amplitude * math.Sin(w*float64(n))
	}
	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// drawn from a generator seeded with seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, length)
	for n := range out {
		out[n] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// DC returns length copies of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for n := range out {
		out[n] = value
	}
	return out
}

// RMS is the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// SettledRMS is the RMS of x after skipping the first skip samples, which
// keeps filter start-up transients out of level comparisons.
func SettledRMS(x []float64, skip int) float64 {
	if skip >= len(x) {
		return 0
	}
	return RMS(x[max(skip, 0):])
}

// GainDB is 20*log10(out/in). It returns -Inf when out is zero.
func GainDB(in, out float64) float64 {
	return 20 * math.Log10(out/in)
}
