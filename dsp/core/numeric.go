package core

import "math"

// denormalFloor is where FlushDenormals starts returning zero.
const denormalFloor = 1e-30

// Clamp limits v to [lo, hi]. Swapped bounds are reordered.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite returns the index of the first NaN or Inf in x, or -1.
func AllFinite(x []float64) int {
	for i, v := range x {
		if !IsFinite(v) {
			return i
		}
	}
	return -1
}

// ClipUnit hard-limits buf to [-1, 1] in place and returns the number of
// samples it had to change. NaN passes through uncounted.
func ClipUnit(buf []float64) int {
	n := 0
	for i := range buf {
		if buf[i] > 1 {
			buf[i] = 1
		} else if buf[i] < -1 {
			buf[i] = -1
		} else {
			continue
		}
		n++
	}
	return n
}

// FlushDenormals returns 0 for |x| below 1e-30 so recursive filters do not
// decay through subnormal numbers.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}
	return x
}

// AmplitudeDB is 20*log10(a), never below floorDB. Non-positive amplitudes
// give floorDB so silent bins stay finite in JSON.
func AmplitudeDB(a, floorDB float64) float64 {
	if !(a > 0) {
		return floorDB
	}
	return math.Max(20*math.Log10(a), floorDB)
}
