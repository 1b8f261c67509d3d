// Package time measures the level of time-domain sample buffers.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Level summarizes a buffer. dB figures are relative to full scale (1.0).
type Level struct {
	Samples       int
	RMS           float64
	Peak          float64 // max |x|
	PeakIndex     int
	DC            float64 // mean
	Crest         float64 // Peak / RMS, 0 for silence
	ZeroCrossings int
	FullScale     int // samples with |x| >= 1
}

// RMSdB is the RMS level in dBFS.
func (l Level) RMSdB() float64 { return DB(l.RMS) }

// PeakdB is the peak level in dBFS.
func (l Level) PeakdB() float64 { return DB(l.Peak) }

// Measure computes every Level field in two passes over x.
func Measure(x []float64) Level {
	l := Level{Samples: len(x), RMS: RMS(x), DC: DC(x), ZeroCrossings: ZeroCrossings(x)}
	for i, v := range x {
		a := math.Abs(v)
		if a > l.Peak {
			l.Peak, l.PeakIndex = a, i
		}
		if a >= 1 {
			l.FullScale++
		}
	}
	if l.RMS > 0 {
		l.Crest = l.Peak / l.RMS
	}
	return l
}

// DB converts a linear amplitude to decibels. Zero maps to -Inf.
func DB(amplitude float64) float64 {
	return 20 * math.Log10(math.Abs(amplitude))
}

// RMS is the root mean square of x, 0 when x is empty.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(x, x) / float64(len(x)))
}

// Peak is max |x|, 0 when x is empty.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return vecmath.MaxAbs(x)
}

// DC is the mean of x, accumulated with Neumaier compensation so long
// constant buffers do not drift.
func DC(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum, comp float64
	for _, v := range x {
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			comp += (sum - t) + v
		} else {
			comp += (v - t) + sum
		}
		sum = t
	}
	return (sum + comp) / float64(len(x))
}

// ZeroCrossings counts sign changes between neighbouring samples. Exact
// zeros do not cross.
func ZeroCrossings(x []float64) int {
	n := 0
	for i := 1; i < len(x); i++ {
		if (x[i-1] < 0 && x[i] > 0) || (x[i-1] > 0 && x[i] < 0) {
			n++
		}
	}
	return n
}
