// Package frequency computes descriptors of one-sided magnitude spectra.
package frequency

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultRolloffPercent is the energy fraction used by [Calculate].
const DefaultRolloffPercent = 0.85

// Stats holds frequency-domain statistics computed from a magnitude spectrum.
type Stats struct {
	BinCount  int
	Peak      float64 // largest bin magnitude
	PeakBin   int
	PeakHz    float64 // parabolic-interpolated peak frequency
	Energy    float64 // sum of squared magnitudes
	Centroid  float64 // spectral centroid (Hz)
	Spread    float64 // spectral spread (Hz)
	Flatness  float64 // spectral flatness (Wiener entropy), 0..1
	Rolloff   float64 // frequency below which 85% energy lies (Hz)
	Bandwidth float64 // 3 dB bandwidth around peak (Hz)
}

// BinFrequency returns the frequency in Hz of bin i of a one-sided spectrum
// with binCount bins (fftSize = 2 * (binCount - 1)).
func BinFrequency(i int, sampleRate float64, binCount int) float64 {
	if binCount < 2 {
		return 0
	}
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Calculate computes all frequency-domain statistics from a magnitude spectrum
// (linear scale, NOT dB).
//
// The magnitude slice represents bins from 0 (DC) to Nyquist (one-sided
// spectrum, length = FFTSize/2 + 1). Spectra with fewer than two bins carry
// no frequency information and yield a zero Stats apart from BinCount.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)
	if n < 2 {
		return Stats{BinCount: n}
	}

	var s Stats
	s.BinCount = n
	s.PeakBin = peakBin(magnitude)
	s.Peak = magnitude[s.PeakBin]
	s.PeakHz = PeakFrequency(magnitude, sampleRate)
	s.Energy = vecmath.DotProduct(magnitude, magnitude)

	sum := vecmath.Sum(magnitude)
	s.Centroid = centroid(magnitude, sampleRate, sum)
	s.Spread = spread(magnitude, sampleRate, s.Centroid, sum)
	s.Flatness = Flatness(magnitude)
	s.Rolloff = rolloff(magnitude, sampleRate, DefaultRolloffPercent, s.Energy)
	s.Bandwidth = Bandwidth(magnitude, sampleRate)

	return s
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	return centroid(magnitude, sampleRate, vecmath.Sum(magnitude))
}

func centroid(magnitude []float64, sampleRate float64, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}
	weightedSum := 0.0
	for i, v := range magnitude {
		weightedSum += BinFrequency(i, sampleRate, n) * v
	}
	return weightedSum / sumMag
}

// spread computes the standard deviation of the spectrum around the centroid.
func spread(magnitude []float64, sampleRate float64, cent float64, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}
	weightedSqSum := 0.0
	for i, v := range magnitude {
		diff := BinFrequency(i, sampleRate, n) - cent
		weightedSqSum += diff * diff * v
	}
	return math.Sqrt(weightedSqSum / sumMag)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
//
// Flatness = exp(mean(log(|X_i|))) / mean(|X_i|)
//
// DC bin (index 0) is excluded. If any considered bin is zero, 0 is returned.
func Flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	bins := magnitude[1:]
	meanLin := vecmath.Sum(bins) / float64(len(bins))
	if meanLin == 0 {
		return 0
	}

	sumLog := 0.0
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		sumLog += math.Log(v)
	}

	return math.Exp(sumLog/float64(len(bins))) / meanLin
}

// Rolloff returns the frequency below which the specified fraction (0..1) of
// spectral energy lies. Energy is the sum of squared magnitudes.
func Rolloff(magnitude []float64, sampleRate float64, percent float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	return rolloff(magnitude, sampleRate, percent, vecmath.DotProduct(magnitude, magnitude))
}

func rolloff(magnitude []float64, sampleRate float64, percent float64, totalEnergy float64) float64 {
	n := len(magnitude)
	if n < 2 || totalEnergy == 0 {
		return 0
	}
	threshold := percent * totalEnergy
	cumEnergy := 0.0
	for i, v := range magnitude {
		cumEnergy += v * v
		if cumEnergy >= threshold {
			return BinFrequency(i, sampleRate, n)
		}
	}
	return BinFrequency(n-1, sampleRate, n)
}

// PeakFrequency returns the frequency of the largest bin, refined by fitting
// a parabola through the log magnitudes of the peak and its neighbours.
// Edge peaks and zero neighbours fall back to the bin centre.
func PeakFrequency(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	k := peakBin(magnitude)
	if k == 0 || k == n-1 {
		return BinFrequency(k, sampleRate, n)
	}

	a, b, c := magnitude[k-1], magnitude[k], magnitude[k+1]
	if a <= 0 || b <= 0 || c <= 0 {
		return BinFrequency(k, sampleRate, n)
	}

	la, lb, lc := math.Log(a), math.Log(b), math.Log(c)
	den := la - 2*lb + lc
	if den == 0 {
		return BinFrequency(k, sampleRate, n)
	}

	delta := 0.5 * (la - lc) / den
	binWidth := sampleRate / float64(2*(n-1))
	return (float64(k) + delta) * binWidth
}

// Bandwidth returns the 3 dB bandwidth around the spectral peak in Hz.
//
// The -3 dB points (where magnitude drops to peak/sqrt(2)) are located on both
// sides of the peak with linear interpolation between bins.
func Bandwidth(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	pk := peakBin(magnitude)
	peakVal := magnitude[pk]
	if peakVal == 0 {
		return 0
	}

	threshold := peakVal / math.Sqrt2

	lowerFreq := BinFrequency(0, sampleRate, n)
	for i := pk; i >= 1; i-- {
		if magnitude[i-1] <= threshold && magnitude[i] > threshold {
			lowerFreq = interpFreq(i-1, i, magnitude[i-1], magnitude[i], threshold, sampleRate, n)
			break
		}
	}

	upperFreq := BinFrequency(n-1, sampleRate, n)
	for i := pk; i < n-1; i++ {
		if magnitude[i+1] <= threshold && magnitude[i] > threshold {
			upperFreq = interpFreq(i, i+1, magnitude[i], magnitude[i+1], threshold, sampleRate, n)
			break
		}
	}

	return max(upperFreq-lowerFreq, 0)
}

func peakBin(magnitude []float64) int {
	best := 0
	for i, v := range magnitude {
		if v > magnitude[best] {
			best = i
		}
	}
	return best
}

// interpFreq linearly interpolates between two bins to find the frequency
// where the magnitude crosses the given threshold.
func interpFreq(binLow, binHigh int, magLow, magHigh, threshold, sampleRate float64, binCount int) float64 {
	fLow := BinFrequency(binLow, sampleRate, binCount)
	fHigh := BinFrequency(binHigh, sampleRate, binCount)

	denom := magHigh - magLow
	if denom == 0 {
		return (fLow + fHigh) / 2
	}
	t := (threshold - magLow) / denom
	return fLow + t*(fHigh-fLow)
}
