package biquad

import (
	"math"
	"math/cmplx"
)

// Response evaluates H(e^jw) at freqHz for a section running at sampleRate.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate) // z^-1 on the unit circle
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

// MagnitudeDB is 20*log10|H(f)|. A zero of the numerator on the unit circle
// gives a deep finite null or -Inf.
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// MagnitudeDB is the cascade's magnitude in dB: the sum over sections.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	var db float64
	for i := range c.sections {
		db += c.sections[i].MagnitudeDB(freqHz, sampleRate)
	}
	return db
}
