package biquad

import (
	"math"
	"math/cmplx"
)

// Poles returns the z-plane poles of the section denominator:
//
//	1 + A1*z^-1 + A2*z^-2 = 0
func (c *Coefficients) Poles() [2]complex128 {
	disc := cmplx.Sqrt(complex(c.A1*c.A1-4*c.A2, 0))
	a1 := complex(c.A1, 0)

	return [2]complex128{
		(-a1 + disc) / 2,
		(-a1 - disc) / 2,
	}
}

// PoleRadius returns the largest pole magnitude. A section is stable when
// the radius is strictly below one.
func (c *Coefficients) PoleRadius() float64 {
	p := c.Poles()
	return math.Max(cmplx.Abs(p[0]), cmplx.Abs(p[1]))
}

// Stable reports whether every coefficient is finite and the poles lie
// strictly inside the unit circle (stability triangle |A2| < 1,
// |A1| < 1 + A2).
func (c *Coefficients) Stable() bool {
	for _, v := range [...]float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// Stable reports whether every section of the cascade is stable.
func (c *Chain) Stable() bool {
	for i := range c.sections {
		if !c.sections[i].Stable() {
			return false
		}
	}

	return true
}
