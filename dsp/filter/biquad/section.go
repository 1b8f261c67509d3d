package biquad

import "github.com/cwbudde/algo-filterd/dsp/core"

// Coefficients of one second-order section with a0 normalized to 1:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section runs one set of Coefficients in Direct Form II Transposed, with
// the delay line flushed to zero once it decays below 1e-30:
//
//	y  = B0*x + s1
//	s1 = B1*x - A1*y + s2
//	s2 = B2*x - A2*y
//
// The zero value is a silent section.
type Section struct {
	Coefficients

	s1, s2 float64
}

// NewSection returns a Section with cleared state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample advances the section by one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.s1
	s.s1 = core.FlushDenormals(s.B1*x - s.A1*y + s.s2)
	s.s2 = core.FlushDenormals(s.B2*x - s.A2*y)
	return y
}

// ProcessBlock filters buf in place and leaves the state where
// ProcessSample would.
func (s *Section) ProcessBlock(buf []float64) {
	c := s.Coefficients
	s1, s2 := s.s1, s.s2
	for i, x := range buf {
		y := c.B0*x + s1
		s1 = core.FlushDenormals(c.B1*x - c.A1*y + s2)
		s2 = core.FlushDenormals(c.B2*x - c.A2*y)
		buf[i] = y
	}
	s.s1, s.s2 = s1, s2
}

// Reset clears the delay line.
func (s *Section) Reset() {
	s.s1, s.s2 = 0, 0
}

// State returns the delay line.
func (s *Section) State() [2]float64 {
	return [2]float64{s.s1, s.s2}
}

// SetState overwrites the delay line.
func (s *Section) SetState(st [2]float64) {
	s.s1, s.s2 = st[0], st[1]
}
