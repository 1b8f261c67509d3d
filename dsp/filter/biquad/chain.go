package biquad

// Chain runs sections in series, each feeding the next.
type Chain struct {
	sections []Section
}

// NewChain builds one section per coefficient set, in order.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i, k := range coeffs {
		c.sections[i].Coefficients = k
	}
	return c
}

// NewCascade builds stages identical sections. Each stage adds another
// 12 dB/octave to the slope. stages below one mean one.
func NewCascade(coeffs Coefficients, stages int) *Chain {
	c := &Chain{sections: make([]Section, max(stages, 1))}
	c.SetCoefficients(coeffs)
	return c
}

// ProcessSample passes x through every section.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place, one section at a time.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// SetCoefficients retunes every section in place. Delay lines are kept so a
// modulated cutoff moves without a click.
func (c *Chain) SetCoefficients(coeffs Coefficients) {
	for i := range c.sections {
		c.sections[i].Coefficients = coeffs
	}
}

// Reset clears every delay line.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections is the number of second-order sections.
func (c *Chain) NumSections() int { return len(c.sections) }

// Coefficients returns a copy of each section's coefficients.
func (c *Chain) Coefficients() []Coefficients {
	out := make([]Coefficients, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].Coefficients
	}
	return out
}
