package svf

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-filterd/dsp/core"
)

// Mode selects the response a Section outputs.
type Mode int

const (
	Lowpass Mode = iota
	Highpass
	Bandpass
)

var modeNames = [...]string{"lowpass", "highpass", "bandpass"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range modeNames {
		if s == n {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("svf: unknown mode %q", name)
}

// params are the per-tuning constants shared by every section of a chain.
type params struct {
	k          float64 // damping, 1/Q
	a1, a2, a3 float64
}

// tune computes the constants for freq (Hz) and q at sampleRate. freq must
// lie in (0, sampleRate/2) and q must be positive.
func tune(freq, q, sampleRate float64) params {
	g := math.Tan(math.Pi * freq / sampleRate)
	k := 1 / q
	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1
	return params{k: k, a1: a1, a2: a2, a3: g * a2}
}

// Section is one two-integrator stage. The zero value outputs silence until
// it is tuned.
type Section struct {
	mode Mode
	p    params

	ic1, ic2 float64
}

// NewSection returns a cleared section tuned to freq (Hz) and q.
func NewSection(mode Mode, freq, q, sampleRate float64) *Section {
	return &Section{mode: mode, p: tune(freq, q, sampleRate)}
}

// Mode returns the response the section outputs.
func (s *Section) Mode() Mode { return s.mode }

// Tune retunes the section without touching its state.
func (s *Section) Tune(freq, q, sampleRate float64) {
	s.p = tune(freq, q, sampleRate)
}

// ProcessSample advances the section by one sample.
func (s *Section) ProcessSample(x float64) float64 {
	p := &s.p
	v3 := x - s.ic2
	v1 := p.a1*s.ic1 + p.a2*v3
	v2 := s.ic2 + p.a2*s.ic1 + p.a3*v3
	s.ic1 = core.FlushDenormals(2*v1 - s.ic1)
	s.ic2 = core.FlushDenormals(2*v2 - s.ic2)

	switch s.mode {
	case Highpass:
		return x - p.k*v1 - v2
	case Bandpass:
		return p.k * v1
	default:
		return v2
	}
}

// Reset clears the integrators.
func (s *Section) Reset() {
	s.ic1, s.ic2 = 0, 0
}

// State returns the integrator states.
func (s *Section) State() [2]float64 {
	return [2]float64{s.ic1, s.ic2}
}

// Chain cascades identical sections. All sections share one tuning.
type Chain struct {
	sections []Section
}

// NewChain returns stages cleared sections of mode tuned to freq and q.
// stages below one yield a single section.
func NewChain(mode Mode, stages int, freq, q, sampleRate float64) *Chain {
	stages = max(stages, 1)
	p := tune(freq, q, sampleRate)
	c := &Chain{sections: make([]Section, stages)}
	for i := range c.sections {
		c.sections[i] = Section{mode: mode, p: p}
	}
	return c
}

// Tune retunes every section, keeping state.
func (c *Chain) Tune(freq, q, sampleRate float64) {
	p := tune(freq, q, sampleRate)
	for i := range c.sections {
		c.sections[i].p = p
	}
}

// ProcessSample runs x through every section in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place.
func (c *Chain) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Reset clears every section.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of cascaded sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}
