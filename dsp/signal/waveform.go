package signal

import (
	"fmt"
	"math"
	"strings"
)

// Waveform identifies a periodic shape.
type Waveform int

const (
	Sine Waveform = iota + 1
	Square
	Sawtooth
	Triangle
)

var waveformNames = map[Waveform]string{
	Sine:     "sine",
	Square:   "square",
	Sawtooth: "sawtooth",
	Triangle: "triangle",
}

// String returns the lower-case wire name of the waveform.
func (w Waveform) String() string {
	if name, ok := waveformNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

func (w Waveform) valid() bool {
	_, ok := waveformNames[w]
	return ok
}

// ParseWaveform converts a case-insensitive name into a Waveform.
// "saw" is accepted as a short form of "sawtooth".
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "square":
		return Square, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "triangle", "tri":
		return Triangle, nil
	default:
		return 0, fmt.Errorf("unsupported waveform: %q", name)
	}
}

// Waveforms returns all supported shapes in display order.
func Waveforms() []Waveform {
	return []Waveform{Sine, Square, Sawtooth, Triangle}
}

// Shape evaluates w at normalized phase p (cycles). p may lie outside
// [0, 1); every shape has period one. Unknown waveforms evaluate to zero.
//
//	sine      sin(2*pi*p)
//	square    +1 where sin(2*pi*p) >= 0, else -1
//	sawtooth  2*(p - floor(p + 0.5))
//	triangle  2*|sawtooth(p)| - 1
func Shape(w Waveform, p float64) float64 {
	switch w {
	case Sine:
		return math.Sin(2 * math.Pi * p)
	case Square:
		if math.Sin(2*math.Pi*p) >= 0 {
			return 1
		}
		return -1
	case Sawtooth:
		return saw(p)
	case Triangle:
		return 2*math.Abs(saw(p)) - 1
	default:
		return 0
	}
}

func saw(p float64) float64 {
	return 2 * (p - math.Floor(p+0.5))
}
