package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-filterd/dsp/filter/biquad"
	"github.com/cwbudde/algo-filterd/dsp/filter/design"
)

func ExampleSection_ProcessSample() {
	// Two-tap average: y[n] = (x[n] + x[n-1]) / 2.
	s := biquad.NewSection(biquad.Coefficients{B0: 0.5, B1: 0.5})
	for _, x := range []float64{1, 0, 0, 2} {
		fmt.Printf("%.2f ", s.ProcessSample(x))
	}
	fmt.Println()
	// Output:
	// 0.50 0.50 0.00 1.00
}

func ExampleNewCascade() {
	c := design.Lowpass(1000, design.DefaultQ, 48000)
	one := biquad.NewCascade(c, 1)
	two := biquad.NewCascade(c, 2)
	for _, f := range []float64{1000, 4000} {
		fmt.Printf("%4.0f Hz: %6.2f dB  %6.2f dB\n", f, one.MagnitudeDB(f, 48000), two.MagnitudeDB(f, 48000))
	}
	// Output:
	// 1000 Hz:  -3.01 dB   -6.02 dB
	// 4000 Hz: -24.48 dB  -48.95 dB
}
