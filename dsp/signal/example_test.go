package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator(core.WithSampleRate(1000))
	x, err := g.Sine(250, 1, 5)
	if err != nil {
		panic(err)
	}
	for i := range x {
		if math.Abs(x[i]) < 1e-12 {
			x[i] = 0
		}
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleShape() {
	for _, w := range signal.Waveforms() {
		fmt.Printf("%s %.2f\n", w, signal.Shape(w, 0.125))
	}

	// Output:
	// sine 0.71
	// square 1.00
	// sawtooth 0.25
	// triangle -0.50
}

func ExampleNormalize() {
	x, err := signal.Normalize([]float64{-0.5, 0.25, 1}, 0.8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", x[0], x[1], x[2])

	// Output:
	// -0.40 0.20 0.80
}
