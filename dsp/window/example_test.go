package window_test

import (
	"fmt"

	"github.com/cwbudde/algo-filterd/dsp/window"
)

func ExampleGenerate() {
	sym := window.Generate(window.TypeHann, 5)
	per := window.Generate(window.TypeHann, 4, window.WithPeriodic())
	fmt.Printf("%.2f\n%.2f\n", sym, per)
	// Output:
	// [0.00 0.50 1.00 0.50 0.00]
	// [0.00 0.50 1.00 0.50]
}

func ExampleParseType() {
	t, err := window.ParseType("Blackman")
	if err != nil {
		panic(err)
	}
	fmt.Println(t, t.NominalENBW())
	// Output:
	// blackman 1.727
}
