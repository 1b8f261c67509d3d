// Command filterinfo prints the response of the service's resonant filters.
//
// Usage:
//
//	filterinfo [flags] [filter-type ...]
//
// Without arguments it prints lowpass, highpass and bandpass.
//
// Examples:
//
//	filterinfo lowpass
//	filterinfo -cutoff 2000 -q 8 bandpass
//	filterinfo -rate 48000 -stages 2 -points 16 highpass
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/dsp/filter/biquad"
	"github.com/cwbudde/algo-filterd/dsp/filter/design"
)

func main() {
	rate := flag.Float64("rate", core.DefaultSampleRate, "sample rate in Hz")
	cutoff := flag.Float64("cutoff", 1000, "cutoff or center frequency in Hz")
	q := flag.Float64("q", design.DefaultQ, "resonance (Q)")
	stages := flag.Int("stages", 1, "cascaded sections")
	points := flag.Int("points", 0, "also print the magnitude at this many log-spaced frequencies")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: filterinfo [flags] [filter-type ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints gain, bandwidth and pole data of resonant biquad filters.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every filter type.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  filterinfo lowpass\n")
		fmt.Fprintf(os.Stderr, "  filterinfo -cutoff 2000 -q 8 bandpass\n")
		fmt.Fprintf(os.Stderr, "  filterinfo -rate 48000 -stages 2 -points 16 highpass\n")
	}
	flag.Parse()

	if *stages < 1 {
		fmt.Fprintf(os.Stderr, "error: stages must be >= 1: %d\n", *stages)
		os.Exit(1)
	}

	types := resolveTypes(flag.Args())
	if len(types) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching filter types\n")
		os.Exit(1)
	}

	fc, cutoffClamped := design.ClampCutoff(*cutoff, *rate)
	qc, qClamped := design.ClampQ(*q)
	if cutoffClamped {
		fmt.Fprintf(os.Stderr, "warning: cutoff clamped to %.2f Hz\n", fc)
	}
	if qClamped {
		fmt.Fprintf(os.Stderr, "warning: q clamped to %.2f\n", qc)
	}

	printSummary(types, fc, qc, *rate, *stages)
	if *points > 1 {
		printCurve(types, fc, qc, *rate, *stages, *points)
	}
}

func resolveTypes(names []string) []design.Type {
	if len(names) == 0 {
		return design.Types()
	}

	var result []design.Type
	for _, name := range names {
		t, err := design.ParseType(strings.TrimSpace(name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}
		result = append(result, t)
	}
	return result
}

func cascade(t design.Type, fc, q, rate float64, stages int) (*biquad.Chain, biquad.Coefficients, error) {
	c, err := design.Design(t, fc, q, rate)
	if err != nil {
		return nil, biquad.Coefficients{}, err
	}
	return biquad.NewCascade(c, stages), c, nil
}

func printSummary(types []design.Type, fc, q, rate float64, stages int) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Filter\tCutoff [Hz]\tQ\tStages\tGain@fc [dB]\tPeak [dB]\tPeak [Hz]\t-3dB edges [Hz]\tPole radius\tStable\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "------\t-----------\t-\t------\t------------\t---------\t---------\t---------------\t-----------\t------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, t := range types {
		chain, c, err := cascade(t, fc, q, rate, stages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", t, err)
			continue
		}

		freqs := logGrid(20, rate/2, 2048)
		mags := make([]float64, len(freqs))
		peakIdx := 0
		for i, f := range freqs {
			mags[i] = chain.MagnitudeDB(f, rate)
			if mags[i] > mags[peakIdx] {
				peakIdx = i
			}
		}

		if _, err := fmt.Fprintf(tw, "%s\t%.2f\t%.3f\t%d\t%.3f\t%.3f\t%.1f\t%s\t%.6f\t%v\n",
			t,
			fc,
			q,
			stages,
			chain.MagnitudeDB(fc, rate),
			mags[peakIdx],
			freqs[peakIdx],
			edges(freqs, mags, mags[peakIdx]-3),
			c.PoleRadius(),
			chain.Stable(),
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printCurve(types []design.Type, fc, q, rate float64, stages, points int) {
	chains := make([]*biquad.Chain, 0, len(types))
	kept := make([]design.Type, 0, len(types))
	for _, t := range types {
		chain, _, err := cascade(t, fc, q, rate, stages)
		if err != nil {
			continue
		}
		chains = append(chains, chain)
		kept = append(kept, t)
	}

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "Freq [Hz]\t"
	for _, t := range kept {
		header += t.String() + " [dB]\t"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, f := range logGrid(20, design.MaxCutoff(rate), points) {
		row := fmt.Sprintf("%.1f\t", f)
		for _, chain := range chains {
			row += fmt.Sprintf("%.2f\t", chain.MagnitudeDB(f, rate))
		}
		if _, err := fmt.Fprintln(tw, row); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

// edges returns the outermost frequencies where mags crosses level.
func edges(freqs, mags []float64, level float64) string {
	lo, hi := -1, -1
	for i, m := range mags {
		if m >= level {
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	}
	if lo < 0 {
		return "-"
	}

	switch {
	case lo == 0 && hi == len(mags)-1:
		return "-"
	case lo == 0:
		return fmt.Sprintf("< %.1f", freqs[hi])
	case hi == len(mags)-1:
		return fmt.Sprintf("> %.1f", freqs[lo])
	default:
		return fmt.Sprintf("%.1f .. %.1f", freqs[lo], freqs[hi])
	}
}

func logGrid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	return out
}
