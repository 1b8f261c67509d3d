// Package biquad provides the second-order IIR runtime used by the filter
// engine.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Identical or differing
// sections can be cascaded with [Chain] for steeper slopes. Coefficients can
// be swapped between samples without clearing the delay line, which is what
// time-varying (LFO-modulated) filtering relies on.
//
// Coefficient design (lowpass, highpass, bandpass) lives in dsp/filter/design.
package biquad
