// Package svf provides the trapezoidal (topology-preserving) state-variable
// filter used when the cutoff is modulated.
//
// For a fixed cutoff and Q the lowpass, highpass and bandpass taps of a
// [Section] have the same transfer functions as the RBJ lowpass, highpass
// and constant 0 dB peak bandpass biquads in dsp/filter/design. Unlike a
// Direct Form biquad whose coefficients are swapped between samples, the
// two integrator states of a Section form a contraction under zero input:
// their Euclidean norm cannot grow, whatever sequence of cutoffs is applied.
// A filter swept or switched at audio rate therefore stays bounded.
package svf
