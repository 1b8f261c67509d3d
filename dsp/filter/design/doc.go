// Package design provides RBJ-cookbook biquad coefficient designers for the
// filter modes the service exposes: lowpass, highpass and bandpass, each with
// a resonance (Q) parameter.
//
// Designers derive coefficients through the bilinear transform with
// frequency pre-warping. They never return unstable coefficients: cutoff and
// Q are clamped into safe ranges by [Clamp] before design, and invalid input
// to the raw designers yields zero coefficients rather than NaN.
package design
