// Package signal generates deterministic test and synthesis signals.
//
// It provides the four periodic waveform shapes (sine, square, sawtooth,
// triangle) as pure functions of normalized phase, a phase-accumulating
// [Oscillator] for frequency-modulated synthesis, a [Generator] for fixed
// tones and noise, and post-processing helpers such as [Envelope] and
// [Normalize].
package signal
