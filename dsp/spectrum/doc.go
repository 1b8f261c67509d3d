// Package spectrum estimates averaged amplitude spectra for the analysis
// endpoint.
//
// [Analyzer] averages windowed, half-overlapping FFT frames (Welch's method)
// and reports the one-sided amplitude per bin. [SmoothFractionalOctave]
// averages a curve over fractional-octave bands before it is displayed.
package spectrum
