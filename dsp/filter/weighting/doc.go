// Package weighting provides the A, C and Z frequency weighting curves of
// IEC 61672 as biquad cascades.
//
// A-weighting follows the 40-phon equal-loudness contour and is the usual
// choice for a perceived level figure. C-weighting is almost flat between
// 31.5 Hz and 8 kHz. Z is a pass-through reference. All curves are
// normalized to 0 dB at 1 kHz.
package weighting
