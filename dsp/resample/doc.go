// Package resample converts buffers between sample rates.
//
// The rate ratio is reduced to up/down with a bounded denominator and the
// signal is filtered by a Kaiser-windowed sinc in the zero-stuffed domain.
// Only the taps that meet non-zero input samples are evaluated, so the cost
// per output sample is about TapsPerPhase multiply-adds.
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
