// Package engine is the request layer of the filter service. It validates
// synthesis, processing and analysis requests, clamps parameters into
// stable ranges, and drives the DSP packages with per-request state only.
//
// Every failure is an [*Error] whose [Kind] tells the caller whether the
// request was malformed, too large, or numerically unstable.
package engine
