// Package buffer provides pooled float64 scratch buffers for analysis frames
// and other per-request temporaries. Results handed back to callers are
// always freshly allocated; only intermediate frames come from a Pool.
package buffer
