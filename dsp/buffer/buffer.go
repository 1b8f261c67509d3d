package buffer

// Buffer is a fixed-length analysis frame.
type Buffer struct {
	samples []float64
}

// New returns a zeroed Buffer of length samples. Negative lengths give an
// empty Buffer.
func New(length int) *Buffer {
	return &Buffer{samples: make([]float64, max(length, 0))}
}

// Samples exposes the frame for in-place processing.
func (b *Buffer) Samples() []float64 { return b.samples }

// Len is the frame length.
func (b *Buffer) Len() int { return len(b.samples) }

// Zero clears the frame.
func (b *Buffer) Zero() { clear(b.samples) }

// LoadFrame fills the frame from src starting at offset and zero-pads
// whatever src cannot supply. It returns the number of samples taken from src.
func (b *Buffer) LoadFrame(src []float64, offset int) int {
	var n int
	if offset >= 0 && offset < len(src) {
		n = copy(b.samples, src[offset:])
	}
	clear(b.samples[n:])
	return n
}
