package buffer

import "sync"

// Pool recycles frame buffers by length. Analyzers with different FFT sizes
// share one Pool without handing each other frames that must be regrown.
type Pool struct {
	mu      sync.Mutex
	classes map[int]*sync.Pool
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{classes: make(map[int]*sync.Pool)}
}

func (p *Pool) class(length int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.classes[length]
	if !ok {
		c = &sync.Pool{New: func() any { return New(length) }}
		p.classes[length] = c
	}
	return c
}

// Get returns a zeroed Buffer of the given length. Hand it back with Put.
func (p *Pool) Get(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	b := p.class(length).Get().(*Buffer)
	b.Zero()
	return b
}

// Put files b under its current length. b must not be used afterwards.
func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}
	p.class(b.Len()).Put(b)
}
