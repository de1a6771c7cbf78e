package spectrum

import "sync"

// RingBuffer keeps the most recently played PCM bytes. The playback goroutine
// writes into it and the frame loop reads the tail for analysis.
type RingBuffer struct {
	buf  []byte
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

// NewRingBuffer creates a ring buffer with the given capacity in bytes.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buf:  make([]byte, size),
		size: size,
	}
}

// Write appends data, overwriting the oldest bytes once full.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	src := p
	if len(src) > rb.size {
		src = src[len(src)-rb.size:]
	}
	for len(src) > 0 {
		n := copy(rb.buf[rb.w:], src)
		rb.w = (rb.w + n) % rb.size
		src = src[n:]
	}
	rb.len += len(p)
	if rb.len > rb.size {
		rb.len = rb.size
	}
	return len(p), nil
}

// Latest returns up to n of the most recent bytes, trimmed to a multiple of
// align so sample frames are never split.
func (rb *RingBuffer) Latest(n, align int) []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if n > rb.len {
		n = rb.len
	}
	if align > 1 {
		n -= n % align
	}
	if n <= 0 {
		return nil
	}

	out := make([]byte, n)
	start := (rb.w - n + rb.size) % rb.size
	first := copy(out, rb.buf[start:])
	if first < n {
		copy(out[first:], rb.buf[:n-first])
	}
	return out
}

// Len returns the number of buffered bytes.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.len
}

// Clear drops all buffered bytes.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
}
