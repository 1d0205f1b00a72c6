package audio

import (
	"sync"
)

// SharedAudioBuffer is a bounded, thread-safe FIFO of samples between a
// decoder and the audio callback. Writers block while it is full; readers
// never block.
type SharedAudioBuffer struct {
	mu           sync.Mutex
	space        *sync.Cond
	buffers      [][]float32
	capacity     int
	available    int
	totalWritten int64
	closed       bool
}

// NewSharedAudioBuffer creates a buffer holding up to capacity samples.
func NewSharedAudioBuffer(capacity int) *SharedAudioBuffer {
	b := &SharedAudioBuffer{capacity: capacity}
	b.space = sync.NewCond(&b.mu)
	return b
}

// Write queues a copy of samples, waiting for room. It reports false once
// the buffer is closed.
func (b *SharedAudioBuffer) Write(samples []float32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for !b.closed && b.available > 0 && b.available+len(samples) > b.capacity {
		b.space.Wait()
	}
	if b.closed {
		return false
	}
	bufferCopy := make([]float32, len(samples))
	copy(bufferCopy, samples)
	b.buffers = append(b.buffers, bufferCopy)
	b.available += len(samples)
	b.totalWritten += int64(len(samples))
	return true
}

// ReadInto fills out with the oldest samples and returns how many were
// copied. The rest of out is left untouched.
func (b *SharedAudioBuffer) ReadInto(out []float32) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for len(b.buffers) > 0 && n < len(out) {
		buffer := b.buffers[0]
		c := copy(out[n:], buffer)
		n += c
		if c == len(buffer) {
			b.buffers = b.buffers[1:]
		} else {
			b.buffers[0] = buffer[c:]
		}
	}
	b.available -= n
	if n > 0 {
		b.space.Broadcast()
	}
	return n
}

// AvailableSamples returns the number of readable samples.
func (b *SharedAudioBuffer) AvailableSamples() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

func (b *SharedAudioBuffer) TotalSamplesWritten() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalWritten
}

// Close wakes blocked writers; later writes are dropped.
func (b *SharedAudioBuffer) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.space.Broadcast()
}
