package audiocapture

import (
	"sync"
	"time"
)

// Buffer accumulates audio samples for one push-to-talk session. It is
// written by the capture dispatch goroutine and read from the hotkey path,
// hence the mutex.
type Buffer struct {
	mu         sync.Mutex
	samples    []float32
	sampleRate int
}

// NewBuffer creates a buffer for samples at the given rate, with capacity
// pre-sized for a typical dictation.
func NewBuffer(sampleRate int) *Buffer {
	return &Buffer{
		samples:    make([]float32, 0, sampleRate*30),
		sampleRate: sampleRate,
	}
}

// Append adds a block of samples.
func (b *Buffer) Append(samples []float32) {
	b.mu.Lock()
	b.samples = append(b.samples, samples...)
	b.mu.Unlock()
}

// Samples returns a copy of everything accumulated so far.
func (b *Buffer) Samples() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Len returns the number of accumulated samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Duration returns the duration of the accumulated audio.
func (b *Buffer) Duration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(b.samples)) / float64(b.sampleRate) * float64(time.Second))
}

// Clear empties the buffer, keeping its capacity.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.samples = b.samples[:0]
	b.mu.Unlock()
}
