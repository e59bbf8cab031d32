// Package audiocapture provides microphone capture via PortAudio.
package audiocapture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// ErrRunning is returned when trying to start capture while already running.
var ErrRunning = errors.New("audiocapture: already running")

// framesPerBuffer is the PortAudio block size. At 16 kHz this is 32 ms of
// audio per block.
const framesPerBuffer = 512

// AudioHandler receives blocks of float32 samples in the range [-1, 1].
type AudioHandler func(samples []float32)

// Capturer records mono float32 audio from the default input device.
type Capturer interface {
	// Start opens the input stream and delivers sample blocks to handler
	// until Stop is called. Handler runs on a dedicated goroutine, never on
	// the PortAudio callback thread.
	Start(handler AudioHandler) error

	// Stop halts and releases the stream. Idempotent.
	Stop() error
}

// capturer is the PortAudio implementation.
type capturer struct {
	sampleRate int

	mu      sync.Mutex
	stream  *portaudio.Stream
	running bool
	done    chan struct{}
	stopped chan struct{}
}

// New creates a Capturer recording at the given sample rate. PortAudio is
// initialized once per process.
func New(sampleRate int) (Capturer, error) {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if err := initPortAudio(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	return &capturer{sampleRate: sampleRate}, nil
}

var (
	paOnce    sync.Once
	paInitErr error
)

func initPortAudio() error {
	paOnce.Do(func() {
		paInitErr = portaudio.Initialize()
	})
	return paInitErr
}

func (c *capturer) Start(handler AudioHandler) error {
	if handler == nil {
		return errors.New("audiocapture: nil handler")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrRunning
	}

	buffer := make([]float32, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(c.sampleRate), framesPerBuffer, buffer)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	c.stream = stream
	c.running = true
	c.done = make(chan struct{})
	c.stopped = make(chan struct{})

	// Blocks flow through a bounded channel so a slow consumer stalls
	// delivery rather than the device read loop.
	blocks := make(chan []float32, 64)

	go readLoop(stream, buffer, blocks, c.done)
	go dispatchLoop(blocks, handler, c.stopped)

	return nil
}

// readLoop copies each block out of the stream buffer. The stream reuses its
// buffer across reads, so every block handed downstream must be a copy.
func readLoop(stream *portaudio.Stream, buffer []float32, blocks chan<- []float32, done <-chan struct{}) {
	defer close(blocks)
	for {
		select {
		case <-done:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			// Overflows are expected when the consumer briefly lags.
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			return
		}

		block := make([]float32, len(buffer))
		copy(block, buffer)

		select {
		case blocks <- block:
		case <-done:
			return
		}
	}
}

func dispatchLoop(blocks <-chan []float32, handler AudioHandler, stopped chan<- struct{}) {
	defer close(stopped)
	for block := range blocks {
		handler(block)
	}
}

func (c *capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	close(c.done)
	err := c.stream.Stop()
	if cerr := c.stream.Close(); err == nil {
		err = cerr
	}

	// Wait for the dispatcher to drain so no handler call outlives Stop.
	<-c.stopped

	c.stream = nil
	c.running = false
	return err
}
