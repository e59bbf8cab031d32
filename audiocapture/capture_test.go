package audiocapture

import (
	"testing"
)

// newTestCapturer skips when PortAudio cannot initialize, e.g. on CI hosts
// without an audio subsystem.
func newTestCapturer(t *testing.T) Capturer {
	t.Helper()

	c, err := New(16000)
	if err != nil {
		t.Skipf("portaudio unavailable: %v", err)
	}
	return c
}

func TestStartWithNilHandler(t *testing.T) {
	c := newTestCapturer(t)

	if err := c.Start(nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestStopIdempotent(t *testing.T) {
	c := newTestCapturer(t)

	// Stop without start should be safe
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop without Start: %v", err)
	}

	// Double stop should be safe
	if err := c.Stop(); err != nil {
		t.Fatalf("double Stop: %v", err)
	}
}

func TestDoubleStart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	c := newTestCapturer(t)
	defer c.Stop()

	if err := c.Start(func([]float32) {}); err != nil {
		t.Skipf("no input device available: %v", err)
	}

	if err := c.Start(func([]float32) {}); err != ErrRunning {
		t.Fatalf("expected ErrRunning, got %v", err)
	}
}
