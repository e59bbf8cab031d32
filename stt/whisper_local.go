package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
)

// defaultEngineTimeout bounds a single whisper-cli invocation. A recording
// capped by push-to-talk is short; two minutes covers even the large model
// on slow hardware.
const defaultEngineTimeout = 120 * time.Second

// WhisperLocal implements Provider by invoking the whisper-cli executable
// on a temporary WAV file. All failure paths are captured and returned as
// errors; nothing panics past Transcribe.
type WhisperLocal struct {
	binPath   string
	selection *Selection
	timeout   time.Duration
	tmpDir    string // defaults to os.TempDir
}

// WhisperLocalConfig holds configuration for WhisperLocal.
type WhisperLocalConfig struct {
	BinPath   string     // Path to the whisper-cli executable
	Selection *Selection // Active model selection
	Timeout   time.Duration
	TmpDir    string
}

// NewWhisperLocal creates the local whisper-cli provider.
func NewWhisperLocal(cfg WhisperLocalConfig) (*WhisperLocal, error) {
	if cfg.BinPath == "" {
		return nil, errors.New("whisper-cli path is required")
	}
	if cfg.Selection == nil {
		return nil, errors.New("model selection is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultEngineTimeout
	}
	return &WhisperLocal{
		binPath:   cfg.BinPath,
		selection: cfg.Selection,
		timeout:   cfg.Timeout,
		tmpDir:    cfg.TmpDir,
	}, nil
}

func (w *WhisperLocal) Name() string        { return "whisper-local" }
func (w *WhisperLocal) DisplayName() string { return "whisper.cpp (local)" }
func (w *WhisperLocal) IsLocal() bool       { return true }
func (w *WhisperLocal) IsReady() bool       { return true }
func (w *WhisperLocal) Close() error        { return nil }

// Transcribe writes the samples to a scoped temporary WAV file, runs
// whisper-cli against the active model, and returns the transcript with
// whitespace collapsed to single spaces. The temporary file is removed on
// every exit path.
func (w *WhisperLocal) Transcribe(audio []float32, language string) (*types.TranscriptionResult, error) {
	f, err := os.CreateTemp(w.tmpDir, "voicetoclipboard-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	wavPath := f.Name()
	defer os.Remove(wavPath)

	_, err = f.Write(float32ToWAV(audio, SampleRate))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("write temp wav: %w", err)
	}

	args := []string{
		"-m", w.selection.Path(),
		"-f", wavPath,
		"--no-timestamps",
		"-nt",
	}
	if language != "" {
		args = append(args, "-l", language)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, w.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("whisper-cli timed out after %s", w.timeout)
	}
	if runErr != nil {
		slog.Error("whisper-cli failed", "error", runErr, "stderr", strings.TrimSpace(stderr.String()))
		return nil, fmt.Errorf("whisper-cli: %w: %s", runErr, strings.TrimSpace(stderr.String()))
	}

	return &types.TranscriptionResult{
		Text:     normalizeTranscript(stdout.String()),
		Language: language,
		Duration: elapsed,
	}, nil
}

// normalizeTranscript collapses all whitespace runs into single spaces and
// trims both ends.
func normalizeTranscript(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
