package stt

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeStubEngine writes an executable shell script standing in for
// whisper-cli and returns its path.
func writeStubEngine(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub engine scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "whisper-cli")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	return path
}

// newTestSelection builds a Selection over a models dir containing a dummy
// base model file.
func newTestSelection(t *testing.T) *Selection {
	t.Helper()

	modelsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(modelsDir, "ggml-base.bin"), []byte("stub"), 0o644); err != nil {
		t.Fatalf("write model file: %v", err)
	}

	sel, err := NewSelection(modelsDir, "Base (Fast)")
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	return sel
}

func newTestProvider(t *testing.T, script string, tmpDir string) *WhisperLocal {
	t.Helper()

	w, err := NewWhisperLocal(WhisperLocalConfig{
		BinPath:   writeStubEngine(t, script),
		Selection: newTestSelection(t),
		TmpDir:    tmpDir,
	})
	if err != nil {
		t.Fatalf("NewWhisperLocal: %v", err)
	}
	return w
}

func TestTranscribeNormalizesWhitespace(t *testing.T) {
	w := newTestProvider(t, `printf '  hello   world  \n'`, "")

	result, err := w.Transcribe(make([]float32, SampleRate), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Text != "hello world" {
		t.Errorf("Text = %q, want %q", result.Text, "hello world")
	}
}

func TestTranscribeEngineFailure(t *testing.T) {
	w := newTestProvider(t, "echo 'model load failed' >&2\nexit 1", "")

	_, err := w.Transcribe(make([]float32, SampleRate), "")
	if err == nil {
		t.Fatal("expected error for nonzero exit status")
	}
	if !strings.Contains(err.Error(), "model load failed") {
		t.Errorf("error %q should carry engine stderr", err)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	w := newTestProvider(t, "sleep 5", "")
	w.timeout = 100 * time.Millisecond

	_, err := w.Transcribe(make([]float32, SampleRate), "")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error %q should report the timeout", err)
	}
}

func TestTranscribeRemovesTempFile(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"success", `printf 'hello\n'`},
		{"engine_failure", "exit 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			w := newTestProvider(t, tt.script, tmpDir)

			_, _ = w.Transcribe(make([]float32, SampleRate), "")

			leftovers, err := filepath.Glob(filepath.Join(tmpDir, "voicetoclipboard-*.wav"))
			if err != nil {
				t.Fatalf("glob: %v", err)
			}
			if len(leftovers) != 0 {
				t.Errorf("temp wav left behind: %v", leftovers)
			}
		})
	}
}

func TestTranscribePassesModelAndLanguage(t *testing.T) {
	// The stub echoes its arguments back as the transcript.
	w := newTestProvider(t, `printf '%s ' "$@"`, "")

	result, err := w.Transcribe(make([]float32, SampleRate), "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	for _, want := range []string{"-m", "ggml-base.bin", "--no-timestamps", "-nt", "-l en"} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("arguments %q missing %q", result.Text, want)
		}
	}
}

func TestNewWhisperLocalValidation(t *testing.T) {
	if _, err := NewWhisperLocal(WhisperLocalConfig{Selection: newTestSelection(t)}); err == nil {
		t.Error("expected error for missing binary path")
	}
	if _, err := NewWhisperLocal(WhisperLocalConfig{BinPath: "/usr/bin/true"}); err == nil {
		t.Error("expected error for missing selection")
	}
}

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading_trailing", "  hello   world  \n", "hello world"},
		{"tabs_newlines", "one\ttwo\nthree", "one two three"},
		{"empty", "", ""},
		{"whitespace_only", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeTranscript(tt.in); got != tt.want {
				t.Errorf("normalizeTranscript(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTranscribeCreateTempFailure(t *testing.T) {
	w := newTestProvider(t, `printf 'hello\n'`, filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := w.Transcribe(make([]float32, SampleRate), "")
	if err == nil {
		t.Fatal("expected error when temp dir is missing")
	}
	if !strings.Contains(err.Error(), "create temp wav") {
		t.Errorf("error %q should come from temp file creation", err)
	}
}
