package stt

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
)

// ErrNotDownloaded is returned when selecting a model whose file is absent.
var ErrNotDownloaded = errors.New("model not downloaded")

// ErrUnknownModel is returned when selecting a model not in the catalog.
var ErrUnknownModel = errors.New("unknown model")

// Catalog lists the supported whisper models, best quality first.
// Absent files are shown as "(not downloaded)" in the menu and cannot be
// selected.
var Catalog = []types.ModelInfo{
	{Name: "Large V3 (Best Quality)", File: "ggml-large-v3.bin", Size: "~3GB", Speed: "Slower"},
	{Name: "Medium (Balanced)", File: "ggml-medium.bin", Size: "~1.5GB", Speed: "Medium"},
	{Name: "Base (Fast)", File: "ggml-base.bin", Size: "~142MB", Speed: "Fast"},
	{Name: "Tiny (Fastest)", File: "ggml-tiny.bin", Size: "~75MB", Speed: "Fastest"},
}

// LookupModel returns the catalog entry with the given display name.
func LookupModel(name string) (types.ModelInfo, bool) {
	for _, m := range Catalog {
		if m.Name == name {
			return m, true
		}
	}
	return types.ModelInfo{}, false
}

// Selection tracks the currently active model. It is mutated from the tray
// menu and read by the transcription task, hence the mutex.
type Selection struct {
	mu        sync.RWMutex
	modelsDir string
	current   types.ModelInfo
}

// NewSelection creates a Selection over modelsDir with the given default
// model display name. If the default is unknown or its file is absent, the
// first downloaded catalog entry is used instead.
func NewSelection(modelsDir, defaultModel string) (*Selection, error) {
	s := &Selection{modelsDir: modelsDir}

	if m, ok := LookupModel(defaultModel); ok && s.downloaded(m) {
		s.current = m
		return s, nil
	}

	for _, m := range Catalog {
		if s.downloaded(m) {
			s.current = m
			return s, nil
		}
	}
	return nil, fmt.Errorf("no whisper model found in %s: %w", modelsDir, ErrNotDownloaded)
}

func (s *Selection) downloaded(m types.ModelInfo) bool {
	_, err := os.Stat(filepath.Join(s.modelsDir, m.File))
	return err == nil
}

// Select switches the active model. Unknown names and models whose file is
// absent are rejected and leave the active model unchanged.
func (s *Selection) Select(name string) error {
	m, ok := LookupModel(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	if !s.downloaded(m) {
		return fmt.Errorf("%w: %s", ErrNotDownloaded, name)
	}

	s.mu.Lock()
	s.current = m
	s.mu.Unlock()
	return nil
}

// Current returns the active model.
func (s *Selection) Current() types.ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the absolute path of the active model file.
func (s *Selection) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filepath.Join(s.modelsDir, s.current.File)
}

// Models returns the catalog annotated with availability and the active flag.
func (s *Selection) Models() []types.ModelStatus {
	s.mu.RLock()
	active := s.current.Name
	s.mu.RUnlock()

	result := make([]types.ModelStatus, 0, len(Catalog))
	for _, m := range Catalog {
		result = append(result, types.ModelStatus{
			ModelInfo:  m,
			Downloaded: s.downloaded(m),
			Active:     m.Name == active,
		})
	}
	return result
}

// SetupError reports a missing engine or models directory at startup. It
// carries remediation instructions for the user; the process must not
// proceed to the UI when one is returned.
type SetupError struct {
	Missing string
	Hint    string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Missing, e.Hint)
}

func setupHint() string {
	if runtime.GOOS == "windows" {
		return "run setup_windows.bat to build whisper.cpp and download models"
	}
	return "run ./setup.sh to build whisper.cpp and download models"
}

// FindEngine locates the whisper-cli executable relative to baseDir, falling
// back to PATH lookup.
func FindEngine(baseDir string) (string, error) {
	name := "whisper-cli"
	locations := []string{
		filepath.Join(baseDir, "whisper.cpp", "build", "bin", name),
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
		locations = []string{
			filepath.Join(baseDir, "whisper.cpp", "build", "bin", "Release", name),
			filepath.Join(baseDir, "whisper.cpp", "build", "bin", name),
			filepath.Join(baseDir, "whisper.cpp", "build", "Release", name),
		}
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", &SetupError{Missing: name, Hint: setupHint()}
}

// FindModelsDir locates the whisper models directory, preferring the one
// next to the engine's build tree.
func FindModelsDir(baseDir, enginePath string) (string, error) {
	locations := []string{
		filepath.Join(baseDir, "whisper.cpp", "models"),
		filepath.Join(filepath.Dir(enginePath), "..", "..", "models"),
		filepath.Join(baseDir, "models"),
	}
	for _, loc := range locations {
		if info, err := os.Stat(loc); err == nil && info.IsDir() {
			return loc, nil
		}
	}
	return "", &SetupError{Missing: "models directory", Hint: setupHint()}
}
