// Package app wires configuration, audio capture, the transcription engine,
// and the push-to-talk session together behind a Wails service.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/enesbasbug/Local-Voice-Dictation/audiocapture"
	"github.com/enesbasbug/Local-Voice-Dictation/clipboard"
	"github.com/enesbasbug/Local-Voice-Dictation/config"
	"github.com/enesbasbug/Local-Voice-Dictation/history"
	"github.com/enesbasbug/Local-Voice-Dictation/hotkey"
	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
	"github.com/enesbasbug/Local-Voice-Dictation/langdetect"
	"github.com/enesbasbug/Local-Voice-Dictation/stt"
)

const appDirName = "voicetoclipboard"

// Service is the main application service bound to Wails.
type Service struct {
	app *application.App
	cfg *config.Config

	selection *stt.Selection
	registry  *stt.Registry
	history   *history.Store
	detector  *langdetect.Detector
	session   *Session
	hotkey    *hotkey.Manager

	// OnState, when set before Init, is forwarded to the session so the
	// tray can mirror the current state.
	OnState func(old, new State)
}

// NewService returns an empty service. Bootstrap must run before the UI is
// created; Init finishes wiring once the Wails app exists.
func NewService() *Service {
	return &Service{}
}

// Bootstrap loads configuration and locates the whisper engine and models.
// A *stt.SetupError is returned when whisper.cpp is not built yet; the caller
// should print its hint and exit instead of starting the UI.
func (s *Service) Bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = &config.Config{}
	}
	s.cfg = cfg

	base := baseDir()

	enginePath := cfg.EnginePath
	if enginePath == "" {
		enginePath, err = stt.FindEngine(base)
		if err != nil {
			return err
		}
	}

	modelsDir := cfg.ModelsDir
	if modelsDir == "" {
		modelsDir, err = stt.FindModelsDir(base, enginePath)
		if err != nil {
			return err
		}
	}

	selection, err := stt.NewSelection(modelsDir, cfg.DefaultModel)
	if err != nil {
		return err
	}
	s.selection = selection

	s.registry = stt.NewRegistry()

	local, err := stt.NewWhisperLocal(stt.WhisperLocalConfig{
		BinPath:   enginePath,
		Selection: selection,
	})
	if err != nil {
		return fmt.Errorf("init whisper local: %w", err)
	}
	s.registry.Register(local)
	slog.Info("registered whisper.cpp provider", "engine", enginePath, "model", selection.Current().Name)

	if cfg.CloudFallback.APIKey != "" {
		s.registry.Register(stt.NewWhisperAPI(stt.WhisperAPIConfig{
			APIKey:  cfg.CloudFallback.APIKey,
			BaseURL: cfg.CloudFallback.BaseURL,
			Model:   cfg.CloudFallback.Model,
		}))
		slog.Info("registered OpenAI Whisper API provider")
	}

	return nil
}

// baseDir is where the whisper.cpp checkout is expected: next to the
// executable, or the working directory when running from source.
func baseDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Init finishes wiring once the Wails application and the indicator window
// exist, and starts the global hotkey listener.
func (s *Service) Init(app *application.App, pill Indicator) error {
	s.app = app

	s.setupHistory()
	s.detector = langdetect.New()

	capturer, err := audiocapture.New(stt.SampleRate)
	if err != nil {
		return fmt.Errorf("init audio capture: %w", err)
	}

	opts := SessionOptions{
		Capturer:  capturer,
		Provider:  s.activeProvider,
		Indicator: pill,
		Clipboard: func(text string) error { return clipboard.SetText(s.app, text) },
		Language:  func() string { return s.cfg.Language },
		Detect: func(text string) string {
			return langdetect.DisplayName(s.detector.Detect(text))
		},
		OnState: s.OnState,
	}
	if s.history != nil && s.cfg.History.Enabled {
		opts.History = s.history
	}

	session, err := NewSession(opts)
	if err != nil {
		return err
	}
	s.session = session

	chord, err := hotkey.ParseChord(s.cfg.Hotkey)
	if err != nil {
		slog.Error("parse hotkey, falling back to default", "error", err)
		chord = hotkey.DefaultChord()
	}
	manager, err := hotkey.NewManager(chord, session.HandlePress, session.HandleRelease)
	if err != nil {
		return fmt.Errorf("init hotkey: %w", err)
	}
	if err := manager.Start(); err != nil {
		return fmt.Errorf("start hotkey: %w", err)
	}
	s.hotkey = manager

	return nil
}

func (s *Service) setupHistory() {
	if !s.cfg.History.Enabled {
		return
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Error("get config dir for history", "error", err)
		return
	}

	path := filepath.Join(configDir, appDirName, "history")
	ttl := time.Duration(s.cfg.History.TTLDays) * 24 * time.Hour
	store, err := history.New(path, ttl)
	if err != nil {
		slog.Error("init history", "error", err)
		return
	}
	s.history = store
	slog.Info("history initialized", "path", path)
}

// activeProvider resolves the configured provider, falling back to the first
// ready one.
func (s *Service) activeProvider() stt.Provider {
	if p := s.registry.Get(s.cfg.Provider); p != nil && p.IsReady() {
		return p
	}
	for _, p := range s.registry.List() {
		if p.IsReady() {
			return p
		}
	}
	// Registration order guarantees at least whisper-local.
	return s.registry.List()[0]
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.hotkey != nil {
		s.hotkey.Stop()
	}
	if s.registry != nil {
		if err := s.registry.Close(); err != nil {
			slog.Error("close providers", "error", err)
		}
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			slog.Error("close history", "error", err)
		}
	}
}

// Models returns the model catalog annotated with availability, for the tray
// menu.
func (s *Service) Models() []types.ModelStatus {
	return s.selection.Models()
}

// SelectModel switches the active whisper model and persists the choice.
func (s *Service) SelectModel(name string) error {
	if err := s.selection.Select(name); err != nil {
		return err
	}
	s.cfg.DefaultModel = name
	if err := s.cfg.Save(); err != nil {
		slog.Error("save config", "error", err)
	}
	slog.Info("model selected", "model", name)
	return nil
}

// ActiveModel returns the display name of the current model.
func (s *Service) ActiveModel() string {
	return s.selection.Current().Name
}

// Recent returns the newest stored transcripts for the tray menu.
func (s *Service) Recent() []types.HistoryEntry {
	if s.history == nil {
		return nil
	}
	limit := s.cfg.History.Limit
	if limit <= 0 {
		limit = 10
	}
	entries, err := s.history.Recent(limit)
	if err != nil {
		slog.Error("read history", "error", err)
		return nil
	}
	return entries
}

// CopyHistoryEntry puts a stored transcript back on the clipboard.
func (s *Service) CopyHistoryEntry(id string) error {
	if s.history == nil {
		return fmt.Errorf("history disabled")
	}
	entry, ok, err := s.history.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("history entry %s not found", id)
	}
	return clipboard.SetText(s.app, entry.Text)
}

// ClearHistory removes all stored transcripts.
func (s *Service) ClearHistory() error {
	if s.history == nil {
		return nil
	}
	return s.history.Clear()
}

// Hotkey returns the configured chord names, for display.
func (s *Service) Hotkey() []string {
	return s.cfg.Hotkey
}
