package stt

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
)

// WhisperAPI implements Provider using OpenAI's hosted Whisper API. It is an
// optional fallback for machines without a local whisper.cpp build and is
// only registered when an API key is configured.
type WhisperAPI struct {
	client  openai.Client
	model   string
	timeout time.Duration

	mu    sync.RWMutex
	ready bool
}

// WhisperAPIConfig holds configuration for WhisperAPI.
type WhisperAPIConfig struct {
	APIKey  string
	BaseURL string // Optional, defaults to OpenAI's API
	Model   string // Optional, defaults to "whisper-1"
}

// NewWhisperAPI creates a new WhisperAPI provider.
func NewWhisperAPI(cfg WhisperAPIConfig) *WhisperAPI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}

	return &WhisperAPI{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: 60 * time.Second,
		ready:   cfg.APIKey != "",
	}
}

func (w *WhisperAPI) Name() string        { return "whisper-api" }
func (w *WhisperAPI) DisplayName() string { return "OpenAI Whisper API" }
func (w *WhisperAPI) IsLocal() bool       { return false }

func (w *WhisperAPI) IsReady() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ready
}

// Transcribe sends the audio as a WAV file to the transcription endpoint.
func (w *WhisperAPI) Transcribe(audio []float32, language string) (*types.TranscriptionResult, error) {
	if !w.IsReady() {
		return nil, fmt.Errorf("whisper API is not ready: API key required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  openai.File(bytes.NewReader(float32ToWAV(audio, SampleRate)), "audio.wav", "audio/wav"),
	}
	// The API rejects "auto"; an omitted language means auto-detect.
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}

	start := time.Now()
	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("whisper API: %w", err)
	}

	return &types.TranscriptionResult{
		Text:     normalizeTranscript(resp.Text),
		Language: language,
		Duration: time.Since(start),
	}, nil
}

func (w *WhisperAPI) Close() error { return nil }
