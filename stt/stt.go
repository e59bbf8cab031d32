// Package stt provides speech-to-text provider interface and implementations.
package stt

import (
	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
)

// SampleRate is the sample rate whisper expects, in Hz.
const SampleRate = 16000

// Provider defines the interface for speech-to-text providers.
// Both the local whisper-cli subprocess and the OpenAI API implementation
// satisfy this interface.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// IsLocal returns true if the provider runs locally without API calls.
	IsLocal() bool

	// IsReady returns true if the provider is ready to use.
	IsReady() bool

	// Transcribe converts audio samples to text.
	// audio: PCM float32 samples at 16000 Hz sample rate
	// language: source language code (empty for auto-detect)
	Transcribe(audio []float32, language string) (*types.TranscriptionResult, error)

	// Close releases resources held by the provider.
	Close() error
}

// Registry holds registered STT providers.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	if _, ok := r.providers[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get returns a provider by name, nil if not registered.
func (r *Registry) Get(name string) Provider {
	return r.providers[name]
}

// List returns all registered providers in registration order.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, name := range r.order {
		result = append(result, r.providers[name])
	}
	return result
}

// Close releases all providers.
func (r *Registry) Close() error {
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			return err
		}
	}
	return nil
}
