// Package types provides shared type definitions for the application.
package types

import "time"

// TranscriptionResult is produced once per push-to-talk session and consumed
// by the clipboard writer, the status indicator, and the history store.
type TranscriptionResult struct {
	Text     string        `json:"text"`     // Normalized transcript, may be empty
	Language string        `json:"language"` // Detected language code, may be empty
	Duration time.Duration `json:"duration"` // Wall time spent in the engine
}

// ModelInfo describes one entry of the whisper model catalog.
type ModelInfo struct {
	Name  string `json:"name"`  // Display name, e.g. "Base (Fast)"
	File  string `json:"file"`  // Model file name, e.g. "ggml-base.bin"
	Size  string `json:"size"`  // Approximate download size, e.g. "~142MB"
	Speed string `json:"speed"` // Relative speed label, e.g. "Fast"
}

// ModelStatus is ModelInfo plus on-disk availability, used to render the
// model selection menu.
type ModelStatus struct {
	ModelInfo
	Downloaded bool `json:"downloaded"`
	Active     bool `json:"active"`
}

// HistoryEntry is one stored transcript.
type HistoryEntry struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Language  string        `json:"language,omitempty"` // Human-readable, e.g. "English"
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// IndicatorUpdate is the payload of indicator events sent to the pill window.
type IndicatorUpdate struct {
	Text  string `json:"text"`
	State string `json:"state"` // "recording", "processing", "success", "error"
}
