package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/enesbasbug/Local-Voice-Dictation/audiocapture"
	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
	"github.com/enesbasbug/Local-Voice-Dictation/stt"
)

// State is the push-to-talk session state.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateDisplaying   State = "displaying"
)

// Indicator abstracts the status pill so the controller can be tested
// without a UI.
type Indicator interface {
	Show(text, state string)
	Update(text, state string)
	Hide()
}

// HistorySink receives successful transcripts.
type HistorySink interface {
	Add(entry types.HistoryEntry) (types.HistoryEntry, error)
}

// SessionOptions wires the controller's collaborators. Provider is called at
// session end so model switches made mid-recording take effect.
type SessionOptions struct {
	Capturer  audiocapture.Capturer
	Provider  func() stt.Provider
	Indicator Indicator
	Clipboard func(text string) error

	History  HistorySink              // optional
	Language func() string            // optional, forced source language
	Detect   func(text string) string // optional, language tagging
	OnState  func(old, new State)     // optional, drives the tray status item

	// MinDuration is the shortest recording worth transcribing.
	// Dwell and ErrorDwell control how long transient pill messages stay up.
	// Zero values get the production defaults.
	MinDuration time.Duration
	Dwell       time.Duration
	ErrorDwell  time.Duration
}

const (
	defaultMinDuration = 300 * time.Millisecond
	defaultDwell       = time.Second
	defaultErrorDwell  = 2 * time.Second
)

// Session is the push-to-talk state machine. Exactly one recording can be in
// flight; press and release events outside the expected state are ignored.
type Session struct {
	capturer  audiocapture.Capturer
	provider  func() stt.Provider
	indicator Indicator
	clipboard func(text string) error
	history   HistorySink
	language  func() string
	detect    func(text string) string
	onState   func(old, new State)

	minDuration time.Duration
	dwell       time.Duration
	errorDwell  time.Duration

	mu        sync.Mutex
	state     State
	buffer    *audiocapture.Buffer
	startedAt time.Time
}

// NewSession validates opts and returns an idle controller.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Capturer == nil {
		return nil, fmt.Errorf("new session: nil capturer")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("new session: nil provider")
	}
	if opts.Indicator == nil {
		return nil, fmt.Errorf("new session: nil indicator")
	}
	if opts.Clipboard == nil {
		return nil, fmt.Errorf("new session: nil clipboard")
	}

	s := &Session{
		capturer:    opts.Capturer,
		provider:    opts.Provider,
		indicator:   opts.Indicator,
		clipboard:   opts.Clipboard,
		history:     opts.History,
		language:    opts.Language,
		detect:      opts.Detect,
		onState:     opts.OnState,
		minDuration: opts.MinDuration,
		dwell:       opts.Dwell,
		errorDwell:  opts.ErrorDwell,
		state:       StateIdle,
	}
	if s.minDuration == 0 {
		s.minDuration = defaultMinDuration
	}
	if s.dwell == 0 {
		s.dwell = defaultDwell
	}
	if s.errorDwell == 0 {
		s.errorDwell = defaultErrorDwell
	}
	return s, nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setStateLocked(next State) {
	old := s.state
	s.state = next
	if s.onState != nil && old != next {
		s.onState(old, next)
	}
}

// HandlePress starts a recording. A press while any session is in flight is
// ignored, so holding the chord through a slow transcription cannot start a
// second recording.
func (s *Session) HandlePress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return
	}

	buffer := audiocapture.NewBuffer(stt.SampleRate)
	if err := s.capturer.Start(func(samples []float32) {
		s.onAudio(buffer, samples)
	}); err != nil {
		slog.Error("start capture", "error", err)
		s.indicator.Show("Microphone error", "error")
		s.setStateLocked(StateDisplaying)
		go s.dismissAfter(s.errorDwell)
		return
	}

	s.buffer = buffer
	s.startedAt = time.Now()
	s.setStateLocked(StateRecording)
	s.indicator.Show("Recording...", "recording")
	slog.Info("recording started")
}

// onAudio appends captured samples while the session is still recording.
// Blocks that race a release are dropped.
func (s *Session) onAudio(buffer *audiocapture.Buffer, samples []float32) {
	s.mu.Lock()
	recording := s.state == StateRecording && s.buffer == buffer
	s.mu.Unlock()
	if recording {
		buffer.Append(samples)
	}
}

// HandleRelease stops the recording and hands the audio to the engine.
// A release while not recording is ignored.
func (s *Session) HandleRelease() {
	s.mu.Lock()

	if s.state != StateRecording {
		s.mu.Unlock()
		return
	}

	buffer := s.buffer
	s.buffer = nil
	held := time.Since(s.startedAt)
	short := held < s.minDuration || buffer.Len() == 0
	if short {
		s.setStateLocked(StateIdle)
	} else {
		s.setStateLocked(StateTranscribing)
	}
	s.mu.Unlock()

	// Stop outside the lock: Stop waits for the dispatch goroutine, whose
	// handler takes the same lock. Late blocks are dropped by onAudio since
	// the state already left Recording.
	if err := s.capturer.Stop(); err != nil {
		slog.Error("stop capture", "error", err)
	}

	if short {
		slog.Info("recording too short, discarded", "held", held)
		s.indicator.Hide()
		return
	}

	s.indicator.Update("Transcribing...", "processing")
	slog.Info("recording stopped", "held", held, "samples", buffer.Len())

	go s.finish(buffer)
}

// finish runs the engine and publishes the outcome. It owns the transition
// out of Transcribing; a panic anywhere below must not wedge the state
// machine.
func (s *Session) finish(buffer *audiocapture.Buffer) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("transcription panicked", "panic", r)
			s.showOutcome("Error", "error", s.dwell)
		}
	}()

	language := ""
	if s.language != nil {
		language = s.language()
	}

	result, err := s.provider().Transcribe(buffer.Samples(), language)
	if err != nil {
		slog.Error("transcribe", "error", err)
		s.showOutcome("Error", "error", s.dwell)
		return
	}

	if result.Text == "" {
		slog.Info("no speech detected")
		s.showOutcome("No speech", "error", s.dwell)
		return
	}

	if err := s.clipboard(result.Text); err != nil {
		slog.Error("set clipboard", "error", err)
		s.showOutcome("Error", "error", s.dwell)
		return
	}

	s.record(result, buffer.Duration())
	slog.Info("transcript copied", "chars", len(result.Text), "language", result.Language)
	s.showOutcome("Copied!", "success", s.dwell)
}

// record stores the transcript in history. Failures are logged only; the
// clipboard already has the text.
func (s *Session) record(result *types.TranscriptionResult, audioLen time.Duration) {
	if s.history == nil {
		return
	}

	languageName := result.Language
	if languageName == "" && s.detect != nil {
		languageName = s.detect(result.Text)
	}

	if _, err := s.history.Add(types.HistoryEntry{
		Text:     result.Text,
		Language: languageName,
		Duration: audioLen,
	}); err != nil {
		slog.Error("store history entry", "error", err)
	}
}

// showOutcome displays a transient message and then returns to idle.
func (s *Session) showOutcome(text, state string, dwell time.Duration) {
	s.mu.Lock()
	s.setStateLocked(StateDisplaying)
	s.mu.Unlock()

	s.indicator.Update(text, state)
	s.dismissAfter(dwell)
}

func (s *Session) dismissAfter(dwell time.Duration) {
	time.Sleep(dwell)

	// Hide before leaving Displaying so the next press never sees a stale
	// pill on screen.
	s.indicator.Hide()

	s.mu.Lock()
	if s.state == StateDisplaying {
		s.setStateLocked(StateIdle)
	}
	s.mu.Unlock()
}
