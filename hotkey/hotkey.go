// Package hotkey tracks a push-to-talk modifier chord via a global keyboard
// hook. The chord fires onPress once when every modifier is held and
// onRelease once when any of them is let go.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"
)

// Manager listens for global key events and tracks the chord state. Duplicate
// key-down events (including OS key-repeat, which gohook reports as KeyHold)
// are idempotent.
type Manager struct {
	chord     []Modifier
	onPress   func()
	onRelease func()

	mu      sync.Mutex
	held    []bool
	engaged bool
	started bool
}

// NewManager creates a Manager for the given chord. onPress fires when the
// full chord is held, onRelease when the chord breaks. Both callbacks run on
// the hook goroutine and must not block.
func NewManager(chord []Modifier, onPress, onRelease func()) (*Manager, error) {
	if len(chord) == 0 {
		return nil, errors.New("hotkey: empty chord")
	}
	return &Manager{
		chord:     chord,
		onPress:   onPress,
		onRelease: onRelease,
		held:      make([]bool, len(chord)),
	}, nil
}

// Start begins consuming the global event hook.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("hotkey: already started")
	}
	m.started = true
	m.mu.Unlock()

	events := hook.Start()
	go m.loop(events)

	slog.Info("hotkey listener started", "chord", m.describe())
	return nil
}

// Stop uninstalls the hook. The event channel closes and the loop exits.
func (m *Manager) Stop() {
	m.mu.Lock()
	started := m.started
	m.started = false
	m.mu.Unlock()

	if started {
		hook.End()
	}
}

func (m *Manager) loop(events <-chan hook.Event) {
	for ev := range events {
		m.handleEvent(ev)
	}
}

// handleEvent updates chord state for one hook event. Split out from the
// loop so the transition logic is testable with synthetic events.
func (m *Manager) handleEvent(ev hook.Event) {
	switch ev.Kind {
	case hook.KeyDown, hook.KeyHold:
		m.keyDown(ev.Rawcode)
	case hook.KeyUp:
		m.keyUp(ev.Rawcode)
	}
}

func (m *Manager) keyDown(rawcode uint16) {
	m.mu.Lock()

	idx := m.modifierIndex(rawcode)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.held[idx] = true

	fire := !m.engaged && m.allHeld()
	if fire {
		m.engaged = true
	}
	m.mu.Unlock()

	if fire && m.onPress != nil {
		m.onPress()
	}
}

func (m *Manager) keyUp(rawcode uint16) {
	m.mu.Lock()

	idx := m.modifierIndex(rawcode)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.held[idx] = false

	fire := m.engaged
	m.engaged = false
	m.mu.Unlock()

	if fire && m.onRelease != nil {
		m.onRelease()
	}
}

func (m *Manager) modifierIndex(rawcode uint16) int {
	for i, mod := range m.chord {
		if mod.matches(rawcode) {
			return i
		}
	}
	return -1
}

func (m *Manager) allHeld() bool {
	for _, h := range m.held {
		if !h {
			return false
		}
	}
	return true
}

func (m *Manager) describe() string {
	s := ""
	for i, mod := range m.chord {
		if i > 0 {
			s += "+"
		}
		s += mod.Name
	}
	return s
}

// Modifier is one key of the chord, matched by any of its raw keycodes.
// Multiple codes per key absorb the keysym/scancode differences between
// platforms and keyboard layouts.
type Modifier struct {
	Name     string
	Rawcodes []uint16
}

func (m Modifier) matches(rawcode uint16) bool {
	for _, rc := range m.Rawcodes {
		if rc == rawcode {
			return true
		}
	}
	return false
}

// ParseChord resolves modifier names from the configuration into a chord.
func ParseChord(names []string) ([]Modifier, error) {
	chord := make([]Modifier, 0, len(names))
	for _, name := range names {
		mod, ok := modifierByName(name)
		if !ok {
			return nil, fmt.Errorf("hotkey: unknown modifier %q", name)
		}
		chord = append(chord, mod)
	}
	return chord, nil
}
