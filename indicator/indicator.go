// Package indicator drives the small always-on-top status pill shown while
// dictation is in progress.
package indicator

import (
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/enesbasbug/Local-Voice-Dictation/internal/types"
)

// EventUpdate carries the current indicator text and state to the pill page.
const EventUpdate = "indicator-update"

// Pill controls the indicator window. All methods are safe for concurrent
// use and never block on UI work.
type Pill struct {
	app    *application.App
	window *application.WebviewWindow

	mu      sync.Mutex
	visible bool
}

// New returns a Pill bound to the given indicator window. The window is
// expected to start hidden.
func New(app *application.App, window *application.WebviewWindow) *Pill {
	return &Pill{app: app, window: window}
}

// Show makes the pill visible with the given text and state.
func (p *Pill) Show(text, state string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.emit(text, state)
	if !p.visible && p.window != nil {
		p.window.Show()
		p.visible = true
	}
}

// Update changes the pill text without touching visibility.
func (p *Pill) Update(text, state string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emit(text, state)
}

// Hide removes the pill from the screen.
func (p *Pill) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.visible && p.window != nil {
		p.window.Hide()
		p.visible = false
	}
}

func (p *Pill) emit(text, state string) {
	if p.app == nil {
		return
	}
	p.app.Event.Emit(EventUpdate, types.IndicatorUpdate{Text: text, State: state})
}
