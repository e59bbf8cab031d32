// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"github.com/wailsapp/wails/v3/pkg/application"
)

// SetText replaces the clipboard contents with text.
func SetText(app *application.App, text string) error {
	return setClipboardText(app, text)
}
