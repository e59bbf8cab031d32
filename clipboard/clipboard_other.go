//go:build !darwin

package clipboard

import (
	"errors"

	"github.com/wailsapp/wails/v3/pkg/application"
)

func setClipboardText(app *application.App, text string) error {
	if app == nil {
		return errors.New("clipboard unavailable: no application")
	}
	if !app.Clipboard.SetText(text) {
		return errors.New("failed to set clipboard content")
	}
	return nil
}
