package main

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/enesbasbug/Local-Voice-Dictation/indicator"
	"github.com/enesbasbug/Local-Voice-Dictation/internal/app"
	"github.com/enesbasbug/Local-Voice-Dictation/stt"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	slog.Info("starting app", "version", version, "commit", commit, "date", date)

	service := app.NewService()

	// Locate whisper.cpp before any UI exists. Without an engine and a model
	// there is nothing the app can do, so print the remediation and leave.
	if err := service.Bootstrap(); err != nil {
		var setupErr *stt.SetupError
		if errors.As(err, &setupErr) {
			fmt.Fprintf(os.Stderr, "%s not found.\n%s\n", setupErr.Missing, setupErr.Hint)
			os.Exit(1)
		}
		slog.Error("bootstrap", "error", err)
		os.Exit(1)
	}

	wailsApp := application.New(application.Options{
		Name:        "VoiceToClipboard",
		Description: "Push-to-talk dictation to the clipboard",
		Services: []application.Service{
			application.NewService(service),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Tray app: keep running with no window on screen
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	// The status pill. Stays hidden until a recording starts.
	pillWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:          "indicator",
		Title:         "VoiceToClipboard",
		Width:         180,
		Height:        44,
		Frameless:     true,
		AlwaysOnTop:   true,
		DisableResize: true,
		Hidden:        true,
		URL:           "/",
	})
	pillWindow.Center()

	pill := indicator.New(wailsApp, pillWindow)

	systemTray := wailsApp.SystemTray.New()
	systemTray.SetIcon(trayIconBytes)

	tray := &trayController{
		app:     wailsApp,
		tray:    systemTray,
		service: service,
	}
	service.OnState = func(_, next app.State) {
		tray.onState(next)
	}

	if err := service.Init(wailsApp, pill); err != nil {
		slog.Error("init service", "error", err)
		os.Exit(1)
	}

	tray.rebuild(app.StateIdle)

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
	service.Shutdown()
}

// trayController owns the tray menu. The menu is rebuilt whenever the session
// returns to idle so the recent-transcripts list stays current.
type trayController struct {
	app     *application.App
	tray    *application.SystemTray
	service *app.Service
}

func (t *trayController) onState(state app.State) {
	// Menu mutation happens on the UI side; only a full rebuild keeps the
	// recent list and the status line consistent.
	t.rebuild(state)
}

func (t *trayController) rebuild(state app.State) {
	menu := t.app.NewMenu()

	menu.Add("Status: " + statusLabel(state)).SetEnabled(false)
	menu.Add("Hold " + chordLabel(t.service.Hotkey()) + " to dictate").SetEnabled(false)
	menu.AddSeparator()

	modelMenu := menu.AddSubmenu("Model")
	for _, m := range t.service.Models() {
		label := m.Name
		if !m.Downloaded {
			label += " (not downloaded)"
		}
		model := m
		item := modelMenu.AddRadio(label, model.Active)
		if !model.Downloaded {
			item.SetEnabled(false)
			continue
		}
		item.OnClick(func(ctx *application.Context) {
			if err := t.service.SelectModel(model.Name); err != nil {
				slog.Error("select model", "error", err)
			}
			t.rebuild(app.StateIdle)
		})
	}

	recent := t.service.Recent()
	recentMenu := menu.AddSubmenu("Recent")
	if len(recent) == 0 {
		recentMenu.Add("No transcripts yet").SetEnabled(false)
	}
	for _, e := range recent {
		entry := e
		recentMenu.Add(menuPreview(entry.Text)).OnClick(func(ctx *application.Context) {
			if err := t.service.CopyHistoryEntry(entry.ID); err != nil {
				slog.Error("copy history entry", "error", err)
			}
		})
	}
	recentMenu.AddSeparator()
	recentMenu.Add("Clear History").OnClick(func(ctx *application.Context) {
		if err := t.service.ClearHistory(); err != nil {
			slog.Error("clear history", "error", err)
		}
		t.rebuild(app.StateIdle)
	})

	menu.AddSeparator()
	menu.Add("How to Use").OnClick(func(ctx *application.Context) {
		t.app.Dialog.Info().
			SetTitle("How to Use").
			SetMessage("Hold " + chordLabel(t.service.Hotkey()) + " and speak.\n" +
				"Release the keys and the transcript lands on your clipboard.\n" +
				"Paste it anywhere with the usual shortcut.").
			Show()
	})
	menu.Add("About").OnClick(func(ctx *application.Context) {
		t.app.Dialog.Info().
			SetTitle("VoiceToClipboard").
			SetMessage("Local push-to-talk dictation powered by whisper.cpp.\n" +
				"Version " + version).
			Show()
	})

	menu.AddSeparator()
	menu.Add("Quit").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			t.service.Shutdown()
			t.app.Quit()
		})

	t.tray.SetMenu(menu)
}

func statusLabel(state app.State) string {
	switch state {
	case app.StateRecording:
		return "Recording"
	case app.StateTranscribing:
		return "Transcribing"
	case app.StateDisplaying:
		return "Finishing"
	default:
		return "Idle"
	}
}

// chordLabel renders ["left_ctrl","left_alt"] as "Ctrl+Alt".
func chordLabel(names []string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimPrefix(name, "left_")
		name = strings.TrimPrefix(name, "right_")
		switch name {
		case "ctrl":
			name = "Ctrl"
		case "alt":
			name = "Alt"
		case "shift":
			name = "Shift"
		case "cmd":
			name = "Cmd"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "+")
}

// menuPreview shortens a transcript to a single menu line.
func menuPreview(text string) string {
	const max = 48
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
