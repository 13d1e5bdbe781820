package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"LocalPaint/internal/config"
	"LocalPaint/internal/session"
)

// AppID keys the application preferences, where the prefs store keeps the drawing.
const AppID = "io.localpaint.desktop"

// NewApp creates the Fyne application. Its Preferences back the prefs store, so it
// must exist before the session does.
func NewApp() fyne.App {
	return app.NewWithID(AppID)
}

// RunApp opens the paint window on s and blocks until it is closed.
func RunApp(a fyne.App, cfg *config.Config, s *session.Session) {
	w := a.NewWindow("Local Paint")
	w.Resize(fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)))

	board := NewBoardWidget(s, fyne.NewSize(300, 300))
	toolbar := NewToolbar(w, s, cfg)

	w.SetContent(container.NewBorder(toolbar, nil, nil, nil, board))
	w.SetOnClosed(func() {
		s.Close()
	})
	w.ShowAndRun()
}
