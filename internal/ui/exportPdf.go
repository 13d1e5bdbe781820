package ui

import (
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"LocalPaint/internal/session"
)

// ShowExportJPEG asks where to write the canvas pixels, suggesting filename.
func ShowExportJPEG(win fyne.Window, s *session.Session, filename string) {
	showExport(win, filename, s.ExportJPEG)
}

// ShowExportPDF asks where to write the vector replay of the log.
func ShowExportPDF(win fyne.Window, s *session.Session, filename string) {
	showExport(win, filename, s.ExportPDF)
}

func showExport(win fyne.Window, filename string, write func(io.Writer) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[UI] closing %s: %v", writer.URI(), err)
			}
		}()

		if err := write(writer); err != nil {
			log.Printf("[UI] export to %s failed: %v", writer.URI(), err)
			dialog.ShowError(err, win)
			return
		}
		log.Printf("[UI] exported %s", writer.URI())
	}, win)
	d.SetFileName(filename)
	d.Show()
}
