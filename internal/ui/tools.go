package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"LocalPaint/internal/config"
	"LocalPaint/internal/session"
	"LocalPaint/internal/state"
)

// Quick-pick brush colours next to the full picker.
var palette = []string{state.DefaultBrushColor, "#000000", "#E53935", "#43A047", "#1E88E5", "#FDD835"}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// FormatSize renders a brush size the way the slider label shows it: two digits
// below ten.
func FormatSize(size float64) string {
	return fmt.Sprintf("%02d", int(size))
}

// hexFromColor returns the picker value as a hex string without '#'.
func hexFromColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("%02X%02X%02X", n.R, n.G, n.B)
}

func colorFromHex(hex string) color.Color {
	return gg.Hex(hex).Color()
}

// NewToolbar builds the controls for s. Dialogs open on win.
func NewToolbar(win fyne.Window, s *session.Session, cfg *config.Config) fyne.CanvasObject {
	ctx := context.Background()

	status := widget.NewLabel(s.Status())
	sizeLabel := widget.NewLabel(FormatSize(s.State().Size))

	slider := widget.NewSlider(cfg.Brush.MinSize, cfg.Brush.MaxSize)
	slider.Step = 1
	slider.SetValue(s.State().Size)
	slider.OnChanged = func(val float64) {
		sizeLabel.SetText(FormatSize(val))
	}
	slider.OnChangeEnded = func(val float64) {
		s.SetSize(val)
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), slider)

	s.OnChange(func() {
		fyne.Do(func() {
			st := s.State()
			status.SetText(s.Status())
			slider.SetValue(st.Size)
			sizeLabel.SetText(FormatSize(st.Size))
		})
	})

	pickBrush := func() {
		picker := dialog.NewColorPicker("Brush colour", "", func(c color.Color) {
			s.SetBrushColor(hexFromColor(c))
		}, win)
		picker.Advanced = true
		picker.SetColor(colorFromHex(s.State().BrushColor))
		picker.Show()
	}

	pickBackground := func() {
		picker := dialog.NewColorPicker("Background colour", "", func(c color.Color) {
			if err := s.SetBackground(hexFromColor(c)); err != nil {
				dialog.ShowError(err, win)
			}
		}, win)
		picker.Advanced = true
		picker.SetColor(colorFromHex(s.State().Background))
		picker.Show()
	}

	report := func(op string, err error) {
		if err == nil {
			return
		}
		// Not-found and malformed loads are shown through the status label.
		var malformed *state.MalformedLogError
		if errors.Is(err, state.ErrNotFound) || errors.As(err, &malformed) {
			log.Printf("[UI] %s: %v", op, err)
			return
		}
		log.Printf("[UI] %s failed: %v", op, err)
		dialog.ShowError(err, win)
	}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), s.SelectBrush),  // Brush
		widget.NewToolbarAction(theme.ContentRemoveIcon(), s.SelectEraser), // Eraser
		widget.NewToolbarAction(theme.ColorPaletteIcon(), pickBrush),
		widget.NewToolbarAction(theme.ColorChromaticIcon(), pickBackground),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { report("clear", s.Clear()) }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { report("save", s.Save(ctx)) }),
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() { report("load", s.Load(ctx)) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { report("clear storage", s.ClearStorage(ctx)) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DownloadIcon(), func() { ShowExportJPEG(win, s, cfg.Export.JPEGFilename) }),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { ShowExportPDF(win, s, cfg.Export.PDFFilename) }),
	)

	colorBox := container.NewHBox()
	for _, hex := range palette {
		colorBox.Add(newColorSwatch(colorFromHex(hex), func(c color.Color) {
			s.SetBrushColor(hexFromColor(c))
		}))
	}

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		sizeLabel,
		layout.NewSpacer(),
		status,
	)
}
