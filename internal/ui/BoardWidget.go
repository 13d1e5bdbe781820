package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalPaint/internal/session"
)

// BoardWidget shows the session's pixels and feeds it mouse input. It keeps no
// drawing state of its own.
type BoardWidget struct {
	widget.BaseWidget
	session *session.Session
	minSize fyne.Size
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(s *session.Session, minSize fyne.Size) *BoardWidget {
	b := &BoardWidget{session: s, minSize: minSize}
	b.ExtendBaseWidget(b)
	s.OnChange(func() {
		fyne.Do(b.Refresh)
	})
	return b
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.PointerDown(float64(e.Position.X), float64(e.Position.Y))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.PointerUp()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.session.PointerMove(float64(e.Position.X), float64(e.Position.Y))
}

// DragEnd can arrive instead of MouseUp when the button is released outside the widget.
func (b *BoardWidget) DragEnd() {
	b.session.PointerUp()
}

// MouseMoved is forwarded so that idle moves go through the same path; the session
// ignores them while the pointer is up.
func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.session.PointerMove(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                    {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(b.session.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	return &boardWidgetRenderer{board: b, image: img}
}

type boardWidgetRenderer struct {
	board *BoardWidget
	image *canvas.Image
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.image}
}

// Layout resizes the raster to match the widget; the session replays the log onto it.
func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.image.Resize(size)
	if size.Width < 1 || size.Height < 1 {
		return
	}
	if err := r.board.session.Resize(int(size.Width), int(size.Height)); err != nil {
		log.Printf("[UI] resize to %vx%v failed: %v", size.Width, size.Height, err)
	}
}

func (r *boardWidgetRenderer) Refresh() {
	r.image.Image = r.board.session.Image()
	r.image.Refresh()
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return r.board.minSize
}

func (r *boardWidgetRenderer) Destroy() {}
