package render

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"

	"LocalPaint/internal/state"
)

// JPEGQuality is the export quality, the lossy encoder's maximum.
const JPEGQuality = 100

// Raster is a pixel surface backed by a gg software context.
type Raster struct {
	dc *gg.Context
}

var _ Surface = (*Raster)(nil)

// NewRaster allocates a width x height surface.
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", state.ErrSurfaceUnavailable, width, height)
	}
	return &Raster{dc: gg.NewContext(width, height)}, nil
}

func (r *Raster) Clear(background string) error {
	r.dc.ClearWithColor(gg.Hex(background))
	return nil
}

func (r *Raster) Segment(from, to state.Point, width float64, color string) error {
	r.dc.SetHexColor(color)
	r.dc.SetLineWidth(width)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.dc.MoveTo(from.X, from.Y)
	r.dc.LineTo(to.X, to.Y)
	return r.dc.Stroke()
}

// Resize changes the surface dimensions. Pixels are dropped when the size changes,
// so callers must reconstruct afterwards.
func (r *Raster) Resize(width, height int) error {
	if err := r.dc.Resize(width, height); err != nil {
		return fmt.Errorf("%w: %v", state.ErrSurfaceUnavailable, err)
	}
	return nil
}

func (r *Raster) Size() (width, height int) {
	return r.dc.Width(), r.dc.Height()
}

// Image returns a snapshot of the current pixels.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

func (r *Raster) EncodeJPEG(w io.Writer) error {
	if err := r.dc.EncodeJPEG(w, JPEGQuality); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Raster) Close() error {
	return r.dc.Close()
}
