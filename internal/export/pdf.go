package export

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"LocalPaint/internal/render"
	"LocalPaint/internal/state"
)

// PDF is a vector surface: one page, sized to the canvas in points.
type PDF struct {
	doc           *gofpdf.Fpdf
	width, height float64
}

var _ render.Surface = (*PDF)(nil)

func NewPDF(width, height int) (*PDF, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid pdf page %dx%d", state.ErrSurfaceUnavailable, width, height)
	}
	w, h := float64(width), float64(height)
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetTitle("LocalPaint drawing", true)
	p.AddPage()
	return &PDF{doc: p, width: w, height: h}, nil
}

func rgb(hex string) (int, int, int) {
	c := gg.Hex(hex)
	return int(c.R*255 + 0.5), int(c.G*255 + 0.5), int(c.B*255 + 0.5)
}

func (p *PDF) Clear(background string) error {
	r, g, b := rgb(background)
	p.doc.SetFillColor(r, g, b)
	p.doc.Rect(0, 0, p.width, p.height, "F")
	return p.doc.Error()
}

func (p *PDF) Segment(from, to state.Point, width float64, color string) error {
	r, g, b := rgb(color)
	p.doc.SetDrawColor(r, g, b)
	p.doc.SetLineWidth(width)
	p.doc.SetLineCapStyle("round")
	p.doc.SetLineJoinStyle("round")
	p.doc.Line(from.X, from.Y, to.X, to.Y)
	return p.doc.Error()
}

// Output writes the finished document.
func (p *PDF) Output(w io.Writer) error {
	if err := p.doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePDF replays samples onto a fresh page and writes it to w.
func WritePDF(w io.Writer, samples []state.Sample, width, height int, background string) error {
	p, err := NewPDF(width, height)
	if err != nil {
		return err
	}
	if _, err := render.Reconstruct(samples, p, background); err != nil {
		return err
	}
	return p.Output(w)
}
