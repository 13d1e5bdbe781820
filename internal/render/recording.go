package render

import (
	"fmt"
	"io"

	"LocalPaint/internal/state"
)

// Op is one call captured by a Recording.
type Op struct {
	Clear    bool
	From, To state.Point
	Width    float64
	Color    string
}

func (o Op) String() string {
	if o.Clear {
		return fmt.Sprintf("clear %s", o.Color)
	}
	return fmt.Sprintf("segment (%g,%g)->(%g,%g) width=%g color=%s", o.From.X, o.From.Y, o.To.X, o.To.Y, o.Width, o.Color)
}

// Recording remembers every call made to it instead of drawing.
type Recording struct {
	Ops []Op
}

var _ Surface = (*Recording)(nil)

func (r *Recording) Clear(background string) error {
	r.Ops = append(r.Ops, Op{Clear: true, Color: background})
	return nil
}

func (r *Recording) Segment(from, to state.Point, width float64, color string) error {
	r.Ops = append(r.Ops, Op{From: from, To: to, Width: width, Color: color})
	return nil
}

// Segments returns the recorded segments without the clears.
func (r *Recording) Segments() []Op {
	out := make([]Op, 0, len(r.Ops))
	for _, op := range r.Ops {
		if !op.Clear {
			out = append(out, op)
		}
	}
	return out
}

// WriteTo prints one op per line.
func (r *Recording) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, op := range r.Ops {
		n, err := fmt.Fprintln(w, op.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
