// Package render rebuilds a drawing from its stroke log.
//
// Pixels are disposable: any full rebuild clears the target surface, fills it with the
// background colour, and replays every sample in log order. A Surface only has to draw
// round-capped line segments, so the same replay drives the raster canvas, the PDF
// exporter and the recording used by tests.
package render

import (
	"fmt"

	"LocalPaint/internal/state"
)

// Surface is a target the replay engine can paint on.
type Surface interface {
	// Clear wipes the surface and fills it with the background colour.
	Clear(background string) error
	// Segment strokes a round-capped line from one point to another.
	Segment(from, to state.Point, width float64, color string) error
}

// SegmentColor resolves the colour a sample is stroked with at replay time.
// Eraser samples always take the background in effect now, not the stored colour.
func SegmentColor(s state.Sample, background string) string {
	if s.Erase {
		return background
	}
	return s.Color
}

// Origin returns where the segment ending at samples[i] starts. ok is false for the
// leading sample of a log without stroke origins, which only anchors its successor.
func Origin(samples []state.Sample, i int) (from state.Point, ok bool) {
	cur := samples[i]
	switch {
	case cur.From != nil:
		return *cur.From, true
	case i > 0:
		return samples[i-1].Pos(), true
	}
	return state.Point{}, false
}

// Replay draws every segment of samples onto s. It does not clear s first; use
// Reconstruct for a full rebuild. It returns the number of segments drawn.
func Replay(samples []state.Sample, s Surface, background string) (int, error) {
	drawn := 0
	for i := range samples {
		from, ok := Origin(samples, i)
		if !ok {
			continue
		}
		cur := samples[i]
		if err := s.Segment(from, cur.Pos(), cur.Size, SegmentColor(cur, background)); err != nil {
			return drawn, fmt.Errorf("replay sample %d: %w", i, err)
		}
		drawn++
	}
	return drawn, nil
}

// Reconstruct clears s to the background and replays samples onto it.
func Reconstruct(samples []state.Sample, s Surface, background string) (int, error) {
	if err := s.Clear(background); err != nil {
		return 0, fmt.Errorf("clear surface: %w", err)
	}
	return Replay(samples, s, background)
}
