package state

import "strings"

// Point is a surface-local position in pixels from the canvas top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample is one captured point plus the drawing parameters in effect when it was captured.
type Sample struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Erase bool    `json:"erase"`
	// From is the pointer-down anchor. Only the first sample of a stroke has it.
	From *Point `json:"from,omitempty"`
}

// Pos returns the sample's coordinates.
func (s Sample) Pos() Point {
	return Point{X: s.X, Y: s.Y}
}

// StartsStroke reports whether the sample opens a new stroke.
func (s Sample) StartsStroke() bool {
	return s.From != nil
}

func (s Sample) equal(o Sample) bool {
	if s.X != o.X || s.Y != o.Y || s.Size != o.Size || s.Color != o.Color || s.Erase != o.Erase {
		return false
	}
	if s.From == nil || o.From == nil {
		return s.From == nil && o.From == nil
	}
	return *s.From == *o.From
}

// NormalizeHex turns picker output ("a51dab", "#A51DAB") into "#A51DAB".
func NormalizeHex(hex string) string {
	hex = strings.TrimSpace(hex)
	hex = strings.TrimPrefix(hex, "#")
	return "#" + strings.ToUpper(hex)
}
