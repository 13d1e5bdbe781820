package net

import (
	"context"
	"fmt"
	"strconv"

	"LocalPaint/internal/session"
)

// Event is one message from the browser page.
type Event struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Value  string  `json:"value,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

// Reply is sent back for every event.
type Reply struct {
	Status     string  `json:"status"`
	Tool       string  `json:"tool"`
	Size       float64 `json:"size"`
	Color      string  `json:"color"`
	Background string  `json:"background"`
	Samples    int     `json:"samples"`
	Error      string  `json:"error,omitempty"`
}

// Dispatch applies ev to the session.
func Dispatch(ctx context.Context, s *session.Session, ev Event) error {
	switch ev.Type {
	case "down":
		s.PointerDown(ev.X, ev.Y)
	case "move":
		s.PointerMove(ev.X, ev.Y)
	case "up":
		s.PointerUp()
	case "brush":
		s.SelectBrush()
	case "eraser":
		s.SelectEraser()
	case "color":
		s.SetBrushColor(ev.Value)
	case "background":
		return s.SetBackground(ev.Value)
	case "size":
		size, err := strconv.ParseFloat(ev.Value, 64)
		if err != nil {
			return fmt.Errorf("size %q: %w", ev.Value, err)
		}
		s.SetSize(size)
	case "resize":
		return s.Resize(ev.Width, ev.Height)
	case "clear":
		return s.Clear()
	case "save":
		return s.Save(ctx)
	case "load":
		return s.Load(ctx)
	case "clear-storage":
		return s.ClearStorage(ctx)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// Snapshot describes the session for a reply.
func Snapshot(s *session.Session) Reply {
	v := s.View()
	return Reply{
		Status:     v.Status,
		Tool:       v.State.Tool.String(),
		Size:       v.State.Size,
		Color:      v.State.Color,
		Background: v.State.Background,
		Samples:    v.Samples,
	}
}
