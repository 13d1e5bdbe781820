package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionState_Initial(t *testing.T) {
	s := NewSessionState(StandardDefaults())
	assert.Equal(t, ToolBrush, s.Tool)
	assert.Equal(t, "#A51DAB", s.Color)
	assert.Equal(t, 10.0, s.Size)
	assert.Equal(t, "#FFFFFF", s.Background)
	assert.False(t, s.PointerDown)
}

func TestSessionState_ZeroDefaultsFallBack(t *testing.T) {
	s := NewSessionState(Defaults{})
	assert.Equal(t, StandardDefaults(), s.Defaults())
}

func TestSessionState_EraserThenBrush(t *testing.T) {
	s := NewSessionState(StandardDefaults())
	s.SetBrushColor("00ff00")
	s.SetBackground("123456")

	s.SelectEraser()
	assert.Equal(t, ToolEraser, s.Tool)
	assert.Equal(t, 50.0, s.Size)
	assert.Equal(t, "#123456", s.Color)
	assert.Equal(t, "#00FF00", s.BrushColor, "eraser must not touch the brush preference")
	assert.Equal(t, "#123456", s.StrokeColor())

	s.SelectBrush()
	assert.Equal(t, ToolBrush, s.Tool)
	assert.Equal(t, 10.0, s.Size)
	assert.Equal(t, "#00FF00", s.Color)
}

func TestSessionState_ColorPickLeavesEraserKeepsSize(t *testing.T) {
	s := NewSessionState(StandardDefaults())
	s.SelectEraser()
	s.SetBrushColor("#abcdef")

	assert.Equal(t, ToolBrush, s.Tool)
	assert.Equal(t, "#ABCDEF", s.Color)
	assert.Equal(t, 50.0, s.Size)
}

func TestToolString(t *testing.T) {
	assert.Equal(t, "Brush", ToolBrush.String())
	assert.Equal(t, "Eraser", ToolEraser.String())
	assert.Equal(t, "Unknown", Tool(7).String())
}

func TestNormalizeHex(t *testing.T) {
	assert.Equal(t, "#A51DAB", NormalizeHex("a51dab"))
	assert.Equal(t, "#A51DAB", NormalizeHex(" #A51DAB "))
}
