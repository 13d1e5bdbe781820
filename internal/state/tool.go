package state

// Tool is the active drawing tool.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "Brush"
	case ToolEraser:
		return "Eraser"
	}
	return "Unknown"
}

const (
	DefaultBrushColor = "#A51DAB"
	DefaultBackground = "#FFFFFF"
	DefaultBrushSize  = 10
	DefaultEraserSize = 50
)

// Defaults are the values a session starts with and falls back to when switching tools.
type Defaults struct {
	BrushColor string
	Background string
	BrushSize  float64
	EraserSize float64
}

// StandardDefaults returns the stock palette.
func StandardDefaults() Defaults {
	return Defaults{
		BrushColor: DefaultBrushColor,
		Background: DefaultBackground,
		BrushSize:  DefaultBrushSize,
		EraserSize: DefaultEraserSize,
	}
}

// SessionState is the transient drawing state read by capture. It is never persisted;
// only the effective values land in each Sample.
type SessionState struct {
	Tool        Tool
	BrushColor  string // picker preference, survives eraser use
	Color       string // colour new samples are captured with
	Size        float64
	Background  string
	PointerDown bool

	defaults Defaults
}

func NewSessionState(d Defaults) SessionState {
	if d.BrushColor == "" {
		d.BrushColor = DefaultBrushColor
	}
	if d.Background == "" {
		d.Background = DefaultBackground
	}
	if d.BrushSize <= 0 {
		d.BrushSize = DefaultBrushSize
	}
	if d.EraserSize <= 0 {
		d.EraserSize = DefaultEraserSize
	}
	d.BrushColor = NormalizeHex(d.BrushColor)
	d.Background = NormalizeHex(d.Background)
	return SessionState{
		Tool:       ToolBrush,
		BrushColor: d.BrushColor,
		Color:      d.BrushColor,
		Size:       d.BrushSize,
		Background: d.Background,
		defaults:   d,
	}
}

func (s *SessionState) Defaults() Defaults {
	return s.defaults
}

func (s *SessionState) IsEraser() bool {
	return s.Tool == ToolEraser
}

// SelectEraser paints with the background colour at the fixed eraser size.
// The brush colour preference is kept.
func (s *SessionState) SelectEraser() {
	s.Tool = ToolEraser
	s.Size = s.defaults.EraserSize
	s.Color = s.Background
}

// SelectBrush restores the default brush size and the chosen brush colour.
func (s *SessionState) SelectBrush() {
	s.Tool = ToolBrush
	s.Size = s.defaults.BrushSize
	s.Color = s.BrushColor
}

// SetBrushColor records a picker change. Picking a colour always leaves the eraser.
func (s *SessionState) SetBrushColor(hex string) {
	s.BrushColor = NormalizeHex(hex)
	s.Tool = ToolBrush
	s.Color = s.BrushColor
}

func (s *SessionState) SetSize(size float64) {
	s.Size = size
}

func (s *SessionState) SetBackground(hex string) {
	s.Background = NormalizeHex(hex)
}

// StrokeColor is the colour a live segment is drawn with.
func (s *SessionState) StrokeColor() string {
	if s.IsEraser() {
		return s.Background
	}
	return s.Color
}
