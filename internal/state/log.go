package state

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FormatVersion is the persisted log version written by Serialize.
// Version 1 is the bare array of records without stroke origins.
const FormatVersion = 2

// StrokeLog is the ordered, append-only record of every captured sample.
// It is not safe for concurrent use; the owning session serializes access.
type StrokeLog struct {
	samples []Sample
}

// NewStrokeLog returns an empty log.
func NewStrokeLog() *StrokeLog {
	return &StrokeLog{samples: make([]Sample, 0, 256)}
}

// Decode parses a serialized log into a new StrokeLog.
func Decode(data []byte) (*StrokeLog, error) {
	l := NewStrokeLog()
	if err := l.Deserialize(data); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *StrokeLog) Append(s Sample) {
	if s.From != nil {
		from := *s.From
		s.From = &from
	}
	l.samples = append(l.samples, s)
}

func (l *StrokeLog) Clear() {
	l.samples = l.samples[:0]
}

func (l *StrokeLog) Len() int {
	return len(l.samples)
}

// At returns the i-th sample. It panics if i is out of range.
func (l *StrokeLog) At(i int) Sample {
	return l.samples[i]
}

// Samples returns a copy of the log contents in replay order.
func (l *StrokeLog) Samples() []Sample {
	out := make([]Sample, len(l.samples))
	copy(out, l.samples)
	return out
}

// Strokes counts the stroke boundaries recorded in the log.
func (l *StrokeLog) Strokes() int {
	n := 0
	for _, s := range l.samples {
		if s.StartsStroke() {
			n++
		}
	}
	return n
}

// Equal compares two logs field for field.
func (l *StrokeLog) Equal(other *StrokeLog) bool {
	if l.Len() != other.Len() {
		return false
	}
	for i := range l.samples {
		if !l.samples[i].equal(other.samples[i]) {
			return false
		}
	}
	return true
}

type document struct {
	Version int      `json:"version"`
	Samples []Sample `json:"samples"`
}

// Serialize encodes the log as a versioned JSON document.
func (l *StrokeLog) Serialize() ([]byte, error) {
	doc := document{Version: FormatVersion, Samples: l.samples}
	if doc.Samples == nil {
		doc.Samples = []Sample{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode stroke log: %w", err)
	}
	return data, nil
}

// Deserialize replaces the log with the decoded contents of data. The log is left
// untouched when data is malformed.
func (l *StrokeLog) Deserialize(data []byte) error {
	samples, err := decodeSamples(data)
	if err != nil {
		return err
	}
	l.samples = samples
	return nil
}

type wireDocument struct {
	Version *int              `json:"version"`
	Samples []json.RawMessage `json:"samples"`
}

type wirePoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type wireSample struct {
	X     *float64   `json:"x"`
	Y     *float64   `json:"y"`
	Size  *float64   `json:"size"`
	Color *string    `json:"color"`
	Erase *bool      `json:"erase"`
	From  *wirePoint `json:"from"`
}

func decodeSamples(data []byte) ([]Sample, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &MalformedLogError{Index: -1, Err: fmt.Errorf("empty document")}
	}

	var records []json.RawMessage
	version := 1
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, &MalformedLogError{Index: -1, Err: err}
		}
	case '{':
		var doc wireDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, &MalformedLogError{Index: -1, Err: err}
		}
		if doc.Version == nil {
			return nil, &MalformedLogError{Index: -1, Field: "version", Err: errMissing}
		}
		if *doc.Version < 1 || *doc.Version > FormatVersion {
			return nil, &MalformedLogError{Index: -1, Field: "version", Err: fmt.Errorf("unsupported version %d", *doc.Version)}
		}
		if doc.Samples == nil {
			return nil, &MalformedLogError{Index: -1, Field: "samples", Err: errMissing}
		}
		version = *doc.Version
		records = doc.Samples
	default:
		return nil, &MalformedLogError{Index: -1, Err: fmt.Errorf("expected array or object, got %q", trimmed[0])}
	}

	samples := make([]Sample, 0, len(records))
	for i, raw := range records {
		s, err := decodeSample(i, raw, version)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func decodeSample(i int, raw json.RawMessage, version int) (Sample, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Sample{}, &MalformedLogError{Index: i, Err: errNullEntry}
	}
	var w wireSample
	if err := json.Unmarshal(raw, &w); err != nil {
		return Sample{}, &MalformedLogError{Index: i, Err: err}
	}

	switch {
	case w.X == nil:
		return Sample{}, &MalformedLogError{Index: i, Field: "x", Err: errMissing}
	case w.Y == nil:
		return Sample{}, &MalformedLogError{Index: i, Field: "y", Err: errMissing}
	case w.Size == nil:
		return Sample{}, &MalformedLogError{Index: i, Field: "size", Err: errMissing}
	case w.Color == nil:
		return Sample{}, &MalformedLogError{Index: i, Field: "color", Err: errMissing}
	case w.Erase == nil:
		return Sample{}, &MalformedLogError{Index: i, Field: "erase", Err: errMissing}
	}

	s := Sample{X: *w.X, Y: *w.Y, Size: *w.Size, Color: *w.Color, Erase: *w.Erase}
	if w.From != nil {
		if version < 2 {
			return Sample{}, &MalformedLogError{Index: i, Field: "from", Err: fmt.Errorf("not allowed in version %d", version)}
		}
		if w.From.X == nil || w.From.Y == nil {
			return Sample{}, &MalformedLogError{Index: i, Field: "from", Err: errMissing}
		}
		s.From = &Point{X: *w.From.X, Y: *w.From.Y}
	}
	return s, nil
}
