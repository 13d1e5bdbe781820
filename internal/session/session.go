// Package session owns one drawing: the stroke log, the transient tool state and the
// canvas pixels derived from them. Front-ends translate their input into calls on a
// Session and redraw from Image whenever a change listener fires.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"LocalPaint/internal/config"
	"LocalPaint/internal/export"
	"LocalPaint/internal/render"
	"LocalPaint/internal/state"
	"LocalPaint/internal/store"
)

// Status messages shown after an action, before the tool name comes back.
const (
	StatusCleared        = "Canvas Cleared"
	StatusSaved          = "Canvas Saved"
	StatusLoaded         = "Canvas Loaded"
	StatusNotFound       = "No Canvas Found"
	StatusInvalid        = "No Valid Drawing"
	StatusStorageCleared = "Local Storage Cleared"
	StatusImageSaved     = "Image File Saved"
	StatusPDFSaved       = "PDF File Saved"
)

// Canvas is the live pixel surface a session paints on.
type Canvas interface {
	render.Surface
	Resize(width, height int) error
	Size() (width, height int)
	Image() image.Image
	EncodeJPEG(w io.Writer) error
}

// Options configure a Session.
type Options struct {
	Defaults    state.Defaults
	Key         string
	RevertAfter time.Duration
	Scheduler   Scheduler
	Debug       bool
}

// OptionsFromConfig maps the loaded configuration onto session options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Defaults:    cfg.Defaults(),
		Key:         cfg.Storage.Key,
		RevertAfter: cfg.RevertAfter(),
		Debug:       cfg.Logging.Level == "debug",
	}
}

// Session is a single drawing session. All methods are safe to call from any
// goroutine; each one runs to completion before the next starts.
type Session struct {
	mu     sync.Mutex
	state  state.SessionState
	log    *state.StrokeLog
	clock  state.StrokeClock
	canvas Canvas
	store  store.Store
	opts   Options

	cursor state.Point  // current path position
	anchor *state.Point // pointer-down position awaiting its first sample

	status string
	revert *reverter

	listeners []func()
	closed    bool
}

// New starts a session on canvas, persisting through st (in-memory when nil).
func New(opts Options, canvas Canvas, st store.Store) (*Session, error) {
	if canvas == nil {
		return nil, state.ErrSurfaceUnavailable
	}
	if st == nil {
		st = store.NewMemory()
	}
	if opts.Key == "" {
		opts.Key = store.DefaultKey
	}
	if opts.RevertAfter <= 0 {
		opts.RevertAfter = 1500 * time.Millisecond
	}
	if opts.Scheduler == nil {
		opts.Scheduler = AfterFunc
	}

	s := &Session{
		state:  state.NewSessionState(opts.Defaults),
		log:    state.NewStrokeLog(),
		canvas: canvas,
		store:  st,
		opts:   opts,
	}
	s.revert = newReverter(opts.Scheduler)
	if err := s.resetLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// OnChange registers fn to run after every state or pixel change. Listeners run
// outside the session lock and may call back into the session.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// do runs fn under the lock and notifies listeners afterwards.
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	err := fn()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
	return err
}

// PointerDown anchors a new path. Nothing is logged until the pointer moves.
func (s *Session) PointerDown(x, y float64) {
	_ = s.do(func() error {
		s.state.PointerDown = true
		s.cursor = state.Point{X: x, Y: y}
		anchor := s.cursor
		s.anchor = &anchor
		stroke := s.clock.Tick()
		if s.opts.Debug {
			log.Printf("[SESSION] stroke %d down at (%.1f, %.1f) tool=%s size=%g color=%s", stroke, x, y, s.state.Tool, s.state.Size, s.state.Color)
		}
		return nil
	})
}

// PointerMove draws the segment to (x, y) and records a sample while the pointer is
// down. It does nothing while the pointer is up.
func (s *Session) PointerMove(x, y float64) {
	_ = s.do(func() error {
		if !s.state.PointerDown {
			return nil
		}
		to := state.Point{X: x, Y: y}
		if err := s.canvas.Segment(s.cursor, to, s.state.Size, s.state.StrokeColor()); err != nil {
			log.Printf("[SESSION] live segment failed: %v", err)
		}

		sample := state.Sample{
			X:     x,
			Y:     y,
			Size:  s.state.Size,
			Color: s.state.Color,
			Erase: s.state.IsEraser(),
			From:  s.anchor,
		}
		s.anchor = nil
		s.log.Append(sample)
		s.cursor = to
		if s.opts.Debug {
			log.Printf("[SESSION] sample %d stroke %d %+v", s.log.Len()-1, s.clock.Current(), sample)
		}
		return nil
	})
}

func (s *Session) PointerUp() {
	_ = s.do(func() error {
		s.state.PointerDown = false
		s.anchor = nil
		return nil
	})
}

// SelectEraser switches to the eraser. An explicit tool choice supersedes any
// pending status reversion.
func (s *Session) SelectEraser() {
	_ = s.do(func() error {
		s.revert.cancel()
		s.state.SelectEraser()
		s.status = s.state.Tool.String()
		return nil
	})
}

func (s *Session) SelectBrush() {
	_ = s.do(func() error {
		s.revert.cancel()
		s.switchToBrushLocked()
		return nil
	})
}

// SetBrushColor takes the picker value, with or without the leading '#'.
func (s *Session) SetBrushColor(hex string) {
	_ = s.do(func() error {
		s.state.SetBrushColor(hex)
		s.status = s.state.Tool.String()
		return nil
	})
}

func (s *Session) SetSize(size float64) {
	_ = s.do(func() error {
		s.state.SetSize(size)
		return nil
	})
}

// SetBackground changes the canvas colour and rebuilds the drawing on it.
func (s *Session) SetBackground(hex string) error {
	return s.do(func() error {
		s.state.SetBackground(hex)
		return s.resetLocked()
	})
}

// Resize changes the surface size and rebuilds the drawing.
func (s *Session) Resize(width, height int) error {
	return s.do(func() error {
		w, h := s.canvas.Size()
		if w == width && h == height {
			return nil
		}
		if err := s.canvas.Resize(width, height); err != nil {
			return err
		}
		return s.reconstructLocked()
	})
}

// Redraw rebuilds the pixels from the log without changing any state.
func (s *Session) Redraw() error {
	return s.do(s.reconstructLocked)
}

// Clear empties the log and the canvas.
func (s *Session) Clear() error {
	return s.do(func() error {
		s.log.Clear()
		s.clock.Reset(0)
		s.restartStrokeLocked()
		if err := s.resetLocked(); err != nil {
			return err
		}
		s.announceLocked(StatusCleared)
		return nil
	})
}

// Save overwrites the persisted drawing with the current log.
func (s *Session) Save(ctx context.Context) error {
	return s.do(func() error {
		data, err := s.log.Serialize()
		if err != nil {
			return err
		}
		if err := s.store.Put(ctx, s.opts.Key, data); err != nil {
			return fmt.Errorf("save canvas: %w", err)
		}
		log.Printf("[SESSION] saved %d samples under %q", s.log.Len(), s.opts.Key)
		s.announceLocked(StatusSaved)
		return nil
	})
}

// Load replaces the log with the persisted drawing and rebuilds the canvas. The log
// is left as it was when nothing is stored or the stored data is malformed.
func (s *Session) Load(ctx context.Context) error {
	return s.do(func() error {
		data, err := s.store.Get(ctx, s.opts.Key)
		if err != nil {
			if errors.Is(err, state.ErrNotFound) {
				s.announceLocked(StatusNotFound)
			}
			return fmt.Errorf("load canvas: %w", err)
		}

		loaded, err := state.Decode(data)
		if err != nil {
			log.Printf("[SESSION] stored canvas rejected: %v", err)
			s.announceLocked(StatusInvalid)
			return err
		}

		s.log = loaded
		s.clock.Reset(uint64(loaded.Strokes()))
		s.restartStrokeLocked()
		if err := s.reconstructLocked(); err != nil {
			return err
		}
		log.Printf("[SESSION] loaded %d samples from %q", loaded.Len(), s.opts.Key)
		s.announceLocked(StatusLoaded)
		return nil
	})
}

// ClearStorage removes the persisted drawing, if any.
func (s *Session) ClearStorage(ctx context.Context) error {
	return s.do(func() error {
		if err := s.store.Delete(ctx, s.opts.Key); err != nil {
			return fmt.Errorf("clear storage: %w", err)
		}
		s.announceLocked(StatusStorageCleared)
		return nil
	})
}

// ExportJPEG writes the current pixels as a maximum-quality JPEG.
func (s *Session) ExportJPEG(w io.Writer) error {
	return s.do(func() error {
		if err := s.canvas.EncodeJPEG(w); err != nil {
			return err
		}
		s.announceLocked(StatusImageSaved)
		return nil
	})
}

// WritePreview encodes the current pixels without announcing an export.
func (s *Session) WritePreview(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.EncodeJPEG(w)
}

// ExportPDF replays the log onto a vector page the size of the canvas.
func (s *Session) ExportPDF(w io.Writer) error {
	return s.do(func() error {
		width, height := s.canvas.Size()
		if err := export.WritePDF(w, s.log.Samples(), width, height, s.state.Background); err != nil {
			return err
		}
		s.announceLocked(StatusPDFSaved)
		return nil
	})
}

// View is a consistent picture of a session at one instant.
type View struct {
	State   state.SessionState
	Status  string
	Samples int
}

// View reads the tool state, status and log length under a single lock.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{State: s.state, Status: s.status, Samples: s.log.Len()}
}

// State returns a copy of the transient drawing state.
func (s *Session) State() state.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Samples returns a copy of the stroke log.
func (s *Session) Samples() []state.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Samples()
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Len()
}

// Status is the text for the active-tool indicator.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Image returns a snapshot of the canvas pixels.
func (s *Session) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Image()
}

// Close cancels any pending status reversion.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.revert.cancel()
	return nil
}

func (s *Session) reconstructLocked() error {
	n, err := render.Reconstruct(s.log.Samples(), s.canvas, s.state.Background)
	if err != nil {
		return fmt.Errorf("reconstruct canvas: %w", err)
	}
	if s.opts.Debug {
		log.Printf("[SESSION] replayed %d segments on %s", n, s.state.Background)
	}
	return nil
}

// restartStrokeLocked re-anchors a gesture that is still in progress when the log it
// was being written to goes away.
func (s *Session) restartStrokeLocked() {
	s.anchor = nil
	if s.state.PointerDown {
		anchor := s.cursor
		s.anchor = &anchor
	}
}

// resetLocked repaints the background, replays the log and returns to the brush.
func (s *Session) resetLocked() error {
	if err := s.reconstructLocked(); err != nil {
		return err
	}
	s.switchToBrushLocked()
	return nil
}

func (s *Session) switchToBrushLocked() {
	s.state.SelectBrush()
	s.status = s.state.Tool.String()
}

// announceLocked shows msg and schedules the switch back to the brush, replacing
// whatever reversion was pending.
func (s *Session) announceLocked(msg string) {
	s.status = msg
	s.revert.schedule(s.opts.RevertAfter, s.fireRevert)
}

func (s *Session) fireRevert(gen uint64) {
	_ = s.do(func() error {
		if s.closed || !s.revert.current(gen) {
			return nil
		}
		s.revert.cancel()
		s.switchToBrushLocked()
		return nil
	})
}
