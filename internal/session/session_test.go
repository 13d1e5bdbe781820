package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalPaint/internal/render"
	"LocalPaint/internal/state"
	"LocalPaint/internal/store"
)

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	wasPending := !f.stopped
	f.stopped = true
	return wasPending
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) schedule(d time.Duration, fn func()) Timer {
	t := &fakeTimer{d: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

func (c *fakeClock) last() *fakeTimer {
	return c.timers[len(c.timers)-1]
}

func newTestSession(t *testing.T) (*Session, *fakeClock, *store.Memory) {
	t.Helper()
	canvas, err := render.NewRaster(120, 80)
	require.NoError(t, err)
	t.Cleanup(func() { canvas.Close() })

	clock := &fakeClock{}
	kv := store.NewMemory()
	s, err := New(Options{Defaults: state.StandardDefaults(), Scheduler: clock.schedule}, canvas, kv)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock, kv
}

func rgbaPixels(t *testing.T, img image.Image) []byte {
	t.Helper()
	rgba, ok := img.(*image.RGBA)
	require.True(t, ok)
	return append([]byte(nil), rgba.Pix...)
}

func TestNew_NeedsSurface(t *testing.T) {
	_, err := New(Options{}, nil, nil)
	assert.ErrorIs(t, err, state.ErrSurfaceUnavailable)
}

func TestSession_BasicStroke(t *testing.T) {
	s, _, _ := newTestSession(t)

	s.PointerDown(10, 10)
	assert.Zero(t, s.Len(), "pointer-down only anchors the path")
	s.PointerMove(20, 10)
	s.PointerUp()

	samples := s.Samples()
	require.Len(t, samples, 1)
	got := samples[0]
	assert.Equal(t, 20.0, got.X)
	assert.Equal(t, 10.0, got.Y)
	assert.Equal(t, 10.0, got.Size)
	assert.Equal(t, "#A51DAB", got.Color)
	assert.False(t, got.Erase)

	rec := &render.Recording{}
	_, err := render.Replay(samples, rec, "#FFFFFF")
	require.NoError(t, err)
	require.Len(t, rec.Segments(), 1)
	assert.Equal(t, state.Point{X: 10, Y: 10}, rec.Segments()[0].From)
	assert.Equal(t, state.Point{X: 20, Y: 10}, rec.Segments()[0].To)
}

func TestSession_MoveWhileUpIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t)
	before := rgbaPixels(t, s.Image())

	s.PointerMove(30, 30)
	s.PointerMove(40, 40)

	assert.Zero(t, s.Len())
	assert.Equal(t, before, rgbaPixels(t, s.Image()))
}

func TestSession_ReleaseDoesNotAppend(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(5, 5)
	s.PointerUp()
	assert.Zero(t, s.Len())
	assert.False(t, s.State().PointerDown)
}

func TestSession_SecondStrokeStartsFromItsOwnAnchor(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(0, 0)
	s.PointerMove(10, 0)
	s.PointerMove(20, 0)
	s.PointerUp()
	s.PointerDown(50, 50)
	s.PointerMove(60, 60)
	s.PointerUp()

	samples := s.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, &state.Point{X: 0, Y: 0}, samples[0].From)
	assert.Nil(t, samples[1].From)
	assert.Equal(t, &state.Point{X: 50, Y: 50}, samples[2].From)
}

func TestSession_LiveDrawingMatchesReplay(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(10, 10)
	s.PointerMove(40, 20)
	s.PointerMove(60, 50)
	s.PointerUp()
	s.SelectEraser()
	s.PointerDown(45, 25)
	s.PointerMove(50, 30)
	s.PointerUp()
	live := rgbaPixels(t, s.Image())

	require.NoError(t, s.Redraw())
	assert.Equal(t, live, rgbaPixels(t, s.Image()))
}

func TestSession_SizeAndColorAreCapturedByValue(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(0, 0)
	s.PointerMove(1, 1)
	s.SetSize(3)
	s.SetBrushColor("00FF00")
	s.PointerMove(2, 2)
	s.PointerUp()

	samples := s.Samples()
	assert.Equal(t, 10.0, samples[0].Size)
	assert.Equal(t, "#A51DAB", samples[0].Color)
	assert.Equal(t, 3.0, samples[1].Size)
	assert.Equal(t, "#00FF00", samples[1].Color)
}

func TestSession_ToolSwitch(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.SetBrushColor("123ABC")
	require.NoError(t, s.SetBackground("EEEEEE"))

	s.SelectEraser()
	st := s.State()
	assert.Equal(t, state.ToolEraser, st.Tool)
	assert.Equal(t, 50.0, st.Size)
	assert.Equal(t, "#EEEEEE", st.Color)
	assert.Equal(t, "Eraser", s.Status())

	s.PointerDown(1, 1)
	s.PointerMove(2, 2)
	s.PointerUp()
	assert.True(t, s.Samples()[0].Erase)

	s.SelectBrush()
	st = s.State()
	assert.Equal(t, state.ToolBrush, st.Tool)
	assert.Equal(t, 10.0, st.Size)
	assert.Equal(t, "#123ABC", st.Color)
	assert.Equal(t, "Brush", s.Status())
}

func TestSession_BackgroundChangeKeepsLogAndReplays(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(10, 10)
	s.PointerMove(30, 10)
	s.PointerUp()
	s.SelectEraser()

	require.NoError(t, s.SetBackground("#000000"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, state.ToolBrush, s.State().Tool, "a background change returns to the brush")

	img := s.Image()
	r, g, b, _ := img.At(100, 70).RGBA()
	assert.Zero(t, r|g|b, "background repainted black")
}

func TestSession_SaveClearLoad(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(t)
	s.PointerDown(10, 10)
	s.PointerMove(20, 15)
	s.PointerMove(30, 20)
	s.PointerMove(40, 40)
	s.PointerUp()
	saved := s.Samples()
	savedPixels := rgbaPixels(t, s.Image())

	require.NoError(t, s.Save(ctx))
	assert.Equal(t, StatusSaved, s.Status())

	require.NoError(t, s.Clear())
	assert.Zero(t, s.Len())
	assert.Equal(t, StatusCleared, s.Status())

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, StatusLoaded, s.Status())
	assert.Equal(t, saved, s.Samples())
	assert.Equal(t, savedPixels, rgbaPixels(t, s.Image()))
}

func TestSession_LoadWithoutSave(t *testing.T) {
	s, _, _ := newTestSession(t)
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, state.ErrNotFound)
	assert.Zero(t, s.Len())
	assert.Equal(t, StatusNotFound, s.Status())
}

func TestSession_LoadMalformedKeepsLog(t *testing.T) {
	ctx := context.Background()
	s, _, kv := newTestSession(t)
	s.PointerDown(1, 1)
	s.PointerMove(2, 2)
	s.PointerUp()
	require.NoError(t, kv.Put(ctx, store.DefaultKey, []byte(`[{"x":1}]`)))

	err := s.Load(ctx)
	var malformed *state.MalformedLogError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, StatusInvalid, s.Status())
}

func TestSession_LoadLegacyArray(t *testing.T) {
	ctx := context.Background()
	s, _, kv := newTestSession(t)
	legacy := `[{"x":10,"y":10,"size":10,"color":"#A51DAB","erase":false},{"x":20,"y":10,"size":10,"color":"#A51DAB","erase":false}]`
	require.NoError(t, kv.Put(ctx, store.DefaultKey, []byte(legacy)))

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 2, s.Len())
}

func TestSession_ClearStorage(t *testing.T) {
	ctx := context.Background()
	s, _, kv := newTestSession(t)
	require.NoError(t, s.Save(ctx))
	require.NoError(t, s.ClearStorage(ctx))
	assert.Equal(t, StatusStorageCleared, s.Status())

	_, err := kv.Get(ctx, store.DefaultKey)
	assert.ErrorIs(t, err, state.ErrNotFound)
	assert.NoError(t, s.ClearStorage(ctx), "already absent")
}

func TestSession_Exports(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(10, 10)
	s.PointerMove(50, 50)
	s.PointerUp()

	var img bytes.Buffer
	require.NoError(t, s.ExportJPEG(&img))
	assert.Equal(t, StatusImageSaved, s.Status())
	cfg, err := jpeg.DecodeConfig(&img)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)

	var doc bytes.Buffer
	require.NoError(t, s.ExportPDF(&doc))
	assert.Equal(t, StatusPDFSaved, s.Status())
	assert.True(t, bytes.HasPrefix(doc.Bytes(), []byte("%PDF-")))
}

func TestSession_ResizeReconstructs(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(10, 10)
	s.PointerMove(20, 20)
	s.PointerUp()

	require.NoError(t, s.Resize(200, 150))
	b := s.Image().Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Equal(t, 150, b.Dy())
	assert.Equal(t, 1, s.Len())

	r, g, bl, _ := s.Image().At(15, 15).RGBA()
	assert.NotEqual(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, bl}, "stroke survived the resize")

	assert.ErrorIs(t, s.Resize(0, 0), state.ErrSurfaceUnavailable)
}

func TestSession_StatusRevertsToBrush(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.SelectEraser()
	require.NoError(t, s.Save(context.Background()))
	require.Len(t, clock.pending(), 1)
	assert.Equal(t, 1500*time.Millisecond, clock.last().d)

	clock.last().fn()
	assert.Equal(t, "Brush", s.Status())
	assert.Equal(t, state.ToolBrush, s.State().Tool)
	assert.Equal(t, 10.0, s.State().Size)
}

func TestSession_NewStatusCancelsPendingReversion(t *testing.T) {
	ctx := context.Background()
	s, clock, _ := newTestSession(t)
	require.NoError(t, s.Save(ctx))
	first := clock.last()
	require.NoError(t, s.ClearStorage(ctx))
	second := clock.last()

	assert.True(t, first.stopped)
	assert.False(t, second.stopped)
	require.Len(t, clock.pending(), 1)

	s.SelectEraser()
	assert.True(t, second.stopped, "explicit tool choice supersedes the reversion")

	// A callback that had already fired before it was stopped must not act.
	first.fn()
	second.fn()
	assert.Equal(t, state.ToolEraser, s.State().Tool)
	assert.Equal(t, "Eraser", s.Status())
}

func TestSession_OnChange(t *testing.T) {
	s, _, _ := newTestSession(t)
	calls := 0
	s.OnChange(func() {
		calls++
		_ = s.Status()
	})
	s.PointerDown(1, 1)
	s.PointerMove(2, 2)
	s.PointerUp()
	assert.Equal(t, 3, calls)
}

func TestSession_ClearMidStrokeReanchors(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.PointerDown(1, 1)
	s.PointerMove(5, 5)
	require.NoError(t, s.Clear())
	s.PointerMove(9, 9)
	s.PointerUp()

	samples := s.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, &state.Point{X: 5, Y: 5}, samples[0].From)
}

func TestSession_ViewIsConsistent(t *testing.T) {
	s, clock, _ := newTestSession(t)
	s.SelectEraser()
	s.PointerDown(1, 1)
	s.PointerMove(4, 4)
	s.PointerUp()
	require.NoError(t, s.Save(context.Background()))

	v := s.View()
	assert.Equal(t, StatusSaved, v.Status)
	assert.Equal(t, state.ToolEraser, v.State.Tool)
	assert.Equal(t, 1, v.Samples)

	clock.last().fn()
	v = s.View()
	assert.Equal(t, "Brush", v.Status)
	assert.Equal(t, state.ToolBrush, v.State.Tool)
	assert.Equal(t, float64(state.DefaultBrushSize), v.State.Size)
	assert.Equal(t, 1, v.Samples)
}
