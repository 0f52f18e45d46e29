package surface

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log"
	"math"
	"testing"

	"github.com/example/colorbook/internal/view"
)

var (
	black = color.NRGBA{0, 0, 0, 0xff}
	red   = color.NRGBA{0xff, 0, 0, 0xff}
	blue  = color.NRGBA{0, 0, 0xff, 0xff}
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

var errMissing = errors.New("missing")

// mapLoader answers synchronously from a fixed set of images.
type mapLoader map[string]image.Image

func (m mapLoader) RequestImage(ctx context.Context, key string, onReady func(image.Image, error)) {
	img, ok := m[key]
	if !ok {
		onReady(nil, errMissing)
		return
	}
	onReady(img, nil)
}

// heldLoader keeps callbacks until the test releases them.
type heldLoader struct {
	pending []func()
}

func (h *heldLoader) RequestImage(ctx context.Context, key string, onReady func(image.Image, error)) {
	img := solid(4, 4, black)
	h.pending = append(h.pending, func() { onReady(img, nil) })
}

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func newTestSurface(t *testing.T, w, h int, ctl *StaticControls, opts ...Option) *Surface {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	s, err := New(w, h, mapLoader{"page": solid(4, 4, black)}, ctl, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func stroke2(t *testing.T, s *Surface, tool Tool, x0, y0, x1, y1 float64) {
	t.Helper()
	if err := s.StartStroke(x0, y0, tool); err != nil {
		t.Fatalf("StartStroke: %v", err)
	}
	if err := s.Draw(x1, y1); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	s.EndStroke()
}

func TestNewStartsWithBlankEntry(t *testing.T) {
	s := newTestSurface(t, 8, 8, &StaticControls{Color: red, Width: 2})
	if cur, n := s.HistoryInfo(); cur != 0 || n != 1 {
		t.Fatalf("history %d/%d", cur, n)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("fresh surface reports undo/redo")
	}
	if got := s.CurrentRaster().At(3, 3); got != white {
		t.Fatalf("page pixel %+v", got)
	}
	if _, err := New(0, 5, nil, &StaticControls{}); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestStrokeThenUndo(t *testing.T) {
	s := newTestSurface(t, 20, 20, &StaticControls{Color: black, Width: 3})
	first := s.CurrentRaster()

	stroke2(t, s, ToolBrush, 2.5, 10.5, 17.5, 10.5)
	second := s.CurrentRaster()
	if _, n := s.HistoryInfo(); n != 2 {
		t.Fatalf("history length %d", n)
	}
	if got := second.At(10, 10); got != black {
		t.Fatalf("stroke centre %+v", got)
	}
	if got := second.At(10, 15); got != white {
		t.Fatalf("pixel off the stroke changed: %+v", got)
	}

	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if !s.CurrentRaster().Equal(first) {
		t.Fatal("undo did not restore the first entry")
	}
	if !s.Redo() {
		t.Fatal("redo failed")
	}
	if !s.CurrentRaster().Equal(second) {
		t.Fatal("redo did not restore the stroke")
	}
}

func TestZeroLengthStrokePushesNothing(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{Color: black, Width: 3})
	if err := s.StartStroke(5, 5, ToolBrush); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != ModeStroking {
		t.Fatalf("mode %s", s.Mode())
	}
	if err := s.Draw(5, 5); err != nil {
		t.Fatal(err)
	}
	s.EndStroke()
	if _, n := s.HistoryInfo(); n != 1 {
		t.Fatalf("zero-length stroke pushed, history %d", n)
	}
	if s.Mode() != ModeIdle {
		t.Fatalf("mode %s", s.Mode())
	}
}

func TestCancelKeepsPartialStroke(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{Color: red, Width: 2})
	if err := s.StartStroke(1, 1, ToolBrush); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(8, 8); err != nil {
		t.Fatal(err)
	}
	s.CancelStroke()
	if _, n := s.HistoryInfo(); n != 2 {
		t.Fatalf("partial stroke lost, history %d", n)
	}

	if err := s.StartStroke(1, 1, ToolBrush); err != nil {
		t.Fatal(err)
	}
	s.CancelStroke()
	if _, n := s.HistoryInfo(); n != 2 {
		t.Fatalf("empty cancelled stroke pushed, history %d", n)
	}
}

func TestEraserClearsAlphaOnly(t *testing.T) {
	s := newTestSurface(t, 20, 20, &StaticControls{Color: red, Width: 3})
	stroke2(t, s, ToolEraser, 2.5, 10.5, 17.5, 10.5)
	got := s.CurrentRaster().At(10, 10)
	if got.A != 0 {
		t.Fatalf("alpha %d after erase", got.A)
	}
	if got.R != 0xff || got.G != 0xff || got.B != 0xff {
		t.Fatalf("eraser touched colour: %+v", got)
	}
}

func TestControlsReadPerSegment(t *testing.T) {
	ctl := &StaticControls{Color: red, Width: 3}
	s := newTestSurface(t, 20, 20, ctl)
	if err := s.StartStroke(2.5, 5.5, ToolBrush); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(17.5, 5.5); err != nil {
		t.Fatal(err)
	}
	ctl.Color = blue
	if err := s.Draw(17.5, 15.5); err != nil {
		t.Fatal(err)
	}
	s.EndStroke()
	buf := s.CurrentRaster()
	if got := buf.At(8, 5); got != red {
		t.Fatalf("first segment %+v", got)
	}
	if got := buf.At(17, 12); got != blue {
		t.Fatalf("second segment %+v", got)
	}
}

func TestFillAt(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{Color: red})
	n, err := s.FillAt(5, 5)
	if err != nil {
		t.Fatalf("FillAt: %v", err)
	}
	if n != 100 {
		t.Fatalf("changed %d pixels", n)
	}
	if _, l := s.HistoryInfo(); l != 2 {
		t.Fatalf("history %d", l)
	}
	n, err = s.FillAt(5, 5)
	if err != nil || n != 0 {
		t.Fatalf("refill changed %d (%v)", n, err)
	}
	if _, l := s.HistoryInfo(); l != 2 {
		t.Fatalf("no-op fill pushed history, len %d", l)
	}
}

func TestFillRejectedWhileStroking(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{Color: red, Width: 1})
	if err := s.StartStroke(1, 1, ToolBrush); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FillAt(5, 5); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestInvalidCoordinatesAreNoOps(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{Color: red, Width: 2})
	tests := []struct {
		name string
		run  func() error
	}{
		{"fill NaN", func() error { _, err := s.FillAt(math.NaN(), 1); return err }},
		{"fill outside", func() error { _, err := s.FillAt(10, 3); return err }},
		{"stroke negative", func() error { return s.StartStroke(-0.5, 3, ToolBrush) }},
		{"stroke infinite", func() error { return s.StartStroke(math.Inf(1), 3, ToolBrush) }},
		{"zoom NaN", func() error { return s.ZoomAroundPoint(math.NaN(), 0, 1) }},
	}
	for _, tt := range tests {
		if err := tt.run(); !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("%s: expected ErrInvalidCoordinate, got %v", tt.name, err)
		}
	}
	if s.Mode() != ModeIdle {
		t.Fatalf("mode %s", s.Mode())
	}
	if _, n := s.HistoryInfo(); n != 1 {
		t.Fatalf("history %d", n)
	}

	if err := s.StartStroke(2, 2, ToolBrush); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(20, 2); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("expected draw outside to fail, got %v", err)
	}
	s.EndStroke()
	if _, n := s.HistoryInfo(); n != 1 {
		t.Fatalf("rejected segment pushed history")
	}
}

func TestFillToolCannotStroke(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{Color: red})
	if err := s.StartStroke(1, 1, ToolFill); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadImageResetsHistoryAndView(t *testing.T) {
	s := newTestSurface(t, 8, 8, &StaticControls{Color: red, Width: 2})
	stroke2(t, s, ToolBrush, 1, 1, 6, 6)
	s.ZoomBy(1)

	var loadErr error
	called := false
	s.LoadImage(context.Background(), "page", func(err error) {
		called = true
		loadErr = err
	})
	if !called || loadErr != nil {
		t.Fatalf("load: called=%v err=%v", called, loadErr)
	}
	if cur, n := s.HistoryInfo(); cur != 0 || n != 1 {
		t.Fatalf("history %d/%d after load", cur, n)
	}
	if v := s.View(); v.Zoom != 1 || v.PanX != 0 || v.ImageKey != "page" {
		t.Fatalf("view after load %+v", v)
	}
	if got := s.CurrentRaster().At(4, 4); got.R > 0x10 || got.A != 0xff {
		t.Fatalf("line art not composited: %+v", got)
	}
	if s.CanUndo() {
		t.Fatal("undo reaches into the previous image")
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	s := newTestSurface(t, 8, 8, &StaticControls{Color: red, Width: 2})
	stroke2(t, s, ToolBrush, 1, 1, 6, 6)
	before := s.CurrentRaster()

	var loadErr error
	s.LoadImage(context.Background(), "nope", func(err error) { loadErr = err })
	if !errors.Is(loadErr, errMissing) {
		t.Fatalf("expected loader error, got %v", loadErr)
	}
	if _, n := s.HistoryInfo(); n != 2 {
		t.Fatalf("history changed: %d", n)
	}
	if s.CurrentRaster() != before {
		t.Fatal("raster replaced after failed load")
	}
}

func TestLoadLatestWins(t *testing.T) {
	loader := &heldLoader{}
	s, err := New(8, 8, loader, &StaticControls{}, WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	var first, second error
	s.LoadImage(context.Background(), "a", func(err error) { first = err })
	s.LoadImage(context.Background(), "b", func(err error) { second = err })
	loader.pending[1]()
	loader.pending[0]()
	if second != nil {
		t.Fatalf("latest load failed: %v", second)
	}
	if !errors.Is(first, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", first)
	}
	if s.ImageKey() != "b" {
		t.Fatalf("key %q", s.ImageKey())
	}
}

func TestClearRestoresBackground(t *testing.T) {
	s := newTestSurface(t, 8, 8, &StaticControls{Color: red, Width: 2})
	s.LoadImage(context.Background(), "page", nil)
	bg := s.CurrentRaster()
	if _, err := s.FillAt(1, 1); err != nil {
		t.Fatal(err)
	}
	s.ZoomBy(0.5)
	s.Clear()
	if cur, n := s.HistoryInfo(); cur != 0 || n != 1 {
		t.Fatalf("history %d/%d after clear", cur, n)
	}
	if !s.CurrentRaster().Equal(bg) {
		t.Fatal("clear did not restore the loaded page")
	}
	if s.View().Zoom != 1.5 {
		t.Fatalf("clear changed the view: %+v", s.View())
	}
}

func TestUndoKeepsView(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{Color: red})
	if _, err := s.FillAt(1, 1); err != nil {
		t.Fatal(err)
	}
	s.ZoomBy(1)
	s.PanBy(3, 4)
	s.Undo()
	if v := s.View(); v.Zoom != 2 || v.PanX != 3 || v.PanY != 4 {
		t.Fatalf("undo changed the view: %+v", v)
	}
}

func TestZoomClampsToLimits(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{})
	s.ZoomBy(100)
	if z := s.View().Zoom; z != 4 {
		t.Fatalf("zoom %g", z)
	}
	s.ZoomBy(-100)
	if z := s.View().Zoom; z != 0.25 {
		t.Fatalf("zoom %g", z)
	}
	s.ResetView()
	s.ZoomIn()
	if z := s.View().Zoom; z != 1.25 {
		t.Fatalf("zoom %g", z)
	}
	s.ZoomOut()
	s.ZoomOut()
	if z := s.View().Zoom; z != 0.75 {
		t.Fatalf("zoom %g", z)
	}
}

func TestZoomAroundPointKeepsAnchor(t *testing.T) {
	s := newTestSurface(t, 100, 100, &StaticControls{})
	sx, sy := view.CanvasToScreen(50, 50, s.View(), s.Scale())
	if err := s.ZoomAroundPoint(sx, sy, 0.5); err != nil {
		t.Fatal(err)
	}
	v := s.View()
	if v.Zoom != 1.5 {
		t.Fatalf("zoom %g", v.Zoom)
	}
	ax, ay := view.CanvasToScreen(50, 50, v, s.Scale())
	if math.Abs(ax-sx) > 1e-6 || math.Abs(ay-sy) > 1e-6 {
		t.Fatalf("anchor moved from (%g,%g) to (%g,%g)", sx, sy, ax, ay)
	}
}

func TestPanDividesByScale(t *testing.T) {
	s := newTestSurface(t, 10, 10, &StaticControls{})
	if err := s.SetScale(view.Scale{X: 2, Y: 2}); err != nil {
		t.Fatal(err)
	}
	s.PanBy(10, 4)
	if v := s.View(); v.PanX != 5 || v.PanY != 2 {
		t.Fatalf("pan %+v", v)
	}
	if err := s.SetScale(view.Scale{}); err == nil {
		t.Fatal("zero scale accepted")
	}
}

func TestHandleRoutesGestures(t *testing.T) {
	redraws := 0
	s := newTestSurface(t, 20, 20, &StaticControls{Color: blue, Width: 2}, WithRedraw(func() { redraws++ }))

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.Handle(Event{Kind: EventStart, X: 5, Y: 5, Modifiers: ModAlt}))
	if s.Mode() != ModePanning {
		t.Fatalf("alt drag mode %s", s.Mode())
	}
	must(s.Handle(Event{Kind: EventMove, X: 8, Y: 7}))
	must(s.Handle(Event{Kind: EventEnd}))
	if v := s.View(); v.PanX != 3 || v.PanY != 2 {
		t.Fatalf("pan %+v", v)
	}
	s.ResetView()

	must(s.Handle(Event{Kind: EventStart, X: 2, Y: 2, Tool: ToolBrush}))
	must(s.Handle(Event{Kind: EventMove, X: 12, Y: 2, Tool: ToolBrush}))
	must(s.Handle(Event{Kind: EventCancel}))
	if _, n := s.HistoryInfo(); n != 2 {
		t.Fatalf("history %d after cancelled stroke", n)
	}

	must(s.Handle(Event{Kind: EventStart, X: 15, Y: 15, Tool: ToolFill}))
	if _, n := s.HistoryInfo(); n != 3 {
		t.Fatalf("history %d after fill", n)
	}
	if s.Mode() != ModeIdle {
		t.Fatalf("fill left mode %s", s.Mode())
	}

	must(s.Handle(Event{Kind: EventStart, X: 5, Y: 5, Button: ButtonMiddle, Tool: ToolFill}))
	if s.Mode() != ModePanning {
		t.Fatalf("middle button mode %s", s.Mode())
	}
	must(s.Handle(Event{Kind: EventCancel}))
	if redraws == 0 {
		t.Fatal("redraw never called")
	}
}

func TestHistorySizeBoundsSurface(t *testing.T) {
	ctl := &StaticControls{Color: red}
	s := newTestSurface(t, 4, 4, ctl, WithHistorySize(3))
	for i := 0; i < 5; i++ {
		if i%2 == 0 {
			ctl.Color = red
		} else {
			ctl.Color = blue
		}
		if n, err := s.FillAt(1, 1); err != nil || n != 16 {
			t.Fatalf("fill %d: %d %v", i, n, err)
		}
	}
	if cur, n := s.HistoryInfo(); n != 3 || cur != 2 {
		t.Fatalf("history %d/%d", cur, n)
	}
}

func TestRenderShowsLiveStroke(t *testing.T) {
	s := newTestSurface(t, 20, 20, &StaticControls{Color: black, Width: 3})
	if err := s.StartStroke(2.5, 10.5, ToolBrush); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(17.5, 10.5); err != nil {
		t.Fatal(err)
	}
	var live color.Color
	s.Render(func(src image.Image, v view.State) { live = src.At(10, 10) })
	if _, _, _, a := live.RGBA(); a == 0 {
		t.Fatal("no pixel rendered")
	}
	if r, _, _, _ := live.RGBA(); r != 0 {
		t.Fatalf("live stroke missing, got %v", live)
	}
	if s.CurrentRaster().At(10, 10) != white {
		t.Fatal("current raster includes unfinished stroke")
	}
	s.EndStroke()
}
