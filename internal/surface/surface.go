// Package surface is the drawing surface a coloring page is painted on. It
// owns the live raster, the view and the undo history, and turns pointer
// gestures into strokes, fills and view changes.
package surface

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/example/colorbook/internal/fill"
	"github.com/example/colorbook/internal/history"
	"github.com/example/colorbook/internal/raster"
	"github.com/example/colorbook/internal/view"
)

var (
	// ErrInvalidCoordinate reports a point that is not finite or falls
	// outside the raster. The operation is ignored.
	ErrInvalidCoordinate = errors.New("surface: invalid coordinate")
	// ErrBusy reports a gesture that cannot start while another is active.
	ErrBusy = errors.New("surface: another gesture is in progress")
	// ErrSuperseded is passed to a load callback when a newer load started
	// before this one finished.
	ErrSuperseded = errors.New("surface: image load superseded")
)

// ImageLoader decodes line art asynchronously. onReady must be called
// exactly once.
type ImageLoader interface {
	RequestImage(ctx context.Context, key string, onReady func(image.Image, error))
}

// Controls supplies the tool settings chosen in the UI. They are read at
// the moment each stroke segment or fill is applied.
type Controls interface {
	CurrentColor() color.NRGBA
	BrushWidth() float64
}

// StaticControls is a fixed colour and width.
type StaticControls struct {
	Color color.NRGBA
	Width float64
}

func (c *StaticControls) CurrentColor() color.NRGBA { return c.Color }

func (c *StaticControls) BrushWidth() float64 { return c.Width }

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sends diagnostics to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Surface) { s.logger = l }
}

// WithHistorySize caps the number of undo snapshots.
func WithHistorySize(n int) Option {
	return func(s *Surface) { s.historySize = n }
}

// WithFillOptions sets tolerance and connectivity for the fill tool.
func WithFillOptions(o fill.Options) Option {
	return func(s *Surface) { s.fillOpts = o }
}

// WithLimits sets the zoom range and steps.
func WithLimits(l view.Limits) Option {
	return func(s *Surface) { s.limits = l }
}

// WithRedraw registers fn to be called after every visible change. fn runs
// without the surface lock held and may call back into the surface.
func WithRedraw(fn func()) Option {
	return func(s *Surface) { s.redraw = fn }
}

// WithPageColor sets the colour line art is composited onto.
func WithPageColor(c color.NRGBA) Option {
	return func(s *Surface) { s.page = c }
}

// Surface is safe for use from multiple goroutines. Image loads complete on
// the loader's goroutine.
type Surface struct {
	width, height int
	loader        ImageLoader
	controls      Controls
	logger        *log.Logger
	historySize   int
	fillOpts      fill.Options
	limits        view.Limits
	page          color.NRGBA
	redraw        func()

	mu         sync.Mutex
	hist       *history.Store
	view       view.State
	scale      view.Scale
	background *raster.Buffer
	mode       Mode
	stroke     *stroke
	panX       float64
	panY       float64
	loadSeq    uint64
}

// New creates a surface of w x h device pixels showing a blank page. The
// blank page is the first history entry.
func New(w, h int, loader ImageLoader, controls Controls, opts ...Option) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("surface: invalid size %dx%d", w, h)
	}
	if controls == nil {
		return nil, fmt.Errorf("surface: controls are required")
	}
	s := &Surface{
		width:       w,
		height:      h,
		loader:      loader,
		controls:    controls,
		logger:      log.Default(),
		historySize: history.DefaultMaxSize,
		fillOpts:    fill.DefaultOptions(),
		limits:      view.DefaultLimits(),
		page:        color.NRGBA{0xff, 0xff, 0xff, 0xff},
		scale:       view.Unit(),
	}
	for _, o := range opts {
		o(s)
	}
	if err := s.limits.Validate(); err != nil {
		return nil, err
	}
	s.hist = history.New(s.historySize)
	s.background = composePage(nil, w, h, s.page)
	s.view = view.Identity("")
	s.hist.Push(history.NewEntry(s.background, s.view, history.CauseLoad))
	return s, nil
}

func (s *Surface) changed(ok bool) {
	if ok && s.redraw != nil {
		s.redraw()
	}
}

// Width returns the raster width in device pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the raster height in device pixels.
func (s *Surface) Height() int { return s.height }

// Mode reports the current interaction state.
func (s *Surface) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// View returns the current zoom and pan.
func (s *Surface) View() view.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Scale returns the screen placement used for coordinate conversion.
func (s *Surface) Scale() view.Scale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// SetScale updates where the raster sits on screen. Invalid scales are
// rejected so coordinate conversion never divides by zero.
func (s *Surface) SetScale(sc view.Scale) error {
	if !sc.Valid() {
		return fmt.Errorf("surface: invalid scale %+v", sc)
	}
	s.mu.Lock()
	s.scale = sc
	s.mu.Unlock()
	return nil
}

// CurrentRaster returns the raster of the current history entry. Strokes in
// progress are not included.
func (s *Surface) CurrentRaster() *raster.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, _ := s.hist.Current()
	return e.Buffer
}

// Render calls fn with the image to display and the view to display it
// under. During a stroke the image includes the partial stroke. fn runs
// with the surface locked and must not retain src or call the surface.
func (s *Surface) Render(fn func(src image.Image, v view.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stroke != nil {
		fn(s.stroke.img, s.view)
		return
	}
	e, _ := s.hist.Current()
	fn(e.Buffer.Image(), s.view)
}

// HistoryInfo reports the cursor position and number of stored entries.
func (s *Surface) HistoryInfo() (cursor, length int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Cursor(), s.hist.Len()
}

func (s *Surface) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

func (s *Surface) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// toCanvas converts a screen point and rejects points that are not finite
// or fall outside the raster.
func (s *Surface) toCanvas(sx, sy float64) (float64, float64, error) {
	if !finite(sx) || !finite(sy) {
		return 0, 0, fmt.Errorf("%w: (%g,%g)", ErrInvalidCoordinate, sx, sy)
	}
	cx, cy := view.ScreenToCanvas(sx, sy, s.view, s.scale)
	if !finite(cx) || !finite(cy) || cx < 0 || cy < 0 || cx >= float64(s.width) || cy >= float64(s.height) {
		return 0, 0, fmt.Errorf("%w: screen (%g,%g) maps to canvas (%g,%g)", ErrInvalidCoordinate, sx, sy, cx, cy)
	}
	return cx, cy, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (s *Surface) reject(op string, err error) error {
	s.logger.Printf("%s: %v", op, err)
	return err
}

func (s *Surface) push(buf *raster.Buffer, cause history.Cause) {
	e := history.NewEntry(buf, s.view, cause)
	s.hist.Push(e)
	s.logger.Printf("history: %s %s (%d/%d)", cause, e.ID, s.hist.Cursor()+1, s.hist.Len())
}

// LoadImage replaces the line art. The call returns immediately; once the
// loader answers, the history is cleared, the view reset and the composited
// page pushed as the first entry. On failure the surface is left untouched.
// done, when non-nil, receives the outcome after the surface is updated.
func (s *Surface) LoadImage(ctx context.Context, key string, done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	if s.loader == nil {
		done(fmt.Errorf("load %s: no image loader", key))
		return
	}
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	s.loader.RequestImage(ctx, key, func(img image.Image, err error) {
		err = s.finishLoad(seq, key, img, err)
		done(err)
	})
}

func (s *Surface) finishLoad(seq uint64, key string, img image.Image, err error) error {
	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		return fmt.Errorf("load %s: %w", key, ErrSuperseded)
	}
	if err == nil && img == nil {
		err = errors.New("loader returned no image")
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Printf("load %s: %v", key, err)
		return fmt.Errorf("load %s: %w", key, err)
	}
	if s.stroke != nil {
		s.logger.Printf("load %s: discarding stroke in progress", key)
		s.stroke = nil
	}
	s.mode = ModeIdle
	s.background = composePage(img, s.width, s.height, s.page)
	s.view = view.Identity(key)
	s.hist.Clear()
	s.push(s.background, history.CauseLoad)
	s.mu.Unlock()
	s.changed(true)
	return nil
}

// StartStroke begins a brush or eraser stroke at a screen point. A stroke
// still in progress is ended first.
func (s *Surface) StartStroke(sx, sy float64, tool Tool) error {
	if tool != ToolBrush && tool != ToolEraser {
		return fmt.Errorf("surface: %s cannot stroke", tool)
	}
	s.mu.Lock()
	if s.mode == ModePanning {
		s.mu.Unlock()
		return ErrBusy
	}
	committed := s.endStrokeLocked()
	cx, cy, err := s.toCanvas(sx, sy)
	if err != nil {
		s.mu.Unlock()
		s.changed(committed)
		return s.reject("start stroke", err)
	}
	e, _ := s.hist.Current()
	s.stroke = &stroke{tool: tool, img: e.Buffer.Mutable(), lastX: cx, lastY: cy}
	s.mode = ModeStroking
	s.mu.Unlock()
	s.changed(committed)
	return nil
}

// Draw extends the stroke to a screen point. It does nothing when no stroke
// is in progress.
func (s *Surface) Draw(sx, sy float64) error {
	s.mu.Lock()
	st := s.stroke
	if st == nil {
		s.mu.Unlock()
		return nil
	}
	cx, cy, err := s.toCanvas(sx, sy)
	if err != nil {
		s.mu.Unlock()
		return s.reject("draw", err)
	}
	mask, ok := capsuleMask(vec{st.lastX, st.lastY}, vec{cx, cy}, s.controls.BrushWidth(), st.img.Rect)
	if ok {
		if st.tool == ToolEraser {
			eraseMask(st.img, mask)
		} else {
			paintMask(st.img, mask, s.controls.CurrentColor())
		}
		st.segments++
		st.lastX, st.lastY = cx, cy
	}
	s.mu.Unlock()
	s.changed(ok)
	return nil
}

// EndStroke finishes the stroke. A stroke with at least one segment becomes
// a history entry; a zero-length stroke leaves no trace.
func (s *Surface) EndStroke() {
	s.mu.Lock()
	ok := s.endStrokeLocked()
	s.mu.Unlock()
	s.changed(ok)
}

// CancelStroke aborts the gesture. Segments already drawn are kept and
// recorded exactly as EndStroke would.
func (s *Surface) CancelStroke() {
	s.mu.Lock()
	if s.stroke != nil {
		s.logger.Printf("stroke cancelled after %d segments", s.stroke.segments)
	}
	ok := s.endStrokeLocked()
	s.mu.Unlock()
	s.changed(ok)
}

// endStrokeLocked reports whether anything visible changed.
func (s *Surface) endStrokeLocked() bool {
	st := s.stroke
	if st == nil {
		return false
	}
	s.stroke = nil
	s.mode = ModeIdle
	if st.segments == 0 {
		return false
	}
	s.push(raster.Freeze(st.img), history.CauseStroke)
	return true
}

// FillAt flood fills the region under a screen point with the current
// colour. The fill reads the current history raster. It returns the number
// of pixels changed; zero means no history entry was added.
func (s *Surface) FillAt(sx, sy float64) (int, error) {
	s.mu.Lock()
	if s.mode != ModeIdle {
		s.mu.Unlock()
		return 0, ErrBusy
	}
	cx, cy, err := s.toCanvas(sx, sy)
	if err != nil {
		s.mu.Unlock()
		return 0, s.reject("fill", err)
	}
	e, _ := s.hist.Current()
	res, err := fill.Fill(e.Buffer, int(math.Floor(cx)), int(math.Floor(cy)), s.controls.CurrentColor(), s.fillOpts)
	if err != nil {
		s.mu.Unlock()
		return 0, s.reject("fill", fmt.Errorf("%w: %w", ErrInvalidCoordinate, err))
	}
	if res.Changed > 0 {
		s.push(res.Buffer, history.CauseFill)
	}
	s.mu.Unlock()
	s.changed(res.Changed > 0)
	return res.Changed, nil
}

// Undo steps back one entry. The view is left as it is. A stroke in
// progress is committed first so it is the step being undone.
func (s *Surface) Undo() bool {
	s.mu.Lock()
	committed := s.endStrokeLocked()
	_, ok := s.hist.Undo()
	s.mu.Unlock()
	s.changed(ok || committed)
	return ok
}

// Redo steps forward one entry.
func (s *Surface) Redo() bool {
	s.mu.Lock()
	if s.stroke != nil {
		s.mu.Unlock()
		return false
	}
	_, ok := s.hist.Redo()
	s.mu.Unlock()
	s.changed(ok)
	return ok
}

// Clear returns to the freshly loaded page and starts a new history. The
// view is kept.
func (s *Surface) Clear() {
	s.mu.Lock()
	s.stroke = nil
	if s.mode == ModeStroking {
		s.mode = ModeIdle
	}
	s.hist.Clear()
	s.push(s.background, history.CauseClear)
	s.mu.Unlock()
	s.changed(true)
}

// ZoomBy changes the zoom by a signed step, clamped to the limits. Pan is
// unchanged so the zoom is anchored at the raster origin.
func (s *Surface) ZoomBy(step float64) {
	s.mu.Lock()
	z := s.limits.StepZoom(s.view.Zoom, step)
	ok := z != s.view.Zoom
	s.view.Zoom = z
	s.mu.Unlock()
	s.changed(ok)
}

// ZoomIn applies one keyboard step.
func (s *Surface) ZoomIn() { s.ZoomBy(s.limits.Step) }

// ZoomOut applies one negative keyboard step.
func (s *Surface) ZoomOut() { s.ZoomBy(-s.limits.Step) }

// WheelStep is the fine step used for scroll wheels.
func (s *Surface) WheelStep() float64 { return s.limits.WheelStep }

// ZoomAroundPoint zooms by step keeping the canvas point under the screen
// point in place.
func (s *Surface) ZoomAroundPoint(sx, sy, step float64) error {
	if !finite(sx) || !finite(sy) {
		return s.reject("zoom", fmt.Errorf("%w: (%g,%g)", ErrInvalidCoordinate, sx, sy))
	}
	s.mu.Lock()
	old := s.view.Zoom
	z := s.limits.StepZoom(old, step)
	ok := z != old
	if ok {
		s.view.PanX, s.view.PanY = view.AdjustPanForZoomAroundPoint(sx, sy, old, z, s.view, s.scale)
		s.view.Zoom = z
	}
	s.mu.Unlock()
	s.changed(ok)
	return nil
}

// PanBy moves the view by a screen-space delta.
func (s *Surface) PanBy(dx, dy float64) {
	if !finite(dx) || !finite(dy) {
		return
	}
	s.mu.Lock()
	s.panByLocked(dx, dy)
	s.mu.Unlock()
	s.changed(dx != 0 || dy != 0)
}

func (s *Surface) panByLocked(dx, dy float64) {
	s.view.PanX += dx / s.scale.X
	s.view.PanY += dy / s.scale.Y
}

// StartPan begins a drag that pans the view.
func (s *Surface) StartPan(sx, sy float64) error {
	if !finite(sx) || !finite(sy) {
		return s.reject("pan", fmt.Errorf("%w: (%g,%g)", ErrInvalidCoordinate, sx, sy))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeIdle {
		return ErrBusy
	}
	s.mode = ModePanning
	s.panX, s.panY = sx, sy
	return nil
}

// PanTo continues a pan drag to a screen point.
func (s *Surface) PanTo(sx, sy float64) {
	if !finite(sx) || !finite(sy) {
		return
	}
	s.mu.Lock()
	if s.mode != ModePanning {
		s.mu.Unlock()
		return
	}
	dx, dy := sx-s.panX, sy-s.panY
	s.panX, s.panY = sx, sy
	s.panByLocked(dx, dy)
	s.mu.Unlock()
	s.changed(dx != 0 || dy != 0)
}

// EndPan finishes a pan drag.
func (s *Surface) EndPan() {
	s.mu.Lock()
	if s.mode == ModePanning {
		s.mode = ModeIdle
	}
	s.mu.Unlock()
}

// ResetView restores 100% zoom with no pan.
func (s *Surface) ResetView() {
	s.mu.Lock()
	s.view = view.Identity(s.view.ImageKey)
	s.mu.Unlock()
	s.changed(true)
}

// ImageKey returns the key of the loaded line art, or "" for a blank page.
func (s *Surface) ImageKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.ImageKey
}
