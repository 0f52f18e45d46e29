// Package appstate implements the interactive coloring window.
package appstate

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/colorbook/internal/config"
	"github.com/example/colorbook/internal/notify"
	"github.com/example/colorbook/internal/surface"
	"github.com/example/colorbook/internal/theme"
)

// AppState holds the window configuration and the surface it drives.
type AppState struct {
	Surface  *surface.Surface
	Controls *Controls
	Loader   *theme.Loader
	Themes   []*theme.Theme
	Notifier *notify.Notifier
	SaveDir  string

	// ConfigPath is watched for palette and brush changes while the window
	// is open.
	ConfigPath string
	Title      string

	// Initial is the image key loaded when the window opens. When empty
	// the first theme is shown.
	Initial string

	tool     surface.Tool
	variants map[string]int
	now      func() time.Time

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithControls sets the shared tool state.
func WithControls(c *Controls) Option { return func(a *AppState) { a.Controls = c } }

// WithThemes sets the themes shown as tabs and the loader used for pasting.
func WithThemes(l *theme.Loader, themes []*theme.Theme) Option {
	return func(a *AppState) { a.Loader, a.Themes = l, themes }
}

// WithNotifier sets the desktop notifier for save, copy and print.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithSaveDir sets where saved pages and print files go.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithConfigWatch reloads settings when path changes.
func WithConfigWatch(path string) Option { return func(a *AppState) { a.ConfigPath = path } }

// WithInitialImage sets the line art shown when the window opens.
func WithInitialImage(key string) Option { return func(a *AppState) { a.Initial = key } }

// WithTool sets the initial tool.
func WithTool(t surface.Tool) Option { return func(a *AppState) { a.tool = t } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options. Surface must be set
// before Run.
func New(opts ...Option) *AppState {
	a := &AppState{
		Title:    "Colorbook",
		tool:     surface.ToolBrush,
		now:      time.Now,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Controls == nil {
		a.Controls = NewControls(nil, 0, 1)
	}
	return a
}

// NotifyImageChanged requests a repaint. It is safe to call from any
// goroutine and is suitable as a surface redraw callback.
func (a *AppState) NotifyImageChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

// Tool returns the selected tool.
func (a *AppState) Tool() surface.Tool { return a.tool }

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

type loadDoneEvent struct {
	err error
}

type configEvent struct {
	cfg *config.Config
}

func (a *AppState) Main(s screen.Screen) {
	if a.Surface == nil {
		log.Print("appstate: no surface")
		return
	}
	width := a.Surface.Width() + toolbarWidth
	height := a.Surface.Height() + tabHeight + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	ctx, cancelLoads := context.WithCancel(context.Background())
	defer cancelLoads()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	if a.ConfigPath != "" {
		watcher, err := config.Watch(a.ConfigPath, config.DefaultWatchDebounce,
			func(cfg *config.Config) { w.Send(configEvent{cfg}) },
			func(err error) { log.Printf("config watch: %v", err) })
		if err != nil {
			log.Printf("config watch: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	var message string
	var messageUntil time.Time
	var hover hit
	var dragging bool

	say := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(2 * time.Second)
		log.Print(msg)
	}
	report := func(msg string, err error) {
		if err != nil {
			log.Print(err)
			say(err.Error())
			return
		}
		say(msg)
	}
	loaded := func(err error) { w.Send(loadDoneEvent{err}) }

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	p := newPainter()
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			p.drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	tabLabels := make([]string, len(a.Themes))
	for i, t := range a.Themes {
		tabLabels[i] = t.Name
	}
	currentChrome := func() chrome {
		l := layout{width: width, height: height}
		c := newChrome(l, tabLabels, len(toolOrder), a.Controls.Palette().Len(), len(a.Controls.Widths()))
		c.status = statusRects(statusLabels(a.Surface.View().Zoom), height)
		return c
	}
	rescale := func() {
		sc, err := layout{width: width, height: height}.canvasScale(a.Surface.Width(), a.Surface.Height())
		if err != nil {
			log.Printf("layout: %v", err)
			return
		}
		if err := a.Surface.SetScale(sc); err != nil {
			log.Printf("layout: %v", err)
		}
	}
	rescale()

	keyboardAction := keyboardMap(defaultBindings())
	quit := false
	actions := map[string]func(){
		actUndo:      func() { a.Surface.Undo() },
		actRedo:      func() { a.Surface.Redo() },
		actZoomIn:    a.Surface.ZoomIn,
		actZoomOut:   a.Surface.ZoomOut,
		actResetView: a.Surface.ResetView,
		actClear:     a.Surface.Clear,
		actSave:      func() { report(a.save()) },
		actCopy:      func() { report(a.copyPage()) },
		actPrint:     func() { report(a.print()) },
		actPaste: func() {
			if err := a.paste(ctx, loaded); err != nil {
				report("", err)
			}
		},
		actBrush:     func() { a.tool = surface.ToolBrush },
		actEraser:    func() { a.tool = surface.ToolEraser },
		actFill:      func() { a.tool = surface.ToolFill },
		actWidthDown: func() { a.Controls.StepWidth(-1) },
		actWidthUp:   func() { a.Controls.StepWidth(1) },
		actCancel:    func() { _ = a.Surface.Handle(surface.Event{Kind: surface.EventCancel}) },
		actQuit:      func() { quit = true },
	}
	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	switch {
	case a.Initial != "":
		a.Surface.LoadImage(ctx, a.Initial, loaded)
	case len(a.Themes) > 0 && a.Surface.ImageKey() == "":
		a.selectTheme(ctx, 0, loaded)
	}

	for {
		if quit {
			stopPaint()
			return
		}
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && dragging {
				_ = a.Surface.Handle(surface.Event{Kind: surface.EventCancel})
				dragging = false
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			rescale()
			w.Send(paint.Event{})
		case loadDoneEvent:
			if e.err != nil && !errors.Is(e.err, surface.ErrSuperseded) && !errors.Is(e.err, context.Canceled) {
				report("", e.err)
			}
			w.Send(paint.Event{})
		case configEvent:
			a.applyConfig(e.cfg)
			say("settings reloaded")
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := a.snapshot(width, height, tabLabels, hover, message, messageUntil)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			pt := image.Pt(int(e.X), int(e.Y))
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			if e.Direction == mouse.DirStep {
				step := a.Surface.WheelStep()
				switch e.Button {
				case mouse.ButtonWheelUp:
				case mouse.ButtonWheelDown:
					step = -step
				default:
					continue
				}
				if err := a.Surface.ZoomAroundPoint(float64(e.X), float64(e.Y), step); err != nil {
					log.Printf("zoom: %v", err)
				}
				continue
			}
			if dragging {
				ev := surface.Event{X: float64(e.X), Y: float64(e.Y), Tool: a.tool}
				switch e.Direction {
				case mouse.DirNone:
					ev.Kind = surface.EventMove
				case mouse.DirRelease:
					ev.Kind = surface.EventEnd
					dragging = false
				default:
					continue
				}
				if err := a.Surface.Handle(ev); err != nil && !errors.Is(err, surface.ErrInvalidCoordinate) {
					log.Printf("pointer: %v", err)
				}
				continue
			}

			c := currentChrome()
			h := c.hitTest(pt)
			if e.Direction == mouse.DirNone {
				if h != hover {
					hover = h
					w.Send(paint.Event{})
				}
				continue
			}
			if e.Direction != mouse.DirPress {
				continue
			}
			switch h.kind {
			case hitTab:
				a.selectTheme(ctx, h.idx, loaded)
			case hitTool:
				a.tool = toolOrder[h.idx]
			case hitSwatch:
				a.Controls.Palette().Select(h.idx)
			case hitWidth:
				a.Controls.SelectWidth(h.idx)
			case hitStatus:
				handleShortcut(statusLabels(a.Surface.View().Zoom)[h.idx].action)
				continue
			case hitCanvas:
				if e.Button != mouse.ButtonLeft && e.Button != mouse.ButtonMiddle {
					continue
				}
				ev := surface.Event{
					Kind:      surface.EventStart,
					X:         float64(e.X),
					Y:         float64(e.Y),
					Tool:      a.tool,
					Modifiers: modifiers(e.Modifiers),
					Button:    button(e.Button),
				}
				if err := a.Surface.Handle(ev); err != nil {
					if !errors.Is(err, surface.ErrInvalidCoordinate) {
						log.Printf("pointer: %v", err)
					}
					continue
				}
				dragging = a.Surface.Mode() != surface.ModeIdle
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if action, ok := matchShortcut(keyboardAction, e); ok {
				handleShortcut(action)
			}
		}
	}
}

// snapshot captures what drawFrame needs so painting does not race with
// the event loop.
func (a *AppState) snapshot(width, height int, tabs []string, hover hit, message string, until time.Time) paintState {
	v := a.Surface.View()
	return paintState{
		width:        width,
		height:       height,
		surface:      a.Surface,
		title:        a.Title,
		tabs:         tabs,
		currentTab:   a.currentTab(),
		tool:         a.tool,
		colors:       a.Controls.Palette().Colors(),
		colorIdx:     a.Controls.Palette().Selected(),
		widths:       a.Controls.Widths(),
		widthIdx:     a.Controls.WidthIndex(),
		status:       statusLabels(v.Zoom),
		canUndo:      a.Surface.CanUndo(),
		canRedo:      a.Surface.CanRedo(),
		hover:        hover,
		message:      message,
		messageUntil: until,
	}
}

func modifiers(m key.Modifiers) surface.Modifiers {
	var out surface.Modifiers
	if m&key.ModShift != 0 {
		out |= surface.ModShift
	}
	if m&key.ModControl != 0 {
		out |= surface.ModCtrl
	}
	if m&key.ModAlt != 0 {
		out |= surface.ModAlt
	}
	return out
}

func button(b mouse.Button) surface.Button {
	switch b {
	case mouse.ButtonMiddle:
		return surface.ButtonMiddle
	case mouse.ButtonRight:
		return surface.ButtonRight
	}
	return surface.ButtonLeft
}
