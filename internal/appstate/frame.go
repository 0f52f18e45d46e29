package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/colorbook/internal/render"
	"github.com/example/colorbook/internal/surface"
	"github.com/example/colorbook/internal/view"
)

type paintState struct {
	width, height int
	surface       *surface.Surface
	title         string
	tabs          []string
	currentTab    int
	tool          surface.Tool
	colors        []color.NRGBA
	colorIdx      int
	widths        []float64
	widthIdx      int
	status        []statusLabel
	canUndo       bool
	canRedo       bool
	hover         hit
	message       string
	messageUntil  time.Time
}

var toolOrder = []surface.Tool{surface.ToolBrush, surface.ToolEraser, surface.ToolFill}

func toolLabel(t surface.Tool) string {
	switch t {
	case surface.ToolBrush:
		return "B:Brush"
	case surface.ToolEraser:
		return "E:Erase"
	case surface.ToolFill:
		return "F:Fill"
	}
	return t.String()
}

// painter owns the caches reused across frames. It is only touched by the
// paint goroutine.
type painter struct {
	backdrop render.Backdrop
	shadow   *render.Shadow
	tools    []*CacheButton
}

func newPainter() *painter {
	p := &painter{shadow: render.NewShadow(render.DefaultShadowOptions())}
	for _, t := range toolOrder {
		p.tools = append(p.tools, &CacheButton{Button: &ToolButton{
			labelButton: labelButton{label: toolLabel(t)},
			tool:        t,
		}})
	}
	return p
}

func (p *painter) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	l := layout{width: st.width, height: st.height}

	canvas := l.canvas()
	p.backdrop.Draw(dst, canvas)
	if ctx.Err() != nil {
		return
	}

	sc := st.surface.Scale()
	rw, rh := st.surface.Width(), st.surface.Height()
	st.surface.Render(func(src image.Image, v view.State) {
		p.shadow.Draw(dst, render.CanvasRect(rw, rh, v, sc))
		render.View(dst, canvas, src, v, sc)
	})
	if ctx.Err() != nil {
		return
	}

	drawTabs(dst, st)
	p.drawToolbar(dst, st)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st.width, st.height, st.message)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawTabs(dst *image.RGBA, st paintState) {
	draw.Draw(dst, image.Rect(0, 0, st.width, tabHeight), &image.Uniform{barColor}, image.Point{}, draw.Src)
	title := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13, Dot: fixed.P(4, 16)}
	title.DrawString(st.title)
	for i, r := range tabRects(st.tabs) {
		tb := TabButton{labelButton: labelButton{label: st.tabs[i], rect: r}}
		state := StateDefault
		if i == st.currentTab {
			state = StatePressed
		} else if st.hover.kind == hitTab && st.hover.idx == i {
			state = StateHover
		}
		tb.Draw(dst, state)
	}
}

func (p *painter) drawToolbar(dst *image.RGBA, st paintState) {
	draw.Draw(dst, image.Rect(0, tabHeight, toolbarWidth, st.height-bottomHeight), &image.Uniform{barColor}, image.Point{}, draw.Src)
	for i, r := range toolRects(len(p.tools)) {
		cb := p.tools[i]
		cb.SetRect(r)
		state := StateDefault
		if cb.Button.(*ToolButton).tool == st.tool {
			state = StatePressed
		} else if st.hover.kind == hitTool && st.hover.idx == i {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
	for i, r := range swatchRects(len(p.tools), len(st.colors)) {
		hover := st.hover.kind == hitSwatch && st.hover.idx == i
		swatch{col: st.colors[i], rect: r}.draw(dst, i == st.colorIdx, hover)
	}
	col := color.NRGBA{A: 255}
	if st.colorIdx >= 0 && st.colorIdx < len(st.colors) {
		col = st.colors[st.colorIdx]
	}
	for i, r := range widthRects(len(p.tools), len(st.colors), len(st.widths)) {
		state := StateDefault
		if i == st.widthIdx {
			state = StatePressed
		} else if st.hover.kind == hitWidth && st.hover.idx == i {
			state = StateHover
		}
		draw.Draw(dst, r, &image.Uniform{state.fill()}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13, Dot: fixed.P(4, r.Min.Y+12)}
		d.DrawString(fmt.Sprintf("%g", st.widths[i]))
		bar := min(int(st.widths[i]/4)+1, widthRowH-4)
		cy := r.Min.Y + widthRowH/2
		line := image.Rect(30, cy-bar/2, toolbarWidth-4, cy-bar/2+bar)
		draw.Draw(dst, line, &image.Uniform{col}, image.Point{}, draw.Src)
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	draw.Draw(dst, image.Rect(0, st.height-bottomHeight, st.width, st.height), &image.Uniform{barColor}, image.Point{}, draw.Src)
	for i, r := range statusRects(st.status, st.height) {
		sc := Shortcut{labelButton: labelButton{label: st.status[i].label, rect: r}}
		state := StateDefault
		switch {
		case st.status[i].action == actUndo && !st.canUndo,
			st.status[i].action == actRedo && !st.canRedo:
			state = StatePressed
		case st.hover.kind == hitStatus && st.hover.idx == i:
			state = StateHover
		}
		sc.Draw(dst, state)
	}
}

func drawMessage(dst *image.RGBA, width, height int, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	drawRect(dst, rect, color.Black)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
