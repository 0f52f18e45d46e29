package appstate

import (
	"image"

	"github.com/example/colorbook/internal/view"
)

// layout splits the window into the tab bar, toolbar, status bar and the
// canvas area.
type layout struct {
	width, height int
}

func (l layout) canvas() image.Rectangle {
	return image.Rect(toolbarWidth, tabHeight, l.width, l.height-bottomHeight)
}

func (l layout) status() image.Rectangle {
	return image.Rect(0, l.height-bottomHeight, l.width, l.height)
}

// canvasScale fits a rw x rh raster into the canvas area, preserving the
// aspect ratio and centring it.
func (l layout) canvasScale(rw, rh int) (view.Scale, error) {
	area := l.canvas()
	aw, ah := float64(area.Dx()), float64(area.Dy())
	if rw <= 0 || rh <= 0 || aw <= 0 || ah <= 0 {
		return view.ScaleFor(0, 0, aw, ah, rw, rh)
	}
	k := aw / float64(rw)
	if ky := ah / float64(rh); ky < k {
		k = ky
	}
	dw, dh := float64(rw)*k, float64(rh)*k
	ox := float64(area.Min.X) + (aw-dw)/2
	oy := float64(area.Min.Y) + (ah-dh)/2
	return view.ScaleFor(ox, oy, dw, dh, rw, rh)
}

func toolRects(n int) []image.Rectangle {
	out := make([]image.Rectangle, n)
	y := tabHeight
	for i := range out {
		out[i] = image.Rect(0, y, toolbarWidth, y+buttonHeight)
		y += buttonHeight
	}
	return out
}

func swatchTop(nTools int) int { return tabHeight + nTools*buttonHeight + 4 }

func swatchRects(nTools, n int) []image.Rectangle {
	out := make([]image.Rectangle, n)
	x, y := 4, swatchTop(nTools)
	for i := range out {
		out[i] = image.Rect(x, y, x+swatchSize, y+swatchSize)
		x += swatchStep
		if x+swatchSize > toolbarWidth {
			x = 4
			y += swatchStep
		}
	}
	return out
}

func widthRects(nTools, nColors, n int) []image.Rectangle {
	y := swatchTop(nTools)
	if nColors > 0 {
		sw := swatchRects(nTools, nColors)
		y = sw[len(sw)-1].Max.Y + 6
	}
	out := make([]image.Rectangle, n)
	for i := range out {
		out[i] = image.Rect(0, y, toolbarWidth, y+widthRowH)
		y += widthRowH
	}
	return out
}

func tabRects(labels []string) []image.Rectangle {
	out := make([]image.Rectangle, len(labels))
	x := toolbarWidth
	for i, lbl := range labels {
		w := 7*len(lbl) + 16
		if w < 64 {
			w = 64
		}
		out[i] = image.Rect(x, 0, x+w, tabHeight)
		x += w
	}
	return out
}

type hitKind int

const (
	hitNone hitKind = iota
	hitTab
	hitTool
	hitSwatch
	hitWidth
	hitStatus
	hitCanvas
)

type hit struct {
	kind hitKind
	idx  int
}

// chrome is the set of clickable rectangles of the current frame.
type chrome struct {
	tabs   []image.Rectangle
	tools  []image.Rectangle
	swatch []image.Rectangle
	widths []image.Rectangle
	status []image.Rectangle
	layout layout
}

func newChrome(l layout, tabLabels []string, nTools, nColors, nWidths int) chrome {
	return chrome{
		tabs:   tabRects(tabLabels),
		tools:  toolRects(nTools),
		swatch: swatchRects(nTools, nColors),
		widths: widthRects(nTools, nColors, nWidths),
		layout: l,
	}
}

func indexOf(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}

func (c chrome) hitTest(p image.Point) hit {
	switch {
	case p.Y < tabHeight:
		if i := indexOf(c.tabs, p); i >= 0 {
			return hit{hitTab, i}
		}
		return hit{kind: hitNone}
	case p.Y >= c.layout.height-bottomHeight:
		if i := indexOf(c.status, p); i >= 0 {
			return hit{hitStatus, i}
		}
		return hit{kind: hitNone}
	case p.X < toolbarWidth:
		if i := indexOf(c.tools, p); i >= 0 {
			return hit{hitTool, i}
		}
		if i := indexOf(c.swatch, p); i >= 0 {
			return hit{hitSwatch, i}
		}
		if i := indexOf(c.widths, p); i >= 0 {
			return hit{hitWidth, i}
		}
		return hit{kind: hitNone}
	}
	return hit{kind: hitCanvas}
}
