package appstate

import (
	"image/color"
	"sort"
	"sync"

	"github.com/example/colorbook/internal/palette"
)

// DefaultWidths are the brush sizes offered in the toolbar, in logical
// pixels.
var DefaultWidths = []float64{2, 5, 10, 20, 40}

// Controls is the live tool state shared between the window and the
// surface. Widths are logical; BrushWidth reports device pixels.
type Controls struct {
	mu       sync.Mutex
	palette  *palette.Palette
	widths   []float64
	widthIdx int
	scale    float64
}

// NewControls returns controls over pal with width selected. width is
// added to the width list when it is not one of the defaults.
func NewControls(pal *palette.Palette, width, deviceScale float64) *Controls {
	if pal == nil {
		pal = palette.New()
	}
	if deviceScale <= 0 {
		deviceScale = 1
	}
	c := &Controls{palette: pal, scale: deviceScale}
	c.widths = append([]float64(nil), DefaultWidths...)
	c.widthIdx = c.ensureWidth(width)
	return c
}

// CurrentColor implements surface.Controls.
func (c *Controls) CurrentColor() color.NRGBA {
	return c.palette.CurrentColor()
}

// BrushWidth implements surface.Controls.
func (c *Controls) BrushWidth() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.widths[c.widthIdx] * c.scale
}

// Palette exposes the palette backing the color swatches.
func (c *Controls) Palette() *palette.Palette { return c.palette }

// Widths returns a copy of the logical brush widths.
func (c *Controls) Widths() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.widths...)
}

// WidthIndex returns the selected width.
func (c *Controls) WidthIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.widthIdx
}

// SelectWidth selects the idx-th width, clamped to the list.
func (c *Controls) SelectWidth(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widthIdx = clamp(idx, 0, len(c.widths)-1)
}

// StepWidth moves the selection by delta and returns the logical width.
func (c *Controls) StepWidth(delta int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widthIdx = clamp(c.widthIdx+delta, 0, len(c.widths)-1)
	return c.widths[c.widthIdx]
}

// SetWidth selects width, adding it to the list if needed.
func (c *Controls) SetWidth(width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widthIdx = c.ensureWidth(width)
}

// SetCustomColors replaces the removable palette entries with cols and
// keeps the selection when the selected color survives.
func (c *Controls) SetCustomColors(cols []color.NRGBA) {
	current := c.palette.CurrentColor()
	for _, old := range c.palette.Custom() {
		c.palette.Remove(old)
	}
	for _, col := range cols {
		c.palette.Add(col)
	}
	for i, col := range c.palette.Colors() {
		if col == current {
			c.palette.Select(i)
			return
		}
	}
	c.palette.Select(0)
}

func (c *Controls) ensureWidth(width float64) int {
	if width <= 0 {
		width = DefaultWidths[1]
	}
	for i, w := range c.widths {
		if w == width {
			return i
		}
	}
	c.widths = append(c.widths, width)
	sort.Float64s(c.widths)
	for i, w := range c.widths {
		if w == width {
			return i
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
