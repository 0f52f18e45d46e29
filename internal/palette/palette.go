// Package palette manages the colour swatches offered to the user.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

// Defaults are always present and cannot be removed.
var Defaults = []color.NRGBA{
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0xff, 0x88, 0x00, 0xff},
	{0x88, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0x88, 0xff},
	{0xff, 0x00, 0x88, 0xff},
}

// Palette is an ordered list of colours with a current selection. It is
// safe for concurrent use.
type Palette struct {
	mu       sync.RWMutex
	colors   []color.NRGBA
	selected int
}

// New returns a palette holding the defaults followed by extra.
func New(extra ...color.NRGBA) *Palette {
	p := &Palette{colors: append([]color.NRGBA(nil), Defaults...)}
	for _, c := range extra {
		p.Add(c)
	}
	return p
}

// Colors returns a copy of every swatch in order.
func (p *Palette) Colors() []color.NRGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]color.NRGBA(nil), p.colors...)
}

// Custom returns the user-added swatches.
func (p *Palette) Custom() []color.NRGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]color.NRGBA(nil), p.colors[len(Defaults):]...)
}

// Len returns the number of swatches.
func (p *Palette) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.colors)
}

// Removable reports whether the swatch at idx was added by the user.
func (p *Palette) Removable(idx int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return idx >= len(Defaults) && idx < len(p.colors)
}

// Add appends c unless it is already present and returns its index.
func (p *Palette) Add(c color.NRGBA) int {
	c.A = 0xff
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.colors {
		if existing == c {
			return i
		}
	}
	p.colors = append(p.colors, c)
	return len(p.colors) - 1
}

// Remove deletes a user-added colour. Removing the selected colour selects
// the first swatch.
func (p *Palette) Remove(c color.NRGBA) bool {
	c.A = 0xff
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(Defaults); i < len(p.colors); i++ {
		if p.colors[i] != c {
			continue
		}
		p.colors = append(p.colors[:i], p.colors[i+1:]...)
		switch {
		case p.selected == i:
			p.selected = 0
		case p.selected > i:
			p.selected--
		}
		return true
	}
	return false
}

// Select makes the swatch at idx current. Out of range indexes are clamped.
func (p *Palette) Select(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.colors) {
		idx = len(p.colors) - 1
	}
	p.selected = idx
}

// SelectColor adds c if needed and makes it current.
func (p *Palette) SelectColor(c color.NRGBA) {
	p.Select(p.Add(c))
}

// Selected returns the index of the current swatch.
func (p *Palette) Selected() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

// CurrentColor returns the selected colour.
func (p *Palette) CurrentColor() color.NRGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.colors[p.selected]
}

// Blend mixes c1 and c2; ratio 0 yields c1 and 1 yields c2.
func Blend(c1, c2 color.NRGBA, ratio float64) color.NRGBA {
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-ratio) + float64(b)*ratio))
	}
	return color.NRGBA{mix(c1.R, c2.R), mix(c1.G, c2.G), mix(c1.B, c2.B), 0xff}
}

// Hex formats c as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Parse accepts #rgb, #rrggbb, #rrggbbaa or an SVG colour name.
func Parse(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return color.NRGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[v]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	if !strings.HasPrefix(v, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	hex := v[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		return color.NRGBA{uint8(val >> 16), uint8(val >> 8), uint8(val), 0xff}, nil
	}
	return color.NRGBA{uint8(val >> 24), uint8(val >> 16), uint8(val >> 8), uint8(val)}, nil
}
