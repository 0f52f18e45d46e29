// Package render composites a drawing surface onto a window buffer.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/colorbook/internal/view"
)

var (
	CheckerLight = color.RGBA{220, 220, 220, 255}
	CheckerDark  = color.RGBA{192, 192, 192, 255}
)

// Checkerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	if size <= 0 {
		size = 1
	}
	l := image.NewUniform(light)
	d := image.NewUniform(dark)
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y - rect.Min.Y%size; y < rect.Max.Y; y += size {
		for x := rect.Min.X - rect.Min.X%size; x < rect.Max.X; x += size {
			src := l
			if ((x/size)+(y/size))%2 != 0 {
				src = d
			}
			sq := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, sq, src, image.Point{}, draw.Src)
		}
	}
}

// Backdrop caches a checkerboard the size of the last target.
type Backdrop struct {
	Size  int
	cache *image.RGBA
}

// Draw copies the cached pattern into rect of dst.
func (b *Backdrop) Draw(dst *image.RGBA, rect image.Rectangle) {
	size := b.Size
	if size <= 0 {
		size = 8
	}
	bounds := dst.Bounds()
	if b.cache == nil || b.cache.Bounds() != bounds {
		b.cache = image.NewRGBA(bounds)
		Checkerboard(b.cache, bounds, size, CheckerLight, CheckerDark)
	}
	draw.Draw(dst, rect, b.cache, rect.Min, draw.Src)
}

// CanvasRect returns the screen rectangle covered by a w x h raster under
// the view state v and the display scale s.
func CanvasRect(w, h int, v view.State, s view.Scale) image.Rectangle {
	x0, y0 := view.CanvasToScreen(0, 0, v, s)
	x1, y1 := view.CanvasToScreen(float64(w), float64(h), v, s)
	return image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	)
}

// Transform returns the affine map from raster to screen coordinates.
func Transform(v view.State, s view.Scale) f64.Aff3 {
	return f64.Aff3{
		s.X * v.Zoom, 0, s.X*v.PanX + s.OriginX,
		0, s.Y * v.Zoom, s.Y*v.PanY + s.OriginY,
	}
}

// View draws src into clip of dst under v and s. Magnified pixels stay
// crisp; minified rasters are filtered.
func View(dst *image.RGBA, clip image.Rectangle, src image.Image, v view.State, s view.Scale) {
	if src == nil || !s.Valid() || v.Zoom <= 0 {
		return
	}
	clip = clip.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	sub, ok := dst.SubImage(clip).(*image.RGBA)
	if !ok {
		return
	}
	var interp xdraw.Interpolator = xdraw.NearestNeighbor
	if s.X*v.Zoom < 1 || s.Y*v.Zoom < 1 {
		interp = xdraw.ApproxBiLinear
	}
	interp.Transform(sub, Transform(v, s), src, src.Bounds(), xdraw.Over, nil)
}
