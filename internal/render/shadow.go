package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow drawn beneath the page.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow that reads well on the
// checkerboard backdrop.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(3, 4),
		Opacity: 0.35,
	}
}

// Shadow draws a blurred rectangle shadow and keeps the blurred mask for
// the last page size, so repeated frames at the same zoom are cheap.
type Shadow struct {
	Options ShadowOptions

	size image.Point
	mask *image.Gray
}

// NewShadow returns a Shadow using opts.
func NewShadow(opts ShadowOptions) *Shadow {
	return &Shadow{Options: opts}
}

// Draw paints the shadow of page onto dst. The page itself is not drawn.
func (s *Shadow) Draw(dst *image.RGBA, page image.Rectangle) {
	if dst == nil || page.Empty() || s.Options.Opacity <= 0 {
		return
	}
	opacity := s.Options.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := s.Options.Radius
	if radius < 0 {
		radius = 0
	}
	if s.mask == nil || s.size != page.Size() {
		s.size = page.Size()
		s.mask = rectMask(page.Size(), radius)
	}
	at := page.Min.Sub(image.Pt(radius, radius)).Add(s.Options.Offset)
	r := s.mask.Bounds().Add(at)
	alpha := uint8(opacity*255 + 0.5)
	draw.DrawMask(dst, r, image.NewUniform(color.RGBA{A: alpha}), image.Point{}, s.mask, image.Point{}, draw.Over)
}

// rectMask returns a blurred, fully covered rectangle of the given size
// padded by radius on every side.
func rectMask(size image.Point, radius int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, size.X+2*radius, size.Y+2*radius))
	inner := image.Rect(radius, radius, radius+size.X, radius+size.Y)
	draw.Draw(mask, inner, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	return blurGray(mask, radius)
}

// blurGray is a separable box blur built on running prefix sums.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[row+x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
