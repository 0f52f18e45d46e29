package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// stroke is the in-progress brush or eraser gesture. img starts as a copy
// of the current history raster and receives every segment.
type stroke struct {
	tool     Tool
	img      *image.NRGBA
	lastX    float64
	lastY    float64
	segments int
}

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec { return vec{a.x + b.x, a.y + b.y} }

func (a vec) mul(k float64) vec { return vec{a.x * k, a.y * k} }

func (a vec) neg() vec { return vec{-a.x, -a.y} }

func (a vec) f32() (float32, float32) { return float32(a.x), float32(a.y) }

// capsuleMask rasterises the round-capped segment p0-p1 of the given width.
// The mask covers only the segment's bounding box, clipped to clip; ok is
// false when nothing is covered.
func capsuleMask(p0, p1 vec, width float64, clip image.Rectangle) (mask *image.Alpha, ok bool) {
	r := math.Max(width/2, 0.5)
	dx, dy := p1.x-p0.x, p1.y-p0.y
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return nil, false
	}
	bounds := image.Rect(
		int(math.Floor(math.Min(p0.x, p1.x)-r))-1,
		int(math.Floor(math.Min(p0.y, p1.y)-r))-1,
		int(math.Ceil(math.Max(p0.x, p1.x)+r))+1,
		int(math.Ceil(math.Max(p0.y, p1.y)+r))+1,
	).Intersect(clip)
	if bounds.Empty() {
		return nil, false
	}

	off := vec{-float64(bounds.Min.X), -float64(bounds.Min.Y)}
	a, b := p0.add(off), p1.add(off)
	d := vec{dx / length, dy / length}
	n := vec{-d.y, d.x}

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Src
	z.MoveTo(a.add(n.mul(r)).f32())
	z.LineTo(b.add(n.mul(r)).f32())
	quarterArc(z, b, n, d, r)
	quarterArc(z, b, d, n.neg(), r)
	z.LineTo(a.add(n.mul(-r)).f32())
	quarterArc(z, a, n.neg(), d.neg(), r)
	quarterArc(z, a, d.neg(), n, r)
	z.ClosePath()

	mask = image.NewAlpha(bounds)
	z.Draw(mask, bounds, image.Opaque, image.Point{})
	return mask, true
}

// quarterArc continues the path from c+u*r to c+v*r around centre c.
func quarterArc(z *vector.Rasterizer, c, u, v vec, r float64) {
	from := c.add(u.mul(r))
	to := c.add(v.mul(r))
	c1x, c1y := from.add(v.mul(kappa * r)).f32()
	c2x, c2y := to.add(u.mul(kappa * r)).f32()
	tx, ty := to.f32()
	z.CubeTo(c1x, c1y, c2x, c2y, tx, ty)
}

// paintMask composites col through mask onto dst using source-over with
// straight alpha.
func paintMask(dst *image.NRGBA, mask *image.Alpha, col color.NRGBA) {
	ca := float64(col.A) / 255
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.AlphaAt(x, y).A
			if m == 0 {
				continue
			}
			sa := ca * float64(m) / 255
			i := dst.PixOffset(x, y)
			p := dst.Pix[i : i+4 : i+4]
			da := float64(p[3]) / 255
			outA := sa + da*(1-sa)
			if outA <= 0 {
				continue
			}
			blend := func(s, d uint8) uint8 {
				v := (float64(s)*sa + float64(d)*da*(1-sa)) / outA
				return uint8(math.Round(math.Min(255, v)))
			}
			p[0] = blend(col.R, p[0])
			p[1] = blend(col.G, p[1])
			p[2] = blend(col.B, p[2])
			p[3] = uint8(math.Round(outA * 255))
		}
	}
}

// eraseMask scales destination alpha by the inverse mask coverage. Colour
// channels are left as they are.
func eraseMask(dst *image.NRGBA, mask *image.Alpha) {
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.AlphaAt(x, y).A
			if m == 0 {
				continue
			}
			i := dst.PixOffset(x, y) + 3
			dst.Pix[i] = uint8(math.Round(float64(dst.Pix[i]) * (1 - float64(m)/255)))
		}
	}
}
