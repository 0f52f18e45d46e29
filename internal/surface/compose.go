package surface

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/colorbook/internal/raster"
)

// fitRect returns the largest rectangle with src's aspect ratio that fits
// centred inside a w x h raster.
func fitRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw <= 0 || sh <= 0 {
		return image.Rectangle{}
	}
	k := math.Min(float64(w)/sw, float64(h)/sh)
	dw := int(math.Round(sw * k))
	dh := int(math.Round(sh * k))
	x0 := (w - dw) / 2
	y0 := (h - dh) / 2
	return image.Rect(x0, y0, x0+dw, y0+dh)
}

// composePage scales line art onto a page-coloured raster. A nil image
// yields a blank page.
func composePage(art image.Image, w, h int, page color.NRGBA) *raster.Buffer {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(page), image.Point{}, xdraw.Src)
	if art != nil {
		if r := fitRect(art.Bounds(), w, h); !r.Empty() {
			xdraw.CatmullRom.Scale(dst, r, art, art.Bounds(), xdraw.Over, nil)
		}
	}
	return raster.Freeze(dst)
}
