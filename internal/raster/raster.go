// Package raster holds immutable pixel snapshots of a drawing surface.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Buffer is a read-only RGBA raster with straight alpha. Pixels are stored
// row-major from the top-left corner, four bytes per pixel.
type Buffer struct {
	img *image.NRGBA
}

// New returns a fully transparent buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", width, height)
	}
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// Blank returns a buffer filled with a single opaque or translucent colour.
func Blank(width, height int, bg color.NRGBA) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return b, nil
}

// FromPix builds a buffer from a flat RGBA byte slice. The slice is copied.
func FromPix(width, height int, pix []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("raster: pixel data has %d bytes, want %d", len(pix), width*height*4)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return &Buffer{img: img}, nil
}

// FromImage copies src into a new buffer whose origin is (0, 0).
func FromImage(src image.Image) *Buffer {
	return &Buffer{img: toNRGBA(src)}
}

// Freeze wraps img without copying it. The caller hands over ownership and
// must not write to img afterwards.
func Freeze(img *image.NRGBA) *Buffer {
	if img.Rect.Min != (image.Point{}) || img.Stride != img.Rect.Dx()*4 {
		img = toNRGBA(img)
	}
	return &Buffer{img: img}
}

func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Width reports the raster width in device pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height reports the raster height in device pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the zero-based rectangle covered by the buffer.
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// In reports whether (x, y) addresses a pixel inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width() && y < b.Height()
}

// At returns the pixel at (x, y). Out of range coordinates yield transparent black.
func (b *Buffer) At(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

// Pix returns a copy of the flat RGBA bytes.
func (b *Buffer) Pix() []byte {
	out := make([]byte, len(b.img.Pix))
	copy(out, b.img.Pix)
	return out
}

// Image exposes the buffer as an image.Image for drawing and encoding. The
// returned value must be treated as read-only.
func (b *Buffer) Image() image.Image { return b.img }

// Mutable returns a deep copy that the caller may edit freely.
func (b *Buffer) Mutable() *image.NRGBA {
	dst := image.NewNRGBA(b.img.Rect)
	copy(dst.Pix, b.img.Pix)
	return dst
}

// Equal reports whether both buffers have the same size and identical bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.img.Rect.Eq(o.img.Rect) && bytes.Equal(b.img.Pix, o.img.Pix)
}
