package render

import (
	"image"
	"image/color"
	"testing"
)

func TestShadowDrawsBeneathOffset(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	page := image.Rect(10, 10, 20, 20)
	s := NewShadow(ShadowOptions{Radius: 2, Offset: image.Pt(4, 4), Opacity: 1})
	s.Draw(dst, page)

	if a := dst.RGBAAt(22, 22).A; a == 0 {
		t.Fatal("expected shadow alpha below the page corner")
	}
	if a := dst.RGBAAt(2, 2).A; a != 0 {
		t.Fatalf("expected no shadow far from the page, got alpha %d", a)
	}
}

func TestShadowNoOpWhenOpacityZero(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			dst.SetRGBA(x, y, fill)
		}
	}
	NewShadow(ShadowOptions{Radius: 3, Offset: image.Pt(1, 1)}).Draw(dst, image.Rect(2, 2, 6, 6))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := dst.RGBAAt(x, y); got != fill {
				t.Fatalf("pixel mismatch at (%d,%d): got %+v want %+v", x, y, got, fill)
			}
		}
	}
}

func TestShadowMaskCachedPerSize(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 30, 30))
	s := NewShadow(DefaultShadowOptions())
	s.Draw(dst, image.Rect(5, 5, 15, 15))
	first := s.mask
	s.Draw(dst, image.Rect(6, 6, 16, 16))
	if s.mask != first {
		t.Fatal("expected mask reuse for an unchanged page size")
	}
	s.Draw(dst, image.Rect(6, 6, 20, 16))
	if s.mask == first {
		t.Fatal("expected a new mask after the page size changed")
	}
}

func TestBlurGraySpreadsAlpha(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 1))
	src.Pix[2] = 255
	out := blurGray(src, 1)
	if out.Pix[1] == 0 || out.Pix[3] == 0 {
		t.Fatalf("expected blur to reach neighbours: %v", out.Pix)
	}
	if out.Pix[0] != 0 {
		t.Fatalf("expected blur to stay within radius: %v", out.Pix)
	}
}
