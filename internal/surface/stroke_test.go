package surface

import (
	"image"
	"image/color"
	"testing"
)

func TestCapsuleMaskRoundCaps(t *testing.T) {
	clip := image.Rect(0, 0, 30, 30)
	mask, ok := capsuleMask(vec{5.5, 5.5}, vec{15.5, 5.5}, 4, clip)
	if !ok {
		t.Fatal("mask not produced")
	}
	if a := mask.AlphaAt(10, 5).A; a != 0xff {
		t.Fatalf("centre coverage %d", a)
	}
	if a := mask.AlphaAt(16, 5).A; a == 0 {
		t.Fatal("round cap missing")
	}
	if a := mask.AlphaAt(19, 5).A; a != 0 {
		t.Fatalf("coverage past cap %d", a)
	}
	if a := mask.AlphaAt(10, 8).A; a != 0 {
		t.Fatalf("coverage beyond width %d", a)
	}
	if _, ok := capsuleMask(vec{3, 3}, vec{3, 3}, 4, clip); ok {
		t.Fatal("zero-length segment produced a mask")
	}
	if _, ok := capsuleMask(vec{50, 50}, vec{60, 60}, 4, clip); ok {
		t.Fatal("segment outside clip produced a mask")
	}
}

func TestPaintMaskStraightAlpha(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	dst.SetNRGBA(0, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	mask := image.NewAlpha(image.Rect(0, 0, 2, 1))
	mask.SetAlpha(0, 0, color.Alpha{0xff})
	mask.SetAlpha(1, 0, color.Alpha{0xff})

	paintMask(dst, mask, color.NRGBA{0, 0, 0, 128})
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{127, 127, 127, 0xff}) {
		t.Fatalf("over white: %+v", got)
	}
	// Over a transparent pixel the colour is kept unmultiplied.
	if got := dst.NRGBAAt(1, 0); got != (color.NRGBA{0, 0, 0, 128}) {
		t.Fatalf("over transparent: %+v", got)
	}
}

func TestEraseMaskPartialCoverage(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	dst.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 200})
	mask := image.NewAlpha(image.Rect(0, 0, 1, 1))
	mask.SetAlpha(0, 0, color.Alpha{0x80})
	eraseMask(dst, mask)
	got := dst.NRGBAAt(0, 0)
	if got.R != 10 || got.G != 20 || got.B != 30 {
		t.Fatalf("colour changed: %+v", got)
	}
	if got.A != 100 {
		t.Fatalf("alpha %d, want 100", got.A)
	}
}

func TestFitRectCentres(t *testing.T) {
	r := fitRect(image.Rect(0, 0, 100, 50), 80, 80)
	if r != image.Rect(0, 20, 80, 60) {
		t.Fatalf("fit %v", r)
	}
	if !fitRect(image.Rectangle{}, 10, 10).Empty() {
		t.Fatal("empty source not rejected")
	}
}
