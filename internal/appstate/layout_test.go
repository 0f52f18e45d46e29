package appstate

import (
	"image"
	"math"
	"testing"
)

func TestCanvasScaleFitsAndCentres(t *testing.T) {
	l := layout{width: toolbarWidth + 400, height: tabHeight + bottomHeight + 400}
	sc, err := l.canvasScale(800, 400)
	if err != nil {
		t.Fatalf("canvasScale: %v", err)
	}
	if math.Abs(sc.X-0.5) > 1e-9 || math.Abs(sc.Y-0.5) > 1e-9 {
		t.Fatalf("scale = %+v, want 0.5", sc)
	}
	if sc.OriginX != toolbarWidth {
		t.Fatalf("originX = %v", sc.OriginX)
	}
	if want := float64(tabHeight) + 100; sc.OriginY != want {
		t.Fatalf("originY = %v, want %v", sc.OriginY, want)
	}
}

func TestCanvasScaleRejectsEmptyArea(t *testing.T) {
	l := layout{width: toolbarWidth, height: tabHeight + bottomHeight}
	if _, err := l.canvasScale(10, 10); err == nil {
		t.Fatal("expected error for a zero sized canvas area")
	}
}

func TestSwatchRectsWrap(t *testing.T) {
	rects := swatchRects(3, 5)
	if rects[0].Min != image.Pt(4, swatchTop(3)) {
		t.Fatalf("first swatch at %v", rects[0].Min)
	}
	perRow := 0
	for _, r := range rects {
		if r.Min.Y == rects[0].Min.Y {
			perRow++
		}
		if r.Max.X > toolbarWidth {
			t.Fatalf("swatch %v overflows the toolbar", r)
		}
	}
	if perRow == len(rects) {
		t.Fatal("expected swatches to wrap")
	}
}

func TestHitTest(t *testing.T) {
	l := layout{width: 600, height: 400}
	c := newChrome(l, []string{"Fairies", "Cakes"}, 3, 10, 5)
	c.status = statusRects(statusLabels(1), l.height)

	tests := []struct {
		name string
		p    image.Point
		want hit
	}{
		{"second tab", c.tabs[1].Min.Add(image.Pt(2, 2)), hit{hitTab, 1}},
		{"eraser", c.tools[1].Min.Add(image.Pt(2, 2)), hit{hitTool, 1}},
		{"swatch", c.swatch[4].Min.Add(image.Pt(1, 1)), hit{hitSwatch, 4}},
		{"width", c.widths[2].Min.Add(image.Pt(1, 1)), hit{hitWidth, 2}},
		{"status", c.status[0].Min.Add(image.Pt(1, 1)), hit{hitStatus, 0}},
		{"canvas", image.Pt(300, 200), hit{kind: hitCanvas}},
		{"empty tab bar", image.Pt(590, 5), hit{kind: hitNone}},
	}
	for _, tt := range tests {
		if got := c.hitTest(tt.p); got != tt.want {
			t.Errorf("%s: hitTest(%v) = %+v, want %+v", tt.name, tt.p, got, tt.want)
		}
	}
}
