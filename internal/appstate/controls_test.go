package appstate

import (
	"image/color"
	"testing"

	"github.com/example/colorbook/internal/palette"
)

func TestControlsBrushWidthUsesDeviceScale(t *testing.T) {
	c := NewControls(nil, 5, 2)
	if got := c.BrushWidth(); got != 10 {
		t.Fatalf("BrushWidth = %v, want 10", got)
	}
}

func TestControlsStepWidthClamps(t *testing.T) {
	c := NewControls(nil, 2, 1)
	if got := c.StepWidth(-1); got != 2 {
		t.Fatalf("step below first width = %v", got)
	}
	for i := 0; i < 10; i++ {
		c.StepWidth(1)
	}
	if got := c.StepWidth(0); got != DefaultWidths[len(DefaultWidths)-1] {
		t.Fatalf("step above last width = %v", got)
	}
}

func TestControlsCustomWidthInserted(t *testing.T) {
	c := NewControls(nil, 7, 1)
	ws := c.Widths()
	if len(ws) != len(DefaultWidths)+1 {
		t.Fatalf("widths %v", ws)
	}
	if ws[c.WidthIndex()] != 7 {
		t.Fatalf("selected width %v, want 7", ws[c.WidthIndex()])
	}
	for i := 1; i < len(ws); i++ {
		if ws[i-1] > ws[i] {
			t.Fatalf("widths not sorted: %v", ws)
		}
	}
	if len(DefaultWidths) != 5 {
		t.Fatal("DefaultWidths was modified")
	}
}

func TestControlsSetCustomColorsKeepsSelection(t *testing.T) {
	teal := color.NRGBA{0x00, 0x80, 0x80, 0xff}
	pink := color.NRGBA{0xff, 0xc0, 0xcb, 0xff}
	pal := palette.New(teal)
	pal.SelectColor(teal)
	c := NewControls(pal, 5, 1)

	c.SetCustomColors([]color.NRGBA{pink, teal})
	if got := c.CurrentColor(); got != teal {
		t.Fatalf("selection lost: %v", got)
	}

	c.SetCustomColors([]color.NRGBA{pink})
	if got := c.CurrentColor(); got != palette.Defaults[0] {
		t.Fatalf("removed selection should fall back to first swatch, got %v", got)
	}
	if got := pal.Custom(); len(got) != 1 || got[0] != pink {
		t.Fatalf("custom colors %v", got)
	}
}
