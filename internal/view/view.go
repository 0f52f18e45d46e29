// Package view maps between screen coordinates and raster coordinates under
// a pan/zoom transform and the display scale of the drawing surface.
//
// The forward transform is
//
//	screen = origin + css * (pan + zoom*canvas)
//
// where css is the ratio between the on-screen size of the surface and its
// raster size in device pixels.
package view

import (
	"fmt"
	"math"
)

// State is the ephemeral navigation state of a surface.
type State struct {
	Zoom float64
	PanX float64
	PanY float64
	// ImageKey identifies the line art being coloured, e.g. "fairy/fairy-2".
	ImageKey string
}

// Identity returns an unzoomed, unpanned state for key.
func Identity(key string) State {
	return State{Zoom: 1, ImageKey: key}
}

// Limits bounds the zoom factor and defines the step sizes used by inputs.
type Limits struct {
	Min float64
	Max float64
	// Step is used by keyboard shortcuts and buttons.
	Step float64
	// WheelStep is used by scroll wheels and must be finer than Step.
	WheelStep float64
}

// DefaultLimits returns the zoom range 25%..400%.
func DefaultLimits() Limits {
	return Limits{Min: 0.25, Max: 4, Step: 0.25, WheelStep: 0.05}
}

// Validate reports configuration mistakes.
func (l Limits) Validate() error {
	if l.Min <= 0 || l.Max < l.Min {
		return fmt.Errorf("view: invalid zoom range [%g, %g]", l.Min, l.Max)
	}
	if l.Step <= 0 || l.WheelStep <= 0 {
		return fmt.Errorf("view: zoom steps must be positive")
	}
	return nil
}

// Clamp restricts z to [Min, Max].
func (l Limits) Clamp(z float64) float64 {
	return math.Max(l.Min, math.Min(l.Max, z))
}

// StepZoom applies a signed step to z and clamps the result. Positive steps
// zoom in.
func (l Limits) StepZoom(z, step float64) float64 {
	return l.Clamp(z + step)
}

// Scale describes where the surface sits on screen and how large it is
// drawn relative to its raster.
type Scale struct {
	OriginX float64
	OriginY float64
	// X and Y are display size divided by raster size.
	X float64
	Y float64
}

// Unit is a 1:1 scale anchored at the screen origin.
func Unit() Scale { return Scale{X: 1, Y: 1} }

// Valid reports whether the scale can be inverted.
func (s Scale) Valid() bool {
	return s.X > 0 && s.Y > 0 && !math.IsInf(s.X, 0) && !math.IsInf(s.Y, 0)
}

// ScaleFor derives a Scale from the on-screen placement of a raster. It
// fails for zero-sized elements instead of producing an unusable transform.
func ScaleFor(originX, originY, displayW, displayH float64, rasterW, rasterH int) (Scale, error) {
	if rasterW <= 0 || rasterH <= 0 {
		return Scale{}, fmt.Errorf("view: raster size %dx%d", rasterW, rasterH)
	}
	if displayW <= 0 || displayH <= 0 {
		return Scale{}, fmt.Errorf("view: display size %gx%g", displayW, displayH)
	}
	return Scale{
		OriginX: originX,
		OriginY: originY,
		X:       displayW / float64(rasterW),
		Y:       displayH / float64(rasterH),
	}, nil
}

// ScreenToCanvas converts a pointer position into raster coordinates.
func ScreenToCanvas(screenX, screenY float64, v State, s Scale) (float64, float64) {
	x := ((screenX-s.OriginX)/s.X - v.PanX) / v.Zoom
	y := ((screenY-s.OriginY)/s.Y - v.PanY) / v.Zoom
	return x, y
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func CanvasToScreen(canvasX, canvasY float64, v State, s Scale) (float64, float64) {
	x := (canvasX*v.Zoom+v.PanX)*s.X + s.OriginX
	y := (canvasY*v.Zoom+v.PanY)*s.Y + s.OriginY
	return x, y
}

// AdjustPanForZoomAroundPoint returns the pan that keeps the canvas point
// under (screenX, screenY) fixed when the zoom changes from oldZoom to
// newZoom.
func AdjustPanForZoomAroundPoint(screenX, screenY, oldZoom, newZoom float64, v State, s Scale) (float64, float64) {
	before := v
	before.Zoom = oldZoom
	cx, cy := ScreenToCanvas(screenX, screenY, before, s)
	panX := (screenX-s.OriginX)/s.X - cx*newZoom
	panY := (screenY-s.OriginY)/s.Y - cy*newZoom
	return panX, panY
}
