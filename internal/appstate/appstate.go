package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/colorbook/internal/surface"
)

const (
	tabHeight    = 24
	bottomHeight = 24
	toolbarWidth = 64
	buttonHeight = 24
	swatchSize   = 16
	swatchStep   = 18
	widthRowH    = 16
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var (
	barColor     = color.RGBA{220, 220, 220, 255}
	buttonColor  = color.RGBA{200, 200, 200, 255}
	hoverColor   = color.RGBA{180, 180, 180, 255}
	pressedColor = color.RGBA{150, 150, 150, 255}
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

func (s ButtonState) fill() color.RGBA {
	switch s {
	case StateHover:
		return hoverColor
	case StatePressed:
		return pressedColor
	}
	return buttonColor
}

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// labelButton is the shared body of the text buttons.
type labelButton struct {
	label    string
	rect     image.Rectangle
	onSelect func()
}

func (b *labelButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, &image.Uniform{state.fill()}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+16)}
	d.DrawString(b.label)
}

func (b *labelButton) Rect() image.Rectangle { return b.rect }

func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *labelButton) Activate() {
	if b.onSelect != nil {
		b.onSelect()
	}
}

// Shortcut is a clickable hint in the status bar.
type Shortcut struct {
	labelButton
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{state.fill()}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, color.Black)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

// ToolButton selects brush, eraser or fill.
type ToolButton struct {
	labelButton
	tool surface.Tool
}

// TabButton shows a theme in the header bar.
type TabButton struct {
	labelButton
	key string
}

// swatch is one palette entry in the toolbar.
type swatch struct {
	col  color.NRGBA
	rect image.Rectangle
}

func (s swatch) draw(dst *image.RGBA, selected, hover bool) {
	draw.Draw(dst, s.rect, &image.Uniform{s.col}, image.Point{}, draw.Src)
	if hover {
		draw.Draw(dst, s.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
	}
	if selected {
		drawRect(dst, s.rect, color.Black)
		drawRect(dst, s.rect.Inset(1), color.White)
	}
}

// drawRect outlines rect with a one pixel border.
func drawRect(dst *image.RGBA, rect image.Rectangle, col color.Color) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}
