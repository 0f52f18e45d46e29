package appstate

import (
	"fmt"
	"image"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
)

const (
	actUndo      = "undo"
	actRedo      = "redo"
	actZoomIn    = "zoomin"
	actZoomOut   = "zoomout"
	actResetView = "resetview"
	actSave      = "save"
	actCopy      = "copy"
	actPrint     = "print"
	actPaste     = "paste"
	actClear     = "clear"
	actBrush     = "brush"
	actEraser    = "eraser"
	actFill      = "fill"
	actWidthDown = "widthdown"
	actWidthUp   = "widthup"
	actCancel    = "cancel"
	actQuit      = "quit"
)

type binding struct {
	action string
	keys   shortcutList
}

func defaultBindings() []binding {
	ctrl := key.ModControl
	shift := key.ModShift
	return []binding{
		{actUndo, shortcutList{{Rune: 'z', Modifiers: ctrl}}},
		{actRedo, shortcutList{{Rune: 'y', Modifiers: ctrl}, {Rune: 'z', Modifiers: ctrl | shift}}},
		{actZoomIn, shortcutList{{Rune: '=', Modifiers: ctrl}, {Rune: '+', Modifiers: ctrl}, {Rune: '+', Modifiers: ctrl | shift}}},
		{actZoomOut, shortcutList{{Rune: '-', Modifiers: ctrl}}},
		{actResetView, shortcutList{{Rune: '0', Modifiers: ctrl}}},
		{actSave, shortcutList{{Rune: 's', Modifiers: ctrl}}},
		{actCopy, shortcutList{{Rune: 'c', Modifiers: ctrl}}},
		{actPrint, shortcutList{{Rune: 'p', Modifiers: ctrl}}},
		{actPaste, shortcutList{{Rune: 'v', Modifiers: ctrl}}},
		{actClear, shortcutList{{Code: key.CodeDeleteBackspace, Modifiers: ctrl}}},
		{actBrush, shortcutList{{Rune: 'b'}}},
		{actEraser, shortcutList{{Rune: 'e'}}},
		{actFill, shortcutList{{Rune: 'f'}}},
		{actWidthDown, shortcutList{{Rune: '['}}},
		{actWidthUp, shortcutList{{Rune: ']'}}},
		{actCancel, shortcutList{{Code: key.CodeEscape}}},
		{actQuit, shortcutList{{Rune: 'q'}}},
	}
}

// keyboardMap indexes bindings by shortcut.
func keyboardMap(bs []binding) map[KeyShortcut]string {
	m := map[KeyShortcut]string{}
	for _, b := range bs {
		for _, sc := range b.keys.KeyboardShortcuts() {
			m[sc] = b.action
		}
	}
	return m
}

// matchShortcut finds the action bound to e. Drivers differ in whether they
// report a key code alongside the rune and in how Ctrl+letter is encoded,
// so several normalised forms are tried.
func matchShortcut(m map[KeyShortcut]string, e key.Event) (string, bool) {
	r := e.Rune
	if r >= 1 && r <= 26 && e.Modifiers&key.ModControl != 0 {
		r = 'a' + r - 1
	}
	r = unicode.ToLower(r)
	mods := e.Modifiers &^ key.ModMeta
	candidates := []KeyShortcut{
		{Rune: r, Code: e.Code, Modifiers: mods},
		{Rune: r, Modifiers: mods},
		{Code: e.Code, Modifiers: mods},
	}
	for _, ks := range candidates {
		if ks.Rune <= 0 && ks.Code == key.CodeUnknown {
			continue
		}
		if ks.Rune < 0 {
			ks.Rune = 0
		}
		if action, ok := m[ks]; ok {
			return action, true
		}
	}
	return "", false
}

// statusLabel pairs a status bar hint with its action.
type statusLabel struct {
	label  string
	action string
}

func statusLabels(zoom float64) []statusLabel {
	return []statusLabel{
		{"^Z:undo", actUndo},
		{"^Y:redo", actRedo},
		{fmt.Sprintf("^+/^-:zoom (%.0f%%)", zoom*100), actZoomIn},
		{"^0:fit", actResetView},
		{"^S:save", actSave},
		{"^C:copy", actCopy},
		{"^P:print", actPrint},
		{"^V:paste", actPaste},
		{"Q:quit", actQuit},
	}
}

func statusRects(labels []statusLabel, height int) []image.Rectangle {
	meas := &font.Drawer{Face: basicfont.Face7x13}
	out := make([]image.Rectangle, len(labels))
	x := toolbarWidth + 4
	y := height - bottomHeight + 16
	for i, sl := range labels {
		w := meas.MeasureString(sl.label).Ceil()
		out[i] = image.Rect(x-2, y-14, x+w+2, y+4)
		x = out[i].Max.X + 8
	}
	return out
}
