package appstate

import (
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"
)

func TestMatchShortcut(t *testing.T) {
	m := keyboardMap(defaultBindings())
	tests := []struct {
		name string
		ev   key.Event
		want string
	}{
		{"ctrl+z", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl}, actUndo},
		{"ctrl+y", key.Event{Rune: 'y', Modifiers: key.ModControl}, actRedo},
		{"ctrl+shift+z", key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}, actRedo},
		{"ctrl+z as control char", key.Event{Rune: 0x1a, Modifiers: key.ModControl}, actUndo},
		{"ctrl+=", key.Event{Rune: '=', Code: key.CodeEqualSign, Modifiers: key.ModControl}, actZoomIn},
		{"ctrl+shift++", key.Event{Rune: '+', Modifiers: key.ModControl | key.ModShift}, actZoomIn},
		{"ctrl+-", key.Event{Rune: '-', Modifiers: key.ModControl}, actZoomOut},
		{"ctrl+0", key.Event{Rune: '0', Modifiers: key.ModControl}, actResetView},
		{"ctrl+s", key.Event{Rune: 's', Modifiers: key.ModControl}, actSave},
		{"ctrl+c", key.Event{Rune: 'c', Modifiers: key.ModControl}, actCopy},
		{"ctrl+p", key.Event{Rune: 'p', Modifiers: key.ModControl}, actPrint},
		{"b", key.Event{Rune: 'b', Code: key.CodeB}, actBrush},
		{"E", key.Event{Rune: 'E'}, actEraser},
		{"f", key.Event{Rune: 'f'}, actFill},
		{"[", key.Event{Rune: '['}, actWidthDown},
		{"]", key.Event{Rune: ']'}, actWidthUp},
		{"escape", key.Event{Rune: -1, Code: key.CodeEscape}, actCancel},
	}
	for _, tt := range tests {
		got, ok := matchShortcut(m, tt.ev)
		if !ok || got != tt.want {
			t.Errorf("%s: got %q (%v), want %q", tt.name, got, ok, tt.want)
		}
	}
}

func TestMatchShortcutMisses(t *testing.T) {
	m := keyboardMap(defaultBindings())
	for _, ev := range []key.Event{
		{Rune: 'z'},
		{Rune: 'x', Modifiers: key.ModControl},
		{Rune: -1, Code: key.CodeLeftShift},
	} {
		if got, ok := matchShortcut(m, ev); ok {
			t.Errorf("%+v matched %q", ev, got)
		}
	}
}

func TestStatusLabelsShowZoom(t *testing.T) {
	found := false
	for _, sl := range statusLabels(1.5) {
		if strings.Contains(sl.label, "150%") {
			found = true
		}
	}
	if !found {
		t.Fatal("zoom percentage missing from status bar")
	}
}

func TestStatusRectsDoNotOverlap(t *testing.T) {
	rects := statusRects(statusLabels(1), 300)
	for i := 1; i < len(rects); i++ {
		if rects[i].Min.X < rects[i-1].Max.X {
			t.Fatalf("rect %d overlaps previous: %v %v", i, rects[i-1], rects[i])
		}
	}
}
