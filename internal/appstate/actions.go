package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"

	"github.com/example/colorbook/internal/clipboard"
	"github.com/example/colorbook/internal/config"
	"github.com/example/colorbook/internal/export"
	"github.com/example/colorbook/internal/notify"
	"github.com/example/colorbook/internal/theme"
)

// ClipboardKey is the image key under which pasted line art is registered.
var ClipboardKey = theme.JoinKey("clipboard", "clipboard")

var (
	clipboardWrite = clipboard.WriteImage
	clipboardRead  = clipboard.ReadImage
)

func (a *AppState) page() image.Image {
	return a.Surface.CurrentRaster().Image()
}

// themeFor returns the theme showing key, or a placeholder for line art
// that did not come from a theme.
func (a *AppState) themeFor(key string) *theme.Theme {
	for _, t := range a.Themes {
		if key == t.Key || strings.HasPrefix(key, t.Key+"/") {
			return t
		}
	}
	if strings.HasPrefix(key, "clipboard/") {
		return theme.Default("clipboard")
	}
	return theme.Default("page")
}

func (a *AppState) save() (string, error) {
	t := a.themeFor(a.Surface.ImageKey())
	path, err := export.SavePNG(a.SaveDir, t.Key, a.page(), a.now())
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	a.notifier().Save(path)
	return fmt.Sprintf("saved %s", path), nil
}

func (a *AppState) copyPage() (string, error) {
	img := a.page()
	if err := clipboardWrite(img); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	a.notifier().Copy("page", img)
	return "page copied to clipboard", nil
}

func (a *AppState) print() (string, error) {
	t := a.themeFor(a.Surface.ImageKey())
	name := strings.TrimSuffix(export.Filename(t.Key, a.now()), ".png") + ".pdf"
	path := filepath.Join(a.saveDir(), name)
	if err := export.SavePDF(path, export.PrintTitle(t.Name), a.page()); err != nil {
		return "", fmt.Errorf("print: %w", err)
	}
	a.notifier().Print(path)
	return fmt.Sprintf("print file %s", path), nil
}

// paste imports the clipboard image as line art. done receives the load
// outcome on the loader goroutine.
func (a *AppState) paste(ctx context.Context, done func(error)) error {
	img, err := clipboardRead()
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	if a.Loader == nil {
		return fmt.Errorf("paste: no image loader")
	}
	a.Loader.Register(ClipboardKey, img)
	a.Surface.LoadImage(ctx, ClipboardKey, done)
	return nil
}

// selectTheme loads the page for tab idx. Selecting the active theme again
// advances to its next page.
func (a *AppState) selectTheme(ctx context.Context, idx int, done func(error)) (string, bool) {
	if idx < 0 || idx >= len(a.Themes) {
		return "", false
	}
	t := a.Themes[idx]
	if a.variants == nil {
		a.variants = map[string]int{}
	}
	if a.themeFor(a.Surface.ImageKey()) == t && len(t.Variants) > 0 {
		a.variants[t.Key] = (a.variants[t.Key] + 1) % len(t.Variants)
	}
	key := t.ImageKey(a.variants[t.Key])
	a.Surface.LoadImage(ctx, key, done)
	return key, true
}

func (a *AppState) currentTab() int {
	key := a.Surface.ImageKey()
	for i, t := range a.Themes {
		if key == t.Key || strings.HasPrefix(key, t.Key+"/") {
			return i
		}
	}
	return -1
}

// applyConfig takes the settings that may change while the window is open.
func (a *AppState) applyConfig(cfg *config.Config) {
	a.Controls.SetCustomColors(cfg.Palette)
	a.Controls.SetWidth(cfg.BrushWidth)
	if cfg.SaveDir != "" {
		a.SaveDir = cfg.SaveDir
	}
	n := a.notifier()
	n.Enable(notify.EventSave, cfg.Notify.Save)
	n.Enable(notify.EventCopy, cfg.Notify.Copy)
	n.Enable(notify.EventPrint, cfg.Notify.Print)
	log.Printf("config reloaded")
}

func (a *AppState) saveDir() string {
	if a.SaveDir == "" {
		return "."
	}
	return a.SaveDir
}

func (a *AppState) notifier() *notify.Notifier {
	if a.Notifier == nil {
		a.Notifier = notify.New(notify.DefaultMessages())
	}
	return a.Notifier
}
