package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/colorbook/internal/fill"
)

func TestParse(t *testing.T) {
	input := `
theme = mermaid
save_dir = /tmp/colorings
history_size = 20
fill_tolerance = 12.5
connectivity = 8
max_zoom = 6
brush_width = 9

[notify]
save = true
copy = false
print = true

[palette]
color = #123456
color = hotpink
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Theme != "mermaid" {
		t.Errorf("Expected theme 'mermaid', got %q", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/colorings" {
		t.Errorf("Expected save_dir '/tmp/colorings', got %q", cfg.SaveDir)
	}
	if cfg.HistorySize != 20 || cfg.Tolerance != 12.5 || cfg.Connectivity != fill.Connectivity8 {
		t.Errorf("unexpected root values: %+v", cfg)
	}
	if cfg.Zoom.Max != 6 || cfg.Zoom.Min != 0.25 {
		t.Errorf("unexpected zoom limits: %+v", cfg.Zoom)
	}
	if cfg.BrushWidth != 9 || cfg.CanvasWidth != 800 {
		t.Errorf("unexpected brush/canvas: %g %d", cfg.BrushWidth, cfg.CanvasWidth)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy || !cfg.Notify.Print {
		t.Errorf("unexpected notify %+v", cfg.Notify)
	}
	want := []color.NRGBA{{0x12, 0x34, 0x56, 0xff}, {0xff, 0x69, 0xb4, 0xff}}
	if len(cfg.Palette) != 2 || cfg.Palette[0] != want[0] || cfg.Palette[1] != want[1] {
		t.Errorf("unexpected palette %v", cfg.Palette)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"history_size = lots",
		"connectivity = 6",
		"[notify]\nsave = maybe",
		"[palette]\ncolor = #nothex",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.Zoom.Min = 5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected inverted zoom range to fail")
	}
	cfg = New()
	cfg.HistorySize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected zero history size to fail")
	}
}

func TestCircular(t *testing.T) {
	input := `theme = unicorn
save_dir = /home/user/art
wheel_step = 0.1
canvas_height = 700

[notify]
save = true
copy = true
print = false

[palette]
color = #abcdef
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}
	if cfg.String() != cfg2.String() {
		t.Errorf("round trip changed output:\n%s\nvs\n%s", cfg, cfg2)
	}
	if cfg2.Zoom.WheelStep != 0.1 || cfg2.CanvasHeight != 700 {
		t.Errorf("values lost: %+v", cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
}

func TestLoaderOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("theme = fairy\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoader("1.0", path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "fairy" {
		t.Fatalf("theme %q", cfg.Theme)
	}

	cfg, err = NewLoader("1.0", filepath.Join(dir, "missing.rc")).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "" || cfg.HistorySize != 50 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveWritesDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := New()
	cfg.Theme = "dessert"
	if err := Save(cfg, DefaultPath()); err != nil {
		t.Fatal(err)
	}
	loaded, err := NewLoader("1.0", "").Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Theme != "dessert" {
		t.Fatalf("theme %q", loaded.Theme)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.rc")
	if err := os.WriteFile(path, []byte("brush_width = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reloaded := make(chan *Config, 4)
	w, err := Watch(path, 20*time.Millisecond, func(c *Config) { reloaded <- c }, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("brush_width = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-reloaded:
		if cfg.BrushWidth != 12 {
			t.Fatalf("brush width %g", cfg.BrushWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}
