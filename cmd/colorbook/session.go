package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/colorbook/internal/appstate"
	"github.com/example/colorbook/internal/config"
	"github.com/example/colorbook/internal/export"
	"github.com/example/colorbook/internal/palette"
	"github.com/example/colorbook/internal/surface"
	"github.com/example/colorbook/internal/theme"
)

// loadTimeout bounds how long batch commands wait for line art.
const loadTimeout = 10 * time.Second

var (
	newLoader = theme.NewLoader
	now       = time.Now
)

// session is a headless coloring surface driven by the batch commands. The
// surface uses a unit scale so command coordinates are canvas pixels.
type session struct {
	cfg      *config.Config
	loader   *theme.Loader
	controls *appstate.Controls
	surface  *surface.Surface
	tool     surface.Tool
}

func newSession(cfg *config.Config, key string) (*session, error) {
	if cfg == nil {
		cfg = config.New()
	}
	loader := newLoader()
	w, h := cfg.CanvasWidth, cfg.CanvasHeight
	if key != "" && fileExists(key) {
		img, err := loader.Load(key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}
	ctl := appstate.NewControls(palette.New(cfg.Palette...), cfg.BrushWidth, 1)
	surf, err := surface.New(w, h, loader, ctl,
		surface.WithHistorySize(cfg.HistorySize),
		surface.WithFillOptions(cfg.FillOptions()),
		surface.WithLimits(cfg.Zoom),
		surface.WithLogger(log.New(os.Stderr, "colorbook: ", 0)),
	)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, loader: loader, controls: ctl, surface: surf, tool: surface.ToolBrush}
	if key != "" {
		if err := s.load(key); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// load blocks until key has replaced the page.
func (s *session) load(key string) error {
	if canonical, err := s.loader.Resolve(key); err == nil {
		key = canonical
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	done := make(chan error, 1)
	s.surface.LoadImage(ctx, key, func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("load %s: %w", key, ctx.Err())
	}
}

func (s *session) setColor(name string) error {
	c, err := palette.Parse(name)
	if err != nil {
		return err
	}
	s.controls.Palette().SelectColor(c)
	return nil
}

// stroke draws one polyline through pts, given as x,y pairs.
func (s *session) stroke(tool surface.Tool, pts []float64) error {
	if len(pts) < 4 || len(pts)%2 != 0 {
		return fmt.Errorf("stroke needs at least two x y points")
	}
	if err := s.surface.StartStroke(pts[0], pts[1], tool); err != nil {
		return err
	}
	for i := 2; i < len(pts); i += 2 {
		if err := s.surface.Draw(pts[i], pts[i+1]); err != nil {
			s.surface.CancelStroke()
			return err
		}
	}
	s.surface.EndStroke()
	return nil
}

func (s *session) image() image.Image {
	return s.surface.CurrentRaster().Image()
}

// themeName is the display name of the current page's theme.
func (s *session) themeName() string {
	key := s.surface.ImageKey()
	if key == "" || fileExists(key) {
		return ""
	}
	th, _, err := theme.SplitKey(key)
	if err != nil {
		return ""
	}
	if t, err := s.loader.Theme(th); err == nil {
		return t.Name
	}
	return theme.Default(th).Name
}

// fileTheme is the theme segment used for generated file names.
func (s *session) fileTheme() string {
	key := s.surface.ImageKey()
	if key == "" {
		return "page"
	}
	if fileExists(key) {
		return strings.TrimSuffix(filepath.Base(key), filepath.Ext(key))
	}
	th, _, err := theme.SplitKey(key)
	if err != nil {
		return "page"
	}
	return th
}

func (s *session) saveDir() string {
	if s.cfg.SaveDir != "" {
		return s.cfg.SaveDir
	}
	return "."
}

// save writes the page as PNG to out, or to a generated name in the save
// directory when out is empty.
func (s *session) save(out string) (string, error) {
	if out == "" {
		return export.SavePNG(s.saveDir(), s.fileTheme(), s.image(), now())
	}
	if out == "-" {
		return out, export.WritePNG(os.Stdout, s.image())
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", out, err)
	}
	if err := export.WritePNG(f, s.image()); err != nil {
		_ = f.Close()
		return "", err
	}
	return out, f.Close()
}

// print writes the page as a PDF. An empty out picks a name in the save
// directory.
func (s *session) print(out string) (string, error) {
	if out == "" {
		name := strings.TrimSuffix(export.Filename(s.fileTheme(), now()), ".png") + ".pdf"
		out = filepath.Join(s.saveDir(), name)
	}
	if err := export.SavePDF(out, export.PrintTitle(s.themeName()), s.image()); err != nil {
		return "", err
	}
	return out, nil
}

func (s *session) info(w io.Writer) error {
	cur, n := s.surface.HistoryInfo()
	v := s.surface.View()
	c := s.controls.CurrentColor()
	return writef(w, "image=%s mode=%s tool=%s color=%s width=%g zoom=%.2f pan=%.1f,%.1f history=%d/%d\n",
		s.surface.ImageKey(), s.surface.Mode(), s.tool, palette.Hex(c), s.controls.BrushWidth(),
		v.Zoom, v.PanX, v.PanY, cur+1, n)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
