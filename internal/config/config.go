package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/colorbook/internal/fill"
	"github.com/example/colorbook/internal/history"
	"github.com/example/colorbook/internal/palette"
	"github.com/example/colorbook/internal/view"
)

// Notify holds notification settings.
type Notify struct {
	Save  bool
	Copy  bool
	Print bool
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	SaveDir      string
	HistorySize  int
	Tolerance    float64
	Connectivity fill.Connectivity
	Zoom         view.Limits
	BrushWidth   float64
	CanvasWidth  int
	CanvasHeight int
	Notify       Notify
	// Palette lists custom colors added on top of the defaults.
	Palette []color.NRGBA
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:        "", // empty lets env and built-in defaults apply
		HistorySize:  history.DefaultMaxSize,
		Tolerance:    fill.DefaultTolerance,
		Connectivity: fill.Connectivity4,
		Zoom:         view.DefaultLimits(),
		BrushWidth:   5,
		CanvasWidth:  800,
		CanvasHeight: 600,
	}
}

// FillOptions returns the flood fill settings.
func (c *Config) FillOptions() fill.Options {
	return fill.Options{Tolerance: c.Tolerance, Connectivity: c.Connectivity}
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	if c.HistorySize < 1 {
		return fmt.Errorf("history_size must be at least 1, got %d", c.HistorySize)
	}
	if c.Tolerance < 0 || c.Tolerance > fill.MaxDistance {
		return fmt.Errorf("fill_tolerance %g out of range", c.Tolerance)
	}
	if c.BrushWidth <= 0 {
		return fmt.Errorf("brush_width must be positive")
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size %dx%d invalid", c.CanvasWidth, c.CanvasHeight)
	}
	return c.Zoom.Validate()
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "history_size = %d\n", c.HistorySize)
	fmt.Fprintf(&sb, "fill_tolerance = %g\n", c.Tolerance)
	fmt.Fprintf(&sb, "connectivity = %d\n", int(c.Connectivity))
	fmt.Fprintf(&sb, "min_zoom = %g\n", c.Zoom.Min)
	fmt.Fprintf(&sb, "max_zoom = %g\n", c.Zoom.Max)
	fmt.Fprintf(&sb, "zoom_step = %g\n", c.Zoom.Step)
	fmt.Fprintf(&sb, "wheel_step = %g\n", c.Zoom.WheelStep)
	fmt.Fprintf(&sb, "brush_width = %g\n", c.BrushWidth)
	fmt.Fprintf(&sb, "canvas_width = %d\n", c.CanvasWidth)
	fmt.Fprintf(&sb, "canvas_height = %d\n", c.CanvasHeight)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "print = %v\n", c.Notify.Print)

	if len(c.Palette) > 0 {
		sb.WriteString("\n[palette]\n")
		for _, col := range c.Palette {
			fmt.Fprintf(&sb, "color = %s\n", palette.Hex(col))
		}
	}
	return sb.String()
}
