package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/example/colorbook/internal/surface"
)

type drawCmd struct {
	*root
	fs     *flag.FlagSet
	image  string
	output string
	tool   string
	color  string
	width  float64
	points []float64
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func (d *drawCmd) Template() string {
	return "draw.txt"
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	r = r.subcommand("draw")
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.image, "image", "", "theme, image key or PNG file to draw on (default: the selected theme)")
	fs.StringVar(&d.output, "o", "", "output PNG file, - for stdout (default: generated name in the save directory)")
	fs.StringVar(&d.tool, "tool", "brush", "brush or eraser")
	fs.StringVar(&d.color, "color", "#000000", "brush colour as #rrggbb or a colour name")
	fs.Float64Var(&d.width, "width", r.config.BrushWidth, "stroke width in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 4 || fs.NArg()%2 != 0 {
		return nil, &UsageError{of: d}
	}
	for _, a := range fs.Args() {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", a, err)
		}
		d.points = append(d.points, v)
	}
	if d.width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %g", d.width)
	}
	if d.image == "" {
		d.image = r.theme()
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	tool, err := surface.ParseTool(d.tool)
	if err != nil {
		return err
	}
	if tool == surface.ToolFill {
		return fmt.Errorf("draw uses brush or eraser; use the fill command to fill regions")
	}
	s, err := newSession(d.root.config, d.image)
	if err != nil {
		return err
	}
	if err := s.setColor(d.color); err != nil {
		return err
	}
	s.controls.SetWidth(d.width)
	if err := s.stroke(tool, d.points); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	path, err := s.save(d.output)
	if err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(os.Stderr, "saved %s\n", path)
		d.notifySave(path)
	}
	return nil
}
