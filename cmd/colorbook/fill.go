package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/example/colorbook/internal/fill"
)

type fillCmd struct {
	*root
	fs           *flag.FlagSet
	image        string
	output       string
	color        string
	tolerance    float64
	connectivity string
	x, y         float64
}

func (f *fillCmd) FlagSet() *flag.FlagSet {
	return f.fs
}

func (f *fillCmd) Template() string {
	return "fill.txt"
}

func parseFillCmd(args []string, r *root) (*fillCmd, error) {
	r = r.subcommand("fill")
	cfg := r.config
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	f := &fillCmd{root: r, fs: fs}
	fs.Usage = usageFunc(f)
	fs.StringVar(&f.image, "image", "", "theme, image key or PNG file to fill (default: the selected theme)")
	fs.StringVar(&f.output, "o", "", "output PNG file, - for stdout (default: generated name in the save directory)")
	fs.StringVar(&f.color, "color", "#ff0000", "fill colour as #rrggbb or a colour name")
	fs.Float64Var(&f.tolerance, "tolerance", cfg.Tolerance, "maximum colour distance that still counts as the same region")
	fs.StringVar(&f.connectivity, "connectivity", strconv.Itoa(int(cfg.Connectivity)), "4 or 8 neighbour flood")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, &UsageError{of: f}
	}
	var err error
	if f.x, err = strconv.ParseFloat(fs.Arg(0), 64); err != nil {
		return nil, fmt.Errorf("invalid x coordinate %q: %w", fs.Arg(0), err)
	}
	if f.y, err = strconv.ParseFloat(fs.Arg(1), 64); err != nil {
		return nil, fmt.Errorf("invalid y coordinate %q: %w", fs.Arg(1), err)
	}
	if f.image == "" {
		f.image = r.theme()
	}
	return f, nil
}

func (f *fillCmd) Run() error {
	conn, err := fill.ParseConnectivity(f.connectivity)
	if err != nil {
		return err
	}
	cfg := *f.root.config
	cfg.Tolerance = f.tolerance
	cfg.Connectivity = conn
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := newSession(&cfg, f.image)
	if err != nil {
		return err
	}
	if err := s.setColor(f.color); err != nil {
		return err
	}
	n, err := s.surface.FillAt(f.x, f.y)
	if err != nil {
		return fmt.Errorf("fill at %g,%g: %w", f.x, f.y, err)
	}
	fmt.Fprintf(os.Stderr, "filled %d pixels\n", n)
	path, err := s.save(f.output)
	if err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(os.Stderr, "saved %s\n", path)
		f.notifySave(path)
	}
	return nil
}
