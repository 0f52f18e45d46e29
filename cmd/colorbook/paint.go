package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/example/colorbook/internal/appstate"
	"github.com/example/colorbook/internal/palette"
	"github.com/example/colorbook/internal/platform"
	"github.com/example/colorbook/internal/surface"
)

type paintCmd struct {
	*root
	fs      *flag.FlagSet
	image   string
	tool    string
	width   float64
	saveDir string
	noWatch bool
}

func (p *paintCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func (p *paintCmd) Template() string {
	return "paint.txt"
}

func parsePaintCmd(args []string, r *root) (*paintCmd, error) {
	r = r.subcommand("paint")
	cfg := r.config
	fs := flag.NewFlagSet("paint", flag.ExitOnError)
	p := &paintCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.StringVar(&p.image, "image", "", "theme, image key or PNG file to open (default: the selected theme)")
	fs.StringVar(&p.tool, "tool", "brush", "initial tool: brush, eraser or fill")
	fs.Float64Var(&p.width, "width", cfg.BrushWidth, "initial brush width in logical pixels")
	fs.StringVar(&p.saveDir, "save-dir", cfg.SaveDir, "directory for saved pages and print files")
	fs.BoolVar(&p.noWatch, "no-watch", false, "do not reload the config file when it changes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && p.image == "" {
		p.image = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: p}
	}
	if p.width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %g", p.width)
	}
	if p.image == "" {
		p.image = r.theme()
	}
	return p, nil
}

func (p *paintCmd) Run() error {
	tool, err := surface.ParseTool(p.tool)
	if err != nil {
		return err
	}
	cfg := p.root.config
	scale := platform.DeviceScale()
	loader := newLoader()
	ctl := appstate.NewControls(palette.New(cfg.Palette...), p.width, scale)

	opts := []appstate.Option{
		appstate.WithControls(ctl),
		appstate.WithThemes(loader, loader.Themes()),
		appstate.WithNotifier(p.notifier),
		appstate.WithSaveDir(p.saveDir),
		appstate.WithInitialImage(p.image),
		appstate.WithTool(tool),
	}
	if !p.noWatch && p.configPath != "" {
		opts = append(opts, appstate.WithConfigWatch(p.configPath))
	}
	app := appstate.New(opts...)

	w := int(math.Round(float64(cfg.CanvasWidth) * scale))
	h := int(math.Round(float64(cfg.CanvasHeight) * scale))
	surf, err := surface.New(w, h, loader, ctl,
		surface.WithHistorySize(cfg.HistorySize),
		surface.WithFillOptions(cfg.FillOptions()),
		surface.WithLimits(cfg.Zoom),
		surface.WithLogger(log.New(os.Stderr, "colorbook: ", log.LstdFlags)),
		surface.WithRedraw(app.NotifyImageChanged),
	)
	if err != nil {
		return err
	}
	app.Surface = surf
	app.Run()
	return nil
}
