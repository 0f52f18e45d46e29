package main

import (
	"flag"
	"io"
	"os"

	"github.com/example/colorbook/internal/palette"
)

type colorsCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	r = r.subcommand("colors")
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	c := &colorsCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

// Run prints every swatch; user colors from the config are marked custom.
func (c *colorsCmd) Run() error {
	pal := palette.New(c.root.config.Palette...)
	for i, col := range pal.Colors() {
		kind := "default"
		if pal.Removable(i) {
			kind = "custom"
		}
		if err := writef(c.stdout, "%2d  %s  %s\n", i, palette.Hex(col), kind); err != nil {
			return err
		}
	}
	return nil
}
