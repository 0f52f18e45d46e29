package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

type themesCmd struct {
	*root
	fs     *flag.FlagSet
	keys   bool
	stdout io.Writer
}

func (t *themesCmd) FlagSet() *flag.FlagSet {
	return t.fs
}

func (t *themesCmd) Template() string {
	return "themes.txt"
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	r = r.subcommand("themes")
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	t := &themesCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(t)
	fs.BoolVar(&t.keys, "keys", false, "print one image key per line")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: t}
	}
	return t, nil
}

func (t *themesCmd) Run() error {
	themes := newLoader().Themes()
	if t.keys {
		for _, th := range themes {
			for i := range th.Variants {
				if err := writef(t.stdout, "%s\n", th.ImageKey(i)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	tw := tabwriter.NewWriter(t.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tPAGES\tDESCRIPTION")
	for _, th := range themes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", th.Key, th.Name, strings.Join(th.Variants, ","), th.Description)
	}
	return tw.Flush()
}
