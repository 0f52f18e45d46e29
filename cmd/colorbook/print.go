package main

import (
	"flag"
	"fmt"
	"os"
)

type printCmd struct {
	*root
	fs     *flag.FlagSet
	image  string
	output string
}

func (p *printCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func (p *printCmd) Template() string {
	return "print.txt"
}

func parsePrintCmd(args []string, r *root) (*printCmd, error) {
	r = r.subcommand("print")
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	p := &printCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.StringVar(&p.image, "image", "", "theme, image key or PNG file to print (default: the selected theme)")
	fs.StringVar(&p.output, "o", "", "output PDF file (default: generated name in the save directory)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		if p.image != "" {
			return nil, fmt.Errorf("give the image either as -image or as an argument")
		}
		p.image = fs.Arg(0)
	default:
		return nil, &UsageError{of: p}
	}
	if p.image == "" {
		p.image = r.theme()
	}
	return p, nil
}

func (p *printCmd) Run() error {
	s, err := newSession(p.root.config, p.image)
	if err != nil {
		return err
	}
	path, err := s.print(p.output)
	if err != nil {
		return fmt.Errorf("print %s: %w", p.image, err)
	}
	fmt.Fprintf(os.Stderr, "print file %s\n", path)
	p.notifyPrint(path)
	return nil
}
