package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/colorbook/internal/clipboard"
	"github.com/example/colorbook/internal/surface"
	"github.com/example/colorbook/internal/view"
)

var clipboardWriteFn = clipboard.WriteImage

// errQuit ends a script early without an error.
var errQuit = errors.New("quit")

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

type scriptCmd struct {
	*root
	fs        *flag.FlagSet
	file      string
	exprs     commandList
	keepGoing bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	s      *session
}

func (c *scriptCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *scriptCmd) Template() string {
	return "script.txt"
}

func parseScriptCmd(args []string, r *root) (*scriptCmd, error) {
	r = r.subcommand("script")
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	c := &scriptCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "f", "", "read commands from file (default: stdin)")
	fs.Var(&c.exprs, "e", "command to run; may be repeated")
	fs.BoolVar(&c.keepGoing, "k", false, "report failing commands and continue")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	if c.file != "" && len(c.exprs) > 0 {
		return nil, fmt.Errorf("-f and -e cannot be combined")
	}
	return c, nil
}

func (c *scriptCmd) Run() error {
	s, err := newSession(c.root.config, "")
	if err != nil {
		return err
	}
	c.s = s

	if len(c.exprs) > 0 {
		for i, line := range c.exprs {
			if err := c.step(i+1, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		}
		return nil
	}

	in := c.stdin
	if c.file != "" {
		f, err := os.Open(c.file)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		if err := c.step(n, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
	return scanner.Err()
}

// step runs one line, reporting rather than returning failures when -k is
// set.
func (c *scriptCmd) step(n int, line string) error {
	err := c.exec(line)
	if err == nil || errors.Is(err, errQuit) {
		return err
	}
	err = fmt.Errorf("line %d: %w", n, err)
	if c.keepGoing {
		fmt.Fprintln(c.stderr, err)
		return nil
	}
	return err
}

func (c *scriptCmd) exec(line string) error {
	args := strings.Fields(line)
	for i, a := range args {
		// "#" alone starts a trailing comment; "#rrggbb" is a colour.
		if a == "#" || (i == 0 && strings.HasPrefix(a, "#")) {
			args = args[:i]
			break
		}
	}
	if len(args) == 0 {
		return nil
	}
	s := c.s
	name, args := strings.ToLower(args[0]), args[1:]
	switch name {
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("usage: load <theme|key|file>")
		}
		return s.load(args[0])
	case "tool":
		if len(args) != 1 {
			return fmt.Errorf("usage: tool brush|eraser|fill")
		}
		t, err := surface.ParseTool(args[0])
		if err != nil {
			return err
		}
		s.tool = t
		return nil
	case "color", "colour":
		if len(args) != 1 {
			return fmt.Errorf("usage: color <#rrggbb|name>")
		}
		return s.setColor(args[0])
	case "width":
		v, err := floats(args, 1)
		if err != nil {
			return fmt.Errorf("usage: width <pixels>")
		}
		if v[0] <= 0 {
			return fmt.Errorf("width must be positive")
		}
		s.controls.SetWidth(v[0])
		return nil
	case "stroke", "line":
		pts, err := floats(args, -1)
		if err != nil {
			return err
		}
		tool := s.tool
		if tool == surface.ToolFill {
			tool = surface.ToolBrush
		}
		return s.stroke(tool, pts)
	case "fill":
		v, err := floats(args, 2)
		if err != nil {
			return fmt.Errorf("usage: fill <x> <y>")
		}
		n, err := s.surface.FillAt(v[0], v[1])
		if err != nil {
			return err
		}
		return writef(c.stdout, "filled %d pixels\n", n)
	case "undo":
		if !s.surface.Undo() {
			return writef(c.stdout, "nothing to undo\n")
		}
		return nil
	case "redo":
		if !s.surface.Redo() {
			return writef(c.stdout, "nothing to redo\n")
		}
		return nil
	case "clear":
		s.surface.Clear()
		return nil
	case "zoom":
		return c.zoom(args)
	case "pan":
		v, err := floats(args, 2)
		if err != nil {
			return fmt.Errorf("usage: pan <dx> <dy>")
		}
		s.surface.PanBy(v[0], v[1])
		return nil
	case "scale":
		v, err := floats(args, 4)
		if err != nil {
			return fmt.Errorf("usage: scale <origin-x> <origin-y> <sx> <sy>")
		}
		return s.surface.SetScale(view.Scale{OriginX: v[0], OriginY: v[1], X: v[2], Y: v[3]})
	case "save":
		out, err := optionalPath(args)
		if err != nil {
			return err
		}
		path, err := s.save(out)
		if err != nil {
			return err
		}
		if path != "-" {
			c.notifySave(path)
			return writef(c.stdout, "saved %s\n", path)
		}
		return nil
	case "print":
		out, err := optionalPath(args)
		if err != nil {
			return err
		}
		path, err := s.print(out)
		if err != nil {
			return err
		}
		c.notifyPrint(path)
		return writef(c.stdout, "print file %s\n", path)
	case "copy":
		if err := clipboardWriteFn(s.image()); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		if c.notifier != nil {
			c.notifier.Copy(s.surface.ImageKey(), s.image())
		}
		return nil
	case "info":
		return s.info(c.stdout)
	case "quit", "exit":
		return errQuit
	}
	return fmt.Errorf("unknown command %q", name)
}

func (c *scriptCmd) zoom(args []string) error {
	s := c.s.surface
	if len(args) == 0 {
		return fmt.Errorf("usage: zoom in|out|reset|<step> [x y]")
	}
	switch args[0] {
	case "in":
		s.ZoomIn()
		return nil
	case "out":
		s.ZoomOut()
		return nil
	case "reset":
		s.ResetView()
		return nil
	}
	v, err := floats(args, -1)
	if err != nil {
		return err
	}
	switch len(v) {
	case 1:
		s.ZoomBy(v[0])
		return nil
	case 3:
		return s.ZoomAroundPoint(v[1], v[2], v[0])
	}
	return fmt.Errorf("usage: zoom in|out|reset|<step> [x y]")
}

// floats parses args as numbers. want < 0 accepts any count.
func floats(args []string, want int) ([]float64, error) {
	if want >= 0 && len(args) != want {
		return nil, fmt.Errorf("expected %d numbers, got %d", want, len(args))
	}
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out = append(out, v)
	}
	return out, nil
}

func optionalPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("expected at most one path")
}
