package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/colorbook/internal/config"
	"github.com/example/colorbook/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// defaultTheme is shown when neither flags, environment nor config name one.
const defaultTheme = "fairy"

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	copyAlerts  bool
	printAlerts bool
	themeName   string
}

func (r *root) Program() string {
	return r.program
}

// subcommand returns a copy of r named for the nested command, so help
// output shows the full invocation.
func (r *root) subcommand(name string) *root {
	if r == nil {
		return &root{program: name, config: config.New()}
	}
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		notifier:    r.notifier,
		config:      r.config,
		configPath:  r.configPath,
		saveAlerts:  r.saveAlerts,
		copyAlerts:  r.copyAlerts,
		printAlerts: r.printAlerts,
		themeName:   r.themeName,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:         flag.NewFlagSet("colorbook", flag.ExitOnError),
		program:    "colorbook",
		notifier:   notify.New(notify.MessagesFromEnv()),
		config:     cfg,
		configPath: loader.GetConfigPath(),
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a page")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.printAlerts, "notify-print", cfg.Notify.Print, "show a desktop notification when a print file is ready")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "theme or image key to color (e.g. fairy, fairy/fairy-2)")
	r.fs.Usage = usageFunc(r)
	return r
}

// theme resolves the requested theme following flag, COLORBOOK_THEME,
// config and the built-in default in that order.
func (r *root) theme() string {
	if r.themeName != "" {
		return r.themeName
	}
	if env := strings.TrimSpace(os.Getenv("COLORBOOK_THEME")); env != "" {
		return env
	}
	if r.config != nil && r.config.Theme != "" {
		return r.config.Theme
	}
	return defaultTheme
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventPrint, r.printAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "paint":
		cmd, err = parsePaintCmd(subArgs, r)
	case "fill":
		cmd, err = parseFillCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "script":
		cmd, err = parseScriptCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "print":
		cmd, err = parsePrintCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyPrint(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Print(path)
}
