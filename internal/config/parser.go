package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/colorbook/internal/fill"
	"github.com/example/colorbook/internal/palette"
)

// Parse reads configuration from an io.Reader. Unknown keys and sections
// are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		switch {
		case strings.Contains(line, "="):
			parts = strings.SplitN(line, "=", 2)
		case strings.Contains(line, ":"):
			parts = strings.SplitN(line, ":", 2)
		default:
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "palette":
			err = addPaletteColor(cfg, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "history_size":
		cfg.HistorySize, err = parseInt(key, value)
	case "fill_tolerance":
		cfg.Tolerance, err = parseFloat(key, value)
	case "connectivity":
		cfg.Connectivity, err = fill.ParseConnectivity(value)
	case "min_zoom":
		cfg.Zoom.Min, err = parseFloat(key, value)
	case "max_zoom":
		cfg.Zoom.Max, err = parseFloat(key, value)
	case "zoom_step":
		cfg.Zoom.Step, err = parseFloat(key, value)
	case "wheel_step":
		cfg.Zoom.WheelStep, err = parseFloat(key, value)
	case "brush_width":
		cfg.BrushWidth, err = parseFloat(key, value)
	case "canvas_width":
		cfg.CanvasWidth, err = parseInt(key, value)
	case "canvas_height":
		cfg.CanvasHeight, err = parseInt(key, value)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "print":
		n.Print = b
	}
	return nil
}

func addPaletteColor(cfg *Config, key, value string) error {
	if key != "color" && key != "colour" {
		return nil
	}
	c, err := palette.Parse(value)
	if err != nil {
		return err
	}
	c.A = 0xff
	cfg.Palette = append(cfg.Palette, c)
	return nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}
