package theme

import (
	"bufio"
	"io"
	"strings"
)

// Parse reads a theme description. The format is one "Key: value" pair per
// line; blank lines and lines starting with # or // are ignored.
func Parse(key string, r io.Reader) (*Theme, error) {
	t := Default(key)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		value := strings.TrimSpace(parts[1])
		switch strings.ToLower(strings.TrimSpace(parts[0])) {
		case "name":
			t.Name = value
		case "description":
			t.Description = value
		case "variants":
			// Optional explicit ordering, comma separated.
			t.Variants = nil
			for _, v := range strings.Split(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					t.Variants = append(t.Variants, v)
				}
			}
		}
		// Unknown keys are ignored for forward compatibility.
	}
	return t, scanner.Err()
}
