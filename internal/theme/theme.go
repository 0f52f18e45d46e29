package theme

import (
	"fmt"
	"strings"
)

// Theme groups related line art pages, e.g. several fairies.
type Theme struct {
	// Key is the directory name used in image keys ("fairy").
	Key         string
	Name        string
	Description string
	// Variants are the page names in display order ("fairy-1", "fairy-2").
	Variants []string
}

// ImageKey returns the key of the idx-th variant.
func (t *Theme) ImageKey(idx int) string {
	if len(t.Variants) == 0 {
		return t.Key
	}
	if idx < 0 || idx >= len(t.Variants) {
		idx = 0
	}
	return JoinKey(t.Key, t.Variants[idx])
}

// Default returns a theme description derived from key alone.
func Default(key string) *Theme {
	name := key
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return &Theme{Key: key, Name: name}
}

// JoinKey builds an image key from a theme and a variant.
func JoinKey(theme, variant string) string {
	return theme + "/" + variant
}

// SplitKey splits "theme/variant". A bare theme yields an empty variant.
func SplitKey(key string) (theme, variant string, err error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", "", fmt.Errorf("empty image key")
	}
	parts := strings.SplitN(key, "/", 2)
	if len(parts) == 1 {
		return parts[0], "", nil
	}
	if strings.Contains(parts[1], "/") || parts[1] == "" {
		return "", "", fmt.Errorf("invalid image key %q", key)
	}
	return parts[0], parts[1], nil
}
