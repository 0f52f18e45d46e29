package assets

import (
	"embed"
	"io/fs"
)

// Embedded line art and theme descriptions for the built-in coloring pages.
//
//go:embed lineart/*/*.png themes/*.theme
var embedded embed.FS

// FS exposes the embedded files. Line art lives under lineart/<theme>/ and
// theme descriptions under themes/<theme>.theme.
func FS() fs.FS { return embedded }
