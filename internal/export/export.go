// Package export writes finished pages to disk as PNG images or printable
// PDF documents.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Filename returns the save name for a page of theme taken at t.
func Filename(theme string, t time.Time) string {
	return fmt.Sprintf("coloring-%s-%d.png", slug(theme), t.UnixMilli())
}

func slug(theme string) string {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return "page"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ' ' || r == os.PathSeparator:
			return '-'
		case r < 0x20:
			return -1
		}
		return r
	}, theme)
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes img into dir using Filename and returns the written path.
func SavePNG(dir, theme string, img image.Image, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	path := filepath.Join(dir, Filename(theme, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// PrintTitle is the heading placed above a printed page.
func PrintTitle(themeName string) string {
	if themeName == "" {
		return "My Coloring"
	}
	return "My Coloring: " + themeName
}

const (
	pageMargin  = 15.0
	titleHeight = 12.0
)

// WritePDF lays out img on a single A4 page below title, scaled to fit the
// printable area and centred.
func WritePDF(w io.Writer, title string, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("pdf: empty image")
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("Colorbook", true)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(pageW-2*pageMargin, titleHeight, pdf.UnicodeTranslatorFromDescriptor("")(title), "", 0, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("page", opts, &buf)
	x, y, iw, ih := fitBox(float64(b.Dx()), float64(b.Dy()),
		pageMargin, pageMargin+titleHeight+4,
		pageW-2*pageMargin, pageH-2*pageMargin-titleHeight-4)
	pdf.ImageOptions("page", x, y, iw, ih, false, opts, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

// SavePDF writes the printable document to path.
func SavePDF(path, title string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePDF(f, title, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fitBox scales a w x h image uniformly into the box at (bx, by) of size
// bw x bh and centres it.
func fitBox(w, h, bx, by, bw, bh float64) (x, y, fw, fh float64) {
	k := bw / w
	if s := bh / h; s < k {
		k = s
	}
	fw, fh = w*k, h*k
	return bx + (bw-fw)/2, by + (bh-fh)/2, fw, fh
}
