// Package clipboard moves colorings to and from the system clipboard as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
)

// ErrEmpty reports a clipboard without image data.
var ErrEmpty = errors.New("clipboard does not contain image data")

func encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("no image to copy")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}
