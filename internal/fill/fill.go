// Package fill implements a tolerant, queue-based flood fill over raster
// buffers.
package fill

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/example/colorbook/internal/raster"
)

// DefaultTolerance leaves no slivers along anti-aliased line art edges while
// still stopping at dark outlines.
const DefaultTolerance = 35.0

// MaxDistance is the largest possible RGB distance, sqrt(3 * 255²).
var MaxDistance = math.Sqrt(3 * 255 * 255)

// ErrOutOfBounds is returned when the seed does not address a pixel.
var ErrOutOfBounds = errors.New("fill: seed outside raster")

// Connectivity selects which neighbours a filled pixel spreads to.
type Connectivity int

const (
	// Connectivity4 spreads to the four axis-aligned neighbours. A one
	// pixel diagonal line is enough to stop it.
	Connectivity4 Connectivity = 4
	// Connectivity8 also spreads diagonally and so leaks through diagonal
	// outlines.
	Connectivity8 Connectivity = 8
)

// ParseConnectivity accepts "4" or "8".
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "4", "":
		return Connectivity4, nil
	case "8":
		return Connectivity8, nil
	}
	return 0, fmt.Errorf("fill: connectivity must be 4 or 8, got %q", s)
}

// Options tunes a fill.
type Options struct {
	// Tolerance is the largest RGB distance from the seed colour that
	// still counts as part of the region.
	Tolerance    float64
	Connectivity Connectivity
}

// DefaultOptions returns a 4-connected fill with DefaultTolerance.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, Connectivity: Connectivity4}
}

// Result is the outcome of a fill. When Changed is zero, Buffer is the
// input buffer and callers should not record a new history entry.
type Result struct {
	Buffer  *raster.Buffer
	Changed int
}

// Distance is the Euclidean distance between the RGB parts of a and b.
func Distance(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

var (
	offsets4 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	offsets8 = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Fill recolours the region connected to (x, y) whose pixels lie within
// opts.Tolerance of the seed's original colour. The fill colour is always
// written fully opaque. buf is never modified.
func Fill(buf *raster.Buffer, x, y int, c color.NRGBA, opts Options) (Result, error) {
	if !buf.In(x, y) {
		return Result{Buffer: buf}, fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, x, y, buf.Width(), buf.Height())
	}
	c.A = 255
	seed := buf.At(x, y)
	if seed.A == 255 && Distance(seed, c) == 0 {
		return Result{Buffer: buf}, nil
	}
	tolerance := opts.Tolerance
	if tolerance < 0 {
		tolerance = 0
	}
	offsets := offsets4
	if opts.Connectivity == Connectivity8 {
		offsets = offsets8
	}

	w, h := buf.Width(), buf.Height()
	dst := buf.Mutable()
	visited := make([]bool, w*h)
	queue := make([]int, 0, 256)
	queue = append(queue, y*w+x)
	visited[y*w+x] = true

	changed := 0
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		px, py := idx%w, idx/w
		if Distance(buf.At(px, py), seed) > tolerance {
			continue
		}
		i := idx * 4
		p := dst.Pix[i : i+4 : i+4]
		if p[0] != c.R || p[1] != c.G || p[2] != c.B || p[3] != 255 {
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 255
			changed++
		}
		for _, o := range offsets {
			nx, ny := px+o[0], py+o[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			n := ny*w + nx
			if visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	if changed == 0 {
		return Result{Buffer: buf}, nil
	}
	return Result{Buffer: raster.Freeze(dst), Changed: changed}, nil
}
