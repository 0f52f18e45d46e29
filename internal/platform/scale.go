package platform

import (
	"math"
	"os"
	"strconv"
	"strings"
)

// DeviceScale reports how many device pixels make up one logical pixel.
// COLORBOOK_SCALE overrides the value probed from the display server. The
// result is always at least 1.
func DeviceScale() float64 {
	if v := strings.TrimSpace(os.Getenv("COLORBOOK_SCALE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return sanitizeScale(f)
		}
	}
	f, err := probeScale()
	if err != nil {
		return 1
	}
	return sanitizeScale(f)
}

// sanitizeScale rounds to quarter steps and clamps to [1, 4].
func sanitizeScale(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 {
		return 1
	}
	f = math.Round(f*4) / 4
	if f > 4 {
		return 4
	}
	return f
}
