package platform

import "testing"

func TestSanitizeScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{0.5, 1},
		{1, 1},
		{1.1, 1},
		{1.4, 1.5},
		{2, 2},
		{9, 4},
	}
	for _, tt := range tests {
		if got := sanitizeScale(tt.in); got != tt.want {
			t.Fatalf("sanitizeScale(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestDeviceScaleEnvOverride(t *testing.T) {
	t.Setenv("COLORBOOK_SCALE", "2")
	if got := DeviceScale(); got != 2 {
		t.Fatalf("got %g", got)
	}
}
