//go:build linux || freebsd || openbsd || netbsd

package platform

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// probeScale derives the scale from the default X screen's DPI.
func probeScale() (float64, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return 0, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return 0, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return 0, fmt.Errorf("xproto screen unavailable")
	}
	return dpiScale(screen.WidthInPixels, screen.WidthInMillimeters)
}

func dpiScale(px, mm uint16) (float64, error) {
	if px == 0 || mm == 0 {
		return 0, fmt.Errorf("screen reports no physical size")
	}
	dpi := float64(px) / (float64(mm) / 25.4)
	return dpi / 96, nil
}
