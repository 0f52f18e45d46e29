//go:build !linux && !freebsd && !openbsd && !netbsd

package platform

import "errors"

func probeScale() (float64, error) {
	return 0, errors.New("device scale probe unsupported")
}
