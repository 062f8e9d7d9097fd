//go:build !gocv

package camera

import "errors"

// ErrNoGoCV is returned when the binary was built without -tags gocv.
var ErrNoGoCV = errors.New("camera: built without gocv support (rebuild with -tags gocv)")

// NewGoCVDevice is unavailable in this build.
func NewGoCVDevice(front, back int) (Device, error) {
	return nil, ErrNoGoCV
}
