// Package camera owns the camera stream lifecycle: acquiring a device stream
// for a facing direction, switching direction and releasing the hardware.
package camera

import (
	"context"
	"image"
	"time"
)

// Facing selects the physical lens.
type Facing int

const (
	Back  Facing = iota // environment-facing
	Front               // user-facing
)

func (f Facing) String() string {
	switch f {
	case Front:
		return "user"
	case Back:
		return "environment"
	}
	return "unknown"
}

// Opposite returns the other lens.
func (f Facing) Opposite() Facing {
	if f == Front {
		return Back
	}
	return Front
}

// ParseFacing accepts "user"/"front" and "environment"/"back".
func ParseFacing(s string) (Facing, bool) {
	switch s {
	case "user", "front":
		return Front, true
	case "environment", "back":
		return Back, true
	}
	return Back, false
}

// Ideal capture resolution requested from every device.
const (
	IdealWidth  = 1920
	IdealHeight = 1080
)

// Constraints is what a device is asked to satisfy when opening a stream.
type Constraints struct {
	Facing      Facing
	IdealWidth  int
	IdealHeight int
}

// DefaultConstraints returns the ideal 1920x1080 constraints for a facing.
func DefaultConstraints(f Facing) Constraints {
	return Constraints{Facing: f, IdealWidth: IdealWidth, IdealHeight: IdealHeight}
}

// Track is one hardware track of a stream. Stop releases it and is idempotent.
type Track interface {
	Kind() string
	Stop()
	Stopped() bool
}

// Stream is an open video stream.
type Stream interface {
	Tracks() []Track
	// Frame returns the latest decoded frame at native resolution, or nil
	// while the stream is still warming up.
	Frame() image.Image
}

// Device is a video capture capability.
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// PreviewSink receives the stream that should be shown live.
type PreviewSink interface {
	Attach(s Stream, f Facing)
}

// StopAll stops every track of s.
func StopAll(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}

// readBackoff is how long a capture loop waits after a failed read.
const readBackoff = 50 * time.Millisecond

// backoff waits d or until done closes, reporting whether to keep going.
func backoff(done <-chan struct{}, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-done:
		return false
	case <-t.C:
		return true
	}
}
