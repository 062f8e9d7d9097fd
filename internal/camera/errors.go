package camera

import (
	"errors"
	"fmt"
)

// Cause classifies why a stream could not be acquired.
type Cause string

const (
	PermissionDenied Cause = "permission-denied"
	NotFound         Cause = "not-found"
	NotReadable      Cause = "not-readable"
	Overconstrained  Cause = "overconstrained"
)

// CaptureError is returned by Source.Start when a device refuses to open.
type CaptureError struct {
	Cause  Cause
	Facing Facing
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("camera %s: %s: %v", e.Facing, e.Cause, e.Err)
	}
	return fmt.Sprintf("camera %s: %s", e.Facing, e.Cause)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Is matches any CaptureError with the same cause, so callers can write
// errors.Is(err, camera.ErrPermissionDenied).
func (e *CaptureError) Is(target error) bool {
	t, ok := target.(*CaptureError)
	return ok && t.Cause == e.Cause
}

var (
	ErrPermissionDenied = &CaptureError{Cause: PermissionDenied}
	ErrNotFound         = &CaptureError{Cause: NotFound}
	ErrNotReadable      = &CaptureError{Cause: NotReadable}
	ErrOverconstrained  = &CaptureError{Cause: Overconstrained}
)

// classify turns whatever a device returned into a CaptureError. Errors that
// carry no cause are treated as a busy or broken device.
func classify(err error, f Facing) *CaptureError {
	var ce *CaptureError
	if errors.As(err, &ce) {
		if ce.Facing != f {
			return &CaptureError{Cause: ce.Cause, Facing: f, Err: ce.Err}
		}
		return ce
	}
	return &CaptureError{Cause: NotReadable, Facing: f, Err: err}
}
