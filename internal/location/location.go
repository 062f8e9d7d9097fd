// Package location keeps a continuous subscription to position fixes and
// formats them for the overlay.
package location

import (
	"fmt"
	"sync"
	"time"
)

// Fix is one location sample. Altitude and Accuracy are nil when the
// receiver did not report them.
type Fix struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64 // metres
	Accuracy  *float64 // horizontal radius, metres
	Timestamp time.Time
}

// Options mirror the knobs of a continuous position watch.
type Options struct {
	HighAccuracy bool
	// Timeout is the longest wait for each fix before a Timeout error.
	Timeout time.Duration
	// MaximumAge is how old a cached fix may be to be delivered. Zero means
	// never deliver a cached fix.
	MaximumAge time.Duration
}

// DefaultOptions is high accuracy, a 5 s per-fix timeout and no cache.
func DefaultOptions() Options {
	return Options{HighAccuracy: true, Timeout: 5 * time.Second, MaximumAge: 0}
}

// WatchID identifies a subscription on a Provider.
type WatchID int

// Provider is a continuous location capability.
type Provider interface {
	Watch(opts Options, onFix func(Fix), onError func(error)) (WatchID, error)
	ClearWatch(id WatchID)
}

// ErrorCode classifies a failed fix.
type ErrorCode int

const (
	PermissionDenied ErrorCode = iota + 1
	PositionUnavailable
	Timeout
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission-denied"
	case PositionUnavailable:
		return "position-unavailable"
	case Timeout:
		return "timeout"
	}
	return "unknown"
}

// PositionError is delivered to a watch's error callback.
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return "location: " + e.Code.String()
	}
	return fmt.Sprintf("location: %s: %s", e.Code, e.Message)
}

func (e *PositionError) Is(target error) bool {
	t, ok := target.(*PositionError)
	return ok && t.Code == e.Code
}

var (
	ErrPermissionDenied    = &PositionError{Code: PermissionDenied}
	ErrPositionUnavailable = &PositionError{Code: PositionUnavailable}
	ErrTimeout             = &PositionError{Code: Timeout}
)

// watch is the per-subscription bookkeeping shared by providers: it owns the
// callbacks and the per-fix timeout.
type watch struct {
	mu      sync.Mutex
	onFix   func(Fix)
	onError func(error)
	timeout time.Duration
	timer   *time.Timer
	closed  bool
}

func newWatch(opts Options, onFix func(Fix), onError func(error)) *watch {
	w := &watch{onFix: onFix, onError: onError, timeout: opts.Timeout}
	if w.onFix == nil {
		w.onFix = func(Fix) {}
	}
	if w.onError == nil {
		w.onError = func(error) {}
	}
	if w.timeout > 0 {
		w.mu.Lock()
		w.timer = time.AfterFunc(w.timeout, w.expire)
		w.mu.Unlock()
	}
	return w
}

func (w *watch) fix(f Fix) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.timeout)
	}
	w.mu.Unlock()
	w.onFix(f)
}

func (w *watch) fail(err error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if !closed {
		w.onError(err)
	}
}

// expire reports a timeout and re-arms; the watch keeps running.
func (w *watch) expire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer.Reset(w.timeout)
	w.mu.Unlock()
	w.onError(&PositionError{Code: Timeout, Message: fmt.Sprintf("no fix within %s", w.timeout)})
}

func (w *watch) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
}
