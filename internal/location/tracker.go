package location

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/devonepao/geo-cam/internal/hud"
)

// Tracker subscribes to a Provider and writes the coordinates, altitude and
// accuracy fields of the overlay.
type Tracker struct {
	provider Provider
	display  hud.Surface
	opts     Options
	logger   *slog.Logger

	mu       sync.Mutex
	id       WatchID
	watching bool
	// absent latches once the capability is reported missing. outMu orders
	// callback writes against it.
	absent atomic.Bool
	outMu  sync.Mutex
}

// NewTracker returns a tracker. A nil provider means the platform has no
// location capability.
func NewTracker(p Provider, display hud.Surface, opts Options, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{provider: p, display: display, opts: opts, logger: logger}
}

// Start begins the watch. Calling it again while watching does nothing.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.provider == nil || t.absent.Load() {
		t.display.SetCoordinates(NotSupported)
		t.logger.Warn("location capability absent")
		return nil
	}
	if t.watching {
		return nil
	}
	t.display.SetCoordinates(Acquiring)
	id, err := t.provider.Watch(t.opts, t.onFix, t.onError)
	if err != nil {
		t.display.SetCoordinates(ErrorText(err))
		return fmt.Errorf("start location watch: %w", err)
	}
	t.id = id
	t.watching = true
	t.logger.Info("location watch started", "id", id, "highAccuracy", t.opts.HighAccuracy, "timeout", t.opts.Timeout)
	return nil
}

// Stop clears the watch.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.watching {
		return
	}
	t.provider.ClearWatch(t.id)
	t.watching = false
	t.logger.Info("location watch cleared", "id", t.id)
}

// Unsupported is for providers that learn late that the platform has no
// location capability, such as a browser without geolocation. It clears any
// watch and pins the coordinates label to NotSupported; later Starts keep it
// there.
func (t *Tracker) Unsupported() {
	t.outMu.Lock()
	t.absent.Store(true)
	t.display.SetCoordinates(NotSupported)
	t.outMu.Unlock()

	t.mu.Lock()
	if t.watching {
		t.provider.ClearWatch(t.id)
		t.watching = false
		t.logger.Info("location watch cleared", "id", t.id)
	}
	t.mu.Unlock()
	t.logger.Warn("location capability absent")
}

// Watching reports whether a subscription exists.
func (t *Tracker) Watching() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.watching
}

func (t *Tracker) onFix(f Fix) {
	t.outMu.Lock()
	defer t.outMu.Unlock()
	if t.absent.Load() {
		return
	}
	t.display.SetCoordinates(FormatCoordinates(f.Latitude, f.Longitude))
	t.display.SetAltitude(FormatAltitude(f.Altitude))
	t.display.SetAccuracy(FormatAccuracy(f.Accuracy))
}

// onError only touches the coordinates label; the watch stays open so a
// later fix recovers the display.
func (t *Tracker) onError(err error) {
	t.outMu.Lock()
	defer t.outMu.Unlock()
	if t.absent.Load() {
		return
	}
	t.logger.Warn("location fix failed", "error", err)
	t.display.SetCoordinates(ErrorText(err))
}
