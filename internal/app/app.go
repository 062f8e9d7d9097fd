// Package app wires the camera, location and clock producers to the shared
// readout and exposes the user actions a front end can trigger.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/clock"
	"github.com/devonepao/geo-cam/internal/drawing"
	"github.com/devonepao/geo-cam/internal/export"
	"github.com/devonepao/geo-cam/internal/frame"
	"github.com/devonepao/geo-cam/internal/hud"
	"github.com/devonepao/geo-cam/internal/location"
)

// ErrCaptureDisabled is returned by Capture and Flip while no camera session
// exists. Only Retry recovers.
var ErrCaptureDisabled = errors.New("app: capture disabled until the camera is available")

// Prompt is the permission / retry UI of a front end.
type Prompt interface {
	ShowPermissionPrompt(err error)
	HidePermissionPrompt()
	SetCaptureEnabled(enabled bool)
}

type Config struct {
	Device   camera.Device
	Facing   camera.Facing
	Location location.Provider // nil when the platform has no location capability
	Saver    export.Saver
	Renderer *drawing.Renderer

	LocationOptions location.Options
	ClockInterval   time.Duration
	Brand           string
	Prefix          string
	Quality         int
	Now             func() time.Time
	Logger          *slog.Logger
}

// Controller is the session: one camera source, one location watch, one
// clock and the readout they feed.
type Controller struct {
	State      *hud.State
	Source     *camera.Source
	Tracker    *location.Tracker
	Clock      *clock.Clock
	Compositor *frame.Compositor
	Saver      export.Saver

	logger *slog.Logger

	mu          sync.Mutex
	prompts     []Prompt
	previews    []camera.PreviewSink
	promptErr   error
	enabled     bool
	clockCancel context.CancelFunc
	clockDone   chan struct{}
	lastSaved   string
}

func New(cfg Config) (*Controller, error) {
	if cfg.Device == nil {
		return nil, errors.New("app: no camera device")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		r, err := drawing.NewRenderer()
		if err != nil {
			return nil, err
		}
		renderer = r
	}
	saver := cfg.Saver
	if saver == nil {
		saver = &export.Memory{}
	}
	opts := cfg.LocationOptions
	if opts == (location.Options{}) {
		opts = location.DefaultOptions()
	}

	c := &Controller{State: hud.NewState(), Saver: saver, logger: logger}
	c.Source = camera.NewSource(cfg.Device, c, cfg.Facing, logger.With("component", "camera"))
	c.Tracker = location.NewTracker(cfg.Location, c.State, opts, logger.With("component", "location"))
	c.Clock = clock.New(func(s clock.Sample) { c.State.SetDateTime(s.String()) })
	if cfg.ClockInterval > 0 {
		c.Clock.Interval = cfg.ClockInterval
	}
	if cfg.Now != nil {
		c.Clock.Now = cfg.Now
	}

	c.Compositor = frame.NewCompositor(c.State, renderer, cfg.Brand)
	if cfg.Prefix != "" {
		c.Compositor.Prefix = cfg.Prefix
	}
	if cfg.Quality > 0 {
		c.Compositor.Quality = cfg.Quality
	}
	if cfg.Now != nil {
		c.Compositor.Now = cfg.Now
	}
	return c, nil
}

// AddSurface attaches a live readout display.
func (c *Controller) AddSurface(s hud.Surface) {
	c.State.Attach(s)
}

// AddPrompt attaches a front end's prompt and replays the current state.
func (c *Controller) AddPrompt(p Prompt) {
	c.mu.Lock()
	c.prompts = append(c.prompts, p)
	err, enabled := c.promptErr, c.enabled
	c.mu.Unlock()
	if err != nil {
		p.ShowPermissionPrompt(err)
	} else {
		p.HidePermissionPrompt()
	}
	p.SetCaptureEnabled(enabled)
}

// AddPreview attaches a live preview. It receives every new stream.
func (c *Controller) AddPreview(s camera.PreviewSink) {
	c.mu.Lock()
	c.previews = append(c.previews, s)
	c.mu.Unlock()
	if sess := c.Source.Session(); sess != nil {
		s.Attach(sess.Stream, sess.Facing)
	}
}

// Attach implements camera.PreviewSink by fanning the stream out.
func (c *Controller) Attach(s camera.Stream, f camera.Facing) {
	c.mu.Lock()
	previews := append([]camera.PreviewSink(nil), c.previews...)
	c.mu.Unlock()
	for _, p := range previews {
		p.Attach(s, f)
	}
}

func (c *Controller) snapshotPrompts() []Prompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Prompt(nil), c.prompts...)
}

func (c *Controller) cameraFailed(err error) {
	c.mu.Lock()
	c.promptErr = err
	c.enabled = false
	c.mu.Unlock()
	for _, p := range c.snapshotPrompts() {
		p.ShowPermissionPrompt(err)
		p.SetCaptureEnabled(false)
	}
}

func (c *Controller) cameraReady() {
	c.mu.Lock()
	c.promptErr = nil
	c.enabled = true
	c.mu.Unlock()
	for _, p := range c.snapshotPrompts() {
		p.HidePermissionPrompt()
		p.SetCaptureEnabled(true)
	}
}

// Init starts the camera, then the location watch and the clock. A camera
// failure shows the permission prompt, disables capture and is returned; the
// rest of the sequence is not run until Retry succeeds.
func (c *Controller) Init(ctx context.Context) error {
	if err := c.Source.Start(ctx, c.Source.Facing()); err != nil {
		c.cameraFailed(err)
		return fmt.Errorf("init camera: %w", err)
	}
	c.cameraReady()

	if err := c.Tracker.Start(); err != nil {
		// the coordinates label already shows the failure
		c.logger.Warn("location start failed", "error", err)
	}
	c.startClock()
	return nil
}

// LocationUnsupported reports that the platform turned out to have no
// location capability.
func (c *Controller) LocationUnsupported() {
	c.Tracker.Unsupported()
}

// Retry re-runs the full init sequence.
func (c *Controller) Retry(ctx context.Context) error {
	c.logger.Info("retry requested")
	return c.Init(ctx)
}

// Flip switches to the other lens of a live session.
func (c *Controller) Flip(ctx context.Context) error {
	if !c.CaptureEnabled() {
		return ErrCaptureDisabled
	}
	if err := c.Source.Toggle(ctx); err != nil {
		c.cameraFailed(err)
		return fmt.Errorf("flip camera: %w", err)
	}
	c.cameraReady()
	return nil
}

func (c *Controller) startClock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clockCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.clockCancel = cancel
	c.clockDone = done
	go func() {
		defer close(done)
		c.Clock.Run(ctx)
	}()
}

// CaptureEnabled reports whether a camera session is live.
func (c *Controller) CaptureEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Facing is the current lens.
func (c *Controller) Facing() camera.Facing {
	return c.Source.Facing()
}

// Frame is the latest video frame, nil when there is none.
func (c *Controller) Frame() image.Image {
	return c.Source.Frame()
}

// TakePhoto composes the current frame and readout without saving.
func (c *Controller) TakePhoto() (*frame.Photo, error) {
	if !c.CaptureEnabled() {
		return nil, ErrCaptureDisabled
	}
	return c.Compositor.Capture(c.Source.Frame())
}

// Capture composes and saves a photo, returning where it was saved.
func (c *Controller) Capture(ctx context.Context) (*frame.Photo, string, error) {
	photo, err := c.TakePhoto()
	if err != nil {
		return nil, "", err
	}
	where, err := c.Saver.Save(ctx, photo.Name, photo.Data)
	if err != nil {
		return photo, "", fmt.Errorf("save %s: %w", photo.Name, err)
	}
	c.mu.Lock()
	c.lastSaved = where
	c.mu.Unlock()
	c.logger.Info("photo captured", "name", photo.Name, "width", photo.Size.X, "height", photo.Size.Y, "orientation", photo.Plan.Orientation)
	return photo, where, nil
}

// LastSaved is where the most recent photo went.
func (c *Controller) LastSaved() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

// Close stops the camera, the location watch and the clock.
func (c *Controller) Close() {
	c.Source.Stop()
	c.Tracker.Stop()
	c.mu.Lock()
	cancel, done := c.clockCancel, c.clockDone
	c.clockCancel, c.clockDone = nil, nil
	c.enabled = false
	c.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}
