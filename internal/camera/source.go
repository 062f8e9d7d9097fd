package camera

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the one active capture on a Source.
type Session struct {
	ID        string
	Facing    Facing
	Stream    Stream
	StartedAt time.Time
}

// Source manages at most one open Session on a Device.
type Source struct {
	dev     Device
	sink    PreviewSink
	logger  *slog.Logger
	mu      sync.Mutex
	facing  Facing
	session *Session
}

// NewSource returns a Source that will open streams on dev and hand them to
// sink. sink may be nil.
func NewSource(dev Device, sink PreviewSink, facing Facing, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{dev: dev, sink: sink, facing: facing, logger: logger}
}

// Start releases the current session, if any, and opens a new one facing f.
// Failures come back as *CaptureError and leave the source without a session.
func (s *Source) Start(ctx context.Context, f Facing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx, f)
}

func (s *Source) startLocked(ctx context.Context, f Facing) error {
	s.releaseLocked()
	s.facing = f

	stream, err := s.dev.Open(ctx, DefaultConstraints(f))
	if err != nil {
		ce := classify(err, f)
		s.logger.Warn("camera start failed", "facing", f, "cause", ce.Cause, "error", ce.Err)
		return ce
	}
	s.session = &Session{
		ID:        uuid.New().String(),
		Facing:    f,
		Stream:    stream,
		StartedAt: time.Now(),
	}
	if s.sink != nil {
		s.sink.Attach(stream, f)
	}
	s.logger.Info("camera started", "facing", f, "session", s.session.ID, "tracks", len(stream.Tracks()))
	return nil
}

// Toggle flips the facing direction and restarts.
func (s *Source) Toggle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx, s.facing.Opposite())
}

// Stop releases the current session.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *Source) releaseLocked() {
	if s.session == nil {
		return
	}
	StopAll(s.session.Stream)
	s.logger.Debug("camera released", "facing", s.session.Facing, "session", s.session.ID)
	s.session = nil
}

// Facing reports the direction of the last Start, successful or not.
func (s *Source) Facing() Facing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facing
}

// Session returns the active session or nil.
func (s *Source) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Frame returns the latest frame of the active session, or nil.
func (s *Source) Frame() image.Image {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess == nil {
		return nil
	}
	return sess.Stream.Frame()
}
