//go:build gocv

package camera

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// GoCVDevice opens OpenCV capture devices, one index per lens.
type GoCVDevice struct {
	FrontIndex int
	BackIndex  int
}

// NewGoCVDevice returns a device backed by OpenCV.
func NewGoCVDevice(front, back int) (Device, error) {
	return &GoCVDevice{FrontIndex: front, BackIndex: back}, nil
}

func (d *GoCVDevice) index(f Facing) int {
	if f == Front {
		return d.FrontIndex
	}
	return d.BackIndex
}

func (d *GoCVDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := d.index(c.Facing)
	if idx < 0 {
		return nil, &CaptureError{Cause: NotFound, Facing: c.Facing, Err: fmt.Errorf("no device configured for %s", c.Facing)}
	}
	if runtime.GOOS == "linux" {
		if _, err := ProbeDevice(fmt.Sprintf("/dev/video%d", idx)); err != nil {
			return nil, err
		}
	}

	vc, err := gocv.OpenVideoCapture(idx)
	if err != nil {
		return nil, &CaptureError{Cause: NotFound, Facing: c.Facing, Err: err}
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, &CaptureError{Cause: NotReadable, Facing: c.Facing, Err: fmt.Errorf("camera %d is not open", idx)}
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(c.IdealWidth))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(c.IdealHeight))
	// opening a device can take seconds; honour a cancel that came meanwhile
	if err := ctx.Err(); err != nil {
		vc.Close()
		return nil, err
	}

	s := &gocvStream{vc: vc, done: make(chan struct{}), exited: make(chan struct{})}
	s.track = &gocvTrack{stream: s}
	go s.run()
	return s, nil
}

type gocvStream struct {
	vc     *gocv.VideoCapture
	track  *gocvTrack
	frame  atomic.Pointer[image.Image]
	done   chan struct{}
	exited chan struct{}
}

func (s *gocvStream) Tracks() []Track { return []Track{s.track} }

func (s *gocvStream) Frame() image.Image {
	p := s.frame.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (s *gocvStream) run() {
	defer close(s.exited)
	img := gocv.NewMat()
	defer img.Close()
	for {
		select {
		case <-s.done:
			return
		default:
		}
		if ok := s.vc.Read(&img); !ok || img.Empty() {
			// unplugged or stalled
			if !backoff(s.done, readBackoff) {
				return
			}
			continue
		}
		frame, err := img.ToImage()
		if err != nil {
			if !backoff(s.done, readBackoff) {
				return
			}
			continue
		}
		s.frame.Store(&frame)
	}
}

type gocvTrack struct {
	stream  *gocvStream
	once    sync.Once
	stopped atomic.Bool
}

func (t *gocvTrack) Kind() string { return "video" }

// Stop waits for the read loop to exit before closing the capture so the
// device is free when Stop returns.
func (t *gocvTrack) Stop() {
	t.once.Do(func() {
		close(t.stream.done)
		<-t.stream.exited
		t.stream.vc.Close()
		t.stopped.Store(true)
	})
}

func (t *gocvTrack) Stopped() bool { return t.stopped.Load() }
