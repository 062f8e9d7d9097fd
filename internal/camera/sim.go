package camera

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"
)

// SimDevice produces a moving test pattern. It stands in for real hardware
// in development and tests.
type SimDevice struct {
	FPS int
	// Portrait swaps the ideal width and height, as a phone held upright does.
	Portrait bool
	// Fail, when set, makes every Open fail with that cause.
	Fail Cause

	mu     sync.Mutex
	active int
	opened int
}

func (d *SimDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if d.Fail != "" {
		return nil, &CaptureError{Cause: d.Fail, Facing: c.Facing}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := c.IdealWidth, c.IdealHeight
	if w <= 0 || h <= 0 {
		return nil, &CaptureError{Cause: Overconstrained, Facing: c.Facing}
	}
	if d.Portrait {
		w, h = h, w
	}
	fps := d.FPS
	if fps <= 0 {
		fps = 10
	}

	d.mu.Lock()
	d.active++
	d.opened++
	d.mu.Unlock()

	s := &simStream{
		base: testPattern(w, h, c.Facing),
		done: make(chan struct{}),
	}
	s.track = &simTrack{stop: func() {
		close(s.done)
		d.mu.Lock()
		d.active--
		d.mu.Unlock()
	}}
	s.publish(0)
	go s.run(time.Second / time.Duration(fps))
	return s, nil
}

// Active returns how many streams are currently open.
func (d *SimDevice) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Opened returns how many streams have ever been opened.
func (d *SimDevice) Opened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened
}

type simTrack struct {
	once    sync.Once
	stopped atomic.Bool
	stop    func()
}

func (t *simTrack) Kind() string { return "video" }

func (t *simTrack) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		t.stop()
	})
}

func (t *simTrack) Stopped() bool { return t.stopped.Load() }

type simStream struct {
	base  *image.RGBA
	track *simTrack
	frame atomic.Pointer[image.RGBA]
	done  chan struct{}
}

func (s *simStream) Tracks() []Track { return []Track{s.track} }

func (s *simStream) Frame() image.Image {
	f := s.frame.Load()
	if f == nil {
		return nil
	}
	return f
}

func (s *simStream) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	n := 1
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.publish(n)
			n++
		}
	}
}

// publish copies the base pattern and sweeps a bar across it.
func (s *simStream) publish(n int) {
	b := s.base.Bounds()
	img := image.NewRGBA(b)
	copy(img.Pix, s.base.Pix)
	barW := b.Dx() / 40
	if barW < 1 {
		barW = 1
	}
	x := (n * barW) % b.Dx()
	draw.Draw(img, image.Rect(x, 0, x+barW, b.Dy()), &image.Uniform{color.RGBA{0xEE, 0xEE, 0xEC, 0xFF}}, image.Point{}, draw.Src)
	s.frame.Store(img)
}

// testPattern is a diagonal gradient, tinted blue for the back lens and
// amber for the front so a flip is visible.
func testPattern(w, h int, f Facing) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) * 255 / (w + h))
			i := img.PixOffset(x, y)
			p := img.Pix[i : i+4 : i+4]
			if f == Front {
				p[0], p[1], p[2] = 0x80+v/2, 0x40+v/3, v/4
			} else {
				p[0], p[1], p[2] = v/4, 0x40+v/3, 0x80+v/2
			}
			p[3] = 0xFF
		}
	}
	return img
}
