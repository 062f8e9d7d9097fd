package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"reflect"
	"testing"
	"time"

	"github.com/devonepao/geo-cam/internal/drawing"
	"github.com/devonepao/geo-cam/internal/hud"
	"github.com/devonepao/geo-cam/internal/panel"
)

func newCompositor(t *testing.T) (*Compositor, *hud.State) {
	t.Helper()
	r, err := drawing.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	state := hud.NewState()
	state.SetCoordinates("37.422999, -122.084057")
	state.SetAltitude("N/A")
	state.SetAccuracy("±5.2 m")
	state.SetDateTime("Oct 15, 2026 09:41:07")
	c := NewCompositor(state, r, "")
	return c, state
}

func grey(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0x80, 0x80, 0x80, 0xFF}}, image.Point{}, draw.Src)
	return img
}

func TestFilename(t *testing.T) {
	at := time.UnixMilli(1760520000123)
	if got := Filename("GeoCam", at); got != "GeoCam_1760520000123.jpg" {
		t.Fatalf("Filename = %q", got)
	}
}

func TestCaptureRejectsEmptyFrame(t *testing.T) {
	c, _ := newCompositor(t)
	for _, img := range []image.Image{nil, image.NewRGBA(image.Rect(0, 0, 0, 0)), image.NewRGBA(image.Rect(0, 0, 640, 0))} {
		if _, err := c.Capture(img); !errors.Is(err, ErrFrameNotReady) {
			t.Fatalf("expected ErrFrameNotReady for %v, got %v", img, err)
		}
	}
}

func TestCaptureLandscape(t *testing.T) {
	c, _ := newCompositor(t)
	c.Now = func() time.Time { return time.UnixMilli(1760520000123) }
	photo, err := c.Capture(grey(320, 180))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if photo.Name != "GeoCam_1760520000123.jpg" {
		t.Fatalf("name = %q", photo.Name)
	}
	if photo.Plan.Orientation != panel.Landscape {
		t.Fatalf("orientation = %v", photo.Plan.Orientation)
	}
	img, err := jpeg.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("jpeg bounds %v, want native 320x180", b)
	}
	// the panel darkens the grey frame; the top-left corner is untouched
	pr, _, _, _ := img.At(photo.Plan.Bounds.Min.X+3, photo.Plan.Bounds.Max.Y-3).RGBA()
	cr, _, _, _ := img.At(5, 5).RGBA()
	if pr >= cr {
		t.Fatalf("panel pixel %x should be darker than frame pixel %x", pr, cr)
	}
}

func TestCapturePortraitBand(t *testing.T) {
	c, _ := newCompositor(t)
	photo, err := c.Capture(grey(180, 320))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if photo.Plan.Orientation != panel.Portrait {
		t.Fatalf("orientation = %v", photo.Plan.Orientation)
	}
	img, _ := jpeg.Decode(bytes.NewReader(photo.Data))
	r, _, _, _ := img.At(179, 1).RGBA()
	if r>>8 > 0x30 {
		t.Fatalf("band should be near black at the top edge, got %x", r>>8)
	}
	r, _, _, _ = img.At(90, 300).RGBA()
	if r>>8 < 0x70 || r>>8 > 0x90 {
		t.Fatalf("frame below the band should be untouched grey, got %x", r>>8)
	}
}

func TestCaptureUsesCurrentReadoutAndIsRepeatable(t *testing.T) {
	c, state := newCompositor(t)
	frame := grey(640, 360)
	ms := int64(1760520000000)
	c.Now = func() time.Time { ms++; return time.UnixMilli(ms) }

	a, err := c.Capture(frame)
	if err != nil {
		t.Fatalf("first capture: %v", err)
	}
	b, err := c.Capture(frame)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if !reflect.DeepEqual(a.Plan, b.Plan) || a.Readout != b.Readout {
		t.Fatalf("unchanged state should give identical layouts")
	}
	if a.Name == b.Name {
		t.Fatalf("filenames should differ by timestamp")
	}
	if a.Readout != state.Snapshot() {
		t.Fatalf("capture readout %+v differs from live state %+v", a.Readout, state.Snapshot())
	}

	state.SetAltitude("12.0 m")
	c2, err := c.Capture(frame)
	if err != nil {
		t.Fatalf("third capture: %v", err)
	}
	if c2.Readout.Altitude != "12.0 m" {
		t.Fatalf("capture did not pick up the latest readout")
	}
}

func TestNewPictureFrameOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 50, 60))
	pf, err := NewPictureFrame(src)
	if err != nil {
		t.Fatalf("NewPictureFrame: %v", err)
	}
	if pf.Bounds != image.Rect(0, 0, 40, 40) {
		t.Fatalf("bounds = %v", pf.Bounds)
	}
}
