package drawing

import (
	"image"
	"testing"

	"github.com/fogleman/gg"
)

func TestScaleImageInsideEqual(t *testing.T) {
	result := ScaleImageInside(image.Rect(0, 0, 1920, 1080), 1920, 1080)
	want := image.Rect(0, 0, 1920, 1080)
	if result != want {
		t.Fatalf(`ScaleImageInside result = %v, want %v`, result, want)
	}
}

func TestScaleImageInsidePortraitIntoLandscape(t *testing.T) {
	// Height limits, width shrinks in proportion
	result := ScaleImageInside(image.Rect(0, 0, 1080, 1920), 640, 480)
	want := image.Rect(0, 0, 270, 480)
	if result != want {
		t.Fatalf(`ScaleImageInside result = %v, want %v`, result, want)
	}
	if got := ScaleImageInside(image.Rectangle{}, 640, 480); got != (image.Rectangle{}) {
		t.Fatalf("empty bounds should scale to empty, got %v", got)
	}
}

func TestCentre(t *testing.T) {
	got := Centre(image.Rect(0, 0, 270, 480), image.Rect(0, 0, 640, 480))
	want := image.Rect(185, 0, 455, 480)
	if got != want {
		t.Fatalf("Centre = %v, want %v", got, want)
	}
}

func TestRendererDrawsCommands(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	dc := gg.NewContext(100, 60)
	white := ColourNameToRGBA["white"]
	err = r.Render(dc, []Cmd{
		FillRect{Rect: image.Rect(0, 0, 100, 20), Colour: ColourNameToRGBA["band"]},
		HGradient{Rect: image.Rect(0, 20, 100, 40), From: ColourNameToRGBA["clear"], To: ColourNameToRGBA["shadow"]},
		StrokeRect{Rect: image.Rect(0, 40, 100, 60), Colour: white},
		Line{X0: 0, Y0: 50, X1: 100, Y1: 50, Colour: white},
		Text{X: 50, Y: 15, S: "GPS", Size: 12, Bold: true, Align: AlignCentre, Colour: white},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := dc.Image()
	if _, _, _, a := img.At(5, 5).RGBA(); a != 0xffff {
		t.Fatalf("band pixel not opaque, alpha=%x", a)
	}
	_, _, _, left := img.At(1, 30).RGBA()
	_, _, _, right := img.At(98, 30).RGBA()
	if left >= right {
		t.Fatalf("gradient should darken to the right: left=%x right=%x", left, right)
	}
	if r1, _, _, _ := img.At(50, 50).RGBA(); r1 == 0 {
		t.Fatalf("line not drawn")
	}
}

func TestFaceCache(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	a, _ := r.Face(24, false)
	b, _ := r.Face(24, false)
	c, _ := r.Face(24, true)
	if a != b {
		t.Fatalf("expected cached face for same size and weight")
	}
	if a == c {
		t.Fatalf("bold and regular must be distinct faces")
	}
}
