package panel

import (
	"image"
	"reflect"
	"strings"
	"testing"

	"github.com/devonepao/geo-cam/internal/drawing"
	"github.com/devonepao/geo-cam/internal/hud"
)

var readout = hud.Readout{
	Coordinates: "37.422999, -122.084057",
	Altitude:    "123.5 m",
	Accuracy:    "±5.2 m",
	DateTime:    "Oct 15, 2026 09:41:07",
}

func TestClassify(t *testing.T) {
	cases := []struct {
		w, h int
		want Orientation
	}{
		{1920, 1080, Landscape},
		{1080, 1920, Portrait},
		{1000, 1000, Portrait},
	}
	for _, c := range cases {
		if got := Classify(c.w, c.h); got != c.want {
			t.Fatalf("Classify(%d, %d) = %v, want %v", c.w, c.h, got, c.want)
		}
		if got := Layout(c.w, c.h, readout, "").Orientation; got != c.want {
			t.Fatalf("Layout(%d, %d) took the %v path", c.w, c.h, got)
		}
	}
}

func texts(p Plan) []drawing.Text {
	var out []drawing.Text
	for _, c := range p.Cmds {
		if t, ok := c.(drawing.Text); ok {
			out = append(out, t)
		}
	}
	return out
}

func TestPortraitGeometry(t *testing.T) {
	p := PortraitLayout(1080, 1920, readout, DefaultBrand)
	if p.FontSize != 43 {
		t.Fatalf("font size = %d, want floor(1080/25)=43", p.FontSize)
	}
	if p.Bounds != image.Rect(0, 0, 1080, 344) {
		t.Fatalf("band = %v, want full width and 8x font high", p.Bounds)
	}
	fill, ok := p.Cmds[0].(drawing.FillRect)
	if !ok || fill.Rect != p.Bounds || fill.Colour.A != 0xFF {
		t.Fatalf("first command should be the opaque band, got %#v", p.Cmds[0])
	}

	ts := texts(p)
	if len(ts) != 5 {
		t.Fatalf("expected header + 4 rows, got %d texts", len(ts))
	}
	if ts[0].S != DefaultBrand || !ts[0].Bold {
		t.Fatalf("header = %+v", ts[0])
	}
	if d := ts[1].Y - ts[0].Y; d < 1.8*43-1e-9 || d > 1.8*43+1e-9 {
		t.Fatalf("gap after header = %v, want 1.8x font", d)
	}
	for i := 2; i < 5; i++ {
		if d := ts[i].Y - ts[i-1].Y; d < 1.2*43-1e-9 || d > 1.2*43+1e-9 {
			t.Fatalf("row pitch = %v, want 1.2x font", d)
		}
	}
	want := []string{
		"Coordinates: 37.422999, -122.084057",
		"Altitude: 123.5 m",
		"Accuracy: ±5.2 m",
		"Date & Time: Oct 15, 2026 09:41:07",
	}
	for i, w := range want {
		if ts[i+1].S != w || ts[i+1].Align != drawing.AlignLeft || ts[i+1].X != ts[0].X {
			t.Fatalf("row %d = %+v, want %q left-aligned", i, ts[i+1], w)
		}
	}
	if last := ts[4].Y; last >= float64(p.Bounds.Max.Y) {
		t.Fatalf("last row baseline %v outside band %v", last, p.Bounds)
	}
}

func TestLandscapeGeometry(t *testing.T) {
	if got := LandscapePanelWidth(1920); got != 576 {
		t.Fatalf("panel width for 1920 = %d, want 576", got)
	}
	if got := LandscapePanelWidth(1281); got != 384 {
		t.Fatalf("panel width for 1281 = %d, want floor(384.3)=384", got)
	}

	p := LandscapeLayout(1920, 1080, readout, DefaultBrand)
	if p.FontSize != 28 {
		t.Fatalf("font size = %d, want 28", p.FontSize)
	}
	want := image.Rect(1316, 674, 1892, 1052)
	if p.Bounds != want {
		t.Fatalf("panel = %v, want %v", p.Bounds, want)
	}
	if p.Bounds.Max.X != 1920-28 || p.Bounds.Max.Y != 1080-28 {
		t.Fatalf("panel not anchored bottom-right: %v", p.Bounds)
	}

	g, ok := p.Cmds[0].(drawing.HGradient)
	if !ok {
		t.Fatalf("first command should be the shadow gradient, got %T", p.Cmds[0])
	}
	if g.Rect.Max.X != p.Bounds.Min.X || g.Rect.Min.X >= g.Rect.Max.X || g.From.A >= g.To.A {
		t.Fatalf("shadow should extend left of the panel, darkening towards it: %+v", g)
	}

	ts := texts(p)
	if len(ts) != 9 {
		t.Fatalf("expected header + 4x(label, value), got %d", len(ts))
	}
	if ts[0].Align != drawing.AlignCentre || ts[0].X != float64(1316+576/2) {
		t.Fatalf("header not centred: %+v", ts[0])
	}
	for i := 0; i < 4; i++ {
		label, value := ts[1+2*i], ts[2+2*i]
		if label.S != Labels[i] || label.Align != drawing.AlignLeft || label.Bold {
			t.Fatalf("row %d label = %+v", i, label)
		}
		if value.Align != drawing.AlignRight || !value.Bold || value.X != float64(1892-28) {
			t.Fatalf("row %d value = %+v", i, value)
		}
		if i > 0 {
			if d := label.Y - ts[2*i-1].Y; d < 70-1e-9 || d > 70+1e-9 {
				t.Fatalf("row pitch = %v, want 70", d)
			}
		}
	}
	if ts[8].S != readout.DateTime {
		t.Fatalf("last value = %q", ts[8].S)
	}

	lines := 0
	for _, c := range p.Cmds {
		if _, ok := c.(drawing.Line); ok {
			lines++
		}
	}
	if lines != 4 {
		t.Fatalf("expected a separator per row, got %d", lines)
	}
}

func TestLandscapeFitsShortFrames(t *testing.T) {
	for _, sz := range []image.Point{{1920, 300}, {1920, 120}, {4000, 600}, {1281, 720}, {64, 16}} {
		p := LandscapeLayout(sz.X, sz.Y, readout, DefaultBrand)
		if !p.Bounds.In(image.Rect(0, 0, sz.X, sz.Y)) || p.Bounds.Empty() {
			t.Fatalf("%v: panel %v outside the raster", sz, p.Bounds)
		}
		if p.FontSize < 1 {
			t.Fatalf("%v: font size %d", sz, p.FontSize)
		}
	}

	p := LandscapeLayout(1920, 300, readout, DefaultBrand)
	if p.FontSize != 19 {
		t.Fatalf("font size = %d, want floor(300/15.5)=19", p.FontSize)
	}
	if p.Bounds.Max.Y != 300-19 || p.Bounds.Min.Y < 19 {
		t.Fatalf("panel %v should keep a one-font margin", p.Bounds)
	}
	if p.Bounds.Dx() != 576 {
		t.Fatalf("panel width = %d, want 576", p.Bounds.Dx())
	}
	ts := texts(p)
	if last := ts[len(ts)-1]; last.Y > float64(p.Bounds.Max.Y) {
		t.Fatalf("last row baseline %v below the panel %v", last.Y, p.Bounds)
	}
}

func TestLayoutIsDeterministic(t *testing.T) {
	a := Layout(1920, 1080, readout, "")
	b := Layout(1920, 1080, readout, "")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input produced different plans")
	}
	c := Layout(1080, 1920, readout, "Field Survey")
	if !strings.Contains(texts(c)[0].S, "Field Survey") {
		t.Fatalf("custom brand not used")
	}
}
