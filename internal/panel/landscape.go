package panel

import (
	"image"

	"github.com/devonepao/geo-cam/internal/drawing"
	"github.com/devonepao/geo-cam/internal/hud"
)

// Landscape proportions. The panel is 30% of the raster width and every
// other length is a multiple of the panel's base font size.
const (
	landscapeWidthPercent = 30
	landscapeFontDivisor  = 20
	landscapeHeaderRows   = 2.0
	landscapeRowPitch     = 2.5
	landscapeHeaderY      = 1.3
	landscapeBaselineY    = 1.6
	// panel height plus a margin above and below, in font sizes
	landscapeHeightFonts = 1 + landscapeHeaderRows + 4*landscapeRowPitch + 0.5 + 2
)

// LandscapePanelWidth is floor(w*30/100).
func LandscapePanelWidth(w int) int {
	return w * landscapeWidthPercent / 100
}

// LandscapeFontSize is floor(panelWidth/20), reduced on short frames so the
// panel and its margins fit in h. It is at least 1.
func LandscapeFontSize(w, h int) int {
	f := LandscapePanelWidth(w) / landscapeFontDivisor
	f = min(f, int(float64(h)/landscapeHeightFonts))
	return max(f, 1)
}

// LandscapePanel returns the floating panel rectangle anchored one font size
// in from the bottom-right corner, clipped to the raster.
func LandscapePanel(w, h int) image.Rectangle {
	pw := LandscapePanelWidth(w)
	ff := float64(LandscapeFontSize(w, h))
	inset := ff
	ph := int(inset + landscapeHeaderRows*ff + 4*landscapeRowPitch*ff + inset/2)
	margin := int(ff)
	x := w - pw - margin
	y := h - ph - margin
	return image.Rect(x, y, x+pw, y+ph).Intersect(image.Rect(0, 0, w, h))
}

// LandscapeLayout is a translucent panel in the bottom-right corner with a
// soft shadow fading out to its left, a centred header and four rows of
// muted label on the left and bold value on the right.
func LandscapeLayout(w, h int, r hud.Readout, brand string) Plan {
	f := LandscapeFontSize(w, h)
	ff := float64(f)
	p := LandscapePanel(w, h)
	inset := ff
	left := float64(p.Min.X) + inset
	right := float64(p.Max.X) - inset
	shadow := image.Rect(p.Min.X-p.Dx()/2, p.Min.Y, p.Min.X, p.Max.Y)

	cmds := []drawing.Cmd{
		drawing.HGradient{Rect: shadow, From: colour("clear"), To: colour("shadow")},
		drawing.FillRect{Rect: p, Colour: colour("panel")},
		drawing.StrokeRect{Rect: p, Colour: colour("border"), Width: 1},
		drawing.Text{
			X:      float64(p.Min.X) + float64(p.Dx())/2,
			Y:      float64(p.Min.Y) + inset + landscapeHeaderY*ff,
			S:      brand,
			Size:   1.1 * ff,
			Bold:   true,
			Align:  drawing.AlignCentre,
			Colour: colour("accent"),
		},
	}
	for i, v := range values(r) {
		top := float64(p.Min.Y) + inset + landscapeHeaderRows*ff + float64(i)*landscapeRowPitch*ff
		base := top + landscapeBaselineY*ff
		cmds = append(cmds,
			drawing.Line{X0: left, Y0: top, X1: right, Y1: top, Colour: colour("separator"), Width: 1},
			drawing.Text{X: left, Y: base, S: Labels[i], Size: 0.85 * ff, Align: drawing.AlignLeft, Colour: colour("muted")},
			drawing.Text{X: right, Y: base, S: v, Size: 0.9 * ff, Bold: true, Align: drawing.AlignRight, Colour: colour("white")},
		)
	}
	return Plan{Orientation: Landscape, FontSize: f, Bounds: p, Cmds: cmds}
}
