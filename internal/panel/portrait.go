package panel

import (
	"image"

	"github.com/devonepao/geo-cam/internal/drawing"
	"github.com/devonepao/geo-cam/internal/hud"
)

// Portrait proportions, in multiples of the base font size.
const (
	portraitFontDivisor = 25
	portraitBandRows    = 8.0
	portraitHeaderY     = 1.5
	portraitHeaderGap   = 1.8
	portraitRowPitch    = 1.2
)

// PortraitFontSize is floor(w/25), at least 1.
func PortraitFontSize(w int) int {
	return max(w/portraitFontDivisor, 1)
}

// PortraitLayout is an opaque full-width band across the top holding a bold
// header and four left-aligned "Label: value" lines.
func PortraitLayout(w, h int, r hud.Readout, brand string) Plan {
	f := PortraitFontSize(w)
	ff := float64(f)
	band := image.Rect(0, 0, w, int(portraitBandRows*ff))
	pad := ff

	cmds := []drawing.Cmd{
		drawing.FillRect{Rect: band, Colour: colour("band")},
		drawing.Text{X: pad, Y: portraitHeaderY * ff, S: brand, Size: ff, Bold: true, Align: drawing.AlignLeft, Colour: colour("accent")},
	}
	y := (portraitHeaderY + portraitHeaderGap) * ff
	for i, v := range values(r) {
		cmds = append(cmds, drawing.Text{
			X:      pad,
			Y:      y + float64(i)*portraitRowPitch*ff,
			S:      Labels[i] + ": " + v,
			Size:   ff,
			Align:  drawing.AlignLeft,
			Colour: colour("white"),
		})
	}
	return Plan{Orientation: Portrait, FontSize: f, Bounds: band, Cmds: cmds}
}
