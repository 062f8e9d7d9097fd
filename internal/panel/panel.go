// Package panel lays out the heads-up display for a frame of a given size.
// Layouts are pure: the same size and readout always give the same commands.
package panel

import (
	"image"
	"image/color"

	"github.com/devonepao/geo-cam/internal/drawing"
	"github.com/devonepao/geo-cam/internal/hud"
)

// Orientation of the raster being composed.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// Classify is landscape only when strictly wider than tall; squares are
// portrait.
func Classify(w, h int) Orientation {
	if w > h {
		return Landscape
	}
	return Portrait
}

// DefaultBrand is the header text.
const DefaultBrand = "GPS CAMERA"

// Row labels, in display order.
var Labels = [4]string{"Coordinates", "Altitude", "Accuracy", "Date & Time"}

func values(r hud.Readout) [4]string {
	return [4]string{r.Coordinates, r.Altitude, r.Accuracy, r.DateTime}
}

// Plan is a computed overlay.
type Plan struct {
	Orientation Orientation
	// FontSize is the base font size in pixels.
	FontSize int
	// Bounds is the band (portrait) or floating panel (landscape).
	Bounds image.Rectangle
	Cmds   []drawing.Cmd
}

// Layout picks the layout for a w×h raster.
func Layout(w, h int, r hud.Readout, brand string) Plan {
	if brand == "" {
		brand = DefaultBrand
	}
	if Classify(w, h) == Landscape {
		return LandscapeLayout(w, h, r, brand)
	}
	return PortraitLayout(w, h, r, brand)
}

func colour(name string) color.NRGBA { return drawing.ColourNameToRGBA[name] }
