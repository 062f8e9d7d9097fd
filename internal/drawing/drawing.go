package drawing

import (
	"image"
	"image/color"
)

// Calculated linear scaling of an rectangle from its original size to
// a max width and max height of a desired output.
// The whole picture is scaled inside the rectangle with blank space to
// right and bottom
func ScaleImageInside(bounds image.Rectangle, maxW, maxH int) image.Rectangle {
	imgW := bounds.Dx()
	imgH := bounds.Dy()
	if imgW <= 0 || imgH <= 0 {
		return image.Rectangle{}
	}
	ratio := float64(maxW) / float64(imgW)
	if r := float64(maxH) / float64(imgH); r < ratio {
		ratio = r
	}
	scaledW := int(ratio * float64(imgW))
	scaledH := int(ratio * float64(imgH))
	return image.Rect(0, 0, scaledW, scaledH)
}

// Centre moves r so it sits in the middle of outer.
func Centre(r, outer image.Rectangle) image.Rectangle {
	dx := outer.Min.X + (outer.Dx()-r.Dx())/2 - r.Min.X
	dy := outer.Min.Y + (outer.Dy()-r.Dy())/2 - r.Min.Y
	return r.Add(image.Pt(dx, dy))
}

// HUD palette. Alpha is straight, not premultiplied.
var ColourNameToRGBA = map[string]color.NRGBA{
	"band":      {R: 0x10, G: 0x12, B: 0x16, A: 0xFF},
	"panel":     {R: 0x14, G: 0x16, B: 0x1C, A: 0x8C},
	"border":    {R: 0xFF, G: 0xFF, B: 0xFF, A: 0x40},
	"shadow":    {R: 0x00, G: 0x00, B: 0x00, A: 0x73},
	"clear":     {R: 0x00, G: 0x00, B: 0x00, A: 0x00},
	"separator": {R: 0xFF, G: 0xFF, B: 0xFF, A: 0x26},
	"muted":     {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xB3},
	"white":     {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	"accent":    {R: 0x8A, G: 0xE2, B: 0x34, A: 0xFF},
}
