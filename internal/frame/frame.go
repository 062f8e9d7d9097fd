/*
A picture frame is the raster a capture is composed on.

It is built in two stages:

- the video frame is blitted at native size, origin (0,0)
- panels are rendered on top of it
*/
package frame

import (
	"errors"
	"image"
	"image/jpeg"
	"io"

	"github.com/fogleman/gg"
)

// ErrFrameNotReady is returned when the video frame has no pixels yet.
var ErrFrameNotReady = errors.New("frame: video frame not ready")

type Panelled interface {
	Render(dc *gg.Context) error
}

// This is the structure which holds the composed raster.
type PictureFrame struct {
	Bounds image.Rectangle
	W, H   int
	dc     *gg.Context
	panels []Panelled
}

// NewPictureFrame sizes the raster to video's native pixel dimensions and
// blits it at the origin.
func NewPictureFrame(video image.Image) (*PictureFrame, error) {
	if video == nil {
		return nil, ErrFrameNotReady
	}
	b := video.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrFrameNotReady
	}
	pf := new(PictureFrame)
	pf.W = b.Dx()
	pf.H = b.Dy()
	pf.Bounds = image.Rect(0, 0, pf.W, pf.H)
	pf.dc = gg.NewContext(pf.W, pf.H)
	pf.dc.DrawImage(video, -b.Min.X, -b.Min.Y)
	pf.panels = make([]Panelled, 0, 2)
	return pf, nil
}

func (pf *PictureFrame) AddPanel(panel Panelled) {
	pf.panels = append(pf.panels, panel)
}

// Calls all the child panels to render them
func (pf *PictureFrame) Render() error {
	for _, panel := range pf.panels {
		if err := panel.Render(pf.dc); err != nil {
			return err
		}
	}
	return nil
}

// Image is the composed raster.
func (pf *PictureFrame) Image() image.Image {
	return pf.dc.Image()
}

// EncodeJPEG writes a baseline JPEG.
func (pf *PictureFrame) EncodeJPEG(w io.Writer, quality int) error {
	return jpeg.Encode(w, pf.dc.Image(), &jpeg.Options{Quality: quality})
}
