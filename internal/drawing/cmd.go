package drawing

import (
	"image"
	"image/color"
)

// Cmd is one primitive of an overlay. Layouts produce lists of commands so
// they can be asserted on without rasterising anything.
type Cmd interface {
	cmd()
}

// Align is the horizontal anchor of a Text command.
type Align int

const (
	AlignLeft Align = iota
	AlignCentre
	AlignRight
)

// FillRect paints Rect with a solid colour.
type FillRect struct {
	Rect   image.Rectangle
	Colour color.NRGBA
}

// StrokeRect outlines Rect.
type StrokeRect struct {
	Rect   image.Rectangle
	Colour color.NRGBA
	Width  float64
}

// HGradient fills Rect with a horizontal gradient from From at the left edge
// to To at the right edge.
type HGradient struct {
	Rect     image.Rectangle
	From, To color.NRGBA
}

// Line is a straight stroke.
type Line struct {
	X0, Y0, X1, Y1 float64
	Colour         color.NRGBA
	Width          float64
}

// Text draws S with its baseline at Y, anchored at X according to Align.
type Text struct {
	X, Y   float64
	S      string
	Size   float64
	Bold   bool
	Align  Align
	Colour color.NRGBA
}

func (FillRect) cmd()   {}
func (StrokeRect) cmd() {}
func (HGradient) cmd()  {}
func (Line) cmd()       {}
func (Text) cmd()       {}
