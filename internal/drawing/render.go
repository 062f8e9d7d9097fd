package drawing

import (
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	size float64
	bold bool
}

// Renderer executes draw commands on a gg context. Faces are cached because
// every capture asks for the same handful of sizes.
type Renderer struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   *lru.Cache[faceKey, font.Face]
}

// NewRenderer parses the embedded Go fonts.
func NewRenderer() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	faces, err := lru.NewWithEvict[faceKey, font.Face](16, func(_ faceKey, f font.Face) { f.Close() })
	if err != nil {
		return nil, err
	}
	return &Renderer{regular: regular, bold: bold, faces: faces}, nil
}

// Face returns a cached face for size pixels.
func (r *Renderer) Face(size float64, bold bool) (font.Face, error) {
	k := faceKey{size: math.Round(size*4) / 4, bold: bold}
	if f, ok := r.faces.Get(k); ok {
		return f, nil
	}
	src := r.regular
	if bold {
		src = r.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{Size: k.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %.1fpx: %w", k.size, err)
	}
	r.faces.Add(k, f)
	return f, nil
}

// Render draws cmds in order.
func (r *Renderer) Render(dc *gg.Context, cmds []Cmd) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cmds {
		switch c := c.(type) {
		case FillRect:
			dc.SetColor(c.Colour)
			dc.DrawRectangle(float64(c.Rect.Min.X), float64(c.Rect.Min.Y), float64(c.Rect.Dx()), float64(c.Rect.Dy()))
			dc.Fill()
		case StrokeRect:
			w := c.Width
			if w <= 0 {
				w = 1
			}
			// half-pixel inset keeps a 1px border on whole pixels
			dc.SetColor(c.Colour)
			dc.SetLineWidth(w)
			dc.DrawRectangle(float64(c.Rect.Min.X)+w/2, float64(c.Rect.Min.Y)+w/2, float64(c.Rect.Dx())-w, float64(c.Rect.Dy())-w)
			dc.Stroke()
		case HGradient:
			x0, x1 := float64(c.Rect.Min.X), float64(c.Rect.Max.X)
			g := gg.NewLinearGradient(x0, 0, x1, 0)
			g.AddColorStop(0, c.From)
			g.AddColorStop(1, c.To)
			dc.SetFillStyle(g)
			dc.DrawRectangle(x0, float64(c.Rect.Min.Y), float64(c.Rect.Dx()), float64(c.Rect.Dy()))
			dc.Fill()
		case Line:
			w := c.Width
			if w <= 0 {
				w = 1
			}
			dc.SetColor(c.Colour)
			dc.SetLineWidth(w)
			dc.DrawLine(c.X0, c.Y0, c.X1, c.Y1)
			dc.Stroke()
		case Text:
			face, err := r.Face(c.Size, c.Bold)
			if err != nil {
				return err
			}
			dc.SetFontFace(face)
			dc.SetColor(c.Colour)
			var ax float64
			switch c.Align {
			case AlignCentre:
				ax = 0.5
			case AlignRight:
				ax = 1
			}
			dc.DrawStringAnchored(c.S, c.X, c.Y, ax, 0)
		default:
			return fmt.Errorf("drawing: unknown command %T", c)
		}
	}
	return nil
}
