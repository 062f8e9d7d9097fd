package frame

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"

	"github.com/devonepao/geo-cam/internal/drawing"
	"github.com/devonepao/geo-cam/internal/hud"
	"github.com/devonepao/geo-cam/internal/panel"
)

const (
	DefaultPrefix  = "GeoCam"
	DefaultQuality = 95
)

// Filename is <prefix>_<epoch millis>.jpg.
func Filename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%d.jpg", prefix, t.UnixMilli())
}

// Photo is one encoded capture.
type Photo struct {
	Name    string
	Data    []byte
	Size    image.Point
	Plan    panel.Plan
	Readout hud.Readout
	TakenAt time.Time
}

// Compositor burns the current readout into video frames.
type Compositor struct {
	State    *hud.State
	Renderer *drawing.Renderer
	Brand    string
	Prefix   string
	Quality  int
	Now      func() time.Time
}

// NewCompositor returns a compositor with default naming and quality.
func NewCompositor(state *hud.State, renderer *drawing.Renderer, brand string) *Compositor {
	return &Compositor{
		State:    state,
		Renderer: renderer,
		Brand:    brand,
		Prefix:   DefaultPrefix,
		Quality:  DefaultQuality,
		Now:      time.Now,
	}
}

type hudPanel struct {
	plan     panel.Plan
	renderer *drawing.Renderer
}

func (p hudPanel) Render(dc *gg.Context) error {
	return p.renderer.Render(dc, p.plan.Cmds)
}

// Compose blits video and overlays the readout as it stands now. It reads
// state once and never waits for fresher values.
func (c *Compositor) Compose(video image.Image) (*PictureFrame, panel.Plan, hud.Readout, error) {
	pf, err := NewPictureFrame(video)
	if err != nil {
		return nil, panel.Plan{}, hud.Readout{}, err
	}
	r := c.State.Snapshot()
	plan := panel.Layout(pf.W, pf.H, r, c.Brand)
	pf.AddPanel(hudPanel{plan: plan, renderer: c.Renderer})
	if err := pf.Render(); err != nil {
		return nil, plan, r, fmt.Errorf("render overlay: %w", err)
	}
	return pf, plan, r, nil
}

// Capture composes video and encodes it as a JPEG ready to save.
func (c *Compositor) Capture(video image.Image) (*Photo, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	taken := now()

	pf, plan, r, err := c.Compose(video)
	if err != nil {
		return nil, err
	}
	quality := c.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := pf.EncodeJPEG(&buf, quality); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Photo{
		Name:    Filename(prefix, taken),
		Data:    buf.Bytes(),
		Size:    image.Pt(pf.W, pf.H),
		Plan:    plan,
		Readout: r,
		TakenAt: taken,
	}, nil
}
