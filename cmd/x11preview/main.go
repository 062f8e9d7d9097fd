// Program x11preview shows the composited camera view, overlay included, in
// an X11 window refreshed once a second. Any key closes the window.
package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/spf13/pflag"
	"golang.org/x/image/draw"

	"github.com/devonepao/geo-cam/internal/app"
	"github.com/devonepao/geo-cam/internal/config"
	"github.com/devonepao/geo-cam/internal/drawing"
)

const (
	hdDivider    = 5
	windowWidth  = 1920 / hdDivider
	windowHeight = 1080 / hdDivider
	// PutImage requests are split into strips to stay under the core
	// protocol's request size limit.
	maxStripBytes = 200 * 1024
)

type window struct {
	X      *xgb.Conn
	wid    xproto.Window
	gc     xproto.Gcontext
	depth  byte
	delete xproto.Atom
	protos xproto.Atom
	w, h   int
}

func newWindow(width, height int, title string) (*window, error) {
	X, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}

	screen := xproto.Setup(X).DefaultScreen(X)
	wid, _ := xproto.NewWindowId(X)
	xproto.CreateWindow(X, screen.RootDepth, wid, screen.Root,
		0, 0, uint16(width), uint16(height), 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			0xff000000,
			xproto.EventMaskExposure | xproto.EventMaskKeyPress | xproto.EventMaskStructureNotify,
		})
	xproto.ChangeProperty(X, xproto.PropModeReplace, wid, xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), []byte(title))

	// Set WM_PROTOCOLS to handle window close
	atomWmDeleteWindow, _ := xproto.InternAtom(X, false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	atomWmProtocols, _ := xproto.InternAtom(X, false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if atomWmDeleteWindow == nil || atomWmProtocols == nil {
		X.Close()
		return nil, fmt.Errorf("x11: intern WM atoms failed")
	}
	del := uint32(atomWmDeleteWindow.Atom)
	xproto.ChangeProperty(X, xproto.PropModeReplace, wid, atomWmProtocols.Atom, xproto.AtomAtom, 32, 1,
		[]byte{byte(del), byte(del >> 8), byte(del >> 16), byte(del >> 24)})

	gc, _ := xproto.NewGcontextId(X)
	xproto.CreateGC(X, gc, xproto.Drawable(wid), 0, nil)

	xproto.MapWindow(X, wid)
	return &window{
		X:      X,
		wid:    wid,
		gc:     gc,
		depth:  screen.RootDepth,
		delete: atomWmDeleteWindow.Atom,
		protos: atomWmProtocols.Atom,
		w:      width,
		h:      height,
	}, nil
}

// paint scales img into the window and uploads it as BGRX strips.
func (win *window) paint(img image.Image) {
	scaled := image.NewRGBA(image.Rect(0, 0, win.w, win.h))
	fit := drawing.Centre(drawing.ScaleImageInside(img.Bounds(), win.w, win.h), scaled.Bounds())
	draw.CatmullRom.Scale(scaled, fit, img, img.Bounds(), draw.Src, nil)

	rows := max(maxStripBytes/(win.w*4), 1)
	for y0 := 0; y0 < win.h; y0 += rows {
		y1 := min(y0+rows, win.h)
		data := make([]byte, 0, (y1-y0)*win.w*4)
		for y := y0; y < y1; y++ {
			line := scaled.Pix[y*scaled.Stride : y*scaled.Stride+win.w*4]
			for x := 0; x < len(line); x += 4 {
				data = append(data, line[x+2], line[x+1], line[x], 0)
			}
		}
		xproto.PutImage(win.X, xproto.ImageFormatZPixmap, xproto.Drawable(win.wid), win.gc,
			uint16(win.w), uint16(y1-y0), 0, int16(y0), 0, win.depth, data)
	}
}

func preview(ctx context.Context, ctrl *app.Controller, logger *slog.Logger) error {
	win, err := newWindow(windowWidth, windowHeight, "geocam preview")
	if err != nil {
		return err
	}
	defer win.X.Close()

	if err := ctrl.Init(ctx); err != nil {
		// nothing to retry from in this window
		return err
	}

	events := make(chan xgb.Event, 16)
	go func() {
		for {
			ev, err := win.X.WaitForEvent()
			if ev == nil && err == nil {
				close(events)
				return
			}
			if err != nil {
				logger.Debug("x11 event error", "error", err)
				continue
			}
			events <- ev
		}
	}()

	render := func() {
		pf, _, _, err := ctrl.Compositor.Compose(ctrl.Frame())
		if err != nil {
			logger.Debug("preview not ready", "error", err)
			return
		}
		win.paint(pf.Image())
	}

	// Event loop, render every second
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			render()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case xproto.ExposeEvent:
				render()
			case xproto.ClientMessageEvent:
				if e.Type == win.protos && e.Data.Data32[0] == uint32(win.delete) {
					return nil
				}
			case xproto.KeyPressEvent:
				return nil
			}
		}
	}
}

func main() {
	configPath := pflag.String("config", config.DefaultPath(), "config file")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.ApplyEnv(os.LookupEnv)
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(2)
	}
	if level, err := cfg.Level(); err == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	ctrl, _, err := app.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("setup", "error", err)
		os.Exit(1)
	}

	// Cancel the context instead of exiting the program:
	ctx, canc := signal.NotifyContext(context.Background(), os.Interrupt)
	err = preview(ctx, ctrl, logger)
	ctrl.Close()
	canc()
	if err != nil {
		logger.Error("preview", "error", err)
		os.Exit(1)
	}
}
