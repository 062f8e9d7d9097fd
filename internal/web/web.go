package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/gift"
	"github.com/gorilla/websocket"
	"golang.org/x/image/draw"

	"github.com/devonepao/geo-cam/internal/app"
	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/frame"
	"github.com/devonepao/geo-cam/internal/hud"
	"github.com/devonepao/geo-cam/internal/location"
)

// content is our static web server content.
//
//go:embed template
var content embed.FS

var page = template.Must(template.ParseFS(content, "template/index.html"))

const writeWait = 5 * time.Second

// Actions are the user actions the page can trigger.
type Actions interface {
	TakePhoto() (*frame.Photo, error)
	Flip(ctx context.Context) error
	Retry(ctx context.Context) error
	Frame() image.Image
	Facing() camera.Facing
}

type Options struct {
	Addr  string
	Brand string
	// Feed receives fixes reported by the browser. nil disables browser
	// location.
	Feed *location.Feed
	// Unsupported is called when the browser reports it has no geolocation.
	Unsupported   func()
	PreviewWidth  int
	PreviewMillis int
	Logger        *slog.Logger
}

type Page struct {
	Title           string
	Brand           string
	BrowserLocation bool
	RefreshMillis   int
}

type readoutJSON struct {
	Coordinates string `json:"coordinates"`
	Altitude    string `json:"altitude"`
	Accuracy    string `json:"accuracy"`
	DateTime    string `json:"datetime"`
}

type outbound struct {
	Type           string       `json:"type"`
	Readout        *readoutJSON `json:"readout,omitempty"`
	Visible        bool         `json:"visible"`
	Error          string       `json:"error,omitempty"`
	CaptureEnabled bool         `json:"captureEnabled"`
}

// inbound is a message from the page. Fix fields mirror the browser's
// GeolocationCoordinates; Code is its GeolocationPositionError code.
type inbound struct {
	Type      string   `json:"type"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
	Accuracy  *float64 `json:"accuracy"`
	Timestamp int64    `json:"timestamp"`
	Code      int      `json:"code"`
	Message   string   `json:"message"`
}

// Server is the browser front end. It is a hud.Surface, an app.Prompt and a
// camera.PreviewSink so the controller can drive it like any other screen.
type Server struct {
	actions  Actions
	opts     Options
	logger   *slog.Logger
	upgrader websocket.Upgrader
	server   *http.Server

	mu      sync.Mutex
	readout hud.Readout
	prompt  outbound
	facing  camera.Facing

	// connsMu also serialises writes; a websocket allows one writer.
	connsMu sync.Mutex
	conns   map[*websocket.Conn]bool
}

func New(actions Actions, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = 960
	}
	if opts.PreviewMillis <= 0 {
		opts.PreviewMillis = 250
	}
	return &Server{
		actions: actions,
		opts:    opts,
		logger:  opts.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		prompt: outbound{Type: "prompt"},
		conns:  make(map[*websocket.Conn]bool),
	}
}

var _ interface {
	hud.Surface
	app.Prompt
	camera.PreviewSink
} = (*Server)(nil)

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /preview.jpg", s.handlePreview)
	mux.HandleFunc("POST /capture", s.handleCapture)
	mux.HandleFunc("POST /flip", s.handleAction("flip", s.actions.Flip))
	mux.HandleFunc("POST /retry", s.handleAction("retry", s.actions.Retry))
	return mux
}

// ListenAndServe blocks until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{Addr: s.opts.Addr, Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "addr", s.opts.Addr)
		errc <- s.server.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeConns()
	if err := s.server.Shutdown(shutdown); err != nil {
		return fmt.Errorf("web shutdown: %w", err)
	}
	s.logger.Info("web server stopped")
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := Page{
		Title:           s.opts.Brand,
		Brand:           s.opts.Brand,
		BrowserLocation: s.opts.Feed != nil,
		RefreshMillis:   s.opts.PreviewMillis,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.logger.Debug("websocket connected", "remote", r.RemoteAddr)

	s.mu.Lock()
	ro, pr := s.readout, s.prompt
	s.mu.Unlock()

	s.connsMu.Lock()
	s.conns[conn] = true
	s.write(conn, readoutMsg(ro))
	s.write(conn, pr)
	s.connsMu.Unlock()

	defer func() {
		s.connsMu.Lock()
		delete(s.conns, conn)
		s.connsMu.Unlock()
		conn.Close()
	}()

	for {
		var m inbound
		if err := conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "remote", r.RemoteAddr, "error", err)
			}
			return
		}
		s.receive(m)
	}
}

func (s *Server) receive(m inbound) {
	feed := s.opts.Feed
	switch m.Type {
	case "fix":
		if feed == nil {
			return
		}
		fix := location.Fix{
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Altitude:  m.Altitude,
			Accuracy:  m.Accuracy,
		}
		if m.Timestamp > 0 {
			fix.Timestamp = time.UnixMilli(m.Timestamp)
		}
		feed.Push(fix)
	case "error":
		if feed == nil {
			return
		}
		feed.Fail(&location.PositionError{Code: location.ErrorCode(m.Code), Message: m.Message})
	case "unsupported":
		if s.opts.Unsupported != nil {
			s.opts.Unsupported()
		}
	default:
		s.logger.Debug("unknown websocket message", "type", m.Type)
	}
}

// write sends one message; the caller holds connsMu.
func (s *Server) write(conn *websocket.Conn, msg outbound) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
		conn.Close()
		delete(s.conns, conn)
	}
}

func (s *Server) broadcast(msg outbound) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		s.write(conn, msg)
	}
}

func (s *Server) closeConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
}

func readoutMsg(r hud.Readout) outbound {
	return outbound{Type: "readout", Readout: &readoutJSON{
		Coordinates: r.Coordinates,
		Altitude:    r.Altitude,
		Accuracy:    r.Accuracy,
		DateTime:    r.DateTime,
	}}
}

func (s *Server) setReadout(set func(*hud.Readout)) {
	s.mu.Lock()
	set(&s.readout)
	r := s.readout
	s.mu.Unlock()
	s.broadcast(readoutMsg(r))
}

func (s *Server) SetCoordinates(v string) { s.setReadout(func(r *hud.Readout) { r.Coordinates = v }) }
func (s *Server) SetAltitude(v string)    { s.setReadout(func(r *hud.Readout) { r.Altitude = v }) }
func (s *Server) SetAccuracy(v string)    { s.setReadout(func(r *hud.Readout) { r.Accuracy = v }) }
func (s *Server) SetDateTime(v string)    { s.setReadout(func(r *hud.Readout) { r.DateTime = v }) }

func (s *Server) setPrompt(set func(*outbound)) {
	s.mu.Lock()
	set(&s.prompt)
	p := s.prompt
	s.mu.Unlock()
	s.broadcast(p)
}

func (s *Server) ShowPermissionPrompt(err error) {
	s.setPrompt(func(p *outbound) {
		p.Visible = true
		p.Error = err.Error()
	})
}

func (s *Server) HidePermissionPrompt() {
	s.setPrompt(func(p *outbound) {
		p.Visible = false
		p.Error = ""
	})
}

func (s *Server) SetCaptureEnabled(enabled bool) {
	s.setPrompt(func(p *outbound) { p.CaptureEnabled = enabled })
}

// Attach records the facing of the new stream for preview mirroring.
func (s *Server) Attach(_ camera.Stream, f camera.Facing) {
	s.mu.Lock()
	s.facing = f
	s.mu.Unlock()
}

// previewImage mirrors front-camera frames, as a selfie view does, and
// scales the frame down to the preview width.
func previewImage(src image.Image, f camera.Facing, width int) image.Image {
	if f == camera.Front {
		g := gift.New(gift.FlipHorizontal())
		dst := image.NewRGBA(g.Bounds(src.Bounds()))
		g.Draw(dst, src)
		src = dst
	}
	b := src.Bounds()
	if b.Dx() <= width {
		return src
	}
	h := b.Dy() * width / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, max(h, 1)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	img := s.actions.Frame()
	if img == nil || img.Bounds().Empty() {
		http.Error(w, "no video frame yet", http.StatusServiceUnavailable)
		return
	}
	s.mu.Lock()
	f := s.facing
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, previewImage(img, f, s.opts.PreviewWidth), &jpeg.Options{Quality: 80}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	photo, err := s.actions.TakePhoto()
	switch {
	case errors.Is(err, app.ErrCaptureDisabled):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, frame.ErrFrameNotReady):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	case err != nil:
		s.logger.Error("capture failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Info("photo downloaded", "name", photo.Name, "remote", r.RemoteAddr)
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", photo.Name))
	w.Write(photo.Data)
}

type actionResult struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Facing string `json:"facing"`
}

func (s *Server) handleAction(name string, act func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := actionResult{OK: true}
		status := http.StatusOK
		if err := act(r.Context()); err != nil {
			s.logger.Warn("action failed", "action", name, "error", err)
			res = actionResult{Error: err.Error()}
			status = http.StatusConflict
		}
		res.Facing = s.actions.Facing().String()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}
