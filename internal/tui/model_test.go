package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/frame"
	"github.com/devonepao/geo-cam/internal/hud"
)

type fakeActions struct {
	facing   camera.Facing
	captures int
	flipErr  error
}

func (a *fakeActions) Capture(context.Context) (*frame.Photo, string, error) {
	a.captures++
	return &frame.Photo{Name: "GeoCam_1.jpg", Data: make([]byte, 2048)}, "/tmp/photos/GeoCam_1.jpg", nil
}

func (a *fakeActions) Flip(context.Context) error {
	if a.flipErr != nil {
		return a.flipErr
	}
	a.facing = a.facing.Opposite()
	return nil
}

func (a *fakeActions) Retry(context.Context) error { return nil }
func (a *fakeActions) Facing() camera.Facing       { return a.facing }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the command it returns, feeding the result back.
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	m = next.(Model)
	if cmd == nil {
		return m
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestViewShowsReadout(t *testing.T) {
	b := &Bridge{}
	state := hud.NewState(b)
	state.SetCoordinates("37.422999, -122.084057")
	state.SetAccuracy("N/A")
	b.SetCaptureEnabled(true)

	m := New(&fakeActions{}, b, "GPS CAMERA")
	v := m.View()
	for _, want := range []string{"GPS CAMERA", "Coordinates:", "37.422999, -122.084057", "Accuracy:", "N/A", "Camera: environment", "Capture: ready"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
}

func TestCaptureKey(t *testing.T) {
	b := &Bridge{}
	a := &fakeActions{}
	m := New(a, b, "GPS CAMERA")

	m = press(t, m, "c")
	if a.captures != 0 || !strings.Contains(m.status, "disabled") {
		t.Fatalf("capture should be refused while disabled, status %q", m.status)
	}

	b.SetCaptureEnabled(true)
	next, _ := m.Update(tickMsg{})
	m = press(t, next.(Model), "c")
	if a.captures != 1 || m.lastSaved != "/tmp/photos/GeoCam_1.jpg" {
		t.Fatalf("captures=%d lastSaved=%q", a.captures, m.lastSaved)
	}
	if !strings.Contains(m.status, "GeoCam_1.jpg") || !strings.Contains(m.status, "2.0 kB") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestFlipKey(t *testing.T) {
	a := &fakeActions{}
	b := &Bridge{}
	b.ShowPermissionPrompt(camera.ErrPermissionDenied)
	m := press(t, New(a, b, ""), "f")
	if a.facing != camera.Back || !strings.Contains(m.status, "Flip disabled") {
		t.Fatalf("flip should be refused behind the prompt, status %q", m.status)
	}

	b.HidePermissionPrompt()
	b.SetCaptureEnabled(true)
	next, _ := m.Update(tickMsg{})
	m = press(t, next.(Model), "f")
	if a.facing != camera.Front || m.facing != camera.Front {
		t.Fatalf("facing = %v / %v", a.facing, m.facing)
	}

	a.flipErr = camera.ErrNotFound
	m = press(t, m, "f")
	if !strings.Contains(m.status, "flip failed") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestPromptShown(t *testing.T) {
	b := &Bridge{}
	b.ShowPermissionPrompt(errors.New("camera environment: permission-denied"))
	m := New(&fakeActions{}, b, "")
	if v := m.View(); !strings.Contains(v, "permission-denied") || !strings.Contains(v, "Capture: disabled") {
		t.Fatalf("prompt not shown:\n%s", v)
	}
	b.HidePermissionPrompt()
	m = press(t, m, "r")
	if strings.Contains(m.View(), "permission needed") {
		t.Fatalf("prompt still shown after retry")
	}
}

func TestQuit(t *testing.T) {
	_, cmd := New(&fakeActions{}, &Bridge{}, "").Update(key("q"))
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q returned %T", cmd())
	}
}
