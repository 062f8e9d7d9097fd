// Package tui is a terminal front end: the live readout, camera status and
// keys for capture, flip and retry.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/frame"
	"github.com/devonepao/geo-cam/internal/hud"
)

const actionTimeout = 10 * time.Second

// Actions are what the keys do.
type Actions interface {
	Capture(ctx context.Context) (*frame.Photo, string, error)
	Flip(ctx context.Context) error
	Retry(ctx context.Context) error
	Facing() camera.Facing
}

// Msg types
type tickMsg time.Time

type resultMsg struct {
	action string
	saved  string
	size   int
	err    error
}

type Model struct {
	actions Actions
	bridge  *Bridge
	brand   string

	readout   hud.Readout
	prompt    bool
	promptErr string
	enabled   bool
	facing    camera.Facing
	lastSaved string
	status    string
	busy      bool
	width     int
	now       time.Time
}

func New(actions Actions, bridge *Bridge, brand string) Model {
	m := Model{actions: actions, bridge: bridge, brand: brand, status: "Starting camera..."}
	m.refresh()
	return m
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m *Model) refresh() {
	m.readout = m.bridge.Last()
	m.prompt, m.promptErr, m.enabled = m.bridge.prompt()
	m.facing = m.actions.Facing()
}

func (m Model) run(action string, fn func(ctx context.Context) resultMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		res := fn(ctx)
		res.action = action
		return res
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		m.now = time.Time(msg)
		m.refresh()
		return m, tickCmd()

	case resultMsg:
		m.busy = false
		m.refresh()
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		case msg.action == "capture":
			m.lastSaved = msg.saved
			m.status = fmt.Sprintf("Saved %s (%s)", filepath.Base(msg.saved), humanize.Bytes(uint64(msg.size)))
		case msg.action == "flip":
			m.status = "Switched to " + m.facing.String() + " camera"
		case msg.action == "retry":
			m.status = "Camera ready"
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "c":
			if !m.enabled {
				m.status = "Capture disabled: camera not available (press r to retry)"
				return m, nil
			}
			m.busy = true
			m.status = "Capturing..."
			return m, m.run("capture", func(ctx context.Context) resultMsg {
				photo, where, err := m.actions.Capture(ctx)
				if err != nil {
					return resultMsg{err: err}
				}
				return resultMsg{saved: where, size: len(photo.Data)}
			})
		case "f":
			if m.prompt || !m.enabled {
				m.status = "Flip disabled: camera not available (press r to retry)"
				return m, nil
			}
			m.busy = true
			m.status = "Switching camera..."
			return m, m.run("flip", func(ctx context.Context) resultMsg {
				return resultMsg{err: m.actions.Flip(ctx)}
			})
		case "r":
			m.busy = true
			m.status = "Retrying camera..."
			return m, m.run("retry", func(ctx context.Context) resultMsg {
				return resultMsg{err: m.actions.Retry(ctx)}
			})
		}
	}
	return m, nil
}

// Run blocks until the user quits or ctx is done.
func Run(ctx context.Context, actions Actions, bridge *Bridge, brand string) error {
	p := tea.NewProgram(New(actions, bridge, brand), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
