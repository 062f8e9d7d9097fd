package tui

import (
	"sync"

	"github.com/devonepao/geo-cam/internal/hud"
)

// Bridge collects what the controller tells this front end. The model reads
// it on every refresh tick so the controller never blocks on the terminal.
type Bridge struct {
	hud.Recorder

	mu      sync.Mutex
	visible bool
	errText string
	enabled bool
}

func (b *Bridge) ShowPermissionPrompt(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = true
	b.errText = err.Error()
}

func (b *Bridge) HidePermissionPrompt() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = false
	b.errText = ""
}

func (b *Bridge) SetCaptureEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

func (b *Bridge) prompt() (visible bool, errText string, enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible, b.errText, b.enabled
}
