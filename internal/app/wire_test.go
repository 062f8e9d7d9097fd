package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/devonepao/geo-cam/internal/camera"
	"github.com/devonepao/geo-cam/internal/config"
)

func TestFromConfigBrowserLocation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Location.Backend = "browser"
	cfg.Camera.Facing = "user"
	cfg.Output.Dir = t.TempDir()
	c, feed, err := FromConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	defer c.Close()
	if feed == nil {
		t.Fatalf("browser backend should return a feed")
	}
	if c.Facing() != camera.Front {
		t.Fatalf("facing = %v", c.Facing())
	}
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if feed.Watches() != 1 {
		t.Fatalf("tracker should watch the feed")
	}
	_, where, err := c.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if filepath.Dir(where) != cfg.Output.Dir {
		t.Fatalf("saved to %q, want under %q", where, cfg.Output.Dir)
	}
	if _, err := os.Stat(where); err != nil {
		t.Fatalf("photo missing: %v", err)
	}
}

func TestFromConfigNoLocation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Location.Backend = "none"
	c, feed, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	defer c.Close()
	if feed != nil {
		t.Fatalf("unexpected feed")
	}
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := c.State.Snapshot().Coordinates; got != "Geolocation not supported" {
		t.Fatalf("coordinates = %q", got)
	}
}

func TestFromConfigUnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Camera.Backend = "polaroid"
	if _, _, err := FromConfig(cfg, nil); err == nil {
		t.Fatalf("expected error")
	}
}
