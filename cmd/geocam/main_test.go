package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "brand: From File\noutput:\n  prefix: FilePrefix\nlocation:\n  backend: none\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEOCAM_PREFIX", "EnvPrefix")
	t.Setenv("GEOCAM_LOCATION", "browser")

	cfg, o, err := loadConfig([]string{"--config", path, "--location", "nmea", "--tui"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Brand != "From File" {
		t.Fatalf("file value lost: brand %q", cfg.Brand)
	}
	if cfg.Output.Prefix != "EnvPrefix" {
		t.Fatalf("env should override file: prefix %q", cfg.Output.Prefix)
	}
	if cfg.Location.Backend != "nmea" {
		t.Fatalf("flag should override env: location %q", cfg.Location.Backend)
	}
	if !o.tui || o.web || o.configPath != path {
		t.Fatalf("options = %+v", o)
	}
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, _, err := loadConfig([]string{"--config", path, "--camera", "daguerreotype"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, nil, true).Info("photo saved", "name", "GeoCam_1.jpg")
	if !strings.Contains(buf.String(), `"name":"GeoCam_1.jpg"`) {
		t.Fatalf("json log = %q", buf.String())
	}
	buf.Reset()
	NewLogger(&buf, nil, false).Info("photo saved", "name", "GeoCam_1.jpg")
	if !strings.Contains(buf.String(), "name=GeoCam_1.jpg") {
		t.Fatalf("text log = %q", buf.String())
	}
}
