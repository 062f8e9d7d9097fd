package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDirSaverWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "photos")
	s := NewDirSaver(dir, quiet())
	data := []byte{0xFF, 0xD8, 0xFF, 0xD9}

	path, err := s.Save(context.Background(), "GeoCam_1760520000123.jpg", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "GeoCam_1760520000123.jpg") {
		t.Fatalf("path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("content mismatch")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("pending files left behind: %v", entries)
	}
}

func TestDirSaverOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSaver(dir, quiet())
	if _, err := s.Save(context.Background(), "a.jpg", []byte("one")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	path, err := s.Save(context.Background(), "a.jpg", []byte("two"))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "two" {
		t.Fatalf("got %q", got)
	}
}

func TestDirSaverRejectsPaths(t *testing.T) {
	s := NewDirSaver(t.TempDir(), quiet())
	for _, name := range []string{"", "../x.jpg", "sub/x.jpg", ".hidden.jpg"} {
		if _, err := s.Save(context.Background(), name, []byte("x")); !errors.Is(err, ErrBadName) {
			t.Fatalf("name %q: expected ErrBadName, got %v", name, err)
		}
	}
}

func TestDirSaverCancelled(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSaver(dir, quiet())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Save(ctx, "a.jpg", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("cancelled save wrote %v", entries)
	}
}

func TestMemory(t *testing.T) {
	m := &Memory{}
	data := []byte("jpeg")
	loc, err := m.Save(context.Background(), "a.jpg", data)
	if err != nil || loc != "mem:a.jpg" {
		t.Fatalf("Save = %q, %v", loc, err)
	}
	data[0] = 'X'
	if string(m.Files["a.jpg"]) != "jpeg" {
		t.Fatalf("memory saver must copy data")
	}
}
