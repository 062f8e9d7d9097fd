// Package export stores finished photos.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/renameio/v2"
)

// Saver hands a finished JPEG to the user and reports where it went.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

var ErrBadName = errors.New("export: file name must be a plain base name")

// DirSaver writes photos into one directory. A photo is written to a pending
// file next to its destination and renamed into place, so a reader never sees
// a partial JPEG.
type DirSaver struct {
	Dir    string
	Perm   os.FileMode
	Logger *slog.Logger
}

func NewDirSaver(dir string, logger *slog.Logger) *DirSaver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirSaver{Dir: dir, Perm: 0o644, Logger: logger}
}

func (s *DirSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(perm))
	if err != nil {
		return "", fmt.Errorf("pending file for %s: %w", name, err)
	}
	defer pf.Cleanup()

	if _, err := pf.Write(data); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("replace %s: %w", name, err)
	}
	s.Logger.Info("photo saved", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return path, nil
}

// Memory keeps photos in a map.
type Memory struct {
	Files map[string][]byte
	Err   error
}

func (m *Memory) Save(_ context.Context, name string, data []byte) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Files == nil {
		m.Files = map[string][]byte{}
	}
	m.Files[name] = append([]byte(nil), data...)
	return "mem:" + name, nil
}
