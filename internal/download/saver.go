// Package download hands exported documents to the local filesystem.
package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that are empty or contain a path.
var ErrInvalidName = errors.New("download: invalid file name")

// DirSaver writes documents into a directory. Files are written to a
// temporary name and renamed into place, so a failed save leaves nothing.
type DirSaver struct {
	dir string
}

// NewDirSaver creates a DirSaver rooted at dir. The directory is created on
// first save if needed.
func NewDirSaver(dir string) *DirSaver {
	if dir == "" {
		dir = "."
	}
	return &DirSaver{dir: dir}
}

// Dir returns the target directory.
func (s *DirSaver) Dir() string {
	return s.dir
}

// Save writes content as name inside the directory and returns the path.
// An existing file with the same name is replaced.
func (s *DirSaver) Save(name string, content []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".elicit_download_*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		cleanup()
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return path, nil
}
