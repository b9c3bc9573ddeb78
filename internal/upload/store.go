// Package upload persists uploaded images behind an opaque key-based store.
// Only the returned path is recorded on a post; everything else about image
// storage stays behind this interface.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lifepost/lifepost/internal/observability/metrics"
)

type Store interface {
	Store(ext string, r io.Reader) (string, error)
	Remove(path string) error
}

type DiskStore struct {
	dir string
	now func() time.Time
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

// Store writes the image under a generated key and returns the public path
// it will be served from.
func (s *DiskStore) Store(ext string, r io.Reader) (string, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	key := fmt.Sprintf("image-%d%s", s.now().UnixMilli(), ext)

	f, err := os.OpenFile(filepath.Join(s.dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	metrics.ImagesStored.Inc()
	return "uploads/" + key, nil
}

func (s *DiskStore) Remove(path string) error {
	key := strings.TrimPrefix(path, "uploads/")
	if key == "" || strings.Contains(key, "/") {
		return fmt.Errorf("invalid upload path: %q", path)
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}
