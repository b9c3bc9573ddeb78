package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDiskStore_StoreAndRemove(t *testing.T) {
	dir := t.TempDir()

	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	path, err := store.Store(".jpg", strings.NewReader("fake-image"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := "uploads/image-" + "1704110400000" + ".jpg"
	if path != want {
		t.Errorf("expected path %q, got %q", want, path)
	}

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, "uploads/")))
	if err != nil {
		t.Fatalf("expected stored file to exist, got %v", err)
	}
	if string(data) != "fake-image" {
		t.Errorf("unexpected file content %q", data)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("expected no error from Remove, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(path, "uploads/"))); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestDiskStore_Store_NormalizesExtension(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	path, err := store.Store("PNG", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.HasSuffix(path, ".png") {
		t.Errorf("expected lowercase dotted extension, got %q", path)
	}
}

func TestDiskStore_Remove_RejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, path := range []string{"uploads/../etc/passwd", "uploads/", "../escape"} {
		if err := store.Remove(path); err == nil {
			t.Errorf("expected error for path %q", path)
		}
	}
}

func TestDiskStore_Remove_MissingFileIsNotAnError(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.Remove("uploads/image-123.jpg"); err != nil {
		t.Errorf("expected missing file to be tolerated, got %v", err)
	}
}
