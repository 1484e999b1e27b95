package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T, maxSize int64) (*LocalImageStorage, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewLocalImageStorage(dir, maxSize, logger), dir
}

func TestLocalImageStorage_Save(t *testing.T) {
	ctx := context.Background()
	store, dir := newTestStorage(t, 1024)

	path, err := store.Save(ctx, 7, "header.png", strings.NewReader("fake image bytes"), 16)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(path, "/uploads/surveys/7/") {
		t.Errorf("unexpected public path: %q", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("extension not preserved: %q", path)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(path, "/uploads/"))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestLocalImageStorage_RejectsBadUploads(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t, 10)

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := store.Save(ctx, 1, "script.exe", strings.NewReader("x"), 1)
		if !errors.Is(err, ErrUnsupportedImageType) {
			t.Errorf("expected ErrUnsupportedImageType, got %v", err)
		}
	})

	t.Run("declared size too large", func(t *testing.T) {
		_, err := store.Save(ctx, 1, "big.png", strings.NewReader("x"), 11)
		if !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("expected ErrImageTooLarge, got %v", err)
		}
	})

	t.Run("actual size too large despite small declared size", func(t *testing.T) {
		_, err := store.Save(ctx, 1, "liar.png", strings.NewReader(strings.Repeat("x", 20)), 5)
		if !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("expected ErrImageTooLarge, got %v", err)
		}
	})
}

func TestLocalImageStorage_Delete(t *testing.T) {
	ctx := context.Background()
	store, dir := newTestStorage(t, 1024)

	path, err := store.Save(ctx, 3, "logo.jpg", strings.NewReader("img"), 3)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(path, "/uploads/"))
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}

	t.Run("deleting twice is fine", func(t *testing.T) {
		if err := store.Delete(ctx, path); err != nil {
			t.Errorf("second delete should be a no-op, got %v", err)
		}
	})

	t.Run("foreign path rejected", func(t *testing.T) {
		if err := store.Delete(ctx, "/etc/passwd"); err == nil {
			t.Error("expected an error for an unmanaged path")
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		if err := store.Delete(ctx, "/uploads/../../etc/passwd"); err == nil {
			t.Error("expected an error for a traversal path")
		}
	})
}
