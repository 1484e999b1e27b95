package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Errors returned on rejected uploads.
var (
	ErrUnsupportedImageType = fmt.Errorf("unsupported image type")
	ErrImageTooLarge        = fmt.Errorf("image exceeds the size limit")
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ImageStorage persists uploaded survey images and returns the public path
// they are served under.
type ImageStorage interface {
	Save(ctx context.Context, surveyID uint, fileName string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, publicPath string) error
}

// LocalImageStorage stores images on the local filesystem, one directory per
// survey. Stored names are random, so uploads cannot collide or overwrite
// each other.
type LocalImageStorage struct {
	baseDir    string
	publicBase string
	maxSize    int64
	logger     *slog.Logger
}

func NewLocalImageStorage(baseDir string, maxSize int64, logger *slog.Logger) *LocalImageStorage {
	return &LocalImageStorage{
		baseDir:    baseDir,
		publicBase: "/uploads",
		maxSize:    maxSize,
		logger:     logger,
	}
}

func (s *LocalImageStorage) Save(ctx context.Context, surveyID uint, fileName string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", ErrUnsupportedImageType
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrImageTooLarge
	}

	dir := filepath.Join(s.baseDir, "surveys", fmt.Sprintf("%d", surveyID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	storedName := uuid.NewString() + ext
	fullPath := filepath.Join(dir, storedName)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Guard the copy too: the declared size is client-supplied.
	limit := io.Reader(r)
	if s.maxSize > 0 {
		limit = io.LimitReader(r, s.maxSize+1)
	}
	written, err := io.Copy(file, limit)
	if err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(fullPath)
		return "", ErrImageTooLarge
	}

	s.logger.Info("Stored survey image", "survey_id", surveyID, "file", storedName, "bytes", written)

	return fmt.Sprintf("%s/surveys/%d/%s", s.publicBase, surveyID, storedName), nil
}

// Delete removes a stored image by its public path. Paths outside the upload
// tree are rejected.
func (s *LocalImageStorage) Delete(ctx context.Context, publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, s.publicBase+"/")
	if !ok {
		return fmt.Errorf("path %q is not managed by this storage", publicPath)
	}
	if strings.Contains(rel, "..") {
		return fmt.Errorf("path %q escapes the upload directory", publicPath)
	}

	fullPath := filepath.Join(s.baseDir, rel)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Info("Deleted survey image", "path", publicPath)
	return nil
}
