// Package media stores uploaded evidence images on local disk. A cloud bucket
// can replace this behind the same port without touching the service.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streetsource/streetsource-api/internal/domains/verification/ports"
)

// LocalStore writes uploads under a base directory and serves them from a
// public URL prefix.
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStore prepares the upload directory.
func NewLocalStore(baseDir, urlPrefix string) (*LocalStore, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, errors.New("media base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Store writes the content under a collision-free name and returns its URL.
func (s *LocalStore) Store(_ context.Context, filename string, content io.Reader) (string, error) {
	if s == nil || s.baseDir == "" {
		return "", errors.New("media store not configured")
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], safeExt(filename))
	path := filepath.Join(s.baseDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return ext
	default:
		return ".bin"
	}
}

var _ ports.MediaStore = (*LocalStore)(nil)
