package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalService stores images on the local filesystem under a media
// root directory. URLs are paths relative to that root.
type LocalService struct {
	root string
}

func NewLocalService(root string) *LocalService {
	return &LocalService{root: root}
}

func (s *LocalService) SaveImage(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	name := uniqueFilename(filename)
	relPath := filepath.ToSlash(filepath.Join(dir, name))

	fullDir := filepath.Join(s.root, dir)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return relPath, nil
}

func (s *LocalService) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	fullPath := filepath.Join(s.root, filepath.FromSlash(url))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

var _ Service = (*LocalService)(nil)
