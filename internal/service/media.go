package service

import (
	"context"
	"io"

	"movie-review/internal/httperr"
	"movie-review/internal/storage"
)

// saveImage validates and stores an uploaded image, then best-effort
// deletes the image it replaces. Returns the new image URL.
func saveImage(ctx context.Context, media storage.Service, dir, filename string, r io.Reader, prevURL string) (string, error) {
	if _, err := storage.ValidateImageExtension(filename); err != nil {
		return "", httperr.BadRequest(err.Error())
	}

	url, err := media.SaveImage(ctx, dir, filename, r)
	if err != nil {
		return "", err
	}

	if prevURL != "" {
		_ = media.Delete(ctx, prevURL)
	}
	return url, nil
}
