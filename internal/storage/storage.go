package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Upload directories, one per image kind.
const (
	ProfileImageDir = "users/profile_images"
	PosterImageDir  = "movies/poster_images"
	ReviewImageDir  = "reviews/images"
)

var imageExtensions = []string{"jpg", "jpeg", "png", "gif"}

// ErrBadExtension is returned when an uploaded filename does not carry
// an allowed image extension.
var ErrBadExtension = fmt.Errorf("not allowed extension. available extensions: %v", imageExtensions)

// Service persists uploaded media images. SaveImage returns the URL
// to store on the owning entity; Delete removes a previously saved
// image by that URL.
type Service interface {
	SaveImage(ctx context.Context, dir, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// ValidateImageExtension checks filename against the allowed image
// extensions and returns the extension without the dot.
func ValidateImageExtension(filename string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrBadExtension
}

// uniqueFilename appends a random hex suffix so repeated uploads of
// the same file never collide.
func uniqueFilename(filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(path.Base(filename), ext)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return base + "_" + suffix + ext
}
