// Package pictures stores profile pictures in an S3 compatible bucket.
package pictures

import (
	"context"
	"errors"
	"io"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

var (
	// ErrInvalidPicture marks an upload that is empty, too large or of an
	// unsupported type.
	ErrInvalidPicture = errors.New("invalid picture")
	ErrUnavailable    = errors.New("picture storage is not configured")
)

type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Store interface {
	Upload(ctx context.Context, ownerID string, f File) (models.Picture, error)
	Destroy(ctx context.Context, publicID string) error
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// extension returns the object key suffix for contentType, or false when the
// type is not accepted.
func extension(contentType string) (string, bool) {
	ext, ok := allowedTypes[contentType]
	return ext, ok
}

// Disabled refuses every upload; Destroy is a no-op.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, File) (models.Picture, error) {
	return models.Picture{}, ErrUnavailable
}

func (Disabled) Destroy(context.Context, string) error { return nil }
