package pictures

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	MaxBytes      int64
}

type MinioStore struct {
	cfg    MinioConfig
	client *mclient.Client
}

var _ Store = (*MinioStore)(nil)

// NewMinio builds the client and fails fast when the bucket is missing.
// The endpoint may carry an http or https scheme.
func NewMinio(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	const op = "pictures/NewMinio"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	if cfg.PublicBaseURL == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		cfg.PublicBaseURL = scheme + "://" + endpoint
	}

	return &MinioStore{cfg: cfg, client: client}, nil
}

// Upload writes the picture under pictures/<owner>/<uuid><ext>.
func (s *MinioStore) Upload(ctx context.Context, ownerID string, f File) (models.Picture, error) {
	const op = "pictures/Upload"

	if f.Body == nil || f.Size <= 0 || (s.cfg.MaxBytes > 0 && f.Size > s.cfg.MaxBytes) {
		return models.Picture{}, ErrInvalidPicture
	}
	ext, ok := extension(f.ContentType)
	if !ok {
		return models.Picture{}, ErrInvalidPicture
	}

	key := path.Join("pictures", ownerID, uuid.NewString()+ext)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, f.Body, f.Size, mclient.PutObjectOptions{
		ContentType: f.ContentType,
	})
	if err != nil {
		return models.Picture{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Picture{URL: s.objectURL(key), PublicID: key}, nil
}

// Destroy removes the object. Removing a missing key is not an error.
func (s *MinioStore) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, publicID, mclient.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("pictures/Destroy: %w", err)
	}
	return nil
}

func (s *MinioStore) objectURL(key string) string {
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + s.cfg.Bucket + "/" + key
}
