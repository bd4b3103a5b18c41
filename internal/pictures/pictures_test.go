package pictures

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        string
		ok          bool
	}{
		{"image/jpeg", ".jpg", true},
		{"image/png", ".png", true},
		{"image/webp", ".webp", true},
		{"image/gif", ".gif", true},
		{"application/pdf", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := extension(tt.contentType)
		assert.Equal(t, tt.ok, ok, tt.contentType)
		assert.Equal(t, tt.want, got, tt.contentType)
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	_, err := Disabled{}.Upload(context.Background(), "u", File{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, Disabled{}.Destroy(context.Background(), "key"))
}

func TestMinioStore_Validation(t *testing.T) {
	t.Parallel()

	s := &MinioStore{cfg: MinioConfig{Bucket: "b", MaxBytes: 4, PublicBaseURL: "http://cdn/"}}
	ctx := context.Background()

	tests := []struct {
		name string
		f    File
	}{
		{name: "no body", f: File{ContentType: "image/png", Size: 1}},
		{name: "empty", f: File{ContentType: "image/png", Body: strings.NewReader("")}},
		{name: "too large", f: File{ContentType: "image/png", Size: 5, Body: strings.NewReader("12345")}},
		{name: "bad type", f: File{ContentType: "text/plain", Size: 1, Body: strings.NewReader("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Upload(ctx, "owner", tt.f)
			assert.ErrorIs(t, err, ErrInvalidPicture)
		})
	}

	assert.Equal(t, "http://cdn/b/pictures/o/k.png", s.objectURL("pictures/o/k.png"))
}

// TestMinioStore_Integration runs against a MinIO container when
// GO_TEST_INTEGRATION is set.
func TestMinioStore_Integration(t *testing.T) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const (
		rootUser     = "root"
		rootPassword = "rootpass"
		bucket       = "pictures"
	)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "docker.io/minio/minio:latest",
			Env:          map[string]string{"MINIO_ROOT_USER": rootUser, "MINIO_ROOT_PASSWORD": rootPassword},
			Cmd:          []string{"server", "/data"},
			ExposedPorts: []string{"9000/tcp"},
			WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)
	addr := fmt.Sprintf("%s:%s", host, port.Port())

	cfg := MinioConfig{
		Endpoint:  "http://" + addr,
		AccessKey: rootUser,
		SecretKey: rootPassword,
		Bucket:    bucket,
		MaxBytes:  1 << 20,
	}

	_, err = NewMinio(ctx, cfg)
	require.Error(t, err, "bucket does not exist yet")

	admin, err := mclient.New(addr, &mclient.Options{Creds: credentials.NewStaticV4(rootUser, rootPassword, "")})
	require.NoError(t, err)
	require.NoError(t, admin.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{Region: "us-east-1"}))

	s, err := NewMinio(ctx, cfg)
	require.NoError(t, err)

	body := []byte("\x89PNG fake")
	pic, err := s.Upload(ctx, "owner-1", File{Name: "a.png", ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pic.PublicID, "pictures/owner-1/"))
	assert.True(t, strings.HasSuffix(pic.PublicID, ".png"))
	assert.Equal(t, "http://"+addr+"/"+bucket+"/"+pic.PublicID, pic.URL)

	info, err := admin.StatObject(ctx, bucket, pic.PublicID, mclient.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.ContentType)

	require.NoError(t, s.Destroy(ctx, pic.PublicID))
	_, err = admin.StatObject(ctx, bucket, pic.PublicID, mclient.StatObjectOptions{})
	require.Error(t, err)
}
