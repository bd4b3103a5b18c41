package credentials

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/hospital_management/internal/hash"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
	"github.com/Skotchmaster/hospital_management/internal/storage/gormrepo"
)

func newTestStore(t *testing.T) (*Store, *gormrepo.GormRepo) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	repo, err := gormrepo.Open(context.Background(), gormrepo.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return New(repo, bcrypt.MinCost), repo
}

func createUser(t *testing.T, s *Store, email, password string) *models.User {
	t.Helper()

	u, err := s.Create(context.Background(), &models.Account{
		User: &models.User{Name: "Ada", Email: email, Role: models.RolePatient},
	}, password)
	require.NoError(t, err)
	return u
}

func TestCreate_HashesAndSanitizes(t *testing.T) {
	t.Parallel()
	s, repo := newTestStore(t)

	u := createUser(t, s, "a@x.com", "pw123")
	assert.Empty(t, u.PasswordHash)
	assert.Nil(t, u.RefreshTokenHash)

	raw, err := repo.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", raw.PasswordHash)
	assert.True(t, hash.CheckPassword(raw.PasswordHash, "pw123"))
}

func TestCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	createUser(t, s, "a@x.com", "pw")
	_, err := s.Create(context.Background(), &models.Account{
		User: &models.User{Name: "B", Email: "a@x.com", Role: models.RoleDoctor},
	}, "pw")
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()
	created := createUser(t, s, "a@x.com", "pw123")

	u, err := s.Authenticate(ctx, "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.Empty(t, u.PasswordHash)

	_, err = s.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = s.Authenticate(ctx, "b@x.com", "pw123")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@x.com", "pw123")

	require.NoError(t, s.VerifyPassword(ctx, u.ID, "pw123"))
	for _, candidate := range []string{"", "pw12", "pw1234", "PW123"} {
		assert.ErrorIs(t, s.VerifyPassword(ctx, u.ID, candidate), ErrPasswordMismatch, candidate)
	}
	assert.ErrorIs(t, s.VerifyPassword(ctx, uuid.NewString(), "pw123"), storage.ErrNotFound)
}

func TestFind_Sanitized(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@x.com", "pw123")
	token := "refresh"
	require.NoError(t, s.UpdateRefreshToken(ctx, u.ID, &token))

	byID, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.PasswordHash)
	assert.Nil(t, byID.RefreshTokenHash)

	byEmail, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Empty(t, byEmail.PasswordHash)
	assert.Nil(t, byEmail.RefreshTokenHash)

	_, err = s.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdate_RehashesPassword(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@x.com", "old")

	name, pw := "Grace", "new"
	updated, err := s.Update(ctx, u.ID, Change{Name: &name, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.Name)
	assert.Empty(t, updated.PasswordHash)

	require.NoError(t, s.VerifyPassword(ctx, u.ID, "new"))
	assert.ErrorIs(t, s.VerifyPassword(ctx, u.ID, "old"), ErrPasswordMismatch)
}

func TestRefreshToken_Rotation(t *testing.T) {
	t.Parallel()
	s, repo := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@x.com", "pw")

	first, second := "token-1", "token-2"
	require.NoError(t, s.UpdateRefreshToken(ctx, u.ID, &first))

	raw, err := repo.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, raw.RefreshTokenHash)
	assert.NotEqual(t, first, *raw.RefreshTokenHash, "only the digest is stored")

	require.NoError(t, s.RotateRefreshToken(ctx, u.ID, first, second))
	assert.ErrorIs(t, s.RotateRefreshToken(ctx, u.ID, first, "token-3"), storage.ErrTokenMismatch)

	require.NoError(t, s.UpdateRefreshToken(ctx, u.ID, nil))
	assert.ErrorIs(t, s.RotateRefreshToken(ctx, u.ID, second, "token-3"), storage.ErrTokenMismatch)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@x.com", "pw")

	require.NoError(t, s.Delete(ctx, u.ID))
	_, err := s.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
