package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/credentials"
	"github.com/Skotchmaster/hospital_management/internal/events"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/pictures"
	"github.com/Skotchmaster/hospital_management/internal/storage/gormrepo"
	"github.com/Skotchmaster/hospital_management/internal/tokens"
)

type fakePictures struct {
	mu        sync.Mutex
	uploadErr error
	uploaded  []string
	destroyed []string
}

func (f *fakePictures) Upload(_ context.Context, ownerID string, file pictures.File) (models.Picture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return models.Picture{}, f.uploadErr
	}
	key := fmt.Sprintf("pictures/%s/%s.png", ownerID, uuid.NewString())
	f.uploaded = append(f.uploaded, key)
	return models.Picture{URL: "http://img.test/" + key, PublicID: key}, nil
}

func (f *fakePictures) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, ev events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakePublisher) types() []events.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.Type, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	repo     *gormrepo.GormRepo
	issuer   *tokens.Issuer
	pictures *fakePictures
	events   *fakePublisher
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	repo, err := gormrepo.Open(context.Background(), gormrepo.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	issuer, err := tokens.NewIssuer(tokens.Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	pics := &fakePictures{}
	pub := &fakePublisher{}
	return &testEnv{
		repo:     repo,
		issuer:   issuer,
		pictures: pics,
		events:   pub,
		auth: &AuthService{
			Creds:    credentials.New(repo, bcrypt.MinCost),
			Issuer:   issuer,
			Profiles: repo,
			Pictures: pics,
			Events:   pub,
		},
	}
}

func picture() *pictures.File {
	return &pictures.File{Name: "me.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("png!")}
}

func (e *testEnv) register(t *testing.T, email string, role models.Role) *AccountResult {
	t.Helper()

	res, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     "User " + email,
		Email:    email,
		Password: "pw123",
		Role:     role,
		Picture:  picture(),
		Doctor:   models.Doctor{Salary: 1000, Qualification: "MD", ExperienceInYears: 5},
		Patient:  models.Patient{Age: 30, BloodGroup: "A+", Gender: models.GenderFemale},
	})
	require.NoError(t, err)
	return res
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()

	require.Error(t, err)
	var e *apperr.Error
	require.True(t, errors.As(err, &e), "expected *apperr.Error, got %T: %v", err, err)
	require.Equal(t, kind, e.Kind, "unexpected kind for %v", err)
}
