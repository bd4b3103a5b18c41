package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/events"
	"github.com/Skotchmaster/hospital_management/internal/hash"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/pictures"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res := env.register(t, "a@x.com", models.RoleDoctor)

	assert.Equal(t, models.RoleDoctor, res.User.Role)
	assert.Empty(t, res.User.PasswordHash)
	assert.Nil(t, res.User.RefreshTokenHash)
	require.NotNil(t, res.Doctor)
	assert.Equal(t, res.User.ID, res.Doctor.UserID)
	assert.Nil(t, res.Patient)
	assert.Len(t, env.pictures.uploaded, 1)
	assert.Equal(t, []events.Type{events.UserRegistered}, env.events.types())

	stored, err := env.repo.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "pw123"))
	assert.False(t, hash.CheckPassword(stored.PasswordHash, "pw1234"))
}

func TestAuthService_Register_Patient(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	res := env.register(t, "p@x.com", models.RolePatient)

	require.NotNil(t, res.Patient)
	assert.Nil(t, res.Doctor)
	assert.Equal(t, models.GenderFemale, res.Patient.Gender)
}

func TestAuthService_Register_ProfileLists(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.auth.Register(ctx, RegisterInput{
		Name:     "d",
		Email:    "d@x.com",
		Password: "pw",
		Role:     models.RoleDoctor,
		Picture:  picture(),
		Doctor:   models.Doctor{WorksInHospitals: models.StringList{"h1", " ", "h2", "h1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, []string(doc.Doctor.WorksInHospitals))

	admitted := " hosp-9 "
	pat, err := env.auth.Register(ctx, RegisterInput{
		Name:     "p",
		Email:    "p@x.com",
		Password: "pw",
		Role:     models.RolePatient,
		Picture:  picture(),
		Patient:  models.Patient{AdmittedIn: &admitted},
		MedicalHistory: []HistoryInput{
			{Condition: "asthma", Medications: []string{"inhaler"}},
			{Condition: "flu"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, pat.Patient.AdmittedIn)
	assert.Equal(t, "hosp-9", *pat.Patient.AdmittedIn)
	require.Len(t, pat.Patient.MedicalHistory, 2)
	assert.NotEmpty(t, pat.Patient.MedicalHistory[0].ID)
	assert.NotEqual(t, pat.Patient.MedicalHistory[0].ID, pat.Patient.MedicalHistory[1].ID)
	assert.Equal(t, []string{}, pat.Patient.MedicalHistory[1].Medications)

	stored, err := env.repo.PatientByUserID(ctx, pat.User.ID)
	require.NoError(t, err)
	assert.Len(t, stored.MedicalHistory, 2)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	valid := func() RegisterInput {
		return RegisterInput{Name: "n", Email: "v@x.com", Password: "pw", Role: models.RoleDoctor, Picture: picture()}
	}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{name: "empty name", mutate: func(in *RegisterInput) { in.Name = " " }},
		{name: "empty email", mutate: func(in *RegisterInput) { in.Email = "" }},
		{name: "empty password", mutate: func(in *RegisterInput) { in.Password = "" }},
		{name: "password over 72 bytes", mutate: func(in *RegisterInput) { in.Password = strings.Repeat("p", 73) }},
		{name: "unknown role", mutate: func(in *RegisterInput) { in.Role = "Nurse" }},
		{name: "missing picture", mutate: func(in *RegisterInput) { in.Picture = nil }},
		{name: "history without condition", mutate: func(in *RegisterInput) {
			in.Role = models.RolePatient
			in.MedicalHistory = []HistoryInput{{Condition: " "}}
		}},
		{name: "bad gender", mutate: func(in *RegisterInput) {
			in.Role = models.RolePatient
			in.Patient.Gender = "X"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			res, err := env.auth.Register(ctx, in)
			assert.Nil(t, res)
			requireKind(t, err, apperr.KindBadRequest)
		})
	}
	assert.Empty(t, env.pictures.uploaded)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "dup@x.com", models.RoleDoctor)

	_, err := env.auth.Register(context.Background(), RegisterInput{
		Name: "again", Email: "dup@x.com", Password: "pw", Role: models.RolePatient, Picture: picture(),
	})
	requireKind(t, err, apperr.KindConflict)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 403, e.Code)
	assert.Len(t, env.pictures.uploaded, 1, "no upload for a taken email")
}

func TestAuthService_Register_UploadFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{name: "storage unavailable", err: pictures.ErrUnavailable, kind: apperr.KindUnauthorized},
		{name: "unsupported picture", err: fmt.Errorf("%w: text/plain", pictures.ErrInvalidPicture), kind: apperr.KindUnauthorized},
		{name: "network", err: errors.New("connection reset"), kind: apperr.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.pictures.uploadErr = tt.err

			_, err := env.auth.Register(context.Background(), RegisterInput{
				Name: "n", Email: "u@x.com", Password: "pw", Role: models.RoleDoctor, Picture: picture(),
			})
			requireKind(t, err, tt.kind)

			_, err = env.repo.UserByEmail(context.Background(), "u@x.com")
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "a@x.com", models.RoleDoctor)

	res, err := env.auth.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)

	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.Empty(t, res.User.PasswordHash)
	require.NotNil(t, res.Doctor)
	assert.Equal(t, reg.Doctor.ID, res.Doctor.ID)

	access, err := env.issuer.VerifyAccessToken(res.Tokens.Access.Value)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, access.Subject)
	assert.Equal(t, "a@x.com", access.Email)

	refresh, err := env.issuer.VerifyRefreshToken(res.Tokens.Refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, refresh.Subject)

	stored, err := env.repo.UserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshTokenHash)
	assert.Equal(t, hash.TokenDigest(res.Tokens.Refresh.Value), *stored.RefreshTokenHash)

	assert.Contains(t, env.events.types(), events.UserLoggedIn)
}

func TestAuthService_Login_Failures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "a@x.com", models.RoleDoctor)

	tests := []struct {
		name     string
		email    string
		password string
		kind     apperr.Kind
	}{
		{name: "missing email", email: "", password: "pw123", kind: apperr.KindBadRequest},
		{name: "missing password", email: "a@x.com", password: "", kind: apperr.KindBadRequest},
		{name: "unknown email", email: "b@x.com", password: "pw123", kind: apperr.KindNotFound},
		{name: "wrong password", email: "a@x.com", password: "wrong", kind: apperr.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.auth.Login(context.Background(), tt.email, tt.password)
			assert.Nil(t, res)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestAuthService_Refresh_Rotation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "a@x.com", models.RoleDoctor)

	login, err := env.auth.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)
	first := login.Tokens.Refresh.Value

	second, err := env.auth.Refresh(ctx, first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second.Refresh.Value)

	third, err := env.auth.Refresh(ctx, second.Refresh.Value)
	require.NoError(t, err)
	assert.NotEmpty(t, third.Access.Value)

	_, err = env.auth.Refresh(ctx, first)
	requireKind(t, err, apperr.KindUnauthorized)
	assert.ErrorIs(t, err, storage.ErrTokenMismatch)

	_, err = env.auth.Refresh(ctx, second.Refresh.Value)
	requireKind(t, err, apperr.KindUnauthorized)

	_, err = env.auth.Refresh(ctx, third.Refresh.Value)
	require.NoError(t, err)
}

func TestAuthService_Refresh_Rejects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "a@x.com", models.RoleDoctor)

	login, err := env.auth.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)
	rt := login.Tokens.Refresh.Value

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "truncated", token: rt[:len(rt)-5]},
		{name: "tampered", token: rt[:len(rt)-2] + "xy"},
		{name: "access token", token: login.Tokens.Access.Value},
		{name: "garbage", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Refresh(ctx, tt.token)
			requireKind(t, err, apperr.KindUnauthorized)
		})
	}

	_, err = env.auth.Refresh(ctx, rt)
	require.NoError(t, err, "failed attempts must not revoke the session")
}

func TestAuthService_Logout_RevokesRefresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "a@x.com", models.RoleDoctor)

	login, err := env.auth.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, reg.User))

	stored, err := env.repo.UserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshTokenHash)

	_, err = env.auth.Refresh(ctx, login.Tokens.Refresh.Value)
	requireKind(t, err, apperr.KindUnauthorized)

	requireKind(t, env.auth.Logout(ctx, nil), apperr.KindUnauthorized)
	assert.Contains(t, env.events.types(), events.UserLoggedOut)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "a@x.com", models.RolePatient)

	_, err := env.auth.UpdateProfile(ctx, reg.User, ProfileInput{})
	requireKind(t, err, apperr.KindBadRequest)

	_, err = env.auth.UpdateProfile(ctx, reg.User, ProfileInput{OldPassword: "nope", NewPassword: "new"})
	requireKind(t, err, apperr.KindUnauthorized)

	_, err = env.auth.UpdateProfile(ctx, reg.User, ProfileInput{OldPassword: "pw123", NewPassword: strings.Repeat("p", 73)})
	requireKind(t, err, apperr.KindBadRequest)

	name := "Renamed"
	u, err := env.auth.UpdateProfile(ctx, reg.User, ProfileInput{Name: &name, OldPassword: "pw123", NewPassword: "new-pw"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Name)
	assert.Empty(t, u.PasswordHash)

	_, err = env.auth.Login(ctx, "a@x.com", "pw123")
	requireKind(t, err, apperr.KindUnauthorized)
	_, err = env.auth.Login(ctx, "a@x.com", "new-pw")
	require.NoError(t, err)
}

func TestAuthService_UpdatePicture(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "a@x.com", models.RoleDoctor)
	oldID := reg.User.Picture.PublicID

	u, err := env.auth.UpdatePicture(ctx, reg.User, picture())
	require.NoError(t, err)
	assert.NotEqual(t, oldID, u.Picture.PublicID)
	assert.Equal(t, []string{oldID}, env.pictures.destroyed)

	_, err = env.auth.UpdatePicture(ctx, reg.User, nil)
	requireKind(t, err, apperr.KindBadRequest)

	env.pictures.uploadErr = pictures.ErrUnavailable
	_, err = env.auth.UpdatePicture(ctx, reg.User, picture())
	requireKind(t, err, apperr.KindUnauthorized)
}

func TestAuthService_GetProfile_And_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "a@x.com", models.RolePatient)

	u, err := env.auth.GetProfile(ctx, reg.User)
	require.NoError(t, err)
	assert.Equal(t, reg.User.Email, u.Email)
	assert.Empty(t, u.PasswordHash)

	require.NoError(t, env.auth.DeleteAccount(ctx, reg.User))
	assert.Contains(t, env.pictures.destroyed, reg.User.Picture.PublicID)
	assert.Contains(t, env.events.types(), events.UserDeleted)

	_, err = env.repo.PatientByUserID(ctx, reg.User.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = env.auth.GetProfile(ctx, reg.User)
	requireKind(t, err, apperr.KindNotFound)
	requireKind(t, env.auth.DeleteAccount(ctx, reg.User), apperr.KindNotFound)
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	reg := env.register(t, "a@x.com", models.RoleDoctor)

	login, err := env.auth.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)

	u, err := env.auth.Authenticate(ctx, login.Tokens.Access.Value)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, u.ID)
	assert.Empty(t, u.PasswordHash)

	for _, tok := range []string{"", "abc.def.ghi", login.Tokens.Refresh.Value} {
		_, err := env.auth.Authenticate(ctx, tok)
		requireKind(t, err, apperr.KindUnauthorized)
	}

	require.NoError(t, env.auth.DeleteAccount(ctx, reg.User))
	_, err = env.auth.Authenticate(ctx, login.Tokens.Access.Value)
	requireKind(t, err, apperr.KindUnauthorized)
}

func TestAuthService_PublishFailureIsIgnored(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.events.err = errors.New("broker down")

	res := env.register(t, "a@x.com", models.RoleDoctor)
	assert.NotEmpty(t, res.User.ID)
}
