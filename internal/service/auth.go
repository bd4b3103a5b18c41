package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/credentials"
	"github.com/Skotchmaster/hospital_management/internal/events"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/pictures"
	"github.com/Skotchmaster/hospital_management/internal/redact"
	"github.com/Skotchmaster/hospital_management/internal/storage"
	"github.com/Skotchmaster/hospital_management/internal/tokens"
)

// bcrypt refuses longer passwords.
const maxPasswordBytes = 72

// Profiles resolves the role profile attached to an identity.
type Profiles interface {
	DoctorByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	PatientByUserID(ctx context.Context, userID string) (*models.Patient, error)
}

type AuthService struct {
	Creds    *credentials.Store
	Issuer   *tokens.Issuer
	Profiles Profiles
	Pictures pictures.Store
	Events   events.Publisher
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Picture  *pictures.File

	// Role fields; only the set matching Role is used.
	Doctor         models.Doctor
	Patient        models.Patient
	MedicalHistory []HistoryInput
}

// AccountResult is an identity, without secrets, merged with its role profile.
type AccountResult struct {
	User    *models.User
	Doctor  *models.Doctor
	Patient *models.Patient
}

type LoginResult struct {
	AccountResult
	Tokens tokens.Pair
}

type ProfileInput struct {
	Name        *string
	OldPassword string
	NewPassword string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AccountResult, error) {
	l := logger(ctx, "auth.register").With("email", redact.Email(in.Email))

	in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if blank(in.Name) || blank(in.Email) || blank(in.Password) {
		l.Warn("register_failed", "status", 400, "reason", "missing fields")
		return nil, apperr.BadRequest("all fields are required")
	}
	if len(in.Password) > maxPasswordBytes {
		l.Warn("register_failed", "status", 400, "reason", "password too long")
		return nil, apperr.BadRequest("password must be at most 72 bytes")
	}
	if !in.Role.Valid() {
		l.Warn("register_failed", "status", 400, "reason", "invalid role")
		return nil, apperr.BadRequest("role must be Doctor or Patient")
	}
	if in.Role == models.RolePatient && in.Patient.Gender != "" && !in.Patient.Gender.Valid() {
		return nil, apperr.BadRequest("gender must be one of M, F, O")
	}
	if in.Role == models.RolePatient {
		for _, h := range in.MedicalHistory {
			if blank(h.Condition) {
				return nil, apperr.BadRequest("medical history condition is required")
			}
		}
	}
	if in.Picture == nil {
		l.Warn("register_failed", "status", 400, "reason", "missing picture")
		return nil, apperr.BadRequest("please provide the picture")
	}

	if _, err := s.Creds.FindByEmail(ctx, in.Email); err == nil {
		l.Warn("register_failed", "status", 403, "reason", "email exists")
		return nil, apperr.Conflict("user already exists with this email")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	userID := uuid.NewString()
	picture, err := s.Pictures.Upload(ctx, userID, *in.Picture)
	if err != nil {
		return nil, s.uploadError(l, err)
	}

	acc := &models.Account{User: &models.User{
		ID:      userID,
		Name:    in.Name,
		Email:   in.Email,
		Role:    in.Role,
		Picture: picture,
	}}
	switch in.Role {
	case models.RoleDoctor:
		d := in.Doctor
		d.WorksInHospitals = models.AddToSet(nil, cleanIDs(d.WorksInHospitals)...)
		acc.Doctor = &d
	case models.RolePatient:
		p := in.Patient
		p.AdmittedIn = nonBlank(p.AdmittedIn)
		p.MedicalHistory = nil
		for _, h := range in.MedicalHistory {
			p.MedicalHistory = append(p.MedicalHistory, historyEntry(h))
		}
		acc.Patient = &p
	}

	user, err := s.Creds.Create(ctx, acc, in.Password)
	if err != nil {
		s.destroyPicture(ctx, picture.PublicID)
		if errors.Is(err, storage.ErrAlreadyExists) {
			l.Warn("register_failed", "status", 403, "reason", "email exists")
			return nil, apperr.Conflict("user already exists with this email").Wrap(err)
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}

	l.Info("register_success", "user_id", user.ID, "role", string(user.Role))
	publish(ctx, s.Events, l, events.Event{Type: events.UserRegistered, UserID: user.ID, Role: string(user.Role)})

	return &AccountResult{User: user, Doctor: acc.Doctor, Patient: acc.Patient}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logger(ctx, "auth.login").With("email", redact.Email(email))

	if blank(email) || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing fields")
		return nil, apperr.BadRequest("all fields are required")
	}

	user, err := s.Creds.Authenticate(ctx, strings.TrimSpace(email), password)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		l.Warn("login_failed", "status", 404, "reason", "no such email")
		return nil, apperr.NotFound("no user exists with this email")
	case errors.Is(err, credentials.ErrPasswordMismatch):
		l.Warn("login_failed", "status", 401, "reason", "bad password")
		return nil, apperr.Unauthorized("provided password is invalid")
	case err != nil:
		l.Error("login_failed", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}

	res := &LoginResult{AccountResult: AccountResult{User: user}}
	if err := s.attachProfile(ctx, &res.AccountResult); err != nil {
		l.Error("login_failed", "status", 500, "reason", "profile lookup", "error", err)
		return nil, apperr.Internal(err)
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "issue session", "error", err)
		return nil, apperr.Internal(err)
	}
	res.Tokens = pair

	l.Info("login_success", "user_id", user.ID)
	publish(ctx, s.Events, l, events.Event{Type: events.UserLoggedIn, UserID: user.ID, Role: string(user.Role)})
	return res, nil
}

// Refresh rotates the session: the presented token must verify and still be
// the one on record, after which it is replaced and can never be used again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	l := logger(ctx, "auth.refresh")

	if refreshToken == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing token")
		return tokens.Pair{}, apperr.Unauthorized("refresh token is absent in request")
	}

	claims, err := s.Issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "invalid token", "error", err)
		return tokens.Pair{}, apperr.Unauthorized("invalid refresh token").Wrap(err)
	}

	user, err := s.Creds.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "subject not found")
			return tokens.Pair{}, apperr.Unauthorized("invalid refresh token").Wrap(err)
		}
		return tokens.Pair{}, apperr.Internal(err)
	}

	pair, err := s.Issuer.IssuePair(subject(user))
	if err != nil {
		return tokens.Pair{}, apperr.Internal(err)
	}

	if err := s.Creds.RotateRefreshToken(ctx, user.ID, refreshToken, pair.Refresh.Value); err != nil {
		if errors.Is(err, storage.ErrTokenMismatch) {
			l.Warn("refresh_failed", "status", 401, "reason", "token revoked or rotated", "user_id", user.ID)
			return tokens.Pair{}, apperr.Unauthorized("refresh token is expired or used").Wrap(err)
		}
		return tokens.Pair{}, apperr.Internal(err)
	}

	l.Info("refresh_success", "user_id", user.ID)
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	l := logger(ctx, "auth.logout")

	if err := requireUser(user); err != nil {
		l.Warn("logout_failed", "status", 401, "reason", "no identity")
		return err
	}
	if err := s.Creds.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.Unauthorized("logout was unsuccessful").Wrap(err)
		}
		return apperr.Internal(err)
	}

	l.Info("logout_success", "user_id", user.ID)
	publish(ctx, s.Events, l, events.Event{Type: events.UserLoggedOut, UserID: user.ID, Role: string(user.Role)})
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	l := logger(ctx, "auth.update_profile")

	if err := requireUser(user); err != nil {
		return nil, err
	}

	name := nonBlank(in.Name)
	changePassword := in.OldPassword != "" && in.NewPassword != ""
	if name == nil && !changePassword {
		return nil, apperr.BadRequest("please provide at least a name or password to update")
	}

	if changePassword && len(in.NewPassword) > maxPasswordBytes {
		return nil, apperr.BadRequest("password must be at most 72 bytes")
	}

	ch := credentials.Change{Name: name}
	if changePassword {
		if err := s.Creds.VerifyPassword(ctx, user.ID, in.OldPassword); err != nil {
			if errors.Is(err, credentials.ErrPasswordMismatch) {
				l.Warn("update_profile_failed", "status", 401, "reason", "old password mismatch", "user_id", user.ID)
				return nil, apperr.Unauthorized("old password is incorrect")
			}
			return nil, storageError(err, "user not found")
		}
		ch.Password = &in.NewPassword
	}

	updated, err := s.Creds.Update(ctx, user.ID, ch)
	if err != nil {
		return nil, storageError(err, "user not found")
	}
	l.Info("update_profile_success", "user_id", user.ID, "password_changed", changePassword)
	return updated, nil
}

// UpdatePicture uploads the new picture first and removes the previous one
// only after the identity points at the new object.
func (s *AuthService) UpdatePicture(ctx context.Context, user *models.User, file *pictures.File) (*models.User, error) {
	l := logger(ctx, "auth.update_picture")

	if err := requireUser(user); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperr.BadRequest("please provide the picture")
	}

	current, err := s.Creds.FindByID(ctx, user.ID)
	if err != nil {
		return nil, storageError(err, "user not found")
	}

	picture, err := s.Pictures.Upload(ctx, user.ID, *file)
	if err != nil {
		return nil, s.uploadError(l, err)
	}

	updated, err := s.Creds.Update(ctx, user.ID, credentials.Change{Picture: &picture})
	if err != nil {
		s.destroyPicture(ctx, picture.PublicID)
		return nil, storageError(err, "user not found")
	}

	s.destroyPicture(ctx, current.Picture.PublicID)
	l.Info("update_picture_success", "user_id", user.ID)
	return updated, nil
}

func (s *AuthService) GetProfile(ctx context.Context, user *models.User) (*models.User, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	u, err := s.Creds.FindByID(ctx, user.ID)
	if err != nil {
		return nil, storageError(err, "user not found")
	}
	return u, nil
}

// DeleteAccount removes the role profile and the identity, then the stored
// picture on a best-effort basis.
func (s *AuthService) DeleteAccount(ctx context.Context, user *models.User) error {
	l := logger(ctx, "auth.delete")

	if err := requireUser(user); err != nil {
		return err
	}
	current, err := s.Creds.FindByID(ctx, user.ID)
	if err != nil {
		return storageError(err, "user not found")
	}
	if err := s.Creds.Delete(ctx, user.ID); err != nil {
		return storageError(err, "user not found")
	}
	s.destroyPicture(ctx, current.Picture.PublicID)

	l.Info("delete_success", "user_id", user.ID)
	publish(ctx, s.Events, l, events.Event{Type: events.UserDeleted, UserID: user.ID, Role: string(current.Role)})
	return nil
}

// Authenticate resolves an access token to the identity it was issued for.
// Every failure is Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, apperr.Unauthorized("unauthorized access, token is not present")
	}
	claims, err := s.Issuer.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("unauthorized access").Wrap(err)
	}
	user, err := s.Creds.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Unauthorized("tokens are invalid").Wrap(err)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// issueSession mints a pair and records the refresh token before returning it.
func (s *AuthService) issueSession(ctx context.Context, user *models.User) (tokens.Pair, error) {
	pair, err := s.Issuer.IssuePair(subject(user))
	if err != nil {
		return tokens.Pair{}, err
	}
	if err := s.Creds.UpdateRefreshToken(ctx, user.ID, &pair.Refresh.Value); err != nil {
		return tokens.Pair{}, err
	}
	return pair, nil
}

func (s *AuthService) attachProfile(ctx context.Context, res *AccountResult) error {
	var err error
	switch res.User.Role {
	case models.RoleDoctor:
		res.Doctor, err = s.Profiles.DoctorByUserID(ctx, res.User.ID)
	case models.RolePatient:
		res.Patient, err = s.Profiles.PatientByUserID(ctx, res.User.ID)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

func (s *AuthService) uploadError(l *slog.Logger, err error) error {
	if errors.Is(err, pictures.ErrInvalidPicture) {
		l.Warn("picture_upload_failed", "status", 401, "reason", "invalid picture")
		return apperr.Unauthorized("picture is not uploaded, it must be a jpeg, png, webp or gif image within the size limit").Wrap(err)
	}
	l.Warn("picture_upload_failed", "status", 401, "error", err)
	return apperr.Unauthorized("picture is not uploaded").Wrap(err)
}

func (s *AuthService) destroyPicture(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.Pictures.Destroy(context.WithoutCancel(ctx), publicID); err != nil {
		logger(ctx, "auth.pictures").Warn("picture_destroy_failed", "public_id", publicID, "error", err)
	}
}

func subject(u *models.User) tokens.Subject {
	return tokens.Subject{ID: u.ID, Name: u.Name, Email: u.Email}
}
