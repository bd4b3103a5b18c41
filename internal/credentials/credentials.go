// Package credentials owns password hashing and refresh token persistence.
// Users handed out by Store never carry the password hash or the refresh
// token digest.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/hospital_management/internal/hash"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

var ErrPasswordMismatch = errors.New("password mismatch")

type Store struct {
	users storage.Users
	cost  int
}

func New(users storage.Users, bcryptCost int) *Store {
	return &Store{users: users, cost: bcryptCost}
}

// Change describes a profile update. Password is the new plaintext password.
type Change struct {
	Name     *string
	Password *string
	Picture  *models.Picture
}

// Create hashes password and stores the account. A duplicate email yields
// storage.ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, acc *models.Account, password string) (*models.User, error) {
	pwHash, err := hash.HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acc.User.PasswordHash = pwHash
	acc.User.RefreshTokenHash = nil

	if err := s.users.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	pub := acc.User.Public()
	return &pub, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.User, error) {
	return public(s.users.UserByID(ctx, id))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return public(s.users.UserByEmail(ctx, email))
}

// Authenticate returns storage.ErrNotFound for an unknown email and
// ErrPasswordMismatch for a wrong password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(u.PasswordHash, password) {
		return nil, ErrPasswordMismatch
	}
	pub := u.Public()
	return &pub, nil
}

func (s *Store) VerifyPassword(ctx context.Context, id, candidate string) error {
	u, err := s.users.UserByID(ctx, id)
	if err != nil {
		return err
	}
	if !hash.CheckPassword(u.PasswordHash, candidate) {
		return ErrPasswordMismatch
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id string, ch Change) (*models.User, error) {
	upd := models.UserUpdate{Name: ch.Name, Picture: ch.Picture}
	if ch.Password != nil {
		pwHash, err := hash.HashPassword(*ch.Password, s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &pwHash
	}
	return public(s.users.UpdateUser(ctx, id, upd))
}

// UpdateRefreshToken stores the digest of token; nil revokes.
func (s *Store) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	if token == nil {
		return s.users.SetRefreshToken(ctx, id, nil)
	}
	digest := hash.TokenDigest(*token)
	return s.users.SetRefreshToken(ctx, id, &digest)
}

// RotateRefreshToken swaps presented for next only if presented is the token
// currently on record, otherwise storage.ErrTokenMismatch.
func (s *Store) RotateRefreshToken(ctx context.Context, id, presented, next string) error {
	return s.users.RotateRefreshToken(ctx, id, hash.TokenDigest(presented), hash.TokenDigest(next))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.users.DeleteAccount(ctx, id)
}

func public(u *models.User, err error) (*models.User, error) {
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}
