package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is always reported together with ErrInvalidToken.
	ErrTokenExpired = errors.New("token expired")
)

type AccessClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Subject is the identity a token is minted for.
type Subject struct {
	ID    string
	Name  string
	Email string
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Pair struct {
	Access  Token
	Refresh Token
}

type Issuer struct {
	cfg Config
	now func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	switch {
	case len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0:
		return nil, errors.New("tokens: signing secrets must not be empty")
	case string(cfg.AccessSecret) == string(cfg.RefreshSecret):
		return nil, errors.New("tokens: access and refresh secrets must differ")
	case cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0:
		return nil, errors.New("tokens: ttl must be positive")
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) IssueAccessToken(s Subject) (Token, error) {
	now := i.now()
	exp := now.Add(i.cfg.AccessTTL)
	claims := AccessClaims{
		Name:  s.Name,
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.AccessSecret)
	if err != nil {
		return Token{}, fmt.Errorf("sign access token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

func (i *Issuer) IssueRefreshToken(subjectID string) (Token, error) {
	now := i.now()
	exp := now.Add(i.cfg.RefreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.RefreshSecret)
	if err != nil {
		return Token{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

func (i *Issuer) IssuePair(s Subject) (Pair, error) {
	access, err := i.IssueAccessToken(s)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.IssueRefreshToken(s.ID)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) VerifyAccessToken(token string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := i.verify(token, i.cfg.AccessSecret, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (i *Issuer) VerifyRefreshToken(token string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := i.verify(token, i.cfg.RefreshSecret, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (i *Issuer) verify(token string, key []byte, claims jwt.Claims) error {
	if token == "" {
		return ErrInvalidToken
	}

	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return nil
}
