package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/logging"
	"github.com/Skotchmaster/hospital_management/internal/models"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	userKey = "user"
)

// Authenticator resolves an access token to a sanitized identity.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type Session struct {
	Auth Authenticator
}

func NewSession(a Authenticator) *Session {
	return &Session{Auth: a}
}

// RequireAuth admits the request only with a valid access token, read from
// the accessToken cookie or else from an Authorization Bearer header.
func (m *Session) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "session")

		token := accessToken(c)
		if token == "" {
			l.Warn("session_rejected", "status", 401, "reason", "token missing")
			return apperr.Unauthorized("unauthorized access, token is not present")
		}

		user, err := m.Auth.Authenticate(ctx, token)
		if err != nil {
			l.Warn("session_rejected", "status", 401, "error", err)
			return err
		}

		c.Set(userKey, user)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l.With("user_id", user.ID))))
		return next(c)
	}
}

// CurrentUser returns the identity attached by RequireAuth, or nil.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func accessToken(c echo.Context) string {
	if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	return ""
}
