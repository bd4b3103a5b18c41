// Package csrf guards cookie-authenticated writes with a double-submit token.
package csrf

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"
)

const (
	CookieName = "XSRF-TOKEN"
	HeaderName = "X-CSRF-Token"
	FormField  = "csrf_token"
)

type Config struct {
	Secure bool
	// SkipPaths are exact request paths that need no token, typically the
	// endpoints that run before a session exists.
	SkipPaths []string
}

// Middleware issues the token cookie on every request and demands the same
// value back in the X-CSRF-Token header (or csrf_token form field) on writes.
// Requests carrying a Bearer token are not cookie-authenticated and pass.
func Middleware(cfg Config) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return ecM.CSRFWithConfig(ecM.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			if _, ok := skip[c.Request().URL.Path]; ok {
				return true
			}
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			return strings.HasPrefix(strings.ToLower(auth), "bearer ")
		},
		TokenLookup:    "header:" + HeaderName + ",form:" + FormField,
		CookieName:     CookieName,
		CookiePath:     "/",
		CookieSecure:   cfg.Secure,
		CookieHTTPOnly: false,
		CookieSameSite: http.SameSiteLaxMode,
		CookieMaxAge:   86400,
		ContextKey:     "csrf_token",
	})
}
