package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/hospital_management/internal/middleware/auth"
	"github.com/Skotchmaster/hospital_management/internal/tokens"
)

type cookieJar struct {
	secure bool
}

func (j cookieJar) create(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j cookieJar) delete(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j cookieJar) setPair(c echo.Context, p tokens.Pair) {
	c.SetCookie(j.create(authmw.AccessCookie, p.Access.Value, p.Access.ExpiresAt))
	c.SetCookie(j.create(authmw.RefreshCookie, p.Refresh.Value, p.Refresh.ExpiresAt))
}

func (j cookieJar) clear(c echo.Context) {
	c.SetCookie(j.delete(authmw.AccessCookie))
	c.SetCookie(j.delete(authmw.RefreshCookie))
}
