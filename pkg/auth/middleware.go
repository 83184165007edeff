package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	AuthorizationHeader = "Authorization"
	bearer              = "Bearer "

	authErrorKey = "auth_error"
	msgLogin     = "login required"
)

// Authenticate resolves the bearer token, if any, into a User on the request context.
// Requests without a usable token pass through anonymously; the reason is kept for
// LoginRequired and PermissionRequired to report.
func Authenticate(iss *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := c.Request().Header.Get(AuthorizationHeader)
			if authorization == "" {
				return next(c)
			}
			if !strings.HasPrefix(authorization, bearer) {
				c.Set(authErrorKey, "Invalid Authorization Header")
				return next(c)
			}
			u, err := iss.Parse(strings.TrimPrefix(authorization, bearer))
			if err != nil {
				c.Set(authErrorKey, err.Error())
				return next(c)
			}
			req := c.Request()
			c.SetRequest(req.WithContext(SetAuthContext(req.Context(), u)))
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	msg, ok := c.Get(authErrorKey).(string)
	if !ok {
		msg = msgLogin
	}
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func LoginRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := GetUser(c.Request().Context()); err != nil {
			return unauthorized(c)
		}
		return next(c)
	}
}

func PermissionRequired(perm string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := GetUser(c.Request().Context())
			if err != nil {
				return unauthorized(c)
			}
			if !u.HasPerm(perm) {
				return echo.NewHTTPError(http.StatusForbidden, "permission denied: "+perm)
			}
			return next(c)
		}
	}
}
