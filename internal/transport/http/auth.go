package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"minibizz/planning/internal/auth"
)

const ownerKey = "owner"

// OwnerMiddleware resolves the calendar owner from the bearer token subject.
func OwnerMiddleware(cfg auth.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner, err := cfg.Owner(c.Request().Header.Get(echo.HeaderAuthorization))
			if errors.Is(err, auth.ErrMissingToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set(ownerKey, owner)
			c.SetRequest(c.Request().WithContext(auth.WithOwner(c.Request().Context(), owner)))
			return next(c)
		}
	}
}

func ownerFrom(c echo.Context) string {
	owner, _ := c.Get(ownerKey).(string)
	return owner
}
